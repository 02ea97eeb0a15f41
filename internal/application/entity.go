// AngelaMos | 2026
// entity.go

package application

import (
	"time"
)

// Application links a user to a job. It never changes after insert.
type Application struct {
	ID          int64     `db:"id"`
	JobID       int64     `db:"job_id"`
	UserID      int64     `db:"user_id"`
	AppliedDate time.Time `db:"applied_date"`
}

// UserApplication is an application seen from the applicant's side.
type UserApplication struct {
	Application
	Title        string `db:"title"`
	Company      string `db:"company"`
	Location     string `db:"location"`
	Description  string `db:"description"`
	EmployerName string `db:"employer_name"`
}

// Applicant is an application seen from the job owner's side.
type Applicant struct {
	Application
	Name  string `db:"name"`
	Email string `db:"email"`
}
