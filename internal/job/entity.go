// AngelaMos | 2026
// entity.go

package job

import (
	"time"
)

// Job is a posting. EmployerName is filled by read queries that join users.
type Job struct {
	ID           int64     `db:"id"`
	Title        string    `db:"title"`
	Description  string    `db:"description"`
	Company      string    `db:"company"`
	Location     string    `db:"location"`
	EmployerID   int64     `db:"employer_id"`
	EmployerName string    `db:"employer_name"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (j *Job) OwnedBy(userID int64) bool {
	return userID != 0 && j.EmployerID == userID
}
