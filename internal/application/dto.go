// AngelaMos | 2026
// dto.go

package application

import (
	"time"
)

// ApplyRequest names the job. UserID defaults to the caller.
type ApplyRequest struct {
	JobID  int64 `json:"job_id"  validate:"required,gt=0"`
	UserID int64 `json:"user_id" validate:"omitempty,gt=0"`
}

type UserApplicationResponse struct {
	ID           int64     `json:"id"`
	JobID        int64     `json:"job_id"`
	UserID       int64     `json:"user_id"`
	AppliedDate  time.Time `json:"applied_date"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Location     string    `json:"location"`
	Description  string    `json:"description"`
	EmployerName string    `json:"employer_name"`
}

type ApplicantResponse struct {
	ID          int64     `json:"id"`
	JobID       int64     `json:"job_id"`
	UserID      int64     `json:"user_id"`
	AppliedDate time.Time `json:"applied_date"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
}

func ToUserApplicationList(apps []UserApplication) []UserApplicationResponse {
	out := make([]UserApplicationResponse, 0, len(apps))
	for _, a := range apps {
		out = append(out, UserApplicationResponse{
			ID:           a.ID,
			JobID:        a.JobID,
			UserID:       a.UserID,
			AppliedDate:  a.AppliedDate,
			Title:        a.Title,
			Company:      a.Company,
			Location:     a.Location,
			Description:  a.Description,
			EmployerName: a.EmployerName,
		})
	}
	return out
}

func ToApplicantList(applicants []Applicant) []ApplicantResponse {
	out := make([]ApplicantResponse, 0, len(applicants))
	for _, a := range applicants {
		out = append(out, ApplicantResponse{
			ID:          a.ID,
			JobID:       a.JobID,
			UserID:      a.UserID,
			AppliedDate: a.AppliedDate,
			Name:        a.Name,
			Email:       a.Email,
		})
	}
	return out
}
