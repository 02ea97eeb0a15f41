// AngelaMos | 2026
// dto.go

package job

import (
	"strings"
	"time"
)

// JobRequest is the body of both create and update. EmployerID may be zero,
// meaning the caller (create) or the current owner (update).
type JobRequest struct {
	Title       string `json:"title"       validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=10000"`
	Company     string `json:"company"     validate:"required,max=200"`
	Location    string `json:"location"    validate:"required,max=200"`
	EmployerID  int64  `json:"employer_id" validate:"omitempty,gt=0"`
}

func (r *JobRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Company = strings.TrimSpace(r.Company)
	r.Location = strings.TrimSpace(r.Location)
}

type JobResponse struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Company      string    `json:"company"`
	Location     string    `json:"location"`
	EmployerID   int64     `json:"employer_id"`
	EmployerName string    `json:"employer_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ListJobsParams struct {
	Search   string
	Location string
}

func ToJobResponse(j *Job) JobResponse {
	return JobResponse{
		ID:           j.ID,
		Title:        j.Title,
		Description:  j.Description,
		Company:      j.Company,
		Location:     j.Location,
		EmployerID:   j.EmployerID,
		EmployerName: j.EmployerName,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
	}
}

func ToJobResponseList(jobs []Job) []JobResponse {
	responses := make([]JobResponse, 0, len(jobs))
	for i := range jobs {
		responses = append(responses, ToJobResponse(&jobs[i]))
	}
	return responses
}
