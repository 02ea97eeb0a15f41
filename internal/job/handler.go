// AngelaMos | 2026
// handler.go

package job

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/templates/job-board/internal/core"
	"github.com/carterperez-dev/templates/job-board/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes mounts /jobs. Reads are public; writes require an employer
// or admin token and ownership is checked per job.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/jobs", func(r chi.Router) {
		r.Get("/", h.ListJobs)
		r.Get("/employer/{employerID}", h.ListByEmployer)
		r.Get("/{jobID}", h.GetJob)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Use(middleware.RequireRole(roleEmployer, roleAdmin))

			r.Post("/", h.CreateJob)
			r.Put("/{jobID}", h.UpdateJob)
			r.Delete("/{jobID}", h.DeleteJob)
		})
	})
}

func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.service.ListJobs(r.Context(), ListJobsParams{
		Search:   r.URL.Query().Get("search"),
		Location: r.URL.Query().Get("location"),
	})
	if err != nil {
		core.InternalServerError(w, r, err)
		return
	}

	core.OK(w, core.Envelope{"jobs": ToJobResponseList(jobs)})
}

func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := core.URLParamID(r, "jobID")
	if err != nil {
		core.BadRequest(w, "Invalid job id")
		return
	}

	job, err := h.service.GetJob(r.Context(), jobID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	core.OK(w, core.Envelope{"job": ToJobResponse(job)})
}

func (h *Handler) ListByEmployer(w http.ResponseWriter, r *http.Request) {
	employerID, err := core.URLParamID(r, "employerID")
	if err != nil {
		core.BadRequest(w, "Invalid employer id")
		return
	}

	jobs, err := h.service.ListByEmployer(r.Context(), employerID)
	if err != nil {
		core.InternalServerError(w, r, err)
		return
	}

	core.OK(w, core.Envelope{"jobs": ToJobResponseList(jobs)})
}

func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	job, err := h.service.CreateJob(r.Context(), middleware.GetActor(r.Context()), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	core.Created(w, core.Envelope{
		"message": "Job posted successfully",
		"jobId":   job.ID,
	})
}

func (h *Handler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := core.URLParamID(r, "jobID")
	if err != nil {
		core.BadRequest(w, "Invalid job id")
		return
	}

	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	if _, err := h.service.UpdateJob(r.Context(), middleware.GetActor(r.Context()), jobID, req); err != nil {
		h.writeError(w, r, err)
		return
	}

	core.Message(w, "Job updated successfully")
}

func (h *Handler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := core.URLParamID(r, "jobID")
	if err != nil {
		core.BadRequest(w, "Invalid job id")
		return
	}

	if err := h.service.DeleteJob(r.Context(), middleware.GetActor(r.Context()), jobID); err != nil {
		h.writeError(w, r, err)
		return
	}

	core.Message(w, "Job deleted successfully")
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (JobRequest, bool) {
	var req JobRequest
	ok := core.Bind(w, r, &req)
	return req, ok
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrEmployerNotFound):
		core.NotFound(w, "employer")
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "job")
	case errors.Is(err, ErrEmployerRequired):
		core.JSONError(w, r, core.ValidationError("employer_id is required"))
	case errors.Is(err, ErrPostAsOther):
		core.Forbidden(w, "Employers can only post jobs as themselves")
	case errors.Is(err, ErrReassign):
		core.Forbidden(w, "Only admins can reassign a job to another employer")
	case errors.Is(err, ErrNotOwner):
		core.Forbidden(w, "You can only manage your own jobs")
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "")
	default:
		core.InternalServerError(w, r, err)
	}
}
