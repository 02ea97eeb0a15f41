// AngelaMos | 2026
// handler.go

package application

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

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/applications", func(r chi.Router) {
		r.Use(authenticator)

		r.With(middleware.RequireRole(roleJobSeeker, roleAdmin)).Post("/", h.Apply)
		r.Get("/user/{userID}", h.ListByUser)
		r.Get("/job/{jobID}", h.ListByJob)
	})
}

func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if !core.Bind(w, r, &req) {
		return
	}

	app, err := h.service.Apply(r.Context(), middleware.GetActor(r.Context()), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyApplied):
			core.Conflict(w, "You have already applied for this job")
		case errors.Is(err, ErrApplicantNotFound):
			core.NotFound(w, "user")
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "job")
		case errors.Is(err, ErrApplyForOther):
			core.Forbidden(w, "You can only apply on your own behalf")
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "")
		default:
			core.InternalServerError(w, r, err)
		}
		return
	}

	core.Created(w, core.Envelope{
		"message":       "Application submitted successfully",
		"applicationId": app.ID,
	})
}

func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := core.URLParamID(r, "userID")
	if err != nil {
		core.BadRequest(w, "Invalid user id")
		return
	}

	apps, err := h.service.ListByUser(r.Context(), middleware.GetActor(r.Context()), userID)
	if err != nil {
		if errors.Is(err, core.ErrForbidden) {
			core.Forbidden(w, "You can only view your own applications")
			return
		}
		core.InternalServerError(w, r, err)
		return
	}

	core.OK(w, core.Envelope{"applications": ToUserApplicationList(apps)})
}

func (h *Handler) ListByJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := core.URLParamID(r, "jobID")
	if err != nil {
		core.BadRequest(w, "Invalid job id")
		return
	}

	applicants, err := h.service.ListByJob(r.Context(), middleware.GetActor(r.Context()), jobID)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "job")
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "Only the job owner can view applicants")
		default:
			core.InternalServerError(w, r, err)
		}
		return
	}

	core.OK(w, core.Envelope{"applicants": ToApplicantList(applicants)})
}
