// AngelaMos | 2026
// handler.go

package user

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/templates/job-board/internal/core"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes mounts account management. Every route is admin only.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/users", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.ListUsers)
		r.Put("/{userID}", h.UpdateUser)
		r.Delete("/{userID}", h.DeleteUser)
	})
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	params := ListUsersParams{
		Search: r.URL.Query().Get("search"),
		Role:   r.URL.Query().Get("role"),
	}

	if params.Role != "" && !ValidRole(params.Role) {
		core.JSONError(w, r, core.ValidationError("role must be one of: admin employer job_seeker"))
		return
	}

	users, err := h.service.ListUsers(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, r, err)
		return
	}

	core.OK(w, core.Envelope{"users": ToUserResponseList(users)})
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := core.URLParamID(r, "userID")
	if err != nil {
		core.BadRequest(w, "Invalid user id")
		return
	}

	var req UpdateUserRequest
	if !core.Bind(w, r, &req) {
		return
	}

	if _, err := h.service.UpdateUser(r.Context(), userID, req); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		if errors.Is(err, ErrEmailInUse) {
			core.Conflict(w, "Email already in use by another user")
			return
		}
		core.InternalServerError(w, r, err)
		return
	}

	core.Message(w, "User updated successfully")
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := core.URLParamID(r, "userID")
	if err != nil {
		core.BadRequest(w, "Invalid user id")
		return
	}

	if err := h.service.DeleteUser(r.Context(), userID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, r, err)
		return
	}

	core.Message(w, "User deleted successfully")
}
