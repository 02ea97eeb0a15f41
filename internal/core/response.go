// AngelaMos | 2026
// response.go

package core

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// Envelope is the body of every API response. Writers add "success".
type Envelope map[string]any

func JSON(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // best-effort response write
	_ = json.NewEncoder(w).Encode(body)
}

func OK(w http.ResponseWriter, body Envelope) {
	JSON(w, http.StatusOK, withSuccess(body, true))
}

func Created(w http.ResponseWriter, body Envelope) {
	JSON(w, http.StatusCreated, withSuccess(body, true))
}

func Message(w http.ResponseWriter, message string) {
	OK(w, Envelope{"message": message})
}

// JSONError answers with the AppError carried by err, or with a logged 500
// when err is unclassified.
func JSONError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		InternalServerError(w, r, err)
		return
	}
	writeAppError(w, appErr)
}

func writeAppError(w http.ResponseWriter, appErr *AppError) {
	JSON(w, appErr.StatusCode, Envelope{
		"success": false,
		"message": appErr.Message,
		"code":    appErr.Code,
	})
}

func BadRequest(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadRequest, Envelope{
		"success": false,
		"message": message,
		"code":    "BAD_REQUEST",
	})
}

func NotFound(w http.ResponseWriter, resource string) {
	writeAppError(w, NotFoundError(resource))
}

func Conflict(w http.ResponseWriter, message string) {
	writeAppError(w, ConflictError(message))
}

func Unauthorized(w http.ResponseWriter, message string) {
	writeAppError(w, UnauthorizedError(message))
}

func Forbidden(w http.ResponseWriter, message string) {
	writeAppError(w, ForbiddenError(message))
}

// InternalServerError logs the cause under the request id and answers with a
// generic message.
func InternalServerError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	slog.ErrorContext(ctx, "internal server error",
		"error", err,
		"request_id", RequestIDFromContext(ctx),
		"method", r.Method,
		"path", r.URL.Path,
	)

	JSON(w, http.StatusInternalServerError, Envelope{
		"success": false,
		"message": "Internal server error",
		"code":    "INTERNAL_ERROR",
	})
}

func withSuccess(body Envelope, success bool) Envelope {
	if body == nil {
		body = Envelope{}
	}
	body["success"] = success
	return body
}
