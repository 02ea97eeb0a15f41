// AngelaMos | 2026
// request.go

package core

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Actor is the verified identity performing a request.
type Actor struct {
	ID   int64
	Role string
}

func (a Actor) IsAdmin() bool {
	return a.Role == "admin"
}

func (a Actor) Is(id int64) bool {
	return a.ID != 0 && a.ID == id
}

type requestIDKey struct{}

// WithRequestID stores the correlation id for the request on ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// URLParamID parses a positive integer path parameter.
func URLParamID(r *http.Request, key string) (int64, error) {
	raw := chi.URLParam(r, key)

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("parse %s %q: %w", key, raw, ErrInvalidInput)
	}

	return id, nil
}
