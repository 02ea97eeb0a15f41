// AngelaMos | 2026
// handler.go

package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

const checkTimeout = 3 * time.Second

type Checker interface {
	Ping(ctx context.Context) error
}

// Dependency is a backend the readiness probe pings. Only a failing Critical
// dependency takes the instance out of rotation; others report degraded.
type Dependency struct {
	Name     string
	Checker  Checker
	Critical bool
}

type state int32

const (
	stateServing state = iota
	stateNotReady
	stateDraining
)

type Handler struct {
	deps  []Dependency
	state atomic.Int32
}

func NewHandler(deps ...Dependency) *Handler {
	return &Handler{deps: deps}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Liveness)
	r.Get("/livez", h.Liveness)
	r.Get("/readyz", h.Readiness)
}

func (h *Handler) current() state {
	return state(h.state.Load())
}

func (h *Handler) Liveness(w http.ResponseWriter, _ *http.Request) {
	if h.current() == stateDraining {
		writeProbe(w, http.StatusServiceUnavailable, StatusResponse{Status: "shutting_down"})
		return
	}
	writeProbe(w, http.StatusOK, StatusResponse{Status: "ok"})
}

func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	switch h.current() {
	case stateDraining:
		writeProbe(w, http.StatusServiceUnavailable, StatusResponse{Status: "shutting_down"})
		return
	case stateNotReady:
		writeProbe(w, http.StatusServiceUnavailable, StatusResponse{Status: "not_ready"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	checks := h.runChecks(ctx)

	resp := ReadinessResponse{Status: "ok", Checks: checks}
	code := http.StatusOK
	for i, c := range checks {
		if c.Healthy {
			continue
		}
		if h.deps[i].Critical {
			resp.Status = "unavailable"
			code = http.StatusServiceUnavailable
			break
		}
		resp.Status = "degraded"
	}

	writeProbe(w, code, resp)
}

func (h *Handler) runChecks(ctx context.Context) []HealthCheck {
	checks := make([]HealthCheck, len(h.deps))

	var g errgroup.Group
	for i, dep := range h.deps {
		g.Go(func() error {
			checks[i] = ping(ctx, dep)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // checks never fail the group

	return checks
}

func ping(ctx context.Context, dep Dependency) HealthCheck {
	result := HealthCheck{Name: dep.Name, Critical: dep.Critical}
	if dep.Checker == nil {
		result.Message = "not configured"
		return result
	}

	start := time.Now()
	err := dep.Checker.Ping(ctx)
	result.Latency = time.Since(start).Round(time.Microsecond).String()
	result.Healthy = err == nil
	if err != nil {
		result.Message = "ping failed"
	}
	return result
}

// SetReady toggles readiness without affecting liveness. It has no effect
// once draining has begun.
func (h *Handler) SetReady(ready bool) {
	next := stateNotReady
	if ready {
		next = stateServing
	}
	for {
		cur := h.state.Load()
		if state(cur) == stateDraining || h.state.CompareAndSwap(cur, int32(next)) {
			return
		}
	}
}

func (h *Handler) SetShutdown(shutdown bool) {
	if shutdown {
		h.state.Store(int32(stateDraining))
		return
	}
	h.state.Store(int32(stateServing))
}

func writeProbe(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body) //nolint:errcheck // best-effort response
}

type StatusResponse struct {
	Status string `json:"status"`
}

type ReadinessResponse struct {
	Status string        `json:"status"`
	Checks []HealthCheck `json:"checks"`
}

type HealthCheck struct {
	Name     string `json:"name"`
	Healthy  bool   `json:"healthy"`
	Critical bool   `json:"critical"`
	Latency  string `json:"latency,omitempty"`
	Message  string `json:"message,omitempty"`
}
