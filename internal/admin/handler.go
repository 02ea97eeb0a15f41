// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/carterperez-dev/templates/job-board/internal/core"
)

const pingTimeout = 2 * time.Second

// Backend is an infrastructure dependency shown on the dashboard.
type Backend struct {
	Name string
	Ping func(ctx context.Context) error
	Pool func() PoolStatus
}

// Counters report the size of the job board. Nil counters are skipped.
type Counters struct {
	UsersByRole  func(ctx context.Context) (map[string]int64, error)
	Jobs         func(ctx context.Context) (int64, error)
	Applications func(ctx context.Context) (int64, error)
}

type Handler struct {
	backends []Backend
	counters Counters
}

func NewHandler(counters Counters, backends ...Backend) *Handler {
	return &Handler{backends: backends, counters: counters}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/stats", h.Overview)
		r.Get("/stats/counts", h.Counts)
		r.Get("/stats/runtime", h.Runtime)
		r.Get("/stats/host", h.Host)
		r.Get("/stats/backends/{name}", h.Backend)
	})
}

func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	counts, err := h.collectCounts(ctx)
	if err != nil {
		core.InternalServerError(w, r, err)
		return
	}

	overview := Overview{
		Backends: h.backendStatuses(ctx),
		Counts:   counts,
		Runtime:  readRuntimeStats(),
	}
	if hs, err := readHostStats(ctx); err != nil {
		slog.WarnContext(ctx, "read host stats", "error", err)
	} else {
		overview.Host = hs
	}

	core.OK(w, core.Envelope{"stats": overview})
}

func (h *Handler) Counts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.collectCounts(r.Context())
	if err != nil {
		core.InternalServerError(w, r, err)
		return
	}
	core.OK(w, core.Envelope{"stats": counts})
}

func (h *Handler) Runtime(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, core.Envelope{"stats": readRuntimeStats()})
}

func (h *Handler) Host(w http.ResponseWriter, r *http.Request) {
	stats, err := readHostStats(r.Context())
	if err != nil {
		core.InternalServerError(w, r, err)
		return
	}
	core.OK(w, core.Envelope{"stats": stats})
}

func (h *Handler) Backend(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	for _, b := range h.backends {
		if b.Name == name {
			core.OK(w, core.Envelope{"stats": status(r.Context(), b)})
			return
		}
	}
	core.NotFound(w, "backend")
}

func (h *Handler) backendStatuses(ctx context.Context) []BackendStatus {
	out := make([]BackendStatus, len(h.backends))

	var g errgroup.Group
	for i, b := range h.backends {
		g.Go(func() error {
			out[i] = status(ctx, b)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // statuses never fail the group

	return out
}

func status(ctx context.Context, b Backend) BackendStatus {
	s := BackendStatus{Name: b.Name, Healthy: true}
	if b.Ping != nil {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		s.Healthy = b.Ping(pingCtx) == nil
		cancel()
	}
	if b.Pool != nil {
		pool := b.Pool()
		s.Pool = &pool
	}
	return s
}

func (h *Handler) collectCounts(ctx context.Context) (DomainCounts, error) {
	counts := DomainCounts{UsersByRole: map[string]int64{}}

	g, ctx := errgroup.WithContext(ctx)
	if h.counters.UsersByRole != nil {
		g.Go(func() error {
			byRole, err := h.counters.UsersByRole(ctx)
			if err != nil {
				return err
			}
			counts.UsersByRole = byRole
			for _, n := range byRole {
				counts.Users += n
			}
			return nil
		})
	}
	if h.counters.Jobs != nil {
		g.Go(func() error {
			n, err := h.counters.Jobs(ctx)
			counts.Jobs = n
			return err
		})
	}
	if h.counters.Applications != nil {
		g.Go(func() error {
			n, err := h.counters.Applications(ctx)
			counts.Applications = n
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return DomainCounts{}, err
	}
	return counts, nil
}
