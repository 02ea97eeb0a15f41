// AngelaMos | 2026
// server_test.go

package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/job-board/internal/config"
)

type fakeHealth struct {
	ready, shutdown bool
}

func (f *fakeHealth) SetReady(ready bool)       { f.ready = ready }
func (f *fakeHealth) SetShutdown(shutdown bool) { f.shutdown = shutdown }

func newTestServer(t *testing.T, staticDir string) (*Server, *fakeHealth) {
	t.Helper()
	h := &fakeHealth{}
	srv := New(Config{
		ServerConfig: config.ServerConfig{
			Host:         "127.0.0.1",
			Port:         0,
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
			StaticDir:    staticDir,
		},
		HealthHandler: h,
	})
	return srv, h
}

func TestRecoversPanics(t *testing.T) {
	srv, _ := newTestServer(t, "")
	srv.Router().Get("/boom", func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	srv, _ := newTestServer(t, "")

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"NOT_FOUND"`)
}

func TestFallbackResponsesPassThroughMiddleware(t *testing.T) {
	srv, _ := newTestServer(t, "")
	srv.Router().Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Request-ID", "req-7")
			next.ServeHTTP(w, r)
		})
	})
	srv.Router().Get("/api/jobs", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "req-7", rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/jobs", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"METHOD_NOT_ALLOWED"`)
	assert.Equal(t, "req-7", rec.Header().Get("X-Request-ID"))
}

func TestMountStatic(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "index.html"),
		[]byte("<h1>Jobs</h1>"),
		0o600,
	))

	srv, _ := newTestServer(t, dir)
	srv.Router().Get("/api/jobs", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	require.NoError(t, srv.MountStatic())

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Jobs")

	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/jobs", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestMountStaticMissingDir(t *testing.T) {
	srv, _ := newTestServer(t, filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, srv.MountStatic())
}

func TestShutdownFlipsHealth(t *testing.T) {
	srv, h := newTestServer(t, "")

	require.NoError(t, srv.Shutdown(context.Background(), 0))
	assert.True(t, h.shutdown)
}
