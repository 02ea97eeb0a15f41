// AngelaMos | 2026
// telemetry_test.go

package core

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/carterperez-dev/templates/job-board/internal/config"
)

func TestHTTPMiddlewareNamesSpanByRoute(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tel := &Telemetry{
		TracerProvider: sdktrace.NewTracerProvider(
			sdktrace.WithSpanProcessor(recorder),
		),
	}

	var traceID string
	r := chi.NewRouter()
	r.Use(tel.HTTPMiddleware("job-board", func(r *http.Request) bool {
		return r.URL.Path == "/healthz"
	}))
	r.Get("/api/jobs/{jobID}", func(w http.ResponseWriter, r *http.Request) {
		traceID = TraceIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/jobs/7", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /api/jobs/{jobID}", spans[0].Name())
	assert.Equal(t, spans[0].SpanContext().TraceID().String(), traceID)
}

func TestNewTelemetryWithoutExport(t *testing.T) {
	tel, err := NewTelemetry(
		context.Background(),
		config.OtelConfig{ServiceName: "job-board"},
		config.AppConfig{Environment: "development"},
	)
	require.NoError(t, err)
	assert.False(t, tel.Exporting())
	assert.NotNil(t, tel.TracerProvider)
	assert.NoError(t, tel.Shutdown(context.Background()))

	assert.Empty(t, TraceIDFromContext(context.Background()))
}

func TestSampler(t *testing.T) {
	assert.Equal(t, "AlwaysOnSampler", sampler(0.5, "development").Description())
	assert.Contains(t, sampler(0, "production").Description(), "TraceIDRatioBased{0.1}")
	assert.Contains(t, sampler(0.25, "production").Description(), "TraceIDRatioBased{0.25}")
}
