// AngelaMos | 2026
// telemetry.go

package core

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/carterperez-dev/templates/job-board/internal/config"
)

const defaultSampleRate = 0.1

// Telemetry owns the process tracer provider. When export is disabled the
// provider has no processors, so spans are created but never leave the
// process.
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	exporting      bool
}

func NewTelemetry(
	ctx context.Context,
	otelCfg config.OtelConfig,
	appCfg config.AppConfig,
) (*Telemetry, error) {
	t := &Telemetry{}

	if otelCfg.Enabled && otelCfg.Endpoint != "" {
		exporter, err := otlptracegrpc.New(ctx, exporterOptions(otelCfg)...)
		if err != nil {
			return nil, fmt.Errorf("create otlp exporter: %w", err)
		}

		res, err := resource.New(ctx,
			resource.WithAttributes(
				semconv.ServiceName(otelCfg.ServiceName),
				semconv.ServiceVersion(appCfg.Version),
				attribute.String("deployment.environment", appCfg.Environment),
			),
			resource.WithHost(),
			resource.WithProcess(),
		)
		if err != nil {
			return nil, fmt.Errorf("create resource: %w", err)
		}

		t.TracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter,
				sdktrace.WithBatchTimeout(5*time.Second),
			),
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sampler(otelCfg.SampleRate, appCfg.Environment)),
		)
		t.exporting = true
	} else {
		t.TracerProvider = sdktrace.NewTracerProvider()
	}

	otel.SetTracerProvider(t.TracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return t, nil
}

func exporterOptions(cfg config.OtelConfig) []otlptracegrpc.Option {
	creds := credentials.NewClientTLSFromCert(nil, "")
	if cfg.Insecure {
		creds = insecure.NewCredentials()
	}
	return []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
		otlptracegrpc.WithTimeout(5 * time.Second),
		otlptracegrpc.WithTLSCredentials(creds),
	}
}

// sampler keeps every trace in development and a ratio of root traces
// elsewhere. Child spans follow their parent's decision.
func sampler(rate float64, environment string) sdktrace.Sampler {
	if environment == "development" {
		return sdktrace.AlwaysSample()
	}
	if rate <= 0 || rate > 1 {
		rate = defaultSampleRate
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(rate))
}

func (t *Telemetry) Exporting() bool {
	return t.exporting
}

func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t.TracerProvider == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := t.TracerProvider.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown tracer provider: %w", err)
	}
	return nil
}

func TraceIDFromContext(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

// HTTPMiddleware opens a server span per request except those skip matches.
// Once routing has run the span is renamed after the matched chi pattern.
func (t *Telemetry) HTTPMiddleware(
	service string,
	skip func(*http.Request) bool,
) func(http.Handler) http.Handler {
	opts := []otelhttp.Option{otelhttp.WithTracerProvider(t.TracerProvider)}
	if skip != nil {
		opts = append(opts, otelhttp.WithFilter(func(r *http.Request) bool {
			return !skip(r)
		}))
	}
	traced := otelhttp.NewMiddleware(service, opts...)

	return func(next http.Handler) http.Handler {
		return traced(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)

			rctx := chi.RouteContext(r.Context())
			if rctx == nil {
				return
			}
			if pattern := rctx.RoutePattern(); pattern != "" {
				trace.SpanFromContext(r.Context()).SetName(r.Method + " " + pattern)
			}
		}))
	}
}
