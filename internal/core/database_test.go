// AngelaMos | 2026
// database_test.go

package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/carterperez-dev/templates/job-board/internal/config"
)

func TestPgErrorClassification(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	fk := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"})

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsForeignKeyViolation(unique))
	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}

func TestJitteredDurationStaysWithinBounds(t *testing.T) {
	base := time.Hour
	for range 50 {
		d := jitteredDuration(base)
		assert.GreaterOrEqual(t, d, base)
		assert.Less(t, d, base+base/7)
	}

	assert.Equal(t, time.Duration(0), jitteredDuration(0))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, EscapeLike("100%"))
	assert.Equal(t, `snake\_case`, EscapeLike("snake_case"))
	assert.Equal(t, `back\\slash`, EscapeLike(`back\slash`))
	assert.Equal(t, "plain", EscapeLike("plain"))
}

func TestConstraintName(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{
		Code:           "23503",
		ConstraintName: "applications_user_id_fkey",
	})
	assert.Equal(t, "applications_user_id_fkey", ConstraintName(err))
	assert.Empty(t, ConstraintName(errors.New("boom")))
}

func TestQueryTracingSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	qt := queryTracing{tracer: tp.Tracer("test")}

	ctx := qt.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{
		SQL: "\n\t\tinsert into jobs (title) values ($1)",
	})
	qt.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{
		CommandTag: pgconn.NewCommandTag("INSERT 0 1"),
	})

	ctx = qt.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{
		SQL: "SELECT 1",
	})
	qt.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{Err: errors.New("boom")})

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "postgres INSERT", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, "postgres SELECT", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)

	assert.Equal(t, "query", statementVerb("   "))
}

func TestNewDatabaseRejectsBadURL(t *testing.T) {
	_, err := NewDatabase(context.Background(), config.DatabaseConfig{URL: "::nope"})
	assert.ErrorContains(t, err, "parse database url")
}
