package tracing

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pfinance/pfinance_service/pkg/metrics"
)

const (
	dbTracerName = "database"
)

// DBSpanConfig holds configuration for database span creation
type DBSpanConfig struct {
	Operation string // SELECT, INSERT, UPDATE, DELETE
	Table     string
	Query     string
	// IncludeQuery attaches the statement text to the span
	IncludeQuery bool
}

// StartDBSpan creates a new span for database operations
func StartDBSpan(ctx context.Context, cfg DBSpanConfig) (context.Context, trace.Span) {
	tracer := otel.Tracer(dbTracerName)

	spanName := cfg.Operation
	if cfg.Table != "" {
		spanName = cfg.Operation + " " + cfg.Table
	}

	attrs := []attribute.KeyValue{
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", cfg.Operation),
	}
	if cfg.Table != "" {
		attrs = append(attrs, attribute.String("db.sql.table", cfg.Table))
	}
	if cfg.IncludeQuery && cfg.Query != "" {
		attrs = append(attrs, attribute.String("db.statement", cfg.Query))
	}

	return tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
}

// TraceQuery runs fn inside a database span and records its duration.
// sql.ErrNoRows is not treated as a span error.
func TraceQuery(ctx context.Context, cfg DBSpanConfig, fn func(context.Context) error) error {
	ctx, span := StartDBSpan(ctx, cfg)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	duration := time.Since(start)

	metrics.RecordDatabaseQuery(cfg.Operation, cfg.Table, duration.Seconds())
	span.SetAttributes(attribute.Float64("db.query.duration_ms", float64(duration.Milliseconds())))

	switch {
	case err == nil:
		span.SetStatus(codes.Ok, "")
	case errors.Is(err, sql.ErrNoRows):
		span.SetStatus(codes.Ok, "no rows found")
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return err
}
