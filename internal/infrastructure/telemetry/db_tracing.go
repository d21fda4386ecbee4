package telemetry

import (
	"context"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	DBSystem        string        // default "postgresql"
	SlowQueryThresh time.Duration // default 200ms
	// TracerProvider overrides the global provider.
	TracerProvider trace.TracerProvider
}

type queryStartKey struct{}

// RegisterDBTracing installs the otelgorm plugin plus slow-query marking.
// Query variables never reach span attributes.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.DBSystem == "" {
		cfg.DBSystem = "postgresql"
	}
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}

	opts := []otelgorm.Option{
		otelgorm.WithDBName(cfg.DBSystem),
		otelgorm.WithoutQueryVariables(),
	}
	if cfg.TracerProvider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(cfg.TracerProvider))
	}
	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey{}, time.Now())
		}
	}
	after := func(tx *gorm.DB) { markSlowQuery(tx, cfg.SlowQueryThresh) }

	cb := db.Callback()
	registrations := []func() error{
		func() error { return cb.Create().Before("gorm:create").Register("slow_query:before_create", before) },
		func() error { return cb.Query().Before("gorm:query").Register("slow_query:before_query", before) },
		func() error { return cb.Update().Before("gorm:update").Register("slow_query:before_update", before) },
		func() error { return cb.Delete().Before("gorm:delete").Register("slow_query:before_delete", before) },
		func() error { return cb.Row().Before("gorm:row").Register("slow_query:before_row", before) },
		func() error { return cb.Create().After("gorm:create").Register("slow_query:after_create", after) },
		func() error { return cb.Query().After("gorm:query").Register("slow_query:after_query", after) },
		func() error { return cb.Update().After("gorm:update").Register("slow_query:after_update", after) },
		func() error { return cb.Delete().After("gorm:delete").Register("slow_query:after_delete", after) },
		func() error { return cb.Row().After("gorm:row").Register("slow_query:after_row", after) },
	}
	for _, register := range registrations {
		if err := register(); err != nil {
			return err
		}
	}

	// Registered after the timing callbacks so the otelgorm span is still open
	// when the slow-query callback runs.
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	if logger != nil {
		logger.Info("Database tracing enabled",
			zap.Duration("slow_query_threshold", cfg.SlowQueryThresh),
			zap.String("db_system", cfg.DBSystem),
		)
	}
	return nil
}

func markSlowQuery(tx *gorm.DB, threshold time.Duration) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > threshold {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
}
