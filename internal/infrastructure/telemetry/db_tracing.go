package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool // bound values in span statements, development only
	SlowQueryThresh time.Duration
	DBSystem        string
}

// DBTracingPlugin registers otelgorm and marks slow queries on their spans
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a new database tracing plugin
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	return &DBTracingPlugin{config: cfg, logger: logger}
}

type queryStartKey struct{}

// Register installs the plugin on db. It is a no-op when tracing is disabled.
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBSystem)}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}
	if err := p.registerTiming(db); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
		zap.String("db_system", p.config.DBSystem),
	)
	return nil
}

// registerTiming wraps every gorm operation with start time capture and a slow query check
func (p *DBTracingPlugin) registerTiming(db *gorm.DB) error {
	cb := db.Callback()
	registrations := []func() error{
		func() error { return cb.Create().Before("gorm:create").Register("movable_timing:before_create", markStart) },
		func() error { return cb.Query().Before("gorm:query").Register("movable_timing:before_query", markStart) },
		func() error { return cb.Update().Before("gorm:update").Register("movable_timing:before_update", markStart) },
		func() error { return cb.Delete().Before("gorm:delete").Register("movable_timing:before_delete", markStart) },
		func() error { return cb.Row().Before("gorm:row").Register("movable_timing:before_row", markStart) },
		func() error { return cb.Raw().Before("gorm:raw").Register("movable_timing:before_raw", markStart) },
		func() error { return cb.Create().After("gorm:create").Register("movable_timing:after_create", p.checkSlow) },
		func() error { return cb.Query().After("gorm:query").Register("movable_timing:after_query", p.checkSlow) },
		func() error { return cb.Update().After("gorm:update").Register("movable_timing:after_update", p.checkSlow) },
		func() error { return cb.Delete().After("gorm:delete").Register("movable_timing:after_delete", p.checkSlow) },
		func() error { return cb.Row().After("gorm:row").Register("movable_timing:after_row", p.checkSlow) },
		func() error { return cb.Raw().After("gorm:raw").Register("movable_timing:after_raw", p.checkSlow) },
	}
	for _, register := range registrations {
		if err := register(); err != nil {
			return err
		}
	}
	return nil
}

func markStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

func (p *DBTracingPlugin) checkSlow(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		RecordError(span, db.Error)
	}

	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok || p.config.SlowQueryThresh <= 0 {
		return
	}
	if elapsed := time.Since(start); elapsed > p.config.SlowQueryThresh {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
}
