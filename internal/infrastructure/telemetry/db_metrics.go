package telemetry

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const metricsStartKey = "movable_metrics:start"

// DBMetricsConfig holds configuration for database metrics
type DBMetricsConfig struct {
	SlowQueryThresh   time.Duration
	PoolStatsInterval time.Duration
}

// DBMetrics records query counts and latency through gorm callbacks and samples pool statistics
type DBMetrics struct {
	poolConnections    *Gauge
	poolConnectionsMax *Gauge
	queryTotal         *Counter
	queryDuration      *Histogram
	slowQueryTotal     *Counter

	config   DBMetricsConfig
	logger   *zap.Logger
	mu       sync.RWMutex
	sqlDB    *sql.DB
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewDBMetrics creates the database instruments on meter
func NewDBMetrics(meter metric.Meter, cfg DBMetricsConfig, logger *zap.Logger) (*DBMetrics, error) {
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.PoolStatsInterval <= 0 {
		cfg.PoolStatsInterval = 15 * time.Second
	}

	m := &DBMetrics{config: cfg, logger: logger, stopCh: make(chan struct{})}
	var err error
	if m.poolConnections, err = NewGauge(meter, "movable.db.pool.connections", "Connections in the pool by state", "{connection}"); err != nil {
		return nil, err
	}
	if m.poolConnectionsMax, err = NewGauge(meter, "movable.db.pool.connections_max", "Maximum open connections", "{connection}"); err != nil {
		return nil, err
	}
	if m.queryTotal, err = NewCounter(meter, "movable.db.queries", "Database queries by operation", "{query}"); err != nil {
		return nil, err
	}
	if m.queryDuration, err = NewHistogram(meter, "movable.db.query.duration", "Database query latency", "s", DBDurationBuckets...); err != nil {
		return nil, err
	}
	if m.slowQueryTotal, err = NewCounter(meter, "movable.db.slow_queries", "Queries slower than the threshold by table", "{query}"); err != nil {
		return nil, err
	}
	return m, nil
}

// Register installs the timing callbacks on db and remembers its pool for sampling
func (m *DBMetrics) Register(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.sqlDB = sqlDB
	m.mu.Unlock()

	cb := db.Callback()
	registrations := []func() error{
		func() error { return cb.Create().Before("gorm:create").Register("movable_metrics:before_create", startTimer) },
		func() error { return cb.Query().Before("gorm:query").Register("movable_metrics:before_query", startTimer) },
		func() error { return cb.Update().Before("gorm:update").Register("movable_metrics:before_update", startTimer) },
		func() error { return cb.Delete().Before("gorm:delete").Register("movable_metrics:before_delete", startTimer) },
		func() error { return cb.Raw().Before("gorm:raw").Register("movable_metrics:before_raw", startTimer) },
		func() error { return cb.Create().After("gorm:create").Register("movable_metrics:after_create", m.after("insert")) },
		func() error { return cb.Query().After("gorm:query").Register("movable_metrics:after_query", m.after("select")) },
		func() error { return cb.Update().After("gorm:update").Register("movable_metrics:after_update", m.after("update")) },
		func() error { return cb.Delete().After("gorm:delete").Register("movable_metrics:after_delete", m.after("delete")) },
		func() error { return cb.Raw().After("gorm:raw").Register("movable_metrics:after_raw", m.after("raw")) },
	}
	for _, register := range registrations {
		if err := register(); err != nil {
			return err
		}
	}
	m.logger.Info("Database metrics enabled", zap.Duration("slow_query_threshold", m.config.SlowQueryThresh))
	return nil
}

func startTimer(db *gorm.DB) {
	db.InstanceSet(metricsStartKey, time.Now())
}

func (m *DBMetrics) after(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		v, ok := db.InstanceGet(metricsStartKey)
		if !ok {
			return
		}
		start, ok := v.(time.Time)
		if !ok {
			return
		}
		ctx := db.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}
		m.RecordQuery(ctx, operation, db.Statement.Table, time.Since(start))
	}
}

// RecordQuery counts one statement and records its latency
func (m *DBMetrics) RecordQuery(ctx context.Context, operation, table string, elapsed time.Duration) {
	op := AttrDBOperation.String(strings.ToUpper(operation))
	m.queryTotal.Inc(ctx, op)
	m.queryDuration.RecordDuration(ctx, elapsed, op)
	if elapsed > m.config.SlowQueryThresh {
		if table == "" {
			table = "unknown"
		}
		m.slowQueryTotal.Inc(ctx, AttrDBTable.String(table))
	}
}

// Start samples pool statistics until ctx ends or Stop is called
func (m *DBMetrics) Start(ctx context.Context) {
	m.mu.RLock()
	registered := m.sqlDB != nil
	m.mu.RUnlock()
	if !registered {
		m.logger.Warn("Cannot collect pool stats before Register")
		return
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.config.PoolStatsInterval)
		defer ticker.Stop()

		m.CollectPoolStats(ctx)
		for {
			select {
			case <-ticker.C:
				m.CollectPoolStats(ctx)
			case <-m.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// CollectPoolStats records one sample of the connection pool
func (m *DBMetrics) CollectPoolStats(ctx context.Context) {
	m.mu.RLock()
	sqlDB := m.sqlDB
	m.mu.RUnlock()
	if sqlDB == nil {
		return
	}

	stats := sqlDB.Stats()
	m.poolConnectionsMax.Record(ctx, int64(stats.MaxOpenConnections))
	m.poolConnections.Record(ctx, int64(stats.Idle), AttrDBState.String("idle"))
	m.poolConnections.Record(ctx, int64(stats.InUse), AttrDBState.String("in_use"))
	m.poolConnections.Record(ctx, int64(stats.OpenConnections), AttrDBState.String("open"))
}

// Stop ends pool sampling. It is safe to call more than once.
func (m *DBMetrics) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
		m.wg.Wait()
	})
}
