package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/movable/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func setupTestMeter(t *testing.T) (metric.Meter, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return provider.Meter(MeterName), reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

// sumOf adds the data points of an int64 sum whose attributes contain every pair in match
func sumOf(t *testing.T, m metricdata.Metrics, match ...attribute.KeyValue) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		matched := true
		for _, kv := range match {
			if v, ok := dp.Attributes.Value(kv.Key); !ok || v != kv.Value {
				matched = false
			}
		}
		if matched {
			total += dp.Value
		}
	}
	return total
}

type failingCache struct{}

var errBackend = errors.New("backend down")

func (failingCache) Get(context.Context, string) ([]string, bool, error) { return nil, false, errBackend }
func (failingCache) Put(context.Context, string, []string) error          { return errBackend }
func (failingCache) Evict(context.Context, string) error                  { return errBackend }
func (failingCache) Clear(context.Context) error                          { return errBackend }

func TestInstrumentListCache_CountsHitsAndMisses(t *testing.T) {
	meter, reader := setupTestMeter(t)
	metrics, err := NewCacheMetrics(meter)
	require.NoError(t, err)

	ctx := context.Background()
	c := InstrumentListCache[string](cache.NewMemoryListCache[string](time.Minute), metrics, "music")

	_, found, err := c.Get(ctx, "music")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Put(ctx, "music", []string{"a", "b"}))
	items, found, err := c.Get(ctx, "music")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"a", "b"}, items)

	got := collect(t, reader)
	lookups := got["movable.cache.lookups"]
	assert.Equal(t, int64(1), sumOf(t, lookups, AttrCacheResult.String(CacheHit), AttrCacheNamespace.String("music")))
	assert.Equal(t, int64(1), sumOf(t, lookups, AttrCacheResult.String(CacheMiss)))
	_, hasErrors := got["movable.cache.errors"]
	assert.False(t, hasErrors)
}

func TestInstrumentListCache_CountsFailures(t *testing.T) {
	meter, reader := setupTestMeter(t)
	metrics, err := NewCacheMetrics(meter)
	require.NoError(t, err)

	ctx := context.Background()
	c := InstrumentListCache[string](failingCache{}, metrics, "songs")

	_, _, err = c.Get(ctx, "songs:1")
	assert.ErrorIs(t, err, errBackend)
	assert.ErrorIs(t, c.Put(ctx, "songs:1", nil), errBackend)
	assert.ErrorIs(t, c.Evict(ctx, "songs:1"), errBackend)
	assert.ErrorIs(t, c.Clear(ctx), errBackend)

	errs := collect(t, reader)["movable.cache.errors"]
	assert.Equal(t, int64(4), sumOf(t, errs, AttrCacheNamespace.String("songs")))
	assert.Equal(t, int64(1), sumOf(t, errs, AttrCacheOperation.String("clear")))
}

func TestInstrumentListCache_NilMetrics(t *testing.T) {
	inner := cache.NewMemoryListCache[string](time.Minute)
	assert.Equal(t, inner, InstrumentListCache[string](inner, nil, "music"))
}

func TestDBMetrics_RecordsQueries(t *testing.T) {
	meter, reader := setupTestMeter(t)
	m, err := NewDBMetrics(meter, DBMetricsConfig{SlowQueryThresh: time.Nanosecond}, zap.NewNop())
	require.NoError(t, err)

	db := openTestDB(t)
	require.NoError(t, m.Register(db))

	ctx := context.Background()
	require.NoError(t, db.WithContext(ctx).Create(&tracedRow{Name: "one"}).Error)
	var rows []tracedRow
	require.NoError(t, db.WithContext(ctx).Find(&rows).Error)
	require.Len(t, rows, 1)

	got := collect(t, reader)
	queries := got["movable.db.queries"]
	assert.Equal(t, int64(1), sumOf(t, queries, AttrDBOperation.String("INSERT")))
	assert.Equal(t, int64(1), sumOf(t, queries, AttrDBOperation.String("SELECT")))
	assert.Equal(t, int64(2), sumOf(t, got["movable.db.slow_queries"], AttrDBTable.String("traced_rows")))
	assert.Contains(t, got, "movable.db.query.duration")
}

func TestDBMetrics_PoolStats(t *testing.T) {
	meter, reader := setupTestMeter(t)
	m, err := NewDBMetrics(meter, DBMetricsConfig{PoolStatsInterval: time.Hour}, zap.NewNop())
	require.NoError(t, err)

	db := openTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(3)
	require.NoError(t, m.Register(db))

	m.Start(context.Background())
	m.Stop()
	m.Stop()

	gauge, ok := collect(t, reader)["movable.db.pool.connections_max"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, int64(3), gauge.DataPoints[0].Value)
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	mp, err := NewMeterProvider(context.Background(), MetricsConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, mp.Enabled())
	assert.NotNil(t, mp.Meter())
	assert.NoError(t, mp.Shutdown(context.Background()))
}
