package telemetry

import (
	"context"

	"github.com/movable/backend/internal/domain/shared"
	"go.opentelemetry.io/otel/metric"
)

// Cache lookup results
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// CacheMetrics counts list cache lookups and failures per namespace
type CacheMetrics struct {
	lookups *Counter
	errors  *Counter
}

// NewCacheMetrics creates the list cache instruments on meter
func NewCacheMetrics(meter metric.Meter) (*CacheMetrics, error) {
	lookups, err := NewCounter(meter, "movable.cache.lookups", "List cache lookups by result", "{lookup}")
	if err != nil {
		return nil, err
	}
	errs, err := NewCounter(meter, "movable.cache.errors", "List cache backend failures", "{error}")
	if err != nil {
		return nil, err
	}
	return &CacheMetrics{lookups: lookups, errors: errs}, nil
}

type instrumentedListCache[T any] struct {
	inner     shared.ListCache[T]
	metrics   *CacheMetrics
	namespace string
}

// InstrumentListCache wraps cache so every call is counted under namespace.
// A nil metrics value returns cache unchanged.
func InstrumentListCache[T any](cache shared.ListCache[T], metrics *CacheMetrics, namespace string) shared.ListCache[T] {
	if metrics == nil {
		return cache
	}
	return &instrumentedListCache[T]{inner: cache, metrics: metrics, namespace: namespace}
}

func (c *instrumentedListCache[T]) Get(ctx context.Context, key string) ([]T, bool, error) {
	items, found, err := c.inner.Get(ctx, key)
	if err != nil {
		c.failed(ctx, "get")
		return items, found, err
	}
	outcome := CacheMiss
	if found {
		outcome = CacheHit
	}
	c.metrics.lookups.Inc(ctx, AttrCacheNamespace.String(c.namespace), AttrCacheResult.String(outcome))
	return items, found, nil
}

func (c *instrumentedListCache[T]) Put(ctx context.Context, key string, items []T) error {
	err := c.inner.Put(ctx, key, items)
	if err != nil {
		c.failed(ctx, "put")
	}
	return err
}

func (c *instrumentedListCache[T]) Evict(ctx context.Context, key string) error {
	err := c.inner.Evict(ctx, key)
	if err != nil {
		c.failed(ctx, "evict")
	}
	return err
}

func (c *instrumentedListCache[T]) Clear(ctx context.Context) error {
	err := c.inner.Clear(ctx)
	if err != nil {
		c.failed(ctx, "clear")
	}
	return err
}

func (c *instrumentedListCache[T]) failed(ctx context.Context, op string) {
	c.metrics.errors.Inc(ctx, AttrCacheNamespace.String(c.namespace), AttrCacheOperation.String(op))
}
