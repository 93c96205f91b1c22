package cache

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/movable/backend/internal/domain/shared"
)

// entry is a cached list with its expiry. A zero expiresAt never expires.
type entry[T any] struct {
	items     []T
	expiresAt time.Time
}

func (e *entry[T]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryListCache keeps lists in process memory.
// Each instance is one namespace: Clear drops only its own keys.
// The slice is copied on the way in and out, the elements are shared.
type MemoryListCache[T any] struct {
	entries sync.Map // map[string]*entry[T]
	ttl     time.Duration
	now     func() time.Time

	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemoryListCache creates a new in-memory list cache. A zero ttl keeps lists until evicted.
func NewMemoryListCache[T any](ttl time.Duration) *MemoryListCache[T] {
	return &MemoryListCache[T]{ttl: ttl, now: time.Now}
}

// Get returns the list cached under key
func (c *MemoryListCache[T]) Get(_ context.Context, key string) ([]T, bool, error) {
	value, ok := c.entries.Load(key)
	if ok {
		e := value.(*entry[T])
		if !e.expired(c.now()) {
			c.hits.Add(1)
			return slices.Clone(e.items), true, nil
		}
		c.entries.CompareAndDelete(key, value)
	}
	c.misses.Add(1)
	return nil, false, nil
}

// Put caches items under key
func (c *MemoryListCache[T]) Put(_ context.Context, key string, items []T) error {
	e := &entry[T]{items: slices.Clone(items)}
	if e.items == nil {
		e.items = []T{}
	}
	if c.ttl > 0 {
		e.expiresAt = c.now().Add(c.ttl)
	}
	c.entries.Store(key, e)
	return nil
}

// Evict drops the list cached under key
func (c *MemoryListCache[T]) Evict(_ context.Context, key string) error {
	c.entries.Delete(key)
	return nil
}

// Clear drops every list of the namespace
func (c *MemoryListCache[T]) Clear(_ context.Context) error {
	c.entries.Clear()
	return nil
}

// Stats returns the hit and miss counts
func (c *MemoryListCache[T]) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

var _ shared.ListCache[int] = (*MemoryListCache[int])(nil)
