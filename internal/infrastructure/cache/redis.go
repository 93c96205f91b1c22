package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/movable/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultScanBatchSize = 100

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisClient connects to Redis and pings it
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// RedisListCache stores lists as JSON under prefixed keys.
// The prefix is the namespace: Clear scans and deletes only keys below it.
type RedisListCache[T any] struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisListCache creates a list cache on a shared client. The caller owns the client.
func NewRedisListCache[T any](client *redis.Client, prefix string, ttl time.Duration, logger *zap.Logger) *RedisListCache[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisListCache[T]{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *RedisListCache[T]) cacheKey(key string) string {
	return c.prefix + key
}

// Get returns the list cached under key. redis.Nil is a miss.
func (c *RedisListCache[T]) Get(ctx context.Context, key string) ([]T, bool, error) {
	cacheKey := c.cacheKey(key)
	data, err := c.client.Get(ctx, cacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get list from cache: %w", err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		c.logger.Error("Failed to unmarshal cached list, deleting it",
			zap.String("key", cacheKey),
			zap.Error(err))
		_ = c.client.Del(ctx, cacheKey)
		return nil, false, fmt.Errorf("failed to unmarshal list: %w", err)
	}
	return items, true, nil
}

// Put caches items under key
func (c *RedisListCache[T]) Put(ctx context.Context, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal list: %w", err)
	}
	if err := c.client.Set(ctx, c.cacheKey(key), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to put list in cache: %w", err)
	}
	return nil
}

// Evict drops the list cached under key
func (c *RedisListCache[T]) Evict(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.cacheKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to evict list: %w", err)
	}
	return nil
}

// Clear deletes every key of the namespace
func (c *RedisListCache[T]) Clear(ctx context.Context) error {
	var cursor uint64
	deleted := 0
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+"*", defaultScanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cache keys: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete cache keys: %w", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	c.logger.Debug("Cleared cache namespace", zap.String("prefix", c.prefix), zap.Int("keys", deleted))
	return nil
}

var _ shared.ListCache[int] = (*RedisListCache[int])(nil)
