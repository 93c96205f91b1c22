// Package cache provides the list caches behind the movable engine.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/movable/backend/internal/domain/shared"
	"github.com/movable/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Factory creates one list cache namespace per collection on the configured backend
type Factory struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
	logger    *zap.Logger
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*factoryOptions)

type factoryOptions struct {
	logger  *zap.Logger
	connect func(ctx context.Context, cfg RedisConfig) (*redis.Client, error)
}

// WithLogger sets the logger for the factory and its caches
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(o *factoryOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewFactory opens the configured backend.
// With the redis backend an unreachable server falls back to memory only when allow_fallback is set.
func NewFactory(ctx context.Context, cacheCfg config.CacheConfig, redisCfg config.RedisConfig, opts ...FactoryOption) (*Factory, error) {
	o := factoryOptions{logger: zap.NewNop(), connect: NewRedisClient}
	for _, opt := range opts {
		opt(&o)
	}

	f := &Factory{
		keyPrefix: cacheCfg.KeyPrefix,
		ttl:       cacheCfg.TTL,
		logger:    o.logger,
	}
	if cacheCfg.Backend != config.CacheBackendRedis {
		f.logger.Info("Using in-memory list cache")
		return f, nil
	}

	client, err := o.connect(ctx, RedisConfig{
		Host:     redisCfg.Host,
		Port:     redisCfg.Port,
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})
	if err == nil {
		f.client = client
		f.logger.Info("Using Redis list cache", zap.String("addr", redisCfg.RedisAddr()))
		return f, nil
	}
	if !cacheCfg.AllowFallback {
		return nil, fmt.Errorf("redis cache required but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory list cache. "+
		"Instances will not share cached lists.",
		zap.Error(err),
	)
	return f, nil
}

// Redis reports whether caches are backed by Redis
func (f *Factory) Redis() bool {
	return f.client != nil
}

// Close releases the Redis client
func (f *Factory) Close() error {
	if f.client == nil {
		return nil
	}
	return f.client.Close()
}

// NewListCache creates the cache namespace of one collection
func NewListCache[T any](f *Factory, namespace string) shared.ListCache[T] {
	if f.client != nil {
		return NewRedisListCache[T](f.client, f.keyPrefix+namespace+":", f.ttl, f.logger.With(zap.String("namespace", namespace)))
	}
	return NewMemoryListCache[T](f.ttl)
}
