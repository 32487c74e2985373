package cache

import (
	"context"
	"time"

	appfinance "github.com/carehouse/backend/internal/application/finance"
	"github.com/carehouse/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateCacheBundle is the rate table cache chosen for this process plus the resources
// that must be released with it
type RateCacheBundle struct {
	Cache       appfinance.RateTableCache
	local       *InMemoryRateTableCache
	client      *redis.Client
	invalidator *RedisRateInvalidator
	logger      *zap.Logger
}

// Distributed reports whether the cache is shared through Redis
func (b *RateCacheBundle) Distributed() bool {
	return b.client != nil
}

// StartInvalidation listens for peer invalidations until ctx is done. It returns at once
// for an in-process cache.
func (b *RateCacheBundle) StartInvalidation(ctx context.Context) {
	tiered, ok := b.Cache.(*TieredRateTableCache)
	if b.invalidator == nil || !ok {
		return
	}
	go func() {
		if err := b.invalidator.Subscribe(ctx, tiered.HandleInvalidation); err != nil && ctx.Err() == nil {
			b.logger.Error("rate cache invalidation subscription ended", zap.Error(err))
		}
	}()
}

// Close stops the subscription, the local sweeper and the Redis client
func (b *RateCacheBundle) Close() error {
	if b.invalidator != nil {
		_ = b.invalidator.Close()
	}
	_ = b.local.Close()
	if b.client != nil {
		return b.client.Close()
	}
	return nil
}

// NewRateTableCache returns a Redis-backed tiered cache when Redis is configured and
// reachable, and an in-process cache otherwise. The preview path tolerates either.
func NewRateTableCache(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) *RateCacheBundle {
	if logger == nil {
		logger = zap.NewNop()
	}
	localTTL := time.Minute
	if cfg.RateCacheTTL > 0 && cfg.RateCacheTTL < localTTL {
		localTTL = cfg.RateCacheTTL
	}
	local := NewInMemoryRateTableCache(WithLocalTTL(localTTL), WithInMemoryLogger(logger))
	bundle := &RateCacheBundle{Cache: local, local: local, logger: logger}

	if cfg.Addr() == "" {
		logger.Info("using in-process rate table cache")
		return bundle
	}
	client, err := NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Warn("Redis unavailable, using in-process rate table cache", zap.Error(err))
		return bundle
	}

	bundle.client = client
	bundle.invalidator = NewRedisRateInvalidator(client, logger)
	bundle.Cache = NewTieredRateTableCache(local, NewRedisRateTableCache(client, cfg.RateCacheTTL), bundle.invalidator, logger)
	logger.Info("using Redis rate table cache", zap.String("addr", cfg.Addr()))
	return bundle
}
