package cache

import (
	"context"
	"sync/atomic"

	appfinance "github.com/carehouse/backend/internal/application/finance"
	"github.com/carehouse/backend/internal/domain/finance"
	"go.uber.org/zap"
)

// InvalidationPublisher announces changed rate pairs to peer instances
type InvalidationPublisher interface {
	Publish(ctx context.Context, keys ...finance.RateKey) error
}

// TieredRateTableCache reads through a local tier into a shared tier.
// Invalidations clear both tiers here and the local tier of every peer.
type TieredRateTableCache struct {
	local       *InMemoryRateTableCache
	shared      appfinance.RateTableCache
	invalidator InvalidationPublisher
	logger      *zap.Logger

	localHits  atomic.Int64
	sharedHits atomic.Int64
	misses     atomic.Int64
}

// NewTieredRateTableCache creates a tiered cache. invalidator may be nil for a single instance.
func NewTieredRateTableCache(
	local *InMemoryRateTableCache,
	shared appfinance.RateTableCache,
	invalidator InvalidationPublisher,
	logger *zap.Logger,
) *TieredRateTableCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TieredRateTableCache{
		local:       local,
		shared:      shared,
		invalidator: invalidator,
		logger:      logger,
	}
}

// Get tries the local tier, then the shared tier, filling the local tier on a shared hit
func (c *TieredRateTableCache) Get(ctx context.Context, key finance.RateKey) ([]finance.PayoutRate, bool, error) {
	if rates, ok, _ := c.local.Get(ctx, key); ok {
		c.localHits.Add(1)
		return rates, true, nil
	}

	rates, ok, err := c.shared.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		c.misses.Add(1)
		return nil, false, nil
	}
	c.sharedHits.Add(1)
	_ = c.local.Set(ctx, key, rates)
	return rates, true, nil
}

// Set writes both tiers
func (c *TieredRateTableCache) Set(ctx context.Context, key finance.RateKey, rates []finance.PayoutRate) error {
	if err := c.shared.Set(ctx, key, rates); err != nil {
		return err
	}
	return c.local.Set(ctx, key, rates)
}

// Invalidate clears keys from both tiers and tells peers to drop their local copies.
// A failed broadcast leaves peers stale until their local TTL runs out.
func (c *TieredRateTableCache) Invalidate(ctx context.Context, keys ...finance.RateKey) error {
	_ = c.local.Invalidate(ctx, keys...)
	if err := c.shared.Invalidate(ctx, keys...); err != nil {
		return err
	}
	if c.invalidator != nil {
		if err := c.invalidator.Publish(ctx, keys...); err != nil {
			c.logger.Warn("failed to broadcast rate cache invalidation",
				zap.Int("keys", len(keys)),
				zap.Error(err),
			)
		}
	}
	return nil
}

// HandleInvalidation drops the local copies named by a peer's message
func (c *TieredRateTableCache) HandleInvalidation(msg RateInvalidationMessage) {
	_ = c.local.Invalidate(context.Background(), msg.Keys...)
	c.logger.Debug("local rate cache invalidated by peer", zap.Int("keys", len(msg.Keys)))
}

// Stats returns local hits, shared hits and full misses
func (c *TieredRateTableCache) Stats() (localHits, sharedHits, misses int64) {
	return c.localHits.Load(), c.sharedHits.Load(), c.misses.Load()
}

var _ appfinance.RateTableCache = (*TieredRateTableCache)(nil)
