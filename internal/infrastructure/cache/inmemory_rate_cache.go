// Package cache holds the rate table snapshot caches used by the payout preview.
package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	appfinance "github.com/carehouse/backend/internal/application/finance"
	"github.com/carehouse/backend/internal/domain/finance"
	"go.uber.org/zap"
)

const (
	defaultCleanupInterval = 30 * time.Second
	defaultLocalTTL        = time.Minute
)

// rateEntry wraps cached rate rows with their expiry
type rateEntry struct {
	rates     []finance.PayoutRate
	expiresAt time.Time
}

func (e *rateEntry) isExpired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// InMemoryRateTableCache keeps rate rows in process. It serves single-instance
// deployments and the L1 tier in front of Redis.
type InMemoryRateTableCache struct {
	entries sync.Map // finance.RateKey -> *rateEntry
	ttl     time.Duration
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped atomic.Bool

	hits   atomic.Int64
	misses atomic.Int64
}

// InMemoryRateTableCacheOption configures an InMemoryRateTableCache
type InMemoryRateTableCacheOption func(*InMemoryRateTableCache)

// WithLocalTTL sets how long rows stay cached
func WithLocalTTL(ttl time.Duration) InMemoryRateTableCacheOption {
	return func(c *InMemoryRateTableCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemoryRateTableCacheOption {
	return func(c *InMemoryRateTableCache) {
		c.logger = logger
	}
}

// NewInMemoryRateTableCache creates the cache and starts its expiry sweeper. Close stops it.
func NewInMemoryRateTableCache(opts ...InMemoryRateTableCacheOption) *InMemoryRateTableCache {
	c := &InMemoryRateTableCache{
		ttl:    defaultLocalTTL,
		logger: zap.NewNop(),
		stopCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.cleanupExpired()
	return c
}

// Get returns a copy of the cached rows of key
func (c *InMemoryRateTableCache) Get(ctx context.Context, key finance.RateKey) ([]finance.PayoutRate, bool, error) {
	if value, ok := c.entries.Load(key); ok {
		entry := value.(*rateEntry)
		if !entry.isExpired(time.Now()) {
			c.hits.Add(1)
			return cloneRates(entry.rates), true, nil
		}
		c.entries.CompareAndDelete(key, value)
	}
	c.misses.Add(1)
	return nil, false, nil
}

// Set caches a copy of rates under key. An empty slice is cached too: a pair without
// rate rows is a valid answer.
func (c *InMemoryRateTableCache) Set(ctx context.Context, key finance.RateKey, rates []finance.PayoutRate) error {
	c.entries.Store(key, &rateEntry{
		rates:     cloneRates(rates),
		expiresAt: time.Now().Add(c.ttl),
	})
	return nil
}

// Invalidate drops the cached rows of keys
func (c *InMemoryRateTableCache) Invalidate(ctx context.Context, keys ...finance.RateKey) error {
	for _, key := range keys {
		c.entries.Delete(key)
	}
	return nil
}

// InvalidateAll empties the cache
func (c *InMemoryRateTableCache) InvalidateAll() {
	c.entries.Range(func(key, _ any) bool {
		c.entries.Delete(key)
		return true
	})
}

// Close stops the expiry sweeper
func (c *InMemoryRateTableCache) Close() error {
	if c.stopped.CompareAndSwap(false, true) {
		close(c.stopCh)
	}
	return nil
}

// Stats returns hit and miss counts
func (c *InMemoryRateTableCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Len returns the number of cached pairs, expired ones included
func (c *InMemoryRateTableCache) Len() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (c *InMemoryRateTableCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.removeExpired(time.Now())
		}
	}
}

func (c *InMemoryRateTableCache) removeExpired(now time.Time) int {
	removed := 0
	c.entries.Range(func(key, value any) bool {
		if value.(*rateEntry).isExpired(now) {
			c.entries.CompareAndDelete(key, value)
			removed++
		}
		return true
	})
	if removed > 0 {
		c.logger.Debug("removed expired rate cache entries", zap.Int("removed", removed))
	}
	return removed
}

// cloneRates keeps callers from mutating cached rows
func cloneRates(rates []finance.PayoutRate) []finance.PayoutRate {
	if rates == nil {
		return []finance.PayoutRate{}
	}
	out := make([]finance.PayoutRate, len(rates))
	copy(out, rates)
	return out
}

var _ appfinance.RateTableCache = (*InMemoryRateTableCache)(nil)
