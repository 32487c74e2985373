package finance

import (
	"context"
	"fmt"

	"github.com/carehouse/backend/internal/domain/finance"
	"github.com/carehouse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// RateTableCache caches the rate rows of (house, service code) pairs for the preview path.
// The authoritative recompute never reads through the cache.
type RateTableCache interface {
	// Get returns the cached rows of the pair; found is false on a miss
	Get(ctx context.Context, key finance.RateKey) (rates []finance.PayoutRate, found bool, err error)
	Set(ctx context.Context, key finance.RateKey, rates []finance.PayoutRate) error
	Invalidate(ctx context.Context, keys ...finance.RateKey) error
}

// RateCacheInvalidationHandler drops cached rate rows when a rate batch is saved
type RateCacheInvalidationHandler struct {
	cache  RateTableCache
	logger *zap.Logger
}

// NewRateCacheInvalidationHandler creates a new handler for rate change events
func NewRateCacheInvalidationHandler(cache RateTableCache, logger *zap.Logger) *RateCacheInvalidationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateCacheInvalidationHandler{
		cache:  cache,
		logger: logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *RateCacheInvalidationHandler) EventTypes() []string {
	return []string{finance.EventTypePayoutRatesChanged}
}

// Handle invalidates the cached rows of every pair in the event
func (h *RateCacheInvalidationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	changed, ok := event.(*finance.PayoutRatesChangedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", finance.EventTypePayoutRatesChanged),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			finance.EventTypePayoutRatesChanged, event.EventType())
	}
	if len(changed.Keys) == 0 {
		return nil
	}
	if err := h.cache.Invalidate(ctx, changed.Keys...); err != nil {
		h.logger.Warn("failed to invalidate rate cache",
			zap.Int("keys", len(changed.Keys)),
			zap.Error(err),
		)
		return err
	}
	h.logger.Debug("rate cache invalidated", zap.Int("keys", len(changed.Keys)))
	return nil
}
