package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/carehouse/backend/internal/domain/finance"
	"github.com/carehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panics     bool
	mu         sync.Mutex
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	if h.panics {
		panic("boom")
	}
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) getHandled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

func newEntryDeletedEvent() shared.DomainEvent {
	entry := &finance.RevenueEntry{}
	entry.ID = uuid.New()
	return finance.NewRevenueEntryDeletedEvent(entry)
}

func newRatesChangedEvent() shared.DomainEvent {
	return finance.NewPayoutRatesChangedEvent([]finance.RateKey{{HouseID: uuid.New(), ServiceCodeID: uuid.New()}})
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers to handlers of the event type", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		deleted := newTestHandler(finance.EventTypeRevenueEntryDeleted)
		rates := newTestHandler(finance.EventTypePayoutRatesChanged)
		bus.Subscribe(deleted)
		bus.Subscribe(rates)

		event := newEntryDeletedEvent()
		require.NoError(t, bus.Publish(ctx, event, newEntryDeletedEvent()))

		require.Len(t, deleted.getHandled(), 2)
		assert.Equal(t, event, deleted.getHandled()[0])
		assert.Empty(t, rates.getHandled())
	})

	t.Run("wildcard handlers see every event", func(t *testing.T) {
		bus := NewInMemoryEventBus(nil)
		all := newTestHandler()
		bus.Subscribe(all)

		require.NoError(t, bus.Publish(ctx, newEntryDeletedEvent(), newRatesChangedEvent()))

		assert.Len(t, all.getHandled(), 2)
	})

	t.Run("handler errors are joined and delivery continues", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := newTestHandler(finance.EventTypePayoutRatesChanged)
		failing.err = errors.New("cache down")
		healthy := newTestHandler(finance.EventTypePayoutRatesChanged)
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		err := bus.Publish(ctx, newRatesChangedEvent())

		require.Error(t, err)
		assert.ErrorIs(t, err, failing.err)
		assert.Len(t, healthy.getHandled(), 1)
	})

	t.Run("handler panics become errors", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		panicking := newTestHandler(finance.EventTypePayoutRatesChanged)
		panicking.panics = true
		healthy := newTestHandler(finance.EventTypePayoutRatesChanged)
		bus.Subscribe(panicking)
		bus.Subscribe(healthy)

		err := bus.Publish(ctx, newRatesChangedEvent())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "panicked")
		assert.Len(t, healthy.getHandled(), 1)
	})
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	ctx := context.Background()
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler(finance.EventTypeRevenueEntryDeleted)
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(ctx, newEntryDeletedEvent()))
	bus.Unsubscribe(handler)
	require.NoError(t, bus.Publish(ctx, newEntryDeletedEvent()))

	assert.Len(t, handler.getHandled(), 1)
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler(finance.EventTypeRevenueEntryDeleted)
	bus.Subscribe(handler)

	require.NoError(t, bus.Start(context.Background()))
	require.NoError(t, bus.Publish(context.Background(), newEntryDeletedEvent()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, bus.Stop(ctx))

	err := bus.Publish(context.Background(), newEntryDeletedEvent())
	assert.ErrorIs(t, err, ErrBusStopped)
	assert.Len(t, handler.getHandled(), 1)
}
