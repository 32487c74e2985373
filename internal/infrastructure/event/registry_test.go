package event

import (
	"testing"

	"github.com/carehouse/backend/internal/domain/finance"
	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry_Register(t *testing.T) {
	t.Run("specific types", func(t *testing.T) {
		registry := NewHandlerRegistry()
		handler := newTestHandler()

		registry.Register(handler, finance.EventTypeRevenueEntryCreated, finance.EventTypeRevenueEntryUpdated)

		handlers := registry.GetHandlers(finance.EventTypeRevenueEntryCreated)
		assert.Len(t, handlers, 1)
		assert.Same(t, handler, handlers[0])
		assert.Len(t, registry.GetHandlers(finance.EventTypeRevenueEntryUpdated), 1)
		assert.Empty(t, registry.GetHandlers(finance.EventTypeRevenueEntryDeleted))
	})

	t.Run("wildcard handlers follow typed handlers", func(t *testing.T) {
		registry := NewHandlerRegistry()
		typed := newTestHandler()
		wildcard := newTestHandler()
		registry.Register(wildcard)
		registry.Register(typed, finance.EventTypePayoutsRecomputed)

		handlers := registry.GetHandlers(finance.EventTypePayoutsRecomputed)

		assert.Len(t, handlers, 2)
		assert.Same(t, typed, handlers[0])
		assert.Same(t, wildcard, handlers[1])
		assert.Len(t, registry.GetHandlers("Unknown"), 1)
	})

	t.Run("duplicate registration is ignored", func(t *testing.T) {
		registry := NewHandlerRegistry()
		handler := newTestHandler()

		registry.Register(handler, finance.EventTypePayoutRatesChanged)
		registry.Register(handler, finance.EventTypePayoutRatesChanged)

		assert.Len(t, registry.GetHandlers(finance.EventTypePayoutRatesChanged), 1)
		assert.Equal(t, 1, registry.Count())
	})
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	registry := NewHandlerRegistry()
	first := newTestHandler()
	second := newTestHandler()
	wildcard := newTestHandler()
	registry.Register(first, finance.EventTypeRevenueEntryCreated, finance.EventTypeRevenueEntryDeleted)
	registry.Register(second, finance.EventTypeRevenueEntryCreated)
	registry.Register(wildcard)
	assert.Equal(t, 3, registry.Count())

	registry.Unregister(first)
	registry.Unregister(wildcard)

	handlers := registry.GetHandlers(finance.EventTypeRevenueEntryCreated)
	assert.Len(t, handlers, 1)
	assert.Same(t, second, handlers[0])
	assert.Empty(t, registry.GetHandlers(finance.EventTypeRevenueEntryDeleted))
	assert.Equal(t, 1, registry.Count())
}
