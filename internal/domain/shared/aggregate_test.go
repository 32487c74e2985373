package shared

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noteEvent struct {
	BaseDomainEvent
}

func TestBaseAggregateRoot(t *testing.T) {
	agg := NewBaseAggregateRoot()
	require.NotEqual(t, uuid.Nil, agg.ID)
	assert.Equal(t, 1, agg.Version)
	assert.Equal(t, agg.CreatedAt, agg.UpdatedAt)
	assert.Empty(t, agg.GetDomainEvents())

	agg.IncrementVersion()
	assert.Equal(t, 2, agg.Version)
	assert.False(t, agg.UpdatedAt.Before(agg.CreatedAt))

	first := &noteEvent{NewBaseDomainEvent("First", "Note", agg.ID)}
	second := &noteEvent{NewBaseDomainEvent("Second", "Note", agg.ID)}
	agg.AddDomainEvent(first)
	agg.AddDomainEvent(second)

	events := agg.GetDomainEvents()
	require.Len(t, events, 2)
	assert.Equal(t, "First", events[0].EventType())
	assert.Equal(t, "Second", events[1].EventType())

	agg.ClearDomainEvents()
	assert.Empty(t, agg.GetDomainEvents())
}

func TestNewBaseDomainEvent(t *testing.T) {
	id := uuid.New()
	e := NewBaseDomainEvent("PayoutsRecomputed", "RevenueEntry", id)

	assert.NotEqual(t, uuid.Nil, e.EventID())
	assert.Equal(t, "PayoutsRecomputed", e.EventType())
	assert.Equal(t, id, e.AggregateID())
	assert.Equal(t, "RevenueEntry", e.AggregateType())
	assert.False(t, e.OccurredAt().IsZero())

	other := NewBaseDomainEvent("PayoutsRecomputed", "RevenueEntry", id)
	assert.NotEqual(t, e.EventID(), other.EventID())
}

func TestFilter_Offset(t *testing.T) {
	assert.Equal(t, 0, Filter{}.Offset())
	assert.Equal(t, 0, Filter{Page: 1, PageSize: 20}.Offset())
	assert.Equal(t, 40, Filter{Page: 3, PageSize: 20}.Offset())
	assert.Equal(t, 0, Filter{Page: 3}.Offset())

	d := DefaultFilter()
	assert.Equal(t, 1, d.Page)
	assert.Equal(t, 20, d.PageSize)
	assert.NotNil(t, d.Filters)
}
