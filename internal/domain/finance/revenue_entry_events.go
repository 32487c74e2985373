package finance

import (
	"github.com/carehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const aggregateTypeRevenueEntry = "RevenueEntry"

// Event type names
const (
	EventTypeRevenueEntryCreated = "RevenueEntryCreated"
	EventTypeRevenueEntryUpdated = "RevenueEntryUpdated"
	EventTypeRevenueEntryDeleted = "RevenueEntryDeleted"
	EventTypePayoutsRecomputed   = "PayoutsRecomputed"
	EventTypePayoutRatesChanged  = "PayoutRatesChanged"
)

// RevenueEntryCreatedEvent is raised when a revenue entry is recorded
type RevenueEntryCreatedEvent struct {
	shared.BaseDomainEvent
	EntryID       uuid.UUID       `json:"entry_id"`
	HouseID       uuid.UUID       `json:"house_id"`
	ServiceCodeID uuid.UUID       `json:"service_code_id"`
	Amount        decimal.Decimal `json:"amount"`
	CheckNumber   string          `json:"check_number,omitempty"`
}

// NewRevenueEntryCreatedEvent creates a RevenueEntryCreatedEvent
func NewRevenueEntryCreatedEvent(e *RevenueEntry) *RevenueEntryCreatedEvent {
	return &RevenueEntryCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRevenueEntryCreated, aggregateTypeRevenueEntry, e.ID),
		EntryID:         e.ID,
		HouseID:         e.HouseID,
		ServiceCodeID:   e.ServiceCodeID,
		Amount:          e.Amount,
		CheckNumber:     e.CheckNumber,
	}
}

// RevenueEntryUpdatedEvent is raised when a revenue entry is re-saved
type RevenueEntryUpdatedEvent struct {
	shared.BaseDomainEvent
	EntryID        uuid.UUID       `json:"entry_id"`
	Version        int             `json:"version"`
	PreviousAmount decimal.Decimal `json:"previous_amount"`
	Amount         decimal.Decimal `json:"amount"`
}

// NewRevenueEntryUpdatedEvent creates a RevenueEntryUpdatedEvent
func NewRevenueEntryUpdatedEvent(e *RevenueEntry, previousAmount decimal.Decimal) *RevenueEntryUpdatedEvent {
	return &RevenueEntryUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRevenueEntryUpdated, aggregateTypeRevenueEntry, e.ID),
		EntryID:         e.ID,
		Version:         e.Version,
		PreviousAmount:  previousAmount,
		Amount:          e.Amount,
	}
}

// RevenueEntryDeletedEvent is raised after a revenue entry and its payouts are removed
type RevenueEntryDeletedEvent struct {
	shared.BaseDomainEvent
	EntryID uuid.UUID       `json:"entry_id"`
	Amount  decimal.Decimal `json:"amount"`
}

// NewRevenueEntryDeletedEvent creates a RevenueEntryDeletedEvent
func NewRevenueEntryDeletedEvent(e *RevenueEntry) *RevenueEntryDeletedEvent {
	return &RevenueEntryDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRevenueEntryDeleted, aggregateTypeRevenueEntry, e.ID),
		EntryID:         e.ID,
		Amount:          e.Amount,
	}
}

// PayoutsRecomputedEvent is raised when an entry's payout set has been replaced
type PayoutsRecomputedEvent struct {
	shared.BaseDomainEvent
	EntryID     uuid.UUID       `json:"entry_id"`
	Version     int             `json:"version"`
	LineCount   int             `json:"line_count"`
	PayoutTotal decimal.Decimal `json:"payout_total"`
}

// NewPayoutsRecomputedEvent creates a PayoutsRecomputedEvent
func NewPayoutsRecomputedEvent(entryID uuid.UUID, version int, payouts []Payout) *PayoutsRecomputedEvent {
	total := decimal.Zero
	for _, p := range payouts {
		total = total.Add(p.Amount)
	}
	return &PayoutsRecomputedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePayoutsRecomputed, aggregateTypeRevenueEntry, entryID),
		EntryID:         entryID,
		Version:         version,
		LineCount:       len(payouts),
		PayoutTotal:     total,
	}
}

// PayoutRatesChangedEvent is raised after a rate batch is saved
type PayoutRatesChangedEvent struct {
	shared.BaseDomainEvent
	Keys []RateKey `json:"keys"`
}

// NewPayoutRatesChangedEvent creates a PayoutRatesChangedEvent
func NewPayoutRatesChangedEvent(keys []RateKey) *PayoutRatesChangedEvent {
	return &PayoutRatesChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePayoutRatesChanged, "PayoutRate", uuid.Nil),
		Keys:            keys,
	}
}
