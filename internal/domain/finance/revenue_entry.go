package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/carehouse/backend/internal/domain/shared"
	"github.com/carehouse/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RevenueStatus represents the billing status of a revenue entry
type RevenueStatus string

const (
	RevenueStatusPending RevenueStatus = "pending"
	RevenueStatusBilled  RevenueStatus = "billed"
	RevenueStatusPaid    RevenueStatus = "paid"
	RevenueStatusVoid    RevenueStatus = "void"
)

// IsValid checks if the status is a valid RevenueStatus
func (s RevenueStatus) IsValid() bool {
	switch s {
	case RevenueStatusPending, RevenueStatusBilled, RevenueStatusPaid, RevenueStatusVoid:
		return true
	}
	return false
}

// String returns the string representation of RevenueStatus
func (s RevenueStatus) String() string {
	return string(s)
}

// RevenueEntry is a recorded billable service. It exclusively owns its Payout rows.
type RevenueEntry struct {
	shared.BaseAggregateRoot
	Date          time.Time       `json:"date"`
	CheckDate     *time.Time      `json:"check_date"`
	CheckNumber   string          `json:"check_number"`
	Amount        decimal.Decimal `json:"amount"`
	PatientID     *uuid.UUID      `json:"patient_id"`
	HouseID       uuid.UUID       `json:"house_id"`
	ServiceCodeID uuid.UUID       `json:"service_code_id"`
	Notes         string          `json:"notes"`
	Status        RevenueStatus   `json:"status"`
	// PayoutsVersion is the entry version its stored payouts were computed for.
	// It trails Version until the recompute command has run for the latest save.
	PayoutsVersion int `json:"payouts_version"`
}

// RevenueEntryParams carries the mutable fields of a revenue entry
type RevenueEntryParams struct {
	Date          time.Time
	CheckDate     *time.Time
	CheckNumber   string
	Amount        valueobject.Money
	PatientID     *uuid.UUID
	HouseID       uuid.UUID
	ServiceCodeID uuid.UUID
	Notes         string
	Status        RevenueStatus
}

func (p *RevenueEntryParams) normalize() error {
	if p.Date.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Service date is required")
	}
	if p.HouseID == uuid.Nil {
		return shared.NewDomainError("INVALID_HOUSE", "House is required")
	}
	if p.ServiceCodeID == uuid.Nil {
		return shared.NewDomainError("INVALID_SERVICE_CODE", "Service code is required")
	}
	if err := ValidateRevenueAmount(p.Amount); err != nil {
		return err
	}
	if p.Status == "" {
		p.Status = RevenueStatusPending
	}
	if !p.Status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown revenue status %q", p.Status))
	}
	p.CheckNumber = strings.TrimSpace(p.CheckNumber)
	if len(p.CheckNumber) > 64 {
		return shared.NewDomainError("INVALID_CHECK_NUMBER", "Check number cannot exceed 64 characters")
	}
	if p.PatientID != nil && *p.PatientID == uuid.Nil {
		p.PatientID = nil
	}
	return nil
}

// NewRevenueEntry validates params and creates a new revenue entry
func NewRevenueEntry(params RevenueEntryParams) (*RevenueEntry, error) {
	if err := params.normalize(); err != nil {
		return nil, err
	}
	entry := &RevenueEntry{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	entry.apply(params)
	entry.AddDomainEvent(NewRevenueEntryCreatedEvent(entry))
	return entry, nil
}

// Update replaces the entry's fields and bumps its version. Stored payouts become
// stale until the recompute command runs for the new version.
func (e *RevenueEntry) Update(params RevenueEntryParams) error {
	if err := params.normalize(); err != nil {
		return err
	}
	previous := e.Amount
	e.apply(params)
	e.IncrementVersion()
	e.Touch()
	e.AddDomainEvent(NewRevenueEntryUpdatedEvent(e, previous))
	return nil
}

// MarkDeleted records the deletion event
func (e *RevenueEntry) MarkDeleted() {
	e.AddDomainEvent(NewRevenueEntryDeletedEvent(e))
}

func (e *RevenueEntry) apply(p RevenueEntryParams) {
	e.Date = p.Date
	e.CheckDate = p.CheckDate
	e.CheckNumber = p.CheckNumber
	e.Amount = p.Amount.Amount()
	e.PatientID = p.PatientID
	e.HouseID = p.HouseID
	e.ServiceCodeID = p.ServiceCodeID
	e.Notes = strings.TrimSpace(p.Notes)
	e.Status = p.Status
}

// AmountMoney returns the entry amount as Money
func (e *RevenueEntry) AmountMoney() valueobject.Money {
	return valueobject.NewMoney(e.Amount)
}

// PayoutsCurrent reports whether the stored payouts reflect the latest save
func (e *RevenueEntry) PayoutsCurrent() bool {
	return e.PayoutsVersion == e.Version
}

// HasCheckNumber reports whether the entry is attributed to a check
func (e *RevenueEntry) HasCheckNumber() bool {
	return e.CheckNumber != ""
}
