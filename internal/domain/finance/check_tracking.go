package finance

import (
	"strings"
	"time"

	"github.com/carehouse/backend/internal/domain/shared"
	"github.com/carehouse/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CheckTracking records a check received from a payer. It is reconciled against the
// revenue entries sharing its check number; the reconciliation itself is never stored.
type CheckTracking struct {
	shared.BaseAggregateRoot
	ServiceProvider string          `json:"service_provider"`
	CheckNumber     string          `json:"check_number"`
	CheckAmount     decimal.Decimal `json:"check_amount"`
	CheckDate       time.Time       `json:"check_date"`
	ProcessedDate   *time.Time      `json:"processed_date"`
	Notes           string          `json:"notes"`
}

// CheckTrackingParams carries the mutable fields of a check record
type CheckTrackingParams struct {
	ServiceProvider string
	CheckNumber     string
	CheckAmount     valueobject.Money
	CheckDate       time.Time
	ProcessedDate   *time.Time
	Notes           string
}

func (p *CheckTrackingParams) normalize() error {
	p.ServiceProvider = strings.TrimSpace(p.ServiceProvider)
	p.CheckNumber = strings.TrimSpace(p.CheckNumber)
	if p.ServiceProvider == "" {
		return shared.NewDomainError("INVALID_PROVIDER", "Service provider cannot be empty")
	}
	if p.CheckNumber == "" {
		return shared.NewDomainError("INVALID_CHECK_NUMBER", "Check number cannot be empty")
	}
	if len(p.CheckNumber) > 64 {
		return shared.NewDomainError("INVALID_CHECK_NUMBER", "Check number cannot exceed 64 characters")
	}
	if err := p.CheckAmount.ValidateCurrencyAmount(); err != nil {
		return shared.WrapDomainError("INVALID_AMOUNT", "Check amount must be non-negative with at most 2 decimal places", err)
	}
	if p.CheckDate.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Check date is required")
	}
	return nil
}

// NewCheckTracking creates a check record
func NewCheckTracking(params CheckTrackingParams) (*CheckTracking, error) {
	if err := params.normalize(); err != nil {
		return nil, err
	}
	c := &CheckTracking{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	c.apply(params)
	return c, nil
}

// Update replaces the check record's fields
func (c *CheckTracking) Update(params CheckTrackingParams) error {
	if err := params.normalize(); err != nil {
		return err
	}
	c.apply(params)
	c.IncrementVersion()
	c.Touch()
	return nil
}

func (c *CheckTracking) apply(p CheckTrackingParams) {
	c.ServiceProvider = p.ServiceProvider
	c.CheckNumber = p.CheckNumber
	c.CheckAmount = p.CheckAmount.Amount()
	c.CheckDate = p.CheckDate
	c.ProcessedDate = p.ProcessedDate
	c.Notes = strings.TrimSpace(p.Notes)
}

// CheckAmountMoney returns the face amount of the check
func (c *CheckTracking) CheckAmountMoney() valueobject.Money {
	return valueobject.NewMoney(c.CheckAmount)
}
