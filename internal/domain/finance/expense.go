package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/carehouse/backend/internal/domain/shared"
	"github.com/carehouse/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ExpenseStatus represents whether an expense has been paid
type ExpenseStatus string

const (
	ExpenseStatusPending ExpenseStatus = "pending"
	ExpenseStatusPaid    ExpenseStatus = "paid"
)

// IsValid checks if the status is a valid ExpenseStatus
func (s ExpenseStatus) IsValid() bool {
	return s == ExpenseStatusPending || s == ExpenseStatusPaid
}

// Expense is an outgoing payment. It only takes part in period reporting.
type Expense struct {
	shared.BaseAggregateRoot
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Vendor      string          `json:"vendor"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Status      ExpenseStatus   `json:"status"`
	PaidAt      *time.Time      `json:"paid_at"`
}

// ExpenseParams carries the mutable fields of an expense
type ExpenseParams struct {
	Date        time.Time
	Amount      valueobject.Money
	Vendor      string
	Category    string
	Description string
}

func (p *ExpenseParams) normalize() error {
	p.Vendor = strings.TrimSpace(p.Vendor)
	p.Category = strings.ToLower(strings.TrimSpace(p.Category))
	if p.Date.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Expense date is required")
	}
	if p.Vendor == "" {
		return shared.NewDomainError("INVALID_VENDOR", "Vendor cannot be empty")
	}
	if p.Category == "" {
		return shared.NewDomainError("INVALID_CATEGORY", "Category cannot be empty")
	}
	if err := p.Amount.ValidateCurrencyAmount(); err != nil {
		return shared.WrapDomainError("INVALID_AMOUNT", "Amount must be non-negative with at most 2 decimal places", err)
	}
	if len(p.Description) > 500 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}
	return nil
}

// NewExpense creates a pending expense
func NewExpense(params ExpenseParams) (*Expense, error) {
	if err := params.normalize(); err != nil {
		return nil, err
	}
	e := &Expense{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Status:            ExpenseStatusPending,
	}
	e.apply(params)
	return e, nil
}

// Update changes the expense details. Paid expenses are frozen.
func (e *Expense) Update(params ExpenseParams) error {
	if e.Status == ExpenseStatusPaid {
		return shared.NewDomainError(shared.CodeInvalidState, "Cannot update a paid expense")
	}
	if err := params.normalize(); err != nil {
		return err
	}
	e.apply(params)
	e.IncrementVersion()
	e.Touch()
	return nil
}

// MarkPaid records payment of the expense
func (e *Expense) MarkPaid(paidAt time.Time) error {
	if e.Status == ExpenseStatusPaid {
		return shared.NewDomainError("ALREADY_PAID", fmt.Sprintf("Expense %s is already paid", e.ID))
	}
	e.Status = ExpenseStatusPaid
	e.PaidAt = &paidAt
	e.IncrementVersion()
	e.Touch()
	return nil
}

func (e *Expense) apply(p ExpenseParams) {
	e.Date = p.Date
	e.Amount = p.Amount.Amount()
	e.Vendor = p.Vendor
	e.Category = p.Category
	e.Description = strings.TrimSpace(p.Description)
}
