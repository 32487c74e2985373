package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits carried by currency amounts
const MoneyScale int32 = 2

// Currency represents a currency code (ISO 4217)
type Currency string

// USD is the only currency the back office books in
const USD Currency = "USD"

// DefaultCurrency is the default currency for the system
const DefaultCurrency = USD

var (
	// ErrNegativeAmount is returned when an amount must not be negative
	ErrNegativeAmount = errors.New("amount cannot be negative")
	// ErrAmountPrecision is returned when an amount has more than two fractional digits
	ErrAmountPrecision = errors.New("amount cannot have more than 2 decimal places")
)

// Money is a value object representing monetary amounts.
// It is immutable - all operations return new Money instances.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates Money in the default currency
func NewMoney(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: DefaultCurrency}
}

// NewMoneyFromString creates Money from a string representation
func NewMoneyFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewMoney(d), nil
}

// MustMoney parses a literal amount and panics on failure. Intended for constants and tests.
func MustMoney(amount string) Money {
	m, err := NewMoneyFromString(amount)
	if err != nil {
		panic(err)
	}
	return m
}

// ZeroMoney returns a zero amount in the default currency
func ZeroMoney() Money {
	return Money{amount: decimal.Zero, currency: DefaultCurrency}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	if m.currency == "" {
		return DefaultCurrency
	}
	return m.currency
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive returns true if the amount is positive
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Add returns the sum of both amounts
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount), currency: m.Currency()}
}

// Subtract returns the difference of both amounts
func (m Money) Subtract(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount), currency: m.Currency()}
}

// Multiply returns a new Money multiplied by the given factor, unrounded
func (m Money) Multiply(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor), currency: m.Currency()}
}

// Abs returns a new Money with the absolute value
func (m Money) Abs() Money {
	return Money{amount: m.amount.Abs(), currency: m.Currency()}
}

// Round rounds half away from zero to the given places (1.005 -> 1.01)
func (m Money) Round(places int32) Money {
	return Money{amount: m.amount.Round(places), currency: m.Currency()}
}

// RoundCents rounds half-up to whole cents
func (m Money) RoundCents() Money {
	return m.Round(MoneyScale)
}

// ValidateCurrencyAmount checks that the amount is non-negative and carries at most two
// fractional digits.
func (m Money) ValidateCurrencyAmount() error {
	if m.amount.IsNegative() {
		return ErrNegativeAmount
	}
	if !m.amount.Equal(m.amount.Truncate(MoneyScale)) {
		return ErrAmountPrecision
	}
	return nil
}

// Equals returns true if both Money values are equal
func (m Money) Equals(other Money) bool {
	return m.Currency() == other.Currency() && m.amount.Equal(other.amount)
}

// LessThan returns true if this Money is less than the other
func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

// GreaterThan returns true if this Money is greater than the other
func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

// String returns a string representation of the Money
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(MoneyScale), m.Currency())
}

// StringFixed returns the amount as a string with fixed decimal places
func (m Money) StringFixed(places int32) string {
	return m.amount.StringFixed(places)
}

// MarshalJSON encodes the amount as a fixed two-decimal JSON number
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.amount.StringFixed(MoneyScale)), nil
}

// UnmarshalJSON accepts both JSON numbers and quoted decimal strings
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	m.amount = d
	m.currency = DefaultCurrency
	return nil
}

// Value implements driver.Valuer for database storage
func (m Money) Value() (driver.Value, error) {
	return m.amount.StringFixed(MoneyScale), nil
}

// Scan implements sql.Scanner for database retrieval
func (m *Money) Scan(value any) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return fmt.Errorf("cannot scan %T into Money: %w", value, err)
	}
	m.amount = d
	m.currency = DefaultCurrency
	return nil
}

// SumMoney adds up a list of amounts
func SumMoney(amounts ...Money) Money {
	total := ZeroMoney()
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
