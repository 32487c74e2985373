package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// PercentageScale is the number of fractional digits kept for rates ("33.33%")
const PercentageScale int32 = 2

var (
	hundred = decimal.NewFromInt(100)

	// ErrPercentageRange is returned for percentages outside [0, 100]
	ErrPercentageRange = errors.New("percentage must be between 0 and 100")
	// ErrPercentagePrecision is returned for percentages with more than two fractional digits
	ErrPercentagePrecision = errors.New("percentage cannot have more than 2 decimal places")
)

// Percentage is a share of an amount expressed in percent (0-100)
type Percentage struct {
	value decimal.Decimal
}

// NewPercentage validates and creates a Percentage
func NewPercentage(value decimal.Decimal) (Percentage, error) {
	if value.IsNegative() || value.GreaterThan(hundred) {
		return Percentage{}, ErrPercentageRange
	}
	if !value.Equal(value.Truncate(PercentageScale)) {
		return Percentage{}, ErrPercentagePrecision
	}
	return Percentage{value: value}, nil
}

// MustPercentage parses a literal percentage and panics on failure. Intended for tests.
func MustPercentage(value string) Percentage {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	p, err := NewPercentage(d)
	if err != nil {
		panic(err)
	}
	return p
}

// ZeroPercentage returns 0%
func ZeroPercentage() Percentage {
	return Percentage{value: decimal.Zero}
}

// HundredPercent returns 100%
func HundredPercent() Percentage {
	return Percentage{value: hundred}
}

// Decimal returns the raw percent value (33.33 for 33.33%)
func (p Percentage) Decimal() decimal.Decimal {
	return p.value
}

// IsZero returns true for 0%
func (p Percentage) IsZero() bool {
	return p.value.IsZero()
}

// IsPositive returns true for any share above 0%
func (p Percentage) IsPositive() bool {
	return p.value.IsPositive()
}

// Equals compares two percentages by value
func (p Percentage) Equals(other Percentage) bool {
	return p.value.Equal(other.value)
}

// ApplyTo returns round(amount * p / 100, 2) using half-up rounding
func (p Percentage) ApplyTo(amount Money) Money {
	return amount.Multiply(p.value.Div(hundred)).RoundCents()
}

// String formats the percentage as "33.33%"
func (p Percentage) String() string {
	return p.value.StringFixed(PercentageScale) + "%"
}

// MarshalJSON encodes the percentage as a two-decimal JSON number
func (p Percentage) MarshalJSON() ([]byte, error) {
	return []byte(p.value.StringFixed(PercentageScale)), nil
}

// UnmarshalJSON accepts numbers or quoted strings and validates the range
func (p *Percentage) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("invalid percentage: %w", err)
	}
	parsed, err := NewPercentage(d)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Value implements driver.Valuer
func (p Percentage) Value() (driver.Value, error) {
	return p.value.StringFixed(PercentageScale), nil
}

// Scan implements sql.Scanner
func (p *Percentage) Scan(value any) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return fmt.Errorf("cannot scan %T into Percentage: %w", value, err)
	}
	p.value = d
	return nil
}
