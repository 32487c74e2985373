package finance

import (
	"sort"

	"github.com/carehouse/backend/internal/domain/directory"
	"github.com/carehouse/backend/internal/domain/shared"
	"github.com/carehouse/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	oneCent = valueobject.NewMoney(decimal.New(1, -2))
)

// PayoutLine is one staff member's computed share of a revenue amount
type PayoutLine struct {
	StaffID    uuid.UUID              `json:"staff_id"`
	StaffName  string                 `json:"staff_name"`
	Percentage valueobject.Percentage `json:"percentage"`
	Amount     valueobject.Money      `json:"amount"`
}

// Persistable reports whether the line becomes a stored Payout. Zero-percent lines
// are shown in previews only.
func (l PayoutLine) Persistable() bool {
	return l.Percentage.IsPositive()
}

// ValidateRevenueAmount enforces currency semantics on a revenue amount
func ValidateRevenueAmount(amount valueobject.Money) error {
	if err := amount.ValidateCurrencyAmount(); err != nil {
		return shared.WrapDomainError("INVALID_AMOUNT", "Amount must be non-negative with at most 2 decimal places", err)
	}
	return nil
}

// ComputePayouts emits one line per roster member with round(amount * pct / 100, 2),
// rounding half-up. Staff without a rate row for (houseID, serviceCodeID) get a 0% line.
// The function trusts the rate table; the 100% ceiling is enforced when rates are saved.
//
// Half-up rounding of several lines can overshoot the amount by a few cents when the
// rates add up to (nearly) 100%. In that case the overshoot is taken back one cent at a
// time from the lines that gained the most from rounding, so the total never exceeds amount.
func ComputePayouts(
	amount valueobject.Money,
	houseID, serviceCodeID uuid.UUID,
	table RateTable,
	roster []directory.StaffRef,
) []PayoutLine {
	lines := make([]PayoutLine, 0, len(roster))
	gains := make([]decimal.Decimal, 0, len(roster))
	for _, staff := range roster {
		pct := table.PercentageFor(houseID, serviceCodeID, staff.ID)
		rounded := pct.ApplyTo(amount)
		exact := amount.Multiply(pct.Decimal()).Amount().Div(hundred)
		lines = append(lines, PayoutLine{
			StaffID:    staff.ID,
			StaffName:  staff.Name,
			Percentage: pct,
			Amount:     rounded,
		})
		gains = append(gains, rounded.Amount().Sub(exact))
	}

	excess := SumLines(lines).Subtract(amount)
	if !excess.IsPositive() {
		return lines
	}

	order := make([]int, len(lines))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return gains[order[a]].GreaterThan(gains[order[b]])
	})
	for _, idx := range order {
		if !excess.IsPositive() {
			break
		}
		if !lines[idx].Amount.IsPositive() {
			continue
		}
		lines[idx].Amount = lines[idx].Amount.Subtract(oneCent)
		excess = excess.Subtract(oneCent)
	}
	return lines
}

// PersistableLines filters lines down to those that are stored as Payout rows
func PersistableLines(lines []PayoutLine) []PayoutLine {
	out := make([]PayoutLine, 0, len(lines))
	for _, l := range lines {
		if l.Persistable() {
			out = append(out, l)
		}
	}
	return out
}

// SumLines totals the amounts of the given lines
func SumLines(lines []PayoutLine) valueobject.Money {
	total := valueobject.ZeroMoney()
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	return total
}
