package finance

import (
	"time"

	"github.com/carehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payout is a derived commission owed to one staff member for one revenue entry.
// Percentage is a snapshot of the rate at computation time.
type Payout struct {
	shared.BaseEntity
	RevenueEntryID uuid.UUID       `json:"revenue_entry_id"`
	StaffID        uuid.UUID       `json:"staff_id"`
	Amount         decimal.Decimal `json:"amount"`
	Percentage     decimal.Decimal `json:"percentage"`
}

// PayoutsFromLines turns the persistable lines of a computation into Payout rows
func PayoutsFromLines(entryID uuid.UUID, lines []PayoutLine) []Payout {
	now := time.Now()
	payouts := make([]Payout, 0, len(lines))
	for _, line := range PersistableLines(lines) {
		payouts = append(payouts, Payout{
			BaseEntity: shared.BaseEntity{
				ID:        uuid.New(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			RevenueEntryID: entryID,
			StaffID:        line.StaffID,
			Amount:         line.Amount.Amount(),
			Percentage:     line.Percentage.Decimal(),
		})
	}
	return payouts
}

// SamePayoutSet reports whether two payout sets hold the same (staff, amount, percentage) lines
func SamePayoutSet(a, b []Payout) bool {
	if len(a) != len(b) {
		return false
	}
	index := make(map[uuid.UUID]Payout, len(a))
	for _, p := range a {
		index[p.StaffID] = p
	}
	for _, p := range b {
		other, ok := index[p.StaffID]
		if !ok || !other.Amount.Equal(p.Amount) || !other.Percentage.Equal(p.Percentage) {
			return false
		}
	}
	return true
}
