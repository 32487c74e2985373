package finance

import (
	"testing"

	"github.com/carehouse/backend/internal/domain/directory"
	"github.com/carehouse/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rate(house, svc, staff uuid.UUID, pct string) PayoutRate {
	r, err := NewPayoutRate(house, svc, staff, valueobject.MustPercentage(pct))
	if err != nil {
		panic(err)
	}
	return *r
}

func TestComputePayouts(t *testing.T) {
	house, svc := uuid.New(), uuid.New()
	alice := directory.StaffRef{ID: uuid.New(), Name: "Alice"}
	bob := directory.StaffRef{ID: uuid.New(), Name: "Bob"}
	carol := directory.StaffRef{ID: uuid.New(), Name: "Carol"}
	roster := []directory.StaffRef{alice, bob, carol}

	t.Run("rounds 33.33 percent of 100.00 to 33.33", func(t *testing.T) {
		table := NewRateTable([]PayoutRate{rate(house, svc, alice.ID, "33.33")})
		lines := ComputePayouts(valueobject.MustMoney("100.00"), house, svc, table, []directory.StaffRef{alice})
		require.Len(t, lines, 1)
		assert.Equal(t, "33.33", lines[0].Amount.StringFixed(2))
		assert.Equal(t, "Alice", lines[0].StaffName)
	})

	t.Run("emits a zero line for staff without a rate", func(t *testing.T) {
		table := NewRateTable([]PayoutRate{
			rate(house, svc, alice.ID, "40"),
			rate(house, svc, bob.ID, "0"),
		})
		lines := ComputePayouts(valueobject.MustMoney("250.00"), house, svc, table, roster)
		require.Len(t, lines, 3)
		assert.Equal(t, "100.00", lines[0].Amount.StringFixed(2))
		assert.True(t, lines[1].Amount.IsZero())
		assert.True(t, lines[2].Amount.IsZero())
		assert.True(t, lines[2].Percentage.IsZero())

		persisted := PersistableLines(lines)
		require.Len(t, persisted, 1)
		assert.Equal(t, alice.ID, persisted[0].StaffID)
	})

	t.Run("ignores rates of other pairs", func(t *testing.T) {
		otherHouse := uuid.New()
		table := NewRateTable([]PayoutRate{rate(otherHouse, svc, alice.ID, "50")})
		lines := ComputePayouts(valueobject.MustMoney("100"), house, svc, table, roster)
		assert.True(t, SumLines(lines).IsZero())
	})

	t.Run("empty roster yields no lines", func(t *testing.T) {
		lines := ComputePayouts(valueobject.MustMoney("100"), house, svc, NewRateTable(nil), nil)
		assert.Empty(t, lines)
	})

	t.Run("never exceeds the amount when rounding overshoots", func(t *testing.T) {
		table := NewRateTable([]PayoutRate{
			rate(house, svc, alice.ID, "33.33"),
			rate(house, svc, bob.ID, "33.33"),
			rate(house, svc, carol.ID, "33.34"),
		})
		amount := valueobject.MustMoney("0.05")
		lines := ComputePayouts(amount, house, svc, table, roster)
		total := SumLines(lines)
		assert.False(t, total.GreaterThan(amount), "total %s exceeds %s", total, amount)
	})

	t.Run("full allocation sums exactly to the amount", func(t *testing.T) {
		table := NewRateTable([]PayoutRate{
			rate(house, svc, alice.ID, "50"),
			rate(house, svc, bob.ID, "30"),
			rate(house, svc, carol.ID, "20"),
		})
		amount := valueobject.MustMoney("123.45")
		lines := ComputePayouts(amount, house, svc, table, roster)
		// 61.725 and 37.035 both round up; the extra cent comes back from the first line.
		assert.True(t, SumLines(lines).Equals(amount))
		assert.Equal(t, "61.72", lines[0].Amount.StringFixed(2))
		assert.Equal(t, "37.04", lines[1].Amount.StringFixed(2))
		assert.Equal(t, "24.69", lines[2].Amount.StringFixed(2))
	})
}

func TestPayoutSumBound(t *testing.T) {
	house, svc := uuid.New(), uuid.New()
	roster := make([]directory.StaffRef, 7)
	rates := make([]PayoutRate, 0, 7)
	pcts := []string{"14.29", "14.29", "14.28", "14.28", "14.29", "14.28", "14.29"}
	for i := range roster {
		roster[i] = directory.StaffRef{ID: uuid.New()}
		rates = append(rates, rate(house, svc, roster[i].ID, pcts[i]))
	}
	table := NewRateTable(rates)
	require.True(t, table.TotalFor(RateKey{house, svc}).Equal(decimal.NewFromInt(100)))

	for cents := int64(0); cents <= 2000; cents += 7 {
		amount := valueobject.NewMoney(decimal.New(cents, -2))
		total := SumLines(ComputePayouts(amount, house, svc, table, roster))
		assert.False(t, total.GreaterThan(amount), "amount %s total %s", amount, total)
	}
}

func TestValidateRevenueAmount(t *testing.T) {
	assert.NoError(t, ValidateRevenueAmount(valueobject.MustMoney("0")))
	assert.NoError(t, ValidateRevenueAmount(valueobject.MustMoney("10.10")))
	assert.Error(t, ValidateRevenueAmount(valueobject.MustMoney("-5")))
	assert.Error(t, ValidateRevenueAmount(valueobject.MustMoney("10.101")))
}

func TestPayoutsFromLines(t *testing.T) {
	entryID := uuid.New()
	lines := []PayoutLine{
		{StaffID: uuid.New(), Percentage: valueobject.MustPercentage("25"), Amount: valueobject.MustMoney("25.00")},
		{StaffID: uuid.New(), Percentage: valueobject.ZeroPercentage(), Amount: valueobject.ZeroMoney()},
	}
	payouts := PayoutsFromLines(entryID, lines)
	require.Len(t, payouts, 1)
	assert.Equal(t, entryID, payouts[0].RevenueEntryID)
	assert.True(t, payouts[0].Amount.Equal(decimal.NewFromInt(25)))
	assert.True(t, payouts[0].Percentage.Equal(decimal.NewFromInt(25)))

	again := PayoutsFromLines(entryID, lines)
	assert.True(t, SamePayoutSet(payouts, again))
	again[0].Amount = decimal.NewFromInt(26)
	assert.False(t, SamePayoutSet(payouts, again))
	assert.False(t, SamePayoutSet(payouts, nil))
}
