package persistence

import (
	"context"
	"testing"

	"github.com/carehouse/backend/internal/domain/finance"
	"github.com/carehouse/backend/internal/domain/shared"
	"github.com/carehouse/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPayout(staffID uuid.UUID, amount, pct string) finance.Payout {
	return finance.Payout{
		BaseEntity: shared.NewBaseEntity(),
		StaffID:    staffID,
		Amount:     decimal.RequireFromString(amount),
		Percentage: decimal.RequireFromString(pct),
	}
}

func TestGormPayoutRepository_ReplaceForEntry(t *testing.T) {
	db := setupTestDB(t)
	entries := NewGormRevenueEntryRepository(db)
	repo := NewGormPayoutRepository(db)
	ctx := context.Background()

	entry := newTestEntry(t, "2024-06-01", "300.00", uuid.New(), uuid.New())
	require.NoError(t, entries.Save(ctx, entry))
	ana, ben := uuid.New(), uuid.New()

	require.NoError(t, repo.ReplaceForEntry(ctx, entry.ID, []finance.Payout{
		newTestPayout(ana, "90.00", "30"),
		newTestPayout(ben, "60.00", "20"),
	}))
	payouts, err := repo.FindByEntry(ctx, entry.ID)
	require.NoError(t, err)
	require.Len(t, payouts, 2)
	for _, p := range payouts {
		assert.Equal(t, entry.ID, p.RevenueEntryID, "entry id is forced onto every row")
	}

	require.NoError(t, repo.ReplaceForEntry(ctx, entry.ID, []finance.Payout{newTestPayout(ana, "120.00", "40")}))
	payouts, err = repo.FindByEntry(ctx, entry.ID)
	require.NoError(t, err)
	require.Len(t, payouts, 1)
	assert.Equal(t, ana, payouts[0].StaffID)
	assert.True(t, payouts[0].Amount.Equal(decimal.RequireFromString("120")))

	require.NoError(t, repo.ReplaceForEntry(ctx, entry.ID, nil))
	payouts, err = repo.FindByEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.Empty(t, payouts)
}

func TestGormPayoutRepository_FindAll(t *testing.T) {
	db := setupTestDB(t)
	entries := NewGormRevenueEntryRepository(db)
	repo := NewGormPayoutRepository(db)
	ctx := context.Background()
	ana, ben := uuid.New(), uuid.New()

	june := newTestEntry(t, "2024-06-10", "100.00", uuid.New(), uuid.New())
	july := newTestEntry(t, "2024-07-10", "100.00", uuid.New(), uuid.New())
	require.NoError(t, entries.Save(ctx, june))
	require.NoError(t, entries.Save(ctx, july))
	require.NoError(t, repo.ReplaceForEntry(ctx, june.ID, []finance.Payout{
		newTestPayout(ana, "10.00", "10"),
		newTestPayout(ben, "20.00", "20"),
	}))
	require.NoError(t, repo.ReplaceForEntry(ctx, july.ID, []finance.Payout{newTestPayout(ana, "30.00", "30")}))

	t.Run("by staff", func(t *testing.T) {
		payouts, err := repo.FindAll(ctx, finance.PayoutFilter{StaffID: &ana})
		require.NoError(t, err)
		assert.Len(t, payouts, 2)
	})

	t.Run("by entry service date", func(t *testing.T) {
		from, to := testDay("2024-06-01"), testDay("2024-06-30")
		filter := finance.PayoutFilter{From: &from, To: &to}
		payouts, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, payouts, 2)

		count, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("staff and date range together", func(t *testing.T) {
		from := testDay("2024-07-01")
		payouts, err := repo.FindAll(ctx, finance.PayoutFilter{StaffID: &ana, From: &from})
		require.NoError(t, err)
		require.Len(t, payouts, 1)
		assert.Equal(t, july.ID, payouts[0].RevenueEntryID)
	})

	t.Run("by entries", func(t *testing.T) {
		payouts, err := repo.FindByEntries(ctx, []uuid.UUID{june.ID, july.ID})
		require.NoError(t, err)
		assert.Len(t, payouts, 3)

		payouts, err = repo.FindByEntries(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, payouts)
	})

	t.Run("delete by entry", func(t *testing.T) {
		require.NoError(t, repo.DeleteByEntry(ctx, july.ID))
		payouts, err := repo.FindAll(ctx, finance.PayoutFilter{Filter: shared.Filter{OrderBy: "amount", OrderDir: "desc"}})
		require.NoError(t, err)
		require.Len(t, payouts, 2)
		assert.True(t, payouts[0].Amount.Equal(decimal.RequireFromString("20")))
	})
}

func TestGormPayoutRateRepository_Upsert(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPayoutRateRepository(db)
	ctx := context.Background()
	houseID, codeID, staffID := uuid.New(), uuid.New(), uuid.New()

	original := mustRate(t, houseID, codeID, staffID, "40")
	require.NoError(t, repo.Upsert(ctx, []finance.PayoutRate{original}))

	// Same triple under a new id only moves the percentage
	replacement := mustRate(t, houseID, codeID, staffID, "55.5")
	require.NoError(t, repo.Upsert(ctx, []finance.PayoutRate{replacement}))

	rates, err := repo.FindByKey(ctx, finance.RateKey{HouseID: houseID, ServiceCodeID: codeID})
	require.NoError(t, err)
	require.Len(t, rates, 1)
	assert.Equal(t, original.ID, rates[0].ID)
	assert.True(t, rates[0].Percentage.Equal(decimal.RequireFromString("55.5")))

	found, err := repo.FindByID(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, staffID, found.StaffID)

	_, err = repo.FindByID(ctx, replacement.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.NoError(t, repo.Upsert(ctx, nil))
}

func TestGormPayoutRateRepository_FindByKeys(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPayoutRateRepository(db)
	ctx := context.Background()
	houseA, houseB, codeID := uuid.New(), uuid.New(), uuid.New()

	require.NoError(t, repo.Upsert(ctx, []finance.PayoutRate{
		mustRate(t, houseA, codeID, uuid.New(), "10"),
		mustRate(t, houseA, codeID, uuid.New(), "20"),
		mustRate(t, houseB, codeID, uuid.New(), "30"),
		mustRate(t, houseB, uuid.New(), uuid.New(), "40"),
	}))

	rates, err := repo.FindByKeys(ctx, []finance.RateKey{
		{HouseID: houseA, ServiceCodeID: codeID},
		{HouseID: houseB, ServiceCodeID: codeID},
	})
	require.NoError(t, err)
	assert.Len(t, rates, 3)

	rates, err = repo.FindByKeys(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, rates)

	rates, err = repo.FindAll(ctx, &houseB, nil)
	require.NoError(t, err)
	assert.Len(t, rates, 2)

	rates, err = repo.FindAll(ctx, nil, &codeID)
	require.NoError(t, err)
	assert.Len(t, rates, 3)
}

func mustRate(t *testing.T, houseID, codeID, staffID uuid.UUID, pct string) finance.PayoutRate {
	t.Helper()
	rate, err := finance.NewPayoutRate(houseID, codeID, staffID, valueobject.MustPercentage(pct))
	require.NoError(t, err)
	return *rate
}
