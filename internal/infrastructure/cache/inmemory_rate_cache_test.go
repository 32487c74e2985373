package cache

import (
	"context"
	"testing"
	"time"

	"github.com/carehouse/backend/internal/domain/finance"
	"github.com/carehouse/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRates(t *testing.T, key finance.RateKey, pcts ...string) []finance.PayoutRate {
	t.Helper()
	rates := make([]finance.PayoutRate, 0, len(pcts))
	for _, p := range pcts {
		rate, err := finance.NewPayoutRate(key.HouseID, key.ServiceCodeID, uuid.New(), valueobject.MustPercentage(p))
		require.NoError(t, err)
		rates = append(rates, *rate)
	}
	return rates
}

func newKey() finance.RateKey {
	return finance.RateKey{HouseID: uuid.New(), ServiceCodeID: uuid.New()}
}

func TestInMemoryRateTableCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryRateTableCache()
	defer c.Close()
	key := newKey()

	_, found, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)

	rates := testRates(t, key, "40", "35.5")
	require.NoError(t, c.Set(ctx, key, rates))

	got, found, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, rates, got)

	got[0].StaffID = uuid.Nil
	again, _, _ := c.Get(ctx, key)
	assert.NotEqual(t, uuid.Nil, again[0].StaffID, "callers get copies")

	hits, misses := c.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(1), misses)
}

func TestInMemoryRateTableCache_EmptyPairIsCached(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryRateTableCache()
	defer c.Close()
	key := newKey()

	require.NoError(t, c.Set(ctx, key, nil))

	got, found, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestInMemoryRateTableCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryRateTableCache(WithLocalTTL(20 * time.Millisecond))
	defer c.Close()
	key, other := newKey(), newKey()
	require.NoError(t, c.Set(ctx, key, testRates(t, key, "10")))
	require.NoError(t, c.Set(ctx, other, testRates(t, other, "10")))

	time.Sleep(40 * time.Millisecond)

	_, found, _ := c.Get(ctx, key)
	assert.False(t, found)
	assert.Equal(t, 1, c.removeExpired(time.Now()))
	assert.Zero(t, c.Len())
}

func TestInMemoryRateTableCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryRateTableCache()
	defer c.Close()
	a, b, kept := newKey(), newKey(), newKey()
	for _, key := range []finance.RateKey{a, b, kept} {
		require.NoError(t, c.Set(ctx, key, testRates(t, key, "25")))
	}

	require.NoError(t, c.Invalidate(ctx, a, b))

	_, found, _ := c.Get(ctx, a)
	assert.False(t, found)
	_, found, _ = c.Get(ctx, kept)
	assert.True(t, found)

	c.InvalidateAll()
	assert.Zero(t, c.Len())
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close(), "close is idempotent")
}
