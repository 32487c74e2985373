package cache

import (
	"context"
	"testing"
	"time"

	"github.com/carehouse/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func startRedis(t *testing.T) config.RedisConfig {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping Redis integration test in short mode")
	}
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)
	return config.RedisConfig{Host: host, Port: port.Int(), RateCacheTTL: time.Minute}
}

func TestRateTableCache_Redis(t *testing.T) {
	cfg := startRedis(t)
	ctx := context.Background()

	writer := NewRateTableCache(ctx, cfg, zap.NewNop())
	defer writer.Close()
	peer := NewRateTableCache(ctx, cfg, zap.NewNop())
	defer peer.Close()
	require.True(t, writer.Distributed())

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	peer.StartInvalidation(subCtx)

	key := newKey()
	rates := testRates(t, key, "60", "12.5")
	require.NoError(t, writer.Cache.Set(ctx, key, rates))

	got, found, err := peer.Cache.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, got, 2)
	assert.True(t, got[1].Percentage.Equal(rates[1].Percentage))

	// Give the subscription time to attach before broadcasting
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, writer.Cache.Invalidate(ctx, key))

	assert.Eventually(t, func() bool {
		_, found, err := peer.Cache.Get(ctx, key)
		return err == nil && !found
	}, 2*time.Second, 20*time.Millisecond)
}
