package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	appfinance "github.com/carehouse/backend/internal/application/finance"
	"github.com/carehouse/backend/internal/domain/finance"
	"github.com/carehouse/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

const defaultRateKeyPrefix = "carehouse:rates:"

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// RedisRateTableCache stores rate rows as JSON under one key per (house, service code) pair.
// It is shared by every server instance.
type RedisRateTableCache struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
}

// NewRedisRateTableCache creates a cache on an existing client. The caller owns the client.
func NewRedisRateTableCache(client redis.UniversalClient, ttl time.Duration) *RedisRateTableCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisRateTableCache{
		client:    client,
		keyPrefix: defaultRateKeyPrefix,
		ttl:       ttl,
	}
}

func (c *RedisRateTableCache) redisKey(key finance.RateKey) string {
	return c.keyPrefix + key.HouseID.String() + ":" + key.ServiceCodeID.String()
}

// Get returns the cached rows of key
func (c *RedisRateTableCache) Get(ctx context.Context, key finance.RateKey) ([]finance.PayoutRate, bool, error) {
	data, err := c.client.Get(ctx, c.redisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get rates from Redis: %w", err)
	}

	var rates []finance.PayoutRate
	if err := json.Unmarshal(data, &rates); err != nil {
		// A row we cannot read is a miss; the caller reloads and overwrites it
		return nil, false, nil
	}
	if rates == nil {
		rates = []finance.PayoutRate{}
	}
	return rates, true, nil
}

// Set stores rates under key with the configured TTL
func (c *RedisRateTableCache) Set(ctx context.Context, key finance.RateKey, rates []finance.PayoutRate) error {
	if rates == nil {
		rates = []finance.PayoutRate{}
	}
	data, err := json.Marshal(rates)
	if err != nil {
		return fmt.Errorf("failed to marshal rates: %w", err)
	}
	if err := c.client.Set(ctx, c.redisKey(key), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set rates in Redis: %w", err)
	}
	return nil
}

// Invalidate deletes the cached rows of keys
func (c *RedisRateTableCache) Invalidate(ctx context.Context, keys ...finance.RateKey) error {
	if len(keys) == 0 {
		return nil
	}
	redisKeys := make([]string, len(keys))
	for i, key := range keys {
		redisKeys[i] = c.redisKey(key)
	}
	if err := c.client.Del(ctx, redisKeys...).Err(); err != nil {
		return fmt.Errorf("failed to delete rates from Redis: %w", err)
	}
	return nil
}

var _ appfinance.RateTableCache = (*RedisRateTableCache)(nil)
