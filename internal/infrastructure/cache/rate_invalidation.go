package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/carehouse/backend/internal/domain/finance"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultInvalidationChannel = "carehouse:rates:invalidate"
	defaultCloseTimeout        = 5 * time.Second
)

// RateInvalidationMessage tells peer instances which pairs to drop from their local tier
type RateInvalidationMessage struct {
	Keys      []finance.RateKey `json:"keys"`
	Timestamp int64             `json:"timestamp"`
}

// RedisRateInvalidator fans rate invalidations out to every instance over Redis Pub/Sub
type RedisRateInvalidator struct {
	client   redis.UniversalClient
	channel  string
	logger   *zap.Logger
	cancelFn context.CancelFunc
	doneCh   chan struct{}
	doneOnce sync.Once
	mu       sync.Mutex
	running  bool
}

// NewRedisRateInvalidator creates an invalidator on an existing client. The caller owns the client.
func NewRedisRateInvalidator(client redis.UniversalClient, logger *zap.Logger) *RedisRateInvalidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisRateInvalidator{
		client:  client,
		channel: defaultInvalidationChannel,
		logger:  logger,
		doneCh:  make(chan struct{}),
	}
}

// Publish announces that keys changed
func (i *RedisRateInvalidator) Publish(ctx context.Context, keys ...finance.RateKey) error {
	data, err := json.Marshal(RateInvalidationMessage{Keys: keys, Timestamp: time.Now().UnixNano()})
	if err != nil {
		return fmt.Errorf("failed to marshal invalidation message: %w", err)
	}
	if err := i.client.Publish(ctx, i.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish invalidation message: %w", err)
	}
	return nil
}

// Subscribe calls callback for every invalidation until ctx is done or Close is called.
// It blocks; run it in a goroutine.
func (i *RedisRateInvalidator) Subscribe(ctx context.Context, callback func(RateInvalidationMessage)) error {
	i.mu.Lock()
	if i.running {
		i.mu.Unlock()
		return fmt.Errorf("subscription already running")
	}
	subCtx, cancel := context.WithCancel(ctx)
	i.running = true
	i.cancelFn = cancel
	i.mu.Unlock()

	defer func() {
		i.mu.Lock()
		i.running = false
		i.mu.Unlock()
		i.doneOnce.Do(func() { close(i.doneCh) })
	}()

	pubsub := i.client.Subscribe(subCtx, i.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(subCtx); err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}
	i.logger.Info("subscribed to rate cache invalidation", zap.String("channel", i.channel))

	ch := pubsub.Channel()
	for {
		select {
		case <-subCtx.Done():
			return subCtx.Err()
		case msg, ok := <-ch:
			if !ok {
				i.logger.Warn("rate cache invalidation channel closed")
				return nil
			}
			var update RateInvalidationMessage
			if err := json.Unmarshal([]byte(msg.Payload), &update); err != nil {
				i.logger.Error("failed to unmarshal invalidation message", zap.Error(err))
				continue
			}
			callback(update)
		}
	}
}

// Close stops a running subscription
func (i *RedisRateInvalidator) Close() error {
	i.mu.Lock()
	cancelFn := i.cancelFn
	i.mu.Unlock()

	if cancelFn == nil {
		return nil
	}
	cancelFn()
	select {
	case <-i.doneCh:
	case <-time.After(defaultCloseTimeout):
		i.logger.Warn("timeout waiting for invalidation subscription to stop")
	}
	return nil
}
