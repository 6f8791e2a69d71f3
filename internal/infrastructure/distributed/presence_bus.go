package distributed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"menthub/internal/core/domain"
	"menthub/internal/core/ports"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const presenceChannel = "menthub:presence"

// PresenceEvent is the wire form of a presence transition on the pub/sub
// backbone. Instances interested in cross-process presence subscribe to
// the channel; the publishing registry stays process-local.
type PresenceEvent struct {
	InstanceID string        `json:"instance_id"`
	UserID     domain.UserID `json:"user_id"`
	Online     bool          `json:"online"`
	Timestamp  time.Time     `json:"timestamp"`
}

// RedisPresenceBus publishes presence transitions to Redis pub/sub.
type RedisPresenceBus struct {
	client     *redis.Client
	instanceID string
	logger     *zap.SugaredLogger
}

func NewRedisPresenceBus(client *redis.Client, instanceID string, logger *zap.SugaredLogger) *RedisPresenceBus {
	return &RedisPresenceBus{
		client:     client,
		instanceID: instanceID,
		logger:     logger,
	}
}

var _ ports.PresencePublisher = (*RedisPresenceBus)(nil)

func (b *RedisPresenceBus) PublishPresence(ctx context.Context, id domain.UserID, online bool) error {
	event := PresenceEvent{
		InstanceID: b.instanceID,
		UserID:     id,
		Online:     online,
		Timestamp:  time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal presence event: %w", err)
	}

	if err := b.client.Publish(ctx, presenceChannel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish presence event: %w", err)
	}

	b.logger.Debugw("published presence transition",
		"user_id", id,
		"online", online,
	)
	return nil
}

// Subscribe consumes presence transitions published by other instances,
// skipping this instance's own events, until ctx is cancelled.
func (b *RedisPresenceBus) Subscribe(ctx context.Context, handler func(*PresenceEvent)) error {
	pubsub := b.client.Subscribe(ctx, presenceChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var event PresenceEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logger.Warnw("failed to unmarshal presence event",
					"error", err,
					"payload", msg.Payload,
				)
				continue
			}
			if event.InstanceID == b.instanceID {
				continue
			}
			handler(&event)
		}
	}
}

// NewRedisClient creates a Redis client with connection pooling.
func NewRedisClient(address, password string, db, poolSize int, logger *zap.SugaredLogger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         address,
		Password:     password,
		DB:           db,
		PoolSize:     poolSize,
		MinIdleConns: 5,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if logger != nil {
		logger.Infow("connected to Redis",
			"address", address,
			"db", db,
			"pool_size", poolSize,
		)
	}
	return client, nil
}
