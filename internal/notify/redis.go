package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Envelope is the wire form of a notification on the Redis channel. The ID
// lets consumers deduplicate across reconnects.
type Envelope struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// RedisPublisher pushes notifications to a Redis pub/sub channel for
// out-of-process consumers (dashboards, bots).
type RedisPublisher struct {
	client  *redis.Client
	channel string
	timeout time.Duration
}

func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{
		client:  client,
		channel: channel,
		timeout: 5 * time.Second,
	}
}

func (p *RedisPublisher) PublishJSON(eventType string, payload interface{}) error {
	if p.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	env := Envelope{
		ID:        uuid.NewString(),
		Type:      eventType,
		Payload:   raw,
		CreatedAt: time.Now(),
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish to redis: %w", err)
	}
	return nil
}

// Ping verifies the Redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}
