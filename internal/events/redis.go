package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Channel is the redis pub/sub channel external consumers (CRM, notifier
// bots) subscribe to.
const Channel = "nails:events"

// RedisPublisher publishes events to a redis channel.
type RedisPublisher struct {
	client  *redis.Client
	timeout time.Duration
	logger  zerolog.Logger
}

func NewRedisPublisher(client *redis.Client, logger zerolog.Logger) *RedisPublisher {
	return &RedisPublisher{
		client:  client,
		timeout: 2 * time.Second,
		logger:  logger.With().Str("component", "events").Logger(),
	}
}

func (p *RedisPublisher) PublishJSON(eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	event := Event{Type: eventType, Payload: data, CreatedAt: time.Now()}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if err := p.client.Publish(ctx, Channel, body).Err(); err != nil {
		p.logger.Warn().Err(err).Str("type", eventType).Msg("publish failed")
		return err
	}
	return nil
}
