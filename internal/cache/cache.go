// Package cache is an optional redis-backed read cache for availability and
// busy-dates responses. A nil *Cache disables caching entirely.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type Cache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// New returns a cache, or nil when the client is absent or the TTL is zero.
func New(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *Cache {
	if client == nil || ttl <= 0 {
		return nil
	}
	return &Cache{
		redis:  client,
		ttl:    ttl,
		logger: logger.With().Str("component", "cache").Logger(),
	}
}

func AvailabilityKey(date string, serviceID int64) string {
	return fmt.Sprintf("availability:%s:%d", date, serviceID)
}

func BusyDatesKey(month string) string {
	return "busy-dates:" + month
}

// Get loads a cached JSON value into out, reporting whether it was present.
func (c *Cache) Get(ctx context.Context, key string, out any) bool {
	if c == nil {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false
	}
	return true
}

// Set stores a JSON value under key with the configured TTL. Best-effort.
func (c *Cache) Set(ctx context.Context, key string, val any) {
	if c == nil {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}

// InvalidateDate drops every availability entry for the date and the
// busy-dates entry for its month. Called after a booking lands.
func (c *Cache) InvalidateDate(ctx context.Context, date string) {
	if c == nil {
		return
	}

	var keys []string
	iter := c.redis.Scan(ctx, 0, "availability:"+date+":*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn().Err(err).Str("date", date).Msg("cache scan failed")
	}

	if len(date) >= 7 {
		keys = append(keys, BusyDatesKey(date[:7]))
	}
	if len(keys) > 0 {
		if err := c.redis.Del(ctx, keys...).Err(); err != nil {
			c.logger.Warn().Err(err).Str("date", date).Msg("cache invalidate failed")
		}
	}
}
