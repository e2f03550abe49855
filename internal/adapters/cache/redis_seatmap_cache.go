package cache

import (
	"bus-ticket-service/internal/platform/obs"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSeatMapCache stores rendered seat-map payloads keyed by trip. A TTL
// bounds staleness even if an invalidation is lost.
type RedisSeatMapCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisSeatMapCache(client *redis.Client, ttl time.Duration) *RedisSeatMapCache {
	return &RedisSeatMapCache{Client: client, TTL: ttl}
}

func seatMapKey(tripID int) string {
	return fmt.Sprintf("seatmap:%d", tripID)
}

func (c *RedisSeatMapCache) Get(ctx context.Context, tripID int) (_ []byte, _ bool, err error) {
	defer obs.Time(ctx, "seatmap.cache.Get")(&err)

	if c.Client == nil {
		return nil, false, errors.New("seatmap cache: client is nil")
	}

	payload, err := c.Client.Get(ctx, seatMapKey(tripID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get seatmap cache trip=%d: %w", tripID, err)
	}
	return payload, true, nil
}

func (c *RedisSeatMapCache) Put(ctx context.Context, tripID int, payload []byte) error {
	if c.Client == nil {
		return errors.New("seatmap cache: client is nil")
	}
	if len(payload) == 0 {
		return errors.New("put seatmap cache: payload must not be empty")
	}

	if err := c.Client.Set(ctx, seatMapKey(tripID), payload, c.TTL).Err(); err != nil {
		return fmt.Errorf("put seatmap cache trip=%d: %w", tripID, err)
	}
	return nil
}

func (c *RedisSeatMapCache) Invalidate(ctx context.Context, tripID int) error {
	if c.Client == nil {
		return errors.New("seatmap cache: client is nil")
	}

	if err := c.Client.Del(ctx, seatMapKey(tripID)).Err(); err != nil {
		return fmt.Errorf("invalidate seatmap cache trip=%d: %w", tripID, err)
	}
	return nil
}
