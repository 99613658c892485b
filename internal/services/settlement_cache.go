package services

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// SettlementCache remembers settled (event, reference) pairs so provider
// redeliveries can be acknowledged without a database round trip. It is an
// optimization only; the store guard stays authoritative.
type SettlementCache interface {
	Seen(ctx context.Context, event, reference string) (bool, error)
	Remember(ctx context.Context, event, reference string) error
}

type RedisSettlementCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisSettlementCache(client *redis.Client, ttl time.Duration) *RedisSettlementCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisSettlementCache{redis: client, ttl: ttl}
}

func settlementCacheKey(event, reference string) string {
	return "settlement:" + event + ":" + reference
}

func (c *RedisSettlementCache) Seen(ctx context.Context, event, reference string) (bool, error) {
	n, err := c.redis.Exists(ctx, settlementCacheKey(event, reference)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *RedisSettlementCache) Remember(ctx context.Context, event, reference string) error {
	return c.redis.Set(ctx, settlementCacheKey(event, reference), "1", c.ttl).Err()
}
