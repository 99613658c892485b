package database

import (
	"context"

	"github.com/arigopay/backend/internal/config"
	"github.com/arigopay/backend/internal/logger"
	"github.com/go-redis/redis/v8"
)

// InitRedis initializes the Redis client. Redis only backs the settlement
// dedupe cache, so a failed ping returns nil and the service runs without it.
func InitRedis(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warnf("[REDIS] Connection failed, continuing without Redis: %v", err)
		rdb.Close()
		return nil
	}

	logger.Infof("[REDIS] Connection established to %s", cfg.Addr())
	return rdb
}
