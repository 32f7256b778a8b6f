package redis

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/dboots/bg-broadcast/internal/config"
)

// NewClient connects to redis and pings it once.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", cfg.Address, err)
	}
	return rdb, nil
}
