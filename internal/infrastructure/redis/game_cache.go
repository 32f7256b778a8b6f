package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/dboots/bg-broadcast/internal/domain"
)

type RedisGameCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisGameCache(client *redis.Client, ttl time.Duration) *RedisGameCache {
	return &RedisGameCache{client: client, ttl: ttl}
}

func gameKey(gameID string) string {
	return fmt.Sprintf("bgg:game:%s", gameID)
}

func (r *RedisGameCache) GetGameDetails(ctx context.Context, gameID string) (*domain.GameDetails, bool, error) {
	data, err := r.client.Get(ctx, gameKey(gameID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var details domain.GameDetails
	if err := json.Unmarshal(data, &details); err != nil {
		return nil, false, err
	}
	return &details, true, nil
}

// SetGameDetails stores details under the id they were requested by, which
// need not match the upstream objectid.
func (r *RedisGameCache) SetGameDetails(ctx context.Context, gameID string, details *domain.GameDetails) error {
	data, err := json.Marshal(details)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, gameKey(gameID), data, r.ttl).Err()
}
