package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/dboots/bg-broadcast/pkg/logger"
)

var ErrLockTimeout = errors.New("timed out waiting for listing lock")

const releaseScript = `
    if redis.call("GET", KEYS[1]) == ARGV[1] then
        return redis.call("DEL", KEYS[1])
    else
        return 0
    end
`

// RedisListingLock serializes bid placement per listing across instances.
// The key expires after ttl so a crashed holder cannot wedge a listing.
type RedisListingLock struct {
	client *redis.Client
	ttl    time.Duration
	retry  time.Duration
	log    logger.Logger
}

func NewRedisListingLock(client *redis.Client, ttl time.Duration, log logger.Logger) *RedisListingLock {
	return &RedisListingLock{
		client: client,
		ttl:    ttl,
		retry:  25 * time.Millisecond,
		log:    log,
	}
}

func lockKey(listingID string) string {
	return fmt.Sprintf("listing:%s:lock", listingID)
}

// Lock spins until the key is acquired, ctx is done, or one ttl has passed.
func (r *RedisListingLock) Lock(ctx context.Context, listingID string) (func(), error) {
	key := lockKey(listingID)
	token := uuid.NewString()
	deadline := time.Now().Add(r.ttl)

	for {
		ok, err := r.client.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("acquire lock %s: %w", key, ErrLockTimeout)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.retry):
		}
	}

	return func() {
		// Release on a fresh context: the request context may already be done.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := r.client.Eval(releaseCtx, releaseScript, []string{key}, token).Err(); err != nil {
			r.log.Error("Failed to release listing lock", "listing_id", listingID, "error", err)
		}
	}, nil
}
