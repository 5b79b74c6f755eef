package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps window counters in Redis so several processes share
// one set of windows. Counters carry a TTL matching their reset time,
// so Sweep is a no-op.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "ratelimit:"}
}

// Incr bumps the counter and sets the window TTL in one transaction.
// ExpireNX only arms the TTL on the increment that opened the window,
// so later hits in the same window never push the reset time out.
func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (Record, error) {
	k := s.prefix + key

	pipe := s.client.TxPipeline()
	count := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, window)
	ttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return Record{}, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	remaining := ttl.Val()
	if remaining < 0 {
		// No TTL on the key, should not happen after ExpireNX.
		remaining = window
	}
	return Record{
		Count:   int(count.Val()),
		ResetAt: time.Now().Add(remaining),
	}, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

func (s *RedisStore) Sweep(context.Context, time.Time) error {
	// Redis expires counters on its own.
	return nil
}
