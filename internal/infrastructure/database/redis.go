package database

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// NewRedis creates a Redis client for the shared rate-limit store.
func NewRedis(addr, pass string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})
}

// Ping verifies the connection is usable before the app starts serving.
func Ping(ctx context.Context, c *redis.Client) error {
	return c.Ping(ctx).Err()
}
