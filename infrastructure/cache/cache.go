package cache

import (
	"context"

	"github.com/redis/go-redis/v9"

	"reddit-sync/infrastructure/logger"
)

// NewCache creates a Redis client and verifies the connection. Callers treat a
// nil client as "cache disabled".
func NewCache(ctx context.Context, addr, username, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not reachable")
		return nil, err
	}
	return client, nil
}
