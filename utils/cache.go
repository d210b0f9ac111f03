// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"time"

	"vapicalendar/config"

	"github.com/go-redis/redis/v8"
)

// NewQueueRedisClient connects to the Redis database that backs the audit queue.
func NewQueueRedisClient(cfg config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisQueueDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis (queue): %w", err)
	}
	return client, nil
}
