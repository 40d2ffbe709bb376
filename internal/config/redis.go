package config

// This file defines the Redis client constructor. Redis backs the
// ephemeral hold store, the rate limiter and the asynq task queue.
// Unlike optional infrastructure, hold storage is load-bearing: if the
// server cannot reach Redis at startup it refuses to come up rather
// than silently running without slot-hold protection.

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis using the loaded configuration and
// verifies the connection with a short ping.
func NewRedisClient(cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}
	return client, nil
}
