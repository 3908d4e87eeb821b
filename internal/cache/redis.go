// Package cache marks already-published source inputs so they are not
// scheduled a second time.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Guard is the published-input marker interface consumed by the scheduler
// service
type Guard interface {
	IsPublished(ctx context.Context, hash string) (bool, error)
	MarkPublished(ctx context.Context, hash string, ttl time.Duration) error
	Close() error
}

type RedisGuard struct {
	client *redis.Client
	prefix string
}

func NewRedisGuard(redisURL, prefix string) (*RedisGuard, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisGuard{
		client: client,
		prefix: prefix + "published:",
	}, nil
}

func (r *RedisGuard) Close() error {
	return r.client.Close()
}

func (r *RedisGuard) IsPublished(ctx context.Context, hash string) (bool, error) {
	exists, err := r.client.Exists(ctx, r.prefix+hash).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists error: %w", err)
	}
	return exists > 0, nil
}

func (r *RedisGuard) MarkPublished(ctx context.Context, hash string, ttl time.Duration) error {
	return r.client.Set(ctx, r.prefix+hash, "1", ttl).Err()
}
