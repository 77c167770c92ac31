// Package trackingcache caches carrier tracking statuses in Redis, so
// repeated refreshes within the cache lifetime don't hit the carrier API.
package trackingcache

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "tracking:"

// RedisCache implements TrackingCache over a Redis connection.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a tracking cache with the given entry lifetime.
func NewRedisCache(client *redis.Client, ttl time.Duration) (*RedisCache, error) {
	if client == nil {
		return nil, errs.NewValueIsRequiredError("redis client")
	}
	if ttl <= 0 {
		return nil, errs.NewValueIsInvalidError("ttl")
	}
	return &RedisCache{client: client, ttl: ttl}, nil
}

// Get returns the cached status and whether it was present.
func (c *RedisCache) Get(ctx context.Context, trackingNumber string) (string, bool, error) {
	if trackingNumber == "" {
		return "", false, errs.NewValueIsRequiredError("tracking number")
	}

	status, err := c.client.Get(ctx, keyPrefix+trackingNumber).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return status, true, nil
}

// Set stores the status for the cache's configured lifetime.
func (c *RedisCache) Set(ctx context.Context, trackingNumber string, status string) error {
	if trackingNumber == "" {
		return errs.NewValueIsRequiredError("tracking number")
	}

	return c.client.Set(ctx, keyPrefix+trackingNumber, status, c.ttl).Err()
}
