// Package cache wraps Redis for homepage content caching and OTP
// request throttling
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when a key is not present in the cache
var ErrCacheMiss = errors.New("cache miss")

// Cache provides typed access to the Redis instance
type Cache struct {
	client *redis.Client
}

// New creates a new Cache instance
func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// GetHomepage retrieves the cached homepage payload for a language
func (c *Cache) GetHomepage(ctx context.Context, language string) ([]byte, error) {
	key := fmt.Sprintf("homepage:%s", language)
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read homepage cache: %w", err)
	}
	return val, nil
}

// SetHomepage stores the homepage payload for a language with a TTL
func (c *Cache) SetHomepage(ctx context.Context, language string, payload []byte, ttl time.Duration) error {
	key := fmt.Sprintf("homepage:%s", language)
	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write homepage cache: %w", err)
	}
	return nil
}

// InvalidateHomepage drops the cached homepage payload for a language
func (c *Cache) InvalidateHomepage(ctx context.Context, language string) error {
	key := fmt.Sprintf("homepage:%s", language)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate homepage cache: %w", err)
	}
	return nil
}

// AllowOtpRequest increments the OTP request counter for an email and
// reports whether the request is within the limit for the window
func (c *Cache) AllowOtpRequest(ctx context.Context, email string, limit int, window time.Duration) (bool, error) {
	key := fmt.Sprintf("otp_throttle:%s", email)

	count, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment otp counter: %w", err)
	}
	if count == 1 {
		c.client.Expire(ctx, key, window)
	}

	return count <= int64(limit), nil
}
