package redis

import (
	"agency-workspace/internal/logger"
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps the redis client with the two access patterns the services use:
// versioned JSON caching for list endpoints, and plain TTL keys for ephemeral
// state (typing indicators). A nil client degrades to a no-op so the server
// keeps working without redis.
type Cache struct {
	client *redis.Client
}

func NewCache(address string) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr: address,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Log.Warn().Err(err).Msg("Redis not available. Running without redis.")
		return &Cache{client: nil}
	}

	logger.Log.Info().Str("address", address).Msg("Redis connected")
	return &Cache{client: client}
}

// NewCacheWithClient builds a cache from an existing client (tests).
func NewCacheWithClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Get unmarshals a cached JSON value into dest. Returns false on miss or any
// redis failure; a broken cache must never break a request.
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if c.client == nil {
		return false, nil
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, ttl).Err()
}

// GetVersion returns the current version counter for a cache namespace.
// Missing keys count as version 0.
func (c *Cache) GetVersion(ctx context.Context, key string) int64 {
	if c.client == nil {
		return 0
	}

	v, err := c.client.Get(ctx, key).Int64()
	if err != nil {
		return 0
	}
	return v
}

// IncrementVersion bumps a version counter, invalidating every cache key that
// embeds the old version.
func (c *Cache) IncrementVersion(ctx context.Context, key string) {
	if c.client == nil {
		return
	}
	if err := c.client.Incr(ctx, key).Err(); err != nil {
		logger.Log.Warn().Err(err).Str("key", key).Msg("cache version bump failed")
	}
}

// SetFlag writes an ephemeral marker key that expires after ttl.
func (c *Cache) SetFlag(ctx context.Context, key string, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}
	return c.client.Set(ctx, key, "1", ttl).Err()
}

// HasFlag reports whether an ephemeral marker is still live.
func (c *Cache) HasFlag(ctx context.Context, key string) (bool, error) {
	if c.client == nil {
		return false, nil
	}

	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteFlag removes an ephemeral marker before its TTL runs out.
func (c *Cache) DeleteFlag(ctx context.Context, key string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, key).Err()
}
