// Package cache stores rendered storefront payloads in Redis so hot listing
// and product pages skip the database.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "catalog"
	versionKey = keyPrefix + ":version"
)

// ListingCache is a read-through cache for storefront payloads. A miss is
// reported as (false, nil); errors mean the cache itself failed.
type ListingCache interface {
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	// Invalidate makes every previously stored entry unreachable.
	Invalidate(ctx context.Context) error
}

// ListingKey derives the cache key for a listing query.
func ListingKey(query interface{}) string {
	raw, _ := json.Marshal(query)
	sum := sha256.Sum256(raw)
	return "list:" + hex.EncodeToString(sum[:8])
}

// ProductKey derives the cache key for a product page.
func ProductKey(slug string) string {
	return "product:" + slug
}

// RedisCache stores JSON payloads under versioned keys. Invalidation bumps the
// version counter so stale entries simply age out through their TTL.
type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed cache with the given entry TTL.
func NewRedisCache(client redis.UniversalClient, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

var _ ListingCache = (*RedisCache)(nil)

func (c *RedisCache) version(ctx context.Context) (int64, error) {
	raw, err := c.client.Get(ctx, versionKey).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read cache version: %w", err)
	}
	return strconv.ParseInt(raw, 10, 64)
}

func (c *RedisCache) fullKey(ctx context.Context, key string) (string, error) {
	v, err := c.version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:v%d:%s", keyPrefix, v, key), nil
}

// Get loads key into dst.
func (c *RedisCache) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	fullKey, err := c.fullKey(ctx, key)
	if err != nil {
		return false, err
	}

	raw, err := c.client.Get(ctx, fullKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

// Set stores value under key with the configured TTL.
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}) error {
	fullKey, err := c.fullKey(ctx, key)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}

	if err := c.client.Set(ctx, fullKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Invalidate bumps the version counter.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, versionKey).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

// NopCache never stores anything. Used when Redis is not configured.
type NopCache struct{}

var _ ListingCache = NopCache{}

func (NopCache) Get(context.Context, string, interface{}) (bool, error) { return false, nil }
func (NopCache) Set(context.Context, string, interface{}) error         { return nil }
func (NopCache) Invalidate(context.Context) error                       { return nil }
