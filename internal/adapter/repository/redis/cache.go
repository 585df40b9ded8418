package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "rentledger:cache:"

// Cache is a redis-backed byte cache with a namespaced key space.
// Implements usecase.Cache; the transaction read path is its only
// consumer today.
type Cache struct {
	client *redis.Client
}

// NewCache creates a new Cache.
func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Get returns the bytes stored under key. A missing key surfaces as
// redis.Nil, which callers treat as a miss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	return c.client.Get(ctx, cacheKeyPrefix+key).Bytes()
}

// Set stores value under key for the given TTL.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, cacheKeyPrefix+key, value, ttl).Err()
}

// Delete drops a key. Deleting a missing key is not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, cacheKeyPrefix+key).Err()
}
