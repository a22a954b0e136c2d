// Package cache keeps JSON snapshots of read models in redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "folio:"

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New returns a cache over client. A nil client yields a cache that always
// misses and never stores.
func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) enabled() bool {
	return c != nil && c.client != nil
}

// Key joins parts into a namespaced cache key.
func Key(parts ...string) string {
	return keyPrefix + strings.Join(parts, ":")
}

// GetJSON reads key into dest. It reports whether the key was present.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if !c.enabled() {
		return false, nil
	}
	s, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, v any) error {
	if !c.enabled() {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, b, c.ttl).Err()
}

// Aside serves key from redis, or calls fetch to fill dest and stores the
// result. Redis failures degrade to a plain fetch.
func (c *Cache) Aside(ctx context.Context, key string, dest any, fetch func() error) error {
	if found, err := c.GetJSON(ctx, key, dest); err == nil && found {
		return nil
	}

	if err := fetch(); err != nil {
		return err
	}

	_ = c.SetJSON(ctx, key, dest)
	return nil
}

// Invalidate removes every key nested under prefix, i.e. matching prefix:*.
func (c *Cache) Invalidate(ctx context.Context, prefix string) error {
	if !c.enabled() {
		return nil
	}

	var keys []string
	iter := c.client.Scan(ctx, 0, prefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
