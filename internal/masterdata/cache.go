package masterdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheVersionKey = "masterdata:version"

// Cache wraps Redis list caching behind a single version counter.
// Every write to any master data entity bumps the version, which
// orphans all cached lists at once; stale keys expire with the TTL.
// A nil cache degrades to pass-through.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) version(ctx context.Context) (int64, error) {
	ver, err := c.client.Get(ctx, cacheVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.client.Set(ctx, cacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	return ver, err
}

// key composes a versioned cache key.
func (c *Cache) key(ctx context.Context, parts ...string) (string, error) {
	ver, err := c.version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("masterdata:%s:%d", strings.Join(parts, ":"), ver), nil
}

// fetch loads a cached value or populates it from the loader. Cache
// failures fall back to the loader so Redis outages never break reads.
func (c *Cache) fetch(ctx context.Context, dest any, loader func(context.Context) (any, error), parts ...string) error {
	if c == nil || c.client == nil {
		return load(ctx, dest, loader)
	}
	key, err := c.key(ctx, parts...)
	if err != nil {
		return load(ctx, dest, loader)
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return json.Unmarshal(payload, dest)
	}
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	_ = c.client.Set(ctx, key, raw, c.ttl).Err()
	return json.Unmarshal(raw, dest)
}

// bump invalidates every cached list.
func (c *Cache) bump(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Incr(ctx, cacheVersionKey).Err()
}

func load(ctx context.Context, dest any, loader func(context.Context) (any, error)) error {
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func filterKey(f ListFilters) string {
	return fmt.Sprintf("%s:%t:%d:%d", f.Search, f.OnlyActive, f.Limit, f.Offset)
}
