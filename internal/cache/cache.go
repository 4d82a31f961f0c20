// Package cache implements the optional §12.2 cron de-dup cache: a Redis
// SETNX-with-TTL guard that lets the drift detector skip re-checking a URL
// it already checked recently. Its absence (nil *Cache, or a connection
// failure) never affects correctness, only how often cron re-fetches a
// page it would otherwise have concluded is unchanged.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps a Redis client. A nil *Cache is valid and behaves as
// "always miss" so callers can unconditionally call its methods whether
// or not REDIS_URL was configured.
type Cache struct {
	client *redis.Client
}

// New connects to addr (a REDIS_URL) without blocking; connection errors
// surface lazily on the first command. Returns nil if addr is empty.
func New(addr string) (*Cache, error) {
	if addr == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(addr)
	if err != nil {
		return nil, err
	}
	return &Cache{client: redis.NewClient(opts)}, nil
}

// Close releases the underlying connection pool.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

// SeenRecently reports whether url was marked seen within ttl, recording
// it as seen if not. On any Redis error it reports false (cache miss),
// so the drift detector falls back to checking the URL.
func (c *Cache) SeenRecently(ctx context.Context, url string, ttl time.Duration) bool {
	if c == nil {
		return false
	}
	ok, err := c.client.SetNX(ctx, key(url), "1", ttl).Result()
	if err != nil {
		return false
	}
	// SetNX reports true when it set the key, i.e. the URL was NOT seen
	// before — so "seen recently" is the negation.
	return !ok
}

func key(url string) string {
	return "llmstxt:drift:seen:" + url
}
