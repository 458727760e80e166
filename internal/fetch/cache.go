package fetch

import (
	"context"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache keeps successful fetches for a fixed TTL. Errors are never cached.
type Cache struct {
	store *gocache.Cache
	opt   Options

	hits   atomic.Int64
	misses atomic.Int64

	// fetch is replaced in tests.
	fetch func(ctx context.Context, rawURL string, opt Options) (string, error)
}

// NewCache returns a cache with the given TTL. ttl <= 0 disables caching.
func NewCache(ttl time.Duration, opt Options) *Cache {
	c := &Cache{opt: opt, fetch: TextWithOptions}
	if ttl > 0 {
		c.store = gocache.New(ttl, 2*ttl)
	}
	return c
}

// Text returns the body of rawURL, from cache if still fresh. The boolean
// reports a cache hit.
func (c *Cache) Text(ctx context.Context, rawURL string) (string, bool, error) {
	if c.store != nil {
		if v, ok := c.store.Get(rawURL); ok {
			c.hits.Add(1)
			return v.(string), true, nil
		}
	}
	c.misses.Add(1)

	body, err := c.fetch(ctx, rawURL, c.opt)
	if err != nil {
		return "", false, err
	}
	if c.store != nil {
		c.store.Set(rawURL, body, gocache.DefaultExpiration)
	}
	return body, false, nil
}

// Stats returns hit and miss counts since creation.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Len is the number of cached entries, expired ones included until the
// janitor runs.
func (c *Cache) Len() int {
	if c.store == nil {
		return 0
	}
	return c.store.ItemCount()
}

// Flush drops every cached body.
func (c *Cache) Flush() {
	if c.store != nil {
		c.store.Flush()
	}
}
