package cache

import (
	"context"
	"path"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is the single-process fallback backend.
type MemoryCache struct {
	store *gocache.Cache
}

func NewMemory() *MemoryCache {
	return &MemoryCache{
		store: gocache.New(gocache.NoExpiration, 10*time.Minute),
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	val, found := c.store.Get(key)
	if !found {
		return nil, ErrCacheMiss
	}
	data, ok := val.([]byte)
	if !ok {
		return nil, ErrCacheMiss
	}
	return data, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.store.Set(key, value, ttl)
	return nil
}

// DeletePattern matches keys with path.Match; cache keys never contain '/',
// so '*' behaves like a full wildcard.
func (c *MemoryCache) DeletePattern(_ context.Context, pattern string) error {
	for key := range c.store.Items() {
		if ok, _ := path.Match(pattern, key); ok {
			c.store.Delete(key)
		}
	}
	return nil
}

func (c *MemoryCache) Ping(_ context.Context) error {
	return nil
}

func (c *MemoryCache) Close() error {
	c.store.Flush()
	return nil
}
