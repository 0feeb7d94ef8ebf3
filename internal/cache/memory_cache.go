package cache

import (
	"context"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const memoryCleanupInterval = time.Minute

// MemoryCache is an in-process Cache used when redis is not configured.
// Expired entries are swept in the background.
type MemoryCache struct {
	items *gocache.Cache
}

func NewMemoryCache() *MemoryCache {
	return newMemoryCache(memoryCleanupInterval)
}

func newMemoryCache(cleanup time.Duration) *MemoryCache {
	return &MemoryCache{items: gocache.New(gocache.NoExpiration, cleanup)}
}

// Len counts stored entries, including expired ones not yet swept.
func (c *MemoryCache) Len() int { return c.items.ItemCount() }

func (c *MemoryCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	v, ok := c.items.Get(key)
	if !ok {
		return false, nil
	}
	b, ok := v.([]byte)
	if !ok {
		c.items.Delete(key)
		return false, nil
	}
	if err := json.Unmarshal(b, dst); err != nil {
		c.items.Delete(key)
		return false, nil
	}
	return true, nil
}

func (c *MemoryCache) SetJSON(_ context.Context, key string, val any, ttl time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	c.items.Set(key, b, ttl)
	return nil
}

func (c *MemoryCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		c.items.Delete(k)
	}
	return nil
}
