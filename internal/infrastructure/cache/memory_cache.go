package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/ports"
)

// MemoryCache is a process-local LRU. Every entry expires after the store
// ttl; the per-call ttl is ignored.
type MemoryCache struct {
	data *expirable.LRU[string, string]
}

var _ ports.Cache = (*MemoryCache)(nil)

func NewMemoryCache(capacity int, ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		data: expirable.NewLRU[string, string](capacity, nil, ttl),
	}
}

func (c *MemoryCache) Get(ctx context.Context, key string) (string, bool, error) {
	trimmedKey, err := checkKey(ctx, key)
	if err != nil {
		return "", false, err
	}
	value, ok := c.data.Get(trimmedKey)
	return value, ok, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, value string, _ time.Duration) error {
	trimmedKey, err := checkKey(ctx, key)
	if err != nil {
		return err
	}
	c.data.Add(trimmedKey, value)
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	trimmedKey, err := checkKey(ctx, key)
	if err != nil {
		return err
	}
	c.data.Remove(trimmedKey)
	return nil
}
