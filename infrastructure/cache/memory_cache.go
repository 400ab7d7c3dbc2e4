package cache

import (
	"context"
	"sync"
	"time"

	"review-enhancer/domain/model"
	"review-enhancer/infrastructure/utils"
)

type memoryEntry struct {
	payload  *model.ReviewPayload
	cachedAt time.Time
}

// MemoryCache is a process-local review cache with lazy expiry on read.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	clock   utils.Clock
}

func NewMemoryCache(ttl time.Duration, clock utils.Clock) *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), ttl: ttl, clock: clock}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*model.ReviewPayload, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if c.clock.Now().Sub(e.cachedAt) >= c.ttl {
		c.mu.Lock()
		if cur, ok := c.entries[key]; ok && cur.cachedAt.Equal(e.cachedAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, nil
	}
	return e.payload, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, payload *model.ReviewPayload) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{payload: payload, cachedAt: c.clock.Now()}
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
