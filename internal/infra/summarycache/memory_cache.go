// Package summarycache caches finished summary responses.
package summarycache

import (
	"context"
	"sync"
	"time"

	"github.com/djvaroli/brevity/internal/domain/summarizer"
)

type entry struct {
	payload   summarizer.Response
	expiresAt time.Time
}

// MemoryCache is an in-process cache for tests and single-instance deployments.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryCache constructs an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]entry), now: time.Now}
}

// Get implements summarizer.Cache.
func (c *MemoryCache) Get(_ context.Context, key string) (summarizer.Response, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return summarizer.Response{}, false, nil
	}
	if !e.expiresAt.IsZero() && e.expiresAt.Before(c.now()) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return summarizer.Response{}, false, nil
	}
	return e.payload, true, nil
}

// Set stores resp. A non-positive ttl never expires.
func (c *MemoryCache) Set(_ context.Context, key string, resp summarizer.Response, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = c.now().Add(ttl)
	}
	c.entries[key] = entry{payload: resp, expiresAt: exp}
	return nil
}

var _ summarizer.Cache = (*MemoryCache)(nil)
