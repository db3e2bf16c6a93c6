package cache

import (
	"context"
	"sync"
	"time"

	"github.com/amirasaad/budgettracker/pkg/cache"
)

// MemoryCache implements cache.InstitutionCache using in-memory storage.
type MemoryCache struct {
	entries map[string]cacheEntry
	mu      sync.RWMutex
	now     func() time.Time
}

// NewMemoryCache creates an in-memory cache. Expired entries are swept every
// interval until ctx is done.
func NewMemoryCache(ctx context.Context, interval time.Duration) *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
	if interval > 0 {
		go c.cleanup(ctx, interval)
	}
	return c
}

// Get implements cache.InstitutionCache.
func (c *MemoryCache) Get(_ context.Context, id string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[id]
	if !ok || c.now().After(entry.expiresAt) {
		return "", false, nil
	}
	return entry.name, true, nil
}

// Set implements cache.InstitutionCache.
func (c *MemoryCache) Set(_ context.Context, id, name string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[id] = cacheEntry{name: name, expiresAt: c.now().Add(ttl)}
	return nil
}

func (c *MemoryCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for id, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, id)
		}
	}
}

func (c *MemoryCache) cleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

type cacheEntry struct {
	name      string
	expiresAt time.Time
}

var _ cache.InstitutionCache = (*MemoryCache)(nil)
