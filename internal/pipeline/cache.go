package pipeline

import (
	"sync"
	"time"

	"github.com/golang/groupcache/lru"

	"github.com/bjulian5/prdash/internal/gh"
)

// DefaultCacheTTL matches how long a fetched page is considered fresh
const DefaultCacheTTL = 5 * time.Minute

// CacheKey identifies one retrieval. Nothing else (token, scheme) is part of the key.
type CacheKey struct {
	Owner string
	Repo  string
	State string
}

// Cache sits in front of the retrieval engine.
// Only successful retrievals are stored, so failures are never replayed.
type Cache interface {
	Get(key CacheKey) ([]gh.RawItem, bool)
	Set(key CacheKey, items []gh.RawItem)
}

type cacheEntry struct {
	items     []gh.RawItem
	expiresAt time.Time
}

// MemoryCache is a bounded, TTL-expiring in-process Cache
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries *lru.Cache
	now     func() time.Time
}

// NewMemoryCache creates a cache holding at most maxEntries keys (0 = unbounded)
func NewMemoryCache(ttl time.Duration, maxEntries int) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &MemoryCache{
		ttl:     ttl,
		entries: lru.New(maxEntries),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(key CacheKey) ([]gh.RawItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}

	entry := v.(cacheEntry)
	if !c.now().Before(entry.expiresAt) {
		c.entries.Remove(key)
		return nil, false
	}
	return entry.items, true
}

func (c *MemoryCache) Set(key CacheKey, items []gh.RawItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries.Add(key, cacheEntry{items: items, expiresAt: c.now().Add(c.ttl)})
}

// Len returns the number of stored keys, expired ones included
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}
