// Package cachestore provides domain.Cache implementations for the
// matching engine's result cache: an in-memory store (default) and a
// Redis-backed store for multi-replica deployments.
package cachestore

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/nextmatch/matching-engine/internal/domain"
)

type memoryEntry struct {
	response   domain.MatchingResponse
	insertedAt time.Time
}

// MemoryCache is an in-process, mutex-guarded result cache with a TTL
// checked lazily on lookup and optional bounded size with FIFO eviction.
type MemoryCache struct {
	ttl      time.Duration
	maxSize  int
	mu       sync.RWMutex
	entries  map[string]memoryEntry
	order    []string
	hits     int64
	lookups  int64
}

// NewMemoryCache builds a MemoryCache with the given TTL and an optional
// maximum size (maxSize <= 0 means unbounded).
func NewMemoryCache(ttl time.Duration, maxSize int) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		maxSize: maxSize,
		entries: make(map[string]memoryEntry),
		order:   make([]string, 0),
	}
}

// Get implements domain.Cache.
func (c *MemoryCache) Get(_ domain.Context, key string) (domain.MatchingResponse, bool, error) {
	atomic.AddInt64(&c.lookups, 1)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return domain.MatchingResponse{}, false, nil
	}
	if time.Since(entry.insertedAt) >= c.ttl {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return domain.MatchingResponse{}, false, nil
	}

	atomic.AddInt64(&c.hits, 1)
	resp := entry.response
	resp.Cached = true
	return resp, true, nil
}

// Set implements domain.Cache.
func (c *MemoryCache) Set(_ domain.Context, key string, resp domain.MatchingResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		if c.maxSize > 0 && len(c.order) >= c.maxSize {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = memoryEntry{response: resp, insertedAt: time.Now()}
	return nil
}

// Clear implements domain.Cache.
func (c *MemoryCache) Clear(_ domain.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]memoryEntry)
	c.order = c.order[:0]
	return nil
}

// Size implements domain.Cache.
func (c *MemoryCache) Size(_ domain.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries), nil
}

// Stats returns the observability counters described in §4.9.
func (c *MemoryCache) Stats(_ domain.Context) domain.CacheStats {
	c.mu.RLock()
	size := len(c.entries)
	c.mu.RUnlock()
	return domain.CacheStats{
		Size:         size,
		Hits:         atomic.LoadInt64(&c.hits),
		TotalLookups: atomic.LoadInt64(&c.lookups),
	}
}
