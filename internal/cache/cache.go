// Package cache provides the TTL-keyed render cache consulted by the
// composition pipeline outside development mode.
//
// Entries are never mutated in place, only replaced or expired. Two
// concurrent misses for the same key may both render and both write;
// last write wins, which is benign because renders are idempotent for
// a given input.
package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultTTL applies when a view does not override its cache lifetime.
const DefaultTTL = 300000 * time.Millisecond

// Key derives the cache key for a rendered view: the component path,
// the view name, and the full request URL including query string.
func Key(component, view, requestURL string) string {
	return component + view + requestURL
}

type entry struct {
	value     []byte
	expiresAt time.Time
}

// RenderCache stores rendered byte sequences with a per-entry TTL.
type RenderCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	hits    int64
	misses  int64
}

// New creates an empty render cache.
func New() *RenderCache {
	return &RenderCache{
		entries: make(map[string]entry),
	}
}

// Get returns the cached bytes for key, or ok=false on a miss. An
// expired entry counts as a miss and is dropped lazily.
func (c *RenderCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	e, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists || time.Now().After(e.expiresAt) {
		if exists {
			c.mu.Lock()
			// Re-check under the write lock; a fresh entry may have
			// replaced the expired one.
			if cur, ok := c.entries[key]; ok && time.Now().After(cur.expiresAt) {
				delete(c.entries, key)
			}
			c.mu.Unlock()
		}
		atomic.AddInt64(&c.misses, 1)
		return nil, false
	}

	atomic.AddInt64(&c.hits, 1)
	return e.value, true
}

// Set stores value under key for the given TTL, replacing any previous
// entry. A non-positive TTL falls back to DefaultTTL.
func (c *RenderCache) Set(key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
}

// Invalidate drops every cached entry. Used when a template changes in
// development tooling.
func (c *RenderCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Len returns the number of stored entries, expired or not.
func (c *RenderCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns the cumulative hit and miss counters.
func (c *RenderCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// Sweep runs a background loop that drops expired entries at the given
// interval until ctx is cancelled.
func (c *RenderCache) Sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.sweepOnce(time.Now())
		}
	}
}

func (c *RenderCache) sweepOnce(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}
