package cache

import (
	"strings"
	"sync"
	"time"
)

// Cache is an in-memory TTL cache. Entries expire a fixed duration after
// insertion; when the cache is full the oldest entry is evicted. It is
// process-local and never survives a restart.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]entry
	maxEntries int
}

type entry struct {
	value     any
	storedAt  time.Time
	expiresAt time.Time
}

// New creates a cache holding at most maxEntries values.
// maxEntries <= 0 means unbounded.
func New(maxEntries int) *Cache {
	return &Cache{
		entries:    make(map[string]entry),
		maxEntries: maxEntries,
	}
}

// Get returns the value for key if present and not expired.
// Expired entries are removed on access.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key with the given TTL, evicting the oldest
// entry first if the cache is at capacity.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.evictOldestLocked()
	}

	now := time.Now()
	c.entries[key] = entry{
		value:     value,
		storedAt:  now,
		expiresAt: now.Add(ttl),
	}
}

// Delete removes a single entry.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// InvalidatePrefix removes every entry whose key starts with prefix.
func (c *Cache) InvalidatePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	for key, e := range c.entries {
		if oldestKey == "" || e.storedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = e.storedAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
