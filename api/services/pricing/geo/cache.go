package geo

import (
	"sync"
	"time"
)

type cacheEntry struct {
	data      CountryInfo
	timestamp time.Time
}

// Cache holds successful lookups keyed by IP. Entries older than the TTL
// are treated as misses and dropped when read.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewCache returns an empty cache. now defaults to time.Now.
func NewCache(ttl time.Duration, now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{entries: make(map[string]cacheEntry), ttl: ttl, now: now}
}

// Get returns the cached info for ip if it is younger than the TTL.
func (c *Cache) Get(ip string) (CountryInfo, bool) {
	c.mu.RLock()
	e, ok := c.entries[ip]
	c.mu.RUnlock()
	if !ok {
		return CountryInfo{}, false
	}
	if c.now().Sub(e.timestamp) < c.ttl {
		return e.data, true
	}

	c.mu.Lock()
	// a concurrent Set may have refreshed the entry
	if cur, ok := c.entries[ip]; ok && cur.timestamp.Equal(e.timestamp) {
		delete(c.entries, ip)
	}
	c.mu.Unlock()
	return CountryInfo{}, false
}

// Set stores info for ip stamped with the current time.
func (c *Cache) Set(ip string, info CountryInfo) {
	c.mu.Lock()
	c.entries[ip] = cacheEntry{data: info, timestamp: c.now()}
	c.mu.Unlock()
}

// Len counts entries, including stale ones not yet read.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}
