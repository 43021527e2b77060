package saluran

import (
	"sync"
	"time"
)

// CacheEntry holds one cached Result with its expiry bookkeeping.
type CacheEntry struct {
	Value     *Result
	CreatedAt time.Time
	ExpiresAt time.Time
}

// RequestCache is an in-memory fingerprint-keyed Result store with per-entry
// TTL and optional bounded size. When full, the single oldest-inserted entry
// is evicted (strict FIFO by insertion order, not LRU). Safe for concurrent
// use; concurrent writers to the same key are last-writer-wins.
type RequestCache struct {
	mu         sync.Mutex
	store      map[string]*CacheEntry
	order      []string
	maxSize    int
	defaultTTL time.Duration
}

// NewRequestCache creates a cache with the given default TTL and no size
// bound. Use NewBoundedRequestCache for capacity-driven eviction.
func NewRequestCache(defaultTTL time.Duration) *RequestCache {
	return NewBoundedRequestCache(defaultTTL, 0)
}

// NewBoundedRequestCache creates a cache holding at most maxSize entries.
// maxSize <= 0 means unbounded.
func NewBoundedRequestCache(defaultTTL time.Duration, maxSize int) *RequestCache {
	return &RequestCache{
		store:      make(map[string]*CacheEntry),
		maxSize:    maxSize,
		defaultTTL: defaultTTL,
	}
}

// Get returns the cached Result for the request identity, lazily deleting an
// entry that expired. A clean miss has no side effect.
func (c *RequestCache) Get(method, target string, headers, params map[string]string, body []byte) (*Result, bool) {
	key := Fingerprint(method, target, headers, params, body)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.store[key]
	if !exists {
		return nil, false
	}
	if time.Now().After(entry.ExpiresAt) {
		c.removeLocked(key)
		return nil, false
	}
	return entry.Value, true
}

// Set stores a Result for the request identity. A non-positive ttl falls back
// to the cache default. At capacity the oldest-inserted entry is evicted first.
func (c *RequestCache) Set(method, target string, value *Result, ttl time.Duration, headers, params map[string]string, body []byte) {
	key := Fingerprint(method, target, headers, params, body)
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.store[key]; !exists {
		if c.maxSize > 0 && len(c.store) >= c.maxSize && len(c.order) > 0 {
			c.removeLocked(c.order[0])
		}
		c.order = append(c.order, key)
	}
	c.store[key] = &CacheEntry{
		Value:     value,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Invalidate removes entries and returns the count removed. The method and
// pattern filters are accepted but not honored: the reference contract clears
// the entire store regardless of the filters supplied.
func (c *RequestCache) Invalidate(method, targetPattern string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := len(c.store)
	c.store = make(map[string]*CacheEntry)
	c.order = c.order[:0]
	return removed
}

// CleanupExpired removes every expired entry and returns the count removed.
// Intended as a maintenance sweep independent of Get's lazy deletion.
func (c *RequestCache) CleanupExpired() int {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, entry := range c.store {
		if now.After(entry.ExpiresAt) {
			c.removeLocked(key)
			removed++
		}
	}
	return removed
}

// Size returns the current number of entries.
func (c *RequestCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.store)
}

// Clear removes all entries.
func (c *RequestCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[string]*CacheEntry)
	c.order = c.order[:0]
}

func (c *RequestCache) removeLocked(key string) {
	delete(c.store, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
