package metacache

import (
	"sync"
	"time"
)

// TTLCache is a bounded in-memory cache whose entries expire after a fixed TTL.
type TTLCache[K comparable, V any] struct {
	mu       sync.RWMutex
	items    map[K]ttlItem[V]
	ttl      time.Duration
	maxItems int
	now      func() time.Time
}

type ttlItem[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLConfig holds cache configuration.
type TTLConfig struct {
	TTL      time.Duration
	MaxItems int
}

// NewTTLCache creates a cache. Zero values fall back to 15 minutes and 1000 items.
func NewTTLCache[K comparable, V any](cfg TTLConfig) *TTLCache[K, V] {
	if cfg.TTL <= 0 {
		cfg.TTL = 15 * time.Minute
	}
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = 1000
	}

	return &TTLCache[K, V]{
		items:    make(map[K]ttlItem[V]),
		ttl:      cfg.TTL,
		maxItems: cfg.MaxItems,
		now:      time.Now,
	}
}

// Get retrieves an unexpired item from the cache.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[key]
	if !ok || c.now().After(item.expiresAt) {
		var zero V
		return zero, false
	}
	return item.value, true
}

// Set stores an item with the default TTL.
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores an item with a custom TTL.
func (c *TTLCache[K, V]) SetWithTTL(key K, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxItems {
		c.evict()
	}

	c.items[key] = ttlItem[V]{
		value:     value,
		expiresAt: c.now().Add(ttl),
	}
}

// Delete removes an item from the cache.
func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Clear removes all items from the cache.
func (c *TTLCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]ttlItem[V])
}

// Len returns the number of stored items, expired ones included.
func (c *TTLCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Purge drops expired items and returns how many were removed.
func (c *TTLCache[K, V]) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.purgeLocked()
}

func (c *TTLCache[K, V]) purgeLocked() int {
	now := c.now()
	removed := 0
	for key, item := range c.items {
		if now.After(item.expiresAt) {
			delete(c.items, key)
			removed++
		}
	}
	return removed
}

// evict makes room for one item. Expired items go first, then the entry
// closest to expiry. Must be called with the lock held.
func (c *TTLCache[K, V]) evict() {
	if c.purgeLocked() > 0 {
		return
	}

	var (
		oldestKey K
		oldestAt  time.Time
		found     bool
	)
	for key, item := range c.items {
		if !found || item.expiresAt.Before(oldestAt) {
			oldestKey, oldestAt, found = key, item.expiresAt, true
		}
	}
	if found {
		delete(c.items, oldestKey)
	}
}
