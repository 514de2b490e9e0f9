// Package cache provides a small in-memory TTL cache
package cache

import (
	"sync"
	"time"
)

// Cache is a generic in-memory cache with per-item expiry and LRU
// eviction once maxSize is reached.
type Cache[K comparable, V any] struct {
	items      map[K]*item[V]
	mutex      sync.RWMutex
	defaultTTL time.Duration
	maxSize    int
	done       chan struct{}
	closeOnce  sync.Once
}

type item[V any] struct {
	value     V
	expiresAt time.Time
	lastUsed  time.Time
}

// New creates a cache and starts its background cleanup loop.
// Call Close when the cache is no longer needed.
func New[K comparable, V any](defaultTTL time.Duration, maxSize int) *Cache[K, V] {
	c := &Cache[K, V]{
		items:      make(map[K]*item[V]),
		defaultTTL: defaultTTL,
		maxSize:    maxSize,
		done:       make(chan struct{}),
	}

	go c.cleanupLoop()

	return c
}

// Set stores a value with the default TTL
func (c *Cache[K, V]) Set(key K, value V) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores a value with a custom TTL
func (c *Cache[K, V]) SetWithTTL(key K, value V, ttl time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if len(c.items) >= c.maxSize {
		c.evictOldest()
	}

	now := time.Now()
	c.items[key] = &item[V]{
		value:     value,
		expiresAt: now.Add(ttl),
		lastUsed:  now,
	}
}

// Get returns the cached value when present and not expired
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	it, exists := c.items[key]
	if !exists {
		var zero V
		return zero, false
	}

	if time.Now().After(it.expiresAt) {
		delete(c.items, key)
		var zero V
		return zero, false
	}

	it.lastUsed = time.Now()
	return it.value, true
}

// Delete removes a key from the cache
func (c *Cache[K, V]) Delete(key K) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.items, key)
}

// Clear removes all items
func (c *Cache[K, V]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.items = make(map[K]*item[V])
}

// Size returns the number of items currently held (including items
// that have expired but not yet been swept)
func (c *Cache[K, V]) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.items)
}

// Close stops the background cleanup loop
func (c *Cache[K, V]) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// evictOldest removes the least recently used item. Caller holds the lock.
func (c *Cache[K, V]) evictOldest() {
	var oldestKey K
	var oldestTime time.Time
	first := true

	for key, it := range c.items {
		if first || it.lastUsed.Before(oldestTime) {
			oldestKey = key
			oldestTime = it.lastUsed
			first = false
		}
	}

	if !first {
		delete(c.items, oldestKey)
	}
}

func (c *Cache[K, V]) cleanupLoop() {
	ticker := time.NewTicker(c.defaultTTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.done:
			return
		}
	}
}

func (c *Cache[K, V]) sweep() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	for key, it := range c.items {
		if now.After(it.expiresAt) {
			delete(c.items, key)
		}
	}
}
