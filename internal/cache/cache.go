// Package cache is a small in-process LRU with per-entry TTL, used to keep
// hot dashboard payloads out of the database between writes.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Cache is a bounded LRU with TTL expiry. Writes to the underlying data
// must call InvalidatePrefix so readers never see a stale payload.
type Cache[T any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	lru     *list.List
}

type entry[T any] struct {
	key       string
	value     T
	expiresAt time.Time
}

func New[T any](maxSize int, ttl time.Duration) *Cache[T] {
	return &Cache[T]{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
	}
}

// Get returns the cached value when present and not expired. A hit moves
// the entry to the front of the LRU order.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	elem, ok := c.items[key]
	if !ok {
		return zero, false
	}
	e := elem.Value.(*entry[T])
	if time.Now().After(e.expiresAt) {
		c.remove(elem)
		return zero, false
	}
	c.lru.MoveToFront(elem)
	return e.value, true
}

// Set stores a value, evicting the least recently used entry when full.
func (c *Cache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		e := elem.Value.(*entry[T])
		e.value = value
		e.expiresAt = time.Now().Add(c.ttl)
		c.lru.MoveToFront(elem)
		return
	}

	if c.lru.Len() >= c.maxSize {
		if oldest := c.lru.Back(); oldest != nil {
			c.remove(oldest)
		}
	}
	elem := c.lru.PushFront(&entry[T]{
		key:       key,
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	})
	c.items[key] = elem
}

// Delete removes one key.
func (c *Cache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.remove(elem)
	}
}

// InvalidatePrefix removes every entry whose key starts with the prefix.
// Dashboard keys embed the user id, so one user's writes never evict
// another user's cached months.
func (c *Cache[T]) InvalidatePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var removed int
	for elem := c.lru.Front(); elem != nil; {
		next := elem.Next()
		e := elem.Value.(*entry[T])
		if len(e.key) >= len(prefix) && e.key[:len(prefix)] == prefix {
			c.remove(elem)
			removed++
		}
		elem = next
	}
	return removed
}

// CleanExpired drops every expired entry and reports how many it removed.
func (c *Cache[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	var removed int
	for elem := c.lru.Front(); elem != nil; {
		next := elem.Next()
		if now.After(elem.Value.(*entry[T]).expiresAt) {
			c.remove(elem)
			removed++
		}
		elem = next
	}
	return removed
}

// Size returns the number of live entries, expired ones included.
func (c *Cache[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

func (c *Cache[T]) remove(elem *list.Element) {
	c.lru.Remove(elem)
	delete(c.items, elem.Value.(*entry[T]).key)
}
