// Lunara - Cycle-Aware Nutrition Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lunara

package cache

import (
	"sync"
	"time"
)

const (
	// DefaultCapacity is used when a non-positive capacity is given.
	DefaultCapacity = 10000

	// DefaultTTL is used when a non-positive TTL is given.
	DefaultTTL = 5 * time.Minute
)

type entry[V any] struct {
	key       string
	value     V
	prev      *entry[V]
	next      *entry[V]
	expiresAt time.Time
}

// LRU is a thread-safe least recently used cache with per-entry TTL.
//
// Entries live in a doubly-linked list ordered by recency, indexed by a map.
// Get, Add, Remove and eviction are O(1). Expiry is lazy: an expired entry
// is dropped when it is next touched or by CleanupExpired.
type LRU[V any] struct {
	mu sync.Mutex

	capacity int
	ttl      time.Duration
	now      func() time.Time

	items map[string]*entry[V]

	// head.next is the most recently used, tail.prev the least
	head *entry[V]
	tail *entry[V]

	hits   int64
	misses int64
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits     int64
	Misses   int64
	Size     int
	Capacity int
}

// NewLRU creates a cache holding at most capacity entries, each living for
// ttl after its last write.
func NewLRU[V any](capacity int, ttl time.Duration) *LRU[V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c := &LRU[V]{
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
		items:    make(map[string]*entry[V], min(capacity, 1024)),
		head:     &entry[V]{},
		tail:     &entry[V]{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

// SetClock replaces time.Now. Intended for tests.
func (c *LRU[V]) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Get returns the live value for key and marks it most recently used.
func (c *LRU[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.lookup(key); ok {
		c.moveToFront(e)
		c.hits++
		return e.value, true
	}
	c.misses++
	var zero V
	return zero, false
}

// Add inserts or replaces the value for key, evicting the least recently
// used entry when over capacity.
func (c *LRU[V]) Add(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(key, value)
}

// GetOrAdd returns the live value for key, or stores and returns the result
// of create. create runs under the cache lock and must not call back into
// the cache.
func (c *LRU[V]) GetOrAdd(key string, create func() V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.lookup(key); ok {
		c.moveToFront(e)
		c.hits++
		return e.value
	}
	c.misses++
	value := create()
	c.set(key, value)
	return value
}

// IsDuplicate reports whether key was recorded within the TTL. A key that
// is not a duplicate is recorded with the zero value.
func (c *LRU[V]) IsDuplicate(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.lookup(key); ok {
		c.moveToFront(e)
		c.hits++
		return true
	}
	c.misses++
	var zero V
	c.set(key, zero)
	return false
}

// Remove deletes key. It reports whether the key was present.
func (c *LRU[V]) Remove(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		c.removeEntry(e)
		return true
	}
	return false
}

// Len returns the number of entries, including expired ones not yet
// collected.
func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Clear removes all entries.
func (c *LRU[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*entry[V], min(c.capacity, 1024))
	c.head.next = c.tail
	c.tail.prev = c.head
}

// CleanupExpired removes all expired entries and returns how many were
// removed.
func (c *LRU[V]) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for e := c.tail.prev; e != c.head; {
		prev := e.prev
		if now.After(e.expiresAt) {
			c.removeEntry(e)
			removed++
		}
		e = prev
	}
	return removed
}

// Stats returns the cache counters.
func (c *LRU[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:     c.hits,
		Misses:   c.misses,
		Size:     len(c.items),
		Capacity: c.capacity,
	}
}

// Internal methods (must be called with lock held)

// lookup returns the entry for key, dropping it if expired.
func (c *LRU[V]) lookup(key string) (*entry[V], bool) {
	e, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		c.removeEntry(e)
		return nil, false
	}
	return e, true
}

func (c *LRU[V]) set(key string, value V) {
	expiresAt := c.now().Add(c.ttl)

	if e, ok := c.items[key]; ok {
		e.value = value
		e.expiresAt = expiresAt
		c.moveToFront(e)
		return
	}

	e := &entry[V]{key: key, value: value, expiresAt: expiresAt}
	c.addToFront(e)
	c.items[key] = e

	for len(c.items) > c.capacity {
		c.evictOldest()
	}
}

func (c *LRU[V]) addToFront(e *entry[V]) {
	e.prev = c.head
	e.next = c.head.next
	c.head.next.prev = e
	c.head.next = e
}

func (c *LRU[V]) moveToFront(e *entry[V]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	c.addToFront(e)
}

func (c *LRU[V]) removeEntry(e *entry[V]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	delete(c.items, e.key)
}

func (c *LRU[V]) evictOldest() {
	oldest := c.tail.prev
	if oldest == c.head {
		return
	}
	c.removeEntry(oldest)
}
