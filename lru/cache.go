// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package lru provides a bounded least-recently-used cache.
package lru

import (
	"fmt"

	"github.com/luxfi/lrucache"
)

var _ lrucache.Cacher[struct{}, struct{}] = (*Cache[struct{}, struct{}])(nil)

// maxPrealloc caps how much of the capacity is allocated up front.
const maxPrealloc = 1024

// Cache is an LRU cache holding at most Capacity entries. Get and Put are
// O(1); inserting a new key into a full cache evicts the least recently used
// entry.
//
// Cache is not safe for concurrent use. Get reorders entries, so callers that
// share a Cache across goroutines must serialize every call, including Get.
// See the synccache package for ready-made wrappers.
type Cache[K comparable, V any] struct {
	capacity int
	index    index[K]
	order    *list[K, V]
	onEvict  func(K, V)
}

// NewCache creates an LRU cache that holds up to capacity entries.
func NewCache[K comparable, V any](capacity int) (*Cache[K, V], error) {
	return NewCacheWithOnEvict[K, V](capacity, nil)
}

// NewCacheWithOnEvict creates an LRU cache that calls onEvict with every entry
// dropped to make room for another. onEvict is not called for Remove,
// RemoveOldest, Flush or when a value is overwritten.
//
// onEvict runs once the Put or Resize that evicted has finished, so it sees a
// consistent cache within its capacity. It should not call back into the
// cache: a callback that inserts keys can cascade into further evictions.
func NewCacheWithOnEvict[K comparable, V any](capacity int, onEvict func(K, V)) (*Cache[K, V], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: got %d", lrucache.ErrInvalidCapacity, capacity)
	}
	hint := min(capacity, maxPrealloc)
	return &Cache[K, V]{
		capacity: capacity,
		index:    newIndex[K](hint),
		order:    newList[K, V](hint),
		onEvict:  onEvict,
	}, nil
}

// Get returns the value stored under key and marks it as most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	h, ok := c.index.lookup(key)
	if !ok {
		var zero V
		return zero, false
	}
	c.order.moveToFront(h)
	_, value := c.order.entry(h)
	return value, true
}

// Put stores value under key as the most recently used entry, evicting the
// least recently used entry if key is new and the cache is full.
func (c *Cache[K, V]) Put(key K, value V) {
	c.PutEvict(key, value)
}

// PutEvict behaves like Put and also reports the entry it evicted, if any.
func (c *Cache[K, V]) PutEvict(key K, value V) (evictedKey K, evictedValue V, evicted bool) {
	if h, ok := c.index.lookup(key); ok {
		c.order.setValue(h, value)
		c.order.moveToFront(h)
		return evictedKey, evictedValue, false
	}

	// Make room before inserting so the bound is never exceeded.
	if c.order.len() >= c.capacity {
		evictedKey, evictedValue, evicted = c.RemoveOldest()
	}

	c.index.insert(key, c.order.pushFront(key, value))
	if evicted && c.onEvict != nil {
		c.onEvict(evictedKey, evictedValue)
	}
	return evictedKey, evictedValue, evicted
}

// Peek returns the value stored under key without changing its recency.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	h, ok := c.index.lookup(key)
	if !ok {
		var zero V
		return zero, false
	}
	_, value := c.order.entry(h)
	return value, true
}

// Contains reports whether key is cached without changing its recency.
func (c *Cache[K, V]) Contains(key K) bool {
	_, ok := c.index.lookup(key)
	return ok
}

// Remove deletes key and returns the value it held.
func (c *Cache[K, V]) Remove(key K) (V, bool) {
	h, ok := c.index.lookup(key)
	if !ok {
		var zero V
		return zero, false
	}
	c.index.delete(key)
	_, value := c.order.remove(h)
	return value, true
}

// Oldest returns the entry that the next eviction would drop.
func (c *Cache[K, V]) Oldest() (K, V, bool) {
	h := c.order.back()
	if h == nilHandle {
		var (
			zeroK K
			zeroV V
		)
		return zeroK, zeroV, false
	}
	key, value := c.order.entry(h)
	return key, value, true
}

// RemoveOldest deletes the least recently used entry and returns it.
func (c *Cache[K, V]) RemoveOldest() (K, V, bool) {
	key, value, ok := c.order.popBack()
	if ok {
		c.index.mustDelete(key)
	}
	return key, value, ok
}

// Keys returns the cached keys from least to most recently used.
func (c *Cache[K, V]) Keys() []K {
	keys := make([]K, 0, c.order.len())
	for h := c.order.back(); h != nilHandle; h = c.order.prev(h) {
		key, _ := c.order.entry(h)
		keys = append(keys, key)
	}
	return keys
}

// Resize changes the capacity, evicting the least recently used entries that
// no longer fit. It returns the number of entries evicted.
func (c *Cache[K, V]) Resize(capacity int) (int, error) {
	if capacity < 1 {
		return 0, fmt.Errorf("%w: got %d", lrucache.ErrInvalidCapacity, capacity)
	}
	c.capacity = capacity

	// Callbacks run after the cache is back within its new capacity.
	var (
		keys   []K
		values []V
	)
	for c.order.len() > capacity {
		key, value, _ := c.RemoveOldest()
		keys = append(keys, key)
		values = append(values, value)
	}
	if c.onEvict != nil {
		for i, key := range keys {
			c.onEvict(key, values[i])
		}
	}
	return len(keys), nil
}

// Flush removes all entries from the cache.
func (c *Cache[K, V]) Flush() {
	c.index.reset()
	c.order.reset()
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	return c.order.len()
}

// Capacity returns the maximum number of entries.
func (c *Cache[K, V]) Capacity() int {
	return c.capacity
}

// PortionFilled returns fraction of cache currently filled (0 --> 1).
func (c *Cache[K, V]) PortionFilled() float64 {
	return float64(c.order.len()) / float64(c.capacity)
}
