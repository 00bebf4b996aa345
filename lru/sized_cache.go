// Copyright (C) 2026, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package lru

import (
	"fmt"

	"github.com/luxfi/lrucache"
)

var _ lrucache.Cacher[struct{}, struct{}] = (*SizedCache[struct{}, struct{}])(nil)

// SizedCache is an LRU cache bounded by the total weight of its entries
// rather than their count. Like Cache, it is not safe for concurrent use.
type SizedCache[K comparable, V any] struct {
	maxSize     int
	currentSize int
	sizeFn      func(K, V) int
	index       index[K]
	order       *list[K, sizedValue[V]]
}

type sizedValue[V any] struct {
	value V
	size  int
}

// NewSizedCache creates a weight-bounded LRU cache. A nil sizeFn weighs every
// entry as 1.
func NewSizedCache[K comparable, V any](maxSize int, sizeFn func(K, V) int) (*SizedCache[K, V], error) {
	if maxSize < 1 {
		return nil, fmt.Errorf("%w: got %d", lrucache.ErrInvalidCapacity, maxSize)
	}
	if sizeFn == nil {
		sizeFn = func(K, V) int { return 1 }
	}
	hint := min(maxSize, maxPrealloc)
	return &SizedCache[K, V]{
		maxSize: maxSize,
		sizeFn:  sizeFn,
		index:   newIndex[K](hint),
		order:   newList[K, sizedValue[V]](hint),
	}, nil
}

// Put inserts or replaces a value. A value heavier than the whole cache is
// not stored, and any previous value under key is dropped. sizeFn returning a
// negative weight panics.
func (c *SizedCache[K, V]) Put(key K, value V) {
	entrySize := c.sizeFn(key, value)
	if entrySize < 0 {
		panic(fmt.Sprintf("lru: negative entry size %d", entrySize))
	}

	if h, ok := c.index.lookup(key); ok {
		c.removeHandle(key, h)
	}
	if entrySize > c.maxSize {
		return
	}

	// 0 <= entrySize <= maxSize and currentSize <= maxSize, so neither the
	// subtraction here nor the addition below can overflow.
	for c.currentSize > c.maxSize-entrySize {
		oldKey, old, ok := c.order.popBack()
		if !ok {
			break
		}
		c.currentSize -= old.size
		c.index.mustDelete(oldKey)
	}

	c.index.insert(key, c.order.pushFront(key, sizedValue[V]{value: value, size: entrySize}))
	c.currentSize += entrySize
}

// Get retrieves a value and marks it as most recently used.
func (c *SizedCache[K, V]) Get(key K) (V, bool) {
	h, ok := c.index.lookup(key)
	if !ok {
		var zero V
		return zero, false
	}
	c.order.moveToFront(h)
	_, entry := c.order.entry(h)
	return entry.value, true
}

// Peek retrieves a value without changing its recency.
func (c *SizedCache[K, V]) Peek(key K) (V, bool) {
	h, ok := c.index.lookup(key)
	if !ok {
		var zero V
		return zero, false
	}
	_, entry := c.order.entry(h)
	return entry.value, true
}

// Contains reports whether key is cached.
func (c *SizedCache[K, V]) Contains(key K) bool {
	_, ok := c.index.lookup(key)
	return ok
}

// Remove deletes a key from the cache.
func (c *SizedCache[K, V]) Remove(key K) (V, bool) {
	h, ok := c.index.lookup(key)
	if !ok {
		var zero V
		return zero, false
	}
	return c.removeHandle(key, h), true
}

// Flush removes all entries.
func (c *SizedCache[K, V]) Flush() {
	c.index.reset()
	c.order.reset()
	c.currentSize = 0
}

// Len returns number of entries.
func (c *SizedCache[K, V]) Len() int {
	return c.order.len()
}

// Size returns the combined weight of all entries.
func (c *SizedCache[K, V]) Size() int {
	return c.currentSize
}

// Capacity returns the maximum combined weight.
func (c *SizedCache[K, V]) Capacity() int {
	return c.maxSize
}

// PortionFilled returns the ratio of size used to max size.
func (c *SizedCache[K, V]) PortionFilled() float64 {
	return float64(c.currentSize) / float64(c.maxSize)
}

func (c *SizedCache[K, V]) removeHandle(key K, h handle) V {
	c.index.mustDelete(key)
	_, old := c.order.remove(h)
	c.currentSize -= old.size
	return old.value
}
