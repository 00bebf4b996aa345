// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package bytecache provides a concurrent LRU cache for byte slices.
package bytecache

import (
	"fmt"
	"sync/atomic"

	"github.com/luxfi/lrucache"
	"github.com/luxfi/lrucache/synccache"
)

const numShards = 256

// Stats contains cache performance metrics.
type Stats struct {
	EntriesCount uint64
	BytesSize    uint64
	GetCalls     uint64
	SetCalls     uint64
	Misses       uint64
	Evictions    uint64
}

// Cache is a sharded LRU byte cache bounded by entry count. Keys are spread
// over shards by murmur3 hash. Values are copied on the way in and out, so
// callers never share memory with the cache.
type Cache struct {
	shards    *synccache.Sharded[string, []byte]
	bytesSize atomic.Int64
	getCalls  atomic.Uint64
	setCalls  atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// New creates a byte cache holding at most maxEntries entries. Capacity is
// split over the shards and each shard evicts on its own, so a skewed key
// distribution can evict before maxEntries is reached.
func New(maxEntries int) (*Cache, error) {
	if maxEntries < 1 {
		return nil, fmt.Errorf("%w: got %d", lrucache.ErrInvalidCapacity, maxEntries)
	}

	c := &Cache{}
	shards, err := synccache.NewShardedWithOnEvict[string, []byte](
		min(maxEntries, numShards),
		maxEntries,
		synccache.StringHash,
		c.onEvict,
	)
	if err != nil {
		return nil, err
	}
	c.shards = shards
	return c, nil
}

func (c *Cache) onEvict(key string, value []byte) {
	c.evictions.Add(1)
	c.bytesSize.Add(-int64(len(key) + len(value)))
}

// Reset clears all cached entries.
func (c *Cache) Reset() {
	c.shards.Flush()
	c.bytesSize.Store(0)
}

// Del removes a key from the cache.
func (c *Cache) Del(key []byte) {
	if old, ok := c.shards.Remove(string(key)); ok {
		c.bytesSize.Add(-int64(len(key) + len(old)))
	}
}

// Has reports whether a key exists without touching its recency.
func (c *Cache) Has(key []byte) bool {
	return c.shards.Contains(string(key))
}

// HasGet appends the value to dst and reports whether the key exists.
func (c *Cache) HasGet(dst, key []byte) ([]byte, bool) {
	c.getCalls.Add(1)
	val, ok := c.shards.Get(string(key))
	if !ok {
		c.misses.Add(1)
		if dst == nil {
			return nil, false
		}
		return dst[:0], false
	}
	if dst == nil {
		return append([]byte(nil), val...), true
	}
	return append(dst[:0], val...), true
}

// Get looks up a value by key, copying into dst if provided.
func (c *Cache) Get(dst, key []byte) []byte {
	val, _ := c.HasGet(dst, key)
	return val
}

// Set stores a copy of value under key.
func (c *Cache) Set(key, value []byte) {
	c.setCalls.Add(1)
	k := string(key)
	v := append([]byte(nil), value...)

	delta := int64(len(k) + len(v))
	if old, replaced := c.shards.Swap(k, v); replaced {
		delta -= int64(len(k) + len(old))
	}
	c.bytesSize.Add(delta)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return c.shards.Len()
}

// UpdateStats populates the provided stats struct.
func (c *Cache) UpdateStats(s *Stats) {
	if s == nil {
		return
	}
	s.EntriesCount = uint64(c.shards.Len())
	s.BytesSize = uint64(max(c.bytesSize.Load(), 0))
	s.GetCalls = c.getCalls.Load()
	s.SetCalls = c.setCalls.Load()
	s.Misses = c.misses.Load()
	s.Evictions = c.evictions.Load()
}
