// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package synccache

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spaolacci/murmur3"

	"github.com/luxfi/lrucache"
	"github.com/luxfi/lrucache/lru"
)

var (
	_ lrucache.Cacher[struct{}, struct{}] = (*Sharded[struct{}, struct{}])(nil)

	ErrNilHash = errors.New("shard hash function is nil")
)

// hashSeed keeps shard selection independent from map hashing elsewhere.
const hashSeed = 0x6c7275

// Sharded spreads keys over independent LRU caches, each behind its own
// mutex, so callers touching different shards do not contend. Recency is
// tracked per shard: a full shard evicts its own least recently used entry
// even if another shard holds older entries.
type Sharded[K comparable, V any] struct {
	shards []*shard[K, V]
	hash   func(K) uint64
}

type shard[K comparable, V any] struct {
	mu    sync.Mutex
	cache *lru.Cache[K, V]
}

// NewSharded creates numShards caches holding up to capacity entries in
// total. The capacity is split as evenly as possible, so every shard must get
// at least one entry. hash picks the shard for a key and must be
// deterministic.
func NewSharded[K comparable, V any](
	numShards int,
	capacity int,
	hash func(K) uint64,
) (*Sharded[K, V], error) {
	return NewShardedWithOnEvict[K, V](numShards, capacity, hash, nil)
}

// NewShardedWithOnEvict is like NewSharded and calls onEvict for every entry
// a shard evicts. onEvict runs while that shard is locked and must not call
// back into s.
func NewShardedWithOnEvict[K comparable, V any](
	numShards int,
	capacity int,
	hash func(K) uint64,
	onEvict func(K, V),
) (*Sharded[K, V], error) {
	if numShards < 1 {
		return nil, fmt.Errorf("%w: got %d shards", lrucache.ErrInvalidCapacity, numShards)
	}
	if capacity < numShards {
		return nil, fmt.Errorf("%w: capacity %d is less than %d shards", lrucache.ErrInvalidCapacity, capacity, numShards)
	}
	if hash == nil {
		return nil, ErrNilHash
	}
	s := &Sharded[K, V]{
		shards: make([]*shard[K, V], numShards),
		hash:   hash,
	}
	perShard, extra := capacity/numShards, capacity%numShards
	for i := range s.shards {
		shardCapacity := perShard
		if i < extra {
			shardCapacity++
		}
		c, err := lru.NewCacheWithOnEvict[K, V](shardCapacity, onEvict)
		if err != nil {
			return nil, err
		}
		s.shards[i] = &shard[K, V]{cache: c}
	}
	return s, nil
}

// StringHash hashes string keys with murmur3.
func StringHash(key string) uint64 {
	return murmur3.Sum64WithSeed([]byte(key), hashSeed)
}

// BytesHash hashes byte keys with murmur3.
func BytesHash(key []byte) uint64 {
	return murmur3.Sum64WithSeed(key, hashSeed)
}

func (s *Sharded[K, V]) shardFor(key K) *shard[K, V] {
	return s.shards[s.hash(key)%uint64(len(s.shards))]
}

func (s *Sharded[K, V]) Put(key K, value V) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.cache.Put(key, value)
}

// Swap stores value under key and returns the value it replaced, if any, as
// one step.
func (s *Sharded[K, V]) Swap(key K, value V) (V, bool) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	old, replaced := sh.cache.Peek(key)
	sh.cache.Put(key, value)
	return old, replaced
}

func (s *Sharded[K, V]) Get(key K) (V, bool) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.cache.Get(key)
}

func (s *Sharded[K, V]) Peek(key K) (V, bool) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.cache.Peek(key)
}

func (s *Sharded[K, V]) Contains(key K) bool {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.cache.Contains(key)
}

func (s *Sharded[K, V]) Remove(key K) (V, bool) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.cache.Remove(key)
}

// Flush empties every shard. Shards are cleared one at a time, so concurrent
// writers may repopulate earlier shards before Flush returns.
func (s *Sharded[K, V]) Flush() {
	for _, sh := range s.shards {
		sh.mu.Lock()
		sh.cache.Flush()
		sh.mu.Unlock()
	}
}

// Len sums the shard sizes. Under concurrent writes the result is a snapshot
// taken shard by shard.
func (s *Sharded[K, V]) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		n += sh.cache.Len()
		sh.mu.Unlock()
	}
	return n
}

// Capacity returns the combined capacity of all shards.
func (s *Sharded[K, V]) Capacity() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		n += sh.cache.Capacity()
		sh.mu.Unlock()
	}
	return n
}

func (s *Sharded[K, V]) PortionFilled() float64 {
	return float64(s.Len()) / float64(s.Capacity())
}

// NumShards returns the number of shards.
func (s *Sharded[K, V]) NumShards() int {
	return len(s.shards)
}
