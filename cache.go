// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package lrucache provides bounded caching interfaces and implementations.
package lrucache

import "errors"

// ErrInvalidCapacity is returned when a cache is constructed or resized with
// a capacity below one.
var ErrInvalidCapacity = errors.New("cache capacity must be at least 1")

// Cacher is a bounded key value store. Implementations evict entries on their
// own once full, so callers must not rely on a Put value remaining present.
//
// Implementations are not required to be safe for concurrent use.
type Cacher[K comparable, V any] interface {
	// Put inserts or replaces an element in the cache.
	Put(key K, value V)

	// Get returns the entry with the key, if it exists, and marks it as the
	// most recently used.
	Get(key K) (V, bool)

	// Peek returns the entry with the key without touching its recency.
	Peek(key K) (V, bool)

	// Contains reports whether the key is present without touching its recency.
	Contains(key K) bool

	// Remove deletes the entry with the key and returns its value, if it
	// existed.
	Remove(key K) (V, bool)

	// Flush removes all entries from the cache.
	Flush()

	// Len returns the number of elements in the cache.
	Len() int

	// Capacity returns the bound the cache was built with.
	Capacity() int

	// PortionFilled returns fraction of cache currently filled (0 --> 1).
	PortionFilled() float64
}
