// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package synccache provides wrappers that make bounded caches safe for
// concurrent use.
package synccache

import (
	"sync"

	"github.com/luxfi/lrucache"
)

var _ lrucache.Cacher[struct{}, struct{}] = (*Locked[struct{}, struct{}])(nil)

// Locked serializes every call to the wrapped cache behind one mutex. Get is
// guarded like a write since it reorders the cache.
type Locked[K comparable, V any] struct {
	mu    sync.Mutex
	cache lrucache.Cacher[K, V]
}

// NewLocked wraps c. The caller must not use c directly afterwards.
func NewLocked[K comparable, V any](c lrucache.Cacher[K, V]) *Locked[K, V] {
	return &Locked[K, V]{cache: c}
}

func (l *Locked[K, V]) Put(key K, value V) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache.Put(key, value)
}

func (l *Locked[K, V]) Get(key K) (V, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cache.Get(key)
}

func (l *Locked[K, V]) Peek(key K) (V, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cache.Peek(key)
}

func (l *Locked[K, V]) Contains(key K) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cache.Contains(key)
}

func (l *Locked[K, V]) Remove(key K) (V, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cache.Remove(key)
}

func (l *Locked[K, V]) Flush() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache.Flush()
}

func (l *Locked[K, V]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cache.Len()
}

func (l *Locked[K, V]) Capacity() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cache.Capacity()
}

func (l *Locked[K, V]) PortionFilled() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cache.PortionFilled()
}

// Do runs f with exclusive access to the wrapped cache, for compound
// operations that must not interleave with other callers.
func (l *Locked[K, V]) Do(f func(c lrucache.Cacher[K, V])) {
	l.mu.Lock()
	defer l.mu.Unlock()
	f(l.cache)
}
