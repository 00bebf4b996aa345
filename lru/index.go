// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package lru

import "fmt"

// index maps each cached key to the handle of its list entry.
type index[K comparable] struct {
	handles map[K]handle
}

func newIndex[K comparable](sizeHint int) index[K] {
	return index[K]{handles: make(map[K]handle, sizeHint)}
}

func (i index[K]) lookup(key K) (handle, bool) {
	h, ok := i.handles[key]
	return h, ok
}

// insert overwrites any prior mapping. Callers release the stale list entry
// first so it is not orphaned.
func (i index[K]) insert(key K, h handle) {
	i.handles[key] = h
}

// delete reports whether key was mapped.
func (i index[K]) delete(key K) bool {
	if _, ok := i.handles[key]; !ok {
		return false
	}
	delete(i.handles, key)
	return true
}

// mustDelete drops a key that was just taken off the list. A missing key
// means the index and list have diverged.
func (i index[K]) mustDelete(key K) {
	if !i.delete(key) {
		panic(fmt.Sprintf("lru: evicted key %v missing from index", key))
	}
}

func (i index[K]) len() int {
	return len(i.handles)
}

func (i index[K]) reset() {
	clear(i.handles)
}
