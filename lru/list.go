// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package lru

import "fmt"

// handle identifies a slot in a list. Handles stay valid until the entry they
// refer to is removed. It is as wide as int so any capacity can be addressed.
type handle int

// nilHandle terminates the list in both directions.
const nilHandle handle = -1

type slot[K comparable, V any] struct {
	key        K
	value      V
	prev, next handle
	live       bool
}

// list orders entries from most recently used (head) to least recently used
// (tail). Nodes live in a slice and link to each other by index, and removed
// slots are recycled through a free list.
type list[K comparable, V any] struct {
	slots      []slot[K, V]
	free       []handle
	head, tail handle
	count      int
}

func newList[K comparable, V any](sizeHint int) *list[K, V] {
	return &list[K, V]{
		slots: make([]slot[K, V], 0, sizeHint),
		head:  nilHandle,
		tail:  nilHandle,
	}
}

func (l *list[K, V]) len() int {
	return l.count
}

func (l *list[K, V]) front() handle {
	return l.head
}

func (l *list[K, V]) back() handle {
	return l.tail
}

// prev returns the entry one step closer to the head, or nilHandle.
func (l *list[K, V]) prev(h handle) handle {
	return l.slot(h).prev
}

func (l *list[K, V]) entry(h handle) (K, V) {
	s := l.slot(h)
	return s.key, s.value
}

func (l *list[K, V]) setValue(h handle, value V) {
	l.slot(h).value = value
}

// pushFront inserts a new entry at the head.
func (l *list[K, V]) pushFront(key K, value V) handle {
	var h handle
	if n := len(l.free); n > 0 {
		h = l.free[n-1]
		l.free = l.free[:n-1]
	} else {
		h = handle(len(l.slots))
		l.slots = append(l.slots, slot[K, V]{})
	}

	l.slots[h] = slot[K, V]{
		key:   key,
		value: value,
		prev:  nilHandle,
		next:  nilHandle,
		live:  true,
	}
	l.linkFront(h)
	l.count++
	return h
}

// moveToFront relocates a live entry to the head.
func (l *list[K, V]) moveToFront(h handle) {
	l.slot(h)
	if l.head == h {
		return
	}
	l.unlink(h)
	l.linkFront(h)
}

// popBack removes and returns the tail entry.
func (l *list[K, V]) popBack() (K, V, bool) {
	if l.tail == nilHandle {
		var (
			zeroK K
			zeroV V
		)
		return zeroK, zeroV, false
	}
	key, value := l.remove(l.tail)
	return key, value, true
}

// remove unlinks a live entry and releases its slot.
func (l *list[K, V]) remove(h handle) (K, V) {
	s := l.slot(h)
	key, value := s.key, s.value
	l.unlink(h)

	// Clear the slot so the arena does not pin values that left the cache.
	l.slots[h] = slot[K, V]{prev: nilHandle, next: nilHandle}
	l.free = append(l.free, h)
	l.count--
	return key, value
}

// reset drops every entry, keeping the allocated arena.
func (l *list[K, V]) reset() {
	clear(l.slots)
	l.slots = l.slots[:0]
	l.free = l.free[:0]
	l.head, l.tail = nilHandle, nilHandle
	l.count = 0
}

// slot returns the live slot for h. Using a stale or foreign handle is a bug
// in the caller and panics rather than corrupting the links.
func (l *list[K, V]) slot(h handle) *slot[K, V] {
	if h < 0 || int(h) >= len(l.slots) || !l.slots[h].live {
		panic(fmt.Sprintf("lru: handle %d does not reference a live entry", h))
	}
	return &l.slots[h]
}

func (l *list[K, V]) linkFront(h handle) {
	s := &l.slots[h]
	s.prev = nilHandle
	s.next = l.head
	if l.head != nilHandle {
		l.slots[l.head].prev = h
	}
	l.head = h
	if l.tail == nilHandle {
		l.tail = h
	}
}

func (l *list[K, V]) unlink(h handle) {
	s := &l.slots[h]
	if s.prev != nilHandle {
		l.slots[s.prev].next = s.next
	} else {
		l.head = s.next
	}
	if s.next != nilHandle {
		l.slots[s.next].prev = s.prev
	} else {
		l.tail = s.prev
	}
	s.prev, s.next = nilHandle, nilHandle
}
