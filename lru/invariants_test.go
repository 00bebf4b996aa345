// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package lru

import "fmt"

// checkInvariants walks the list and index and panics on any divergence.
func (c *Cache[K, V]) checkInvariants() {
	l := c.order
	if l.len() > c.capacity {
		panic(fmt.Sprintf("size %d exceeds capacity %d", l.len(), c.capacity))
	}
	if l.len() != c.index.len() {
		panic(fmt.Sprintf("list holds %d entries, index holds %d", l.len(), c.index.len()))
	}

	seen := make(map[K]struct{}, l.len())
	prev := nilHandle
	n := 0
	for h := l.front(); h != nilHandle; h = l.slots[h].next {
		s := l.slots[h]
		if !s.live {
			panic(fmt.Sprintf("dead slot %d linked into list", h))
		}
		if s.prev != prev {
			panic(fmt.Sprintf("slot %d prev=%d, want %d", h, s.prev, prev))
		}
		if _, dup := seen[s.key]; dup {
			panic(fmt.Sprintf("duplicate key %v", s.key))
		}
		seen[s.key] = struct{}{}
		if got, ok := c.index.lookup(s.key); !ok || got != h {
			panic(fmt.Sprintf("key %v indexed at %d, list has it at %d", s.key, got, h))
		}
		prev = h
		n++
	}
	if prev != l.back() {
		panic(fmt.Sprintf("tail is %d, walk ended at %d", l.back(), prev))
	}
	if n != l.len() {
		panic(fmt.Sprintf("walked %d entries, count is %d", n, l.len()))
	}
	if n+len(l.free) != len(l.slots) {
		panic(fmt.Sprintf("%d live + %d free slots != %d allocated", n, len(l.free), len(l.slots)))
	}
}
