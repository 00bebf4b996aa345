// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package synccache

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/lrucache"
	"github.com/luxfi/lrucache/lru"
)

func TestLocked(t *testing.T) {
	require := require.New(t)

	inner, err := lru.NewCache[int, string](2)
	require.NoError(err)
	c := NewLocked[int, string](inner)

	c.Put(1, "a")
	c.Put(2, "b")
	val, ok := c.Get(1)
	require.True(ok)
	require.Equal("a", val)

	c.Put(3, "c")
	require.False(c.Contains(2))
	require.Equal(2, c.Len())
	require.Equal(2, c.Capacity())
	require.Equal(1.0, c.PortionFilled())

	val, ok = c.Peek(3)
	require.True(ok)
	require.Equal("c", val)

	val, ok = c.Remove(1)
	require.True(ok)
	require.Equal("a", val)

	c.Do(func(inner lrucache.Cacher[int, string]) {
		if !inner.Contains(9) {
			inner.Put(9, "z")
		}
	})
	require.True(c.Contains(9))

	c.Flush()
	require.Zero(c.Len())
}

func TestLockedConcurrentAccess(t *testing.T) {
	require := require.New(t)

	const capacity = 64
	inner, err := lru.NewCache[int, int](capacity)
	require.NoError(err)
	c := NewLocked[int, int](inner)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				key := (w*1000 + i) % 200
				c.Put(key, i)
				c.Get(key / 2)
				if i%7 == 0 {
					c.Remove(key)
				}
			}
		}(w)
	}
	wg.Wait()

	require.LessOrEqual(c.Len(), capacity)
	c.Do(func(lrucache.Cacher[int, int]) {
		require.Len(inner.Keys(), inner.Len())
	})
}

func TestNewShardedValidation(t *testing.T) {
	_, err := NewSharded[string, int](0, 4, StringHash)
	require.ErrorIs(t, err, lrucache.ErrInvalidCapacity)

	_, err = NewSharded[string, int](4, 3, StringHash)
	require.ErrorIs(t, err, lrucache.ErrInvalidCapacity)

	_, err = NewSharded[string, int](4, 4, nil)
	require.ErrorIs(t, err, ErrNilHash)
}

func TestSharded(t *testing.T) {
	require := require.New(t)

	c, err := NewSharded[string, int](4, 32, StringHash)
	require.NoError(err)
	require.Equal(4, c.NumShards())
	require.Equal(32, c.Capacity())

	for i := 0; i < 16; i++ {
		c.Put(strconv.Itoa(i), i)
	}
	require.LessOrEqual(c.Len(), 16)

	for i := 0; i < 16; i++ {
		key := strconv.Itoa(i)
		if val, ok := c.Get(key); ok {
			require.Equal(i, val)
		}
	}

	c.Put("x", 1)
	val, ok := c.Peek("x")
	require.True(ok)
	require.Equal(1, val)

	val, ok = c.Remove("x")
	require.True(ok)
	require.Equal(1, val)
	require.False(c.Contains("x"))

	c.Flush()
	require.Zero(c.Len())
	require.Zero(c.PortionFilled())
}

func TestShardedEvictsWithinShard(t *testing.T) {
	require := require.New(t)

	var evicted []int
	// A constant hash routes every key to shard 0.
	c, err := NewShardedWithOnEvict[int, int](3, 6, func(int) uint64 { return 0 }, func(k, _ int) {
		evicted = append(evicted, k)
	})
	require.NoError(err)

	c.Put(1, 1)
	c.Put(2, 2)
	c.Get(1)
	c.Put(3, 3)

	require.Equal([]int{2}, evicted)
	require.Equal(2, c.Len())
	require.True(c.Contains(1))
	require.True(c.Contains(3))
}

func TestShardedConcurrentAccess(t *testing.T) {
	require := require.New(t)

	c, err := NewSharded[string, int](16, 512, StringHash)
	require.NoError(err)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				key := strconv.Itoa((w * i) % 1000)
				c.Put(key, i)
				c.Get(key)
			}
		}(w)
	}
	wg.Wait()

	require.LessOrEqual(c.Len(), c.Capacity())
}

func TestHashesAreStable(t *testing.T) {
	require := require.New(t)

	require.Equal(StringHash("lux"), StringHash("lux"))
	require.Equal(StringHash("lux"), BytesHash([]byte("lux")))
	require.NotEqual(StringHash("lux"), StringHash("lru"))
}

func TestShardedSwap(t *testing.T) {
	require := require.New(t)

	c, err := NewSharded[string, int](2, 4, StringHash)
	require.NoError(err)

	_, replaced := c.Swap("a", 1)
	require.False(replaced)

	old, replaced := c.Swap("a", 2)
	require.True(replaced)
	require.Equal(1, old)

	val, ok := c.Get("a")
	require.True(ok)
	require.Equal(2, val)
}

func TestShardedSplitsCapacityExactly(t *testing.T) {
	require := require.New(t)

	c, err := NewSharded[int, int](4, 10, func(k int) uint64 { return uint64(k) })
	require.NoError(err)
	require.Equal(10, c.Capacity())

	var capacities []int
	for _, sh := range c.shards {
		capacities = append(capacities, sh.cache.Capacity())
	}
	require.Equal([]int{3, 3, 2, 2}, capacities)

	for i := 0; i < 100; i++ {
		c.Put(i, i)
	}
	require.Equal(10, c.Len())
}
