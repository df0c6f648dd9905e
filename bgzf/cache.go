// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bgzf

import (
	lru "github.com/hashicorp/golang-lru"
)

// DefaultCacheCapacity is the default number of decompressed blocks a
// Reader's cache retains when none is given explicitly.
const DefaultCacheCapacity = 1000

// Cache is a bounded store of decompressed Blocks keyed by their compressed
// file offset. Only Seek consults the cache; sequential reads keep a single
// "current" block and never populate it.
type Cache interface {
	// Get returns the cached block for the given compressed file offset,
	// and whether it was present.
	Get(offset int64) (Block, bool)
	// Put inserts a block into the cache, evicting the least recently
	// used entry if the cache is at capacity.
	Put(b Block)
}

// lruCache is a Cache backed by a fixed-capacity LRU.
type lruCache struct {
	c *lru.Cache
}

// NewLRUCache returns a Cache that retains at most capacity decompressed
// blocks, evicting the least recently used entry once full. A capacity
// below 1 selects DefaultCacheCapacity.
func NewLRUCache(capacity int) Cache {
	if capacity < 1 {
		capacity = DefaultCacheCapacity
	}
	c, err := lru.New(capacity)
	if err != nil {
		// lru.New only errors for capacity <= 0, excluded above.
		panic(err)
	}
	return &lruCache{c: c}
}

func (c *lruCache) Get(offset int64) (Block, bool) {
	v, ok := c.c.Get(offset)
	if !ok {
		return Block{}, false
	}
	return v.(Block), true
}

func (c *lruCache) Put(b Block) {
	c.c.Add(b.FileOffset, b)
}
