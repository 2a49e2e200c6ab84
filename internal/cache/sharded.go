// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cache

import (
	"hash/maphash"
	"sync"
	"sync/atomic"
)

// shardCount must be a power of two.
const shardCount = 16

// Sharded is an LRU cache split into independently locked shards, for
// process-wide lookups from several goroutines. Each shard holds at most
// perShard entries; evicted values are dropped without a callback.
type Sharded[K comparable, V any] struct {
	seed     maphash.Seed
	perShard int
	shards   [shardCount]shard[K, V]

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type shard[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*entry[K, V]
	recency ring[K, V]
}

// NewSharded returns a sharded cache holding up to perShard entries per
// shard. perShard <= 0 selects 64.
func NewSharded[K comparable, V any](perShard int) *Sharded[K, V] {
	if perShard <= 0 {
		perShard = 64
	}
	c := &Sharded[K, V]{seed: maphash.MakeSeed(), perShard: perShard}
	for i := range c.shards {
		c.shards[i].entries = make(map[K]*entry[K, V])
		c.shards[i].recency.init()
	}
	return c
}

func (c *Sharded[K, V]) shardFor(key K) *shard[K, V] {
	return &c.shards[maphash.Comparable(c.seed, key)&(shardCount-1)]
}

// Get returns the cached value for key.
func (c *Sharded[K, V]) Get(key K) (V, bool) {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	c.hits.Add(1)
	s.recency.touch(e)
	return e.value, true
}

// GetOrCreate returns the cached value or stores the result of create. A
// create error is returned and nothing is stored. create runs under the
// shard lock, so concurrent callers of one key create it once.
func (c *Sharded[K, V]) GetOrCreate(key K, create func() (V, error)) (V, error) {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		c.hits.Add(1)
		s.recency.touch(e)
		return e.value, nil
	}
	c.misses.Add(1)

	v, err := create()
	if err != nil {
		return v, err
	}
	for len(s.entries) >= c.perShard {
		oldest := s.recency.popBack()
		if oldest == nil {
			break
		}
		delete(s.entries, oldest.key)
		c.evictions.Add(1)
	}
	e := &entry[K, V]{key: key, value: v}
	s.entries[key] = e
	s.recency.pushFront(e)
	return v, nil
}

// Len returns the number of entries over all shards.
func (c *Sharded[K, V]) Len() int {
	n := 0
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		n += len(s.entries)
		s.mu.Unlock()
	}
	return n
}

// Clear drops every entry. Statistics are kept.
func (c *Sharded[K, V]) Clear() {
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		clear(s.entries)
		s.recency.init()
		s.mu.Unlock()
	}
}

// Stats returns the cache statistics. Capacity is the total over shards.
func (c *Sharded[K, V]) Stats() Stats {
	st := Stats{
		Len:       c.Len(),
		Capacity:  c.perShard * shardCount,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
	if total := st.Hits + st.Misses; total > 0 {
		st.HitRate = float64(st.Hits) / float64(total)
	}
	return st
}
