// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package cache provides a generic LRU cache with a soft limit and an
// eviction callback.
//
//	c := cache.New[uint64, *Pipeline](256, func(k uint64, p *Pipeline) {
//	    deferred = append(deferred, p)
//	})
//	p := c.GetOrCreate(key, func() *Pipeline { return build() })
//
// The eviction callback runs under the cache lock and must not call back
// into the cache.
//
// Sharded splits entries over independently locked shards for lookups that
// come from many goroutines, such as shader reflection.
package cache
