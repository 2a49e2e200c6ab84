// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cache

// entry is a cached value linked into the recency ring.
type entry[K comparable, V any] struct {
	key        K
	value      V
	prev, next *entry[K, V]
}

// ring is a circular doubly-linked list around a sentinel. sentinel.next is
// the most recently used entry, sentinel.prev the least recently used.
type ring[K comparable, V any] struct {
	sentinel entry[K, V]
}

func (r *ring[K, V]) init() {
	r.sentinel.next = &r.sentinel
	r.sentinel.prev = &r.sentinel
}

func (r *ring[K, V]) empty() bool { return r.sentinel.next == &r.sentinel }

// pushFront links e as the most recently used entry.
func (r *ring[K, V]) pushFront(e *entry[K, V]) {
	e.prev = &r.sentinel
	e.next = r.sentinel.next
	e.next.prev = e
	r.sentinel.next = e
}

// touch marks e as the most recently used entry.
func (r *ring[K, V]) touch(e *entry[K, V]) {
	if r.sentinel.next == e {
		return
	}
	r.unlink(e)
	r.pushFront(e)
}

func (r *ring[K, V]) unlink(e *entry[K, V]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.prev, e.next = nil, nil
}

// popBack unlinks and returns the least recently used entry, or nil.
func (r *ring[K, V]) popBack() *entry[K, V] {
	if r.empty() {
		return nil
	}
	e := r.sentinel.prev
	r.unlink(e)
	return e
}
