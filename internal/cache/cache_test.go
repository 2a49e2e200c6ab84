// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cache

import (
	"errors"
	"sync"
	"testing"
)

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	var evicted []int
	c := New[int, string](2, func(k int, _ string) { evicted = append(evicted, k) })

	c.Set(1, "a")
	c.Set(2, "b")
	if _, ok := c.Get(1); !ok {
		t.Fatal("Get(1) missed")
	}
	c.Set(3, "c")

	if len(evicted) != 1 || evicted[0] != 2 {
		t.Fatalf("evicted = %v, want [2]", evicted)
	}
	if _, ok := c.Get(2); ok {
		t.Error("key 2 still cached after eviction")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestCacheGetOrCreate(t *testing.T) {
	c := New[string, int](0, nil)
	calls := 0
	create := func() int { calls++; return 42 }

	if v := c.GetOrCreate("k", create); v != 42 {
		t.Fatalf("GetOrCreate = %d, want 42", v)
	}
	if v := c.GetOrCreate("k", create); v != 42 {
		t.Fatalf("GetOrCreate = %d, want 42", v)
	}
	if calls != 1 {
		t.Errorf("create called %d times, want 1", calls)
	}

	s := c.Stats()
	if s.Hits != 1 || s.Misses != 1 {
		t.Errorf("Stats hits=%d misses=%d, want 1/1", s.Hits, s.Misses)
	}
}

func TestCacheClearInvokesCallback(t *testing.T) {
	var evicted []int
	c := New[int, int](0, func(k, _ int) { evicted = append(evicted, k) })
	for i := range 3 {
		c.Set(i, i)
	}
	c.Clear()

	if c.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", c.Len())
	}
	if len(evicted) != 3 || evicted[0] != 0 || evicted[2] != 2 {
		t.Errorf("evicted = %v, want [0 1 2]", evicted)
	}
}

func TestCacheDeleteSkipsCallback(t *testing.T) {
	called := false
	c := New[int, int](0, func(int, int) { called = true })
	c.Set(1, 1)

	if !c.Delete(1) {
		t.Fatal("Delete(1) = false")
	}
	if c.Delete(1) {
		t.Error("second Delete(1) = true")
	}
	if called {
		t.Error("Delete invoked the eviction callback")
	}
}

func TestCacheSetReplaces(t *testing.T) {
	c := New[int, int](1, nil)
	c.Set(1, 1)
	c.Set(1, 2)

	if v, _ := c.Get(1); v != 2 {
		t.Errorf("Get(1) = %d, want 2", v)
	}
	if s := c.Stats(); s.Evictions != 0 {
		t.Errorf("Evictions = %d, want 0", s.Evictions)
	}
}

func TestShardedGetOrCreate(t *testing.T) {
	c := NewSharded[string, int](2)
	calls := 0
	create := func() (int, error) { calls++; return calls, nil }

	v, err := c.GetOrCreate("a", create)
	if err != nil || v != 1 {
		t.Fatalf("GetOrCreate = %d, %v", v, err)
	}
	if v, _ := c.GetOrCreate("a", create); v != 1 || calls != 1 {
		t.Errorf("second GetOrCreate = %d after %d calls", v, calls)
	}

	boom := errors.New("boom")
	if _, err := c.GetOrCreate("b", func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
	if _, ok := c.Get("b"); ok {
		t.Error("failed create stored")
	}

	st := c.Stats()
	if st.Len != 1 || st.Hits != 1 || st.Misses != 3 || st.Capacity != 2*shardCount {
		t.Errorf("stats = %+v", st)
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len after Clear = %d", c.Len())
	}
}

func TestShardedEvictsPerShard(t *testing.T) {
	c := NewSharded[int, int](1)
	for i := range 200 {
		if _, err := c.GetOrCreate(i, func() (int, error) { return i, nil }); err != nil {
			t.Fatal(err)
		}
	}
	if n := c.Len(); n > shardCount {
		t.Errorf("Len = %d, want at most %d", n, shardCount)
	}
	if st := c.Stats(); st.Evictions != uint64(200-c.Len()) {
		t.Errorf("evictions = %d, len %d", st.Evictions, c.Len())
	}
}

func TestShardedConcurrent(t *testing.T) {
	c := NewSharded[int, int](8)
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				k := (g + i) % 32
				v, err := c.GetOrCreate(k, func() (int, error) { return k * 2, nil })
				if err != nil || v != k*2 {
					t.Errorf("GetOrCreate(%d) = %d, %v", k, v, err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
