// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package parallel

import (
	"sync/atomic"
	"testing"
)

func TestExecuteAllRunsEverything(t *testing.T) {
	p := NewWorkerPool(3)
	defer p.Close()

	var sum atomic.Int64
	work := make([]func(), 100)
	for i := range work {
		work[i] = func() { sum.Add(int64(i)) }
	}
	p.ExecuteAll(work)
	if got := sum.Load(); got != 4950 {
		t.Errorf("sum = %d, want 4950", got)
	}
}

func TestExecuteAllAfterClose(t *testing.T) {
	p := NewWorkerPool(2)
	p.Close()
	p.Close()

	ran := 0
	p.ExecuteAll([]func(){func() { ran++ }, func() { ran++ }})
	if ran != 2 {
		t.Errorf("ran = %d after close, want 2", ran)
	}
}

func TestDefaultWorkers(t *testing.T) {
	p := NewWorkerPool(0)
	defer p.Close()
	if p.Workers() < 1 {
		t.Errorf("workers = %d", p.Workers())
	}
	p.ExecuteAll(nil)
}
