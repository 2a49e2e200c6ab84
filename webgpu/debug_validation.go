// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package webgpu

import (
	"sync"
	"sync/atomic"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/native"
)

// maxRepeatedErrors is how many times one error message is logged before
// further occurrences are only counted.
const maxRepeatedErrors = 5

// ErrorEvent is a native error resolved by an error scope.
type ErrorEvent struct {
	// Kind is the filter of the scope that captured the error.
	Kind native.ErrorFilter

	// Err is the native error.
	Err error

	// Context holds the values passed to End, such as the descriptor of
	// the resource being created.
	Context []any
}

// DebugValidation brackets groups of native calls with error scopes.
//
// Validate, Memory and Internal push a scope on the native device and on a
// local shadow stack. End pops both. The native scope resolves on a
// background goroutine which forwards any captured error to a single sink
// goroutine. The sink owns the deduplication map and logs each distinct
// message at most five times; the fifth line carries a suppression notice.
//
// None of the methods block on GPU work. A DebugValidation created with
// validation disabled turns every method into a no-op.
type DebugValidation struct {
	device  native.Device
	enabled bool

	// stack is the shadow stack. It is only touched by the device
	// goroutine.
	stack []native.ErrorFilter

	events  chan ErrorEvent
	pending sync.WaitGroup
	done    chan struct{}
	closed  atomic.Bool

	// counts is owned by the sink goroutine.
	counts map[string]int

	reported atomic.Uint64
}

// NewDebugValidation starts the error sink for device. Close stops it.
func NewDebugValidation(device native.Device, enabled bool) *DebugValidation {
	v := &DebugValidation{
		device:  device,
		enabled: enabled,
		events:  make(chan ErrorEvent, 64),
		done:    make(chan struct{}),
		counts:  make(map[string]int),
	}
	go v.sink()
	return v
}

// Enabled reports whether scopes are pushed.
func (v *DebugValidation) Enabled() bool { return v.enabled }

// Validate opens a validation error scope.
func (v *DebugValidation) Validate() { v.push(native.ErrorFilterValidation) }

// Memory opens an out-of-memory error scope.
func (v *DebugValidation) Memory() { v.push(native.ErrorFilterOutOfMemory) }

// Internal opens an internal error scope.
func (v *DebugValidation) Internal() { v.push(native.ErrorFilterInternal) }

func (v *DebugValidation) push(kind native.ErrorFilter) {
	if !v.enabled {
		return
	}
	v.stack = append(v.stack, kind)
	v.device.PushErrorScope(kind)
}

// Depth returns the number of open scopes.
func (v *DebugValidation) Depth() int { return len(v.stack) }

// End closes the innermost scope. The context values are logged with any
// error the scope captured. End panics when no scope is open.
func (v *DebugValidation) End(context ...any) {
	if !v.enabled {
		return
	}
	n := len(v.stack)
	if n == 0 {
		panic("webgpu: DebugValidation.End without an open scope")
	}
	kind := v.stack[n-1]
	v.stack = v.stack[:n-1]

	result := v.device.PopErrorScope()
	if v.closed.Load() {
		return
	}
	v.pending.Add(1)
	go func() {
		defer v.pending.Done()
		if err := <-result; err != nil {
			v.events <- ErrorEvent{Kind: kind, Err: err, Context: context}
		}
	}()
}

// Reported returns the number of errors the sink has received.
func (v *DebugValidation) Reported() uint64 { return v.reported.Load() }

func (v *DebugValidation) sink() {
	defer close(v.done)
	for ev := range v.events {
		v.reported.Add(1)
		msg := ev.Err.Error()
		n := v.counts[msg]
		v.counts[msg] = n + 1
		if n >= maxRepeatedErrors {
			continue
		}

		attrs := []any{"kind", ev.Kind.String(), "err", msg}
		if len(ev.Context) > 0 {
			attrs = append(attrs, "context", ev.Context)
		}
		if n == maxRepeatedErrors-1 {
			attrs = append(attrs, "notice", "too many errors, suppressing further")
		}
		gfx.Logger().Error("webgpu: native error", attrs...)
	}
}

// Close waits for in-flight scope resolutions and drains the sink. Scopes
// ended after Close are dropped.
func (v *DebugValidation) Close() {
	if v.closed.Swap(true) {
		return
	}
	v.pending.Wait()
	close(v.events)
	<-v.done
}
