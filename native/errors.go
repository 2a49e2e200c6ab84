// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"errors"
	"fmt"
)

// ErrorFilter selects the kind of errors an error scope captures.
type ErrorFilter uint8

// Error filters.
const (
	ErrorFilterValidation ErrorFilter = iota
	ErrorFilterOutOfMemory
	ErrorFilterInternal
)

func (f ErrorFilter) String() string {
	switch f {
	case ErrorFilterValidation:
		return "validation"
	case ErrorFilterOutOfMemory:
		return "out-of-memory"
	case ErrorFilterInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is a native error reported through an error scope.
type Error struct {
	Filter  ErrorFilter
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("native: %s error: %s", e.Filter, e.Message)
}

// Sentinel errors.
var (
	// ErrNoAdapter is returned when no adapter matches the request.
	ErrNoAdapter = errors.New("native: no suitable adapter")

	// ErrSurfaceLost is returned by Surface.AcquireTexture when the surface
	// must be reconfigured before rendering can continue.
	ErrSurfaceLost = errors.New("native: surface lost")
)
