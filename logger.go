// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// discard drops every record and reports every level as disabled, so log
// calls against it never format their arguments.
type discard struct{}

func (discard) Enabled(context.Context, slog.Level) bool  { return false }
func (discard) Handle(context.Context, slog.Record) error { return nil }
func (d discard) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discard) WithGroup(string) slog.Handler           { return d }

var silent = slog.New(discard{})

// current is read from the frame loop and from validation error sinks.
var current atomic.Pointer[slog.Logger]

func init() { current.Store(silent) }

// SetLogger installs l as the logger of gfx, webgpu and native/wgpunative.
// Nothing is logged until it is called; nil silences logging again. It may
// be called from any goroutine.
//
// Levels:
//   - Debug: buffer reallocation, texture and pipeline creation
//   - Info: adapter selection and device creation
//   - Warn: operations that are skipped, such as volume uploads
//   - Error: native errors captured by validation scopes
//
// Any slog.Handler works:
//
//	gfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	current.Store(l)
}

// Logger returns the installed logger.
func Logger() *slog.Logger { return current.Load() }
