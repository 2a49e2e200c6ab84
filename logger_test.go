// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestDefaultLoggerSilent(t *testing.T) {
	ctx := context.Background()
	for _, lvl := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if Logger().Enabled(ctx, lvl) {
			t.Errorf("default logger enabled at %v", lvl)
		}
	}
	h := Logger().Handler()
	if _, ok := h.WithAttrs([]slog.Attr{slog.Int("frame", 1)}).(discard); !ok {
		t.Error("WithAttrs left the discard handler")
	}
	if _, ok := h.WithGroup("webgpu").(discard); !ok {
		t.Error("WithGroup left the discard handler")
	}
	if err := h.Handle(ctx, slog.Record{}); err != nil {
		t.Errorf("Handle = %v", err)
	}
}

func TestSetLogger(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })

	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	SetLogger(l)
	if Logger() != l {
		t.Fatal("Logger did not return the installed logger")
	}
	Logger().Debug("texture created", "format", PixelFormatRGBA8)
	if out := buf.String(); !strings.Contains(out, "texture created") || !strings.Contains(out, "format=") {
		t.Errorf("output = %q", out)
	}

	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) left logging enabled")
	}
}

func TestLoggerConcurrentSwap(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })
	var wg sync.WaitGroup
	for i := range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				SetLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
				SetLogger(nil)
				return
			}
			Logger().Info("submit", "buffers", i)
		}()
	}
	wg.Wait()
}

func BenchmarkDisabledLog(b *testing.B) {
	l := Logger()
	b.ReportAllocs()
	for b.Loop() {
		l.Debug("draw", "count", 3)
	}
}
