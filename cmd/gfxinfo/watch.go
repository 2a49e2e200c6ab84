// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/webgpu"
)

// watchShaders validates every .wgsl file in dir, then again whenever one is
// written, until ctx is done. With a device the shader is also compiled.
func watchShaders(ctx context.Context, dir string, dev *webgpu.GraphicsDevice) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() && isShader(e.Name()) {
			checkShader(filepath.Join(dir, e.Name()), dev)
		}
	}
	gfx.Logger().Info("watching shaders", "dir", dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if isShader(ev.Name) && ev.Has(fsnotify.Write|fsnotify.Create) {
				checkShader(ev.Name, dev)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			gfx.Logger().Warn("watch error", "err", err)
		}
	}
}

func isShader(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".wgsl")
}

// checkShader reports whether the file parsed and compiled.
func checkShader(path string, dev *webgpu.GraphicsDevice) bool {
	src, err := os.ReadFile(path)
	if err != nil {
		gfx.Logger().Warn("read shader", "path", path, "err", err)
		return false
	}
	info, err := webgpu.ParseWGSL(string(src))
	if err != nil {
		gfx.Logger().Error("shader invalid", "path", path, "err", err)
		return false
	}
	if dev != nil {
		s := webgpu.NewShader(dev, webgpu.ShaderDescriptor{Name: filepath.Base(path), Source: string(src)})
		defer s.Destroy()
		if s.Failed() {
			gfx.Logger().Error("shader failed", "path", path, "err", s.Err())
			return false
		}
	}
	gfx.Logger().Info("shader ok", "path", path, "vertex", info.VertexEntry, "fragment", info.FragmentEntry)
	return true
}
