// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestPixelFormatNative(t *testing.T) {
	tests := []struct {
		format PixelFormat
		want   gputypes.TextureFormat
	}{
		{PixelFormatRGBA8, gputypes.TextureFormatRGBA8Unorm},
		{PixelFormatBGRA8, gputypes.TextureFormatBGRA8Unorm},
		{PixelFormatSRGBA8, gputypes.TextureFormatRGBA8UnormSrgb},
		{PixelFormatDXT1, gputypes.TextureFormatBC1RGBAUnorm},
		{PixelFormatDepth, gputypes.TextureFormatDepth32Float},
		{PixelFormatDepthStencil, gputypes.TextureFormatDepth24PlusStencil8},
		{PixelFormatRGB8, gputypes.TextureFormatUndefined},
		{PixelFormatL8, gputypes.TextureFormatUndefined},
		{PixelFormatRGB565, gputypes.TextureFormatUndefined},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			if got := tt.format.Native(); got != tt.want {
				t.Errorf("Native() = %v, want %v", got, tt.want)
			}
			if got, want := tt.format.IsSupported(), tt.want != gputypes.TextureFormatUndefined; got != want {
				t.Errorf("IsSupported() = %v, want %v", got, want)
			}
		})
	}
}

func TestPixelFormatClassification(t *testing.T) {
	tests := []struct {
		format                                 PixelFormat
		compressed, depth, stencil, filterable bool
		integer, renderable                    bool
	}{
		{PixelFormatRGBA8, false, false, false, true, false, true},
		{PixelFormatDXT5, true, false, false, true, false, false},
		{PixelFormatDepth, false, true, false, false, false, true},
		{PixelFormatDepthStencil, false, true, true, false, false, true},
		{PixelFormatDepth16, false, true, false, true, false, true},
		{PixelFormatRGBA32F, false, false, false, false, false, true},
		{PixelFormatR32U, false, false, false, false, true, true},
		{PixelFormatRGB8, false, false, false, true, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			f := tt.format
			if f.IsCompressed() != tt.compressed {
				t.Errorf("IsCompressed() = %v", f.IsCompressed())
			}
			if f.IsDepth() != tt.depth {
				t.Errorf("IsDepth() = %v", f.IsDepth())
			}
			if f.HasStencil() != tt.stencil {
				t.Errorf("HasStencil() = %v", f.HasStencil())
			}
			if f.IsFilterable() != tt.filterable {
				t.Errorf("IsFilterable() = %v", f.IsFilterable())
			}
			if f.IsInteger() != tt.integer {
				t.Errorf("IsInteger() = %v", f.IsInteger())
			}
			if f.IsRenderable() != tt.renderable {
				t.Errorf("IsRenderable() = %v", f.IsRenderable())
			}
		})
	}
}

func TestPixelFormatLevelLayout(t *testing.T) {
	tests := []struct {
		name      string
		format    PixelFormat
		w, h      uint32
		bpr, rows uint32
	}{
		{"rgba8 4x2", PixelFormatRGBA8, 4, 2, 16, 2},
		{"r8 3x3", PixelFormatR8, 3, 3, 3, 3},
		{"dxt1 8x8", PixelFormatDXT1, 8, 8, 16, 2},
		{"dxt1 partial block", PixelFormatDXT1, 5, 1, 16, 1},
		{"dxt5 4x4", PixelFormatDXT5, 4, 4, 16, 1},
		{"zero size", PixelFormatRGBA8, 0, 0, 4, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpr, rows := tt.format.LevelLayout(tt.w, tt.h)
			if bpr != tt.bpr || rows != tt.rows {
				t.Errorf("LevelLayout(%d, %d) = (%d, %d), want (%d, %d)", tt.w, tt.h, bpr, rows, tt.bpr, tt.rows)
			}
		})
	}
}

func TestPixelFormatTextureSize(t *testing.T) {
	// 4x4 RGBA8 with full chain: 64 + 16 + 4 bytes.
	if got := PixelFormatRGBA8.TextureSize(4, 4, 1, 1, 3); got != 84 {
		t.Errorf("TextureSize(4x4, 3 mips) = %d, want 84", got)
	}
	// Cube map: six layers.
	if got := PixelFormatRGBA8.TextureSize(2, 2, 1, 6, 1); got != 96 {
		t.Errorf("TextureSize(2x2 cube) = %d, want 96", got)
	}
	// Volume: depth halves with each level.
	if got := PixelFormatR8.TextureSize(4, 4, 4, 1, 2); got != 64+8 {
		t.Errorf("TextureSize(4x4x4, 2 mips) = %d, want 72", got)
	}
}

func TestPixelFormatInvalid(t *testing.T) {
	f := pixelFormatCount + 3
	if f.IsSupported() {
		t.Error("out-of-range format reported as supported")
	}
	if f.String() != "invalid" {
		t.Errorf("String() = %q, want %q", f.String(), "invalid")
	}
}
