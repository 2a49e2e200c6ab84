// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import "github.com/gogpu/gputypes"

// PixelFormat is a portable texture pixel format.
//
// Not every portable format has a native equivalent: WebGPU has no 24-bit
// RGB, luminance or packed 16-bit formats. Such formats report
// IsSupported() == false and textures using them fail at construction.
type PixelFormat uint8

// Portable pixel formats.
const (
	PixelFormatA8 PixelFormat = iota
	PixelFormatL8
	PixelFormatLA8
	PixelFormatRGB565
	PixelFormatRGBA5551
	PixelFormatRGBA4
	PixelFormatRGB8
	PixelFormatRGBA8
	PixelFormatDXT1
	PixelFormatDXT3
	PixelFormatDXT5
	PixelFormatRGB16F
	PixelFormatRGBA16F
	PixelFormatRGB32F
	PixelFormatRGBA32F
	PixelFormatR32F
	PixelFormatDepth
	PixelFormatDepthStencil
	PixelFormat111110F
	PixelFormatSRGB8
	PixelFormatSRGBA8
	PixelFormatETC1
	PixelFormatETC2RGB
	PixelFormatETC2RGBA
	PixelFormatPVRTC4RGBA
	PixelFormatASTC4x4
	PixelFormatATCRGBA
	PixelFormatBGRA8
	PixelFormatSBGRA8
	PixelFormatR8
	PixelFormatRG8
	PixelFormatR16F
	PixelFormatRG16F
	PixelFormatRG32F
	PixelFormatR8U
	PixelFormatR32U
	PixelFormatRGBA8U
	PixelFormatRGBA32U
	PixelFormatDepth16

	pixelFormatCount
)

// formatInfo describes the native mapping and memory layout of a format.
type formatInfo struct {
	name   string
	native gputypes.TextureFormat

	// size is bytes per pixel, or bytes per block for compressed formats.
	size uint32
	// block is the block edge in pixels (1 for uncompressed formats).
	block uint32

	depth              bool
	stencil            bool
	integer            bool
	filterIncompatible bool
}

// formatTable is indexed by PixelFormat. A native value of
// TextureFormatUndefined marks a format without native support.
var formatTable = [pixelFormatCount]formatInfo{
	PixelFormatA8:       {name: "A8", size: 1, block: 1},
	PixelFormatL8:       {name: "L8", size: 1, block: 1},
	PixelFormatLA8:      {name: "LA8", size: 2, block: 1},
	PixelFormatRGB565:   {name: "RGB565", size: 2, block: 1},
	PixelFormatRGBA5551: {name: "RGBA5551", size: 2, block: 1},
	PixelFormatRGBA4:    {name: "RGBA4", size: 2, block: 1},
	PixelFormatRGB8:     {name: "RGB8", size: 3, block: 1},
	PixelFormatRGBA8:    {name: "RGBA8", native: gputypes.TextureFormatRGBA8Unorm, size: 4, block: 1},
	PixelFormatDXT1:     {name: "DXT1", native: gputypes.TextureFormatBC1RGBAUnorm, size: 8, block: 4},
	PixelFormatDXT3:     {name: "DXT3", native: gputypes.TextureFormatBC2RGBAUnorm, size: 16, block: 4},
	PixelFormatDXT5:     {name: "DXT5", native: gputypes.TextureFormatBC3RGBAUnorm, size: 16, block: 4},
	PixelFormatRGB16F:   {name: "RGB16F", size: 6, block: 1},
	PixelFormatRGBA16F: {
		name: "RGBA16F", native: gputypes.TextureFormatRGBA16Float, size: 8, block: 1,
		filterIncompatible: true,
	},
	PixelFormatRGB32F: {name: "RGB32F", size: 12, block: 1},
	PixelFormatRGBA32F: {
		name: "RGBA32F", native: gputypes.TextureFormatRGBA32Float, size: 16, block: 1,
		filterIncompatible: true,
	},
	PixelFormatR32F: {
		name: "R32F", native: gputypes.TextureFormatR32Float, size: 4, block: 1,
		filterIncompatible: true,
	},
	PixelFormatDepth: {
		name: "DEPTH", native: gputypes.TextureFormatDepth32Float, size: 4, block: 1,
		depth: true, filterIncompatible: true,
	},
	PixelFormatDepthStencil: {
		name: "DEPTHSTENCIL", native: gputypes.TextureFormatDepth24PlusStencil8, size: 4, block: 1,
		depth: true, stencil: true, filterIncompatible: true,
	},
	PixelFormat111110F: {name: "111110F", native: gputypes.TextureFormatRG11B10Ufloat, size: 4, block: 1},
	PixelFormatSRGB8:   {name: "SRGB8", size: 3, block: 1},
	PixelFormatSRGBA8:  {name: "SRGBA8", native: gputypes.TextureFormatRGBA8UnormSrgb, size: 4, block: 1},
	PixelFormatETC1:    {name: "ETC1", size: 8, block: 4},
	PixelFormatETC2RGB: {name: "ETC2_RGB", native: gputypes.TextureFormatETC2RGB8Unorm, size: 8, block: 4},
	PixelFormatETC2RGBA: {
		name: "ETC2_RGBA", native: gputypes.TextureFormatETC2RGBA8Unorm, size: 16, block: 4,
	},
	PixelFormatPVRTC4RGBA: {name: "PVRTC_4BPP_RGBA", size: 8, block: 4},
	PixelFormatASTC4x4:    {name: "ASTC_4x4", native: gputypes.TextureFormatASTC4x4Unorm, size: 16, block: 4},
	PixelFormatATCRGBA:    {name: "ATC_RGBA", size: 16, block: 4},
	PixelFormatBGRA8:      {name: "BGRA8", native: gputypes.TextureFormatBGRA8Unorm, size: 4, block: 1},
	PixelFormatSBGRA8:     {name: "SBGRA8", native: gputypes.TextureFormatBGRA8UnormSrgb, size: 4, block: 1},
	PixelFormatR8:         {name: "R8", native: gputypes.TextureFormatR8Unorm, size: 1, block: 1},
	PixelFormatRG8:        {name: "RG8", native: gputypes.TextureFormatRG8Unorm, size: 2, block: 1},
	PixelFormatR16F:       {name: "R16F", native: gputypes.TextureFormatR16Float, size: 2, block: 1},
	PixelFormatRG16F:      {name: "RG16F", native: gputypes.TextureFormatRG16Float, size: 4, block: 1},
	PixelFormatRG32F: {
		name: "RG32F", native: gputypes.TextureFormatRG32Float, size: 8, block: 1,
		filterIncompatible: true,
	},
	PixelFormatR8U: {
		name: "R8U", native: gputypes.TextureFormatR8Uint, size: 1, block: 1,
		integer: true, filterIncompatible: true,
	},
	PixelFormatR32U: {
		name: "R32U", native: gputypes.TextureFormatR32Uint, size: 4, block: 1,
		integer: true, filterIncompatible: true,
	},
	PixelFormatRGBA8U: {
		name: "RGBA8U", native: gputypes.TextureFormatRGBA8Uint, size: 4, block: 1,
		integer: true, filterIncompatible: true,
	},
	PixelFormatRGBA32U: {
		name: "RGBA32U", native: gputypes.TextureFormatRGBA32Uint, size: 16, block: 1,
		integer: true, filterIncompatible: true,
	},
	PixelFormatDepth16: {
		name: "DEPTH16", native: gputypes.TextureFormatDepth16Unorm, size: 2, block: 1,
		depth: true,
	},
}

func (f PixelFormat) info() formatInfo {
	if f >= pixelFormatCount {
		return formatInfo{name: "invalid", size: 0, block: 1}
	}
	return formatTable[f]
}

// String returns the portable format name.
func (f PixelFormat) String() string { return f.info().name }

// Native returns the native texture format, or TextureFormatUndefined if the
// format has no native equivalent.
func (f PixelFormat) Native() gputypes.TextureFormat { return f.info().native }

// IsSupported reports whether the format has a native equivalent.
func (f PixelFormat) IsSupported() bool {
	return f.info().native != gputypes.TextureFormatUndefined
}

// IsCompressed reports whether the format is block compressed.
func (f PixelFormat) IsCompressed() bool { return f.info().block > 1 }

// IsDepth reports whether the format has a depth aspect.
func (f PixelFormat) IsDepth() bool { return f.info().depth }

// HasStencil reports whether the format has a stencil aspect.
func (f PixelFormat) HasStencil() bool { return f.info().stencil }

// IsInteger reports whether the format stores unnormalized integers.
func (f PixelFormat) IsInteger() bool { return f.info().integer }

// IsFilterable reports whether the format can be sampled with linear
// filtering. Float32 formats (including 32-bit depth), integer formats,
// RGBA16F and combined depth/stencil are treated as filter-incompatible.
func (f PixelFormat) IsFilterable() bool { return !f.info().filterIncompatible }

// IsRenderable reports whether textures of this format can be used as
// render attachments.
func (f PixelFormat) IsRenderable() bool {
	return f.IsSupported() && !f.IsCompressed()
}

// LevelLayout returns the row pitch in bytes and the number of rows of a
// single mip level image of the given size. Compressed formats count rows of
// blocks.
func (f PixelFormat) LevelLayout(width, height uint32) (bytesPerRow, rows uint32) {
	fi := f.info()
	if width == 0 {
		width = 1
	}
	if height == 0 {
		height = 1
	}
	blocksX := (width + fi.block - 1) / fi.block
	blocksY := (height + fi.block - 1) / fi.block
	return blocksX * fi.size, blocksY
}

// LevelSize returns the byte size of one mip level image (one face or layer).
func (f PixelFormat) LevelSize(width, height uint32) uint64 {
	bpr, rows := f.LevelLayout(width, height)
	return uint64(bpr) * uint64(rows)
}

// TextureSize returns the total byte size of a texture with the given
// dimensions, layer count and mip count. Used for VRAM accounting.
func (f PixelFormat) TextureSize(width, height, depth, layers, mips uint32) uint64 {
	if depth == 0 {
		depth = 1
	}
	if layers == 0 {
		layers = 1
	}
	var total uint64
	for level := uint32(0); level < max(mips, 1); level++ {
		w := max(width>>level, 1)
		h := max(height>>level, 1)
		d := max(depth>>level, 1)
		total += f.LevelSize(w, h) * uint64(d)
	}
	return total * uint64(layers)
}
