// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package webgpu

import (
	"fmt"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/native"
	"github.com/gogpu/gputypes"
)

// Default device option values.
const (
	DefaultWidth              = 1280
	DefaultHeight             = 720
	DefaultPipelineCacheLimit = 256
	DefaultDynamicBufferSize  = 1 << 20
	DefaultMaxAnisotropy      = 16
)

// DeviceOptions configures a GraphicsDevice.
type DeviceOptions struct {
	// Label prefixes native object labels.
	Label string

	// PowerPreference selects the adapter.
	PowerPreference gputypes.PowerPreference

	// Surface is the presentation surface. A nil surface makes the device
	// headless: it renders into a device-owned back buffer of Width x Height.
	Surface native.Surface

	// Width and Height size the back buffer.
	Width, Height uint32

	// BackBufferFormat overrides the surface format. Undefined selects the
	// surface's preferred format, or BGRA8Unorm when headless.
	BackBufferFormat gputypes.TextureFormat

	// PresentMode is passed to the surface configuration.
	PresentMode gputypes.PresentMode

	// Depth and Stencil add a depth/stencil buffer to the framebuffer.
	Depth   bool
	Stencil bool

	// Samples is the framebuffer sample count (1 disables MSAA).
	Samples uint32

	// Validation enables error scopes around native calls.
	Validation bool

	// PipelineCacheLimit is the soft limit of the render pipeline cache.
	PipelineCacheLimit int

	// DynamicBufferSize is the page size of per-frame uniform memory.
	DynamicBufferSize uint32

	// Profiler enables per-pass CPU timings.
	Profiler bool
}

// DefaultDeviceOptions returns options for a 1280x720 framebuffer with depth
// and stencil, no MSAA and validation enabled.
func DefaultDeviceOptions() DeviceOptions {
	return DeviceOptions{
		Label:              "gfx",
		PowerPreference:    gputypes.PowerPreferenceHighPerformance,
		Width:              DefaultWidth,
		Height:             DefaultHeight,
		PresentMode:        gputypes.PresentModeFifo,
		Depth:              true,
		Stencil:            true,
		Samples:            1,
		Validation:         true,
		PipelineCacheLimit: DefaultPipelineCacheLimit,
		DynamicBufferSize:  DefaultDynamicBufferSize,
	}
}

func (o *DeviceOptions) normalize() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Samples == 0 {
		o.Samples = 1
	}
	if o.PipelineCacheLimit <= 0 {
		o.PipelineCacheLimit = DefaultPipelineCacheLimit
	}
	if o.DynamicBufferSize == 0 {
		o.DynamicBufferSize = DefaultDynamicBufferSize
	}
	if o.Label == "" {
		o.Label = "gfx"
	}
}

// negotiatedFeatures are requested from the adapter when available.
var negotiatedFeatures = []gputypes.Feature{
	gputypes.FeatureTextureCompressionBC,
	gputypes.FeatureTextureCompressionETC2,
	gputypes.FeatureTextureCompressionASTC,
	gputypes.FeatureFloat32Filterable,
	gputypes.FeatureDepth32FloatStencil8,
	gputypes.FeatureRG11B10UfloatRenderable,
	gputypes.FeatureTimestampQuery,
}

// Capabilities are the device limits and features, read once at creation.
type Capabilities struct {
	AdapterName string
	AdapterType gputypes.DeviceType

	MaxTextureSize      uint32
	MaxCubeMapSize      uint32
	MaxVolumeSize       uint32
	MaxArrayLayers      uint32
	MaxColorAttachments uint32
	MaxVertexBuffers    uint32
	MaxAnisotropy       uint32

	UniformOffsetAlignment uint32

	SupportsInstancing bool
	SupportsMRT        bool

	TextureCompressionBC   bool
	TextureCompressionETC2 bool
	TextureCompressionASTC bool
	Float32Filterable      bool
	Depth32FloatStencil8   bool
	RG11B10Renderable      bool
	TimestampQuery         bool
}

func newCapabilities(info gputypes.AdapterInfo, features gputypes.Features, limits gputypes.Limits) Capabilities {
	return Capabilities{
		AdapterName:            info.Name,
		AdapterType:            info.DeviceType,
		MaxTextureSize:         limits.MaxTextureDimension2D,
		MaxCubeMapSize:         limits.MaxTextureDimension2D,
		MaxVolumeSize:          limits.MaxTextureDimension3D,
		MaxArrayLayers:         limits.MaxTextureArrayLayers,
		MaxColorAttachments:    limits.MaxColorAttachments,
		MaxVertexBuffers:       limits.MaxVertexBuffers,
		MaxAnisotropy:          DefaultMaxAnisotropy,
		UniformOffsetAlignment: max(limits.MinUniformBufferOffsetAlignment, 4),
		SupportsInstancing:     true,
		SupportsMRT:            limits.MaxColorAttachments > 1,
		TextureCompressionBC:   features.Contains(gputypes.FeatureTextureCompressionBC),
		TextureCompressionETC2: features.Contains(gputypes.FeatureTextureCompressionETC2),
		TextureCompressionASTC: features.Contains(gputypes.FeatureTextureCompressionASTC),
		Float32Filterable:      features.Contains(gputypes.FeatureFloat32Filterable),
		Depth32FloatStencil8:   features.Contains(gputypes.FeatureDepth32FloatStencil8),
		RG11B10Renderable:      features.Contains(gputypes.FeatureRG11B10UfloatRenderable),
		TimestampQuery:         features.Contains(gputypes.FeatureTimestampQuery),
	}
}

// SupportsFormat reports whether textures of the given format can be created
// on this device.
func (c Capabilities) SupportsFormat(f gfx.PixelFormat) bool {
	if !f.IsSupported() {
		return false
	}
	switch f {
	case gfx.PixelFormatDXT1, gfx.PixelFormatDXT3, gfx.PixelFormatDXT5:
		return c.TextureCompressionBC
	case gfx.PixelFormatETC2RGB, gfx.PixelFormatETC2RGBA:
		return c.TextureCompressionETC2
	case gfx.PixelFormatASTC4x4:
		return c.TextureCompressionASTC
	}
	return true
}

func (c Capabilities) String() string {
	return fmt.Sprintf("Capabilities[%s, tex %d, cube %d, 3d %d, attachments %d, bc=%t etc2=%t astc=%t f32filter=%t]",
		c.AdapterName, c.MaxTextureSize, c.MaxCubeMapSize, c.MaxVolumeSize, c.MaxColorAttachments,
		c.TextureCompressionBC, c.TextureCompressionETC2, c.TextureCompressionASTC, c.Float32Filterable)
}
