// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"context"

	"github.com/gogpu/gputypes"
)

// Instance is the entry point to a native GPU implementation.
type Instance interface {
	// RequestAdapter selects a physical adapter. It may block until the
	// platform answers; ctx bounds the wait.
	RequestAdapter(ctx context.Context, opts *RequestAdapterOptions) (Adapter, error)

	// Release frees the instance.
	Release()
}

// Adapter is a physical GPU.
type Adapter interface {
	Info() gputypes.AdapterInfo
	Features() gputypes.Features
	Limits() gputypes.Limits

	// RequestDevice opens a logical device. It may block; ctx bounds the wait.
	RequestDevice(ctx context.Context, desc *DeviceDescriptor) (Device, error)

	// SurfaceFormats returns the color formats the surface supports on this
	// adapter, preferred first. Nil surface yields nil.
	SurfaceFormats(surface Surface) []gputypes.TextureFormat

	Release()
}

// Device is a logical GPU device.
type Device interface {
	Features() gputypes.Features
	Limits() gputypes.Limits
	Queue() Queue

	CreateBuffer(desc *BufferDescriptor) (Buffer, error)
	CreateTexture(desc *TextureDescriptor) (Texture, error)
	CreateSampler(desc *SamplerDescriptor) (Sampler, error)
	CreateShaderModule(desc *ShaderModuleDescriptor) (ShaderModule, error)
	CreateBindGroupLayout(desc *BindGroupLayoutDescriptor) (BindGroupLayout, error)
	CreateBindGroup(desc *BindGroupDescriptor) (BindGroup, error)
	CreatePipelineLayout(desc *PipelineLayoutDescriptor) (PipelineLayout, error)
	CreateRenderPipeline(desc *RenderPipelineDescriptor) (RenderPipeline, error)
	CreateCommandEncoder(label string) (CommandEncoder, error)

	// PushErrorScope starts capturing errors matching filter.
	PushErrorScope(filter ErrorFilter)

	// PopErrorScope ends the innermost scope. The returned channel receives
	// exactly one value: the first captured error, or nil. Implementations
	// must not block the caller.
	PopErrorScope() <-chan error

	Release()
}

// Queue executes command buffers and writes data to resources.
type Queue interface {
	Submit(buffers ...CommandBuffer) error
	WriteBuffer(buffer Buffer, offset uint64, data []byte) error
	WriteTexture(dst *ImageCopyTexture, data []byte, layout *ImageDataLayout, size *gputypes.Extent3D) error
}

// Buffer is a GPU buffer.
type Buffer interface {
	Size() uint64
	Usage() gputypes.BufferUsage
	Destroy()
}

// Texture is a GPU texture.
type Texture interface {
	Width() uint32
	Height() uint32
	DepthOrArrayLayers() uint32
	MipLevelCount() uint32
	SampleCount() uint32
	Dimension() gputypes.TextureDimension
	Format() gputypes.TextureFormat
	Usage() gputypes.TextureUsage

	// CreateView creates a view. A nil descriptor creates the default view.
	CreateView(desc *TextureViewDescriptor) (TextureView, error)
	Destroy()
}

// TextureView is a view of a texture subresource range.
type TextureView interface {
	Destroy()
}

// Sampler is a texture sampler.
type Sampler interface {
	Destroy()
}

// ShaderModule is a compiled shader module.
type ShaderModule interface {
	Destroy()
}

// BindGroupLayout describes the resources a bind group holds.
type BindGroupLayout interface {
	Destroy()
}

// BindGroup binds resources to shader bindings.
type BindGroup interface {
	Destroy()
}

// PipelineLayout describes the bind group layouts of a pipeline.
type PipelineLayout interface {
	Destroy()
}

// RenderPipeline is a compiled render pipeline.
type RenderPipeline interface {
	Destroy()
}

// CommandBuffer is a finished, submittable command list.
type CommandBuffer interface{}

// CommandEncoder records GPU commands.
type CommandEncoder interface {
	BeginRenderPass(desc *RenderPassDescriptor) (RenderPassEncoder, error)
	CopyTextureToTexture(src, dst *ImageCopyTexture, size gputypes.Extent3D)
	CopyBufferToBuffer(src Buffer, srcOffset uint64, dst Buffer, dstOffset, size uint64)
	Finish() (CommandBuffer, error)
}

// RenderPassEncoder records draw commands into a render pass.
type RenderPassEncoder interface {
	SetPipeline(pipeline RenderPipeline)
	SetBindGroup(index uint32, group BindGroup, dynamicOffsets []uint32)
	SetVertexBuffer(slot uint32, buffer Buffer, offset uint64)
	SetIndexBuffer(buffer Buffer, format gputypes.IndexFormat, offset uint64)
	SetViewport(x, y, width, height, minDepth, maxDepth float32)
	SetScissorRect(x, y, width, height uint32)
	SetBlendConstant(color gputypes.Color)
	SetStencilReference(ref uint32)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32)
	End() error
}

// Surface is a presentable window surface.
type Surface interface {
	Configure(device Device, config *SurfaceConfiguration) error

	// AcquireTexture returns the texture to render into this frame.
	AcquireTexture() (Texture, error)

	// Present shows the texture returned by the last AcquireTexture.
	Present() error
}
