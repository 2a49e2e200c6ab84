// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package nativetest

import (
	"github.com/gogpu/gfx/native"
	"github.com/gogpu/gputypes"
)

// Buffer is a fake native.Buffer backed by a byte slice.
type Buffer struct {
	ID        int
	Desc      native.BufferDescriptor
	Data      []byte
	Destroyed bool
}

func (b *Buffer) Size() uint64                { return b.Desc.Size }
func (b *Buffer) Usage() gputypes.BufferUsage { return b.Desc.Usage }
func (b *Buffer) Destroy()                    { b.Destroyed = true }

// Texture is a fake native.Texture.
type Texture struct {
	ID        int
	Desc      native.TextureDescriptor
	Views     []*TextureView
	Destroyed bool
}

func (t *Texture) Width() uint32                        { return t.Desc.Size.Width }
func (t *Texture) Height() uint32                       { return t.Desc.Size.Height }
func (t *Texture) DepthOrArrayLayers() uint32           { return t.Desc.Size.DepthOrArrayLayers }
func (t *Texture) MipLevelCount() uint32                { return t.Desc.MipLevelCount }
func (t *Texture) SampleCount() uint32                  { return t.Desc.SampleCount }
func (t *Texture) Dimension() gputypes.TextureDimension { return t.Desc.Dimension }
func (t *Texture) Format() gputypes.TextureFormat       { return t.Desc.Format }
func (t *Texture) Usage() gputypes.TextureUsage         { return t.Desc.Usage }
func (t *Texture) Destroy()                             { t.Destroyed = true }

// CreateView implements native.Texture. Desc is nil for default views.
func (t *Texture) CreateView(desc *native.TextureViewDescriptor) (native.TextureView, error) {
	v := &TextureView{ID: len(t.Views) + 1, Texture: t}
	if desc != nil {
		d := *desc
		v.Desc = &d
	}
	t.Views = append(t.Views, v)
	return v, nil
}

// TextureView is a fake native.TextureView.
type TextureView struct {
	ID        int
	Texture   *Texture
	Desc      *native.TextureViewDescriptor
	Destroyed bool
}

func (v *TextureView) Destroy() { v.Destroyed = true }

// Sampler is a fake native.Sampler.
type Sampler struct {
	ID        int
	Desc      native.SamplerDescriptor
	Destroyed bool
}

func (s *Sampler) Destroy() { s.Destroyed = true }

// ShaderModule is a fake native.ShaderModule.
type ShaderModule struct {
	ID        int
	Desc      native.ShaderModuleDescriptor
	Destroyed bool
}

func (m *ShaderModule) Destroy() { m.Destroyed = true }

// BindGroupLayout is a fake native.BindGroupLayout.
type BindGroupLayout struct {
	ID        int
	Desc      native.BindGroupLayoutDescriptor
	Destroyed bool
}

func (l *BindGroupLayout) Destroy() { l.Destroyed = true }

// BindGroup is a fake native.BindGroup.
type BindGroup struct {
	ID        int
	Desc      native.BindGroupDescriptor
	Destroyed bool
}

func (g *BindGroup) Destroy() { g.Destroyed = true }

// PipelineLayout is a fake native.PipelineLayout.
type PipelineLayout struct {
	ID        int
	Desc      native.PipelineLayoutDescriptor
	Destroyed bool
}

func (l *PipelineLayout) Destroy() { l.Destroyed = true }

// RenderPipeline is a fake native.RenderPipeline.
type RenderPipeline struct {
	ID        int
	Desc      native.RenderPipelineDescriptor
	Destroyed bool
}

func (p *RenderPipeline) Destroy() { p.Destroyed = true }

// CommandEncoder is a fake native.CommandEncoder.
type CommandEncoder struct {
	ID       int
	Label    string
	Passes   []*RenderPassEncoder
	Copies   []Copy
	Finished bool

	failPassEnd bool
}

// Copy is one recorded copy command.
type Copy struct {
	Src, Dst native.ImageCopyTexture
	Size     gputypes.Extent3D

	// Buffer copies set these instead.
	SrcBuffer, DstBuffer native.Buffer
	BufferSize           uint64
}

// BeginRenderPass implements native.CommandEncoder.
func (e *CommandEncoder) BeginRenderPass(desc *native.RenderPassDescriptor) (native.RenderPassEncoder, error) {
	p := &RenderPassEncoder{Desc: *desc, failEnd: e.failPassEnd}
	if desc.DepthStencilAttachment != nil {
		ds := *desc.DepthStencilAttachment
		p.Desc.DepthStencilAttachment = &ds
	}
	p.Desc.ColorAttachments = append([]native.RenderPassColorAttachment(nil), desc.ColorAttachments...)
	e.Passes = append(e.Passes, p)
	return p, nil
}

// CopyTextureToTexture implements native.CommandEncoder.
func (e *CommandEncoder) CopyTextureToTexture(src, dst *native.ImageCopyTexture, size gputypes.Extent3D) {
	e.Copies = append(e.Copies, Copy{Src: *src, Dst: *dst, Size: size})
}

// CopyBufferToBuffer implements native.CommandEncoder.
func (e *CommandEncoder) CopyBufferToBuffer(src native.Buffer, _ uint64, dst native.Buffer, _, size uint64) {
	e.Copies = append(e.Copies, Copy{SrcBuffer: src, DstBuffer: dst, BufferSize: size})
}

// Finish implements native.CommandEncoder.
func (e *CommandEncoder) Finish() (native.CommandBuffer, error) {
	e.Finished = true
	return &CommandBuffer{Encoder: e}, nil
}

// CommandBuffer is a fake native.CommandBuffer.
type CommandBuffer struct {
	Encoder *CommandEncoder
}

// Draw is one recorded draw call.
type Draw struct {
	Indexed       bool
	Count         uint32
	InstanceCount uint32
	First         uint32
	BaseVertex    int32
}

// VertexBinding is one recorded SetVertexBuffer call.
type VertexBinding struct {
	Slot   uint32
	Buffer native.Buffer
	Offset uint64
}

// RenderPassEncoder is a fake native.RenderPassEncoder.
type RenderPassEncoder struct {
	Desc native.RenderPassDescriptor

	Pipelines      []native.RenderPipeline
	BindGroups     map[uint32]native.BindGroup
	DynamicOffsets map[uint32][]uint32
	VertexBuffers  []VertexBinding
	IndexBuffer    native.Buffer
	IndexFormat    gputypes.IndexFormat
	Viewports      [][6]float32
	Scissors       [][4]uint32
	BlendConstants []gputypes.Color
	StencilRefs    []uint32
	Draws          []Draw
	Ended          bool

	failEnd bool
}

func (p *RenderPassEncoder) SetPipeline(pipeline native.RenderPipeline) {
	p.Pipelines = append(p.Pipelines, pipeline)
}

func (p *RenderPassEncoder) SetBindGroup(index uint32, group native.BindGroup, offsets []uint32) {
	if p.BindGroups == nil {
		p.BindGroups = make(map[uint32]native.BindGroup)
		p.DynamicOffsets = make(map[uint32][]uint32)
	}
	p.BindGroups[index] = group
	p.DynamicOffsets[index] = append([]uint32(nil), offsets...)
}

func (p *RenderPassEncoder) SetVertexBuffer(slot uint32, buffer native.Buffer, offset uint64) {
	p.VertexBuffers = append(p.VertexBuffers, VertexBinding{Slot: slot, Buffer: buffer, Offset: offset})
}

func (p *RenderPassEncoder) SetIndexBuffer(buffer native.Buffer, format gputypes.IndexFormat, _ uint64) {
	p.IndexBuffer = buffer
	p.IndexFormat = format
}

func (p *RenderPassEncoder) SetViewport(x, y, width, height, minDepth, maxDepth float32) {
	p.Viewports = append(p.Viewports, [6]float32{x, y, width, height, minDepth, maxDepth})
}

func (p *RenderPassEncoder) SetScissorRect(x, y, width, height uint32) {
	p.Scissors = append(p.Scissors, [4]uint32{x, y, width, height})
}

func (p *RenderPassEncoder) SetBlendConstant(color gputypes.Color) {
	p.BlendConstants = append(p.BlendConstants, color)
}

func (p *RenderPassEncoder) SetStencilReference(ref uint32) {
	p.StencilRefs = append(p.StencilRefs, ref)
}

func (p *RenderPassEncoder) Draw(vertexCount, instanceCount, firstVertex, _ uint32) {
	p.Draws = append(p.Draws, Draw{Count: vertexCount, InstanceCount: instanceCount, First: firstVertex})
}

func (p *RenderPassEncoder) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, _ uint32) {
	p.Draws = append(p.Draws, Draw{
		Indexed: true, Count: indexCount, InstanceCount: instanceCount, First: firstIndex, BaseVertex: baseVertex,
	})
}

func (p *RenderPassEncoder) End() error {
	p.Ended = true
	if p.failEnd {
		return ErrInjected
	}
	return nil
}

// Surface is a fake native.Surface that hands out one texture per frame.
type Surface struct {
	Width, Height uint32
	Format        gputypes.TextureFormat

	Config    *native.SurfaceConfiguration
	Acquired  []*Texture
	Presented int
}

// NewSurface returns a surface of the given size in BGRA8Unorm.
func NewSurface(width, height uint32) *Surface {
	return &Surface{Width: width, Height: height, Format: gputypes.TextureFormatBGRA8Unorm}
}

// Configure implements native.Surface.
func (s *Surface) Configure(_ native.Device, config *native.SurfaceConfiguration) error {
	c := *config
	s.Config = &c
	s.Format = c.Format
	return nil
}

// AcquireTexture implements native.Surface. The texture takes the current
// Width and Height, so tests can simulate a window resize.
func (s *Surface) AcquireTexture() (native.Texture, error) {
	if s.Config == nil {
		return nil, native.ErrSurfaceLost
	}
	t := &Texture{
		ID: 1000 + len(s.Acquired),
		Desc: native.TextureDescriptor{
			Label:         "surface",
			Size:          gputypes.Extent3D{Width: s.Width, Height: s.Height, DepthOrArrayLayers: 1},
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     gputypes.TextureDimension2D,
			Format:        s.Format,
			Usage:         gputypes.TextureUsageRenderAttachment,
		},
	}
	s.Acquired = append(s.Acquired, t)
	return t, nil
}

// Present implements native.Surface.
func (s *Surface) Present() error {
	s.Presented++
	return nil
}
