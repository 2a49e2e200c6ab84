// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpunative

import (
	"fmt"

	"github.com/gogpu/gfx/native"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
)

// Buffer implements native.Buffer.
type Buffer struct {
	buf *wgpu.Buffer
}

func (b *Buffer) Size() uint64                { return b.buf.Size() }
func (b *Buffer) Usage() gputypes.BufferUsage { return b.buf.Usage() }
func (b *Buffer) Destroy()                    { b.buf.Release() }

// Texture implements native.Texture. wgpu textures expose only their
// format, so the creation descriptor is kept for the other properties.
type Texture struct {
	tex    *wgpu.Texture
	device *Device
	desc   native.TextureDescriptor
}

func (t *Texture) Width() uint32                        { return t.desc.Size.Width }
func (t *Texture) Height() uint32                       { return t.desc.Size.Height }
func (t *Texture) DepthOrArrayLayers() uint32           { return t.desc.Size.DepthOrArrayLayers }
func (t *Texture) MipLevelCount() uint32                { return t.desc.MipLevelCount }
func (t *Texture) SampleCount() uint32                  { return t.desc.SampleCount }
func (t *Texture) Dimension() gputypes.TextureDimension { return t.desc.Dimension }
func (t *Texture) Format() gputypes.TextureFormat       { return t.tex.Format() }
func (t *Texture) Usage() gputypes.TextureUsage         { return t.desc.Usage }
func (t *Texture) Destroy()                             { t.tex.Release() }

// CreateView implements native.Texture.
func (t *Texture) CreateView(desc *native.TextureViewDescriptor) (native.TextureView, error) {
	v, err := t.device.dev.CreateTextureView(t.tex, viewDesc(desc))
	if err != nil {
		return nil, t.device.capture(fmt.Errorf("create view of %q: %w", t.desc.Label, err))
	}
	return &TextureView{v: v}, nil
}

// TextureView implements native.TextureView.
type TextureView struct {
	v *wgpu.TextureView
}

func (v *TextureView) Destroy() { v.v.Release() }

// Sampler implements native.Sampler.
type Sampler struct {
	s *wgpu.Sampler
}

func (s *Sampler) Destroy() { s.s.Release() }

// ShaderModule implements native.ShaderModule.
type ShaderModule struct {
	m *wgpu.ShaderModule
}

func (m *ShaderModule) Destroy() { m.m.Release() }

// BindGroupLayout implements native.BindGroupLayout.
type BindGroupLayout struct {
	l *wgpu.BindGroupLayout
}

func (l *BindGroupLayout) Destroy() { l.l.Release() }

// BindGroup implements native.BindGroup.
type BindGroup struct {
	g *wgpu.BindGroup
}

func (g *BindGroup) Destroy() { g.g.Release() }

// PipelineLayout implements native.PipelineLayout.
type PipelineLayout struct {
	l *wgpu.PipelineLayout
}

func (l *PipelineLayout) Destroy() { l.l.Release() }

// RenderPipeline implements native.RenderPipeline.
type RenderPipeline struct {
	p *wgpu.RenderPipeline
}

func (p *RenderPipeline) Destroy() { p.p.Release() }

func viewDesc(desc *native.TextureViewDescriptor) *wgpu.TextureViewDescriptor {
	if desc == nil {
		return nil
	}
	return &wgpu.TextureViewDescriptor{
		Label:           desc.Label,
		Format:          desc.Format,
		Dimension:       desc.Dimension,
		Aspect:          desc.Aspect,
		BaseMipLevel:    desc.BaseMipLevel,
		MipLevelCount:   desc.MipLevelCount,
		BaseArrayLayer:  desc.BaseArrayLayer,
		ArrayLayerCount: desc.ArrayLayerCount,
	}
}

func extent(e gputypes.Extent3D) wgpu.Extent3D {
	return wgpu.Extent3D{Width: e.Width, Height: e.Height, DepthOrArrayLayers: e.DepthOrArrayLayers}
}

func imageCopy(ict *native.ImageCopyTexture) (*wgpu.ImageCopyTexture, error) {
	t, ok := ict.Texture.(*Texture)
	if !ok {
		return nil, errForeign
	}
	return &wgpu.ImageCopyTexture{
		Texture:  t.tex,
		MipLevel: ict.MipLevel,
		Origin:   wgpu.Origin3D{X: ict.Origin.X, Y: ict.Origin.Y, Z: ict.Origin.Z},
		Aspect:   ict.Aspect,
	}, nil
}

func depthStencil(ds *gputypes.DepthStencilState) *wgpu.DepthStencilState {
	if ds == nil {
		return nil
	}
	return &wgpu.DepthStencilState{
		Format:              ds.Format,
		DepthWriteEnabled:   ds.DepthWriteEnabled,
		DepthCompare:        ds.DepthCompare,
		StencilFront:        stencilFace(ds.StencilFront),
		StencilBack:         stencilFace(ds.StencilBack),
		StencilReadMask:     ds.StencilReadMask,
		StencilWriteMask:    ds.StencilWriteMask,
		DepthBias:           ds.DepthBias,
		DepthBiasSlopeScale: ds.DepthBiasSlopeScale,
		DepthBiasClamp:      ds.DepthBiasClamp,
	}
}

func stencilFace(s gputypes.StencilFaceState) wgpu.StencilFaceState {
	return wgpu.StencilFaceState{
		Compare:     s.Compare,
		FailOp:      stencilOp(s.FailOp),
		DepthFailOp: stencilOp(s.DepthFailOp),
		PassOp:      stencilOp(s.PassOp),
	}
}

func stencilOp(op gputypes.StencilOperation) wgpu.StencilOperation {
	switch op {
	case gputypes.StencilOperationZero:
		return wgpu.StencilOperationZero
	case gputypes.StencilOperationReplace:
		return wgpu.StencilOperationReplace
	case gputypes.StencilOperationInvert:
		return wgpu.StencilOperationInvert
	case gputypes.StencilOperationIncrementClamp:
		return wgpu.StencilOperationIncrementClamp
	case gputypes.StencilOperationDecrementClamp:
		return wgpu.StencilOperationDecrementClamp
	case gputypes.StencilOperationIncrementWrap:
		return wgpu.StencilOperationIncrementWrap
	case gputypes.StencilOperationDecrementWrap:
		return wgpu.StencilOperationDecrementWrap
	default:
		return wgpu.StencilOperationKeep
	}
}
