// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpunative

import (
	"fmt"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/native"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
)

// CommandEncoder implements native.CommandEncoder.
type CommandEncoder struct {
	enc    *wgpu.CommandEncoder
	device *Device
}

// BeginRenderPass implements native.CommandEncoder.
func (e *CommandEncoder) BeginRenderPass(desc *native.RenderPassDescriptor) (native.RenderPassEncoder, error) {
	wdesc := &wgpu.RenderPassDescriptor{Label: desc.Label}
	for _, ca := range desc.ColorAttachments {
		wca := wgpu.RenderPassColorAttachment{LoadOp: ca.LoadOp, StoreOp: ca.StoreOp, ClearValue: ca.ClearValue}
		if v, ok := ca.View.(*TextureView); ok {
			wca.View = v.v
		}
		if v, ok := ca.ResolveTarget.(*TextureView); ok {
			wca.ResolveTarget = v.v
		}
		wdesc.ColorAttachments = append(wdesc.ColorAttachments, wca)
	}
	if ds := desc.DepthStencilAttachment; ds != nil {
		wds := &wgpu.RenderPassDepthStencilAttachment{
			DepthLoadOp:       ds.DepthLoadOp,
			DepthStoreOp:      ds.DepthStoreOp,
			DepthClearValue:   ds.DepthClearValue,
			DepthReadOnly:     ds.DepthReadOnly,
			StencilLoadOp:     ds.StencilLoadOp,
			StencilStoreOp:    ds.StencilStoreOp,
			StencilClearValue: ds.StencilClearValue,
			StencilReadOnly:   ds.StencilReadOnly,
		}
		if v, ok := ds.View.(*TextureView); ok {
			wds.View = v.v
		}
		wdesc.DepthStencilAttachment = wds
	}

	p, err := e.enc.BeginRenderPass(wdesc)
	if err != nil {
		return nil, e.device.capture(fmt.Errorf("begin render pass %q: %w", desc.Label, err))
	}
	return &RenderPassEncoder{pass: p}, nil
}

// CopyTextureToTexture implements native.CommandEncoder. Surface textures
// cannot be copied; such copies are dropped with a warning.
func (e *CommandEncoder) CopyTextureToTexture(src, dst *native.ImageCopyTexture, size gputypes.Extent3D) {
	s, err1 := imageCopy(src)
	d, err2 := imageCopy(dst)
	if err1 != nil || err2 != nil {
		gfx.Logger().Warn("wgpunative: copy involving a non-copyable texture skipped")
		return
	}
	e.enc.CopyTextureToTexture(s.Texture, d.Texture, []wgpu.TextureCopy{{
		Source:      *s,
		Destination: *d,
		Size:        extent(size),
	}})
}

// CopyBufferToBuffer implements native.CommandEncoder.
func (e *CommandEncoder) CopyBufferToBuffer(src native.Buffer, srcOffset uint64, dst native.Buffer, dstOffset, size uint64) {
	s, ok1 := src.(*Buffer)
	d, ok2 := dst.(*Buffer)
	if !ok1 || !ok2 {
		return
	}
	e.enc.CopyBufferToBuffer(s.buf, srcOffset, d.buf, dstOffset, size)
}

// Finish implements native.CommandEncoder.
func (e *CommandEncoder) Finish() (native.CommandBuffer, error) {
	cb, err := e.enc.Finish()
	if err != nil {
		return nil, e.device.capture(fmt.Errorf("finish encoder: %w", err))
	}
	return &CommandBuffer{cb: cb}, nil
}

// CommandBuffer implements native.CommandBuffer.
type CommandBuffer struct {
	cb *wgpu.CommandBuffer
}

// RenderPassEncoder implements native.RenderPassEncoder.
type RenderPassEncoder struct {
	pass *wgpu.RenderPassEncoder
}

func (p *RenderPassEncoder) SetPipeline(pipeline native.RenderPipeline) {
	if rp, ok := pipeline.(*RenderPipeline); ok {
		p.pass.SetPipeline(rp.p)
	}
}

func (p *RenderPassEncoder) SetBindGroup(index uint32, group native.BindGroup, dynamicOffsets []uint32) {
	if g, ok := group.(*BindGroup); ok {
		p.pass.SetBindGroup(index, g.g, dynamicOffsets)
	}
}

func (p *RenderPassEncoder) SetVertexBuffer(slot uint32, buffer native.Buffer, offset uint64) {
	if b, ok := buffer.(*Buffer); ok {
		p.pass.SetVertexBuffer(slot, b.buf, offset)
	}
}

func (p *RenderPassEncoder) SetIndexBuffer(buffer native.Buffer, format gputypes.IndexFormat, offset uint64) {
	if b, ok := buffer.(*Buffer); ok {
		p.pass.SetIndexBuffer(b.buf, format, offset)
	}
}

func (p *RenderPassEncoder) SetViewport(x, y, width, height, minDepth, maxDepth float32) {
	p.pass.SetViewport(x, y, width, height, minDepth, maxDepth)
}

func (p *RenderPassEncoder) SetScissorRect(x, y, width, height uint32) {
	p.pass.SetScissorRect(x, y, width, height)
}

func (p *RenderPassEncoder) SetBlendConstant(color gputypes.Color) {
	p.pass.SetBlendConstant(&color)
}

func (p *RenderPassEncoder) SetStencilReference(ref uint32) {
	p.pass.SetStencilReference(ref)
}

func (p *RenderPassEncoder) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.pass.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
}

func (p *RenderPassEncoder) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.pass.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
}

func (p *RenderPassEncoder) End() error { return p.pass.End() }
