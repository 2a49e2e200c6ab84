// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package webgpu

import (
	"fmt"
	"strings"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/native"
	"github.com/gogpu/gputypes"
)

// RenderTargetOptions describes an offscreen render target.
type RenderTargetOptions struct {
	Name string

	// ColorBuffers are rendered into. With Samples > 1 they become resolve
	// targets of internally owned multisampled buffers.
	ColorBuffers []*Texture

	// DepthBuffer is an optional user supplied depth texture. When nil and
	// Depth or Stencil is set, the target allocates its own.
	DepthBuffer *Texture

	Depth   bool
	Stencil bool
	Samples uint32

	// Face and MipLevel select the layer and level of the color buffers
	// rendered into.
	Face     uint32
	MipLevel uint32
}

type colorAttachment struct {
	format gputypes.TextureFormat

	// view is rendered into; resolve receives the MSAA resolve.
	view    native.TextureView
	resolve native.TextureView

	// single is the single-sampled view created for this target.
	single native.TextureView

	msaa     native.Texture
	msaaView native.TextureView
	msaaSize uint64
}

// RenderTarget is a set of color attachments and an optional depth/stencil
// attachment. The framebuffer target of a device is a RenderTarget whose
// color texture is assigned every frame.
type RenderTarget struct {
	name          string
	width, height uint32
	samples       uint32
	face, mip     uint32

	colorBuffers []*Texture
	depthBuffer  *Texture
	ownDepth     *Texture
	depth        bool
	stencil      bool

	framebuffer bool
	fbFormat    gputypes.TextureFormat

	colors     []colorAttachment
	depthView  native.TextureView
	hasStencil bool

	key         string
	initialized bool

	colorDesc []native.RenderPassColorAttachment
	depthDesc native.RenderPassDepthStencilAttachment
	desc      native.RenderPassDescriptor
}

// NewRenderTarget returns an uninitialized render target. Native state is
// created by Init, which the device calls when a pass first uses the target.
func NewRenderTarget(opts RenderTargetOptions) *RenderTarget {
	rt := &RenderTarget{
		name:         opts.Name,
		samples:      max(opts.Samples, 1),
		face:         opts.Face,
		mip:          opts.MipLevel,
		colorBuffers: opts.ColorBuffers,
		depthBuffer:  opts.DepthBuffer,
		depth:        opts.Depth,
		stencil:      opts.Stencil,
	}
	if rt.name == "" {
		rt.name = "render-target"
	}
	switch {
	case len(opts.ColorBuffers) > 0:
		c := opts.ColorBuffers[0]
		rt.width, rt.height = max(c.width>>rt.mip, 1), max(c.height>>rt.mip, 1)
	case opts.DepthBuffer != nil:
		rt.width, rt.height = opts.DepthBuffer.width, opts.DepthBuffer.height
	}
	rt.updateKey()
	return rt
}

func newFramebufferTarget(format gputypes.TextureFormat, width, height uint32, depth, stencil bool, samples uint32) *RenderTarget {
	return &RenderTarget{
		name:        "framebuffer",
		width:       width,
		height:      height,
		samples:     max(samples, 1),
		depth:       depth,
		stencil:     stencil,
		framebuffer: true,
		fbFormat:    format,
		key:         RenderTargetKey([]gputypes.TextureFormat{format}, depthFormatFor(depth, stencil, nil), max(samples, 1)),
	}
}

func depthFormatFor(depth, stencil bool, supplied *Texture) gputypes.TextureFormat {
	if supplied != nil {
		return supplied.format.Native()
	}
	if depth || stencil {
		return gfx.PixelFormatDepthStencil.Native()
	}
	return gputypes.TextureFormatUndefined
}

// RenderTargetKey identifies the attachment formats and sample count of a
// render target. Targets with equal keys can share render pipelines.
func RenderTargetKey(colorFormats []gputypes.TextureFormat, depthFormat gputypes.TextureFormat, samples uint32) string {
	var b strings.Builder
	b.WriteString("c:")
	for i, f := range colorFormats {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(f.String())
	}
	fmt.Fprintf(&b, ";d:%s;s:%d", depthFormat, samples)
	return b.String()
}

func (rt *RenderTarget) colorFormats() []gputypes.TextureFormat {
	if rt.framebuffer {
		return []gputypes.TextureFormat{rt.fbFormat}
	}
	formats := make([]gputypes.TextureFormat, len(rt.colorBuffers))
	for i, c := range rt.colorBuffers {
		formats[i] = c.format.Native()
	}
	return formats
}

func (rt *RenderTarget) updateKey() {
	rt.key = RenderTargetKey(rt.colorFormats(), depthFormatFor(rt.depth, rt.stencil, rt.depthBuffer), rt.samples)
}

func (rt *RenderTarget) Name() string      { return rt.name }
func (rt *RenderTarget) Width() uint32     { return rt.width }
func (rt *RenderTarget) Height() uint32    { return rt.height }
func (rt *RenderTarget) Samples() uint32   { return rt.samples }
func (rt *RenderTarget) Key() string       { return rt.key }
func (rt *RenderTarget) Initialized() bool { return rt.initialized }

// ColorFormats returns the native format of every color attachment.
func (rt *RenderTarget) ColorFormats() []gputypes.TextureFormat { return rt.colorFormats() }

// DepthFormat returns the depth attachment format, or Undefined.
func (rt *RenderTarget) DepthFormat() gputypes.TextureFormat {
	return depthFormatFor(rt.depth, rt.stencil, rt.depthBuffer)
}

// ColorBuffer returns color buffer i, or nil for the framebuffer.
func (rt *RenderTarget) ColorBuffer(i int) *Texture {
	if i < 0 || i >= len(rt.colorBuffers) {
		return nil
	}
	return rt.colorBuffers[i]
}

// DepthBuffer returns the supplied or internally owned depth texture.
func (rt *RenderTarget) DepthBuffer() *Texture {
	if rt.depthBuffer != nil {
		return rt.depthBuffer
	}
	return rt.ownDepth
}

// ColorView returns the view rendered into for attachment i.
func (rt *RenderTarget) ColorView(i int) native.TextureView {
	if i < 0 || i >= len(rt.colors) {
		return nil
	}
	return rt.colors[i].view
}

// ResolveView returns the resolve target of attachment i, or nil without
// MSAA.
func (rt *RenderTarget) ResolveView(i int) native.TextureView {
	if i < 0 || i >= len(rt.colors) {
		return nil
	}
	return rt.colors[i].resolve
}

// DepthView returns the depth/stencil attachment view.
func (rt *RenderTarget) DepthView() native.TextureView { return rt.depthView }

// Descriptor returns the render pass descriptor built by the last
// SetupForRenderPass.
func (rt *RenderTarget) Descriptor() *native.RenderPassDescriptor { return &rt.desc }

// Init creates the native attachments. It is a no-op when the target is
// initialized. On failure everything created so far is released.
func (rt *RenderTarget) Init(dev *GraphicsDevice) (err error) {
	if rt.initialized {
		return nil
	}
	defer func() {
		if err != nil {
			rt.Destroy(dev)
		}
	}()
	if err := rt.initDepth(dev); err != nil {
		return err
	}

	if rt.framebuffer {
		rt.colors = []colorAttachment{{format: rt.fbFormat}}
		if rt.samples > 1 {
			if err := rt.createMSAA(dev, &rt.colors[0], 4); err != nil {
				return err
			}
		}
	} else {
		rt.colors = make([]colorAttachment, len(rt.colorBuffers))
		for i, c := range rt.colorBuffers {
			if err := c.prepare(dev); err != nil {
				return fmt.Errorf("webgpu: render target %q color %d: %w", rt.name, i, err)
			}
			single, err := c.CreateView(&ViewOptions{
				Label:           rt.name,
				Dimension:       gputypes.TextureViewDimension2D,
				BaseMipLevel:    rt.mip,
				MipLevelCount:   1,
				BaseArrayLayer:  rt.face,
				ArrayLayerCount: 1,
			})
			if err != nil {
				return fmt.Errorf("webgpu: render target %q color %d view: %w", rt.name, i, err)
			}
			a := &rt.colors[i]
			a.format = c.format.Native()
			a.single = single
			if rt.samples > 1 {
				bpp, _ := c.format.LevelLayout(1, 1)
				if err := rt.createMSAA(dev, a, uint64(bpp)); err != nil {
					return err
				}
				a.view, a.resolve = a.msaaView, single
			} else {
				a.view = single
			}
		}
	}

	rt.updateKey()
	rt.initialized = true
	gfx.Logger().Debug("webgpu: render target initialized", "name", rt.name,
		"size", fmt.Sprintf("%dx%d", rt.width, rt.height), "samples", rt.samples, "key", rt.key)
	return nil
}

func (rt *RenderTarget) initDepth(dev *GraphicsDevice) error {
	switch {
	case rt.depthBuffer != nil:
		if err := rt.depthBuffer.prepare(dev); err != nil {
			return fmt.Errorf("webgpu: render target %q depth: %w", rt.name, err)
		}
		view, err := rt.depthBuffer.CreateView(&ViewOptions{
			Label:           rt.name + "/depth",
			Dimension:       gputypes.TextureViewDimension2D,
			Aspect:          gputypes.TextureAspectAll,
			MipLevelCount:   1,
			ArrayLayerCount: 1,
		})
		if err != nil {
			return fmt.Errorf("webgpu: render target %q depth view: %w", rt.name, err)
		}
		rt.depthView = view
		rt.hasStencil = rt.depthBuffer.format.HasStencil()
	case rt.depth || rt.stencil:
		tex, err := NewTexture(nil, TextureOptions{
			Name:   rt.name + "/depth",
			Width:  rt.width,
			Height: rt.height,
			Format: gfx.PixelFormatDepthStencil,
		})
		if err != nil {
			return err
		}
		tex.samples = rt.samples
		tex.renderTarget = true
		tex.usage = gputypes.TextureUsageRenderAttachment
		if rt.samples == 1 {
			tex.usage |= gputypes.TextureUsageCopySrc | gputypes.TextureUsageCopyDst | gputypes.TextureUsageTextureBinding
		}
		if err := tex.create(dev); err != nil {
			return fmt.Errorf("webgpu: render target %q depth: %w", rt.name, err)
		}
		view, err := tex.CreateView(&ViewOptions{Label: rt.name + "/depth", Aspect: gputypes.TextureAspectAll})
		if err != nil {
			tex.Destroy(dev)
			return fmt.Errorf("webgpu: render target %q depth view: %w", rt.name, err)
		}
		rt.ownDepth, rt.depthView = tex, view
		rt.hasStencil = true
	default:
		return nil
	}
	return nil
}

func (rt *RenderTarget) createMSAA(dev *GraphicsDevice, a *colorAttachment, bytesPerPixel uint64) error {
	desc := native.TextureDescriptor{
		Label:         rt.name + "/msaa",
		Size:          gputypes.Extent3D{Width: rt.width, Height: rt.height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   rt.samples,
		Dimension:     gputypes.TextureDimension2D,
		Format:        a.format,
		Usage:         gputypes.TextureUsageRenderAttachment,
	}
	dev.validation.Validate()
	tex, err := dev.device.CreateTexture(&desc)
	dev.validation.End(desc)
	if err != nil {
		return fmt.Errorf("webgpu: render target %q msaa buffer: %w", rt.name, err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Destroy()
		return fmt.Errorf("webgpu: render target %q msaa view: %w", rt.name, err)
	}
	a.msaa, a.msaaView = tex, view
	a.msaaSize = uint64(rt.width) * uint64(rt.height) * bytesPerPixel * uint64(rt.samples)
	dev.vram.RenderTargets += a.msaaSize
	if rt.framebuffer {
		a.view = view
	}
	return nil
}

func (rt *RenderTarget) destroyMSAA(dev *GraphicsDevice, a *colorAttachment) {
	if a.msaaView != nil {
		a.msaaView.Destroy()
		a.msaaView = nil
	}
	if a.msaa != nil {
		a.msaa.Destroy()
		a.msaa = nil
		if dev != nil {
			sub(&dev.vram.RenderTargets, a.msaaSize)
		}
		a.msaaSize = 0
	}
}

// AssignColorTexture routes a borrowed texture, normally the swapchain
// texture of the frame, into attachment 0 of a framebuffer target. A fresh
// view is created; with MSAA it becomes the resolve target. A format change
// recreates the MSAA buffer and the key.
func (rt *RenderTarget) AssignColorTexture(dev *GraphicsDevice, tex *BorrowedTexture) error {
	if err := rt.Init(dev); err != nil {
		return err
	}
	a := &rt.colors[0]
	if a.single != nil {
		dev.deferRelease(a.single)
		a.single = nil
	}

	if f := tex.Format(); f != rt.fbFormat {
		gfx.Logger().Debug("webgpu: framebuffer format changed", "from", rt.fbFormat, "to", f)
		rt.fbFormat, a.format = f, f
		if rt.samples > 1 {
			rt.destroyMSAA(dev, a)
			if err := rt.createMSAA(dev, a, 4); err != nil {
				return err
			}
		}
		rt.updateKey()
	}

	view, err := tex.Native().CreateView(nil)
	if err != nil {
		return fmt.Errorf("webgpu: framebuffer view: %w", err)
	}
	a.single = view
	if rt.samples > 1 {
		a.view, a.resolve = a.msaaView, view
	} else {
		a.view, a.resolve = view, nil
	}
	return nil
}

// SetupForRenderPass fills the render pass descriptor from the pass ops.
// Missing color ops load and store. Stencil ops are only set when the depth
// format has a stencil aspect. Calling it again with the same pass produces
// the same descriptor.
func (rt *RenderTarget) SetupForRenderPass(pass *RenderPass) *native.RenderPassDescriptor {
	rt.colorDesc = rt.colorDesc[:0]
	for i, a := range rt.colors {
		ops := pass.colorOps(i)
		ca := native.RenderPassColorAttachment{
			View:          a.view,
			ResolveTarget: a.resolve,
			LoadOp:        gputypes.LoadOpLoad,
			StoreOp:       gputypes.StoreOpDiscard,
		}
		if ops.Clear {
			ca.LoadOp = gputypes.LoadOpClear
			ca.ClearValue = ops.ClearValue
		}
		if ops.Store {
			ca.StoreOp = gputypes.StoreOpStore
		}
		rt.colorDesc = append(rt.colorDesc, ca)
	}

	rt.desc = native.RenderPassDescriptor{Label: rt.name, ColorAttachments: rt.colorDesc}
	if pass != nil && pass.Name != "" {
		rt.desc.Label = pass.Name
	}
	if rt.depthView == nil {
		return &rt.desc
	}

	var ds DepthStencilOps
	if pass != nil {
		ds = pass.DepthStencilOps
	}
	rt.depthDesc = native.RenderPassDepthStencilAttachment{
		View:         rt.depthView,
		DepthLoadOp:  gputypes.LoadOpLoad,
		DepthStoreOp: gputypes.StoreOpDiscard,
	}
	if ds.ClearDepth {
		rt.depthDesc.DepthLoadOp = gputypes.LoadOpClear
		rt.depthDesc.DepthClearValue = ds.ClearDepthValue
	}
	if ds.StoreDepth {
		rt.depthDesc.DepthStoreOp = gputypes.StoreOpStore
	}
	if rt.hasStencil {
		rt.depthDesc.StencilLoadOp = gputypes.LoadOpLoad
		rt.depthDesc.StencilStoreOp = gputypes.StoreOpDiscard
		if ds.ClearStencil {
			rt.depthDesc.StencilLoadOp = gputypes.LoadOpClear
			rt.depthDesc.StencilClearValue = ds.ClearStencilValue
		}
		if ds.StoreStencil {
			rt.depthDesc.StencilStoreOp = gputypes.StoreOpStore
		}
	}
	rt.desc.DepthStencilAttachment = &rt.depthDesc
	return &rt.desc
}

// Resize changes the target size. Native attachments are destroyed and
// re-created on next use; user supplied buffers are resized too.
func (rt *RenderTarget) Resize(dev *GraphicsDevice, width, height uint32) {
	width, height = max(width, 1), max(height, 1)
	if rt.width == width && rt.height == height {
		return
	}
	rt.Destroy(dev)
	rt.width, rt.height = width, height
	for _, c := range rt.colorBuffers {
		c.Resize(dev, width<<rt.mip, height<<rt.mip)
	}
	if rt.depthBuffer != nil {
		rt.depthBuffer.Resize(dev, width, height)
	}
}

// Destroy releases internally owned attachments and views. The color
// buffers, a supplied depth buffer and the configuration are kept. It is
// safe to call more than once.
func (rt *RenderTarget) Destroy(dev *GraphicsDevice) {
	for i := range rt.colors {
		a := &rt.colors[i]
		rt.destroyMSAA(dev, a)
		if a.single != nil {
			if rt.framebuffer && dev != nil {
				dev.deferRelease(a.single)
			} else {
				a.single.Destroy()
			}
		}
	}
	rt.colors = nil
	if rt.depthView != nil {
		rt.depthView.Destroy()
		rt.depthView = nil
	}
	if rt.ownDepth != nil {
		rt.ownDepth.Destroy(dev)
		rt.ownDepth = nil
	}
	rt.colorDesc = nil
	rt.desc = native.RenderPassDescriptor{}
	rt.initialized = false
}
