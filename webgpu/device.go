// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package webgpu

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/internal/parallel"
	"github.com/gogpu/gfx/native"
	"github.com/gogpu/gputypes"
)

// FrameStats counts the work of one frame.
type FrameStats struct {
	Frame            uint64
	Passes           int
	DrawCalls        int
	PipelineSwitches int
	Submissions      int
	Released         int
}

type releaser interface{ Destroy() }

// GraphicsDevice records and submits rendering work on one native device.
//
// It is not safe for concurrent use. All methods must be called from the
// goroutine that drives the frame loop.
type GraphicsDevice struct {
	id   uuid.UUID
	opts DeviceOptions

	adapter native.Adapter
	device  native.Device
	queue   native.Queue
	surface native.Surface
	caps    Capabilities

	validation *DebugValidation
	vram       VRAM
	dynamic    *DynamicBuffers
	pipelines  *RenderPipelineCache
	mipmaps    *MipmapRenderer
	profiler   *Profiler
	workers    *parallel.WorkerPool

	format        gputypes.TextureFormat
	width, height uint32
	headless      native.Texture
	framebuffer   *RenderTarget
	swap          *BorrowedTexture

	encoder    native.CommandEncoder
	pass       native.RenderPassEncoder
	passTarget *RenderTarget
	passDesc   *RenderPass
	commands   []native.CommandBuffer
	deferred   []releaser

	shader         *Shader
	vertexBuffers  [2]*VertexBuffer
	indexBuffer    *IndexBuffer
	bindGroups     []*BindGroup
	blend          gfx.BlendState
	blendColor     gputypes.Color
	depthState     gfx.DepthState
	stencilEnabled bool
	stencilFront   gfx.StencilParameters
	stencilBack    gfx.StencilParameters
	stencilRef     uint32
	cull           gfx.CullMode
	viewport       [4]float32
	scissor        [4]uint32
	bound          native.RenderPipeline

	frame     uint64
	stats     FrameStats
	lastStats FrameStats
	destroyed bool
}

// NewGraphicsDevice requests an adapter and a device from instance. It is
// the only call that waits on the platform; ctx bounds the wait. Optional
// features the adapter offers (texture compression, float32 filtering,
// depth32float-stencil8, RG11B10 rendering, timestamp queries) are enabled
// and the adapter limits are requested in full.
func NewGraphicsDevice(ctx context.Context, instance native.Instance, opts DeviceOptions) (*GraphicsDevice, error) {
	opts.normalize()

	adapter, err := instance.RequestAdapter(ctx, &native.RequestAdapterOptions{
		PowerPreference:   opts.PowerPreference,
		CompatibleSurface: opts.Surface,
	})
	if err != nil {
		return nil, fmt.Errorf("webgpu: request adapter: %w", err)
	}

	var features gputypes.Features
	available := adapter.Features()
	for _, f := range negotiatedFeatures {
		if available.Contains(f) {
			features.Insert(f)
		}
	}

	dev, err := adapter.RequestDevice(ctx, &native.DeviceDescriptor{
		Label:            opts.Label,
		RequiredFeatures: features,
		RequiredLimits:   adapter.Limits(),
	})
	if err != nil {
		adapter.Release()
		return nil, fmt.Errorf("webgpu: request device: %w", err)
	}

	format := opts.BackBufferFormat
	if format == gputypes.TextureFormatUndefined {
		if formats := adapter.SurfaceFormats(opts.Surface); len(formats) > 0 {
			format = formats[0]
		}
	}

	d, err := newGraphicsDevice(dev, adapter.Info(), format, opts)
	if err != nil {
		dev.Release()
		adapter.Release()
		return nil, err
	}
	d.adapter = adapter
	return d, nil
}

// NewGraphicsDeviceFromNative builds a device over an already opened native
// device, for hosts that own adapter selection. Destroy releases dev.
func NewGraphicsDeviceFromNative(dev native.Device, info gputypes.AdapterInfo, opts DeviceOptions) (*GraphicsDevice, error) {
	opts.normalize()
	return newGraphicsDevice(dev, info, opts.BackBufferFormat, opts)
}

func newGraphicsDevice(dev native.Device, info gputypes.AdapterInfo, format gputypes.TextureFormat, opts DeviceOptions) (*GraphicsDevice, error) {
	if format == gputypes.TextureFormatUndefined {
		format = gputypes.TextureFormatBGRA8Unorm
	}
	if opts.Samples != 1 && opts.Samples != 4 {
		gfx.Logger().Warn("webgpu: unsupported sample count, using 4", "samples", opts.Samples)
		opts.Samples = 4
	}

	caps := newCapabilities(info, dev.Features(), dev.Limits())
	d := &GraphicsDevice{
		id:           uuid.New(),
		opts:         opts,
		device:       dev,
		queue:        dev.Queue(),
		surface:      opts.Surface,
		caps:         caps,
		validation:   NewDebugValidation(dev, opts.Validation),
		dynamic:      NewDynamicBuffers(dev, opts.DynamicBufferSize, caps.UniformOffsetAlignment),
		pipelines:    NewRenderPipelineCache(opts.PipelineCacheLimit),
		mipmaps:      newMipmapRenderer(),
		profiler:     newProfiler(opts.Profiler),
		format:       format,
		width:        opts.Width,
		height:       opts.Height,
		blend:        gfx.DefaultBlendState(),
		depthState:   gfx.DefaultDepthState(),
		stencilFront: gfx.DefaultStencilParameters(),
		stencilBack:  gfx.DefaultStencilParameters(),
		cull:         gfx.CullNone,
	}

	if d.surface != nil {
		if err := d.configureSurface(); err != nil {
			d.validation.Close()
			return nil, err
		}
	}
	d.framebuffer = newFramebufferTarget(format, d.width, d.height, opts.Depth, opts.Stencil, opts.Samples)

	gfx.Logger().Info("webgpu: device created", "id", d.id, "adapter", info.Name, "type", info.DeviceType,
		"format", format, "size", fmt.Sprintf("%dx%d", d.width, d.height), "samples", opts.Samples,
		"headless", d.surface == nil)
	gfx.Logger().Debug("webgpu: capabilities", "caps", caps.String())
	return d, nil
}

// workerPool returns the pool for CPU-side upload preparation, starting it
// on first use.
func (d *GraphicsDevice) workerPool() *parallel.WorkerPool {
	if d.workers == nil {
		d.workers = parallel.NewWorkerPool(0)
	}
	return d.workers
}

func (d *GraphicsDevice) configureSurface() error {
	err := d.surface.Configure(d.device, &native.SurfaceConfiguration{
		Width:       d.width,
		Height:      d.height,
		Format:      d.format,
		Usage:       backBufferUsage,
		PresentMode: d.opts.PresentMode,
		AlphaMode:   gputypes.CompositeAlphaModeOpaque,
	})
	if err != nil {
		return fmt.Errorf("webgpu: configure surface: %w", err)
	}
	return nil
}

const backBufferUsage = gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc | gputypes.TextureUsageCopyDst

func (d *GraphicsDevice) headlessTexture() (native.Texture, error) {
	if d.headless != nil {
		return d.headless, nil
	}
	desc := native.TextureDescriptor{
		Label:         d.opts.Label + "/backbuffer",
		Size:          gputypes.Extent3D{Width: d.width, Height: d.height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        d.format,
		Usage:         backBufferUsage,
	}
	tex, err := d.device.CreateTexture(&desc)
	if err != nil {
		return nil, fmt.Errorf("webgpu: headless back buffer: %w", err)
	}
	d.headless = tex
	d.vram.RenderTargets += uint64(d.width) * uint64(d.height) * 4
	return tex, nil
}

func (d *GraphicsDevice) destroyHeadless() {
	if d.headless == nil {
		return
	}
	d.deferRelease(d.headless)
	sub(&d.vram.RenderTargets, uint64(d.width)*uint64(d.height)*4)
	d.headless = nil
}

func (d *GraphicsDevice) acquire() (native.Texture, error) {
	if d.surface == nil {
		return d.headlessTexture()
	}
	tex, err := d.surface.AcquireTexture()
	if errors.Is(err, native.ErrSurfaceLost) {
		gfx.Logger().Debug("webgpu: surface lost, reconfiguring")
		if err := d.configureSurface(); err != nil {
			return nil, err
		}
		tex, err = d.surface.AcquireTexture()
	}
	if err != nil {
		return nil, fmt.Errorf("webgpu: acquire surface texture: %w", err)
	}
	return tex, nil
}

// FrameStart acquires the framebuffer texture of the frame and routes it
// into the framebuffer render target, resizing the target when the
// texture size changed.
func (d *GraphicsDevice) FrameStart() error {
	if d.destroyed {
		return ErrDeviceDestroyed
	}
	d.validation.Memory()
	d.validation.Validate()
	defer d.validation.End("frame start", d.frame)
	defer d.validation.End("frame start", d.frame)

	tex, err := d.acquire()
	if err != nil {
		return err
	}
	if w, h := tex.Width(), tex.Height(); w != d.framebuffer.width || h != d.framebuffer.height {
		gfx.Logger().Debug("webgpu: framebuffer resized", "width", w, "height", h)
		d.framebuffer.Resize(d, w, h)
		d.width, d.height = w, h
	}
	d.swap = Borrow(tex)
	return d.framebuffer.AssignColorTexture(d, d.swap)
}

// Resize changes the back buffer size. A surface is reconfigured; a
// headless back buffer is re-created on the next FrameStart.
func (d *GraphicsDevice) Resize(width, height uint32) error {
	width, height = max(width, 1), max(height, 1)
	if width == d.width && height == d.height {
		return nil
	}
	d.destroyHeadless()
	d.width, d.height = width, height
	d.framebuffer.Resize(d, width, height)
	if d.surface != nil {
		return d.configureSurface()
	}
	return nil
}

// StartPass begins recording pass into a fresh command encoder. The pass
// target is initialized on first use; viewport and scissor cover it.
func (d *GraphicsDevice) StartPass(pass *RenderPass) error {
	if d.destroyed {
		return ErrDeviceDestroyed
	}
	if d.pass != nil {
		return ErrPassActive
	}
	if pass == nil {
		pass = &RenderPass{}
	}
	target := pass.Target
	if target == nil {
		if d.swap == nil {
			return ErrNoFrame
		}
		target = d.framebuffer
	}
	name := pass.Name
	if name == "" {
		name = target.name
	}

	d.validation.Internal()
	d.validation.Validate()
	var enc native.CommandEncoder
	fail := func(err error) error {
		if enc != nil {
			discardEncoder(enc)
		}
		d.validation.End("start pass", name)
		d.validation.End("start pass", name)
		return err
	}

	enc, err := d.device.CreateCommandEncoder(name)
	if err != nil {
		enc = nil
		return fail(fmt.Errorf("webgpu: command encoder: %w", err))
	}
	if err := target.Init(d); err != nil {
		return fail(err)
	}
	rp, err := enc.BeginRenderPass(target.SetupForRenderPass(pass))
	if err != nil {
		return fail(fmt.Errorf("webgpu: begin pass %q: %w", name, err))
	}

	d.encoder, d.pass, d.passTarget, d.passDesc = enc, rp, target, pass
	d.bound = nil
	d.viewport = [4]float32{0, 0, float32(target.width), float32(target.height)}
	d.scissor = [4]uint32{0, 0, target.width, target.height}
	rp.SetViewport(0, 0, float32(target.width), float32(target.height), 0, 1)
	rp.SetScissorRect(0, 0, target.width, target.height)
	if d.blendColor != (gputypes.Color{}) {
		rp.SetBlendConstant(d.blendColor)
	}
	if d.stencilEnabled {
		rp.SetStencilReference(d.stencilRef)
	}
	d.profiler.startPass(name)
	d.stats.Passes++
	return nil
}

// EndPass ends the current pass, generates mipmaps for the color buffers
// whose ops request them and queues the finished command buffer. The bind
// groups set during the pass are cleared.
func (d *GraphicsDevice) EndPass(pass *RenderPass) error {
	if d.pass == nil {
		return ErrNoPass
	}
	if pass == nil {
		pass = d.passDesc
	}
	name := pass.Name
	if name == "" {
		name = d.passTarget.name
	}
	defer d.validation.End("end pass", name)
	defer d.validation.End("end pass", name)

	err := d.pass.End()
	d.pass = nil
	clear(d.bindGroups)
	d.bindGroups = d.bindGroups[:0]
	d.indexBuffer = nil
	if err != nil {
		discardEncoder(d.encoder)
		d.encoder, d.passTarget, d.passDesc = nil, nil, nil
		d.profiler.cancelPass()
		return fmt.Errorf("webgpu: end pass %q: %w", name, err)
	}

	for i := range pass.ColorOps {
		if !pass.ColorOps[i].Mipmaps {
			continue
		}
		if tex := d.passTarget.ColorBuffer(i); tex != nil {
			if err := d.mipmaps.Generate(d, d.encoder, tex); err != nil {
				gfx.Logger().Error("webgpu: mipmap generation failed", "texture", tex.name, "err", err)
			}
		}
	}

	cb, err := d.encoder.Finish()
	d.encoder, d.passTarget, d.passDesc = nil, nil, nil
	d.profiler.endPass()
	if err != nil {
		return fmt.Errorf("webgpu: finish pass %q: %w", name, err)
	}
	d.commands = append(d.commands, cb)
	return nil
}

// Submit flushes dynamic uniform writes and submits every queued command
// buffer in one call. It may be called several times per frame.
func (d *GraphicsDevice) Submit() error {
	if len(d.commands) == 0 {
		return nil
	}
	d.dynamic.Submit()
	err := d.queue.Submit(d.commands...)
	clear(d.commands)
	d.commands = d.commands[:0]
	d.stats.Submissions++
	if err != nil {
		return fmt.Errorf("webgpu: submit: %w", err)
	}
	return nil
}

// FrameEnd submits the frame, presents the surface and releases objects
// retired during the frame.
func (d *GraphicsDevice) FrameEnd() error {
	if d.destroyed {
		return ErrDeviceDestroyed
	}
	if d.pass != nil {
		return ErrPassActive
	}
	d.profiler.frameEnd()
	err := d.Submit()
	if d.surface != nil && d.swap != nil {
		if perr := d.surface.Present(); perr != nil && err == nil {
			err = fmt.Errorf("webgpu: present: %w", perr)
		}
	}
	d.swap = nil
	d.dynamic.OnFrameEnd()

	released := d.releaseDeferred() + d.pipelines.ReleaseEvicted()
	d.frame++
	d.stats.Frame = d.frame
	d.stats.Released = released
	d.lastStats, d.stats = d.stats, FrameStats{}
	return err
}

func (d *GraphicsDevice) deferRelease(r releaser) {
	d.deferred = append(d.deferred, r)
}

func (d *GraphicsDevice) releaseDeferred() int {
	n := len(d.deferred)
	for _, r := range d.deferred {
		r.Destroy()
	}
	clear(d.deferred)
	d.deferred = d.deferred[:0]
	return n
}

// generateMipmaps records mip generation for t into its own command buffer.
func (d *GraphicsDevice) generateMipmaps(t *Texture) {
	if !CanGenerate(t) {
		return
	}
	enc, err := d.device.CreateCommandEncoder("mipmaps")
	if err != nil {
		gfx.Logger().Error("webgpu: mipmap encoder", "err", err)
		return
	}
	if err := d.mipmaps.Generate(d, enc, t); err != nil {
		gfx.Logger().Error("webgpu: mipmap generation failed", "texture", t.name, "err", err)
		return
	}
	cb, err := enc.Finish()
	if err != nil {
		gfx.Logger().Error("webgpu: mipmap encoder", "err", err)
		return
	}
	d.commands = append(d.commands, cb)
}

// SetShader selects the shader of subsequent draws.
func (d *GraphicsDevice) SetShader(s *Shader) { d.shader = s }

// SetVertexBuffer binds vb to stream 0 or 1. A nil buffer unbinds.
func (d *GraphicsDevice) SetVertexBuffer(stream int, vb *VertexBuffer) {
	if stream < 0 || stream >= len(d.vertexBuffers) {
		gfx.Logger().Warn("webgpu: vertex stream out of range", "stream", stream)
		return
	}
	d.vertexBuffers[stream] = vb
}

// SetIndexBuffer binds ib for the next draw only.
func (d *GraphicsDevice) SetIndexBuffer(ib *IndexBuffer) { d.indexBuffer = ib }

// SetBindGroup binds g at group index. Bind groups are cleared by EndPass.
func (d *GraphicsDevice) SetBindGroup(index int, g *BindGroup) {
	for len(d.bindGroups) <= index {
		d.bindGroups = append(d.bindGroups, nil)
	}
	d.bindGroups[index] = g
}

func (d *GraphicsDevice) SetBlendState(b gfx.BlendState) { d.blend = b }
func (d *GraphicsDevice) SetDepthState(s gfx.DepthState) { d.depthState = s }
func (d *GraphicsDevice) SetCullMode(c gfx.CullMode)     { d.cull = c }

// SetBlendColor sets the blend constant.
func (d *GraphicsDevice) SetBlendColor(c gputypes.Color) {
	if c == d.blendColor {
		return
	}
	d.blendColor = c
	if d.pass != nil {
		d.pass.SetBlendConstant(c)
	}
}

// SetStencilState enables or disables the stencil test. The reference
// value of front is sent to the pass; it is not part of the pipeline.
func (d *GraphicsDevice) SetStencilState(enabled bool, front, back gfx.StencilParameters) {
	d.stencilEnabled, d.stencilFront, d.stencilBack = enabled, front, back
	if enabled && front.Ref != d.stencilRef {
		d.stencilRef = front.Ref
		if d.pass != nil {
			d.pass.SetStencilReference(front.Ref)
		}
	}
}

// SetViewport sets the viewport. It is sent only when it changes.
func (d *GraphicsDevice) SetViewport(x, y, w, h float32) {
	v := [4]float32{x, y, w, h}
	if v == d.viewport {
		return
	}
	d.viewport = v
	if d.pass != nil {
		d.pass.SetViewport(x, y, w, h, 0, 1)
	}
}

// SetScissor sets the scissor rectangle. It is sent only when it changes.
func (d *GraphicsDevice) SetScissor(x, y, w, h uint32) {
	s := [4]uint32{x, y, w, h}
	if s == d.scissor {
		return
	}
	d.scissor = s
	if d.pass != nil {
		d.pass.SetScissorRect(x, y, w, h)
	}
}

// Draw records a draw of prim with numInstances instances. Draws with a
// shader that is not ready are skipped. The draw is indexed when an index
// buffer is bound; the index buffer binding is cleared afterwards.
func (d *GraphicsDevice) Draw(prim gfx.Primitive, numInstances uint32) error {
	if d.pass == nil {
		return ErrNoPass
	}
	ib := d.indexBuffer
	d.indexBuffer = nil

	if d.shader == nil || !d.shader.Ready() {
		return nil
	}
	if _, ok := prim.Type.Native(); !ok {
		gfx.Logger().Warn("webgpu: unsupported primitive type", "type", prim.Type)
		return nil
	}

	state := PipelineState{
		Primitive:      prim.Type,
		Shader:         d.shader,
		Target:         d.passTarget,
		Blend:          d.blend,
		Depth:          d.depthState,
		Cull:           d.cull,
		StencilEnabled: d.stencilEnabled,
		StencilFront:   d.stencilFront,
		StencilBack:    d.stencilBack,
	}
	for _, vb := range d.vertexBuffers {
		if vb != nil {
			state.VertexFormats = append(state.VertexFormats, vb.format)
		}
	}
	for _, g := range d.bindGroups {
		if g == nil {
			return fmt.Errorf("webgpu: draw with a gap in bind groups")
		}
		state.BindGroupFormats = append(state.BindGroupFormats, g.format)
	}
	if ib != nil && prim.Type.IsStrip() {
		state.StripIndexFormat = ib.nativeFormat
	}

	pipeline, err := d.pipelines.Get(d, &state)
	if err != nil {
		return err
	}
	if pipeline != d.bound {
		d.pass.SetPipeline(pipeline)
		d.bound = pipeline
		d.stats.PipelineSwitches++
	}

	slot := uint32(0)
	for _, vb := range d.vertexBuffers {
		if vb == nil {
			continue
		}
		if vb.Native() == nil {
			gfx.Logger().Debug("webgpu: draw skipped, vertex buffer has no data")
			return nil
		}
		for _, off := range vb.format.BindingOffsets() {
			d.pass.SetVertexBuffer(slot, vb.Native(), off)
			slot++
		}
	}

	for i, g := range d.bindGroups {
		group, offsets, err := g.update(d)
		if err != nil {
			return err
		}
		d.pass.SetBindGroup(uint32(i), group, offsets)
	}

	instances := max(numInstances, 1)
	if ib != nil {
		if ib.Native() == nil {
			gfx.Logger().Debug("webgpu: draw skipped, index buffer has no data")
			return nil
		}
		d.pass.SetIndexBuffer(ib.Native(), ib.nativeFormat, 0)
		d.pass.DrawIndexed(prim.Count, instances, prim.Base, prim.BaseVertex, 0)
	} else {
		d.pass.Draw(prim.Count, instances, prim.Base, 0)
	}
	d.stats.DrawCalls++
	return nil
}

// CopyRenderTarget copies the color and/or depth contents of source into
// dest. A nil target is the framebuffer. Depth cannot be copied from or into
// a multisampled target.
func (d *GraphicsDevice) CopyRenderTarget(source, dest *RenderTarget, color, depth bool) error {
	if d.pass != nil {
		return ErrPassActive
	}
	if source == nil {
		source = d.framebuffer
	}
	if dest == nil {
		dest = d.framebuffer
	}
	if depth && (source.samples > 1 || dest.samples > 1) {
		return ErrMultisampledDepthCopy
	}
	for _, rt := range []*RenderTarget{source, dest} {
		if err := rt.Init(d); err != nil {
			return err
		}
	}

	enc, err := d.device.CreateCommandEncoder("copy-render-target")
	if err != nil {
		return fmt.Errorf("webgpu: copy encoder: %w", err)
	}
	if color {
		src, err := d.colorTexture(source)
		if err != nil {
			discardEncoder(enc)
			return err
		}
		dst, err := d.colorTexture(dest)
		if err != nil {
			discardEncoder(enc)
			return err
		}
		enc.CopyTextureToTexture(
			&native.ImageCopyTexture{Texture: src, Aspect: gputypes.TextureAspectAll},
			&native.ImageCopyTexture{Texture: dst, Aspect: gputypes.TextureAspectAll},
			gputypes.Extent3D{
				Width:              min(src.Width(), dst.Width()),
				Height:             min(src.Height(), dst.Height()),
				DepthOrArrayLayers: 1,
			})
	}
	if depth {
		sd, dd := source.DepthBuffer(), dest.DepthBuffer()
		if sd == nil || dd == nil || sd.Native() == nil || dd.Native() == nil {
			discardEncoder(enc)
			return fmt.Errorf("webgpu: copy depth: %q or %q has no depth buffer", source.name, dest.name)
		}
		enc.CopyTextureToTexture(
			&native.ImageCopyTexture{Texture: sd.Native(), Aspect: gputypes.TextureAspectAll},
			&native.ImageCopyTexture{Texture: dd.Native(), Aspect: gputypes.TextureAspectAll},
			gputypes.Extent3D{
				Width:              min(sd.width, dd.width),
				Height:             min(sd.height, dd.height),
				DepthOrArrayLayers: 1,
			})
	}
	cb, err := enc.Finish()
	if err != nil {
		return fmt.Errorf("webgpu: copy render target: %w", err)
	}
	d.commands = append(d.commands, cb)
	return nil
}

// discardEncoder finishes enc and drops the command buffer, releasing the
// encoder without queueing its commands.
func discardEncoder(enc native.CommandEncoder) {
	if _, err := enc.Finish(); err != nil {
		gfx.Logger().Debug("webgpu: discarded encoder", "err", err)
	}
}

func (d *GraphicsDevice) colorTexture(rt *RenderTarget) (native.Texture, error) {
	if rt.framebuffer {
		if d.swap == nil {
			return nil, ErrNoFrame
		}
		return d.swap.Native(), nil
	}
	if c := rt.ColorBuffer(0); c != nil && c.Native() != nil {
		return c.Native(), nil
	}
	return nil, fmt.Errorf("webgpu: render target %q has no color buffer", rt.name)
}

// ID identifies the device in logs.
func (d *GraphicsDevice) ID() string { return d.id.String() }

// Native returns the native device.
func (d *GraphicsDevice) Native() native.Device { return d.device }

func (d *GraphicsDevice) Capabilities() Capabilities               { return d.caps }
func (d *GraphicsDevice) VRAM() VRAM                               { return d.vram }
func (d *GraphicsDevice) Framebuffer() *RenderTarget               { return d.framebuffer }
func (d *GraphicsDevice) BackBufferFormat() gputypes.TextureFormat { return d.format }
func (d *GraphicsDevice) Width() uint32                            { return d.width }
func (d *GraphicsDevice) Height() uint32                           { return d.height }
func (d *GraphicsDevice) Validation() *DebugValidation             { return d.validation }
func (d *GraphicsDevice) PipelineCache() *RenderPipelineCache      { return d.pipelines }
func (d *GraphicsDevice) DynamicBuffers() *DynamicBuffers          { return d.dynamic }
func (d *GraphicsDevice) Frame() uint64                            { return d.frame }

// Stats returns the counters of the last completed frame.
func (d *GraphicsDevice) Stats() FrameStats { return d.lastStats }

// ProfilerResults returns the pass timings published at the last frame end.
func (d *GraphicsDevice) ProfilerResults() []PassTiming { return d.profiler.Results() }

// Destroy submits pending work and releases every object the device owns,
// then the native device. It is safe to call more than once.
func (d *GraphicsDevice) Destroy() {
	if d.destroyed {
		return
	}
	if d.pass != nil {
		if err := d.EndPass(nil); err != nil {
			gfx.Logger().Warn("webgpu: ending pass on destroy", "err", err)
		}
	}
	if err := d.Submit(); err != nil {
		gfx.Logger().Warn("webgpu: submit on destroy", "err", err)
	}
	d.framebuffer.Destroy(d)
	d.destroyHeadless()
	d.releaseDeferred()
	d.pipelines.Destroy()
	d.mipmaps.Destroy()
	d.dynamic.Destroy()
	if d.workers != nil {
		d.workers.Close()
	}
	d.validation.Close()
	d.device.Release()
	if d.adapter != nil {
		d.adapter.Release()
	}
	d.destroyed = true
	gfx.Logger().Debug("webgpu: device destroyed", "id", d.id, "frames", d.frame)
}
