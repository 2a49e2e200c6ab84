// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package webgpu

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/internal/nativetest"
	"github.com/gogpu/gputypes"
)

const testShaderSource = `
@vertex
fn vs(@location(0) pos: vec2<f32>) -> @builtin(position) vec4<f32> {
    return vec4<f32>(pos, 0.0, 1.0);
}

@fragment
fn fs() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 0.0, 0.0, 1.0);
}
`

// newTestDevice returns a headless 64x64 device over a recording native
// device. mutate may adjust the options before creation.
func newTestDevice(t *testing.T, mutate func(*DeviceOptions)) (*GraphicsDevice, *nativetest.Device) {
	t.Helper()
	nd := nativetest.NewDevice()
	opts := DefaultDeviceOptions()
	opts.Width, opts.Height = 64, 64
	if mutate != nil {
		mutate(&opts)
	}
	d, err := NewGraphicsDeviceFromNative(nd, gputypes.AdapterInfo{Name: "nativetest", DeviceType: gputypes.DeviceTypeCPU}, opts)
	if err != nil {
		t.Fatalf("NewGraphicsDeviceFromNative: %v", err)
	}
	t.Cleanup(d.Destroy)
	return d, nd
}

func triangleBuffer(d *GraphicsDevice) *VertexBuffer {
	vf := gfx.NewVertexFormat([]gfx.VertexElement{
		{Semantic: "POSITION", Location: 0, Components: 2, Type: gfx.TypeFloat32},
	}, true, 3)
	return NewVertexBuffer(d, vf, 3, BufferStatic, make([]byte, 24))
}

func TestNewGraphicsDeviceFromInstance(t *testing.T) {
	inst := nativetest.NewInstance(gputypes.FeatureTextureCompressionBC)
	surface := nativetest.NewSurface(320, 240)

	opts := DefaultDeviceOptions()
	opts.Surface = surface
	opts.Width, opts.Height = 320, 240
	d, err := NewGraphicsDevice(context.Background(), inst, opts)
	if err != nil {
		t.Fatalf("NewGraphicsDevice: %v", err)
	}
	defer d.Destroy()

	if d.BackBufferFormat() != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("back buffer format = %v, want surface format BGRA8Unorm", d.BackBufferFormat())
	}
	if !d.Capabilities().TextureCompressionBC {
		t.Error("BC compression not negotiated")
	}
	if d.Capabilities().TextureCompressionASTC {
		t.Error("ASTC reported without adapter support")
	}
	req := inst.Adapter.Requested
	if req == nil || !req.RequiredFeatures.Contains(gputypes.FeatureTextureCompressionBC) {
		t.Error("BC feature not requested from the adapter")
	}
	if surface.Config == nil || surface.Config.Width != 320 || surface.Config.Height != 240 {
		t.Errorf("surface config = %+v, want 320x240", surface.Config)
	}
}

func TestNewGraphicsDeviceCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewGraphicsDevice(ctx, nativetest.NewInstance(), DefaultDeviceOptions()); err == nil {
		t.Fatal("NewGraphicsDevice succeeded with a canceled context")
	}
}

func TestUnsupportedSampleCountFallsBack(t *testing.T) {
	d, _ := newTestDevice(t, func(o *DeviceOptions) { o.Samples = 2 })
	if got := d.Framebuffer().Samples(); got != 4 {
		t.Errorf("framebuffer samples = %d, want 4", got)
	}
}

func TestPassOutsideFrame(t *testing.T) {
	d, _ := newTestDevice(t, nil)
	if err := d.StartPass(nil); !errors.Is(err, ErrNoFrame) {
		t.Errorf("StartPass outside frame = %v, want ErrNoFrame", err)
	}
	if err := d.EndPass(nil); !errors.Is(err, ErrNoPass) {
		t.Errorf("EndPass without pass = %v, want ErrNoPass", err)
	}
}

func TestFreshEncoderPerPass(t *testing.T) {
	d, nd := newTestDevice(t, nil)

	if err := d.FrameStart(); err != nil {
		t.Fatalf("FrameStart: %v", err)
	}
	for range 3 {
		if err := d.StartPass(nil); err != nil {
			t.Fatalf("StartPass: %v", err)
		}
		if err := d.StartPass(nil); !errors.Is(err, ErrPassActive) {
			t.Errorf("nested StartPass = %v, want ErrPassActive", err)
		}
		if err := d.EndPass(nil); err != nil {
			t.Fatalf("EndPass: %v", err)
		}
	}
	if n := len(nd.Q.Submissions); n != 0 {
		t.Fatalf("submitted %d times before FrameEnd", n)
	}
	if err := d.FrameEnd(); err != nil {
		t.Fatalf("FrameEnd: %v", err)
	}

	if len(nd.Encoders) != 3 {
		t.Fatalf("encoders = %d, want 3", len(nd.Encoders))
	}
	for i, e := range nd.Encoders {
		if len(e.Passes) != 1 || !e.Finished {
			t.Errorf("encoder %d: passes = %d finished = %t, want 1 pass finished", i, len(e.Passes), e.Finished)
		}
	}
	if len(nd.Q.Submissions) != 1 || len(nd.Q.Submissions[0]) != 3 {
		t.Fatalf("submissions = %v, want one submit of 3 buffers", nd.Q.Events)
	}
	for i, cb := range nd.Q.Submissions[0] {
		if cb.Encoder != nd.Encoders[i] {
			t.Errorf("command buffer %d out of pass order", i)
		}
	}

	st := d.Stats()
	if st.Passes != 3 || st.Submissions != 1 || st.Frame != 1 {
		t.Errorf("stats = %+v, want 3 passes, 1 submission, frame 1", st)
	}
}

func TestFramebufferPassDescriptor(t *testing.T) {
	d, nd := newTestDevice(t, nil)

	if err := d.FrameStart(); err != nil {
		t.Fatalf("FrameStart: %v", err)
	}
	pass := NewRenderPass("main", nil, gputypes.Color{R: 1, A: 1})
	if err := d.StartPass(pass); err != nil {
		t.Fatalf("StartPass: %v", err)
	}
	rp := nd.Encoders[0].Passes[0]
	if len(rp.Desc.ColorAttachments) != 1 {
		t.Fatalf("color attachments = %d, want 1", len(rp.Desc.ColorAttachments))
	}
	ca := rp.Desc.ColorAttachments[0]
	if ca.LoadOp != gputypes.LoadOpClear || ca.StoreOp != gputypes.StoreOpStore || ca.ClearValue.R != 1 {
		t.Errorf("color attachment ops = %v/%v clear %v", ca.LoadOp, ca.StoreOp, ca.ClearValue)
	}
	if ca.ResolveTarget != nil {
		t.Error("resolve target set without MSAA")
	}
	ds := rp.Desc.DepthStencilAttachment
	if ds == nil {
		t.Fatal("no depth/stencil attachment")
	}
	if ds.DepthLoadOp != gputypes.LoadOpClear || ds.DepthClearValue != 1 {
		t.Errorf("depth ops = %v clear %v, want clear to 1", ds.DepthLoadOp, ds.DepthClearValue)
	}
	if ds.StencilLoadOp != gputypes.LoadOpClear {
		t.Errorf("stencil load = %v, want clear", ds.StencilLoadOp)
	}
	if len(rp.Viewports) != 1 || rp.Viewports[0] != [6]float32{0, 0, 64, 64, 0, 1} {
		t.Errorf("viewports = %v, want full target", rp.Viewports)
	}
	if err := d.EndPass(pass); err != nil {
		t.Fatalf("EndPass: %v", err)
	}
	if err := d.FrameEnd(); err != nil {
		t.Fatalf("FrameEnd: %v", err)
	}
}

func TestMSAAFramebuffer(t *testing.T) {
	d, nd := newTestDevice(t, func(o *DeviceOptions) { o.Samples = 4 })

	if err := d.FrameStart(); err != nil {
		t.Fatalf("FrameStart: %v", err)
	}
	if err := d.StartPass(nil); err != nil {
		t.Fatalf("StartPass: %v", err)
	}
	ca := nd.Encoders[0].Passes[0].Desc.ColorAttachments[0]
	view, ok := ca.View.(*nativetest.TextureView)
	if !ok {
		t.Fatalf("view = %T", ca.View)
	}
	if view.Texture.Desc.SampleCount != 4 {
		t.Errorf("rendered view sample count = %d, want 4", view.Texture.Desc.SampleCount)
	}
	resolve, ok := ca.ResolveTarget.(*nativetest.TextureView)
	if !ok || resolve == nil {
		t.Fatalf("resolve target = %v, want back buffer view", ca.ResolveTarget)
	}
	if resolve.Texture.Desc.SampleCount != 1 || resolve.Texture.Desc.Label != "gfx/backbuffer" {
		t.Errorf("resolve target texture = %q x%d, want single-sampled back buffer",
			resolve.Texture.Desc.Label, resolve.Texture.Desc.SampleCount)
	}
	if ds := nd.Encoders[0].Passes[0].Desc.DepthStencilAttachment; ds != nil {
		dv := ds.View.(*nativetest.TextureView)
		if dv.Texture.Desc.SampleCount != 4 {
			t.Errorf("depth sample count = %d, want 4", dv.Texture.Desc.SampleCount)
		}
	}
	if err := d.EndPass(nil); err != nil {
		t.Fatalf("EndPass: %v", err)
	}
	if err := d.CopyRenderTarget(nil, nil, false, true); !errors.Is(err, ErrMultisampledDepthCopy) {
		t.Errorf("CopyRenderTarget depth = %v, want ErrMultisampledDepthCopy", err)
	}
	if err := d.FrameEnd(); err != nil {
		t.Fatalf("FrameEnd: %v", err)
	}
}

func TestSurfaceResizeFollowsTexture(t *testing.T) {
	nd := nativetest.NewDevice()
	surface := nativetest.NewSurface(64, 64)
	opts := DefaultDeviceOptions()
	opts.Surface = surface
	opts.Width, opts.Height = 64, 64
	d, err := NewGraphicsDeviceFromNative(nd, gputypes.AdapterInfo{Name: "nativetest"}, opts)
	if err != nil {
		t.Fatalf("NewGraphicsDeviceFromNative: %v", err)
	}
	defer d.Destroy()

	for _, size := range [][2]uint32{{64, 64}, {100, 50}} {
		surface.Width, surface.Height = size[0], size[1]
		if err := d.FrameStart(); err != nil {
			t.Fatalf("FrameStart: %v", err)
		}
		if d.Framebuffer().Width() != size[0] || d.Framebuffer().Height() != size[1] {
			t.Errorf("framebuffer = %dx%d, want %dx%d", d.Framebuffer().Width(), d.Framebuffer().Height(), size[0], size[1])
		}
		if err := d.StartPass(nil); err != nil {
			t.Fatalf("StartPass: %v", err)
		}
		if err := d.EndPass(nil); err != nil {
			t.Fatalf("EndPass: %v", err)
		}
		if err := d.FrameEnd(); err != nil {
			t.Fatalf("FrameEnd: %v", err)
		}
	}
	if surface.Presented != 2 {
		t.Errorf("presented = %d, want 2", surface.Presented)
	}
}

func TestDrawBindsPipelineOnChange(t *testing.T) {
	d, nd := newTestDevice(t, nil)

	shader := NewShader(d, ShaderDescriptor{Name: "solid", Source: testShaderSource})
	if !shader.Ready() {
		t.Fatalf("shader not ready: %v", shader.Err())
	}
	vb := triangleBuffer(d)
	tri := gfx.Primitive{Type: gfx.PrimitiveTriangles, Count: 3}

	if err := d.Draw(tri, 1); !errors.Is(err, ErrNoPass) {
		t.Errorf("Draw outside pass = %v, want ErrNoPass", err)
	}

	if err := d.FrameStart(); err != nil {
		t.Fatalf("FrameStart: %v", err)
	}
	if err := d.StartPass(nil); err != nil {
		t.Fatalf("StartPass: %v", err)
	}
	d.SetShader(shader)
	d.SetVertexBuffer(0, vb)
	for range 2 {
		if err := d.Draw(tri, 1); err != nil {
			t.Fatalf("Draw: %v", err)
		}
	}
	d.SetBlendState(gfx.AlphaBlendState())
	if err := d.Draw(tri, 2); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if err := d.EndPass(nil); err != nil {
		t.Fatalf("EndPass: %v", err)
	}
	if err := d.FrameEnd(); err != nil {
		t.Fatalf("FrameEnd: %v", err)
	}

	rp := nd.Encoders[0].Passes[0]
	if len(rp.Draws) != 3 {
		t.Fatalf("draws = %d, want 3", len(rp.Draws))
	}
	if rp.Draws[2].InstanceCount != 2 {
		t.Errorf("instances = %d, want 2", rp.Draws[2].InstanceCount)
	}
	if len(rp.Pipelines) != 2 {
		t.Errorf("SetPipeline calls = %d, want 2", len(rp.Pipelines))
	}
	if len(nd.Pipelines) != 2 {
		t.Errorf("native pipelines = %d, want 2", len(nd.Pipelines))
	}
	if st := d.Stats(); st.DrawCalls != 3 || st.PipelineSwitches != 2 {
		t.Errorf("stats = %+v, want 3 draws, 2 switches", st)
	}
	cs := d.PipelineCache().Stats()
	if cs.Pipelines != 2 || cs.Hits != 1 || cs.Misses != 2 {
		t.Errorf("cache stats = %+v, want 2 pipelines, 1 hit, 2 misses", cs)
	}

	desc := nd.Pipelines[0].Desc
	if len(desc.Vertex.Buffers) != 1 || desc.Vertex.Buffers[0].ArrayStride != 8 {
		t.Errorf("vertex layout = %+v, want one 8-byte stride buffer", desc.Vertex.Buffers)
	}
	if desc.DepthStencil == nil || desc.DepthStencil.Format != gputypes.TextureFormatDepth24PlusStencil8 {
		t.Errorf("depth stencil = %+v, want Depth24PlusStencil8", desc.DepthStencil)
	}
}

func TestDrawIndexedClearsIndexBuffer(t *testing.T) {
	d, nd := newTestDevice(t, nil)

	shader := NewShader(d, ShaderDescriptor{Source: testShaderSource})
	ib, err := NewIndexBuffer(d, gfx.IndexFormatUint16, 4, BufferStatic, []byte{0, 0, 1, 0, 2, 0, 3, 0})
	if err != nil {
		t.Fatalf("NewIndexBuffer: %v", err)
	}

	if err := d.FrameStart(); err != nil {
		t.Fatalf("FrameStart: %v", err)
	}
	if err := d.StartPass(nil); err != nil {
		t.Fatalf("StartPass: %v", err)
	}
	d.SetShader(shader)
	d.SetVertexBuffer(0, triangleBuffer(d))
	d.SetIndexBuffer(ib)
	if err := d.Draw(gfx.Primitive{Type: gfx.PrimitiveTriStrip, Count: 4, BaseVertex: 1}, 1); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if err := d.Draw(gfx.Primitive{Type: gfx.PrimitiveTriangles, Count: 3}, 1); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if err := d.EndPass(nil); err != nil {
		t.Fatalf("EndPass: %v", err)
	}

	rp := nd.Encoders[0].Passes[0]
	if len(rp.Draws) != 2 {
		t.Fatalf("draws = %d, want 2", len(rp.Draws))
	}
	if !rp.Draws[0].Indexed || rp.Draws[0].BaseVertex != 1 {
		t.Errorf("first draw = %+v, want indexed with base vertex 1", rp.Draws[0])
	}
	if rp.Draws[1].Indexed {
		t.Error("index buffer still bound for the second draw")
	}
	strip := nd.Pipelines[0].Desc.Primitive
	if strip.StripIndexFormat == nil || *strip.StripIndexFormat != gputypes.IndexFormatUint16 {
		t.Errorf("strip index format = %v, want Uint16", strip.StripIndexFormat)
	}
}

func TestDrawSkipsUnreadyShader(t *testing.T) {
	d, nd := newTestDevice(t, nil)

	broken := NewShader(d, ShaderDescriptor{Source: "fn ("})
	if !broken.Failed() {
		t.Fatal("invalid source did not fail")
	}
	if err := d.FrameStart(); err != nil {
		t.Fatalf("FrameStart: %v", err)
	}
	if err := d.StartPass(nil); err != nil {
		t.Fatalf("StartPass: %v", err)
	}
	d.SetShader(broken)
	if err := d.Draw(gfx.Primitive{Type: gfx.PrimitiveTriangles, Count: 3}, 1); err != nil {
		t.Errorf("Draw = %v, want skipped", err)
	}
	if len(nd.Encoders[0].Passes[0].Draws) != 0 {
		t.Error("draw recorded for a failed shader")
	}
	if err := d.EndPass(nil); err != nil {
		t.Fatalf("EndPass: %v", err)
	}
}

func TestStateSentOnlyOnChange(t *testing.T) {
	d, nd := newTestDevice(t, nil)

	if err := d.FrameStart(); err != nil {
		t.Fatalf("FrameStart: %v", err)
	}
	if err := d.StartPass(nil); err != nil {
		t.Fatalf("StartPass: %v", err)
	}
	d.SetViewport(0, 0, 64, 64)
	d.SetViewport(0, 0, 32, 32)
	d.SetScissor(0, 0, 64, 64)
	d.SetScissor(1, 1, 8, 8)
	d.SetBlendColor(gputypes.Color{R: 0.5})
	d.SetBlendColor(gputypes.Color{R: 0.5})
	front := gfx.DefaultStencilParameters()
	front.Ref = 3
	d.SetStencilState(true, front, front)

	rp := nd.Encoders[0].Passes[0]
	if len(rp.Viewports) != 2 {
		t.Errorf("viewports = %d, want 2", len(rp.Viewports))
	}
	if len(rp.Scissors) != 2 {
		t.Errorf("scissors = %d, want 2", len(rp.Scissors))
	}
	if len(rp.BlendConstants) != 1 {
		t.Errorf("blend constants = %d, want 1", len(rp.BlendConstants))
	}
	if len(rp.StencilRefs) != 1 || rp.StencilRefs[0] != 3 {
		t.Errorf("stencil refs = %v, want [3]", rp.StencilRefs)
	}
	if err := d.EndPass(nil); err != nil {
		t.Fatalf("EndPass: %v", err)
	}

	// The next pass restores blend color and stencil reference.
	if err := d.StartPass(nil); err != nil {
		t.Fatalf("StartPass: %v", err)
	}
	rp = nd.Encoders[1].Passes[0]
	if len(rp.BlendConstants) != 1 || len(rp.StencilRefs) != 1 {
		t.Errorf("restored state: blend %v stencil %v", rp.BlendConstants, rp.StencilRefs)
	}
	if err := d.EndPass(nil); err != nil {
		t.Fatalf("EndPass: %v", err)
	}
}

func TestCopyRenderTarget(t *testing.T) {
	d, nd := newTestDevice(t, nil)

	newTarget := func(name string) *RenderTarget {
		tex, err := NewTexture(d, TextureOptions{Name: name, Width: 16, Height: 16, Format: gfx.PixelFormatRGBA8})
		if err != nil {
			t.Fatalf("NewTexture: %v", err)
		}
		return NewRenderTarget(RenderTargetOptions{Name: name, ColorBuffers: []*Texture{tex}, Depth: true})
	}
	src, dst := newTarget("src"), newTarget("dst")
	defer src.Destroy(d)
	defer dst.Destroy(d)

	if err := d.CopyRenderTarget(src, dst, true, true); err != nil {
		t.Fatalf("CopyRenderTarget: %v", err)
	}
	enc := nd.Encoders[len(nd.Encoders)-1]
	if len(enc.Copies) != 2 {
		t.Fatalf("copies = %d, want color and depth", len(enc.Copies))
	}
	if enc.Copies[0].Src.Texture != src.ColorBuffer(0).Native() || enc.Copies[0].Dst.Texture != dst.ColorBuffer(0).Native() {
		t.Error("color copy between the wrong textures")
	}
	if enc.Copies[1].Size.Width != 16 {
		t.Errorf("depth copy width = %d, want 16", enc.Copies[1].Size.Width)
	}
	if err := d.Submit(); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(nd.Q.Submissions) != 1 {
		t.Errorf("submissions = %d, want 1", len(nd.Q.Submissions))
	}
}

func TestProfilerLatency(t *testing.T) {
	d, _ := newTestDevice(t, func(o *DeviceOptions) { o.Profiler = true })
	clock := time.Unix(0, 0)
	d.profiler.now = func() time.Time {
		clock = clock.Add(time.Millisecond)
		return clock
	}

	if err := d.FrameStart(); err != nil {
		t.Fatalf("FrameStart: %v", err)
	}
	if err := d.StartPass(&RenderPass{Name: "scene"}); err != nil {
		t.Fatalf("StartPass: %v", err)
	}
	if err := d.EndPass(nil); err != nil {
		t.Fatalf("EndPass: %v", err)
	}
	if err := d.FrameEnd(); err != nil {
		t.Fatalf("FrameEnd: %v", err)
	}
	if got := d.ProfilerResults(); len(got) != 0 {
		t.Fatalf("results after first frame = %v, want none", got)
	}

	if err := d.FrameStart(); err != nil {
		t.Fatalf("FrameStart: %v", err)
	}
	if err := d.FrameEnd(); err != nil {
		t.Fatalf("FrameEnd: %v", err)
	}
	got := d.ProfilerResults()
	if len(got) != 1 || got[0].Name != "scene" || got[0].Duration != time.Millisecond {
		t.Errorf("results = %+v, want scene at 1ms", got)
	}
}

func TestDestroyReleasesDevice(t *testing.T) {
	d, nd := newTestDevice(t, nil)
	if err := d.FrameStart(); err != nil {
		t.Fatalf("FrameStart: %v", err)
	}
	if err := d.StartPass(nil); err != nil {
		t.Fatalf("StartPass: %v", err)
	}

	d.Destroy()
	d.Destroy()

	if !nd.Released() {
		t.Error("native device not released")
	}
	if len(nd.Q.Submissions) != 1 {
		t.Errorf("pending pass not submitted on destroy: %v", nd.Q.Events)
	}
	if live := nd.LiveTextures(); len(live) != 0 {
		t.Errorf("%d textures alive after destroy", len(live))
	}
	if err := d.FrameStart(); !errors.Is(err, ErrDeviceDestroyed) {
		t.Errorf("FrameStart after destroy = %v, want ErrDeviceDestroyed", err)
	}
	if got := d.VRAM().RenderTargets; got != 0 {
		t.Errorf("render target VRAM = %d after destroy, want 0", got)
	}
}

func TestEndPassFailureClearsPassState(t *testing.T) {
	d, nd := newTestDevice(t, func(o *DeviceOptions) { o.Profiler = true })

	if err := d.FrameStart(); err != nil {
		t.Fatalf("FrameStart: %v", err)
	}
	nd.FailPassEnd = true
	if err := d.StartPass(&RenderPass{Name: "broken"}); err != nil {
		t.Fatalf("StartPass: %v", err)
	}
	if err := d.EndPass(nil); !errors.Is(err, nativetest.ErrInjected) {
		t.Fatalf("EndPass = %v, want injected failure", err)
	}
	if d.pass != nil || d.encoder != nil || d.passTarget != nil || d.passDesc != nil {
		t.Error("pass state kept after failed EndPass")
	}
	if !d.profiler.start.IsZero() {
		t.Error("profiler pass still open")
	}
	if enc := nd.Encoders[len(nd.Encoders)-1]; !enc.Finished {
		t.Error("encoder of failed pass not released")
	}
	if len(d.commands) != 0 {
		t.Errorf("failed pass queued %d command buffers", len(d.commands))
	}

	nd.FailPassEnd = false
	if err := d.StartPass(nil); err != nil {
		t.Fatalf("StartPass after failure: %v", err)
	}
	if err := d.EndPass(nil); err != nil {
		t.Fatalf("EndPass after failure: %v", err)
	}
	if err := d.FrameEnd(); err != nil {
		t.Fatalf("FrameEnd: %v", err)
	}
	if len(nd.Q.Submissions) != 1 || len(nd.Q.Submissions[0]) != 1 {
		t.Errorf("submissions = %v, want one buffer", nd.Q.Events)
	}
	if got := d.ProfilerResults(); len(got) != 0 {
		t.Errorf("profiler published %v one frame early", got)
	}
}

func TestStartPassFailureDiscardsEncoder(t *testing.T) {
	d, nd := newTestDevice(t, nil)
	rt := newColorTarget(t, d, RenderTargetOptions{Name: "offscreen"})

	nd.FailTextures = true
	if err := d.StartPass(&RenderPass{Target: rt}); err == nil {
		t.Fatal("StartPass succeeded without a color buffer")
	}
	nd.FailTextures = false

	if d.pass != nil || d.encoder != nil {
		t.Error("pass state set after failed StartPass")
	}
	if len(nd.Encoders) != 1 || !nd.Encoders[0].Finished {
		t.Errorf("encoder of failed pass not released")
	}
	if len(d.commands) != 0 {
		t.Errorf("failed pass queued %d command buffers", len(d.commands))
	}
	if err := d.StartPass(&RenderPass{Target: rt}); err != nil {
		t.Fatalf("StartPass after failure: %v", err)
	}
	if err := d.EndPass(nil); err != nil {
		t.Fatalf("EndPass: %v", err)
	}
	rt.ColorBuffer(0).Destroy(d)
	rt.Destroy(d)
}

func TestCopyRenderTargetRejectsMultisampledDepth(t *testing.T) {
	d, nd := newTestDevice(t, nil)
	newTarget := func(name string, samples uint32) *RenderTarget {
		tex, err := NewTexture(d, TextureOptions{Name: name, Width: 16, Height: 16, Format: gfx.PixelFormatRGBA8})
		if err != nil {
			t.Fatalf("NewTexture: %v", err)
		}
		return NewRenderTarget(RenderTargetOptions{Name: name, ColorBuffers: []*Texture{tex}, Depth: true, Samples: samples})
	}
	single, msaa := newTarget("single", 1), newTarget("msaa", 4)

	for _, tc := range []struct {
		name     string
		src, dst *RenderTarget
	}{
		{"multisampled source", msaa, single},
		{"multisampled destination", single, msaa},
	} {
		if err := d.CopyRenderTarget(tc.src, tc.dst, true, true); !errors.Is(err, ErrMultisampledDepthCopy) {
			t.Errorf("%s: CopyRenderTarget = %v, want ErrMultisampledDepthCopy", tc.name, err)
		}
	}
	if len(nd.Encoders) != 0 {
		t.Errorf("rejected copies created %d encoders", len(nd.Encoders))
	}
}

func TestCopyRenderTargetFailureDiscardsEncoder(t *testing.T) {
	d, nd := newTestDevice(t, nil)
	tex, err := NewTexture(d, TextureOptions{Name: "src", Width: 16, Height: 16, Format: gfx.PixelFormatRGBA8})
	if err != nil {
		t.Fatalf("NewTexture: %v", err)
	}
	src := NewRenderTarget(RenderTargetOptions{Name: "src", ColorBuffers: []*Texture{tex}})
	defer src.Destroy(d)

	if err := d.CopyRenderTarget(src, nil, true, false); !errors.Is(err, ErrNoFrame) {
		t.Fatalf("CopyRenderTarget = %v, want ErrNoFrame", err)
	}
	if len(nd.Encoders) != 1 || !nd.Encoders[0].Finished {
		t.Error("copy encoder not released")
	}
	if len(d.commands) != 0 {
		t.Errorf("failed copy queued %d command buffers", len(d.commands))
	}
}
