// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpunative

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/native"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
)

// Device implements native.Device over a wgpu device.
type Device struct {
	dev   *wgpu.Device
	queue *Queue

	mu     sync.Mutex
	scopes []scope
	owned  bool
}

type scope struct {
	filter native.ErrorFilter
	err    error
}

var _ native.Device = (*Device)(nil)

// WrapDevice wraps a wgpu device. Release releases the wgpu device.
func WrapDevice(d *wgpu.Device) *Device {
	dev := &Device{dev: d, owned: true}
	dev.queue = &Queue{q: d.Queue(), device: dev}
	return dev
}

// Unwrap returns the underlying wgpu device.
func (d *Device) Unwrap() *wgpu.Device { return d.dev }

func (d *Device) Features() gputypes.Features { return d.dev.Features() }
func (d *Device) Limits() gputypes.Limits     { return d.dev.Limits() }
func (d *Device) Queue() native.Queue         { return d.queue }

// Release implements native.Device. Borrowed devices (FromProvider) are
// left to their owner.
func (d *Device) Release() {
	if d.owned && d.dev != nil {
		d.dev.Release()
	}
	d.dev = nil
}

// CreateBuffer implements native.Device.
func (d *Device) CreateBuffer(desc *native.BufferDescriptor) (native.Buffer, error) {
	b, err := d.dev.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            desc.Label,
		Size:             desc.Size,
		Usage:            desc.Usage,
		MappedAtCreation: desc.MappedAtCreation,
	})
	if err != nil {
		return nil, d.capture(fmt.Errorf("create buffer %q: %w", desc.Label, err))
	}
	return &Buffer{buf: b}, nil
}

// CreateTexture implements native.Device.
func (d *Device) CreateTexture(desc *native.TextureDescriptor) (native.Texture, error) {
	t, err := d.dev.CreateTexture(&wgpu.TextureDescriptor{
		Label:         desc.Label,
		Size:          extent(desc.Size),
		MipLevelCount: desc.MipLevelCount,
		SampleCount:   desc.SampleCount,
		Dimension:     desc.Dimension,
		Format:        desc.Format,
		Usage:         desc.Usage,
		ViewFormats:   desc.ViewFormats,
	})
	if err != nil {
		return nil, d.capture(fmt.Errorf("create texture %q: %w", desc.Label, err))
	}
	return &Texture{tex: t, device: d, desc: *desc}, nil
}

// CreateSampler implements native.Device.
func (d *Device) CreateSampler(desc *native.SamplerDescriptor) (native.Sampler, error) {
	s, err := d.dev.CreateSampler(&wgpu.SamplerDescriptor{
		Label:        desc.Label,
		AddressModeU: desc.AddressModeU,
		AddressModeV: desc.AddressModeV,
		AddressModeW: desc.AddressModeW,
		MagFilter:    desc.MagFilter,
		MinFilter:    desc.MinFilter,
		MipmapFilter: gputypes.FilterMode(desc.MipmapFilter),
		LodMinClamp:  desc.LodMinClamp,
		LodMaxClamp:  desc.LodMaxClamp,
		Compare:      desc.Compare,
		Anisotropy:   desc.Anisotropy,
	})
	if err != nil {
		return nil, d.capture(fmt.Errorf("create sampler %q: %w", desc.Label, err))
	}
	return &Sampler{s: s}, nil
}

// CreateShaderModule implements native.Device.
func (d *Device) CreateShaderModule(desc *native.ShaderModuleDescriptor) (native.ShaderModule, error) {
	m, err := d.dev.CreateShaderModule(&wgpu.ShaderModuleDescriptor{Label: desc.Label, WGSL: desc.WGSL})
	if err != nil {
		return nil, d.capture(fmt.Errorf("create shader module %q: %w", desc.Label, err))
	}
	return &ShaderModule{m: m}, nil
}

// CreateBindGroupLayout implements native.Device.
func (d *Device) CreateBindGroupLayout(desc *native.BindGroupLayoutDescriptor) (native.BindGroupLayout, error) {
	l, err := d.dev.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{Label: desc.Label, Entries: desc.Entries})
	if err != nil {
		return nil, d.capture(fmt.Errorf("create bind group layout %q: %w", desc.Label, err))
	}
	return &BindGroupLayout{l: l}, nil
}

// CreateBindGroup implements native.Device.
func (d *Device) CreateBindGroup(desc *native.BindGroupDescriptor) (native.BindGroup, error) {
	layout, ok := desc.Layout.(*BindGroupLayout)
	if !ok {
		return nil, d.capture(fmt.Errorf("create bind group %q: %w", desc.Label, errForeign))
	}
	entries := make([]wgpu.BindGroupEntry, len(desc.Entries))
	for i, e := range desc.Entries {
		entries[i] = wgpu.BindGroupEntry{Binding: e.Binding, Offset: e.Offset, Size: e.Size}
		if b, ok := e.Buffer.(*Buffer); ok {
			entries[i].Buffer = b.buf
		}
		if s, ok := e.Sampler.(*Sampler); ok {
			entries[i].Sampler = s.s
		}
		if v, ok := e.TextureView.(*TextureView); ok {
			entries[i].TextureView = v.v
		}
	}
	g, err := d.dev.CreateBindGroup(&wgpu.BindGroupDescriptor{Label: desc.Label, Layout: layout.l, Entries: entries})
	if err != nil {
		return nil, d.capture(fmt.Errorf("create bind group %q: %w", desc.Label, err))
	}
	return &BindGroup{g: g}, nil
}

// CreatePipelineLayout implements native.Device.
func (d *Device) CreatePipelineLayout(desc *native.PipelineLayoutDescriptor) (native.PipelineLayout, error) {
	layouts := make([]*wgpu.BindGroupLayout, 0, len(desc.BindGroupLayouts))
	for _, l := range desc.BindGroupLayouts {
		bl, ok := l.(*BindGroupLayout)
		if !ok {
			return nil, d.capture(fmt.Errorf("create pipeline layout %q: %w", desc.Label, errForeign))
		}
		layouts = append(layouts, bl.l)
	}
	l, err := d.dev.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{Label: desc.Label, BindGroupLayouts: layouts})
	if err != nil {
		return nil, d.capture(fmt.Errorf("create pipeline layout %q: %w", desc.Label, err))
	}
	return &PipelineLayout{l: l}, nil
}

// CreateRenderPipeline implements native.Device.
func (d *Device) CreateRenderPipeline(desc *native.RenderPipelineDescriptor) (native.RenderPipeline, error) {
	wdesc := &wgpu.RenderPipelineDescriptor{
		Label:        desc.Label,
		Primitive:    desc.Primitive,
		Multisample:  desc.Multisample,
		DepthStencil: depthStencil(desc.DepthStencil),
	}
	if l, ok := desc.Layout.(*PipelineLayout); ok {
		wdesc.Layout = l.l
	}
	vs, ok := desc.Vertex.Module.(*ShaderModule)
	if !ok {
		return nil, d.capture(fmt.Errorf("create render pipeline %q: %w", desc.Label, errForeign))
	}
	wdesc.Vertex = wgpu.VertexState{Module: vs.m, EntryPoint: desc.Vertex.EntryPoint, Buffers: desc.Vertex.Buffers}
	if desc.Fragment != nil {
		fs, ok := desc.Fragment.Module.(*ShaderModule)
		if !ok {
			return nil, d.capture(fmt.Errorf("create render pipeline %q: %w", desc.Label, errForeign))
		}
		wdesc.Fragment = &wgpu.FragmentState{Module: fs.m, EntryPoint: desc.Fragment.EntryPoint, Targets: desc.Fragment.Targets}
	}
	p, err := d.dev.CreateRenderPipeline(wdesc)
	if err != nil {
		return nil, d.capture(fmt.Errorf("create render pipeline %q: %w", desc.Label, err))
	}
	return &RenderPipeline{p: p}, nil
}

// CreateCommandEncoder implements native.Device.
func (d *Device) CreateCommandEncoder(label string) (native.CommandEncoder, error) {
	e, err := d.dev.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return nil, d.capture(fmt.Errorf("create command encoder %q: %w", label, err))
	}
	return &CommandEncoder{enc: e, device: d}, nil
}

// PushErrorScope implements native.Device.
func (d *Device) PushErrorScope(filter native.ErrorFilter) {
	d.mu.Lock()
	d.scopes = append(d.scopes, scope{filter: filter})
	d.mu.Unlock()
	d.dev.PushErrorScope(wgpuFilter(filter))
}

// PopErrorScope implements native.Device. wgpu resolves scopes
// synchronously, so the returned channel already holds the result.
func (d *Device) PopErrorScope() <-chan error {
	ch := make(chan error, 1)

	d.mu.Lock()
	if len(d.scopes) == 0 {
		d.mu.Unlock()
		ch <- &native.Error{Filter: native.ErrorFilterValidation, Message: "pop on empty error scope stack"}
		return ch
	}
	top := d.scopes[len(d.scopes)-1]
	d.scopes = d.scopes[:len(d.scopes)-1]
	d.mu.Unlock()

	gpuErr := d.dev.PopErrorScope()
	switch {
	case top.err != nil:
		ch <- top.err
	case gpuErr != nil:
		ch <- &native.Error{Filter: top.filter, Message: gpuErr.Message}
	default:
		ch <- nil
	}
	return ch
}

// capture records err in the innermost open scope matching its kind and
// returns it. Errors with no matching scope are logged.
func (d *Device) capture(err error) error {
	filter := native.ErrorFilterValidation
	if errors.Is(err, wgpu.ErrOutOfMemory) {
		filter = native.ErrorFilterOutOfMemory
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for i := len(d.scopes) - 1; i >= 0; i-- {
		if d.scopes[i].filter == filter {
			if d.scopes[i].err == nil {
				d.scopes[i].err = &native.Error{Filter: filter, Message: err.Error()}
			}
			return err
		}
	}
	gfx.Logger().Error("wgpunative: uncaptured error", "filter", filter, "err", err)
	return err
}

func wgpuFilter(f native.ErrorFilter) wgpu.ErrorFilter {
	switch f {
	case native.ErrorFilterOutOfMemory:
		return wgpu.ErrorFilterOutOfMemory
	case native.ErrorFilterInternal:
		return wgpu.ErrorFilterInternal
	default:
		return wgpu.ErrorFilterValidation
	}
}

var errForeign = errors.New("wgpunative: object from a different native implementation")

// Queue implements native.Queue.
type Queue struct {
	q      *wgpu.Queue
	device *Device
}

// Submit implements native.Queue.
func (q *Queue) Submit(buffers ...native.CommandBuffer) error {
	cbs := make([]*wgpu.CommandBuffer, 0, len(buffers))
	for _, b := range buffers {
		cb, ok := b.(*CommandBuffer)
		if !ok {
			return q.device.capture(fmt.Errorf("submit: %w", errForeign))
		}
		cbs = append(cbs, cb.cb)
	}
	if _, err := q.q.Submit(cbs...); err != nil {
		return q.device.capture(fmt.Errorf("submit: %w", err))
	}
	return nil
}

// WriteBuffer implements native.Queue.
func (q *Queue) WriteBuffer(buffer native.Buffer, offset uint64, data []byte) error {
	b, ok := buffer.(*Buffer)
	if !ok {
		return q.device.capture(fmt.Errorf("write buffer: %w", errForeign))
	}
	if err := q.q.WriteBuffer(b.buf, offset, data); err != nil {
		return q.device.capture(fmt.Errorf("write buffer: %w", err))
	}
	return nil
}

// WriteTexture implements native.Queue.
func (q *Queue) WriteTexture(dst *native.ImageCopyTexture, data []byte, layout *native.ImageDataLayout, size *gputypes.Extent3D) error {
	ict, err := imageCopy(dst)
	if err != nil {
		return q.device.capture(fmt.Errorf("write texture: %w", err))
	}
	sz := extent(*size)
	err = q.q.WriteTexture(ict, data, &wgpu.ImageDataLayout{
		Offset:       layout.Offset,
		BytesPerRow:  layout.BytesPerRow,
		RowsPerImage: layout.RowsPerImage,
	}, &sz)
	if err != nil {
		return q.device.capture(fmt.Errorf("write texture: %w", err))
	}
	return nil
}
