// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package nativetest provides an in-memory implementation of the native GPU
// interfaces that records every call. Objects are plain structs with
// exported fields so tests can inspect descriptors, writes, passes and
// submissions directly.
package nativetest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gfx/native"
	"github.com/gogpu/gputypes"
)

// ErrInjected is returned by calls that a test asked to fail.
var ErrInjected = errors.New("nativetest: injected failure")

// Instance is a fake native.Instance with a single adapter.
type Instance struct {
	Adapter *Adapter

	// AdapterRequests counts RequestAdapter calls.
	AdapterRequests int
}

// NewInstance returns an instance whose adapter reports default limits and
// the given features.
func NewInstance(features ...gputypes.Feature) *Instance {
	var fs gputypes.Features
	for _, f := range features {
		fs.Insert(f)
	}
	return &Instance{Adapter: &Adapter{
		AdapterInfo: gputypes.AdapterInfo{
			Name:       "nativetest",
			Vendor:     "gogpu",
			DeviceType: gputypes.DeviceTypeCPU,
		},
		FeatureSet: fs,
		LimitSet:   gputypes.DefaultLimits(),
		Formats:    []gputypes.TextureFormat{gputypes.TextureFormatBGRA8Unorm},
	}}
}

// RequestAdapter implements native.Instance.
func (i *Instance) RequestAdapter(ctx context.Context, _ *native.RequestAdapterOptions) (native.Adapter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	i.AdapterRequests++
	if i.Adapter == nil {
		return nil, native.ErrNoAdapter
	}
	return i.Adapter, nil
}

// Release implements native.Instance.
func (i *Instance) Release() {}

// Adapter is a fake native.Adapter.
type Adapter struct {
	AdapterInfo gputypes.AdapterInfo
	FeatureSet  gputypes.Features
	LimitSet    gputypes.Limits
	Formats     []gputypes.TextureFormat

	// Device is the device opened by the last RequestDevice call.
	Device *Device

	// Requested is the descriptor passed to the last RequestDevice call.
	Requested *native.DeviceDescriptor
}

func (a *Adapter) Info() gputypes.AdapterInfo  { return a.AdapterInfo }
func (a *Adapter) Features() gputypes.Features { return a.FeatureSet }
func (a *Adapter) Limits() gputypes.Limits     { return a.LimitSet }

// RequestDevice implements native.Adapter.
func (a *Adapter) RequestDevice(ctx context.Context, desc *native.DeviceDescriptor) (native.Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d := *desc
	a.Requested = &d
	a.Device = NewDevice()
	a.Device.FeatureSet = desc.RequiredFeatures
	a.Device.LimitSet = desc.RequiredLimits
	return a.Device, nil
}

// SurfaceFormats implements native.Adapter.
func (a *Adapter) SurfaceFormats(surface native.Surface) []gputypes.TextureFormat {
	if surface == nil {
		return nil
	}
	return a.Formats
}

// Release implements native.Adapter.
func (a *Adapter) Release() {}

type scope struct {
	filter native.ErrorFilter
	err    error
}

// Device is a fake native.Device. It is safe for use from the test
// goroutine and the goroutines a device under test spawns.
type Device struct {
	mu sync.Mutex

	FeatureSet gputypes.Features
	LimitSet   gputypes.Limits
	Q          *Queue

	Buffers          []*Buffer
	Textures         []*Texture
	Samplers         []*Sampler
	ShaderModules    []*ShaderModule
	BindGroupLayouts []*BindGroupLayout
	BindGroups       []*BindGroup
	PipelineLayouts  []*PipelineLayout
	Pipelines        []*RenderPipeline
	Encoders         []*CommandEncoder

	// FailBuffers makes CreateBuffer report an out-of-memory error.
	FailBuffers bool
	// FailTextures makes CreateTexture report an out-of-memory error.
	FailTextures bool
	// FailPassEnd makes RenderPassEncoder.End of passes begun on encoders
	// created from now on return ErrInjected.
	FailPassEnd bool

	// Uncaptured holds errors reported while no matching scope was open.
	Uncaptured []error

	// ScopeLog records push/pop calls in order ("push:validation", "pop").
	ScopeLog []string

	scopes   []scope
	released bool
}

// NewDevice returns an empty device with default limits.
func NewDevice() *Device {
	d := &Device{LimitSet: gputypes.DefaultLimits()}
	d.Q = &Queue{device: d}
	return d
}

func (d *Device) Features() gputypes.Features { return d.FeatureSet }
func (d *Device) Limits() gputypes.Limits     { return d.LimitSet }
func (d *Device) Queue() native.Queue         { return d.Q }

// Released reports whether Release was called.
func (d *Device) Released() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.released
}

// Release implements native.Device.
func (d *Device) Release() {
	d.mu.Lock()
	d.released = true
	d.mu.Unlock()
}

// CreateBuffer implements native.Device.
func (d *Device) CreateBuffer(desc *native.BufferDescriptor) (native.Buffer, error) {
	if d.FailBuffers {
		d.ReportError(native.ErrorFilterOutOfMemory, "buffer allocation failed: "+desc.Label)
		return nil, ErrInjected
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	b := &Buffer{ID: len(d.Buffers) + 1, Desc: *desc, Data: make([]byte, desc.Size)}
	d.Buffers = append(d.Buffers, b)
	return b, nil
}

// CreateTexture implements native.Device.
func (d *Device) CreateTexture(desc *native.TextureDescriptor) (native.Texture, error) {
	if d.FailTextures {
		d.ReportError(native.ErrorFilterOutOfMemory, "texture allocation failed: "+desc.Label)
		return nil, ErrInjected
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	t := &Texture{ID: len(d.Textures) + 1, Desc: *desc}
	d.Textures = append(d.Textures, t)
	return t, nil
}

// CreateSampler implements native.Device.
func (d *Device) CreateSampler(desc *native.SamplerDescriptor) (native.Sampler, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := &Sampler{ID: len(d.Samplers) + 1, Desc: *desc}
	d.Samplers = append(d.Samplers, s)
	return s, nil
}

// CreateShaderModule implements native.Device.
func (d *Device) CreateShaderModule(desc *native.ShaderModuleDescriptor) (native.ShaderModule, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	m := &ShaderModule{ID: len(d.ShaderModules) + 1, Desc: *desc}
	d.ShaderModules = append(d.ShaderModules, m)
	return m, nil
}

// CreateBindGroupLayout implements native.Device.
func (d *Device) CreateBindGroupLayout(desc *native.BindGroupLayoutDescriptor) (native.BindGroupLayout, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	l := &BindGroupLayout{ID: len(d.BindGroupLayouts) + 1, Desc: *desc}
	d.BindGroupLayouts = append(d.BindGroupLayouts, l)
	return l, nil
}

// CreateBindGroup implements native.Device.
func (d *Device) CreateBindGroup(desc *native.BindGroupDescriptor) (native.BindGroup, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	g := &BindGroup{ID: len(d.BindGroups) + 1, Desc: *desc}
	d.BindGroups = append(d.BindGroups, g)
	return g, nil
}

// CreatePipelineLayout implements native.Device.
func (d *Device) CreatePipelineLayout(desc *native.PipelineLayoutDescriptor) (native.PipelineLayout, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	l := &PipelineLayout{ID: len(d.PipelineLayouts) + 1, Desc: *desc}
	d.PipelineLayouts = append(d.PipelineLayouts, l)
	return l, nil
}

// CreateRenderPipeline implements native.Device.
func (d *Device) CreateRenderPipeline(desc *native.RenderPipelineDescriptor) (native.RenderPipeline, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p := &RenderPipeline{ID: len(d.Pipelines) + 1, Desc: *desc}
	d.Pipelines = append(d.Pipelines, p)
	return p, nil
}

// CreateCommandEncoder implements native.Device.
func (d *Device) CreateCommandEncoder(label string) (native.CommandEncoder, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e := &CommandEncoder{ID: len(d.Encoders) + 1, Label: label, failPassEnd: d.FailPassEnd}
	d.Encoders = append(d.Encoders, e)
	return e, nil
}

// PushErrorScope implements native.Device.
func (d *Device) PushErrorScope(filter native.ErrorFilter) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scopes = append(d.scopes, scope{filter: filter})
	d.ScopeLog = append(d.ScopeLog, "push:"+filter.String())
}

// PopErrorScope implements native.Device. The channel is buffered and
// already holds the result.
func (d *Device) PopErrorScope() <-chan error {
	d.mu.Lock()
	defer d.mu.Unlock()
	ch := make(chan error, 1)
	d.ScopeLog = append(d.ScopeLog, "pop")
	if len(d.scopes) == 0 {
		ch <- &native.Error{Filter: native.ErrorFilterValidation, Message: "pop on empty error scope stack"}
		return ch
	}
	top := d.scopes[len(d.scopes)-1]
	d.scopes = d.scopes[:len(d.scopes)-1]
	ch <- top.err
	return ch
}

// ReportError delivers an error to the innermost open scope with a matching
// filter. The first error a scope captures wins.
func (d *Device) ReportError(filter native.ErrorFilter, message string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	err := &native.Error{Filter: filter, Message: message}
	for i := len(d.scopes) - 1; i >= 0; i-- {
		if d.scopes[i].filter == filter {
			if d.scopes[i].err == nil {
				d.scopes[i].err = err
			}
			return
		}
	}
	d.Uncaptured = append(d.Uncaptured, err)
}

// ScopeDepth returns the number of open error scopes.
func (d *Device) ScopeDepth() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.scopes)
}

// LiveBuffers returns the buffers that have not been destroyed.
func (d *Device) LiveBuffers() []*Buffer {
	d.mu.Lock()
	defer d.mu.Unlock()
	var live []*Buffer
	for _, b := range d.Buffers {
		if !b.Destroyed {
			live = append(live, b)
		}
	}
	return live
}

// LiveTextures returns the textures that have not been destroyed.
func (d *Device) LiveTextures() []*Texture {
	d.mu.Lock()
	defer d.mu.Unlock()
	var live []*Texture
	for _, t := range d.Textures {
		if !t.Destroyed {
			live = append(live, t)
		}
	}
	return live
}

// Queue is a fake native.Queue.
type Queue struct {
	device *Device

	// Submissions holds one entry per Submit call.
	Submissions [][]*CommandBuffer
	// BufferWrites and TextureWrites record queue writes in order.
	BufferWrites  []BufferWrite
	TextureWrites []TextureWrite

	// Events interleaves submits and writes ("submit:2", "write-buffer:3",
	// "write-texture:1") to check ordering.
	Events []string

	// FailSubmit makes Submit return ErrInjected without recording.
	FailSubmit bool
}

// BufferWrite is one recorded Queue.WriteBuffer call.
type BufferWrite struct {
	Buffer *Buffer
	Offset uint64
	Data   []byte
}

// TextureWrite is one recorded Queue.WriteTexture call.
type TextureWrite struct {
	Dst    native.ImageCopyTexture
	Data   []byte
	Layout native.ImageDataLayout
	Size   gputypes.Extent3D
}

// Submit implements native.Queue.
func (q *Queue) Submit(buffers ...native.CommandBuffer) error {
	if q.FailSubmit {
		return ErrInjected
	}
	cbs := make([]*CommandBuffer, 0, len(buffers))
	for _, b := range buffers {
		cb, ok := b.(*CommandBuffer)
		if !ok {
			return fmt.Errorf("nativetest: foreign command buffer %T", b)
		}
		cbs = append(cbs, cb)
	}
	q.Submissions = append(q.Submissions, cbs)
	q.Events = append(q.Events, fmt.Sprintf("submit:%d", len(cbs)))
	return nil
}

// WriteBuffer implements native.Queue.
func (q *Queue) WriteBuffer(buffer native.Buffer, offset uint64, data []byte) error {
	b, ok := buffer.(*Buffer)
	if !ok {
		return fmt.Errorf("nativetest: foreign buffer %T", buffer)
	}
	if b.Destroyed {
		return errors.New("nativetest: write to destroyed buffer")
	}
	if offset+uint64(len(data)) > b.Desc.Size {
		q.device.ReportError(native.ErrorFilterValidation,
			fmt.Sprintf("write of %d bytes at %d overruns buffer of %d", len(data), offset, b.Desc.Size))
		return nil
	}
	copy(b.Data[offset:], data)
	q.BufferWrites = append(q.BufferWrites, BufferWrite{Buffer: b, Offset: offset, Data: append([]byte(nil), data...)})
	q.Events = append(q.Events, fmt.Sprintf("write-buffer:%d", b.ID))
	return nil
}

// WriteTexture implements native.Queue.
func (q *Queue) WriteTexture(dst *native.ImageCopyTexture, data []byte, layout *native.ImageDataLayout, size *gputypes.Extent3D) error {
	t, ok := dst.Texture.(*Texture)
	if !ok {
		return fmt.Errorf("nativetest: foreign texture %T", dst.Texture)
	}
	q.TextureWrites = append(q.TextureWrites, TextureWrite{
		Dst: *dst, Data: append([]byte(nil), data...), Layout: *layout, Size: *size,
	})
	q.Events = append(q.Events, fmt.Sprintf("write-texture:%d", t.ID))
	return nil
}
