// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package webgpu

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/native"
	"github.com/gogpu/gputypes"
)

// BindingKind is the resource type of one binding.
type BindingKind uint8

// Binding kinds. A texture binding occupies two native bindings: the
// texture view followed by its sampler.
const (
	BindingUniformBuffer BindingKind = iota
	BindingTexture
	BindingStorageBuffer
)

// BindingFormat describes one binding of a bind group.
type BindingFormat struct {
	Name string
	Kind BindingKind

	// Visibility defaults to the vertex and fragment stages.
	Visibility gputypes.ShaderStages

	// SampleType and ViewDimension apply to textures. The default sample
	// type binds as filterable float; the default dimension is 2D.
	SampleType    gfx.SampleType
	ViewDimension gputypes.TextureViewDimension

	// Dynamic binds a uniform buffer with a dynamic offset.
	Dynamic bool

	// ReadOnly binds a storage buffer read-only.
	ReadOnly bool
}

var bindGroupFormatIDs atomic.Uint64

// BindGroupFormat is the layout of a bind group. The native layout is
// created on first use and owned by the format.
type BindGroupFormat struct {
	id       uint64
	name     string
	bindings []BindingFormat
	slots    []uint32
	layout   native.BindGroupLayout
}

// NewBindGroupFormat numbers the native bindings in declaration order.
func NewBindGroupFormat(name string, bindings ...BindingFormat) *BindGroupFormat {
	f := &BindGroupFormat{
		id:       bindGroupFormatIDs.Add(1),
		name:     name,
		bindings: bindings,
		slots:    make([]uint32, len(bindings)),
	}
	var slot uint32
	for i, b := range bindings {
		f.slots[i] = slot
		slot++
		if b.Kind == BindingTexture {
			slot++
		}
	}
	return f
}

// ID is unique per format in the process.
func (f *BindGroupFormat) ID() uint64 { return f.id }

// Bindings returns the binding descriptions.
func (f *BindGroupFormat) Bindings() []BindingFormat { return f.bindings }

// Index returns the position of the named binding, or -1.
func (f *BindGroupFormat) Index(name string) int {
	for i, b := range f.bindings {
		if b.Name == name {
			return i
		}
	}
	return -1
}

// Entries returns the native layout entries.
func (f *BindGroupFormat) Entries() []gputypes.BindGroupLayoutEntry {
	entries := make([]gputypes.BindGroupLayoutEntry, 0, len(f.bindings)+2)
	for i, b := range f.bindings {
		vis := b.Visibility
		if vis == 0 {
			vis = gputypes.ShaderStageVertex | gputypes.ShaderStageFragment
		}
		slot := f.slots[i]
		switch b.Kind {
		case BindingUniformBuffer:
			entries = append(entries, gputypes.BindGroupLayoutEntry{
				Binding:    slot,
				Visibility: vis,
				Buffer: &gputypes.BufferBindingLayout{
					Type:             gputypes.BufferBindingTypeUniform,
					HasDynamicOffset: b.Dynamic,
				},
			})
		case BindingStorageBuffer:
			typ := gputypes.BufferBindingTypeStorage
			if b.ReadOnly {
				typ = gputypes.BufferBindingTypeReadOnlyStorage
			}
			entries = append(entries, gputypes.BindGroupLayoutEntry{
				Binding:    slot,
				Visibility: vis,
				Buffer:     &gputypes.BufferBindingLayout{Type: typ},
			})
		case BindingTexture:
			dim := b.ViewDimension
			if dim == gputypes.TextureViewDimensionUndefined {
				dim = gputypes.TextureViewDimension2D
			}
			st := b.SampleType
			if st == gfx.SampleTypeDefault {
				st = gfx.SampleTypeFloat
			}
			entries = append(entries,
				gputypes.BindGroupLayoutEntry{
					Binding:    slot,
					Visibility: vis,
					Texture: &gputypes.TextureBindingLayout{
						SampleType:    st.Native(gfx.PixelFormatRGBA8),
						ViewDimension: dim,
					},
				},
				gputypes.BindGroupLayoutEntry{
					Binding:    slot + 1,
					Visibility: vis,
					Sampler:    &gputypes.SamplerBindingLayout{Type: samplerBindingType(st)},
				},
			)
		}
	}
	return entries
}

func samplerBindingType(st gfx.SampleType) gputypes.SamplerBindingType {
	switch st {
	case gfx.SampleTypeDepth:
		return gputypes.SamplerBindingTypeComparison
	case gfx.SampleTypeUnfilterableFloat, gfx.SampleTypeInt, gfx.SampleTypeUint:
		return gputypes.SamplerBindingTypeNonFiltering
	default:
		return gputypes.SamplerBindingTypeFiltering
	}
}

// Layout returns the native bind group layout, creating it on first use.
func (f *BindGroupFormat) Layout(dev *GraphicsDevice) (native.BindGroupLayout, error) {
	if f.layout != nil {
		return f.layout, nil
	}
	desc := native.BindGroupLayoutDescriptor{Label: f.name, Entries: f.Entries()}
	dev.validation.Validate()
	layout, err := dev.device.CreateBindGroupLayout(&desc)
	dev.validation.End(desc)
	if err != nil {
		return nil, fmt.Errorf("webgpu: bind group layout %q: %w", f.name, err)
	}
	f.layout = layout
	return layout, nil
}

// Destroy releases the native layout.
func (f *BindGroupFormat) Destroy() {
	if f.layout != nil {
		f.layout.Destroy()
		f.layout = nil
	}
}

// BindGroup binds resources to the bindings of a BindGroupFormat. The native
// bind group is rebuilt when a bound native resource changes.
type BindGroup struct {
	format *BindGroupFormat
	name   string

	resources []any
	group     native.BindGroup
	bound     []any
	offsets   []uint32
}

// NewBindGroup returns an empty bind group of format.
func NewBindGroup(format *BindGroupFormat, name string) *BindGroup {
	return &BindGroup{
		format:    format,
		name:      name,
		resources: make([]any, len(format.bindings)),
	}
}

// Format returns the bind group format.
func (g *BindGroup) Format() *BindGroupFormat { return g.format }

// SetUniformBuffer binds ub at binding index i.
func (g *BindGroup) SetUniformBuffer(i int, ub *UniformBuffer) { g.resources[i] = ub }

// SetTexture binds t and its sampler at binding index i.
func (g *BindGroup) SetTexture(i int, t *Texture) { g.resources[i] = t }

// SetStorageBuffer binds b at binding index i.
func (g *BindGroup) SetStorageBuffer(i int, b *Buffer) { g.resources[i] = b }

// update resolves the bound resources and returns the native group with
// the dynamic offsets of its dynamic uniform buffers.
func (g *BindGroup) update(dev *GraphicsDevice) (native.BindGroup, []uint32, error) {
	entries := make([]native.BindGroupEntry, 0, len(g.resources)+2)
	identity := make([]any, 0, len(g.resources)+2)
	g.offsets = g.offsets[:0]

	for i, res := range g.resources {
		b := g.format.bindings[i]
		slot := g.format.slots[i]
		switch r := res.(type) {
		case *UniformBuffer:
			buf, size, off := r.binding()
			if buf == nil {
				return nil, nil, fmt.Errorf("webgpu: bind group %q: uniform %q has no data", g.name, b.Name)
			}
			e := native.BindGroupEntry{Binding: slot, Buffer: buf, Size: size}
			if b.Dynamic {
				g.offsets = append(g.offsets, off)
			} else {
				e.Offset = uint64(off)
			}
			entries = append(entries, e)
			identity = append(identity, buf, e.Offset)
		case *Texture:
			if err := r.prepare(dev); err != nil {
				return nil, nil, err
			}
			s, err := r.Sampler(dev, b.SampleType)
			if err != nil {
				return nil, nil, err
			}
			entries = append(entries,
				native.BindGroupEntry{Binding: slot, TextureView: r.View()},
				native.BindGroupEntry{Binding: slot + 1, Sampler: s},
			)
			identity = append(identity, r.View(), s)
		case *Buffer:
			if r.Native() == nil {
				return nil, nil, fmt.Errorf("webgpu: bind group %q: storage %q has no data", g.name, b.Name)
			}
			entries = append(entries, native.BindGroupEntry{Binding: slot, Buffer: r.Native(), Size: r.Size()})
			identity = append(identity, r.Native())
		default:
			return nil, nil, fmt.Errorf("webgpu: bind group %q: binding %q not set", g.name, b.Name)
		}
	}

	if g.group != nil && sameIdentity(g.bound, identity) {
		return g.group, g.offsets, nil
	}

	layout, err := g.format.Layout(dev)
	if err != nil {
		return nil, nil, err
	}
	desc := native.BindGroupDescriptor{Label: g.name, Layout: layout, Entries: entries}
	dev.validation.Validate()
	group, err := dev.device.CreateBindGroup(&desc)
	dev.validation.End("bind group", g.name)
	if err != nil {
		return nil, nil, fmt.Errorf("webgpu: bind group %q: %w", g.name, err)
	}
	if g.group != nil {
		dev.deferRelease(g.group)
	}
	g.group, g.bound = group, identity
	return group, g.offsets, nil
}

func sameIdentity(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Destroy releases the native bind group. Bound resources are not owned.
func (g *BindGroup) Destroy(dev *GraphicsDevice) {
	if g.group == nil {
		return
	}
	if dev != nil {
		dev.deferRelease(g.group)
	} else {
		g.group.Destroy()
	}
	g.group, g.bound = nil, nil
}
