// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package webgpu

import (
	"encoding/binary"
	"fmt"
	"hash"
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/internal/cache"
	"github.com/gogpu/gfx/native"
	"github.com/gogpu/gputypes"
)

// PipelineState is the draw state a render pipeline is built from.
type PipelineState struct {
	Primitive gfx.PrimitiveType

	// StripIndexFormat is set for indexed strip draws.
	StripIndexFormat gputypes.IndexFormat

	VertexFormats    []*gfx.VertexFormat
	Shader           *Shader
	Target           *RenderTarget
	BindGroupFormats []*BindGroupFormat

	Blend gfx.BlendState
	Depth gfx.DepthState
	Cull  gfx.CullMode

	// StencilEnabled applies StencilFront and StencilBack when the target
	// has a stencil aspect.
	StencilEnabled bool
	StencilFront   gfx.StencilParameters
	StencilBack    gfx.StencilParameters
}

// Key hashes every field that affects the native pipeline. Equal states
// yield equal keys.
func (s *PipelineState) Key() uint64 {
	h := fnv.New64a()
	topo, _ := s.Primitive.Native()
	hashWriteUint32(h, uint32(topo))
	hashWriteUint32(h, uint32(s.StripIndexFormat))

	hashWriteUint32(h, uint32(len(s.VertexFormats)))
	for _, vf := range s.VertexFormats {
		hashWriteString(h, vf.Key())
	}

	if s.Shader != nil {
		hashWriteUint64(h, s.Shader.ID())
	} else {
		hashWriteUint64(h, 0)
	}
	if s.Target != nil {
		hashWriteString(h, s.Target.Key())
	} else {
		hashWriteString(h, "")
	}

	hashWriteUint32(h, uint32(len(s.BindGroupFormats)))
	for _, f := range s.BindGroupFormats {
		hashWriteUint64(h, f.ID())
	}

	hashWriteUint64(h, s.Blend.Key())
	hashWriteString(h, s.Depth.Key())
	hashWriteUint32(h, uint32(s.Cull))
	if s.StencilEnabled {
		hashWriteUint64(h, 1)
		hashWriteUint64(h, s.StencilFront.Key())
		hashWriteUint64(h, s.StencilBack.Key())
	} else {
		hashWriteUint64(h, 0)
	}
	return h.Sum64()
}

func hashWriteUint32(h hash.Hash64, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	h.Write(b[:])
}

func hashWriteUint64(h hash.Hash64, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	h.Write(b[:])
}

func hashWriteString(h hash.Hash64, s string) {
	hashWriteUint32(h, uint32(len(s)))
	h.Write([]byte(s))
}

// PipelineCacheStats reports render pipeline cache usage.
type PipelineCacheStats struct {
	Pipelines int
	Layouts   int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// RenderPipelineCache maps pipeline state keys to native render pipelines.
// It is an LRU with a soft limit; evicted pipelines may still be referenced
// by recorded passes and are released at the end of the frame.
type RenderPipelineCache struct {
	pipelines *cache.Cache[uint64, native.RenderPipeline]
	layouts   map[string]native.PipelineLayout
	evicted   []native.RenderPipeline
}

// NewRenderPipelineCache creates a cache holding about limit pipelines.
func NewRenderPipelineCache(limit int) *RenderPipelineCache {
	c := &RenderPipelineCache{layouts: make(map[string]native.PipelineLayout)}
	c.pipelines = cache.New(limit, func(_ uint64, p native.RenderPipeline) {
		c.evicted = append(c.evicted, p)
	})
	return c
}

// Get returns the pipeline for state, creating it on a miss.
func (c *RenderPipelineCache) Get(dev *GraphicsDevice, state *PipelineState) (native.RenderPipeline, error) {
	key := state.Key()
	if p, ok := c.pipelines.Get(key); ok {
		return p, nil
	}
	p, err := c.create(dev, state)
	if err != nil {
		return nil, err
	}
	c.pipelines.Set(key, p)
	gfx.Logger().Debug("webgpu: render pipeline created", "key", key, "shader", state.Shader.Name(),
		"target", state.Target.Key(), "cached", c.pipelines.Len())
	return p, nil
}

func (c *RenderPipelineCache) layout(dev *GraphicsDevice, formats []*BindGroupFormat) (native.PipelineLayout, error) {
	var kb strings.Builder
	for i, f := range formats {
		if i > 0 {
			kb.WriteByte(',')
		}
		kb.WriteString(strconv.FormatUint(f.ID(), 10))
	}
	key := kb.String()
	if l, ok := c.layouts[key]; ok {
		return l, nil
	}

	bgls := make([]native.BindGroupLayout, len(formats))
	for i, f := range formats {
		l, err := f.Layout(dev)
		if err != nil {
			return nil, err
		}
		bgls[i] = l
	}
	desc := native.PipelineLayoutDescriptor{Label: "pipeline-layout[" + key + "]", BindGroupLayouts: bgls}
	dev.validation.Validate()
	l, err := dev.device.CreatePipelineLayout(&desc)
	dev.validation.End(desc.Label)
	if err != nil {
		return nil, fmt.Errorf("webgpu: pipeline layout: %w", err)
	}
	c.layouts[key] = l
	return l, nil
}

func (c *RenderPipelineCache) create(dev *GraphicsDevice, s *PipelineState) (native.RenderPipeline, error) {
	if s.Shader == nil || !s.Shader.Ready() {
		return nil, ErrShaderFailed
	}
	layout, err := c.layout(dev, s.BindGroupFormats)
	if err != nil {
		return nil, err
	}

	var buffers []gputypes.VertexBufferLayout
	for _, vf := range s.VertexFormats {
		ls, err := vf.Layouts()
		if err != nil {
			return nil, err
		}
		buffers = append(buffers, ls...)
	}

	topo, _ := s.Primitive.Native()
	prim := gputypes.PrimitiveState{
		Topology: topo,
		CullMode: s.Cull.Native(),
	}
	if s.Primitive.IsStrip() && s.StripIndexFormat != gputypes.IndexFormatUndefined {
		f := s.StripIndexFormat
		prim.StripIndexFormat = &f
	}

	desc := native.RenderPipelineDescriptor{
		Label:  s.Shader.Name(),
		Layout: layout,
		Vertex: native.VertexState{
			Module:     s.Shader.Module(),
			EntryPoint: s.Shader.VertexEntry(),
			Buffers:    buffers,
		},
		Primitive: prim,
		Multisample: gputypes.MultisampleState{
			Count: s.Target.Samples(),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: depthStencilState(s),
	}
	if s.Shader.FragmentEntry() != "" {
		formats := s.Target.ColorFormats()
		targets := make([]gputypes.ColorTargetState, len(formats))
		for i, f := range formats {
			targets[i] = gputypes.ColorTargetState{
				Format:    f,
				Blend:     s.Blend.Native(),
				WriteMask: s.Blend.WriteMask(),
			}
		}
		desc.Fragment = &native.FragmentState{
			Module:     s.Shader.Module(),
			EntryPoint: s.Shader.FragmentEntry(),
			Targets:    targets,
		}
	}

	dev.validation.Validate()
	p, err := dev.device.CreateRenderPipeline(&desc)
	dev.validation.End("pipeline", s.Shader.Name(), s.Target.Key())
	if err != nil {
		return nil, fmt.Errorf("webgpu: render pipeline %q: %w", s.Shader.Name(), err)
	}
	return p, nil
}

func depthStencilState(s *PipelineState) *gputypes.DepthStencilState {
	format := s.Target.DepthFormat()
	if format == gputypes.TextureFormatUndefined {
		return nil
	}
	ds := &gputypes.DepthStencilState{
		Format:              format,
		DepthWriteEnabled:   s.Depth.Write,
		DepthCompare:        s.Depth.Func.Native(),
		DepthBias:           s.Depth.DepthBias,
		DepthBiasSlopeScale: s.Depth.DepthBiasSlope,
		StencilFront:        gfx.DefaultStencilParameters().Native(),
		StencilBack:         gfx.DefaultStencilParameters().Native(),
		StencilReadMask:     0xFFFFFFFF,
		StencilWriteMask:    0xFFFFFFFF,
	}
	if s.StencilEnabled && hasStencil(format) {
		ds.StencilFront = s.StencilFront.Native()
		ds.StencilBack = s.StencilBack.Native()
		ds.StencilReadMask = s.StencilFront.ReadMask
		ds.StencilWriteMask = s.StencilFront.WriteMask
	}
	return ds
}

func hasStencil(f gputypes.TextureFormat) bool {
	switch f {
	case gputypes.TextureFormatStencil8,
		gputypes.TextureFormatDepth24PlusStencil8,
		gputypes.TextureFormatDepth32FloatStencil8:
		return true
	}
	return false
}

// ReleaseEvicted destroys pipelines evicted since the last call.
func (c *RenderPipelineCache) ReleaseEvicted() int {
	n := len(c.evicted)
	for _, p := range c.evicted {
		p.Destroy()
	}
	c.evicted = c.evicted[:0]
	return n
}

// Len returns the number of cached pipelines.
func (c *RenderPipelineCache) Len() int { return c.pipelines.Len() }

// Stats returns cache statistics.
func (c *RenderPipelineCache) Stats() PipelineCacheStats {
	st := c.pipelines.Stats()
	return PipelineCacheStats{
		Pipelines: st.Len,
		Layouts:   len(c.layouts),
		Hits:      st.Hits,
		Misses:    st.Misses,
		Evictions: st.Evictions,
	}
}

// Destroy releases every pipeline and pipeline layout.
func (c *RenderPipelineCache) Destroy() {
	c.pipelines.Clear()
	c.ReleaseEvicted()
	for k, l := range c.layouts {
		l.Destroy()
		delete(c.layouts, k)
	}
}
