// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package webgpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/native"
	"github.com/gogpu/gputypes"
)

//go:embed shaders/mipmap.wgsl
var mipmapShaderSource string

// MipmapRenderer fills the mip chain of a texture by rendering each level
// from the previous one with a linear blit. One render pass is recorded per
// level and layer.
type MipmapRenderer struct {
	shader    *Shader
	format    *BindGroupFormat
	layout    native.PipelineLayout
	sampler   native.Sampler
	pipelines map[gputypes.TextureFormat]native.RenderPipeline
}

func newMipmapRenderer() *MipmapRenderer {
	return &MipmapRenderer{
		format: NewBindGroupFormat("mipmap", BindingFormat{
			Name:       "source",
			Kind:       BindingTexture,
			Visibility: gputypes.ShaderStageFragment,
			SampleType: gfx.SampleTypeFloat,
		}),
		pipelines: make(map[gputypes.TextureFormat]native.RenderPipeline),
	}
}

// CanGenerate reports whether t can have its mips rendered.
func CanGenerate(t *Texture) bool {
	f := t.format
	return t.mipCount > 1 &&
		!t.volume &&
		!f.IsCompressed() &&
		!f.IsDepth() &&
		!f.IsInteger() &&
		f.IsFilterable() &&
		t.desc.Usage&gputypes.TextureUsageRenderAttachment != 0
}

func (m *MipmapRenderer) init(dev *GraphicsDevice) error {
	if m.shader == nil {
		m.shader = NewShader(dev, ShaderDescriptor{Name: "mipmap", Source: mipmapShaderSource})
	}
	if !m.shader.Ready() {
		return fmt.Errorf("webgpu: mipmap shader: %w", m.shader.Err())
	}
	if m.layout == nil {
		bgl, err := m.format.Layout(dev)
		if err != nil {
			return err
		}
		m.layout, err = dev.device.CreatePipelineLayout(&native.PipelineLayoutDescriptor{
			Label:            "mipmap",
			BindGroupLayouts: []native.BindGroupLayout{bgl},
		})
		if err != nil {
			return fmt.Errorf("webgpu: mipmap pipeline layout: %w", err)
		}
	}
	if m.sampler == nil {
		s, err := dev.device.CreateSampler(&native.SamplerDescriptor{
			Label:        "mipmap",
			AddressModeU: gputypes.AddressModeClampToEdge,
			AddressModeV: gputypes.AddressModeClampToEdge,
			AddressModeW: gputypes.AddressModeClampToEdge,
			MagFilter:    gputypes.FilterModeLinear,
			MinFilter:    gputypes.FilterModeLinear,
			MipmapFilter: gputypes.MipmapFilterModeNearest,
			LodMaxClamp:  32,
			Anisotropy:   1,
		})
		if err != nil {
			return fmt.Errorf("webgpu: mipmap sampler: %w", err)
		}
		m.sampler = s
	}
	return nil
}

func (m *MipmapRenderer) pipeline(dev *GraphicsDevice, format gputypes.TextureFormat) (native.RenderPipeline, error) {
	if p, ok := m.pipelines[format]; ok {
		return p, nil
	}
	desc := native.RenderPipelineDescriptor{
		Label:  "mipmap-" + format.String(),
		Layout: m.layout,
		Vertex: native.VertexState{
			Module:     m.shader.Module(),
			EntryPoint: m.shader.VertexEntry(),
		},
		Primitive:   gputypes.PrimitiveState{Topology: gputypes.PrimitiveTopologyTriangleList},
		Multisample: gputypes.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
		Fragment: &native.FragmentState{
			Module:     m.shader.Module(),
			EntryPoint: m.shader.FragmentEntry(),
			Targets: []gputypes.ColorTargetState{{
				Format:    format,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
	}
	dev.validation.Validate()
	p, err := dev.device.CreateRenderPipeline(&desc)
	dev.validation.End(desc.Label)
	if err != nil {
		return nil, fmt.Errorf("webgpu: mipmap pipeline %s: %w", format, err)
	}
	m.pipelines[format] = p
	return p, nil
}

// Generate records the passes filling mip levels 1..n-1 of t into enc.
// Views and bind groups are released by the device once the frame ends.
func (m *MipmapRenderer) Generate(dev *GraphicsDevice, enc native.CommandEncoder, t *Texture) error {
	if !CanGenerate(t) {
		gfx.Logger().Debug("webgpu: mipmaps skipped", "texture", t.name, "format", t.format)
		return nil
	}
	if err := m.init(dev); err != nil {
		return err
	}
	format := t.format.Native()
	p, err := m.pipeline(dev, format)
	if err != nil {
		return err
	}
	bgl, err := m.format.Layout(dev)
	if err != nil {
		return err
	}

	level := func(mip, layer uint32) (native.TextureView, error) {
		v, err := t.CreateView(&ViewOptions{
			Label:           t.name + "/mip",
			Dimension:       gputypes.TextureViewDimension2D,
			BaseMipLevel:    mip,
			MipLevelCount:   1,
			BaseArrayLayer:  layer,
			ArrayLayerCount: 1,
		})
		if err == nil {
			dev.deferRelease(v)
		}
		return v, err
	}

	dev.validation.Validate()
	defer dev.validation.End("mipmaps", t.name)
	for layer := uint32(0); layer < t.layers(); layer++ {
		for mip := uint32(1); mip < t.mipCount; mip++ {
			src, err := level(mip-1, layer)
			if err != nil {
				return err
			}
			dst, err := level(mip, layer)
			if err != nil {
				return err
			}
			bg, err := dev.device.CreateBindGroup(&native.BindGroupDescriptor{
				Label:  "mipmap",
				Layout: bgl,
				Entries: []native.BindGroupEntry{
					{Binding: 0, TextureView: src},
					{Binding: 1, Sampler: m.sampler},
				},
			})
			if err != nil {
				return fmt.Errorf("webgpu: mipmap bind group: %w", err)
			}
			dev.deferRelease(bg)

			pass, err := enc.BeginRenderPass(&native.RenderPassDescriptor{
				Label: "mipmap",
				ColorAttachments: []native.RenderPassColorAttachment{{
					View:    dst,
					LoadOp:  gputypes.LoadOpClear,
					StoreOp: gputypes.StoreOpStore,
				}},
			})
			if err != nil {
				return fmt.Errorf("webgpu: mipmap pass: %w", err)
			}
			pass.SetPipeline(p)
			pass.SetBindGroup(0, bg, nil)
			pass.Draw(3, 1, 0, 0)
			if err := pass.End(); err != nil {
				return fmt.Errorf("webgpu: mipmap pass: %w", err)
			}
		}
	}
	return nil
}

// Destroy releases the pipelines, sampler, layouts and shader.
func (m *MipmapRenderer) Destroy() {
	for f, p := range m.pipelines {
		p.Destroy()
		delete(m.pipelines, f)
	}
	if m.sampler != nil {
		m.sampler.Destroy()
		m.sampler = nil
	}
	if m.layout != nil {
		m.layout.Destroy()
		m.layout = nil
	}
	m.format.Destroy()
	if m.shader != nil {
		m.shader.Destroy()
		m.shader = nil
	}
}
