// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package webgpu

import (
	"strings"
	"testing"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/internal/nativetest"
	"github.com/gogpu/gputypes"
)

func TestBindGroupFormatEntries(t *testing.T) {
	f := NewBindGroupFormat("material",
		BindingFormat{Name: "params", Kind: BindingUniformBuffer, Visibility: gputypes.ShaderStageFragment},
		BindingFormat{Name: "albedo", Kind: BindingTexture},
		BindingFormat{Name: "shadow", Kind: BindingTexture, SampleType: gfx.SampleTypeDepth},
		BindingFormat{Name: "lights", Kind: BindingStorageBuffer, ReadOnly: true},
	)
	entries := f.Entries()
	if len(entries) != 6 {
		t.Fatalf("entries = %d, want 6", len(entries))
	}
	for i, e := range entries {
		if e.Binding != uint32(i) {
			t.Errorf("entry %d has binding %d", i, e.Binding)
		}
	}
	if entries[0].Visibility != gputypes.ShaderStageFragment {
		t.Errorf("uniform visibility = %v", entries[0].Visibility)
	}
	if entries[1].Texture == nil || entries[1].Texture.SampleType != gputypes.TextureSampleTypeFloat {
		t.Errorf("albedo = %+v, want filterable float", entries[1].Texture)
	}
	if entries[2].Sampler == nil || entries[2].Sampler.Type != gputypes.SamplerBindingTypeFiltering {
		t.Errorf("albedo sampler = %+v", entries[2].Sampler)
	}
	if entries[3].Texture.SampleType != gputypes.TextureSampleTypeDepth ||
		entries[4].Sampler.Type != gputypes.SamplerBindingTypeComparison {
		t.Errorf("shadow = %+v / %+v, want depth with comparison sampler", entries[3].Texture, entries[4].Sampler)
	}
	if entries[5].Buffer == nil || entries[5].Buffer.Type != gputypes.BufferBindingTypeReadOnlyStorage {
		t.Errorf("lights = %+v", entries[5].Buffer)
	}
	if f.Index("shadow") != 2 || f.Index("missing") != -1 {
		t.Error("Index lookup")
	}
}

func TestBindGroupRebuiltOnResourceChange(t *testing.T) {
	d, nd := newTestDevice(t, nil)
	format := NewBindGroupFormat("material",
		BindingFormat{Name: "params", Kind: BindingUniformBuffer},
		BindingFormat{Name: "albedo", Kind: BindingTexture},
	)
	ub := NewUniformBuffer(16, false)
	if err := ub.Update(d); err != nil {
		t.Fatalf("Update: %v", err)
	}
	tex, err := NewTexture(d, TextureOptions{Width: 4, Height: 4, Format: gfx.PixelFormatRGBA8})
	if err != nil {
		t.Fatalf("NewTexture: %v", err)
	}

	g := NewBindGroup(format, "material")
	g.SetUniformBuffer(0, ub)
	if _, _, err := g.update(d); err == nil {
		t.Fatal("update with an unset binding succeeded")
	}
	g.SetTexture(1, tex)

	first, offsets, err := g.update(d)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(offsets) != 0 {
		t.Errorf("offsets = %v for a static uniform buffer", offsets)
	}
	again, _, _ := g.update(d)
	if again != first || len(nd.BindGroups) != 1 {
		t.Fatal("unchanged resources rebuilt the bind group")
	}
	entries := nd.BindGroups[0].Desc.Entries
	if len(entries) != 3 || entries[1].TextureView != tex.View() || entries[2].Sampler == nil {
		t.Errorf("entries = %+v", entries)
	}

	tex.SetAddressU(gfx.AddressClamp)
	rebuilt, _, err := g.update(d)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if rebuilt == first || len(nd.BindGroups) != 2 {
		t.Fatal("sampler change kept the old bind group")
	}
	old := first.(*nativetest.BindGroup)
	if old.Destroyed {
		t.Error("old bind group destroyed before frame end")
	}
	if err := d.FrameEnd(); err != nil {
		t.Fatalf("FrameEnd: %v", err)
	}
	if !old.Destroyed {
		t.Error("old bind group not released at frame end")
	}
}

func TestDrawBindsGroups(t *testing.T) {
	d, nd := newTestDevice(t, nil)
	shader := NewShader(d, ShaderDescriptor{Source: testShaderSource})
	format := NewBindGroupFormat("frame", BindingFormat{Name: "globals", Kind: BindingUniformBuffer, Dynamic: true})
	ub := NewUniformBuffer(32, true)
	g := NewBindGroup(format, "frame")
	g.SetUniformBuffer(0, ub)

	if err := d.FrameStart(); err != nil {
		t.Fatalf("FrameStart: %v", err)
	}
	if err := d.StartPass(nil); err != nil {
		t.Fatalf("StartPass: %v", err)
	}
	d.SetShader(shader)
	d.SetVertexBuffer(0, triangleBuffer(d))
	d.SetBindGroup(0, g)
	for range 2 {
		if err := ub.Update(d); err != nil {
			t.Fatalf("Update: %v", err)
		}
		if err := d.Draw(gfx.Primitive{Type: gfx.PrimitiveTriangles, Count: 3}, 1); err != nil {
			t.Fatalf("Draw: %v", err)
		}
	}
	rp := nd.Encoders[0].Passes[0]
	if rp.BindGroups[0] == nil || len(rp.DynamicOffsets[0]) != 1 {
		t.Fatalf("bind group 0 = %v offsets %v", rp.BindGroups[0], rp.DynamicOffsets[0])
	}
	if rp.DynamicOffsets[0][0] != 256 {
		t.Errorf("second draw offset = %d, want 256", rp.DynamicOffsets[0][0])
	}
	if err := d.EndPass(nil); err != nil {
		t.Fatalf("EndPass: %v", err)
	}
	if len(d.bindGroups) != 0 {
		t.Error("bind groups survived EndPass")
	}
	if err := d.FrameEnd(); err != nil {
		t.Fatalf("FrameEnd: %v", err)
	}

	// Dynamic uniforms are written before the submit that uses them.
	events := nd.Q.Events
	if n := len(events); n < 2 || !strings.HasPrefix(events[n-2], "write-buffer:") || events[n-1] != "submit:1" {
		t.Errorf("events = %v, want uniform write before submit", events)
	}
}
