// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
)

func posColorUV() []VertexElement {
	return []VertexElement{
		{Semantic: "POSITION", Location: 0, Components: 3, Type: TypeFloat32},
		{Semantic: "COLOR", Location: 1, Components: 4, Type: TypeUint8, Normalize: true},
		{Semantic: "TEXCOORD0", Location: 2, Components: 2, Type: TypeFloat32},
	}
}

func TestVertexFormatInterleaved(t *testing.T) {
	f := NewVertexFormat(posColorUV(), true, 10)

	if f.Size != 12+4+8 {
		t.Fatalf("Size = %d, want 24", f.Size)
	}
	wantOffsets := []uint32{0, 12, 16}
	for i, e := range f.Elements {
		if e.Offset != wantOffsets[i] {
			t.Errorf("element %d offset = %d, want %d", i, e.Offset, wantOffsets[i])
		}
		if e.Stride != 24 {
			t.Errorf("element %d stride = %d, want 24", i, e.Stride)
		}
	}
	if f.ByteSize() != 240 {
		t.Errorf("ByteSize() = %d, want 240", f.ByteSize())
	}

	layouts, err := f.Layouts()
	if err != nil {
		t.Fatalf("Layouts: %v", err)
	}
	if len(layouts) != 1 {
		t.Fatalf("len(layouts) = %d, want 1", len(layouts))
	}
	l := layouts[0]
	if l.ArrayStride != 24 || l.StepMode != gputypes.VertexStepModeVertex {
		t.Errorf("layout = stride %d step %v", l.ArrayStride, l.StepMode)
	}
	if len(l.Attributes) != 3 || l.Attributes[1].Format != gputypes.VertexFormatUnorm8x4 || l.Attributes[1].Offset != 12 {
		t.Errorf("attributes = %+v", l.Attributes)
	}
	if got := f.BindingOffsets(); len(got) != 1 || got[0] != 0 {
		t.Errorf("BindingOffsets() = %v, want [0]", got)
	}
}

func TestVertexFormatNonInterleaved(t *testing.T) {
	f := NewVertexFormat(posColorUV(), false, 3)

	// Blocks: 3*12=36, 3*4=12, 3*8=24.
	wantOffsets := []uint64{0, 36, 48}
	if got := f.BindingOffsets(); len(got) != 3 || got[0] != wantOffsets[0] || got[1] != wantOffsets[1] || got[2] != wantOffsets[2] {
		t.Errorf("BindingOffsets() = %v, want %v", got, wantOffsets)
	}
	if f.ByteSize() != 72 {
		t.Errorf("ByteSize() = %d, want 72", f.ByteSize())
	}

	layouts, err := f.Layouts()
	if err != nil {
		t.Fatalf("Layouts: %v", err)
	}
	if len(layouts) != 3 {
		t.Fatalf("len(layouts) = %d, want 3", len(layouts))
	}
	for i, l := range layouts {
		if l.Attributes[0].Offset != 0 {
			t.Errorf("layout %d attribute offset = %d, want 0", i, l.Attributes[0].Offset)
		}
		if l.ArrayStride != uint64(f.Elements[i].Stride) {
			t.Errorf("layout %d stride = %d, want %d", i, l.ArrayStride, f.Elements[i].Stride)
		}
	}
}

func TestVertexFormatPadding(t *testing.T) {
	elems := []VertexElement{{Semantic: "BONE", Location: 0, Components: 2, Type: TypeUint8}}
	f := NewVertexFormat(elems, true, 1)
	if f.Size != 4 {
		t.Errorf("Size = %d, want 4 (2 bytes padded)", f.Size)
	}
}

func TestVertexFormatUnsupported(t *testing.T) {
	elems := []VertexElement{{Semantic: "COLOR", Location: 0, Components: 3, Type: TypeUint8, Normalize: true}}
	f := NewVertexFormat(elems, true, 1)
	if _, err := f.Layouts(); !errors.Is(err, ErrUnsupportedVertexFormat) {
		t.Errorf("Layouts() err = %v, want ErrUnsupportedVertexFormat", err)
	}
}

func TestVertexFormatInstancing(t *testing.T) {
	elems := []VertexElement{{Semantic: "OFFSET", Location: 4, Components: 4, Type: TypeFloat32}}
	inst := NewInstancingVertexFormat(elems, 16)
	plain := NewVertexFormat(elems, true, 16)

	if inst.Key() == plain.Key() {
		t.Error("instancing and per-vertex formats share a key")
	}
	layouts, err := inst.Layouts()
	if err != nil {
		t.Fatalf("Layouts: %v", err)
	}
	if layouts[0].StepMode != gputypes.VertexStepModeInstance {
		t.Errorf("StepMode = %v, want Instance", layouts[0].StepMode)
	}
}

func TestVertexFormatKeyStable(t *testing.T) {
	a := NewVertexFormat(posColorUV(), true, 10)
	b := NewVertexFormat(posColorUV(), true, 500)
	if a.Key() != b.Key() {
		t.Errorf("keys differ by vertex count: %q vs %q", a.Key(), b.Key())
	}
	c := NewVertexFormat(posColorUV(), false, 10)
	if a.Key() == c.Key() {
		t.Error("interleaved and planar formats share a key")
	}
}
