// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
)

// VertexType is the scalar type of a vertex element component.
type VertexType uint8

// Vertex component types.
const (
	TypeInt8 VertexType = iota
	TypeUint8
	TypeInt16
	TypeUint16
	TypeInt32
	TypeUint32
	TypeFloat32
	TypeFloat16
)

// Size returns the byte size of one component.
func (t VertexType) Size() uint32 {
	switch t {
	case TypeInt8, TypeUint8:
		return 1
	case TypeInt16, TypeUint16, TypeFloat16:
		return 2
	default:
		return 4
	}
}

func (t VertexType) String() string {
	switch t {
	case TypeInt8:
		return "i8"
	case TypeUint8:
		return "u8"
	case TypeInt16:
		return "i16"
	case TypeUint16:
		return "u16"
	case TypeInt32:
		return "i32"
	case TypeUint32:
		return "u32"
	case TypeFloat32:
		return "f32"
	case TypeFloat16:
		return "f16"
	default:
		return "unknown"
	}
}

// VertexElement describes one vertex attribute.
type VertexElement struct {
	// Semantic names the attribute (POSITION, NORMAL, TEXCOORD0, ...).
	Semantic string

	// Location is the shader @location the attribute feeds.
	Location uint32

	// Components is the number of components (1 to 4).
	Components uint32

	// Type is the component type.
	Type VertexType

	// Normalize maps integer components to [0,1] or [-1,1].
	Normalize bool

	// Offset and Stride are computed by NewVertexFormat.
	Offset uint32
	Stride uint32
}

// Size returns the unpadded byte size of the element.
func (e VertexElement) Size() uint32 { return e.Components * e.Type.Size() }

// Native returns the native vertex format for the element. It reports false
// for component layouts WebGPU cannot express (8 and 16-bit types with one or
// three components).
func (e VertexElement) Native() (gputypes.VertexFormat, bool) {
	type k struct {
		t    VertexType
		n    uint32
		norm bool
	}
	switch (k{e.Type, e.Components, e.Normalize && e.Type != TypeFloat32 && e.Type != TypeFloat16}) {
	case k{TypeFloat32, 1, false}:
		return gputypes.VertexFormatFloat32, true
	case k{TypeFloat32, 2, false}:
		return gputypes.VertexFormatFloat32x2, true
	case k{TypeFloat32, 3, false}:
		return gputypes.VertexFormatFloat32x3, true
	case k{TypeFloat32, 4, false}:
		return gputypes.VertexFormatFloat32x4, true
	case k{TypeFloat16, 2, false}:
		return gputypes.VertexFormatFloat16x2, true
	case k{TypeFloat16, 4, false}:
		return gputypes.VertexFormatFloat16x4, true
	case k{TypeUint8, 2, false}:
		return gputypes.VertexFormatUint8x2, true
	case k{TypeUint8, 4, false}:
		return gputypes.VertexFormatUint8x4, true
	case k{TypeUint8, 2, true}:
		return gputypes.VertexFormatUnorm8x2, true
	case k{TypeUint8, 4, true}:
		return gputypes.VertexFormatUnorm8x4, true
	case k{TypeInt8, 2, false}:
		return gputypes.VertexFormatSint8x2, true
	case k{TypeInt8, 4, false}:
		return gputypes.VertexFormatSint8x4, true
	case k{TypeInt8, 2, true}:
		return gputypes.VertexFormatSnorm8x2, true
	case k{TypeInt8, 4, true}:
		return gputypes.VertexFormatSnorm8x4, true
	case k{TypeUint16, 2, false}:
		return gputypes.VertexFormatUint16x2, true
	case k{TypeUint16, 4, false}:
		return gputypes.VertexFormatUint16x4, true
	case k{TypeUint16, 2, true}:
		return gputypes.VertexFormatUnorm16x2, true
	case k{TypeUint16, 4, true}:
		return gputypes.VertexFormatUnorm16x4, true
	case k{TypeInt16, 2, false}:
		return gputypes.VertexFormatSint16x2, true
	case k{TypeInt16, 4, false}:
		return gputypes.VertexFormatSint16x4, true
	case k{TypeInt16, 2, true}:
		return gputypes.VertexFormatSnorm16x2, true
	case k{TypeInt16, 4, true}:
		return gputypes.VertexFormatSnorm16x4, true
	case k{TypeUint32, 1, false}:
		return gputypes.VertexFormatUint32, true
	case k{TypeUint32, 2, false}:
		return gputypes.VertexFormatUint32x2, true
	case k{TypeUint32, 3, false}:
		return gputypes.VertexFormatUint32x3, true
	case k{TypeUint32, 4, false}:
		return gputypes.VertexFormatUint32x4, true
	case k{TypeInt32, 1, false}:
		return gputypes.VertexFormatSint32, true
	case k{TypeInt32, 2, false}:
		return gputypes.VertexFormatSint32x2, true
	case k{TypeInt32, 3, false}:
		return gputypes.VertexFormatSint32x3, true
	case k{TypeInt32, 4, false}:
		return gputypes.VertexFormatSint32x4, true
	}
	return gputypes.VertexFormatUndefined, false
}

// VertexFormat describes the layout of a vertex buffer.
//
// Interleaved formats store whole vertices one after another and bind as a
// single vertex buffer slot. Non-interleaved formats store each element as a
// contiguous block of VertexCount values and bind one slot per element at
// the element's byte offset.
type VertexFormat struct {
	Elements    []VertexElement
	Interleaved bool
	Instancing  bool
	VertexCount uint32

	// Size is the byte size of one vertex (sum of padded element sizes).
	Size uint32

	key string
}

// NewVertexFormat computes element offsets and strides. Each element is padded
// to a multiple of 4 bytes, which native vertex fetch requires.
func NewVertexFormat(elements []VertexElement, interleaved bool, vertexCount uint32) *VertexFormat {
	f := &VertexFormat{
		Elements:    append([]VertexElement(nil), elements...),
		Interleaved: interleaved,
		VertexCount: vertexCount,
	}

	var vertexSize uint32
	for i := range f.Elements {
		vertexSize += roundUp4(f.Elements[i].Size())
	}
	f.Size = vertexSize

	var offset uint32
	for i := range f.Elements {
		e := &f.Elements[i]
		padded := roundUp4(e.Size())
		e.Offset = offset
		if interleaved {
			e.Stride = vertexSize
			offset += padded
		} else {
			e.Stride = padded
			offset += roundUp4(padded * vertexCount)
		}
	}

	f.key = f.buildKey()
	return f
}

// NewInstancingVertexFormat returns a vertex format stepped per instance.
func NewInstancingVertexFormat(elements []VertexElement, instanceCount uint32) *VertexFormat {
	f := NewVertexFormat(elements, true, instanceCount)
	f.Instancing = true
	f.key = f.buildKey()
	return f
}

// ByteSize returns the total buffer size needed for VertexCount vertices.
func (f *VertexFormat) ByteSize() uint32 {
	if f.Interleaved {
		return f.Size * f.VertexCount
	}
	var total uint32
	for _, e := range f.Elements {
		total += roundUp4(e.Stride * f.VertexCount)
	}
	return total
}

// Key identifies the layout for pipeline caching. Two formats with equal
// keys produce identical native vertex buffer layouts.
func (f *VertexFormat) Key() string { return f.key }

func (f *VertexFormat) buildKey() string {
	var sb strings.Builder
	if f.Interleaved {
		sb.WriteString("I")
	} else {
		sb.WriteString("N")
	}
	if f.Instancing {
		sb.WriteString("i")
	}
	for _, e := range f.Elements {
		fmt.Fprintf(&sb, "|%d:%s%dx%d", e.Location, e.Type, e.Components, e.Stride)
		if e.Normalize {
			sb.WriteString("n")
		}
		if f.Interleaved {
			fmt.Fprintf(&sb, "@%d", e.Offset)
		}
	}
	return sb.String()
}

// Layouts returns the native vertex buffer layouts. Interleaved formats yield
// one layout; non-interleaved formats yield one layout per element with the
// attribute at offset 0, since the binding offset selects the element block.
func (f *VertexFormat) Layouts() ([]gputypes.VertexBufferLayout, error) {
	step := gputypes.VertexStepModeVertex
	if f.Instancing {
		step = gputypes.VertexStepModeInstance
	}

	attr := func(e VertexElement, offset uint32) (gputypes.VertexAttribute, error) {
		nf, ok := e.Native()
		if !ok {
			return gputypes.VertexAttribute{}, fmt.Errorf("%w: %s %s x%d", ErrUnsupportedVertexFormat,
				e.Semantic, e.Type, e.Components)
		}
		return gputypes.VertexAttribute{Format: nf, Offset: uint64(offset), ShaderLocation: e.Location}, nil
	}

	if f.Interleaved {
		layout := gputypes.VertexBufferLayout{ArrayStride: uint64(f.Size), StepMode: step}
		for _, e := range f.Elements {
			a, err := attr(e, e.Offset)
			if err != nil {
				return nil, err
			}
			layout.Attributes = append(layout.Attributes, a)
		}
		return []gputypes.VertexBufferLayout{layout}, nil
	}

	layouts := make([]gputypes.VertexBufferLayout, 0, len(f.Elements))
	for _, e := range f.Elements {
		a, err := attr(e, 0)
		if err != nil {
			return nil, err
		}
		layouts = append(layouts, gputypes.VertexBufferLayout{
			ArrayStride: uint64(e.Stride),
			StepMode:    step,
			Attributes:  []gputypes.VertexAttribute{a},
		})
	}
	return layouts, nil
}

// BindingOffsets returns the byte offset of each vertex buffer slot the
// format occupies, in slot order.
func (f *VertexFormat) BindingOffsets() []uint64 {
	if f.Interleaved {
		return []uint64{0}
	}
	offsets := make([]uint64, len(f.Elements))
	for i, e := range f.Elements {
		offsets[i] = uint64(e.Offset)
	}
	return offsets
}

func roundUp4(n uint32) uint32 { return (n + 3) &^ 3 }
