// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// BlendOp is a blend equation operation.
type BlendOp uint8

// Blend operations.
const (
	BlendOpAdd BlendOp = iota
	BlendOpSubtract
	BlendOpReverseSubtract
	BlendOpMin
	BlendOpMax
)

// Native returns the native blend operation.
func (o BlendOp) Native() gputypes.BlendOperation {
	switch o {
	case BlendOpSubtract:
		return gputypes.BlendOperationSubtract
	case BlendOpReverseSubtract:
		return gputypes.BlendOperationReverseSubtract
	case BlendOpMin:
		return gputypes.BlendOperationMin
	case BlendOpMax:
		return gputypes.BlendOperationMax
	default:
		return gputypes.BlendOperationAdd
	}
}

// BlendFactor is a blend equation source or destination factor.
type BlendFactor uint8

// Blend factors.
const (
	BlendZero BlendFactor = iota
	BlendOne
	BlendSrcColor
	BlendOneMinusSrcColor
	BlendDstColor
	BlendOneMinusDstColor
	BlendSrcAlpha
	BlendSrcAlphaSaturate
	BlendOneMinusSrcAlpha
	BlendDstAlpha
	BlendOneMinusDstAlpha
	BlendConstant
	BlendOneMinusConstant
)

var blendFactorTable = [...]gputypes.BlendFactor{
	BlendZero:             gputypes.BlendFactorZero,
	BlendOne:              gputypes.BlendFactorOne,
	BlendSrcColor:         gputypes.BlendFactorSrc,
	BlendOneMinusSrcColor: gputypes.BlendFactorOneMinusSrc,
	BlendDstColor:         gputypes.BlendFactorDst,
	BlendOneMinusDstColor: gputypes.BlendFactorOneMinusDst,
	BlendSrcAlpha:         gputypes.BlendFactorSrcAlpha,
	BlendSrcAlphaSaturate: gputypes.BlendFactorSrcAlphaSaturated,
	BlendOneMinusSrcAlpha: gputypes.BlendFactorOneMinusSrcAlpha,
	BlendDstAlpha:         gputypes.BlendFactorDstAlpha,
	BlendOneMinusDstAlpha: gputypes.BlendFactorOneMinusDstAlpha,
	BlendConstant:         gputypes.BlendFactorConstant,
	BlendOneMinusConstant: gputypes.BlendFactorOneMinusConstant,
}

// Native returns the native blend factor.
func (f BlendFactor) Native() gputypes.BlendFactor {
	if int(f) >= len(blendFactorTable) {
		return gputypes.BlendFactorOne
	}
	return blendFactorTable[f]
}

// BlendState describes color blending for all color attachments.
type BlendState struct {
	Blend bool

	ColorOp  BlendOp
	ColorSrc BlendFactor
	ColorDst BlendFactor

	AlphaOp  BlendOp
	AlphaSrc BlendFactor
	AlphaDst BlendFactor

	RedWrite   bool
	GreenWrite bool
	BlueWrite  bool
	AlphaWrite bool
}

// DefaultBlendState disables blending and writes all channels.
func DefaultBlendState() BlendState {
	return BlendState{
		ColorSrc: BlendOne, ColorDst: BlendZero,
		AlphaSrc: BlendOne, AlphaDst: BlendZero,
		RedWrite: true, GreenWrite: true, BlueWrite: true, AlphaWrite: true,
	}
}

// AlphaBlendState returns standard non-premultiplied alpha blending.
func AlphaBlendState() BlendState {
	b := DefaultBlendState()
	b.Blend = true
	b.ColorSrc, b.ColorDst = BlendSrcAlpha, BlendOneMinusSrcAlpha
	b.AlphaSrc, b.AlphaDst = BlendOne, BlendOneMinusSrcAlpha
	return b
}

// Key packs the blend state into a comparable integer.
func (b BlendState) Key() uint64 {
	var k uint64
	if b.Blend {
		k = 1
	}
	k |= uint64(b.ColorOp) << 1
	k |= uint64(b.ColorSrc) << 4
	k |= uint64(b.ColorDst) << 8
	k |= uint64(b.AlphaOp) << 12
	k |= uint64(b.AlphaSrc) << 15
	k |= uint64(b.AlphaDst) << 19
	k |= uint64(b.WriteMask()) << 23
	return k
}

// WriteMask returns the native color write mask.
func (b BlendState) WriteMask() gputypes.ColorWriteMask {
	var m gputypes.ColorWriteMask
	if b.RedWrite {
		m |= gputypes.ColorWriteMaskRed
	}
	if b.GreenWrite {
		m |= gputypes.ColorWriteMaskGreen
	}
	if b.BlueWrite {
		m |= gputypes.ColorWriteMaskBlue
	}
	if b.AlphaWrite {
		m |= gputypes.ColorWriteMaskAlpha
	}
	return m
}

// Native returns the native blend state, or nil when blending is disabled.
func (b BlendState) Native() *gputypes.BlendState {
	if !b.Blend {
		return nil
	}
	return &gputypes.BlendState{
		Color: gputypes.BlendComponent{
			Operation: b.ColorOp.Native(),
			SrcFactor: b.ColorSrc.Native(),
			DstFactor: b.ColorDst.Native(),
		},
		Alpha: gputypes.BlendComponent{
			Operation: b.AlphaOp.Native(),
			SrcFactor: b.AlphaSrc.Native(),
			DstFactor: b.AlphaDst.Native(),
		},
	}
}

// CompareFunc is a depth or stencil comparison function.
type CompareFunc uint8

// Comparison functions.
const (
	CompareNever CompareFunc = iota
	CompareLess
	CompareEqual
	CompareLessEqual
	CompareGreater
	CompareNotEqual
	CompareGreaterEqual
	CompareAlways
)

// Native returns the native compare function.
func (c CompareFunc) Native() gputypes.CompareFunction {
	switch c {
	case CompareNever:
		return gputypes.CompareFunctionNever
	case CompareLess:
		return gputypes.CompareFunctionLess
	case CompareEqual:
		return gputypes.CompareFunctionEqual
	case CompareLessEqual:
		return gputypes.CompareFunctionLessEqual
	case CompareGreater:
		return gputypes.CompareFunctionGreater
	case CompareNotEqual:
		return gputypes.CompareFunctionNotEqual
	case CompareGreaterEqual:
		return gputypes.CompareFunctionGreaterEqual
	default:
		return gputypes.CompareFunctionAlways
	}
}

// DepthState describes depth testing and biasing.
type DepthState struct {
	Func           CompareFunc
	Write          bool
	DepthBias      int32
	DepthBiasSlope float32
}

// DefaultDepthState tests with less-or-equal and writes depth.
func DefaultDepthState() DepthState {
	return DepthState{Func: CompareLessEqual, Write: true}
}

// Key returns a comparable description of the depth state.
func (d DepthState) Key() string {
	return fmt.Sprintf("%d:%t:%d:%g", d.Func, d.Write, d.DepthBias, d.DepthBiasSlope)
}

// StencilOp is a stencil buffer update operation.
type StencilOp uint8

// Stencil operations.
const (
	StencilKeep StencilOp = iota
	StencilZero
	StencilReplace
	StencilIncrement
	StencilIncrementWrap
	StencilDecrement
	StencilDecrementWrap
	StencilInvert
)

// Native returns the native stencil operation.
func (o StencilOp) Native() gputypes.StencilOperation {
	switch o {
	case StencilZero:
		return gputypes.StencilOperationZero
	case StencilReplace:
		return gputypes.StencilOperationReplace
	case StencilIncrement:
		return gputypes.StencilOperationIncrementClamp
	case StencilIncrementWrap:
		return gputypes.StencilOperationIncrementWrap
	case StencilDecrement:
		return gputypes.StencilOperationDecrementClamp
	case StencilDecrementWrap:
		return gputypes.StencilOperationDecrementWrap
	case StencilInvert:
		return gputypes.StencilOperationInvert
	default:
		return gputypes.StencilOperationKeep
	}
}

// StencilParameters describes the stencil test for one face.
type StencilParameters struct {
	Func      CompareFunc
	Ref       uint32
	ReadMask  uint32
	WriteMask uint32
	Fail      StencilOp
	ZFail     StencilOp
	ZPass     StencilOp
}

// DefaultStencilParameters passes always and keeps the buffer unchanged.
func DefaultStencilParameters() StencilParameters {
	return StencilParameters{Func: CompareAlways, ReadMask: 0xFF, WriteMask: 0xFF}
}

// Key packs the stencil state except the reference value, which is dynamic
// render pass state.
func (s StencilParameters) Key() uint64 {
	return uint64(s.Func) |
		uint64(s.Fail)<<4 |
		uint64(s.ZFail)<<8 |
		uint64(s.ZPass)<<12 |
		uint64(s.ReadMask&0xFF)<<16 |
		uint64(s.WriteMask&0xFF)<<24
}

// Native returns the native stencil face state.
func (s StencilParameters) Native() gputypes.StencilFaceState {
	return gputypes.StencilFaceState{
		Compare:     s.Func.Native(),
		FailOp:      s.Fail.Native(),
		DepthFailOp: s.ZFail.Native(),
		PassOp:      s.ZPass.Native(),
	}
}

// CullMode selects which triangle faces are discarded.
type CullMode uint8

// Cull modes.
const (
	CullNone CullMode = iota
	CullBack
	CullFront
)

// Native returns the native cull mode.
func (c CullMode) Native() gputypes.CullMode {
	switch c {
	case CullBack:
		return gputypes.CullModeBack
	case CullFront:
		return gputypes.CullModeFront
	default:
		return gputypes.CullModeNone
	}
}

// IndexFormat is the element type of an index buffer.
type IndexFormat uint8

// Index formats. IndexFormatUint8 has no native equivalent.
const (
	IndexFormatUint8 IndexFormat = iota
	IndexFormatUint16
	IndexFormatUint32
)

// Size returns the byte size of one index.
func (f IndexFormat) Size() uint32 {
	switch f {
	case IndexFormatUint8:
		return 1
	case IndexFormatUint16:
		return 2
	default:
		return 4
	}
}

// Native returns the native index format. It reports false for 8-bit indices.
func (f IndexFormat) Native() (gputypes.IndexFormat, bool) {
	switch f {
	case IndexFormatUint16:
		return gputypes.IndexFormatUint16, true
	case IndexFormatUint32:
		return gputypes.IndexFormatUint32, true
	default:
		return gputypes.IndexFormatUndefined, false
	}
}

// PrimitiveType is the topology of a draw call.
type PrimitiveType uint8

// Primitive types. Line loops and triangle fans have no native equivalent.
const (
	PrimitivePoints PrimitiveType = iota
	PrimitiveLines
	PrimitiveLineLoop
	PrimitiveLineStrip
	PrimitiveTriangles
	PrimitiveTriStrip
	PrimitiveTriFan
)

func (p PrimitiveType) String() string {
	switch p {
	case PrimitivePoints:
		return "points"
	case PrimitiveLines:
		return "lines"
	case PrimitiveLineLoop:
		return "lineloop"
	case PrimitiveLineStrip:
		return "linestrip"
	case PrimitiveTriangles:
		return "triangles"
	case PrimitiveTriStrip:
		return "tristrip"
	case PrimitiveTriFan:
		return "trifan"
	default:
		return "unknown"
	}
}

// Native returns the native topology. It reports false for line loops and
// triangle fans.
func (p PrimitiveType) Native() (gputypes.PrimitiveTopology, bool) {
	switch p {
	case PrimitivePoints:
		return gputypes.PrimitiveTopologyPointList, true
	case PrimitiveLines:
		return gputypes.PrimitiveTopologyLineList, true
	case PrimitiveLineStrip:
		return gputypes.PrimitiveTopologyLineStrip, true
	case PrimitiveTriangles:
		return gputypes.PrimitiveTopologyTriangleList, true
	case PrimitiveTriStrip:
		return gputypes.PrimitiveTopologyTriangleStrip, true
	default:
		return gputypes.PrimitiveTopologyTriangleList, false
	}
}

// IsStrip reports whether the topology is a strip and needs a strip index
// format in indexed pipelines.
func (p PrimitiveType) IsStrip() bool {
	return p == PrimitiveLineStrip || p == PrimitiveTriStrip
}

// Primitive describes a single draw call range.
type Primitive struct {
	Type       PrimitiveType
	Base       uint32
	BaseVertex int32
	Count      uint32
	Indexed    bool
}
