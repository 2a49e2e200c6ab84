// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import "github.com/gogpu/gputypes"

// FilterMode is a texture minification or magnification filter. The mipmap
// variants select both the texel filter and the filter between mip levels.
type FilterMode uint8

// Filter modes.
const (
	FilterNearest FilterMode = iota
	FilterLinear
	FilterNearestMipmapNearest
	FilterLinearMipmapNearest
	FilterNearestMipmapLinear
	FilterLinearMipmapLinear
)

// Native splits the filter into its native texel and mipmap filters.
func (f FilterMode) Native() (gputypes.FilterMode, gputypes.MipmapFilterMode) {
	switch f {
	case FilterLinear:
		return gputypes.FilterModeLinear, gputypes.MipmapFilterModeNearest
	case FilterNearestMipmapNearest:
		return gputypes.FilterModeNearest, gputypes.MipmapFilterModeNearest
	case FilterLinearMipmapNearest:
		return gputypes.FilterModeLinear, gputypes.MipmapFilterModeNearest
	case FilterNearestMipmapLinear:
		return gputypes.FilterModeNearest, gputypes.MipmapFilterModeLinear
	case FilterLinearMipmapLinear:
		return gputypes.FilterModeLinear, gputypes.MipmapFilterModeLinear
	default:
		return gputypes.FilterModeNearest, gputypes.MipmapFilterModeNearest
	}
}

// AddressMode selects how texture coordinates outside [0,1] are resolved.
type AddressMode uint8

// Address modes.
const (
	AddressRepeat AddressMode = iota
	AddressClamp
	AddressMirror
)

// Native returns the native address mode.
func (a AddressMode) Native() gputypes.AddressMode {
	switch a {
	case AddressClamp:
		return gputypes.AddressModeClampToEdge
	case AddressMirror:
		return gputypes.AddressModeMirrorRepeat
	default:
		return gputypes.AddressModeRepeat
	}
}

// SampleType describes how a shader samples a texture binding. Textures
// cache one sampler per sample type.
type SampleType uint8

// Sample types. SampleTypeDefault derives the type from the texture format.
const (
	SampleTypeDefault SampleType = iota
	SampleTypeFloat
	SampleTypeUnfilterableFloat
	SampleTypeDepth
	SampleTypeInt
	SampleTypeUint
)

func (s SampleType) String() string {
	switch s {
	case SampleTypeDefault:
		return "default"
	case SampleTypeFloat:
		return "float"
	case SampleTypeUnfilterableFloat:
		return "unfilterable-float"
	case SampleTypeDepth:
		return "depth"
	case SampleTypeInt:
		return "int"
	case SampleTypeUint:
		return "uint"
	default:
		return "unknown"
	}
}

// Native returns the native texture sample type for a binding of a texture
// with the given format. SampleTypeDefault resolves from the format.
func (s SampleType) Native(format PixelFormat) gputypes.TextureSampleType {
	switch s {
	case SampleTypeFloat:
		return gputypes.TextureSampleTypeFloat
	case SampleTypeUnfilterableFloat:
		return gputypes.TextureSampleTypeUnfilterableFloat
	case SampleTypeDepth:
		return gputypes.TextureSampleTypeDepth
	case SampleTypeInt:
		return gputypes.TextureSampleTypeSint
	case SampleTypeUint:
		return gputypes.TextureSampleTypeUint
	}
	switch {
	case format.IsDepth():
		return gputypes.TextureSampleTypeDepth
	case format.IsInteger():
		return gputypes.TextureSampleTypeUint
	case !format.IsFilterable():
		return gputypes.TextureSampleTypeUnfilterableFloat
	default:
		return gputypes.TextureSampleTypeFloat
	}
}
