// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package webgpu

import "github.com/gogpu/gputypes"

// ColorOps describes the load and store behaviour of one color attachment.
type ColorOps struct {
	// Clear clears the attachment to ClearValue; otherwise it is loaded.
	Clear      bool
	ClearValue gputypes.Color

	// Store keeps the rendered result; otherwise it is discarded.
	Store bool

	// Mipmaps regenerates the mip chain of the color buffer after the pass.
	Mipmaps bool
}

// DefaultColorOps loads and stores the attachment.
func DefaultColorOps() ColorOps { return ColorOps{Store: true} }

// DepthStencilOps describes the depth/stencil attachment behaviour.
type DepthStencilOps struct {
	ClearDepth      bool
	ClearDepthValue float32
	StoreDepth      bool

	ClearStencil      bool
	ClearStencilValue uint32
	StoreStencil      bool
}

// RenderPass is a portable description of one render pass. A nil Target
// renders into the framebuffer.
type RenderPass struct {
	Name            string
	Target          *RenderTarget
	ColorOps        []ColorOps
	DepthStencilOps DepthStencilOps
}

// NewRenderPass returns a pass into target that clears color to clear and
// depth to 1, and stores everything.
func NewRenderPass(name string, target *RenderTarget, clear gputypes.Color) *RenderPass {
	n := 1
	if target != nil && len(target.colorBuffers) > 0 {
		n = len(target.colorBuffers)
	}
	ops := make([]ColorOps, n)
	for i := range ops {
		ops[i] = ColorOps{Clear: true, ClearValue: clear, Store: true}
	}
	return &RenderPass{
		Name:     name,
		Target:   target,
		ColorOps: ops,
		DepthStencilOps: DepthStencilOps{
			ClearDepth:      true,
			ClearDepthValue: 1,
			ClearStencil:    true,
		},
	}
}

func (p *RenderPass) colorOps(i int) ColorOps {
	if p != nil && i < len(p.ColorOps) {
		return p.ColorOps[i]
	}
	return DefaultColorOps()
}
