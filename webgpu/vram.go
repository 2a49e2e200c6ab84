// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package webgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// VRAM is an estimate of GPU memory held by device resources, in bytes.
type VRAM struct {
	Textures      uint64
	RenderTargets uint64
	Vertex        uint64
	Index         uint64
	Uniform       uint64
	Storage       uint64
}

// Total returns the sum of all categories.
func (v VRAM) Total() uint64 {
	return v.Textures + v.RenderTargets + v.Vertex + v.Index + v.Uniform + v.Storage
}

func (v VRAM) String() string {
	const mb = 1024 * 1024
	return fmt.Sprintf("VRAM[%.2f MB: tex %.2f, rt %.2f, vb %.2f, ib %.2f, ub %.2f, sb %.2f]",
		float64(v.Total())/mb, float64(v.Textures)/mb, float64(v.RenderTargets)/mb,
		float64(v.Vertex)/mb, float64(v.Index)/mb, float64(v.Uniform)/mb, float64(v.Storage)/mb)
}

// bufferCounter returns the category a buffer of the given usage counts
// toward.
func (v *VRAM) bufferCounter(usage gputypes.BufferUsage) *uint64 {
	switch {
	case usage&gputypes.BufferUsageVertex != 0:
		return &v.Vertex
	case usage&gputypes.BufferUsageIndex != 0:
		return &v.Index
	case usage&gputypes.BufferUsageUniform != 0:
		return &v.Uniform
	default:
		return &v.Storage
	}
}

func (v *VRAM) addBuffer(usage gputypes.BufferUsage, size uint64) {
	*v.bufferCounter(usage) += size
}

func (v *VRAM) subBuffer(usage gputypes.BufferUsage, size uint64) {
	c := v.bufferCounter(usage)
	*c -= min(*c, size)
}

func sub(c *uint64, size uint64) { *c -= min(*c, size) }
