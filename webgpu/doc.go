// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package webgpu implements the graphics device over the native WebGPU API.
//
// A GraphicsDevice owns the native device and queue, the framebuffer render
// target and the per-frame command buffer list. Resources (Buffer,
// IndexBuffer, VertexBuffer, UniformBuffer, Texture, RenderTarget) wrap
// exactly one native object each and are created lazily the first time the
// device needs them.
//
// # Frame lifecycle
//
//	dev.FrameStart()
//	for _, pass := range passes {
//	    dev.StartPass(pass)
//	    dev.SetShader(shader)
//	    dev.SetVertexBuffer(0, vb)
//	    dev.Draw(gfx.Primitive{Type: gfx.PrimitiveTriangles, Count: n}, 1)
//	    dev.EndPass(pass)
//	}
//	dev.FrameEnd()
//
// Each pass records into its own command encoder. Finished command buffers
// are queued in pass order and submitted together by Submit, which FrameEnd
// calls. Texture uploads call Submit before writing so prior passes keep
// their order relative to the upload.
//
// # Errors
//
// Contract violations at construction time (unsupported pixel format, 8-bit
// indices, wrong upload size) are returned as errors wrapping the sentinel
// values of this package. Native validation, out-of-memory and internal
// errors are captured by error scopes (see DebugValidation), resolved on
// background goroutines and logged through gfx.Logger with deduplication.
// They are never returned to the caller.
package webgpu
