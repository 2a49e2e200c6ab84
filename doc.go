// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gfx provides the portable vocabulary of a WebGPU graphics device layer.
//
// # Overview
//
// gfx maps a portable graphics API (buffers, textures, render targets,
// render passes, pipelines) onto a native WebGPU-style API. This root package
// holds the device-agnostic types a renderer works with: pixel formats and
// their native mapping, vertex and index formats, primitive types, and the
// blend, depth, stencil and sampler state descriptions.
//
// The device itself lives in the webgpu sub-package:
//
//	import (
//	    "github.com/gogpu/gfx"
//	    "github.com/gogpu/gfx/native/wgpunative"
//	    "github.com/gogpu/gfx/webgpu"
//	)
//
//	instance, err := wgpunative.NewInstance()
//	dev, err := webgpu.NewGraphicsDevice(ctx, instance, webgpu.DefaultDeviceOptions())
//	defer dev.Destroy()
//
//	dev.FrameStart()
//	dev.StartPass(pass)
//	dev.Draw(gfx.Primitive{Type: gfx.PrimitiveTriangles, Count: 3}, 1)
//	dev.EndPass(pass)
//	dev.FrameEnd()
//
// # Architecture
//
// The repository is organized into:
//   - gfx: portable formats and render state
//   - native: the native GPU API surface as Go interfaces
//   - native/wgpunative: native implementation over gogpu/wgpu
//   - webgpu: device, resources, render targets, validation scopes
//   - config: TOML device configuration
//   - cmd/gfxinfo: capability dump, headless frames, WGSL watch
//
// # Logging
//
// gfx produces no log output by default. Call [SetLogger] to enable it.
package gfx

// Version is the library version.
const Version = "0.1.0"
