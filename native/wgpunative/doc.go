// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wgpunative implements the native GPU interfaces over
// github.com/gogpu/wgpu, the pure-Go WebGPU implementation.
//
// Backends are registered by import, as with database/sql drivers:
//
//	import _ "github.com/gogpu/wgpu/hal/allbackends"
//
//	instance, err := wgpunative.NewInstance()
//
// Hosts that already own a wgpu device (for example a gogpu application)
// pass it through gpucontext.DeviceProvider:
//
//	dev, format, err := wgpunative.FromProvider(provider)
//
// wgpu reports resource creation failures as returned errors rather than
// through error scopes. Device routes those errors into its own scope stack
// so that callers observe them the same way as errors wgpu captures itself.
package wgpunative
