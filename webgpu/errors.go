// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package webgpu

import "errors"

var (
	// ErrUnsupportedFormat is returned when a pixel format has no native
	// equivalent or needs a feature the device lacks.
	ErrUnsupportedFormat = errors.New("webgpu: unsupported pixel format")

	// ErrUnsupportedIndexFormat is returned for 8-bit index buffers.
	ErrUnsupportedIndexFormat = errors.New("webgpu: unsupported index format")

	// ErrUploadSizeMismatch is returned when raw texture data does not match
	// the size of the mip level it is uploaded to.
	ErrUploadSizeMismatch = errors.New("webgpu: texture upload size mismatch")

	// ErrMultisampledDepthCopy is returned when copying depth from or into
	// a multisampled render target. A multisampled depth buffer can only be
	// read through a resolve shader, which this package does not provide.
	ErrMultisampledDepthCopy = errors.New("webgpu: cannot copy depth of a multisampled render target")

	// ErrPassActive is returned by operations that must run outside a
	// render pass.
	ErrPassActive = errors.New("webgpu: render pass in progress")

	// ErrNoPass is returned by EndPass without a matching StartPass.
	ErrNoPass = errors.New("webgpu: no render pass in progress")

	// ErrShaderFailed is returned when WGSL source does not compile.
	ErrShaderFailed = errors.New("webgpu: shader compilation failed")

	// ErrDeviceDestroyed is returned by operations on a destroyed device.
	ErrDeviceDestroyed = errors.New("webgpu: device destroyed")
)

// ErrTextureNotCreated is returned when a view is requested from a texture
// whose native texture does not exist yet.
var ErrTextureNotCreated = errors.New("webgpu: texture has no native texture")

// ErrNoFrame is returned when the framebuffer is used outside
// FrameStart/FrameEnd.
var ErrNoFrame = errors.New("webgpu: framebuffer used outside a frame")
