// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package native defines the low-level GPU API the gfx device layer drives.
//
// The interfaces mirror a WebGPU-style API: an Instance yields an Adapter,
// which yields a Device with a Queue. Devices create resources (buffers,
// textures, samplers, shader modules, bind groups, pipelines) and command
// encoders; encoders record render passes and copies into command buffers
// that are submitted on the queue.
//
// Enumerations and plain structs (formats, usages, limits, blend and depth
// state) come from github.com/gogpu/gputypes so that implementations and
// callers share a single vocabulary.
//
// Resource lifecycle:
//   - Resources are created via Device.Create* methods
//   - Resources must be explicitly released via Destroy
//   - Destroying a resource while in use by a pending command buffer is
//     undefined behavior
//
// Error reporting follows WebGPU error scopes: Device.PushErrorScope starts
// capturing errors of one kind, Device.PopErrorScope returns a channel that
// receives the first captured error (or nil) once the scope resolves.
//
// Implementations: native/wgpunative (gogpu/wgpu).
package native
