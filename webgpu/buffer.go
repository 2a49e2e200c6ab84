// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package webgpu

import (
	"fmt"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/native"
	"github.com/gogpu/gputypes"
)

// BufferUsage hints how often the CPU contents of a buffer change.
type BufferUsage uint8

// Buffer usage hints.
const (
	BufferStatic BufferUsage = iota
	BufferDynamic
	BufferStream
)

func (u BufferUsage) String() string {
	switch u {
	case BufferStatic:
		return "static"
	case BufferDynamic:
		return "dynamic"
	case BufferStream:
		return "stream"
	default:
		return "unknown"
	}
}

// Buffer owns one native buffer and keeps it in sync with CPU bytes.
//
// The native buffer is sized to the upload rounded up to 4 bytes. When an
// upload needs a different size the buffer is destroyed and recreated, never
// resized in place.
type Buffer struct {
	label string

	buf    native.Buffer
	size   uint64
	target gputypes.BufferUsage

	staging     []byte
	initialized bool
}

// NewBuffer returns an empty buffer. The native buffer is created by the
// first Unlock.
func NewBuffer(label string) *Buffer {
	return &Buffer{label: label}
}

// Native returns the native buffer, or nil before the first upload or when
// allocation failed.
func (b *Buffer) Native() native.Buffer { return b.buf }

// Size returns the allocated byte size.
func (b *Buffer) Size() uint64 { return b.size }

// Initialized reports whether the buffer holds uploaded data.
func (b *Buffer) Initialized() bool { return b.initialized }

// Unlock uploads data to the native buffer, allocating it with usage
// target|CopyDst if it does not exist or its size differs from
// roundUp4(len(data)). The data is copied into a staging slice padded to the
// allocated size and written through the queue. The write is enqueued, not
// complete, when Unlock returns.
//
// Allocation failures are reported through the device's out-of-memory
// scope; the buffer then stays without native backing.
func (b *Buffer) Unlock(dev *GraphicsDevice, target gputypes.BufferUsage, data []byte) {
	size := roundUp4(uint64(len(data)))
	if size == 0 {
		return
	}

	if b.buf == nil || b.size != size || b.target != target {
		b.destroyNative(dev)

		desc := native.BufferDescriptor{
			Label: b.label,
			Size:  size,
			Usage: target | gputypes.BufferUsageCopyDst,
		}
		dev.validation.Memory()
		buf, err := dev.device.CreateBuffer(&desc)
		dev.validation.End(desc)
		if err != nil || buf == nil {
			gfx.Logger().Debug("webgpu: buffer has no native backing", "label", b.label, "size", size, "err", err)
			return
		}
		b.buf, b.size, b.target = buf, size, target
		dev.vram.addBuffer(target, size)
		gfx.Logger().Debug("webgpu: buffer allocated", "label", b.label, "size", size)
	}

	if uint64(cap(b.staging)) < size {
		b.staging = make([]byte, size)
	}
	b.staging = b.staging[:size]
	n := copy(b.staging, data)
	clear(b.staging[n:])

	if err := dev.queue.WriteBuffer(b.buf, 0, b.staging); err != nil {
		gfx.Logger().Error("webgpu: buffer write failed", "label", b.label, "err", err)
		return
	}
	b.initialized = true
}

// Destroy releases the native buffer. It is safe to call more than once.
func (b *Buffer) Destroy(dev *GraphicsDevice) {
	b.destroyNative(dev)
	b.staging = nil
}

func (b *Buffer) destroyNative(dev *GraphicsDevice) {
	if b.buf == nil {
		return
	}
	b.buf.Destroy()
	if dev != nil {
		dev.vram.subBuffer(b.target, b.size)
	}
	b.buf = nil
	b.size = 0
	b.initialized = false
}

// IndexBuffer is a buffer of 16 or 32-bit indices with CPU storage.
type IndexBuffer struct {
	Buffer

	format       gfx.IndexFormat
	nativeFormat gputypes.IndexFormat
	numIndices   uint32
	usage        BufferUsage
	storage      []byte
}

// NewIndexBuffer creates an index buffer of numIndices indices. 8-bit
// indices have no native equivalent and fail with ErrUnsupportedIndexFormat
// before any native call. When data is non-nil it becomes the CPU storage
// and is uploaded immediately.
func NewIndexBuffer(dev *GraphicsDevice, format gfx.IndexFormat, numIndices uint32, usage BufferUsage, data []byte) (*IndexBuffer, error) {
	nf, ok := format.Native()
	if !ok {
		return nil, fmt.Errorf("%w: %d-bit indices", ErrUnsupportedIndexFormat, format.Size()*8)
	}
	ib := &IndexBuffer{
		Buffer:       Buffer{label: "index-buffer"},
		format:       format,
		nativeFormat: nf,
		numIndices:   numIndices,
		usage:        usage,
	}
	if data != nil {
		ib.storage = data
		ib.Unlock(dev)
	} else {
		ib.storage = make([]byte, numIndices*format.Size())
	}
	return ib, nil
}

// Format returns the portable index format.
func (ib *IndexBuffer) Format() gfx.IndexFormat { return ib.format }

// NativeFormat returns the native index format.
func (ib *IndexBuffer) NativeFormat() gputypes.IndexFormat { return ib.nativeFormat }

// NumIndices returns the index count.
func (ib *IndexBuffer) NumIndices() uint32 { return ib.numIndices }

// Lock returns the CPU storage for writing. Call Unlock to upload it.
func (ib *IndexBuffer) Lock() []byte { return ib.storage }

// Unlock uploads the CPU storage.
func (ib *IndexBuffer) Unlock(dev *GraphicsDevice) {
	ib.Buffer.Unlock(dev, gputypes.BufferUsageIndex, ib.storage)
}

// VertexBuffer is a buffer of vertices laid out by a gfx.VertexFormat.
// The device binds it at draw time using the format's element offsets; the
// buffer does not validate the layout itself.
type VertexBuffer struct {
	Buffer

	format      *gfx.VertexFormat
	numVertices uint32
	usage       BufferUsage
	storage     []byte
}

// NewVertexBuffer creates a vertex buffer for numVertices vertices. When
// data is non-nil it becomes the CPU storage and is uploaded immediately.
func NewVertexBuffer(dev *GraphicsDevice, format *gfx.VertexFormat, numVertices uint32, usage BufferUsage, data []byte) *VertexBuffer {
	vb := &VertexBuffer{
		Buffer:      Buffer{label: "vertex-buffer"},
		format:      format,
		numVertices: numVertices,
		usage:       usage,
	}
	if data != nil {
		vb.storage = data
		vb.Unlock(dev)
		return vb
	}
	size := format.Size * numVertices
	if !format.Interleaved {
		size = format.ByteSize()
	}
	vb.storage = make([]byte, size)
	return vb
}

// Format returns the vertex format.
func (vb *VertexBuffer) Format() *gfx.VertexFormat { return vb.format }

// NumVertices returns the vertex count.
func (vb *VertexBuffer) NumVertices() uint32 { return vb.numVertices }

// Lock returns the CPU storage for writing. Call Unlock to upload it.
func (vb *VertexBuffer) Lock() []byte { return vb.storage }

// Unlock uploads the CPU storage.
func (vb *VertexBuffer) Unlock(dev *GraphicsDevice) {
	vb.Buffer.Unlock(dev, gputypes.BufferUsageVertex, vb.storage)
}

// UniformBuffer holds shader uniforms. A persistent uniform buffer owns a
// native buffer; a dynamic one is re-allocated from the device's per-frame
// dynamic buffers on every Update and binds with a dynamic offset.
type UniformBuffer struct {
	Buffer

	dynamic bool
	storage []byte
	alloc   DynamicAllocation
}

// NewUniformBuffer creates a uniform buffer of size bytes.
func NewUniformBuffer(size uint32, dynamic bool) *UniformBuffer {
	return &UniformBuffer{
		Buffer:  Buffer{label: "uniform-buffer"},
		dynamic: dynamic,
		storage: make([]byte, roundUp4(uint64(size))),
	}
}

// Dynamic reports whether the buffer binds from dynamic memory.
func (ub *UniformBuffer) Dynamic() bool { return ub.dynamic }

// Data returns the CPU storage. Call Update to make changes visible.
func (ub *UniformBuffer) Data() []byte { return ub.storage }

// Write copies data into the CPU storage at offset.
func (ub *UniformBuffer) Write(offset int, data []byte) {
	copy(ub.storage[offset:], data)
}

// Update uploads the CPU storage. Dynamic buffers take a fresh allocation
// from the device's dynamic buffers.
func (ub *UniformBuffer) Update(dev *GraphicsDevice) error {
	if !ub.dynamic {
		ub.Unlock(dev, gputypes.BufferUsageUniform, ub.storage)
		return nil
	}
	alloc, err := dev.dynamic.Alloc(uint32(len(ub.storage)))
	if err != nil {
		return err
	}
	copy(alloc.Data, ub.storage)
	ub.alloc = alloc
	return nil
}

// binding returns the native buffer, the bound size and the dynamic offset.
func (ub *UniformBuffer) binding() (native.Buffer, uint64, uint32) {
	if ub.dynamic {
		return ub.alloc.Buffer, uint64(len(ub.storage)), ub.alloc.Offset
	}
	return ub.buf, ub.size, 0
}

func roundUp4(n uint64) uint64 { return (n + 3) &^ 3 }
