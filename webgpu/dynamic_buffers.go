// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package webgpu

import (
	"fmt"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/native"
	"github.com/gogpu/gputypes"
)

// DynamicAllocation is a slice of per-frame uniform memory. Data is written
// by the caller and uploaded by DynamicBuffers.Submit.
type DynamicAllocation struct {
	Buffer native.Buffer
	Offset uint32
	Data   []byte
}

type dynamicPage struct {
	buf     native.Buffer
	data    []byte
	used    uint64
	written uint64
}

// DynamicBuffers is a ring of uniform pages recycled every frame.
//
// Alloc hands out aligned ranges from the current page, opening a new page
// when it is full. Submit writes the ranges allocated since the previous
// Submit with queue writes; the device calls it before submitting command
// buffers. OnFrameEnd returns all pages to the free list.
type DynamicBuffers struct {
	device   native.Device
	queue    native.Queue
	pageSize uint64
	align    uint64

	active []*dynamicPage
	free   []*dynamicPage
}

// NewDynamicBuffers creates a ring with the given page size. Allocation
// offsets are multiples of align.
func NewDynamicBuffers(device native.Device, pageSize, align uint32) *DynamicBuffers {
	return &DynamicBuffers{
		device:   device,
		queue:    device.Queue(),
		pageSize: uint64(pageSize),
		align:    uint64(max(align, 4)),
	}
}

// Alloc returns size bytes of uniform memory valid until the end of the
// frame.
func (d *DynamicBuffers) Alloc(size uint32) (DynamicAllocation, error) {
	need := roundUp4(uint64(size))
	var page *dynamicPage
	if n := len(d.active); n > 0 {
		p := d.active[n-1]
		if alignUp(p.used, d.align)+need <= uint64(len(p.data)) {
			page = p
		}
	}
	if page == nil {
		var err error
		if page, err = d.newPage(need); err != nil {
			return DynamicAllocation{}, err
		}
		d.active = append(d.active, page)
	}

	offset := alignUp(page.used, d.align)
	page.used = offset + need
	return DynamicAllocation{
		Buffer: page.buf,
		Offset: uint32(offset),
		Data:   page.data[offset : offset+need : offset+need],
	}, nil
}

func (d *DynamicBuffers) newPage(need uint64) (*dynamicPage, error) {
	for i, p := range d.free {
		if uint64(len(p.data)) >= need {
			d.free = append(d.free[:i], d.free[i+1:]...)
			return p, nil
		}
	}
	size := max(d.pageSize, alignUp(need, d.align))
	buf, err := d.device.CreateBuffer(&native.BufferDescriptor{
		Label: "dynamic-uniforms",
		Size:  size,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("webgpu: dynamic buffer page: %w", err)
	}
	gfx.Logger().Debug("webgpu: dynamic buffer page allocated", "size", size)
	return &dynamicPage{buf: buf, data: make([]byte, size)}, nil
}

// Submit writes every range allocated since the last Submit.
func (d *DynamicBuffers) Submit() {
	for _, p := range d.active {
		if p.used == p.written {
			continue
		}
		if err := d.queue.WriteBuffer(p.buf, p.written, p.data[p.written:p.used]); err != nil {
			gfx.Logger().Error("webgpu: dynamic buffer write failed", "err", err)
		}
		p.written = p.used
	}
}

// OnFrameEnd recycles all pages.
func (d *DynamicBuffers) OnFrameEnd() {
	for _, p := range d.active {
		p.used, p.written = 0, 0
	}
	d.free = append(d.free, d.active...)
	d.active = d.active[:0]
}

// Pages returns the number of allocated pages.
func (d *DynamicBuffers) Pages() int { return len(d.active) + len(d.free) }

// Destroy releases all pages.
func (d *DynamicBuffers) Destroy() {
	for _, p := range d.active {
		p.buf.Destroy()
	}
	for _, p := range d.free {
		p.buf.Destroy()
	}
	d.active, d.free = nil, nil
}

func alignUp(n, align uint64) uint64 { return (n + align - 1) / align * align }
