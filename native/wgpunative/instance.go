// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpunative

import (
	"context"
	"fmt"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/native"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
)

// Instance implements native.Instance over a wgpu instance.
type Instance struct {
	inst *wgpu.Instance
}

var _ native.Instance = (*Instance)(nil)

// NewInstance creates a wgpu instance with all registered backends.
func NewInstance() (*Instance, error) {
	inst, err := wgpu.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("wgpunative: create instance: %w", err)
	}
	return &Instance{inst: inst}, nil
}

// WrapInstance wraps an existing wgpu instance. The Instance takes ownership.
func WrapInstance(inst *wgpu.Instance) *Instance {
	return &Instance{inst: inst}
}

// CreateSurface creates a window surface from platform handles.
func (i *Instance) CreateSurface(displayHandle, windowHandle uintptr) (*Surface, error) {
	s, err := i.inst.CreateSurface(displayHandle, windowHandle)
	if err != nil {
		return nil, fmt.Errorf("wgpunative: create surface: %w", err)
	}
	return &Surface{surface: s}, nil
}

// RequestAdapter implements native.Instance. wgpu answers synchronously;
// the call still runs on its own goroutine so ctx can abandon it.
func (i *Instance) RequestAdapter(ctx context.Context, opts *native.RequestAdapterOptions) (native.Adapter, error) {
	wopts := &wgpu.RequestAdapterOptions{}
	if opts != nil {
		wopts.PowerPreference = opts.PowerPreference
		wopts.ForceFallbackAdapter = opts.ForceFallbackAdapter
		if s, ok := opts.CompatibleSurface.(*Surface); ok && s != nil {
			wopts.CompatibleSurface = s.surface
		}
	}

	a, err := await(ctx, func() (*wgpu.Adapter, error) { return i.inst.RequestAdapter(wopts) })
	if err != nil {
		return nil, fmt.Errorf("wgpunative: request adapter: %w", err)
	}
	info := a.Info()
	gfx.Logger().Info("wgpunative: adapter selected",
		"name", info.Name, "vendor", info.Vendor, "backend", info.Backend)
	return &Adapter{adapter: a}, nil
}

// Release implements native.Instance.
func (i *Instance) Release() {
	if i.inst != nil {
		i.inst.Release()
		i.inst = nil
	}
}

// Adapter implements native.Adapter.
type Adapter struct {
	adapter *wgpu.Adapter
}

func (a *Adapter) Info() gputypes.AdapterInfo  { return a.adapter.Info() }
func (a *Adapter) Features() gputypes.Features { return a.adapter.Features() }
func (a *Adapter) Limits() gputypes.Limits     { return a.adapter.Limits() }

// RequestDevice implements native.Adapter.
func (a *Adapter) RequestDevice(ctx context.Context, desc *native.DeviceDescriptor) (native.Device, error) {
	wdesc := &wgpu.DeviceDescriptor{
		Label:            desc.Label,
		RequiredFeatures: desc.RequiredFeatures,
		RequiredLimits:   desc.RequiredLimits,
	}
	d, err := await(ctx, func() (*wgpu.Device, error) { return a.adapter.RequestDevice(wdesc) })
	if err != nil {
		return nil, fmt.Errorf("wgpunative: request device: %w", err)
	}
	return WrapDevice(d), nil
}

// SurfaceFormats implements native.Adapter.
func (a *Adapter) SurfaceFormats(surface native.Surface) []gputypes.TextureFormat {
	s, ok := surface.(*Surface)
	if !ok || s == nil {
		return nil
	}
	caps := a.adapter.GetSurfaceCapabilities(s.surface)
	if caps == nil {
		return nil
	}
	return caps.Formats
}

// Release implements native.Adapter.
func (a *Adapter) Release() { a.adapter.Release() }

// await runs fn on a goroutine and returns its result, or ctx's error if ctx
// is done first.
func await[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn()
		ch <- result{v, err}
	}()
	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
