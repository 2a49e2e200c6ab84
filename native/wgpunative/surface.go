// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpunative

import (
	"errors"
	"fmt"

	"github.com/gogpu/gfx/native"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
)

// Surface implements native.Surface over a wgpu surface.
type Surface struct {
	surface *wgpu.Surface
	device  *Device
	config  native.SurfaceConfiguration
	current *wgpu.SurfaceTexture
}

var _ native.Surface = (*Surface)(nil)

// WrapSurface wraps an existing wgpu surface.
func WrapSurface(s *wgpu.Surface) *Surface { return &Surface{surface: s} }

// Configure implements native.Surface.
func (s *Surface) Configure(device native.Device, config *native.SurfaceConfiguration) error {
	d, ok := device.(*Device)
	if !ok {
		return errForeign
	}
	err := s.surface.Configure(d.dev, &wgpu.SurfaceConfiguration{
		Width:       config.Width,
		Height:      config.Height,
		Format:      config.Format,
		Usage:       config.Usage,
		PresentMode: config.PresentMode,
		AlphaMode:   config.AlphaMode,
	})
	if err != nil {
		return fmt.Errorf("wgpunative: configure surface: %w", err)
	}
	s.device = d
	s.config = *config
	return nil
}

// AcquireTexture implements native.Surface.
func (s *Surface) AcquireTexture() (native.Texture, error) {
	st, _, err := s.surface.GetCurrentTexture()
	if err != nil {
		if errors.Is(err, wgpu.ErrSurfaceLost) || errors.Is(err, wgpu.ErrSurfaceOutdated) {
			return nil, native.ErrSurfaceLost
		}
		return nil, fmt.Errorf("wgpunative: acquire surface texture: %w", err)
	}
	s.current = st
	return &surfaceTexture{st: st, device: s.device, config: s.config}, nil
}

// Present implements native.Surface.
func (s *Surface) Present() error {
	if s.current == nil {
		return nil
	}
	err := s.surface.Present(s.current)
	s.current = nil
	if err != nil {
		return fmt.Errorf("wgpunative: present: %w", err)
	}
	return nil
}

// Release releases the wgpu surface.
func (s *Surface) Release() { s.surface.Release() }

// surfaceTexture adapts a wgpu surface texture. Its dimensions are those of
// the surface configuration; it cannot be copied or destroyed.
type surfaceTexture struct {
	st     *wgpu.SurfaceTexture
	device *Device
	config native.SurfaceConfiguration
}

func (t *surfaceTexture) Width() uint32                        { return t.config.Width }
func (t *surfaceTexture) Height() uint32                       { return t.config.Height }
func (t *surfaceTexture) DepthOrArrayLayers() uint32           { return 1 }
func (t *surfaceTexture) MipLevelCount() uint32                { return 1 }
func (t *surfaceTexture) SampleCount() uint32                  { return 1 }
func (t *surfaceTexture) Dimension() gputypes.TextureDimension { return gputypes.TextureDimension2D }
func (t *surfaceTexture) Format() gputypes.TextureFormat       { return t.config.Format }
func (t *surfaceTexture) Usage() gputypes.TextureUsage         { return t.config.Usage }
func (t *surfaceTexture) Destroy()                             {}

func (t *surfaceTexture) CreateView(desc *native.TextureViewDescriptor) (native.TextureView, error) {
	v, err := t.st.CreateView(viewDesc(desc))
	if err != nil {
		return nil, t.device.capture(fmt.Errorf("create surface view: %w", err))
	}
	return &TextureView{v: v}, nil
}
