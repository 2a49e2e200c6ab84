// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpunative

import (
	"errors"
	"fmt"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/webgpu"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
)

// ErrNotWGPU is returned by FromProvider when the host's device is not a
// gogpu/wgpu device.
var ErrNotWGPU = errors.New("wgpunative: provider device is not a *wgpu.Device")

// FromProvider wraps the device of a host implementing
// gpucontext.DeviceProvider. The returned Device is borrowed: Release does
// not release the host's device. The second result is the host's preferred
// surface format, TextureFormatUndefined when the host is headless.
func FromProvider(p gpucontext.DeviceProvider) (*Device, gputypes.TextureFormat, error) {
	if p == nil {
		return nil, gputypes.TextureFormatUndefined, fmt.Errorf("wgpunative: nil provider")
	}
	d, ok := p.Device().(*wgpu.Device)
	if !ok || d == nil {
		return nil, gputypes.TextureFormatUndefined, fmt.Errorf("%w (got %T)", ErrNotWGPU, p.Device())
	}

	dev := WrapDevice(d)
	dev.owned = false

	info := p.AdapterInfo()
	gfx.Logger().Info("wgpunative: using host device", "adapter", info.Name, "type", info.Type)
	return dev, p.SurfaceFormat(), nil
}

// NewGraphicsDeviceFromProvider builds a graphics device over the host's
// device. The host keeps ownership of the native device; opts.Surface is
// normally nil since the host presents. An undefined back buffer format in
// opts takes the host's surface format.
func NewGraphicsDeviceFromProvider(p gpucontext.DeviceProvider, opts webgpu.DeviceOptions) (*webgpu.GraphicsDevice, error) {
	dev, format, err := FromProvider(p)
	if err != nil {
		return nil, err
	}
	if opts.BackBufferFormat == gputypes.TextureFormatUndefined {
		opts.BackBufferFormat = format
	}
	host := p.AdapterInfo()
	info := gputypes.AdapterInfo{Name: host.Name, DeviceType: deviceType(host.Type)}
	return webgpu.NewGraphicsDeviceFromNative(dev, info, opts)
}

func deviceType(t gpucontext.AdapterType) gputypes.DeviceType {
	switch t {
	case gpucontext.AdapterTypeDiscrete:
		return gputypes.DeviceTypeDiscreteGPU
	case gpucontext.AdapterTypeIntegrated:
		return gputypes.DeviceTypeIntegratedGPU
	case gpucontext.AdapterTypeSoftware:
		return gputypes.DeviceTypeCPU
	default:
		return gputypes.DeviceTypeOther
	}
}
