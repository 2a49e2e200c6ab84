// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpunative

import (
	"errors"
	"testing"

	"github.com/gogpu/gfx/native"
	"github.com/gogpu/gfx/webgpu"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
	"github.com/gogpu/wgpu/hal/noop"
)

// newNoopDevice opens a wgpu device over the no-op HAL.
func newNoopDevice(t *testing.T) *wgpu.Device {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		t.Fatal("noop instance exposes no adapters")
	}
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	d, err := wgpu.NewDeviceFromHAL(openDev.Device, openDev.Queue, 0, gputypes.DefaultLimits(), "noop")
	if err != nil {
		instance.Destroy()
		t.Fatalf("NewDeviceFromHAL failed: %v", err)
	}
	t.Cleanup(func() {
		d.Release()
		instance.Destroy()
	})
	return d
}

func TestDeviceCreateBuffer(t *testing.T) {
	dev := WrapDevice(newNoopDevice(t))
	buf, err := dev.CreateBuffer(&native.BufferDescriptor{
		Label: "vb",
		Size:  64,
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}
	defer buf.Destroy()

	if buf.Size() != 64 {
		t.Errorf("Size() = %d, want 64", buf.Size())
	}
	if buf.Usage()&gputypes.BufferUsageVertex == 0 {
		t.Errorf("Usage() = %v, missing Vertex", buf.Usage())
	}
}

func TestDeviceCreateTextureKeepsDescriptor(t *testing.T) {
	dev := WrapDevice(newNoopDevice(t))
	tex, err := dev.CreateTexture(&native.TextureDescriptor{
		Label:         "color",
		Size:          gputypes.Extent3D{Width: 32, Height: 16, DepthOrArrayLayers: 1},
		MipLevelCount: 3,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}
	defer tex.Destroy()

	if tex.Width() != 32 || tex.Height() != 16 || tex.MipLevelCount() != 3 {
		t.Errorf("dimensions = %dx%d mips %d, want 32x16 mips 3", tex.Width(), tex.Height(), tex.MipLevelCount())
	}
	if tex.Format() != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("Format() = %v, want RGBA8Unorm", tex.Format())
	}

	view, err := tex.CreateView(nil)
	if err != nil {
		t.Fatalf("CreateView: %v", err)
	}
	view.Destroy()
}

func TestErrorScopeEmpty(t *testing.T) {
	dev := WrapDevice(newNoopDevice(t))

	dev.PushErrorScope(native.ErrorFilterValidation)
	if err := <-dev.PopErrorScope(); err != nil {
		t.Errorf("PopErrorScope() = %v, want nil", err)
	}
}

func TestErrorScopePopWithoutPush(t *testing.T) {
	dev := WrapDevice(newNoopDevice(t))

	err := <-dev.PopErrorScope()
	var nerr *native.Error
	if !errors.As(err, &nerr) {
		t.Fatalf("PopErrorScope() = %v, want *native.Error", err)
	}
}

type foreignLayout struct{}

func (foreignLayout) Destroy() {}

func TestCreationErrorCapturedByScope(t *testing.T) {
	dev := WrapDevice(newNoopDevice(t))

	dev.PushErrorScope(native.ErrorFilterOutOfMemory)
	dev.PushErrorScope(native.ErrorFilterValidation)
	_, err := dev.CreateBindGroup(&native.BindGroupDescriptor{Label: "bad", Layout: foreignLayout{}})
	if !errors.Is(err, errForeign) {
		t.Fatalf("CreateBindGroup err = %v, want errForeign", err)
	}

	scoped := <-dev.PopErrorScope()
	var nerr *native.Error
	if !errors.As(scoped, &nerr) || nerr.Filter != native.ErrorFilterValidation {
		t.Errorf("validation scope = %v, want validation *native.Error", scoped)
	}
	if oom := <-dev.PopErrorScope(); oom != nil {
		t.Errorf("out-of-memory scope = %v, want nil", oom)
	}
}

type testProvider struct {
	dev gpucontext.Device
}

func (p testProvider) Device() gpucontext.Device   { return p.dev }
func (p testProvider) Queue() gpucontext.Queue     { return nil }
func (p testProvider) Adapter() gpucontext.Adapter { return nil }
func (p testProvider) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatBGRA8Unorm
}
func (p testProvider) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: "test", Type: gpucontext.AdapterTypeSoftware}
}

func TestFromProvider(t *testing.T) {
	wd := newNoopDevice(t)

	dev, format, err := FromProvider(testProvider{dev: wd})
	if err != nil {
		t.Fatalf("FromProvider: %v", err)
	}
	if format != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("format = %v, want BGRA8Unorm", format)
	}
	if dev.Unwrap() != wd {
		t.Error("FromProvider did not wrap the host device")
	}
	if dev.owned {
		t.Error("provider device marked as owned")
	}
}

func TestFromProviderRejectsForeignDevice(t *testing.T) {
	_, _, err := FromProvider(testProvider{dev: struct{}{}})
	if !errors.Is(err, ErrNotWGPU) {
		t.Errorf("FromProvider err = %v, want ErrNotWGPU", err)
	}
}

func TestDeviceTypeMapping(t *testing.T) {
	tests := []struct {
		in   gpucontext.AdapterType
		want gputypes.DeviceType
	}{
		{gpucontext.AdapterTypeDiscrete, gputypes.DeviceTypeDiscreteGPU},
		{gpucontext.AdapterTypeIntegrated, gputypes.DeviceTypeIntegratedGPU},
		{gpucontext.AdapterTypeSoftware, gputypes.DeviceTypeCPU},
		{gpucontext.AdapterTypeUnknown, gputypes.DeviceTypeOther},
	}
	for _, tt := range tests {
		if got := deviceType(tt.in); got != tt.want {
			t.Errorf("deviceType(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewGraphicsDeviceFromProvider(t *testing.T) {
	wd := newNoopDevice(t)

	opts := webgpu.DefaultDeviceOptions()
	opts.Width, opts.Height = 64, 32
	opts.Validation = false
	gd, err := NewGraphicsDeviceFromProvider(testProvider{dev: wd}, opts)
	if err != nil {
		t.Fatalf("NewGraphicsDeviceFromProvider: %v", err)
	}
	defer gd.Destroy()

	if gd.BackBufferFormat() != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("back buffer format = %v, want host format BGRA8Unorm", gd.BackBufferFormat())
	}
	caps := gd.Capabilities()
	if caps.AdapterName != "test" || caps.AdapterType != gputypes.DeviceTypeCPU {
		t.Errorf("capabilities adapter = %q/%v, want test/CPU", caps.AdapterName, caps.AdapterType)
	}
	if gd.Width() != 64 || gd.Height() != 32 {
		t.Errorf("size = %dx%d, want 64x32", gd.Width(), gd.Height())
	}
}

func TestNewGraphicsDeviceFromProviderRejectsForeignDevice(t *testing.T) {
	_, err := NewGraphicsDeviceFromProvider(testProvider{dev: struct{}{}}, webgpu.DefaultDeviceOptions())
	if !errors.Is(err, ErrNotWGPU) {
		t.Errorf("err = %v, want ErrNotWGPU", err)
	}
}
