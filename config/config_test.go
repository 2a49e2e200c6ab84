// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/gfx/webgpu"
	"github.com/gogpu/gputypes"
)

func TestDefaultMatchesDeviceOptions(t *testing.T) {
	opts, err := Default().DeviceOptions()
	if err != nil {
		t.Fatalf("DeviceOptions: %v", err)
	}
	if opts != webgpu.DefaultDeviceOptions() {
		t.Errorf("default options = %+v\nwant %+v", opts, webgpu.DefaultDeviceOptions())
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
[device]
width = 1920
height = 1080
format = "RGBA8Unorm"
samples = 4
present_mode = "mailbox"
power_preference = "low-power"

[cache]
pipeline_limit = 512

[debug]
profiler = true
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	opts, err := cfg.DeviceOptions()
	if err != nil {
		t.Fatalf("DeviceOptions: %v", err)
	}
	if opts.Width != 1920 || opts.Height != 1080 || opts.Samples != 4 {
		t.Errorf("size %dx%d x%d", opts.Width, opts.Height, opts.Samples)
	}
	if opts.BackBufferFormat != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("format = %v", opts.BackBufferFormat)
	}
	if opts.PresentMode != gputypes.PresentModeMailbox || opts.PowerPreference != gputypes.PowerPreferenceLowPower {
		t.Errorf("present %v power %v", opts.PresentMode, opts.PowerPreference)
	}
	if opts.PipelineCacheLimit != 512 || !opts.Profiler {
		t.Errorf("cache %d profiler %t", opts.PipelineCacheLimit, opts.Profiler)
	}
	// Keys not in the file keep their defaults.
	def := webgpu.DefaultDeviceOptions()
	if opts.Label != def.Label || !opts.Depth || !opts.Stencil || !opts.Validation || opts.DynamicBufferSize != def.DynamicBufferSize {
		t.Errorf("defaults lost: %+v", opts)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		toml string
		want error
	}{
		{"syntax", "[device\nwidth = 1", ErrSyntax},
		{"wrong type", "[device]\nwidth = \"wide\"", ErrSyntax},
		{"unknown key", "[device]\nvsync = true", ErrInvalid},
		{"zero width", "[device]\nwidth = 0", ErrInvalid},
		{"samples", "[device]\nsamples = 2", ErrInvalid},
		{"stencil without depth", "[device]\ndepth = false", ErrInvalid},
		{"format", "[device]\nformat = \"r8unorm\"", ErrInvalid},
		{"present mode", "[device]\npresent_mode = \"vsync\"", ErrInvalid},
		{"power", "[device]\npower_preference = \"max\"", ErrInvalid},
		{"pipeline limit", "[cache]\npipeline_limit = -1", ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.toml))
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gfx.toml")
	if err := os.WriteFile(path, []byte("[device]\nwidth = 640\nheight = 480\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Device.Width != 640 || cfg.Device.Height != 480 {
		t.Errorf("size = %dx%d", cfg.Device.Width, cfg.Device.Height)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file err = %v", err)
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("[device]\nsamples = 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); !errors.Is(err, ErrInvalid) || !strings.Contains(err.Error(), bad) {
		t.Errorf("invalid file err = %v", err)
	}
}

func TestMarshalParses(t *testing.T) {
	cfg := Default()
	cfg.Device.Samples = 4
	cfg.Device.Format = "bgra8unorm"
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(%s): %v", data, err)
	}
	if got != cfg {
		t.Errorf("parsed %+v, want %+v", got, cfg)
	}
}
