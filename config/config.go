// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package config loads graphics device settings from TOML.
//
// A configuration file overrides the defaults field by field:
//
//	[device]
//	width = 1920
//	height = 1080
//	samples = 4
//
//	[cache]
//	pipeline_limit = 512
//
// Missing sections and keys keep their default values. Unknown keys are an
// error.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/gfx/webgpu"
	"github.com/gogpu/gputypes"
)

// Errors returned by Load and Parse.
var (
	ErrInvalid = errors.New("config: invalid value")
	ErrSyntax  = errors.New("config: malformed toml")
)

// Config is the root of a configuration file.
type Config struct {
	Device Device `toml:"device"`
	Cache  Cache  `toml:"cache"`
	Debug  Debug  `toml:"debug"`
}

// Device holds the device and framebuffer settings.
type Device struct {
	Label           string `toml:"label"`
	PowerPreference string `toml:"power_preference"`
	Width           uint32 `toml:"width"`
	Height          uint32 `toml:"height"`
	Format          string `toml:"format"`
	PresentMode     string `toml:"present_mode"`
	Depth           bool   `toml:"depth"`
	Stencil         bool   `toml:"stencil"`
	Samples         uint32 `toml:"samples"`
}

// Cache holds cache and per-frame memory sizes.
type Cache struct {
	PipelineLimit     int    `toml:"pipeline_limit"`
	DynamicBufferSize uint32 `toml:"dynamic_buffer_size"`
}

// Debug holds diagnostics switches.
type Debug struct {
	Validation bool `toml:"validation"`
	Profiler   bool `toml:"profiler"`
}

// Default returns the configuration matching webgpu.DefaultDeviceOptions.
func Default() Config {
	o := webgpu.DefaultDeviceOptions()
	return Config{
		Device: Device{
			Label:           o.Label,
			PowerPreference: "high-performance",
			Width:           o.Width,
			Height:          o.Height,
			PresentMode:     "fifo",
			Depth:           o.Depth,
			Stencil:         o.Stencil,
			Samples:         o.Samples,
		},
		Cache: Cache{
			PipelineLimit:     o.PipelineCacheLimit,
			DynamicBufferSize: o.DynamicBufferSize,
		},
		Debug: Debug{
			Validation: o.Validation,
			Profiler:   o.Profiler,
		},
	}
}

// Load reads and parses the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%w (%s)", err, path)
	}
	return cfg, nil
}

// Parse decodes data over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return Config{}, fmt.Errorf("%w: %d:%d: %s", ErrSyntax, row, col, derr.Error())
		}
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			return Config{}, fmt.Errorf("%w: %s", ErrInvalid, strings.TrimSpace(serr.String()))
		}
		return Config{}, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and enum names.
func (c Config) Validate() error {
	if c.Device.Width == 0 || c.Device.Height == 0 {
		return fmt.Errorf("%w: device size %dx%d", ErrInvalid, c.Device.Width, c.Device.Height)
	}
	switch c.Device.Samples {
	case 1, 4:
	default:
		return fmt.Errorf("%w: samples %d, want 1 or 4", ErrInvalid, c.Device.Samples)
	}
	if c.Device.Stencil && !c.Device.Depth {
		return fmt.Errorf("%w: stencil requires depth", ErrInvalid)
	}
	if c.Cache.PipelineLimit < 0 {
		return fmt.Errorf("%w: pipeline_limit %d", ErrInvalid, c.Cache.PipelineLimit)
	}
	if _, err := powerPreference(c.Device.PowerPreference); err != nil {
		return err
	}
	if _, err := textureFormat(c.Device.Format); err != nil {
		return err
	}
	if _, err := presentMode(c.Device.PresentMode); err != nil {
		return err
	}
	return nil
}

// DeviceOptions maps the configuration to device options. The surface is
// left for the caller to set.
func (c Config) DeviceOptions() (webgpu.DeviceOptions, error) {
	if err := c.Validate(); err != nil {
		return webgpu.DeviceOptions{}, err
	}
	pp, _ := powerPreference(c.Device.PowerPreference)
	format, _ := textureFormat(c.Device.Format)
	pm, _ := presentMode(c.Device.PresentMode)
	return webgpu.DeviceOptions{
		Label:              c.Device.Label,
		PowerPreference:    pp,
		Width:              c.Device.Width,
		Height:             c.Device.Height,
		BackBufferFormat:   format,
		PresentMode:        pm,
		Depth:              c.Device.Depth,
		Stencil:            c.Device.Stencil,
		Samples:            c.Device.Samples,
		Validation:         c.Debug.Validation,
		PipelineCacheLimit: c.Cache.PipelineLimit,
		DynamicBufferSize:  c.Cache.DynamicBufferSize,
		Profiler:           c.Debug.Profiler,
	}, nil
}

// Marshal encodes the configuration as TOML.
func (c Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return buf.Bytes(), nil
}

func powerPreference(s string) (gputypes.PowerPreference, error) {
	switch strings.ToLower(s) {
	case "", "high-performance":
		return gputypes.PowerPreferenceHighPerformance, nil
	case "low-power":
		return gputypes.PowerPreferenceLowPower, nil
	}
	return 0, fmt.Errorf("%w: power_preference %q", ErrInvalid, s)
}

func textureFormat(s string) (gputypes.TextureFormat, error) {
	switch strings.ToLower(s) {
	case "":
		return gputypes.TextureFormatUndefined, nil
	case "bgra8unorm":
		return gputypes.TextureFormatBGRA8Unorm, nil
	case "bgra8unorm-srgb":
		return gputypes.TextureFormatBGRA8UnormSrgb, nil
	case "rgba8unorm":
		return gputypes.TextureFormatRGBA8Unorm, nil
	case "rgba8unorm-srgb":
		return gputypes.TextureFormatRGBA8UnormSrgb, nil
	case "rgba16float":
		return gputypes.TextureFormatRGBA16Float, nil
	}
	return gputypes.TextureFormatUndefined, fmt.Errorf("%w: format %q", ErrInvalid, s)
}

func presentMode(s string) (gputypes.PresentMode, error) {
	switch strings.ToLower(s) {
	case "", "fifo":
		return gputypes.PresentModeFifo, nil
	case "immediate":
		return gputypes.PresentModeImmediate, nil
	case "mailbox":
		return gputypes.PresentModeMailbox, nil
	}
	return 0, fmt.Errorf("%w: present_mode %q", ErrInvalid, s)
}
