// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command gfxinfo opens a headless graphics device, prints its capabilities
// and renders a few frames into an offscreen target.
//
// With -watch it keeps running and validates WGSL files in a directory as
// they change.
package main

import (
	"context"
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/config"
	"github.com/gogpu/gfx/native/wgpunative"
	"github.com/gogpu/gfx/webgpu"
	"github.com/gogpu/gputypes"
)

const triangleShader = `
@vertex
fn vs(@location(0) pos: vec2<f32>) -> @builtin(position) vec4<f32> {
    return vec4<f32>(pos, 0.0, 1.0);
}

@fragment
fn fs() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 0.5, 0.0, 1.0);
}
`

func main() {
	var (
		configPath = flag.String("config", "", "TOML configuration file")
		frames     = flag.Int("frames", 3, "frames to render")
		samples    = flag.Uint("samples", 0, "override the antialias sample count")
		watchDir   = flag.String("watch", "", "validate WGSL files in this directory as they change")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	logger := newLogger(os.Stderr, *verbose)
	gfx.SetLogger(slog.New(logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Stdout, *configPath, *frames, uint32(*samples), *watchDir); err != nil {
		logger.Fatal("gfxinfo failed", "err", err)
	}
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "gfxinfo",
	})
	if verbose {
		l.SetLevel(log.DebugLevel)
	}
	return l
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func run(ctx context.Context, out io.Writer, configPath string, frames int, samples uint32, watchDir string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if samples != 0 {
		cfg.Device.Samples = samples
	}
	opts, err := cfg.DeviceOptions()
	if err != nil {
		return err
	}

	inst, err := wgpunative.NewInstance()
	if err != nil {
		return err
	}
	defer inst.Release()

	dev, err := webgpu.NewGraphicsDevice(ctx, inst, opts)
	if err != nil {
		return err
	}
	defer dev.Destroy()

	printInfo(out, dev)

	if err := renderFrames(dev, frames); err != nil {
		return err
	}
	printStats(out, dev)

	if watchDir == "" {
		return nil
	}
	return watchShaders(ctx, watchDir, dev)
}

func printInfo(w io.Writer, dev *webgpu.GraphicsDevice) {
	c := dev.Capabilities()
	fmt.Fprintf(w, "device      %s\n", dev.ID())
	fmt.Fprintf(w, "adapter     %s (%v)\n", c.AdapterName, c.AdapterType)
	fmt.Fprintf(w, "backbuffer  %dx%d %v\n", dev.Width(), dev.Height(), dev.BackBufferFormat())
	fmt.Fprintf(w, "textures    2D %d, cube %d, 3D %d, layers %d\n", c.MaxTextureSize, c.MaxCubeMapSize, c.MaxVolumeSize, c.MaxArrayLayers)
	fmt.Fprintf(w, "attachments %d color, %d vertex buffers\n", c.MaxColorAttachments, c.MaxVertexBuffers)
	fmt.Fprintf(w, "uniform     offset alignment %d\n", c.UniformOffsetAlignment)
	fmt.Fprintf(w, "features    bc=%t etc2=%t astc=%t f32filter=%t d32s8=%t rg11b10=%t timestamps=%t\n",
		c.TextureCompressionBC, c.TextureCompressionETC2, c.TextureCompressionASTC,
		c.Float32Filterable, c.Depth32FloatStencil8, c.RG11B10Renderable, c.TimestampQuery)
}

func printStats(w io.Writer, dev *webgpu.GraphicsDevice) {
	s := dev.Stats()
	fmt.Fprintf(w, "frame       %d: %d passes, %d draws, %d pipeline switches, %d submits\n",
		s.Frame, s.Passes, s.DrawCalls, s.PipelineSwitches, s.Submissions)
	v := dev.VRAM()
	fmt.Fprintf(w, "vram        %d bytes (textures %d, targets %d, vertex %d, index %d, uniform %d)\n",
		v.Total(), v.Textures, v.RenderTargets, v.Vertex, v.Index, v.Uniform)
	for _, p := range dev.ProfilerResults() {
		fmt.Fprintf(w, "pass        %-12s %v\n", p.Name, p.Duration)
	}
}

func triangleVertices() []byte {
	pos := []float32{0, 0.5, -0.5, -0.5, 0.5, -0.5}
	data := make([]byte, 4*len(pos))
	for i, f := range pos {
		binary.LittleEndian.PutUint32(data[4*i:], math.Float32bits(f))
	}
	return data
}

// renderFrames draws a triangle into an offscreen target and the back
// buffer, then copies the offscreen color into a second target.
func renderFrames(dev *webgpu.GraphicsDevice, frames int) error {
	shader := webgpu.NewShader(dev, webgpu.ShaderDescriptor{Name: "triangle", Source: triangleShader})
	if shader.Failed() {
		return shader.Err()
	}
	defer shader.Destroy()

	vf := gfx.NewVertexFormat([]gfx.VertexElement{
		{Semantic: "POSITION", Location: 0, Components: 2, Type: gfx.TypeFloat32},
	}, true, 3)
	vb := webgpu.NewVertexBuffer(dev, vf, 3, webgpu.BufferStatic, triangleVertices())
	defer vb.Destroy(dev)

	offscreen, err := newOffscreen(dev, "offscreen", dev.Width()/2, dev.Height()/2)
	if err != nil {
		return err
	}
	defer destroyTarget(dev, offscreen)
	copyDst, err := newOffscreen(dev, "copy", dev.Width()/2, dev.Height()/2)
	if err != nil {
		return err
	}
	defer destroyTarget(dev, copyDst)

	for range frames {
		if err := dev.FrameStart(); err != nil {
			return err
		}
		for _, rt := range []*webgpu.RenderTarget{offscreen, nil} {
			var pass *webgpu.RenderPass
			if rt != nil {
				pass = webgpu.NewRenderPass(rt.Name(), rt, gputypes.Color{R: 0.1, G: 0.1, B: 0.2, A: 1})
			}
			if err := dev.StartPass(pass); err != nil {
				return err
			}
			dev.SetShader(shader)
			dev.SetVertexBuffer(0, vb)
			if err := dev.Draw(gfx.Primitive{Type: gfx.PrimitiveTriangles, Count: 3}, 1); err != nil {
				return err
			}
			if err := dev.EndPass(pass); err != nil {
				return err
			}
		}
		if err := dev.CopyRenderTarget(offscreen, copyDst, true, false); err != nil {
			return err
		}
		if err := dev.FrameEnd(); err != nil {
			return err
		}
	}
	return nil
}

func newOffscreen(dev *webgpu.GraphicsDevice, name string, w, h uint32) (*webgpu.RenderTarget, error) {
	tex, err := webgpu.NewTexture(dev, webgpu.TextureOptions{
		Name:   name,
		Width:  max(w, 1),
		Height: max(h, 1),
		Format: gfx.PixelFormatRGBA8,
	})
	if err != nil {
		return nil, err
	}
	return webgpu.NewRenderTarget(webgpu.RenderTargetOptions{
		Name:         name,
		ColorBuffers: []*webgpu.Texture{tex},
		Depth:        true,
	}), nil
}

func destroyTarget(dev *webgpu.GraphicsDevice, rt *webgpu.RenderTarget) {
	color := rt.ColorBuffer(0)
	rt.Destroy(dev)
	color.Destroy(dev)
}
