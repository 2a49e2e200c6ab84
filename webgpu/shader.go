// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package webgpu

import (
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/internal/cache"
	"github.com/gogpu/gfx/native"
)

// ShaderDescriptor describes a WGSL shader. Empty entry names select the
// first vertex and fragment entry points of the source.
type ShaderDescriptor struct {
	Name          string
	Source        string
	VertexEntry   string
	FragmentEntry string
}

// ShaderInfo is the result of checking WGSL source.
type ShaderInfo struct {
	VertexEntry   string
	FragmentEntry string

	// Diagnostics are validator messages that did not prevent lowering.
	Diagnostics []string
}

// reflections memoizes ParseWGSL by source text.
var reflections = cache.NewSharded[string, *ShaderInfo](64)

// ParseWGSL parses, lowers and validates WGSL source and finds its entry
// points. Parse and lowering failures are errors; validator findings are
// returned as diagnostics. Results for the same source are cached; failures
// are not. ParseWGSL is safe for concurrent use.
func ParseWGSL(source string) (*ShaderInfo, error) {
	info, err := reflections.GetOrCreate(source, func() (*ShaderInfo, error) {
		return parseWGSL(source)
	})
	if err != nil {
		return nil, err
	}
	c := *info
	c.Diagnostics = slices.Clone(info.Diagnostics)
	return &c, nil
}

func parseWGSL(source string) (*ShaderInfo, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%w: parse: %w", ErrShaderFailed, err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, fmt.Errorf("%w: lower: %w", ErrShaderFailed, err)
	}

	info := &ShaderInfo{}
	if verrs, err := naga.Validate(module); err != nil {
		info.Diagnostics = append(info.Diagnostics, err.Error())
	} else {
		for _, v := range verrs {
			info.Diagnostics = append(info.Diagnostics, v.Message)
		}
	}

	for _, ep := range module.EntryPoints {
		switch ep.Stage {
		case ir.StageVertex:
			if info.VertexEntry == "" {
				info.VertexEntry = ep.Name
			}
		case ir.StageFragment:
			if info.FragmentEntry == "" {
				info.FragmentEntry = ep.Name
			}
		}
	}
	return info, nil
}

var shaderIDs atomic.Uint64

// Shader is a WGSL shader module with its vertex and fragment entry points.
// A shader whose source does not parse, or has no vertex entry point, is
// failed and never drawn with.
type Shader struct {
	id            uint64
	name          string
	vertexEntry   string
	fragmentEntry string

	module native.ShaderModule
	err    error
}

// NewShader checks desc.Source and creates the native module. Failures are
// logged and recorded; the returned shader is then Failed.
func NewShader(dev *GraphicsDevice, desc ShaderDescriptor) *Shader {
	s := &Shader{id: shaderIDs.Add(1), name: desc.Name}
	if s.name == "" {
		s.name = fmt.Sprintf("shader-%d", s.id)
	}

	info, err := ParseWGSL(desc.Source)
	if err != nil {
		s.fail(err)
		return s
	}
	for _, d := range info.Diagnostics {
		gfx.Logger().Warn("webgpu: shader diagnostic", "shader", s.name, "msg", d)
	}

	s.vertexEntry = desc.VertexEntry
	if s.vertexEntry == "" {
		s.vertexEntry = info.VertexEntry
	}
	s.fragmentEntry = desc.FragmentEntry
	if s.fragmentEntry == "" {
		s.fragmentEntry = info.FragmentEntry
	}
	if s.vertexEntry == "" {
		s.fail(fmt.Errorf("%w: no vertex entry point", ErrShaderFailed))
		return s
	}

	md := native.ShaderModuleDescriptor{Label: s.name, WGSL: desc.Source}
	dev.validation.Validate()
	module, err := dev.device.CreateShaderModule(&md)
	dev.validation.End("shader", s.name)
	if err != nil {
		s.fail(fmt.Errorf("%w: %w", ErrShaderFailed, err))
		return s
	}
	s.module = module
	gfx.Logger().Debug("webgpu: shader created", "shader", s.name, "vertex", s.vertexEntry, "fragment", s.fragmentEntry)
	return s
}

func (s *Shader) fail(err error) {
	s.err = err
	gfx.Logger().Error("webgpu: shader failed", "shader", s.name, "err", err)
}

// ID is unique per shader in the process and stable for its lifetime.
func (s *Shader) ID() uint64 { return s.id }

func (s *Shader) Name() string          { return s.name }
func (s *Shader) VertexEntry() string   { return s.vertexEntry }
func (s *Shader) FragmentEntry() string { return s.fragmentEntry }

// Ready reports whether the shader can be drawn with.
func (s *Shader) Ready() bool { return s.module != nil && s.err == nil }

// Failed reports whether compilation failed.
func (s *Shader) Failed() bool { return s.err != nil }

// Err returns the compilation error.
func (s *Shader) Err() error { return s.err }

// Module returns the native shader module.
func (s *Shader) Module() native.ShaderModule { return s.module }

// Destroy releases the native module. It is safe to call more than once.
func (s *Shader) Destroy() {
	if s.module != nil {
		s.module.Destroy()
		s.module = nil
	}
}
