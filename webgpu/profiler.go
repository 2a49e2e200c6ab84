// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package webgpu

import "time"

// PassTiming is the time spent recording one render pass.
type PassTiming struct {
	Name     string
	Duration time.Duration
}

// Profiler collects per-pass timings. Timings recorded during a frame are
// requested at its FrameEnd and published at the following FrameEnd, the
// latency a GPU timestamp readback would have.
type Profiler struct {
	enabled bool
	now     func() time.Time

	name    string
	start   time.Time
	current []PassTiming
	pending []PassTiming
	results []PassTiming
}

func newProfiler(enabled bool) *Profiler {
	return &Profiler{enabled: enabled, now: time.Now}
}

// Enabled reports whether timings are collected.
func (p *Profiler) Enabled() bool { return p.enabled }

func (p *Profiler) startPass(name string) {
	if !p.enabled {
		return
	}
	p.name, p.start = name, p.now()
}

func (p *Profiler) endPass() {
	if !p.enabled || p.start.IsZero() {
		return
	}
	p.current = append(p.current, PassTiming{Name: p.name, Duration: p.now().Sub(p.start)})
	p.start = time.Time{}
}

// cancelPass drops the timing of a pass that failed to end.
func (p *Profiler) cancelPass() { p.start = time.Time{} }

func (p *Profiler) frameEnd() {
	if !p.enabled {
		return
	}
	p.results = p.pending
	p.pending = p.current
	p.current = nil
}

// Results returns the timings published at the last frame end.
func (p *Profiler) Results() []PassTiming { return p.results }
