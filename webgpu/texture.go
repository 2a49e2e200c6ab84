// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package webgpu

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gfx/native"
	"github.com/gogpu/gputypes"
)

// TextureOptions describes a texture.
type TextureOptions struct {
	Name string

	Width, Height uint32

	// Depth is the depth of a volume texture.
	Depth uint32

	// ArrayLength makes a 2D array texture with that many layers.
	ArrayLength uint32

	Format gfx.PixelFormat

	Cubemap bool
	Volume  bool

	// Mipmaps requests a full mip chain. When Levels holds a single level
	// the chain is generated after every upload.
	Mipmaps bool

	MinFilter gfx.FilterMode
	MagFilter gfx.FilterMode
	AddressU  gfx.AddressMode
	AddressV  gfx.AddressMode
	AddressW  gfx.AddressMode

	// Anisotropy is clamped to [1, Capabilities.MaxAnisotropy].
	Anisotropy uint32

	// CompareOnRead makes the default sampler a comparison sampler.
	CompareOnRead bool

	// FlipY and PremultiplyAlpha apply to image.Image sources.
	FlipY            bool
	PremultiplyAlpha bool

	// Levels holds the CPU sources indexed by mip level, then face (6 for
	// cubemaps, ArrayLength for arrays, 1 otherwise). A source is either an
	// image.Image or a []byte in the native layout of the level.
	Levels [][]any
}

// Texture owns one native texture, its default view and a sampler per
// sample type. The native texture is created the first time the device
// needs it; CPU sources are uploaded at that point and after Upload.
type Texture struct {
	name          string
	width, height uint32
	depth         uint32
	arrayLength   uint32
	format        gfx.PixelFormat
	cubemap       bool
	volume        bool
	mipmaps       bool
	mipCount      uint32
	samples       uint32
	usage         gputypes.TextureUsage
	renderTarget  bool

	minFilter     gfx.FilterMode
	magFilter     gfx.FilterMode
	addressU      gfx.AddressMode
	addressV      gfx.AddressMode
	addressW      gfx.AddressMode
	anisotropy    uint32
	compareOnRead bool
	compareFunc   gfx.CompareFunc
	flipY         bool
	premultiply   bool

	levels      [][]any
	needsUpload bool

	tex      native.Texture
	desc     native.TextureDescriptor
	view     native.TextureView
	samplers map[gfx.SampleType]native.Sampler
	retired  []native.Sampler
	vram     uint64
}

// NewTexture validates opts and returns a texture without native state.
// Formats without a native equivalent, or needing a feature dev lacks, fail
// with ErrUnsupportedFormat.
func NewTexture(dev *GraphicsDevice, opts TextureOptions) (*Texture, error) {
	if !opts.Format.IsSupported() {
		return nil, fmt.Errorf("%w: %s has no native equivalent", ErrUnsupportedFormat, opts.Format)
	}
	if dev != nil && !dev.caps.SupportsFormat(opts.Format) {
		return nil, fmt.Errorf("%w: %s needs a device feature", ErrUnsupportedFormat, opts.Format)
	}

	t := &Texture{
		name:          opts.Name,
		width:         max(opts.Width, 1),
		height:        max(opts.Height, 1),
		depth:         max(opts.Depth, 1),
		arrayLength:   opts.ArrayLength,
		format:        opts.Format,
		cubemap:       opts.Cubemap,
		volume:        opts.Volume,
		mipmaps:       opts.Mipmaps,
		samples:       1,
		minFilter:     opts.MinFilter,
		magFilter:     opts.MagFilter,
		addressU:      opts.AddressU,
		addressV:      opts.AddressV,
		addressW:      opts.AddressW,
		anisotropy:    max(opts.Anisotropy, 1),
		compareOnRead: opts.CompareOnRead,
		compareFunc:   gfx.CompareLess,
		flipY:         opts.FlipY,
		premultiply:   opts.PremultiplyAlpha,
		levels:        opts.Levels,
	}
	if t.name == "" {
		t.name = "texture"
	}
	t.mipCount = t.computeMipCount()
	t.needsUpload = len(t.levels) > 0
	return t, nil
}

func (t *Texture) computeMipCount() uint32 {
	if len(t.levels) > 1 {
		return uint32(len(t.levels))
	}
	if !t.mipmaps {
		return 1
	}
	size := max(t.width, t.height)
	if t.volume {
		size = max(size, t.depth)
	}
	n := uint32(1)
	for ; size > 1; size >>= 1 {
		n++
	}
	return n
}

func (t *Texture) Name() string            { return t.name }
func (t *Texture) Width() uint32           { return t.width }
func (t *Texture) Height() uint32          { return t.height }
func (t *Texture) Format() gfx.PixelFormat { return t.format }
func (t *Texture) MipCount() uint32        { return t.mipCount }
func (t *Texture) Cubemap() bool           { return t.cubemap }
func (t *Texture) Volume() bool            { return t.volume }
func (t *Texture) Samples() uint32         { return t.samples }

// Native returns the native texture, or nil before creation.
func (t *Texture) Native() native.Texture { return t.tex }

// View returns the default view, or nil before creation. Combined
// depth/stencil textures have a depth-only default view.
func (t *Texture) View() native.TextureView { return t.view }

// Descriptor returns the descriptor the native texture was created with.
func (t *Texture) Descriptor() native.TextureDescriptor { return t.desc }

// layers returns the array layer count of the native texture.
func (t *Texture) layers() uint32 {
	switch {
	case t.cubemap:
		return 6
	case t.volume:
		return 1
	case t.arrayLength > 0:
		return t.arrayLength
	default:
		return 1
	}
}

// faces returns the number of CPU sources per mip level.
func (t *Texture) faces() int {
	if t.volume {
		return 1
	}
	return int(t.layers())
}

func (t *Texture) mipSize(mip uint32) (uint32, uint32) {
	return max(t.width>>mip, 1), max(t.height>>mip, 1)
}

func (t *Texture) wantsMipmaps() bool {
	return t.mipmaps && len(t.levels) <= 1 && t.mipCount > 1
}

func (t *Texture) viewDimension() gputypes.TextureViewDimension {
	switch {
	case t.cubemap:
		return gputypes.TextureViewDimensionCube
	case t.volume:
		return gputypes.TextureViewDimension3D
	case t.arrayLength > 0:
		return gputypes.TextureViewDimension2DArray
	default:
		return gputypes.TextureViewDimension2D
	}
}

func (t *Texture) defaultUsage(caps Capabilities) gputypes.TextureUsage {
	if t.samples > 1 {
		return gputypes.TextureUsageRenderAttachment
	}
	usage := gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst | gputypes.TextureUsageCopySrc
	renderable := t.format.IsRenderable() && !t.volume
	if t.format == gfx.PixelFormat111110F && !caps.RG11B10Renderable {
		renderable = false
	}
	if renderable {
		usage |= gputypes.TextureUsageRenderAttachment
	}
	return usage
}

// create builds the native texture and its default view inside a
// validation scope.
func (t *Texture) create(dev *GraphicsDevice) error {
	if t.tex != nil {
		return nil
	}

	usage := t.usage
	if usage == 0 {
		usage = t.defaultUsage(dev.caps)
	}
	size := gputypes.Extent3D{Width: t.width, Height: t.height, DepthOrArrayLayers: t.layers()}
	dim := gputypes.TextureDimension2D
	if t.volume {
		dim = gputypes.TextureDimension3D
		size.DepthOrArrayLayers = t.depth
	}
	desc := native.TextureDescriptor{
		Label:         t.name,
		Size:          size,
		MipLevelCount: t.mipCount,
		SampleCount:   t.samples,
		Dimension:     dim,
		Format:        t.format.Native(),
		Usage:         usage,
	}

	dev.validation.Validate()
	tex, err := dev.device.CreateTexture(&desc)
	dev.validation.End(desc)
	if err != nil {
		return fmt.Errorf("webgpu: create texture %q: %w", t.name, err)
	}

	vd := t.ViewDescriptor(nil)
	view, err := tex.CreateView(&vd)
	if err != nil {
		tex.Destroy()
		return fmt.Errorf("webgpu: default view of %q: %w", t.name, err)
	}
	t.tex, t.desc, t.view = tex, desc, view

	layers := t.layers()
	depth := uint32(1)
	if t.volume {
		depth = t.depth
	}
	t.vram = t.format.TextureSize(t.width, t.height, depth, layers, t.mipCount) * uint64(t.samples)
	if t.renderTarget {
		dev.vram.RenderTargets += t.vram
	} else {
		dev.vram.Textures += t.vram
	}
	gfx.Logger().Debug("webgpu: texture created", "name", t.name, "format", t.format,
		"size", fmt.Sprintf("%dx%dx%d", size.Width, size.Height, size.DepthOrArrayLayers), "mips", t.mipCount)
	return nil
}

// prepare creates the texture if needed, hands retired samplers to the
// device and uploads pending CPU sources.
func (t *Texture) prepare(dev *GraphicsDevice) error {
	if err := t.create(dev); err != nil {
		return err
	}
	if len(t.retired) > 0 {
		for _, s := range t.retired {
			dev.deferRelease(s)
		}
		t.retired = nil
	}
	if t.needsUpload {
		return t.UploadData(dev)
	}
	return nil
}

// ViewOptions overrides fields of a view descriptor. Zero fields take the
// texture's defaults.
type ViewOptions struct {
	Label           string
	Format          gputypes.TextureFormat
	Dimension       gputypes.TextureViewDimension
	Aspect          gputypes.TextureAspect
	BaseMipLevel    uint32
	MipLevelCount   uint32
	BaseArrayLayer  uint32
	ArrayLayerCount uint32
}

// ViewDescriptor resolves opts against the texture. Defaults: the texture
// format; cube, 3D, 2D array or 2D dimension from the texture flags; the
// depth-only aspect for combined depth/stencil formats, all aspects
// otherwise; the mip levels from BaseMipLevel to the end of the chain; one
// layer for 2D and 3D views, six for cube views and the remaining layers for
// array views.
func (t *Texture) ViewDescriptor(opts *ViewOptions) native.TextureViewDescriptor {
	var o ViewOptions
	if opts != nil {
		o = *opts
	}
	d := native.TextureViewDescriptor{
		Label:           o.Label,
		Format:          o.Format,
		Dimension:       o.Dimension,
		Aspect:          o.Aspect,
		BaseMipLevel:    o.BaseMipLevel,
		MipLevelCount:   o.MipLevelCount,
		BaseArrayLayer:  o.BaseArrayLayer,
		ArrayLayerCount: o.ArrayLayerCount,
	}
	if d.Label == "" {
		d.Label = t.name
	}
	if d.Format == gputypes.TextureFormatUndefined {
		d.Format = t.format.Native()
	}
	if d.Dimension == gputypes.TextureViewDimensionUndefined {
		d.Dimension = t.viewDimension()
	}
	if d.Aspect == gputypes.TextureAspectUndefined {
		d.Aspect = gputypes.TextureAspectAll
		if t.format.IsDepth() && t.format.HasStencil() {
			d.Aspect = gputypes.TextureAspectDepthOnly
		}
	}
	if d.MipLevelCount == 0 {
		d.MipLevelCount = max(t.mipCount-min(d.BaseMipLevel, t.mipCount), 1)
	}
	if d.ArrayLayerCount == 0 {
		switch d.Dimension {
		case gputypes.TextureViewDimensionCube:
			d.ArrayLayerCount = 6
		case gputypes.TextureViewDimension2DArray, gputypes.TextureViewDimensionCubeArray:
			d.ArrayLayerCount = max(t.layers()-min(d.BaseArrayLayer, t.layers()), 1)
		default:
			d.ArrayLayerCount = 1
		}
	}
	return d
}

// CreateView creates a new view of the texture. Every call returns a fresh
// view owned by the caller.
func (t *Texture) CreateView(opts *ViewOptions) (native.TextureView, error) {
	if t.tex == nil {
		return nil, fmt.Errorf("%w: %q", ErrTextureNotCreated, t.name)
	}
	d := t.ViewDescriptor(opts)
	return t.tex.CreateView(&d)
}

// Sampler returns the sampler for sampleType, creating it on first use.
func (t *Texture) Sampler(dev *GraphicsDevice, sampleType gfx.SampleType) (native.Sampler, error) {
	if s, ok := t.samplers[sampleType]; ok {
		return s, nil
	}
	desc := t.SamplerDescriptor(sampleType, dev.caps.MaxAnisotropy)

	dev.validation.Validate()
	s, err := dev.device.CreateSampler(&desc)
	dev.validation.End(desc)
	if err != nil {
		return nil, fmt.Errorf("webgpu: sampler for %q: %w", t.name, err)
	}
	if t.samplers == nil {
		t.samplers = make(map[gfx.SampleType]native.Sampler)
	}
	t.samplers[sampleType] = s
	return s, nil
}

// SamplerDescriptor resolves the sampler used for sampleType.
//
// Depth sampling, and default sampling of a compare-on-read texture, build a
// comparison sampler with linear filtering. Unfilterable float, integer and
// filter-incompatible formats force nearest filtering. Everything else uses
// the texture's filters. Anisotropy is clamped to [1, maxAnisotropy] and
// forced to 1 unless all filters are linear.
func (t *Texture) SamplerDescriptor(sampleType gfx.SampleType, maxAnisotropy uint32) native.SamplerDescriptor {
	d := native.SamplerDescriptor{
		Label:        t.name + "/" + sampleType.String(),
		AddressModeU: t.addressU.Native(),
		AddressModeV: t.addressV.Native(),
		AddressModeW: t.addressW.Native(),
		LodMaxClamp:  float32(t.mipCount),
	}

	nearest := func() {
		d.MinFilter, d.MagFilter, d.MipmapFilter = gputypes.FilterModeNearest, gputypes.FilterModeNearest, gputypes.MipmapFilterModeNearest
	}
	linear := func() {
		d.MinFilter, d.MagFilter, d.MipmapFilter = gputypes.FilterModeLinear, gputypes.FilterModeLinear, gputypes.MipmapFilterModeNearest
	}

	switch {
	case sampleType == gfx.SampleTypeDepth:
		d.Compare = gputypes.CompareFunctionLess
		linear()
	case sampleType == gfx.SampleTypeDefault && t.compareOnRead:
		d.Compare = t.compareFunc.Native()
		linear()
	case sampleType == gfx.SampleTypeUnfilterableFloat, sampleType == gfx.SampleTypeInt, sampleType == gfx.SampleTypeUint:
		nearest()
	case !t.format.IsFilterable():
		nearest()
	default:
		d.MinFilter, d.MipmapFilter = t.minFilter.Native()
		d.MagFilter, _ = t.magFilter.Native()
	}

	aniso := min(max(t.anisotropy, 1), max(maxAnisotropy, 1))
	allLinear := d.MinFilter == gputypes.FilterModeLinear &&
		d.MagFilter == gputypes.FilterModeLinear &&
		d.MipmapFilter == gputypes.MipmapFilterModeLinear
	if !allLinear {
		aniso = 1
	}
	d.Anisotropy = uint16(aniso)
	return d
}

// clearSamplers drops every cached sampler. The native samplers may still be
// referenced by recorded commands, so they are released by the device.
func (t *Texture) clearSamplers() {
	for _, s := range t.samplers {
		t.retired = append(t.retired, s)
	}
	clear(t.samplers)
}

// SetAddressU sets the U address mode and clears the sampler cache.
func (t *Texture) SetAddressU(m gfx.AddressMode) {
	if t.addressU != m {
		t.addressU = m
		t.clearSamplers()
	}
}

// SetAddressV sets the V address mode and clears the sampler cache.
func (t *Texture) SetAddressV(m gfx.AddressMode) {
	if t.addressV != m {
		t.addressV = m
		t.clearSamplers()
	}
}

// SetAddressW sets the W address mode and clears the sampler cache.
func (t *Texture) SetAddressW(m gfx.AddressMode) {
	if t.addressW != m {
		t.addressW = m
		t.clearSamplers()
	}
}

// SetMinFilter sets the minification filter and clears the sampler cache.
func (t *Texture) SetMinFilter(f gfx.FilterMode) {
	if t.minFilter != f {
		t.minFilter = f
		t.clearSamplers()
	}
}

// SetMagFilter sets the magnification filter and clears the sampler cache.
func (t *Texture) SetMagFilter(f gfx.FilterMode) {
	if t.magFilter != f {
		t.magFilter = f
		t.clearSamplers()
	}
}

// SetAnisotropy sets the anisotropy and clears the sampler cache.
func (t *Texture) SetAnisotropy(a uint32) {
	a = max(a, 1)
	if t.anisotropy != a {
		t.anisotropy = a
		t.clearSamplers()
	}
}

// SetCompareOnRead toggles comparison sampling and clears the sampler cache.
func (t *Texture) SetCompareOnRead(v bool) {
	if t.compareOnRead != v {
		t.compareOnRead = v
		t.clearSamplers()
	}
}

// SetCompareFunc sets the comparison of compare-on-read sampling and clears
// the sampler cache.
func (t *Texture) SetCompareFunc(f gfx.CompareFunc) {
	if t.compareFunc != f {
		t.compareFunc = f
		t.clearSamplers()
	}
}

// SetFlipY flips image sources vertically on upload.
func (t *Texture) SetFlipY(v bool) { t.flipY = v }

// SetPremultiplyAlpha premultiplies image sources on upload.
func (t *Texture) SetPremultiplyAlpha(v bool) { t.premultiply = v }

// SetSource replaces the CPU source of one mip level and face and marks the
// texture for upload.
func (t *Texture) SetSource(mip, face int, src any) {
	for len(t.levels) <= mip {
		t.levels = append(t.levels, nil)
	}
	for len(t.levels[mip]) <= face {
		t.levels[mip] = append(t.levels[mip], nil)
	}
	t.levels[mip][face] = src
	t.needsUpload = true
}

// Upload marks the CPU sources for upload the next time the device uses
// the texture.
func (t *Texture) Upload() { t.needsUpload = true }

// NeedsUpload reports whether CPU sources are waiting for upload.
func (t *Texture) NeedsUpload() bool { return t.needsUpload }

// UploadData uploads every CPU source to the native texture, creating it
// first if needed. Image sources are converted to the texture format; raw
// sources must match the size of their mip level exactly. Pending command
// buffers are submitted before each write so earlier passes stay ordered
// before the upload. Mipmaps are generated once after a successful upload
// when the texture wants them.
func (t *Texture) UploadData(dev *GraphicsDevice) error {
	if err := t.create(dev); err != nil {
		return err
	}
	t.needsUpload = false

	if t.volume {
		if len(t.levels) > 0 {
			gfx.Logger().Warn("webgpu: volume texture upload is not supported", "texture", t.name)
		}
		return nil
	}

	// Image sources are converted up front, in parallel, then written in
	// level order.
	type job struct {
		mip, face uint32
		src       any
		pix       []byte
		err       error
	}
	var jobs []*job
	var convert []func()
	faces := t.faces()
	for mip := 0; mip < len(t.levels) && uint32(mip) < t.mipCount; mip++ {
		for face := 0; face < len(t.levels[mip]) && face < faces; face++ {
			j := &job{mip: uint32(mip), face: uint32(face), src: t.levels[mip][face]}
			if j.src == nil {
				continue
			}
			jobs = append(jobs, j)
			if img, ok := j.src.(image.Image); ok {
				convert = append(convert, func() { j.pix, j.err = t.convertImage(img, j.mip) })
			}
		}
	}
	if len(convert) > 1 {
		dev.workerPool().ExecuteAll(convert)
	} else if len(convert) == 1 {
		convert[0]()
	}

	uploaded := false
	for _, j := range jobs {
		switch s := j.src.(type) {
		case image.Image:
			if j.err != nil {
				gfx.Logger().Error("webgpu: image upload failed", "texture", t.name, "mip", j.mip, "face", j.face, "err", j.err)
				continue
			}
			t.flush(dev)
			w, h := t.mipSize(j.mip)
			if err := t.write(dev, j.pix, j.mip, j.face, w*4, h, w, h); err != nil {
				gfx.Logger().Error("webgpu: image upload failed", "texture", t.name, "mip", j.mip, "face", j.face, "err", err)
				continue
			}
			uploaded = true
		case []byte:
			t.flush(dev)
			if err := t.uploadRaw(dev, s, j.mip, j.face); err != nil {
				return err
			}
			uploaded = true
		default:
			gfx.Logger().Error("webgpu: unsupported texture source", "texture", t.name,
				"type", fmt.Sprintf("%T", j.src), "mip", j.mip, "face", j.face)
		}
	}

	if uploaded && t.wantsMipmaps() {
		dev.generateMipmaps(t)
	}
	return nil
}

// flush submits pending command buffers ahead of a texture write.
func (t *Texture) flush(dev *GraphicsDevice) {
	if err := dev.Submit(); err != nil {
		gfx.Logger().Error("webgpu: submit before upload failed", "texture", t.name, "err", err)
	}
}

func (t *Texture) uploadRaw(dev *GraphicsDevice, data []byte, mip, face uint32) error {
	w, h := t.mipSize(mip)
	bpr, rows := t.format.LevelLayout(w, h)
	want := uint64(bpr) * uint64(rows)
	if uint64(len(data)) != want {
		return fmt.Errorf("%w: texture %q mip %d face %d: expected %d bytes, got %d",
			ErrUploadSizeMismatch, t.name, mip, face, want, len(data))
	}
	if t.format.IsCompressed() {
		w, h = (w+3)&^3, (h+3)&^3
	}
	return t.write(dev, data, mip, face, bpr, rows, w, h)
}

// convertImage scales src to the size of mip and returns its pixels in the
// texture's byte order. It only reads texture fields and is safe to run
// concurrently.
func (t *Texture) convertImage(src image.Image, mip uint32) ([]byte, error) {
	bgra := false
	switch t.format {
	case gfx.PixelFormatRGBA8, gfx.PixelFormatSRGBA8:
	case gfx.PixelFormatBGRA8, gfx.PixelFormatSBGRA8:
		bgra = true
	default:
		return nil, fmt.Errorf("%w: image source into %s", ErrUnsupportedFormat, t.format)
	}

	w, h := t.mipSize(mip)
	rect := image.Rect(0, 0, int(w), int(h))
	var dst xdraw.Image
	var pix []byte
	if t.premultiply {
		img := image.NewRGBA(rect)
		dst, pix = img, img.Pix
	} else {
		img := image.NewNRGBA(rect)
		dst, pix = img, img.Pix
	}

	sb := src.Bounds()
	if sb.Dx() == int(w) && sb.Dy() == int(h) {
		xdraw.Draw(dst, rect, src, sb.Min, xdraw.Src)
	} else {
		xdraw.ApproxBiLinear.Scale(dst, rect, src, sb, xdraw.Src, nil)
	}

	stride := int(w) * 4
	if t.flipY {
		flipRows(pix, stride)
	}
	if bgra {
		for i := 0; i+3 < len(pix); i += 4 {
			pix[i], pix[i+2] = pix[i+2], pix[i]
		}
	}
	return pix, nil
}

func (t *Texture) write(dev *GraphicsDevice, data []byte, mip, face, bytesPerRow, rows, w, h uint32) error {
	return dev.queue.WriteTexture(
		&native.ImageCopyTexture{
			Texture:  t.tex,
			MipLevel: mip,
			Origin:   gputypes.Origin3D{Z: face},
			Aspect:   gputypes.TextureAspectAll,
		},
		data,
		&native.ImageDataLayout{BytesPerRow: bytesPerRow, RowsPerImage: rows},
		&gputypes.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
}

func flipRows(pix []byte, stride int) {
	tmp := make([]byte, stride)
	for top, bottom := 0, len(pix)-stride; top < bottom; top, bottom = top+stride, bottom-stride {
		copy(tmp, pix[top:top+stride])
		copy(pix[top:top+stride], pix[bottom:bottom+stride])
		copy(pix[bottom:bottom+stride], tmp)
	}
}

// Resize changes the texture size. Native state is destroyed and the CPU
// sources are dropped; the texture is re-created on next use.
func (t *Texture) Resize(dev *GraphicsDevice, width, height uint32) {
	width, height = max(width, 1), max(height, 1)
	if t.width == width && t.height == height {
		return
	}
	t.Destroy(dev)
	t.width, t.height = width, height
	t.levels = nil
	t.needsUpload = false
	t.mipCount = t.computeMipCount()
}

// Destroy releases the native texture, its default view and its samplers.
// The CPU sources are kept so the texture can be re-created. It is safe to
// call more than once.
func (t *Texture) Destroy(dev *GraphicsDevice) {
	for _, s := range t.samplers {
		s.Destroy()
	}
	clear(t.samplers)
	for _, s := range t.retired {
		s.Destroy()
	}
	t.retired = nil

	if t.view != nil {
		t.view.Destroy()
		t.view = nil
	}
	if t.tex != nil {
		t.tex.Destroy()
		t.tex = nil
		if dev != nil {
			if t.renderTarget {
				sub(&dev.vram.RenderTargets, t.vram)
			} else {
				sub(&dev.vram.Textures, t.vram)
			}
		}
		t.vram = 0
		t.needsUpload = len(t.levels) > 0
	}
}

// BorrowedTexture is a native texture the device uses but does not own,
// such as the swapchain texture of the current frame. It has no Destroy
// method.
type BorrowedTexture struct {
	tex native.Texture
}

// Borrow wraps a native texture owned elsewhere.
func Borrow(tex native.Texture) *BorrowedTexture { return &BorrowedTexture{tex: tex} }

// Native returns the borrowed texture.
func (b *BorrowedTexture) Native() native.Texture { return b.tex }

func (b *BorrowedTexture) Width() uint32                  { return b.tex.Width() }
func (b *BorrowedTexture) Height() uint32                 { return b.tex.Height() }
func (b *BorrowedTexture) Format() gputypes.TextureFormat { return b.tex.Format() }
