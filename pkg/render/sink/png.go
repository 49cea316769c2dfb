package sink

import (
	"bytes"
	"image"
	"image/draw"
	"image/png"
	"math"

	"golang.org/x/image/vector"

	"github.com/matzehuels/glyphorbit/pkg/errors"
	"github.com/matzehuels/glyphorbit/pkg/render"
)

type PNGOption func(*pngRenderer)

type pngRenderer struct {
	svgOpts []SVGOption
	scale   float64
	native  bool
}

// WithPNGSVGOptions sets the colours and fog, shared with the SVG sink.
func WithPNGSVGOptions(opts ...SVGOption) PNGOption {
	return func(r *pngRenderer) { r.svgOpts = opts }
}

// WithScale multiplies the frame size. The default is 2.
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithNativeRaster skips rsvg-convert and always uses the built-in
// rasterizer.
func WithNativeRaster() PNGOption {
	return func(r *pngRenderer) { r.native = true }
}

// RenderPNG converts the SVG rendering with rsvg-convert when it is
// installed and falls back to [RasterPNG] otherwise.
func RenderPNG(f *render.Frame, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		r.scale = 1
	}
	if !r.native {
		data, err := render.ToPNG(RenderSVG(f, r.svgOpts...), r.scale)
		if !errors.Is(err, errors.ErrCodeUnsupported) {
			return data, err
		}
	}
	return RasterPNG(f, r.scale, r.svgOpts...)
}

// RasterPNG fills the glyph contours back to front with the nonzero
// winding rule, the way the SVG sink shades them.
func RasterPNG(f *render.Frame, scale float64, opts ...SVGOption) ([]byte, error) {
	if f == nil || f.Width <= 0 || f.Height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "cannot rasterize an empty frame")
	}
	style := newSVGRenderer(opts...)
	w := int(math.Ceil(float64(f.Width) * scale))
	h := int(math.Ceil(float64(f.Height) * scale))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if !style.transparent {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(style.background.Clamped()), image.Point{}, draw.Src)
	}

	near, far := f.DepthRange()
	ras := vector.NewRasterizer(w, h)
	for _, g := range f.Visible() {
		ras.Reset(w, h)
		if !traceContours(ras, g.Contours, float32(scale)) {
			continue
		}
		fill := render.Shade(g, style.foreground, style.background, style.fog, near, far)
		ras.Draw(dst, dst.Bounds(), image.NewUniform(fill.Clamped()), image.Point{})
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

// traceContours adds every ring with at least three points and reports
// whether any was added.
func traceContours(ras *vector.Rasterizer, contours [][]render.Point, scale float32) bool {
	traced := false
	for _, ring := range contours {
		if len(ring) < 3 {
			continue
		}
		ras.MoveTo(float32(ring[0].X)*scale, float32(ring[0].Y)*scale)
		for _, p := range ring[1:] {
			ras.LineTo(float32(p.X)*scale, float32(p.Y)*scale)
		}
		ras.ClosePath()
		traced = true
	}
	return traced
}
