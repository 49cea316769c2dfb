package sink

import (
	"bytes"
	"fmt"
	"html"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/glyphorbit/pkg/render"
)

// Default SVG colours.
var (
	DefaultBackground = colorful.Color{R: 0x0b / 255.0, G: 0x0d / 255.0, B: 0x12 / 255.0}
	DefaultForeground = colorful.Color{R: 0xe8 / 255.0, G: 0xe6 / 255.0, B: 0xe3 / 255.0}
)

// DefaultFog is how far the farthest glyph fades towards the background.
const DefaultFog = 0.6

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background  colorful.Color
	foreground  colorful.Color
	fog         float64
	transparent bool
	title       string
}

func WithBackground(c colorful.Color) SVGOption { return func(r *svgRenderer) { r.background = c } }
func WithForeground(c colorful.Color) SVGOption { return func(r *svgRenderer) { r.foreground = c } }
func WithFog(amount float64) SVGOption          { return func(r *svgRenderer) { r.fog = amount } }
func WithTransparent() SVGOption                { return func(r *svgRenderer) { r.transparent = true } }
func WithTitle(s string) SVGOption              { return func(r *svgRenderer) { r.title = s } }

// RenderSVG draws the visible glyphs of f back to front.
func RenderSVG(f *render.Frame, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	w, h := 0, 0
	if f != nil {
		w, h = f.Width, f.Height
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n", w, h, w, h)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(r.title))
	}
	if !r.transparent {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.background.Hex())
	}

	near, far := f.DepthRange()
	buf.WriteString(`  <g class="glyphs" fill-rule="nonzero">` + "\n")
	for _, g := range f.Visible() {
		fill := render.Shade(g, r.foreground, r.background, r.fog, near, far)
		fmt.Fprintf(&buf, `    <path id="glyph-%d" class="glyph" data-rune="%U" fill="%s" d="`, g.Index, g.Rune, fill.Hex())
		writePath(&buf, g.Contours)
		buf.WriteString("\"/>\n")
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{
		background: DefaultBackground,
		foreground: DefaultForeground,
		fog:        DefaultFog,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func writePath(buf *bytes.Buffer, contours [][]render.Point) {
	first := true
	for _, ring := range contours {
		if len(ring) == 0 {
			continue
		}
		for i, p := range ring {
			if !first {
				buf.WriteByte(' ')
			}
			first = false
			cmd := 'L'
			if i == 0 {
				cmd = 'M'
			}
			fmt.Fprintf(buf, "%c%.2f %.2f", cmd, p.X, p.Y)
		}
		buf.WriteString(" Z")
	}
}
