package sink

import (
	"github.com/matzehuels/glyphorbit/pkg/render"
)

type PDFOption func(*[]SVGOption)

// WithPDFSVGOptions sets the colours and fog, shared with the SVG sink.
func WithPDFSVGOptions(opts ...SVGOption) PDFOption {
	return func(svg *[]SVGOption) { *svg = append(*svg, opts...) }
}

// RenderPDF converts the SVG rendering with rsvg-convert. Unlike PNG there
// is no built-in fallback; without librsvg the error carries an install
// hint.
func RenderPDF(f *render.Frame, opts ...PDFOption) ([]byte, error) {
	var svgOpts []SVGOption
	for _, opt := range opts {
		opt(&svgOpts)
	}
	return render.ToPDF(RenderSVG(f, svgOpts...))
}
