// Package sink writes projected frames in output formats.
//
// # Overview
//
// A "sink" transforms a [render.Frame] into a final output format. This
// package provides renderers for:
//
//   - SVG: one filled path per visible glyph, nonzero winding like TrueType
//   - JSON: per-glyph world transforms and screen positions
//   - PDF: Print-ready output (requires rsvg-convert)
//   - PNG: raster output, converted by rsvg-convert or rasterized natively
//
// # SVG Output
//
// [RenderSVG] paints glyphs back to front over a solid background. Glyphs
// tinted by the torus-knot arrangement keep their tint; all others use the
// foreground colour. Distant glyphs fade towards the background unless fog
// is disabled.
//
//	svg := sink.RenderSVG(frame,
//	    sink.WithBackground(bg),
//	    sink.WithForeground(fg),
//	    sink.WithFog(0.6),
//	)
//
// # PNG and PDF
//
// [RenderPNG] and [RenderPDF] render SVG first and convert it with
// [render.ToPNG] and [render.ToPDF]. Without rsvg-convert, PNG frames are
// filled by [RasterPNG] with golang.org/x/image/vector instead:
//
//	png, err := sink.RenderPNG(frame, sink.WithScale(2), sink.WithPNGSVGOptions(svgOpts...))
//
// # JSON
//
// [RenderJSON] exports the frame for external tools:
//
//	data, err := sink.RenderJSON(frame, sink.WithJSONFamily("Go"))
package sink
