// Package render turns an arranged glyph collection into 2D frames.
//
// # Overview
//
// Rendering happens in two steps:
//
//  1. [Snapshot] projects every object of a dispatcher's collection through
//     a [scene.Camera], applying the whole-group spin, and returns a [Frame]:
//     screen-space glyph contours sorted back to front.
//  2. A sink writes the frame in an output format. The [sink] subpackage
//     provides SVG, JSON, PNG and PDF; [Canvas] draws frames into a
//     terminal cell grid for the interactive viewer.
//
// # Raster and PDF
//
// [ToPNG] and [ToPDF] pipe an SVG document through rsvg-convert from
// librsvg. When the tool is missing they fail with ErrCodeUnsupported and
// an install hint; the PNG sink then rasterizes the frame itself.
//
//	svg := sink.RenderSVG(frame)
//	data, err := render.ToPNG(svg, 2)
//
// # Colours
//
// Colours are [colorful.Color] values. [ParseColor] accepts the "#rrggbb"
// strings used in the configuration file.
package render
