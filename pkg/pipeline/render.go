package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/glyphorbit/pkg/errors"
	"github.com/matzehuels/glyphorbit/pkg/observability"
	"github.com/matzehuels/glyphorbit/pkg/render"
	"github.com/matzehuels/glyphorbit/pkg/render/sink"
)

// Render encodes frames in every format of opts and reports the batch to
// the pipeline hooks.
func (r *Runner) Render(ctx context.Context, frames []*render.Frame, family string, opts Options) (map[string][][]byte, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, err := RenderFrames(frames, family, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

// encoder turns one frame into the bytes of one format.
type encoder func(*render.Frame) ([]byte, error)

// RenderFrames returns, per format, one artifact for each frame in order.
// opts must already be validated.
func RenderFrames(frames []*render.Frame, family string, opts Options) (map[string][][]byte, error) {
	bg, err := render.ParseColor(opts.Background)
	if err != nil {
		return nil, err
	}
	fg, err := render.ParseColor(opts.Foreground)
	if err != nil {
		return nil, err
	}
	style := []sink.SVGOption{sink.WithBackground(bg), sink.WithForeground(fg)}
	if family != "" {
		style = append(style, sink.WithTitle(family))
	}

	encoders := map[string]encoder{
		FormatSVG: func(f *render.Frame) ([]byte, error) { return sink.RenderSVG(f, style...), nil },
		FormatPNG: func(f *render.Frame) ([]byte, error) {
			return sink.RenderPNG(f, sink.WithPNGSVGOptions(style...))
		},
		FormatPDF: func(f *render.Frame) ([]byte, error) {
			return sink.RenderPDF(f, sink.WithPDFSVGOptions(style...))
		},
		FormatJSON: func(f *render.Frame) ([]byte, error) {
			return sink.RenderJSON(f, sink.WithJSONFamily(family))
		},
	}

	artifacts := make(map[string][][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		encode, ok := encoders[format]
		if !ok {
			return nil, ValidateFormat(format)
		}
		out := make([][]byte, 0, len(frames))
		for i, f := range frames {
			data, err := encode(f)
			if err != nil {
				code := errors.GetCode(err)
				if code == "" {
					code = errors.ErrCodeInternal
				}
				return nil, errors.Wrap(code, err, "render %s frame %d", format, i)
			}
			out = append(out, data)
		}
		artifacts[format] = out
	}
	return artifacts, nil
}
