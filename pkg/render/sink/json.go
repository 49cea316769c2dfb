package sink

import (
	"encoding/json"

	"github.com/matzehuels/glyphorbit/pkg/render"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	family   string
	contours bool
}

// WithJSONFamily records the font family in the output.
func WithJSONFamily(name string) JSONOption { return func(r *jsonRenderer) { r.family = name } }

// WithJSONContours includes the projected glyph contours.
func WithJSONContours() JSONOption { return func(r *jsonRenderer) { r.contours = true } }

type jsonOutput struct {
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Family string      `json:"family,omitempty"`
	Shape  string      `json:"shape"`
	Time   float64     `json:"time"`
	Spin   float64     `json:"spin"`
	Culled int         `json:"culled,omitempty"`
	Glyphs []jsonGlyph `json:"glyphs"`
}

type jsonGlyph struct {
	Index       int            `json:"index"`
	Rune        string         `json:"rune"`
	Position    [3]float64     `json:"position"`
	Orientation [4]float64     `json:"orientation"` // w, x, y, z
	Screen      [2]float64     `json:"screen"`
	Depth       float64        `json:"depth"`
	Tint        string         `json:"tint,omitempty"`
	Contours    [][][2]float64 `json:"contours,omitempty"`
}

// RenderJSON exports the frame as a pretty-printed JSON document. Glyphs
// appear in paint order, back to front.
func RenderJSON(f *render.Frame, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{Glyphs: []jsonGlyph{}}
	if f != nil {
		out.Width, out.Height = f.Width, f.Height
		out.Shape, out.Time, out.Spin, out.Culled = f.Shape, f.Time, f.Spin, f.Culled
		out.Glyphs = buildJSONGlyphs(f.Glyphs, r.contours)
	}
	out.Family = r.family

	return json.MarshalIndent(out, "", "  ")
}

func buildJSONGlyphs(glyphs []render.Glyph, withContours bool) []jsonGlyph {
	result := make([]jsonGlyph, len(glyphs))
	for i, g := range glyphs {
		q := g.Orientation
		jg := jsonGlyph{
			Index:       g.Index,
			Rune:        string(g.Rune),
			Position:    [3]float64(g.Position),
			Orientation: [4]float64{q.W, q.V[0], q.V[1], q.V[2]},
			Screen:      [2]float64{g.Screen.X, g.Screen.Y},
			Depth:       g.Depth,
		}
		if g.Tinted {
			jg.Tint = g.Tint.Hex()
		}
		if withContours {
			jg.Contours = make([][][2]float64, len(g.Contours))
			for j, ring := range g.Contours {
				pts := make([][2]float64, len(ring))
				for k, p := range ring {
					pts[k] = [2]float64{p.X, p.Y}
				}
				jg.Contours[j] = pts
			}
		}
		result[i] = jg
	}
	return result
}
