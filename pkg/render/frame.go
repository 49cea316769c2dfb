package render

import (
	"cmp"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/glyphorbit/pkg/arrange"
	"github.com/matzehuels/glyphorbit/pkg/errors"
	"github.com/matzehuels/glyphorbit/pkg/scene"
)

// Point is a viewport position in pixels with the origin at the top left.
type Point struct {
	X, Y float64
}

// Glyph is one projected object.
type Glyph struct {
	Index int
	Rune  rune

	// Position and Orientation are in world space with the group spin
	// applied.
	Position    mgl64.Vec3
	Orientation mgl64.Quat

	Screen   Point     // projected object origin
	Depth    float64   // distance along the view axis; larger is farther
	Contours [][]Point // projected front-face rings; empty for released meshes

	Tint   colorful.Color
	Tinted bool
}

// Frame is a projected snapshot of a collection, glyphs ordered back to
// front.
type Frame struct {
	Width, Height int

	Shape string
	Time  float64
	Spin  float64

	Glyphs []Glyph
	Culled int // objects behind the camera
}

// Visible returns the glyphs that have contours to draw.
func (f *Frame) Visible() []Glyph {
	if f == nil {
		return nil
	}
	out := make([]Glyph, 0, len(f.Glyphs))
	for _, g := range f.Glyphs {
		if len(g.Contours) > 0 {
			out = append(out, g)
		}
	}
	return out
}

// DepthRange returns the nearest and farthest glyph depth.
func (f *Frame) DepthRange() (near, far float64) {
	if f == nil || len(f.Glyphs) == 0 {
		return 0, 0
	}
	near, far = f.Glyphs[0].Depth, f.Glyphs[0].Depth
	for _, g := range f.Glyphs[1:] {
		near = min(near, g.Depth)
		far = max(far, g.Depth)
	}
	return near, far
}

// Snapshot projects the dispatcher's collection through cam into a width x
// height viewport. Objects whose origin or any contour vertex falls behind
// the camera are culled.
func Snapshot(d *arrange.Dispatcher, cam *scene.Camera, width, height int) *Frame {
	f := &Frame{
		Width:  width,
		Height: height,
		Shape:  d.Config().Shape.Name(),
		Spin:   d.Spin(),
	}
	coll := d.Collection()
	if len(coll) == 0 {
		return f
	}

	group := d.GroupRotation()
	groupMat := group.Mat4()
	proj := cam.Projector(float64(width), float64(height))

	f.Glyphs = make([]Glyph, 0, len(coll))
	for _, o := range coll {
		g, ok := project(o, group, groupMat, proj)
		if !ok {
			f.Culled++
			continue
		}
		f.Glyphs = append(f.Glyphs, g)
	}

	slices.SortStableFunc(f.Glyphs, func(a, b Glyph) int {
		return cmp.Compare(b.Depth, a.Depth)
	})
	return f
}

func project(o *arrange.Object, group mgl64.Quat, groupMat mgl64.Mat4, proj scene.Projector) (Glyph, bool) {
	g := Glyph{
		Index:       o.Index,
		Rune:        o.Rune,
		Position:    group.Rotate(o.Position),
		Orientation: group.Mul(o.Orientation).Normalize(),
		Tint:        o.Tint,
		Tinted:      o.Tinted,
	}

	x, y, depth, ok := proj.Project(g.Position)
	if !ok {
		return Glyph{}, false
	}
	g.Screen = Point{x, y}
	g.Depth = depth

	m := o.Mesh
	if m == nil || m.Released() {
		return g, true
	}
	model := groupMat.Mul4(o.Transform())
	front := m.Depth / 2
	g.Contours = make([][]Point, 0, len(m.Contours))
	for _, ring := range m.Contours {
		pts := make([]Point, len(ring))
		for i, v := range ring {
			world := model.Mul4x1(mgl64.Vec4{v[0], v[1], front, 1}).Vec3()
			px, py, _, ok := proj.Project(world)
			if !ok {
				return Glyph{}, false
			}
			pts[i] = Point{px, py}
		}
		g.Contours = append(g.Contours, pts)
	}
	return g, true
}

// ParseColor parses a "#rrggbb" colour.
func ParseColor(s string) (colorful.Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid colour %q", s)
	}
	return c, nil
}

// Shade returns the fill colour of a glyph: its tint or fg, faded towards
// bg by fog in proportion to the glyph's depth within [near, far].
func Shade(g Glyph, fg, bg colorful.Color, fog, near, far float64) colorful.Color {
	base := fg
	if g.Tinted {
		base = g.Tint
	}
	if fog <= 0 || far <= near {
		return base
	}
	t := (g.Depth - near) / (far - near)
	return base.BlendLab(bg, mgl64.Clamp(fog*t, 0, 1)).Clamped()
}
