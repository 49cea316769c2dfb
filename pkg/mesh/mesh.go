// Package mesh turns glyph outlines into extruded 3D meshes.
//
// An [Extruder] flattens an outline's curves into polylines, scales them to
// the requested size, centres the result on the origin and extrudes it along
// Z. The front face sits at +Depth/2 and faces +Z, which is the direction
// the arrangers point at their target.
//
// Meshes hold GPU-style resources in spirit: a [Mesh] that is no longer part
// of a scene must be released with [Mesh.Release] exactly once.
package mesh

import (
	"math"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/matzehuels/glyphorbit/pkg/errors"
	"github.com/matzehuels/glyphorbit/pkg/font"
)

const (
	DefaultDepth         = 4.0
	DefaultCurveSegments = 4
)

// Mesher builds a mesh from a glyph outline scaled to size.
type Mesher interface {
	Build(r rune, o font.Outline, size float64) (*Mesh, error)
}

// Mesh is an extruded glyph centred on the origin.
//
// Contours holds the flattened front-face rings in local XY space; the back
// face is the same rings at Z = -Depth/2. Vertices holds the front ring
// vertices of every contour followed by the back ring vertices, and
// Triangles indexes Vertices to form the side walls.
type Mesh struct {
	Rune      rune
	Contours  [][]mgl64.Vec2
	Depth     float64
	Vertices  []mgl64.Vec3
	Triangles [][3]uint32
	Min, Max  mgl64.Vec3

	released atomic.Bool
}

// Release frees the mesh. Calling it more than once is a no-op.
func (m *Mesh) Release() {
	if m == nil {
		return
	}
	if m.released.CompareAndSwap(false, true) {
		m.Vertices = nil
		m.Triangles = nil
	}
}

// Released reports whether Release has been called.
func (m *Mesh) Released() bool {
	return m != nil && m.released.Load()
}

// Size returns the extent of the mesh bounding box.
func (m *Mesh) Size() mgl64.Vec3 {
	return m.Max.Sub(m.Min)
}

// Extruder is the default Mesher.
type Extruder struct {
	Depth         float64 // extrusion depth in world units
	CurveSegments int     // line segments per quadratic or cubic curve
}

var _ Mesher = Extruder{}

// Build flattens o, scales it so that one em equals size world units, centres
// it and extrudes it.
func (e Extruder) Build(r rune, o font.Outline, size float64) (*Mesh, error) {
	if size <= 0 {
		return nil, errors.New(errors.ErrCodeMeshFailed, "glyph %q: size must be positive, got %v", r, size)
	}
	depth := e.Depth
	if depth <= 0 {
		depth = DefaultDepth
	}
	steps := e.CurveSegments
	if steps <= 0 {
		steps = DefaultCurveSegments
	}
	em := o.EM
	if em <= 0 {
		em = font.DefaultPPEM
	}

	contours := flatten(o.Segments, steps, size/em)
	if len(contours) == 0 {
		return nil, errors.New(errors.ErrCodeMeshFailed, "glyph %q has no closed contours", r)
	}
	centre(contours)

	m := &Mesh{Rune: r, Contours: contours, Depth: depth}
	m.extrude()
	return m, nil
}

// flatten converts outline segments into closed polylines. Degenerate
// contours (fewer than three points) are dropped.
func flatten(segs []font.Segment, steps int, scale float64) [][]mgl64.Vec2 {
	var (
		out  [][]mgl64.Vec2
		cur  []mgl64.Vec2
		last mgl64.Vec2
	)
	flush := func() {
		if n := len(cur); n > 1 && cur[0].ApproxEqual(cur[n-1]) {
			cur = cur[:n-1]
		}
		if len(cur) >= 3 {
			out = append(out, cur)
		}
		cur = nil
	}
	pt := func(p font.Point) mgl64.Vec2 { return mgl64.Vec2{p.X * scale, p.Y * scale} }

	for _, s := range segs {
		switch s.Op {
		case font.OpMoveTo:
			flush()
			last = pt(s.Points[0])
			cur = append(cur, last)
		case font.OpLineTo:
			last = pt(s.Points[0])
			cur = append(cur, last)
		case font.OpQuadTo:
			p0, p1, p2 := last, pt(s.Points[0]), pt(s.Points[1])
			for i := 1; i <= steps; i++ {
				cur = append(cur, mgl64.QuadraticBezierCurve2D(float64(i)/float64(steps), p0, p1, p2))
			}
			last = p2
		case font.OpCubicTo:
			p0, p1, p2, p3 := last, pt(s.Points[0]), pt(s.Points[1]), pt(s.Points[2])
			for i := 1; i <= steps; i++ {
				cur = append(cur, mgl64.CubicBezierCurve2D(float64(i)/float64(steps), p0, p1, p2, p3))
			}
			last = p3
		}
	}
	flush()
	return out
}

// centre translates the contours so their bounding box is centred on the
// origin.
func centre(contours [][]mgl64.Vec2) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range contours {
		for _, p := range c {
			minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
			minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
		}
	}
	off := mgl64.Vec2{(minX + maxX) / 2, (minY + maxY) / 2}
	for _, c := range contours {
		for i := range c {
			c[i] = c[i].Sub(off)
		}
	}
}

func (m *Mesh) extrude() {
	half := m.Depth / 2
	total := 0
	for _, c := range m.Contours {
		total += len(c)
	}
	m.Vertices = make([]mgl64.Vec3, 0, 2*total)
	for _, c := range m.Contours {
		for _, p := range c {
			m.Vertices = append(m.Vertices, mgl64.Vec3{p[0], p[1], half})
		}
	}
	for _, c := range m.Contours {
		for _, p := range c {
			m.Vertices = append(m.Vertices, mgl64.Vec3{p[0], p[1], -half})
		}
	}

	m.Triangles = make([][3]uint32, 0, 2*total)
	base := 0
	for _, c := range m.Contours {
		n := len(c)
		for j := 0; j < n; j++ {
			a := uint32(base + j)
			b := uint32(base + (j+1)%n)
			ba := a + uint32(total)
			bb := b + uint32(total)
			m.Triangles = append(m.Triangles, [3]uint32{a, ba, b}, [3]uint32{b, ba, bb})
		}
		base += n
	}

	m.Min = mgl64.Vec3{math.Inf(1), math.Inf(1), -half}
	m.Max = mgl64.Vec3{math.Inf(-1), math.Inf(-1), half}
	for _, v := range m.Vertices[:total] {
		m.Min[0], m.Max[0] = math.Min(m.Min[0], v[0]), math.Max(m.Max[0], v[0])
		m.Min[1], m.Max[1] = math.Min(m.Min[1], v[1]), math.Max(m.Max[1], v[1])
	}
}
