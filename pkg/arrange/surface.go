package arrange

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
)

// Surface constants. Lengths are multiplied by the configured spacing unless
// noted otherwise.
const (
	CircleMinRadius   = 200.0
	CirclePerGlyph    = 0.6
	GridItemSize      = 40.0
	SphereMinRadius   = 150.0
	SpherePerGlyph    = 0.25
	HelixRadius       = 100.0
	HelixTurns        = 10.0
	HelixRise         = 15.0
	HelixRiseFactor   = 0.2
	MobiusRadius      = 150.0
	MobiusWidth       = 30.0 // not scaled by spacing
	MobiusSpeed       = 0.2
	KleinScale        = 30.0
	KleinSpeed        = 0.5
	KnotRadius        = 100.0
	KnotTubeRadius    = 40.0
	KnotSpeed         = 0.05
	KnotEpsilon       = 0.001
	KnotHelixRadius   = 15.0 // not scaled by spacing
	KnotHelixSpeed    = 5.0
	KnotHelixWindings = 4.0 // full turns of the secondary helix per knot loop
	KnotSaturation    = 0.8
	KnotLightness     = 0.6
)

// param returns the parametric coordinate i/count in [0, 1).
func param(i, count int) float64 {
	return float64(i) / float64(count)
}

// CirclePoint places object i on a ring in the XZ plane, facing the origin.
func CirclePoint(i, count int, spacing float64) Placement {
	r := math.Max(CircleMinRadius, float64(count)*CirclePerGlyph) * spacing
	a := param(i, count) * 2 * math.Pi
	return Placement{Position: mgl64.Vec3{r * math.Cos(a), 0, r * math.Sin(a)}}
}

// GridPoint places object i on a centred grid in the XY plane, filling rows
// top to bottom. The target is the viewer.
func GridPoint(i, count int, spacing float64, viewer mgl64.Vec3) Placement {
	size := GridItemSize * spacing
	cols := int(math.Ceil(math.Sqrt(float64(count))))
	col, row := i%cols, i/cols
	rows := count / cols
	x := (float64(col) - float64(cols-1)/2) * size
	y := -(float64(row) - float64(rows-1)/2) * size
	return Placement{Position: mgl64.Vec3{x, y, 0}, Target: viewer}
}

// SpherePoint places object i on a sphere, sweeping latitude with uniform
// area and spreading longitude by sqrt(count*pi).
func SpherePoint(i, count int, spacing float64) Placement {
	r := math.Max(SphereMinRadius, float64(count)*SpherePerGlyph) * spacing
	phi := math.Acos(-1 + 2*param(i, count))
	theta := math.Sqrt(float64(count)*math.Pi) * phi
	return Placement{Position: spherical(r, phi, theta)}
}

// spherical converts (radius, polar, azimuth) to Cartesian with Y up.
func spherical(r, phi, theta float64) mgl64.Vec3 {
	s := math.Sin(phi) * r
	return mgl64.Vec3{s * math.Sin(theta), math.Cos(phi) * r, s * math.Cos(theta)}
}

// HelixPoint places object i on a ten-turn helix around the Y axis. The
// target is the axis point at the same height.
func HelixPoint(i, count int, spacing float64) Placement {
	r := HelixRadius * spacing
	a := param(i, count) * 2 * math.Pi * HelixTurns
	y := (float64(i) - float64(count)/2) * (HelixRise * spacing) * HelixRiseFactor
	return Placement{
		Position: mgl64.Vec3{r * math.Cos(a), y, r * math.Sin(a)},
		Target:   mgl64.Vec3{0, y, 0},
	}
}

// MobiusPoint places object i on a Möbius band of radius 150*spacing and
// half-width 30 that rotates with time.
func MobiusPoint(i, count int, spacing, t float64) Placement {
	R := MobiusRadius * spacing
	u := param(i, count)*2*math.Pi + t*MobiusSpeed
	v := 2 * u
	ring := R + MobiusWidth*math.Cos(v/2)
	return Placement{Position: mgl64.Vec3{
		ring * math.Cos(u),
		ring * math.Sin(u),
		MobiusWidth * math.Sin(v/2),
	}}
}

// KleinPoint places object i on the figure-8 Klein bottle immersion. Every
// object shares v = 0.5*t, so the whole set moves in lockstep.
func KleinPoint(i, count int, spacing, t float64) Placement {
	u := param(i, count) * 2 * math.Pi
	v := t * KleinSpeed
	return Placement{Position: klein(u, v).Mul(KleinScale * spacing)}
}

func klein(u, v float64) mgl64.Vec3 {
	cu, su := math.Cos(u), math.Sin(u)
	r := 2 * (1 - cu/2)
	var x, z float64
	if u < math.Pi {
		x = 3*cu*(1+su) + r*cu*math.Cos(v)
		z = -8*su - r*su*math.Cos(v)
	} else {
		x = 3*cu*(1+su) + r*math.Cos(v+math.Pi)
		z = -8 * su
	}
	y := -r * math.Sin(v)
	return mgl64.Vec3{x, y, z}
}

// TorusKnotPoint evaluates the (p, q) torus knot curve at u.
func TorusKnotPoint(u float64, p, q int, radius, tube float64) mgl64.Vec3 {
	pu, qu := float64(p)*u, float64(q)*u
	ring := radius + tube*math.Cos(qu)
	return mgl64.Vec3{ring * math.Cos(pu), ring * math.Sin(pu), tube * math.Sin(qu)}
}

// KnotFrame is the local frame of the torus knot at one object.
type KnotFrame struct {
	U        float64    // curve parameter, 2*pi*(i/count + 0.05*t)
	Point    mgl64.Vec3 // P, on the core curve
	Tangent  mgl64.Vec3 // T, finite-difference along u
	Normal   mgl64.Vec3 // N, finite-difference along the tube radius
	Binormal mgl64.Vec3 // B = T x N, normalised
}

// TorusKnotFrame computes the knot frame for object i at time t. Degenerate
// windings yield zero-length frame vectors rather than NaNs.
func TorusKnotFrame(i, count int, k TorusKnot, spacing, t float64) KnotFrame {
	radius, tube := KnotRadius*spacing, KnotTubeRadius*spacing
	u := (param(i, count) + t*KnotSpeed) * 2 * math.Pi

	p := TorusKnotPoint(u, k.P, k.Q, radius, tube)
	tangent := safeNormalize(TorusKnotPoint(u+KnotEpsilon, k.P, k.Q, radius, tube).Sub(p))
	normal := safeNormalize(TorusKnotPoint(u, k.P, k.Q, radius, tube+KnotEpsilon).Sub(p))
	return KnotFrame{
		U:        u,
		Point:    p,
		Tangent:  tangent,
		Normal:   normal,
		Binormal: safeNormalize(tangent.Cross(normal)),
	}
}

// HelixOffset returns the secondary helix displacement of object i around
// the core curve.
func (f KnotFrame) HelixOffset(i, count int, t float64) mgl64.Vec3 {
	a := t*KnotHelixSpeed + param(i, count)*KnotHelixWindings*2*math.Pi
	return f.Normal.Mul(KnotHelixRadius * math.Cos(a)).Add(f.Binormal.Mul(KnotHelixRadius * math.Sin(a)))
}

// Hue returns the object's hue in [0, 1) derived from the curve parameter.
func (f KnotFrame) Hue() float64 {
	h := math.Mod(f.U, 2*math.Pi)
	if h < 0 {
		h += 2 * math.Pi
	}
	return h / (2 * math.Pi)
}

// Color returns the object's tint.
func (f KnotFrame) Color() colorful.Color {
	return colorful.Hsl(f.Hue()*360, KnotSaturation, KnotLightness)
}

// TorusKnotPlacement places object i on the secondary helix around the knot
// and targets the core curve.
func TorusKnotPlacement(i, count int, k TorusKnot, spacing, t float64) (Placement, KnotFrame) {
	f := TorusKnotFrame(i, count, k, spacing, t)
	return Placement{Position: f.Point.Add(f.HelixOffset(i, count, t)), Target: f.Point}, f
}

func safeNormalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < epsilon {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}
