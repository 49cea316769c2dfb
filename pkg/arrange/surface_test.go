package arrange

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const tol = 1e-9

func vecNear(a, b mgl64.Vec3, eps float64) bool {
	return a.Sub(b).Len() <= eps
}

func TestCirclePoint_FourGlyphs(t *testing.T) {
	want := []mgl64.Vec3{
		{200, 0, 0},
		{0, 0, 200},
		{-200, 0, 0},
		{0, 0, -200},
	}
	for i, w := range want {
		got := CirclePoint(i, 4, 1).Position
		if !vecNear(got, w, 1e-9) {
			t.Errorf("object %d at %v, want %v", i, got, w)
		}
	}
}

func TestCirclePoint_RadiusGrowsWithCount(t *testing.T) {
	// 1000 glyphs: max(200, 600) = 600, doubled by spacing.
	p := CirclePoint(0, 1000, 2).Position
	if math.Abs(p.Len()-1200) > tol {
		t.Errorf("radius = %v, want 1200", p.Len())
	}
}

func TestGridPoint_FourGlyphs(t *testing.T) {
	viewer := mgl64.Vec3{0, 0, 500}
	want := []mgl64.Vec3{
		{-20, 20, 0},
		{20, 20, 0},
		{-20, -20, 0},
		{20, -20, 0},
	}
	for i, w := range want {
		p := GridPoint(i, 4, 1, viewer)
		if !vecNear(p.Position, w, tol) {
			t.Errorf("object %d at %v, want %v", i, p.Position, w)
		}
		if p.Target != viewer {
			t.Errorf("object %d target %v, want viewer", i, p.Target)
		}
	}
}

func TestSpherePoint_OnSphere(t *testing.T) {
	for _, count := range []int{1, 7, 100, 2000} {
		r := math.Max(SphereMinRadius, float64(count)*SpherePerGlyph) * 1.5
		for i := 0; i < count; i++ {
			p := SpherePoint(i, count, 1.5).Position
			if math.Abs(p.Len()-r) > 1e-6 {
				t.Fatalf("count=%d i=%d: |p| = %v, want %v", count, i, p.Len(), r)
			}
		}
	}
	// i = 0 sits at the south pole
	p := SpherePoint(0, 10, 1).Position
	if math.Abs(p[1]+SphereMinRadius) > 1e-6 {
		t.Errorf("first object at %v, want south pole", p)
	}
}

func TestHelixPoint(t *testing.T) {
	count := 20
	for i := 0; i < count; i++ {
		p := HelixPoint(i, count, 1)
		radial := math.Hypot(p.Position[0], p.Position[2])
		if math.Abs(radial-HelixRadius) > 1e-9 {
			t.Errorf("i=%d radial = %v, want %v", i, radial, HelixRadius)
		}
		wantY := (float64(i) - 10) * 3
		if math.Abs(p.Position[1]-wantY) > 1e-9 {
			t.Errorf("i=%d y = %v, want %v", i, p.Position[1], wantY)
		}
		if p.Target != (mgl64.Vec3{0, p.Position[1], 0}) {
			t.Errorf("i=%d target = %v, want axis point", i, p.Target)
		}
	}
}

func TestMobiusPoint_WidthFromCentreCircle(t *testing.T) {
	for _, spacing := range []float64{0.5, 1, 2} {
		R := MobiusRadius * spacing
		for _, tm := range []float64{0, 0.7, 13.2} {
			for i := 0; i < 50; i++ {
				p := MobiusPoint(i, 50, spacing, tm).Position
				d := math.Hypot(math.Hypot(p[0], p[1])-R, p[2])
				if math.Abs(d-MobiusWidth) > 1e-9 {
					t.Fatalf("spacing=%v t=%v i=%d: distance %v, want 30", spacing, tm, i, d)
				}
			}
		}
	}
}

func TestKleinPoint_Lockstep(t *testing.T) {
	// At v = 0 the y coordinate vanishes for every object.
	for i := 0; i < 12; i++ {
		if y := KleinPoint(i, 12, 1, 0).Position[1]; math.Abs(y) > 1e-9 {
			t.Errorf("i=%d y = %v at t=0, want 0", i, y)
		}
	}
	// Objects with the same u move identically as t advances.
	a := KleinPoint(3, 12, 1, 2)
	b := KleinPoint(6, 24, 1, 2)
	if !vecNear(a.Position, b.Position, 1e-9) {
		t.Errorf("same parameter gives %v and %v", a.Position, b.Position)
	}
}

func TestKleinPoint_Branches(t *testing.T) {
	// u = 0: x = 3 + 2*(1-1/2)*cos v = 3 + cos v
	p := KleinPoint(0, 4, 1, 0).Position
	if !vecNear(p, mgl64.Vec3{4 * KleinScale, 0, 0}, 1e-9) {
		t.Errorf("u=0 at %v", p)
	}
	// u = pi takes the second branch: x = -3 + 3*cos(v+pi), z = 0
	p = KleinPoint(2, 4, 1, 0).Position
	if !vecNear(p, mgl64.Vec3{-6 * KleinScale, 0, 0}, 1e-9) {
		t.Errorf("u=pi at %v", p)
	}
}

func TestTorusKnotPoint_Tube(t *testing.T) {
	for _, k := range []TorusKnot{{2, 3}, {3, 5}, {1, 0}, {0, 1}, {0, 0}} {
		for _, spacing := range []float64{1, 2.5} {
			radius, tube := KnotRadius*spacing, KnotTubeRadius*spacing
			for i := 0; i < 64; i++ {
				f := TorusKnotFrame(i, 64, k, spacing, 1.3)
				p := f.Point
				d := math.Hypot(math.Hypot(p[0], p[1])-radius, p[2])
				if math.Abs(d-tube) > 1e-9 {
					t.Fatalf("knot %v spacing=%v i=%d: tube distance %v, want %v", k, spacing, i, d, tube)
				}
			}
		}
	}
}

func TestTorusKnotPlacement_HelixOffset(t *testing.T) {
	for _, k := range []TorusKnot{{2, 3}, {3, 7}, {5, 2}} {
		for _, tm := range []float64{0, 0.4, 10} {
			for i := 0; i < 40; i++ {
				p, f := TorusKnotPlacement(i, 40, k, 1, tm)
				if p.Target != f.Point {
					t.Fatalf("target %v is not the core point %v", p.Target, f.Point)
				}
				off := p.Position.Sub(f.Point).Len()
				if math.Abs(off-KnotHelixRadius) > 1e-3 {
					t.Fatalf("knot %v t=%v i=%d: offset %v, want 15", k, tm, i, off)
				}
			}
		}
	}
}

func TestTorusKnotFrame_Orthonormal(t *testing.T) {
	f := TorusKnotFrame(5, 32, TorusKnot{P: 2, Q: 3}, 1, 0.25)
	for name, v := range map[string]mgl64.Vec3{"T": f.Tangent, "N": f.Normal, "B": f.Binormal} {
		if math.Abs(v.Len()-1) > 1e-9 {
			t.Errorf("|%s| = %v", name, v.Len())
		}
	}
	if d := f.Tangent.Dot(f.Normal); math.Abs(d) > 1e-2 {
		t.Errorf("T.N = %v, want ~0", d)
	}
	if d := f.Normal.Dot(f.Binormal); math.Abs(d) > 1e-9 {
		t.Errorf("N.B = %v, want 0", d)
	}
}

func TestTorusKnotFrame_Degenerate(t *testing.T) {
	f := TorusKnotFrame(3, 10, TorusKnot{}, 1, 2)
	for _, v := range []mgl64.Vec3{f.Point, f.Tangent, f.Normal, f.Binormal} {
		for _, c := range v {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				t.Fatalf("degenerate knot produced %v", f)
			}
		}
	}
	if f.Tangent.Len() != 0 {
		t.Errorf("p=q=0 tangent = %v, want zero", f.Tangent)
	}
}

func TestKnotFrame_Hue(t *testing.T) {
	tests := []struct {
		i, count int
		t        float64
		want     float64
	}{
		{0, 4, 0, 0},
		{1, 4, 0, 0.25},
		{3, 4, 0, 0.75},
		{0, 4, 5, 0.25},  // 5 s * 0.05 = quarter turn
		{3, 4, 10, 0.25}, // wraps past 1
	}
	for _, tt := range tests {
		f := TorusKnotFrame(tt.i, tt.count, TorusKnot{P: 2, Q: 3}, 1, tt.t)
		if math.Abs(f.Hue()-tt.want) > 1e-9 {
			t.Errorf("i=%d t=%v: hue = %v, want %v", tt.i, tt.t, f.Hue(), tt.want)
		}
	}

	h, s, l := TorusKnotFrame(1, 4, TorusKnot{P: 2, Q: 3}, 1, 0).Color().Hsl()
	if math.Abs(h-90) > 1e-6 || math.Abs(s-KnotSaturation) > 1e-6 || math.Abs(l-KnotLightness) > 1e-6 {
		t.Errorf("Hsl = (%v, %v, %v), want (90, 0.8, 0.6)", h, s, l)
	}
}

func TestSurfaces_Deterministic(t *testing.T) {
	viewer := mgl64.Vec3{1, 2, 3}
	for _, name := range ShapeNames {
		s, _ := ParseShape(name, 3, 5)
		for i := 0; i < 9; i++ {
			var a, b Placement
			if s.Animated() {
				a, _, _ = AnimatedPlacement(s, i, 9, 1.3, 4.2)
				b, _, _ = AnimatedPlacement(s, i, 9, 1.3, 4.2)
			} else {
				a, _ = StaticPlacement(s, i, 9, 1.3, viewer)
				b, _ = StaticPlacement(s, i, 9, 1.3, viewer)
			}
			if a != b {
				t.Errorf("%s i=%d: %v != %v", name, i, a, b)
			}
		}
	}
}

func TestLookRotation(t *testing.T) {
	tests := []struct {
		name        string
		eye, target mgl64.Vec3
	}{
		{"towards origin", mgl64.Vec3{200, 0, 0}, mgl64.Vec3{}},
		{"towards viewer", mgl64.Vec3{-20, 20, 0}, mgl64.Vec3{0, 0, 500}},
		{"straight down", mgl64.Vec3{0, 150, 0}, mgl64.Vec3{}},
		{"straight up", mgl64.Vec3{0, -150, 0}, mgl64.Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := LookRotation(tt.eye, tt.target, Up)
			forward := q.Rotate(mgl64.Vec3{0, 0, 1})
			want := tt.target.Sub(tt.eye).Normalize()
			if forward.Sub(want).Len() > 1e-3 {
				t.Errorf("forward = %v, want %v", forward, want)
			}
		})
	}

	if q := LookRotation(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{1, 1, 1}, Up); !q.ApproxEqualThreshold(mgl64.QuatIdent(), 1e-9) {
		t.Errorf("coincident eye and target = %v, want identity", q)
	}
}
