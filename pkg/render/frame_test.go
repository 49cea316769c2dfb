package render

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/glyphorbit/pkg/arrange"
	"github.com/matzehuels/glyphorbit/pkg/font"
	"github.com/matzehuels/glyphorbit/pkg/mesh"
	"github.com/matzehuels/glyphorbit/pkg/scene"
)

func squareOutline() font.Outline {
	return font.Outline{
		EM: 1,
		Segments: []font.Segment{
			{Op: font.OpMoveTo, Points: [3]font.Point{{X: 0, Y: 0}}},
			{Op: font.OpLineTo, Points: [3]font.Point{{X: 1, Y: 0}}},
			{Op: font.OpLineTo, Points: [3]font.Point{{X: 1, Y: 1}}},
			{Op: font.OpLineTo, Points: [3]font.Point{{X: 0, Y: 1}}},
		},
	}
}

// circleDispatcher returns a dispatcher holding four meshed glyphs on the
// default circle: (200,0,0), (0,0,200), (-200,0,0), (0,0,-200).
func circleDispatcher(t *testing.T) *arrange.Dispatcher {
	t.Helper()
	var coll arrange.Collection
	for i, r := range "NESW" {
		m, err := mesh.Extruder{}.Build(r, squareOutline(), 20)
		if err != nil {
			t.Fatalf("Build(%c): %v", r, err)
		}
		coll = append(coll, &arrange.Object{Index: i, Rune: r, Mesh: m})
	}
	d := arrange.NewDispatcher(arrange.FixedViewer{0, 0, scene.DefaultDistance})
	if err := d.SetCollection(coll); err != nil {
		t.Fatalf("SetCollection: %v", err)
	}
	return d
}

func TestSnapshot_Empty(t *testing.T) {
	d := arrange.NewDispatcher(nil)
	f := Snapshot(d, scene.NewCamera(), 320, 240)
	if len(f.Glyphs) != 0 || f.Culled != 0 {
		t.Errorf("glyphs = %d, culled = %d, want 0, 0", len(f.Glyphs), f.Culled)
	}
	if f.Shape != "circle" {
		t.Errorf("Shape = %q, want circle", f.Shape)
	}
	if near, far := f.DepthRange(); near != 0 || far != 0 {
		t.Errorf("DepthRange = %v, %v, want 0, 0", near, far)
	}
}

func TestSnapshot_BackToFront(t *testing.T) {
	f := Snapshot(circleDispatcher(t), scene.NewCamera(), 640, 480)
	if len(f.Glyphs) != 4 {
		t.Fatalf("glyphs = %d, want 4", len(f.Glyphs))
	}
	for i := 1; i < len(f.Glyphs); i++ {
		if f.Glyphs[i].Depth > f.Glyphs[i-1].Depth {
			t.Errorf("glyph %d is farther than glyph %d", i, i-1)
		}
	}
	if f.Glyphs[0].Rune != 'W' || f.Glyphs[3].Rune != 'E' {
		t.Errorf("paint order = %c..%c, want W..E", f.Glyphs[0].Rune, f.Glyphs[3].Rune)
	}
	for _, g := range f.Glyphs {
		if len(g.Contours) != 1 || len(g.Contours[0]) != 4 {
			t.Errorf("%c contours = %v, want one ring of 4", g.Rune, g.Contours)
		}
	}
	if got := len(f.Visible()); got != 4 {
		t.Errorf("Visible = %d, want 4", got)
	}
}

func TestSnapshot_CentreProjectsToViewportCentre(t *testing.T) {
	d := circleDispatcher(t)
	f := Snapshot(d, scene.NewCamera(), 640, 480)
	for _, g := range f.Glyphs {
		if g.Rune != 'W' {
			continue
		}
		if math.Abs(g.Screen.X-320) > 1e-6 || math.Abs(g.Screen.Y-240) > 1e-6 {
			t.Errorf("W screen = %v, want (320, 240)", g.Screen)
		}
	}
}

func TestSnapshot_CullsBehindCamera(t *testing.T) {
	cam := scene.NewCamera()
	cam.Position = mgl64.Vec3{0, 0, 100}
	f := Snapshot(circleDispatcher(t), cam, 640, 480)
	if f.Culled != 1 {
		t.Errorf("Culled = %d, want 1", f.Culled)
	}
	for _, g := range f.Glyphs {
		if g.Rune == 'E' {
			t.Error("glyph behind the camera was not culled")
		}
	}
}

func TestSnapshot_AppliesSpin(t *testing.T) {
	d := circleDispatcher(t)
	if err := d.Tick(10, 10); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	f := Snapshot(d, scene.NewCamera(), 640, 480)
	if math.Abs(f.Spin-0.5) > 1e-9 {
		t.Fatalf("Spin = %v, want 0.5", f.Spin)
	}
	want := mgl64.QuatRotate(0.5, arrange.Up).Rotate(mgl64.Vec3{200, 0, 0})
	for _, g := range f.Glyphs {
		if g.Rune != 'N' {
			continue
		}
		if !g.Position.ApproxEqualThreshold(want, 1e-6) {
			t.Errorf("N position = %v, want %v", g.Position, want)
		}
	}
}

func TestSnapshot_ReleasedMeshHasNoContours(t *testing.T) {
	d := circleDispatcher(t)
	d.Collection()[0].Mesh.Release()
	f := Snapshot(d, scene.NewCamera(), 640, 480)
	if len(f.Glyphs) != 4 {
		t.Fatalf("glyphs = %d, want 4", len(f.Glyphs))
	}
	if got := len(f.Visible()); got != 3 {
		t.Errorf("Visible = %d, want 3", got)
	}
}

func TestShade(t *testing.T) {
	fg := colorful.Color{R: 1, G: 1, B: 1}
	bg := colorful.Color{}
	tint := colorful.Hsl(120, 0.8, 0.6)

	tests := []struct {
		name string
		g    Glyph
		fog  float64
		want colorful.Color
	}{
		{"nearest keeps fg", Glyph{Depth: 10}, 0.6, fg},
		{"no fog", Glyph{Depth: 20}, 0, fg},
		{"tint", Glyph{Depth: 10, Tint: tint, Tinted: true}, 0.6, tint},
		{"farthest fully faded", Glyph{Depth: 20}, 1, bg},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Shade(tt.g, fg, bg, tt.fog, 10, 20)
			if !got.AlmostEqualRgb(tt.want) {
				t.Errorf("Shade = %s, want %s", got.Hex(), tt.want.Hex())
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	if c, err := ParseColor("#ff0000"); err != nil || c.Hex() != "#ff0000" {
		t.Errorf("ParseColor(#ff0000) = %v, %v", c, err)
	}
	if _, err := ParseColor("red"); err == nil {
		t.Error("ParseColor(red) should fail")
	}
}
