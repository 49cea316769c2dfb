package mesh

import (
	"math"
	"testing"

	"github.com/matzehuels/glyphorbit/pkg/errors"
	"github.com/matzehuels/glyphorbit/pkg/font"
)

// square returns a 10x10 em-unit square outline starting at (10, 20).
func square() font.Outline {
	return font.Outline{
		EM: 10,
		Segments: []font.Segment{
			{Op: font.OpMoveTo, Points: [3]font.Point{{X: 10, Y: 20}}},
			{Op: font.OpLineTo, Points: [3]font.Point{{X: 20, Y: 20}}},
			{Op: font.OpLineTo, Points: [3]font.Point{{X: 20, Y: 30}}},
			{Op: font.OpLineTo, Points: [3]font.Point{{X: 10, Y: 30}}},
			{Op: font.OpLineTo, Points: [3]font.Point{{X: 10, Y: 20}}},
		},
	}
}

func TestExtruder_BuildSquare(t *testing.T) {
	m, err := Extruder{Depth: 2}.Build('x', square(), 5)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(m.Contours) != 1 {
		t.Fatalf("contours = %d, want 1", len(m.Contours))
	}
	// closing point collapses onto the start
	if got := len(m.Contours[0]); got != 4 {
		t.Errorf("ring size = %d, want 4", got)
	}
	if len(m.Vertices) != 8 {
		t.Errorf("vertices = %d, want 8", len(m.Vertices))
	}
	if len(m.Triangles) != 8 {
		t.Errorf("triangles = %d, want 8", len(m.Triangles))
	}

	// scale 5/10 turns the 10-unit square into 5 world units, centred.
	size := m.Size()
	if math.Abs(size[0]-5) > 1e-9 || math.Abs(size[1]-5) > 1e-9 || math.Abs(size[2]-2) > 1e-9 {
		t.Errorf("Size() = %v, want [5 5 2]", size)
	}
	if math.Abs(m.Min[0]+2.5) > 1e-9 || math.Abs(m.Max[1]-2.5) > 1e-9 {
		t.Errorf("bounds not centred: min=%v max=%v", m.Min, m.Max)
	}
}

func TestExtruder_CurveSegments(t *testing.T) {
	o := font.Outline{
		EM: 1,
		Segments: []font.Segment{
			{Op: font.OpMoveTo, Points: [3]font.Point{{X: 0, Y: 0}}},
			{Op: font.OpQuadTo, Points: [3]font.Point{{X: 1, Y: 2}, {X: 2, Y: 0}}},
			{Op: font.OpCubicTo, Points: [3]font.Point{{X: 2, Y: -1}, {X: 0, Y: -1}, {X: 0, Y: 0}}},
		},
	}
	tests := []struct {
		steps int
		want  int
	}{
		{2, 4},
		{4, 8},
		{0, 2 * DefaultCurveSegments},
	}
	for _, tt := range tests {
		m, err := Extruder{CurveSegments: tt.steps}.Build('o', o, 1)
		if err != nil {
			t.Fatalf("steps=%d: Build: %v", tt.steps, err)
		}
		// start point + steps per curve, minus the closing duplicate
		if got := len(m.Contours[0]); got != tt.want {
			t.Errorf("steps=%d: ring size = %d, want %d", tt.steps, got, tt.want)
		}
		if m.Depth != DefaultDepth {
			t.Errorf("Depth = %v, want default %v", m.Depth, DefaultDepth)
		}
	}
}

func TestExtruder_Errors(t *testing.T) {
	tests := []struct {
		name string
		o    font.Outline
		size float64
	}{
		{"zero size", square(), 0},
		{"empty outline", font.Outline{}, 10},
		{"degenerate", font.Outline{Segments: []font.Segment{
			{Op: font.OpMoveTo, Points: [3]font.Point{{X: 0, Y: 0}}},
			{Op: font.OpLineTo, Points: [3]font.Point{{X: 1, Y: 0}}},
		}}, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extruder{}.Build('?', tt.o, tt.size)
			if !errors.Is(err, errors.ErrCodeMeshFailed) {
				t.Errorf("err = %v, want MESH_FAILED", err)
			}
		})
	}
}

func TestMesh_Release(t *testing.T) {
	m, err := Extruder{}.Build('x', square(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if m.Released() {
		t.Fatal("fresh mesh reports released")
	}
	m.Release()
	m.Release()
	if !m.Released() || m.Vertices != nil {
		t.Error("mesh not released")
	}

	var nilMesh *Mesh
	nilMesh.Release()
	if nilMesh.Released() {
		t.Error("nil mesh reports released")
	}
}
