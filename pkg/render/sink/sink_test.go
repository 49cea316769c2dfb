package sink

import (
	"bytes"
	"encoding/json"
	"image/png"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/glyphorbit/pkg/render"
)

func testFrame() *render.Frame {
	square := [][]render.Point{{{X: 10, Y: 10}, {X: 20, Y: 10}, {X: 20, Y: 20}, {X: 10, Y: 20}}}
	return &render.Frame{
		Width:  200,
		Height: 100,
		Shape:  "torus-klein-knot",
		Time:   1.5,
		Glyphs: []render.Glyph{
			{
				Index: 2, Rune: 'B',
				Position:    mgl64.Vec3{-5, 0, -40},
				Orientation: mgl64.QuatIdent(),
				Screen:      render.Point{X: 15, Y: 15},
				Depth:       40,
				Contours:    square,
				Tint:        colorful.Color{R: 1},
				Tinted:      true,
			},
			{
				Index: 0, Rune: 'A',
				Position:    mgl64.Vec3{1, 2, 3},
				Orientation: mgl64.QuatRotate(0.5, mgl64.Vec3{0, 1, 0}),
				Screen:      render.Point{X: 50, Y: 60},
				Depth:       20,
				Contours:    square,
			},
			{Index: 1, Rune: ' ', Depth: 10}, // no contours
		},
	}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(testFrame(), WithFog(0), WithTitle("a<b")))

	if got := strings.Count(svg, "<path "); got != 2 {
		t.Errorf("paths = %d, want 2 (one per visible glyph)", got)
	}
	for _, want := range []string{
		`viewBox="0 0 200 100"`,
		`fill-rule="nonzero"`,
		`id="glyph-2"`,
		`data-rune="U+0042"`,
		`fill="#ff0000"`,
		`fill="` + DefaultForeground.Hex() + `"`,
		`d="M10.00 10.00 L20.00 10.00 L20.00 20.00 L10.00 20.00 Z"`,
		"<title>a&lt;b</title>",
		`<rect width="100%" height="100%" fill="` + DefaultBackground.Hex() + `"/>`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %s", want)
		}
	}
	if strings.Index(svg, `id="glyph-2"`) > strings.Index(svg, `id="glyph-0"`) {
		t.Error("far glyph must be painted first")
	}
}

func TestRenderSVG_Options(t *testing.T) {
	bg := colorful.Color{R: 0, G: 0, B: 1}
	svg := string(RenderSVG(testFrame(), WithBackground(bg), WithTransparent()))
	if strings.Contains(svg, "<rect") {
		t.Error("transparent SVG has a background rect")
	}

	svg = string(RenderSVG(nil))
	if !strings.HasPrefix(svg, "<svg") || strings.Contains(svg, "<path") {
		t.Errorf("RenderSVG(nil) = %q", svg)
	}
}

func TestRenderJSON(t *testing.T) {
	f := testFrame()
	data, err := RenderJSON(f, WithJSONFamily("Go"), WithJSONContours())
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}

	if out.Width != 200 || out.Height != 100 {
		t.Errorf("size = %dx%d, want 200x100", out.Width, out.Height)
	}
	if out.Family != "Go" || out.Shape != "torus-klein-knot" || out.Time != 1.5 {
		t.Errorf("metadata = %q %q %v", out.Family, out.Shape, out.Time)
	}
	if len(out.Glyphs) != 3 {
		t.Fatalf("glyphs = %d, want 3", len(out.Glyphs))
	}
	for i, g := range out.Glyphs {
		want := f.Glyphs[i]
		if mgl64.Vec3(g.Position) != want.Position {
			t.Errorf("glyph %d position = %v, want %v", i, g.Position, want.Position)
		}
		q := want.Orientation
		if g.Orientation != [4]float64{q.W, q.V[0], q.V[1], q.V[2]} {
			t.Errorf("glyph %d orientation = %v, want %v", i, g.Orientation, q)
		}
		if g.Rune != string(want.Rune) {
			t.Errorf("glyph %d rune = %q, want %q", i, g.Rune, string(want.Rune))
		}
	}
	if out.Glyphs[0].Tint != "#ff0000" || out.Glyphs[1].Tint != "" {
		t.Errorf("tints = %q, %q", out.Glyphs[0].Tint, out.Glyphs[1].Tint)
	}
	if len(out.Glyphs[0].Contours) != 1 || len(out.Glyphs[0].Contours[0]) != 4 {
		t.Errorf("contours = %v", out.Glyphs[0].Contours)
	}
}

func TestRenderJSON_NilFrame(t *testing.T) {
	data, err := RenderJSON(nil)
	if err != nil {
		t.Fatalf("RenderJSON(nil) error: %v", err)
	}
	if !strings.Contains(string(data), `"glyphs": []`) {
		t.Errorf("RenderJSON(nil) = %s", data)
	}
}

func TestRasterPNG(t *testing.T) {
	bg := colorful.Color{R: 0, G: 0, B: 1}
	data, err := RenderPNG(testFrame(), WithNativeRaster(), WithScale(1),
		WithPNGSVGOptions(WithBackground(bg), WithForeground(colorful.Color{G: 1}), WithFog(0)))
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Fatalf("size = %v, want 200x100", b)
	}

	tests := []struct {
		name    string
		x, y    int
		r, g, b uint32
	}{
		// Both glyphs share the square; the nearer, untinted one is drawn last.
		{"inside the glyph", 15, 15, 0, 0xffff, 0},
		{"background", 100, 80, 0, 0, 0xffff},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b, _ := img.At(tt.x, tt.y).RGBA()
			if r != tt.r || g != tt.g || b != tt.b {
				t.Errorf("pixel (%d,%d) = %04x %04x %04x, want %04x %04x %04x", tt.x, tt.y, r, g, b, tt.r, tt.g, tt.b)
			}
		})
	}
}

func TestRasterPNG_Scale(t *testing.T) {
	data, err := RasterPNG(testFrame(), 2)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 400 || cfg.Height != 200 {
		t.Errorf("size = %dx%d, want 400x200", cfg.Width, cfg.Height)
	}
	if _, err := RasterPNG(&render.Frame{}, 1); err == nil {
		t.Error("empty frame should fail")
	}
}

func TestRenderPNG_FallsBackWithoutConverter(t *testing.T) {
	old := render.Converter
	render.Converter = "glyphorbit-missing-rsvg"
	t.Cleanup(func() { render.Converter = old })

	data, err := RenderPNG(testFrame(), WithScale(1))
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	if _, err := png.DecodeConfig(bytes.NewReader(data)); err != nil {
		t.Errorf("fallback output is not a PNG: %v", err)
	}
	if _, err := RenderPDF(testFrame()); err == nil {
		t.Error("RenderPDF should fail without the converter")
	}
}
