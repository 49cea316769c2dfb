package arrange

import (
	"math"
	"testing"

	"github.com/matzehuels/glyphorbit/pkg/errors"
)

func TestParseShape(t *testing.T) {
	tests := []struct {
		name     string
		want     Shape
		animated bool
	}{
		{"circle", Circle{}, false},
		{"Grid", Grid{}, false},
		{" sphere ", Sphere{}, false},
		{"helix", Helix{}, false},
		{"mobius", Mobius{}, true},
		{"möbius", Mobius{}, true},
		{"klein", Klein{}, true},
		{"torus-klein-knot", TorusKnot{P: 2, Q: 3}, true},
		{"torus-knot", TorusKnot{P: 2, Q: 3}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseShape(tt.name, 2, 3)
			if err != nil {
				t.Fatalf("ParseShape: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
			if got.Animated() != tt.animated {
				t.Errorf("Animated() = %v, want %v", got.Animated(), tt.animated)
			}
		})
	}
}

func TestParseShape_Errors(t *testing.T) {
	tests := []struct {
		name string
		p, q int
		code errors.Code
	}{
		{"cube", 0, 0, errors.ErrCodeInvalidShape},
		{"", 0, 0, errors.ErrCodeInvalidShape},
		{"torus-knot", -1, 3, errors.ErrCodeInvalidKnot},
		{"torus-knot", 2, -3, errors.ErrCodeInvalidKnot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseShape(tt.name, tt.p, tt.q)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestShapeNames_RoundTrip(t *testing.T) {
	for _, name := range ShapeNames {
		s, err := ParseShape(name, DefaultKnotP, DefaultKnotQ)
		if err != nil {
			t.Fatalf("ParseShape(%q): %v", name, err)
		}
		if s.Name() != name {
			t.Errorf("Name() = %q, want %q", s.Name(), name)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		code errors.Code
	}{
		{"default", DefaultConfig(), ""},
		{"degenerate knot", Config{Shape: TorusKnot{}, Spacing: 1}, ""},
		{"nil shape", Config{Spacing: 1}, errors.ErrCodeInvalidShape},
		{"zero spacing", Config{Shape: Grid{}}, errors.ErrCodeInvalidSpacing},
		{"negative spacing", Config{Shape: Grid{}, Spacing: -1}, errors.ErrCodeInvalidSpacing},
		{"nan spacing", Config{Shape: Grid{}, Spacing: math.NaN()}, errors.ErrCodeInvalidSpacing},
		{"negative knot", Config{Shape: TorusKnot{P: -2}, Spacing: 1}, errors.ErrCodeInvalidKnot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.code == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Validate() = %v, want %s", err, tt.code)
			}
		})
	}
}
