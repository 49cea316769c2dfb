package arrange

import (
	"strings"

	"github.com/matzehuels/glyphorbit/pkg/errors"
)

// Shape is one of the supported surface families. The set of variants is
// closed: only types in this package implement it.
type Shape interface {
	// Name returns the canonical shape name as accepted by ParseShape.
	Name() string
	// Animated reports whether the shape is re-evaluated every frame.
	Animated() bool

	shape()
}

type (
	Circle struct{}
	Grid   struct{}
	Sphere struct{}
	Helix  struct{}
	Mobius struct{}
	Klein  struct{}

	// TorusKnot winds P times around the torus axis and Q times through
	// its hole. P = 0 or Q = 0 degenerate the knot into a circle or a
	// line; both are accepted.
	TorusKnot struct {
		P int
		Q int
	}
)

func (Circle) Name() string    { return "circle" }
func (Grid) Name() string      { return "grid" }
func (Sphere) Name() string    { return "sphere" }
func (Helix) Name() string     { return "helix" }
func (Mobius) Name() string    { return "mobius" }
func (Klein) Name() string     { return "klein" }
func (TorusKnot) Name() string { return "torus-klein-knot" }

func (Circle) Animated() bool    { return false }
func (Grid) Animated() bool      { return false }
func (Sphere) Animated() bool    { return false }
func (Helix) Animated() bool     { return false }
func (Mobius) Animated() bool    { return true }
func (Klein) Animated() bool     { return true }
func (TorusKnot) Animated() bool { return true }

func (Circle) shape()    {}
func (Grid) shape()      {}
func (Sphere) shape()    {}
func (Helix) shape()     {}
func (Mobius) shape()    {}
func (Klein) shape()     {}
func (TorusKnot) shape() {}

// Default knot windings.
const (
	DefaultKnotP = 2
	DefaultKnotQ = 3
)

// ShapeNames lists the canonical shape names in menu order.
var ShapeNames = []string{"circle", "grid", "sphere", "helix", "mobius", "klein", "torus-klein-knot"}

// ParseShape resolves a shape name. The knot windings p and q are only used
// for the torus knot ("torus-klein-knot", or its alias "torus-knot").
func ParseShape(name string, p, q int) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "circle":
		return Circle{}, nil
	case "grid":
		return Grid{}, nil
	case "sphere":
		return Sphere{}, nil
	case "helix":
		return Helix{}, nil
	case "mobius", "möbius":
		return Mobius{}, nil
	case "klein":
		return Klein{}, nil
	case "torus-klein-knot", "torus-knot", "torusknot":
		k := TorusKnot{P: p, Q: q}
		if err := k.validate(); err != nil {
			return nil, err
		}
		return k, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidShape, "unknown shape %q", name).
			WithHint("valid shapes: %s", strings.Join(ShapeNames, ", "))
	}
}

func (k TorusKnot) validate() error {
	if k.P < 0 || k.Q < 0 {
		return errors.New(errors.ErrCodeInvalidKnot, "knot windings must not be negative, got p=%d q=%d", k.P, k.Q)
	}
	return nil
}

// DefaultSpacing is the spacing multiplier used when none is configured.
const DefaultSpacing = 1.0

// Config is the arrangement configuration snapshot read on each call.
type Config struct {
	Shape   Shape
	Spacing float64
}

// DefaultConfig returns a circle at unit spacing.
func DefaultConfig() Config {
	return Config{Shape: Circle{}, Spacing: DefaultSpacing}
}

// Validate checks that the configuration can be arranged.
func (c Config) Validate() error {
	if c.Shape == nil {
		return errors.New(errors.ErrCodeInvalidShape, "shape is required")
	}
	if !(c.Spacing > 0) {
		return errors.New(errors.ErrCodeInvalidSpacing, "spacing must be positive, got %v", c.Spacing)
	}
	if k, ok := c.Shape.(TorusKnot); ok {
		return k.validate()
	}
	return nil
}
