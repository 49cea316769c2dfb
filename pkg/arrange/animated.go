package arrange

import (
	"github.com/matzehuels/glyphorbit/pkg/errors"
)

// AnimatedPlacement evaluates an animated shape for object i at time t.
// The returned frame is only set for the torus knot.
func AnimatedPlacement(s Shape, i, count int, spacing, t float64) (Placement, *KnotFrame, error) {
	switch s := s.(type) {
	case Mobius:
		return MobiusPoint(i, count, spacing, t), nil, nil
	case Klein:
		return KleinPoint(i, count, spacing, t), nil, nil
	case TorusKnot:
		p, f := TorusKnotPlacement(i, count, s, spacing, t)
		return p, &f, nil
	default:
		return Placement{}, nil, errors.New(errors.ErrCodeInvalidShape, "%s is not an animated shape", shapeName(s))
	}
}

// ArrangeAnimated positions every object of c for an animated shape at
// elapsed time t. For the torus knot it also sets each object's tint. An
// empty collection is a no-op.
func ArrangeAnimated(c Collection, cfg Config, t float64) error {
	if len(c) == 0 {
		return nil
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !cfg.Shape.Animated() {
		return errors.New(errors.ErrCodeInvalidShape, "%s is not an animated shape", cfg.Shape.Name())
	}
	count := len(c)
	for i, o := range c {
		p, frame, err := AnimatedPlacement(cfg.Shape, i, count, cfg.Spacing, t)
		if err != nil {
			return err
		}
		o.place(p)
		if frame != nil {
			o.Tint = frame.Color()
			o.Tinted = true
		}
	}
	return nil
}
