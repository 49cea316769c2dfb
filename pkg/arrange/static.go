package arrange

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/matzehuels/glyphorbit/pkg/errors"
)

// StaticPlacement evaluates a static shape for object i. The viewer is only
// used by the grid.
func StaticPlacement(s Shape, i, count int, spacing float64, viewer mgl64.Vec3) (Placement, error) {
	switch s.(type) {
	case Circle:
		return CirclePoint(i, count, spacing), nil
	case Grid:
		return GridPoint(i, count, spacing, viewer), nil
	case Sphere:
		return SpherePoint(i, count, spacing), nil
	case Helix:
		return HelixPoint(i, count, spacing), nil
	default:
		return Placement{}, errors.New(errors.ErrCodeInvalidShape, "%s is not a static shape", shapeName(s))
	}
}

// ArrangeStatic positions every object of c for a static shape. Per-object
// rotation is reset before the look-at orientation is applied. An empty
// collection is a no-op.
func ArrangeStatic(c Collection, cfg Config, viewer mgl64.Vec3) error {
	if len(c) == 0 {
		return nil
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Shape.Animated() {
		return errors.New(errors.ErrCodeInvalidShape, "%s is not a static shape", cfg.Shape.Name())
	}
	count := len(c)
	for i, o := range c {
		p, err := StaticPlacement(cfg.Shape, i, count, cfg.Spacing, viewer)
		if err != nil {
			return err
		}
		o.ResetRotation()
		o.place(p)
	}
	return nil
}

func shapeName(s Shape) string {
	if s == nil {
		return "<nil>"
	}
	return s.Name()
}
