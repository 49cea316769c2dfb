package arrange

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// SpinRate is the whole-group rotation applied to static shapes, in radians
// per second of frame delta.
const SpinRate = 0.05

// Viewer supplies the camera position used by shapes that face the viewer.
type Viewer interface {
	Eye() mgl64.Vec3
}

// FixedViewer is a Viewer at a constant position.
type FixedViewer mgl64.Vec3

// Eye returns the fixed position.
func (v FixedViewer) Eye() mgl64.Vec3 { return mgl64.Vec3(v) }

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithKnotControls registers a callback invoked with the knot control
// visibility whenever the configuration changes.
func WithKnotControls(fn func(visible bool)) DispatcherOption {
	return func(d *Dispatcher) { d.onKnotControls = fn }
}

// WithConfig sets the initial configuration without arranging. Invalid
// configurations are ignored.
func WithConfig(cfg Config) DispatcherOption {
	return func(d *Dispatcher) {
		if cfg.Validate() == nil {
			d.cfg = cfg
		}
	}
}

// Dispatcher routes configuration changes and animation ticks to the
// matching arranger and owns the whole-group spin.
type Dispatcher struct {
	viewer         Viewer
	coll           Collection
	cfg            Config
	spin           float64
	knotControls   bool
	onKnotControls func(bool)
}

// NewDispatcher creates a dispatcher with the default configuration. A nil
// viewer is treated as a viewer at the origin.
func NewDispatcher(viewer Viewer, opts ...DispatcherOption) *Dispatcher {
	if viewer == nil {
		viewer = FixedViewer{}
	}
	d := &Dispatcher{viewer: viewer, cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(d)
	}
	_, d.knotControls = d.cfg.Shape.(TorusKnot)
	return d
}

// SetCollection replaces the collection and places it with the current
// configuration at time 0. The previous collection is not released; its
// owner does that.
func (d *Dispatcher) SetCollection(c Collection) error {
	d.coll = c
	return d.arrange(0)
}

// Collection returns the current collection.
func (d *Dispatcher) Collection() Collection { return d.coll }

// Config returns the active configuration.
func (d *Dispatcher) Config() Config { return d.cfg }

// Spin returns the whole-group rotation angle around Y, in [0, 2*pi).
func (d *Dispatcher) Spin() float64 { return d.spin }

// GroupRotation returns the whole-group rotation.
func (d *Dispatcher) GroupRotation() mgl64.Quat {
	return mgl64.QuatRotate(d.spin, Up)
}

// KnotControlsVisible reports whether the knot winding controls should be
// shown.
func (d *Dispatcher) KnotControlsVisible() bool { return d.knotControls }

// Configure applies a new configuration: it resets the group spin, toggles
// the knot controls and places every object (at time 0 for animated
// shapes). An invalid configuration is rejected and leaves all state
// unchanged.
func (d *Dispatcher) Configure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	d.cfg = cfg
	d.spin = 0

	_, knot := cfg.Shape.(TorusKnot)
	d.knotControls = knot
	if d.onKnotControls != nil {
		d.onKnotControls(knot)
	}
	if !knot {
		d.coll.clearTints()
	}
	return d.arrange(0)
}

// Tick advances one animation frame. Animated shapes are re-evaluated at
// elapsed seconds; static shapes spin by SpinRate*delta. An empty
// collection is a no-op.
func (d *Dispatcher) Tick(elapsed, delta float64) error {
	if len(d.coll) == 0 {
		return nil
	}
	if d.cfg.Shape.Animated() {
		return ArrangeAnimated(d.coll, d.cfg, elapsed)
	}
	d.spin = math.Mod(d.spin+SpinRate*delta, 2*math.Pi)
	if d.spin < 0 {
		d.spin += 2 * math.Pi
	}
	return nil
}

func (d *Dispatcher) arrange(t float64) error {
	if len(d.coll) == 0 {
		return nil
	}
	if d.cfg.Shape.Animated() {
		return ArrangeAnimated(d.coll, d.cfg, t)
	}
	return ArrangeStatic(d.coll, d.cfg, d.viewer.Eye())
}
