// Package arrange places an ordered collection of glyph objects onto
// parametric surfaces.
//
// # Overview
//
// Every object in a [Collection] has a stable index i and the collection has
// a length count. Together they give each object a parametric coordinate
// i/count in [0, 1), which the surface functions map to a 3D position. The
// orientation of each object is a look-at rotation: the object's +Z axis
// points at a per-shape target (the origin, the viewer, the helix axis or
// the knot's core curve).
//
// # Shapes
//
// [Shape] is a closed set of variants. Static shapes have no time
// dependence:
//
//   - [Circle]: a ring in the XZ plane
//   - [Grid]: a square-ish grid in the XY plane facing the viewer
//   - [Sphere]: a uniform-area latitude sweep with a golden-angle spread
//   - [Helix]: ten turns around the Y axis
//
// Animated shapes are re-evaluated every frame:
//
//   - [Mobius]: a rotating single-sided band
//   - [Klein]: a figure-8 Klein bottle immersion; all objects share the
//     time-driven v parameter
//   - [TorusKnot]: a (p, q) torus knot with a secondary helix around the
//     curve and a per-object hue
//
// # Basic Usage
//
//	coll := make(arrange.Collection, 0, len(meshes))
//	for i, m := range meshes {
//	    coll = append(coll, &arrange.Object{Index: i, Mesh: m})
//	}
//	d := arrange.NewDispatcher(camera)
//	d.SetCollection(coll)
//	if err := d.Configure(arrange.Config{Shape: arrange.Helix{}, Spacing: 1}); err != nil {
//	    return err
//	}
//	// per frame:
//	d.Tick(elapsed, delta)
//
// # Determinism
//
// The surface functions and both arrangers are pure functions of
// (index, count, config, time). Calling them twice with the same inputs
// writes identical transforms. The only state that accumulates across
// frames is the whole-group spin kept by the [Dispatcher] for static shapes.
//
// # Concurrency
//
// A [Dispatcher] and the collection it drives are owned by a single
// animation loop and are not safe for concurrent use. The pure functions in
// this package may be called from any goroutine.
package arrange
