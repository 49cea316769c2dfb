// Package pkg provides the core libraries for glyphorbit glyph arrangements.
//
// # Overview
//
// Glyphorbit turns the characters of a font into individually placed 3D
// objects and lays them out on parametric surfaces. The pkg directory is
// organized into four main areas:
//
//  1. [arrange] - The arrangement engine (shapes, arrangers, dispatcher)
//  2. [font], [mesh], [scene] - Glyph decoding, extrusion and the arena
//  3. [render] - Projection and output sinks
//  4. [pipeline] - Orchestration (load → decode → arrange → render)
//
// # Architecture
//
// The typical data flow through glyphorbit:
//
//	Font reference (builtin, file, URL)
//	         ↓
//	    [source] package (resolve to bytes)
//	         ↓
//	    [font] package (decode glyph outlines)
//	         ↓
//	    [mesh] + [scene] packages (extrude into an arena)
//	         ↓
//	    [arrange] package (place objects on a shape, animate)
//	         ↓
//	    [render] package (project, depth sort)
//	         ↓
//	    SVG/PDF/PNG/JSON output or the terminal viewer
//
// # Quick Start
//
// Arrange a builtin font on a sphere and render it to SVG:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/glyphorbit/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, _ := runner.Execute(context.Background(), pipeline.Options{
//	    Font:  "builtin:goregular",
//	    Shape: "sphere",
//	})
//	svg := result.Artifacts["svg"][0]
//
// # Main Packages
//
// ## Arrangement
//
// [arrange] - Surface parameter functions for the Möbius strip, Klein bottle
// and torus knot, the static arranger (circle, grid, sphere, helix), the
// animated arranger and the [arrange.Dispatcher] that routes configuration
// changes and animation ticks and owns the whole-group spin.
//
// ## Glyphs
//
// [font] - Glyph outlines decoded with golang.org/x/image/font/sfnt.
//
// [fonts] - The embedded Go fonts, addressable as builtin:<name>.
//
// [mesh] - Extrusion of outlines into front and back rings plus side walls.
//
// [scene] - The arena of meshed objects, the stage that swaps arenas and
// the fly camera.
//
// ## Visualization
//
// [render] - Frame snapshots projected through the camera, fog shading, the
// terminal canvas and format conversion (SVG to PDF/PNG).
//
//   - [render/sink]: Output formats (SVG, PDF, PNG, JSON)
//
// ## Infrastructure
//
// [pipeline] - Complete pipeline (load → decode → arrange → render) used by
// the render command and the viewer.
//
// [source] - Font references resolved from builtins, files or URLs with
// retry and ETag revalidation.
//
// [cache] - Cache interface with file, memory, Redis and null backends.
//
// [httputil] - HTTP client, retry helpers and the validator store.
//
// [config] - TOML configuration.
//
// [errors] - Structured error codes.
//
// [observability] - Hooks for logging and metrics.
//
// # Common Workflows
//
// Drive the engine directly:
//
//	d := arrange.NewDispatcher(camera, arrange.WithConfig(arrange.Config{
//	    Shape:   arrange.TorusKnot{P: 2, Q: 3},
//	    Spacing: 1,
//	}))
//	stage := scene.NewStage(d)
//	stage.Load(ctx, glyphs)
//	d.Tick(elapsed, delta)
//	frame := render.Snapshot(d, camera, 1200, 900)
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/arrange/...            # Specific package
//	go test -run Example                 # Examples only
//
// [arrange]: https://pkg.go.dev/github.com/matzehuels/glyphorbit/pkg/arrange
// [arrange.Dispatcher]: https://pkg.go.dev/github.com/matzehuels/glyphorbit/pkg/arrange#Dispatcher
// [font]: https://pkg.go.dev/github.com/matzehuels/glyphorbit/pkg/font
// [fonts]: https://pkg.go.dev/github.com/matzehuels/glyphorbit/pkg/fonts
// [mesh]: https://pkg.go.dev/github.com/matzehuels/glyphorbit/pkg/mesh
// [scene]: https://pkg.go.dev/github.com/matzehuels/glyphorbit/pkg/scene
// [render]: https://pkg.go.dev/github.com/matzehuels/glyphorbit/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/glyphorbit/pkg/render/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/glyphorbit/pkg/pipeline
// [source]: https://pkg.go.dev/github.com/matzehuels/glyphorbit/pkg/source
// [cache]: https://pkg.go.dev/github.com/matzehuels/glyphorbit/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/glyphorbit/pkg/httputil
// [config]: https://pkg.go.dev/github.com/matzehuels/glyphorbit/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/glyphorbit/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/glyphorbit/pkg/observability
package pkg
