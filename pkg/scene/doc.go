// Package scene owns the glyph collection and the camera the arrangement
// engine works against.
//
// # Arenas
//
// Every successfully decoded font produces a fresh [Arena]: a uuid-tagged,
// versioned container for one [arrange.Collection] and the meshes behind
// it. [Stage.Build] meshes a glyph set into a pending arena without touching
// what is on screen. [Stage.Swap] then releases the previous arena's meshes
// and installs the new collection in the dispatcher in one step, so the
// engine never observes a partially built or half-released collection.
//
//	stage := scene.NewStage(dispatcher, scene.WithGlyphSize(24))
//	arena, err := stage.Load(ctx, glyphs)
//
// # Camera
//
// [Camera] is a free-flying perspective camera. It implements
// [arrange.Viewer], so shapes that face the viewer (the grid) face it.
//
// # Concurrency
//
// Build may run on any goroutine and meshes glyphs on a small worker pool.
// Swap, Close and every call into the dispatcher belong to the animation
// loop's goroutine.
package scene
