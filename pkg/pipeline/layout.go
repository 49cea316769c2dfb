package pipeline

import (
	"context"

	"github.com/matzehuels/glyphorbit/pkg/arrange"
	"github.com/matzehuels/glyphorbit/pkg/font"
	"github.com/matzehuels/glyphorbit/pkg/render"
	"github.com/matzehuels/glyphorbit/pkg/scene"
)

// =============================================================================
// Arrangement
// =============================================================================

// Frames meshes set into an arena and projects opts.Frames frames.
//
// The dispatcher is driven the way the viewer drives it: configured at
// time 0, then ticked forward to opts.Time and by 1/FPS for every further
// frame. Animated shapes are re-evaluated at each frame time; static shapes
// accumulate the group spin. The returned runes are the glyphs the mesher
// rejected. The arena is released before Frames returns.
func (r *Runner) Frames(ctx context.Context, set *font.GlyphSet, opts Options) ([]*render.Frame, []rune, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, err
	}
	cfg, err := opts.ArrangeConfig()
	if err != nil {
		return nil, nil, err
	}

	cam := opts.Camera()
	d := arrange.NewDispatcher(cam, arrange.WithConfig(cfg))
	stage := scene.NewStage(d,
		scene.WithMesher(opts.Mesher()),
		scene.WithGlyphSize(opts.GlyphSize),
		scene.WithWorkers(opts.Workers),
	)
	defer stage.Close()

	arena, err := stage.Load(ctx, set)
	if err != nil {
		return nil, nil, err
	}
	if len(arena.Skipped) > 0 {
		opts.Logger.Warn("glyphs without a mesh", "count", len(arena.Skipped), "runes", string(arena.Skipped))
	}
	if err := d.Configure(cfg); err != nil {
		return nil, nil, err
	}

	frames := make([]*render.Frame, 0, opts.Frames)
	prev := 0.0
	for i := range opts.Frames {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		t := opts.FrameTime(i)
		if t > prev || i > 0 {
			if err := d.Tick(t, t-prev); err != nil {
				return nil, nil, err
			}
		}
		prev = t

		f := render.Snapshot(d, cam, opts.Width, opts.Height)
		f.Time = t
		frames = append(frames, f)
	}
	return frames, arena.Skipped, nil
}
