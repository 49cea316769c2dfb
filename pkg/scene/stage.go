package scene

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/glyphorbit/pkg/arrange"
	"github.com/matzehuels/glyphorbit/pkg/errors"
	"github.com/matzehuels/glyphorbit/pkg/font"
	"github.com/matzehuels/glyphorbit/pkg/mesh"
	"github.com/matzehuels/glyphorbit/pkg/observability"
)

// Defaults for a Stage.
const (
	DefaultGlyphSize = 24.0
	DefaultWorkers   = 8
)

// StageOption configures a Stage.
type StageOption func(*Stage)

// WithMesher sets the mesher used to build glyph meshes.
func WithMesher(m mesh.Mesher) StageOption {
	return func(s *Stage) {
		if m != nil {
			s.mesher = m
		}
	}
}

// WithGlyphSize sets the em size of each glyph in world units.
func WithGlyphSize(size float64) StageOption {
	return func(s *Stage) {
		if size > 0 {
			s.size = size
		}
	}
}

// WithWorkers sets the number of concurrent mesh builders.
func WithWorkers(n int) StageOption {
	return func(s *Stage) {
		if n > 0 {
			s.workers = n
		}
	}
}

// Stage holds the current arena and hands its collection to the dispatcher.
type Stage struct {
	dispatcher *arrange.Dispatcher
	mesher     mesh.Mesher
	size       float64
	workers    int

	mu      sync.Mutex
	current *Arena
	version uint64
}

// NewStage creates a stage driving d. The default mesher is a
// [mesh.Extruder] with default depth and curve resolution.
func NewStage(d *arrange.Dispatcher, opts ...StageOption) *Stage {
	s := &Stage{
		dispatcher: d,
		mesher:     mesh.Extruder{},
		size:       DefaultGlyphSize,
		workers:    DefaultWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dispatcher returns the dispatcher the stage drives.
func (s *Stage) Dispatcher() *arrange.Dispatcher { return s.dispatcher }

// Current returns the arena on screen, or nil before the first load.
func (s *Stage) Current() *Arena {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Version returns the version of the current arena.
func (s *Stage) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Load builds an arena from set and swaps it in.
func (s *Stage) Load(ctx context.Context, set *font.GlyphSet) (*Arena, error) {
	a, err := s.Build(ctx, set)
	if err != nil {
		return nil, err
	}
	if err := s.Swap(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// meshJob and meshResult carry one glyph through the worker pool.
type meshJob struct {
	index int
	glyph font.Glyph
}

type meshResult struct {
	index int
	mesh  *mesh.Mesh
	err   error
}

// Build meshes every glyph of set into a pending arena. Glyphs the mesher
// rejects are recorded in Arena.Skipped; the remaining objects are indexed
// consecutively in glyph order. The current arena is not touched.
func (s *Stage) Build(ctx context.Context, set *font.GlyphSet) (*Arena, error) {
	if set.Len() == 0 {
		return nil, errors.New(errors.ErrCodeEmptyFont, "glyph set is empty")
	}
	start := time.Now()
	observability.Pipeline().OnMeshStart(ctx, set.Len())

	meshes, err := s.buildMeshes(ctx, set.Glyphs)
	if err != nil {
		observability.Pipeline().OnMeshComplete(ctx, set.Len(), time.Since(start), err)
		return nil, err
	}

	coll := make(arrange.Collection, 0, len(meshes))
	var skipped []rune
	for i, g := range set.Glyphs {
		if meshes[i] == nil {
			skipped = append(skipped, g.Rune)
			continue
		}
		o := &arrange.Object{Index: len(coll), Rune: g.Rune, Mesh: meshes[i]}
		o.ResetRotation()
		coll = append(coll, o)
	}
	if len(coll) == 0 {
		err := errors.New(errors.ErrCodeMeshFailed, "no glyph of %q could be meshed", set.Family)
		observability.Pipeline().OnMeshComplete(ctx, set.Len(), time.Since(start), err)
		return nil, err
	}
	observability.Pipeline().OnMeshComplete(ctx, len(coll), time.Since(start), nil)

	a := newArena(set.Family, coll)
	a.Skipped = skipped
	return a, nil
}

// buildMeshes runs the mesher over glyphs on a fixed worker pool. The
// result slice is indexed like glyphs; rejected glyphs are nil. On
// cancellation every mesh built so far is released.
func (s *Stage) buildMeshes(ctx context.Context, glyphs []font.Glyph) ([]*mesh.Mesh, error) {
	jobs := make(chan meshJob)
	results := make(chan meshResult, len(glyphs))

	var wg sync.WaitGroup
	for range min(s.workers, len(glyphs)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				m, err := s.mesher.Build(j.glyph.Rune, j.glyph.Outline, s.size)
				results <- meshResult{index: j.index, mesh: m, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, g := range glyphs {
			select {
			case jobs <- meshJob{index: i, glyph: g}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	meshes := make([]*mesh.Mesh, len(glyphs))
	for r := range results {
		if r.err == nil {
			meshes[r.index] = r.mesh
		}
	}

	if err := ctx.Err(); err != nil {
		for _, m := range meshes {
			m.Release()
		}
		return nil, err
	}
	return meshes, nil
}

// Swap makes a the current arena. The previous arena is released before
// the new collection is handed to the dispatcher, which places it with the
// active configuration.
func (s *Stage) Swap(ctx context.Context, a *Arena) error {
	if a == nil || a.Released() {
		return errors.New(errors.ErrCodeInvalidInput, "arena is nil or released")
	}

	s.mu.Lock()
	old := s.current
	if old == a {
		s.mu.Unlock()
		return nil
	}
	s.version++
	a.Version = s.version
	s.current = a
	s.mu.Unlock()

	if old.Release() {
		observability.Scene().OnArenaRelease(ctx, old.ID.String(), old.Version)
	}

	start := time.Now()
	shape := s.dispatcher.Config().Shape.Name()
	observability.Pipeline().OnArrangeStart(ctx, shape, a.Len())
	err := s.dispatcher.SetCollection(a.Collection)
	observability.Pipeline().OnArrangeComplete(ctx, shape, time.Since(start), err)
	if err != nil {
		return err
	}
	observability.Scene().OnArenaLoad(ctx, a.ID.String(), a.Version, a.Len())
	return nil
}

// Close releases the current arena and empties the dispatcher.
func (s *Stage) Close() error {
	s.mu.Lock()
	old := s.current
	s.current = nil
	s.mu.Unlock()

	if old.Release() {
		observability.Scene().OnArenaRelease(context.Background(), old.ID.String(), old.Version)
	}
	return s.dispatcher.SetCollection(nil)
}
