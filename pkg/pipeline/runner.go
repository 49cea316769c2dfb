package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/glyphorbit/pkg/cache"
	"github.com/matzehuels/glyphorbit/pkg/font"
	"github.com/matzehuels/glyphorbit/pkg/observability"
	"github.com/matzehuels/glyphorbit/pkg/source"
)

// Runner encapsulates pipeline execution with caching.
// Both the render command and the viewer use it to avoid duplicating
// caching logic.
//
// The Runner is stateless except for the cache, loader and logger - it
// doesn't store pipeline results. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Loader *source.Loader
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// The font loader shares the cache; replace Runner.Loader to add
// HTTP validators or a custom client.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Loader: source.NewLoader(source.WithCache(c), source.WithKeyer(keyer)),
		Logger: logger,
	}
}

// Execute runs the complete load → decode → arrange → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	f, err := r.LoadFont(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Font = f
	result.Stats.LoadTime = time.Since(loadStart)
	result.CacheInfo.FontHit = f.Cached

	r.Logger.Info("loaded font",
		"source", f.Name,
		"bytes", len(f.Data),
		"cached", f.Cached,
		"duration", result.Stats.LoadTime)

	// Stage 2: Decode
	decodeStart := time.Now()
	set, decodeHit, err := r.DecodeWithCacheInfo(ctx, f, opts)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	result.Glyphs = set
	result.Stats.DecodeTime = time.Since(decodeStart)
	result.Stats.GlyphCount = set.Len()
	result.CacheInfo.DecodeHit = decodeHit

	r.Logger.Info("decoded glyphs",
		"family", set.Family,
		"glyphs", set.Len(),
		"duration", result.Stats.DecodeTime)

	// All frames cached: skip meshing entirely.
	if cached, ok := r.cachedArtifacts(ctx, f.Hash, opts); ok {
		result.Artifacts = cached
		result.CacheInfo.RenderHit = true
		r.Logger.Info("rendered outputs", "formats", opts.Formats, "frames", opts.Frames, "cached", true)
		return result, nil
	}

	// Stage 3: Arrange
	arrangeStart := time.Now()
	frames, skipped, err := r.Frames(ctx, set, opts)
	if err != nil {
		return nil, fmt.Errorf("arrange: %w", err)
	}
	result.Frames = frames
	result.Stats.ArrangeTime = time.Since(arrangeStart)
	result.Stats.SkippedCount = len(skipped)
	for _, fr := range frames {
		result.Stats.CulledCount += fr.Culled
	}

	r.Logger.Info("arranged glyphs",
		"shape", frames[0].Shape,
		"frames", len(frames),
		"skipped", len(skipped),
		"duration", result.Stats.ArrangeTime)

	// Stage 4: Render
	renderStart := time.Now()
	artifacts, err := r.Render(ctx, frames, set.Family, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	r.storeArtifacts(ctx, f.Hash, artifacts, opts)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"frames", len(frames),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadFont resolves opts.Font to bytes.
func (r *Runner) LoadFont(ctx context.Context, opts Options) (*source.Font, error) {
	opts.SetDefaults()
	return r.Loader.Load(ctx, opts.Font, opts.Refresh)
}

// DecodeWithCacheInfo decodes f with caching and returns cache hit info.
func (r *Runner) DecodeWithCacheInfo(ctx context.Context, f *source.Font, opts Options) (*font.GlyphSet, bool, error) {
	opts.SetDefaults()
	r.applyLogger(&opts)

	cacheKey := r.Keyer.GlyphsKey(f.Hash, opts.GlyphsKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var set font.GlyphSet
			if err := json.Unmarshal(data, &set); err == nil && set.Len() > 0 {
				observability.Cache().OnCacheHit(ctx, cacheKey)
				return &set, true, nil // Cache hit
			}
			// If deserialization fails, fall through to decode
		}
		observability.Cache().OnCacheMiss(ctx, cacheKey)
	}

	set, err := Decode(ctx, f, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(set); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.GlyphsTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, cacheKey, len(data))
		} else {
			opts.Logger.Debug("glyph cache write failed", "error", err)
		}
	}

	return set, false, nil // Cache miss
}

// Decode is a convenience wrapper that calls DecodeWithCacheInfo and discards the cache hit info.
func (r *Runner) Decode(ctx context.Context, f *source.Font, opts Options) (*font.GlyphSet, error) {
	set, _, err := r.DecodeWithCacheInfo(ctx, f, opts)
	return set, err
}

// cachedArtifacts returns every requested artifact of every frame if all
// of them are cached.
func (r *Runner) cachedArtifacts(ctx context.Context, fontHash string, opts Options) (map[string][][]byte, bool) {
	if opts.Refresh {
		return nil, false
	}
	artifacts := make(map[string][][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		frames := make([][]byte, opts.Frames)
		for i := range frames {
			key := r.Keyer.ArtifactKey(fontHash, opts.ArtifactKeyOpts(format, i))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, key)
				return nil, false
			}
			observability.Cache().OnCacheHit(ctx, key)
			frames[i] = data
		}
		artifacts[format] = frames
	}
	return artifacts, true
}

func (r *Runner) storeArtifacts(ctx context.Context, fontHash string, artifacts map[string][][]byte, opts Options) {
	for format, frames := range artifacts {
		for i, data := range frames {
			key := r.Keyer.ArtifactKey(fontHash, opts.ArtifactKeyOpts(format, i))
			if err := r.Cache.Set(ctx, key, data, cache.ArtifactTTL); err != nil {
				r.Logger.Debug("artifact cache write failed", "format", format, "frame", i, "error", err)
				continue
			}
			observability.Cache().OnCacheSet(ctx, key, len(data))
		}
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
