// Package pipeline provides the font-to-frame pipeline for glyphorbit.
//
// This package implements the complete load → decode → arrange → render
// pipeline used by the render command and by the viewer's font loading. By
// centralizing this logic, both entry points cache and arrange glyphs the
// same way.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: Resolve a font reference (builtin, file or URL) to bytes
//  2. Decode: Turn the font into an ordered glyph set
//  3. Arrange: Mesh the glyphs into an arena and drive the dispatcher to
//     each requested frame time
//  4. Render: Project every frame and write it in the requested formats
//
// Decoded glyph sets and rendered artifacts are cached by font content hash
// and the options that affect them.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Font:    "builtin:goregular",
//	    Shape:   "sphere",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"][0]
//
// Run individual stages:
//
//	f, err := runner.LoadFont(ctx, opts)
//	set, err := runner.Decode(ctx, f, opts)
//	frames, skipped, err := runner.Frames(ctx, set, opts)
//	artifacts, err := runner.Render(ctx, frames, set.Family, opts)
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/glyphorbit/pkg/arrange"
	"github.com/matzehuels/glyphorbit/pkg/cache"
	"github.com/matzehuels/glyphorbit/pkg/errors"
	"github.com/matzehuels/glyphorbit/pkg/font"
	"github.com/matzehuels/glyphorbit/pkg/fonts"
	"github.com/matzehuels/glyphorbit/pkg/mesh"
	"github.com/matzehuels/glyphorbit/pkg/render"
	"github.com/matzehuels/glyphorbit/pkg/render/sink"
	"github.com/matzehuels/glyphorbit/pkg/scene"
	"github.com/matzehuels/glyphorbit/pkg/source"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Viewer
// =============================================================================

const (
	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = 1200

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = 900

	// DefaultFPS is the frame rate of multi-frame renders.
	DefaultFPS = 30.0

	// MaxFrames bounds a single multi-frame render.
	MaxFrames = 3600
)

// DefaultFont is the font used when none is given.
const DefaultFont = source.BuiltinPrefix + fonts.Default

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// FormatNames lists the output formats in preference order.
func FormatNames() []string {
	return []string{FormatSVG, FormatPNG, FormatPDF, FormatJSON}
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
type Options struct {
	// Load and decode options
	Font    string  `json:"font"`
	Charset string  `json:"charset,omitempty"`
	PPEM    float64 `json:"ppem,omitempty"`
	Refresh bool    `json:"refresh,omitempty"`

	// Arrange options
	Shape   string  `json:"shape,omitempty"`
	Spacing float64 `json:"spacing,omitempty"`
	KnotP   int     `json:"knot_p,omitempty"`
	KnotQ   int     `json:"knot_q,omitempty"`

	// Mesh options
	GlyphSize     float64 `json:"glyph_size,omitempty"`
	Depth         float64 `json:"depth,omitempty"`
	CurveSegments int     `json:"curve_segments,omitempty"`
	Workers       int     `json:"workers,omitempty"`

	// Frame options
	Time     float64 `json:"time,omitempty"`   // seconds of animation before the first frame
	Frames   int     `json:"frames,omitempty"` // number of frames, 1/FPS apart
	FPS      float64 `json:"fps,omitempty"`
	Distance float64 `json:"distance,omitempty"` // camera distance on +Z

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Width      int      `json:"width,omitempty"`
	Height     int      `json:"height,omitempty"`
	Background string   `json:"background,omitempty"`
	Foreground string   `json:"foreground,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Font is the resolved font source.
	Font *source.Font

	// Glyphs is the decoded glyph set.
	Glyphs *font.GlyphSet

	// Frames are the projected frames. Nil when every artifact came from
	// the cache.
	Frames []*render.Frame

	// Artifacts contains rendered outputs keyed by format, one entry per
	// frame.
	Artifacts map[string][][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	GlyphCount   int
	SkippedCount int // glyphs the mesher rejected
	CulledCount  int // objects behind the camera, summed over frames
	LoadTime     time.Duration
	DecodeTime   time.Duration
	ArrangeTime  time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	FontHit   bool // Whether the font bytes came from cache
	DecodeHit bool // Whether the glyph set came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q", format).
			WithHint("formats: %s", strings.Join(FormatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, dropping blanks and
// duplicates.
func ParseFormats(s string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := errors.ValidateCharset(o.Charset); err != nil {
		return err
	}
	if _, err := o.ArrangeConfig(); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	switch {
	case o.Frames > MaxFrames:
		return errors.New(errors.ErrCodeInvalidInput, "frames must be at most %d", MaxFrames)
	case o.Time < 0:
		return errors.New(errors.ErrCodeInvalidInput, "time must not be negative")
	case o.Width < 16 || o.Height < 16:
		return errors.New(errors.ErrCodeInvalidInput, "frame size must be at least 16x16")
	}
	if _, err := render.ParseColor(o.Background); err != nil {
		return err
	}
	if _, err := render.ParseColor(o.Foreground); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetDefaults fills zero-valued fields.
func (o *Options) SetDefaults() {
	if o.Font == "" {
		o.Font = DefaultFont
	}
	if o.Charset == "" {
		o.Charset = font.DefaultCharset
	}
	if o.PPEM <= 0 {
		o.PPEM = font.DefaultPPEM
	}
	if o.Shape == "" {
		o.Shape = arrange.Circle{}.Name()
	}
	if o.Spacing == 0 {
		o.Spacing = arrange.DefaultSpacing
	}
	if o.KnotP == 0 && o.KnotQ == 0 {
		o.KnotP, o.KnotQ = arrange.DefaultKnotP, arrange.DefaultKnotQ
	}
	if o.GlyphSize <= 0 {
		o.GlyphSize = scene.DefaultGlyphSize
	}
	if o.Depth <= 0 {
		o.Depth = mesh.DefaultDepth
	}
	if o.CurveSegments <= 0 {
		o.CurveSegments = mesh.DefaultCurveSegments
	}
	if o.Workers <= 0 {
		o.Workers = scene.DefaultWorkers
	}
	if o.Frames <= 0 {
		o.Frames = 1
	}
	if o.FPS <= 0 {
		o.FPS = DefaultFPS
	}
	if o.Distance <= 0 {
		o.Distance = scene.DefaultDistance
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Background == "" {
		o.Background = sink.DefaultBackground.Hex()
	}
	if o.Foreground == "" {
		o.Foreground = sink.DefaultForeground.Hex()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ArrangeConfig returns the arrangement the options describe.
func (o *Options) ArrangeConfig() (arrange.Config, error) {
	shape, err := arrange.ParseShape(o.Shape, o.KnotP, o.KnotQ)
	if err != nil {
		return arrange.Config{}, err
	}
	cfg := arrange.Config{Shape: shape, Spacing: o.Spacing}
	return cfg, cfg.Validate()
}

// Decoder returns the font decoder for the options.
func (o *Options) Decoder() font.Decoder {
	return font.SFNTDecoder{Charset: o.Charset, PPEM: o.PPEM}
}

// Mesher returns the glyph mesher for the options.
func (o *Options) Mesher() mesh.Mesher {
	return mesh.Extruder{Depth: o.Depth, CurveSegments: o.CurveSegments}
}

// FrameTime returns the animation time of frame i.
func (o *Options) FrameTime(i int) float64 {
	return o.Time + float64(i)/o.FPS
}

// Camera returns a camera on +Z at the configured distance.
func (o *Options) Camera() *scene.Camera {
	cam := scene.NewCamera()
	cam.Position[2] = o.Distance
	return cam
}

// GlyphsKeyOpts returns cache key options for decoding.
func (o *Options) GlyphsKeyOpts() cache.GlyphsKeyOpts {
	return cache.GlyphsKeyOpts{Charset: o.Charset, PPEM: o.PPEM}
}

// ArtifactKeyOpts returns cache key options for one rendered frame.
func (o *Options) ArtifactKeyOpts(format string, frame int) cache.ArtifactKeyOpts {
	cfg, _ := o.ArrangeConfig()
	k := cache.ArtifactKeyOpts{
		Format:    format,
		Shape:     o.Shape,
		Spacing:   o.Spacing,
		Time:      o.FrameTime(frame),
		Width:     o.Width,
		Height:    o.Height,
		GlyphSize: o.GlyphSize,
		Charset:   o.Charset,
		Camera: fmt.Sprintf("d=%g depth=%g seg=%d bg=%s fg=%s",
			o.Distance, o.Depth, o.CurveSegments, o.Background, o.Foreground),
	}
	if cfg.Shape != nil {
		k.Shape = cfg.Shape.Name()
	}
	if knot, ok := cfg.Shape.(arrange.TorusKnot); ok {
		k.KnotP, k.KnotQ = knot.P, knot.Q
	}
	return k
}
