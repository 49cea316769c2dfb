package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/glyphorbit/pkg/config"
	"github.com/matzehuels/glyphorbit/pkg/pipeline"
	"github.com/matzehuels/glyphorbit/pkg/source"
)

// renderFlags holds the command-line flags shared by render, glyphs and
// view. Zero values mean "use the config file".
type renderFlags struct {
	output     string  // output file (single frame and format) or base path
	formats    string  // comma-separated output formats
	shape      string  // arrangement name
	spacing    float64 // spacing multiplier
	knotP      int     // torus knot windings
	knotQ      int     // torus knot windings
	time       float64 // animation seconds before the first frame
	frames     int     // number of frames
	fps        float64 // frame rate of the sequence
	width      int     // frame width in pixels
	height     int     // frame height in pixels
	charset    string  // runes to decode
	background string  // background colour
	foreground string  // glyph colour
	refresh    bool    // bypass cached fonts, glyphs and renders
	noCache    bool    // disable caching entirely
}

// addArrangeFlags registers the flags that select the font and arrangement.
func (f *renderFlags) addArrangeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.shape, "shape", "", "arrangement: circle, grid, sphere, helix, mobius, klein, torus-klein-knot")
	cmd.Flags().Float64Var(&f.spacing, "spacing", 0, "spacing multiplier")
	cmd.Flags().IntVar(&f.knotP, "knot-p", 0, "torus knot windings around the axis")
	cmd.Flags().IntVar(&f.knotQ, "knot-q", 0, "torus knot windings through the hole")
	_ = cmd.RegisterFlagCompletionFunc("shape", completeShapes)
	f.addFontFlags(cmd)
}

// addFontFlags registers the flags that control font loading.
func (f *renderFlags) addFontFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.charset, "charset", "", "characters to decode (default: printable ASCII and Latin-1 letters)")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached fonts, glyphs and renders")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

// options merges the config file with the flags that were set.
func (f *renderFlags) options(cmd *cobra.Command, cfg config.Config, args []string) pipeline.Options {
	opts := optionsFromConfig(cfg)
	if len(args) > 0 {
		opts.Font = args[0]
	}

	set := cmd.Flags().Changed
	if set("shape") {
		opts.Shape = f.shape
	}
	if set("spacing") {
		opts.Spacing = f.spacing
	}
	if set("knot-p") {
		opts.KnotP = f.knotP
	}
	if set("knot-q") {
		opts.KnotQ = f.knotQ
	}
	if set("time") {
		opts.Time = f.time
	}
	if set("frames") {
		opts.Frames = f.frames
	}
	if set("fps") {
		opts.FPS = f.fps
	}
	if set("format") {
		opts.Formats = pipeline.ParseFormats(f.formats)
	}
	if set("width") {
		opts.Width = f.width
	}
	if set("height") {
		opts.Height = f.height
	}
	if set("charset") {
		opts.Charset = f.charset
	}
	if set("background") {
		opts.Background = f.background
	}
	if set("foreground") {
		opts.Foreground = f.foreground
	}
	opts.Refresh = f.refresh
	return opts
}

// optionsFromConfig maps the config sections onto pipeline options.
func optionsFromConfig(cfg config.Config) pipeline.Options {
	return pipeline.Options{
		Font:          cfg.Font.Source,
		Charset:       cfg.Font.Charset,
		PPEM:          cfg.Font.PPEM,
		Shape:         cfg.Arrange.Shape,
		Spacing:       cfg.Arrange.Spacing,
		KnotP:         cfg.Arrange.KnotP,
		KnotQ:         cfg.Arrange.KnotQ,
		GlyphSize:     cfg.Mesh.GlyphSize,
		Depth:         cfg.Mesh.Depth,
		CurveSegments: cfg.Mesh.CurveSegments,
		Workers:       cfg.Mesh.Workers,
		Width:         cfg.Render.Width,
		Height:        cfg.Render.Height,
		Background:    cfg.Render.Background,
		Foreground:    cfg.Render.Foreground,
	}
}

// renderCommand creates the render command for writing frames to files.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render [font]",
		Short: "Render arranged glyphs to SVG, PNG, PDF or JSON",
		Long: `Render loads a font (builtin:<name>, a file path or an http(s) URL), arranges its glyphs
and writes one file per frame and format.

With --frames N the arrangement is animated the way the viewer animates it: frame i
shows the scene at --time + i/--fps seconds. Multi-frame output files are numbered.`,
		Example: `  glyphorbit render --shape sphere -o sphere.svg
  glyphorbit render ./Inter.ttf --shape torus-knot --knot-p 3 --knot-q 5 -f svg,png
  glyphorbit render --shape mobius --frames 60 --fps 30 -o frames/mobius`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := flags.options(cmd, cfg, args)
			return c.runRender(cmd.Context(), cfg, opts, flags.output, flags.noCache)
		},
	}

	flags.addArrangeFlags(cmd)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single frame and format) or base path")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	cmd.Flags().Float64Var(&flags.time, "time", 0, "animation time of the first frame in seconds")
	cmd.Flags().IntVar(&flags.frames, "frames", 0, "number of frames (default 1)")
	cmd.Flags().Float64Var(&flags.fps, "fps", 0, "frame rate of a multi-frame render (default 30)")
	cmd.Flags().IntVar(&flags.width, "width", 0, "frame width in pixels")
	cmd.Flags().IntVar(&flags.height, "height", 0, "frame height in pixels")
	cmd.Flags().StringVar(&flags.background, "background", "", "background colour (#rrggbb)")
	cmd.Flags().StringVar(&flags.foreground, "foreground", "", "glyph colour (#rrggbb)")

	return cmd
}

// runRender executes the pipeline and writes every artifact.
func (c *CLI) runRender(ctx context.Context, cfg config.Config, opts pipeline.Options, output string, noCache bool) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	opts.Logger = logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s as %s...", opts.Font, opts.Shape))
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	spinner.Stop()
	if err != nil {
		return err
	}

	base := basePath(output, result.Font)
	paths, err := writeArtifacts(result.Artifacts, opts, output, base)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", result.Glyphs.Family)
	printStats(result.Stats.GlyphCount, opts.Frames, result.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(p)
	}
	if result.Stats.SkippedCount > 0 {
		printWarning("%d glyphs could not be meshed", result.Stats.SkippedCount)
	}
	prog.done(fmt.Sprintf("Rendered %d frames", opts.Frames))
	return nil
}

// writeArtifacts writes artifacts in format order and returns the paths.
func writeArtifacts(artifacts map[string][][]byte, opts pipeline.Options, output, base string) ([]string, error) {
	var paths []string
	for _, format := range opts.Formats {
		frames := artifacts[format]
		for i, data := range frames {
			path := outputPath(output, base, format, i, len(frames), len(opts.Formats))
			if err := writeOutput(path, data); err != nil {
				return paths, err
			}
			paths = append(paths, path)
		}
	}
	return paths, nil
}

// basePath derives the base output path. Without an output it is the font
// name with its extension removed; a known format extension on output is
// stripped.
func basePath(output string, f *source.Font) string {
	if output == "" {
		name := strings.TrimPrefix(f.Name, source.BuiltinPrefix)
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath names frame i of format. A single frame in a single format
// goes to output verbatim when it is set; sequences are numbered from 0.
func outputPath(output, base, format string, i, frames, formats int) string {
	if frames == 1 {
		if formats == 1 && output != "" && filepath.Ext(output) != "" {
			return output
		}
		return fmt.Sprintf("%s.%s", base, format)
	}
	width := max(4, len(fmt.Sprint(frames-1)))
	return fmt.Sprintf("%s_%0*d.%s", base, width, i, format)
}

// writeOutput writes data to path, creating parent directories.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
