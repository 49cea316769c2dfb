package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/glyphorbit/pkg/buildinfo"
	"github.com/matzehuels/glyphorbit/pkg/cache"
	"github.com/matzehuels/glyphorbit/pkg/config"
	"github.com/matzehuels/glyphorbit/pkg/httputil"
	"github.com/matzehuels/glyphorbit/pkg/pipeline"
	"github.com/matzehuels/glyphorbit/pkg/source"
)

const (
	appName = "glyphorbit"

	// httpCacheDir holds the font download validators, relative to the
	// cache directory.
	httpCacheDir = "http"
)

const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI is the state shared by every subcommand.
type CLI struct {
	Logger *log.Logger

	configPath string
}

func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand builds the command tree. Its pre-run installs the log hooks
// and stores the logger in the command context.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Glyphorbit arranges the glyphs of a font in 3D",
		Long:  `Glyphorbit decodes a font, extrudes every glyph into a 3D object and arranges the objects on a parametric surface: a circle, grid, sphere, helix, Möbius strip, Klein bottle or torus knot. Explore the result interactively in the terminal or render it to SVG, PNG, PDF or JSON.`,
		Version:       buildinfo.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			installHooks(c.Logger)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/glyphorbit/config.toml)")

	root.AddCommand(
		c.viewCommand(),
		c.renderCommand(),
		c.glyphsCommand(),
		c.shapesCommand(),
		c.configCommand(),
		c.cacheCommand(),
		c.completionCommand(),
	)

	return root
}

// loadConfig reads the --config file, or the default one if it exists.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	c.Logger.Debug("loaded config", "path", c.configPath, "shape", cfg.Arrange.Shape, "cache", cfg.Cache.Backend)
	return cfg, nil
}

// ===== Runner =====

// newRunner creates a pipeline runner backed by the configured cache. Font
// downloads revalidate through an HTTP validator store next to the cache.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	store, err := newCache(ctx, cfg.Cache, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), cache.KeyVersion)

	r := pipeline.NewRunner(store, keyer, c.Logger)
	loaderOpts := []source.Option{source.WithCache(store), source.WithKeyer(keyer)}
	if validators := newValidators(cfg.Cache, noCache); validators != nil {
		loaderOpts = append(loaderOpts, source.WithValidators(validators))
	}
	r.Loader = source.NewLoader(loaderOpts...)
	return r, nil
}

func newCache(ctx context.Context, cfg config.Cache, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendMemory:
		return cache.NewMemoryCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
	}
	if dir, err := resolveCacheDir(cfg); err == nil {
		return cache.NewFileCache(dir)
	}
	// No home directory: run uncached rather than fail.
	return cache.NewNullCache(), nil
}

// newValidators returns the ETag store for font downloads, or nil when
// caching is off or no cache directory is available.
func newValidators(cfg config.Cache, noCache bool) *httputil.Cache {
	if noCache || cfg.Backend == config.BackendNone {
		return nil
	}
	dir, err := resolveCacheDir(cfg)
	if err != nil {
		return nil
	}
	v, err := httputil.NewCache(filepath.Join(dir, httpCacheDir), cfg.ValidatorTTL.Duration)
	if err != nil {
		return nil
	}
	return v
}

// resolveCacheDir picks the configured directory, then
// $XDG_CACHE_HOME/glyphorbit, then ~/.cache/glyphorbit.
func resolveCacheDir(cfg config.Cache) (string, error) {
	switch {
	case cfg.Dir != "":
		return cfg.Dir, nil
	case os.Getenv("XDG_CACHE_HOME") != "":
		return filepath.Join(os.Getenv("XDG_CACHE_HOME"), appName), nil
	}
	return cache.DefaultDir()
}
