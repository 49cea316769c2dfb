// Package config loads the glyphorbit TOML configuration file.
//
// The file lives at ~/.config/glyphorbit/config.toml unless --config names
// another one. Every key is optional; missing keys keep their defaults and
// command-line flags override the file. Unknown keys are rejected so typos
// do not silently fall back to defaults.
//
//	[font]
//	source  = "builtin:goregular"
//	charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
//
//	[arrange]
//	shape   = "torus-klein-knot"
//	spacing = 1.2
//	knot_p  = 3
//	knot_q  = 5
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/glyphorbit/pkg/arrange"
	"github.com/matzehuels/glyphorbit/pkg/errors"
	"github.com/matzehuels/glyphorbit/pkg/font"
	"github.com/matzehuels/glyphorbit/pkg/fonts"
	"github.com/matzehuels/glyphorbit/pkg/mesh"
	"github.com/matzehuels/glyphorbit/pkg/scene"
)

// Cache backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Config is the full configuration file.
type Config struct {
	Font    Font    `toml:"font"`
	Arrange Arrange `toml:"arrange"`
	Mesh    Mesh    `toml:"mesh"`
	View    View    `toml:"view"`
	Render  Render  `toml:"render"`
	Cache   Cache   `toml:"cache"`
}

// Font selects the font and the characters decoded from it.
type Font struct {
	Source  string  `toml:"source"`
	Charset string  `toml:"charset"`
	PPEM    float64 `toml:"ppem"`
}

// Arrange is the initial arrangement.
type Arrange struct {
	Shape   string  `toml:"shape"`
	Spacing float64 `toml:"spacing"`
	KnotP   int     `toml:"knot_p"`
	KnotQ   int     `toml:"knot_q"`
}

// Mesh controls glyph extrusion.
type Mesh struct {
	GlyphSize     float64 `toml:"glyph_size"`
	Depth         float64 `toml:"depth"`
	CurveSegments int     `toml:"curve_segments"`
	Workers       int     `toml:"workers"`
}

// View controls the interactive terminal viewer.
type View struct {
	FPS       int     `toml:"fps"`
	MoveSpeed float64 `toml:"move_speed"` // world units per key press
	TurnSpeed float64 `toml:"turn_speed"` // degrees per key press
	Graph     bool    `toml:"graph"`      // show the frame-time graph
}

// Render controls still-frame output.
type Render struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Background string `toml:"background"`
	Foreground string `toml:"foreground"`
}

// Cache selects where downloaded fonts and rendered frames are kept.
type Cache struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	ValidatorTTL  Duration `toml:"validator_ttl"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	RedisPrefix   string   `toml:"redis_prefix"`
}

// Duration is a time.Duration written as a string such as "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Font: Font{
			Source: "builtin:" + fonts.Default,
			PPEM:   font.DefaultPPEM,
		},
		Arrange: Arrange{
			Shape:   arrange.Circle{}.Name(),
			Spacing: arrange.DefaultSpacing,
			KnotP:   arrange.DefaultKnotP,
			KnotQ:   arrange.DefaultKnotQ,
		},
		Mesh: Mesh{
			GlyphSize:     scene.DefaultGlyphSize,
			Depth:         mesh.DefaultDepth,
			CurveSegments: mesh.DefaultCurveSegments,
			Workers:       scene.DefaultWorkers,
		},
		View: View{
			FPS:       60,
			MoveSpeed: 20,
			TurnSpeed: 3,
			Graph:     true,
		},
		Render: Render{
			Width:      1200,
			Height:     900,
			Background: "#0b0d12",
			Foreground: "#e8e6e3",
		},
		Cache: Cache{
			Backend:      BackendFile,
			ValidatorTTL: Duration{24 * time.Hour},
			RedisPrefix:  "glyphorbit:",
		},
	}
}

// DefaultPath returns ~/.config/glyphorbit/config.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "glyphorbit", "config.toml"), nil
}

// Load reads path on top of the defaults. A missing file at the default
// path is not an error; a missing explicit path is.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return cfg, nil
	}
	if os.IsNotExist(err) {
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path).
			WithHint("create one with: glyphorbit config init")
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return Parse(data, path)
}

// Parse decodes TOML data on top of the defaults and validates the result.
// name is only used in error messages.
func Parse(data []byte, name string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Default(), errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", name)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Default(), errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", name, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if _, err := c.ArrangeConfig(); err != nil {
		return err
	}
	if err := errors.ValidateCharset(c.Font.Charset); err != nil {
		return err
	}
	switch {
	case c.Font.Source == "":
		return errors.New(errors.ErrCodeInvalidConfig, "font.source is required")
	case c.Font.PPEM <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "font.ppem must be positive")
	case c.Mesh.GlyphSize <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "mesh.glyph_size must be positive")
	case c.Mesh.Depth <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "mesh.depth must be positive")
	case c.Mesh.CurveSegments < 1:
		return errors.New(errors.ErrCodeInvalidConfig, "mesh.curve_segments must be at least 1")
	case c.Mesh.Workers < 1:
		return errors.New(errors.ErrCodeInvalidConfig, "mesh.workers must be at least 1")
	case c.View.FPS < 1 || c.View.FPS > 240:
		return errors.New(errors.ErrCodeInvalidConfig, "view.fps must be between 1 and 240")
	case c.Render.Width < 16 || c.Render.Height < 16:
		return errors.New(errors.ErrCodeInvalidConfig, "render size must be at least 16x16")
	}
	switch c.Cache.Backend {
	case BackendFile, BackendMemory, BackendNone:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	return nil
}

// ArrangeConfig converts the [arrange] section.
func (c Config) ArrangeConfig() (arrange.Config, error) {
	shape, err := arrange.ParseShape(c.Arrange.Shape, c.Arrange.KnotP, c.Arrange.KnotQ)
	if err != nil {
		return arrange.Config{}, err
	}
	cfg := arrange.Config{Shape: shape, Spacing: c.Arrange.Spacing}
	return cfg, cfg.Validate()
}

// Decoder returns the font decoder for the [font] section.
func (c Config) Decoder() font.SFNTDecoder {
	return font.SFNTDecoder{Charset: c.Font.Charset, PPEM: c.Font.PPEM}
}

// Mesher returns the mesher for the [mesh] section.
func (c Config) Mesher() mesh.Extruder {
	return mesh.Extruder{Depth: c.Mesh.Depth, CurveSegments: c.Mesh.CurveSegments}
}

// Encode writes c as TOML.
func (c Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write stores c at path, creating parent directories. An existing file is
// only replaced when overwrite is set.
func (c Config) Write(path string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return errors.New(errors.ErrCodeInvalidInput, "%s already exists", path)
	}
	data, err := c.Encode()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
