package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/glyphorbit/pkg/config"
	"github.com/matzehuels/glyphorbit/pkg/pipeline"
	"github.com/matzehuels/glyphorbit/pkg/source"
)

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		font   string
		want   string
	}{
		{"builtin font", "", "goregular", "goregular"},
		{"font file", "", "Inter.ttf", "Inter"},
		{"output with format extension", "out/sphere.svg", "goregular", "out/sphere"},
		{"output without extension", "frames/mobius", "goregular", "frames/mobius"},
		{"output with other extension", "sphere.v2", "goregular", "sphere.v2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := basePath(tt.output, &source.Font{Name: tt.font})
			if got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.font, got, tt.want)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		format  string
		i       int
		frames  int
		formats int
		want    string
	}{
		{"single file verbatim", "sphere.svg", "svg", 0, 1, 1, "sphere.svg"},
		{"single frame base", "", "png", 0, 1, 1, "out.png"},
		{"single frame two formats", "sphere.svg", "png", 0, 1, 2, "out.png"},
		{"sequence", "", "svg", 7, 30, 1, "out_0007.svg"},
		{"long sequence", "", "json", 3, 12000, 1, "out_00003.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPath(tt.output, "out", tt.format, tt.i, tt.frames, tt.formats)
			if got != tt.want {
				t.Errorf("outputPath = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "nested", "helix")
	opts := pipeline.Options{Formats: []string{"svg", "json"}}
	artifacts := map[string][][]byte{
		"svg":  {[]byte("<svg/>"), []byte("<svg/>")},
		"json": {[]byte("{}"), []byte("{}")},
	}

	paths, err := writeArtifacts(artifacts, opts, "", base)
	if err != nil {
		t.Fatalf("writeArtifacts: %v", err)
	}
	want := []string{base + "_0000.svg", base + "_0001.svg", base + "_0000.json", base + "_0001.json"}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i, p := range paths {
		if p != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, p, want[i])
		}
		if _, err := os.Stat(p); err != nil {
			t.Errorf("%s not written: %v", p, err)
		}
	}
}

func TestRenderFlags_Options(t *testing.T) {
	var flags renderFlags
	cmd := &cobra.Command{Use: "render"}
	flags.addArrangeFlags(cmd)
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "")
	cmd.Flags().IntVar(&flags.frames, "frames", 0, "")

	if err := cmd.ParseFlags([]string{"--shape", "helix", "--spacing", "1.5", "-f", "svg,png", "--frames", "4"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	cfg := config.Default()
	cfg.Arrange.Shape = "sphere"
	cfg.Font.Charset = "ABC"
	opts := flags.options(cmd, cfg, []string{"./Inter.ttf"})

	if opts.Font != "./Inter.ttf" {
		t.Errorf("Font = %q, want the argument", opts.Font)
	}
	if opts.Shape != "helix" || opts.Spacing != 1.5 || opts.Frames != 4 {
		t.Errorf("flags not applied: shape %q spacing %v frames %d", opts.Shape, opts.Spacing, opts.Frames)
	}
	if len(opts.Formats) != 2 || opts.Formats[1] != "png" {
		t.Errorf("Formats = %v", opts.Formats)
	}
	if opts.Charset != "ABC" || opts.KnotP != cfg.Arrange.KnotP {
		t.Errorf("config values lost: charset %q knot p %d", opts.Charset, opts.KnotP)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	opts := optionsFromConfig(cfg)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("default config does not validate as options: %v", err)
	}
	if opts.Font != cfg.Font.Source || opts.Width != cfg.Render.Width {
		t.Errorf("options = font %q width %d", opts.Font, opts.Width)
	}
}
