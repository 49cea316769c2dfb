package render

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/matzehuels/glyphorbit/pkg/errors"
)

// Converter names the librsvg command line tool. Tests point it at a
// binary that does not exist.
var Converter = "rsvg-convert"

const installHint = "install librsvg (macOS: brew install librsvg, Linux: apt install librsvg2-bin)"

// ToPDF converts an SVG document to PDF.
func ToPDF(svg []byte) ([]byte, error) {
	return convert(context.Background(), svg, "pdf")
}

// ToPNG converts an SVG document to PNG, scaling it by scale (1 when not
// positive).
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	return convert(context.Background(), svg, "png", "--zoom", strconv.FormatFloat(scale, 'f', 2, 64))
}

// HasConverter reports whether [Converter] is on PATH.
func HasConverter() bool {
	_, err := exec.LookPath(Converter)
	return err == nil
}

// convert fails with ErrCodeUnsupported when the tool is missing, so
// callers with their own fallback can tell that apart from a failed run.
func convert(ctx context.Context, svg []byte, format string, args ...string) ([]byte, error) {
	bin, err := exec.LookPath(Converter)
	if err != nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "%s export requires %s", format, Converter).
			WithHint(installHint)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, append([]string{"--format", format}, args...)...)
	cmd.Stdin = bytes.NewReader(svg)
	cmd.Stdout, cmd.Stderr = &stdout, &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s: %s", Converter, msg)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s", Converter)
	}
	return stdout.Bytes(), nil
}
