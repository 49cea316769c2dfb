// Package fonts provides the built-in fonts that ship inside the binary.
//
// The Go font family from golang.org/x/image/font/gofont is bundled, so the
// viewer and the renderer work without any font file on disk. Built-ins are
// addressed as "builtin:<name>" by the font source loader.
package fonts

import (
	"encoding/base64"
	"slices"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
)

// Default is the built-in used when no font is given.
const Default = "goregular"

var builtins = map[string][]byte{
	"goregular":    goregular.TTF,
	"gobold":       gobold.TTF,
	"goitalic":     goitalic.TTF,
	"gobolditalic": gobolditalic.TTF,
	"gomedium":     gomedium.TTF,
	"gomono":       gomono.TTF,
	"gomonobold":   gomonobold.TTF,
	"gosmallcaps":  gosmallcaps.TTF,
}

// Lookup returns the TTF bytes of a built-in font.
func Lookup(name string) ([]byte, bool) {
	data, ok := builtins[name]
	return data, ok
}

// Names returns the built-in font names, sorted.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// FontFamily is the CSS font-family used for overlay text in SVG output.
const FontFamily = "Go"

// FallbackFontFamily lists fallbacks for viewers without the embedded font.
const FallbackFontFamily = `'Go', 'DejaVu Sans', 'Helvetica Neue', Arial, sans-serif`

var (
	regularBase64     string
	regularBase64Once sync.Once
)

// RegularBase64 returns goregular as a base64 string for an SVG
// @font-face rule. It is computed once.
func RegularBase64() string {
	regularBase64Once.Do(func() {
		regularBase64 = base64.StdEncoding.EncodeToString(goregular.TTF)
	})
	return regularBase64
}
