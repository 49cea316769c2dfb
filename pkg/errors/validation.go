package errors

import (
	"net/url"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxCharsetLength bounds the runes a charset may request. Each rune
	// becomes one mesh.
	MaxCharsetLength = 4096

	maxPathLength = 1024
)

// ValidateFontPath rejects empty, oversized and control-character paths
// before they reach the filesystem.
func ValidateFontPath(path string) error {
	switch {
	case path == "":
		return New(ErrCodeInvalidInput, "font path is empty")
	case len(path) > maxPathLength:
		return New(ErrCodeInvalidInput, "font path longer than %d bytes", maxPathLength)
	case !utf8.ValidString(path) || hasControl(path):
		return New(ErrCodeInvalidInput, "font path contains control characters")
	}
	return nil
}

// ValidateURL accepts absolute http and https URLs with a host.
func ValidateURL(raw string) error {
	if raw == "" {
		return New(ErrCodeInvalidInput, "font URL is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "font URL %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidInput, "font URL %q: scheme must be http or https", raw).
			WithHint("local fonts are loaded by path, bundled ones as builtin:<name>")
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "font URL %q has no host", raw)
	}
	return nil
}

// ValidateCharset checks the runes requested from a font. An empty charset
// selects the decoder default and is valid.
func ValidateCharset(charset string) error {
	if !utf8.ValidString(charset) {
		return New(ErrCodeInvalidInput, "charset is not valid UTF-8")
	}
	if n := utf8.RuneCountInString(charset); n > MaxCharsetLength {
		return New(ErrCodeInvalidInput, "charset has %d runes, max %d", n, MaxCharsetLength)
	}
	for _, r := range charset {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "charset contains control character %U", r)
		}
	}
	return nil
}

func hasControl(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}
