package errors

import (
	"strings"
	"testing"
)

func TestValidators(t *testing.T) {
	tests := []struct {
		name     string
		validate func(string) error
		input    string
		wantErr  bool
	}{
		{"path relative", ValidateFontPath, "fonts/Inter/Inter-Regular.otf", false},
		{"path absolute", ValidateFontPath, "/usr/share/fonts/DejaVuSans.ttf", false},
		{"path empty", ValidateFontPath, "", true},
		{"path too long", ValidateFontPath, strings.Repeat("a", 1100), true},
		{"path null byte", ValidateFontPath, "font\x00.ttf", true},
		{"path newline", ValidateFontPath, "font\n.ttf", true},

		{"url https", ValidateURL, "https://fonts.example.com/Inter.ttf", false},
		{"url http with port", ValidateURL, "http://localhost:8080/a.ttf", false},
		{"url empty", ValidateURL, "", true},
		{"url ftp", ValidateURL, "ftp://example.com/a.ttf", true},
		{"url file", ValidateURL, "file:///etc/passwd", true},
		{"url no scheme", ValidateURL, "example.com/a.ttf", true},
		{"url no host", ValidateURL, "https:///a.ttf", true},

		{"charset empty", ValidateCharset, "", false},
		{"charset ascii", ValidateCharset, "ABCxyz0123", false},
		{"charset unicode", ValidateCharset, "äöüßΩ", false},
		{"charset control", ValidateCharset, "AB\x01", true},
		{"charset tab", ValidateCharset, "A\tB", true},
		{"charset invalid utf8", ValidateCharset, "\xff\xfe", true},
		{"charset too long", ValidateCharset, strings.Repeat("a", MaxCharsetLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.validate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("code = %s, want INVALID_INPUT", GetCode(err))
			}
		})
	}
}

func TestValidateURLHint(t *testing.T) {
	if hint := Hint(ValidateURL("file:///tmp/a.ttf")); !strings.Contains(hint, "builtin:") {
		t.Errorf("hint = %q", hint)
	}
}
