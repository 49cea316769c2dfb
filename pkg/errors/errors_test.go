package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"plain", New(ErrCodeInvalidShape, "unknown shape %q", "cube"), `INVALID_SHAPE: unknown shape "cube"`},
		{"wrapped", Wrap(ErrCodeDecodeFailed, errors.New("bad cmap"), "decode %s", "Inter.ttf"), "DECODE_FAILED: decode Inter.ttf: bad cmap"},
		{"hint not shown", New(ErrCodeUnsupported, "png export").WithHint("install librsvg"), "UNSUPPORTED: png export"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(ErrCodeNetwork, cause, "fetch font")
	if errors.Unwrap(err) != cause || !errors.Is(err, cause) {
		t.Error("Wrap should keep the cause in the chain")
	}
}

func TestIs(t *testing.T) {
	inner := New(ErrCodeEmptyFont, "no glyphs")
	outer := Wrap(ErrCodeMeshFailed, inner, "build arena")
	foreign := fmt.Errorf("render: %w", outer)

	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"outer code", outer, ErrCodeMeshFailed, true},
		{"inner code", outer, ErrCodeEmptyFont, true},
		{"through fmt wrapper", foreign, ErrCodeEmptyFont, true},
		{"absent code", outer, ErrCodeNetwork, false},
		{"plain error", errors.New("x"), ErrCodeInternal, false},
		{"nil", nil, ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is(%v, %s) = %v, want %v", tt.err, tt.code, got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	outer := Wrap(ErrCodeMeshFailed, New(ErrCodeEmptyFont, "no glyphs"), "build")
	if got := GetCode(fmt.Errorf("x: %w", outer)); got != ErrCodeMeshFailed {
		t.Errorf("GetCode = %s, want the outermost code", got)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q", got)
	}
	if got := GetCode(nil); got != "" {
		t.Errorf("GetCode(nil) = %q", got)
	}
}

func TestUserMessageAndHint(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantMsg  string
		wantHint string
	}{
		{"coded", New(ErrCodeInvalidShape, "unknown shape %q", "cube").WithHint("valid shapes: circle"), `unknown shape "cube"`, "valid shapes: circle"},
		{"nested hint", Wrap(ErrCodeInvalidConfig, New(ErrCodeFileNotFound, "missing").WithHint("run init"), "load"), "load: missing", "run init"},
		{"plain cause", Wrap(ErrCodeNetwork, errors.New("timeout"), "fetch"), "fetch: timeout", ""},
		{"plain", errors.New("plain"), "plain", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.wantMsg {
				t.Errorf("UserMessage = %q, want %q", got, tt.wantMsg)
			}
			if got := Hint(tt.err); got != tt.wantHint {
				t.Errorf("Hint = %q, want %q", got, tt.wantHint)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{New(ErrCodeInvalidKnot, "p"), 2},
		{Wrap(ErrCodeInvalidConfig, errors.New("toml"), "parse"), 2},
		{New(ErrCodeDecodeFailed, "x"), 1},
		{errors.New("plain"), 1},
	}

	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
