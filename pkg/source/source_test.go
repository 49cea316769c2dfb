package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/glyphorbit/pkg/cache"
	"github.com/matzehuels/glyphorbit/pkg/errors"
	"github.com/matzehuels/glyphorbit/pkg/httputil"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		ref  string
		want Kind
	}{
		{"builtin:goregular", KindBuiltin},
		{"https://example.com/a.ttf", KindURL},
		{"http://example.com/a.ttf", KindURL},
		{"./fonts/a.ttf", KindFile},
		{"/usr/share/fonts/a.otf", KindFile},
	}
	for _, tt := range tests {
		if got := Classify(tt.ref); got != tt.want {
			t.Errorf("Classify(%q) = %s, want %s", tt.ref, got, tt.want)
		}
	}
}

func TestLoader_Builtin(t *testing.T) {
	f, err := NewLoader().Load(context.Background(), "builtin:gomono", false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.Kind != KindBuiltin || f.Name != "gomono" || len(f.Data) == 0 || len(f.Hash) != 64 {
		t.Errorf("unexpected font %+v", f.Name)
	}

	_, err = NewLoader().Load(context.Background(), "builtin:nope", false)
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("unknown builtin: %v", err)
	}
}

func TestLoader_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Mine.ttf")
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := NewLoader().Load(context.Background(), path, false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.Kind != KindFile || f.Name != "Mine.ttf" || string(f.Data) != "data" {
		t.Errorf("unexpected font %+v", f)
	}

	_, err = NewLoader().Load(context.Background(), filepath.Join(dir, "missing.ttf"), false)
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: %v", err)
	}
	_, err = NewLoader().Load(context.Background(), "", false)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty path: %v", err)
	}
}

// fontServer serves body with an ETag and honours If-None-Match.
func fontServer(t *testing.T, body string, hits *atomic.Int32, notModified *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get("If-None-Match") == `"v1"` {
			notModified.Add(1)
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoader_URLCachesDownloads(t *testing.T) {
	var hits, notModified atomic.Int32
	srv := fontServer(t, "remote-font", &hits, &notModified)

	l := NewLoader(WithCache(cache.NewMemoryCache()))
	ctx := context.Background()

	f, err := l.Load(ctx, srv.URL+"/fonts/Remote.ttf", false)
	if err != nil {
		t.Fatalf("first Load: %v", err)
	}
	if f.Cached || string(f.Data) != "remote-font" || f.Name != "Remote.ttf" {
		t.Errorf("first load = %+v", f)
	}

	f, err = l.Load(ctx, srv.URL+"/fonts/Remote.ttf", false)
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if !f.Cached || hits.Load() != 1 {
		t.Errorf("second load not served from cache (hits=%d)", hits.Load())
	}

	if _, err := l.Load(ctx, srv.URL+"/fonts/Remote.ttf", true); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 2 {
		t.Errorf("refresh did not download (hits=%d)", hits.Load())
	}
}

func TestLoader_URLRevalidatesExpired(t *testing.T) {
	var hits, notModified atomic.Int32
	srv := fontServer(t, "remote-font", &hits, &notModified)

	validators, err := httputil.NewCache(t.TempDir(), 10*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	l := NewLoader(WithCache(cache.NewMemoryCache()), WithValidators(validators))
	ctx := context.Background()

	if _, err := l.Load(ctx, srv.URL+"/a.ttf", false); err != nil {
		t.Fatal(err)
	}
	time.Sleep(20 * time.Millisecond)

	f, err := l.Load(ctx, srv.URL+"/a.ttf", false)
	if err != nil {
		t.Fatalf("revalidating Load: %v", err)
	}
	if notModified.Load() != 1 || !f.Cached || string(f.Data) != "remote-font" {
		t.Errorf("expected 304 revalidation, got notModified=%d cached=%v", notModified.Load(), f.Cached)
	}
}

func TestLoader_URLErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing.ttf":
			http.NotFound(w, r)
		case "/empty.ttf":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	l := NewLoader(WithRetry(2, time.Millisecond))
	tests := []struct {
		path string
		code errors.Code
	}{
		{"/missing.ttf", errors.ErrCodeNotFound},
		{"/empty.ttf", errors.ErrCodeNetwork},
		{"/down.ttf", errors.ErrCodeNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := l.Load(context.Background(), srv.URL+tt.path, false)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestBaseName(t *testing.T) {
	tests := map[string]string{
		"https://example.com/fonts/Inter.ttf":       "Inter.ttf",
		"https://example.com/fonts/Inter.ttf?v=2#x": "Inter.ttf",
		"https://example.com/fonts/":                "fonts",
	}
	for in, want := range tests {
		if got := baseName(in); got != want {
			t.Errorf("baseName(%q) = %q, want %q", in, got, want)
		}
	}
}
