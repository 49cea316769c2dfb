// Package source resolves a font reference to raw font bytes.
//
// A reference is one of:
//
//   - builtin:<name>   a font bundled with the binary (see package fonts)
//   - http(s)://...    a remote font, downloaded with retry and cached
//   - anything else    a path on the local filesystem
//
// Remote fonts are stored in a [cache.Cache]; response validators live in
// an [httputil.Cache] so expired entries are revalidated with a
// conditional request instead of a full download.
package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/glyphorbit/pkg/cache"
	gerrors "github.com/matzehuels/glyphorbit/pkg/errors"
	"github.com/matzehuels/glyphorbit/pkg/fonts"
	"github.com/matzehuels/glyphorbit/pkg/httputil"
	"github.com/matzehuels/glyphorbit/pkg/observability"
)

// BuiltinPrefix marks a reference to a bundled font.
const BuiltinPrefix = "builtin:"

// Kind is where a font came from.
type Kind string

const (
	KindBuiltin Kind = "builtin"
	KindURL     Kind = "url"
	KindFile    Kind = "file"
)

// Font is a resolved font reference.
type Font struct {
	Ref    string // the reference as given
	Kind   Kind
	Name   string // display name: builtin name, URL base name or file name
	Data   []byte
	Hash   string // SHA-256 of Data
	Cached bool   // served from the cache without a full download
}

// Option configures a Loader.
type Option func(*Loader)

// WithCache sets the content cache for downloaded fonts.
func WithCache(c cache.Cache) Option {
	return func(l *Loader) {
		if c != nil {
			l.cache = c
		}
	}
}

// WithKeyer sets the cache keyer.
func WithKeyer(k cache.Keyer) Option {
	return func(l *Loader) {
		if k != nil {
			l.keyer = k
		}
	}
}

// WithValidators sets the validator store. Without one, every cached
// download is trusted until the content cache drops it.
func WithValidators(v *httputil.Cache) Option {
	return func(l *Loader) {
		if v != nil {
			l.validators = v.Namespace("fonts:")
		}
	}
}

// WithClient sets the HTTP client.
func WithClient(c *httputil.Client) Option {
	return func(l *Loader) {
		if c != nil {
			l.client = c
		}
	}
}

// WithRetry sets the retry policy for downloads.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(l *Loader) {
		l.attempts = attempts
		l.delay = delay
	}
}

// Loader resolves font references.
type Loader struct {
	client     *httputil.Client
	cache      cache.Cache
	keyer      cache.Keyer
	validators *httputil.Cache
	attempts   int
	delay      time.Duration
}

// NewLoader creates a loader. By default downloads are not cached.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		client:   httputil.NewClient(nil),
		cache:    cache.NewNullCache(),
		keyer:    cache.NewDefaultKeyer(),
		attempts: 3,
		delay:    time.Second,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Classify returns the kind of a reference without loading it.
func Classify(ref string) Kind {
	switch {
	case strings.HasPrefix(ref, BuiltinPrefix):
		return KindBuiltin
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return KindURL
	default:
		return KindFile
	}
}

// Load resolves ref. With refresh set, remote fonts bypass the cache.
func (l *Loader) Load(ctx context.Context, ref string, refresh bool) (*Font, error) {
	switch Classify(ref) {
	case KindBuiltin:
		return l.loadBuiltin(ref)
	case KindURL:
		return l.loadURL(ctx, ref, refresh)
	default:
		return l.loadFile(ref)
	}
}

func (l *Loader) loadBuiltin(ref string) (*Font, error) {
	name := strings.TrimPrefix(ref, BuiltinPrefix)
	data, ok := fonts.Lookup(name)
	if !ok {
		return nil, gerrors.New(gerrors.ErrCodeNotFound, "unknown builtin font %q (available: %s)", name, strings.Join(fonts.Names(), ", "))
	}
	return newFont(ref, KindBuiltin, name, data, true), nil
}

func (l *Loader) loadFile(path string) (*Font, error) {
	if err := gerrors.ValidateFontPath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, gerrors.Wrap(gerrors.ErrCodeFileNotFound, err, "font file %s", path)
	}
	if err != nil {
		return nil, gerrors.Wrap(gerrors.ErrCodeInvalidInput, err, "read font file %s", path)
	}
	return newFont(path, KindFile, filepath.Base(path), data, false), nil
}

func (l *Loader) loadURL(ctx context.Context, url string, refresh bool) (*Font, error) {
	if err := gerrors.ValidateURL(url); err != nil {
		return nil, err
	}
	key := l.keyer.FontKey(url)
	name := baseName(url)

	var (
		cached []byte
		hit    bool
		val    httputil.Validator
		stale  bool
	)
	if !refresh {
		var err error
		cached, hit, err = l.cache.Get(ctx, key)
		if err != nil || !hit {
			cached, hit = nil, false
			observability.Cache().OnCacheMiss(ctx, "font")
		}
		if hit && l.validators != nil {
			var fresh bool
			var verr error
			val, fresh, verr = l.validators.Get(url)
			switch {
			case fresh && val.Hash == cache.Hash(cached):
			case errors.Is(verr, httputil.ErrExpired) && val.Hash == cache.Hash(cached):
				stale = true
			default:
				// bytes without a matching validator: refetch
				cached, hit = nil, false
			}
		}
		if hit && !stale {
			observability.Cache().OnCacheHit(ctx, "font")
			return newFont(url, KindURL, name, cached, true), nil
		}
	}

	var headers map[string]string
	if stale {
		headers = val.Headers()
	}

	var resp *httputil.Response
	err := httputil.Retry(ctx, l.attempts, l.delay, func() error {
		var err error
		resp, err = l.client.Get(ctx, url, headers)
		return err
	})
	if err != nil {
		return nil, wrapFetchError(url, err)
	}

	if resp.NotModified() && stale {
		observability.Cache().OnCacheHit(ctx, "font")
		l.storeValidator(url, val.Merge(resp))
		return newFont(url, KindURL, name, cached, true), nil
	}
	if len(resp.Body) == 0 {
		return nil, gerrors.New(gerrors.ErrCodeNetwork, "download %s: empty body", url)
	}

	f := newFont(url, KindURL, name, resp.Body, false)
	if err := l.cache.Set(ctx, key, resp.Body, 0); err == nil {
		observability.Cache().OnCacheSet(ctx, "font", len(resp.Body))
	}
	l.storeValidator(url, httputil.Validator{ETag: resp.ETag, LastModified: resp.LastModified, Hash: f.Hash})
	return f, nil
}

func (l *Loader) storeValidator(url string, v httputil.Validator) {
	if l.validators != nil {
		_ = l.validators.Set(url, v)
	}
}

func wrapFetchError(url string, err error) error {
	switch {
	case errors.Is(err, httputil.ErrNotFound):
		return gerrors.Wrap(gerrors.ErrCodeNotFound, err, "download %s", url)
	case errors.Is(err, context.DeadlineExceeded):
		return gerrors.Wrap(gerrors.ErrCodeTimeout, err, "download %s", url)
	case errors.Is(err, context.Canceled):
		return err
	default:
		return gerrors.Wrap(gerrors.ErrCodeNetwork, err, "download %s", url)
	}
}

func newFont(ref string, kind Kind, name string, data []byte, cached bool) *Font {
	return &Font{Ref: ref, Kind: kind, Name: name, Data: data, Hash: cache.Hash(data), Cached: cached}
}

func baseName(url string) string {
	s := url
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimRight(s, "/")
	if i := strings.LastIndex(s, "/"); i >= 0 && i < len(s)-1 {
		return s[i+1:]
	}
	return s
}
