// Package cache stores fetched fonts, decoded glyph sets and rendered
// artifacts behind a small byte-oriented interface.
//
// # Backends
//
//   - [FileCache]: one JSON entry file per key under ~/.cache/glyphorbit
//   - [MemoryCache]: a process-local map, used by the interactive viewer
//   - [RedisCache]: a shared Redis instance for machines rendering the same
//     fonts
//   - [NullCache]: caching disabled
//
// # Keys
//
// A [Keyer] derives keys from content hashes and the options that affect
// the cached value, so changing the charset or the arrangement never
// returns a stale entry:
//
//	k := cache.NewDefaultKeyer()
//	fontKey := k.FontKey("https://example.com/Inter.ttf")
//	setKey := k.GlyphsKey(cache.Hash(fontData), cache.GlyphsKeyOpts{Charset: "ABC", PPEM: 100})
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Cache is a byte store with optional per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Clearer is implemented by backends that can drop all of their entries.
type Clearer interface {
	// Clear deletes every entry and returns how many it deleted.
	Clear(ctx context.Context) (int, error)
}

// KeyVersion scopes every key. Bump it when a cached encoding changes so
// old entries are never decoded.
const KeyVersion = "v1:"

// Default TTLs per entry kind.
const (
	FontTTL     = 7 * 24 * time.Hour
	GlyphsTTL   = 7 * 24 * time.Hour
	ArtifactTTL = 24 * time.Hour
)

// Keyer derives cache keys.
type Keyer interface {
	// HTTPKey is the key of a raw HTTP response body.
	HTTPKey(namespace, key string) string

	// FontKey is the key of the raw bytes of a font source.
	FontKey(source string) string

	// GlyphsKey is the key of a decoded glyph set.
	GlyphsKey(fontHash string, opts GlyphsKeyOpts) string

	// ArtifactKey is the key of a rendered frame.
	ArtifactKey(fontHash string, opts ArtifactKeyOpts) string
}

// GlyphsKeyOpts are the decode options that change a glyph set.
type GlyphsKeyOpts struct {
	Charset string  `json:"charset"`
	PPEM    float64 `json:"ppem"`
}

// ArtifactKeyOpts are the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format    string  `json:"format"`
	Shape     string  `json:"shape"`
	Spacing   float64 `json:"spacing"`
	KnotP     int     `json:"knot_p,omitempty"`
	KnotQ     int     `json:"knot_q,omitempty"`
	Time      float64 `json:"time"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	GlyphSize float64 `json:"glyph_size"`
	Charset   string  `json:"charset"`
	Camera    string  `json:"camera,omitempty"`
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// HTTPKey returns "http:" + namespace + ":" + key.
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// FontKey hashes the source so URLs and paths of any length are safe.
func (DefaultKeyer) FontKey(source string) string {
	return hashKey("font", source)
}

// GlyphsKey combines the font content hash with the decode options.
func (DefaultKeyer) GlyphsKey(fontHash string, opts GlyphsKeyOpts) string {
	return hashKey("glyphs", fontHash, opts)
}

// ArtifactKey combines the font content hash with the render options.
func (DefaultKeyer) ArtifactKey(fontHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", fontHash, opts)
}

var _ Keyer = DefaultKeyer{}

// Hash returns the hex SHA-256 of data. Fonts are keyed by it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns kind + ":" + the SHA-256 of the JSON encoding of parts.
// Struct options encode with stable field order, so equal options give
// equal keys.
func hashKey(kind string, parts ...any) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, p := range parts {
		_ = enc.Encode(p)
	}
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}

// NullCache misses every read and drops every write. It backs --no-cache
// and the "none" backend.
type NullCache struct{}

// NewNullCache returns a NullCache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

var _ Cache = NullCache{}
