package httputil

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// ErrExpired is returned by [Cache.Get] for a validator older than the
// TTL. The stale validator is returned alongside it for revalidation.
var ErrExpired = errors.New("validator expired")

// Validator is what a conditional GET needs to revalidate a download, plus
// the content hash of the bytes it vouches for.
type Validator struct {
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	Hash         string    `json:"hash"`
	Stored       time.Time `json:"stored"`
}

// Headers returns the If-None-Match and If-Modified-Since headers for v.
func (v Validator) Headers() map[string]string {
	h := make(map[string]string, 2)
	if v.ETag != "" {
		h["If-None-Match"] = v.ETag
	}
	if v.LastModified != "" {
		h["If-Modified-Since"] = v.LastModified
	}
	return h
}

// Merge returns v updated with the validators of a 304 response. The
// server may omit headers it sent the first time.
func (v Validator) Merge(resp *Response) Validator {
	if resp.ETag != "" {
		v.ETag = resp.ETag
	}
	if resp.LastModified != "" {
		v.LastModified = resp.LastModified
	}
	return v
}

// Cache keeps one [Validator] per key as a small JSON file named by the
// SHA-256 of the key. Writes go through a temporary file and a rename, so
// concurrent processes sharing the directory never read a torn entry.
//
// A Cache is not safe for concurrent use within one process.
type Cache struct {
	dir    string
	ttl    time.Duration
	prefix string
	now    func() time.Time
}

// NewCache opens a validator store in dir, creating it if needed. An empty
// dir selects ~/.cache/glyphorbit/http. A ttl of 0 never expires.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".cache", "glyphorbit", "http")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, ttl: ttl, now: time.Now}, nil
}

func (c *Cache) Dir() string        { return c.dir }
func (c *Cache) TTL() time.Duration { return c.ttl }

// Namespace returns a view whose keys are prefixed. Views share the
// directory, TTL and clock; prefixes compose when chained.
func (c *Cache) Namespace(prefix string) *Cache {
	view := *c
	view.prefix += prefix
	return &view
}

// Get returns the validator under key:
//   - (v, true, nil) when it is fresh
//   - (zero, false, nil) on a miss
//   - (v, false, ErrExpired) when it is older than the TTL
//   - (zero, false, err) when the entry cannot be read
func (c *Cache) Get(key string) (Validator, bool, error) {
	data, err := os.ReadFile(c.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return Validator{}, false, nil
	}
	if err != nil {
		return Validator{}, false, err
	}
	var v Validator
	if err := json.Unmarshal(data, &v); err != nil {
		return Validator{}, false, err
	}
	if c.ttl > 0 && c.now().Sub(v.Stored) > c.ttl {
		return v, false, ErrExpired
	}
	return v, true, nil
}

// Set stores v under key, stamped with the current time.
func (c *Cache) Set(key string, v Validator) error {
	v.Stored = c.now()
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(c.dir, ".validator-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), c.path(key))
}

// Delete removes the validator under key. A missing entry is not an error.
func (c *Cache) Delete(key string) error {
	err := os.Remove(c.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (c *Cache) path(key string) string {
	sum := sha256.Sum256([]byte(c.prefix + key))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:]))
}
