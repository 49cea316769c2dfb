package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultDir returns ~/.cache/glyphorbit.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "glyphorbit"), nil
}

const entryExt = ".json"

// FileCache keeps one JSON file per key, fanned out over 256
// subdirectories by the first byte of the key hash:
//
//	<dir>/3f/a81c...e2.json
type FileCache struct {
	dir string
	now func() time.Time
}

// NewFileCache opens a file cache in dir, creating it if needed. An empty
// dir selects [DefaultDir].
func NewFileCache(dir string) (*FileCache, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir, now: time.Now}, nil
}

func (c *FileCache) Dir() string { return c.dir }

type fileEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

func (e fileEntry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// readEntry decodes the entry at path. ok is false for files that are not
// valid entries.
func readEntry(path string) (e fileEntry, ok bool, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return e, false, err
	}
	if json.Unmarshal(raw, &e) != nil {
		return fileEntry{}, false, nil
	}
	return e, true, nil
}

// Get returns the value under key. Corrupt and expired entries are deleted
// and reported as misses.
func (c *FileCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	e, ok, err := readEntry(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	case !ok || e.expired(c.now()):
		_ = os.Remove(path)
		return nil, false, nil
	}
	return e.Data, true, nil
}

// Set stores data under key. Readers in other processes see either the old
// entry or the new one.
func (c *FileCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	e := fileEntry{Data: data}
	if ttl > 0 {
		e.ExpiresAt = c.now().Add(ttl)
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".entry-*")
	if err != nil {
		return err
	}
	_, werr := tmp.Write(raw)
	if cerr := tmp.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		os.Remove(tmp.Name())
		return werr
	}
	return os.Rename(tmp.Name(), path)
}

func (c *FileCache) Delete(_ context.Context, key string) error {
	err := os.Remove(c.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (c *FileCache) Close() error { return nil }

// walk calls fn for every file below the cache directory. Directories that
// vanish mid-walk are skipped.
func (c *FileCache) walk(ctx context.Context, fn func(path string, d fs.DirEntry) error) error {
	return filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		return fn(path, d)
	})
}

// Clear deletes every file below the cache directory, including files other
// stores keep there, and returns how many it removed. Emptied
// subdirectories are removed; the directory itself is kept.
func (c *FileCache) Clear(ctx context.Context) (int, error) {
	n := 0
	err := c.walk(ctx, func(path string, _ fs.DirEntry) error {
		if os.Remove(path) == nil {
			n++
		}
		return nil
	})
	c.removeEmptyDirs()
	return n, err
}

// Prune deletes expired and corrupt entries and returns how many it
// removed. Files that are not entries are left alone.
func (c *FileCache) Prune(ctx context.Context) (int, error) {
	now := c.now()
	n := 0
	err := c.walk(ctx, func(path string, _ fs.DirEntry) error {
		if !strings.HasSuffix(path, entryExt) {
			return nil
		}
		e, ok, err := readEntry(path)
		if err != nil {
			return nil
		}
		if (!ok || e.expired(now)) && os.Remove(path) == nil {
			n++
		}
		return nil
	})
	c.removeEmptyDirs()
	return n, err
}

// Stats summarizes the cache directory.
type Stats struct {
	Entries int   // live entries
	Expired int   // expired or corrupt entries awaiting Prune
	Other   int   // files that are not entries, such as font validators
	Bytes   int64 // size of all files
}

// Stats scans the cache directory.
func (c *FileCache) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	now := c.now()
	err := c.walk(ctx, func(path string, d fs.DirEntry) error {
		if info, err := d.Info(); err == nil {
			s.Bytes += info.Size()
		}
		if !strings.HasSuffix(path, entryExt) {
			s.Other++
			return nil
		}
		e, ok, err := readEntry(path)
		switch {
		case err != nil:
		case !ok || e.expired(now):
			s.Expired++
		default:
			s.Entries++
		}
		return nil
	})
	return s, err
}

func (c *FileCache) removeEmptyDirs() {
	dirs, err := os.ReadDir(c.dir)
	if err != nil {
		return
	}
	for _, d := range dirs {
		if d.IsDir() {
			// fails harmlessly on directories that still hold files
			_ = os.Remove(filepath.Join(c.dir, d.Name()))
		}
	}
}

func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:]+entryExt)
}

var (
	_ Cache   = (*FileCache)(nil)
	_ Clearer = (*FileCache)(nil)
)
