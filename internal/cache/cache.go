// Package cache persists raw upstream payloads between runs so that
// repeated renders within the freshness window spare the metered forecast
// API. Payloads are stored zstd-compressed, one file per cache key. The
// cache is strictly best-effort: every failure path degrades to "not
// cached", never to an aborted fetch.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"meteogram/internal/types"
)

// Store is a file-backed payload cache. Safe for concurrent readers; writes
// go through an atomic rename.
type Store struct {
	dir       string
	freshness time.Duration
	clock     types.Clock
}

// New creates a Store rooted at dir. Entries older than freshness are
// treated as absent.
func New(dir string, freshness time.Duration) *Store {
	return &Store{dir: dir, freshness: freshness, clock: types.SystemClock{}}
}

// WithClock overrides the clock used for freshness checks. Intended for
// tests.
func (s *Store) WithClock(clock types.Clock) *Store {
	s.clock = clock
	return s
}

// Load returns the cached payload for key if the entry exists, is fresh,
// and decompresses cleanly.
func (s *Store) Load(key string) ([]byte, bool) {
	path := s.path(key)
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if s.clock.Now().Sub(info.ModTime()) > s.freshness {
		return nil, false
	}

	compressed, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	reader, err := zstd.NewReader(nil)
	if err != nil {
		return nil, false
	}
	defer reader.Close()
	payload, err := reader.DecodeAll(compressed, nil)
	if err != nil {
		return nil, false
	}
	return payload, true
}

// Store persists the payload for key, creating the cache directory on
// first use.
func (s *Store) Store(key string, payload []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return types.NewAppError(types.ErrCodeInternalCache, "creating cache directory", err)
	}

	writer, err := zstd.NewWriter(nil)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalCache, "initializing compressor", err)
	}
	compressed := writer.EncodeAll(payload, nil)
	writer.Close()

	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, compressed, 0o644); err != nil {
		return types.NewAppError(types.ErrCodeInternalCache, "writing cache file", err)
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		os.Remove(tmp)
		return types.NewAppError(types.ErrCodeInternalCache, "publishing cache file", err)
	}
	return nil
}

// path maps a cache key onto a file name, replacing path-hostile runes.
func (s *Store) path(key string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, key)
	return filepath.Join(s.dir, fmt.Sprintf("%s.json.zst", safe))
}
