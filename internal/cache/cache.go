// Package cache stores raw bodies of cacheable API responses.
//
// FileStore keeps one JSON file per request URL under the user cache
// directory. RedisStore shares entries between machines. Default TTL is 30
// minutes. Disable with SW_NO_CACHE=1.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const DefaultTTL = 30 * time.Minute

const filePrefix = "resp_"

type entry struct {
	CachedAt time.Time       `json:"cached_at"`
	URL      string          `json:"url"`
	Body     json.RawMessage `json:"body"`
}

// FileStore is a directory of cached responses keyed by request URL.
type FileStore struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// NewFileStore creates a FileStore in dir with the default TTL.
func NewFileStore(dir string) *FileStore {
	return NewFileStoreWithTTL(dir, DefaultTTL)
}

// NewFileStoreWithTTL creates a FileStore with a custom TTL.
func NewFileStoreWithTTL(dir string, ttl time.Duration) *FileStore {
	return &FileStore{dir: dir, ttl: ttl, now: time.Now}
}

// Get returns the cached body for key. Returns false on miss (no file,
// expired, disabled, corrupt).
func (s *FileStore) Get(_ context.Context, key string) ([]byte, bool) {
	if disabled() {
		return nil, false
	}
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, false
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, false
	}
	if e.URL != key || s.now().Sub(e.CachedAt) > s.ttl {
		return nil, false
	}
	return e.Body, true
}

// Put writes body under key. Bodies that are not JSON are skipped. Silently
// no-ops on error or when disabled.
func (s *FileStore) Put(_ context.Context, key string, body []byte) {
	if disabled() || !json.Valid(body) {
		return
	}
	data, err := json.Marshal(entry{
		CachedAt: s.now(),
		URL:      key,
		Body:     body,
	})
	if err != nil {
		return
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return
	}

	// Atomic-ish write: write temp then rename.
	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return
	}
	_ = os.Rename(tmp, path)
}

// Delete removes the entry for key.
func (s *FileStore) Delete(_ context.Context, key string) {
	_ = os.Remove(s.path(key))
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, Filename(key))
}

// Filename maps a key to "resp_<12hex>.json".
func Filename(key string) string {
	hash := sha1.Sum([]byte(key))
	return filePrefix + hex.EncodeToString(hash[:6]) + ".json"
}

// ClearAll removes all cache files from the directory and returns how many
// were removed. It only touches files matching the cache filename scheme.
func ClearAll(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !isCacheFilename(e.Name()) {
			continue
		}
		if os.Remove(filepath.Join(dir, e.Name())) == nil {
			removed++
		}
	}
	return removed
}

// DefaultDir returns "$XDG_CACHE_HOME/sw-cli" or the platform equivalent.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "sw-cli"), nil
}

func disabled() bool {
	return os.Getenv("SW_NO_CACHE") != ""
}

func isCacheFilename(name string) bool {
	if filepath.Ext(name) != ".json" || !strings.HasPrefix(name, filePrefix) {
		return false
	}
	hash := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), ".json")
	return len(hash) == 12 && isHex(hash)
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
