package httputil

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"time"
)

// Entry is one cached response.
type Entry struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	FetchedAt    time.Time `json:"fetched_at"`
	Body         []byte    `json:"body"`
}

// Fresh reports whether e is younger than ttl. A zero ttl never expires.
func (e *Entry) Fresh(ttl time.Duration, now time.Time) bool {
	return ttl == 0 || now.Sub(e.FetchedAt) <= ttl
}

// Cache stores response bodies as JSON files named by the SHA-256 of the
// URL. Several processes may share a directory; a write replaces the whole
// file.
type Cache struct {
	dir string
	ttl time.Duration
}

// NewCache creates dir if needed. A ttl of 0 keeps entries fresh forever.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, ttl: ttl}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// TTL returns how long an entry stays fresh.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get returns the entry for url, fresh or not. A missing entry is (nil, nil).
func (c *Cache) Get(url string) (*Entry, error) {
	data, err := os.ReadFile(c.path(url))
	if errors.Is(err, iofs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	if e.URL != url {
		return nil, nil
	}
	return &e, nil
}

// Put stores e under e.URL.
func (c *Cache) Put(e *Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	tmp := c.path(e.URL) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, c.path(e.URL))
}

func (c *Cache) path(url string) string {
	h := sha256.Sum256([]byte(url))
	return filepath.Join(c.dir, hex.EncodeToString(h[:]))
}
