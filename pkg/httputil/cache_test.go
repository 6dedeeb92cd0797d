package httputil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCache_PutGet(t *testing.T) {
	c, err := NewCache(filepath.Join(t.TempDir(), "http"), time.Hour)
	if err != nil {
		t.Fatalf("NewCache() failed: %v", err)
	}
	if _, err := os.Stat(c.Dir()); err != nil {
		t.Fatalf("directory not created: %v", err)
	}

	e := &Entry{URL: "https://example.org/a.csv", ETag: `"v1"`, FetchedAt: time.Now(), Body: []byte("a,b\n")}
	if err := c.Put(e); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}

	got, err := c.Get(e.URL)
	if err != nil || got == nil {
		t.Fatalf("Get() = %v, %v", got, err)
	}
	if string(got.Body) != "a,b\n" || got.ETag != `"v1"` {
		t.Errorf("got %+v", got)
	}
}

func TestCache_Miss(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)
	got, err := c.Get("https://example.org/missing.csv")
	if err != nil || got != nil {
		t.Errorf("Get() = %v, %v; want nil, nil", got, err)
	}
}

func TestCache_KeyStability(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)
	if c.path("a") != c.path("a") {
		t.Error("path should be deterministic")
	}
	if c.path("a") == c.path("b") {
		t.Error("different URLs should produce different paths")
	}
}

func TestEntry_Fresh(t *testing.T) {
	now := time.Now()
	e := &Entry{FetchedAt: now.Add(-2 * time.Hour)}

	tests := []struct {
		ttl  time.Duration
		want bool
	}{
		{0, true},
		{time.Hour, false},
		{3 * time.Hour, true},
	}
	for _, tt := range tests {
		if got := e.Fresh(tt.ttl, now); got != tt.want {
			t.Errorf("Fresh(%v) = %v, want %v", tt.ttl, got, tt.want)
		}
	}
}
