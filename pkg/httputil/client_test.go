package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	errs "github.com/matzehuels/treemap/pkg/errors"
)

const csvBody = "Authors,Title,Year,Category,Url,Citations\nA,T,2001,C,d,1\n"

// dataset serves csvBody with an ETag, failing the first n requests with
// status fail.
func dataset(t *testing.T, fail, n int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		i := hits.Add(1)
		if r.URL.Path != "/papers.csv" {
			http.NotFound(w, r)
			return
		}
		if int(i) <= n {
			w.WriteHeader(fail)
			return
		}
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		w.Write([]byte(csvBody))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newTestClient(t *testing.T, ttl time.Duration) *Client {
	t.Helper()
	cache, err := NewCache(t.TempDir(), ttl)
	if err != nil {
		t.Fatal(err)
	}
	return NewClient(ClientOptions{Cache: cache, Delay: time.Millisecond})
}

func TestClient_GetCaches(t *testing.T) {
	srv, hits := dataset(t, 0, 0)
	c := newTestClient(t, time.Hour)
	ctx := context.Background()

	for range 2 {
		body, err := c.Get(ctx, srv.URL+"/papers.csv")
		if err != nil {
			t.Fatalf("Get() failed: %v", err)
		}
		if string(body) != csvBody {
			t.Errorf("body = %q", body)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("requests = %d, want 1", got)
	}
}

func TestClient_Revalidates(t *testing.T) {
	srv, hits := dataset(t, 0, 0)
	c := newTestClient(t, time.Minute)
	ctx := context.Background()
	url := srv.URL + "/papers.csv"

	if _, err := c.Get(ctx, url); err != nil {
		t.Fatal(err)
	}
	c.now = func() time.Time { return time.Now().Add(time.Hour) }

	body, err := c.Get(ctx, url)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if string(body) != csvBody {
		t.Errorf("body after 304 = %q", body)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("requests = %d, want 2", got)
	}

	e, _ := c.cache.Get(url)
	if e == nil || !e.Fresh(time.Minute, c.now()) {
		t.Error("304 should refresh the cached entry")
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	srv, hits := dataset(t, http.StatusServiceUnavailable, 2)
	c := newTestClient(t, time.Hour)

	if _, err := c.Get(context.Background(), srv.URL+"/papers.csv"); err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got := hits.Load(); got != 3 {
		t.Errorf("requests = %d, want 3", got)
	}
}

func TestClient_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("notFound", func(t *testing.T) {
		srv, hits := dataset(t, 0, 0)
		_, err := newTestClient(t, time.Hour).Get(ctx, srv.URL+"/other.csv")
		if !errs.Is(err, errs.ErrCodeFileNotFound) {
			t.Errorf("err = %v, want FILE_NOT_FOUND", err)
		}
		if hits.Load() != 1 {
			t.Error("404 should not be retried")
		}
	})

	t.Run("forbidden", func(t *testing.T) {
		srv, _ := dataset(t, http.StatusForbidden, 10)
		_, err := newTestClient(t, time.Hour).Get(ctx, srv.URL+"/papers.csv")
		if !errs.Is(err, errs.ErrCodeStorage) {
			t.Errorf("err = %v, want STORAGE", err)
		}
	})

	t.Run("staleFallback", func(t *testing.T) {
		srv, _ := dataset(t, 0, 0)
		c := newTestClient(t, time.Minute)
		url := srv.URL + "/papers.csv"
		if _, err := c.Get(ctx, url); err != nil {
			t.Fatal(err)
		}
		srv.Close()
		c.now = func() time.Time { return time.Now().Add(time.Hour) }

		body, err := c.Get(ctx, url)
		if err != nil {
			t.Fatalf("stale copy should be served, got %v", err)
		}
		if string(body) != csvBody {
			t.Errorf("body = %q", body)
		}
	})
}

func TestIsURL(t *testing.T) {
	tests := map[string]bool{
		"https://example.org/a.csv": true,
		"http://localhost/a.csv":    true,
		"papers.csv":                false,
		"/data/http/papers.csv":     false,
	}
	for in, want := range tests {
		if got := IsURL(in); got != want {
			t.Errorf("IsURL(%q) = %v, want %v", in, got, want)
		}
	}
}
