package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/treemap/pkg/errors"
)

// Defaults for [ClientOptions].
const (
	DefaultAttempts = 3
	DefaultDelay    = time.Second
	DefaultTimeout  = 30 * time.Second
	MaxBodySize     = 64 << 20
)

// ClientOptions configures a [Client]. Zero fields take the defaults.
type ClientOptions struct {
	HTTP     *http.Client
	Cache    *Cache // nil disables caching
	Attempts int
	Delay    time.Duration
	Logger   *log.Logger
}

// Client downloads datasets over HTTP.
type Client struct {
	http     *http.Client
	cache    *Cache
	attempts int
	delay    time.Duration
	logger   *log.Logger
	now      func() time.Time
}

// NewClient returns a client configured by opts.
func NewClient(opts ClientOptions) *Client {
	c := &Client{
		http:     opts.HTTP,
		cache:    opts.Cache,
		attempts: opts.Attempts,
		delay:    opts.Delay,
		logger:   opts.Logger,
		now:      time.Now,
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: DefaultTimeout}
	}
	if c.attempts <= 0 {
		c.attempts = DefaultAttempts
	}
	if c.delay <= 0 {
		c.delay = DefaultDelay
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	return c
}

// IsURL reports whether path names a remote resource.
func IsURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// Get returns the body at url. A fresh cached copy is returned without a
// request; a stale one is revalidated. A 404 or 410 is FILE_NOT_FOUND and
// any other failure is STORAGE, unless a stale copy can stand in.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	cached := c.lookup(url)
	if cached != nil && cached.Fresh(c.cache.TTL(), c.now()) {
		c.logger.Debug("http cache hit", "url", url)
		return cached.Body, nil
	}

	var entry *Entry
	err := Retry(ctx, c.attempts, c.delay, func() error {
		var err error
		entry, err = c.fetch(ctx, url, cached)
		return err
	})
	if err != nil {
		if cached != nil && !errs.Is(err, errs.ErrCodeFileNotFound) && ctx.Err() == nil {
			c.logger.Warn("serving stale copy", "url", url, "error", err)
			return cached.Body, nil
		}
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Put(entry); err != nil {
			c.logger.Warn("http cache write failed", "url", url, "error", err)
		}
	}
	return entry.Body, nil
}

func (c *Client) lookup(url string) *Entry {
	if c.cache == nil {
		return nil
	}
	e, err := c.cache.Get(url)
	if err != nil {
		c.logger.Warn("http cache read failed", "url", url, "error", err)
		return nil
	}
	return e
}

// fetch performs one request, conditional when a cached copy exists.
func (c *Client) fetch(ctx context.Context, url string, cached *Entry) (*Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "bad URL %s", url)
	}
	if cached != nil {
		if cached.ETag != "" {
			req.Header.Set("If-None-Match", cached.ETag)
		}
		if cached.LastModified != "" {
			req.Header.Set("If-Modified-Since", cached.LastModified)
		}
	}

	c.logger.Debug("http get", "url", url)
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &RetryableError{Err: errs.Wrap(errs.ErrCodeStorage, err, "fetch %s", url)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified && cached != nil:
		e := *cached
		e.FetchedAt = c.now()
		return &e, nil
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, errs.New(errs.ErrCodeFileNotFound, "dataset not found: %s", url)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, &RetryableError{Err: statusError(url, resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		return nil, statusError(url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return nil, &RetryableError{Err: errs.Wrap(errs.ErrCodeStorage, err, "read %s", url)}
	}
	if len(body) > MaxBodySize {
		return nil, errs.New(errs.ErrCodeInvalidInput, "%s is larger than %d bytes", url, MaxBodySize)
	}
	return &Entry{
		URL:          url,
		ETag:         resp.Header.Get("ETag"),
		LastModified: resp.Header.Get("Last-Modified"),
		FetchedAt:    c.now(),
		Body:         body,
	}, nil
}

func statusError(url string, code int) error {
	return errs.New(errs.ErrCodeStorage, "fetch %s: %s", url, fmt.Sprintf("%d %s", code, http.StatusText(code)))
}
