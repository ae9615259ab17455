// Package http provides the HTTP-based implementation of
// tenderparse.PageFetcher and tenderparse.TokenSource for the announcement
// portal.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/hweisong/tenderparse"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 30 * time.Second

// Ensure Fetcher implements tenderparse.PageFetcher at compile time.
var _ tenderparse.PageFetcher = (*Fetcher)(nil)

// Fetcher retrieves announcement pages over HTTP. The portal serves fully
// rendered HTML, so no JavaScript execution is needed. When a TokenSource
// is configured, requests carry its bearer token and a 401 response
// invalidates the cache and retries once with fresh credentials.
type Fetcher struct {
	client  *http.Client
	tokens  tenderparse.TokenSource
	timeout time.Duration
	referer string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithTokenSource makes the fetcher authenticate its requests.
func WithTokenSource(ts tenderparse.TokenSource) Option {
	return func(f *Fetcher) {
		f.tokens = ts
	}
}

// WithReferer sets the Referer header sent with every request. Some portal
// endpoints reject requests without one.
func WithReferer(referer string) Option {
	return func(f *Fetcher) {
		f.referer = referer
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the page body for the given URL.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	body, status, err := f.do(ctx, url)
	if err != nil {
		return "", err
	}

	if status == http.StatusUnauthorized && f.tokens != nil {
		f.tokens.Invalidate()
		body, status, err = f.do(ctx, url)
		if err != nil {
			return "", err
		}
	}

	switch {
	case status == http.StatusOK:
		return body, nil
	case status == http.StatusNotFound:
		return "", tenderparse.Errorf(tenderparse.ENOTFOUND, "page not found: %s", url)
	case status == http.StatusUnauthorized:
		return "", tenderparse.Errorf(tenderparse.EUNAUTHORIZED, "portal rejected credentials for %s", url)
	default:
		return "", tenderparse.Errorf(tenderparse.EUNAVAILABLE, "HTTP %d for %s", status, url)
	}
}

// do performs a single request and returns the body and status code.
func (f *Fetcher) do(ctx context.Context, url string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", 0, err
	}

	// The portal blocks requests that don't look like a browser.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8")
	if f.referer != "" {
		req.Header.Set("Referer", f.referer)
	}

	if f.tokens != nil {
		token, err := f.tokens.Token(ctx)
		if err != nil {
			return "", 0, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, err
	}

	return string(body), resp.StatusCode, nil
}

// Close releases resources. For the HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
