// Package http provides an HTTP-based implementation of eventboard.Fetcher
// for pages that don't require JavaScript rendering.
package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/eventboard"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 30 * time.Second

// DefaultUserAgent identifies requests as a desktop browser. Some university
// sites reject unknown clients.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// DefaultMaxBodySize is the largest response body accepted.
const DefaultMaxBodySize = 10 << 20

// Ensure Fetcher implements eventboard.Fetcher at compile time.
var _ eventboard.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using HTTP requests.
// Unlike rod.Fetcher, this does not execute JavaScript.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	maxBodySize int64
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

// WithUserAgent sets the User-Agent header.
// Defaults to DefaultUserAgent if not specified.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the largest response body accepted.
// Defaults to DefaultMaxBodySize (10 MiB) if not specified.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the page at url and returns it decoded to UTF-8.
// Network errors, non-2xx statuses and oversized bodies are returned as
// EFETCH; no request is retried.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", eventboard.Errorf(eventboard.EINVALID, "invalid URL %q: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", eventboard.Errorf(eventboard.EFETCH, "fetching %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", eventboard.Errorf(eventboard.EFETCH, "HTTP %d for %s", resp.StatusCode, url)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return "", eventboard.Errorf(eventboard.EFETCH, "reading %s: %v", url, err)
	}
	if int64(len(raw)) > f.maxBodySize {
		return "", eventboard.Errorf(eventboard.EFETCH, "response from %s exceeds %d bytes", url, f.maxBodySize)
	}

	// Pages may be served in legacy encodings such as Shift_JIS.
	body, err := charset.NewReader(bytes.NewReader(raw), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", eventboard.Errorf(eventboard.EFETCH, "decoding %s: %v", url, err)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", eventboard.Errorf(eventboard.EFETCH, "decoding %s: %v", url, err)
	}

	return string(data), nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
