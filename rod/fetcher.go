// Package rod provides a headless Chrome implementation of eventboard.Fetcher
// for pages that render their content with JavaScript.
package rod

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fwojciec/eventboard"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout is the default timeout for rendering a page.
const DefaultFetchTimeout = 30 * time.Second

// Ensure Fetcher implements eventboard.Fetcher at compile time.
var _ eventboard.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
type Fetcher struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
	closed   bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the timeout for rendering a single page.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(f)
	}

	l := launcher.New().
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	f.browser = browser
	f.launcher = l
	return f, nil
}

// Fetch navigates to the URL, waits for the page to load and returns the
// rendered HTML. Failures are returned as EFETCH.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.mu.Lock()
	browser, closed := f.browser, f.closed
	f.mu.Unlock()
	if closed {
		return "", eventboard.Errorf(eventboard.EINVALID, "fetcher is closed")
	}

	if err := ctx.Err(); err != nil {
		return "", eventboard.Errorf(eventboard.EFETCH, "fetching %s: %v", url, err)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", eventboard.Errorf(eventboard.EFETCH, "opening page: %v", err)
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", eventboard.Errorf(eventboard.EFETCH, "navigating to %s: %v", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", eventboard.Errorf(eventboard.EFETCH, "loading %s: %v", url, err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", eventboard.Errorf(eventboard.EFETCH, "reading %s: %v", url, err)
	}

	return html, nil
}

// Close shuts down the browser and its launcher. Close is safe to call
// multiple times.
func (f *Fetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true

	var err error
	if f.browser != nil {
		err = f.browser.Close()
	}
	if f.launcher != nil {
		f.launcher.Kill()
	}
	return err
}
