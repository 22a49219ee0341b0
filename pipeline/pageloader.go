// Package pipeline orchestrates a single extraction run: load a source,
// ask the model about it, write the result.
package pipeline

import (
	"context"
	"net/url"

	"github.com/fwojciec/eventboard"
)

// Ensure PageLoader implements eventboard.Loader at compile time.
var _ eventboard.Loader = (*PageLoader)(nil)

// PageLoader loads web pages as prompt-ready text.
type PageLoader struct {
	Fetcher eventboard.Fetcher
	Text    eventboard.TextExtractor
}

// Load fetches the page at rawURL and reduces it to visible text.
// Only absolute http and https URLs are accepted.
func (l *PageLoader) Load(ctx context.Context, rawURL string) (*eventboard.Request, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, err
	}

	html, err := l.Fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	text, err := l.Text.ExtractText(html)
	if err != nil {
		return nil, err
	}

	return &eventboard.Request{
		Source: eventboard.Source{Type: eventboard.SourceURL, Data: rawURL},
		Text:   text,
	}, nil
}

// ValidateURL returns EINVALID unless rawURL is an absolute http(s) URL
// with a host.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return eventboard.Errorf(eventboard.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return eventboard.Errorf(eventboard.EINVALID, "URL must use http or https: %s", rawURL)
	}
	if u.Host == "" {
		return eventboard.Errorf(eventboard.EINVALID, "URL has no host: %s", rawURL)
	}
	return nil
}
