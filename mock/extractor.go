package mock

import (
	"context"

	"github.com/fwojciec/eventboard"
)

var _ eventboard.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of eventboard.Extractor.
type Extractor struct {
	ExtractFn func(ctx context.Context, req *eventboard.Request) *eventboard.Extraction
}

func (e *Extractor) Extract(ctx context.Context, req *eventboard.Request) *eventboard.Extraction {
	return e.ExtractFn(ctx, req)
}

var _ eventboard.TextExtractor = (*TextExtractor)(nil)

// TextExtractor is a mock implementation of eventboard.TextExtractor.
type TextExtractor struct {
	ExtractTextFn func(html string) (string, error)
}

func (e *TextExtractor) ExtractText(html string) (string, error) {
	return e.ExtractTextFn(html)
}
