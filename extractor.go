package eventboard

import "context"

// TextExtractor reduces an HTML document to the visible text handed to the
// model.
type TextExtractor interface {
	// ExtractText removes non-content elements (script, style, nav, footer,
	// header) and returns one trimmed, non-empty line per text line of the
	// page, in document order.
	ExtractText(html string) (string, error)
}

// Extractor asks a language model for the event described by a request.
type Extractor interface {
	// Extract never fails: errors during the model call or while parsing
	// its answer produce a degraded Extraction instead.
	Extract(ctx context.Context, req *Request) *Extraction
}
