package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/eventboard"
)

// Ensure LoggingExtractor implements eventboard.Extractor.
var _ eventboard.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with logging.
type LoggingExtractor struct {
	next   eventboard.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next eventboard.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the outcome.
func (e *LoggingExtractor) Extract(ctx context.Context, req *eventboard.Request) (x *eventboard.Extraction) {
	defer func(begin time.Time) {
		var (
			status   eventboard.ExtractionStatus
			warnings int
			err      error
		)
		if x != nil {
			status, warnings, err = x.Status, len(x.Warnings), x.Err
		}
		e.logger.Info("extract",
			"status", status,
			"warnings", warnings,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(ctx, req)
}
