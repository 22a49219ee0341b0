package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/eventboard"
)

// Ensure LoggingLoader implements eventboard.Loader.
var _ eventboard.Loader = (*LoggingLoader)(nil)

// LoggingLoader wraps a Loader with logging.
type LoggingLoader struct {
	next   eventboard.Loader
	logger *slog.Logger
}

// NewLoggingLoader creates a new LoggingLoader.
func NewLoggingLoader(next eventboard.Loader, logger *slog.Logger) *LoggingLoader {
	return &LoggingLoader{next: next, logger: logger}
}

// Load delegates to the wrapped loader and logs what was loaded.
func (l *LoggingLoader) Load(ctx context.Context, location string) (req *eventboard.Request, err error) {
	defer func(begin time.Time) {
		attrs := []any{"location", location}
		if req != nil {
			if req.Image != nil {
				attrs = append(attrs,
					"format", req.Image.Format,
					"width", req.Image.Width,
					"height", req.Image.Height,
					"bytes", len(req.Image.Data),
				)
			} else {
				attrs = append(attrs, "text_bytes", len(req.Text))
			}
		}
		attrs = append(attrs, "duration", time.Since(begin), "err", err)
		l.logger.Info("load", attrs...)
	}(time.Now())
	return l.next.Load(ctx, location)
}
