package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fwojciec/eventboard"
)

// Ensure EventWriter implements eventboard.EventWriter at compile time.
var _ eventboard.EventWriter = (*EventWriter)(nil)

// EventWriter writes an event as a JSON file.
type EventWriter struct {
	path string
}

// NewEventWriter creates a new EventWriter that writes to path.
func NewEventWriter(path string) *EventWriter {
	return &EventWriter{path: path}
}

// Path returns the file the writer writes to.
func (w *EventWriter) Path() string {
	return w.path
}

// WriteEvent encodes event and writes it to the writer's path, replacing
// any existing file. Nothing is written once ctx is done.
func (w *EventWriter) WriteEvent(ctx context.Context, event *eventboard.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := event.Validate(); err != nil {
		return err
	}

	data, err := eventboard.MarshalEvent(event)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return os.WriteFile(w.path, data, 0644)
}
