package mock

import (
	"context"

	"github.com/fwojciec/eventboard"
)

var _ eventboard.EventWriter = (*EventWriter)(nil)

// EventWriter is a mock implementation of eventboard.EventWriter.
type EventWriter struct {
	WriteEventFn func(ctx context.Context, event *eventboard.Event) error
}

func (w *EventWriter) WriteEvent(ctx context.Context, event *eventboard.Event) error {
	return w.WriteEventFn(ctx, event)
}
