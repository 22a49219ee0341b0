package eventboard

import "context"

// EventWriter persists an extracted event.
type EventWriter interface {
	WriteEvent(ctx context.Context, event *Event) error
}
