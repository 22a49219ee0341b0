package mock

import (
	"context"

	"github.com/fwojciec/eventboard"
)

var _ eventboard.Loader = (*Loader)(nil)

// Loader is a mock implementation of eventboard.Loader.
type Loader struct {
	LoadFn func(ctx context.Context, location string) (*eventboard.Request, error)
}

func (l *Loader) Load(ctx context.Context, location string) (*eventboard.Request, error) {
	return l.LoadFn(ctx, location)
}
