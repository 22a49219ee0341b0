package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/fwojciec/eventboard"
	"github.com/google/uuid"
)

// State is a step of a run.
type State string

// State constants.
const (
	StateIdle       State = "idle"
	StateLoading    State = "loading"
	StateExtracting State = "extracting"
	StateWriting    State = "writing"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

// Banners printed around the final record.
const (
	bannerOpen  = "===== イベント情報 ====="
	bannerClose = "======================="
)

// TransitionFunc is called each time a run moves to a new state.
type TransitionFunc func(from, to State)

// Runner runs the load, extract and write steps for one source.
type Runner struct {
	Loader    eventboard.Loader
	Extractor eventboard.Extractor
	Writer    eventboard.EventWriter

	// Output is the destination reported in progress messages.
	Output string

	// Stdout receives progress messages and the final record.
	// Nothing is printed if nil.
	Stdout io.Writer

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	OnTransition TransitionFunc
}

// Run processes src. Load and write failures end the run in StateFailed
// and are returned, as does cancellation of ctx. A failed extraction is
// not an error: its degraded record is still written and returned.
func (r *Runner) Run(ctx context.Context, src eventboard.Source) (*eventboard.Extraction, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("run", uuid.NewString(), "source_type", src.Type)

	state := StateIdle
	moveTo := func(next State) {
		logger.Debug("state", "from", state, "to", next)
		if r.OnTransition != nil {
			r.OnTransition(state, next)
		}
		state = next
	}

	moveTo(StateLoading)
	r.printf("%sからイベント情報を抽出しています: %s\n", sourceLabel(src.Type), src.Data)

	req, err := r.Loader.Load(ctx, src.Data)
	if err != nil {
		moveTo(StateFailed)
		return nil, err
	}
	if req.Image != nil {
		r.printf("画像を読み込みました: %s (サイズ: %dx%d)\n", src.Data, req.Image.Width, req.Image.Height)
	}

	moveTo(StateExtracting)
	x := r.Extractor.Extract(ctx, req)
	if err := ctx.Err(); err != nil {
		// An interrupted run keeps any earlier output.
		moveTo(StateFailed)
		return x, err
	}
	if x == nil {
		x = eventboard.Degraded(req.Source, eventboard.Errorf(eventboard.EINTERNAL, "extractor returned no result"))
	}
	for _, w := range x.Warnings {
		logger.Warn("normalization", "warning", w)
	}
	if !x.OK() {
		logger.Warn("extraction degraded", "err", x.Err)
		r.printf("イベント情報の抽出に失敗しました: %s\n", eventboard.ErrorMessage(x.Err))
	}

	moveTo(StateWriting)
	if err := r.Writer.WriteEvent(ctx, x.Event); err != nil {
		moveTo(StateFailed)
		return x, err
	}
	if r.Output != "" {
		r.printf("イベント情報を %s に保存しました。\n", r.Output)
	}

	data, err := eventboard.MarshalEvent(x.Event)
	if err != nil {
		moveTo(StateFailed)
		return x, err
	}
	r.printf("\n%s\n%s%s\n\n", bannerOpen, data, bannerClose)

	moveTo(StateDone)
	return x, nil
}

func (r *Runner) printf(format string, args ...any) {
	if r.Stdout == nil {
		return
	}
	fmt.Fprintf(r.Stdout, format, args...)
}

func sourceLabel(t eventboard.SourceType) string {
	if t == eventboard.SourceImage {
		return "画像"
	}
	return "URL"
}
