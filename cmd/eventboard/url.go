package main

import (
	"fmt"

	"github.com/fwojciec/eventboard"
	"github.com/fwojciec/eventboard/fs"
	"github.com/fwojciec/eventboard/goquery"
	"github.com/fwojciec/eventboard/pipeline"
	ebslog "github.com/fwojciec/eventboard/slog"
)

// Run executes the url command.
func (c *URLCmd) Run(deps *Dependencies) error {
	loader := &pipeline.PageLoader{
		Fetcher: deps.Fetcher,
		Text:    goquery.NewTextExtractor(),
	}

	runner := &pipeline.Runner{
		Loader:    ebslog.NewLoggingLoader(loader, deps.Logger),
		Extractor: deps.Extractor,
		Writer:    fs.NewEventWriter(c.Output),
		Output:    c.Output,
		Stdout:    deps.Stdout,
		Logger:    deps.Logger,
	}

	if _, err := runner.Run(deps.Ctx, eventboard.Source{Type: eventboard.SourceURL, Data: c.URL}); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", eventboard.ErrorMessage(err))
		return err
	}
	return nil
}
