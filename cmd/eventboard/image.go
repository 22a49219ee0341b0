package main

import (
	"fmt"

	"github.com/fwojciec/eventboard"
	"github.com/fwojciec/eventboard/fs"
	"github.com/fwojciec/eventboard/pipeline"
	ebslog "github.com/fwojciec/eventboard/slog"
)

// Run executes the image command.
func (c *ImageCmd) Run(deps *Dependencies) error {
	runner := &pipeline.Runner{
		Loader:    ebslog.NewLoggingLoader(fs.NewImageLoader(), deps.Logger),
		Extractor: deps.Extractor,
		Writer:    fs.NewEventWriter(c.Output),
		Output:    c.Output,
		Stdout:    deps.Stdout,
		Logger:    deps.Logger,
	}

	if _, err := runner.Run(deps.Ctx, eventboard.Source{Type: eventboard.SourceImage, Data: c.Path}); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", eventboard.ErrorMessage(err))
		return err
	}
	return nil
}
