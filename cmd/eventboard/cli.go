package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/eventboard"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Extractor eventboard.Extractor
	Fetcher   eventboard.Fetcher
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config          kong.ConfigFlag `help:"Read flag defaults from a YAML file"`
	APIKey          string          `name:"api-key" help:"Gemini API key (default: $GEMINI_API_KEY)"`
	Model           string          `default:"gemini-2.5-flash" help:"Gemini model"`
	Year            int             `help:"Year assumed for dates without one (default: current year)"`
	Today           string          `help:"Date given to the model as today, YYYY-MM-DD (default: current date)"`
	Timeout         time.Duration   `default:"2m" help:"Timeout for the model call"`
	MaxPromptTokens int             `name:"max-prompt-tokens" help:"Reject prompts longer than this many tokens (0 disables)"`
	Verbose         bool            `short:"v" help:"Enable debug logging"`

	Image ImageCmd `cmd:"" help:"Extract event information from a flyer image"`
	URL   URLCmd   `cmd:"" name:"url" help:"Extract event information from a web page"`
}

// ImageCmd is the "image" subcommand.
type ImageCmd struct {
	Path   string `arg:"" help:"Flyer image (JPEG, PNG, GIF, WebP, BMP or TIFF)"`
	Output string `short:"o" default:"event_data_from_image.json" help:"Output JSON file"`
}

// URLCmd is the "url" subcommand.
type URLCmd struct {
	URL          string        `arg:"" name:"url" help:"Event page URL"`
	Output       string        `short:"o" default:"event_data.json" help:"Output JSON file"`
	Render       bool          `help:"Render the page in headless Chrome before extracting text"`
	FetchTimeout time.Duration `default:"30s" help:"Timeout for fetching the page"`
}
