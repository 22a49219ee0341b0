package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/eventboard"
	"github.com/fwojciec/eventboard/gemini"
	ebhttp "github.com/fwojciec/eventboard/http"
	"github.com/fwojciec/eventboard/rod"
	ebslog "github.com/fwojciec/eventboard/slog"
	"github.com/joho/godotenv"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// A missing .env file is not an error; the key may come from the
	// environment or the --api-key flag.
	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Getenv looks up environment variables. Defaults to os.Getenv.
	Getenv func(string) string

	// Now returns the current time used to anchor dates in prompts.
	Now func() time.Time

	// ConfigPaths lists YAML files read for flag defaults.
	ConfigPaths []string

	// Services for end-to-end testing. When nil, Run connects to Gemini and
	// creates a fetcher from flags.
	Generator gemini.ContentGenerator
	Fetcher   eventboard.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Getenv:      os.Getenv,
		Now:         time.Now,
		ConfigPaths: []string{DefaultConfigPath},
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("eventboard"),
		kong.Description("Extract structured event information from flyers and web pages with Gemini."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
		kong.Configuration(YAML, m.ConfigPaths...),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'eventboard --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	apiKey := cli.APIKey
	if apiKey == "" && m.Getenv != nil {
		apiKey = m.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		fmt.Fprintln(stderr, "GEMINI_API_KEY is not set.")
		fmt.Fprintln(stderr, "1. Get an API key at https://aistudio.google.com/apikey")
		fmt.Fprintln(stderr, "2. Create a .env file in the working directory containing:")
		fmt.Fprintln(stderr, "   GEMINI_API_KEY=your_api_key_here")
		return fmt.Errorf("GEMINI_API_KEY not set")
	}

	isURL := strings.HasPrefix(kongCtx.Command(), "url")
	if err := validateTimeouts(cli, isURL); err != nil {
		fmt.Fprintf(stderr, "error: %s\n", eventboard.ErrorMessage(err))
		return err
	}

	promptOpts, err := m.promptOptions(cli)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", eventboard.ErrorMessage(err))
		return err
	}

	gen := m.Generator
	if gen == nil {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		gen = client.Models
	}

	opts := []gemini.Option{
		gemini.WithModel(cli.Model),
		gemini.WithTimeout(cli.Timeout),
		gemini.WithPromptOptions(promptOpts),
	}
	if cli.MaxPromptTokens > 0 {
		counter, err := gemini.NewTokenCounter(tokenizerModel)
		if err != nil {
			return fmt.Errorf("failed to create token counter: %w", err)
		}
		opts = append(opts, gemini.WithTokenLimit(counter, cli.MaxPromptTokens))
	}
	deps.Extractor = ebslog.NewLoggingExtractor(gemini.NewExtractor(gen, opts...), deps.Logger)

	if isURL {
		fetcher := m.Fetcher
		if fetcher == nil {
			if cli.URL.Render {
				f, err := rod.NewFetcher(rod.WithFetchTimeout(cli.URL.FetchTimeout))
				if err != nil {
					fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --render")
					return fmt.Errorf("failed to start browser: %w", err)
				}
				fetcher = f
			} else {
				fetcher = ebhttp.NewFetcher(ebhttp.WithTimeout(cli.URL.FetchTimeout))
			}
			defer fetcher.Close()
		}
		deps.Fetcher = ebslog.NewLoggingFetcher(fetcher, deps.Logger)
	}

	return kongCtx.Run(deps)
}

// tokenizerModel is used for token counting. The local tokenizer only
// knows a fixed set of models, so the flag model is not used here.
const tokenizerModel = "gemini-2.5-flash"

func (m *Main) promptOptions(cli *CLI) (gemini.PromptOptions, error) {
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	opts := gemini.DefaultPromptOptions(now())

	if cli.Today != "" {
		today, err := time.Parse("2006-01-02", cli.Today)
		if err != nil {
			return opts, eventboard.Errorf(eventboard.EINVALID, "--today must be YYYY-MM-DD, got %q", cli.Today)
		}
		opts = gemini.DefaultPromptOptions(today)
	}
	if cli.Year != 0 {
		opts.AssumedYear = cli.Year
	}
	return opts, nil
}

// validateTimeouts rejects zero and negative timeouts, which would fail
// every request immediately.
func validateTimeouts(cli *CLI, isURL bool) error {
	if cli.Timeout <= 0 {
		return eventboard.Errorf(eventboard.EINVALID, "--timeout must be positive, got %s", cli.Timeout)
	}
	if isURL && cli.URL.FetchTimeout <= 0 {
		return eventboard.Errorf(eventboard.EINVALID, "--fetch-timeout must be positive, got %s", cli.URL.FetchTimeout)
	}
	return nil
}
