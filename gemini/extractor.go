// Package gemini implements eventboard.Extractor using Google Gemini.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/eventboard"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used for extraction.
const DefaultModel = "gemini-2.5-flash"

// DefaultTimeout bounds a single model call.
const DefaultTimeout = 2 * time.Minute

// ContentGenerator is the part of the Gemini API used by Extractor.
// *genai.Models satisfies it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

var _ ContentGenerator = (*genai.Models)(nil)

// Ensure Extractor implements eventboard.Extractor at compile time.
var _ eventboard.Extractor = (*Extractor)(nil)

// Extractor implements eventboard.Extractor using Google Gemini.
// Each request is a single attempt; failures produce degraded extractions.
type Extractor struct {
	gen       ContentGenerator
	model     string
	timeout   time.Duration
	prompt    PromptOptions
	tokens    eventboard.TokenCounter
	maxTokens int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithModel sets the Gemini model. Defaults to DefaultModel.
func WithModel(model string) Option {
	return func(e *Extractor) {
		e.model = model
	}
}

// WithTimeout bounds each model call. Defaults to DefaultTimeout, which is
// also kept when d is not positive.
func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithPromptOptions sets the date anchors of the prompt.
// Defaults to DefaultPromptOptions(time.Now()).
func WithPromptOptions(opts PromptOptions) Option {
	return func(e *Extractor) {
		e.prompt = opts
	}
}

// WithTokenLimit degrades requests whose prompt exceeds max tokens before
// the model is called. A counter that also implements ContentCounter is
// given the full request, images included. When counting fails the request
// is sent unchecked and the failure is reported as a warning.
func WithTokenLimit(counter eventboard.TokenCounter, max int) Option {
	return func(e *Extractor) {
		e.tokens = counter
		e.maxTokens = max
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(gen ContentGenerator, opts ...Option) *Extractor {
	e := &Extractor{
		gen:     gen,
		model:   DefaultModel,
		timeout: DefaultTimeout,
		prompt:  DefaultPromptOptions(time.Now()),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract asks the model for the event in req.
func (e *Extractor) Extract(ctx context.Context, req *eventboard.Request) (x *eventboard.Extraction) {
	if req == nil {
		return eventboard.Degraded(eventboard.Source{}, eventboard.Errorf(eventboard.EINVALID, "request required"))
	}

	defer func() {
		if r := recover(); r != nil {
			x = eventboard.Degraded(req.Source, eventboard.Errorf(eventboard.EINTERNAL, "extraction panicked: %v", r))
		}
	}()

	event, warnings, err := e.extract(ctx, req)
	if err != nil {
		return eventboard.Degraded(req.Source, err)
	}
	return eventboard.Succeeded(event, warnings)
}

func (e *Extractor) extract(ctx context.Context, req *eventboard.Request) (*eventboard.Event, []string, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	prompt := BuildPrompt(req, e.prompt)
	contents := BuildContents(req, prompt)

	var warnings []string
	warning, err := e.checkTokens(ctx, prompt, contents)
	if err != nil {
		return nil, nil, err
	} else if warning != "" {
		warnings = append(warnings, warning)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	result, err := e.gen.GenerateContent(ctx, e.model, contents, BuildConfig())
	if err != nil {
		return nil, nil, err
	}
	if result == nil {
		return nil, nil, eventboard.Errorf(eventboard.EINTERNAL, "gemini returned nil result")
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return nil, nil, eventboard.Errorf(eventboard.EINVALID, "gemini returned empty response%s", blockReason(result))
	}

	body, err := eventboard.UnwrapCodeFence(text)
	if err != nil {
		return nil, nil, err
	}

	event, parseWarnings, err := eventboard.ParseEvent(body)
	if err != nil {
		return nil, nil, err
	}

	event.SourceType = req.Source.Type
	event.SourceData = req.Source.Data
	return event, append(warnings, parseWarnings...), nil
}

// checkTokens returns EINVALID when the request is over the token limit,
// or a warning when it could not be counted.
func (e *Extractor) checkTokens(ctx context.Context, prompt string, contents []*genai.Content) (string, error) {
	if e.tokens == nil || e.maxTokens <= 0 {
		return "", nil
	}

	var n int
	var err error
	if cc, ok := e.tokens.(ContentCounter); ok {
		n, err = cc.CountContents(ctx, contents)
	} else {
		n, err = e.tokens.CountTokens(ctx, prompt)
	}
	if err != nil {
		return fmt.Sprintf("token limit not checked: %v", err), nil
	}

	if n > e.maxTokens {
		return "", eventboard.Errorf(eventboard.EINVALID, "prompt has %d tokens, limit is %d", n, e.maxTokens)
	}
	return "", nil
}

func blockReason(result *genai.GenerateContentResponse) string {
	if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
		return fmt.Sprintf(" (blocked: %s)", result.PromptFeedback.BlockReason)
	}
	return ""
}
