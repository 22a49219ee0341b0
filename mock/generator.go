package mock

import (
	"context"

	"github.com/fwojciec/eventboard/gemini"
	"google.golang.org/genai"
)

var _ gemini.ContentGenerator = (*ContentGenerator)(nil)

// ContentGenerator is a mock implementation of gemini.ContentGenerator.
type ContentGenerator struct {
	GenerateContentFn func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

func (g *ContentGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return g.GenerateContentFn(ctx, model, contents, config)
}

// TextResponse returns a response whose first candidate holds text.
func TextResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: genai.NewContentFromText(text, genai.RoleModel),
		}},
	}
}
