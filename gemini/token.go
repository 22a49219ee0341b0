package gemini

import (
	"bytes"
	"context"
	"image"
	"strings"

	// Inline images sent to the model are JPEG.
	_ "image/jpeg"

	"github.com/fwojciec/eventboard"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

// Gemini bills an image by 768x768 tiles. Images no larger than
// smallImageSide on both sides are a single tile.
const (
	TokensPerImageTile = 258
	imageTileSide      = 768
	smallImageSide     = 384
)

// ContentCounter counts the tokens of a request as sent to the model.
type ContentCounter interface {
	CountContents(ctx context.Context, contents []*genai.Content) (int, error)
}

var (
	_ eventboard.TokenCounter = (*TokenCounter)(nil)
	_ ContentCounter          = (*TokenCounter)(nil)
)

// TokenCounter estimates prompt size without calling the API. Text is
// counted with the local Gemini tokenizer, inline images by tile.
type TokenCounter struct {
	tok *tokenizer.LocalTokenizer
}

// NewTokenCounter creates a new TokenCounter for the given model.
// The tokenizer vocabulary is downloaded on first use of a model.
func NewTokenCounter(model string) (*TokenCounter, error) {
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, eventboard.Errorf(eventboard.EINVALID, "no local tokenizer for %s: %v", model, err)
	}
	return &TokenCounter{tok: tok}, nil
}

// CountTokens counts the tokens of a text prompt.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	return tc.CountContents(ctx, []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)})
}

// CountContents counts text parts with the tokenizer and adds the tile
// cost of every inline image.
func (tc *TokenCounter) CountContents(ctx context.Context, contents []*genai.Content) (int, error) {
	result, err := tc.tok.CountTokens(contents, nil)
	if err != nil {
		return 0, err
	}

	n := int(result.TotalTokens)
	for _, content := range contents {
		if content == nil {
			continue
		}
		for _, part := range content.Parts {
			if part.InlineData != nil && strings.HasPrefix(part.InlineData.MIMEType, "image/") {
				n += imageTokens(part.InlineData.Data)
			}
		}
	}
	return n, nil
}

// ImageTiles returns how many tiles an image of the given size is billed as.
func ImageTiles(width, height int) int {
	if width <= smallImageSide && height <= smallImageSide {
		return 1
	}
	return ceilDiv(width, imageTileSide) * ceilDiv(height, imageTileSide)
}

// imageTokens charges a single tile when the image header is unreadable.
func imageTokens(data []byte) int {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return TokensPerImageTile
	}
	return ImageTiles(cfg.Width, cfg.Height) * TokensPerImageTile
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
