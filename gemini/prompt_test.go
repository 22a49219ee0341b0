package gemini_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/fwojciec/eventboard"
	"github.com/fwojciec/eventboard/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPromptOptions = gemini.PromptOptions{
	AssumedYear: 2025,
	Today:       time.Date(2025, time.June, 19, 0, 0, 0, 0, time.UTC),
}

func TestBuildPagePrompt(t *testing.T) {
	t.Parallel()

	prompt := gemini.BuildPagePrompt("https://www.example.ac.jp/news/event/1.html", "オープンキャンパス\n7月20日", testPromptOptions)

	t.Run("inlines page text and url", func(t *testing.T) {
		t.Parallel()

		assert.Contains(t, prompt, "オープンキャンパス\n7月20日")
		assert.Contains(t, prompt, "https://www.example.ac.jp/news/event/1.html")
	})

	t.Run("anchors dates", func(t *testing.T) {
		t.Parallel()

		assert.Contains(t, prompt, "2025年と仮定")
		assert.Contains(t, prompt, "今日の日付は2025年6月19日です")
	})

	t.Run("demands bare JSON", func(t *testing.T) {
		t.Parallel()

		assert.Contains(t, prompt, "JSONデータのみを出力してください")
		assert.Contains(t, prompt, "エスケープしないでください")
	})
}

func TestBuildPrompt_ListsEightFields(t *testing.T) {
	t.Parallel()

	fields := []string{
		"event_name",
		"event_date_start",
		"event_date_end",
		"location",
		"organizer",
		"target_audience",
		"description",
		"tags",
	}

	for _, prompt := range []string{
		gemini.BuildImagePrompt(testPromptOptions),
		gemini.BuildPagePrompt("https://example.com", "text", testPromptOptions),
	} {
		for i, field := range fields {
			assert.Contains(t, prompt, fmt.Sprintf("%d. %s:", i+1, field))
		}
		assert.NotContains(t, prompt, "9. ")
		assert.NotContains(t, prompt, "source_data")
	}
}

func TestBuildImagePrompt(t *testing.T) {
	t.Parallel()

	prompt := gemini.BuildImagePrompt(testPromptOptions)

	assert.Contains(t, prompt, "イベントチラシ")
	assert.Contains(t, prompt, "画像が不鮮明")
	assert.NotContains(t, prompt, "入力テキスト")
}

func TestBuildContents(t *testing.T) {
	t.Parallel()

	t.Run("page request has one text part", func(t *testing.T) {
		t.Parallel()

		req := &eventboard.Request{Source: eventboard.Source{Type: eventboard.SourceURL, Data: "https://example.com"}, Text: "hello"}

		contents := gemini.BuildContents(req, "prompt")

		require.Len(t, contents, 1)
		require.Len(t, contents[0].Parts, 1)
		assert.Equal(t, "prompt", contents[0].Parts[0].Text)
	})

	t.Run("image request has text and image parts", func(t *testing.T) {
		t.Parallel()

		req := &eventboard.Request{
			Source: eventboard.Source{Type: eventboard.SourceImage, Data: "a.jpg"},
			Image:  &eventboard.Image{Data: []byte("jpeg"), MIMEType: "image/jpeg"},
		}

		contents := gemini.BuildContents(req, "prompt")

		require.Len(t, contents[0].Parts, 2)
		assert.Equal(t, "prompt", contents[0].Parts[0].Text)
		assert.Equal(t, []byte("jpeg"), contents[0].Parts[1].InlineData.Data)
	})
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	config := gemini.BuildConfig()

	require.NotNil(t, config.Temperature)
	assert.InDelta(t, 0.2, *config.Temperature, 0.001)
	assert.Equal(t, "application/json", config.ResponseMIMEType)
}

func TestDefaultPromptOptions(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)

	opts := gemini.DefaultPromptOptions(now)

	assert.Equal(t, 2026, opts.AssumedYear)
	assert.Equal(t, now, opts.Today)
}
