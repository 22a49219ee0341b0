package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/eventboard"
	main "github.com/fwojciec/eventboard/cmd/eventboard"
	"github.com/fwojciec/eventboard/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// call records one request to the stub generator.
type call struct {
	model  string
	prompt string
	parts  int
}

// newTestMain returns a Main with no environment, no config files, a fixed
// clock and a stub generator answering with response.
func newTestMain(response string, calls *[]call) *main.Main {
	m := main.NewMain()
	m.Getenv = func(string) string { return "" }
	m.ConfigPaths = nil
	m.Now = func() time.Time { return time.Date(2025, time.June, 19, 9, 0, 0, 0, time.UTC) }
	m.Generator = &mock.ContentGenerator{
		GenerateContentFn: func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			if calls != nil {
				*calls = append(*calls, call{model: model, prompt: contents[0].Parts[0].Text, parts: len(contents[0].Parts)})
			}
			return mock.TextResponse(response), nil
		},
	}
	return m
}

func eventPage(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><body><nav><a href="/">Home</a></nav><p>Event: Fall Festival, Oct 5</p></body></html>`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func readEvent(t *testing.T, path string) map[string]any {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	return got
}

func TestMain_Run_Help(t *testing.T) {
	t.Parallel()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := newTestMain("", nil).Run(context.Background(), []string{"--help"}, stdout, stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "image")
	assert.Contains(t, stdout.String(), "url")
	assert.Contains(t, stdout.String(), "--api-key")
}

func TestMain_Run_NoArgs(t *testing.T) {
	t.Parallel()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := newTestMain("", nil).Run(context.Background(), []string{}, stdout, stderr)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
}

func TestMain_Run_MissingAPIKey(t *testing.T) {
	t.Parallel()

	output := filepath.Join(t.TempDir(), "event.json")
	var calls []call
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := newTestMain(`{}`, &calls).Run(context.Background(), []string{"url", "https://example.com", "-o", output}, stdout, stderr)

	require.Error(t, err)
	assert.Contains(t, stderr.String(), "GEMINI_API_KEY")
	assert.Contains(t, stderr.String(), "https://aistudio.google.com/apikey")
	assert.Empty(t, calls)
	assert.NoFileExists(t, output)
}

func TestMain_Run_URL(t *testing.T) {
	t.Parallel()

	t.Run("extracts event from page", func(t *testing.T) {
		t.Parallel()

		srv := eventPage(t)
		output := filepath.Join(t.TempDir(), "event_data.json")
		var calls []call
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		response := "```json\n{\"event_name\": \"Fall Festival\", \"event_date_start\": \"2025-10-05\", \"tags\": [\"festival\"]}\n```"

		err := newTestMain(response, &calls).Run(context.Background(), []string{"url", srv.URL, "-o", output, "--api-key", "test-key"}, stdout, stderr)

		require.NoError(t, err, stderr.String())
		require.Len(t, calls, 1)
		assert.Equal(t, "gemini-2.5-flash", calls[0].model)
		assert.Equal(t, 1, calls[0].parts)
		assert.Contains(t, calls[0].prompt, "Event: Fall Festival, Oct 5")
		assert.NotContains(t, calls[0].prompt, "Home")
		assert.Contains(t, calls[0].prompt, "今日の日付は2025年6月19日です")

		got := readEvent(t, output)
		assert.Equal(t, "Fall Festival", got["event_name"])
		assert.Equal(t, "2025-10-05T00:00:00", got["event_date_start"])
		assert.Equal(t, "url", got["source_type"])
		assert.Equal(t, srv.URL, got["source_data"])
		assert.Equal(t, []any{"#festival"}, got["tags"])
		assert.NotContains(t, got, "error")

		assert.Contains(t, stdout.String(), "===== イベント情報 =====")
		assert.Contains(t, stdout.String(), "\"event_name\": \"Fall Festival\"")
	})

	t.Run("reads API key from environment", func(t *testing.T) {
		t.Parallel()

		srv := eventPage(t)
		output := filepath.Join(t.TempDir(), "event.json")
		m := newTestMain(`{"event_name": "Fall Festival"}`, nil)
		m.Getenv = func(key string) string {
			if key == "GEMINI_API_KEY" {
				return "env-key"
			}
			return ""
		}

		err := m.Run(context.Background(), []string{"url", srv.URL, "-o", output}, &bytes.Buffer{}, &bytes.Buffer{})

		require.NoError(t, err)
		assert.FileExists(t, output)
	})

	t.Run("anchors dates to flags", func(t *testing.T) {
		t.Parallel()

		srv := eventPage(t)
		output := filepath.Join(t.TempDir(), "event.json")
		var calls []call

		err := newTestMain(`{}`, &calls).Run(context.Background(), []string{"--api-key", "k", "--today", "2024-12-01", "--year", "2025", "url", srv.URL, "-o", output}, &bytes.Buffer{}, &bytes.Buffer{})

		require.NoError(t, err)
		require.Len(t, calls, 1)
		assert.Contains(t, calls[0].prompt, "今日の日付は2024年12月1日です")
		assert.Contains(t, calls[0].prompt, "2025年と仮定")
	})

	t.Run("rejects malformed --today", func(t *testing.T) {
		t.Parallel()

		err := newTestMain(`{}`, nil).Run(context.Background(), []string{"--api-key", "k", "--today", "19/06/2025", "url", "https://example.com"}, &bytes.Buffer{}, &bytes.Buffer{})

		assert.Equal(t, eventboard.EINVALID, eventboard.ErrorCode(err))
	})

	t.Run("rejects non-positive timeouts", func(t *testing.T) {
		t.Parallel()

		for _, args := range [][]string{
			{"--timeout", "0s"},
			{"--timeout=-1m"},
			{"--fetch-timeout", "0s"},
		} {
			output := filepath.Join(t.TempDir(), "event.json")
			var calls []call
			stderr := &bytes.Buffer{}

			err := newTestMain(`{}`, &calls).Run(context.Background(), append([]string{"url", "https://example.com", "-o", output, "--api-key", "k"}, args...), &bytes.Buffer{}, stderr)

			assert.Equal(t, eventboard.EINVALID, eventboard.ErrorCode(err), args)
			assert.Contains(t, stderr.String(), "must be positive")
			assert.Empty(t, calls)
			assert.NoFileExists(t, output)
		}
	})

	t.Run("fetch failure writes nothing", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()
		output := filepath.Join(t.TempDir(), "event.json")
		var calls []call
		stderr := &bytes.Buffer{}

		err := newTestMain(`{}`, &calls).Run(context.Background(), []string{"url", srv.URL, "-o", output, "--api-key", "k"}, &bytes.Buffer{}, stderr)

		assert.Equal(t, eventboard.EFETCH, eventboard.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error: HTTP 404")
		assert.Empty(t, calls)
		assert.NoFileExists(t, output)
	})

	t.Run("uses injected fetcher", func(t *testing.T) {
		t.Parallel()

		output := filepath.Join(t.TempDir(), "event.json")
		m := newTestMain(`{"event_name": "説明会"}`, nil)
		m.Fetcher = &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "<p>説明会</p>", nil
			},
			CloseFn: func() error { return nil },
		}

		err := m.Run(context.Background(), []string{"url", "https://example.ac.jp/info", "-o", output, "--api-key", "k"}, &bytes.Buffer{}, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Equal(t, "説明会", readEvent(t, output)["event_name"])
	})
}

func TestMain_Run_Image(t *testing.T) {
	t.Parallel()

	t.Run("missing file writes nothing", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		output := filepath.Join(dir, "event.json")
		var calls []call
		stderr := &bytes.Buffer{}

		err := newTestMain(`{}`, &calls).Run(context.Background(), []string{"image", filepath.Join(dir, "missing.png"), "-o", output, "--api-key", "k"}, &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Equal(t, eventboard.ENOTFOUND, eventboard.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error: image file not found")
		assert.Empty(t, calls)
		assert.NoFileExists(t, output)
	})

	t.Run("failed model call writes error record", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		flyer := writeFlyer(t, dir)
		output := filepath.Join(dir, "event.json")
		m := newTestMain("", nil)
		m.Generator = &mock.ContentGenerator{
			GenerateContentFn: func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
				return nil, errors.New("service unavailable")
			},
		}
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"image", flyer, "-o", output, "--api-key", "k"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		got := readEvent(t, output)
		assert.Equal(t, "image", got["source_type"])
		assert.Equal(t, flyer, got["source_data"])
		assert.Equal(t, "service unavailable", got["error"])
		assert.Nil(t, got["event_name"])
		assert.Equal(t, []any{}, got["tags"])
		assert.Contains(t, stdout.String(), "画像を読み込みました")
	})

	t.Run("sends image to model", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		flyer := writeFlyer(t, dir)
		output := filepath.Join(dir, "event.json")
		var calls []call

		err := newTestMain(`{"event_name": "オープンキャンパス"}`, &calls).Run(context.Background(), []string{"image", flyer, "-o", output, "--api-key", "k"}, &bytes.Buffer{}, &bytes.Buffer{})

		require.NoError(t, err)
		require.Len(t, calls, 1)
		assert.Equal(t, 2, calls[0].parts)
		assert.Contains(t, calls[0].prompt, "イベントチラシ")
		assert.Equal(t, "オープンキャンパス", readEvent(t, output)["event_name"])
	})
}

func TestMain_Run_ConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	srv := eventPage(t)
	output := filepath.Join(dir, "from-config.json")
	config := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(config, []byte("api-key: config-key\nmodel: gemini-2.5-pro\nurl:\n  output: "+output+"\n"), 0644))

	var calls []call
	m := newTestMain(`{}`, &calls)
	m.ConfigPaths = []string{config}

	err := m.Run(context.Background(), []string{"url", srv.URL}, &bytes.Buffer{}, &bytes.Buffer{})

	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, "gemini-2.5-pro", calls[0].model)
	assert.FileExists(t, output)
}

func writeFlyer(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "flyer.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 16, 24))))
	return path
}
