package gemini

import (
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/eventboard"
	"google.golang.org/genai"
)

// PromptOptions holds the date anchors given to the model.
type PromptOptions struct {
	// AssumedYear is used when the source omits the year.
	AssumedYear int

	// Today anchors relative dates such as "来週金曜".
	Today time.Time
}

// DefaultPromptOptions anchors the prompt on now.
func DefaultPromptOptions(now time.Time) PromptOptions {
	return PromptOptions{AssumedYear: now.Year(), Today: now}
}

const promptRole = "あなたは学内イベント情報を抽出するAIアシスタントです。\n"

const promptSchema = `# 抽出すべき情報
以下の8項目を抽出し、JSONとして整形してください:
1. event_name: イベント名（読み取れない場合はnull）
2. event_date_start: イベント開始日時（ISO 8601形式：YYYY-MM-DDThh:mm:ss、読み取れない場合はnull）
3. event_date_end: イベント終了日時（ISO 8601形式：YYYY-MM-DDThh:mm:ss、不明な場合はnull）
4. location: 開催場所（読み取れない場合はnull）
5. organizer: 主催団体（読み取れない場合はnull）
6. target_audience: 対象者（読み取れない場合はnull）
7. description: イベント内容の短い要約（100文字程度、読み取れない場合はnull）
8. tags: イベント内容に関連するタグ（例: #講演会, #音楽, #スポーツ）を配列形式で（推測できない場合は空配列）
`

const promptFormat = `# 出力形式
{
  "event_name": "イベント名またはnull",
  "event_date_start": "YYYY-MM-DDThh:mm:ssまたはnull",
  "event_date_end": "YYYY-MM-DDThh:mm:ssまたはnull",
  "location": "開催場所またはnull",
  "organizer": "主催団体またはnull",
  "target_audience": "対象者またはnull",
  "description": "イベント内容の短い要約またはnull",
  "tags": ["#タグ1", "#タグ2"]
}

JSONデータのみを出力してください。説明文やマークダウン記法は使用しないでください。
`

// BuildPagePrompt builds the prompt for a web page. The page text is
// inlined into the prompt body.
func BuildPagePrompt(pageURL, text string, opts PromptOptions) string {
	var sb strings.Builder
	sb.WriteString(promptRole)
	sb.WriteString("以下のWebページのテキストから、大学のイベント情報を抽出し、JSON形式で出力してください。\n\n")
	fmt.Fprintf(&sb, "# 入力元URL\n%s\n\n", pageURL)
	fmt.Fprintf(&sb, "# 入力テキスト\n%s\n\n", text)
	sb.WriteString(promptSchema)
	sb.WriteString("\n")
	writeRules(&sb, "テキスト", opts)
	sb.WriteString("\n")
	sb.WriteString(promptFormat)
	return sb.String()
}

// BuildImagePrompt builds the prompt for a flyer image. The image itself is
// sent as a separate part, see BuildContents.
func BuildImagePrompt(opts PromptOptions) string {
	var sb strings.Builder
	sb.WriteString(promptRole)
	sb.WriteString("提供された画像（イベントチラシ）から、大学のイベント情報を抽出し、JSON形式で出力してください。\n\n")
	sb.WriteString(promptSchema)
	sb.WriteString("\n")
	writeRules(&sb, "画像", opts)
	sb.WriteString("- 画像が不鮮明で読み取れない場合は、該当項目をnullにしてください。\n")
	sb.WriteString("\n")
	sb.WriteString(promptFormat)
	return sb.String()
}

func writeRules(sb *strings.Builder, medium string, opts PromptOptions) {
	sb.WriteString("# 注意事項\n")
	fmt.Fprintf(sb, "- %sから明確に読み取れない情報は必ずnullを設定してください。\n", medium)
	fmt.Fprintf(sb, "- 日付や時間の情報は可能な限り正確に抽出してください。年が記載されていない場合は%d年と仮定してください。\n", opts.AssumedYear)
	sb.WriteString("- JSONはUTF-8でエンコードし、日本語文字列はエスケープしないでください。\n")
	fmt.Fprintf(sb, "- 今日の日付は%sです。\n", formatJapaneseDate(opts.Today))
}

func formatJapaneseDate(t time.Time) string {
	return fmt.Sprintf("%d年%d月%d日", t.Year(), int(t.Month()), t.Day())
}

// BuildPrompt returns the prompt text for req.
func BuildPrompt(req *eventboard.Request, opts PromptOptions) string {
	if req.Source.Type == eventboard.SourceImage {
		return BuildImagePrompt(opts)
	}
	return BuildPagePrompt(req.Source.Data, req.Text, opts)
}

// BuildContents returns the user content sent to the model. Image requests
// carry the prompt and the image as two separate parts.
func BuildContents(req *eventboard.Request, prompt string) []*genai.Content {
	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	if req.Image != nil {
		parts = append(parts, genai.NewPartFromBytes(req.Image.Data, req.Image.MIMEType))
	}
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
}

// BuildConfig returns the GenerateContentConfig for extraction calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
	}
}
