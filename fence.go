package eventboard

import (
	"regexp"
	"strings"
)

const fence = "```"

// openingFence matches a fence marker with an optional info string
// (e.g., "json") and the line break that ends it.
var openingFence = regexp.MustCompile("^```[A-Za-z0-9_+-]*[ \\t]*(?:\\r?\\n)?")

// UnwrapCodeFence returns the content of the first markdown code block in
// text, trimmed of surrounding whitespace. Text without a fence marker is
// returned unchanged. An opening fence without a closing fence is an
// EINVALID error.
func UnwrapCodeFence(text string) (string, error) {
	start := strings.Index(text, fence)
	if start < 0 {
		return text, nil
	}

	open := openingFence.FindString(text[start:])
	body := text[start+len(open):]

	end := strings.Index(body, fence)
	if end < 0 {
		return "", Errorf(EINVALID, "unterminated code fence in model response")
	}

	return strings.TrimSpace(body[:end]), nil
}
