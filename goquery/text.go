// Package goquery reduces HTML pages to plain text using goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/eventboard"
	"golang.org/x/net/html"
)

// NonContentSelector matches the elements removed before text extraction.
const NonContentSelector = "script, style, nav, footer, header"

// Ensure TextExtractor implements eventboard.TextExtractor at compile time.
var _ eventboard.TextExtractor = (*TextExtractor)(nil)

// TextExtractor extracts the visible text of an HTML page.
type TextExtractor struct{}

// NewTextExtractor creates a new TextExtractor.
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// ExtractText removes non-content elements and returns the remaining text,
// one trimmed non-empty line per line of text, in document order.
func (e *TextExtractor) ExtractText(rawHTML string) (string, error) {
	// With scripting disabled, <noscript> content is parsed as markup
	// rather than raw text.
	root, err := html.ParseWithOptions(strings.NewReader(rawHTML), html.ParseOptionEnableScripting(false))
	if err != nil {
		return "", eventboard.Errorf(eventboard.EINVALID, "failed to parse HTML: %v", err)
	}

	doc := goquery.NewDocumentFromNode(root)
	doc.Find(NonContentSelector).Remove()

	var sb strings.Builder
	for _, n := range doc.Nodes {
		writeText(&sb, n)
	}

	return CleanLines(sb.String()), nil
}

// writeText appends every text node under n, each followed by a newline.
func writeText(sb *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		sb.WriteByte('\n')
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(sb, c)
	}
}

// CleanLines splits text into lines, trims each, drops empty ones and
// joins the rest with newlines.
func CleanLines(text string) string {
	lines := strings.FieldsFunc(text, isLineBreak)
	out := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
