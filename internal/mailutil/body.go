package mailutil

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy = bluemonday.StrictPolicy()

	blockBreak = regexp.MustCompile(`(?i)<br\s*/?>|</(p|div|tr|li|h[1-6]|blockquote|table)>`)
	blankRuns  = regexp.MustCompile(`\n{3,}`)
)

// BodyText converts an HTML message body into plain text suitable for a
// terminal viewport. Script and style contents are dropped, block-level
// elements become line breaks and entities are decoded.
func BodyText(body string) string {
	text := blockBreak.ReplaceAllString(body, "\n")
	text = strictPolicy.Sanitize(text)
	text = html.UnescapeString(text)
	text = strings.ReplaceAll(text, "\u00a0", " ")
	text = strings.ReplaceAll(text, "\r\n", "\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	text = strings.Join(lines, "\n")
	text = blankRuns.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}
