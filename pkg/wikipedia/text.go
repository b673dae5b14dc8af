package wikipedia

import (
	"regexp"
	"strings"
)

// Plain text limits.
const (
	MaxContentRunes  = 2000
	TruncationSuffix = "... [Content truncated]"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// entityReplacer decodes the handful of entities Wikipedia emits in prose.
// Other named and numeric entities are left untouched.
var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&nbsp;", " ",
)

// ToPlainText flattens an HTML fragment into a single line of text.
//
// Tags are removed without interpretation, a fixed set of entities is
// decoded, whitespace runs collapse to one space, and the result is cut to
// MaxContentRunes characters with TruncationSuffix appended when cut.
func ToPlainText(html string) string {
	if html == "" {
		return ""
	}

	text := tagPattern.ReplaceAllString(html, "")
	text = entityReplacer.Replace(text)
	text = strings.Join(strings.Fields(text), " ")

	runes := []rune(text)
	if len(runes) > MaxContentRunes {
		return string(runes[:MaxContentRunes]) + TruncationSuffix
	}
	return text
}
