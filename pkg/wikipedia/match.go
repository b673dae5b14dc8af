package wikipedia

import (
	"strings"

	"golang.org/x/text/cases"
)

// maxSuggestions is how many headings a "not found" message lists.
const maxSuggestions = 5

// matchSection returns the position of the first entry whose trimmed heading
// equals the trimmed title under case folding, or -1.
// Internal whitespace, punctuation and diacritics are compared as-is.
func matchSection(entries []outlineEntry, title string) int {
	// A Caser keeps state and is not shared across goroutines.
	fold := cases.Fold()
	want := fold.String(strings.TrimSpace(title))
	for i, e := range entries {
		if fold.String(strings.TrimSpace(e.Line)) == want {
			return i
		}
	}
	return -1
}

// notFoundMessage lists up to maxSuggestions raw headings from the outline.
func notFoundMessage(entries []outlineEntry, title string) string {
	n := len(entries)
	if n > maxSuggestions {
		n = maxSuggestions
	}
	names := make([]string, 0, n)
	for _, e := range entries[:n] {
		names = append(names, e.Line)
	}
	return "Section '" + title + "' not found. Available sections: " + strings.Join(names, ", ")
}
