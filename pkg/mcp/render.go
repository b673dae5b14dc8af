package mcp

import (
	"strings"

	"github.com/ajayindfw/WikipediaMcpServer-sub001/pkg/wikipedia"
)

// FormatSearch renders a search result, or the absence sentence when res is nil.
func FormatSearch(query string, res *wikipedia.SearchResult) string {
	if res == nil {
		return "No Wikipedia article found for '" + query + "'."
	}
	var sb strings.Builder
	sb.WriteString("**" + res.Title + "**\n\n")
	sb.WriteString(res.Summary)
	if res.URL != "" {
		sb.WriteString("\n\nURL: " + res.URL)
	}
	return sb.String()
}

// FormatSections renders a section outline, or the absence sentence when out is nil.
func FormatSections(topic string, out *wikipedia.SectionOutline) string {
	if out == nil {
		return "No sections found for '" + topic + "'."
	}
	var sb strings.Builder
	sb.WriteString("Sections for '" + out.Title + "':\n\n")
	sb.WriteString(strings.Join(out.Sections, "\n"))
	if out.URL != "" {
		sb.WriteString("\n\nURL: " + out.URL)
	}
	return sb.String()
}

// FormatSectionContent renders section content, or the absence sentence when sc is nil.
func FormatSectionContent(topic, sectionTitle string, sc *wikipedia.SectionContent) string {
	if sc == nil {
		return "No content found for section '" + sectionTitle + "' in '" + topic + "'."
	}
	return "**" + sc.SectionTitle + "**\n\n" + sc.Content
}
