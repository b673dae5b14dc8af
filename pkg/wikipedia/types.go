package wikipedia

// Placeholder texts used by populated results.
const (
	NoSummaryText  = "No summary available"
	NoSectionsText = "No sections available"
	NoContentText  = "No content available for this section."
)

// SearchResult is a page summary looked up by exact title.
type SearchResult struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	URL     string `json:"url"`
}

// SectionOutline is the ordered table of contents of a page.
// Each entry is indented by two spaces per nesting level below the top.
type SectionOutline struct {
	Title    string   `json:"title"`
	Sections []string `json:"sections"`
	URL      string   `json:"url"`
}

// SectionContent is the plain text of a single section.
// SectionTitle echoes the title the caller asked for.
type SectionContent struct {
	SectionTitle string `json:"sectionTitle"`
	Content      string `json:"content"`
}

// summaryResponse is the subset of /page/summary used here.
type summaryResponse struct {
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ContentURLs *struct {
		Desktop *struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// sectionsResponse is the subset of action=parse&prop=sections used here.
type sectionsResponse struct {
	Parse *struct {
		Title    string         `json:"title"`
		Sections []outlineEntry `json:"sections"`
	} `json:"parse"`
}
