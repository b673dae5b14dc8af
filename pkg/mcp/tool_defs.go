package mcp

// Tool names.
const (
	ToolSearch         = "wikipedia_search"
	ToolSections       = "wikipedia_sections"
	ToolSectionContent = "wikipedia_section_content"
)

// allToolDefinitions returns all tool definitions in display order.
func allToolDefinitions() []ToolDefinition {
	return []ToolDefinition{
		defSearch,
		defSections,
		defSectionContent,
	}
}

var defSearch = ToolDefinition{
	Name:        ToolSearch,
	Description: "Search Wikipedia for an article by title. Returns the article title, a short summary, and its URL. The query must match an article title (redirects are followed by Wikipedia).",
	InputSchema: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "Article title to look up (e.g., \"Python (programming language)\")",
			},
		},
		"required": []string{"query"},
	},
}

var defSections = ToolDefinition{
	Name:        ToolSections,
	Description: "List the sections of a Wikipedia article as an indented table of contents. Use this before wikipedia_section_content to find the exact section title.",
	InputSchema: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"topic": map[string]interface{}{
				"type":        "string",
				"description": "Article title",
			},
		},
		"required": []string{"topic"},
	},
}

var defSectionContent = ToolDefinition{
	Name:        ToolSectionContent,
	Description: "Get the plain-text content of one section of a Wikipedia article. The section title is matched case-insensitively against the article's section headings. Long sections are truncated.",
	InputSchema: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"topic": map[string]interface{}{
				"type":        "string",
				"description": "Article title",
			},
			"section_title": map[string]interface{}{
				"type":        "string",
				"description": "Section heading as listed by wikipedia_sections (e.g., \"History\")",
			},
			"sectionTitle": map[string]interface{}{
				"type":        "string",
				"description": "Alias of section_title",
			},
		},
		"required": []string{"topic", "section_title"},
	},
}
