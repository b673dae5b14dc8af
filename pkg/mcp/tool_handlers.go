package mcp

import "context"

func handleSearch(ctx context.Context, args map[string]interface{}, session *MCPSession, server *Server) (*ToolResult, error) {
	query := getString(args, "query", "")
	res := server.gateway.Search(ctx, query)
	server.logToolCall(ctx, session, ToolSearch, res != nil, "query", query)
	return ToolResultText(FormatSearch(query, res)), nil
}

func handleSections(ctx context.Context, args map[string]interface{}, session *MCPSession, server *Server) (*ToolResult, error) {
	topic := getString(args, "topic", "")
	out := server.gateway.GetSections(ctx, topic)
	server.logToolCall(ctx, session, ToolSections, out != nil, "topic", topic)
	return ToolResultText(FormatSections(topic, out)), nil
}

// handleSectionContent accepts sectionTitle as an alias; section_title wins
// when both are non-empty.
func handleSectionContent(ctx context.Context, args map[string]interface{}, session *MCPSession, server *Server) (*ToolResult, error) {
	topic := getString(args, "topic", "")
	sectionTitle := getStringAlias(args, "section_title", "sectionTitle")
	sc := server.gateway.GetSectionContent(ctx, topic, sectionTitle)
	server.logToolCall(ctx, session, ToolSectionContent, sc != nil, "topic", topic, "section", sectionTitle)
	return ToolResultText(FormatSectionContent(topic, sectionTitle, sc)), nil
}
