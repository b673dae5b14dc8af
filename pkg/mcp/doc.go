// Package mcp implements the Model Context Protocol (MCP) server for wikimcp.
//
// MCP lets AI agents discover and call tools over a JSON-RPC 2.0 based
// protocol. wikimcp exposes three read-only Wikipedia tools:
//
//   - wikipedia_search: summary of the article whose title matches a query
//   - wikipedia_sections: table of contents of an article
//   - wikipedia_section_content: plain text of one section of an article
//
// Tool lookups never fail the JSON-RPC call. A missing article renders as an
// ordinary text result; only malformed arguments produce a tool error result.
//
// # Protocol Version
//
// The server advertises MCP protocol version 2025-06-18 and echoes any other
// version listed in SupportedProtocolVersions.
//
// # Transports
//
// HTTP (primary): wikimcp serve. Streamable HTTP on :8090/mcp. POST carries
// JSON-RPC, GET opens an SSE stream for a session, DELETE ends a session.
// Requests without an Mcp-Session-Id header are served statelessly.
//
// Stdio: wikimcp mcp. Newline-delimited JSON-RPC over stdin/stdout.
//
// # Security
//
// By default, the HTTP transport only accepts connections from localhost.
package mcp
