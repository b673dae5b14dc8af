// Package cli implements the wikimcp command line: the HTTP and stdio MCP
// servers plus one-shot lookup commands that print exactly what the matching
// MCP tool would return.
package cli
