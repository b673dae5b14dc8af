package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ToolHandler is the signature for tool execution functions.
type ToolHandler func(ctx context.Context, args map[string]interface{}, session *MCPSession, server *Server) (*ToolResult, error)

// Tool represents a registered MCP tool.
type Tool struct {
	Definition ToolDefinition
	Handler    ToolHandler

	// schema validates argument types. Nil skips validation.
	schema *jsonschema.Schema
}

// ToolRegistry manages all registered MCP tools.
// Tools are stored in a slice to preserve registration order for tools/list.
type ToolRegistry struct {
	tools  []*Tool
	byName map[string]*Tool
	server *Server
}

// NewToolRegistry creates a new tool registry and registers all built-in tools.
func NewToolRegistry(server *Server) *ToolRegistry {
	r := &ToolRegistry{
		tools:  make([]*Tool, 0, 3),
		byName: make(map[string]*Tool, 3),
		server: server,
	}

	r.registerBuiltinTools()
	return r
}

// registerBuiltinTools registers the tools from tool_defs.go with their handlers.
func (r *ToolRegistry) registerBuiltinTools() {
	handlers := map[string]ToolHandler{
		ToolSearch:         handleSearch,
		ToolSections:       handleSections,
		ToolSectionContent: handleSectionContent,
	}

	// Register in definition order so tools/list is stable.
	for _, def := range allToolDefinitions() {
		handler, ok := handlers[def.Name]
		if !ok {
			continue
		}
		schema, err := compileArgumentSchema(def)
		if err != nil {
			// The definitions are static; a bad schema is a programming error.
			panic(fmt.Sprintf("mcp: tool %s: %v", def.Name, err))
		}
		r.Register(&Tool{
			Definition: def,
			Handler:    handler,
			schema:     schema,
		})
	}
}

// compileArgumentSchema compiles a tool's input schema with "required"
// removed. Missing arguments are treated as blank input by the handlers.
func compileArgumentSchema(def ToolDefinition) (*jsonschema.Schema, error) {
	relaxed := make(map[string]interface{}, len(def.InputSchema))
	for k, v := range def.InputSchema {
		if k == "required" {
			continue
		}
		relaxed[k] = v
	}

	data, err := json.Marshal(relaxed)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	url := def.Name + ".json"
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(url, strings.NewReader(string(data))); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	return compiler.Compile(url)
}

// Register adds a tool to the registry.
func (r *ToolRegistry) Register(tool *Tool) {
	r.tools = append(r.tools, tool)
	r.byName[tool.Definition.Name] = tool
}

// Get retrieves a tool by name.
func (r *ToolRegistry) Get(name string) *Tool {
	return r.byName[name]
}

// List returns all tool definitions in registration order.
func (r *ToolRegistry) List() []ToolDefinition {
	defs := make([]ToolDefinition, 0, len(r.tools))
	for _, tool := range r.tools {
		defs = append(defs, tool.Definition)
	}
	return defs
}

// Execute validates the arguments and runs a tool by name. Unknown tools and
// argument type errors come back as error results, not Go errors.
func (r *ToolRegistry) Execute(ctx context.Context, name string, args map[string]interface{}, session *MCPSession) (*ToolResult, error) {
	tool := r.byName[name]
	if tool == nil {
		return ToolResultError("tool not found: " + name), nil
	}
	args = dropNullArguments(args)
	if tool.schema != nil {
		if err := tool.schema.Validate(args); err != nil {
			return ToolResultErrorf("invalid arguments for %s: %s", name, schemaErrorMessage(err)), nil
		}
	}
	return tool.Handler(ctx, args, session, r.server)
}

// dropNullArguments returns args without null-valued keys, so a null
// argument reads the same as a missing one.
func dropNullArguments(args map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(args))
	for k, v := range args {
		if v != nil {
			out[k] = v
		}
	}
	return out
}

// schemaErrorMessage returns the first leaf message of a validation error.
func schemaErrorMessage(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	field := strings.TrimPrefix(ve.InstanceLocation, "/")
	if field == "" {
		return ve.Message
	}
	return field + ": " + ve.Message
}

// =============================================================================
// Argument extraction helpers
// =============================================================================

func getString(args map[string]interface{}, key, defaultVal string) string {
	if v, ok := args[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return defaultVal
}

// getStringAlias returns the first of keys holding a non-empty string.
func getStringAlias(args map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s := getString(args, key, ""); s != "" {
			return s
		}
	}
	return ""
}
