package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ajayindfw/WikipediaMcpServer-sub001/pkg/cli/internal/output"
	"github.com/ajayindfw/WikipediaMcpServer-sub001/pkg/mcp"
)

func newToolsCmd(_ *rootOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the MCP tools this server exposes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tools := mcp.NewServer(mcp.DefaultConfig(), nil).Tools().List()
			w := cmd.OutOrStdout()

			if jsonOutput {
				return output.JSON(w, mcp.ToolsListResult{Tools: tools})
			}

			tw := output.Table(w)
			fmt.Fprintln(tw, "NAME\tARGUMENTS\tDESCRIPTION")
			for _, t := range tools {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Name, schemaArguments(t.InputSchema), t.Description)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output tool definitions as JSON")
	return cmd
}

// schemaArguments lists the property names of an object schema: required
// keys in declared order, then the optional ones sorted.
func schemaArguments(schema map[string]interface{}) string {
	props, _ := schema["properties"].(map[string]interface{})
	required, _ := schema["required"].([]string)

	names := make([]string, 0, len(props))
	seen := make(map[string]bool, len(props))
	for _, name := range required {
		if _, ok := props[name]; ok && !seen[name] {
			names = append(names, name)
			seen[name] = true
		}
	}
	optional := make([]string, 0, len(props))
	for name := range props {
		if !seen[name] {
			optional = append(optional, name)
		}
	}
	sort.Strings(optional)
	return strings.Join(append(names, optional...), ",")
}
