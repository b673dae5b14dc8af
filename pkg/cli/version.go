package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ajayindfw/WikipediaMcpServer-sub001/pkg/cli/internal/output"
	"github.com/ajayindfw/WikipediaMcpServer-sub001/pkg/mcp"
)

// versionInfo is the JSON shape of "wikimcp version --json".
type versionInfo struct {
	Version         string `json:"version"`
	Commit          string `json:"commit"`
	BuildDate       string `json:"buildDate"`
	GoVersion       string `json:"goVersion"`
	Platform        string `json:"platform"`
	ProtocolVersion string `json:"protocolVersion"`
}

func newVersionCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := versionInfo{
				Version:         Version,
				Commit:          Commit,
				BuildDate:       BuildDate,
				GoVersion:       runtime.Version(),
				Platform:        runtime.GOOS + "/" + runtime.GOARCH,
				ProtocolVersion: mcp.ProtocolVersion,
			}
			w := cmd.OutOrStdout()
			if jsonOutput {
				return output.JSON(w, info)
			}
			fmt.Fprintf(w, "wikimcp %s\n", info.Version)
			fmt.Fprintf(w, "  commit:   %s\n", info.Commit)
			fmt.Fprintf(w, "  built:    %s\n", info.BuildDate)
			fmt.Fprintf(w, "  go:       %s\n", info.GoVersion)
			fmt.Fprintf(w, "  platform: %s\n", info.Platform)
			fmt.Fprintf(w, "  mcp:      %s\n", info.ProtocolVersion)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	return cmd
}
