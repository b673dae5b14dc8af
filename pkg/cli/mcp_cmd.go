package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ajayindfw/WikipediaMcpServer-sub001/pkg/mcp"
)

func newMCPCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server in stdio mode for AI assistants",
		Long: `Start the Model Context Protocol (MCP) server in stdio mode.

This is used by AI assistants (Claude Desktop, Cursor, etc.) that launch
wikimcp as a subprocess and exchange newline-delimited JSON-RPC over
stdin/stdout. Logs are written to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			// stdout belongs to the protocol.
			log, closer, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = closer.Close() }()

			stdio := mcp.NewStdioServer(newMCPServer(cfg, log, newGateway(cfg, log)))
			stdio.SetLogger(log)
			stdio.SetIO(cmd.InOrStdin(), cmd.OutOrStdout())

			ctx, stop := signal.NotifyContext(contextOrBackground(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return stdio.Run(ctx)
		},
	}
}
