package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ajayindfw/WikipediaMcpServer-sub001/pkg/api"
	"github.com/ajayindfw/WikipediaMcpServer-sub001/pkg/cli/internal/output"
	"github.com/ajayindfw/WikipediaMcpServer-sub001/pkg/config"
	"github.com/ajayindfw/WikipediaMcpServer-sub001/pkg/mcp"
	"github.com/ajayindfw/WikipediaMcpServer-sub001/pkg/wikipedia"
)

// serveFlags holds the flags bound to the serve command.
type serveFlags struct {
	port        int
	path        string
	allowRemote bool
}

func newServeCmd(root *rootOptions) *cobra.Command {
	f := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over streamable HTTP (foreground)",
		Long: `Start the MCP server over streamable HTTP.

POST to the MCP path carries JSON-RPC requests, GET opens an SSE stream for
an initialized session, and DELETE ends a session. The same listener also
serves GET /health and a small REST API under /api/wikipedia/.`,
		Example: `  # Start with defaults (127.0.0.1:8090/mcp)
  wikimcp serve

  # Listen on all interfaces with a custom port
  wikimcp serve --port 9000 --allow-remote

  # Structured logs
  wikimcp serve --log-format json --log-level debug`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}
			applyServeFlags(cmd, f, cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			log, closer, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = closer.Close() }()

			if cfg.AllowRemote {
				output.Warn(cmd.ErrOrStderr(), "listening on all interfaces; the MCP endpoint has no authentication")
			}

			stack := newServeStack(cfg, log)

			ctx, stop := signal.NotifyContext(contextOrBackground(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := stack.server.ListenAndServe(ctx, stack.rest.Handler()); err != nil {
				return err
			}
			log.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().IntVarP(&f.port, "port", "p", config.DefaultPort, "HTTP server port")
	cmd.Flags().StringVar(&f.path, "path", config.DefaultPath, "MCP endpoint path")
	cmd.Flags().BoolVar(&f.allowRemote, "allow-remote", false, "Accept connections from non-localhost addresses")
	return cmd
}

// serveStack is everything served on the serve listener. The MCP tools and
// the REST API share one gateway and with it one HTTP client.
type serveStack struct {
	gateway *wikipedia.Client
	server  *mcp.Server
	rest    *api.API
}

func newServeStack(cfg *config.Config, log *slog.Logger) *serveStack {
	gw := newGateway(cfg, log)
	return &serveStack{
		gateway: gw,
		server:  newMCPServer(cfg, log, gw),
		rest: api.New(gw,
			api.WithVersion(Version),
			api.WithLogger(log),
		),
	}
}

// applyServeFlags copies explicitly set flags over cfg.
func applyServeFlags(cmd *cobra.Command, f *serveFlags, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port = f.port
		cfg.Sources["port"] = config.SourceFlag
	}
	if flags.Changed("path") {
		cfg.Path = f.path
		cfg.Sources["path"] = config.SourceFlag
	}
	if flags.Changed("allow-remote") {
		cfg.AllowRemote = f.allowRemote
		cfg.Sources["allowRemote"] = config.SourceFlag
	}
}

// contextOrBackground returns the command context, or Background when the
// command was executed without one.
func contextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
