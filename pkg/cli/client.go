package cli

import (
	"io"
	"log/slog"
	"time"

	"github.com/ajayindfw/WikipediaMcpServer-sub001/pkg/config"
	"github.com/ajayindfw/WikipediaMcpServer-sub001/pkg/logging"
	"github.com/ajayindfw/WikipediaMcpServer-sub001/pkg/mcp"
	"github.com/ajayindfw/WikipediaMcpServer-sub001/pkg/wikipedia"
)

// newLogger opens the logger described by cfg. Records go to w and, when
// logFile is set, to that file as well.
func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, io.Closer, error) {
	lc := logging.DefaultConfig()
	lc.Level = logging.ParseLevel(cfg.LogLevel)
	lc.Format = logging.ParseFormat(cfg.LogFormat)
	lc.File = cfg.LogFile
	if w != nil {
		lc.Output = w
	}
	return logging.Open(lc)
}

// newGateway creates the Wikipedia client for cfg.
func newGateway(cfg *config.Config, log *slog.Logger) *wikipedia.Client {
	return wikipedia.NewClient(
		wikipedia.WithTimeout(cfg.UpstreamTimeout()),
		wikipedia.WithRESTBaseURL(cfg.RESTBaseURL),
		wikipedia.WithActionAPIURL(cfg.ActionAPIURL),
		wikipedia.WithPageBaseURL(cfg.PageBaseURL),
		wikipedia.WithUserAgent(cfg.UserAgent),
		wikipedia.WithLogger(log),
	)
}

// mcpConfig converts the resolved configuration to the MCP server's.
func mcpConfig(cfg *config.Config) *mcp.Config {
	out := mcp.DefaultConfig()
	out.Port = cfg.Port
	out.Path = cfg.Path
	out.AllowRemote = cfg.AllowRemote
	if len(cfg.AllowedOrigins) > 0 {
		out.AllowedOrigins = cfg.AllowedOrigins
	}
	out.SessionTimeout = cfg.SessionTTL()
	out.MaxSessions = cfg.MaxSessions
	out.ReadTimeout = time.Duration(cfg.ReadTimeout) * time.Second
	out.WriteTimeout = time.Duration(cfg.WriteTimeout) * time.Second
	return out
}

// newMCPServer wires gw into an MCP server.
func newMCPServer(cfg *config.Config, log *slog.Logger, gw mcp.Gateway) *mcp.Server {
	srv := mcp.NewServer(mcpConfig(cfg), gw)
	srv.SetVersion(Version)
	srv.SetLogger(log)
	return srv
}
