package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/ajayindfw/WikipediaMcpServer-sub001/pkg/logging"
)

// maxStdioLine caps a single newline-delimited message.
const maxStdioLine = 10 << 20

// StdioServer runs the MCP protocol over stdin/stdout (newline-delimited JSON-RPC).
//
// Usage in an MCP client config:
//
//	{
//	  "mcpServers": {
//	    "wikipedia": {
//	      "command": "wikimcp",
//	      "args": ["mcp"]
//	    }
//	  }
//	}
type StdioServer struct {
	server  *Server
	session *MCPSession
	reader  io.Reader
	writer  io.Writer
	log     *slog.Logger
	mu      sync.Mutex
}

// NewStdioServer creates a new stdio MCP server.
// The server parameter provides the dispatch logic and tools.
func NewStdioServer(server *Server) *StdioServer {
	return &StdioServer{
		server: server,
		reader: os.Stdin,
		writer: os.Stdout,
		log:    logging.Nop(),
	}
}

// SetLogger sets the logger. It must not write to stdout.
func (s *StdioServer) SetLogger(log *slog.Logger) {
	if log != nil {
		s.log = log
	}
}

// SetIO overrides the default stdin/stdout.
func (s *StdioServer) SetIO(reader io.Reader, writer io.Writer) {
	s.reader = reader
	s.writer = writer
}

// Run reads requests until EOF or until ctx is cancelled.
func (s *StdioServer) Run(ctx context.Context) error {
	s.log.Info("MCP stdio server starting",
		"version", s.server.Version(),
		"protocol", ProtocolVersion,
	)

	lines := make(chan []byte)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.reader)
		scanner.Buffer(make([]byte, 0, 64*1024), maxStdioLine)
		for scanner.Scan() {
			line := append([]byte(nil), scanner.Bytes()...)
			select {
			case lines <- line:
			case <-ctx.Done():
				scanErr <- nil
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("MCP stdio server stopped", "reason", ctx.Err())
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-scanErr; err != nil {
					return fmt.Errorf("stdin read error: %w", err)
				}
				s.log.Info("MCP stdio server stopped (EOF)")
				return nil
			}
			if len(line) == 0 {
				continue
			}
			s.log.Debug("received", "message", string(line))
			resp := s.handleMessage(ctx, line)
			s.flushNotifications()
			if resp != nil {
				s.writeMessage(resp)
			}
		}
	}
}

// handleMessage processes a single JSON-RPC message and returns the response.
// Returns nil for notifications.
func (s *StdioServer) handleMessage(ctx context.Context, data []byte) *JSONRPCResponse {
	req, parseErr := ParseRequestBytes(data)
	if parseErr != nil {
		return ErrorResponse(nil, parseErr)
	}

	session := s.session
	switch {
	case req.Method == "initialize":
		session = NewSession()
	case session == nil && req.Method != "ping":
		if req.IsNotification() {
			return nil
		}
		return ErrorResponse(req.ID, NotInitializedError())
	case session == nil:
		session = NewStatelessSession()
	}

	session.Touch()
	result, rpcErr := s.server.dispatch(ctx, session, req)
	if req.Method == "initialize" && rpcErr == nil {
		s.session = session
	}

	if req.IsNotification() {
		return nil
	}
	if rpcErr != nil {
		return ErrorResponse(req.ID, rpcErr)
	}
	return SuccessResponse(req.ID, result)
}

// flushNotifications writes every notification queued on the session, such
// as tool-call log messages, ahead of the response that produced them.
func (s *StdioServer) flushNotifications() {
	if s.session == nil || s.session.EventChannel == nil {
		return
	}
	for {
		select {
		case notif, ok := <-s.session.EventChannel:
			if !ok {
				return
			}
			s.writeMessage(notif)
		default:
			return
		}
	}
}

// writeMessage writes a JSON-RPC message as a single line.
func (s *StdioServer) writeMessage(msg interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		s.log.Error("failed to marshal message", "error", err)
		return
	}

	s.log.Debug("sending", "message", string(data))

	data = append(data, '\n')
	if _, err := s.writer.Write(data); err != nil {
		s.log.Error("failed to write message", "error", err)
	}
}
