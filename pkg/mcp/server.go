package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ajayindfw/WikipediaMcpServer-sub001/pkg/httputil"
	"github.com/ajayindfw/WikipediaMcpServer-sub001/pkg/logging"
	"github.com/ajayindfw/WikipediaMcpServer-sub001/pkg/wikipedia"
)

// ServerName is reported in initialize results.
const ServerName = "wikimcp"

// DefaultServerVersion is reported until SetVersion is called.
const DefaultServerVersion = "0.1.0"

// maxRequestBytes caps a JSON-RPC POST body.
const maxRequestBytes = 10 << 20

// shutdownTimeout bounds graceful shutdown of the HTTP server.
const shutdownTimeout = 5 * time.Second

const serverInstructions = "Use wikipedia_search to find an article, wikipedia_sections to list its sections, " +
	"and wikipedia_section_content to read one section."

// Gateway is the Wikipedia lookup surface the tools call. A nil result means
// nothing could be found.
type Gateway interface {
	Search(ctx context.Context, query string) *wikipedia.SearchResult
	GetSections(ctx context.Context, topic string) *wikipedia.SectionOutline
	GetSectionContent(ctx context.Context, topic, sectionTitle string) *wikipedia.SectionContent
}

// Server is the MCP protocol server.
type Server struct {
	config   *Config
	gateway  Gateway
	sessions *SessionManager
	tools    *ToolRegistry
	version  string
	mu       sync.RWMutex
	log      *slog.Logger
}

// NewServer creates a new MCP server backed by gateway.
func NewServer(cfg *Config, gateway Gateway) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	s := &Server{
		config:   cfg,
		gateway:  gateway,
		sessions: NewSessionManager(cfg),
		version:  DefaultServerVersion,
		log:      logging.Nop(),
	}
	s.tools = NewToolRegistry(s)
	return s
}

// ListenAndServe listens on the configured address and serves until ctx is
// cancelled. extra, when non-nil, handles every path other than the MCP path.
func (s *Server) ListenAndServe(ctx context.Context, extra http.Handler) error {
	if err := s.config.Validate(); err != nil {
		return fmt.Errorf("invalid MCP config: %w", err)
	}

	ln, err := net.Listen("tcp", s.config.Address())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.config.Address(), err)
	}
	return s.Serve(ctx, ln, extra)
}

// Serve serves HTTP on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener, extra http.Handler) error {
	httpServer := &http.Server{
		Handler:      s.routes(extra),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	stopCh := make(chan struct{})
	defer close(stopCh)
	s.sessions.StartCleanupRoutine(time.Minute, stopCh)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(ln)
	}()

	s.logger().Info("MCP server listening",
		"addr", ln.Addr().String(),
		"path", s.config.Path,
		"version", s.Version(),
		"protocol", ProtocolVersion,
	)

	select {
	case err := <-errCh:
		s.sessions.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	// Close sessions first so open SSE streams return.
	s.sessions.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("MCP server shutdown: %w", err)
	}
	s.logger().Info("MCP server stopped")
	return nil
}

// Handler returns the HTTP handler for the MCP endpoint alone.
// This is useful for testing without starting the HTTP server.
func (s *Server) Handler() http.Handler {
	return s.routes(nil)
}

func (s *Server) routes(extra http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.config.Path, s.handleMCP)
	if extra != nil {
		mux.Handle("/", extra)
	}
	return httputil.LogRequests(s.withMiddleware(mux), s.logger())
}

// withMiddleware wraps the handler with CORS and origin validation.
func (s *Server) withMiddleware(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.config.AllowRemote && !isLocalhost(r.RemoteAddr) {
			http.Error(w, "Remote access not allowed", http.StatusForbidden)
			return
		}

		origin := r.Header.Get(HeaderOrigin)
		if origin != "" && !s.isOriginAllowed(origin) {
			http.Error(w, "Origin not allowed", http.StatusForbidden)
			return
		}

		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Mcp-Session-Id, MCP-Protocol-Version, Last-Event-ID, X-Request-Id")
		w.Header().Set("Access-Control-Expose-Headers", "Mcp-Session-Id, X-Request-Id")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		handler.ServeHTTP(w, r)
	})
}

// isLocalhost checks if the remote address is a loopback address.
func isLocalhost(remoteAddr string) bool {
	// Empty address comes from in-process callers.
	if remoteAddr == "" {
		return true
	}

	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.Trim(host, "[]")

	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// isOriginAllowed checks if the origin is in the allowed list.
func (s *Server) isOriginAllowed(origin string) bool {
	for _, allowed := range s.config.AllowedOrigins {
		if allowed == "*" || matchOrigin(origin, allowed) {
			return true
		}
	}
	return false
}

// matchOrigin matches an origin against a pattern. A trailing ":*" matches any port.
func matchOrigin(origin, pattern string) bool {
	if origin == pattern {
		return true
	}

	if !strings.HasSuffix(pattern, ":*") {
		return false
	}
	prefix := strings.TrimSuffix(pattern, "*")
	if !strings.HasPrefix(origin, prefix) {
		return false
	}
	rest := origin[len(prefix):]
	for _, c := range rest {
		if c < '0' || c > '9' {
			return false
		}
	}
	return rest != ""
}

// handleMCP is the main handler for MCP requests.
func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleSSE(w, r)
	case http.MethodPost:
		s.handleJSONRPC(w, r)
	case http.MethodDelete:
		s.handleSessionDelete(w, r)
	default:
		w.Header().Set("Allow", "GET, POST, DELETE")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleJSONRPC handles JSON-RPC POST requests.
func (s *Server) handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, parseErr := ParseRequest(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if parseErr != nil {
		s.writeError(w, nil, parseErr)
		return
	}

	sessionID := r.Header.Get(HeaderSessionID)
	var session *MCPSession

	switch {
	case req.Method == "initialize":
		var err error
		session, err = s.sessions.Create()
		if err != nil {
			s.writeError(w, req.ID, InternalError(err))
			return
		}
		w.Header().Set(HeaderSessionID, session.ID)
	case sessionID == "":
		session = NewStatelessSession()
	default:
		session = s.sessions.Get(sessionID)
		if session == nil {
			s.writeError(w, req.ID, SessionExpiredError(sessionID))
			return
		}
		session.Touch()
	}

	result, rpcErr := s.dispatch(ctx, session, req)
	if rpcErr != nil && req.Method == "initialize" {
		s.sessions.Delete(session.ID)
		w.Header().Del(HeaderSessionID)
	}

	if req.IsNotification() {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	if rpcErr != nil {
		s.writeError(w, req.ID, rpcErr)
		return
	}

	s.writeSuccess(w, req.ID, result)
}

// dispatch routes the request to the appropriate handler.
func (s *Server) dispatch(ctx context.Context, session *MCPSession, req *JSONRPCRequest) (interface{}, *JSONRPCError) {
	switch req.Method {
	// Lifecycle methods
	case "initialize":
		return s.handleInitialize(session, req.Params)
	case "notifications/initialized", "initialized":
		return s.handleInitialized(session)
	case "ping":
		return s.handlePing()

	// Tool methods
	case "tools/list":
		return s.handleToolsList(session)
	case "tools/call":
		return s.handleToolsCall(ctx, session, req.Params)

	default:
		return nil, MethodNotFoundError(req.Method)
	}
}

// handleInitialize handles the initialize request.
func (s *Server) handleInitialize(session *MCPSession, params json.RawMessage) (interface{}, *JSONRPCError) {
	initParams, err := UnmarshalParams[InitializeParams](params)
	if err != nil {
		return nil, err
	}

	version := NegotiateProtocolVersion(initParams.ProtocolVersion)
	session.SetClientData(version, initParams.ClientInfo, initParams.Capabilities)
	session.SetState(SessionStateInitialized)

	s.logger().Debug("session initialized",
		"session", session.ID,
		"client", initParams.ClientInfo.Name,
		"requestedVersion", initParams.ProtocolVersion,
		"protocol", version,
	)

	return &InitializeResult{
		ProtocolVersion: version,
		Capabilities: ServerCapabilities{
			Tools:   &ToolsCapability{ListChanged: false},
			Logging: &LoggingCapability{},
		},
		ServerInfo: ServerInfo{
			Name:    ServerName,
			Version: s.Version(),
		},
		Instructions: serverInstructions,
	}, nil
}

// handleInitialized handles the initialized notification.
func (s *Server) handleInitialized(session *MCPSession) (interface{}, *JSONRPCError) {
	if session.GetState() == SessionStateNew {
		return nil, NotInitializedError()
	}
	session.SetState(SessionStateReady)
	return nil, nil
}

// handlePing handles the ping request.
func (s *Server) handlePing() (interface{}, *JSONRPCError) {
	return map[string]interface{}{}, nil
}

// requireInitialized rejects sessions that never completed initialize.
func requireInitialized(session *MCPSession) *JSONRPCError {
	switch session.GetState() {
	case SessionStateInitialized, SessionStateReady:
		return nil
	}
	return NotInitializedError()
}

// handleToolsList returns the list of available tools.
func (s *Server) handleToolsList(session *MCPSession) (interface{}, *JSONRPCError) {
	if err := requireInitialized(session); err != nil {
		return nil, err
	}
	return &ToolsListResult{Tools: s.tools.List()}, nil
}

// handleToolsCall executes a tool. Tool failures are returned in the result,
// not as JSON-RPC errors.
func (s *Server) handleToolsCall(ctx context.Context, session *MCPSession, params json.RawMessage) (interface{}, *JSONRPCError) {
	if err := requireInitialized(session); err != nil {
		return nil, err
	}

	callParams, err := UnmarshalParamsRequired[ToolCallParams](params)
	if err != nil {
		return nil, err
	}
	if callParams.Name == "" {
		return nil, InvalidParamsError("name is required")
	}

	result, toolErr := s.tools.Execute(ctx, callParams.Name, callParams.Arguments, session)
	if toolErr != nil {
		s.logger().Error("tool failed", "tool", callParams.Name, "error", toolErr)
		return ToolResultError(toolErr.Error()), nil
	}
	return result, nil
}

// handleSSE streams server notifications for a session, with keepalive comments.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(HeaderSessionID)
	if sessionID == "" {
		http.Error(w, "Session required", http.StatusBadRequest)
		return
	}

	session := s.sessions.Get(sessionID)
	if session == nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}
	defer sse.Close()
	sse.WriteHeaders()

	interval := s.config.KeepaliveInterval
	if interval <= 0 {
		interval = DefaultConfig().KeepaliveInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			if err := sse.WriteKeepalive(); err != nil {
				return
			}
			session.Touch()

		case notif, ok := <-session.EventChannel:
			if !ok {
				return
			}
			data, err := json.Marshal(notif)
			if err != nil {
				s.logger().Error("failed to marshal notification", "error", err)
				continue
			}
			if err := sse.WriteEvent(&SSEEvent{Event: "message", Data: string(data)}); err != nil {
				return
			}
			session.Touch()
		}
	}
}

// handleSessionDelete handles session termination.
func (s *Server) handleSessionDelete(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(HeaderSessionID)
	if sessionID == "" {
		http.Error(w, "Session required", http.StatusBadRequest)
		return
	}

	if !s.sessions.Delete(sessionID) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeError writes a JSON-RPC error response. JSON-RPC errors use 200 OK.
func (s *Server) writeError(w http.ResponseWriter, id interface{}, err *JSONRPCError) {
	httputil.WriteJSON(w, http.StatusOK, ErrorResponse(id, err))
}

// writeSuccess writes a JSON-RPC success response.
func (s *Server) writeSuccess(w http.ResponseWriter, id interface{}, result interface{}) {
	httputil.WriteJSON(w, http.StatusOK, SuccessResponse(id, result))
}

// logToolCall records the outcome of a tool invocation and mirrors it to
// the session's SSE stream as a notifications/message event.
func (s *Server) logToolCall(ctx context.Context, session *MCPSession, tool string, found bool, attrs ...any) {
	attrs = append(attrs, "tool", tool, "found", found)
	if id := httputil.RequestIDFromContext(ctx); id != "" {
		attrs = append(attrs, "requestId", id)
	}
	s.logger().Info("tool call", attrs...)

	if session == nil || session.IsStateless() {
		return
	}
	// Dropped once the queue is full.
	session.SendNotification(NewNotification(MethodLogMessage, LogMessageParams{
		Level:  "info",
		Logger: ServerName,
		Data:   map[string]interface{}{"tool": tool, "found": found},
	}))
}

// Gateway returns the Wikipedia gateway the tools call.
func (s *Server) Gateway() Gateway {
	return s.gateway
}

// Tools returns the tool registry.
func (s *Server) Tools() *ToolRegistry {
	return s.tools
}

// Sessions returns the session manager.
func (s *Server) Sessions() *SessionManager {
	return s.sessions
}

// SetVersion sets the version reported in initialize results.
func (s *Server) SetVersion(version string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if version != "" {
		s.version = version
	}
}

// Version returns the version reported in initialize results.
func (s *Server) Version() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// SetLogger sets the operational logger for the server.
func (s *Server) SetLogger(log *slog.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if log != nil {
		s.log = log
	} else {
		s.log = logging.Nop()
	}
}

func (s *Server) logger() *slog.Logger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.log
}
