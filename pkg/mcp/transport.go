package mcp

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
)

// HTTP headers used by MCP protocol.
const (
	HeaderSessionID       = "Mcp-Session-Id"
	HeaderProtocolVersion = "MCP-Protocol-Version"
	HeaderLastEventID     = "Last-Event-ID"
	HeaderContentType     = "Content-Type"
	HeaderOrigin          = "Origin"
	HeaderRequestID       = "X-Request-Id"
)

// Content types.
const (
	ContentTypeJSON        = "application/json"
	ContentTypeEventStream = "text/event-stream"
)

var errWriterClosed = errors.New("writer is closed")

// SSEWriter handles writing Server-Sent Events.
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	eventID int64
	closed  bool
	mu      sync.Mutex
}

// NewSSEWriter creates a new SSE writer.
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errors.New("response writer does not support flushing")
	}

	return &SSEWriter{
		w:       w,
		flusher: flusher,
	}, nil
}

// WriteHeaders sets the necessary headers for SSE and flushes them.
func (s *SSEWriter) WriteHeaders() {
	s.w.Header().Set(HeaderContentType, ContentTypeEventStream)
	s.w.Header().Set("Cache-Control", "no-cache")
	s.w.Header().Set("Connection", "keep-alive")
	s.w.Header().Set("X-Accel-Buffering", "no")
	s.w.WriteHeader(http.StatusOK)
	s.flusher.Flush()
}

// WriteEvent writes an SSE event. Events without an ID get the next sequence number.
func (s *SSEWriter) WriteEvent(event *SSEEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errWriterClosed
	}

	var sb strings.Builder

	id := event.ID
	if id == "" {
		s.eventID++
		id = strconv.FormatInt(s.eventID, 10)
	}
	sb.WriteString("id: " + id + "\n")

	if event.Event != "" {
		sb.WriteString("event: " + event.Event + "\n")
	}

	if event.Retry > 0 {
		sb.WriteString("retry: " + strconv.Itoa(event.Retry) + "\n")
	}

	for _, line := range strings.Split(event.Data, "\n") {
		sb.WriteString("data: " + line + "\n")
	}
	sb.WriteByte('\n')

	if _, err := s.w.Write([]byte(sb.String())); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteComment writes an SSE comment.
func (s *SSEWriter) WriteComment(comment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errWriterClosed
	}
	if _, err := fmt.Fprintf(s.w, ": %s\n\n", comment); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteKeepalive writes a keepalive comment.
func (s *SSEWriter) WriteKeepalive() error {
	return s.WriteComment("keepalive")
}

// Close marks the writer as closed.
func (s *SSEWriter) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
