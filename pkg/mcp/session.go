package mcp

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MCPSession represents a single client session.
type MCPSession struct {
	// ID is the unique session identifier. Stateless sessions have none.
	ID string

	// ProtocolVersion is the negotiated protocol version.
	ProtocolVersion string

	// ClientInfo contains information about the connected client.
	ClientInfo ClientInfo

	// Capabilities are the client-declared capabilities.
	Capabilities ClientCapabilities

	// State is the current session lifecycle state.
	State SessionState

	// EventChannel is the outbound event channel for SSE notifications.
	EventChannel chan *JSONRPCNotification

	// CreatedAt is when the session was created.
	CreatedAt time.Time

	// LastActiveAt is the timestamp of the last request.
	LastActiveAt time.Time

	closed bool
	mu     sync.RWMutex
}

// NewSession creates a new session with a generated ID.
func NewSession() *MCPSession {
	now := time.Now()
	return &MCPSession{
		ID:           uuid.NewString(),
		State:        SessionStateNew,
		EventChannel: make(chan *JSONRPCNotification, 100),
		CreatedAt:    now,
		LastActiveAt: now,
	}
}

// NewStatelessSession creates an unregistered, ready session used to serve
// a single request that carries no session header.
func NewStatelessSession() *MCPSession {
	now := time.Now()
	return &MCPSession{
		ProtocolVersion: ProtocolVersion,
		State:           SessionStateReady,
		CreatedAt:       now,
		LastActiveAt:    now,
	}
}

// IsStateless reports whether the session is an unregistered per-request session.
func (s *MCPSession) IsStateless() bool {
	return s.ID == ""
}

// Touch updates the last active timestamp.
func (s *MCPSession) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastActiveAt = time.Now()
}

// IsExpired checks if the session has been idle longer than timeout.
func (s *MCPSession) IsExpired(timeout time.Duration) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Since(s.LastActiveAt) > timeout
}

// SetState updates the session state.
func (s *MCPSession) SetState(state SessionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.State = state
}

// GetState returns the current session state.
func (s *MCPSession) GetState() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.State
}

// SetClientData records what the client sent in initialize.
func (s *MCPSession) SetClientData(version string, info ClientInfo, caps ClientCapabilities) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ProtocolVersion = version
	s.ClientInfo = info
	s.Capabilities = caps
}

// GetClientInfo returns the client info recorded at initialize.
func (s *MCPSession) GetClientInfo() ClientInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ClientInfo
}

// SendNotification queues a notification for the session's SSE stream.
// Returns false if the session has no stream, is closed, or the queue is full.
func (s *MCPSession) SendNotification(notif *JSONRPCNotification) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed || s.EventChannel == nil {
		return false
	}
	select {
	case s.EventChannel <- notif:
		return true
	default:
		return false
	}
}

// Close marks the session expired and closes its event channel.
func (s *MCPSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.State = SessionStateExpired
	if s.EventChannel != nil {
		close(s.EventChannel)
	}
}

// ErrTooManySessions is returned by Create when MaxSessions is reached.
var ErrTooManySessions = errors.New("maximum session limit reached")

// SessionManager manages all active MCP sessions.
type SessionManager struct {
	sessions map[string]*MCPSession
	config   *Config
	mu       sync.RWMutex
}

// NewSessionManager creates a new session manager.
func NewSessionManager(cfg *Config) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*MCPSession),
		config:   cfg,
	}
}

// Create creates a new session and adds it to the manager.
func (m *SessionManager) Create() (*MCPSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sessions) >= m.config.MaxSessions {
		m.cleanupLocked()
		if len(m.sessions) >= m.config.MaxSessions {
			return nil, ErrTooManySessions
		}
	}

	session := NewSession()
	m.sessions[session.ID] = session
	return session, nil
}

// Get retrieves a live session by ID. Expired sessions are removed and
// reported as missing.
func (m *SessionManager) Get(id string) *MCPSession {
	m.mu.RLock()
	session := m.sessions[id]
	m.mu.RUnlock()

	if session == nil {
		return nil
	}
	if session.IsExpired(m.config.SessionTimeout) {
		m.Delete(id)
		return nil
	}
	return session
}

// Delete removes a session by ID. It reports whether the session existed.
func (m *SessionManager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return false
	}
	session.Close()
	delete(m.sessions, id)
	return true
}

// Cleanup removes all expired sessions and returns how many were removed.
func (m *SessionManager) Cleanup() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cleanupLocked()
}

// cleanupLocked must be called with the lock held.
func (m *SessionManager) cleanupLocked() int {
	removed := 0
	for id, session := range m.sessions {
		if session.IsExpired(m.config.SessionTimeout) {
			session.Close()
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Count returns the number of active sessions.
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// StartCleanupRoutine starts a goroutine that periodically removes expired sessions.
func (m *SessionManager) StartCleanupRoutine(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.Cleanup()
			case <-stop:
				return
			}
		}
	}()
}

// Close closes all sessions.
func (m *SessionManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, session := range m.sessions {
		session.Close()
		delete(m.sessions, id)
	}
}
