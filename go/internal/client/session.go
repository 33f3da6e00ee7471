package client

import "sync"

// SessionStore persists the identity the server assigns so it survives
// reconnects and restarts: the user ID is echoed as a query parameter on
// future dials for session resumption, and the username follows the roster.
type SessionStore interface {
	UserID() string
	SetUserID(id string)
	Username() string
	SetUsername(name string)
}

// MemorySession keeps session identity for the lifetime of the process.
// Useful for tests and for callers that handle persistence themselves.
type MemorySession struct {
	mu       sync.Mutex
	userID   string
	username string
}

// NewMemorySession returns an empty in-memory session.
func NewMemorySession() *MemorySession {
	return &MemorySession{}
}

func (s *MemorySession) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

func (s *MemorySession) SetUserID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = id
}

func (s *MemorySession) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username
}

func (s *MemorySession) SetUsername(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.username = name
}
