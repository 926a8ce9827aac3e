package domain

import (
	"sync"
	"time"
)

const defaultSessionCapacity = 100

// Exchange is one question and its answer within a session.
type Exchange struct {
	ID        string    `json:"id"`
	Vendor    VendorID  `json:"vendor"`
	Query     string    `json:"query"`
	Images    int       `json:"images,omitempty"`
	Response  string    `json:"response"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionStore keeps per-session history in memory only.
type SessionStore struct {
	mu       sync.RWMutex
	capacity int
	sessions map[string][]Exchange
}

// NewSessionStore creates an empty store (DI constructor).
func NewSessionStore() *SessionStore {
	return &SessionStore{
		capacity: defaultSessionCapacity,
		sessions: make(map[string][]Exchange),
	}
}

// Append records an exchange, dropping the oldest one past capacity.
func (s *SessionStore) Append(sessionID string, exchange Exchange) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(s.sessions[sessionID], exchange)
	if len(history) > s.capacity {
		history = history[len(history)-s.capacity:]
	}
	s.sessions[sessionID] = history
}

// History returns a copy of the session's exchanges, oldest first.
func (s *SessionStore) History(sessionID string) []Exchange {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.sessions[sessionID]
	out := make([]Exchange, len(history))
	copy(out, history)
	return out
}

// Clear forgets a session.
func (s *SessionStore) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}
