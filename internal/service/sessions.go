package service

import (
	"sync"

	"reportbot/internal/domain"
)

// SessionStore keeps in-progress report sessions in memory
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]domain.Session
}

// NewSessionStore creates an empty store
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[int64]domain.Session)}
}

// Get returns the user's session, or a fresh idle one
func (s *SessionStore) Get(userID int64) domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[userID]
	if !ok {
		return domain.NewSession(userID)
	}
	return session.Clone()
}

// Set stores the user's session
func (s *SessionStore) Set(session domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.UserID] = session.Clone()
}

// Reset drops the user's session
func (s *SessionStore) Reset(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}
