package memory

import (
	"sync"

	"fipet-service/internal/app"
)

// ProgressStore is an in-memory implementation of app.ProgressStore.
type ProgressStore struct {
	mu       sync.RWMutex
	sessions map[string]*app.ProgressSession
}

func NewProgressStore() *ProgressStore {
	return &ProgressStore{sessions: make(map[string]*app.ProgressSession)}
}

func (s *ProgressStore) GetOrCreate(userID string) *app.ProgressSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[userID]; ok {
		return session
	}
	session := app.NewProgressSession(userID)
	s.sessions[userID] = session
	return session
}

func (s *ProgressStore) Get(userID string) (*app.ProgressSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[userID]
	return session, ok
}

func (s *ProgressStore) DeleteIfIdle(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[userID]
	if !ok {
		return
	}
	if session.IsIdle() {
		delete(s.sessions, userID)
	}
}
