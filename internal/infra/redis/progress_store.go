package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"fipet-service/internal/app"
)

// ProgressStore is a Redis-aware implementation of app.ProgressStore.
// Notes:
//   - It still keeps a local in-memory map of sessions to reuse the
//     in-process broadcast logic.
//   - Redis is used to mark which users have a live progress stream (and
//     could be extended to route cross-instance pub/sub).
type ProgressStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.ProgressSession
}

func NewProgressStore(client *redis.Client, ttl time.Duration) *ProgressStore {
	return &ProgressStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.ProgressSession),
	}
}

func (s *ProgressStore) GetOrCreate(userID string) *app.ProgressSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[userID]; ok {
		return session
	}
	session := app.NewProgressSession(userID)
	s.sessions[userID] = session
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(userID), "1", s.ttl).Err()
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
		_ = s.client.Del(context.Background(), s.key(userID)).Err()
	}
}

func (s *ProgressStore) key(userID string) string {
	return "progress:session:" + userID
}
