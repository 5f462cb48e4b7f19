package memory

import (
	"context"
	"sync"

	"fipet-service/internal/domain"
)

// UserStore is an in-memory implementation of app.UserRepository.
type UserStore struct {
	mu       sync.RWMutex
	profiles map[string]domain.UserProfile
}

func NewUserStore() *UserStore {
	return &UserStore{profiles: make(map[string]domain.UserProfile)}
}

func (s *UserStore) GetUser(_ context.Context, userID string) (domain.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[userID]
	if !ok {
		return domain.UserProfile{}, domain.ErrUserNotFound
	}
	return profile, nil
}

func (s *UserStore) SaveUser(_ context.Context, profile domain.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.ID] = profile
	return nil
}
