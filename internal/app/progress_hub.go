package app

import (
	"sync"
	"time"

	"fipet-service/internal/domain"
)

// ProgressStore abstracts how live progress sessions are tracked
// (in-memory, Redis-marked, etc).
type ProgressStore interface {
	GetOrCreate(userID string) *ProgressSession
	Get(userID string) (*ProgressSession, bool)
	DeleteIfIdle(userID string)
}

// ProgressSession fans a user's progress snapshots out to connected
// clients. One session per user; watchers are websocket connections.
type ProgressSession struct {
	userID    string
	createdAt time.Time
	now       func() time.Time

	mu        sync.RWMutex
	latest    domain.ProgressSnapshot
	hasLatest bool
	watchers  map[chan domain.ProgressSnapshot]struct{}
}

// NewProgressSession is exported for infrastructure layers that need to
// seed sessions.
func NewProgressSession(userID string) *ProgressSession {
	return newProgressSessionWithClock(userID, time.Now)
}

// NewProgressSessionWithClock is test-only for deterministic timestamps.
func NewProgressSessionWithClock(userID string, now func() time.Time) *ProgressSession {
	return newProgressSessionWithClock(userID, now)
}

func newProgressSessionWithClock(userID string, now func() time.Time) *ProgressSession {
	return &ProgressSession{
		userID:    userID,
		createdAt: now(),
		now:       now,
		watchers:  make(map[chan domain.ProgressSnapshot]struct{}),
	}
}

// IsIdle reports whether the session has no watchers.
func (s *ProgressSession) IsIdle() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.watchers) == 0
}

func (s *ProgressSession) publish(snap domain.ProgressSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest = snap
	s.hasLatest = true
	for ch := range s.watchers {
		select {
		case ch <- snap:
		default:
			// Drop the stale snapshot so a slow client never blocks publish.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func (s *ProgressSession) subscribe() (<-chan domain.ProgressSnapshot, func()) {
	ch := make(chan domain.ProgressSnapshot, 8)

	s.mu.Lock()
	s.watchers[ch] = struct{}{}
	initial := s.latest
	hasInitial := s.hasLatest
	s.mu.Unlock()

	if hasInitial {
		ch <- initial
	}

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.watchers[ch]; ok {
			delete(s.watchers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}
