package memory

import (
	"context"
	"sync"
)

// DailyGate tracks first-login claims per user per day in process memory.
type DailyGate struct {
	mu      sync.Mutex
	claimed map[string]struct{}
}

func NewDailyGate() *DailyGate {
	return &DailyGate{claimed: make(map[string]struct{})}
}

func (g *DailyGate) Claim(_ context.Context, userID, day string) (bool, error) {
	key := userID + ":" + day

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.claimed[key]; ok {
		return false, nil
	}
	g.claimed[key] = struct{}{}
	return true, nil
}
