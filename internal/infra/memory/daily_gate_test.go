package memory

import (
	"context"
	"testing"
)

func TestDailyGateClaimsOncePerDay(t *testing.T) {
	ctx := context.Background()
	gate := NewDailyGate()

	first, err := gate.Claim(ctx, "u1", "2025-07-10")
	if err != nil || !first {
		t.Fatalf("expected first claim, got %v err=%v", first, err)
	}

	again, err := gate.Claim(ctx, "u1", "2025-07-10")
	if err != nil || again {
		t.Fatalf("expected repeat claim denied, got %v err=%v", again, err)
	}

	nextDay, err := gate.Claim(ctx, "u1", "2025-07-11")
	if err != nil || !nextDay {
		t.Fatalf("expected next day re-armed, got %v err=%v", nextDay, err)
	}

	otherUser, err := gate.Claim(ctx, "u2", "2025-07-10")
	if err != nil || !otherUser {
		t.Fatalf("expected other user independent, got %v err=%v", otherUser, err)
	}
}
