package app_test

import (
	"testing"
	"time"

	"fipet-service/internal/app"
	"fipet-service/internal/domain"
)

var loginNow = time.Date(2025, 7, 10, 9, 30, 0, 0, time.UTC)

func TestFirstEverLoginNoPenalty(t *testing.T) {
	p := domain.UserProfile{ID: "u1"}

	outcome := app.ApplyDailyLogin(&p, loginNow)
	if !outcome.FirstLoginToday {
		t.Fatalf("expected first login")
	}
	if outcome.Mood != 55 {
		t.Fatalf("expected mood 55 (50 + 5), got %d", outcome.Mood)
	}
	if p.LastLoginAt == nil || !p.LastLoginAt.Equal(loginNow) {
		t.Fatalf("expected last login recorded, got %v", p.LastLoginAt)
	}
}

func TestConsecutiveDayLoginIsNetZero(t *testing.T) {
	mood := 60
	yesterday := loginNow.AddDate(0, 0, -1)
	p := domain.UserProfile{ID: "u1", Mood: &mood, LastLoginAt: &yesterday}

	outcome := app.ApplyDailyLogin(&p, loginNow)
	if !outcome.FirstLoginToday || outcome.Mood != 60 {
		t.Fatalf("expected unchanged mood 60, got %+v", outcome)
	}
}

func TestTwoDayGapCostsTwenty(t *testing.T) {
	mood := 60
	twoDaysAgo := loginNow.AddDate(0, 0, -2)
	p := domain.UserProfile{ID: "u1", Mood: &mood, LastLoginAt: &twoDaysAgo}

	outcome := app.ApplyDailyLogin(&p, loginNow)
	// 60 + 5 - 10*2 = 45
	if outcome.Mood != 45 {
		t.Fatalf("expected mood 45, got %d", outcome.Mood)
	}
	if p.Streak.CurrentStreak != 0 {
		t.Fatalf("expected streak broken, got %d", p.Streak.CurrentStreak)
	}
}

func TestLongGapClampsAtZero(t *testing.T) {
	mood := 30
	lastWeek := loginNow.AddDate(0, 0, -7)
	p := domain.UserProfile{ID: "u1", Mood: &mood, LastLoginAt: &lastWeek}

	outcome := app.ApplyDailyLogin(&p, loginNow)
	// 30 + 5 - 70 clamps to 0.
	if outcome.Mood != 0 {
		t.Fatalf("expected mood clamped to 0, got %d", outcome.Mood)
	}
}

func TestSameDayReentryOnlyClearsFlag(t *testing.T) {
	p := domain.UserProfile{ID: "u1"}

	first := app.ApplyDailyLogin(&p, loginNow)
	if !first.FirstLoginToday {
		t.Fatalf("expected first login")
	}

	second := app.ApplyDailyLogin(&p, loginNow.Add(4*time.Hour))
	if second.FirstLoginToday {
		t.Fatalf("expected re-entry, got first login")
	}
	if second.Mood != first.Mood {
		t.Fatalf("mood changed on re-entry: %d != %d", second.Mood, first.Mood)
	}
	if p.FirstLoginToday {
		t.Fatalf("expected first-login flag cleared")
	}
}

func TestCalendarDayBoundaryNotElapsedHours(t *testing.T) {
	// 23:50 yesterday to 00:10 today is a one-day gap even though less
	// than an hour elapsed.
	lastNight := time.Date(2025, 7, 9, 23, 50, 0, 0, time.UTC)
	justAfterMidnight := time.Date(2025, 7, 10, 0, 10, 0, 0, time.UTC)
	mood := 70
	p := domain.UserProfile{ID: "u1", Mood: &mood, LastLoginAt: &lastNight}

	outcome := app.ApplyDailyLogin(&p, justAfterMidnight)
	if !outcome.FirstLoginToday {
		t.Fatalf("expected new calendar day to count as first login")
	}
	if outcome.Mood != 70 {
		t.Fatalf("expected net-zero mood change, got %d", outcome.Mood)
	}
}

func TestLoginResetsDailyCounters(t *testing.T) {
	yesterday := loginNow.AddDate(0, 0, -1)
	p := domain.UserProfile{ID: "u1", EarnedXPToday: 40, LastLoginAt: &yesterday}
	p.Streak.Days[app.WeekdayIndex(loginNow)].Achieved = true

	app.ApplyDailyLogin(&p, loginNow)
	if p.EarnedXPToday != 0 {
		t.Fatalf("expected daily XP reset, got %d", p.EarnedXPToday)
	}
	if p.Streak.Days[app.WeekdayIndex(loginNow)].Achieved {
		t.Fatalf("expected today's streak slot re-armed")
	}
}
