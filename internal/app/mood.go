package app

import (
	"time"

	"fipet-service/internal/domain"
)

const defaultMood = 50

var weekdayAbbrevs = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// LoginOutcome is the result of applying a login event to a profile.
type LoginOutcome struct {
	FirstLoginToday bool
	Mood            int
}

// ApplyDailyLogin runs the once-per-day login transition on a profile.
//
// On the first login of a calendar day the pet's mood shifts: +5 for
// showing up, -5 when the previous login was exactly one day ago (net
// zero), -10*d when the gap was d > 1 days, and no penalty when there is
// no prior login on record. Mood is clamped into [0,100] from a default of
// 50. The transition also re-arms the daily XP counter and the day's
// streak slot, and breaks the streak after a gap of more than one day.
//
// Re-entry on the same calendar day only clears the first-login flag.
// Days are compared by UTC calendar date components, not elapsed hours.
func ApplyDailyLogin(p *domain.UserProfile, now time.Time) LoginOutcome {
	now = now.UTC()

	if p.LastLoginAt != nil && sameCalendarDay(p.LastLoginAt.UTC(), now) {
		p.FirstLoginToday = false
		return LoginOutcome{FirstLoginToday: false, Mood: moodOrDefault(p)}
	}

	moodChange := 5
	gap := 0
	if p.LastLoginAt != nil {
		gap = calendarDaysBetween(p.LastLoginAt.UTC(), now)
		if gap == 1 {
			moodChange -= 5
		} else if gap > 1 {
			moodChange -= 10 * gap
		}
	}

	mood := clampMood(moodOrDefault(p) + moodChange)
	p.Mood = &mood
	loginAt := now
	p.LastLoginAt = &loginAt
	p.FirstLoginToday = true

	// New day: daily XP counter restarts and today's streak slot re-arms.
	p.EarnedXPToday = 0
	idx := WeekdayIndex(now)
	p.Streak.Days[idx] = domain.StreakDay{Weekday: weekdayAbbrevs[idx], Achieved: false}
	if gap > 1 {
		p.Streak.CurrentStreak = 0
	}

	return LoginOutcome{FirstLoginToday: true, Mood: mood}
}

// WeekdayIndex returns the streak slot for a timestamp (0 = Sunday).
func WeekdayIndex(t time.Time) int {
	return int(t.UTC().Weekday())
}

// DayKey formats a timestamp as its UTC calendar date, used to key the
// per-day login gate.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func sameCalendarDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func calendarDaysBetween(earlier, later time.Time) int {
	ed := time.Date(earlier.Year(), earlier.Month(), earlier.Day(), 0, 0, 0, 0, time.UTC)
	ld := time.Date(later.Year(), later.Month(), later.Day(), 0, 0, 0, 0, time.UTC)
	return int(ld.Sub(ed) / (24 * time.Hour))
}

func moodOrDefault(p *domain.UserProfile) int {
	if p.Mood == nil {
		return defaultMood
	}
	return clampMood(*p.Mood)
}

func clampMood(m int) int {
	if m < 0 {
		return 0
	}
	if m > 100 {
		return 100
	}
	return m
}
