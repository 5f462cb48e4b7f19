package app

import (
	"math"

	"fipet-service/internal/domain"
)

// LevelXPRequirement returns the XP needed to advance past the given level:
// round(10 * level^3). Non-decreasing in level; zero at level 0.
func LevelXPRequirement(level int) int {
	if level <= 0 {
		return 0
	}
	l := float64(level)
	return int(math.Round(10 * l * l * l))
}

// StreakXPRequirement returns the daily XP needed to keep the streak alive:
// round(30 * level^2 * (0.1 + 0.2 * streak/7)). The streak is clamped into
// [0,7] here so the multiplier stays within [0.1, 0.3] regardless of how
// long the actual streak runs. Falling off a streak lowers the bar to
// re-engage.
func StreakXPRequirement(level, currentStreak int) int {
	if currentStreak < 0 {
		currentStreak = 0
	}
	if currentStreak > 7 {
		currentStreak = 7
	}
	l := float64(level)
	multiplier := 0.1 + 0.2*float64(currentStreak)/7
	return int(math.Round(30 * l * l * multiplier))
}

// ApplyXP credits earned XP to a profile: accumulates today's total,
// performs level-ups (XP rolls over into the next level), and marks
// today's streak day achieved, bumping the streak once, when the daily
// requirement is first met.
func ApplyXP(p *domain.UserProfile, xp int, weekdayIndex int) {
	if xp <= 0 {
		return
	}

	required := StreakXPRequirement(p.Level, p.Streak.CurrentStreak)
	before := p.EarnedXPToday
	p.EarnedXPToday += xp
	if required > 0 && before < required && p.EarnedXPToday >= required {
		if weekdayIndex >= 0 && weekdayIndex < len(p.Streak.Days) && !p.Streak.Days[weekdayIndex].Achieved {
			p.Streak.Days[weekdayIndex].Achieved = true
			p.Streak.CurrentStreak++
		}
	}

	p.CurrentXP += xp
	for {
		next := LevelXPRequirement(p.Level + 1)
		if next <= 0 || p.CurrentXP < next {
			break
		}
		p.CurrentXP -= next
		p.Level++
	}
}

// Snapshot derives the client-facing progress view from a profile. All
// fractions are clamped into [0,1].
func Snapshot(p domain.UserProfile) domain.ProgressSnapshot {
	requiredLevel := LevelXPRequirement(p.Level + 1)
	requiredStreak := StreakXPRequirement(p.Level, p.Streak.CurrentStreak)

	levelProgress := 0.0
	if requiredLevel > 0 {
		levelProgress = clampFraction(float64(p.CurrentXP) / float64(requiredLevel))
	}
	streakProgress := 0.0
	if requiredStreak > 0 {
		streakProgress = clampFraction(float64(p.EarnedXPToday) / float64(requiredStreak))
	}

	mood := 50
	if p.Mood != nil {
		mood = *p.Mood
	}

	return domain.ProgressSnapshot{
		UserID:           p.ID,
		Level:            p.Level,
		CurrentXP:        p.CurrentXP,
		RequiredLevelXP:  requiredLevel,
		LevelProgress:    levelProgress,
		EarnedXPToday:    p.EarnedXPToday,
		RequiredStreakXP: requiredStreak,
		StreakProgress:   streakProgress,
		CurrentStreak:    p.Streak.CurrentStreak,
		Coins:            p.Coins,
		Mood:             mood,
	}
}

func clampFraction(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
