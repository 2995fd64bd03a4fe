package service

import (
	"math"
	"time"
)

const (
	// dailyCooldown is how long after a claim the next one unlocks.
	dailyCooldown = 24 * time.Hour

	// streakWindow is the continuity window: a claim within this span
	// of the previous one extends the streak, anything later resets it.
	streakWindow = 48 * time.Hour

	// streakBonusPerDay is the payout bonus per consecutive day, in percent.
	streakBonusPerDay = 0.25
)

// nextStreak returns the streak value a claim at now produces.
func nextStreak(lastClaim *time.Time, prevStreak int, now time.Time) int {
	if lastClaim == nil {
		return 1
	}
	if now.Sub(*lastClaim) < streakWindow {
		return prevStreak + 1
	}
	return 1
}

// streakBonusPct converts a streak length into its payout bonus percent.
func streakBonusPct(streak int) float64 {
	return float64(streak) * streakBonusPerDay
}

// dailyPayout computes the credited amount for a claim:
// floor(base * (1 + (streakPct + levelPct) / 100)).
func dailyPayout(base int64, streakPct, levelPct float64) int64 {
	multiplier := 1 + (streakPct+levelPct)/100
	return int64(math.Floor(float64(base) * multiplier))
}
