package service

import (
	"math"

	"coinbot/models"
)

// levelBonusPerLevel is the permanent daily-bonus increment, in
// percentage points, granted for every level gained through XP.
const levelBonusPerLevel = 3.0

// XPNeededForLevel returns the XP required to advance from the given
// level to the next: floor(100 * level^1.5).
func XPNeededForLevel(level int) int64 {
	return int64(math.Floor(100 * math.Pow(float64(level), 1.5)))
}

// applyXP adds XP to the account, rolling overflow into level-ups
// (possibly several from one call) and growing the permanent daily
// bonus by levelBonusPerLevel per level gained. Returns the number of
// levels gained. Leaves xp in [0, XPNeededForLevel(level)).
func applyXP(acc *models.Account, amount int64) int {
	acc.XP += amount

	levels := 0
	for acc.XP >= XPNeededForLevel(acc.Level) {
		acc.XP -= XPNeededForLevel(acc.Level)
		acc.Level++
		levels++
	}
	if levels > 0 {
		acc.LevelDailyBonus += float64(levels) * levelBonusPerLevel
	}
	return levels
}
