package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"coinbot/models"
)

func TestXPNeededForLevel(t *testing.T) {
	assert.Equal(t, int64(100), XPNeededForLevel(1))
	assert.Equal(t, int64(282), XPNeededForLevel(2))
	assert.Equal(t, int64(519), XPNeededForLevel(3))
	assert.Equal(t, int64(800), XPNeededForLevel(4))
	assert.Equal(t, int64(3162), XPNeededForLevel(10))
}

func TestXPNeededForLevel_Monotonic(t *testing.T) {
	prev := int64(0)
	for level := 1; level <= 100; level++ {
		needed := XPNeededForLevel(level)
		assert.Greater(t, needed, prev, "level %d", level)
		prev = needed
	}
}

func TestApplyXP_NoLevelUp(t *testing.T) {
	acc := &models.Account{Level: 1}

	levels := applyXP(acc, 99)
	assert.Equal(t, 0, levels)
	assert.Equal(t, 1, acc.Level)
	assert.Equal(t, int64(99), acc.XP)
	assert.Zero(t, acc.LevelDailyBonus)
}

func TestApplyXP_ExactThreshold(t *testing.T) {
	acc := &models.Account{Level: 1}

	levels := applyXP(acc, 100)
	assert.Equal(t, 1, levels)
	assert.Equal(t, 2, acc.Level)
	assert.Equal(t, int64(0), acc.XP)
	assert.InDelta(t, 3.0, acc.LevelDailyBonus, 1e-9)
}

func TestApplyXP_MultiLevel(t *testing.T) {
	acc := &models.Account{Level: 1}

	// 100 + 282 + 519 = 901 to reach level 4
	levels := applyXP(acc, 950)
	assert.Equal(t, 3, levels)
	assert.Equal(t, 4, acc.Level)
	assert.Equal(t, int64(49), acc.XP)
	assert.InDelta(t, 9.0, acc.LevelDailyBonus, 1e-9)
}

func TestApplyXP_ResidualBelowNextThreshold(t *testing.T) {
	acc := &models.Account{Level: 5, XP: 10}

	applyXP(acc, 5)
	assert.Equal(t, 5, acc.Level)
	assert.Less(t, acc.XP, XPNeededForLevel(acc.Level))
}
