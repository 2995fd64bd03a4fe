package models

import (
	"math"
	"time"
)

// InfiniteBalance is the sentinel returned by balance reads for accounts
// with infinity mode enabled. Stored balances never hold this value;
// infinity accounts keep their real numbers on disk untouched.
const InfiniteBalance int64 = math.MaxInt64

// Account is a single user's economy record. JSON field names match the
// documents written by earlier versions of the bot, so existing
// economy_data.json files load unchanged.
type Account struct {
	UserID string `json:"-"` // map key in the table, not stored in the record

	Balance int64 `json:"balance"`
	Bank    int64 `json:"bank"`

	TotalEarned int64 `json:"total_earned"`
	TotalSpent  int64 `json:"total_spent"`

	Level           int     `json:"level"`
	XP              int64   `json:"xp"`
	LevelDailyBonus float64 `json:"level_daily_bonus"` // permanent daily bonus in percent, grows on level-up

	DailyStreak int        `json:"daily_streak"`
	BaseDaily   int64      `json:"base_daily"` // rolled once at creation, stable for the account's lifetime
	LastDaily   *time.Time `json:"last_daily"`

	Infinity bool `json:"infinity"`

	Wins   int `json:"wins"`
	Losses int `json:"losses"`

	CreatedAt time.Time `json:"created_at"`
}

// Normalize backfills fields that documents from older versions may be
// missing and re-asserts the owner infinity invariant. rolledBaseDaily
// is a freshly randomized candidate, used only when the account has no
// base daily amount yet. Returns true when anything changed so the
// caller knows to persist the backfill.
func (a *Account) Normalize(isOwner bool, rolledBaseDaily int64, now time.Time) bool {
	changed := false

	if a.Level < 1 {
		a.Level = 1
		changed = true
	}
	if a.XP < 0 {
		a.XP = 0
		changed = true
	}
	if a.DailyStreak < 0 {
		a.DailyStreak = 0
		changed = true
	}
	if a.BaseDaily <= 0 {
		a.BaseDaily = rolledBaseDaily
		changed = true
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
		changed = true
	}

	// Owners always have infinity mode, regardless of what the stored
	// document says. Only an explicit owner toggle may flip it off, and
	// the next materialization turns it back on.
	if isOwner && !a.Infinity {
		a.Infinity = true
		changed = true
	}

	return changed
}
