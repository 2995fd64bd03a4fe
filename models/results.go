package models

// DailyReward describes the outcome of a successful daily claim.
type DailyReward struct {
	Amount         int64
	Streak         int
	Level          int // level after the claim's XP award
	XPGained       int64
	LeveledUp      bool
	NewLevel       int // set only when LeveledUp
	StreakBonusPct float64
	LevelBonusPct  float64 // the permanent bonus the payout was computed with
}

// GameOutcome is how a casino round resolved for the bettor.
type GameOutcome string

const (
	OutcomeWin  GameOutcome = "win"
	OutcomeLoss GameOutcome = "loss"
	OutcomePush GameOutcome = "push"
)

// GameResult carries the fields common to every casino game.
// Payout is the amount credited on a win and zero otherwise; on a loss
// the bet amount was debited. NewBalance is InfiniteBalance for
// infinity accounts.
type GameResult struct {
	Outcome    GameOutcome
	Forced     bool // infinity override took the always-win branch
	BetAmount  int64
	Payout     int64
	NewBalance int64
}

// CoinSide is a coin flip call or landing.
type CoinSide string

const (
	Heads CoinSide = "heads"
	Tails CoinSide = "tails"
)

// CoinFlipResult is the outcome of a coin call game.
type CoinFlipResult struct {
	GameResult
	Call   CoinSide
	Landed CoinSide
}

// JackpotTier identifies which rare pre-roll band a slots spin hit, if any.
type JackpotTier string

const (
	JackpotNone  JackpotTier = ""
	JackpotMega  JackpotTier = "mega"  // x100000
	JackpotSuper JackpotTier = "super" // x100
	JackpotUltra JackpotTier = "ultra" // x50
)

// SlotsResult is the outcome of a slot machine spin.
type SlotsResult struct {
	GameResult
	Reels      [3]string
	Jackpot    JackpotTier
	Multiplier int64 // payout multiplier applied to the bet, 0 on a losing spin
}

// DiceCall is a high/low call on the three-die total.
type DiceCall string

const (
	High DiceCall = "high" // total 11-18
	Low  DiceCall = "low"  // total 3-10
)

// DiceResult is the outcome of a three-die high/low round.
type DiceResult struct {
	GameResult
	Call   DiceCall
	Landed DiceCall
	Dice   [3]int
	Total  int
}

// BlackjackResult is the outcome of a single blackjack round.
type BlackjackResult struct {
	GameResult
	PlayerHand  []string
	DealerHand  []string
	PlayerTotal int
	DealerTotal int
	Natural     bool // two-card 21 on the deal
}
