package service

import (
	"context"
	"time"

	"coinbot/events"
	"coinbot/models"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// Get returns the account for a user, or false if none exists yet
	Get(userID string) (*models.Account, bool)

	// Save upserts the account and rewrites the backing table
	Save(acc *models.Account) error

	// All returns every known account
	All() []*models.Account
}

// InventoryRepository defines the interface for shop inventory data access
type InventoryRepository interface {
	// Get returns the inventory for a user, empty if none exists yet
	Get(userID string) *models.Inventory

	// Save upserts a user's inventory and rewrites the backing table
	Save(userID string, inv *models.Inventory) error
}

// ModerationRepository defines the interface for the moderation tables
type ModerationRepository interface {
	GetMute(guildID, userID string) (models.Mute, bool)
	SetMute(guildID, userID string, m models.Mute) error
	DeleteMute(guildID, userID string) (bool, error)
	GuildMutes(guildID string) map[string]models.Mute

	DisabledCommands(channelID string) []string
	SetDisabledCommands(channelID string, commands []string) error

	Prefix(guildID string) (string, bool)
	SetPrefix(guildID, prefix string) error
	DeletePrefix(guildID string) error
}

// LedgerService defines the interface for account and money operations.
// Business refusals (insufficient funds, cooldown, bad amounts) come
// back as the sentinel/typed errors in errors.go; any other error is an
// infrastructure failure.
type LedgerService interface {
	// GetOrCreate materializes the account for a user, creating it with
	// seeded defaults on first reference and backfilling missing fields
	// on old documents. Owner accounts come back with infinity forced on.
	GetOrCreate(ctx context.Context, userID string) (*models.Account, error)

	// Spendable returns the wallet balance, or models.InfiniteBalance
	// for infinity accounts
	Spendable(ctx context.Context, userID string) (int64, error)

	// Banked returns the bank balance, or models.InfiniteBalance for
	// infinity accounts
	Banked(ctx context.Context, userID string) (int64, error)

	// IsInfinity reports whether the account has infinity mode
	IsInfinity(ctx context.Context, userID string) (bool, error)

	// Credit adds amount to the wallet (or bank); always succeeds
	Credit(ctx context.Context, userID string, amount int64, toBank bool) error

	// Debit removes amount from the wallet (or bank). Infinity accounts
	// succeed without mutation; otherwise ErrInsufficientFunds when the
	// target balance is short.
	Debit(ctx context.Context, userID string, amount int64, fromBank bool) error

	// Transfer moves amount between two users' wallets, atomically
	Transfer(ctx context.Context, fromID, toID string, amount int64) error

	// Deposit moves amount from wallet to bank for one user
	Deposit(ctx context.Context, userID string, amount int64) error

	// Withdraw moves amount from bank to wallet for one user
	Withdraw(ctx context.Context, userID string, amount int64) error

	// SetLevel sets the level directly and resets XP; the permanent
	// daily bonus is left alone
	SetLevel(ctx context.Context, userID string, level int) error

	// AddXP adds XP, rolling overflow into level-ups. Returns the level
	// after the call and whether any level-up happened.
	AddXP(ctx context.Context, userID string, amount int64) (int, bool, error)

	// SetInfinity toggles infinity mode. Owners get it re-asserted on
	// the next materialization regardless.
	SetInfinity(ctx context.Context, userID string, enabled bool) error

	// RecordWin / RecordLoss bump the casino counters
	RecordWin(ctx context.Context, userID string) error
	RecordLoss(ctx context.Context, userID string) error

	// ClaimDaily runs the daily reward state machine; *CooldownError
	// when claimed again within 24h
	ClaimDaily(ctx context.Context, userID string) (*models.DailyReward, error)

	// Stats returns the full account record
	Stats(ctx context.Context, userID string) (*models.Account, error)
}

// CasinoService defines the interface for the chance games
type CasinoService interface {
	// CoinFlip resolves a heads/tails call at 1:1
	CoinFlip(ctx context.Context, userID string, call models.CoinSide, bet int64) (*models.CoinFlipResult, error)

	// Slots spins three reels after the rare-jackpot pre-roll
	Slots(ctx context.Context, userID string, bet int64) (*models.SlotsResult, error)

	// Dice resolves a high/low call on three six-sided dice
	Dice(ctx context.Context, userID string, call models.DiceCall, bet int64) (*models.DiceResult, error)

	// Blackjack plays a single round against a dealer drawing to 17
	Blackjack(ctx context.Context, userID string, bet int64) (*models.BlackjackResult, error)
}

// ShopService defines the interface for the shop and inventories
type ShopService interface {
	// Catalog returns every item for sale, in stable order
	Catalog() []models.ShopItem

	// Item looks up one catalog entry
	Item(itemID string) (models.ShopItem, bool)

	// Buy purchases quantity of an item, paying through the ledger
	Buy(ctx context.Context, userID, itemID string, quantity int) (int64, error)

	// Give moves items from one user's inventory to another's
	Give(ctx context.Context, fromID, toID, itemID string, quantity int) error

	// Inventory returns a user's owned items
	Inventory(ctx context.Context, userID string) (*models.Inventory, error)
}

// ModerationService defines the interface for the moderation utilities
type ModerationService interface {
	Mute(ctx context.Context, guildID, userID string, duration time.Duration, reason string) (models.Mute, error)
	Unmute(ctx context.Context, guildID, userID string) (bool, error)
	IsMuted(ctx context.Context, guildID, userID string) bool
	ActiveMutes(ctx context.Context, guildID string) map[string]models.Mute

	DisableCommand(ctx context.Context, channelID, command string) (bool, error)
	EnableCommand(ctx context.Context, channelID, command string) (bool, error)
	IsCommandDisabled(ctx context.Context, channelID, command string) bool

	Prefix(ctx context.Context, guildID string) string
	SetPrefix(ctx context.Context, guildID, prefix string) error
	ResetPrefix(ctx context.Context, guildID string) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Emit(ctx context.Context, event events.Event)
}

// Rand is the randomness source for game outcomes and account seeding.
// *math/rand.Rand satisfies it; tests inject a fixed-sequence source.
type Rand interface {
	Float64() float64
	Intn(n int) int
	Int63n(n int64) int64
	Shuffle(n int, swap func(i, j int))
}
