package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coinbot/events"
	"coinbot/models"
	"coinbot/repository"
)

var testTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestLedgerService_GetOrCreate_SeedsDefaults(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestLedger(t, testConfig(), &fakeRand{int63s: []int64{500}}, testTime)

	acc, err := svc.GetOrCreate(ctx, "123")
	require.NoError(t, err)

	assert.Equal(t, int64(1000), acc.Balance)
	assert.Equal(t, int64(0), acc.Bank)
	assert.Equal(t, 1, acc.Level)
	assert.Equal(t, int64(2500), acc.BaseDaily) // 2000 + 500
	assert.False(t, acc.Infinity)
	assert.Equal(t, testTime, acc.CreatedAt)
}

func TestLedgerService_GetOrCreate_OwnerGetsInfinity(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestLedger(t, testConfig("999"), &fakeRand{}, testTime)

	acc, err := svc.GetOrCreate(ctx, "999")
	require.NoError(t, err)
	assert.True(t, acc.Infinity)
}

func TestLedgerService_GetOrCreate_OwnerSelfHeals(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestLedger(t, testConfig("999"), &fakeRand{}, testTime)

	// An old record where the infinity flag was lost
	require.NoError(t, repo.Save(&models.Account{UserID: "999", Balance: 50, Level: 3}))

	acc, err := svc.GetOrCreate(ctx, "999")
	require.NoError(t, err)
	assert.True(t, acc.Infinity)

	// The heal is persisted, not just in memory
	stored, ok := repo.Get("999")
	require.True(t, ok)
	assert.True(t, stored.Infinity)
}

func TestLedgerService_CreditAndDebit(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestLedger(t, testConfig(), &fakeRand{}, testTime)

	require.NoError(t, svc.Credit(ctx, "123", 500, false))
	spendable, err := svc.Spendable(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), spendable)

	require.NoError(t, svc.Debit(ctx, "123", 1200, false))
	spendable, err = svc.Spendable(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, int64(300), spendable)
}

func TestLedgerService_Debit_InsufficientFunds(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestLedger(t, testConfig(), &fakeRand{}, testTime)

	err := svc.Debit(ctx, "123", 1001, false)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	// Balance untouched by the refused debit
	spendable, err := svc.Spendable(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), spendable)
}

func TestLedgerService_Debit_RejectsNonPositive(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestLedger(t, testConfig(), &fakeRand{}, testTime)

	assert.ErrorIs(t, svc.Debit(ctx, "123", 0, false), ErrInvalidAmount)
	assert.ErrorIs(t, svc.Debit(ctx, "123", -5, false), ErrInvalidAmount)
	assert.ErrorIs(t, svc.Credit(ctx, "123", 0, false), ErrInvalidAmount)
}

func TestLedgerService_Infinity_DebitIsNoOp(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestLedger(t, testConfig("999"), &fakeRand{}, testTime)

	_, err := svc.GetOrCreate(ctx, "999")
	require.NoError(t, err)

	require.NoError(t, svc.Debit(ctx, "999", 1_000_000, false))

	// Stored numbers never move for infinity accounts
	stored, ok := repo.Get("999")
	require.True(t, ok)
	assert.Equal(t, int64(1000), stored.Balance)

	// Reads present the sentinel
	spendable, err := svc.Spendable(ctx, "999")
	require.NoError(t, err)
	assert.Equal(t, models.InfiniteBalance, spendable)
	banked, err := svc.Banked(ctx, "999")
	require.NoError(t, err)
	assert.Equal(t, models.InfiniteBalance, banked)
}

func TestLedgerService_Transfer(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestLedger(t, testConfig(), &fakeRand{}, testTime)

	require.NoError(t, svc.Transfer(ctx, "alice", "bob", 400))

	aliceBal, err := svc.Spendable(ctx, "alice")
	require.NoError(t, err)
	bobBal, err := svc.Spendable(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(600), aliceBal)
	assert.Equal(t, int64(1400), bobBal)
}

func TestLedgerService_Transfer_InsufficientLeavesBothUntouched(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestLedger(t, testConfig(), &fakeRand{}, testTime)

	err := svc.Transfer(ctx, "alice", "bob", 5000)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	aliceBal, err := svc.Spendable(ctx, "alice")
	require.NoError(t, err)
	bobBal, err := svc.Spendable(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), aliceBal)
	assert.Equal(t, int64(1000), bobBal)
}

func TestLedgerService_Transfer_RejectsSelf(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestLedger(t, testConfig(), &fakeRand{}, testTime)

	assert.ErrorIs(t, svc.Transfer(ctx, "alice", "alice", 100), ErrSelfTransfer)
}

func TestLedgerService_Transfer_InfinitySenderNotDebited(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestLedger(t, testConfig("999"), &fakeRand{}, testTime)

	require.NoError(t, svc.Transfer(ctx, "999", "bob", 1_000_000))

	bobBal, err := svc.Spendable(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(1_001_000), bobBal)

	stored, ok := repo.Get("999")
	require.True(t, ok)
	assert.Equal(t, int64(1000), stored.Balance)
}

func TestLedgerService_Transfer_InfinitySenderEmitsNoDebitEvent(t *testing.T) {
	ctx := context.Background()
	pub := &capturePublisher{}
	repo := repository.NewAccountRepository(t.TempDir())
	svc := NewLedgerService(repo, testConfig("999"), pub, &fakeRand{}).(*ledgerService)
	svc.now = func() time.Time { return testTime }

	require.NoError(t, svc.Transfer(ctx, "999", "bob", 500))

	var changes []events.BalanceChangeEvent
	for _, e := range pub.all() {
		if bc, ok := e.(events.BalanceChangeEvent); ok {
			changes = append(changes, bc)
		}
	}
	// Only the recipient's credit goes out; the sender was never debited
	require.Len(t, changes, 1)
	assert.Equal(t, "bob", changes[0].UserID)
	assert.Equal(t, int64(500), changes[0].ChangeAmount)
	assert.Equal(t, "transfer_in", changes[0].Reason)
}

func TestLedgerService_DepositAndWithdraw(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestLedger(t, testConfig(), &fakeRand{}, testTime)

	require.NoError(t, svc.Deposit(ctx, "123", 700))
	banked, err := svc.Banked(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, int64(700), banked)
	spendable, err := svc.Spendable(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, int64(300), spendable)

	require.NoError(t, svc.Withdraw(ctx, "123", 200))
	banked, err = svc.Banked(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, int64(500), banked)
	spendable, err = svc.Spendable(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, int64(500), spendable)

	assert.ErrorIs(t, svc.Withdraw(ctx, "123", 501), ErrInsufficientFunds)
	assert.ErrorIs(t, svc.Deposit(ctx, "123", 501), ErrInsufficientFunds)
}

func TestLedgerService_AddXP_LevelUp(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestLedger(t, testConfig(), &fakeRand{}, testTime)

	// Level 1 needs 100 XP
	level, leveled, err := svc.AddXP(ctx, "123", 99)
	require.NoError(t, err)
	assert.Equal(t, 1, level)
	assert.False(t, leveled)

	level, leveled, err = svc.AddXP(ctx, "123", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, level)
	assert.True(t, leveled)

	stored, ok := repo.Get("123")
	require.True(t, ok)
	assert.Equal(t, int64(0), stored.XP)
	assert.InDelta(t, 3.0, stored.LevelDailyBonus, 1e-9)
}

func TestLedgerService_AddXP_MultiLevelRollover(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestLedger(t, testConfig(), &fakeRand{}, testTime)

	// 100 (1→2) + 282 (2→3) = 382; 400 leaves 18 XP at level 3
	level, leveled, err := svc.AddXP(ctx, "123", 400)
	require.NoError(t, err)
	assert.Equal(t, 3, level)
	assert.True(t, leveled)

	stored, ok := repo.Get("123")
	require.True(t, ok)
	assert.Equal(t, int64(18), stored.XP)
	assert.InDelta(t, 6.0, stored.LevelDailyBonus, 1e-9)
}

func TestLedgerService_SetLevel_ResetsXPKeepsBonus(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestLedger(t, testConfig(), &fakeRand{}, testTime)

	_, _, err := svc.AddXP(ctx, "123", 150)
	require.NoError(t, err)

	require.NoError(t, svc.SetLevel(ctx, "123", 10))

	stored, ok := repo.Get("123")
	require.True(t, ok)
	assert.Equal(t, 10, stored.Level)
	assert.Equal(t, int64(0), stored.XP)
	// The permanent bonus earned via XP is not recomputed
	assert.InDelta(t, 3.0, stored.LevelDailyBonus, 1e-9)

	assert.ErrorIs(t, svc.SetLevel(ctx, "123", 0), ErrInvalidAmount)
}

func TestLedgerService_RecordWinLoss(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestLedger(t, testConfig(), &fakeRand{}, testTime)

	require.NoError(t, svc.RecordWin(ctx, "123"))
	require.NoError(t, svc.RecordWin(ctx, "123"))
	require.NoError(t, svc.RecordLoss(ctx, "123"))

	stored, ok := repo.Get("123")
	require.True(t, ok)
	assert.Equal(t, 2, stored.Wins)
	assert.Equal(t, 1, stored.Losses)
}

func TestLedgerService_ClaimDaily_FirstClaim(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestLedger(t, testConfig(), &fakeRand{int63s: []int64{0}}, testTime)

	reward, err := svc.ClaimDaily(ctx, "123")
	require.NoError(t, err)

	// base 2000, streak 1: floor(2000 * 1.0025) = 2005
	assert.Equal(t, int64(2005), reward.Amount)
	assert.Equal(t, 1, reward.Streak)
	assert.Equal(t, int64(10), reward.XPGained)
	assert.False(t, reward.LeveledUp)

	spendable, err := svc.Spendable(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, int64(3005), spendable)
}

func TestLedgerService_ClaimDaily_CooldownRefusal(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestLedger(t, testConfig(), &fakeRand{}, testTime)

	_, err := svc.ClaimDaily(ctx, "123")
	require.NoError(t, err)

	svc.now = func() time.Time { return testTime.Add(23 * time.Hour) }
	_, err = svc.ClaimDaily(ctx, "123")

	var cooldown *CooldownError
	require.True(t, errors.As(err, &cooldown))
	assert.Equal(t, time.Hour, cooldown.Remaining)
	assert.Equal(t, testTime.Add(24*time.Hour), cooldown.NextClaim)
}

func TestLedgerService_ClaimDaily_StreakContinuesInsideWindow(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	svc, repo := newTestLedger(t, cfg, &fakeRand{}, testTime)

	last := testTime.Add(-47*time.Hour - 59*time.Minute)
	require.NoError(t, repo.Save(&models.Account{
		UserID: "123", Balance: 0, Level: 1, BaseDaily: 3000,
		DailyStreak: 4, LastDaily: &last, CreatedAt: testTime,
	}))

	reward, err := svc.ClaimDaily(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, 5, reward.Streak)
	// floor(3000 * (1 + 1.25/100)) = 3037
	assert.Equal(t, int64(3037), reward.Amount)
	assert.InDelta(t, 1.25, reward.StreakBonusPct, 1e-9)
}

func TestLedgerService_ClaimDaily_StreakResetsAtWindow(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestLedger(t, testConfig(), &fakeRand{}, testTime)

	last := testTime.Add(-48 * time.Hour)
	require.NoError(t, repo.Save(&models.Account{
		UserID: "123", Balance: 0, Level: 1, BaseDaily: 3000,
		DailyStreak: 9, LastDaily: &last, CreatedAt: testTime,
	}))

	reward, err := svc.ClaimDaily(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, 1, reward.Streak)
}

func TestLedgerService_ClaimDaily_LevelBonusLagsLevelUp(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestLedger(t, testConfig(), &fakeRand{}, testTime)

	// 95 XP at level 1: this claim's 10 XP will push it over
	require.NoError(t, repo.Save(&models.Account{
		UserID: "123", Level: 1, XP: 95, BaseDaily: 2000, CreatedAt: testTime,
	}))

	reward, err := svc.ClaimDaily(ctx, "123")
	require.NoError(t, err)

	// Payout computed with the pre-claim bonus of 0
	assert.Equal(t, int64(2005), reward.Amount)
	assert.InDelta(t, 0.0, reward.LevelBonusPct, 1e-9)
	assert.True(t, reward.LeveledUp)
	assert.Equal(t, 2, reward.NewLevel)

	// The bonus is in place for the next claim
	stored, ok := repo.Get("123")
	require.True(t, ok)
	assert.InDelta(t, 3.0, stored.LevelDailyBonus, 1e-9)
}

func TestLedgerService_ClaimDaily_InfinityStillOnCooldown(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestLedger(t, testConfig("999"), &fakeRand{}, testTime)

	_, err := svc.ClaimDaily(ctx, "999")
	require.NoError(t, err)

	_, err = svc.ClaimDaily(ctx, "999")
	var cooldown *CooldownError
	assert.True(t, errors.As(err, &cooldown))
}

func TestLedgerService_Stats_ReturnsFullRecord(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestLedger(t, testConfig(), &fakeRand{}, testTime)

	require.NoError(t, svc.Credit(ctx, "123", 250, true))

	acc, err := svc.Stats(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), acc.Balance)
	assert.Equal(t, int64(250), acc.Bank)
	assert.Equal(t, int64(1250), acc.TotalEarned)
}
