package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"coinbot/config"
	"coinbot/events"
	"coinbot/models"
)

// ledgerService implements the LedgerService interface. A single mutex
// serializes every read-modify-write: operations here are short and
// every save rewrites the whole shared table, so one lock gives the
// atomicity a concurrent gateway needs without per-account bookkeeping.
type ledgerService struct {
	mu        sync.Mutex
	repo      AccountRepository
	cfg       *config.Config
	publisher EventPublisher
	rng       Rand
	now       func() time.Time
}

// NewLedgerService creates a new ledger service. A nil rng falls back
// to a time-seeded source.
func NewLedgerService(repo AccountRepository, cfg *config.Config, publisher EventPublisher, rng Rand) LedgerService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &ledgerService{
		repo:      repo,
		cfg:       cfg,
		publisher: publisher,
		rng:       rng,
		now:       time.Now,
	}
}

// rollBaseDaily samples the per-account base daily amount.
func (s *ledgerService) rollBaseDaily() int64 {
	return s.cfg.BaseDailyMin + s.rng.Int63n(s.cfg.BaseDailyMax-s.cfg.BaseDailyMin+1)
}

// materialize loads or creates the account and runs the normalization
// pass (default backfill + owner infinity re-assertion), persisting any
// change. Callers must hold s.mu.
func (s *ledgerService) materialize(userID string) (*models.Account, error) {
	isOwner := s.cfg.IsOwner(userID)

	acc, ok := s.repo.Get(userID)
	if !ok {
		acc = &models.Account{
			UserID:      userID,
			Balance:     s.cfg.StartingBalance,
			Level:       1,
			BaseDaily:   s.rollBaseDaily(),
			Infinity:    isOwner,
			TotalEarned: s.cfg.StartingBalance,
			CreatedAt:   s.now(),
		}
		if err := s.repo.Save(acc); err != nil {
			return nil, fmt.Errorf("failed to create account: %w", err)
		}
		log.WithFields(log.Fields{
			"userID":    userID,
			"balance":   acc.Balance,
			"baseDaily": acc.BaseDaily,
			"infinity":  acc.Infinity,
		}).Info("Created new account")
		return acc, nil
	}

	if acc.Normalize(isOwner, s.rollBaseDaily(), s.now()) {
		if err := s.repo.Save(acc); err != nil {
			return nil, fmt.Errorf("failed to persist account backfill: %w", err)
		}
	}
	return acc, nil
}

// assertSolvent guards the non-negativity invariant. A violation here
// is a programming fault, not a business condition.
func assertSolvent(acc *models.Account) {
	if acc.Balance < 0 || acc.Bank < 0 {
		panic(fmt.Sprintf("integrity violation: negative balance for account %s (wallet=%d bank=%d)",
			acc.UserID, acc.Balance, acc.Bank))
	}
}

func (s *ledgerService) emitBalanceChange(ctx context.Context, acc *models.Account, change int64, reason string) {
	if s.publisher == nil {
		return
	}
	s.publisher.Emit(ctx, events.BalanceChangeEvent{
		UserID:       acc.UserID,
		Wallet:       acc.Balance,
		Bank:         acc.Bank,
		ChangeAmount: change,
		Reason:       reason,
	})
}

func (s *ledgerService) GetOrCreate(ctx context.Context, userID string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.materialize(userID)
}

func (s *ledgerService) Spendable(ctx context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, err := s.materialize(userID)
	if err != nil {
		return 0, err
	}
	if acc.Infinity {
		return models.InfiniteBalance, nil
	}
	return acc.Balance, nil
}

func (s *ledgerService) Banked(ctx context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, err := s.materialize(userID)
	if err != nil {
		return 0, err
	}
	if acc.Infinity {
		return models.InfiniteBalance, nil
	}
	return acc.Bank, nil
}

func (s *ledgerService) IsInfinity(ctx context.Context, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, err := s.materialize(userID)
	if err != nil {
		return false, err
	}
	return acc.Infinity, nil
}

func (s *ledgerService) Credit(ctx context.Context, userID string, amount int64, toBank bool) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, err := s.materialize(userID)
	if err != nil {
		return err
	}

	if toBank {
		acc.Bank += amount
	} else {
		acc.Balance += amount
	}
	acc.TotalEarned += amount

	if err := s.repo.Save(acc); err != nil {
		return fmt.Errorf("failed to persist credit: %w", err)
	}
	s.emitBalanceChange(ctx, acc, amount, "credit")
	return nil
}

func (s *ledgerService) Debit(ctx context.Context, userID string, amount int64, fromBank bool) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, err := s.materialize(userID)
	if err != nil {
		return err
	}

	// Infinity accounts never lose money; report success untouched.
	if acc.Infinity {
		return nil
	}

	if fromBank {
		if acc.Bank < amount {
			return ErrInsufficientFunds
		}
		acc.Bank -= amount
	} else {
		if acc.Balance < amount {
			return ErrInsufficientFunds
		}
		acc.Balance -= amount
	}
	acc.TotalSpent += amount
	assertSolvent(acc)

	if err := s.repo.Save(acc); err != nil {
		return fmt.Errorf("failed to persist debit: %w", err)
	}
	s.emitBalanceChange(ctx, acc, -amount, "debit")
	return nil
}

func (s *ledgerService) Transfer(ctx context.Context, fromID, toID string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if fromID == toID {
		return ErrSelfTransfer
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	from, err := s.materialize(fromID)
	if err != nil {
		return err
	}
	to, err := s.materialize(toID)
	if err != nil {
		return err
	}

	if from.Infinity {
		// Infinity senders give unlimited money without being debited.
		to.Balance += amount
		to.TotalEarned += amount
	} else {
		if from.Balance < amount {
			return ErrInsufficientFunds
		}
		from.Balance -= amount
		from.TotalSpent += amount
		to.Balance += amount
		to.TotalEarned += amount
		assertSolvent(from)
	}

	// Both sides are mutated in memory before the save; one table
	// rewrite persists them together, so no partial transfer is ever
	// visible to a subsequent read.
	if err := s.repo.Save(to); err != nil {
		return fmt.Errorf("failed to persist transfer: %w", err)
	}

	// An infinity sender was never debited, so there is no outgoing
	// change to report.
	if !from.Infinity {
		s.emitBalanceChange(ctx, from, -amount, "transfer_out")
	}
	s.emitBalanceChange(ctx, to, amount, "transfer_in")
	return nil
}

func (s *ledgerService) Deposit(ctx context.Context, userID string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, err := s.materialize(userID)
	if err != nil {
		return err
	}
	if acc.Infinity {
		return nil
	}
	if acc.Balance < amount {
		return ErrInsufficientFunds
	}
	acc.Balance -= amount
	acc.Bank += amount
	assertSolvent(acc)
	if err := s.repo.Save(acc); err != nil {
		return fmt.Errorf("failed to persist deposit: %w", err)
	}
	return nil
}

func (s *ledgerService) Withdraw(ctx context.Context, userID string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, err := s.materialize(userID)
	if err != nil {
		return err
	}
	if acc.Infinity {
		return nil
	}
	if acc.Bank < amount {
		return ErrInsufficientFunds
	}
	acc.Bank -= amount
	acc.Balance += amount
	assertSolvent(acc)
	if err := s.repo.Save(acc); err != nil {
		return fmt.Errorf("failed to persist withdrawal: %w", err)
	}
	return nil
}

func (s *ledgerService) SetLevel(ctx context.Context, userID string, level int) error {
	if level < 1 {
		return ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, err := s.materialize(userID)
	if err != nil {
		return err
	}
	// Direct level set resets XP but leaves the accumulated permanent
	// daily bonus alone; only the XP path grows it.
	acc.Level = level
	acc.XP = 0
	if err := s.repo.Save(acc); err != nil {
		return fmt.Errorf("failed to persist level: %w", err)
	}
	return nil
}

func (s *ledgerService) AddXP(ctx context.Context, userID string, amount int64) (int, bool, error) {
	if amount <= 0 {
		return 0, false, ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, err := s.materialize(userID)
	if err != nil {
		return 0, false, err
	}

	oldLevel := acc.Level
	levels := applyXP(acc, amount)

	if err := s.repo.Save(acc); err != nil {
		return 0, false, fmt.Errorf("failed to persist xp: %w", err)
	}

	if levels > 0 && s.publisher != nil {
		s.publisher.Emit(ctx, events.LevelUpEvent{
			UserID:       userID,
			OldLevel:     oldLevel,
			NewLevel:     acc.Level,
			BonusPctGain: float64(levels) * levelBonusPerLevel,
		})
	}
	return acc.Level, levels > 0, nil
}

func (s *ledgerService) SetInfinity(ctx context.Context, userID string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, err := s.materialize(userID)
	if err != nil {
		return err
	}
	acc.Infinity = enabled
	if err := s.repo.Save(acc); err != nil {
		return fmt.Errorf("failed to persist infinity flag: %w", err)
	}
	log.WithFields(log.Fields{
		"userID":   userID,
		"infinity": enabled,
	}).Info("Infinity mode toggled")
	return nil
}

func (s *ledgerService) RecordWin(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, err := s.materialize(userID)
	if err != nil {
		return err
	}
	acc.Wins++
	if err := s.repo.Save(acc); err != nil {
		return fmt.Errorf("failed to persist win: %w", err)
	}
	return nil
}

func (s *ledgerService) RecordLoss(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, err := s.materialize(userID)
	if err != nil {
		return err
	}
	acc.Losses++
	if err := s.repo.Save(acc); err != nil {
		return fmt.Errorf("failed to persist loss: %w", err)
	}
	return nil
}

func (s *ledgerService) ClaimDaily(ctx context.Context, userID string) (*models.DailyReward, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, err := s.materialize(userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if acc.LastDaily != nil {
		if elapsed := now.Sub(*acc.LastDaily); elapsed < dailyCooldown {
			next := acc.LastDaily.Add(dailyCooldown)
			return nil, &CooldownError{Remaining: next.Sub(now), NextClaim: next}
		}
	}

	streak := nextStreak(acc.LastDaily, acc.DailyStreak, now)
	streakPct := streakBonusPct(streak)
	// The payout uses the bonus accumulated before this claim's XP
	// award; a level-up triggered below applies from the next claim on.
	levelPct := acc.LevelDailyBonus
	amount := dailyPayout(acc.BaseDaily, streakPct, levelPct)

	acc.DailyStreak = streak
	acc.Balance += amount
	acc.TotalEarned += amount
	claimedAt := now
	acc.LastDaily = &claimedAt

	levels := applyXP(acc, s.cfg.DailyXP)

	if err := s.repo.Save(acc); err != nil {
		return nil, fmt.Errorf("failed to persist daily claim: %w", err)
	}

	reward := &models.DailyReward{
		Amount:         amount,
		Streak:         streak,
		Level:          acc.Level,
		XPGained:       s.cfg.DailyXP,
		LeveledUp:      levels > 0,
		StreakBonusPct: streakPct,
		LevelBonusPct:  levelPct,
	}
	if levels > 0 {
		reward.NewLevel = acc.Level
	}

	if s.publisher != nil {
		s.publisher.Emit(ctx, events.DailyClaimedEvent{
			UserID: userID,
			Amount: amount,
			Streak: streak,
		})
	}
	s.emitBalanceChange(ctx, acc, amount, "daily")

	log.WithFields(log.Fields{
		"userID": userID,
		"amount": amount,
		"streak": streak,
	}).Info("Daily reward claimed")
	return reward, nil
}

func (s *ledgerService) Stats(ctx context.Context, userID string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.materialize(userID)
}
