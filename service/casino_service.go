package service

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"coinbot/events"
	"coinbot/models"
)

// Forced-win multipliers for infinity accounts, per game.
const (
	infinityCoinMultiplier      int64 = 5
	infinitySlotsMultiplier     int64 = 100000
	infinityDiceMultiplier      int64 = 10
	infinityBlackjackMultiplier int64 = 10
)

// Slot machine reel alphabet and the three-match multipliers for the
// special symbols; any other triple pays x5, any pair pays x2.
var slotSymbols = [6]string{"🍒", "🍋", "🍊", "🍇", "💎", "7️⃣"}

const (
	slotDiamond = "💎"
	slotSeven   = "7️⃣"
)

type casinoService struct {
	ledger    LedgerService
	publisher EventPublisher
	rng       Rand

	mu    sync.Mutex
	games map[string]*sync.Mutex
}

// NewCasinoService creates a new casino service. A nil rng falls back
// to a locked time-seeded source.
func NewCasinoService(ledger LedgerService, publisher EventPublisher, rng Rand) CasinoService {
	if rng == nil {
		rng = NewLockedRand(rand.New(rand.NewSource(time.Now().UnixNano())))
	}
	return &casinoService{
		ledger:    ledger,
		publisher: publisher,
		rng:       rng,
		games:     make(map[string]*sync.Mutex),
	}
}

// gameLock returns the per-account round lock. Holding it from the
// funds check through settlement keeps two concurrent games on the same
// account from both passing the check against the same balance.
func (s *casinoService) gameLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.games[userID]
	if !ok {
		l = &sync.Mutex{}
		s.games[userID] = l
	}
	return l
}

// stake validates the bet and checks funds. It reports whether the
// bettor has infinity mode; infinity accounts skip the funds check and
// never have the bet at risk.
func (s *casinoService) stake(ctx context.Context, userID string, bet int64) (bool, error) {
	if bet <= 0 {
		return false, ErrInvalidAmount
	}
	infinity, err := s.ledger.IsInfinity(ctx, userID)
	if err != nil {
		return false, err
	}
	if infinity {
		return true, nil
	}
	spendable, err := s.ledger.Spendable(ctx, userID)
	if err != nil {
		return false, err
	}
	if spendable < bet {
		return false, ErrInsufficientFunds
	}
	return false, nil
}

func (s *casinoService) emitGame(ctx context.Context, userID, game string, r models.GameResult) {
	if s.publisher == nil {
		return
	}
	s.publisher.Emit(ctx, events.GamePlayedEvent{
		UserID:    userID,
		Game:      game,
		BetAmount: r.BetAmount,
		Outcome:   string(r.Outcome),
		Payout:    r.Payout,
		Forced:    r.Forced,
	})
}

// forceWin settles the infinity override: credit bet times the game's
// fixed multiplier, record a win, never touch the stake.
func (s *casinoService) forceWin(ctx context.Context, userID, game string, bet, multiplier int64) (models.GameResult, error) {
	payout := bet * multiplier
	if err := s.ledger.Credit(ctx, userID, payout, false); err != nil {
		return models.GameResult{}, fmt.Errorf("failed to credit forced win: %w", err)
	}
	if err := s.ledger.RecordWin(ctx, userID); err != nil {
		return models.GameResult{}, err
	}
	result := models.GameResult{
		Outcome:    models.OutcomeWin,
		Forced:     true,
		BetAmount:  bet,
		Payout:     payout,
		NewBalance: models.InfiniteBalance,
	}
	s.emitGame(ctx, userID, game, result)
	return result, nil
}

func (s *casinoService) settleWin(ctx context.Context, userID, game string, bet, payout int64) (models.GameResult, error) {
	if err := s.ledger.Credit(ctx, userID, payout, false); err != nil {
		return models.GameResult{}, fmt.Errorf("failed to credit winnings: %w", err)
	}
	if err := s.ledger.RecordWin(ctx, userID); err != nil {
		return models.GameResult{}, err
	}
	newBalance, err := s.ledger.Spendable(ctx, userID)
	if err != nil {
		return models.GameResult{}, err
	}
	result := models.GameResult{
		Outcome:    models.OutcomeWin,
		BetAmount:  bet,
		Payout:     payout,
		NewBalance: newBalance,
	}
	s.emitGame(ctx, userID, game, result)
	return result, nil
}

func (s *casinoService) settleLoss(ctx context.Context, userID, game string, bet int64) (models.GameResult, error) {
	// The per-account round lock held since the funds check keeps the
	// balance from moving between check and debit, so a failed debit
	// here is an infrastructure error, not a refusal.
	if err := s.ledger.Debit(ctx, userID, bet, false); err != nil {
		return models.GameResult{}, fmt.Errorf("failed to debit bet: %w", err)
	}
	if err := s.ledger.RecordLoss(ctx, userID); err != nil {
		return models.GameResult{}, err
	}
	newBalance, err := s.ledger.Spendable(ctx, userID)
	if err != nil {
		return models.GameResult{}, err
	}
	result := models.GameResult{
		Outcome:    models.OutcomeLoss,
		BetAmount:  bet,
		NewBalance: newBalance,
	}
	s.emitGame(ctx, userID, game, result)
	return result, nil
}

func (s *casinoService) settlePush(ctx context.Context, userID, game string, bet int64) (models.GameResult, error) {
	// A push is neither a win nor a loss; no counters, no balance change.
	newBalance, err := s.ledger.Spendable(ctx, userID)
	if err != nil {
		return models.GameResult{}, err
	}
	result := models.GameResult{
		Outcome:    models.OutcomePush,
		BetAmount:  bet,
		NewBalance: newBalance,
	}
	s.emitGame(ctx, userID, game, result)
	return result, nil
}

func (s *casinoService) CoinFlip(ctx context.Context, userID string, call models.CoinSide, bet int64) (*models.CoinFlipResult, error) {
	if call != models.Heads && call != models.Tails {
		return nil, ErrInvalidCall
	}
	lock := s.gameLock(userID)
	lock.Lock()
	defer lock.Unlock()

	infinity, err := s.stake(ctx, userID, bet)
	if err != nil {
		return nil, err
	}

	if infinity {
		gr, err := s.forceWin(ctx, userID, "coinflip", bet, infinityCoinMultiplier)
		if err != nil {
			return nil, err
		}
		return &models.CoinFlipResult{GameResult: gr, Call: call, Landed: call}, nil
	}

	landed := models.Heads
	if s.rng.Intn(2) == 1 {
		landed = models.Tails
	}

	var gr models.GameResult
	if landed == call {
		gr, err = s.settleWin(ctx, userID, "coinflip", bet, bet)
	} else {
		gr, err = s.settleLoss(ctx, userID, "coinflip", bet)
	}
	if err != nil {
		return nil, err
	}
	return &models.CoinFlipResult{GameResult: gr, Call: call, Landed: landed}, nil
}

func (s *casinoService) Slots(ctx context.Context, userID string, bet int64) (*models.SlotsResult, error) {
	lock := s.gameLock(userID)
	lock.Lock()
	defer lock.Unlock()

	infinity, err := s.stake(ctx, userID, bet)
	if err != nil {
		return nil, err
	}

	if infinity {
		gr, err := s.forceWin(ctx, userID, "slots", bet, infinitySlotsMultiplier)
		if err != nil {
			return nil, err
		}
		return &models.SlotsResult{
			GameResult: gr,
			Reels:      [3]string{slotDiamond, slotDiamond, slotDiamond},
			Jackpot:    models.JackpotMega,
			Multiplier: infinitySlotsMultiplier,
		}, nil
	}

	// Rare jackpot pre-roll. The bands are checked before and
	// independently of the reels; the reel draw only happens on a miss.
	roll := s.rng.Float64() * 100
	var (
		tier       models.JackpotTier
		multiplier int64
		reels      [3]string
	)
	switch {
	case roll < 0.25:
		tier, multiplier = models.JackpotMega, 100000
		reels = [3]string{slotDiamond, slotDiamond, slotDiamond}
	case roll < 2.25:
		tier, multiplier = models.JackpotSuper, 100
		reels = [3]string{slotSeven, slotSeven, slotSeven}
	case roll < 7.25:
		tier, multiplier = models.JackpotUltra, 50
		reels = [3]string{"⭐", "⭐", "⭐"}
	}

	if tier != models.JackpotNone {
		gr, err := s.settleWin(ctx, userID, "slots", bet, bet*multiplier)
		if err != nil {
			return nil, err
		}
		log.WithFields(log.Fields{
			"userID": userID,
			"tier":   tier,
			"payout": gr.Payout,
		}).Info("Slot jackpot hit")
		return &models.SlotsResult{GameResult: gr, Reels: reels, Jackpot: tier, Multiplier: multiplier}, nil
	}

	for i := range reels {
		reels[i] = slotSymbols[s.rng.Intn(len(slotSymbols))]
	}

	var gr models.GameResult
	switch {
	case reels[0] == reels[1] && reels[1] == reels[2]:
		switch reels[0] {
		case slotDiamond:
			multiplier = 10
		case slotSeven:
			multiplier = 7
		default:
			multiplier = 5
		}
		gr, err = s.settleWin(ctx, userID, "slots", bet, bet*multiplier)
	case reels[0] == reels[1] || reels[1] == reels[2] || reels[0] == reels[2]:
		multiplier = 2
		gr, err = s.settleWin(ctx, userID, "slots", bet, bet)
	default:
		gr, err = s.settleLoss(ctx, userID, "slots", bet)
	}
	if err != nil {
		return nil, err
	}
	return &models.SlotsResult{GameResult: gr, Reels: reels, Jackpot: models.JackpotNone, Multiplier: multiplier}, nil
}

func (s *casinoService) Dice(ctx context.Context, userID string, call models.DiceCall, bet int64) (*models.DiceResult, error) {
	if call != models.High && call != models.Low {
		return nil, ErrInvalidCall
	}
	lock := s.gameLock(userID)
	lock.Lock()
	defer lock.Unlock()

	infinity, err := s.stake(ctx, userID, bet)
	if err != nil {
		return nil, err
	}

	if infinity {
		gr, err := s.forceWin(ctx, userID, "dice", bet, infinityDiceMultiplier)
		if err != nil {
			return nil, err
		}
		dice := [3]int{6, 6, 6}
		if call == models.Low {
			dice = [3]int{1, 1, 1}
		}
		return &models.DiceResult{
			GameResult: gr,
			Call:       call,
			Landed:     call,
			Dice:       dice,
			Total:      dice[0] + dice[1] + dice[2],
		}, nil
	}

	var dice [3]int
	total := 0
	for i := range dice {
		dice[i] = s.rng.Intn(6) + 1
		total += dice[i]
	}

	// 11 and up is high, 10 and down is low.
	landed := models.Low
	if total >= 11 {
		landed = models.High
	}

	var gr models.GameResult
	if landed == call {
		gr, err = s.settleWin(ctx, userID, "dice", bet, bet)
	} else {
		gr, err = s.settleLoss(ctx, userID, "dice", bet)
	}
	if err != nil {
		return nil, err
	}
	return &models.DiceResult{GameResult: gr, Call: call, Landed: landed, Dice: dice, Total: total}, nil
}

func (s *casinoService) Blackjack(ctx context.Context, userID string, bet int64) (*models.BlackjackResult, error) {
	lock := s.gameLock(userID)
	lock.Lock()
	defer lock.Unlock()

	infinity, err := s.stake(ctx, userID, bet)
	if err != nil {
		return nil, err
	}

	if infinity {
		gr, err := s.forceWin(ctx, userID, "blackjack", bet, infinityBlackjackMultiplier)
		if err != nil {
			return nil, err
		}
		return &models.BlackjackResult{
			GameResult:  gr,
			PlayerHand:  []string{"A", "K"},
			DealerHand:  []string{"7", "9"},
			PlayerTotal: 21,
			DealerTotal: 16,
			Natural:     true,
		}, nil
	}

	deck := newDeck(s.rng)
	draw := func() string {
		card := deck[len(deck)-1]
		deck = deck[:len(deck)-1]
		return card
	}

	playerHand := []string{draw(), draw()}
	dealerHand := []string{draw(), draw()}
	playerTotal := handValue(playerHand)
	dealerTotal := handValue(dealerHand)

	// A two-card 21 wins immediately at 3:2 without the dealer drawing.
	if playerTotal == 21 {
		payout := int64(math.Floor(float64(bet) * 1.5))
		gr, err := s.settleWin(ctx, userID, "blackjack", bet, payout)
		if err != nil {
			return nil, err
		}
		return &models.BlackjackResult{
			GameResult:  gr,
			PlayerHand:  playerHand,
			DealerHand:  dealerHand,
			PlayerTotal: playerTotal,
			DealerTotal: dealerTotal,
			Natural:     true,
		}, nil
	}

	for dealerTotal < 17 {
		dealerHand = append(dealerHand, draw())
		dealerTotal = handValue(dealerHand)
	}

	var gr models.GameResult
	switch {
	case dealerTotal > 21 || playerTotal > dealerTotal:
		gr, err = s.settleWin(ctx, userID, "blackjack", bet, bet)
	case playerTotal == dealerTotal:
		gr, err = s.settlePush(ctx, userID, "blackjack", bet)
	default:
		gr, err = s.settleLoss(ctx, userID, "blackjack", bet)
	}
	if err != nil {
		return nil, err
	}
	return &models.BlackjackResult{
		GameResult:  gr,
		PlayerHand:  playerHand,
		DealerHand:  dealerHand,
		PlayerTotal: playerTotal,
		DealerTotal: dealerTotal,
	}, nil
}

var blackjackRanks = []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}

func newDeck(rng Rand) []string {
	deck := make([]string, 0, 52)
	for i := 0; i < 4; i++ {
		deck = append(deck, blackjackRanks...)
	}
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return deck
}

func cardValue(card string) int {
	switch card {
	case "J", "Q", "K":
		return 10
	case "A":
		return 11
	default:
		n, _ := strconv.Atoi(card)
		return n
	}
}

// handValue totals a hand with aces as 11, dropping them to 1 one at a
// time while the hand is bust.
func handValue(hand []string) int {
	value := 0
	aces := 0
	for _, card := range hand {
		value += cardValue(card)
		if card == "A" {
			aces++
		}
	}
	for value > 21 && aces > 0 {
		value -= 10
		aces--
	}
	return value
}
