package casino

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"coinbot/bot/common"
	"coinbot/models"
	"coinbot/service"
)

func (f *Feature) handleCoinFlip(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := i.Member.User.ID

	var call models.CoinSide
	var bet int64
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "call":
			call = models.CoinSide(opt.StringValue())
		case "bet":
			bet = opt.IntValue()
		}
	}

	result, err := f.casinoService.CoinFlip(ctx, userID, call, bet)
	if err != nil {
		respondGameError(s, i, err, "coinflip")
		return
	}

	coin := "🪙"
	lines := []string{fmt.Sprintf("%s The coin landed on **%s**!", coin, result.Landed)}
	lines = append(lines, outcomeLine(result.GameResult))
	common.RespondWithMessage(s, i, strings.Join(lines, "\n"))
}

func (f *Feature) handleSlots(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := i.Member.User.ID

	bet := betOption(i)
	result, err := f.casinoService.Slots(ctx, userID, bet)
	if err != nil {
		respondGameError(s, i, err, "slots")
		return
	}

	var lines []string
	switch result.Jackpot {
	case models.JackpotMega:
		lines = append(lines, "💎💎💎 **MEGA JACKPOT!** 💎💎💎")
	case models.JackpotSuper:
		lines = append(lines, "🌟 **SUPER JACKPOT!** 🌟")
	case models.JackpotUltra:
		lines = append(lines, "✨ **ULTRA JACKPOT!** ✨")
	default:
		lines = append(lines, fmt.Sprintf("🎰 | %s | %s | %s |", result.Reels[0], result.Reels[1], result.Reels[2]))
	}
	if result.Multiplier > 1 {
		lines = append(lines, fmt.Sprintf("Multiplier: **×%s**", common.FormatBalance(result.Multiplier)))
	}
	lines = append(lines, outcomeLine(result.GameResult))
	common.RespondWithMessage(s, i, strings.Join(lines, "\n"))
}

func (f *Feature) handleDice(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := i.Member.User.ID

	var call models.DiceCall
	var bet int64
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "call":
			call = models.DiceCall(opt.StringValue())
		case "bet":
			bet = opt.IntValue()
		}
	}

	result, err := f.casinoService.Dice(ctx, userID, call, bet)
	if err != nil {
		respondGameError(s, i, err, "dice")
		return
	}

	lines := []string{fmt.Sprintf("🎲 You rolled **%d + %d + %d = %d** (%s)",
		result.Dice[0], result.Dice[1], result.Dice[2], result.Total, result.Landed)}
	lines = append(lines, outcomeLine(result.GameResult))
	common.RespondWithMessage(s, i, strings.Join(lines, "\n"))
}

func (f *Feature) handleBlackjack(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := i.Member.User.ID

	bet := betOption(i)
	result, err := f.casinoService.Blackjack(ctx, userID, bet)
	if err != nil {
		respondGameError(s, i, err, "blackjack")
		return
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("🃏 Your hand: %s (**%d**)",
		strings.Join(result.PlayerHand, " "), result.PlayerTotal))
	lines = append(lines, fmt.Sprintf("🤖 Dealer hand: %s (**%d**)",
		strings.Join(result.DealerHand, " "), result.DealerTotal))
	if result.Natural {
		lines = append(lines, "✨ **Blackjack!** Natural 21 pays 3:2.")
	}
	lines = append(lines, outcomeLine(result.GameResult))
	common.RespondWithMessage(s, i, strings.Join(lines, "\n"))
}

// outcomeLine renders the money movement line shared by every game reply
func outcomeLine(r models.GameResult) string {
	switch r.Outcome {
	case models.OutcomeWin:
		return fmt.Sprintf("🎉 **You won %s coins!** Balance: **%s**",
			common.FormatBalance(r.Payout), common.FormatCoins(r.NewBalance))
	case models.OutcomePush:
		return fmt.Sprintf("🤝 **Push.** Your bet was returned. Balance: **%s**",
			common.FormatCoins(r.NewBalance))
	default:
		return fmt.Sprintf("😔 **You lost %s coins.** Balance: **%s**",
			common.FormatBalance(r.BetAmount), common.FormatCoins(r.NewBalance))
	}
}

func betOption(i *discordgo.InteractionCreate) int64 {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "bet" {
			return opt.IntValue()
		}
	}
	return 0
}

func respondGameError(s *discordgo.Session, i *discordgo.InteractionCreate, err error, game string) {
	switch {
	case errors.Is(err, service.ErrInvalidAmount):
		common.RespondWithError(s, i, "Bet must be positive.")
	case errors.Is(err, service.ErrInvalidCall):
		common.RespondWithError(s, i, "Invalid call.")
	case errors.Is(err, service.ErrInsufficientFunds):
		common.RespondWithError(s, i, "You don't have enough coins in your wallet for that bet.")
	default:
		log.Errorf("Error playing %s: %v", game, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
	}
}
