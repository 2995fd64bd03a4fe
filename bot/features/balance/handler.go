package balance

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"coinbot/bot/common"
	"coinbot/models"
	"coinbot/service"
)

func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := i.Member.User.ID

	acc, err := f.ledgerService.GetOrCreate(ctx, userID)
	if err != nil {
		log.Errorf("Error getting account for %s: %v", userID, err)
		common.RespondWithError(s, i, "Unable to retrieve balance. Please try again.")
		return
	}

	wallet := acc.Balance
	bank := acc.Bank
	if acc.Infinity {
		wallet = models.InfiniteBalance
		bank = models.InfiniteBalance
	}

	displayName := common.GetDisplayName(s, i.GuildID, userID)
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s's balance", displayName),
		Color: 0xF1C40F,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Wallet", Value: fmt.Sprintf("**%s** coins", common.FormatCoins(wallet)), Inline: true},
			{Name: "Bank", Value: fmt.Sprintf("**%s** coins", common.FormatCoins(bank)), Inline: true},
			{Name: "Level", Value: fmt.Sprintf("%d", acc.Level), Inline: true},
		},
	}
	common.RespondWithEmbed(s, i, embed, false)
}

func (f *Feature) handleDeposit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := i.Member.User.ID

	amount := intOption(i, "amount")
	if err := f.ledgerService.Deposit(ctx, userID, amount); err != nil {
		respondMoneyError(s, i, err, "deposit")
		return
	}

	banked, err := f.ledgerService.Banked(ctx, userID)
	if err != nil {
		log.Errorf("Error reading bank for %s after deposit: %v", userID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	common.RespondWithMessage(s, i, fmt.Sprintf("🏦 Deposited **%s coins**. Bank balance: **%s coins**",
		common.FormatBalance(amount), common.FormatCoins(banked)))
}

func (f *Feature) handleWithdraw(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := i.Member.User.ID

	amount := intOption(i, "amount")
	if err := f.ledgerService.Withdraw(ctx, userID, amount); err != nil {
		respondMoneyError(s, i, err, "withdraw")
		return
	}

	spendable, err := f.ledgerService.Spendable(ctx, userID)
	if err != nil {
		log.Errorf("Error reading wallet for %s after withdraw: %v", userID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	common.RespondWithMessage(s, i, fmt.Sprintf("💵 Withdrew **%s coins**. Wallet balance: **%s coins**",
		common.FormatBalance(amount), common.FormatCoins(spendable)))
}

func (f *Feature) handleGive(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	fromID := i.Member.User.ID

	var amount int64
	var recipient *discordgo.User
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "amount":
			amount = opt.IntValue()
		case "user":
			recipient = opt.UserValue(s)
		}
	}
	if recipient == nil {
		common.RespondWithError(s, i, "Invalid recipient user.")
		return
	}

	if err := f.ledgerService.Transfer(ctx, fromID, recipient.ID, amount); err != nil {
		switch {
		case errors.Is(err, service.ErrSelfTransfer):
			common.RespondWithError(s, i, "You cannot give coins to yourself.")
		case errors.Is(err, service.ErrInvalidAmount):
			common.RespondWithError(s, i, "Amount must be positive.")
		case errors.Is(err, service.ErrInsufficientFunds):
			common.RespondWithError(s, i, "You don't have enough coins in your wallet.")
		default:
			log.Errorf("Error transferring %d from %s to %s: %v", amount, fromID, recipient.ID, err)
			common.RespondWithError(s, i, "Unable to process request. Please try again.")
		}
		return
	}

	common.RespondWithMessage(s, i, fmt.Sprintf("✅ Gave **%s coins** to <@%s>",
		common.FormatBalance(amount), recipient.ID))
}

func (f *Feature) handleStats(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	target := i.Member.User
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "user" {
			target = opt.UserValue(s)
		}
	}

	acc, err := f.ledgerService.Stats(ctx, target.ID)
	if err != nil {
		log.Errorf("Error getting stats for %s: %v", target.ID, err)
		common.RespondWithError(s, i, "Unable to retrieve stats. Please try again.")
		return
	}

	wallet := acc.Balance
	bank := acc.Bank
	if acc.Infinity {
		wallet = models.InfiniteBalance
		bank = models.InfiniteBalance
	}

	displayName := common.GetDisplayName(s, i.GuildID, target.ID)
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("📊 %s's stats", displayName),
		Color: 0x3498DB,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Wallet", Value: common.FormatCoins(wallet), Inline: true},
			{Name: "Bank", Value: common.FormatCoins(bank), Inline: true},
			{Name: "Level", Value: fmt.Sprintf("%d", acc.Level), Inline: true},
			{Name: "XP", Value: common.FormatBalance(acc.XP), Inline: true},
			{Name: "Daily streak", Value: fmt.Sprintf("%d", acc.DailyStreak), Inline: true},
			{Name: "Daily bonus", Value: fmt.Sprintf("+%.2f%%", acc.LevelDailyBonus), Inline: true},
			{Name: "Total earned", Value: common.FormatBalance(acc.TotalEarned), Inline: true},
			{Name: "Total spent", Value: common.FormatBalance(acc.TotalSpent), Inline: true},
			{Name: "Record", Value: fmt.Sprintf("%dW / %dL", acc.Wins, acc.Losses), Inline: true},
		},
	}
	common.RespondWithEmbed(s, i, embed, false)
}

// intOption pulls a named integer option off the interaction, 0 if absent
func intOption(i *discordgo.InteractionCreate, name string) int64 {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == name {
			return opt.IntValue()
		}
	}
	return 0
}

func respondMoneyError(s *discordgo.Session, i *discordgo.InteractionCreate, err error, verb string) {
	switch {
	case errors.Is(err, service.ErrInvalidAmount):
		common.RespondWithError(s, i, "Amount must be positive.")
	case errors.Is(err, service.ErrInsufficientFunds):
		common.RespondWithError(s, i, fmt.Sprintf("You don't have enough coins to %s that much.", verb))
	default:
		log.Errorf("Error on %s: %v", verb, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
	}
}
