package balance

import (
	"github.com/bwmarrin/discordgo"

	"coinbot/service"
)

type Feature struct {
	ledgerService service.LedgerService
}

func New(ledgerService service.LedgerService) *Feature {
	return &Feature{
		ledgerService: ledgerService,
	}
}

// HandleCommand routes the money commands owned by this feature
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "balance":
		f.handleBalance(s, i)
	case "deposit":
		f.handleDeposit(s, i)
	case "withdraw":
		f.handleWithdraw(s, i)
	case "give":
		f.handleGive(s, i)
	case "stats":
		f.handleStats(s, i)
	}
}
