package casino

import (
	"github.com/bwmarrin/discordgo"

	"coinbot/service"
)

type Feature struct {
	casinoService service.CasinoService
}

func New(casinoService service.CasinoService) *Feature {
	return &Feature{
		casinoService: casinoService,
	}
}

// HandleCommand routes the chance game commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "coinflip":
		f.handleCoinFlip(s, i)
	case "slots":
		f.handleSlots(s, i)
	case "dice":
		f.handleDice(s, i)
	case "blackjack":
		f.handleBlackjack(s, i)
	}
}
