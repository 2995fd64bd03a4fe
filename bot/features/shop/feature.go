package shop

import (
	"github.com/bwmarrin/discordgo"

	"coinbot/service"
)

type Feature struct {
	shopService service.ShopService
}

func New(shopService service.ShopService) *Feature {
	return &Feature{
		shopService: shopService,
	}
}

// HandleCommand routes the shop subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	switch options[0].Name {
	case "list":
		f.handleList(s, i)
	case "buy":
		f.handleBuy(s, i, options[0].Options)
	case "give":
		f.handleGive(s, i, options[0].Options)
	case "inventory":
		f.handleInventory(s, i, options[0].Options)
	}
}
