package admin

import (
	"github.com/bwmarrin/discordgo"

	"coinbot/config"
	"coinbot/service"
)

type Feature struct {
	ledgerService     service.LedgerService
	moderationService service.ModerationService
	cfg               *config.Config
}

func New(ledgerService service.LedgerService, moderationService service.ModerationService, cfg *config.Config) *Feature {
	return &Feature{
		ledgerService:     ledgerService,
		moderationService: moderationService,
		cfg:               cfg,
	}
}

// HandleCommand routes the admin subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	switch options[0].Name {
	case "setlevel":
		f.handleSetLevel(s, i, options[0].Options)
	case "infinity":
		f.handleInfinity(s, i, options[0].Options)
	case "mute":
		f.handleMute(s, i, options[0].Options)
	case "unmute":
		f.handleUnmute(s, i, options[0].Options)
	case "mutes":
		f.handleMutes(s, i)
	case "disable":
		f.handleDisable(s, i, options[0].Options)
	case "enable":
		f.handleEnable(s, i, options[0].Options)
	case "prefix":
		f.handlePrefix(s, i, options[0].Options)
	}
}
