package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"coinbot/bot/common"
	"coinbot/bot/features/admin"
	"coinbot/bot/features/balance"
	"coinbot/bot/features/casino"
	"coinbot/bot/features/daily"
	"coinbot/bot/features/shop"
	"coinbot/config"
	"coinbot/events"
	"coinbot/service"
)

type Bot struct {
	cfg     *config.Config
	session *discordgo.Session

	ledgerService     service.LedgerService
	moderationService service.ModerationService
	eventBus          *events.Bus

	balanceFeature *balance.Feature
	dailyFeature   *daily.Feature
	casinoFeature  *casino.Feature
	shopFeature    *shop.Feature
	adminFeature   *admin.Feature

	// per-user message XP cooldown bookkeeping
	xpMu     sync.Mutex
	xpSeen   map[string]time.Time
	xpRandFn func() int64
}

func New(cfg *config.Config, ledgerService service.LedgerService, casinoService service.CasinoService, shopService service.ShopService, moderationService service.ModerationService, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsAllWithoutPrivileged | discordgo.IntentsMessageContent | discordgo.IntentsGuildMembers

	bot := &Bot{
		cfg:               cfg,
		session:           dg,
		ledgerService:     ledgerService,
		moderationService: moderationService,
		eventBus:          eventBus,
		balanceFeature:    balance.New(ledgerService),
		dailyFeature:      daily.New(ledgerService),
		casinoFeature:     casino.New(casinoService),
		shopFeature:       shop.New(shopService),
		adminFeature:      admin.New(ledgerService, moderationService, cfg),
		xpSeen:            make(map[string]time.Time),
	}

	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(bot.handleMessage)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	// Big wins get a log line; forced infinity wins are flagged so the
	// numbers don't skew any later analysis of the logs.
	eventBus.Subscribe(events.EventTypeGamePlayed, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.GamePlayedEvent); ok && e.Payout >= 100_000 {
			log.WithFields(log.Fields{
				"user":   e.UserID,
				"game":   e.Game,
				"payout": e.Payout,
				"forced": e.Forced,
			}).Info("Big win")
		}
	})

	return bot, nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if i.Member == nil || i.Member.User == nil {
		return
	}

	name := i.ApplicationCommandData().Name
	if b.moderationService.IsCommandDisabled(context.Background(), i.ChannelID, name) {
		common.RespondWithError(s, i, fmt.Sprintf("`%s` is disabled in this channel.", name))
		return
	}

	switch name {
	case "balance", "deposit", "withdraw", "give", "stats":
		b.balanceFeature.HandleCommand(s, i)
	case "daily":
		b.dailyFeature.HandleCommand(s, i)
	case "coinflip", "slots", "dice", "blackjack":
		b.casinoFeature.HandleCommand(s, i)
	case "shop":
		b.shopFeature.HandleCommand(s, i)
	case "admin":
		b.adminFeature.HandleCommand(s, i)
	}
}
