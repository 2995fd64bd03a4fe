package cmd

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"coinbot/bot"
	"coinbot/config"
	"coinbot/events"
	"coinbot/repository"
	"coinbot/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting coinbot...")

	// Load configuration
	cfg := config.Get()

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize repositories over the flat-file data directory
	log.Printf("Using data directory %q", cfg.DataDir)
	accountRepo := repository.NewAccountRepository(cfg.DataDir)
	inventoryRepo := repository.NewInventoryRepository(cfg.DataDir)
	moderationRepo := repository.NewModerationRepository(cfg.DataDir)

	// Initialize services
	log.Println("Initializing services...")
	rng := service.NewLockedRand(rand.New(rand.NewSource(time.Now().UnixNano())))
	ledgerService := service.NewLedgerService(accountRepo, cfg, eventBus, rng)
	casinoService := service.NewCasinoService(ledgerService, eventBus, rng)
	shopService := service.NewShopService(ledgerService, inventoryRepo)
	moderationService := service.NewModerationService(moderationRepo, cfg)
	log.Println("Services initialized successfully")

	// Initialize Discord bot
	log.Println("Initializing Discord bot...")
	discordBot, err := bot.New(cfg, ledgerService, casinoService, shopService, moderationService, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Println("Discord bot initialized successfully")

	// Wait for context cancellation
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down bot...")
	if err := discordBot.Close(); err != nil {
		log.Printf("Error closing Discord bot: %v", err)
	}
	log.Println("Shutdown completed")

	return nil
}
