package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken   string
	DiscordGuildID string

	// Storage configuration
	DataDir string

	// Economy configuration
	StartingBalance int64
	BaseDailyMin    int64 // inclusive range for the per-account base daily roll
	BaseDailyMax    int64
	DailyXP         int64 // XP awarded per daily claim

	// Owner configuration
	OwnerIDs []string // accounts with infinity mode forced on

	// Bot configuration
	DefaultPrefix string

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// IsOwner reports whether a user ID belongs to the configured owner set.
// Every place the privilege override applies goes through this check.
func (c *Config) IsOwner(userID string) bool {
	for _, id := range c.OwnerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Discord
		DiscordToken:   os.Getenv("DISCORD_TOKEN"),
		DiscordGuildID: os.Getenv("DISCORD_GUILD_ID"),

		// Storage with defaults
		DataDir: "data",

		// Economy settings with defaults
		StartingBalance: 1000,
		BaseDailyMin:    2000,
		BaseDailyMax:    3500,
		DailyXP:         10,

		// Bot settings with defaults
		DefaultPrefix: "+",

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if dir := os.Getenv("DATA_DIR"); dir != "" {
		config.DataDir = dir
	}
	if balance := os.Getenv("STARTING_BALANCE"); balance != "" {
		if parsedBalance, err := strconv.ParseInt(balance, 10, 64); err == nil {
			config.StartingBalance = parsedBalance
		}
	}
	if prefix := os.Getenv("DEFAULT_PREFIX"); prefix != "" {
		config.DefaultPrefix = prefix
	}

	// Parse owner IDs
	if ownerIDs := os.Getenv("BOT_OWNER_IDS"); ownerIDs != "" {
		idStrings := strings.Split(ownerIDs, ",")
		for _, idStr := range idStrings {
			idStr = strings.TrimSpace(idStr)
			if idStr != "" {
				config.OwnerIDs = append(config.OwnerIDs, idStr)
			}
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
	}

	return config, nil
}
