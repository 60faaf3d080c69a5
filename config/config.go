package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken string

	// OpenAI configuration
	OpenAIAPIKey string

	// Database configuration
	DatabaseURL string

	// Leveling configuration
	XPCooldown   time.Duration // Minimum interval between passive XP grants per user
	XPAwardMin   int           // Lower bound of the passive XP roll (inclusive)
	XPAwardMax   int           // Upper bound of the passive XP roll (inclusive)

	// AI chat configuration
	AIRequestsPerMinute int // Per-user request budget for the AI relay

	// YouTube notifier configuration
	YouTubePollInterval time.Duration

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

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		DiscordToken: os.Getenv("DISCORD_TOKEN"),
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),

		// Leveling defaults
		XPCooldown: 60 * time.Second,
		XPAwardMin: 15,
		XPAwardMax: 25,

		// AI chat defaults
		AIRequestsPerMinute: 5,

		// YouTube notifier defaults
		YouTubePollInterval: 10 * time.Minute,

		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if cooldown := os.Getenv("XP_COOLDOWN_SECONDS"); cooldown != "" {
		if parsed, err := strconv.Atoi(cooldown); err == nil && parsed > 0 {
			config.XPCooldown = time.Duration(parsed) * time.Second
		}
	}
	if interval := os.Getenv("YT_POLL_INTERVAL_MINUTES"); interval != "" {
		if parsed, err := strconv.Atoi(interval); err == nil && parsed > 0 {
			config.YouTubePollInterval = time.Duration(parsed) * time.Minute
		}
	}
	if limit := os.Getenv("AI_REQUESTS_PER_MINUTE"); limit != "" {
		if parsed, err := strconv.Atoi(limit); err == nil && parsed > 0 {
			config.AIRequestsPerMinute = parsed
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
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
