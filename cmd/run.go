package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"seyobot/ai"
	"seyobot/bot"
	"seyobot/config"
	"seyobot/database"
	"seyobot/events"
	"seyobot/repository"
	"seyobot/service"
	"seyobot/youtube"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting seyobot...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize services
	log.Println("Initializing services...")
	levelingService := service.NewLevelingService(uowFactory, service.NewCooldownGate(cfg.XPCooldown), cfg)
	guildConfigService := service.NewGuildConfigService(uowFactory)
	suggestionService := service.NewSuggestionService(uowFactory)
	aiChatService := service.NewAIChatService(uowFactory, ai.NewClient(cfg.OpenAIAPIKey), service.NewRateLimiter(cfg.AIRequestsPerMinute, time.Minute))
	notifierService := service.NewYouTubeNotifierService(uowFactory, youtube.NewFeedProvider())
	verificationService := service.NewVerificationService(uowFactory)
	log.Println("Services initialized successfully")

	// Initialize Discord bot
	log.Println("Initializing Discord bot...")
	discordBot, err := bot.New(
		bot.Config{Token: cfg.DiscordToken},
		levelingService,
		guildConfigService,
		suggestionService,
		aiChatService,
		notifierService,
		verificationService,
		eventBus,
	)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Println("Discord bot initialized successfully")

	// Start background workers
	stopPollWorker := discordBot.StartYouTubePollWorker(ctx, notifierService, cfg.YouTubePollInterval)

	// Wait for context cancellation
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down bot...")
	stopPollWorker()

	// Close Discord bot connection
	if err := discordBot.Close(); err != nil {
		log.Printf("Error closing Discord bot: %v", err)
	}

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Close database connection
	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
