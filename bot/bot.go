package bot

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"seyobot/bot/features/aichat"
	"seyobot/bot/features/leveling"
	"seyobot/bot/features/suggestions"
	"seyobot/bot/features/verification"
	"seyobot/bot/features/youtube"
	"seyobot/events"
	"seyobot/service"

	"github.com/bwmarrin/discordgo"
)

// Config holds bot configuration
type Config struct {
	Token string
}

type Bot struct {
	config          Config
	session         *discordgo.Session
	levelingService service.LevelingService
	eventBus        *events.Bus

	leveling     *leveling.Feature
	suggestions  *suggestions.Feature
	aichat       *aichat.Feature
	youtube      *youtube.Feature
	verification *verification.Feature
}

func New(
	config Config,
	levelingService service.LevelingService,
	guildConfigService service.GuildConfigService,
	suggestionService service.SuggestionService,
	aiChatService service.AIChatService,
	notifierService service.YouTubeNotifierService,
	verificationService service.VerificationService,
	eventBus *events.Bus,
) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	bot := &Bot{
		config:          config,
		session:         dg,
		levelingService: levelingService,
		eventBus:        eventBus,
		leveling:        leveling.NewFeature(dg, levelingService, guildConfigService),
		suggestions:     suggestions.NewFeature(dg, suggestionService, guildConfigService),
		aichat:          aichat.NewFeature(dg, aiChatService, guildConfigService),
		youtube:         youtube.NewFeature(dg, notifierService, guildConfigService),
		verification:    verification.NewFeature(dg, verificationService, guildConfigService),
	}

	// Register slash command handlers
	dg.AddHandler(bot.handleCommands)

	// Register gateway listeners
	dg.AddHandler(bot.onMessageCreate)
	dg.AddHandler(bot.onReactionAdd)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	// Committed level-ups and detected uploads arrive over the event bus
	eventBus.Subscribe(events.EventTypeLevelUp, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.LevelUpEvent); ok {
			bot.leveling.HandleLevelUpEvent(ctx, e.GuildID, e.UserID, e.OldLevel, e.NewLevel, e.XP, e.MaxXP)
		}
	})
	eventBus.Subscribe(events.EventTypeNewVideo, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.NewVideoEvent); ok {
			bot.youtube.HandleNewVideoEvent(e)
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

	switch i.ApplicationCommandData().Name {
	case "leveling":
		b.leveling.HandleSetupCommand(s, i)
	case "rank":
		b.leveling.HandleRankCommand(s, i)
	case "leaderboard":
		b.leveling.HandleLeaderboardCommand(s, i)
	case "xp":
		b.leveling.HandleXPCommand(s, i)
	case "suggestion":
		b.suggestions.HandleSetupCommand(s, i)
	case "suggest":
		b.suggestions.HandleSuggestCommand(s, i)
	case "ai":
		b.aichat.HandleCommand(s, i)
	case "yt":
		b.youtube.HandleCommand(s, i)
	case "ytsub":
		b.verification.HandleCommand(s, i)
	}
}

// onMessageCreate feeds guild chat into the verification, AI and leveling
// subsystems. Each one decides for itself whether the message concerns it.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	b.verification.HandleMessage(s, m)
	b.aichat.HandleMessage(s, m)
	b.grantPassiveXP(m)
}

func (b *Bot) grantPassiveXP(m *discordgo.MessageCreate) {
	guildID, err := parseSnowflake(m.GuildID)
	if err != nil {
		return
	}
	userID, err := parseSnowflake(m.Author.ID)
	if err != nil {
		return
	}

	if err := b.levelingService.HandleMessage(context.Background(), guildID, userID, time.Now()); err != nil {
		log.Errorf("Failed to grant passive XP to user %d in guild %d: %v", userID, guildID, err)
	}
}

func (b *Bot) onReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.GuildID == "" || r.UserID == s.State.User.ID {
		return
	}
	if r.Member != nil && r.Member.User != nil && r.Member.User.Bot {
		return
	}

	b.suggestions.HandleReactionAdd(s, r)
	b.verification.HandleReactionAdd(s, r)
}
