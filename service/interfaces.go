package service

import (
	"context"
	"time"

	"seyobot/events"
	"seyobot/models"
)

// LevelRepository defines the interface for level record data access
type LevelRepository interface {
	// Get retrieves the record for a user in a guild, or nil if none exists
	Get(ctx context.Context, guildID, userID int64) (*models.LevelRecord, error)

	// Upsert writes the full record in a single atomic statement
	Upsert(ctx context.Context, record *models.LevelRecord) error

	// CountHigherRanked counts records in the guild with strictly higher level,
	// or equal level and strictly higher xp
	CountHigherRanked(ctx context.Context, guildID int64, level, xp int) (int, error)

	// LeaderboardTop returns the guild's records ordered by (level, xp) descending
	LeaderboardTop(ctx context.Context, guildID int64, limit int) ([]*models.LevelRecord, error)
}

// GuildConfigRepository defines the interface for guild config data access
type GuildConfigRepository interface {
	// Get retrieves the config for a guild, or nil if never configured
	Get(ctx context.Context, guildID int64) (*models.GuildConfig, error)

	// GetOrCreate retrieves the guild config or creates a default row
	GetOrCreate(ctx context.Context, guildID int64) (*models.GuildConfig, error)

	// Update writes all configurable fields for an existing row
	Update(ctx context.Context, config *models.GuildConfig) error
}

// SuggestionRepository defines the interface for suggestion data access
type SuggestionRepository interface {
	// Create stores a newly posted suggestion
	Create(ctx context.Context, suggestion *models.Suggestion) error

	// GetByMessageID retrieves a suggestion by its Discord message ID, or nil
	GetByMessageID(ctx context.Context, messageID int64) (*models.Suggestion, error)

	// UpsertVote records or replaces a vote, returning the previous vote if any
	UpsertVote(ctx context.Context, vote *models.SuggestionVote) (*models.SuggestionVote, error)

	// UpdateTally recomputes and stores the vote counts for a suggestion
	UpdateTally(ctx context.Context, suggestionID int64) (*models.VoteCount, error)
}

// YouTubeChannelRepository defines the interface for tracked channel data access
type YouTubeChannelRepository interface {
	// Get retrieves a tracked channel for a guild, or nil if not tracked
	Get(ctx context.Context, channelID string, guildID int64) (*models.YouTubeChannel, error)

	// Create starts tracking a channel for a guild
	Create(ctx context.Context, channel *models.YouTubeChannel) error

	// TrackedWithNotifyChannel returns tracked channels joined with each
	// guild's configured notify channel
	TrackedWithNotifyChannel(ctx context.Context) ([]*models.YouTubeChannel, map[int64]int64, error)

	// UpdateLastVideo advances the stored last-seen upload
	UpdateLastVideo(ctx context.Context, channelID string, guildID int64, videoID string) error
}

// VerificationRepository defines the interface for verification data access
type VerificationRepository interface {
	// Get retrieves a user's verification record in a guild, or nil
	Get(ctx context.Context, guildID, userID int64) (*models.Verification, error)

	// Upsert stores a proof submission
	Upsert(ctx context.Context, verification *models.Verification) error

	// UpdateStatus records a moderation decision for an existing submission
	UpdateStatus(ctx context.Context, guildID, userID int64, status models.VerificationStatus) error
}

// LevelingService defines the interface for XP and level operations
type LevelingService interface {
	// AwardXP adds amount to the user's record, resolving any level-ups, and
	// returns the persisted record plus the number of levels gained
	AwardXP(ctx context.Context, guildID, userID int64, amount int) (*models.LevelRecord, int, error)

	// RemoveXP subtracts amount from the user's record, resolving any
	// level-downs and clamping at level 1 / xp 0
	RemoveXP(ctx context.Context, guildID, userID int64, amount int) (*models.LevelRecord, error)

	// HandleMessage grants passive XP for a chat message, subject to the
	// guild's leveling config and the per-user cooldown
	HandleMessage(ctx context.Context, guildID, userID int64, now time.Time) error

	// GetRank returns the user's progress and 1-based rank within the guild
	GetRank(ctx context.Context, guildID, userID int64) (*models.RankInfo, error)

	// Leaderboard returns the guild's top records with ranks resolved
	Leaderboard(ctx context.Context, guildID int64, limit int) ([]*models.RankInfo, error)
}

// GuildConfigService defines the interface for guild configuration operations
type GuildConfigService interface {
	// GetConfig retrieves the config for a guild, or nil if never configured
	GetConfig(ctx context.Context, guildID int64) (*models.GuildConfig, error)

	// SetLevelChannel sets or clears the level-up notification channel
	SetLevelChannel(ctx context.Context, guildID int64, channelID *int64) error

	// SetSuggestionChannel sets or clears the suggestion board channel
	SetSuggestionChannel(ctx context.Context, guildID int64, channelID *int64) error

	// SetAIChat updates the AI relay flag and optional dedicated channel
	SetAIChat(ctx context.Context, guildID int64, enabled bool, channelID *int64) error

	// SetYouTubeNotifyChannel sets or clears the upload notification channel
	SetYouTubeNotifyChannel(ctx context.Context, guildID int64, channelID *int64) error

	// SetVerification sets the proof channel and verified role
	SetVerification(ctx context.Context, guildID int64, channelID, roleID *int64) error
}

// SuggestionService defines the interface for the suggestion board
type SuggestionService interface {
	// CreateSuggestion stores a suggestion once its board message is posted
	CreateSuggestion(ctx context.Context, guildID, authorID, messageID int64, content string) (*models.Suggestion, error)

	// GetSuggestion retrieves a suggestion by message ID, or nil
	GetSuggestion(ctx context.Context, messageID int64) (*models.Suggestion, error)

	// Vote records a user's vote and returns the updated tally. The previous
	// vote, if any, is replaced.
	Vote(ctx context.Context, suggestionID, userID int64, vote int) (*models.VoteCount, error)
}

// Completer produces an AI completion for a prompt
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// AIChatService defines the interface for the AI chat relay
type AIChatService interface {
	// Relay checks the guild gate and the per-user budget, then forwards the
	// prompt to the completion backend
	Relay(ctx context.Context, guildID, channelID, userID int64, prompt string) (string, error)
}

// VideoProvider fetches upload metadata for a YouTube channel
type VideoProvider interface {
	// ResolveChannel extracts the channel ID and title from a channel URL
	ResolveChannel(ctx context.Context, channelURL string) (id, title string, err error)

	// Latest returns the most recent upload for a channel, or nil if the
	// channel has no videos
	Latest(ctx context.Context, channelID string) (*models.Video, error)
}

// YouTubeNotifierService defines the interface for upload notifications
type YouTubeNotifierService interface {
	// Track starts tracking a channel for a guild, seeding the last-seen video
	Track(ctx context.Context, guildID int64, channelURL string) (*models.YouTubeChannel, *models.Video, error)

	// CheckAll polls every tracked channel and publishes NewVideoEvents for
	// uploads newer than the stored last video
	CheckAll(ctx context.Context) error
}

// VerificationService defines the interface for subscription verification
type VerificationService interface {
	// SubmitProof records a pending proof submission
	SubmitProof(ctx context.Context, guildID, userID int64, proofURL string) error

	// Review records a moderation decision for a pending submission
	Review(ctx context.Context, guildID, userID int64, approved bool) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	LevelRepository() LevelRepository
	GuildConfigRepository() GuildConfigRepository
	SuggestionRepository() SuggestionRepository
	YouTubeChannelRepository() YouTubeChannelRepository
	VerificationRepository() VerificationRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
