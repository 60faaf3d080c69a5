package repository

import (
	"context"
	"fmt"

	"seyobot/database"
	"seyobot/models"

	"github.com/jackc/pgx/v5"
)

// GuildConfigRepository implements the service.GuildConfigRepository interface
type GuildConfigRepository struct {
	q queryable
}

// NewGuildConfigRepository creates a new guild config repository
func NewGuildConfigRepository(db *database.DB) *GuildConfigRepository {
	return &GuildConfigRepository{q: db.Pool}
}

// newGuildConfigRepositoryWithTx creates a new guild config repository with a transaction
func newGuildConfigRepositoryWithTx(tx queryable) *GuildConfigRepository {
	return &GuildConfigRepository{q: tx}
}

const guildConfigColumns = `guild_id, yt_verify_channel_id, yt_verify_role_id,
	suggestion_channel_id, level_channel_id, ai_enabled, ai_channel_id, yt_notify_channel_id`

func scanGuildConfig(row pgx.Row) (*models.GuildConfig, error) {
	var config models.GuildConfig
	err := row.Scan(
		&config.GuildID,
		&config.YTVerifyChannelID,
		&config.YTVerifyRoleID,
		&config.SuggestionChannelID,
		&config.LevelChannelID,
		&config.AIEnabled,
		&config.AIChannelID,
		&config.YTNotifyChannelID,
	)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// Get retrieves the config for a guild, or nil if the guild has never been configured
func (r *GuildConfigRepository) Get(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	query := `SELECT ` + guildConfigColumns + ` FROM guild_configs WHERE guild_id = $1`

	config, err := scanGuildConfig(r.q.QueryRow(ctx, query, guildID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get guild config for guild %d: %w", guildID, err)
	}

	return config, nil
}

// GetOrCreate retrieves the guild config or creates a default row if not found
func (r *GuildConfigRepository) GetOrCreate(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	config, err := r.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if config != nil {
		return config, nil
	}

	insertQuery := `
		INSERT INTO guild_configs (guild_id)
		VALUES ($1)
		ON CONFLICT (guild_id) DO NOTHING
		RETURNING ` + guildConfigColumns

	config, err = scanGuildConfig(r.q.QueryRow(ctx, insertQuery, guildID))
	if err == pgx.ErrNoRows {
		// Lost a race with a concurrent insert; read the winner's row
		return r.Get(ctx, guildID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create guild config for guild %d: %w", guildID, err)
	}

	return config, nil
}

// Update writes all configurable fields for an existing guild config row
func (r *GuildConfigRepository) Update(ctx context.Context, config *models.GuildConfig) error {
	query := `
		UPDATE guild_configs
		SET yt_verify_channel_id = $2,
		    yt_verify_role_id = $3,
		    suggestion_channel_id = $4,
		    level_channel_id = $5,
		    ai_enabled = $6,
		    ai_channel_id = $7,
		    yt_notify_channel_id = $8
		WHERE guild_id = $1
	`

	result, err := r.q.Exec(ctx, query,
		config.GuildID,
		config.YTVerifyChannelID,
		config.YTVerifyRoleID,
		config.SuggestionChannelID,
		config.LevelChannelID,
		config.AIEnabled,
		config.AIChannelID,
		config.YTNotifyChannelID,
	)
	if err != nil {
		return fmt.Errorf("failed to update guild config for guild %d: %w", config.GuildID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("guild config for guild %d not found", config.GuildID)
	}

	return nil
}
