package repository

import (
	"context"
	"fmt"

	"seyobot/database"
	"seyobot/models"

	"github.com/jackc/pgx/v5"
)

// YouTubeChannelRepository implements the service.YouTubeChannelRepository interface
type YouTubeChannelRepository struct {
	q queryable
}

// NewYouTubeChannelRepository creates a new YouTube channel repository
func NewYouTubeChannelRepository(db *database.DB) *YouTubeChannelRepository {
	return &YouTubeChannelRepository{q: db.Pool}
}

// newYouTubeChannelRepositoryWithTx creates a new YouTube channel repository with a transaction
func newYouTubeChannelRepositoryWithTx(tx queryable) *YouTubeChannelRepository {
	return &YouTubeChannelRepository{q: tx}
}

// Get retrieves a tracked channel for a guild, or nil if not tracked
func (r *YouTubeChannelRepository) Get(ctx context.Context, channelID string, guildID int64) (*models.YouTubeChannel, error) {
	query := `
		SELECT channel_id, guild_id, channel_title, last_video_id
		FROM youtube_channels
		WHERE channel_id = $1 AND guild_id = $2
	`

	var channel models.YouTubeChannel
	err := r.q.QueryRow(ctx, query, channelID, guildID).Scan(
		&channel.ChannelID,
		&channel.GuildID,
		&channel.ChannelTitle,
		&channel.LastVideoID,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get youtube channel %s for guild %d: %w", channelID, guildID, err)
	}

	return &channel, nil
}

// Create starts tracking a channel for a guild
func (r *YouTubeChannelRepository) Create(ctx context.Context, channel *models.YouTubeChannel) error {
	query := `
		INSERT INTO youtube_channels (channel_id, guild_id, channel_title, last_video_id)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.q.Exec(ctx, query,
		channel.ChannelID,
		channel.GuildID,
		channel.ChannelTitle,
		channel.LastVideoID,
	)
	if err != nil {
		return fmt.Errorf("failed to create youtube channel %s for guild %d: %w", channel.ChannelID, channel.GuildID, err)
	}

	return nil
}

// TrackedWithNotifyChannel joins tracked channels with their guild's notify
// channel, skipping guilds where notifications are not configured
func (r *YouTubeChannelRepository) TrackedWithNotifyChannel(ctx context.Context) ([]*models.YouTubeChannel, map[int64]int64, error) {
	query := `
		SELECT yc.channel_id, yc.guild_id, yc.channel_title, yc.last_video_id, gc.yt_notify_channel_id
		FROM youtube_channels yc
		JOIN guild_configs gc ON gc.guild_id = yc.guild_id
		WHERE gc.yt_notify_channel_id IS NOT NULL
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get tracked youtube channels: %w", err)
	}
	defer rows.Close()

	var channels []*models.YouTubeChannel
	notifyChannels := make(map[int64]int64)
	for rows.Next() {
		var channel models.YouTubeChannel
		var notifyChannelID int64
		err := rows.Scan(
			&channel.ChannelID,
			&channel.GuildID,
			&channel.ChannelTitle,
			&channel.LastVideoID,
			&notifyChannelID,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan youtube channel: %w", err)
		}
		channels = append(channels, &channel)
		notifyChannels[channel.GuildID] = notifyChannelID
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate youtube channels: %w", err)
	}

	return channels, notifyChannels, nil
}

// UpdateLastVideo advances the stored last-seen upload for a tracked channel
func (r *YouTubeChannelRepository) UpdateLastVideo(ctx context.Context, channelID string, guildID int64, videoID string) error {
	query := `
		UPDATE youtube_channels
		SET last_video_id = $3
		WHERE channel_id = $1 AND guild_id = $2
	`

	result, err := r.q.Exec(ctx, query, channelID, guildID, videoID)
	if err != nil {
		return fmt.Errorf("failed to update last video for channel %s in guild %d: %w", channelID, guildID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("youtube channel %s for guild %d not found", channelID, guildID)
	}

	return nil
}
