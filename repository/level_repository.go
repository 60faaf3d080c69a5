package repository

import (
	"context"
	"fmt"

	"seyobot/database"
	"seyobot/models"

	"github.com/jackc/pgx/v5"
)

// LevelRepository implements the service.LevelRepository interface
type LevelRepository struct {
	q queryable
}

// NewLevelRepository creates a new level repository
func NewLevelRepository(db *database.DB) *LevelRepository {
	return &LevelRepository{q: db.Pool}
}

// newLevelRepositoryWithTx creates a new level repository with a transaction
func newLevelRepositoryWithTx(tx queryable) *LevelRepository {
	return &LevelRepository{q: tx}
}

// Get retrieves the level record for a user in a guild, or nil if none exists
func (r *LevelRepository) Get(ctx context.Context, guildID, userID int64) (*models.LevelRecord, error) {
	query := `
		SELECT user_id, guild_id, xp, level, last_message_at
		FROM level_records
		WHERE user_id = $1 AND guild_id = $2
	`

	var record models.LevelRecord
	err := r.q.QueryRow(ctx, query, userID, guildID).Scan(
		&record.UserID,
		&record.GuildID,
		&record.XP,
		&record.Level,
		&record.LastMessageAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get level record for user %d in guild %d: %w", userID, guildID, err)
	}

	return &record, nil
}

// Upsert writes the full record in a single statement. This is the engine's
// atomic commit point: either the final (xp, level) pair lands or nothing does.
func (r *LevelRepository) Upsert(ctx context.Context, record *models.LevelRecord) error {
	query := `
		INSERT INTO level_records (user_id, guild_id, xp, level, last_message_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, guild_id)
		DO UPDATE SET xp = EXCLUDED.xp, level = EXCLUDED.level, last_message_at = EXCLUDED.last_message_at
	`

	_, err := r.q.Exec(ctx, query,
		record.UserID,
		record.GuildID,
		record.XP,
		record.Level,
		record.LastMessageAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert level record for user %d in guild %d: %w", record.UserID, record.GuildID, err)
	}

	return nil
}

// CountHigherRanked returns the number of records in the guild that outrank
// the given (level, xp) pair: strictly higher level, or equal level and
// strictly higher xp
func (r *LevelRepository) CountHigherRanked(ctx context.Context, guildID int64, level, xp int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM level_records
		WHERE guild_id = $1 AND (level > $2 OR (level = $2 AND xp > $3))
	`

	var count int
	if err := r.q.QueryRow(ctx, query, guildID, level, xp).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count higher ranked records in guild %d: %w", guildID, err)
	}

	return count, nil
}

// LeaderboardTop returns the guild's records ordered by (level, xp) descending
func (r *LevelRepository) LeaderboardTop(ctx context.Context, guildID int64, limit int) ([]*models.LevelRecord, error) {
	query := `
		SELECT user_id, guild_id, xp, level, last_message_at
		FROM level_records
		WHERE guild_id = $1
		ORDER BY level DESC, xp DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	var records []*models.LevelRecord
	for rows.Next() {
		var record models.LevelRecord
		err := rows.Scan(
			&record.UserID,
			&record.GuildID,
			&record.XP,
			&record.Level,
			&record.LastMessageAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan level record: %w", err)
		}
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate level records: %w", err)
	}

	return records, nil
}
