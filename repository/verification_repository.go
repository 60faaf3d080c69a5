package repository

import (
	"context"
	"fmt"

	"seyobot/database"
	"seyobot/models"

	"github.com/jackc/pgx/v5"
)

// VerificationRepository implements the service.VerificationRepository interface
type VerificationRepository struct {
	q queryable
}

// NewVerificationRepository creates a new verification repository
func NewVerificationRepository(db *database.DB) *VerificationRepository {
	return &VerificationRepository{q: db.Pool}
}

// newVerificationRepositoryWithTx creates a new verification repository with a transaction
func newVerificationRepositoryWithTx(tx queryable) *VerificationRepository {
	return &VerificationRepository{q: tx}
}

// Get retrieves a user's verification record in a guild, or nil
func (r *VerificationRepository) Get(ctx context.Context, guildID, userID int64) (*models.Verification, error) {
	query := `
		SELECT user_id, guild_id, status, proof_url, submitted_at
		FROM yt_verifications
		WHERE user_id = $1 AND guild_id = $2
	`

	var verification models.Verification
	err := r.q.QueryRow(ctx, query, userID, guildID).Scan(
		&verification.UserID,
		&verification.GuildID,
		&verification.Status,
		&verification.ProofURL,
		&verification.SubmittedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get verification for user %d in guild %d: %w", userID, guildID, err)
	}

	return &verification, nil
}

// Upsert stores a proof submission, resetting status to pending on resubmission
func (r *VerificationRepository) Upsert(ctx context.Context, verification *models.Verification) error {
	query := `
		INSERT INTO yt_verifications (user_id, guild_id, status, proof_url, submitted_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id, guild_id)
		DO UPDATE SET status = EXCLUDED.status, proof_url = EXCLUDED.proof_url, submitted_at = NOW()
	`

	_, err := r.q.Exec(ctx, query,
		verification.UserID,
		verification.GuildID,
		verification.Status,
		verification.ProofURL,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert verification for user %d in guild %d: %w", verification.UserID, verification.GuildID, err)
	}

	return nil
}

// UpdateStatus records a moderation decision for an existing submission
func (r *VerificationRepository) UpdateStatus(ctx context.Context, guildID, userID int64, status models.VerificationStatus) error {
	query := `
		UPDATE yt_verifications
		SET status = $3
		WHERE user_id = $1 AND guild_id = $2
	`

	result, err := r.q.Exec(ctx, query, userID, guildID, status)
	if err != nil {
		return fmt.Errorf("failed to update verification status for user %d in guild %d: %w", userID, guildID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("verification for user %d in guild %d not found", userID, guildID)
	}

	return nil
}
