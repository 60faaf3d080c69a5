package repository

import (
	"context"
	"fmt"

	"seyobot/database"
	"seyobot/models"

	"github.com/jackc/pgx/v5"
)

// SuggestionRepository implements the service.SuggestionRepository interface
type SuggestionRepository struct {
	q queryable
}

// NewSuggestionRepository creates a new suggestion repository
func NewSuggestionRepository(db *database.DB) *SuggestionRepository {
	return &SuggestionRepository{q: db.Pool}
}

// newSuggestionRepositoryWithTx creates a new suggestion repository with a transaction
func newSuggestionRepositoryWithTx(tx queryable) *SuggestionRepository {
	return &SuggestionRepository{q: tx}
}

// Create stores a newly posted suggestion
func (r *SuggestionRepository) Create(ctx context.Context, suggestion *models.Suggestion) error {
	query := `
		INSERT INTO suggestions (message_id, guild_id, author_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		suggestion.MessageID,
		suggestion.GuildID,
		suggestion.AuthorID,
		suggestion.Content,
	).Scan(&suggestion.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create suggestion %d: %w", suggestion.MessageID, err)
	}

	return nil
}

// GetByMessageID retrieves a suggestion by its Discord message ID, or nil
func (r *SuggestionRepository) GetByMessageID(ctx context.Context, messageID int64) (*models.Suggestion, error) {
	query := `
		SELECT message_id, guild_id, author_id, content, upvotes, downvotes, created_at
		FROM suggestions
		WHERE message_id = $1
	`

	var suggestion models.Suggestion
	err := r.q.QueryRow(ctx, query, messageID).Scan(
		&suggestion.MessageID,
		&suggestion.GuildID,
		&suggestion.AuthorID,
		&suggestion.Content,
		&suggestion.Upvotes,
		&suggestion.Downvotes,
		&suggestion.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get suggestion %d: %w", messageID, err)
	}

	return &suggestion, nil
}

// UpsertVote records or replaces a user's vote on a suggestion and returns the
// vote previously stored, if any
func (r *SuggestionRepository) UpsertVote(ctx context.Context, vote *models.SuggestionVote) (*models.SuggestionVote, error) {
	var previous models.SuggestionVote
	err := r.q.QueryRow(ctx, `
		SELECT user_id, suggestion_id, vote
		FROM suggestion_votes
		WHERE user_id = $1 AND suggestion_id = $2
	`, vote.UserID, vote.SuggestionID).Scan(&previous.UserID, &previous.SuggestionID, &previous.Vote)

	hadPrevious := true
	if err == pgx.ErrNoRows {
		hadPrevious = false
	} else if err != nil {
		return nil, fmt.Errorf("failed to check existing vote: %w", err)
	}

	_, err = r.q.Exec(ctx, `
		INSERT INTO suggestion_votes (user_id, suggestion_id, vote)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, suggestion_id) DO UPDATE SET vote = EXCLUDED.vote
	`, vote.UserID, vote.SuggestionID, vote.Vote)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert vote for suggestion %d: %w", vote.SuggestionID, err)
	}

	if !hadPrevious {
		return nil, nil
	}
	return &previous, nil
}

// UpdateTally recomputes and stores the vote counts for a suggestion, returning
// the fresh tally
func (r *SuggestionRepository) UpdateTally(ctx context.Context, suggestionID int64) (*models.VoteCount, error) {
	query := `
		UPDATE suggestions s
		SET upvotes = t.up, downvotes = t.down
		FROM (
			SELECT
				COUNT(*) FILTER (WHERE vote = 1) AS up,
				COUNT(*) FILTER (WHERE vote = -1) AS down
			FROM suggestion_votes
			WHERE suggestion_id = $1
		) t
		WHERE s.message_id = $1
		RETURNING t.up, t.down
	`

	var count models.VoteCount
	err := r.q.QueryRow(ctx, query, suggestionID).Scan(&count.Upvotes, &count.Downvotes)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("suggestion %d not found", suggestionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update tally for suggestion %d: %w", suggestionID, err)
	}

	return &count, nil
}
