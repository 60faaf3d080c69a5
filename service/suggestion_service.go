package service

import (
	"context"
	"fmt"
	"strings"

	"seyobot/models"
)

type suggestionService struct {
	uowFactory UnitOfWorkFactory
}

// NewSuggestionService creates a new suggestion board service
func NewSuggestionService(uowFactory UnitOfWorkFactory) SuggestionService {
	return &suggestionService{uowFactory: uowFactory}
}

func (s *suggestionService) CreateSuggestion(ctx context.Context, guildID, authorID, messageID int64, content string) (*models.Suggestion, error) {
	if strings.TrimSpace(content) == "" {
		return nil, NewValidationError("content", "must not be empty")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	suggestion := &models.Suggestion{
		MessageID: messageID,
		GuildID:   guildID,
		AuthorID:  authorID,
		Content:   content,
	}
	if err := uow.SuggestionRepository().Create(ctx, suggestion); err != nil {
		return nil, fmt.Errorf("failed to create suggestion: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return suggestion, nil
}

func (s *suggestionService) GetSuggestion(ctx context.Context, messageID int64) (*models.Suggestion, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	suggestion, err := uow.SuggestionRepository().GetByMessageID(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to get suggestion: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return suggestion, nil
}

// Vote records a user's vote on a suggestion. A repeated identical vote is a
// no-op on the tally; a changed vote replaces the previous one. Both the vote
// row and the recomputed tally land in the same transaction.
func (s *suggestionService) Vote(ctx context.Context, suggestionID, userID int64, vote int) (*models.VoteCount, error) {
	if vote != models.VoteUp && vote != models.VoteDown {
		return nil, NewValidationError("vote", "must be an upvote or a downvote")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	suggestion, err := uow.SuggestionRepository().GetByMessageID(ctx, suggestionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get suggestion: %w", err)
	}
	if suggestion == nil {
		return nil, NewNotFoundError("suggestion", fmt.Sprintf("%d", suggestionID))
	}

	if _, err := uow.SuggestionRepository().UpsertVote(ctx, &models.SuggestionVote{
		UserID:       userID,
		SuggestionID: suggestionID,
		Vote:         vote,
	}); err != nil {
		return nil, fmt.Errorf("failed to record vote: %w", err)
	}

	tally, err := uow.SuggestionRepository().UpdateTally(ctx, suggestionID)
	if err != nil {
		return nil, fmt.Errorf("failed to update tally: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return tally, nil
}
