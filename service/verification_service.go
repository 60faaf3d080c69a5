package service

import (
	"context"
	"fmt"
	"time"

	"seyobot/models"
)

type verificationService struct {
	uowFactory UnitOfWorkFactory
}

// NewVerificationService creates a new subscription verification service
func NewVerificationService(uowFactory UnitOfWorkFactory) VerificationService {
	return &verificationService{uowFactory: uowFactory}
}

// SubmitProof records a proof submission. A resubmission replaces the previous
// record and resets its status to pending.
func (s *verificationService) SubmitProof(ctx context.Context, guildID, userID int64, proofURL string) error {
	if proofURL == "" {
		return NewValidationError("proof", "a screenshot or link is required")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.VerificationRepository().Upsert(ctx, &models.Verification{
		UserID:      userID,
		GuildID:     guildID,
		Status:      models.VerificationPending,
		ProofURL:    proofURL,
		SubmittedAt: time.Now(),
	}); err != nil {
		return fmt.Errorf("failed to store proof submission: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Review records a moderation decision for an existing pending submission
func (s *verificationService) Review(ctx context.Context, guildID, userID int64, approved bool) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	verification, err := uow.VerificationRepository().Get(ctx, guildID, userID)
	if err != nil {
		return fmt.Errorf("failed to get verification: %w", err)
	}
	if verification == nil {
		return NewNotFoundError("verification", fmt.Sprintf("user %d in guild %d", userID, guildID))
	}

	status := models.VerificationRejected
	if approved {
		status = models.VerificationApproved
	}
	if err := uow.VerificationRepository().UpdateStatus(ctx, guildID, userID, status); err != nil {
		return fmt.Errorf("failed to update verification status: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
