package repository

import (
	"context"
	"fmt"

	"seyobot/database"
	"seyobot/events"
	"seyobot/service"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the service.UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	levelRepo        service.LevelRepository
	guildConfigRepo  service.GuildConfigRepository
	suggestionRepo   service.SuggestionRepository
	youtubeRepo      service.YouTubeChannelRepository
	verificationRepo service.VerificationRepository
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories with the transaction
	u.levelRepo = newLevelRepositoryWithTx(tx)
	u.guildConfigRepo = newGuildConfigRepositoryWithTx(tx)
	u.suggestionRepo = newSuggestionRepositoryWithTx(tx)
	u.youtubeRepo = newYouTubeChannelRepositoryWithTx(tx)
	u.verificationRepo = newVerificationRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction and flushes pending events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Flush pending events after successful commit
	if u.transactionalBus != nil {
		u.transactionalBus.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction and discards pending events
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	return nil
}

// LevelRepository returns the level repository for this unit of work
func (u *unitOfWork) LevelRepository() service.LevelRepository {
	if u.levelRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.levelRepo
}

// GuildConfigRepository returns the guild config repository for this unit of work
func (u *unitOfWork) GuildConfigRepository() service.GuildConfigRepository {
	if u.guildConfigRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.guildConfigRepo
}

// SuggestionRepository returns the suggestion repository for this unit of work
func (u *unitOfWork) SuggestionRepository() service.SuggestionRepository {
	if u.suggestionRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.suggestionRepo
}

// YouTubeChannelRepository returns the YouTube channel repository for this unit of work
func (u *unitOfWork) YouTubeChannelRepository() service.YouTubeChannelRepository {
	if u.youtubeRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.youtubeRepo
}

// VerificationRepository returns the verification repository for this unit of work
func (u *unitOfWork) VerificationRepository() service.VerificationRepository {
	if u.verificationRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.verificationRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.transactionalBus == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalBus
}
