package service

import (
	"context"
	"fmt"

	"seyobot/models"
)

type guildConfigService struct {
	uowFactory UnitOfWorkFactory
}

// NewGuildConfigService creates a new guild config service
func NewGuildConfigService(uowFactory UnitOfWorkFactory) GuildConfigService {
	return &guildConfigService{uowFactory: uowFactory}
}

func (s *guildConfigService) GetConfig(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	cfg, err := uow.GuildConfigRepository().Get(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guild config: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return cfg, nil
}

func (s *guildConfigService) SetLevelChannel(ctx context.Context, guildID int64, channelID *int64) error {
	return s.update(ctx, guildID, func(cfg *models.GuildConfig) {
		cfg.LevelChannelID = channelID
	})
}

func (s *guildConfigService) SetSuggestionChannel(ctx context.Context, guildID int64, channelID *int64) error {
	return s.update(ctx, guildID, func(cfg *models.GuildConfig) {
		cfg.SuggestionChannelID = channelID
	})
}

func (s *guildConfigService) SetAIChat(ctx context.Context, guildID int64, enabled bool, channelID *int64) error {
	return s.update(ctx, guildID, func(cfg *models.GuildConfig) {
		cfg.AIEnabled = enabled
		cfg.AIChannelID = channelID
	})
}

func (s *guildConfigService) SetYouTubeNotifyChannel(ctx context.Context, guildID int64, channelID *int64) error {
	return s.update(ctx, guildID, func(cfg *models.GuildConfig) {
		cfg.YTNotifyChannelID = channelID
	})
}

func (s *guildConfigService) SetVerification(ctx context.Context, guildID int64, channelID, roleID *int64) error {
	return s.update(ctx, guildID, func(cfg *models.GuildConfig) {
		cfg.YTVerifyChannelID = channelID
		cfg.YTVerifyRoleID = roleID
	})
}

// update applies a mutation to the guild's row, creating it first if the guild
// has never been configured
func (s *guildConfigService) update(ctx context.Context, guildID int64, mutate func(*models.GuildConfig)) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	cfg, err := uow.GuildConfigRepository().GetOrCreate(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to get guild config: %w", err)
	}

	mutate(cfg)

	if err := uow.GuildConfigRepository().Update(ctx, cfg); err != nil {
		return fmt.Errorf("failed to update guild config: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
