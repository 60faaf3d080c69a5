package service

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"seyobot/events"
	"seyobot/models"
)

type youtubeNotifierService struct {
	uowFactory UnitOfWorkFactory
	provider   VideoProvider
}

// NewYouTubeNotifierService creates a new upload notifier service
func NewYouTubeNotifierService(uowFactory UnitOfWorkFactory, provider VideoProvider) YouTubeNotifierService {
	return &youtubeNotifierService{
		uowFactory: uowFactory,
		provider:   provider,
	}
}

// Track starts tracking a channel for a guild. The current latest upload is
// stored as the baseline so tracking never announces a video that predates it.
func (s *youtubeNotifierService) Track(ctx context.Context, guildID int64, channelURL string) (*models.YouTubeChannel, *models.Video, error) {
	channelID, title, err := s.provider.ResolveChannel(ctx, channelURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve channel: %w", err)
	}

	latest, err := s.provider.Latest(ctx, channelID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch latest video: %w", err)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	existing, err := uow.YouTubeChannelRepository().Get(ctx, channelID, guildID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check tracked channel: %w", err)
	}
	if existing != nil {
		return nil, nil, ErrAlreadyTracked
	}

	channel := &models.YouTubeChannel{
		ChannelID:    channelID,
		GuildID:      guildID,
		ChannelTitle: title,
	}
	if latest != nil {
		channel.LastVideoID = latest.ID
	}

	if err := uow.YouTubeChannelRepository().Create(ctx, channel); err != nil {
		return nil, nil, fmt.Errorf("failed to track channel: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return channel, latest, nil
}

// CheckAll polls every tracked channel once. A failed fetch for one channel is
// logged and skipped; the remaining channels are still checked.
func (s *youtubeNotifierService) CheckAll(ctx context.Context) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	channels, notifyChannels, err := uow.YouTubeChannelRepository().TrackedWithNotifyChannel(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tracked channels: %w", err)
	}

	for _, channel := range channels {
		latest, err := s.provider.Latest(ctx, channel.ChannelID)
		if err != nil {
			log.WithFields(log.Fields{
				"channelID": channel.ChannelID,
				"guildID":   channel.GuildID,
			}).WithError(err).Warn("Failed to poll channel, skipping")
			continue
		}
		if latest == nil || latest.ID == channel.LastVideoID {
			continue
		}

		if err := uow.YouTubeChannelRepository().UpdateLastVideo(ctx, channel.ChannelID, channel.GuildID, latest.ID); err != nil {
			return fmt.Errorf("failed to advance last video: %w", err)
		}

		uow.EventBus().Publish(events.NewVideoEvent{
			GuildID:         channel.GuildID,
			NotifyChannelID: notifyChannels[channel.GuildID],
			ChannelID:       channel.ChannelID,
			ChannelTitle:    channel.ChannelTitle,
			VideoID:         latest.ID,
			VideoTitle:      latest.Title,
			VideoURL:        latest.URL,
			Thumbnail:       latest.Thumbnail,
			UploadedAt:      latest.Published.Format("2006-01-02 15:04"),
		})

		log.WithFields(log.Fields{
			"channelID": channel.ChannelID,
			"guildID":   channel.GuildID,
			"videoID":   latest.ID,
		}).Info("New upload detected")
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
