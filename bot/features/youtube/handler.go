package youtube

import (
	"context"
	"errors"
	"fmt"

	"seyobot/bot/common"
	"seyobot/events"
	"seyobot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleSetup handles /yt setup [channel]: picks or creates the notification
// channel and stores its ID
func (f *Feature) handleSetup(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.IsUserAdmin(s, i.GuildID, i.Member.User.ID) {
		common.RespondWithError(s, i, "You need administrator permissions to use this command")
		return
	}

	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", i.GuildID, err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	var channelIDStr string
	for _, opt := range i.ApplicationCommandData().Options[0].Options {
		if opt.Name == "channel" {
			channelIDStr = opt.ChannelValue(s).ID
		}
	}

	if channelIDStr == "" {
		channel, err := s.GuildChannelCreate(i.GuildID, "youtube-uploads", discordgo.ChannelTypeGuildText)
		if err != nil {
			log.Errorf("Failed to create upload channel in guild %d: %v", guildID, err)
			common.RespondWithError(s, i, "Failed to create the youtube-uploads channel. Check my permissions.")
			return
		}
		channelIDStr = channel.ID
	}

	channelID, err := common.ParseSnowflake(channelIDStr)
	if err != nil {
		log.Errorf("Failed to parse channel ID %s: %v", channelIDStr, err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	if err := f.guildConfigService.SetYouTubeNotifyChannel(context.Background(), guildID, &channelID); err != nil {
		log.Errorf("Failed to store notify channel for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Failed to save notification settings")
		return
	}

	if err := common.RespondWithSuccess(s, i, fmt.Sprintf("Upload notifications will be posted in <#%s>", channelIDStr), false); err != nil {
		log.Errorf("Failed to respond to yt setup: %v", err)
	}
}

// handleAdd handles /yt add <url>: resolves the channel and starts tracking it
func (f *Feature) handleAdd(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !common.IsUserAdmin(s, i.GuildID, i.Member.User.ID) {
		common.RespondWithError(s, i, "You need administrator permissions to use this command")
		return
	}

	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", i.GuildID, err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	var channelURL string
	for _, opt := range i.ApplicationCommandData().Options[0].Options {
		if opt.Name == "url" {
			channelURL = opt.StringValue()
		}
	}
	if channelURL == "" {
		common.RespondWithError(s, i, "A channel URL is required")
		return
	}

	// Feed resolution takes a couple of network round trips
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Failed to defer yt add response: %v", err)
		return
	}

	channel, latest, err := f.notifierService.Track(context.Background(), guildID, channelURL)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyTracked) {
			common.FollowUpWithError(s, i, "That channel is already being tracked here")
			return
		}
		log.Errorf("Failed to track channel %q for guild %d: %v", channelURL, guildID, err)
		common.FollowUpWithError(s, i, "Couldn't resolve that channel. Double-check the URL.")
		return
	}

	message := fmt.Sprintf("Now tracking **%s**.", channel.ChannelTitle)
	if latest != nil {
		message += fmt.Sprintf(" New uploads after *%s* will be announced.", latest.Title)
	}
	common.FollowUpWithContent(s, i, "✅ "+message, false)
}

// HandleNewVideoEvent posts an upload announcement to the guild's configured
// channel. State is already advanced; delivery failures are only logged.
func (f *Feature) HandleNewVideoEvent(event events.NewVideoEvent) {
	if event.NotifyChannelID == 0 {
		return
	}
	channelID := common.FormatSnowflake(event.NotifyChannelID)

	if _, err := f.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: fmt.Sprintf("📺 **%s** uploaded a new video!", event.ChannelTitle),
		Embed:   newVideoEmbed(event),
	}); err != nil {
		log.Errorf("Failed to announce video %s in guild %d: %v", event.VideoID, event.GuildID, err)
	}
}

func newVideoEmbed(event events.NewVideoEvent) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: event.VideoTitle,
		URL:   event.VideoURL,
		Color: 0xED4245,
		Author: &discordgo.MessageEmbedAuthor{
			Name: event.ChannelTitle,
		},
	}
	if event.Thumbnail != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: event.Thumbnail}
	}
	if event.UploadedAt != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "Uploaded " + event.UploadedAt}
	}
	return embed
}
