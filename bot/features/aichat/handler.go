package aichat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"seyobot/bot/common"
	"seyobot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleSetup handles /ai setup: creates a dedicated chat channel and enables
// the relay for the guild
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

	channel, err := s.GuildChannelCreate(i.GuildID, "ai-chat", discordgo.ChannelTypeGuildText)
	if err != nil {
		log.Errorf("Failed to create AI channel in guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Failed to create the ai-chat channel. Check my permissions.")
		return
	}

	channelID, err := common.ParseSnowflake(channel.ID)
	if err != nil {
		log.Errorf("Failed to parse channel ID %s: %v", channel.ID, err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	if err := f.guildConfigService.SetAIChat(context.Background(), guildID, true, &channelID); err != nil {
		log.Errorf("Failed to store AI settings for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Failed to save AI settings")
		return
	}

	if err := common.RespondWithSuccess(s, i, fmt.Sprintf("AI chat enabled in <#%s>", channel.ID), false); err != nil {
		log.Errorf("Failed to respond to ai setup: %v", err)
	}
}

// handleToggle handles /ai enable and /ai disable, keeping any configured
// channel in place
func (f *Feature) handleToggle(s *discordgo.Session, i *discordgo.InteractionCreate, enabled bool) {
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

	ctx := context.Background()
	cfg, err := f.guildConfigService.GetConfig(ctx, guildID)
	if err != nil {
		log.Errorf("Failed to load config for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Failed to update AI settings")
		return
	}

	var channelID *int64
	if cfg != nil {
		channelID = cfg.AIChannelID
	}

	if err := f.guildConfigService.SetAIChat(ctx, guildID, enabled, channelID); err != nil {
		log.Errorf("Failed to store AI settings for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Failed to update AI settings")
		return
	}

	message := "AI chat disabled"
	if enabled {
		message = "AI chat enabled"
	}
	if err := common.RespondWithSuccess(s, i, message, false); err != nil {
		log.Errorf("Failed to respond to ai toggle: %v", err)
	}
}

// HandleMessage relays chat messages to the completion backend. Triggers on
// messages in the configured AI channel, or anywhere the bot is mentioned.
func (f *Feature) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	guildID, err := common.ParseSnowflake(m.GuildID)
	if err != nil {
		return
	}

	prompt := strings.TrimSpace(strings.ReplaceAll(m.Content, s.State.User.Mention(), ""))

	cfg, err := f.guildConfigService.GetConfig(context.Background(), guildID)
	if err != nil {
		log.Errorf("Failed to load config for guild %d: %v", guildID, err)
		return
	}
	if cfg == nil || !cfg.AIEnabled {
		return
	}

	inAIChannel := cfg.AIChannelID != nil && common.FormatSnowflake(*cfg.AIChannelID) == m.ChannelID
	mentioned := false
	for _, user := range m.Mentions {
		if user.ID == s.State.User.ID {
			mentioned = true
			break
		}
	}
	if !inAIChannel && !mentioned {
		return
	}

	channelID, err := common.ParseSnowflake(m.ChannelID)
	if err != nil {
		return
	}
	userID, err := common.ParseSnowflake(m.Author.ID)
	if err != nil {
		return
	}

	_ = s.ChannelTyping(m.ChannelID)

	reply, err := f.aiChatService.Relay(context.Background(), guildID, relayChannelID(cfg.AIChannelID, channelID, inAIChannel), userID, prompt)
	if err != nil {
		f.respondRelayError(s, m, err)
		return
	}

	for _, chunk := range common.SplitMessage(reply) {
		if _, err := s.ChannelMessageSendReply(m.ChannelID, chunk, m.Reference()); err != nil {
			log.Errorf("Failed to send AI reply in channel %s: %v", m.ChannelID, err)
			return
		}
	}
}

// relayChannelID picks the channel ID handed to the service gate. A mention
// outside the dedicated channel passes the configured channel so the gate
// admits it; the reply still goes where the user asked.
func relayChannelID(configured *int64, actual int64, inAIChannel bool) int64 {
	if inAIChannel || configured == nil {
		return actual
	}
	return *configured
}

func (f *Feature) respondRelayError(s *discordgo.Session, m *discordgo.MessageCreate, err error) {
	switch {
	case errors.Is(err, service.ErrRateLimited):
		if _, sendErr := s.ChannelMessageSendReply(m.ChannelID, "⏳ You're sending requests too fast. Try again in a minute.", m.Reference()); sendErr != nil {
			log.Errorf("Failed to send rate limit notice: %v", sendErr)
		}
	case errors.Is(err, service.ErrFeatureDisabled):
		// Gate said no; stay silent in ordinary chat
	default:
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			return
		}
		log.Errorf("AI relay failed in channel %s: %v", m.ChannelID, err)
		if _, sendErr := s.ChannelMessageSendReply(m.ChannelID, "❌ I couldn't reach the AI service. Please try again later.", m.Reference()); sendErr != nil {
			log.Errorf("Failed to send AI error notice: %v", sendErr)
		}
	}
}
