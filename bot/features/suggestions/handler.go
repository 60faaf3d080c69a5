package suggestions

import (
	"context"
	"fmt"

	"seyobot/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleSetup handles /suggestion: creates a read-only board channel and
// stores its ID. Members vote with reactions; only the bot posts there.
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

	channel, err := s.GuildChannelCreateComplex(i.GuildID, discordgo.GuildChannelCreateData{
		Name: "suggestions",
		Type: discordgo.ChannelTypeGuildText,
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			{
				ID:   i.GuildID, // @everyone role shares the guild ID
				Type: discordgo.PermissionOverwriteTypeRole,
				Deny: discordgo.PermissionSendMessages,
			},
		},
	})
	if err != nil {
		log.Errorf("Failed to create suggestion channel in guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Failed to create the suggestions channel. Check my permissions.")
		return
	}

	channelID, err := common.ParseSnowflake(channel.ID)
	if err != nil {
		log.Errorf("Failed to parse channel ID %s: %v", channel.ID, err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	if err := f.guildConfigService.SetSuggestionChannel(context.Background(), guildID, &channelID); err != nil {
		log.Errorf("Failed to store suggestion channel for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Failed to save suggestion settings")
		return
	}

	if err := common.RespondWithSuccess(s, i, fmt.Sprintf("Suggestion board created: <#%s>. Use /suggest to post.", channel.ID), false); err != nil {
		log.Errorf("Failed to respond to suggestion setup: %v", err)
	}
}

// handleSuggest handles /suggest <text>: posts the suggestion embed to the
// board, seeds vote reactions, and stores the row keyed by the message ID
func (f *Feature) handleSuggest(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", i.GuildID, err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	var content string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "text" {
			content = opt.StringValue()
		}
	}
	if content == "" {
		common.RespondWithError(s, i, "Suggestion text is required")
		return
	}

	cfg, err := f.guildConfigService.GetConfig(context.Background(), guildID)
	if err != nil {
		log.Errorf("Failed to load config for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Unable to process suggestion. Please try again.")
		return
	}
	if cfg == nil || cfg.SuggestionChannelID == nil {
		common.RespondWithError(s, i, "The suggestion board is not set up. An admin must run /suggestion first.")
		return
	}

	authorName := common.GetDisplayName(s, i.GuildID, i.Member.User.ID)
	boardChannelID := common.FormatSnowflake(*cfg.SuggestionChannelID)

	message, err := s.ChannelMessageSendEmbed(boardChannelID, suggestionEmbed(authorName, i.Member.User.AvatarURL(""), content))
	if err != nil {
		log.Errorf("Failed to post suggestion in guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Failed to post your suggestion. Check my permissions.")
		return
	}

	for _, emoji := range []string{emojiUpvote, emojiDownvote} {
		if err := s.MessageReactionAdd(boardChannelID, message.ID, emoji); err != nil {
			log.Errorf("Failed to seed %s reaction on suggestion %s: %v", emoji, message.ID, err)
		}
	}

	messageID, err := common.ParseSnowflake(message.ID)
	if err != nil {
		log.Errorf("Failed to parse message ID %s: %v", message.ID, err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	authorID, err := common.ParseSnowflake(i.Member.User.ID)
	if err != nil {
		log.Errorf("Failed to parse user ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	if _, err := f.suggestionService.CreateSuggestion(context.Background(), guildID, authorID, messageID, content); err != nil {
		log.Errorf("Failed to store suggestion %d: %v", messageID, err)
		// The board message is already up; remove it so state stays consistent
		if delErr := s.ChannelMessageDelete(boardChannelID, message.ID); delErr != nil {
			log.Errorf("Failed to delete orphaned suggestion message %s: %v", message.ID, delErr)
		}
		common.RespondWithError(s, i, "Failed to save your suggestion. Please try again.")
		return
	}

	if err := common.RespondWithSuccess(s, i, fmt.Sprintf("Your suggestion was posted in <#%s>", boardChannelID), true); err != nil {
		log.Errorf("Failed to respond to suggest command: %v", err)
	}
}
