package verification

import (
	"context"

	"seyobot/bot/common"
	"seyobot/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// HandleMessage processes proof submissions in the verify channel. Messages
// without an attachment are removed and the author is told why over DM. Valid
// submissions are recorded as pending and marked for moderator review.
func (f *Feature) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	guildID, err := common.ParseSnowflake(m.GuildID)
	if err != nil {
		return
	}

	cfg, err := f.guildConfigService.GetConfig(context.Background(), guildID)
	if err != nil {
		log.Errorf("Failed to load config for guild %d: %v", guildID, err)
		return
	}
	if cfg == nil || cfg.YTVerifyChannelID == nil {
		return
	}
	if common.FormatSnowflake(*cfg.YTVerifyChannelID) != m.ChannelID {
		return
	}

	if len(m.Attachments) == 0 {
		if err := s.ChannelMessageDelete(m.ChannelID, m.ID); err != nil {
			log.Errorf("Failed to delete proof message without attachment: %v", err)
		}
		f.sendDM(s, m.Author.ID, "Your verification post needs a screenshot attached. Please post it again with your subscription proof.")
		return
	}

	userID, err := common.ParseSnowflake(m.Author.ID)
	if err != nil {
		return
	}

	if err := f.verificationService.SubmitProof(context.Background(), guildID, userID, m.Attachments[0].URL); err != nil {
		log.Errorf("Failed to record proof from user %d in guild %d: %v", userID, guildID, err)
		return
	}

	// Mark the submission for moderator review
	for _, emoji := range []string{emojiApprove, emojiReject} {
		if err := s.MessageReactionAdd(m.ChannelID, m.ID, emoji); err != nil {
			log.Errorf("Failed to seed %s reaction on proof %s: %v", emoji, m.ID, err)
		}
	}
}

// HandleReactionAdd processes moderator decisions on proof submissions
func (f *Feature) HandleReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.Emoji.Name != emojiApprove && r.Emoji.Name != emojiReject {
		return
	}

	guildID, err := common.ParseSnowflake(r.GuildID)
	if err != nil {
		return
	}

	cfg, err := f.guildConfigService.GetConfig(context.Background(), guildID)
	if err != nil {
		log.Errorf("Failed to load config for guild %d: %v", guildID, err)
		return
	}
	if cfg == nil || cfg.YTVerifyChannelID == nil {
		return
	}
	if common.FormatSnowflake(*cfg.YTVerifyChannelID) != r.ChannelID {
		return
	}

	// Only moderators decide
	if !common.IsUserAdmin(s, r.GuildID, r.UserID) {
		return
	}

	message, err := s.ChannelMessage(r.ChannelID, r.MessageID)
	if err != nil {
		log.Errorf("Failed to fetch proof message %s: %v", r.MessageID, err)
		return
	}
	if message.Author == nil || message.Author.Bot || len(message.Attachments) == 0 {
		return
	}

	subjectID, err := common.ParseSnowflake(message.Author.ID)
	if err != nil {
		return
	}

	approved := r.Emoji.Name == emojiApprove
	if err := f.verificationService.Review(context.Background(), guildID, subjectID, approved); err != nil {
		log.Errorf("Failed to review verification for user %d in guild %d: %v", subjectID, guildID, err)
		return
	}

	if approved {
		f.approve(s, r.GuildID, message.Author.ID, cfg)
	} else {
		f.sendDM(s, message.Author.ID, "Your subscription proof was not accepted. You can post a new screenshot in the verification channel.")
	}
}

func (f *Feature) approve(s *discordgo.Session, guildID, userID string, cfg *models.GuildConfig) {
	if cfg.YTVerifyRoleID != nil {
		roleID := common.FormatSnowflake(*cfg.YTVerifyRoleID)
		if err := s.GuildMemberRoleAdd(guildID, userID, roleID); err != nil {
			log.Errorf("Failed to grant verified role to user %s in guild %s: %v", userID, guildID, err)
		}
	}
	f.sendDM(s, userID, "Your subscription proof was approved. Welcome aboard!")
}

// sendDM delivers a best-effort direct message; closed DMs are not an error
func (f *Feature) sendDM(s *discordgo.Session, userID, content string) {
	channel, err := s.UserChannelCreate(userID)
	if err != nil {
		log.Debugf("Could not open DM channel with user %s: %v", userID, err)
		return
	}
	if _, err := s.ChannelMessageSend(channel.ID, content); err != nil {
		log.Debugf("Could not DM user %s: %v", userID, err)
	}
}
