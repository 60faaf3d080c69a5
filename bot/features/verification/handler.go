package verification

import (
	"context"
	"fmt"

	"seyobot/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleSetup handles /ytsub setup [channel] <role>: stores the proof channel
// and the role granted on approval
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

	var channelIDStr, roleIDStr string
	for _, opt := range i.ApplicationCommandData().Options[0].Options {
		switch opt.Name {
		case "channel":
			channelIDStr = opt.ChannelValue(s).ID
		case "role":
			roleIDStr = opt.RoleValue(s, i.GuildID).ID
		}
	}

	if roleIDStr == "" {
		common.RespondWithError(s, i, "A role to grant on approval is required")
		return
	}

	if channelIDStr == "" {
		channel, err := s.GuildChannelCreate(i.GuildID, "subscriber-verify", discordgo.ChannelTypeGuildText)
		if err != nil {
			log.Errorf("Failed to create verify channel in guild %d: %v", guildID, err)
			common.RespondWithError(s, i, "Failed to create the verification channel. Check my permissions.")
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
	roleID, err := common.ParseSnowflake(roleIDStr)
	if err != nil {
		log.Errorf("Failed to parse role ID %s: %v", roleIDStr, err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	if err := f.guildConfigService.SetVerification(context.Background(), guildID, &channelID, &roleID); err != nil {
		log.Errorf("Failed to store verification settings for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Failed to save verification settings")
		return
	}

	message := fmt.Sprintf("Verification set up. Proof screenshots go in <#%s>; approved members get <@&%s>", channelIDStr, roleIDStr)
	if err := common.RespondWithSuccess(s, i, message, false); err != nil {
		log.Errorf("Failed to respond to ytsub setup: %v", err)
	}
}
