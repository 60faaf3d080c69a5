package leveling

import (
	"context"
	"errors"
	"fmt"

	"seyobot/bot/common"
	"seyobot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleSetup handles /leveling: creates the announcement channel and enables
// passive XP for the guild
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

	channel, err := s.GuildChannelCreate(i.GuildID, "level-ups", discordgo.ChannelTypeGuildText)
	if err != nil {
		log.Errorf("Failed to create level channel in guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Failed to create the level-ups channel. Check my permissions.")
		return
	}

	channelID, err := common.ParseSnowflake(channel.ID)
	if err != nil {
		log.Errorf("Failed to parse channel ID %s: %v", channel.ID, err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	ctx := context.Background()
	if err := f.guildConfigService.SetLevelChannel(ctx, guildID, &channelID); err != nil {
		log.Errorf("Failed to store level channel for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Failed to save leveling settings")
		return
	}

	if err := common.RespondWithSuccess(s, i, fmt.Sprintf("Leveling enabled. Announcements will be posted in <#%s>", channel.ID), false); err != nil {
		log.Errorf("Failed to respond to leveling setup: %v", err)
	}
}

// handleRank handles /rank [user]
func (f *Feature) handleRank(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", i.GuildID, err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	target := i.Member.User
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "user" {
			target = opt.UserValue(s)
		}
	}

	userID, err := common.ParseSnowflake(target.ID)
	if err != nil {
		log.Errorf("Failed to parse user ID %s: %v", target.ID, err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	rank, err := f.levelingService.GetRank(context.Background(), guildID, userID)
	if err != nil {
		log.Errorf("Failed to get rank for user %d in guild %d: %v", userID, guildID, err)
		common.RespondWithError(s, i, "Unable to retrieve rank. Please try again.")
		return
	}

	displayName := common.GetDisplayName(s, i.GuildID, target.ID)
	if err := common.RespondWithEmbed(s, i, rankEmbed(displayName, target.AvatarURL(""), rank), false); err != nil {
		log.Errorf("Failed to respond to rank command: %v", err)
	}
}

// handleLeaderboard handles /leaderboard [count]
func (f *Feature) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", i.GuildID, err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	count := defaultLeaderboardSize
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "count" {
			count = int(opt.IntValue())
		}
	}
	if count < 1 || count > maxLeaderboardSize {
		count = defaultLeaderboardSize
	}

	entries, err := f.levelingService.Leaderboard(context.Background(), guildID, count)
	if err != nil {
		log.Errorf("Failed to load leaderboard for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Unable to retrieve the leaderboard. Please try again.")
		return
	}

	if len(entries) == 0 {
		if err := common.RespondWithContent(s, i, "Nobody has earned XP in this server yet.", false); err != nil {
			log.Errorf("Failed to respond to leaderboard command: %v", err)
		}
		return
	}

	if err := common.RespondWithEmbed(s, i, leaderboardEmbed(entries), false); err != nil {
		log.Errorf("Failed to respond to leaderboard command: %v", err)
	}
}

// handleXPGive handles /xp give <user> <amount>
func (f *Feature) handleXPGive(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleXPChange(s, i, true)
}

// handleXPRemove handles /xp remove <user> <amount>
func (f *Feature) handleXPRemove(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleXPChange(s, i, false)
}

func (f *Feature) handleXPChange(s *discordgo.Session, i *discordgo.InteractionCreate, give bool) {
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

	var target *discordgo.User
	var amount int
	for _, opt := range i.ApplicationCommandData().Options[0].Options {
		switch opt.Name {
		case "user":
			target = opt.UserValue(s)
		case "amount":
			amount = int(opt.IntValue())
		}
	}

	if target == nil {
		common.RespondWithError(s, i, "Invalid user")
		return
	}

	userID, err := common.ParseSnowflake(target.ID)
	if err != nil {
		log.Errorf("Failed to parse user ID %s: %v", target.ID, err)
		common.RespondWithError(s, i, "Failed to process command")
		return
	}

	ctx := context.Background()
	displayName := common.GetDisplayName(s, i.GuildID, target.ID)

	if give {
		record, gained, err := f.levelingService.AwardXP(ctx, guildID, userID, amount)
		if err != nil {
			f.respondXPError(s, i, err)
			return
		}

		message := fmt.Sprintf("Gave **%s XP** to **%s** (now level %d, %s/%s XP)",
			common.FormatNumber(amount), displayName, record.Level,
			common.FormatNumber(record.XP), common.FormatNumber(service.MaxXP(record.Level)))
		if gained > 0 {
			message += fmt.Sprintf(" and leveled up to **%d**!", record.Level)
		}
		if err := common.RespondWithSuccess(s, i, message, false); err != nil {
			log.Errorf("Failed to respond to xp give: %v", err)
		}
		return
	}

	record, err := f.levelingService.RemoveXP(ctx, guildID, userID, amount)
	if err != nil {
		f.respondXPError(s, i, err)
		return
	}

	message := fmt.Sprintf("Removed **%s XP** from **%s** (now level %d, %s/%s XP)",
		common.FormatNumber(amount), displayName, record.Level,
		common.FormatNumber(record.XP), common.FormatNumber(service.MaxXP(record.Level)))
	if err := common.RespondWithSuccess(s, i, message, false); err != nil {
		log.Errorf("Failed to respond to xp remove: %v", err)
	}
}

func (f *Feature) respondXPError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	var validationErr *service.ValidationError
	var notFoundErr *service.NotFoundError
	switch {
	case errors.As(err, &validationErr):
		common.RespondWithError(s, i, "Amount must be a positive number")
	case errors.As(err, &notFoundErr):
		common.RespondWithError(s, i, "That user has no XP record in this server")
	default:
		log.Errorf("XP change failed: %v", err)
		common.RespondWithError(s, i, "Unable to update XP. Please try again.")
	}
}

// HandleLevelUpEvent posts the level-up announcement to the guild's configured
// channel. The record is already committed; delivery failures are only logged.
func (f *Feature) HandleLevelUpEvent(ctx context.Context, guildID, userID int64, oldLevel, newLevel, xp, maxXP int) {
	cfg, err := f.guildConfigService.GetConfig(ctx, guildID)
	if err != nil {
		log.Errorf("Failed to load config for level-up announcement in guild %d: %v", guildID, err)
		return
	}
	if !cfg.LevelingActive() {
		return
	}

	channelID := common.FormatSnowflake(*cfg.LevelChannelID)
	displayName := common.GetDisplayNameInt64(f.session, common.FormatSnowflake(guildID), userID)

	if _, err := f.session.ChannelMessageSendEmbed(channelID, levelUpEmbed(displayName, userID, oldLevel, newLevel, xp, maxXP)); err != nil {
		log.Errorf("Failed to post level-up announcement for user %d in guild %d: %v", userID, guildID, err)
	}
}
