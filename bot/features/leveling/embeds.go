package leveling

import (
	"fmt"
	"strings"

	"seyobot/bot/common"
	"seyobot/models"

	"github.com/bwmarrin/discordgo"
)

const (
	progressBarWidth       = 10
	defaultLeaderboardSize = 10
	maxLeaderboardSize     = 25
)

// rankEmbed builds the /rank response embed
func rankEmbed(displayName, avatarURL string, rank *models.RankInfo) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Rank for %s", displayName),
		Color: 0x5865F2,
		Thumbnail: &discordgo.MessageEmbedThumbnail{
			URL: avatarURL,
		},
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Rank",
				Value:  fmt.Sprintf("#%s", common.FormatNumber(rank.Rank)),
				Inline: true,
			},
			{
				Name:   "Level",
				Value:  common.FormatNumber(rank.Level),
				Inline: true,
			},
			{
				Name: "Progress",
				Value: fmt.Sprintf("%s %s / %s XP",
					common.FormatProgressBar(rank.XP, rank.MaxXP, progressBarWidth),
					common.FormatNumber(rank.XP), common.FormatNumber(rank.MaxXP)),
			},
		},
	}
}

// leaderboardEmbed lists the guild's top members by level and xp. Tied
// members share a rank.
func leaderboardEmbed(entries []*models.RankInfo) *discordgo.MessageEmbed {
	var sb strings.Builder
	for _, entry := range entries {
		fmt.Fprintf(&sb, "**#%d** %s · level %s (%s / %s XP)\n",
			entry.Rank, common.GetUserMention(entry.UserID),
			common.FormatNumber(entry.Level),
			common.FormatNumber(entry.XP), common.FormatNumber(entry.MaxXP))
	}

	return &discordgo.MessageEmbed{
		Title:       "🏆 Leaderboard",
		Description: sb.String(),
		Color:       0x5865F2,
	}
}

// levelUpEmbed builds the announcement posted to the guild's level channel
func levelUpEmbed(displayName string, userID int64, oldLevel, newLevel, xp, maxXP int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "🎉 Level up!",
		Description: fmt.Sprintf("%s climbed from level **%d** to level **%d**",
			common.GetUserMention(userID), oldLevel, newLevel),
		Color: 0x57F287,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%s · %s / %s XP toward level %d",
				displayName, common.FormatNumber(xp), common.FormatNumber(maxXP), newLevel+1),
		},
	}
}
