package suggestions

import (
	"fmt"

	"seyobot/models"

	"github.com/bwmarrin/discordgo"
)

// suggestionEmbed builds the board post for a new suggestion
func suggestionEmbed(authorName, avatarURL, content string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "💡 New suggestion",
		Description: content,
		Color:       0xFEE75C,
		Author: &discordgo.MessageEmbedAuthor{
			Name:    authorName,
			IconURL: avatarURL,
		},
		Footer: tallyFooter(&models.VoteCount{}),
	}
}

func tallyFooter(tally *models.VoteCount) *discordgo.MessageEmbedFooter {
	return &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("%s %d  %s %d", emojiUpvote, tally.Upvotes, emojiDownvote, tally.Downvotes),
	}
}
