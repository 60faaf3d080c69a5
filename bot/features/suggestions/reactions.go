package suggestions

import (
	"context"

	"seyobot/bot/common"
	"seyobot/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// HandleReactionAdd processes vote reactions on board messages. A user holds
// at most one vote: reacting with the opposite emoji replaces the stored vote
// and the stale reaction is removed.
func (f *Feature) HandleReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	var vote int
	switch r.Emoji.Name {
	case emojiUpvote:
		vote = models.VoteUp
	case emojiDownvote:
		vote = models.VoteDown
	default:
		return
	}

	messageID, err := common.ParseSnowflake(r.MessageID)
	if err != nil {
		return
	}

	ctx := context.Background()
	suggestion, err := f.suggestionService.GetSuggestion(ctx, messageID)
	if err != nil {
		log.Errorf("Failed to look up suggestion %d: %v", messageID, err)
		return
	}
	if suggestion == nil {
		// Not a board message
		return
	}

	userID, err := common.ParseSnowflake(r.UserID)
	if err != nil {
		return
	}

	tally, err := f.suggestionService.Vote(ctx, messageID, userID, vote)
	if err != nil {
		log.Errorf("Failed to record vote on suggestion %d: %v", messageID, err)
		return
	}

	// Clear the opposite reaction so the message reflects one vote per user
	opposite := emojiDownvote
	if vote == models.VoteDown {
		opposite = emojiUpvote
	}
	if err := s.MessageReactionRemove(r.ChannelID, r.MessageID, opposite, r.UserID); err != nil {
		log.Debugf("No opposite reaction to remove on suggestion %d: %v", messageID, err)
	}

	f.updateTallyFooter(s, r.ChannelID, r.MessageID, tally)
}

// updateTallyFooter rewrites the embed footer with the current counts
func (f *Feature) updateTallyFooter(s *discordgo.Session, channelID, messageID string, tally *models.VoteCount) {
	message, err := s.ChannelMessage(channelID, messageID)
	if err != nil || len(message.Embeds) == 0 {
		return
	}

	embed := message.Embeds[0]
	embed.Footer = tallyFooter(tally)

	if _, err := s.ChannelMessageEditEmbed(channelID, messageID, embed); err != nil {
		log.Errorf("Failed to update tally on suggestion %s: %v", messageID, err)
	}
}
