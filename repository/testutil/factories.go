package testutil

import (
	"time"

	"seyobot/models"
)

// CreateTestLevelRecord creates a level record with the given progress
func CreateTestLevelRecord(userID, guildID int64, xp, level int) *models.LevelRecord {
	return &models.LevelRecord{
		UserID:        userID,
		GuildID:       guildID,
		XP:            xp,
		Level:         level,
		LastMessageAt: time.Now().Unix(),
	}
}

// CreateTestSuggestion creates a suggestion keyed by its board message ID
func CreateTestSuggestion(messageID, guildID, authorID int64, content string) *models.Suggestion {
	return &models.Suggestion{
		MessageID: messageID,
		GuildID:   guildID,
		AuthorID:  authorID,
		Content:   content,
	}
}

// CreateTestVote creates a suggestion vote
func CreateTestVote(userID, suggestionID int64, vote int) *models.SuggestionVote {
	return &models.SuggestionVote{
		UserID:       userID,
		SuggestionID: suggestionID,
		Vote:         vote,
	}
}

// CreateTestYouTubeChannel creates a tracked channel with a seeded last video
func CreateTestYouTubeChannel(channelID string, guildID int64) *models.YouTubeChannel {
	return &models.YouTubeChannel{
		ChannelID:    channelID,
		GuildID:      guildID,
		ChannelTitle: "Test Creator",
		LastVideoID:  "seed-video",
	}
}
