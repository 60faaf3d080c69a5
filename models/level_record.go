package models

// LevelRecord tracks XP progress for one user in one guild.
// XP is the amount accumulated within the current level; XP spent crossing
// earlier level boundaries is not included.
type LevelRecord struct {
	UserID        int64 `db:"user_id"`
	GuildID       int64 `db:"guild_id"`
	XP            int   `db:"xp"`
	Level         int   `db:"level"`
	LastMessageAt int64 `db:"last_message_at"` // Epoch seconds of the last passive XP grant
}

// NewLevelRecord returns the default record for a user with no stored progress
func NewLevelRecord(userID, guildID int64) *LevelRecord {
	return &LevelRecord{
		UserID:  userID,
		GuildID: guildID,
		XP:      0,
		Level:   1,
	}
}

// RankInfo is the result of a rank query
type RankInfo struct {
	UserID  int64
	GuildID int64
	XP      int
	Level   int
	MaxXP   int
	Rank    int // 1-based; users with identical (level, xp) share a rank
}
