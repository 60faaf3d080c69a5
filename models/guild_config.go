package models

// GuildConfig represents per-guild feature configuration.
// A nil channel ID means the corresponding feature is inactive for the guild;
// there is no "enabled without a channel" sentinel. The AI relay carries an
// explicit enabled flag because it can run guild-wide without a dedicated
// channel.
type GuildConfig struct {
	GuildID             int64  `db:"guild_id"`
	YTVerifyChannelID   *int64 `db:"yt_verify_channel_id"`
	YTVerifyRoleID      *int64 `db:"yt_verify_role_id"`
	SuggestionChannelID *int64 `db:"suggestion_channel_id"`
	LevelChannelID      *int64 `db:"level_channel_id"`
	AIEnabled           bool   `db:"ai_enabled"`
	AIChannelID         *int64 `db:"ai_channel_id"`
	YTNotifyChannelID   *int64 `db:"yt_notify_channel_id"`
}

// LevelingActive reports whether passive XP and level-up announcements are
// enabled for the guild
func (c *GuildConfig) LevelingActive() bool {
	return c != nil && c.LevelChannelID != nil
}
