package models

import "time"

// YouTubeChannel is a tracked upload source for a guild
type YouTubeChannel struct {
	ChannelID    string `db:"channel_id"`
	GuildID      int64  `db:"guild_id"`
	ChannelTitle string `db:"channel_title"`
	LastVideoID  string `db:"last_video_id"`
}

// Video is the latest-upload snapshot returned by a video provider
type Video struct {
	ID           string
	Title        string
	URL          string
	Thumbnail    string
	ChannelID    string
	ChannelTitle string
	Published    time.Time
}
