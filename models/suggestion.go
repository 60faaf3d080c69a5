package models

import "time"

// VoteUp and VoteDown are the only accepted suggestion vote values
const (
	VoteUp   = 1
	VoteDown = -1
)

// Suggestion represents one posted suggestion, keyed by its Discord message ID
type Suggestion struct {
	MessageID int64     `db:"message_id"`
	GuildID   int64     `db:"guild_id"`
	AuthorID  int64     `db:"author_id"`
	Content   string    `db:"content"`
	Upvotes   int       `db:"upvotes"`
	Downvotes int       `db:"downvotes"`
	CreatedAt time.Time `db:"created_at"`
}

// SuggestionVote records one user's vote on a suggestion
type SuggestionVote struct {
	UserID       int64 `db:"user_id"`
	SuggestionID int64 `db:"suggestion_id"`
	Vote         int   `db:"vote"`
}

// VoteCount holds the current tally for a suggestion
type VoteCount struct {
	Upvotes   int
	Downvotes int
}
