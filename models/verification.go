package models

import "time"

// VerificationStatus is the moderation state of a subscription proof
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// Verification records one user's subscription proof submission in a guild
type Verification struct {
	UserID      int64              `db:"user_id"`
	GuildID     int64              `db:"guild_id"`
	Status      VerificationStatus `db:"status"`
	ProofURL    string             `db:"proof_url"`
	SubmittedAt time.Time          `db:"submitted_at"`
}
