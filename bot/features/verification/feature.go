package verification

import (
	"seyobot/service"

	"github.com/bwmarrin/discordgo"
)

const (
	emojiApprove = "✅"
	emojiReject  = "❌"
)

// Feature handles subscriber verification: proof submissions in the verify
// channel and moderator review via reactions
type Feature struct {
	session             *discordgo.Session
	verificationService service.VerificationService
	guildConfigService  service.GuildConfigService
}

// NewFeature creates a new verification feature instance
func NewFeature(session *discordgo.Session, verificationService service.VerificationService, guildConfigService service.GuildConfigService) *Feature {
	return &Feature{
		session:             session,
		verificationService: verificationService,
		guildConfigService:  guildConfigService,
	}
}

// HandleCommand routes /ytsub subcommands to the appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	switch options[0].Name {
	case "setup":
		f.handleSetup(s, i)
	}
}
