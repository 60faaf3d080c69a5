package aichat

import (
	"seyobot/service"

	"github.com/bwmarrin/discordgo"
)

// Feature handles the AI chat relay
type Feature struct {
	session            *discordgo.Session
	aiChatService      service.AIChatService
	guildConfigService service.GuildConfigService
}

// NewFeature creates a new AI chat feature instance
func NewFeature(session *discordgo.Session, aiChatService service.AIChatService, guildConfigService service.GuildConfigService) *Feature {
	return &Feature{
		session:            session,
		aiChatService:      aiChatService,
		guildConfigService: guildConfigService,
	}
}

// HandleCommand routes /ai subcommands to the appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	switch options[0].Name {
	case "setup":
		f.handleSetup(s, i)
	case "enable":
		f.handleToggle(s, i, true)
	case "disable":
		f.handleToggle(s, i, false)
	}
}
