package youtube

import (
	"seyobot/service"

	"github.com/bwmarrin/discordgo"
)

// Feature handles YouTube upload notifications
type Feature struct {
	session            *discordgo.Session
	notifierService    service.YouTubeNotifierService
	guildConfigService service.GuildConfigService
}

// NewFeature creates a new YouTube notifier feature instance
func NewFeature(session *discordgo.Session, notifierService service.YouTubeNotifierService, guildConfigService service.GuildConfigService) *Feature {
	return &Feature{
		session:            session,
		notifierService:    notifierService,
		guildConfigService: guildConfigService,
	}
}

// HandleCommand routes /yt subcommands to the appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	switch options[0].Name {
	case "setup":
		f.handleSetup(s, i)
	case "add":
		f.handleAdd(s, i)
	}
}
