package leveling

import (
	"seyobot/service"

	"github.com/bwmarrin/discordgo"
)

// Feature handles leveling commands and level-up announcements
type Feature struct {
	session            *discordgo.Session
	levelingService    service.LevelingService
	guildConfigService service.GuildConfigService
}

// NewFeature creates a new leveling feature instance
func NewFeature(session *discordgo.Session, levelingService service.LevelingService, guildConfigService service.GuildConfigService) *Feature {
	return &Feature{
		session:            session,
		levelingService:    levelingService,
		guildConfigService: guildConfigService,
	}
}

// HandleSetupCommand routes the /leveling command
func (f *Feature) HandleSetupCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleSetup(s, i)
}

// HandleRankCommand routes the /rank command
func (f *Feature) HandleRankCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleRank(s, i)
}

// HandleLeaderboardCommand routes the /leaderboard command
func (f *Feature) HandleLeaderboardCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleLeaderboard(s, i)
}

// HandleXPCommand routes /xp subcommands to the appropriate handlers
func (f *Feature) HandleXPCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}

	switch options[0].Name {
	case "give":
		f.handleXPGive(s, i)
	case "remove":
		f.handleXPRemove(s, i)
	}
}
