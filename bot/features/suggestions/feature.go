package suggestions

import (
	"seyobot/service"

	"github.com/bwmarrin/discordgo"
)

const (
	emojiUpvote   = "🟢"
	emojiDownvote = "🔴"
)

// Feature handles the suggestion board
type Feature struct {
	session            *discordgo.Session
	suggestionService  service.SuggestionService
	guildConfigService service.GuildConfigService
}

// NewFeature creates a new suggestions feature instance
func NewFeature(session *discordgo.Session, suggestionService service.SuggestionService, guildConfigService service.GuildConfigService) *Feature {
	return &Feature{
		session:            session,
		suggestionService:  suggestionService,
		guildConfigService: guildConfigService,
	}
}

// HandleSetupCommand routes the /suggestion command
func (f *Feature) HandleSetupCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleSetup(s, i)
}

// HandleSuggestCommand routes the /suggest command
func (f *Feature) HandleSuggestCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleSuggest(s, i)
}
