package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"go-heatguard/internal/logging"
	"go-heatguard/pkg/util"
)

type Session struct {
	discord *discordgo.Session
	token   string
	BotID   uint64
}

var globalSession *Session

// Initialize creates the Discord session. Connect opens it.
func Initialize(token string) error {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}

	// Guild metadata, messages with content, and moderation events.
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent |
		discordgo.IntentsGuildMembers |
		discordgo.IntentGuildModeration

	globalSession = &Session{
		discord: dg,
		token:   token,
	}
	return nil
}

// GetSession returns the global Discord session.
func GetSession() *Session {
	return globalSession
}

// GetDiscord returns the underlying discordgo session.
func (s *Session) GetDiscord() *discordgo.Session {
	return s.discord
}

// Connect opens the gateway connection and records the bot's own ID,
// which the anti-nuke monitor uses to exempt the bot's actions.
func (s *Session) Connect() error {
	if err := s.discord.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	if s.discord.State.User != nil {
		s.BotID = util.MustUint64(s.discord.State.User.ID)
		logging.Info("Bot ID: %d", s.BotID)
	}

	logging.Info("Discord bot connected successfully")
	return nil
}

// Close closes the Discord connection.
func (s *Session) Close() error {
	if s.discord != nil {
		return s.discord.Close()
	}
	return nil
}

// RegisterCommands registers all slash commands with Discord.
func (s *Session) RegisterCommands(commands []*discordgo.ApplicationCommand) error {
	logging.Info("Registering %d slash commands...", len(commands))

	for _, cmd := range commands {
		_, err := s.discord.ApplicationCommandCreate(s.discord.State.User.ID, "", cmd)
		if err != nil {
			return fmt.Errorf("failed to register command %s: %w", cmd.Name, err)
		}
		logging.Info("Registered command: /%s", cmd.Name)
	}
	return nil
}

// AddHandler adds an event handler to the Discord session.
func (s *Session) AddHandler(handler interface{}) {
	s.discord.AddHandler(handler)
}
