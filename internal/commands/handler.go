// Package commands implements the slash-command surface. Every
// configuration write goes through sqlite and then invalidates the
// guild's settings cache, so the next event sees the new rules.
package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"go-heatguard/internal/bot"
	"go-heatguard/internal/config"
	"go-heatguard/internal/heat"
	"go-heatguard/internal/logging"
)

// Handler manages all command interactions.
type Handler struct {
	session *bot.Session
	cache   *config.SettingsCache
	ledger  *heat.Ledger
}

var globalHandler *Handler

// Initialize creates the command handler and registers all commands.
func Initialize(session *bot.Session, cache *config.SettingsCache, ledger *heat.Ledger) error {
	globalHandler = &Handler{
		session: session,
		cache:   cache,
		ledger:  ledger,
	}

	session.AddHandler(globalHandler.handleInteraction)

	commands := GetAllCommands()
	if err := session.RegisterCommands(commands); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	logging.Info("Command handler initialized with %d commands", len(commands))
	return nil
}

// GetHandler returns the global command handler.
func GetHandler() *Handler {
	return globalHandler
}

func (h *Handler) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	h.handleCommand(s, i)
}

// handleCommand routes slash commands to their handlers.
func (h *Handler) handleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()

	var err error
	switch data.Name {
	case "automod":
		err = h.routeAutomod(s, i, data.Options)
	case "antinuke":
		err = h.routeAntiNuke(s, i, data.Options)
	case "whitelist":
		err = h.routeWhitelist(s, i, data.Options)
	case "logs":
		err = h.handleLogs(s, i)
	case "infractions":
		err = h.handleInfractions(s, i)
	case "status":
		err = handleStatus(s, i)
	case "ping":
		err = handlePing(s, i)
	default:
		err = fmt.Errorf("unknown command: %s", data.Name)
	}

	if err != nil {
		logging.Error("Command error [%s]: %v", data.Name, err)
		respondError(s, i, err.Error())
	}
}

func (h *Handler) routeAutomod(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	if len(opts) == 0 {
		return fmt.Errorf("missing subcommand")
	}

	switch opts[0].Name {
	case "enable":
		return h.handleAutomodToggle(s, i, true)
	case "disable":
		return h.handleAutomodToggle(s, i, false)
	case "rules":
		return h.handleRuleList(s, i)
	case "heat":
		return h.handleHeatShow(s, i, opts[0].Options)
	case "rule":
		if len(opts[0].Options) == 0 {
			return fmt.Errorf("missing rule subcommand")
		}
		switch opts[0].Options[0].Name {
		case "add":
			return h.handleRuleAdd(s, i, opts[0].Options[0].Options)
		case "remove":
			return h.handleRuleRemove(s, i, opts[0].Options[0].Options)
		}
	case "set":
		if len(opts[0].Options) == 0 {
			return fmt.Errorf("missing set subcommand")
		}
		switch opts[0].Options[0].Name {
		case "value":
			return h.handleHeatValue(s, i, opts[0].Options[0].Options)
		case "threshold":
			return h.handleThreshold(s, i, opts[0].Options[0].Options)
		case "decay":
			return h.handleDecay(s, i, opts[0].Options[0].Options)
		}
	}
	return fmt.Errorf("unknown automod subcommand")
}

func (h *Handler) routeAntiNuke(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	if len(opts) == 0 {
		return fmt.Errorf("missing subcommand")
	}

	switch opts[0].Name {
	case "enable":
		return h.handleAntiNukeToggle(s, i, true)
	case "disable":
		return h.handleAntiNukeToggle(s, i, false)
	case "limit":
		return h.handleLimitSet(s, i, opts[0].Options)
	case "view":
		return h.handleAntiNukeView(s, i)
	}
	return fmt.Errorf("unknown antinuke subcommand")
}

func (h *Handler) routeWhitelist(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	if len(opts) == 0 {
		return fmt.Errorf("missing subcommand")
	}

	switch opts[0].Name {
	case "add":
		return h.handleWhitelistAdd(s, i, opts[0].Options)
	case "remove":
		return h.handleWhitelistRemove(s, i, opts[0].Options)
	case "view":
		return h.handleWhitelistView(s, i)
	}
	return fmt.Errorf("unknown whitelist subcommand")
}

// optionMap flattens subcommand options for lookup by name.
func optionMap(opts []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, o := range opts {
		m[o.Name] = o
	}
	return m
}
