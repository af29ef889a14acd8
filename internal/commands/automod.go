package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"go-heatguard/internal/automod"
	"go-heatguard/internal/database"
	"go-heatguard/internal/models"
	"go-heatguard/pkg/util"
)

func (h *Handler) handleAutomodToggle(s *discordgo.Session, i *discordgo.InteractionCreate, enabled bool) error {
	if ok, err := requireAdmin(s, i); !ok {
		return err
	}

	db := database.GetDB()
	if db == nil {
		return fmt.Errorf("database unavailable")
	}
	if err := db.SetAutomodEnabled(i.GuildID, enabled); err != nil {
		return err
	}
	h.cache.Invalidate(util.MustUint64(i.GuildID))

	state := "disabled"
	if enabled {
		state = "enabled"
	}
	return respondSuccess(s, i, fmt.Sprintf("Automod %s for this server", state))
}

// handleRuleAdd validates the config blob before storing it, so a bad
// blob is rejected at the command instead of going inert at load.
func (h *Handler) handleRuleAdd(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	if ok, err := requireAdmin(s, i); !ok {
		return err
	}

	args := optionMap(opts)
	typeOpt, ok := args["type"]
	if !ok {
		return fmt.Errorf("missing rule type")
	}
	filterType := typeOpt.StringValue()

	rawConfig := ""
	if cfgOpt, ok := args["config"]; ok {
		rawConfig = cfgOpt.StringValue()
	}

	probe := &automod.Rule{Type: automod.FilterType(filterType)}
	if err := probe.ParseConfig(rawConfig); err != nil {
		return err
	}

	db := database.GetDB()
	if db == nil {
		return fmt.Errorf("database unavailable")
	}
	id, err := db.AddRule(&database.RuleRow{
		GuildID:    i.GuildID,
		FilterType: filterType,
		Config:     rawConfig,
		Enabled:    true,
	})
	if err != nil {
		return err
	}
	h.cache.Invalidate(util.MustUint64(i.GuildID))

	return respondSuccess(s, i, fmt.Sprintf("Added %s rule (ID %d)", filterType, id))
}

func (h *Handler) handleRuleRemove(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	if ok, err := requireAdmin(s, i); !ok {
		return err
	}

	args := optionMap(opts)
	idOpt, ok := args["id"]
	if !ok {
		return fmt.Errorf("missing rule id")
	}
	ruleID := idOpt.IntValue()

	db := database.GetDB()
	if db == nil {
		return fmt.Errorf("database unavailable")
	}
	removed, err := db.DeleteRule(i.GuildID, ruleID)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("no rule with ID %d in this server", ruleID)
	}
	h.cache.Invalidate(util.MustUint64(i.GuildID))

	return respondSuccess(s, i, fmt.Sprintf("Removed rule %d", ruleID))
}

func (h *Handler) handleRuleList(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	db := database.GetDB()
	if db == nil {
		return fmt.Errorf("database unavailable")
	}
	rules, err := db.GetRules(i.GuildID)
	if err != nil {
		return err
	}

	if len(rules) == 0 {
		return respondSuccess(s, i, "No automod rules configured. Use /automod rule add.")
	}

	var sb strings.Builder
	for _, r := range rules {
		state := "enabled"
		if !r.Enabled {
			state = "disabled"
		}
		fmt.Fprintf(&sb, "`%d` **%s** (%s)", r.ID, r.FilterType, state)
		if r.Config != "" {
			fmt.Fprintf(&sb, " `%s`", r.Config)
		}
		sb.WriteString("\n")
	}

	return respondEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "🛡️ Automod Rules",
		Color:       0x5865F2,
		Description: sb.String(),
	})
}

func (h *Handler) handleHeatValue(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	if ok, err := requireAdmin(s, i); !ok {
		return err
	}

	args := optionMap(opts)
	violation := args["violation"].StringValue()
	points := int(args["points"].IntValue())
	if points <= 0 {
		return fmt.Errorf("points must be positive")
	}

	db := database.GetDB()
	if db == nil {
		return fmt.Errorf("database unavailable")
	}
	if err := db.UpsertHeatValue(i.GuildID, violation, points); err != nil {
		return err
	}
	h.cache.Invalidate(util.MustUint64(i.GuildID))

	return respondSuccess(s, i, fmt.Sprintf("%s now awards %d heat", violation, points))
}

func (h *Handler) handleThreshold(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	if ok, err := requireAdmin(s, i); !ok {
		return err
	}

	args := optionMap(opts)
	score := int(args["score"].IntValue())
	action := args["action"].StringValue()
	if score <= 0 {
		return fmt.Errorf("score must be positive")
	}
	if !models.ValidActionType(action) {
		return fmt.Errorf("unknown action %q", action)
	}

	duration := 0
	if d, ok := args["duration"]; ok {
		duration = int(d.IntValue())
	}

	db := database.GetDB()
	if db == nil {
		return fmt.Errorf("database unavailable")
	}
	if err := db.UpsertThreshold(i.GuildID, score, action, duration); err != nil {
		return err
	}
	h.cache.Invalidate(util.MustUint64(i.GuildID))

	return respondSuccess(s, i, fmt.Sprintf("Heat %d now triggers %s", score, action))
}

func (h *Handler) handleDecay(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	if ok, err := requireAdmin(s, i); !ok {
		return err
	}

	args := optionMap(opts)
	seconds := int(args["seconds"].IntValue())
	if seconds <= 0 {
		return fmt.Errorf("decay window must be positive")
	}

	db := database.GetDB()
	if db == nil {
		return fmt.Errorf("database unavailable")
	}
	row, err := db.GetGuildConfig(i.GuildID)
	if err != nil {
		return err
	}
	row.DecaySeconds = seconds
	if err := db.UpsertGuildConfig(row); err != nil {
		return err
	}
	h.cache.Invalidate(util.MustUint64(i.GuildID))

	return respondSuccess(s, i, fmt.Sprintf("Heat decay window set to %d seconds", seconds))
}

// handleHeatShow reads the live ledger, not the database: heat is
// in-memory state.
func (h *Handler) handleHeatShow(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	args := optionMap(opts)
	userOpt, ok := args["user"]
	if !ok {
		return fmt.Errorf("missing user")
	}
	user := userOpt.UserValue(s)

	state, found := h.ledger.Snapshot(util.MustUint64(i.GuildID), util.MustUint64(user.ID))
	if !found || len(state.Infractions) == 0 {
		return respondSuccess(s, i, fmt.Sprintf("%s has no active heat", user.Username))
	}

	oldest := state.Infractions[0].At
	return respondEmbed(s, i, &discordgo.MessageEmbed{
		Title: "🔥 Heat State",
		Color: 0xE67E22,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "👤 User", Value: fmt.Sprintf("<@%s>", user.ID), Inline: true},
			{Name: "🔥 Score", Value: fmt.Sprintf("%d", state.Score), Inline: true},
			{Name: "📋 Infractions", Value: fmt.Sprintf("%d", len(state.Infractions)), Inline: true},
			{Name: "🕐 Oldest Active", Value: fmt.Sprintf("<t:%d:R>", oldest.Unix()), Inline: false},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	})
}
