package commands

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"go-heatguard/internal/antinuke"
	"go-heatguard/internal/database"
	"go-heatguard/internal/models"
	"go-heatguard/pkg/util"
)

func (h *Handler) handleAntiNukeToggle(s *discordgo.Session, i *discordgo.InteractionCreate, enabled bool) error {
	if ok, err := requireAdmin(s, i); !ok {
		return err
	}

	db := database.GetDB()
	if db == nil {
		return fmt.Errorf("database unavailable")
	}
	if err := db.SetAntiNukeEnabled(i.GuildID, enabled); err != nil {
		return err
	}
	h.cache.Invalidate(util.MustUint64(i.GuildID))

	state := "disabled"
	if enabled {
		state = "enabled"
	}
	return respondSuccess(s, i, fmt.Sprintf("Anti-nuke protection %s", state))
}

func (h *Handler) handleLimitSet(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	if ok, err := requireAdmin(s, i); !ok {
		return err
	}

	args := optionMap(opts)
	action := args["action"].StringValue()
	max := int(args["max"].IntValue())

	if models.ParseAuditAction(action) == models.AuditUnknown {
		return fmt.Errorf("unknown action %q", action)
	}
	if max <= 0 {
		return fmt.Errorf("limit must be positive")
	}

	db := database.GetDB()
	if db == nil {
		return fmt.Errorf("database unavailable")
	}
	if err := db.UpsertLimit(i.GuildID, action, max); err != nil {
		return err
	}
	h.cache.Invalidate(util.MustUint64(i.GuildID))

	return respondSuccess(s, i, fmt.Sprintf("%s capped at %d per window", action, max))
}

func (h *Handler) handleAntiNukeView(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	db := database.GetDB()
	if db == nil {
		return fmt.Errorf("database unavailable")
	}
	guild, err := db.GetGuildConfig(i.GuildID)
	if err != nil {
		return err
	}
	limits, err := db.GetLimits(i.GuildID)
	if err != nil {
		return err
	}

	state := "disabled"
	if guild.AntiNukeEnabled {
		state = "enabled"
	}
	window := guild.WindowSeconds
	if window <= 0 {
		window = antinuke.DefaultWindowSeconds
	}

	var sb strings.Builder
	if len(limits) == 0 {
		sb.WriteString("No limits configured; all actions untracked.")
	}
	for _, l := range limits {
		fmt.Fprintf(&sb, "**%s**: %d per %ds\n", l.ActionType, l.MaxActions, window)
	}

	return respondEmbed(s, i, &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🛡️ Anti-Nuke (%s)", state),
		Color:       0x5865F2,
		Description: sb.String(),
	})
}
