package commands

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"go-heatguard/internal/database"
	"go-heatguard/pkg/util"
)

func (h *Handler) handleWhitelistAdd(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	if ok, err := requireAdmin(s, i); !ok {
		return err
	}

	args := optionMap(opts)
	userOpt, ok := args["user"]
	if !ok {
		return fmt.Errorf("missing user")
	}
	user := userOpt.UserValue(s)

	db := database.GetDB()
	if db == nil {
		return fmt.Errorf("database unavailable")
	}
	if err := db.AddWhitelist(i.GuildID, user.ID, i.Member.User.ID); err != nil {
		return err
	}
	h.cache.Invalidate(util.MustUint64(i.GuildID))

	return respondSuccess(s, i, fmt.Sprintf("%s is now exempt from anti-nuke tracking", user.Username))
}

func (h *Handler) handleWhitelistRemove(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	if ok, err := requireAdmin(s, i); !ok {
		return err
	}

	args := optionMap(opts)
	userOpt, ok := args["user"]
	if !ok {
		return fmt.Errorf("missing user")
	}
	user := userOpt.UserValue(s)

	db := database.GetDB()
	if db == nil {
		return fmt.Errorf("database unavailable")
	}
	if err := db.RemoveWhitelist(i.GuildID, user.ID); err != nil {
		return err
	}
	h.cache.Invalidate(util.MustUint64(i.GuildID))

	return respondSuccess(s, i, fmt.Sprintf("%s removed from the whitelist", user.Username))
}

func (h *Handler) handleWhitelistView(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	db := database.GetDB()
	if db == nil {
		return fmt.Errorf("database unavailable")
	}
	entries, err := db.GetWhitelist(i.GuildID)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		return respondSuccess(s, i, "Whitelist is empty")
	}

	var sb strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&sb, "<@%s> (added by <@%s>, <t:%d:R>)\n", e.TargetID, e.AddedBy, e.CreatedAt)
	}

	return respondEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "📋 Anti-Nuke Whitelist",
		Color:       0x5865F2,
		Description: sb.String(),
	})
}
