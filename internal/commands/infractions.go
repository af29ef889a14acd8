package commands

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"go-heatguard/internal/database"
)

const infractionsShown = 10

func (h *Handler) handleInfractions(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	data := i.ApplicationCommandData()
	args := optionMap(data.Options)
	userOpt, ok := args["user"]
	if !ok {
		return fmt.Errorf("missing user")
	}
	user := userOpt.UserValue(s)

	db := database.GetDB()
	if db == nil {
		return fmt.Errorf("database unavailable")
	}
	infractions, err := db.GetRecentInfractions(i.GuildID, user.ID, infractionsShown)
	if err != nil {
		return err
	}

	if len(infractions) == 0 {
		return respondSuccess(s, i, fmt.Sprintf("%s has no recorded infractions", user.Username))
	}

	var sb strings.Builder
	for _, inf := range infractions {
		fmt.Fprintf(&sb, "**%s** <t:%d:R>", inf.Action, inf.CreatedAt)
		if inf.DurationMinutes > 0 {
			fmt.Fprintf(&sb, " (%dm)", inf.DurationMinutes)
		}
		fmt.Fprintf(&sb, ": %s\n", inf.Reason)
	}

	return respondEmbed(s, i, &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("📋 Infractions: %s", user.Username),
		Color:       0xE67E22,
		Description: sb.String(),
	})
}
