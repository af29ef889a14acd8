package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"go-heatguard/internal/database"
	"go-heatguard/pkg/util"
)

func (h *Handler) handleLogs(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if ok, err := requireAdmin(s, i); !ok {
		return err
	}

	data := i.ApplicationCommandData()
	args := optionMap(data.Options)
	chanOpt, ok := args["channel"]
	if !ok {
		return fmt.Errorf("missing channel")
	}
	channel := chanOpt.ChannelValue(s)
	if channel.Type != discordgo.ChannelTypeGuildText {
		return fmt.Errorf("log channel must be a text channel")
	}

	db := database.GetDB()
	if db == nil {
		return fmt.Errorf("database unavailable")
	}
	if err := db.SetLogChannel(i.GuildID, channel.ID); err != nil {
		return err
	}
	h.cache.Invalidate(util.MustUint64(i.GuildID))

	return respondSuccess(s, i, fmt.Sprintf("Moderation logs will be sent to <#%s>", channel.ID))
}
