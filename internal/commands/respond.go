package commands

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

const embedFooter = "HeatGuard Automated Moderation"

// respondError sends an ephemeral error message.
func respondError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("❌ Error: %s", message),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// respondSuccess sends an ephemeral confirmation.
func respondSuccess(s *discordgo.Session, i *discordgo.InteractionCreate, message string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("✅ %s", message),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// respondEmbed sends a non-ephemeral embed response.
func respondEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) error {
	if embed.Footer == nil {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: embedFooter}
	}
	if embed.Timestamp == "" {
		embed.Timestamp = time.Now().Format(time.RFC3339)
	}
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
}

// checkPermissions gates configuration commands: server owner or a
// member holding Administrator.
func checkPermissions(s *discordgo.Session, i *discordgo.InteractionCreate) (bool, error) {
	if i.Member == nil || i.Member.User == nil {
		return false, fmt.Errorf("command used outside a guild")
	}

	guild, err := s.State.Guild(i.GuildID)
	if err != nil {
		guild, err = s.Guild(i.GuildID)
		if err != nil {
			return false, fmt.Errorf("failed to get guild: %w", err)
		}
	}

	if i.Member.User.ID == guild.OwnerID {
		return true, nil
	}
	return i.Member.Permissions&discordgo.PermissionAdministrator != 0, nil
}

// requireAdmin runs the permission gate and replies on failure. The
// bool reports whether the caller may proceed.
func requireAdmin(s *discordgo.Session, i *discordgo.InteractionCreate) (bool, error) {
	allowed, err := checkPermissions(s, i)
	if err != nil {
		return false, err
	}
	if !allowed {
		respondError(s, i, "You need Administrator permission to use this command")
		return false, nil
	}
	return true, nil
}
