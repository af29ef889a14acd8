package commands

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

// handlePing reports gateway and REST latency.
func handlePing(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		return err
	}

	apiStart := time.Now()
	_, err = s.Channel(i.ChannelID)
	apiLatency := time.Since(apiStart)
	if err != nil {
		apiLatency = 0
	}

	wsLatency := s.HeartbeatLatency()

	avg := (wsLatency.Milliseconds() + apiLatency.Milliseconds()) / 2
	var statusColor int
	switch {
	case avg < 60:
		statusColor = 0x57F287
	case avg < 150:
		statusColor = 0xFEE75C
	default:
		statusColor = 0xED4245
	}

	embed := &discordgo.MessageEmbed{
		Title: "🏓 Pong!",
		Color: statusColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "⚡ WebSocket", Value: fmt.Sprintf("`%dms`", wsLatency.Milliseconds()), Inline: true},
			{Name: "📡 API", Value: fmt.Sprintf("`%dms`", apiLatency.Milliseconds()), Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: embedFooter},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	_, err = s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	})
	return err
}
