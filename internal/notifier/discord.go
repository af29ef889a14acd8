// Package notifier delivers the user-visible side of moderation:
// offender DMs, owner alerts, and log-channel embeds. Every send is
// best effort; a failed notification never affects the action it
// describes.
package notifier

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"go-heatguard/internal/logging"
	"go-heatguard/internal/remedy"
	"go-heatguard/pkg/util"
)

const (
	colorAction = 0xED4245
	colorPanic  = 0x992D22
	footerText  = "HeatGuard Automated Moderation"
)

// Discord sends notifications over an established gateway session.
// logChannel resolves a guild's configured log channel; zero means the
// guild has none and announcements are skipped.
type Discord struct {
	session    *discordgo.Session
	logChannel func(guildID uint64) uint64
}

func New(session *discordgo.Session, logChannel func(guildID uint64) uint64) *Discord {
	return &Discord{session: session, logChannel: logChannel}
}

// NotifyUser DMs the offender. Users with DMs closed fail silently.
func (n *Discord) NotifyUser(userID uint64, message string) {
	if n.session == nil {
		return
	}
	go func() {
		ch, err := n.session.UserChannelCreate(util.Uint64ToString(userID))
		if err != nil {
			logging.Debug("[NOTIFY] Cannot open DM with user %d: %v", userID, err)
			return
		}
		if _, err := n.session.ChannelMessageSend(ch.ID, message); err != nil {
			logging.Debug("[NOTIFY] DM to user %d failed: %v", userID, err)
		}
	}()
}

// NotifyOwner DMs the guild owner after a panic remediation with the
// incident summary.
func (n *Discord) NotifyOwner(guildID uint64, inc *remedy.Incident, actionTaken string) {
	if n.session == nil || inc == nil {
		return
	}
	go func() {
		gid := util.Uint64ToString(guildID)
		guild, err := n.session.State.Guild(gid)
		if err != nil {
			guild, err = n.session.Guild(gid)
			if err != nil {
				logging.Warn("[NOTIFY] Cannot resolve guild %d for owner alert: %v", guildID, err)
				return
			}
		}

		actor := util.Uint64ToString(inc.ActorID)
		embed := &discordgo.MessageEmbed{
			Title: "🚨 Nuke Pattern Stopped",
			Color: colorPanic,
			Description: fmt.Sprintf(
				"An actor in your server crossed a destructive-action limit and was neutralized.\n**Action Taken:** %s", actionTaken),
			Fields: []*discordgo.MessageEmbedField{
				{Name: "👤 Actor", Value: fmt.Sprintf("<@%s> (`%s`)", actor, actor), Inline: true},
				{Name: "⚡ Pattern", Value: fmt.Sprintf("%s x%d (limit %d)", inc.Action, inc.Count, inc.Limit), Inline: true},
				{Name: "🕐 Timestamp", Value: fmt.Sprintf("<t:%d:F>", time.Now().Unix()), Inline: false},
			},
			Footer:    &discordgo.MessageEmbedFooter{Text: footerText},
			Timestamp: time.Now().Format(time.RFC3339),
		}

		ch, err := n.session.UserChannelCreate(guild.OwnerID)
		if err != nil {
			logging.Warn("[NOTIFY] Cannot open DM with owner of guild %d: %v", guildID, err)
			return
		}
		if _, err := n.session.ChannelMessageSendEmbed(ch.ID, embed); err != nil {
			logging.Warn("[NOTIFY] Owner alert for guild %d failed: %v", guildID, err)
		}
	}()
}

// AnnounceAction posts an embed to the guild's log channel, when one
// is configured.
func (n *Discord) AnnounceAction(guildID, userID uint64, action string, reason string) {
	if n.session == nil || n.logChannel == nil {
		return
	}
	channelID := n.logChannel(guildID)
	if channelID == 0 {
		return
	}

	user := util.Uint64ToString(userID)
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🛡️ Automod: %s", action),
		Color: colorAction,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "👤 User", Value: fmt.Sprintf("<@%s> (`%s`)", user, user), Inline: true},
			{Name: "📋 Reason", Value: reason, Inline: true},
			{Name: "🕐 Timestamp", Value: fmt.Sprintf("<t:%d:F>", time.Now().Unix()), Inline: false},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: footerText},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	go n.session.ChannelMessageSendEmbed(util.Uint64ToString(channelID), embed)
}
