package bot

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"go-heatguard/internal/engine"
	"go-heatguard/internal/ingest"
	"go-heatguard/internal/logging"
	"go-heatguard/internal/metrics"
	"go-heatguard/internal/models"
	"go-heatguard/pkg/util"
)

// SetupEventHandlers wires the gateway to the two pipelines: chat
// messages run inline through the message engine, audit-log entries
// go through the ring buffer to the pinned anti-nuke loop.
func (s *Session) SetupEventHandlers(msgEngine *engine.MessageEngine, ringBuffer *ingest.RingBuffer) {
	logging.Info("Setting up Discord event handlers...")

	s.discord.AddHandler(func(sess *discordgo.Session, r *discordgo.Ready) {
		logging.Info("Bot ready! Connected as %s, serving %d guilds",
			r.User.Username, len(r.Guilds))
	})

	s.discord.AddHandler(func(sess *discordgo.Session, m *discordgo.MessageCreate) {
		if m.GuildID == "" || m.Author == nil {
			return
		}
		msgEngine.HandleMessage(chatMessage(m))
	})

	s.discord.AddHandler(func(sess *discordgo.Session, e *discordgo.GuildAuditLogEntryCreate) {
		if e.GuildID == "" || e.ActionType == nil {
			return
		}

		action := mapAuditAction(*e.ActionType)
		if action == models.AuditUnknown {
			return
		}

		event := ingest.CreateEvent(
			action,
			util.MustUint64(e.GuildID),
			util.MustUint64(e.UserID),
			util.MustUint64(e.TargetID),
			time.Now().UnixNano(),
		)
		if ringBuffer.Enqueue(event) {
			metrics.AuditIngested.Inc()
		} else {
			metrics.AuditDropped.Inc()
			logging.Warn("[INGEST] Ring buffer full, dropped %s in guild %s", action, e.GuildID)
		}
	})
}

// chatMessage flattens a gateway message into the classifier's shape.
// Mentions are deduplicated here so mass-mention counting sees
// distinct users.
func chatMessage(m *discordgo.MessageCreate) *models.ChatMessage {
	msg := &models.ChatMessage{
		GuildID:     util.MustUint64(m.GuildID),
		ChannelID:   util.MustUint64(m.ChannelID),
		MessageID:   util.MustUint64(m.ID),
		AuthorID:    util.MustUint64(m.Author.ID),
		AuthorIsBot: m.Author.Bot,
		Content:     m.Content,
	}

	seen := make(map[uint64]bool, len(m.Mentions))
	for _, u := range m.Mentions {
		id := util.MustUint64(u.ID)
		if id != 0 && !seen[id] {
			seen[id] = true
			msg.MentionedUsers = append(msg.MentionedUsers, id)
		}
	}

	if m.Member != nil {
		msg.AuthorRoles = make([]uint64, 0, len(m.Member.Roles))
		for _, r := range m.Member.Roles {
			msg.AuthorRoles = append(msg.AuthorRoles, util.MustUint64(r))
		}
	}

	return msg
}

func mapAuditAction(t discordgo.AuditLogAction) models.AuditAction {
	switch t {
	case discordgo.AuditLogActionChannelDelete:
		return models.AuditChannelDelete
	case discordgo.AuditLogActionRoleDelete:
		return models.AuditRoleDelete
	case discordgo.AuditLogActionMemberKick:
		return models.AuditKick
	case discordgo.AuditLogActionMemberBanAdd:
		return models.AuditBan
	}
	return models.AuditUnknown
}
