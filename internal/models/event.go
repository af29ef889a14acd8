package models

// ViolationType identifies the automod rule category a message triggered.
type ViolationType string

const (
	ViolationBannedWords ViolationType = "banned_words"
	ViolationInviteLink  ViolationType = "discord_invites"
	ViolationMassMention ViolationType = "mass_mention"
	ViolationAllCaps     ViolationType = "all_caps"
)

// AuditAction is the administrative action class tracked by the anti-nuke monitor.
type AuditAction uint8

const (
	AuditUnknown AuditAction = iota
	AuditChannelDelete
	AuditRoleDelete
	AuditKick
	AuditBan
)

func (a AuditAction) String() string {
	switch a {
	case AuditChannelDelete:
		return "channel_delete"
	case AuditRoleDelete:
		return "role_delete"
	case AuditKick:
		return "kick"
	case AuditBan:
		return "ban"
	default:
		return "unknown"
	}
}

// ParseAuditAction maps a stored action name back to its class.
// Unrecognized names map to AuditUnknown.
func ParseAuditAction(s string) AuditAction {
	switch s {
	case "channel_delete":
		return AuditChannelDelete
	case "role_delete":
		return AuditRoleDelete
	case "kick":
		return AuditKick
	case "ban":
		return AuditBan
	}
	return AuditUnknown
}

// MonitoredAuditActions lists every action class the anti-nuke tracker counts.
func MonitoredAuditActions() []AuditAction {
	return []AuditAction{AuditChannelDelete, AuditRoleDelete, AuditKick, AuditBan}
}

// ChatMessage is the inbound message shape consumed by the violation classifier.
type ChatMessage struct {
	GuildID        uint64
	ChannelID      uint64
	MessageID      uint64
	AuthorID       uint64
	AuthorIsBot    bool
	Content        string
	MentionedUsers []uint64
	AuthorRoles    []uint64
}

// AuditEntry is one audit-log record attributed to an executor.
type AuditEntry struct {
	GuildID    uint64
	ExecutorID uint64
	TargetID   uint64
	Action     AuditAction
}
