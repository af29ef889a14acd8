package models

// ActionType is the remediation taken once a heat threshold is crossed.
type ActionType string

const (
	ActionWarn ActionType = "warn"
	ActionMute ActionType = "mute"
	ActionKick ActionType = "kick"
	ActionBan  ActionType = "ban"
)

// DefaultMuteMinutes applies when a mute threshold has no duration configured.
const DefaultMuteMinutes = 10

func ValidActionType(s string) bool {
	switch ActionType(s) {
	case ActionWarn, ActionMute, ActionKick, ActionBan:
		return true
	}
	return false
}

// Infraction is the record appended for every executed remediation.
type Infraction struct {
	ID              int64
	GuildID         string
	UserID          string
	Action          string
	Reason          string
	DurationMinutes int
	Moderator       string
	CreatedAt       int64
}

// ModeratorAutomation is the moderator identity recorded for automated actions.
const ModeratorAutomation = "automod"
