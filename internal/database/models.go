package database

// GuildRow is the per-guild master configuration row.
type GuildRow struct {
	GuildID         string
	AutomodEnabled  bool
	DecaySeconds    int
	AntiNukeEnabled bool
	WindowSeconds   int
	LogChannelID    string
	CreatedAt       int64
	UpdatedAt       int64
}

// HeatValueRow maps one violation type to its heat points.
type HeatValueRow struct {
	GuildID   string
	Violation string
	Points    int
}

// ThresholdRow is one (score, action) escalation step.
type ThresholdRow struct {
	GuildID         string
	Threshold       int
	Action          string
	DurationMinutes int
}

// RuleRow is a stored automod rule. Config is an opaque JSON blob
// validated when the settings cache assembles the typed rule.
type RuleRow struct {
	ID              int64
	GuildID         string
	FilterType      string
	Config          string
	IgnoredChannels string // comma-separated channel IDs
	IgnoredRoles    string // comma-separated role IDs
	Enabled         bool
	Position        int
}

// LimitRow caps one audit action class for the anti-nuke tracker.
type LimitRow struct {
	GuildID    string
	ActionType string
	MaxActions int
}

// WhitelistRow exempts a user from anti-nuke tracking.
type WhitelistRow struct {
	ID        int64
	GuildID   string
	TargetID  string
	AddedBy   string
	CreatedAt int64
}
