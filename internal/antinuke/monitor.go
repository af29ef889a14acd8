package antinuke

import (
	"time"

	"go-heatguard/internal/models"
)

const (
	DefaultWindowSeconds = 10
	// Action types without a configured limit are effectively
	// untracked.
	UntrackedLimit = 999
)

// Config is a guild's anti-nuke configuration.
type Config struct {
	Enabled       bool
	WindowSeconds int
	Limits        map[models.AuditAction]int
	Whitelist     map[uint64]bool
}

func (c *Config) window() time.Duration {
	secs := c.WindowSeconds
	if secs <= 0 {
		secs = DefaultWindowSeconds
	}
	return time.Duration(secs) * time.Second
}

func (c *Config) limit(a models.AuditAction) int {
	if limit, ok := c.Limits[a]; ok && limit > 0 {
		return limit
	}
	return UntrackedLimit
}

// Trigger reports that an actor crossed an action-count limit and
// panic remediation should run.
type Trigger struct {
	GuildID uint64
	ActorID uint64
	Action  models.AuditAction
	Count   int
	Limit   int
}

// Monitor evaluates audit entries against per-actor sliding windows.
type Monitor struct {
	tracker Tracker
	now     func() time.Time
}

func NewMonitor(tracker Tracker) *Monitor {
	return &Monitor{tracker: tracker, now: time.Now}
}

// SetClock overrides the time source. Test hook.
func (m *Monitor) SetClock(now func() time.Time) {
	m.now = now
}

// Process counts one audit entry and decides whether to escalate.
// Returns nil for anything out of scope: unmonitored action types,
// missing executors, disabled config, the bot itself, and whitelisted
// actors (the whitelist is consulted on every call, never cached
// per-actor).
//
// On trigger only the crossing (guild, actor, action) bucket resets;
// the same actor's other action-type counters are untouched.
func (m *Monitor) Process(e *models.AuditEntry, cfg *Config, botID uint64) *Trigger {
	if !monitored(e.Action) || e.ExecutorID == 0 {
		return nil
	}
	if cfg == nil || !cfg.Enabled {
		return nil
	}
	if e.ExecutorID == botID || cfg.Whitelist[e.ExecutorID] {
		return nil
	}

	k := Key{GuildID: e.GuildID, ActorID: e.ExecutorID, Action: e.Action}
	count := m.tracker.Record(k, m.now(), cfg.window())

	limit := cfg.limit(e.Action)
	if count < limit {
		return nil
	}

	m.tracker.Clear(k)
	return &Trigger{
		GuildID: e.GuildID,
		ActorID: e.ExecutorID,
		Action:  e.Action,
		Count:   count,
		Limit:   limit,
	}
}

func monitored(a models.AuditAction) bool {
	switch a {
	case models.AuditChannelDelete, models.AuditRoleDelete, models.AuditKick, models.AuditBan:
		return true
	}
	return false
}
