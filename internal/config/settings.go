package config

import (
	"strings"
	"sync"
	"time"

	"go-heatguard/internal/antinuke"
	"go-heatguard/internal/automod"
	"go-heatguard/internal/database"
	"go-heatguard/internal/heat"
	"go-heatguard/internal/logging"
	"go-heatguard/internal/metrics"
	"go-heatguard/internal/models"
	"go-heatguard/pkg/util"
)

// Source is the subset of the rule store the settings cache reads.
type Source interface {
	GetGuildConfig(guildID string) (*database.GuildRow, error)
	GetHeatValues(guildID string) ([]*database.HeatValueRow, error)
	GetThresholds(guildID string) ([]*database.ThresholdRow, error)
	GetRules(guildID string) ([]*database.RuleRow, error)
	GetLimits(guildID string) ([]*database.LimitRow, error)
	GetWhitelist(guildID string) ([]*database.WhitelistRow, error)
}

// GuildSettings is the assembled, typed view of one guild's stored
// configuration, shared read-only between the classifier, the heat
// ledger, and the anti-nuke monitor.
type GuildSettings struct {
	Heat         *heat.Config
	Rules        []*automod.Rule
	AntiNuke     *antinuke.Config
	LogChannelID uint64
}

const DefaultTTLSeconds = 300

type cacheEntry struct {
	settings *GuildSettings
	loadedAt time.Time
}

// SettingsCache serves guild settings from memory with a TTL, so the
// hot paths never touch sqlite. Writes through the command surface
// call Invalidate, which forces a reload on the next lookup; the TTL
// bounds staleness for out-of-band edits.
type SettingsCache struct {
	source Source
	ttl    time.Duration

	mu      sync.RWMutex
	entries map[uint64]*cacheEntry

	// Rules whose stored config failed validation are warned about
	// once, not once per reload.
	warnedMu    sync.Mutex
	warnedRules map[int64]bool
}

func NewSettingsCache(source Source, ttlSeconds int) *SettingsCache {
	if ttlSeconds <= 0 {
		ttlSeconds = DefaultTTLSeconds
	}
	return &SettingsCache{
		source:      source,
		ttl:         time.Duration(ttlSeconds) * time.Second,
		entries:     make(map[uint64]*cacheEntry),
		warnedRules: make(map[int64]bool),
	}
}

// Get returns the guild's settings, loading from the store when the
// cached copy is missing or expired. A failed reload falls back to the
// stale copy when one exists; with no copy at all the guild is treated
// as unconfigured and nil is returned.
func (c *SettingsCache) Get(guildID uint64) *GuildSettings {
	c.mu.RLock()
	entry, ok := c.entries[guildID]
	c.mu.RUnlock()

	if ok && time.Since(entry.loadedAt) < c.ttl {
		return entry.settings
	}

	settings, err := c.load(guildID)
	if err != nil {
		metrics.CacheLoadError.Inc()
		logging.Error("[CACHE] Settings load failed for guild %d: %v", guildID, err)
		if ok {
			return entry.settings
		}
		return nil
	}

	c.mu.Lock()
	c.entries[guildID] = &cacheEntry{settings: settings, loadedAt: time.Now()}
	c.mu.Unlock()
	return settings
}

// Invalidate drops a guild's cached settings after a configuration
// write, so the next message or audit event sees the new rules.
func (c *SettingsCache) Invalidate(guildID uint64) {
	c.mu.Lock()
	delete(c.entries, guildID)
	c.mu.Unlock()
}

// StartRefreshLoop expires the whole cache every TTL period. Entries
// reload lazily on the next lookup, so idle guilds cost nothing.
func (c *SettingsCache) StartRefreshLoop(stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(c.ttl)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.mu.Lock()
				c.entries = make(map[uint64]*cacheEntry)
				c.mu.Unlock()
				logging.Debug("[CACHE] Wholesale settings expiry")
			case <-stop:
				return
			}
		}
	}()
}

func (c *SettingsCache) load(guildID uint64) (*GuildSettings, error) {
	gid := util.Uint64ToString(guildID)

	guild, err := c.source.GetGuildConfig(gid)
	if err != nil {
		return nil, err
	}

	heatCfg, err := c.loadHeat(gid, guild)
	if err != nil {
		return nil, err
	}
	rules, err := c.loadRules(gid)
	if err != nil {
		return nil, err
	}
	nukeCfg, err := c.loadAntiNuke(gid, guild)
	if err != nil {
		return nil, err
	}

	metrics.CacheRefreshes.Inc()
	return &GuildSettings{
		Heat:         heatCfg,
		Rules:        rules,
		AntiNuke:     nukeCfg,
		LogChannelID: util.MustUint64(guild.LogChannelID),
	}, nil
}

func (c *SettingsCache) loadHeat(gid string, guild *database.GuildRow) (*heat.Config, error) {
	values, err := c.source.GetHeatValues(gid)
	if err != nil {
		return nil, err
	}
	thresholds, err := c.source.GetThresholds(gid)
	if err != nil {
		return nil, err
	}

	cfg := &heat.Config{
		Enabled:     guild.AutomodEnabled,
		HeatValues:  make(map[models.ViolationType]int, len(values)),
		DecayWindow: time.Duration(guild.DecaySeconds) * time.Second,
	}
	for _, v := range values {
		cfg.HeatValues[models.ViolationType(v.Violation)] = v.Points
	}
	for _, t := range thresholds {
		if !models.ValidActionType(t.Action) {
			logging.Warn("[CACHE] Guild %s threshold %d has unknown action %q, skipped",
				gid, t.Threshold, t.Action)
			continue
		}
		cfg.Thresholds = append(cfg.Thresholds, heat.Threshold{
			Score:           t.Threshold,
			Action:          models.ActionType(t.Action),
			DurationMinutes: t.DurationMinutes,
		})
	}
	heat.SortThresholds(cfg.Thresholds)
	return cfg, nil
}

func (c *SettingsCache) loadRules(gid string) ([]*automod.Rule, error) {
	rows, err := c.source.GetRules(gid)
	if err != nil {
		return nil, err
	}

	rules := make([]*automod.Rule, 0, len(rows))
	for _, row := range rows {
		rule := &automod.Rule{
			ID:              row.ID,
			Type:            automod.FilterType(row.FilterType),
			Enabled:         row.Enabled,
			IgnoredChannels: parseIDSet(row.IgnoredChannels),
			IgnoredRoles:    parseIDSet(row.IgnoredRoles),
		}
		if err := rule.ParseConfig(row.Config); err != nil {
			rule.Inert = true
			c.warnInertOnce(row.ID, gid, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func (c *SettingsCache) loadAntiNuke(gid string, guild *database.GuildRow) (*antinuke.Config, error) {
	limits, err := c.source.GetLimits(gid)
	if err != nil {
		return nil, err
	}
	whitelist, err := c.source.GetWhitelist(gid)
	if err != nil {
		return nil, err
	}

	cfg := &antinuke.Config{
		Enabled:       guild.AntiNukeEnabled,
		WindowSeconds: guild.WindowSeconds,
		Limits:        make(map[models.AuditAction]int, len(limits)),
		Whitelist:     make(map[uint64]bool, len(whitelist)),
	}
	for _, l := range limits {
		action := models.ParseAuditAction(l.ActionType)
		if action == models.AuditUnknown {
			logging.Warn("[CACHE] Guild %s has limit for unknown action %q, skipped", gid, l.ActionType)
			continue
		}
		cfg.Limits[action] = l.MaxActions
	}
	for _, w := range whitelist {
		if id := util.MustUint64(w.TargetID); id != 0 {
			cfg.Whitelist[id] = true
		}
	}
	return cfg, nil
}

func (c *SettingsCache) warnInertOnce(ruleID int64, gid string, err error) {
	c.warnedMu.Lock()
	seen := c.warnedRules[ruleID]
	if !seen {
		c.warnedRules[ruleID] = true
	}
	c.warnedMu.Unlock()
	if !seen {
		logging.Warn("[CACHE] Rule %d in guild %s is inert: %v", ruleID, gid, err)
	}
}

func parseIDSet(csv string) map[uint64]bool {
	if csv == "" {
		return nil
	}
	set := make(map[uint64]bool)
	for _, part := range strings.Split(csv, ",") {
		if id := util.MustUint64(strings.TrimSpace(part)); id != 0 {
			set[id] = true
		}
	}
	return set
}
