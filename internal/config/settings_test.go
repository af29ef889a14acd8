package config

import (
	"errors"
	"testing"
	"time"

	"go-heatguard/internal/database"
	"go-heatguard/internal/metrics"
	"go-heatguard/internal/models"
)

func init() {
	metrics.Init()
}

type fakeSource struct {
	guild      *database.GuildRow
	heatValues []*database.HeatValueRow
	thresholds []*database.ThresholdRow
	rules      []*database.RuleRow
	limits     []*database.LimitRow
	whitelist  []*database.WhitelistRow

	loads   int
	failAll bool
}

func (f *fakeSource) GetGuildConfig(guildID string) (*database.GuildRow, error) {
	f.loads++
	if f.failAll {
		return nil, errors.New("db down")
	}
	return f.guild, nil
}

func (f *fakeSource) GetHeatValues(guildID string) ([]*database.HeatValueRow, error) {
	return f.heatValues, nil
}

func (f *fakeSource) GetThresholds(guildID string) ([]*database.ThresholdRow, error) {
	return f.thresholds, nil
}

func (f *fakeSource) GetRules(guildID string) ([]*database.RuleRow, error) {
	return f.rules, nil
}

func (f *fakeSource) GetLimits(guildID string) ([]*database.LimitRow, error) {
	return f.limits, nil
}

func (f *fakeSource) GetWhitelist(guildID string) ([]*database.WhitelistRow, error) {
	return f.whitelist, nil
}

func fullSource() *fakeSource {
	return &fakeSource{
		guild: &database.GuildRow{
			GuildID:         "1",
			AutomodEnabled:  true,
			DecaySeconds:    600,
			AntiNukeEnabled: true,
			WindowSeconds:   10,
			LogChannelID:    "555",
		},
		heatValues: []*database.HeatValueRow{
			{GuildID: "1", Violation: "banned_words", Points: 5},
			{GuildID: "1", Violation: "discord_invites", Points: 10},
		},
		thresholds: []*database.ThresholdRow{
			{GuildID: "1", Threshold: 10, Action: "warn"},
			{GuildID: "1", Threshold: 35, Action: "ban"},
			{GuildID: "1", Threshold: 20, Action: "mute", DurationMinutes: 30},
		},
		rules: []*database.RuleRow{
			{ID: 1, GuildID: "1", FilterType: "banned_words", Config: `{"words":["spam"]}`, Enabled: true,
				IgnoredChannels: "10,11", IgnoredRoles: "77"},
			{ID: 2, GuildID: "1", FilterType: "banned_words", Config: `{"words":[]}`, Enabled: true},
		},
		limits: []*database.LimitRow{
			{GuildID: "1", ActionType: "ban", MaxActions: 3},
			{GuildID: "1", ActionType: "bogus", MaxActions: 1},
		},
		whitelist: []*database.WhitelistRow{
			{GuildID: "1", TargetID: "900"},
		},
	}
}

func TestCacheAssemblesTypedSettings(t *testing.T) {
	cache := NewSettingsCache(fullSource(), 300)

	s := cache.Get(1)
	if s == nil {
		t.Fatal("expected settings")
	}

	if !s.Heat.Enabled || s.Heat.DecayWindow != 10*time.Minute {
		t.Fatalf("heat config = %+v", s.Heat)
	}
	if s.Heat.HeatValues[models.ViolationBannedWords] != 5 {
		t.Fatal("heat values not mapped")
	}
	// Thresholds sorted descending for first-hit resolution.
	if s.Heat.Thresholds[0].Score != 35 || s.Heat.Thresholds[2].Score != 10 {
		t.Fatalf("threshold order = %+v", s.Heat.Thresholds)
	}

	if len(s.Rules) != 2 {
		t.Fatalf("rules = %d, want 2", len(s.Rules))
	}
	good := s.Rules[0]
	if good.Inert || good.BannedWords == nil || !good.IgnoredChannels[10] || !good.IgnoredRoles[77] {
		t.Fatalf("rule 1 = %+v", good)
	}
	// Empty word list fails validation and goes inert, not dropped.
	if !s.Rules[1].Inert {
		t.Fatal("rule 2 must be inert")
	}

	if !s.AntiNuke.Enabled || s.AntiNuke.Limits[models.AuditBan] != 3 {
		t.Fatalf("antinuke config = %+v", s.AntiNuke)
	}
	if _, ok := s.AntiNuke.Limits[models.AuditUnknown]; ok {
		t.Fatal("unknown action limits must be skipped")
	}
	if !s.AntiNuke.Whitelist[900] {
		t.Fatal("whitelist not mapped")
	}

	if s.LogChannelID != 555 {
		t.Fatalf("log channel = %d, want 555", s.LogChannelID)
	}
}

func TestCacheServesFromMemoryUntilInvalidated(t *testing.T) {
	src := fullSource()
	cache := NewSettingsCache(src, 300)

	cache.Get(1)
	cache.Get(1)
	cache.Get(1)
	if src.loads != 1 {
		t.Fatalf("loads = %d, want 1 while fresh", src.loads)
	}

	cache.Invalidate(1)
	cache.Get(1)
	if src.loads != 2 {
		t.Fatalf("loads = %d, want 2 after invalidation", src.loads)
	}
}

func TestCacheFallsBackToStaleOnLoadError(t *testing.T) {
	src := fullSource()
	cache := NewSettingsCache(src, 300)

	s := cache.Get(1)
	if s == nil {
		t.Fatal("priming load failed")
	}

	src.failAll = true
	cache.Invalidate(1)
	// No cached copy: unconfigured.
	if got := cache.Get(1); got != nil {
		t.Fatal("load failure with no stale copy must return nil")
	}

	// With a cached copy the stale settings survive a failed reload.
	src.failAll = false
	s = cache.Get(1)
	src.failAll = true
	cache.entries[1].loadedAt = time.Now().Add(-time.Hour)
	if got := cache.Get(1); got != s {
		t.Fatal("expected the stale copy on reload failure")
	}
}

func TestCacheDefaultTTL(t *testing.T) {
	cache := NewSettingsCache(fullSource(), 0)
	if cache.ttl != DefaultTTLSeconds*time.Second {
		t.Fatalf("ttl = %v, want %v", cache.ttl, DefaultTTLSeconds*time.Second)
	}
}

func TestParseIDSet(t *testing.T) {
	set := parseIDSet("10, 11,abc,0,")
	if len(set) != 2 || !set[10] || !set[11] {
		t.Fatalf("set = %v", set)
	}
	if parseIDSet("") != nil {
		t.Fatal("empty csv yields nil set")
	}
}
