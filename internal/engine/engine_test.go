package engine

import (
	"errors"
	"testing"

	"go-heatguard/internal/antinuke"
	"go-heatguard/internal/config"
	"go-heatguard/internal/database"
	"go-heatguard/internal/heat"
	"go-heatguard/internal/ingest"
	"go-heatguard/internal/metrics"
	"go-heatguard/internal/models"
	"go-heatguard/internal/remedy"
)

func init() {
	metrics.Init()
}

type staticSource struct {
	fail bool
}

func (s *staticSource) GetGuildConfig(guildID string) (*database.GuildRow, error) {
	if s.fail {
		return nil, errors.New("db down")
	}
	return &database.GuildRow{
		GuildID:         guildID,
		AutomodEnabled:  true,
		DecaySeconds:    600,
		AntiNukeEnabled: true,
		WindowSeconds:   10,
	}, nil
}

func (s *staticSource) GetHeatValues(guildID string) ([]*database.HeatValueRow, error) {
	return []*database.HeatValueRow{
		{GuildID: guildID, Violation: "banned_words", Points: 5},
	}, nil
}

func (s *staticSource) GetThresholds(guildID string) ([]*database.ThresholdRow, error) {
	return []*database.ThresholdRow{
		{GuildID: guildID, Threshold: 10, Action: "warn"},
	}, nil
}

func (s *staticSource) GetRules(guildID string) ([]*database.RuleRow, error) {
	return []*database.RuleRow{
		{ID: 1, GuildID: guildID, FilterType: "banned_words", Config: `{"words":["spam"]}`, Enabled: true},
	}, nil
}

func (s *staticSource) GetLimits(guildID string) ([]*database.LimitRow, error) {
	return []*database.LimitRow{
		{GuildID: guildID, ActionType: "ban", MaxActions: 2},
	}, nil
}

func (s *staticSource) GetWhitelist(guildID string) ([]*database.WhitelistRow, error) {
	return nil, nil
}

func chat(content string) *models.ChatMessage {
	return &models.ChatMessage{GuildID: 1, ChannelID: 42, AuthorID: 100, Content: content}
}

func TestHandleMessageScoresAndEscalates(t *testing.T) {
	cache := config.NewSettingsCache(&staticSource{}, 300)
	jobs := remedy.NewJobQueue(16)
	e := NewMessageEngine(cache, heat.NewLedger(heat.NewMemoryStore()), jobs)

	e.HandleMessage(chat("spam"))
	if jobs.Size() != 0 {
		t.Fatal("score 5 must not enqueue")
	}

	e.HandleMessage(chat("more spam"))
	job, ok := jobs.Dequeue()
	if !ok {
		t.Fatal("score 10 must enqueue a warn")
	}
	if job.Type != remedy.JobWarn || job.UserID != 100 || job.ChannelID != 42 || job.Score != 10 {
		t.Fatalf("job = %+v", job)
	}
}

func TestHandleMessageCleanContentIgnored(t *testing.T) {
	cache := config.NewSettingsCache(&staticSource{}, 300)
	jobs := remedy.NewJobQueue(16)
	e := NewMessageEngine(cache, heat.NewLedger(heat.NewMemoryStore()), jobs)

	for i := 0; i < 10; i++ {
		e.HandleMessage(chat("perfectly fine message"))
	}
	if jobs.Size() != 0 {
		t.Fatal("clean messages never enqueue")
	}
}

func TestHandleMessageUnconfiguredGuildIsNoOp(t *testing.T) {
	cache := config.NewSettingsCache(&staticSource{fail: true}, 300)
	jobs := remedy.NewJobQueue(16)
	e := NewMessageEngine(cache, heat.NewLedger(heat.NewMemoryStore()), jobs)

	e.HandleMessage(chat("spam"))
	if jobs.Size() != 0 {
		t.Fatal("missing settings must not enqueue")
	}
}

func TestAuditProcessEnqueuesPanicJob(t *testing.T) {
	cache := config.NewSettingsCache(&staticSource{}, 300)
	jobs := remedy.NewJobQueue(16)
	e := NewAuditEngine(ingest.NewRingBuffer(16), cache, antinuke.NewMonitor(antinuke.NewMemoryTracker()), jobs, 999, 0)

	entry := &models.AuditEntry{GuildID: 1, ExecutorID: 50, Action: models.AuditBan}
	e.process(entry)
	if jobs.Size() != 0 {
		t.Fatal("first ban is under the limit")
	}

	e.process(entry)
	job, ok := jobs.Dequeue()
	if !ok {
		t.Fatal("second ban crosses limit 2")
	}
	if job.Type != remedy.JobRoleStrip || job.UserID != 50 || job.Incident == nil {
		t.Fatalf("job = %+v", job)
	}
	if job.Incident.Count != 2 || job.Incident.Action != models.AuditBan {
		t.Fatalf("incident = %+v", job.Incident)
	}
}

func TestAuditProcessIgnoresBotActions(t *testing.T) {
	cache := config.NewSettingsCache(&staticSource{}, 300)
	jobs := remedy.NewJobQueue(16)
	e := NewAuditEngine(ingest.NewRingBuffer(16), cache, antinuke.NewMonitor(antinuke.NewMemoryTracker()), jobs, 999, 0)

	entry := &models.AuditEntry{GuildID: 1, ExecutorID: 999, Action: models.AuditBan}
	for i := 0; i < 10; i++ {
		e.process(entry)
	}
	if jobs.Size() != 0 {
		t.Fatal("the bot's own audit entries are exempt")
	}
}
