package antinuke

import (
	"testing"
	"time"

	"go-heatguard/internal/models"
)

const testBotID = 999

type monitorClock struct {
	now time.Time
}

func (c *monitorClock) Now() time.Time { return c.now }

func (c *monitorClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestMonitor() (*Monitor, *monitorClock) {
	clock := &monitorClock{now: time.Unix(1_700_000_000, 0)}
	m := NewMonitor(NewMemoryTracker())
	m.SetClock(clock.Now)
	return m, clock
}

func testNukeConfig() *Config {
	return &Config{
		Enabled:       true,
		WindowSeconds: 10,
		Limits: map[models.AuditAction]int{
			models.AuditBan:           3,
			models.AuditChannelDelete: 2,
		},
	}
}

func entry(action models.AuditAction, executor uint64) *models.AuditEntry {
	return &models.AuditEntry{GuildID: 1, ExecutorID: executor, Action: action}
}

func TestProcessTriggersAtLimit(t *testing.T) {
	m, clock := newTestMonitor()
	cfg := testNukeConfig()

	// Three bans inside eight seconds: the third crosses the limit.
	for i := 0; i < 2; i++ {
		if trig := m.Process(entry(models.AuditBan, 50), cfg, testBotID); trig != nil {
			t.Fatalf("ban %d should not trigger", i+1)
		}
		clock.Advance(4 * time.Second)
	}
	trig := m.Process(entry(models.AuditBan, 50), cfg, testBotID)
	if trig == nil {
		t.Fatal("third ban in window must trigger")
	}
	if trig.Count != 3 || trig.Limit != 3 || trig.Action != models.AuditBan || trig.ActorID != 50 {
		t.Fatalf("trigger = %+v", trig)
	}
}

func TestProcessWindowExpiry(t *testing.T) {
	m, clock := newTestMonitor()
	cfg := testNukeConfig()

	m.Process(entry(models.AuditBan, 50), cfg, testBotID)
	m.Process(entry(models.AuditBan, 50), cfg, testBotID)
	clock.Advance(11 * time.Second)

	// Both prior bans aged out of the 10s window.
	if trig := m.Process(entry(models.AuditBan, 50), cfg, testBotID); trig != nil {
		t.Fatal("stale timestamps must not count toward the limit")
	}
}

func TestProcessClearsOnlyTriggeringBucket(t *testing.T) {
	m, _ := newTestMonitor()
	cfg := testNukeConfig()

	// One channel delete for the same actor, then trip the ban limit.
	m.Process(entry(models.AuditChannelDelete, 50), cfg, testBotID)
	for i := 0; i < 2; i++ {
		m.Process(entry(models.AuditBan, 50), cfg, testBotID)
	}
	if trig := m.Process(entry(models.AuditBan, 50), cfg, testBotID); trig == nil {
		t.Fatal("expected ban trigger")
	}

	// Ban bucket reset: a single fresh ban does not trigger.
	if trig := m.Process(entry(models.AuditBan, 50), cfg, testBotID); trig != nil {
		t.Fatal("ban bucket should have been cleared")
	}

	// Channel-delete bucket untouched: one more crosses its limit of 2.
	if trig := m.Process(entry(models.AuditChannelDelete, 50), cfg, testBotID); trig == nil {
		t.Fatal("channel-delete bucket must survive the ban trigger")
	}
}

func TestProcessIsolatesActors(t *testing.T) {
	m, _ := newTestMonitor()
	cfg := testNukeConfig()

	m.Process(entry(models.AuditBan, 50), cfg, testBotID)
	m.Process(entry(models.AuditBan, 50), cfg, testBotID)

	// A different actor's ban starts its own count.
	if trig := m.Process(entry(models.AuditBan, 51), cfg, testBotID); trig != nil {
		t.Fatal("actors must not share windows")
	}
}

func TestProcessSkipsExemptExecutors(t *testing.T) {
	m, _ := newTestMonitor()
	cfg := testNukeConfig()
	cfg.Whitelist = map[uint64]bool{77: true}

	for i := 0; i < 10; i++ {
		if trig := m.Process(entry(models.AuditBan, testBotID), cfg, testBotID); trig != nil {
			t.Fatal("the bot's own actions are never tracked")
		}
		if trig := m.Process(entry(models.AuditBan, 77), cfg, testBotID); trig != nil {
			t.Fatal("whitelisted actors are never tracked")
		}
		if trig := m.Process(entry(models.AuditBan, 0), cfg, testBotID); trig != nil {
			t.Fatal("missing executor is skipped")
		}
	}
}

func TestProcessDisabledAndNilConfig(t *testing.T) {
	m, _ := newTestMonitor()

	if trig := m.Process(entry(models.AuditBan, 50), nil, testBotID); trig != nil {
		t.Fatal("nil config must be a no-op")
	}

	cfg := testNukeConfig()
	cfg.Enabled = false
	for i := 0; i < 5; i++ {
		if trig := m.Process(entry(models.AuditBan, 50), cfg, testBotID); trig != nil {
			t.Fatal("disabled config must be a no-op")
		}
	}
}

func TestProcessUnlimitedActionEffectivelyUntracked(t *testing.T) {
	m, _ := newTestMonitor()
	cfg := testNukeConfig()

	// Kick has no configured limit; the default cap is high enough to
	// never fire in practice.
	for i := 0; i < 100; i++ {
		if trig := m.Process(entry(models.AuditKick, 50), cfg, testBotID); trig != nil {
			t.Fatal("unconfigured action should not trigger")
		}
	}
}

func TestProcessIgnoresUnmonitoredActions(t *testing.T) {
	m, _ := newTestMonitor()
	cfg := testNukeConfig()

	e := &models.AuditEntry{GuildID: 1, ExecutorID: 50, Action: models.AuditUnknown}
	if trig := m.Process(e, cfg, testBotID); trig != nil {
		t.Fatal("unknown actions are out of scope")
	}
}

func TestTrackerRecordAndClear(t *testing.T) {
	tr := NewMemoryTracker()
	k := Key{GuildID: 1, ActorID: 50, Action: models.AuditBan}
	now := time.Unix(1_700_000_000, 0)
	window := 10 * time.Second

	if n := tr.Record(k, now, window); n != 1 {
		t.Fatalf("count = %d, want 1", n)
	}
	if n := tr.Record(k, now.Add(time.Second), window); n != 2 {
		t.Fatalf("count = %d, want 2", n)
	}
	// Outside the window relative to the newest timestamp.
	if n := tr.Record(k, now.Add(15*time.Second), window); n != 1 {
		t.Fatalf("count after expiry = %d, want 1", n)
	}

	tr.Clear(k)
	if tr.Len() != 0 {
		t.Fatalf("Len = %d after Clear, want 0", tr.Len())
	}
}
