package remedy

import (
	"errors"
	"testing"
	"time"

	"go-heatguard/internal/metrics"
	"go-heatguard/internal/models"
)

func init() {
	metrics.Init()
}

type fakeActioner struct {
	timeouts []time.Time
	kicked   []uint64
	banned   []uint64
	stripped []uint64
	purged   chan uint64
	failWith error
}

func newFakeActioner() *fakeActioner {
	return &fakeActioner{purged: make(chan uint64, 8)}
}

func (f *fakeActioner) Timeout(guildID, userID uint64, until time.Time, reason string) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.timeouts = append(f.timeouts, until)
	return nil
}

func (f *fakeActioner) Kick(guildID, userID uint64, reason string) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.kicked = append(f.kicked, userID)
	return nil
}

func (f *fakeActioner) Ban(guildID, userID uint64, reason string) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.banned = append(f.banned, userID)
	return nil
}

func (f *fakeActioner) RemoveAllRoles(guildID, userID uint64, reason string) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.stripped = append(f.stripped, userID)
	return nil
}

func (f *fakeActioner) PurgeUserMessages(guildID, channelID, userID uint64, limit int) error {
	f.purged <- userID
	return nil
}

type fakeGuard struct {
	allow bool
}

func (g *fakeGuard) Moderatable(guildID, userID uint64) bool { return g.allow }
func (g *fakeGuard) Kickable(guildID, userID uint64) bool    { return g.allow }
func (g *fakeGuard) Bannable(guildID, userID uint64) bool    { return g.allow }
func (g *fakeGuard) Manageable(guildID, userID uint64) bool  { return g.allow }

type fakeRecorder struct {
	infractions []*models.Infraction
}

func (r *fakeRecorder) RecordInfraction(inf *models.Infraction) error {
	r.infractions = append(r.infractions, inf)
	return nil
}

type fakeNotifier struct {
	userMessages []string
	ownerAlerts  []*Incident
	announced    []string
}

func (n *fakeNotifier) NotifyUser(userID uint64, message string) {
	n.userMessages = append(n.userMessages, message)
}

func (n *fakeNotifier) NotifyOwner(guildID uint64, inc *Incident, actionTaken string) {
	n.ownerAlerts = append(n.ownerAlerts, inc)
}

func (n *fakeNotifier) AnnounceAction(guildID, userID uint64, action string, reason string) {
	n.announced = append(n.announced, action)
}

func testExecutor(allow bool) (*Executor, *fakeActioner, *fakeRecorder, *fakeNotifier) {
	actioner := newFakeActioner()
	recorder := &fakeRecorder{}
	notifier := &fakeNotifier{}
	return NewExecutor(actioner, &fakeGuard{allow: allow}, recorder, notifier), actioner, recorder, notifier
}

func TestExecuteWarnRecordsAndNotifies(t *testing.T) {
	e, _, recorder, notifier := testExecutor(true)

	e.Execute(&Job{Type: JobWarn, GuildID: 1, UserID: 100, Reason: "spam"})

	if len(recorder.infractions) != 1 {
		t.Fatalf("infractions = %d, want 1", len(recorder.infractions))
	}
	inf := recorder.infractions[0]
	if inf.Action != "warn" || inf.Moderator != models.ModeratorAutomation {
		t.Fatalf("infraction = %+v", inf)
	}
	if len(notifier.userMessages) != 1 {
		t.Fatal("warn must DM the offender")
	}
	if len(notifier.announced) != 1 || notifier.announced[0] != "warn" {
		t.Fatalf("announced = %v", notifier.announced)
	}
}

func TestExecuteMuteDefaultDuration(t *testing.T) {
	e, actioner, recorder, _ := testExecutor(true)

	before := time.Now()
	e.Execute(&Job{Type: JobMute, GuildID: 1, UserID: 100, Reason: "spam"})

	if len(actioner.timeouts) != 1 {
		t.Fatal("expected one timeout call")
	}
	until := actioner.timeouts[0]
	want := before.Add(models.DefaultMuteMinutes * time.Minute)
	if until.Before(want.Add(-time.Minute)) || until.After(want.Add(time.Minute)) {
		t.Fatalf("timeout until %v, want about %v", until, want)
	}
	if recorder.infractions[0].DurationMinutes != models.DefaultMuteMinutes {
		t.Fatalf("recorded duration = %d, want %d",
			recorder.infractions[0].DurationMinutes, models.DefaultMuteMinutes)
	}
}

func TestExecuteMuteConfiguredDuration(t *testing.T) {
	e, actioner, recorder, _ := testExecutor(true)

	e.Execute(&Job{Type: JobMute, GuildID: 1, UserID: 100, DurationMinutes: 45, Reason: "spam"})

	if len(actioner.timeouts) != 1 || recorder.infractions[0].DurationMinutes != 45 {
		t.Fatal("configured duration must be honored")
	}
}

func TestExecuteAbandonsWithoutAuthority(t *testing.T) {
	e, actioner, recorder, notifier := testExecutor(false)

	e.Execute(&Job{Type: JobMute, GuildID: 1, UserID: 100})
	e.Execute(&Job{Type: JobKick, GuildID: 1, UserID: 100})
	e.Execute(&Job{Type: JobBan, GuildID: 1, UserID: 100})

	if len(actioner.timeouts)+len(actioner.kicked)+len(actioner.banned) != 0 {
		t.Fatal("guarded actions must not reach the platform")
	}
	if len(recorder.infractions) != 0 {
		t.Fatal("abandoned actions record nothing")
	}
	if len(notifier.userMessages) != 0 {
		t.Fatal("abandoned actions send nothing")
	}
}

func TestExecuteKickAndBan(t *testing.T) {
	e, actioner, recorder, _ := testExecutor(true)

	e.Execute(&Job{Type: JobKick, GuildID: 1, UserID: 100, Reason: "spam"})
	e.Execute(&Job{Type: JobBan, GuildID: 1, UserID: 200, Reason: "spam"})

	if len(actioner.kicked) != 1 || actioner.kicked[0] != 100 {
		t.Fatalf("kicked = %v", actioner.kicked)
	}
	if len(actioner.banned) != 1 || actioner.banned[0] != 200 {
		t.Fatalf("banned = %v", actioner.banned)
	}
	if len(recorder.infractions) != 2 {
		t.Fatalf("infractions = %d, want 2", len(recorder.infractions))
	}
}

func TestExecutePlatformFailureRecordsNothing(t *testing.T) {
	e, actioner, recorder, notifier := testExecutor(true)
	actioner.failWith = errors.New("api down")

	e.Execute(&Job{Type: JobBan, GuildID: 1, UserID: 100})

	if len(recorder.infractions) != 0 || len(notifier.announced) != 0 {
		t.Fatal("a failed platform call must not record or announce")
	}
}

func TestExecuteCleanupPurgesTriggeringChannel(t *testing.T) {
	e, actioner, _, _ := testExecutor(true)

	e.Execute(&Job{Type: JobWarn, GuildID: 1, UserID: 100, ChannelID: 42, Reason: "spam"})

	select {
	case userID := <-actioner.purged:
		if userID != 100 {
			t.Fatalf("purged user %d, want 100", userID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected evidence cleanup in the triggering channel")
	}
}

func TestExecutePanicStripsRolesAndAlertsOwner(t *testing.T) {
	e, actioner, _, notifier := testExecutor(true)

	inc := &Incident{ActorID: 100, Action: models.AuditBan, Count: 3, Limit: 3}
	e.Execute(&Job{Type: JobRoleStrip, GuildID: 1, UserID: 100, Incident: inc})

	if len(actioner.stripped) != 1 || actioner.stripped[0] != 100 {
		t.Fatalf("stripped = %v", actioner.stripped)
	}
	if len(notifier.ownerAlerts) != 1 || notifier.ownerAlerts[0] != inc {
		t.Fatal("owner must be alerted after the strip")
	}
}

func TestExecutePanicAbortsWithoutAuthority(t *testing.T) {
	e, actioner, _, notifier := testExecutor(false)

	e.Execute(&Job{
		Type: JobRoleStrip, GuildID: 1, UserID: 100,
		Incident: &Incident{ActorID: 100, Action: models.AuditBan, Count: 3, Limit: 3},
	})

	if len(actioner.stripped) != 0 {
		t.Fatal("unmanageable actor must not be stripped")
	}
	if len(notifier.ownerAlerts) != 0 {
		t.Fatal("no alert when nothing was done")
	}
}

func TestExecutePanicStripFailureSkipsAlert(t *testing.T) {
	e, actioner, _, notifier := testExecutor(true)
	actioner.failWith = errors.New("api down")

	e.Execute(&Job{
		Type: JobRoleStrip, GuildID: 1, UserID: 100,
		Incident: &Incident{ActorID: 100, Action: models.AuditBan, Count: 3, Limit: 3},
	})

	if len(notifier.ownerAlerts) != 0 {
		t.Fatal("a failed strip must not claim success to the owner")
	}
}

func TestJobQueueOrderAndOverflow(t *testing.T) {
	q := NewJobQueue(4) // capacity 4, one slot reserved

	for i := 0; i < 3; i++ {
		if !q.Enqueue(&Job{UserID: uint64(i)}) {
			t.Fatalf("enqueue %d failed", i)
		}
	}
	if q.Enqueue(&Job{UserID: 99}) {
		t.Fatal("full queue must reject")
	}

	for i := 0; i < 3; i++ {
		job, ok := q.Dequeue()
		if !ok || job.UserID != uint64(i) {
			t.Fatalf("dequeue %d = %+v", i, job)
		}
	}
	if _, ok := q.Dequeue(); ok {
		t.Fatal("empty queue must report empty")
	}
}
