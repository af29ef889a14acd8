// Package engine runs the two event pipelines: inline message scoring
// and the pinned anti-nuke loop draining the audit ring buffer.
package engine

import (
	"runtime"

	"go-heatguard/internal/antinuke"
	"go-heatguard/internal/config"
	"go-heatguard/internal/ingest"
	"go-heatguard/internal/logging"
	"go-heatguard/internal/metrics"
	"go-heatguard/internal/models"
	"go-heatguard/internal/remedy"
	"go-heatguard/internal/sys"
	"go-heatguard/pkg/util"
)

// AuditEngine drains the audit ring buffer on a dedicated, core-pinned
// goroutine and escalates nuke patterns to the remediation queue. The
// hot loop spins with Gosched when idle instead of parking on a
// channel.
type AuditEngine struct {
	ring     *ingest.RingBuffer
	settings *config.SettingsCache
	monitor  *antinuke.Monitor
	jobs     *remedy.JobQueue
	botID    uint64
	cpuCore  int
	running  bool
}

func NewAuditEngine(ring *ingest.RingBuffer, settings *config.SettingsCache, monitor *antinuke.Monitor, jobs *remedy.JobQueue, botID uint64, cpuCore int) *AuditEngine {
	return &AuditEngine{
		ring:     ring,
		settings: settings,
		monitor:  monitor,
		jobs:     jobs,
		botID:    botID,
		cpuCore:  cpuCore,
	}
}

// Start pins the loop to its core and runs until Stop. Blocking; run
// in its own goroutine.
func (e *AuditEngine) Start() {
	if err := sys.PinToCore(e.cpuCore); err != nil {
		logging.Warn("[ENGINE] Could not pin audit loop to core %d: %v", e.cpuCore, err)
	}
	runtime.LockOSThread()
	e.running = true
	e.runLoop()
}

func (e *AuditEngine) Stop() {
	e.running = false
}

func (e *AuditEngine) runLoop() {
	for e.running {
		event, ok := e.ring.Dequeue()
		if !ok {
			runtime.Gosched()
			continue
		}
		e.process(&models.AuditEntry{
			GuildID:    event.GuildID,
			ExecutorID: event.ActorID,
			TargetID:   event.TargetID,
			Action:     event.Action,
		})
	}
}

func (e *AuditEngine) process(entry *models.AuditEntry) {
	settings := e.settings.Get(entry.GuildID)
	if settings == nil {
		return
	}

	start := util.NowMono()
	trigger := e.monitor.Process(entry, settings.AntiNuke, e.botID)
	if trigger == nil {
		return
	}

	logging.Warn("[ENGINE] Nuke pattern in guild %d: actor %d did %s x%d (limit %d), detected in %d µs",
		trigger.GuildID, trigger.ActorID, trigger.Action, trigger.Count, trigger.Limit,
		util.SinceUs(start))

	job := &remedy.Job{
		Type:    remedy.JobRoleStrip,
		GuildID: trigger.GuildID,
		UserID:  trigger.ActorID,
		Reason:  "Anti-nuke: destructive action limit exceeded",
		Incident: &remedy.Incident{
			ActorID: trigger.ActorID,
			Action:  trigger.Action,
			Count:   trigger.Count,
			Limit:   trigger.Limit,
		},
	}
	if !e.jobs.Enqueue(job) {
		logging.Error("[ENGINE] Job queue full, dropping panic job for actor %d in guild %d",
			trigger.ActorID, trigger.GuildID)
		metrics.ActionFailures.WithLabelValues("role_strip").Inc()
	}
}
