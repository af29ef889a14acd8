package remedy

import (
	"fmt"
	"time"

	"go-heatguard/internal/logging"
	"go-heatguard/internal/metrics"
	"go-heatguard/internal/models"
	"go-heatguard/pkg/util"
)

// Actioner performs the platform-side moderation calls. The dispatcher
// Client is the production implementation; all calls carry bounded
// timeouts.
type Actioner interface {
	Timeout(guildID, userID uint64, until time.Time, reason string) error
	Kick(guildID, userID uint64, reason string) error
	Ban(guildID, userID uint64, reason string) error
	RemoveAllRoles(guildID, userID uint64, reason string) error
	PurgeUserMessages(guildID, channelID, userID uint64, limit int) error
}

// Guard answers whether the bot outranks the target for a given action
// class, from gateway state. An unauthorized action is abandoned, never
// substituted with a weaker one.
type Guard interface {
	Moderatable(guildID, userID uint64) bool
	Kickable(guildID, userID uint64) bool
	Bannable(guildID, userID uint64) bool
	Manageable(guildID, userID uint64) bool
}

// Recorder appends infraction rows to the rule store.
type Recorder interface {
	RecordInfraction(inf *models.Infraction) error
}

// Notifier delivers the user-visible side of remediation. Every method
// is best effort.
type Notifier interface {
	NotifyUser(userID uint64, message string)
	NotifyOwner(guildID uint64, inc *Incident, actionTaken string)
	AnnounceAction(guildID, userID uint64, action string, reason string)
}

const cleanupFetchLimit = 50

// Executor applies queued remediations. Each branch is a terminal
// one-shot operation, independently guarded; no failure propagates
// back into event processing.
type Executor struct {
	actioner Actioner
	guard    Guard
	recorder Recorder
	notifier Notifier
}

func NewExecutor(actioner Actioner, guard Guard, recorder Recorder, notifier Notifier) *Executor {
	return &Executor{
		actioner: actioner,
		guard:    guard,
		recorder: recorder,
		notifier: notifier,
	}
}

func (e *Executor) Execute(job *Job) {
	switch job.Type {
	case JobWarn:
		e.executeWarn(job)
	case JobMute:
		e.executeMute(job)
	case JobKick:
		e.executeKick(job)
	case JobBan:
		e.executeBan(job)
	case JobRoleStrip:
		e.executePanic(job)
	default:
		logging.Warn("[REMEDY] Unknown job type %d for guild %d", job.Type, job.GuildID)
	}
}

// Warn is record-only: an infraction row and an offender DM, no
// platform permission change.
func (e *Executor) executeWarn(job *Job) {
	e.record(job, models.ActionWarn, 0)
	e.notifier.NotifyUser(job.UserID, fmt.Sprintf(
		"You received an automated warning (reason: %s). Continued violations will escalate.", job.Reason))
	e.finish(job, models.ActionWarn)
}

func (e *Executor) executeMute(job *Job) {
	if !e.guard.Moderatable(job.GuildID, job.UserID) {
		e.abandon(job, models.ActionMute)
		return
	}

	minutes := job.DurationMinutes
	if minutes <= 0 {
		minutes = models.DefaultMuteMinutes
	}
	until := time.Now().Add(time.Duration(minutes) * time.Minute)

	if err := e.actioner.Timeout(job.GuildID, job.UserID, until, job.Reason); err != nil {
		e.fail(job, models.ActionMute, err)
		return
	}

	e.record(job, models.ActionMute, minutes)
	e.notifier.NotifyUser(job.UserID, fmt.Sprintf(
		"You have been muted for %d minutes (reason: %s).", minutes, job.Reason))
	e.finish(job, models.ActionMute)
}

func (e *Executor) executeKick(job *Job) {
	if !e.guard.Kickable(job.GuildID, job.UserID) {
		e.abandon(job, models.ActionKick)
		return
	}

	if err := e.actioner.Kick(job.GuildID, job.UserID, job.Reason); err != nil {
		e.fail(job, models.ActionKick, err)
		return
	}

	e.record(job, models.ActionKick, 0)
	e.finish(job, models.ActionKick)
}

func (e *Executor) executeBan(job *Job) {
	if !e.guard.Bannable(job.GuildID, job.UserID) {
		e.abandon(job, models.ActionBan)
		return
	}

	if err := e.actioner.Ban(job.GuildID, job.UserID, job.Reason); err != nil {
		e.fail(job, models.ActionBan, err)
		return
	}

	e.record(job, models.ActionBan, 0)
	e.finish(job, models.ActionBan)
}

// executePanic strips every role from the actor. If the bot cannot
// manage the member there is no fallback: log and abort. The owner DM
// comes after the strip and its failure never undoes it.
func (e *Executor) executePanic(job *Job) {
	if !e.guard.Manageable(job.GuildID, job.UserID) {
		logging.Warn("[PANIC] Cannot manage actor %d in guild %d, aborting role strip",
			job.UserID, job.GuildID)
		metrics.ActionFailures.WithLabelValues("role_strip").Inc()
		return
	}

	timer := util.NewMonotonicTimer()
	if err := e.actioner.RemoveAllRoles(job.GuildID, job.UserID, job.Reason); err != nil {
		logging.Error("[PANIC] Role strip failed for actor %d in guild %d: %v",
			job.UserID, job.GuildID, err)
		metrics.ActionFailures.WithLabelValues("role_strip").Inc()
		return
	}

	logging.Info("[PANIC] Stripped all roles from actor %d in guild %d in %d ms (%s x%d in window)",
		job.UserID, job.GuildID, timer.ElapsedMs(), job.Incident.Action, job.Incident.Count)
	metrics.ActionsExecuted.WithLabelValues("role_strip").Inc()
	metrics.PanicTriggers.Inc()

	e.notifier.NotifyOwner(job.GuildID, job.Incident, "all roles removed")
}

func (e *Executor) record(job *Job, action models.ActionType, minutes int) {
	inf := &models.Infraction{
		GuildID:         util.Uint64ToString(job.GuildID),
		UserID:          util.Uint64ToString(job.UserID),
		Action:          string(action),
		Reason:          job.Reason,
		DurationMinutes: minutes,
		Moderator:       models.ModeratorAutomation,
	}
	if err := e.recorder.RecordInfraction(inf); err != nil {
		logging.Warn("[REMEDY] Failed to record %s for user %d: %v", action, job.UserID, err)
	}
}

// finish runs the shared tail of every heat action: log-channel
// announcement, metrics, and fire-and-forget evidence cleanup in the
// triggering channel.
func (e *Executor) finish(job *Job, action models.ActionType) {
	logging.Info("[REMEDY] %s user %d in guild %d (score %d, reason: %s)",
		action, job.UserID, job.GuildID, job.Score, job.Reason)
	metrics.ActionsExecuted.WithLabelValues(string(action)).Inc()

	e.notifier.AnnounceAction(job.GuildID, job.UserID, string(action), job.Reason)

	if job.ChannelID != 0 {
		go func() {
			if err := e.actioner.PurgeUserMessages(job.GuildID, job.ChannelID, job.UserID, cleanupFetchLimit); err != nil {
				logging.Debug("[REMEDY] Cleanup skipped for user %d in channel %d: %v",
					job.UserID, job.ChannelID, err)
			}
		}()
	}
}

func (e *Executor) abandon(job *Job, action models.ActionType) {
	logging.Warn("[REMEDY] Bot lacks authority to %s user %d in guild %d, action abandoned",
		action, job.UserID, job.GuildID)
	metrics.ActionFailures.WithLabelValues(string(action)).Inc()
}

func (e *Executor) fail(job *Job, action models.ActionType, err error) {
	logging.Error("[REMEDY] %s failed for user %d in guild %d: %v",
		action, job.UserID, job.GuildID, err)
	metrics.ActionFailures.WithLabelValues(string(action)).Inc()
}
