package engine

import (
	"fmt"

	"go-heatguard/internal/automod"
	"go-heatguard/internal/config"
	"go-heatguard/internal/heat"
	"go-heatguard/internal/logging"
	"go-heatguard/internal/metrics"
	"go-heatguard/internal/models"
	"go-heatguard/internal/remedy"
)

// MessageEngine classifies chat messages and scores violations against
// the heat ledger. It runs inline on the gateway handler: message
// content is needed whole, and the per-key store locks already
// serialize concurrent scoring for the same user.
type MessageEngine struct {
	settings *config.SettingsCache
	ledger   *heat.Ledger
	jobs     *remedy.JobQueue
}

func NewMessageEngine(settings *config.SettingsCache, ledger *heat.Ledger, jobs *remedy.JobQueue) *MessageEngine {
	return &MessageEngine{
		settings: settings,
		ledger:   ledger,
		jobs:     jobs,
	}
}

// HandleMessage runs one message through classify, score, escalate.
func (e *MessageEngine) HandleMessage(msg *models.ChatMessage) {
	metrics.MessagesProcessed.Inc()

	settings := e.settings.Get(msg.GuildID)
	if settings == nil {
		return
	}

	violation, ok := automod.Classify(msg, settings.Rules)
	if !ok {
		return
	}
	metrics.ViolationsDetected.WithLabelValues(string(violation)).Inc()

	resolved := e.ledger.AddHeat(msg.GuildID, msg.AuthorID, violation, settings.Heat)
	if resolved == nil {
		return
	}

	logging.Info("[ENGINE] User %d in guild %d crossed threshold at score %d: %s",
		msg.AuthorID, msg.GuildID, resolved.Score, resolved.Action)

	job := &remedy.Job{
		Type:            jobType(resolved.Action),
		GuildID:         msg.GuildID,
		UserID:          msg.AuthorID,
		ChannelID:       msg.ChannelID,
		DurationMinutes: resolved.DurationMinutes,
		Score:           resolved.Score,
		Reason:          fmt.Sprintf("Automod: %s (heat %d)", violation, resolved.Score),
	}
	if !e.jobs.Enqueue(job) {
		logging.Error("[ENGINE] Job queue full, dropping %s for user %d in guild %d",
			resolved.Action, msg.AuthorID, msg.GuildID)
		metrics.ActionFailures.WithLabelValues(string(resolved.Action)).Inc()
	}
}

func jobType(a models.ActionType) remedy.JobType {
	switch a {
	case models.ActionMute:
		return remedy.JobMute
	case models.ActionKick:
		return remedy.JobKick
	case models.ActionBan:
		return remedy.JobBan
	default:
		return remedy.JobWarn
	}
}
