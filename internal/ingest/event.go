package ingest

import (
	"go-heatguard/internal/models"
)

// Event is the fixed-size audit record pushed from the gateway handlers
// into the ring buffer. Chat messages are not routed through here: the
// classifier needs the full message body, which lives only as long as
// the handler invocation.
type Event struct {
	Action    models.AuditAction
	_         [7]byte
	GuildID   uint64
	ActorID   uint64
	TargetID  uint64
	Timestamp int64
}

func CreateEvent(action models.AuditAction, guildID, actorID, targetID uint64, ts int64) *Event {
	return &Event{
		Action:    action,
		GuildID:   guildID,
		ActorID:   actorID,
		TargetID:  targetID,
		Timestamp: ts,
	}
}
