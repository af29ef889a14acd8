package remedy

import (
	"sync"

	"go-heatguard/internal/models"
)

type JobType uint8

const (
	JobWarn JobType = iota
	JobMute
	JobKick
	JobBan
	JobRoleStrip
)

func (t JobType) String() string {
	switch t {
	case JobWarn:
		return "warn"
	case JobMute:
		return "mute"
	case JobKick:
		return "kick"
	case JobBan:
		return "ban"
	case JobRoleStrip:
		return "role_strip"
	default:
		return "unknown"
	}
}

// Incident carries the anti-nuke context for a panic job, forwarded to
// the guild owner DM.
type Incident struct {
	ActorID uint64
	Action  models.AuditAction
	Count   int
	Limit   int
}

// Job is one queued remediation. Heat-threshold jobs carry the
// triggering channel for evidence cleanup; panic jobs carry the
// incident summary instead.
type Job struct {
	Type            JobType
	GuildID         uint64
	UserID          uint64
	ChannelID       uint64
	DurationMinutes int
	Score           int
	Reason          string
	Incident        *Incident
}

// JobQueue is a bounded power-of-two ring shared by the event handlers
// (producers) and the remediation workers (consumers). A full queue
// rejects the job rather than blocking event processing.
type JobQueue struct {
	mu   sync.Mutex
	jobs []Job
	mask uint32
	head uint32
	tail uint32
}

func NewJobQueue(size uint32) *JobQueue {
	if size&(size-1) != 0 {
		size = nextPowerOf2(size)
	}
	return &JobQueue{
		jobs: make([]Job, size),
		mask: size - 1,
	}
}

func (jq *JobQueue) Enqueue(job *Job) bool {
	jq.mu.Lock()
	defer jq.mu.Unlock()

	nextHead := (jq.head + 1) & jq.mask
	if nextHead == jq.tail {
		return false
	}
	jq.jobs[jq.head] = *job
	jq.head = nextHead
	return true
}

func (jq *JobQueue) Dequeue() (*Job, bool) {
	jq.mu.Lock()
	defer jq.mu.Unlock()

	if jq.tail == jq.head {
		return nil, false
	}
	job := jq.jobs[jq.tail]
	jq.tail = (jq.tail + 1) & jq.mask
	return &job, true
}

func (jq *JobQueue) Size() uint32 {
	jq.mu.Lock()
	defer jq.mu.Unlock()

	if jq.head >= jq.tail {
		return jq.head - jq.tail
	}
	return (jq.mask + 1) - (jq.tail - jq.head)
}

func nextPowerOf2(n uint32) uint32 {
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}
