package antinuke

import (
	"sync"
	"time"

	"go-heatguard/internal/models"
)

// Key identifies one counting bucket: a single actor performing a
// single action class within a guild. Buckets for different action
// types never interact.
type Key struct {
	GuildID uint64
	ActorID uint64
	Action  models.AuditAction
}

// Tracker is the sliding-window counter store. Record appends an
// observation, prunes the bucket to the window, and returns the
// surviving count including the new entry.
type Tracker interface {
	Record(k Key, at time.Time, window time.Duration) int
	Clear(k Key)
	Len() int
}

const shardCount = 16

type shard struct {
	mu      sync.Mutex
	buckets map[Key][]time.Time
}

// MemoryTracker is the process-local default. Like the heat store, the
// key space grows with distinct offending actors and is wiped only by
// trigger resets or restart.
type MemoryTracker struct {
	shards [shardCount]shard
}

func NewMemoryTracker() *MemoryTracker {
	mt := &MemoryTracker{}
	for i := range mt.shards {
		mt.shards[i].buckets = make(map[Key][]time.Time)
	}
	return mt
}

func (mt *MemoryTracker) shardFor(k Key) *shard {
	h := k.GuildID ^ k.ActorID*0x9e3779b97f4a7c15 ^ uint64(k.Action)
	return &mt.shards[h%shardCount]
}

func (mt *MemoryTracker) Record(k Key, at time.Time, window time.Duration) int {
	sh := mt.shardFor(k)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	cutoff := at.Add(-window)
	stamps := sh.buckets[k]

	kept := stamps[:0]
	for _, ts := range stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	kept = append(kept, at)
	sh.buckets[k] = kept

	return len(kept)
}

func (mt *MemoryTracker) Clear(k Key) {
	sh := mt.shardFor(k)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	delete(sh.buckets, k)
}

func (mt *MemoryTracker) Len() int {
	total := 0
	for i := range mt.shards {
		mt.shards[i].mu.Lock()
		total += len(mt.shards[i].buckets)
		mt.shards[i].mu.Unlock()
	}
	return total
}
