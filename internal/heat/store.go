package heat

import (
	"sync"
	"time"
)

// Key identifies one user's ledger within a guild.
type Key struct {
	GuildID uint64
	UserID  uint64
}

// Infraction is one scored violation retained until it ages past the
// decay window.
type Infraction struct {
	At   time.Time
	Heat int
}

// State is the per-user decaying ledger. Score is the sum of the
// non-expired infractions' heat.
type State struct {
	Infractions []Infraction
	Score       int
}

// Store holds ledgers by composite key. Update runs fn under whatever
// serialization the backend offers for that key; fn receives the
// current state (nil when absent) and returns the state to keep, or
// nil to delete the entry. The in-memory backend serializes per key,
// which closes the read-prune-append race between concurrent
// violations for the same user.
type Store interface {
	Update(k Key, fn func(s *State) *State)
	Get(k Key) (State, bool)
	Delete(k Key)
	Len() int
}

const shardCount = 32

type shard struct {
	mu     sync.Mutex
	states map[Key]*State
}

// MemoryStore is the default process-local backend. Key space is
// unbounded over process lifetime; entries vanish only on action reset.
// A restart forgets everything, which under-detects and never
// over-detects.
type MemoryStore struct {
	shards [shardCount]shard
}

func NewMemoryStore() *MemoryStore {
	ms := &MemoryStore{}
	for i := range ms.shards {
		ms.shards[i].states = make(map[Key]*State)
	}
	return ms
}

func (ms *MemoryStore) shardFor(k Key) *shard {
	h := k.GuildID*0x9e3779b97f4a7c15 ^ k.UserID
	return &ms.shards[h%shardCount]
}

func (ms *MemoryStore) Update(k Key, fn func(s *State) *State) {
	sh := ms.shardFor(k)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	next := fn(sh.states[k])
	if next == nil {
		delete(sh.states, k)
		return
	}
	sh.states[k] = next
}

func (ms *MemoryStore) Get(k Key) (State, bool) {
	sh := ms.shardFor(k)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	s, ok := sh.states[k]
	if !ok {
		return State{}, false
	}
	cp := *s
	cp.Infractions = append([]Infraction(nil), s.Infractions...)
	return cp, true
}

func (ms *MemoryStore) Delete(k Key) {
	sh := ms.shardFor(k)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	delete(sh.states, k)
}

func (ms *MemoryStore) Len() int {
	total := 0
	for i := range ms.shards {
		ms.shards[i].mu.Lock()
		total += len(ms.shards[i].states)
		ms.shards[i].mu.Unlock()
	}
	return total
}
