package heat

import (
	"sort"
	"time"

	"go-heatguard/internal/models"
)

// Threshold pairs a score with the action taken once reached.
type Threshold struct {
	Score           int
	Action          models.ActionType
	DurationMinutes int
}

// Config is a guild's heat configuration. Thresholds must be sorted
// descending by score; SortThresholds in the config loader guarantees
// that for cache-served configs.
type Config struct {
	Enabled     bool
	HeatValues  map[models.ViolationType]int
	DecayWindow time.Duration
	Thresholds  []Threshold
}

// Resolved is the action selected by a threshold crossing.
type Resolved struct {
	Action          models.ActionType
	DurationMinutes int
	Score           int
}

// Ledger scores violations against per-user decaying state.
type Ledger struct {
	store Store
	now   func() time.Time
}

func NewLedger(store Store) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// SetClock overrides the time source. Test hook.
func (l *Ledger) SetClock(now func() time.Time) {
	l.now = now
}

// AddHeat awards the violation's configured heat (1 if unmapped),
// pruning expired infractions first, then resolves the highest crossed
// threshold. Decay is evaluated lazily here, never by a sweeper: the
// score is only ever read at scoring time, so staleness in between is
// unobservable.
//
// When a threshold fires the user's entire state is deleted, score and
// history both, regardless of overshoot. One action per crossing, then
// a clean slate.
func (l *Ledger) AddHeat(guildID, userID uint64, v models.ViolationType, cfg *Config) *Resolved {
	if cfg == nil || !cfg.Enabled {
		return nil
	}

	points, ok := cfg.HeatValues[v]
	if !ok {
		points = 1
	}

	var resolved *Resolved
	l.store.Update(Key{GuildID: guildID, UserID: userID}, func(s *State) *State {
		if s == nil {
			s = &State{}
		}

		now := l.now()
		cutoff := now.Add(-cfg.DecayWindow)

		kept := s.Infractions[:0]
		score := 0
		for _, inf := range s.Infractions {
			if inf.At.After(cutoff) {
				kept = append(kept, inf)
				score += inf.Heat
			}
		}

		s.Infractions = append(kept, Infraction{At: now, Heat: points})
		score += points
		s.Score = score

		// Thresholds are descending, so the first hit is the most
		// severe: a jump past several thresholds triggers exactly one
		// action.
		for _, t := range cfg.Thresholds {
			if score >= t.Score {
				resolved = &Resolved{
					Action:          t.Action,
					DurationMinutes: t.DurationMinutes,
					Score:           score,
				}
				return nil
			}
		}
		return s
	})

	return resolved
}

// Snapshot returns a copy of the user's current state for inspection.
func (l *Ledger) Snapshot(guildID, userID uint64) (State, bool) {
	return l.store.Get(Key{GuildID: guildID, UserID: userID})
}

// Reset discards a user's ledger, used when an external moderation
// action supersedes the automated one.
func (l *Ledger) Reset(guildID, userID uint64) {
	l.store.Delete(Key{GuildID: guildID, UserID: userID})
}

// SortThresholds orders thresholds descending by score in place.
func SortThresholds(ts []Threshold) {
	sort.Slice(ts, func(i, j int) bool { return ts[i].Score > ts[j].Score })
}
