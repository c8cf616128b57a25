// Package duck owns the live ducks of every channel and their spawn
// timing. Each (network, channel) pair is an isolated aggregate: ducks
// never cross channels and channel state never leaks as shared globals.
package duck

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/featherfall/duckhunt/internal/model"
)

// Registry is the per-channel duck collection plus spawn scheduling state.
// All mutation of one channel is serialized on that channel's lock, so
// FIFO targeting and health decrements are atomic relative to despawn
// sweeps.
type Registry struct {
	maxDucks int
	despawn  time.Duration

	mu       sync.Mutex
	channels map[chanKey]*channelState
}

type chanKey struct {
	network string
	channel string
}

type channelState struct {
	mu           sync.Mutex
	ducks        []*model.Duck
	nextID       int64
	lastSpawnAt  time.Time
	nextSpawnAt  time.Time
	noticeSent   bool // detector pre-spawn notice already delivered
}

// NewRegistry creates a registry with the given per-channel duck cap and
// despawn timeout.
func NewRegistry(maxDucks int, despawn time.Duration) *Registry {
	return &Registry{
		maxDucks: maxDucks,
		despawn:  despawn,
		channels: make(map[chanKey]*channelState),
	}
}

func (r *Registry) state(network, channel string) *channelState {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := chanKey{network, channel}
	st, ok := r.channels[k]
	if !ok {
		st = &channelState{}
		r.channels[k] = st
	}
	return st
}

// Spawn creates and appends a duck if the channel is below the cap.
// Returns nil, false when the channel is full.
func (r *Registry) Spawn(network, channel string, golden bool, now time.Time) (*model.Duck, bool) {
	st := r.state(network, channel)
	st.mu.Lock()
	defer st.mu.Unlock()

	if len(st.ducks) >= r.maxDucks {
		return nil, false
	}
	st.nextID++
	d := model.NewDuck(st.nextID, golden, now)
	st.ducks = append(st.ducks, d)
	st.lastSpawnAt = now
	// A spawn satisfies any pending schedule; the next one is sampled
	// when this duck leaves.
	st.nextSpawnAt = time.Time{}
	snap := *d
	return &snap, true
}

// Oldest returns a snapshot of the duck an untargeted command resolves
// against: FIFO by spawn order, never by health or kind.
func (r *Registry) Oldest(network, channel string) *model.Duck {
	st := r.state(network, channel)
	st.mu.Lock()
	defer st.mu.Unlock()
	if len(st.ducks) == 0 {
		return nil
	}
	snap := *st.ducks[0]
	return &snap
}

// Count returns the live-duck count for the channel.
func (r *Registry) Count(network, channel string) int {
	st := r.state(network, channel)
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.ducks)
}

// WithOldest runs fn against the oldest duck under the channel lock.
// fn returns whether the duck should be removed (killed, befriended away,
// or fled). Returns false when no duck was present, which the caller
// treats as an empty sky rather than an error.
func (r *Registry) WithOldest(network, channel string, fn func(d *model.Duck) (remove bool)) bool {
	st := r.state(network, channel)
	st.mu.Lock()
	defer st.mu.Unlock()
	if len(st.ducks) == 0 {
		return false
	}
	if fn(st.ducks[0]) {
		st.ducks = st.ducks[1:]
	}
	return true
}

// DespawnExpired removes ducks older than the despawn timeout, regardless
// of other activity, and returns snapshots of the leavers.
func (r *Registry) DespawnExpired(network, channel string, now time.Time) []model.Duck {
	st := r.state(network, channel)
	st.mu.Lock()
	defer st.mu.Unlock()

	var gone []model.Duck
	kept := st.ducks[:0]
	for _, d := range st.ducks {
		if d.Age(now) >= r.despawn {
			gone = append(gone, *d)
		} else {
			kept = append(kept, d)
		}
	}
	st.ducks = kept
	return gone
}

// Clear removes every duck in the channel and returns how many left.
func (r *Registry) Clear(network, channel string) int {
	st := r.state(network, channel)
	st.mu.Lock()
	defer st.mu.Unlock()
	n := len(st.ducks)
	st.ducks = nil
	return n
}

// ScheduleNext samples the next spawn time uniformly from [min, max]
// after now. Called only on qualifying transitions: worker start and a
// duck's death or despawn.
func (r *Registry) ScheduleNext(network, channel string, now time.Time, min, max time.Duration, rng *rand.Rand) time.Time {
	st := r.state(network, channel)
	st.mu.Lock()
	defer st.mu.Unlock()

	window := max - min
	delay := min
	if window > 0 {
		delay += time.Duration(rng.Int64N(int64(window) + 1))
	}
	st.nextSpawnAt = now.Add(delay)
	st.noticeSent = false
	return st.nextSpawnAt
}

// NextSpawnAt returns the scheduled next spawn time (zero if unscheduled).
func (r *Registry) NextSpawnAt(network, channel string) time.Time {
	st := r.state(network, channel)
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.nextSpawnAt
}

// SpawnDue reports whether the scheduled spawn time has arrived.
func (r *Registry) SpawnDue(network, channel string, now time.Time) bool {
	st := r.state(network, channel)
	st.mu.Lock()
	defer st.mu.Unlock()
	return !st.nextSpawnAt.IsZero() && !now.Before(st.nextSpawnAt)
}

// NoticeDue reports whether the pre-spawn detector notice window has been
// entered, and marks it delivered. Fires at most once per scheduled spawn.
func (r *Registry) NoticeDue(network, channel string, now time.Time, lead time.Duration) bool {
	st := r.state(network, channel)
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.nextSpawnAt.IsZero() || st.noticeSent {
		return false
	}
	if now.Before(st.nextSpawnAt.Add(-lead)) {
		return false
	}
	st.noticeSent = true
	return true
}
