package motion

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// ReferenceFPS is the frame rate velocities are expressed against.
const ReferenceFPS = 60

// FrameDelta converts wall-clock time into reference frames.
func FrameDelta(elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return elapsed.Seconds() * ReferenceFPS
}

// Signal is a one-shot completion for work finishing outside the frame loop,
// such as an asynchronous model load.
type Signal interface {
	// Poll reports without blocking whether the work has finished and, if
	// so, whether it failed.
	Poll() (done bool, err error)
}

// Stats summarizes a single tick.
type Stats struct {
	Frame    int
	Delta    float64
	Resets   int
	Bounces  int
	Attached []string
	Dropped  []string
}

// Updater advances every registered point set and the particle field.
type Updater struct {
	sets     []PointSet
	field    *ParticleField
	pending  map[string]Signal
	present  map[string]bool
	frame    int
	lastTick Stats
}

func NewUpdater(field *ParticleField, sets ...PointSet) *Updater {
	return &Updater{
		sets:    sets,
		field:   field,
		pending: make(map[string]Signal),
		present: make(map[string]bool),
	}
}

func (u *Updater) AddPoints(ps PointSet) { u.sets = append(u.sets, ps) }

func (u *Updater) Field() *ParticleField { return u.field }

// Await registers a named object whose arrival is signalled by sig. The
// object is reported present from the first tick that observes the signal,
// never earlier.
func (u *Updater) Await(name string, sig Signal) {
	u.pending[name] = sig
}

// Present reports whether the named object has arrived.
func (u *Updater) Present(name string) bool { return u.present[name] }

// Frame returns the number of ticks applied so far.
func (u *Updater) Frame() int { return u.frame }

// Last returns the stats of the most recent tick.
func (u *Updater) Last() Stats { return u.lastTick }

// Tick applies one frame of dt reference frames. Pending signals are
// polled first, then points move, then particles fall.
func (u *Updater) Tick(dt float64) (Stats, error) {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		return Stats{}, fmt.Errorf("%w: got %v", ErrNegativeDelta, dt)
	}

	st := Stats{Frame: u.frame, Delta: dt}

	for name, sig := range u.pending {
		done, err := sig.Poll()
		if !done {
			continue
		}
		delete(u.pending, name)
		if err != nil {
			st.Dropped = append(st.Dropped, name)
			continue
		}
		u.present[name] = true
		st.Attached = append(st.Attached, name)
	}
	sort.Strings(st.Attached)
	sort.Strings(st.Dropped)

	for _, set := range u.sets {
		set.EachPoint(func(p *AnimatedPoint) {
			st.Bounces += p.Step(dt)
		})
	}

	if u.field != nil {
		st.Resets = u.field.Fall(dt)
	}

	u.frame++
	u.lastTick = st
	return st, nil
}
