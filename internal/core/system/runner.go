package system

import "sort"

// Runner executes systems in phase order each tick. Registration order is
// preserved within a phase, so two systems sharing a phase have a stable
// relative ordering across the whole run.
type Runner struct {
	systems []System
	sorted  bool
	tick    int64
}

func NewRunner() *Runner {
	return &Runner{
		systems: make([]System, 0, 16),
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// Tick advances the simulation by one step, running every system once.
func (r *Runner) Tick() {
	r.ensureSorted()
	r.tick++
	for _, s := range r.systems {
		s.Update(r.tick)
	}
}

// CurrentTick returns the number of completed ticks.
func (r *Runner) CurrentTick() int64 { return r.tick }

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
