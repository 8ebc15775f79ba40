package system

import (
	"github.com/deadtide/server/internal/core/ecs"
	"github.com/deadtide/server/internal/core/event"
	coresys "github.com/deadtide/server/internal/core/system"
	"github.com/deadtide/server/internal/world"
)

// BusSystem swaps the event buffers and dispatches last tick's events at
// the start of this tick. Running it in the input phase is what gives
// every event exactly one tick of staleness.
type BusSystem struct {
	bus *event.Bus
}

func NewBusSystem(bus *event.Bus) *BusSystem { return &BusSystem{bus: bus} }

func (s *BusSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *BusSystem) Update(tick int64) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}

// CommitSystem applies every queued command and then steps physics, so
// all behavior systems this tick observed the same pre-commit snapshot.
type CommitSystem struct {
	world *world.State
}

func NewCommitSystem(ws *world.State) *CommitSystem { return &CommitSystem{world: ws} }

func (s *CommitSystem) Phase() coresys.Phase { return coresys.PhaseCommit }

func (s *CommitSystem) Update(tick int64) {
	s.world.Flush()
	s.world.StepPhysics()
}

// CleanupSystem removes corpses whose delete timer has run out. Removal
// happens here, after output, so the die animation's final frames still
// render.
type CleanupSystem struct {
	world *world.State
	ai    *ZombieAI
}

func NewCleanupSystem(ws *world.State, ai *ZombieAI) *CleanupSystem {
	return &CleanupSystem{world: ws, ai: ai}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(tick int64) {
	var expired []ecs.EntityID
	s.world.Each(func(e *world.Entity) {
		if !e.Dead || e.DeleteTimer <= 0 {
			return
		}
		e.DeleteTimer--
		if e.DeleteTimer == 0 {
			expired = append(expired, e.ID)
		}
	})
	for _, id := range expired {
		s.world.RemoveEntity(id)
		s.ai.Detach(id)
	}
}
