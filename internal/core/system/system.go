package system

// Phase defines execution ordering within a single tick.
//
// Shared-variable freshness follows from this ordering: a value published
// during PhaseOutput of tick N is what PhaseUpdate consumers observe in
// tick N+1, while a value published during PhaseUpdate is visible to later
// phases of the same tick. Consumers must tolerate reads that are at most
// one tick stale.
type Phase int

const (
	PhaseInput      Phase = iota // 0: snapshot host input for this tick
	PhaseUpdate                  // 1: behavior decisions (player, zombies, restart)
	PhasePostUpdate              // 2: population control, rules clock, host physics
	PhaseCommit                  // 3: flush queued entity commands, fire death hooks
	PhaseOutput                  // 4: publish HUD variables + UI updates
	PhasePersist                 // 5: record finished runs
	PhaseCleanup                 // 6: destroy entities whose corpse timers expired
)

// System is the interface every per-tick system implements.
type System interface {
	Phase() Phase
	Update(tick int64)
}
