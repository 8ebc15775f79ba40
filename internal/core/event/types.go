package event

import "github.com/deadtide/server/internal/core/ecs"

// ZombieKilled is emitted once per confirmed zombie death (the death hook
// is one-shot guarded, so duplicates cannot occur).
type ZombieKilled struct {
	EntityID ecs.EntityID
	Variant  string
	X, Y     float64
}

// PlayerDied is emitted when the player's death sequence begins.
type PlayerDied struct {
	X, Y float64
}

// RunEnded carries the final summary of a run for the persistence layer.
type RunEnded struct {
	Score         int
	Kills         int
	SurvivalTicks int64
}

// GameReset is emitted by the restart coordinator after a full reset.
type GameReset struct{}
