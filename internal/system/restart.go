package system

import (
	"github.com/deadtide/server/internal/config"
	"github.com/deadtide/server/internal/core/event"
	coresys "github.com/deadtide/server/internal/core/system"
	"github.com/deadtide/server/internal/world"
	"go.uber.org/zap"
)

// Restart coordinates the end-of-run flow: after the player dies it waits
// out a debounce window (so a panicked button mash cannot skip the end
// screen), then restarts on the next key press. The coordinator owns the
// shared store reset and the player's body; per-system private state is
// reinitialized by the systems themselves via the player_needs_reset flag.
type Restart struct {
	world         *world.State
	bus           *event.Bus
	log           *zap.Logger
	debounce      int64
	initialTarget int

	hintShown bool
}

func NewRestart(ws *world.State, bus *event.Bus, rules config.RulesConfig, pop config.PopulationConfig, log *zap.Logger) *Restart {
	return &Restart{
		world:         ws,
		bus:           bus,
		log:           log,
		debounce:      int64(rules.RestartDebounceS * float64(ws.TPS)),
		initialTarget: pop.InitialTarget,
	}
}

func (r *Restart) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (r *Restart) Update(tick int64) {
	if !world.KeyGameOver.Get(r.world.Vars) {
		r.hintShown = false
		return
	}
	if tick < world.KeyDeathTick.Get(r.world.Vars)+r.debounce {
		return
	}
	if !r.hintShown {
		r.hintShown = true
		r.world.Effects().UIText("restart_hint", "press any key")
	}
	if r.world.Input().AnyKey {
		r.restart(tick)
	}
}

// restart resets the round. Keys declared with NewWorldKey (spawn point)
// survive; everything else returns to its declared default, after which
// the zombie count is re-synced to the entities actually alive since the
// corpses of the previous round keep their behavior state, and the
// population target returns to its configured starting value.
func (r *Restart) restart(tick int64) {
	vars := r.world.Vars
	vars.ResetGameKeys()
	world.KeyZombieCount.Set(vars, r.world.CountTag("zombie"))
	world.KeyMaxZombies.Set(vars, r.initialTarget)
	world.KeyNeedsReset.Set(vars, true)

	// Revive first: healing a dead entity is a no-op.
	id := r.world.PlayerID()
	r.world.SetAlive(id, true)
	r.world.Heal(id, 1<<30) // clamped to MaxHP on apply
	r.world.SetPosition(id, world.KeySpawnX.Get(vars), world.KeySpawnY.Get(vars))
	r.world.SetVelocity(id, 0, 0)
	r.world.SetAnimation(id, "idle")

	fx := r.world.Effects()
	fx.HideScreen("game_over")
	fx.UIText("pickup_text", "")
	fx.Audio("restart")

	event.Emit(r.bus, event.GameReset{})
	r.log.Info("run restarted", zap.Int64("tick", tick))
}
