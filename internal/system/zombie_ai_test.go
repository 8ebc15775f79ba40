package system

import (
	"testing"

	"github.com/deadtide/server/internal/core/event"
	"github.com/deadtide/server/internal/world"
	"go.uber.org/zap"
)

func newTestAI(e *env) *ZombieAI {
	cfg := e.cfg.Zombie
	cfg.DecisionInterval = 1 // deterministic: decide every tick
	return NewZombieAI(e.world, e.bus, e.lua, e.zones, cfg, zap.NewNop())
}

// step runs one AI tick and commits its commands.
func step(ai *ZombieAI, tick int64, e *env) {
	ai.Update(tick)
	e.world.Flush()
}

func TestAggroHysteresis(t *testing.T) {
	e := newEnv(t)
	ai := newTestAI(e)
	id := e.spawnZombie(t, ai, 1600+360, 1600, "normal")

	step(ai, 1, e)
	if ai.states[id].aggro {
		t.Fatal("aggro at 360 px, outside the 350 chase range")
	}

	// Step inside the chase range.
	e.movePlayer(1960-340, 1600)
	step(ai, 2, e)
	if !ai.states[id].aggro {
		t.Fatal("no aggro at 340 px")
	}

	// Retreat to 490 px: inside the lose range, aggro must hold.
	e.movePlayer(1960-490, 1600)
	step(ai, 3, e)
	if !ai.states[id].aggro {
		t.Fatal("aggro dropped at 490 px, inside the 500 lose range")
	}

	// Retreat past the lose range.
	e.movePlayer(1960-510, 1600)
	step(ai, 4, e)
	if ai.states[id].aggro {
		t.Fatal("aggro held past the 500 lose range")
	}
}

func TestAggroNoFlapBetweenThresholds(t *testing.T) {
	e := newEnv(t)
	ai := newTestAI(e)
	id := e.spawnZombie(t, ai, 1960, 1600, "normal")

	e.movePlayer(1960-340, 1600)
	step(ai, 1, e)
	if !ai.states[id].aggro {
		t.Fatal("no aggro inside the chase range")
	}

	// Oscillate in the 360..490 dead band: aggro must never toggle.
	tick := int64(2)
	for i := 0; i < 20; i++ {
		if i%2 == 0 {
			e.movePlayer(1960-360, 1600)
		} else {
			e.movePlayer(1960-490, 1600)
		}
		step(ai, tick, e)
		tick++
		if !ai.states[id].aggro {
			t.Fatalf("aggro flapped at oscillation %d", i)
		}
	}
}

func TestAggroChasesTowardPlayer(t *testing.T) {
	e := newEnv(t)
	ai := newTestAI(e)
	id := e.spawnZombie(t, ai, 1800, 1600, "normal") // 200 px east of player

	step(ai, 1, e)
	snap, _ := e.world.Get(id)
	if snap.VX >= 0 {
		t.Errorf("vx = %v, expected motion toward the player (west)", snap.VX)
	}
	if snap.Anim != "run" {
		t.Errorf("anim = %q, expected run", snap.Anim)
	}
}

func TestDecisionThrottling(t *testing.T) {
	e := newEnv(t)
	cfg := e.cfg.Zombie
	ai := NewZombieAI(e.world, e.bus, e.lua, e.zones, cfg, zap.NewNop())
	id := e.spawnZombie(t, ai, 1800, 1600, "normal") // inside chase range

	bucket := ai.states[id].phaseBucket
	decided := false
	for tick := int64(1); tick <= int64(cfg.DecisionInterval)*2; tick++ {
		step(ai, tick, e)
		if int(tick)%cfg.DecisionInterval == bucket {
			decided = true
		}
		if !decided && ai.states[id].aggro {
			t.Fatalf("tick %d: decision ran off the phase bucket %d", tick, bucket)
		}
	}
	if !ai.states[id].aggro {
		t.Fatal("zombie never aggroed across two full decision intervals")
	}
}

func TestAttackDamagesPlayerOncePerSwing(t *testing.T) {
	e := newEnv(t)
	ai := newTestAI(e)
	e.spawnZombie(t, ai, 1600+30, 1600, "normal") // adjacent

	before, _ := e.world.Get(e.playerID)
	for tick := int64(1); tick <= 90; tick++ { // more than one full swing
		step(ai, tick, e)
	}
	after, _ := e.world.Get(e.playerID)

	// One landed bite per swing; a normal zombie bites for 1 in open
	// wilderness. Two swings cannot fit in 90 ticks plus the cooldown.
	if before.HP-after.HP != 1 {
		t.Errorf("player lost %d HP, expected exactly 1", before.HP-after.HP)
	}
}

func TestHurtInterruptsAttack(t *testing.T) {
	e := newEnv(t)
	ai := newTestAI(e)
	id := e.spawnZombie(t, ai, 1600+30, 1600, "normal")

	step(ai, 1, e) // begins the attack
	if ai.states[id].swing == nil {
		t.Fatal("attack did not start")
	}
	e.world.Damage(id, 1)
	e.world.Flush() // zombie staggers, anim = hurt

	step(ai, 2, e)
	if sw := ai.states[id].swing; sw != nil && !sw.Done() {
		t.Error("swing survived a hurt stagger")
	}
}

func TestPlayerDeathDropsAggroAndCutsAttacks(t *testing.T) {
	e := newEnv(t)
	ai := newTestAI(e)
	id := e.spawnZombie(t, ai, 1600+30, 1600, "normal")

	step(ai, 1, e) // adjacent zombie begins its attack
	st := ai.states[id]
	if st.swing == nil || !st.aggro {
		t.Fatal("zombie did not engage the adjacent player")
	}

	event.Emit(e.bus, event.PlayerDied{X: 1600, Y: 1600})
	e.bus.SwapBuffers()
	e.bus.DispatchAll()

	if st.aggro {
		t.Error("aggro held after the player died")
	}
	if sw := st.swing; sw != nil && !sw.Done() {
		t.Error("in-progress attack survived the player's death")
	}
}

func TestZombieDeathBookkeeping(t *testing.T) {
	e := newEnv(t)
	ai := newTestAI(e)
	id := e.spawnZombie(t, ai, 1800, 1600, "tank")

	var killed []event.ZombieKilled
	event.Subscribe(e.bus, func(ev event.ZombieKilled) { killed = append(killed, ev) })

	vars := e.world.Vars
	e.world.Damage(id, 100)
	e.world.Flush()

	if got := world.KeyKills.Get(vars); got != 1 {
		t.Errorf("kills = %d, expected 1", got)
	}
	if got := world.KeyScore.Get(vars); got != 25 {
		t.Errorf("score = %d, expected the tank's 25", got)
	}
	if got := world.KeyZombieCount.Get(vars); got != 0 {
		t.Errorf("alive count = %d, expected 0", got)
	}
	snap, _ := e.world.Get(id)
	if snap.Anim != "die" {
		t.Errorf("anim = %q, expected die", snap.Anim)
	}

	// Event arrives next tick.
	e.bus.SwapBuffers()
	e.bus.DispatchAll()
	if len(killed) != 1 || killed[0].Variant != "tank" {
		t.Fatalf("kill events = %v, expected one tank", killed)
	}

	// A second lethal command on the corpse changes nothing.
	e.world.Damage(id, 100)
	e.world.Flush()
	if got := world.KeyKills.Get(vars); got != 1 {
		t.Errorf("corpse damage double-counted the kill: %d", got)
	}
}

func TestStateDroppedWhenEntityRemoved(t *testing.T) {
	e := newEnv(t)
	ai := newTestAI(e)
	id := e.spawnZombie(t, ai, 1800, 1600, "normal")

	e.world.RemoveEntity(id)
	ai.Update(1)
	if ai.Count() != 0 {
		t.Errorf("behavior state survived entity removal: %d entries", ai.Count())
	}
}
