package system

import (
	"testing"

	"github.com/deadtide/server/internal/core/event"
	"github.com/deadtide/server/internal/world"
)

func TestCleanupRemovesExpiredCorpses(t *testing.T) {
	e := newEnv(t)
	ai := newTestAI(e)
	id := e.spawnZombie(t, ai, 1800, 1600, "normal")
	cleanup := NewCleanupSystem(e.world, ai)

	e.world.Damage(id, 100)
	e.world.Flush() // death hook arms the delete timer

	snap, _ := e.world.Get(id)
	if !snap.Dead {
		t.Fatal("zombie not dead")
	}

	for tick := int64(1); tick <= corpseTicks+1; tick++ {
		cleanup.Update(tick)
	}
	if _, alive := e.world.Get(id); alive {
		t.Error("corpse not removed after the delete timer")
	}
	if ai.Count() != 0 {
		t.Error("behavior state not detached with the corpse")
	}
}

func TestCleanupLeavesTheLivingAlone(t *testing.T) {
	e := newEnv(t)
	ai := newTestAI(e)
	id := e.spawnZombie(t, ai, 1800, 1600, "normal")
	cleanup := NewCleanupSystem(e.world, ai)

	for tick := int64(1); tick <= 500; tick++ {
		cleanup.Update(tick)
	}
	if _, alive := e.world.Get(id); !alive {
		t.Error("living zombie removed by cleanup")
	}
}

func TestHUDPublishesDiffsOnly(t *testing.T) {
	e := newEnv(t)
	hud := NewHUD(e.world)

	hud.Update(1)
	if e.fx.CountPrefix("ui_bar health_bar") != 1 {
		t.Fatal("health bar not published on first tick")
	}

	// Nothing changed: nothing republished.
	for tick := int64(2); tick <= 59; tick++ {
		hud.Update(tick)
	}
	if got := e.fx.CountPrefix("ui_bar health_bar"); got != 1 {
		t.Errorf("health bar published %d times without a change", got)
	}

	e.world.Damage(e.playerID, 2)
	e.world.Flush()
	hud.Update(60)
	if got := e.fx.CountPrefix("ui_bar health_bar"); got != 2 {
		t.Errorf("health bar publishes = %d, expected 2 after damage", got)
	}
}

func TestHUDTimeFormat(t *testing.T) {
	e := newEnv(t)
	hud := NewHUD(e.world)

	world.KeySurvivalTicks.Set(e.world.Vars, int64(125*60))
	hud.Update(1)
	if e.fx.CountPrefix(`ui_text time_label "02:05"`) != 1 {
		t.Error("time label not formatted mm:ss")
	}
}

// Events emitted mid-tick, after the bus system already ran, surface to
// subscribers exactly one tick later.
func TestBusSystemDelaysEventsOneTick(t *testing.T) {
	e := newEnv(t)
	busSys := NewBusSystem(e.bus)

	delivered := 0
	event.Subscribe(e.bus, func(event.PlayerDied) { delivered++ })

	busSys.Update(1)
	event.Emit(e.bus, event.PlayerDied{}) // a system emits during tick 1
	if delivered != 0 {
		t.Fatal("event delivered in its own tick")
	}
	busSys.Update(2)
	if delivered != 1 {
		t.Fatalf("delivered = %d, expected 1 on the next tick", delivered)
	}
}
