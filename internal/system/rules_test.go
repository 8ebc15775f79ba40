package system

import (
	"testing"

	"github.com/deadtide/server/internal/world"
	"go.uber.org/zap"
)

func newTestRules(e *env) *Rules {
	return NewRules(e.world, e.zones, e.cfg.Rules, e.cfg.Population, zap.NewNop())
}

func TestSurvivalClockStopsAtGameOver(t *testing.T) {
	e := newEnv(t)
	r := newTestRules(e)
	vars := e.world.Vars

	for tick := int64(1); tick <= 100; tick++ {
		r.Update(tick)
	}
	if got := world.KeySurvivalTicks.Get(vars); got != 100 {
		t.Fatalf("survival_ticks = %d, expected 100", got)
	}

	world.KeyGameOver.Set(vars, true)
	for tick := int64(101); tick <= 200; tick++ {
		r.Update(tick)
	}
	if got := world.KeySurvivalTicks.Get(vars); got != 100 {
		t.Errorf("clock ran while game over: %d", got)
	}
}

func TestZoneClassification(t *testing.T) {
	e := newEnv(t)
	r := newTestRules(e)
	vars := e.world.Vars

	// The fixture player stands inside the town radius.
	r.Update(1)
	if got := world.KeyZone.Get(vars); got != "town" {
		t.Fatalf("zone = %q, expected town", got)
	}
	if e.fx.CountPrefix(`ui_text zone_label "town"`) != 1 {
		t.Error("zone label not published")
	}

	// Teleport far outside every zone circle.
	e.movePlayer(20000, 20000)
	r.Update(40) // past the 0.5s zone cadence
	if got := world.KeyZone.Get(vars); got != "wilderness" {
		t.Errorf("zone = %q, expected wilderness", got)
	}
}

func TestThreatCountSkipsCorpses(t *testing.T) {
	e := newEnv(t)
	r := newTestRules(e)

	e.world.Spawn(world.SpawnRequest{
		X: 1700, Y: 1600, HP: 3, Tags: []string{"enemy", "zombie", "zombie_normal"},
	})
	corpse, _ := e.world.Spawn(world.SpawnRequest{
		X: 1650, Y: 1600, HP: 1, Tags: []string{"enemy", "zombie", "zombie_normal"},
	})
	e.world.Damage(corpse, 5)
	e.world.Flush()

	r.Update(1)
	if got := e.fx.CountPrefix(`ui_text threat_label "1 nearby"`); got != 1 {
		t.Errorf("threat readout did not show 1 live zombie (corpse counted?)")
	}
}

func TestZoneLabelOnlyOnChange(t *testing.T) {
	e := newEnv(t)
	r := newTestRules(e)

	for tick := int64(1); tick <= 300; tick++ {
		r.Update(tick)
	}
	if got := e.fx.CountPrefix(`ui_text zone_label`); got != 1 {
		t.Errorf("zone label published %d times without a zone change", got)
	}
}

func TestDifficultyRampAndCap(t *testing.T) {
	e := newEnv(t)
	r := newTestRules(e)
	vars := e.world.Vars

	// One ramp per minute, +5 each, capped at 50.
	steps := []struct {
		tick int64
		want int
	}{
		{3600, 35},
		{7200, 40},
		{10800, 45},
		{14400, 50},
		{18000, 50}, // cap holds
	}
	for _, st := range steps {
		r.Update(st.tick)
		if got := world.KeyMaxZombies.Get(vars); got != st.want {
			t.Errorf("max_zombies at tick %d = %d, expected %d", st.tick, got, st.want)
		}
	}
}

func TestRampPausedWhileGameOver(t *testing.T) {
	e := newEnv(t)
	r := newTestRules(e)
	vars := e.world.Vars

	world.KeyGameOver.Set(vars, true)
	r.Update(3600)
	if got := world.KeyMaxZombies.Get(vars); got != 30 {
		t.Errorf("ramp ran while game over: %d", got)
	}
}
