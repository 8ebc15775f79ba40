package system

import (
	"testing"

	"github.com/deadtide/server/internal/config"
	"github.com/deadtide/server/internal/core/ecs"
	"github.com/deadtide/server/internal/core/event"
	"github.com/deadtide/server/internal/data"
	"github.com/deadtide/server/internal/scripting"
	"github.com/deadtide/server/internal/world"
	"go.uber.org/zap"
)

// env bundles the fixtures most behavior tests need: an open 3200x3200 px
// world at 60 tps with a player at the center, the embedded scripts, and
// the default data tables.
type env struct {
	world    *world.State
	bus      *event.Bus
	lua      *scripting.Engine
	zones    *data.ZoneTable
	variants *data.VariantTable
	fx       *world.EffectLog
	cfg      *config.Config
	playerID ecs.EntityID
}

func newEnv(t *testing.T) *env {
	t.Helper()
	lua, err := scripting.NewEngine("", zap.NewNop())
	if err != nil {
		t.Fatalf("scripting engine: %v", err)
	}
	t.Cleanup(lua.Close)

	fx := &world.EffectLog{}
	ws := world.NewState(60, world.NewTerrain(100, 100, 32), fx, 1)
	cfg := config.Default()

	e := &env{
		world:    ws,
		bus:      event.NewBus(),
		lua:      lua,
		zones:    data.DefaultZoneTable(),
		variants: data.DefaultVariantTable(),
		fx:       fx,
		cfg:      cfg,
	}
	e.spawnPlayer(t, 1600, 1600)
	return e
}

func (e *env) spawnPlayer(t *testing.T, x, y float64) {
	t.Helper()
	id, ok := e.world.Spawn(world.SpawnRequest{
		X: x, Y: y,
		Tags:      []string{"player"},
		HP:        e.cfg.Player.MaxHP,
		Speed:     e.cfg.Player.Speed,
		ColliderW: 30, ColliderH: 44,
		Facing:   5,
		IsPlayer: true,
	})
	if !ok {
		t.Fatalf("player spawn rejected at %v,%v", x, y)
	}
	e.playerID = id
	world.KeySpawnX.Set(e.world.Vars, x)
	world.KeySpawnY.Set(e.world.Vars, y)
	world.KeyPlayerX.Set(e.world.Vars, x)
	world.KeyPlayerY.Set(e.world.Vars, y)
}

func (e *env) spawnZombie(t *testing.T, ai *ZombieAI, x, y float64, variant string) ecs.EntityID {
	t.Helper()
	profile := e.variants.Get(variant)
	id, ok := e.world.Spawn(world.SpawnRequest{
		X: x, Y: y,
		Tags:      []string{"enemy", "zombie", "zombie_" + profile.Name},
		HP:        profile.HP,
		Speed:     profile.Speed,
		ColliderW: profile.ColliderW,
		ColliderH: profile.ColliderH,
	})
	if !ok {
		t.Fatalf("zombie spawn rejected at %v,%v", x, y)
	}
	ai.Attach(id, profile)
	world.KeyZombieCount.Set(e.world.Vars, world.KeyZombieCount.Get(e.world.Vars)+1)
	return id
}

// movePlayer teleports the player and republishes the shared target.
func (e *env) movePlayer(x, y float64) {
	e.world.SetPosition(e.playerID, x, y)
	e.world.Flush()
	world.KeyPlayerX.Set(e.world.Vars, x)
	world.KeyPlayerY.Set(e.world.Vars, y)
}
