package system

import (
	"math"

	"github.com/deadtide/server/internal/config"
	"github.com/deadtide/server/internal/core/event"
	coresys "github.com/deadtide/server/internal/core/system"
	"github.com/deadtide/server/internal/data"
	"github.com/deadtide/server/internal/scripting"
	"github.com/deadtide/server/internal/world"
	"go.uber.org/zap"
)

// ZombieSpawner keeps the live population converging on the max_zombies
// target. It is the only writer of alive_zombie_count's increments; the
// zombie death hook is the only decrementer.
type ZombieSpawner struct {
	world    *world.State
	ai       *ZombieAI
	lua      *scripting.Engine
	variants *data.VariantTable
	cfg      config.PopulationConfig
	log      *zap.Logger

	interval int
	next     int64
}

func NewZombieSpawner(ws *world.State, bus *event.Bus, ai *ZombieAI, lua *scripting.Engine, variants *data.VariantTable, cfg config.PopulationConfig, log *zap.Logger) *ZombieSpawner {
	interval := int(cfg.SpawnIntervalS * float64(ws.TPS))
	if interval < 1 {
		interval = 1
	}
	s := &ZombieSpawner{
		world:    ws,
		ai:       ai,
		lua:      lua,
		variants: variants,
		cfg:      cfg,
		log:      log,
		interval: interval,
	}
	// A fresh round should not wait out whatever remained of the last
	// spawn interval.
	event.Subscribe(bus, func(event.GameReset) { s.next = 0 })
	return s
}

func (s *ZombieSpawner) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *ZombieSpawner) Update(tick int64) {
	if tick < s.next {
		return
	}
	s.next = tick + int64(s.interval)

	if world.KeyGameOver.Get(s.world.Vars) {
		return
	}
	needed := world.KeyMaxZombies.Get(s.world.Vars) - world.KeyZombieCount.Get(s.world.Vars)
	if needed <= 0 {
		return
	}
	if needed > s.cfg.BatchSize {
		needed = s.cfg.BatchSize
	}
	for i := 0; i < needed; i++ {
		s.spawnOne()
	}
}

// SpawnInitial seeds the world with a burst of zombies before the first
// tick, without player-distance rejection beyond the usual rule.
func (s *ZombieSpawner) SpawnInitial(count int) {
	for i := 0; i < count; i++ {
		s.spawnOne()
	}
}

// spawnOne tries up to PlacementTrials random cells; a slot that finds no
// valid position this interval is forfeited, not retried.
func (s *ZombieSpawner) spawnOne() {
	terrain := s.world.Terrain()
	rng := s.world.Rand()
	px := world.KeyPlayerX.Get(s.world.Vars)
	py := world.KeyPlayerY.Get(s.world.Vars)

	for trial := 0; trial < s.cfg.PlacementTrials; trial++ {
		cx := rng.Intn(terrain.W)
		cy := rng.Intn(terrain.H)
		if terrain.SolidCell(cx, cy) {
			continue
		}
		x, y := terrain.CellToWorld(cx, cy)
		if math.Hypot(x-px, y-py) < s.cfg.MinPlayerDist {
			continue
		}
		s.place(x, y)
		return
	}
}

func (s *ZombieSpawner) place(x, y float64) {
	profile := s.rollVariant()
	id, ok := s.world.Spawn(world.SpawnRequest{
		X:         x,
		Y:         y,
		Tags:      []string{"enemy", "zombie", "zombie_" + profile.Name},
		HP:        profile.HP,
		Speed:     profile.Speed,
		ColliderW: profile.ColliderW,
		ColliderH: profile.ColliderH,
		Anim:      "idle",
		Facing:    s.world.Rand().Intn(8),
	})
	if !ok {
		return
	}
	s.ai.Attach(id, profile)
	world.KeyZombieCount.Set(s.world.Vars, world.KeyZombieCount.Get(s.world.Vars)+1)
	s.log.Debug("zombie spawned",
		zap.String("variant", profile.Name),
		zap.Int("alive", world.KeyZombieCount.Get(s.world.Vars)))
}

// rollVariant asks the scripting layer first; an empty answer falls back
// to the Go-side weighted table with the same roll.
func (s *ZombieSpawner) rollVariant() data.VariantProfile {
	roll := s.world.Rand().Float64()
	if name := s.lua.RollVariant(roll); name != "" {
		return s.variants.Get(name)
	}
	return s.variants.Roll(roll)
}
