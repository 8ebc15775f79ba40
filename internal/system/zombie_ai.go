package system

import (
	"math"

	"github.com/deadtide/server/internal/config"
	"github.com/deadtide/server/internal/core/ecs"
	"github.com/deadtide/server/internal/core/event"
	coresys "github.com/deadtide/server/internal/core/system"
	"github.com/deadtide/server/internal/data"
	"github.com/deadtide/server/internal/scripting"
	"github.com/deadtide/server/internal/world"
	"go.uber.org/zap"
)

// Zombie attack animation timing (15-frame sheet at 20 fps; impact frames
// 6..10, matching the swing's contact portion).
const (
	zombieAttackFrames = 15
	zombieAttackFPS    = 20
	zombieWindowStart  = 6
	zombieWindowEnd    = 10
)

// corpseTicks holds a dead zombie on screen long enough for the 15-frame
// die animation at 8 fps.
const corpseTicks = 115

// ZombieAI drives every zombie through Wander → Aggro → Attack, with hurt
// and death as interrupting overlays. The target position comes only from
// the player_x/player_y shared variables; entity references are never
// retained across ticks. Full decision logic runs once every
// DecisionInterval ticks per zombie, staggered by a per-zombie phase
// bucket; between decisions the zombie coasts on its last velocity.
type ZombieAI struct {
	world  *world.State
	bus    *event.Bus
	lua    *scripting.Engine
	zones  *data.ZoneTable
	cfg    config.ZombieConfig
	log    *zap.Logger
	states map[ecs.EntityID]*zombieState
}

// zombieState is the per-zombie persistent state, created at spawn and
// never shared with another entity.
type zombieState struct {
	profile     data.VariantProfile
	phaseBucket int

	aggro        bool
	wanderTicks  int
	cooldown     int
	swing        *Swing
	deathHandled bool
}

func NewZombieAI(ws *world.State, bus *event.Bus, lua *scripting.Engine, zones *data.ZoneTable, cfg config.ZombieConfig, log *zap.Logger) *ZombieAI {
	s := &ZombieAI{
		world:  ws,
		bus:    bus,
		lua:    lua,
		zones:  zones,
		cfg:    cfg,
		log:    log,
		states: make(map[ecs.EntityID]*zombieState, 64),
	}
	ws.OnDeath("zombie", s.onDeath)
	// Once the run is over there is nothing left to bite: drop aggro and
	// cut any in-progress attack short so corpse-side zombies idle.
	event.Subscribe(bus, func(event.PlayerDied) {
		for _, st := range s.states {
			st.aggro = false
			if st.swing != nil {
				st.swing.Interrupt()
			}
		}
	})
	return s
}

func (s *ZombieAI) Phase() coresys.Phase { return coresys.PhaseUpdate }

// Attach initializes behavior state for a freshly spawned zombie. Explicit
// initialization at creation time replaces the lazy first-tick sentinel the
// scripts used.
func (s *ZombieAI) Attach(id ecs.EntityID, profile data.VariantProfile) {
	s.states[id] = &zombieState{
		profile:     profile,
		phaseBucket: s.world.Rand().Intn(s.cfg.DecisionInterval),
		wanderTicks: s.world.Rand().Intn(120) + 30,
	}
}

// Detach drops behavior state; called when the entity is removed.
func (s *ZombieAI) Detach(id ecs.EntityID) {
	delete(s.states, id)
}

// Count returns the number of zombies with live behavior state.
func (s *ZombieAI) Count() int { return len(s.states) }

func (s *ZombieAI) Update(tick int64) {
	for id, st := range s.states {
		snap, ok := s.world.Get(id)
		if !ok {
			delete(s.states, id) // entity removed by the host
			continue
		}
		if snap.Dead {
			continue
		}
		s.tickZombie(tick, id, st, snap)
	}
}

func (s *ZombieAI) tickZombie(tick int64, id ecs.EntityID, st *zombieState, snap world.Snapshot) {
	if st.cooldown > 0 {
		st.cooldown--
	}

	// An in-progress attack runs every tick: the impact window must not
	// miss frames to throttling.
	if st.swing != nil {
		s.tickAttack(id, st, snap)
		return
	}

	// Hurt stagger suppresses decisions; velocity was already zeroed.
	if snap.Anim == "hurt" {
		s.world.SetVelocity(id, 0, 0)
		return
	}

	// Throttle: full decision logic only on this zombie's phase bucket.
	if int(tick)%s.cfg.DecisionInterval != st.phaseBucket {
		return
	}

	px := world.KeyPlayerX.Get(s.world.Vars)
	py := world.KeyPlayerY.Get(s.world.Vars)
	hasTarget := !world.KeyGameOver.Get(s.world.Vars)
	dist := math.Hypot(px-snap.X, py-snap.Y)

	// Hysteresis: enter aggro below ChaseRange, leave above LoseRange.
	if hasTarget {
		if !st.aggro && dist < s.cfg.ChaseRange {
			st.aggro = true
		} else if st.aggro && dist > s.cfg.LoseRange {
			st.aggro = false
		}
	} else {
		st.aggro = false
	}

	if st.aggro {
		s.world.SetFacing(id, SectorFor(px-snap.X, py-snap.Y))
		if st.cooldown <= 0 && dist < s.cfg.AttackRange+st.profile.ColliderW/2 {
			s.beginAttack(id, st, snap, px, py)
			return
		}
		// Chase: head straight at the last published target position.
		if dist > 1 {
			vx := (px - snap.X) / dist * st.profile.Speed
			vy := (py - snap.Y) / dist * st.profile.Speed
			s.world.SetVelocity(id, vx, vy)
			s.world.SetAnimation(id, "run")
		}
		return
	}

	s.tickWander(id, st, snap)
}

// tickWander decrements the wander timer and picks a new action when it
// expires: new random heading, continue, or pause (weighted).
func (s *ZombieAI) tickWander(id ecs.EntityID, st *zombieState, snap world.Snapshot) {
	st.wanderTicks -= s.cfg.DecisionInterval
	if st.wanderTicks > 0 {
		return
	}
	rng := s.world.Rand()
	st.wanderTicks = rng.Intn(120) + 60

	roll := rng.Float64()
	switch {
	case roll < 0.5: // new heading at half speed
		angle := rng.Float64() * 2 * math.Pi
		speed := st.profile.Speed * 0.5
		s.world.SetVelocity(id, math.Cos(angle)*speed, math.Sin(angle)*speed)
		s.world.SetFacing(id, SectorFor(math.Cos(angle), math.Sin(angle)))
		s.world.SetAnimation(id, "walk")
	case roll < 0.8: // keep shambling the same way
		if snap.VX == 0 && snap.VY == 0 {
			s.world.SetAnimation(id, "idle")
		}
	default: // pause
		s.world.SetVelocity(id, 0, 0)
		s.world.SetAnimation(id, "idle")
	}
}

// beginAttack freezes motion (except the lunge) and starts the shared
// windowed-hitbox protocol.
func (s *ZombieAI) beginAttack(id ecs.EntityID, st *zombieState, snap world.Snapshot, px, py float64) {
	st.swing = NewSwing(SwingSpec{
		Frames:      zombieAttackFrames,
		FPS:         zombieAttackFPS,
		WindowStart: zombieWindowStart,
		WindowEnd:   zombieWindowEnd,
		Damage:      st.profile.Damage,
		Reach:       s.cfg.AttackRange + st.profile.ColliderW/2,
		Width:       st.profile.ColliderW + 10,
		Knockback:   st.profile.Knockback,
		TargetTag:   "player",
		Cooldown:    s.cfg.AttackCooldown,
	})
	s.world.SetAnimation(id, "attack")

	// Lunge toward the locked target at reduced speed.
	dist := math.Hypot(px-snap.X, py-snap.Y)
	if dist > 1 {
		s.world.SetVelocity(id, (px-snap.X)/dist*st.profile.Speed*0.6, (py-snap.Y)/dist*st.profile.Speed*0.6)
	}
}

// tickAttack advances the swing, mirrors the window onto the entity's
// hitbox, and lands the bite at most once per swing.
func (s *ZombieAI) tickAttack(id ecs.EntityID, st *zombieState, snap world.Snapshot) {
	if snap.Anim == "hurt" {
		st.swing.Interrupt()
	}
	active, _ := st.swing.Advance(s.world.TPS)

	hb := world.Hitbox{
		W:         st.swing.Spec.Width,
		H:         st.swing.Spec.Width,
		Active:    active,
		Damage:    st.swing.Spec.Damage,
		Knockback: st.swing.Spec.Knockback,
		TargetTag: "player",
	}
	s.world.SetHitbox(id, hb)

	if active && !st.swing.HitLanded() {
		s.landBite(id, st, snap)
	}

	if st.swing.Done() {
		st.swing = nil
		st.cooldown = s.cfg.AttackCooldown
		s.world.SetVelocity(id, 0, 0)
		s.world.SetAnimation(id, "idle")
		s.world.SetHitbox(id, world.Hitbox{})
	}
}

// landBite applies damage and knockback to the player if still in reach.
// Fires at most once per swing.
func (s *ZombieAI) landBite(id ecs.EntityID, st *zombieState, snap world.Snapshot) {
	player, ok := s.world.Player()
	if !ok || player.Dead {
		return
	}
	if math.Hypot(player.X-snap.X, player.Y-snap.Y) > st.swing.Spec.Reach {
		return
	}
	st.swing.MarkHit()

	density := 0.0
	if zone, ok := s.zones.Get(s.zones.Classify(snap.X, snap.Y)); ok {
		density = zone.Density
	}
	dmg := s.lua.CalcZombieDamage(scripting.ZombieAttackContext{
		Variant:     st.profile.Name,
		BaseDamage:  st.swing.Spec.Damage,
		ZoneDensity: density,
	})

	s.world.Damage(player.ID, dmg)
	dist := math.Hypot(player.X-snap.X, player.Y-snap.Y)
	if dist > 1 {
		kb := st.swing.Spec.Knockback
		s.world.Knockback(player.ID, (player.X-snap.X)/dist*kb, (player.Y-snap.Y)/dist*kb)
	}
	s.world.Effects().Particles("blood", player.X, player.Y)
	s.world.Effects().CameraShake(4, 0.2)
	s.world.Effects().Audio("player_hurt")
}

// onDeath is the zombie death hook: runs once per zombie life during the
// commit flush, decoupled from the per-tick update.
func (s *ZombieAI) onDeath(e *world.Entity) {
	st := s.states[e.ID]
	if st == nil || st.deathHandled {
		return
	}
	st.deathHandled = true

	e.Anim = "die"
	e.DeleteTimer = corpseTicks

	vars := s.world.Vars
	world.KeyScore.Set(vars, world.KeyScore.Get(vars)+s.lua.KillScore(st.profile.Name, st.profile.Score))
	world.KeyKills.Set(vars, world.KeyKills.Get(vars)+1)
	if c := world.KeyZombieCount.Get(vars); c > 0 {
		world.KeyZombieCount.Set(vars, c-1)
	}

	event.Emit(s.bus, event.ZombieKilled{EntityID: e.ID, Variant: st.profile.Name, X: e.X, Y: e.Y})
	s.log.Debug("zombie killed",
		zap.String("variant", st.profile.Name),
		zap.Int("kills", world.KeyKills.Get(vars)))
	s.world.Effects().Particles("blood", e.X, e.Y)
	s.world.Effects().Audio("zombie_die")
}
