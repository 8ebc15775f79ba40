package world

import (
	"math"
	"math/rand"

	"github.com/deadtide/server/internal/core/ecs"
)

// Input is the host's per-tick input snapshot. Attack and AnyKey are
// edge-style "pressed this tick" flags, not held-state.
type Input struct {
	MoveX, MoveY float64 // desired movement direction, not normalized
	AimX, AimY   float64 // world-space aim target
	Sprint       bool
	Attack       bool
	AnyKey       bool
}

// State owns all mutable world data: entities, terrain, the shared
// variable store, the pending command queue, and the tick RNG. Accessed
// only from the game loop goroutine, so no locks are needed.
type State struct {
	TPS  int // simulation ticks per second
	Vars *Store

	terrain *Terrain
	effects Effects
	rng     *rand.Rand

	pool     *ecs.EntityPool
	entities map[ecs.EntityID]*Entity
	playerID ecs.EntityID

	input Input

	queue      []command
	deathHooks map[string][]DeathHook
}

// DeathHook runs once when an entity with the registered tag dies.
// It runs during the commit phase with direct entity access.
type DeathHook func(e *Entity)

func NewState(tps int, terrain *Terrain, effects Effects, seed int64) *State {
	if effects == nil {
		effects = NopEffects{}
	}
	pool := ecs.NewEntityPool()
	pool.Create() // burn index 0 so no live entity has the zero ID
	return &State{
		TPS:        tps,
		Vars:       NewStore(),
		terrain:    terrain,
		effects:    effects,
		rng:        rand.New(rand.NewSource(seed)),
		pool:       pool,
		entities:   make(map[ecs.EntityID]*Entity, 128),
		deathHooks: make(map[string][]DeathHook),
	}
}

func (s *State) Rand() *rand.Rand  { return s.rng }
func (s *State) Effects() Effects  { return s.effects }
func (s *State) Terrain() *Terrain { return s.terrain }

// SetInput is called by the host harness before each tick.
func (s *State) SetInput(in Input) { s.input = in }

// Input returns this tick's input snapshot.
func (s *State) Input() Input { return s.input }

// IsSolid reports whether the world position is unwalkable terrain.
// Positions outside the map count as solid.
func (s *State) IsSolid(x, y float64) bool {
	if s.terrain == nil {
		return false
	}
	return s.terrain.IsSolid(x, y)
}

// ---------- Spawn / remove ----------

// SpawnRequest describes a new entity. Spawns are best-effort: a request
// on solid terrain is rejected and the caller must cope, typically by
// retrying on its own schedule.
type SpawnRequest struct {
	X, Y      float64
	VX, VY    float64
	Tags      []string
	HP        int
	Speed     float64
	ColliderW float64
	ColliderH float64
	Hitbox    Hitbox
	Anim      string
	Facing    int
	TTL       int
	IsPlayer  bool
}

// Spawn creates an entity immediately and returns its identity.
// ok is false when the host rejects the position.
func (s *State) Spawn(req SpawnRequest) (ecs.EntityID, bool) {
	if s.IsSolid(req.X, req.Y) {
		return 0, false
	}
	id := s.pool.Create()
	anim := req.Anim
	if anim == "" {
		anim = "idle"
	}
	hp := req.HP
	e := &Entity{
		ID:        id,
		X:         req.X,
		Y:         req.Y,
		VX:        req.VX,
		VY:        req.VY,
		Speed:     req.Speed,
		HP:        hp,
		MaxHP:     hp,
		Tags:      append([]string(nil), req.Tags...),
		Anim:      anim,
		Facing:    req.Facing,
		ColliderW: req.ColliderW,
		ColliderH: req.ColliderH,
		Hitbox:    req.Hitbox,
		TTL:       req.TTL,
	}
	s.entities[id] = e
	if req.IsPlayer {
		s.playerID = id
	}
	return id, true
}

// RemoveEntity destroys an entity immediately. Host-side use only
// (cleanup phase, projectile expiry); behavior code queues Remove instead.
func (s *State) RemoveEntity(id ecs.EntityID) {
	if _, ok := s.entities[id]; !ok {
		return
	}
	delete(s.entities, id)
	s.pool.Destroy(id)
	if id == s.playerID {
		s.playerID = 0
	}
}

// get returns the live entity, or nil for a stale/unknown ID.
func (s *State) get(id ecs.EntityID) *Entity {
	return s.entities[id]
}

// Each visits every live entity. Host-side systems only (physics,
// cleanup); behavior systems use the snapshot queries below.
func (s *State) Each(fn func(*Entity)) {
	for _, e := range s.entities {
		fn(e)
	}
}

// EntityCount returns the number of live entities.
func (s *State) EntityCount() int { return len(s.entities) }

// ---------- Snapshot queries ----------

// Get returns a snapshot of one entity.
func (s *State) Get(id ecs.EntityID) (Snapshot, bool) {
	e := s.get(id)
	if e == nil {
		return Snapshot{}, false
	}
	return e.snapshot(), true
}

// Player returns a snapshot of the player entity, if one exists.
func (s *State) Player() (Snapshot, bool) {
	return s.Get(s.playerID)
}

// PlayerID returns the player's entity ID (zero when absent).
func (s *State) PlayerID() ecs.EntityID { return s.playerID }

// FindInRadius returns snapshots of all entities within r of (x,y),
// optionally filtered by tag (empty tag matches everything).
func (s *State) FindInRadius(x, y, r float64, tag string) []Snapshot {
	var out []Snapshot
	r2 := r * r
	for _, e := range s.entities {
		if tag != "" && !e.HasTag(tag) {
			continue
		}
		dx, dy := e.X-x, e.Y-y
		if dx*dx+dy*dy <= r2 {
			out = append(out, e.snapshot())
		}
	}
	return out
}

// FindNearest returns the nearest live entity carrying tag, if any.
// Dead entities are skipped even while their corpses persist.
func (s *State) FindNearest(x, y float64, tag string) (Snapshot, bool) {
	var best *Entity
	bestD2 := math.MaxFloat64
	for _, e := range s.entities {
		if e.Dead {
			continue
		}
		if tag != "" && !e.HasTag(tag) {
			continue
		}
		dx, dy := e.X-x, e.Y-y
		d2 := dx*dx + dy*dy
		if d2 < bestD2 {
			bestD2 = d2
			best = e
		}
	}
	if best == nil {
		return Snapshot{}, false
	}
	return best.snapshot(), true
}

// CountTag returns the number of live entities carrying tag.
func (s *State) CountTag(tag string) int {
	n := 0
	for _, e := range s.entities {
		if !e.Dead && e.HasTag(tag) {
			n++
		}
	}
	return n
}
