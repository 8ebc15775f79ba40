package world

import "github.com/deadtide/server/internal/core/ecs"

// Hitbox is an attack volume owned by its entity. Only the owning entity's
// behavior component (or the host physics step, for projectiles) consults
// it; Active is true for at most the frames of a declared impact window.
type Hitbox struct {
	W, H      float64
	OffsetX   float64
	OffsetY   float64
	Active    bool
	Damage    int
	Knockback float64
	TargetTag string
}

// Entity is the host-side record of one live object. Behavior systems do
// not touch these structs: they read Snapshots and enqueue commands. Direct
// mutation is reserved for host code (physics, command flush, death hooks).
type Entity struct {
	ID     ecs.EntityID
	X, Y   float64
	VX, VY float64
	Speed  float64 // base movement speed, px/s

	HP, MaxHP int
	Dead      bool // HP reached zero; corpse may linger for its animation
	Tags      []string

	Anim      string
	Facing    int // sector 0..7, see system.SectorName
	HurtTicks int // >0: hurt stagger in progress, host restores idle at 0

	ColliderW, ColliderH float64
	Hitbox               Hitbox

	TTL int // >0: host removes the entity when it counts down to zero

	// DeleteTimer counts down after death before the corpse is removed,
	// giving the death animation time to play.
	DeleteTimer int

	deathNotified bool
}

// HasTag reports whether the entity carries the given tag.
func (e *Entity) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Snapshot is a point-in-time copy of an entity's observable state.
// Holding one across ticks is invalid: the entity may move, die, or be
// replaced. Re-query every tick.
type Snapshot struct {
	ID     ecs.EntityID
	X, Y   float64
	VX, VY float64
	Speed  float64

	HP, MaxHP int
	Dead      bool
	Anim      string
	Facing    int

	Tags []string
}

// HasTag reports whether the snapshot carries the given tag.
func (s Snapshot) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (e *Entity) snapshot() Snapshot {
	tags := make([]string, len(e.Tags))
	copy(tags, e.Tags)
	return Snapshot{
		ID:     e.ID,
		X:      e.X,
		Y:      e.Y,
		VX:     e.VX,
		VY:     e.VY,
		Speed:  e.Speed,
		HP:     e.HP,
		MaxHP:  e.MaxHP,
		Dead:   e.Dead,
		Anim:   e.Anim,
		Facing: e.Facing,
		Tags:   tags,
	}
}
