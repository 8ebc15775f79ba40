package world

import "github.com/deadtide/server/internal/core/ecs"

// Entity mutation is asymmetric with reads by design: queries return value
// snapshots, while mutation goes through these command methods. Commands
// accumulate during the tick and Flush applies them in FIFO order during
// the commit phase. A command against an entity that died or was removed
// earlier in the same flush is silently dropped.

type cmdKind int

const (
	cmdDamage cmdKind = iota
	cmdHeal
	cmdKnockback
	cmdSetPosition
	cmdSetVelocity
	cmdSetAlive
	cmdSetAnimation
	cmdSetFacing
	cmdSetHitbox
	cmdRemove
)

type command struct {
	kind   cmdKind
	id     ecs.EntityID
	a, b   float64
	n      int
	flag   bool
	name   string
	hitbox Hitbox
}

// Damage queues amount points of damage against an entity.
func (s *State) Damage(id ecs.EntityID, amount int) {
	s.queue = append(s.queue, command{kind: cmdDamage, id: id, n: amount})
}

// Heal queues amount points of healing, clamped at max health.
func (s *State) Heal(id ecs.EntityID, amount int) {
	s.queue = append(s.queue, command{kind: cmdHeal, id: id, n: amount})
}

// Knockback queues a positional shove. Blocked by solid terrain.
func (s *State) Knockback(id ecs.EntityID, dx, dy float64) {
	s.queue = append(s.queue, command{kind: cmdKnockback, id: id, a: dx, b: dy})
}

// SetPosition queues a teleport-style reposition.
func (s *State) SetPosition(id ecs.EntityID, x, y float64) {
	s.queue = append(s.queue, command{kind: cmdSetPosition, id: id, a: x, b: y})
}

// SetVelocity queues a velocity write (px/s).
func (s *State) SetVelocity(id ecs.EntityID, vx, vy float64) {
	s.queue = append(s.queue, command{kind: cmdSetVelocity, id: id, a: vx, b: vy})
}

// SetAlive queues a revive (true) or kill-mark (false). Reviving restores
// the death hook so a later death fires it again.
func (s *State) SetAlive(id ecs.EntityID, alive bool) {
	s.queue = append(s.queue, command{kind: cmdSetAlive, id: id, flag: alive})
}

// SetAnimation queues an animation-state change.
func (s *State) SetAnimation(id ecs.EntityID, anim string) {
	s.queue = append(s.queue, command{kind: cmdSetAnimation, id: id, name: anim})
}

// SetFacing queues a facing-sector change.
func (s *State) SetFacing(id ecs.EntityID, sector int) {
	s.queue = append(s.queue, command{kind: cmdSetFacing, id: id, n: sector})
}

// SetHitbox queues a full hitbox replacement (activation included).
func (s *State) SetHitbox(id ecs.EntityID, hb Hitbox) {
	s.queue = append(s.queue, command{kind: cmdSetHitbox, id: id, hitbox: hb})
}

// Remove queues entity destruction at commit.
func (s *State) Remove(id ecs.EntityID) {
	s.queue = append(s.queue, command{kind: cmdRemove, id: id})
}

// OnDeath registers a hook fired at most once per entity life when an
// entity carrying tag reaches zero health. Hooks run inside Flush,
// decoupled from the per-tick update of the dying entity.
func (s *State) OnDeath(tag string, hook DeathHook) {
	s.deathHooks[tag] = append(s.deathHooks[tag], hook)
}

// PendingCommands returns the number of queued, unflushed commands.
func (s *State) PendingCommands() int { return len(s.queue) }

// Flush applies all queued commands in order, firing death hooks for
// entities whose health reaches zero. Called once per tick (commit phase).
func (s *State) Flush() {
	// The queue is swapped out first: hooks may enqueue follow-up
	// commands, which then apply on the next flush.
	pending := s.queue
	s.queue = nil

	for _, c := range pending {
		e := s.get(c.id)
		if e == nil {
			continue
		}
		switch c.kind {
		case cmdDamage:
			s.applyDamage(e, c.n)
		case cmdHeal:
			if e.Dead {
				break
			}
			e.HP += c.n
			if e.HP > e.MaxHP {
				e.HP = e.MaxHP
			}
		case cmdKnockback:
			nx, ny := e.X+c.a, e.Y+c.b
			if !s.IsSolid(nx, ny) {
				e.X, e.Y = nx, ny
			}
		case cmdSetPosition:
			e.X, e.Y = c.a, c.b
		case cmdSetVelocity:
			e.VX, e.VY = c.a, c.b
		case cmdSetAlive:
			if c.flag {
				e.Dead = false
				e.deathNotified = false
				e.DeleteTimer = 0
				if e.HP < 1 {
					e.HP = 1
				}
			} else {
				s.applyDamage(e, e.HP)
			}
		case cmdSetAnimation:
			e.Anim = c.name
		case cmdSetFacing:
			e.Facing = c.n
		case cmdSetHitbox:
			e.Hitbox = c.hitbox
		case cmdRemove:
			s.RemoveEntity(c.id)
		}
	}
}

// applyDamage lowers health with clamping and drives the one-shot death
// transition. A hurt stagger is only applied to survivors.
func (s *State) applyDamage(e *Entity, amount int) {
	if e.Dead || amount <= 0 {
		return
	}
	e.HP -= amount
	if e.HP > 0 {
		e.Anim = "hurt"
		e.HurtTicks = 12
		return
	}
	e.HP = 0
	e.Dead = true
	e.VX, e.VY = 0, 0
	e.Hitbox.Active = false
	s.notifyDeath(e)
}

// notifyDeath fires registered death hooks exactly once per entity life.
// Destruction does not synchronously signal "already handled", so the
// guard flag lives on the entity itself.
func (s *State) notifyDeath(e *Entity) {
	if e.deathNotified {
		return
	}
	e.deathNotified = true
	for _, tag := range e.Tags {
		for _, hook := range s.deathHooks[tag] {
			hook(e)
		}
	}
}
