package world

import "math"

// StepPhysics is the stand-in for the host engine's movement/collision
// pass: integrate velocities with per-axis solid blocking, run projectile
// contact and expiry, and let hurt staggers time out. Real collision
// resolution is out of scope; this is just enough to run headless.
func (s *State) StepPhysics() {
	dt := 1.0 / float64(s.TPS)

	var expired []*Entity
	for _, e := range s.entities {
		if e.HurtTicks > 0 {
			e.HurtTicks--
			if e.HurtTicks == 0 && e.Anim == "hurt" {
				e.Anim = "idle"
			}
		}
		if e.Dead {
			continue
		}
		if e.VX != 0 {
			nx := e.X + e.VX*dt
			if s.IsSolid(nx, e.Y) {
				e.VX = 0
			} else {
				e.X = nx
			}
		}
		if e.VY != 0 {
			ny := e.Y + e.VY*dt
			if s.IsSolid(e.X, ny) {
				e.VY = 0
			} else {
				e.Y = ny
			}
		}
		if e.TTL > 0 {
			e.TTL--
			if e.TTL == 0 {
				expired = append(expired, e)
				continue
			}
			if e.Hitbox.Active && s.projectileContact(e) {
				expired = append(expired, e)
			}
		}
	}
	for _, e := range expired {
		s.RemoveEntity(e.ID)
	}
}

// projectileContact applies a projectile's hitbox to the first overlapping
// target and reports whether it connected.
func (s *State) projectileContact(p *Entity) bool {
	for _, e := range s.entities {
		if e == p || e.Dead || !e.HasTag(p.Hitbox.TargetTag) {
			continue
		}
		if !overlap(p.X+p.Hitbox.OffsetX, p.Y+p.Hitbox.OffsetY, p.Hitbox.W, p.Hitbox.H,
			e.X, e.Y, e.ColliderW, e.ColliderH) {
			continue
		}
		s.Damage(e.ID, p.Hitbox.Damage)
		if p.Hitbox.Knockback > 0 && (p.VX != 0 || p.VY != 0) {
			mag := p.Hitbox.Knockback / hypot(p.VX, p.VY)
			s.Knockback(e.ID, p.VX*mag, p.VY*mag)
		}
		s.effects.Particles("blood", e.X, e.Y)
		return true
	}
	return false
}

// overlap tests two center-anchored axis-aligned rectangles.
func overlap(ax, ay, aw, ah, bx, by, bw, bh float64) bool {
	dx := ax - bx
	if dx < 0 {
		dx = -dx
	}
	dy := ay - by
	if dy < 0 {
		dy = -dy
	}
	return dx <= (aw+bw)/2 && dy <= (ah+bh)/2
}

func hypot(x, y float64) float64 {
	d := math.Sqrt(x*x + y*y)
	if d == 0 {
		return 1
	}
	return d
}
