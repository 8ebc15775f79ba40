package system

// SwingSpec describes the timing and payload of one attack animation.
// Frames/FPS mirror the sprite sheet driving the attack; the impact window
// [WindowStart, WindowEnd] is the sub-range of frames during which the
// hitbox is live. EffectFrame marks an optional mid-attack one-shot (the
// ranged attack consumes ammo and fires its projectile there).
type SwingSpec struct {
	Frames      int
	FPS         float64
	WindowStart int
	WindowEnd   int
	EffectFrame int // 0 = no mid-attack effect
	Damage      int
	Reach       float64
	Width       float64
	Knockback   float64
	TargetTag   string
	Cooldown    int // ticks before the owner may attack again
}

// Swing is one in-progress attack. Every attacker (zombie melee, player
// melee/ranged) drives the same protocol: advance once per tick, keep the
// hitbox active exactly while the window reports true, apply the damage
// side effect at most once, and treat interruption as immediate
// deactivation.
type Swing struct {
	Spec       SwingSpec
	frame      float64
	hitDone    bool
	effectDone bool
	done       bool
}

func NewSwing(spec SwingSpec) *Swing {
	return &Swing{Spec: spec}
}

// Advance moves the internal frame counter forward by one tick at the
// given simulation rate. windowActive reports whether the hitbox must be
// live this tick; fireEffect is true on the single tick the counter
// crosses EffectFrame.
func (sw *Swing) Advance(tps int) (windowActive, fireEffect bool) {
	if sw.done {
		return false, false
	}
	sw.frame += sw.Spec.FPS / float64(tps)
	if sw.frame >= float64(sw.Spec.Frames) {
		sw.done = true
		return false, false
	}
	f := int(sw.frame)
	windowActive = f >= sw.Spec.WindowStart && f <= sw.Spec.WindowEnd
	if sw.Spec.EffectFrame > 0 && !sw.effectDone && f >= sw.Spec.EffectFrame {
		sw.effectDone = true
		fireEffect = true
	}
	return windowActive, fireEffect
}

// Frame returns the current whole animation frame.
func (sw *Swing) Frame() int { return int(sw.frame) }

// Done reports whether the animation has completed or been interrupted.
func (sw *Swing) Done() bool { return sw.done }

// Interrupt ends the swing immediately (hurt/death); the hitbox must be
// deactivated by the owner in the same tick.
func (sw *Swing) Interrupt() { sw.done = true }

// HitLanded reports whether the damage side effect already fired this
// swing.
func (sw *Swing) HitLanded() bool { return sw.hitDone }

// MarkHit records the damage side effect; it resets only when a new swing
// begins.
func (sw *Swing) MarkHit() { sw.hitDone = true }
