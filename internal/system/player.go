package system

import (
	"math"
	"strings"

	"github.com/deadtide/server/internal/config"
	"github.com/deadtide/server/internal/core/event"
	coresys "github.com/deadtide/server/internal/core/system"
	"github.com/deadtide/server/internal/data"
	"github.com/deadtide/server/internal/scripting"
	"github.com/deadtide/server/internal/world"
	"go.uber.org/zap"
)

// weaponTier is one step of the weapon ladder. Picking up a weapon crate
// advances the level and swaps the whole attack profile at once.
type weaponTier struct {
	Name     string
	Damage   int
	Reach    float64
	Cooldown int
	Ranged   bool
}

var weaponTiers = []weaponTier{
	{Name: "Fists", Damage: 2, Reach: 30, Cooldown: 45},
	{Name: "Bat", Damage: 3, Reach: 45, Cooldown: 40},
	{Name: "Shotgun", Damage: 4, Reach: 260, Cooldown: 50, Ranged: true},
	{Name: "Combat Shotgun", Damage: 6, Reach: 280, Cooldown: 42, Ranged: true},
}

// Melee swing timing (15-frame sheet at 22 fps, impact frames 6..10).
// Ranged shots reuse the protocol at 40 fps with the projectile leaving
// on the effect frame.
const (
	playerAttackFrames = 15
	playerMeleeFPS     = 22
	playerRangedFPS    = 40
	playerWindowStart  = 6
	playerWindowEnd    = 10
	playerEffectFrame  = 6
)

const projectileSpeed = 520

// PlayerController translates host input into player behavior: movement
// with sprint stamina, attacks through the shared swing protocol, pickup
// collection, and the one-shot death sequence. It also publishes the
// player position and facing that zombies target.
type PlayerController struct {
	world *world.State
	bus   *event.Bus
	lua   *scripting.Engine
	zones *data.ZoneTable
	cfg   config.PlayerConfig
	log   *zap.Logger

	swing        *Swing
	cooldown     int
	shotFacing   int // facing locked when a ranged attack starts
	lastTick     int64
	deathHandled bool
}

func NewPlayerController(ws *world.State, bus *event.Bus, lua *scripting.Engine, zones *data.ZoneTable, cfg config.PlayerConfig, log *zap.Logger) *PlayerController {
	p := &PlayerController{
		world: ws,
		bus:   bus,
		lua:   lua,
		zones: zones,
		cfg:   cfg,
		log:   log,
	}
	ws.OnDeath("player", p.onDeath)
	return p
}

func (p *PlayerController) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (p *PlayerController) Update(tick int64) {
	p.lastTick = tick
	snap, ok := p.world.Player()
	if !ok {
		return
	}

	if world.KeyNeedsReset.Get(p.world.Vars) {
		p.reset()
	}

	// Publish position and facing before anything reads them this tick.
	world.KeyPlayerX.Set(p.world.Vars, snap.X)
	world.KeyPlayerY.Set(p.world.Vars, snap.Y)

	if snap.Dead || world.KeyGameOver.Get(p.world.Vars) {
		return
	}

	if p.cooldown > 0 {
		p.cooldown--
	}

	in := p.world.Input()
	p.updateFacing(snap, in)

	attacking := p.swing != nil
	if attacking {
		p.tickAttack(snap)
	} else if in.Attack && p.cooldown <= 0 {
		p.beginAttack(snap)
		attacking = true
	}

	p.move(snap, in, attacking)
	p.collectPickups(tick, snap)
}

// reset reinitializes controller state after a restart. The coordinator
// raises the flag; this is the only place that clears it.
func (p *PlayerController) reset() {
	world.KeyNeedsReset.Set(p.world.Vars, false)
	p.swing = nil
	p.cooldown = 0
	p.deathHandled = false
}

// updateFacing quantizes the aim direction into the 8-sector facing. The
// facing is frozen while an attack animation plays so the swing cannot be
// steered mid-swing.
func (p *PlayerController) updateFacing(snap world.Snapshot, in world.Input) {
	if p.swing != nil {
		return
	}
	dx, dy := in.AimX-snap.X, in.AimY-snap.Y
	if dx == 0 && dy == 0 {
		return
	}
	sector := SectorFor(dx, dy)
	p.world.SetFacing(snap.ID, sector)
	world.KeyPlayerFacing.Set(p.world.Vars, sector)
}

// move applies sprint stamina and picks the locomotion animation by
// comparing the movement direction against the facing direction.
func (p *PlayerController) move(snap world.Snapshot, in world.Input, attacking bool) {
	vars := p.world.Vars
	mx, my := in.MoveX, in.MoveY
	if l := math.Hypot(mx, my); l > 1 {
		mx, my = mx/l, my/l
	}
	moving := mx != 0 || my != 0

	stamina := world.KeyStamina.Get(vars)
	sprinting := in.Sprint && moving && stamina > 0 && !attacking
	if sprinting {
		stamina -= p.cfg.StaminaDrain
	} else {
		stamina += p.cfg.StaminaRegen
	}
	stamina = math.Max(0, math.Min(100, stamina))
	world.KeyStamina.Set(vars, stamina)
	world.KeySprinting.Set(vars, sprinting)

	speed := snap.Speed
	if sprinting {
		speed *= p.cfg.SprintMultiplier
	}
	p.world.SetVelocity(snap.ID, mx*speed, my*speed)

	if attacking || snap.Anim == "hurt" || snap.Anim == "die" {
		return
	}
	p.world.SetAnimation(snap.ID, locomotionAnim(mx, my, snap.Facing, sprinting))
}

// locomotionAnim compares the movement heading against the facing sector:
// roughly aligned plays run/walk, opposed plays run_backwards, and
// perpendicular plays a strafe.
func locomotionAnim(mx, my float64, facing int, sprinting bool) string {
	if mx == 0 && my == 0 {
		return "idle"
	}
	fx, fy := SectorVector(facing)
	dot := mx*fx + my*fy
	cross := fx*my - fy*mx
	switch {
	case dot > 0.5:
		if sprinting {
			return "run"
		}
		return "walk"
	case dot < -0.5:
		return "run_backwards"
	case cross > 0:
		return "strafe_right"
	default:
		return "strafe_left"
	}
}

// beginAttack starts either a ranged shot (current tier is ranged and ammo
// remains) or a melee swing with the shared windowed-hitbox protocol.
func (p *PlayerController) beginAttack(snap world.Snapshot) {
	vars := p.world.Vars
	tier := weaponTiers[clampTier(world.KeyWeaponLevel.Get(vars))]
	ranged := tier.Ranged && world.KeyAmmo.Get(vars) > 0

	spec := SwingSpec{
		Frames:      playerAttackFrames,
		FPS:         playerMeleeFPS,
		WindowStart: playerWindowStart,
		WindowEnd:   playerWindowEnd,
		Damage:      world.KeyAttackDamage.Get(vars),
		Reach:       world.KeyAttackRange.Get(vars),
		Width:       40,
		Knockback:   60,
		TargetTag:   "zombie",
		Cooldown:    world.KeyAttackCooldown.Get(vars),
	}
	if ranged {
		spec.FPS = playerRangedFPS
		spec.EffectFrame = playerEffectFrame
		// The facing command from this tick has not flushed yet; the
		// published key already carries this tick's aim.
		p.shotFacing = world.KeyPlayerFacing.Get(vars)
	}
	p.swing = NewSwing(spec)
	p.world.SetAnimation(snap.ID, attackAnim(ranged))
	p.world.Effects().Audio(attackAudio(ranged))
}

func clampTier(level int) int {
	if level < 0 {
		return 0
	}
	if level >= len(weaponTiers) {
		return len(weaponTiers) - 1
	}
	return level
}

func attackAnim(ranged bool) string {
	if ranged {
		return "shoot"
	}
	return "attack"
}

func attackAudio(ranged bool) string {
	if ranged {
		return "shotgun"
	}
	return "swing"
}

// tickAttack advances the active swing. Melee lands its damage during the
// window; ranged fires its projectile on the effect frame. A hurt stagger
// interrupts either.
func (p *PlayerController) tickAttack(snap world.Snapshot) {
	if snap.Anim == "hurt" {
		p.swing.Interrupt()
	}
	active, fire := p.swing.Advance(p.world.TPS)

	if fire {
		p.fireShot(snap)
	}
	if p.swing.Spec.EffectFrame == 0 {
		p.world.SetHitbox(snap.ID, world.Hitbox{
			W:         p.swing.Spec.Width,
			H:         p.swing.Spec.Width,
			Active:    active,
			Damage:    p.swing.Spec.Damage,
			Knockback: p.swing.Spec.Knockback,
			TargetTag: "zombie",
		})
	}
	if active && p.swing.Spec.EffectFrame == 0 && !p.swing.HitLanded() {
		p.landMelee(snap)
	}
	if p.swing.Done() {
		p.cooldown = p.swing.Spec.Cooldown
		p.swing = nil
		p.world.SetHitbox(snap.ID, world.Hitbox{})
	}
}

// landMelee damages the nearest live zombie inside the swing's reach arc.
// At most one target per swing, like the original contact rule. Corpses
// waiting out their delete timer still carry the zombie tag; the query
// skips them so they cannot absorb the swing.
func (p *PlayerController) landMelee(snap world.Snapshot) {
	target, ok := p.world.FindNearest(snap.X, snap.Y, "zombie")
	if !ok {
		return
	}
	if math.Hypot(target.X-snap.X, target.Y-snap.Y) > p.swing.Spec.Reach+20 {
		return
	}
	p.swing.MarkHit()
	p.hitZombie(snap, target, false)
}

// fireShot locks the facing from attack start and spawns a short-lived
// projectile entity carrying an active hitbox. Ammo is consumed here, on
// the effect frame, not at attack start.
func (p *PlayerController) fireShot(snap world.Snapshot) {
	vars := p.world.Vars
	ammo := world.KeyAmmo.Get(vars)
	if ammo <= 0 {
		return
	}
	world.KeyAmmo.Set(vars, ammo-1)

	dx, dy := SectorVector(p.shotFacing)
	reach := p.swing.Spec.Reach
	ttl := int(reach / projectileSpeed * float64(p.world.TPS))
	if ttl < 1 {
		ttl = 1
	}
	p.world.Spawn(world.SpawnRequest{
		X:      snap.X + dx*20,
		Y:      snap.Y + dy*20,
		VX:     dx * projectileSpeed,
		VY:     dy * projectileSpeed,
		Tags:   []string{"projectile"},
		HP:     1,
		Anim:   "pellet",
		Facing: p.shotFacing,
		TTL:    ttl,
		Hitbox: world.Hitbox{
			W:         14,
			H:         14,
			Active:    true,
			Damage:    p.shotDamage(snap),
			Knockback: p.swing.Spec.Knockback,
			TargetTag: "zombie",
		},
	})
	p.world.Effects().Particles("slash", snap.X+dx*24, snap.Y+dy*24)
}

func (p *PlayerController) shotDamage(snap world.Snapshot) int {
	vars := p.world.Vars
	return p.lua.CalcPlayerDamage(scripting.AttackContext{
		WeaponLevel: world.KeyWeaponLevel.Get(vars),
		BaseDamage:  world.KeyAttackDamage.Get(vars),
		Ranged:      true,
		ZoneDensity: p.zoneDensity(snap.X, snap.Y),
	})
}

func (p *PlayerController) hitZombie(snap world.Snapshot, target world.Snapshot, ranged bool) {
	vars := p.world.Vars
	dmg := p.lua.CalcPlayerDamage(scripting.AttackContext{
		WeaponLevel:   world.KeyWeaponLevel.Get(vars),
		BaseDamage:    p.swing.Spec.Damage,
		Ranged:        ranged,
		TargetVariant: variantTag(target),
		ZoneDensity:   p.zoneDensity(target.X, target.Y),
	})
	p.world.Damage(target.ID, dmg)
	dist := math.Hypot(target.X-snap.X, target.Y-snap.Y)
	if dist > 1 {
		kb := p.swing.Spec.Knockback
		p.world.Knockback(target.ID, (target.X-snap.X)/dist*kb, (target.Y-snap.Y)/dist*kb)
	}
	p.world.Effects().Particles("slash", target.X, target.Y)
	p.world.Effects().Audio("hit")
}

func (p *PlayerController) zoneDensity(x, y float64) float64 {
	if zone, ok := p.zones.Get(p.zones.Classify(x, y)); ok {
		return zone.Density
	}
	return 0
}

// variantTag extracts the variant name from a zombie's zombie_<name> tag.
func variantTag(snap world.Snapshot) string {
	for _, t := range snap.Tags {
		if rest, ok := strings.CutPrefix(t, "zombie_"); ok {
			return rest
		}
	}
	return ""
}

// collectPickups checks one pickup category per 15-tick slot, rotating
// health, ammo, weapon. A 3x cycle keeps the radius scans off the
// per-tick hot path without a pickup ever sitting uncollected for long.
func (p *PlayerController) collectPickups(tick int64, snap world.Snapshot) {
	if tick%15 != 0 {
		return
	}
	switch (tick / 15) % 3 {
	case 0:
		p.collect(snap, "health_pickup", p.applyHealth)
	case 1:
		p.collect(snap, "ammo_pickup", p.applyAmmo)
	default:
		p.collect(snap, "weapon_pickup", p.applyWeapon)
	}
}

func (p *PlayerController) collect(snap world.Snapshot, tag string, apply func(world.Snapshot)) {
	for _, item := range p.world.FindInRadius(snap.X, snap.Y, p.cfg.PickupRadius, tag) {
		apply(snap)
		p.world.Remove(item.ID)
		p.world.Effects().Audio("pickup")
	}
}

func (p *PlayerController) applyHealth(snap world.Snapshot) {
	p.world.Heal(snap.ID, 3)
	p.world.Effects().Particles("heal", snap.X, snap.Y)
	p.world.Effects().UIText("pickup_text", "+3 HP")
}

func (p *PlayerController) applyAmmo(snap world.Snapshot) {
	vars := p.world.Vars
	ammo := world.KeyAmmo.Get(vars) + 6
	if ammo > p.cfg.MaxAmmo {
		ammo = p.cfg.MaxAmmo
	}
	world.KeyAmmo.Set(vars, ammo)
	p.world.Effects().UIText("pickup_text", "+6 ammo")
}

// applyWeapon advances the weapon ladder and swaps the attack profile
// shared variables in one step, so a swing started next tick sees a
// consistent damage/range/cooldown set.
func (p *PlayerController) applyWeapon(snap world.Snapshot) {
	vars := p.world.Vars
	level := world.KeyWeaponLevel.Get(vars)
	if level >= p.cfg.MaxWeaponLevel {
		return
	}
	level++
	tier := weaponTiers[clampTier(level)]
	world.KeyWeaponLevel.Set(vars, level)
	world.KeyAttackDamage.Set(vars, tier.Damage)
	world.KeyAttackRange.Set(vars, tier.Reach)
	world.KeyAttackCooldown.Set(vars, tier.Cooldown)
	p.world.Effects().UIText("weapon_label", tier.Name)
	p.world.Effects().UIText("pickup_text", tier.Name+"!")
	p.log.Info("weapon upgraded", zap.String("weapon", tier.Name), zap.Int("level", level))
}

// onDeath runs the one-shot death sequence during the commit flush: raise
// game_over, freeze the run stats, and bring up the end screen.
func (p *PlayerController) onDeath(e *world.Entity) {
	if p.deathHandled {
		return
	}
	p.deathHandled = true

	vars := p.world.Vars
	world.KeyGameOver.Set(vars, true)
	world.KeyDeathTick.Set(vars, p.lastTick)
	p.swing = nil
	e.Anim = "die"

	score := world.KeyScore.Get(vars)
	kills := world.KeyKills.Get(vars)
	ticks := world.KeySurvivalTicks.Get(vars)

	fx := p.world.Effects()
	fx.UIText("survived_time", formatTicks(ticks, p.world.TPS))
	fx.UIText("final_kills", formatCount(kills))
	fx.UIText("final_score", formatCount(score))
	fx.ShowScreen("game_over")
	fx.Audio("player_die")

	event.Emit(p.bus, event.PlayerDied{X: e.X, Y: e.Y})
	event.Emit(p.bus, event.RunEnded{Score: score, Kills: kills, SurvivalTicks: ticks})
	p.log.Info("player died",
		zap.Int("score", score),
		zap.Int("kills", kills),
		zap.Int64("survival_ticks", ticks))
}
