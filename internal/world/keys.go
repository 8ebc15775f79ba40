package world

// Shared variable keys. Each key has exactly one authoritative writer per
// tick phase, noted below; everyone else only reads. Nothing in the store
// enforces this; it is the discipline that keeps last-write-wins safe.
var (
	// KeyScore: written by the zombie death hook (commit phase).
	KeyScore = NewKey("score", 0)
	// KeyKills: written by the zombie death hook (commit phase).
	KeyKills = NewKey("zombies_killed", 0)
	// KeyGameOver: set by the player death sequence, cleared by the
	// restart coordinator.
	KeyGameOver = NewKey("game_over", false)
	// KeyDeathTick: tick at which the player died; restart debounce base.
	KeyDeathTick = NewKey("death_tick", int64(0))
	// KeySurvivalTicks: written by the rules engine each tick.
	KeySurvivalTicks = NewKey("survival_ticks", int64(0))

	// KeyPlayerX/Y/Facing: published by the player controller every tick.
	// Zombies target these, never a retained entity reference.
	KeyPlayerX      = NewKey("player_x", 0.0)
	KeyPlayerY      = NewKey("player_y", 0.0)
	KeyPlayerFacing = NewKey("player_facing", 5)

	// KeySpawnX/Y: written once at world build; restart repositions here.
	KeySpawnX = NewWorldKey("spawn_x", 0.0)
	KeySpawnY = NewWorldKey("spawn_y", 0.0)

	// KeyMaxZombies: population target; ratcheted by the rules engine.
	KeyMaxZombies = NewKey("max_zombies", 30)
	// KeyZombieCount: incremented only by the population manager on a
	// successful spawn, decremented only by the zombie death hook.
	// Clamped at zero on the decrement side.
	KeyZombieCount = NewKey("alive_zombie_count", 0)

	// Player resources, written by the player controller.
	KeyStamina     = NewKey("stamina", 100.0)
	KeySprinting   = NewKey("sprinting", false)
	KeyWeaponLevel = NewKey("weapon_level", 0)
	KeyAmmo        = NewKey("ammo", 0)

	// Current attack profile; swapped atomically on weapon pickup.
	KeyAttackDamage   = NewKey("attack_damage", 2)
	KeyAttackRange    = NewKey("attack_range", 30.0)
	KeyAttackCooldown = NewKey("attack_cooldown", 45)

	// KeyNeedsReset: raised by the restart coordinator, consumed (and
	// cleared) by the player controller on its next tick. The coordinator
	// cannot reach into another component's persistent state; this flag
	// is the signal for that component to reinitialize itself.
	KeyNeedsReset = NewKey("player_needs_reset", false)

	// KeyZone: current zone label, written by the rules engine.
	KeyZone = NewKey("zone", "wilderness")
)
