package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server     ServerConfig     `toml:"server"`
	Sim        SimConfig        `toml:"sim"`
	World      WorldConfig      `toml:"world"`
	Player     PlayerConfig     `toml:"player"`
	Zombie     ZombieConfig     `toml:"zombie"`
	Population PopulationConfig `toml:"population"`
	Rules      RulesConfig      `toml:"rules"`
	Database   DatabaseConfig   `toml:"database"`
	Scripts    ScriptsConfig    `toml:"scripts"`
	Logging    LoggingConfig    `toml:"logging"`
}

type ServerConfig struct {
	Name string `toml:"name"`
	Seed int64  `toml:"seed"` // 0 = derive from clock at boot
}

type SimConfig struct {
	TicksPerSecond int `toml:"ticks_per_second"`
}

// TickRate returns the wall-clock duration of one tick.
func (c SimConfig) TickRate() time.Duration {
	return time.Second / time.Duration(c.TicksPerSecond)
}

type WorldConfig struct {
	Width        int     `toml:"width"`  // tiles
	Height       int     `toml:"height"` // tiles
	TileSize     float64 `toml:"tile_size"`
	ZonesPath    string  `toml:"zones_path"`    // "" = embedded defaults
	VariantsPath string  `toml:"variants_path"` // "" = embedded defaults
	InitialLoot  int     `toml:"initial_loot"`
}

type PlayerConfig struct {
	MaxHP            int     `toml:"max_hp"`
	Speed            float64 `toml:"speed"` // px/s
	SprintMultiplier float64 `toml:"sprint_multiplier"`
	StaminaDrain     float64 `toml:"stamina_drain"` // per tick while sprinting
	StaminaRegen     float64 `toml:"stamina_regen"` // per tick otherwise
	PickupRadius     float64 `toml:"pickup_radius"`
	MaxAmmo          int     `toml:"max_ammo"`
	MaxWeaponLevel   int     `toml:"max_weapon_level"`
}

type ZombieConfig struct {
	ChaseRange       float64 `toml:"chase_range"`
	LoseRange        float64 `toml:"lose_range"`
	AttackRange      float64 `toml:"attack_range"`
	DecisionInterval int     `toml:"decision_interval"` // full AI every K ticks
	AttackCooldown   int     `toml:"attack_cooldown"`   // ticks after a swing
}

type PopulationConfig struct {
	InitialTarget   int     `toml:"initial_target"`
	TargetCap       int     `toml:"target_cap"`
	RampIncrement   int     `toml:"ramp_increment"`
	InitialSpawns   int     `toml:"initial_spawns"`
	BatchSize       int     `toml:"batch_size"`
	PlacementTrials int     `toml:"placement_trials"`
	MinPlayerDist   float64 `toml:"min_player_dist"`
	SpawnIntervalS  float64 `toml:"spawn_interval_seconds"`
}

type RulesConfig struct {
	ZoneIntervalS    float64 `toml:"zone_interval_seconds"`
	RampIntervalS    float64 `toml:"ramp_interval_seconds"`
	RestartDebounceS float64 `toml:"restart_debounce_seconds"`
}

type DatabaseConfig struct {
	DSN             string        `toml:"dsn"` // "" disables run history
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
}

type ScriptsConfig struct {
	Dir string `toml:"dir"` // override directory, "" = embedded only
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the compiled-in configuration, matching the parameters
// of the original game build.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "deadtide",
			Seed: 0,
		},
		Sim: SimConfig{
			TicksPerSecond: 60,
		},
		World: WorldConfig{
			Width:       600,
			Height:      420,
			TileSize:    32,
			InitialLoot: 70,
		},
		Player: PlayerConfig{
			MaxHP:            10,
			Speed:            170,
			SprintMultiplier: 1.6,
			StaminaDrain:     0.4,
			StaminaRegen:     0.15,
			PickupRadius:     28,
			MaxAmmo:          30,
			MaxWeaponLevel:   3,
		},
		Zombie: ZombieConfig{
			ChaseRange:       350,
			LoseRange:        500,
			AttackRange:      40,
			DecisionInterval: 4,
			AttackCooldown:   60,
		},
		Population: PopulationConfig{
			InitialTarget:   30,
			TargetCap:       50,
			RampIncrement:   5,
			InitialSpawns:   25,
			BatchSize:       3,
			PlacementTrials: 30,
			MinPlayerDist:   600,
			SpawnIntervalS:  1.0,
		},
		Rules: RulesConfig{
			ZoneIntervalS:    0.5,
			RampIntervalS:    60,
			RestartDebounceS: 2.0,
		},
		Database: DatabaseConfig{
			DSN:             "",
			MaxOpenConns:    4,
			MaxIdleConns:    2,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Scripts: ScriptsConfig{Dir: ""},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
