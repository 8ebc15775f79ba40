package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultParameters(t *testing.T) {
	cfg := Default()

	if cfg.Sim.TicksPerSecond != 60 {
		t.Errorf("tps = %d, expected 60", cfg.Sim.TicksPerSecond)
	}
	if got := cfg.Sim.TickRate(); got != time.Second/60 {
		t.Errorf("tick rate = %v, expected %v", got, time.Second/60)
	}
	if cfg.Player.MaxHP != 10 || cfg.Player.Speed != 170 {
		t.Errorf("player defaults = %d HP, %v speed", cfg.Player.MaxHP, cfg.Player.Speed)
	}
	if cfg.Zombie.ChaseRange != 350 || cfg.Zombie.LoseRange != 500 {
		t.Errorf("hysteresis defaults = %v/%v", cfg.Zombie.ChaseRange, cfg.Zombie.LoseRange)
	}
	if cfg.Population.InitialTarget != 30 || cfg.Population.TargetCap != 50 {
		t.Errorf("population defaults = %d/%d", cfg.Population.InitialTarget, cfg.Population.TargetCap)
	}
	if cfg.Database.DSN != "" {
		t.Error("database enabled by default")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[sim]
ticks_per_second = 30

[zombie]
chase_range = 400.0
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Sim.TicksPerSecond != 30 {
		t.Errorf("tps = %d, expected the override 30", cfg.Sim.TicksPerSecond)
	}
	if cfg.Zombie.ChaseRange != 400 {
		t.Errorf("chase range = %v, expected 400", cfg.Zombie.ChaseRange)
	}
	// Untouched sections keep their defaults.
	if cfg.Zombie.LoseRange != 500 {
		t.Errorf("lose range = %v, expected the default 500", cfg.Zombie.LoseRange)
	}
	if cfg.Player.MaxHP != 10 {
		t.Errorf("player hp = %d, expected the default 10", cfg.Player.MaxHP)
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	if _, err := Load("/nonexistent/config.toml"); err == nil {
		t.Error("expected an error for a missing file")
	}
}
