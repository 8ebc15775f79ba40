package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deadtide/server/internal/config"
	"github.com/deadtide/server/internal/core/event"
	coresys "github.com/deadtide/server/internal/core/system"
	"github.com/deadtide/server/internal/data"
	"github.com/deadtide/server/internal/persist"
	"github.com/deadtide/server/internal/scripting"
	"github.com/deadtide/server/internal/system"
	"github.com/deadtide/server/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := "config.toml"
	if p := os.Getenv("DEADTIDE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	seed := cfg.Server.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Info("booting",
		zap.String("server", cfg.Server.Name),
		zap.Int("tps", cfg.Sim.TicksPerSecond),
		zap.Int64("seed", seed))

	// Data tables: embedded defaults unless the config points elsewhere.
	zones, err := loadZones(cfg.World.ZonesPath)
	if err != nil {
		return err
	}
	variants, err := loadVariants(cfg.World.VariantsPath)
	if err != nil {
		return err
	}
	log.Info("data tables loaded", zap.Int("zones", zones.Count()))

	lua, err := scripting.NewEngine(cfg.Scripts.Dir, log.Named("lua"))
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer lua.Close()

	// Run history is optional: no DSN, no database.
	var runRepo *persist.RunRepo
	if cfg.Database.DSN != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		db, err := persist.NewDB(ctx, cfg.Database, log.Named("db"))
		if err != nil {
			cancel()
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		if err := persist.RunMigrations(ctx, db.Pool); err != nil {
			cancel()
			return fmt.Errorf("migrations: %w", err)
		}
		runRepo = persist.NewRunRepo(db)
		if best, err := runRepo.TopScores(ctx, cfg.Server.Name, 5); err != nil {
			log.Warn("run history unavailable", zap.Error(err))
		} else {
			for i, row := range best {
				log.Info("best run",
					zap.Int("rank", i+1),
					zap.Int("score", row.Score),
					zap.Int("kills", row.Kills),
					zap.Time("ended_at", row.EndedAt))
			}
		}
		cancel()
	}

	terrain := world.GenerateTerrain(cfg.World.Width, cfg.World.Height, cfg.World.TileSize, seed)
	ws := world.NewState(cfg.Sim.TicksPerSecond, terrain, &logEffects{log: log.Named("fx")}, seed)
	bus := event.NewBus()

	if err := buildWorld(ws, cfg); err != nil {
		return err
	}

	// Behavior systems, phase-ordered by the runner.
	ai := system.NewZombieAI(ws, bus, lua, zones, cfg.Zombie, log.Named("zombie"))
	spawner := system.NewZombieSpawner(ws, bus, ai, lua, variants, cfg.Population, log.Named("spawn"))
	player := system.NewPlayerController(ws, bus, lua, zones, cfg.Player, log.Named("player"))
	rules := system.NewRules(ws, zones, cfg.Rules, cfg.Population, log.Named("rules"))
	restart := system.NewRestart(ws, bus, cfg.Rules, cfg.Population, log.Named("restart"))
	summary := system.NewSummary(bus, runRepo, cfg.Server.Name, log.Named("summary"))

	runner := coresys.NewRunner()
	runner.Register(system.NewBusSystem(bus))
	runner.Register(player)
	runner.Register(ai)
	runner.Register(spawner)
	runner.Register(rules)
	runner.Register(restart)
	runner.Register(system.NewCommitSystem(ws))
	runner.Register(system.NewHUD(ws))
	runner.Register(summary)
	runner.Register(system.NewCleanupSystem(ws, ai))

	spawner.SpawnInitial(cfg.Population.InitialSpawns)
	log.Info("world ready",
		zap.Int("entities", ws.EntityCount()),
		zap.Int("zombies", ws.CountTag("zombie")))

	// Fixed-rate tick loop until a shutdown signal.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Sim.TickRate())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			runner.Tick()
		case sig := <-stop:
			log.Info("shutting down",
				zap.String("signal", sig.String()),
				zap.Int64("tick", runner.CurrentTick()))
			return nil
		}
	}
}

// buildWorld places the player at the terrain center and scatters the
// initial loot crates.
func buildWorld(ws *world.State, cfg *config.Config) error {
	cx, cy := ws.Terrain().Center()
	_, ok := ws.Spawn(world.SpawnRequest{
		X:         cx,
		Y:         cy,
		Tags:      []string{"player"},
		HP:        cfg.Player.MaxHP,
		Speed:     cfg.Player.Speed,
		ColliderW: 30,
		ColliderH: 44,
		Anim:      "idle",
		Facing:    5,
		IsPlayer:  true,
	})
	if !ok {
		return fmt.Errorf("player spawn blocked at %.0f,%.0f", cx, cy)
	}
	world.KeySpawnX.Set(ws.Vars, cx)
	world.KeySpawnY.Set(ws.Vars, cy)
	world.KeyPlayerX.Set(ws.Vars, cx)
	world.KeyPlayerY.Set(ws.Vars, cy)
	world.KeyMaxZombies.Set(ws.Vars, cfg.Population.InitialTarget)

	scatterLoot(ws, cfg.World.InitialLoot)
	return nil
}

// scatterLoot drops pickup crates on random open cells: roughly half
// health, a third ammo, the rest weapon upgrades.
func scatterLoot(ws *world.State, count int) {
	terrain := ws.Terrain()
	rng := ws.Rand()
	kinds := []string{"health_pickup", "health_pickup", "health_pickup",
		"ammo_pickup", "ammo_pickup", "weapon_pickup"}

	for i := 0; i < count; i++ {
		for trial := 0; trial < 10; trial++ {
			cx := rng.Intn(terrain.W)
			cy := rng.Intn(terrain.H)
			if terrain.SolidCell(cx, cy) {
				continue
			}
			x, y := terrain.CellToWorld(cx, cy)
			ws.Spawn(world.SpawnRequest{
				X:    x,
				Y:    y,
				Tags: []string{"pickup", kinds[rng.Intn(len(kinds))]},
				HP:   1,
				Anim: "idle",
			})
			break
		}
	}
}

func loadZones(path string) (*data.ZoneTable, error) {
	if path == "" {
		return data.DefaultZoneTable(), nil
	}
	return data.LoadZoneTable(path)
}

func loadVariants(path string) (*data.VariantTable, error) {
	if path == "" {
		return data.DefaultVariantTable(), nil
	}
	return data.LoadVariantTable(path)
}

// logEffects is the headless effect sink: presentation triggers become
// debug log lines instead of driving a renderer.
type logEffects struct {
	log *zap.Logger
}

func (e *logEffects) Particles(preset string, x, y float64) {
	e.log.Debug("particles", zap.String("preset", preset), zap.Float64("x", x), zap.Float64("y", y))
}

func (e *logEffects) CameraShake(intensity, duration float64) {
	e.log.Debug("camera_shake", zap.Float64("intensity", intensity), zap.Float64("duration", duration))
}

func (e *logEffects) UIText(elementID, text string) {
	e.log.Debug("ui_text", zap.String("element", elementID), zap.String("text", text))
}

func (e *logEffects) UIBar(elementID string, value, max float64) {
	e.log.Debug("ui_bar", zap.String("element", elementID), zap.Float64("value", value), zap.Float64("max", max))
}

func (e *logEffects) ShowScreen(name string) { e.log.Debug("show_screen", zap.String("name", name)) }
func (e *logEffects) HideScreen(name string) { e.log.Debug("hide_screen", zap.String("name", name)) }
func (e *logEffects) Audio(cue string)       { e.log.Debug("audio", zap.String("cue", cue)) }

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
