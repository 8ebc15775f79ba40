package scripting

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

//go:embed scripts/*.lua
var defaultScripts embed.FS

// Engine wraps a single gopher-lua VM holding the tunable game formulas:
// attack damage, kill scoring, and the zombie variant roll. Single-
// goroutine access only (game loop). Every entry point has a Go fallback,
// so a missing or broken script degrades to baseline numbers instead of
// failing the tick.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine, loads the embedded default scripts, then
// applies overrides from scriptsDir (optional, "" to skip).
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	if err := e.loadEmbedded(); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load embedded scripts: %w", err)
	}
	if scriptsDir != "" {
		if err := e.loadDir(scriptsDir); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load script overrides: %w", err)
		}
	}
	return e, nil
}

func (e *Engine) Close() { e.vm.Close() }

func (e *Engine) loadEmbedded() error {
	entries, err := fs.ReadDir(defaultScripts, "scripts")
	if err != nil {
		return err
	}
	for _, entry := range entries {
		src, err := defaultScripts.ReadFile("scripts/" + entry.Name())
		if err != nil {
			return err
		}
		if err := e.vm.DoString(string(src)); err != nil {
			return fmt.Errorf("load %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// loadDir loads all .lua files in a directory, overriding embedded globals.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script override", zap.String("file", path))
	}
	return nil
}

// AttackContext holds pre-packed data for a player attack calculation.
type AttackContext struct {
	WeaponLevel   int
	BaseDamage    int
	Ranged        bool
	TargetVariant string
	ZoneDensity   float64
}

// CalcPlayerDamage calls the Lua calc_player_damage function.
func (e *Engine) CalcPlayerDamage(ctx AttackContext) int {
	fn := e.vm.GetGlobal("calc_player_damage")
	if fn == lua.LNil {
		e.log.Error("lua function calc_player_damage not found")
		return ctx.BaseDamage
	}
	tbl := e.vm.NewTable()
	tbl.RawSetString("weapon_level", lua.LNumber(ctx.WeaponLevel))
	tbl.RawSetString("base_damage", lua.LNumber(ctx.BaseDamage))
	tbl.RawSetString("ranged", lua.LBool(ctx.Ranged))
	tbl.RawSetString("target_variant", lua.LString(ctx.TargetVariant))
	tbl.RawSetString("zone_density", lua.LNumber(ctx.ZoneDensity))

	dmg, ok := e.callInt(fn, tbl)
	if !ok || dmg < 0 {
		return ctx.BaseDamage
	}
	return dmg
}

// ZombieAttackContext holds pre-packed data for a zombie bite calculation.
type ZombieAttackContext struct {
	Variant     string
	BaseDamage  int
	ZoneDensity float64
}

// CalcZombieDamage calls the Lua calc_zombie_damage function.
func (e *Engine) CalcZombieDamage(ctx ZombieAttackContext) int {
	fn := e.vm.GetGlobal("calc_zombie_damage")
	if fn == lua.LNil {
		e.log.Error("lua function calc_zombie_damage not found")
		return ctx.BaseDamage
	}
	tbl := e.vm.NewTable()
	tbl.RawSetString("variant", lua.LString(ctx.Variant))
	tbl.RawSetString("base_damage", lua.LNumber(ctx.BaseDamage))
	tbl.RawSetString("zone_density", lua.LNumber(ctx.ZoneDensity))

	dmg, ok := e.callInt(fn, tbl)
	if !ok || dmg < 0 {
		return ctx.BaseDamage
	}
	return dmg
}

// KillScore calls the Lua kill_score function to award points for a kill.
func (e *Engine) KillScore(variant string, baseScore int) int {
	fn := e.vm.GetGlobal("kill_score")
	if fn == lua.LNil {
		e.log.Error("lua function kill_score not found")
		return baseScore
	}
	tbl := e.vm.NewTable()
	tbl.RawSetString("variant", lua.LString(variant))
	tbl.RawSetString("base_score", lua.LNumber(baseScore))

	score, ok := e.callInt(fn, tbl)
	if !ok || score < 0 {
		return baseScore
	}
	return score
}

// RollVariant calls the Lua roll_variant function mapping a uniform roll
// in [0,1) to a variant name; "" means use the Go-side weighted table.
func (e *Engine) RollVariant(roll float64) string {
	fn := e.vm.GetGlobal("roll_variant")
	if fn == lua.LNil {
		return ""
	}
	if err := e.vm.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, lua.LNumber(roll)); err != nil {
		e.log.Error("lua roll_variant failed", zap.Error(err))
		return ""
	}
	ret := e.vm.Get(-1)
	e.vm.Pop(1)
	if s, ok := ret.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// callInt invokes fn(tbl) and coerces the single return value to int.
func (e *Engine) callInt(fn lua.LValue, tbl *lua.LTable) (int, bool) {
	if err := e.vm.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, tbl); err != nil {
		e.log.Error("lua call failed", zap.Error(err))
		return 0, false
	}
	ret := e.vm.Get(-1)
	e.vm.Pop(1)
	if n, ok := ret.(lua.LNumber); ok {
		return int(n), true
	}
	return 0, false
}
