package system

import (
	"fmt"
	"strconv"

	coresys "github.com/deadtide/server/internal/core/system"
	"github.com/deadtide/server/internal/world"
)

// HUD publishes the per-tick readouts. It only emits values that changed
// since the previous tick, so the effect sink sees a diff stream rather
// than a full redraw every tick.
type HUD struct {
	world *world.State

	lastHP      int
	lastStamina int
	lastKills   int
	lastScore   int
	lastSeconds int64
}

func NewHUD(ws *world.State) *HUD {
	return &HUD{world: ws, lastHP: -1, lastStamina: -1, lastKills: -1, lastScore: -1, lastSeconds: -1}
}

func (h *HUD) Phase() coresys.Phase { return coresys.PhaseOutput }

func (h *HUD) Update(tick int64) {
	snap, ok := h.world.Player()
	if !ok {
		return
	}
	vars := h.world.Vars
	fx := h.world.Effects()

	if snap.HP != h.lastHP {
		h.lastHP = snap.HP
		fx.UIBar("health_bar", float64(snap.HP), float64(snap.MaxHP))
		fx.UIText("health_text", strconv.Itoa(snap.HP)+"/"+strconv.Itoa(snap.MaxHP))
	}
	if st := int(world.KeyStamina.Get(vars)); st != h.lastStamina {
		h.lastStamina = st
		fx.UIBar("stamina_bar", float64(st), 100)
	}
	if kills := world.KeyKills.Get(vars); kills != h.lastKills {
		h.lastKills = kills
		fx.UIText("kills_label", formatCount(kills))
	}
	if score := world.KeyScore.Get(vars); score != h.lastScore {
		h.lastScore = score
		fx.UIText("score_label", formatCount(score))
	}
	if secs := world.KeySurvivalTicks.Get(vars) / int64(h.world.TPS); secs != h.lastSeconds {
		h.lastSeconds = secs
		fx.UIText("time_label", formatSeconds(secs))
	}
}

func formatCount(n int) string { return strconv.Itoa(n) }

// formatTicks renders a tick count as mm:ss at the given rate.
func formatTicks(ticks int64, tps int) string {
	return formatSeconds(ticks / int64(tps))
}

func formatSeconds(secs int64) string {
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
