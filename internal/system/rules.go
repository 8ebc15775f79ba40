package system

import (
	"strconv"

	"github.com/deadtide/server/internal/config"
	coresys "github.com/deadtide/server/internal/core/system"
	"github.com/deadtide/server/internal/data"
	"github.com/deadtide/server/internal/world"
	"go.uber.org/zap"
)

// threatRadius is how far out the zone readout counts nearby zombies.
const threatRadius = 500

// Rules owns the slow-cadence run bookkeeping: the survival clock, the
// zone readout under the player, and the difficulty ramp that ratchets
// the population target.
type Rules struct {
	world *world.State
	zones *data.ZoneTable
	pop   config.PopulationConfig
	log   *zap.Logger

	zoneInterval int
	rampInterval int
	nextZone     int64
	nextRamp     int64
}

func NewRules(ws *world.State, zones *data.ZoneTable, rules config.RulesConfig, pop config.PopulationConfig, log *zap.Logger) *Rules {
	r := &Rules{
		world:        ws,
		zones:        zones,
		pop:          pop,
		log:          log,
		zoneInterval: intervalTicks(rules.ZoneIntervalS, ws.TPS),
		rampInterval: intervalTicks(rules.RampIntervalS, ws.TPS),
	}
	r.nextRamp = int64(r.rampInterval)
	return r
}

func intervalTicks(seconds float64, tps int) int {
	n := int(seconds * float64(tps))
	if n < 1 {
		return 1
	}
	return n
}

func (r *Rules) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (r *Rules) Update(tick int64) {
	if world.KeyGameOver.Get(r.world.Vars) {
		return
	}
	world.KeySurvivalTicks.Set(r.world.Vars, world.KeySurvivalTicks.Get(r.world.Vars)+1)

	if tick >= r.nextZone {
		r.nextZone = tick + int64(r.zoneInterval)
		r.updateZone()
	}
	if tick >= r.nextRamp {
		r.nextRamp = tick + int64(r.rampInterval)
		r.ramp()
	}
}

// updateZone classifies the player position and refreshes the zone and
// threat readouts. Runs at zone cadence, not every tick; the zone label
// lagging by half a second is invisible at walking speed.
func (r *Rules) updateZone() {
	px := world.KeyPlayerX.Get(r.world.Vars)
	py := world.KeyPlayerY.Get(r.world.Vars)
	name := r.zones.Classify(px, py)
	if name != world.KeyZone.Get(r.world.Vars) {
		world.KeyZone.Set(r.world.Vars, name)
		r.world.Effects().UIText("zone_label", name)
	}
	threat := 0
	for _, z := range r.world.FindInRadius(px, py, threatRadius, "zombie") {
		if !z.Dead {
			threat++
		}
	}
	r.world.Effects().UIText("threat_label", strconv.Itoa(threat)+" nearby")
}

// ramp raises the population target by a fixed step up to the cap.
func (r *Rules) ramp() {
	target := world.KeyMaxZombies.Get(r.world.Vars) + r.pop.RampIncrement
	if target > r.pop.TargetCap {
		target = r.pop.TargetCap
	}
	if target != world.KeyMaxZombies.Get(r.world.Vars) {
		world.KeyMaxZombies.Set(r.world.Vars, target)
		r.log.Info("population target raised", zap.Int("max_zombies", target))
	}
}
