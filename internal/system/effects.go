package system

import (
	"time"

	"github.com/tabletopsim/engine/internal/core/ecs"
	"github.com/tabletopsim/engine/internal/core/event"
	coresys "github.com/tabletopsim/engine/internal/core/system"
	"github.com/tabletopsim/engine/internal/effect"
	"github.com/tabletopsim/engine/internal/worldtime"
)

// EffectSystem runs the effect pipeline over committed state every tick and
// announces pruned effects. Phase 2 (Effects).
type EffectSystem struct {
	world    *ecs.World
	pipeline *effect.Pipeline
	clock    *worldtime.Clock
	bus      *event.Bus

	last effect.Report
}

func NewEffectSystem(w *ecs.World, p *effect.Pipeline, clock *worldtime.Clock, bus *event.Bus) *EffectSystem {
	return &EffectSystem{world: w, pipeline: p, clock: clock, bus: bus}
}

func (s *EffectSystem) Phase() coresys.Phase { return coresys.PhaseEffects }

func (s *EffectSystem) Update(_ time.Duration) {
	s.last = s.pipeline.Run(s.world.Store(), s.clock.Passed())
	for _, ex := range s.last.Expired {
		event.Emit(s.bus, event.EffectExpired{EntityID: ex.Entity, Effect: ex.Effect})
	}
}

// LastReport returns the report of the most recent run.
func (s *EffectSystem) LastReport() effect.Report { return s.last }
