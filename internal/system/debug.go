package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/tabletopsim/engine/internal/core/ecs"
	coresys "github.com/tabletopsim/engine/internal/core/system"
	"github.com/tabletopsim/engine/internal/debug"
)

// DebugSystem prints the actor table every `every` ticks. Phase 3 (Output).
// It never writes to the store.
type DebugSystem struct {
	world   *ecs.World
	printer *debug.Printer
	log     *zap.Logger
	every   uint64
	ticks   uint64
}

func NewDebugSystem(world *ecs.World, printer *debug.Printer, every int, log *zap.Logger) *DebugSystem {
	if every < 1 {
		every = 1
	}
	return &DebugSystem{world: world, printer: printer, log: log, every: uint64(every)}
}

func (s *DebugSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *DebugSystem) Update(_ time.Duration) {
	tick := s.ticks
	s.ticks++
	if tick%s.every != 0 {
		return
	}
	if err := s.printer.Actors(s.world.Store(), tick); err != nil {
		s.log.Warn("debug print failed", zap.Error(err))
	}
}
