package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/tabletopsim/engine/internal/core/ecs"
	coresys "github.com/tabletopsim/engine/internal/core/system"
)

// CleanupSystem flushes the deferred entity clear queue at tick end.
// Phase 4 (Cleanup).
type CleanupSystem struct {
	world *ecs.World
	log   *zap.Logger
}

func NewCleanupSystem(world *ecs.World, log *zap.Logger) *CleanupSystem {
	return &CleanupSystem{world: world, log: log}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	if n := s.world.FlushClearQueue(); n > 0 {
		s.log.Debug("entities cleared", zap.Int("count", n))
	}
}
