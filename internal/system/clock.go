package system

import (
	"time"

	coresys "github.com/tabletopsim/engine/internal/core/system"
	"github.com/tabletopsim/engine/internal/worldtime"
)

// ClockSystem advances world time once every other phase has run.
// Phase 5 (Clock). With realTime set it follows the wall clock instead of
// the fixed tick duration.
type ClockSystem struct {
	clock    *worldtime.Clock
	realTime bool
}

func NewClockSystem(clock *worldtime.Clock, realTime bool) *ClockSystem {
	return &ClockSystem{clock: clock, realTime: realTime}
}

func (s *ClockSystem) Phase() coresys.Phase { return coresys.PhaseClock }

func (s *ClockSystem) Update(dt time.Duration) {
	if s.realTime {
		s.clock.RealTimeTick()
		return
	}
	s.clock.Tick(dt)
}
