package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/tabletopsim/engine/internal/core/system"
	"github.com/tabletopsim/engine/internal/game"
)

// InputSystem drains proposals submitted from outside the game loop and
// queues them on the game for this tick's decide phase. Phase 0 (Input).
type InputSystem struct {
	in         <-chan game.Proposal
	game       *game.Game
	maxPerTick int
	log        *zap.Logger
}

func NewInputSystem(in <-chan game.Proposal, g *game.Game, maxPerTick int, log *zap.Logger) *InputSystem {
	return &InputSystem{in: in, game: g, maxPerTick: maxPerTick, log: log}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(_ time.Duration) {
	n := 0
	for s.maxPerTick <= 0 || n < s.maxPerTick {
		select {
		case p, ok := <-s.in:
			if !ok {
				return
			}
			s.game.Propose(p.Name, p.Steps...)
			n++
		default:
			return
		}
	}
	s.log.Debug("input backlog deferred to next tick", zap.Int("accepted", n))
}
