package main

import (
	"time"

	"go.uber.org/zap"

	"github.com/tabletopsim/engine/internal/component"
	"github.com/tabletopsim/engine/internal/core/ecs"
	"github.com/tabletopsim/engine/internal/data"
	"github.com/tabletopsim/engine/internal/effect"
	"github.com/tabletopsim/engine/internal/game"
	"github.com/tabletopsim/engine/internal/worldtime"
)

type scheduled struct {
	tick     uint64
	proposal game.Proposal
}

// script is a fixed list of proposals submitted on given ticks.
type script []scheduled

// feed submits every proposal due at tick without blocking the loop.
func (s script) feed(tick uint64, in chan<- game.Proposal, log *zap.Logger) {
	for _, sc := range s {
		if sc.tick != tick {
			continue
		}
		select {
		case in <- sc.proposal:
		default:
			log.Warn("input queue full, proposal dropped", zap.String("proposal", sc.proposal.Name))
		}
	}
}

// demoScript walks the first actor twice in one action, buffs it, tries a
// move that leaves the arena and then attacks whoever is nearest.
func demoScript(r *data.Roster, at game.Attacker, clock *worldtime.Clock) script {
	actors := r.All()
	if len(actors) == 0 {
		return nil
	}
	hero := ecs.EntityID(actors[0].ID)
	out := script{
		{0, game.Proposal{Name: "walk", Steps: game.Path(hero,
			component.Position{X: 5}, component.Position{X: 5})}},
		{1, game.Proposal{Name: "bless", Steps: []game.Proposer{
			game.GrantEffect(hero, data.NewAddAbility(component.STR, 2), effect.Seconds(0, 3*time.Second), clock),
		}}},
		{2, game.Proposal{Name: "dash", Steps: []game.Proposer{
			game.MovePosition(hero, component.Position{X: 1000}),
		}}},
	}
	for tick := uint64(3); tick < 8; tick++ {
		out = append(out, scheduled{tick, game.Proposal{
			Name:  "attack",
			Steps: []game.Proposer{at.AttackNearest(hero, 30)},
		}})
	}
	return out
}
