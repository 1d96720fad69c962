// Package game runs decision cycles: stage proposals into an action,
// validate it, then commit or discard it.
package game

import (
	"time"

	"go.uber.org/zap"

	"github.com/tabletopsim/engine/internal/component"
	"github.com/tabletopsim/engine/internal/core/ecs"
	"github.com/tabletopsim/engine/internal/core/event"
	coresys "github.com/tabletopsim/engine/internal/core/system"
	"github.com/tabletopsim/engine/internal/rule"
)

// Proposer stages mutations into an action. It reads the prospective state
// through ecs.GetFuture so several proposers chain within one action.
type Proposer func(s *ecs.Store, a *ecs.Action)

// Proposal is a named batch of proposers staged into a single action.
type Proposal struct {
	Name  string
	Steps []Proposer
}

// CycleResult reports what one decision cycle did.
type CycleResult struct {
	ActionID  string
	Committed bool
	Outcome   rule.Outcome
}

// Game owns the live world and orchestrates decision cycles. It is the
// PhaseDecide system of the runner.
type Game struct {
	world    *ecs.World
	resolver *rule.Resolver
	bus      *event.Bus
	log      *zap.Logger

	queue []Proposal
}

func New(world *ecs.World, resolver *rule.Resolver, bus *event.Bus, log *zap.Logger) *Game {
	return &Game{
		world:    world,
		resolver: resolver,
		bus:      bus,
		log:      log,
		queue:    make([]Proposal, 0, 8),
	}
}

func (g *Game) World() *ecs.World { return g.world }

// Propose queues a proposal for the next decide phase.
func (g *Game) Propose(name string, steps ...Proposer) {
	g.queue = append(g.queue, Proposal{Name: name, Steps: steps})
}

// Pending returns the number of queued proposals.
func (g *Game) Pending() int { return len(g.queue) }

func (g *Game) Phase() coresys.Phase { return coresys.PhaseDecide }

// Update runs one decision cycle per queued proposal, in queue order. Each
// cycle sees the commits of the ones before it.
func (g *Game) Update(_ time.Duration) {
	queued := g.queue
	g.queue = make([]Proposal, 0, cap(queued))
	for _, p := range queued {
		g.Cycle(p)
	}
}

// Cycle stages p into a fresh action, resolves it against the rules and
// commits it only if accepted. A discarded action never reaches the store.
func (g *Game) Cycle(p Proposal) CycleResult {
	s := g.world.Store()
	a := ecs.NewAction()
	for _, step := range p.Steps {
		step(s, a)
	}

	res := CycleResult{ActionID: a.ID().String()}
	if a.Empty() {
		g.log.Debug("empty action skipped", zap.String("proposal", p.Name), zap.String("action", res.ActionID))
		res.Outcome = rule.Outcome{Accepted: true}
		return res
	}

	out := g.resolver.Resolve(s, a)
	res.Outcome = out
	if !out.Accepted {
		g.log.Info("action discarded",
			zap.String("proposal", p.Name),
			zap.String("action", res.ActionID),
			zap.Int("passes", out.Passes),
			zap.Strings("reasons", out.Report.Reasons()),
		)
		event.Emit(g.bus, event.ActionDiscarded{
			ActionID: a.ID(),
			Tags:     a.Tags(),
			Reasons:  out.Report.Reasons(),
			Passes:   out.Passes,
		})
		return res
	}

	touched := a.Touched()
	s.Commit(a)
	res.Committed = true
	g.log.Debug("action committed",
		zap.String("proposal", p.Name),
		zap.String("action", res.ActionID),
		zap.Int("passes", out.Passes),
		zap.Int("entities", len(touched)),
	)
	event.Emit(g.bus, event.ActionCommitted{
		ActionID: a.ID(),
		Tags:     a.Tags(),
		Entities: touched,
		Passes:   out.Passes,
	})
	return res
}

// ClearSlain returns a bus handler that queues entities whose health fell to
// minus their maximum or below for clearing at the end of the tick.
func ClearSlain(w *ecs.World, log *zap.Logger) func(event.ActionCommitted) {
	return func(e event.ActionCommitted) {
		for _, id := range e.Entities {
			h, ok := ecs.GetComponent[component.Health](w.Store(), id)
			if !ok || h.Current > -h.Max {
				continue
			}
			log.Info("entity slain", zap.Uint64("entity", uint64(id)))
			w.MarkForClear(id)
		}
	}
}
