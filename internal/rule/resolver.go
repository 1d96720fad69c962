package rule

import (
	"go.uber.org/zap"

	"github.com/tabletopsim/engine/internal/core/ecs"
)

// Reactor may amend a rejected action, for example by splicing in a
// reaction, before it is validated again. It returns false when it has
// nothing to change, which ends the loop early.
type Reactor func(s *ecs.Store, a *ecs.Action, rep Report) bool

// Outcome is the final decision for one action.
type Outcome struct {
	Accepted bool
	Passes   int
	Report   Report
}

// Resolver runs the iterate-until-stable validation loop: evaluate, let the
// reactor rebuild on rejection, evaluate again. An action still rejected
// after maxPasses evaluations is discarded as a whole.
type Resolver struct {
	rules     *Set
	reactor   Reactor
	maxPasses int
	log       *zap.Logger
}

func NewResolver(rules *Set, reactor Reactor, maxPasses int, log *zap.Logger) *Resolver {
	if maxPasses < 1 {
		maxPasses = 1
	}
	return &Resolver{rules: rules, reactor: reactor, maxPasses: maxPasses, log: log}
}

func (r *Resolver) Resolve(s *ecs.Store, a *ecs.Action) Outcome {
	var rep Report
	for pass := 1; pass <= r.maxPasses; pass++ {
		rep = r.rules.Evaluate(s, a)
		if rep.Accepted() {
			return Outcome{Accepted: true, Passes: pass, Report: rep}
		}
		r.log.Debug("action rejected",
			zap.String("action", a.ID().String()),
			zap.Int("pass", pass),
			zap.Strings("reasons", rep.Reasons()),
		)
		if pass == r.maxPasses || r.reactor == nil || !r.reactor(s, a, rep) {
			return Outcome{Passes: pass, Report: rep}
		}
	}
	return Outcome{Passes: r.maxPasses, Report: rep}
}
