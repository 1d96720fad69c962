package effect

import (
	"time"

	"go.uber.org/zap"

	"github.com/tabletopsim/engine/internal/core/ecs"
)

// Expired describes an effect pruned from an entity's List.
type Expired struct {
	Entity ecs.EntityID
	Effect string
}

// Report summarises one Run.
type Report struct {
	Entities int
	Applied  int
	Expired  []Expired
}

// Pipeline walks every entity holding a List and applies its effects stage
// by stage. Expired effects are removed from the List before any stage runs.
type Pipeline struct {
	log *zap.Logger
}

func NewPipeline(log *zap.Logger) *Pipeline {
	return &Pipeline{log: log}
}

// Run applies one tick of effects at world time now.
func (p *Pipeline) Run(s *ecs.Store, now time.Duration) Report {
	var rep Report
	lists := ecs.Map[List](s)
	if lists == nil {
		return rep
	}

	// Prune first and write the lists back, so effects applied below see the
	// same List the store holds.
	lists.Update(func(id ecs.EntityID, l *List) bool {
		kept, expired := l.prune(now)
		if len(expired) == 0 {
			return false
		}
		for _, e := range expired {
			rep.Expired = append(rep.Expired, Expired{Entity: id, Effect: e.Effect.Name()})
			p.log.Debug("effect expired",
				zap.Uint64("entity", uint64(id)),
				zap.String("effect", e.Effect.Name()),
				zap.Duration("now", now),
			)
			// Undo what the effect left behind; effects still active re-apply below.
			if r, ok := e.Effect.(Resetter); ok {
				r.Reset(s, id)
			}
		}
		*l = kept
		return true
	})

	lists.Each(func(id ecs.EntityID, l List) {
		rep.Entities++
		active := make([]Effect, 0, len(l.Entries))
		for _, e := range l.Entries {
			if e.Duration.Started(now) {
				active = append(active, e.Effect)
			}
		}
		for _, e := range active {
			if r, ok := e.(Resetter); ok {
				r.Reset(s, id)
			}
		}
		for _, stage := range Order {
			for _, e := range active {
				if e.Ready(stage) {
					e.Update(s, id)
					rep.Applied++
				}
			}
		}
	})
	return rep
}
