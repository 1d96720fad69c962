package effect

import (
	"time"

	"github.com/tabletopsim/engine/internal/core/ecs"
)

// Effect is a timed modifier applied to one entity's components.
// Update must not modify the entity's List.
type Effect interface {
	Name() string
	Ready(stage Stage) bool
	Update(s *ecs.Store, id ecs.EntityID)
}

// Resetter is implemented by effects that must restore state once per tick
// before any stage runs.
type Resetter interface {
	Reset(s *ecs.Store, id ecs.EntityID)
}

// Entry pairs an effect with the window it is active in.
type Entry struct {
	Effect   Effect
	Duration Duration
}

// List is the component holding an entity's effects, in application order.
type List struct {
	Entries []Entry
}

func NewList() List {
	return List{}
}

// With returns a copy of l with the effect appended.
func (l List) With(e Effect, d Duration) List {
	out := make([]Entry, len(l.Entries), len(l.Entries)+1)
	copy(out, l.Entries)
	return List{Entries: append(out, Entry{Effect: e, Duration: d})}
}

func (l List) Len() int { return len(l.Entries) }

// prune splits l into entries still alive at now and the expired ones.
func (l List) prune(now time.Duration) (List, []Entry) {
	var expired []Entry
	kept := make([]Entry, 0, len(l.Entries))
	for _, e := range l.Entries {
		if e.Duration.Expired(now) {
			expired = append(expired, e)
			continue
		}
		kept = append(kept, e)
	}
	return List{Entries: kept}, expired
}
