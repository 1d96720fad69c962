package game

import (
	"github.com/tabletopsim/engine/internal/component"
	"github.com/tabletopsim/engine/internal/core/ecs"
	"github.com/tabletopsim/engine/internal/rule"
)

// Arena is the rectangular battle map, [0, Width] x [0, Height] in feet.
type Arena struct {
	Width  float32
	Height float32
}

func (ar Arena) contains(p component.Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X <= ar.Width && p.Y <= ar.Height
}

func (ar Arena) clamp(p component.Position) component.Position {
	p.X = min(max(p.X, 0), ar.Width)
	p.Y = min(max(p.Y, 0), ar.Height)
	return p
}

// Bounds rejects movement that would leave the arena.
func (ar Arena) Bounds() rule.Rule {
	return rule.OnlyTagged(ecs.TagMovement, rule.ForEachStaged(
		func(id ecs.EntityID, _ component.Position, _ bool, next component.Position) rule.Verdict {
			if !ar.contains(next) {
				return rule.Rejectf("entity %d would leave the arena at (%.1f, %.1f)", id, next.X, next.Y)
			}
			return rule.Accept()
		}))
}

// Clamp is a reactor that pulls staged positions back onto the arena edge,
// turning an illegal move into the longest legal one.
func (ar Arena) Clamp() rule.Reactor {
	return func(_ *ecs.Store, a *ecs.Action, _ rule.Report) bool {
		staged := ecs.Map[component.Position](a.Insertions())
		if staged == nil {
			return false
		}
		fixed := make(map[ecs.EntityID]component.Position)
		staged.Each(func(id ecs.EntityID, p component.Position) {
			if !ar.contains(p) {
				fixed[id] = ar.clamp(p)
			}
		})
		for id, p := range fixed {
			ecs.Stage(a, id, p)
		}
		return len(fixed) > 0
	}
}

// HealthWithinMax rejects staging health above its maximum.
func HealthWithinMax(s *ecs.Store, a *ecs.Action) rule.Verdict {
	return rule.ForEachStaged(func(id ecs.EntityID, _ component.Health, _ bool, next component.Health) rule.Verdict {
		if next.Max > 0 && next.Current > next.Max {
			return rule.Rejectf("entity %d health %d exceeds max %d", id, next.Current, next.Max)
		}
		return rule.Accept()
	})(s, a)
}

// DownedCannotMove rejects movement of entities at or below zero health.
func DownedCannotMove(s *ecs.Store, a *ecs.Action) rule.Verdict {
	return rule.OnlyTagged(ecs.TagMovement, rule.ForEachStaged(
		func(id ecs.EntityID, _ component.Position, _ bool, _ component.Position) rule.Verdict {
			if h, ok := ecs.GetFuture[component.Health](id, s, a); ok && h.Down() {
				return rule.Rejectf("entity %d is down", id)
			}
			return rule.Accept()
		}))(s, a)
}

// DefaultRules returns the stock rule set in evaluation order.
func DefaultRules(ar Arena) *rule.Set {
	set := rule.NewSet()
	set.MustRegister("arena_bounds", ar.Bounds())
	set.MustRegister("health_within_max", HealthWithinMax)
	set.MustRegister("downed_cannot_move", DownedCannotMove)
	return set
}
