package game

import (
	"github.com/tabletopsim/engine/internal/component"
	"github.com/tabletopsim/engine/internal/core/ecs"
	"github.com/tabletopsim/engine/internal/dice"
	"github.com/tabletopsim/engine/internal/effect"
	"github.com/tabletopsim/engine/internal/scripting"
	"github.com/tabletopsim/engine/internal/worldtime"
)

// MovePosition moves an entity by delta from its prospective position.
// Entities without a position are left alone.
func MovePosition(id ecs.EntityID, delta component.Position) Proposer {
	return func(s *ecs.Store, a *ecs.Action) {
		if p, ok := ecs.GetFuture[component.Position](id, s, a); ok {
			ecs.Stage(a, id, p.Add(delta))
		}
		a.Tag(ecs.TagMovement)
	}
}

// Path is a sequence of moves staged into one action; rules only see the
// end point.
func Path(id ecs.EntityID, steps ...component.Position) []Proposer {
	out := make([]Proposer, len(steps))
	for i, d := range steps {
		out[i] = MovePosition(id, d)
	}
	return out
}

// Attacker bundles what an attack proposer needs to roll and score hits.
type Attacker struct {
	Roller *dice.Roller
	Lua    *scripting.Engine
	Weapon dice.Dice
	// BaseAC is the armor class of targets without a Dexterity score.
	BaseAC int
}

// Attack rolls attacker against target and stages the damage. A downed
// target is also staged for removal of its effects.
func (at Attacker) Attack(attacker, target ecs.EntityID) Proposer {
	return func(s *ecs.Store, a *ecs.Action) {
		a.Tag(ecs.TagAttack)
		h, ok := ecs.GetFuture[component.Health](target, s, a)
		if !ok || h.Down() {
			return
		}

		str, _ := component.FutureAbility(s, a, attacker, component.STR)
		ac := at.BaseAC
		if dex, ok := component.FutureAbility(s, a, target, component.DEX); ok {
			ac += dex.Modifier()
		}
		res := at.Lua.CalcAttack(scripting.AttackContext{
			Natural:     at.Roller.Roll(dice.D(20)),
			AttackBonus: str.Modifier(),
			TargetAC:    ac,
			DamageRoll:  at.Roller.Roll(at.Weapon),
			DamageBonus: str.Modifier(),
		})
		if !res.IsHit {
			return
		}
		h = h.Damage(res.Damage)
		ecs.Stage(a, target, h)
		if h.Down() {
			DropEffects(target)(s, a)
		}
	}
}

// DropEffects removes an entity's effect list and restores every ability it
// holds to its base score, so nothing the effects applied outlives them.
func DropEffects(id ecs.EntityID) Proposer {
	return func(s *ecs.Store, a *ecs.Action) {
		for _, ab := range component.Abilities {
			if v, ok := component.FutureAbility(s, a, id, ab); ok && v.Effective != v.Base {
				v.Effective = v.Base
				component.StageAbility(a, id, ab, v)
			}
		}
		ecs.RemoveComponent[effect.List](a, id)
		a.Tag(ecs.TagEffect)
	}
}

// Nearest returns the closest standing entity to from within reach, or false.
// Ties go to the lower id.
func Nearest(s *ecs.Store, from ecs.EntityID, reach float32) (ecs.EntityID, bool) {
	origin, ok := ecs.GetComponent[component.Position](s, from)
	if !ok {
		return 0, false
	}
	var (
		best  ecs.EntityID
		bestD float32
		found bool
	)
	ecs.Each2(s, func(id ecs.EntityID, p component.Position, h component.Health) {
		if id == from || h.Down() {
			return
		}
		d := origin.Distance(p)
		if d > reach || (found && d >= bestD) {
			return
		}
		best, bestD, found = id, d, true
	})
	return best, found
}

// AttackNearest attacks the closest standing entity within reach, if any.
func (at Attacker) AttackNearest(attacker ecs.EntityID, reach float32) Proposer {
	return func(s *ecs.Store, a *ecs.Action) {
		if target, ok := Nearest(s, attacker, reach); ok {
			at.Attack(attacker, target)(s, a)
		}
	}
}

// GrantEffect appends an effect to an entity's list, starting at the clock's
// current world time plus the duration's own start offset.
func GrantEffect(id ecs.EntityID, e effect.Effect, d effect.Duration, clock *worldtime.Clock) Proposer {
	return func(s *ecs.Store, a *ecs.Action) {
		if !d.IsPermanent() {
			d = effect.Seconds(clock.Passed()+d.Start(), d.Length())
		}
		l, _ := ecs.GetFuture[effect.List](id, s, a)
		ecs.Stage(a, id, l.With(e, d))
		a.Tag(ecs.TagEffect)
	}
}

// Remove proposes clearing every component of id.
func Remove(id ecs.EntityID) Proposer {
	return func(_ *ecs.Store, a *ecs.Action) {
		a.RemoveEntity(id)
	}
}
