package data

import (
	"github.com/tabletopsim/engine/internal/component"
	"github.com/tabletopsim/engine/internal/core/ecs"
	"github.com/tabletopsim/engine/internal/effect"
)

// Every ability effect restores Effective to Base before the stages run, so
// the stages rebuild the score from scratch each tick.
type abilityReset struct {
	Ability component.Ability
}

func (r abilityReset) Reset(s *ecs.Store, id ecs.EntityID) {
	v, ok := component.GetAbility(s, id, r.Ability)
	if !ok {
		return
	}
	v.Effective = v.Base
	component.SetAbility(s, id, r.Ability, v)
}

// SetAbility overrides an ability's effective score.
type SetAbility struct {
	abilityReset
	Value int
}

func NewSetAbility(a component.Ability, value int) SetAbility {
	return SetAbility{abilityReset{a}, value}
}

func (e SetAbility) Name() string { return "set_" + e.Ability.String() }

func (SetAbility) Ready(stage effect.Stage) bool { return stage == effect.BaseValues }

func (e SetAbility) Update(s *ecs.Store, id ecs.EntityID) {
	v, ok := component.GetAbility(s, id, e.Ability)
	if !ok {
		v = component.NewAbilityScore(e.Value)
	}
	v.Effective = e.Value
	component.SetAbility(s, id, e.Ability, v)
}

// AddAbility adds a flat bonus (or penalty) to an ability.
type AddAbility struct {
	abilityReset
	Delta int
}

func NewAddAbility(a component.Ability, delta int) AddAbility {
	return AddAbility{abilityReset{a}, delta}
}

func (e AddAbility) Name() string { return "add_" + e.Ability.String() }

func (AddAbility) Ready(stage effect.Stage) bool { return stage == effect.AdditiveModifiers }

func (e AddAbility) Update(s *ecs.Store, id ecs.EntityID) {
	v, ok := component.GetAbility(s, id, e.Ability)
	if !ok {
		return
	}
	v.Effective += e.Delta
	component.SetAbility(s, id, e.Ability, v)
}

// ScaleAbility multiplies an ability by Percent/100, rounding down.
type ScaleAbility struct {
	abilityReset
	Percent int
}

func NewScaleAbility(a component.Ability, percent int) ScaleAbility {
	return ScaleAbility{abilityReset{a}, percent}
}

func (e ScaleAbility) Name() string { return "scale_" + e.Ability.String() }

func (ScaleAbility) Ready(stage effect.Stage) bool {
	return stage == effect.MultiplicativeModifiers
}

func (e ScaleAbility) Update(s *ecs.Store, id ecs.EntityID) {
	v, ok := component.GetAbility(s, id, e.Ability)
	if !ok {
		return
	}
	v.Effective = v.Effective * e.Percent / 100
	component.SetAbility(s, id, e.Ability, v)
}

// FastHealing restores a fixed amount of health every tick.
type FastHealing struct {
	Amount int
}

func (FastHealing) Name() string { return "fast_healing" }

func (FastHealing) Ready(stage effect.Stage) bool { return stage == effect.Healing }

func (e FastHealing) Update(s *ecs.Store, id ecs.EntityID) {
	h, ok := ecs.GetComponent[component.Health](s, id)
	if !ok {
		return
	}
	ecs.SetComponent(s, id, h.Heal(e.Amount))
}

// Regeneration heals by the entity's Constitution modifier each tick, with a
// minimum of one point. It depends on the ability stages having resolved.
type Regeneration struct{}

func (Regeneration) Name() string { return "regeneration" }

func (Regeneration) Ready(stage effect.Stage) bool { return stage == effect.Healing }

func (Regeneration) Update(s *ecs.Store, id ecs.EntityID) {
	h, ok := ecs.GetComponent[component.Health](s, id)
	if !ok {
		return
	}
	amount := 1
	if con, ok := component.GetAbility(s, id, component.CON); ok && con.Modifier() > 1 {
		amount = con.Modifier()
	}
	ecs.SetComponent(s, id, h.Heal(amount))
}
