package component

import "github.com/tabletopsim/engine/internal/core/ecs"

// AbilityScore holds the rolled base value and the value after effects.
type AbilityScore struct {
	Base      int
	Effective int
}

func NewAbilityScore(base int) AbilityScore {
	return AbilityScore{Base: base, Effective: base}
}

// Modifier is floor((Effective-10)/2).
func (a AbilityScore) Modifier() int {
	d := a.Effective - 10
	if d < 0 {
		return (d - 1) / 2
	}
	return d / 2
}

// One component type per ability, so each registers its own container.
type (
	Strength     struct{ AbilityScore }
	Dexterity    struct{ AbilityScore }
	Constitution struct{ AbilityScore }
	Intelligence struct{ AbilityScore }
	Wisdom       struct{ AbilityScore }
	Charisma     struct{ AbilityScore }
)

// Ability names one of the six ability component types.
type Ability int

const (
	STR Ability = iota
	DEX
	CON
	INT
	WIS
	CHA
)

// Abilities lists every ability in sheet order.
var Abilities = [...]Ability{STR, DEX, CON, INT, WIS, CHA}

func (a Ability) String() string {
	switch a {
	case STR:
		return "strength"
	case DEX:
		return "dexterity"
	case CON:
		return "constitution"
	case INT:
		return "intelligence"
	case WIS:
		return "wisdom"
	case CHA:
		return "charisma"
	default:
		return "unknown"
	}
}

func ParseAbility(name string) (Ability, bool) {
	for _, a := range Abilities {
		if a.String() == name {
			return a, true
		}
	}
	return 0, false
}

// GetAbility reads the score component for a.
func GetAbility(s *ecs.Store, id ecs.EntityID, a Ability) (AbilityScore, bool) {
	switch a {
	case STR:
		v, ok := ecs.GetComponent[Strength](s, id)
		return v.AbilityScore, ok
	case DEX:
		v, ok := ecs.GetComponent[Dexterity](s, id)
		return v.AbilityScore, ok
	case CON:
		v, ok := ecs.GetComponent[Constitution](s, id)
		return v.AbilityScore, ok
	case INT:
		v, ok := ecs.GetComponent[Intelligence](s, id)
		return v.AbilityScore, ok
	case WIS:
		v, ok := ecs.GetComponent[Wisdom](s, id)
		return v.AbilityScore, ok
	case CHA:
		v, ok := ecs.GetComponent[Charisma](s, id)
		return v.AbilityScore, ok
	}
	return AbilityScore{}, false
}

// SetAbility writes the score component for a.
func SetAbility(s *ecs.Store, id ecs.EntityID, a Ability, v AbilityScore) {
	switch a {
	case STR:
		ecs.SetComponent(s, id, Strength{v})
	case DEX:
		ecs.SetComponent(s, id, Dexterity{v})
	case CON:
		ecs.SetComponent(s, id, Constitution{v})
	case INT:
		ecs.SetComponent(s, id, Intelligence{v})
	case WIS:
		ecs.SetComponent(s, id, Wisdom{v})
	case CHA:
		ecs.SetComponent(s, id, Charisma{v})
	}
}

// FutureAbility reads the score for a as it would be after a commits.
func FutureAbility(s *ecs.Store, a *ecs.Action, id ecs.EntityID, ab Ability) (AbilityScore, bool) {
	switch ab {
	case STR:
		v, ok := ecs.GetFuture[Strength](id, s, a)
		return v.AbilityScore, ok
	case DEX:
		v, ok := ecs.GetFuture[Dexterity](id, s, a)
		return v.AbilityScore, ok
	case CON:
		v, ok := ecs.GetFuture[Constitution](id, s, a)
		return v.AbilityScore, ok
	case INT:
		v, ok := ecs.GetFuture[Intelligence](id, s, a)
		return v.AbilityScore, ok
	case WIS:
		v, ok := ecs.GetFuture[Wisdom](id, s, a)
		return v.AbilityScore, ok
	case CHA:
		v, ok := ecs.GetFuture[Charisma](id, s, a)
		return v.AbilityScore, ok
	}
	return AbilityScore{}, false
}

// StageAbility stages the score for ab into a.
func StageAbility(a *ecs.Action, id ecs.EntityID, ab Ability, v AbilityScore) {
	switch ab {
	case STR:
		ecs.Stage(a, id, Strength{v})
	case DEX:
		ecs.Stage(a, id, Dexterity{v})
	case CON:
		ecs.Stage(a, id, Constitution{v})
	case INT:
		ecs.Stage(a, id, Intelligence{v})
	case WIS:
		ecs.Stage(a, id, Wisdom{v})
	case CHA:
		ecs.Stage(a, id, Charisma{v})
	}
}
