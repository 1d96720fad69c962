// Package effect runs timed effects over committed entity data in a fixed
// sequence of stages each tick.
package effect

// Stage is one ordered phase of effect application within a tick.
type Stage int

const (
	// BaseValues effects overwrite values outright.
	BaseValues Stage = iota
	// AdditiveModifiers accumulate on top of base values.
	AdditiveModifiers
	// MultiplicativeModifiers scale the accumulated value.
	MultiplicativeModifiers
	// Healing runs last so recovery sees fully resolved stats.
	Healing
)

// Order is the fixed stage sequence walked every tick.
var Order = [...]Stage{
	BaseValues,
	AdditiveModifiers,
	MultiplicativeModifiers,
	Healing,
}

func (s Stage) String() string {
	switch s {
	case BaseValues:
		return "base_values"
	case AdditiveModifiers:
		return "additive_modifiers"
	case MultiplicativeModifiers:
		return "multiplicative_modifiers"
	case Healing:
		return "healing"
	default:
		return "unknown"
	}
}

// ParseStage maps the names used in content files back to a Stage.
func ParseStage(name string) (Stage, bool) {
	for _, s := range Order {
		if s.String() == name {
			return s, true
		}
	}
	return 0, false
}
