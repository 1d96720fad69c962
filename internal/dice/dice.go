// Package dice rolls dice and resolves checks against a difficulty class.
package dice

import (
	"fmt"
	"math/rand"
)

// Dice is a roll shape: an inclusive range, a single die, or percentile.
type Dice struct {
	lo, hi int
}

// D is a single die with the given number of sides.
func D(sides int) Dice { return Dice{lo: 1, hi: sides} }

// Range rolls uniformly in [lo, hi].
func Range(lo, hi int) Dice { return Dice{lo: lo, hi: hi} }

// Percentile is a d100.
func Percentile() Dice { return D(100) }

func (d Dice) String() string {
	if d.lo == 1 {
		return fmt.Sprintf("d%d", d.hi)
	}
	return fmt.Sprintf("%d..%d", d.lo, d.hi)
}

// Step is the degree of success of a check.
type Step int

const (
	CritFail Step = iota
	Fail
	Success
	CritSuccess
)

func (s Step) String() string {
	switch s {
	case CritFail:
		return "critical failure"
	case Fail:
		return "failure"
	case Success:
		return "success"
	case CritSuccess:
		return "critical success"
	default:
		return "unknown"
	}
}

// Succeeded reports whether the step counts as a success.
func (s Step) Succeeded() bool { return s >= Success }

// RollResult captures one check.
type RollResult struct {
	Step        Step
	Difference  int
	Result      int
	NaturalCrit bool
}

// Roller rolls dice from a seeded source. It is not safe for concurrent use.
type Roller struct {
	rng *rand.Rand
}

func NewRoller(seed int64) *Roller {
	return &Roller{rng: rand.New(rand.NewSource(seed))}
}

// Roll returns a value in the dice's range. Degenerate ranges return lo.
func (r *Roller) Roll(d Dice) int {
	if d.hi <= d.lo {
		return d.lo
	}
	return d.lo + r.rng.Intn(d.hi-d.lo+1)
}

// RollN sums count rolls of d.
func (r *Roller) RollN(count int, d Dice) int {
	total := 0
	for i := 0; i < count; i++ {
		total += r.Roll(d)
	}
	return total
}

// Check rolls d plus bonus against dc. Beating dc by 10 is a critical
// success, missing by 10 a critical failure; a natural 20 raises the result
// one step and a natural 1 lowers it one step.
func (r *Roller) Check(d Dice, bonus, dc int) RollResult {
	natural := r.Roll(d)
	return Resolve(natural, bonus, dc)
}

// Resolve grades an already rolled natural value.
func Resolve(natural, bonus, dc int) RollResult {
	result := natural + bonus
	diff := result - dc

	step := int(Fail)
	switch {
	case diff >= 10:
		step = int(CritSuccess)
	case diff >= 0:
		step = int(Success)
	case diff <= -10:
		step = int(CritFail)
	}
	switch natural {
	case 20:
		step++
	case 1:
		step--
	}
	if step > int(CritSuccess) {
		step = int(CritSuccess)
	}
	if step < int(CritFail) {
		step = int(CritFail)
	}
	return RollResult{
		Step:        Step(step),
		Difference:  diff,
		Result:      result,
		NaturalCrit: natural == 20 || natural == 1,
	}
}
