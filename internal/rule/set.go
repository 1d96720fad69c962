package rule

import (
	"fmt"

	"github.com/tabletopsim/engine/internal/core/ecs"
)

type namedRule struct {
	name string
	fn   Rule
}

// Set is an ordered list of named rules.
type Set struct {
	rules []namedRule
	index map[string]int
}

func NewSet() *Set {
	return &Set{index: make(map[string]int)}
}

// Register appends a rule. Registering a name twice replaces the earlier
// rule in place, keeping its position.
func (s *Set) Register(name string, fn Rule) error {
	if fn == nil {
		return fmt.Errorf("register rule %q: nil rule", name)
	}
	if i, ok := s.index[name]; ok {
		s.rules[i].fn = fn
		return nil
	}
	s.index[name] = len(s.rules)
	s.rules = append(s.rules, namedRule{name: name, fn: fn})
	return nil
}

// MustRegister is Register for rules built into the binary; it panics on a
// nil rule.
func (s *Set) MustRegister(name string, fn Rule) {
	if err := s.Register(name, fn); err != nil {
		panic(err)
	}
}

func (s *Set) Len() int { return len(s.rules) }

// Names returns rule names in evaluation order.
func (s *Set) Names() []string {
	out := make([]string, len(s.rules))
	for i, r := range s.rules {
		out[i] = r.name
	}
	return out
}

// Evaluate runs every rule in order against the same action. It does not
// stop at the first rejection so the report names every objection.
func (s *Set) Evaluate(store *ecs.Store, a *ecs.Action) Report {
	rep := Report{Evaluated: len(s.rules)}
	for _, r := range s.rules {
		v := r.fn(store, a)
		if v.Result == Reject {
			rep.Rejections = append(rep.Rejections, Rejection{Rule: r.name, Reason: v.Reason})
		}
	}
	return rep
}
