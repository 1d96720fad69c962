// Package rule validates pending actions against the committed store.
package rule

import (
	"fmt"

	"github.com/tabletopsim/engine/internal/core/ecs"
)

// Result is the outcome of a single rule.
type Result int

const (
	Success Result = iota
	Reject
)

func (r Result) String() string {
	if r == Reject {
		return "reject"
	}
	return "success"
}

// Verdict is what a rule returns. Reason is only meaningful on Reject.
type Verdict struct {
	Result Result
	Reason string
}

func Accept() Verdict { return Verdict{Result: Success} }

func Rejectf(format string, args ...any) Verdict {
	return Verdict{Result: Reject, Reason: fmt.Sprintf(format, args...)}
}

// Rule is a pure predicate over the live store and a pending action. Rules
// read the prospective world through ecs.GetFuture and must not mutate
// either argument.
type Rule func(s *ecs.Store, a *ecs.Action) Verdict

// Rejection records which rule refused an action and why.
type Rejection struct {
	Rule   string
	Reason string
}

func (r Rejection) String() string {
	if r.Reason == "" {
		return r.Rule
	}
	return r.Rule + ": " + r.Reason
}

// Report is the result of evaluating every rule once.
type Report struct {
	Evaluated  int
	Rejections []Rejection
}

func (r Report) Accepted() bool { return len(r.Rejections) == 0 }

// Reasons flattens the rejections for logs and events.
func (r Report) Reasons() []string {
	out := make([]string, len(r.Rejections))
	for i, rej := range r.Rejections {
		out[i] = rej.String()
	}
	return out
}
