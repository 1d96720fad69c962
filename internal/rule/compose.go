package rule

import "github.com/tabletopsim/engine/internal/core/ecs"

// OnlyTagged applies fn to actions carrying tag and accepts everything else.
func OnlyTagged(tag ecs.ActionTag, fn Rule) Rule {
	return func(s *ecs.Store, a *ecs.Action) Verdict {
		if !a.HasTag(tag) {
			return Accept()
		}
		return fn(s, a)
	}
}

// ForEachStaged runs check against every entity that has a T staged in the
// action, passing the current and prospective values. The first rejection wins.
func ForEachStaged[T any](check func(id ecs.EntityID, cur T, hadCur bool, next T) Verdict) Rule {
	return func(s *ecs.Store, a *ecs.Action) Verdict {
		staged := ecs.Map[T](a.Insertions())
		if staged == nil {
			return Accept()
		}
		verdict := Accept()
		staged.Each(func(id ecs.EntityID, next T) {
			if verdict.Result == Reject {
				return
			}
			cur, ok := ecs.GetComponent[T](s, id)
			verdict = check(id, cur, ok, next)
		})
		return verdict
	}
}
