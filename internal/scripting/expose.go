package scripting

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/tabletopsim/engine/internal/component"
	"github.com/tabletopsim/engine/internal/core/ecs"
)

// componentReader resolves one component type, by name, for scripts.
type componentReader struct {
	current func(L *lua.LState, s *ecs.Store, id ecs.EntityID) lua.LValue
	future  func(L *lua.LState, s *ecs.Store, a *ecs.Action, id ecs.EntityID) lua.LValue
	staged  func(a *ecs.Action) []ecs.EntityID
}

// Expose makes component T readable from scripts under name. encode turns a
// value into a Lua value; absent components read as nil.
func Expose[T any](e *Engine, name string, encode func(L *lua.LState, v T) lua.LValue) {
	e.readers[name] = componentReader{
		current: func(L *lua.LState, s *ecs.Store, id ecs.EntityID) lua.LValue {
			v, ok := ecs.GetComponent[T](s, id)
			if !ok {
				return lua.LNil
			}
			return encode(L, v)
		},
		future: func(L *lua.LState, s *ecs.Store, a *ecs.Action, id ecs.EntityID) lua.LValue {
			v, ok := ecs.GetFuture[T](id, s, a)
			if !ok {
				return lua.LNil
			}
			return encode(L, v)
		},
		staged: func(a *ecs.Action) []ecs.EntityID {
			c := ecs.Map[T](a.Insertions())
			if c == nil {
				return nil
			}
			var ids []ecs.EntityID
			c.Each(func(id ecs.EntityID, _ T) { ids = append(ids, id) })
			return ids
		},
	}
}

// ExposeDefaults registers the stock components: position, health, name and
// the six abilities (as effective score + modifier).
func ExposeDefaults(e *Engine) {
	Expose(e, "position", func(L *lua.LState, p component.Position) lua.LValue {
		t := L.NewTable()
		t.RawSetString("x", lua.LNumber(p.X))
		t.RawSetString("y", lua.LNumber(p.Y))
		return t
	})
	Expose(e, "health", func(L *lua.LState, h component.Health) lua.LValue {
		t := L.NewTable()
		t.RawSetString("current", lua.LNumber(h.Current))
		t.RawSetString("max", lua.LNumber(h.Max))
		t.RawSetString("temporary", lua.LNumber(h.Temporary))
		return t
	})
	Expose(e, "name", func(_ *lua.LState, n component.Name) lua.LValue {
		return lua.LString(n)
	})
	exposeAbility[component.Strength](e, component.STR, func(v component.Strength) component.AbilityScore { return v.AbilityScore })
	exposeAbility[component.Dexterity](e, component.DEX, func(v component.Dexterity) component.AbilityScore { return v.AbilityScore })
	exposeAbility[component.Constitution](e, component.CON, func(v component.Constitution) component.AbilityScore { return v.AbilityScore })
	exposeAbility[component.Intelligence](e, component.INT, func(v component.Intelligence) component.AbilityScore { return v.AbilityScore })
	exposeAbility[component.Wisdom](e, component.WIS, func(v component.Wisdom) component.AbilityScore { return v.AbilityScore })
	exposeAbility[component.Charisma](e, component.CHA, func(v component.Charisma) component.AbilityScore { return v.AbilityScore })
}

func exposeAbility[T any](e *Engine, a component.Ability, score func(T) component.AbilityScore) {
	Expose(e, a.String(), func(L *lua.LState, v T) lua.LValue {
		s := score(v)
		t := L.NewTable()
		t.RawSetString("base", lua.LNumber(s.Base))
		t.RawSetString("score", lua.LNumber(s.Effective))
		t.RawSetString("modifier", lua.LNumber(s.Modifier()))
		return t
	})
}
