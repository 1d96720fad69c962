package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/tabletopsim/engine/internal/dice"
)

// AttackContext holds pre-rolled data for one attack.
type AttackContext struct {
	Natural     int // natural d20
	AttackBonus int
	TargetAC    int
	DamageRoll  int // weapon dice already rolled
	DamageBonus int
}

// AttackResult is returned by the calc_attack hook.
type AttackResult struct {
	IsHit    bool
	Critical bool
	Damage   int
}

// CalcAttack calls the Lua calc_attack function, falling back to the stock
// check when no script defines it or the script fails.
func (e *Engine) CalcAttack(ctx AttackContext) AttackResult {
	fn := e.vm.GetGlobal("calc_attack")
	if fn == lua.LNil {
		return defaultAttack(ctx)
	}

	t := e.vm.NewTable()
	t.RawSetString("natural", lua.LNumber(ctx.Natural))
	t.RawSetString("attack_bonus", lua.LNumber(ctx.AttackBonus))
	t.RawSetString("target_ac", lua.LNumber(ctx.TargetAC))
	t.RawSetString("damage_roll", lua.LNumber(ctx.DamageRoll))
	t.RawSetString("damage_bonus", lua.LNumber(ctx.DamageBonus))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua calc_attack error", zap.Error(err))
		return defaultAttack(ctx)
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua calc_attack returned non-table")
		return defaultAttack(ctx)
	}
	return AttackResult{
		IsHit:    lBool(rt, "is_hit"),
		Critical: lBool(rt, "critical"),
		Damage:   lInt(rt, "damage"),
	}
}

func defaultAttack(ctx AttackContext) AttackResult {
	check := dice.Resolve(ctx.Natural, ctx.AttackBonus, ctx.TargetAC)
	if !check.Step.Succeeded() {
		return AttackResult{}
	}
	dmg := ctx.DamageRoll + ctx.DamageBonus
	crit := check.Step == dice.CritSuccess
	if crit {
		dmg *= 2
	}
	if dmg < 1 {
		dmg = 1
	}
	return AttackResult{IsHit: true, Critical: crit, Damage: dmg}
}
