package scripting

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tabletopsim/engine/internal/component"
	"github.com/tabletopsim/engine/internal/core/ecs"
	"github.com/tabletopsim/engine/internal/rule"
)

const boundsRule = `
register_rule("arena_bounds", function(action)
  if not has_tag("movement") then
    return true
  end
  for _, id in ipairs(staged("position")) do
    local p = future(id, "position")
    if p.x < 0 or p.x > 30 or p.y < 0 or p.y > 30 then
      return false, "entity " .. id .. " leaves the arena"
    end
  end
  return true
end)

register_rule("no_resurrection", function(action)
  for _, id in ipairs(action.touched) do
    local now = current(id, "health")
    local next = future(id, "health")
    if now ~= nil and next ~= nil and now.current <= 0 and next.current > 0 then
      return false
    end
  end
  return true
end)
`

func newTestEngine(t *testing.T, src string) *Engine {
	e, err := NewEngineFromSource(src, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(e.Close)
	ExposeDefaults(e)
	return e
}

func TestInstallRegistersScriptRules(t *testing.T) {
	e := newTestEngine(t, boundsRule)
	set := rule.NewSet()
	require.NoError(t, e.Install(set))
	assert.Equal(t, []string{"lua:arena_bounds", "lua:no_resurrection"}, set.Names())
	assert.Equal(t, []string{"arena_bounds", "no_resurrection"}, e.RuleNames())
}

func TestScriptRuleReadsFuture(t *testing.T) {
	e := newTestEngine(t, boundsRule)
	s := ecs.NewStore()
	ecs.SetComponent(s, 0, component.Position{X: 25, Y: 10})

	r, err := e.Rule("arena_bounds")
	require.NoError(t, err)

	a := ecs.NewAction()
	ecs.Stage(a, 0, component.Position{X: 35, Y: 10})
	a.Tag(ecs.TagMovement)
	v := r(s, a)
	assert.Equal(t, rule.Reject, v.Result)
	assert.Equal(t, "entity 0 leaves the arena", v.Reason)

	ok := ecs.NewAction()
	ecs.Stage(ok, 0, component.Position{X: 30, Y: 10})
	ok.Tag(ecs.TagMovement)
	assert.Equal(t, rule.Success, r(s, ok).Result)

	// The store itself was never touched.
	p, _ := ecs.GetComponent[component.Position](s, 0)
	assert.Equal(t, component.Position{X: 25, Y: 10}, p)
}

func TestScriptRuleDefaultReason(t *testing.T) {
	e := newTestEngine(t, boundsRule)
	s := ecs.NewStore()
	ecs.SetComponent(s, 3, component.Health{Current: 0, Max: 10})

	r, err := e.Rule("no_resurrection")
	require.NoError(t, err)

	a := ecs.NewAction()
	ecs.Stage(a, 3, component.Health{Current: 4, Max: 10})
	v := r(s, a)
	assert.Equal(t, rule.Reject, v.Result)
	assert.Equal(t, "rejected", v.Reason)
}

func TestScriptErrorRejects(t *testing.T) {
	e := newTestEngine(t, `register_rule("broken", function(action) return future(1, "mana").x end)`)
	r, err := e.Rule("broken")
	require.NoError(t, err)

	v := r(ecs.NewStore(), ecs.NewAction())
	assert.Equal(t, rule.Reject, v.Result)
	assert.Equal(t, "script error", v.Reason)
}

func TestStoreAccessOutsideRuleFails(t *testing.T) {
	_, err := NewEngineFromSource(`current(1, "health")`, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestUnknownRule(t *testing.T) {
	e := newTestEngine(t, "")
	_, err := e.Rule("missing")
	assert.True(t, errors.Is(err, ErrRuleNotFound))
}

func TestAbilityExposure(t *testing.T) {
	e := newTestEngine(t, `
register_rule("strong_enough", function(action)
  local str = future(1, "strength")
  if str == nil or str.modifier < 2 then
    return false, "too weak"
  end
  return true
end)`)
	s := ecs.NewStore()
	component.SetAbility(s, 1, component.STR, component.NewAbilityScore(12))
	r, err := e.Rule("strong_enough")
	require.NoError(t, err)

	assert.Equal(t, rule.Reject, r(s, ecs.NewAction()).Result)

	a := ecs.NewAction()
	ecs.Stage(a, 1, component.Strength{AbilityScore: component.NewAbilityScore(15)})
	assert.Equal(t, rule.Success, r(s, a).Result)
}

func TestNewEngineLoadsDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "rules"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rules", "bounds.lua"), []byte(boundsRule), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rules", "README.txt"), []byte("ignored"), 0o600))

	e, err := NewEngine(dir, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer e.Close()
	assert.Len(t, e.RuleNames(), 2)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "rules", "bad.lua"), []byte("this is not lua"), 0o600))
	_, err = NewEngine(dir, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestCalcAttackDefault(t *testing.T) {
	e := newTestEngine(t, "")
	miss := e.CalcAttack(AttackContext{Natural: 3, AttackBonus: 2, TargetAC: 15, DamageRoll: 6})
	assert.False(t, miss.IsHit)

	hit := e.CalcAttack(AttackContext{Natural: 14, AttackBonus: 3, TargetAC: 15, DamageRoll: 6, DamageBonus: 2})
	assert.Equal(t, AttackResult{IsHit: true, Damage: 8}, hit)

	crit := e.CalcAttack(AttackContext{Natural: 20, AttackBonus: 3, TargetAC: 15, DamageRoll: 6, DamageBonus: 2})
	assert.Equal(t, AttackResult{IsHit: true, Critical: true, Damage: 16}, crit)
}

func TestCalcAttackScript(t *testing.T) {
	e := newTestEngine(t, `
function calc_attack(ctx)
  return { is_hit = ctx.natural > 10, damage = ctx.damage_roll * 3 }
end`)
	res := e.CalcAttack(AttackContext{Natural: 11, DamageRoll: 4})
	assert.Equal(t, AttackResult{IsHit: true, Damage: 12}, res)
}
