package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tabletopsim/engine/internal/component"
	"github.com/tabletopsim/engine/internal/core/ecs"
	"github.com/tabletopsim/engine/internal/core/event"
	"github.com/tabletopsim/engine/internal/data"
	"github.com/tabletopsim/engine/internal/dice"
	"github.com/tabletopsim/engine/internal/effect"
	"github.com/tabletopsim/engine/internal/rule"
	"github.com/tabletopsim/engine/internal/scripting"
	"github.com/tabletopsim/engine/internal/worldtime"
)

var arena = Arena{Width: 100, Height: 100}

type fixture struct {
	game  *Game
	world *ecs.World
	bus   *event.Bus
}

func newFixture(t *testing.T, reactor rule.Reactor) fixture {
	t.Helper()
	log := zaptest.NewLogger(t)
	w := ecs.NewWorld()
	bus := event.NewBus()
	res := rule.NewResolver(DefaultRules(arena), reactor, 3, log)
	return fixture{game: New(w, res, bus, log), world: w, bus: bus}
}

func (f fixture) spawn(p component.Position, h component.Health) ecs.EntityID {
	id := f.world.CreateEntity()
	ecs.SetComponent(f.world.Store(), id, p)
	ecs.SetComponent(f.world.Store(), id, h)
	return id
}

func (f fixture) position(id ecs.EntityID) component.Position {
	p, _ := ecs.GetComponent[component.Position](f.world.Store(), id)
	return p
}

func TestTwoMovesChainInOneAction(t *testing.T) {
	f := newFixture(t, arena.Clamp())
	id := f.spawn(component.Position{X: 10, Y: 10}, component.Health{Current: 5, Max: 5})

	res := f.game.Cycle(Proposal{Name: "walk", Steps: Path(id,
		component.Position{X: 5}, component.Position{X: 5})})
	require.True(t, res.Committed)
	assert.Equal(t, 1, res.Outcome.Passes)
	assert.NotEmpty(t, res.ActionID)
	assert.Equal(t, component.Position{X: 20, Y: 10}, f.position(id))
	assert.Equal(t, 1, f.bus.Pending())
}

func TestClampReactorRebuildsAction(t *testing.T) {
	f := newFixture(t, arena.Clamp())
	id := f.spawn(component.Position{X: 95, Y: 10}, component.Health{Current: 5, Max: 5})

	res := f.game.Cycle(Proposal{Name: "dash", Steps: []Proposer{
		MovePosition(id, component.Position{X: 10}),
	}})
	require.True(t, res.Committed)
	assert.Equal(t, 2, res.Outcome.Passes)
	assert.Equal(t, component.Position{X: 100, Y: 10}, f.position(id))
}

func TestRejectedActionIsDiscarded(t *testing.T) {
	f := newFixture(t, nil)
	id := f.spawn(component.Position{X: 95, Y: 10}, component.Health{Current: 5, Max: 5})

	var discarded []event.ActionDiscarded
	event.Subscribe(f.bus, func(e event.ActionDiscarded) { discarded = append(discarded, e) })

	res := f.game.Cycle(Proposal{Name: "dash", Steps: []Proposer{
		MovePosition(id, component.Position{X: 10}),
	}})
	assert.False(t, res.Committed)
	assert.False(t, res.Outcome.Accepted)
	assert.Equal(t, 1, res.Outcome.Passes)
	assert.Equal(t, component.Position{X: 95, Y: 10}, f.position(id))

	f.bus.SwapBuffers()
	f.bus.DispatchAll()
	require.Len(t, discarded, 1)
	assert.Equal(t, []ecs.ActionTag{ecs.TagMovement}, discarded[0].Tags)
	assert.Equal(t, []string{"arena_bounds: entity 0 would leave the arena at (105.0, 10.0)"}, discarded[0].Reasons)
}

func TestDownedCannotMove(t *testing.T) {
	f := newFixture(t, arena.Clamp())
	id := f.spawn(component.Position{X: 10, Y: 10}, component.Health{Current: 0, Max: 5})

	res := f.game.Cycle(Proposal{Name: "crawl", Steps: []Proposer{
		MovePosition(id, component.Position{Y: 1}),
	}})
	assert.False(t, res.Committed)
	// Clamp has nothing to fix, so the loop ends after the first pass.
	assert.Equal(t, 1, res.Outcome.Passes)
	assert.Equal(t, component.Position{X: 10, Y: 10}, f.position(id))
}

func TestHealthWithinMax(t *testing.T) {
	f := newFixture(t, nil)
	id := f.spawn(component.Position{}, component.Health{Current: 5, Max: 5})

	overheal := func(s *ecs.Store, a *ecs.Action) {
		h, _ := ecs.GetFuture[component.Health](id, s, a)
		h.Current += 3
		ecs.Stage(a, id, h)
	}
	res := f.game.Cycle(Proposal{Name: "overheal", Steps: []Proposer{overheal}})
	assert.False(t, res.Committed)
	h, _ := ecs.GetComponent[component.Health](f.world.Store(), id)
	assert.Equal(t, 5, h.Current)
}

func TestEmptyActionSkipped(t *testing.T) {
	f := newFixture(t, nil)
	res := f.game.Cycle(Proposal{Name: "idle"})
	assert.False(t, res.Committed)
	assert.True(t, res.Outcome.Accepted)
	assert.Zero(t, f.bus.Pending())
}

func TestUpdateDrainsQueueInOrder(t *testing.T) {
	f := newFixture(t, nil)
	id := f.spawn(component.Position{X: 90, Y: 0}, component.Health{Current: 5, Max: 5})

	f.game.Propose("first", MovePosition(id, component.Position{X: 5}))
	f.game.Propose("second", MovePosition(id, component.Position{X: 5}))
	f.game.Propose("third", MovePosition(id, component.Position{X: 5}))
	require.Equal(t, 3, f.game.Pending())

	f.game.Update(time.Second)
	assert.Zero(t, f.game.Pending())
	// The third move starts from the second's committed position and leaves the arena.
	assert.Equal(t, component.Position{X: 100, Y: 0}, f.position(id))
}

func newLua(t *testing.T, src string) *scripting.Engine {
	t.Helper()
	e, err := scripting.NewEngineFromSource(src, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(e.Close)
	scripting.ExposeDefaults(e)
	return e
}

func TestAttackDownsTarget(t *testing.T) {
	f := newFixture(t, nil)
	hero := f.spawn(component.Position{}, component.Health{Current: 10, Max: 10})
	orc := f.spawn(component.Position{X: 5}, component.Health{Current: 6, Max: 6})
	ecs.SetComponent(f.world.Store(), orc, effect.NewList().
		With(data.Regeneration{}, effect.Permanent()))

	at := Attacker{
		Roller: dice.NewRoller(7),
		Lua:    newLua(t, `function calc_attack(ctx) return {is_hit = true, damage = 9} end`),
		Weapon: dice.D(8),
		BaseAC: 10,
	}
	res := f.game.Cycle(Proposal{Name: "attack", Steps: []Proposer{at.Attack(hero, orc)}})
	require.True(t, res.Committed)

	h, _ := ecs.GetComponent[component.Health](f.world.Store(), orc)
	assert.Equal(t, -3, h.Current)
	assert.False(t, ecs.HasComponent[effect.List](f.world.Store(), orc))

	// A downed target cannot be hit again, so the follow-up stages nothing.
	again := f.game.Cycle(Proposal{Name: "attack", Steps: []Proposer{at.Attack(hero, orc)}})
	assert.False(t, again.Committed)
}

func TestAttackMiss(t *testing.T) {
	f := newFixture(t, nil)
	hero := f.spawn(component.Position{}, component.Health{Current: 10, Max: 10})
	orc := f.spawn(component.Position{X: 5}, component.Health{Current: 6, Max: 6})

	at := Attacker{
		Roller: dice.NewRoller(7),
		Lua:    newLua(t, `function calc_attack(ctx) return {is_hit = false} end`),
		Weapon: dice.D(8),
		BaseAC: 10,
	}
	res := f.game.Cycle(Proposal{Name: "attack", Steps: []Proposer{at.Attack(hero, orc)}})
	assert.False(t, res.Committed)
	h, _ := ecs.GetComponent[component.Health](f.world.Store(), orc)
	assert.Equal(t, 6, h.Current)
}

func TestLuaRuleJoinsDefaultSet(t *testing.T) {
	lua := newLua(t, `
register_rule("no_resurrection", function(action)
  for _, id in ipairs(action.touched) do
    local now = current(id, "health")
    local next = future(id, "health")
    if now ~= nil and next ~= nil and now.current <= 0 and next.current > 0 then
      return false, "the dead stay dead"
    end
  end
  return true
end)
`)
	log := zaptest.NewLogger(t)
	set := DefaultRules(arena)
	require.NoError(t, lua.Install(set))
	w := ecs.NewWorld()
	g := New(w, rule.NewResolver(set, nil, 1, log), event.NewBus(), log)

	id := w.CreateEntity()
	ecs.SetComponent(w.Store(), id, component.Health{Current: 0, Max: 8})
	revive := func(s *ecs.Store, a *ecs.Action) {
		ecs.Stage(a, id, component.Health{Current: 8, Max: 8})
	}
	res := g.Cycle(Proposal{Name: "revive", Steps: []Proposer{revive}})
	assert.False(t, res.Committed)
	assert.Equal(t, []string{"lua:no_resurrection: the dead stay dead"}, res.Outcome.Report.Reasons())
}

func TestGrantEffectUsesWorldTime(t *testing.T) {
	f := newFixture(t, nil)
	id := f.spawn(component.Position{}, component.Health{Current: 1, Max: 5})
	clock := worldtime.New()
	clock.Tick(3 * time.Second)

	res := f.game.Cycle(Proposal{Name: "bless", Steps: []Proposer{
		GrantEffect(id, data.FastHealing{Amount: 1}, effect.Seconds(time.Second, 2*time.Second), clock),
		GrantEffect(id, data.Regeneration{}, effect.Permanent(), clock),
	}})
	require.True(t, res.Committed)

	l, ok := ecs.GetComponent[effect.List](f.world.Store(), id)
	require.True(t, ok)
	require.Equal(t, 2, l.Len())
	assert.Equal(t, 4*time.Second, l.Entries[0].Duration.Start())
	assert.Equal(t, 2*time.Second, l.Entries[0].Duration.Length())
	assert.True(t, l.Entries[1].Duration.IsPermanent())
}

func TestRemoveClearsEntity(t *testing.T) {
	f := newFixture(t, nil)
	id := f.spawn(component.Position{X: 1}, component.Health{Current: 1, Max: 1})

	res := f.game.Cycle(Proposal{Name: "banish", Steps: []Proposer{Remove(id)}})
	require.True(t, res.Committed)
	assert.False(t, f.world.Alive(id))
}

func TestNearest(t *testing.T) {
	f := newFixture(t, nil)
	hero := f.spawn(component.Position{X: 0, Y: 0}, component.Health{Current: 5, Max: 5})
	far := f.spawn(component.Position{X: 9, Y: 0}, component.Health{Current: 5, Max: 5})
	f.spawn(component.Position{X: 1, Y: 0}, component.Health{Current: 0, Max: 5})
	tieLow := f.spawn(component.Position{X: 0, Y: 4}, component.Health{Current: 5, Max: 5})
	f.spawn(component.Position{X: 4, Y: 0}, component.Health{Current: 5, Max: 5})

	id, ok := Nearest(f.world.Store(), hero, 10)
	require.True(t, ok)
	assert.Equal(t, tieLow, id)

	_, ok = Nearest(f.world.Store(), hero, 3)
	assert.False(t, ok)

	id, ok = Nearest(f.world.Store(), far, 5)
	require.True(t, ok)
	assert.Equal(t, ecs.EntityID(4), id)
}

func TestClearSlain(t *testing.T) {
	f := newFixture(t, nil)
	slain := f.spawn(component.Position{}, component.Health{Current: -6, Max: 6})
	down := f.spawn(component.Position{}, component.Health{Current: -5, Max: 6})
	bare := f.world.CreateEntity()
	ecs.SetComponent(f.world.Store(), bare, component.Name("marker"))

	event.Subscribe(f.bus, ClearSlain(f.world, zaptest.NewLogger(t)))
	event.Emit(f.bus, event.ActionCommitted{Entities: []ecs.EntityID{slain, down, bare}})
	f.bus.SwapBuffers()
	f.bus.DispatchAll()

	assert.Equal(t, 1, f.world.FlushClearQueue())
	assert.False(t, f.world.Alive(slain))
	assert.True(t, f.world.Alive(down))
	assert.True(t, f.world.Alive(bare))
}

func TestAttackReadsStagedAbilities(t *testing.T) {
	f := newFixture(t, nil)
	hero := f.spawn(component.Position{}, component.Health{Current: 10, Max: 10})
	orc := f.spawn(component.Position{X: 5}, component.Health{Current: 20, Max: 20})
	component.SetAbility(f.world.Store(), hero, component.STR, component.NewAbilityScore(10))

	at := Attacker{
		Roller: dice.NewRoller(7),
		Lua:    newLua(t, `function calc_attack(ctx) return {is_hit = true, damage = ctx.damage_bonus} end`),
		Weapon: dice.D(8),
		BaseAC: 10,
	}
	enrage := func(s *ecs.Store, a *ecs.Action) {
		component.StageAbility(a, hero, component.STR, component.AbilityScore{Base: 10, Effective: 18})
	}
	res := f.game.Cycle(Proposal{Name: "rage", Steps: []Proposer{enrage, at.Attack(hero, orc)}})
	require.True(t, res.Committed)

	h, _ := ecs.GetComponent[component.Health](f.world.Store(), orc)
	assert.Equal(t, 16, h.Current)
}

func TestDownedTargetLosesEffectBonuses(t *testing.T) {
	f := newFixture(t, nil)
	hero := f.spawn(component.Position{}, component.Health{Current: 10, Max: 10})
	orc := f.spawn(component.Position{X: 5}, component.Health{Current: 3, Max: 6})
	s := f.world.Store()
	component.SetAbility(s, orc, component.DEX, component.AbilityScore{Base: 12, Effective: 18})
	ecs.SetComponent(s, orc, effect.NewList().
		With(data.NewScaleAbility(component.DEX, 150), effect.Permanent()))

	at := Attacker{
		Roller: dice.NewRoller(7),
		Lua:    newLua(t, `function calc_attack(ctx) return {is_hit = true, damage = 5} end`),
		Weapon: dice.D(8),
		BaseAC: 10,
	}
	res := f.game.Cycle(Proposal{Name: "attack", Steps: []Proposer{at.Attack(hero, orc)}})
	require.True(t, res.Committed)

	assert.False(t, ecs.HasComponent[effect.List](s, orc))
	dex, ok := component.GetAbility(s, orc, component.DEX)
	require.True(t, ok)
	assert.Equal(t, component.AbilityScore{Base: 12, Effective: 12}, dex)
}

func TestDefaultRulesOrder(t *testing.T) {
	set := DefaultRules(arena)
	assert.Equal(t, []string{"arena_bounds", "health_within_max", "downed_cannot_move"}, set.Names())
}
