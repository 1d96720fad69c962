package data

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tabletopsim/engine/internal/component"
	"github.com/tabletopsim/engine/internal/core/ecs"
	"github.com/tabletopsim/engine/internal/effect"
)

// ErrUnknownEffect is returned for an effect kind with no builder.
var ErrUnknownEffect = errors.New("unknown effect kind")

// EffectSpec describes one effect on an actor. Start and Duration are Go
// duration strings; an empty Duration means permanent.
type EffectSpec struct {
	Kind     string `yaml:"kind"`
	Ability  string `yaml:"ability"`
	Value    int    `yaml:"value"`
	Start    string `yaml:"start"`
	Duration string `yaml:"duration"`
}

// ActorTemplate is one actor entry of a content file.
type ActorTemplate struct {
	ID        uint64              `yaml:"id"`
	Name      string              `yaml:"name"`
	Position  *component.Position `yaml:"position"`
	Health    *healthEntry        `yaml:"health"`
	Abilities map[string]int      `yaml:"abilities"`
	Effects   []EffectSpec        `yaml:"effects"`
}

type healthEntry struct {
	Current   int `yaml:"current"`
	Max       int `yaml:"max"`
	Temporary int `yaml:"temporary"`
}

type actorListFile struct {
	Actors []ActorTemplate `yaml:"actors"`
}

// Roster holds actor templates in file order.
type Roster struct {
	actors []ActorTemplate
}

func (r *Roster) Count() int { return len(r.actors) }

func (r *Roster) All() []ActorTemplate { return r.actors }

// LoadRoster loads actor templates from YAML.
func LoadRoster(path string) (*Roster, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read actors: %w", err)
	}
	r, err := ParseRoster(raw)
	if err != nil {
		return nil, fmt.Errorf("parse actors %s: %w", path, err)
	}
	return r, nil
}

// ParseRoster decodes and validates a roster document.
func ParseRoster(raw []byte) (*Roster, error) {
	var f actorListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	seen := make(map[uint64]bool, len(f.Actors))
	for i := range f.Actors {
		a := &f.Actors[i]
		if seen[a.ID] {
			return nil, fmt.Errorf("actor %d: duplicate id", a.ID)
		}
		seen[a.ID] = true
		for name := range a.Abilities {
			if _, ok := component.ParseAbility(name); !ok {
				return nil, fmt.Errorf("actor %d: unknown ability %q", a.ID, name)
			}
		}
		for j, spec := range a.Effects {
			if _, _, err := spec.Build(0); err != nil {
				return nil, fmt.Errorf("actor %d effect %d: %w", a.ID, j, err)
			}
		}
	}
	return &Roster{actors: f.Actors}, nil
}

// Build turns the spec into an effect and its window. Start is relative to
// now, the world time at which the effect is attached.
func (e EffectSpec) Build(now time.Duration) (effect.Effect, effect.Duration, error) {
	d := effect.Permanent()
	if e.Duration != "" {
		length, err := time.ParseDuration(e.Duration)
		if err != nil {
			return nil, d, fmt.Errorf("duration: %w", err)
		}
		var start time.Duration
		if e.Start != "" {
			if start, err = time.ParseDuration(e.Start); err != nil {
				return nil, d, fmt.Errorf("start: %w", err)
			}
		}
		d = effect.Seconds(now+start, length)
	}

	switch e.Kind {
	case "fast_healing":
		return FastHealing{Amount: e.Value}, d, nil
	case "regeneration":
		return Regeneration{}, d, nil
	case "set_ability", "add_ability", "scale_ability":
		ab, ok := component.ParseAbility(e.Ability)
		if !ok {
			return nil, d, fmt.Errorf("unknown ability %q", e.Ability)
		}
		switch e.Kind {
		case "set_ability":
			return NewSetAbility(ab, e.Value), d, nil
		case "add_ability":
			return NewAddAbility(ab, e.Value), d, nil
		default:
			return NewScaleAbility(ab, e.Value), d, nil
		}
	}
	return nil, d, fmt.Errorf("%w: %q", ErrUnknownEffect, e.Kind)
}

// Spawn writes every actor into the world at world time now and returns the
// number spawned. Template ids are reserved in the entity pool.
func (r *Roster) Spawn(w *ecs.World, now time.Duration) (int, error) {
	s := w.Store()
	for _, a := range r.actors {
		id := ecs.EntityID(a.ID)
		w.Pool().Reserve(id)
		if a.Name != "" {
			ecs.SetComponent(s, id, component.Name(a.Name))
		}
		if a.Position != nil {
			ecs.SetComponent(s, id, *a.Position)
		}
		if a.Health != nil {
			ecs.SetComponent(s, id, component.Health{
				Current:   a.Health.Current,
				Max:       a.Health.Max,
				Temporary: a.Health.Temporary,
			})
		}
		for _, ab := range component.Abilities {
			if score, ok := a.Abilities[ab.String()]; ok {
				component.SetAbility(s, id, ab, component.NewAbilityScore(score))
			}
		}
		if len(a.Effects) == 0 {
			continue
		}
		list := effect.NewList()
		for j, spec := range a.Effects {
			e, d, err := spec.Build(now)
			if err != nil {
				return 0, fmt.Errorf("actor %d effect %d: %w", a.ID, j, err)
			}
			list = list.With(e, d)
		}
		ecs.SetComponent(s, id, list)
	}
	return len(r.actors), nil
}
