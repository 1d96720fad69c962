package ecs

import (
	"reflect"
	"sort"

	"github.com/google/uuid"
)

// ActionTag classifies what an action proposes so rules can pick the ones
// they care about.
type ActionTag string

const (
	TagMovement ActionTag = "movement"
	TagAttack   ActionTag = "attack"
	TagEffect   ActionTag = "effect"
)

// Action is a batch of proposed component writes and removals. It never
// touches the live Store; Store.Commit merges it, and dropping it discards it.
type Action struct {
	id         uuid.UUID
	insertions *Store

	removals       map[reflect.Type]map[EntityID]struct{}
	entityRemovals map[EntityID]struct{}

	tags map[ActionTag]struct{}
}

func NewAction() *Action {
	return &Action{
		id:             uuid.New(),
		insertions:     NewStore(),
		removals:       make(map[reflect.Type]map[EntityID]struct{}),
		entityRemovals: make(map[EntityID]struct{}),
		tags:           make(map[ActionTag]struct{}),
	}
}

func (a *Action) ID() uuid.UUID { return a.id }

// Insertions exposes the staged writes as a read-only Store view.
func (a *Action) Insertions() *Store { return a.insertions }

func (a *Action) Tag(t ActionTag) {
	a.tags[t] = struct{}{}
}

func (a *Action) HasTag(t ActionTag) bool {
	_, ok := a.tags[t]
	return ok
}

// Tags returns the action's tags sorted by name.
func (a *Action) Tags() []ActionTag {
	out := make([]ActionTag, 0, len(a.tags))
	for t := range a.tags {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Empty reports whether the action stages nothing at all.
func (a *Action) Empty() bool {
	if len(a.entityRemovals) > 0 {
		return false
	}
	for _, ids := range a.removals {
		if len(ids) > 0 {
			return false
		}
	}
	return len(a.insertions.Entities()) == 0
}

// Touched returns every entity the action writes or removes, ascending.
func (a *Action) Touched() []EntityID {
	seen := make(map[EntityID]struct{})
	for _, id := range a.insertions.Entities() {
		seen[id] = struct{}{}
	}
	for _, ids := range a.removals {
		for id := range ids {
			seen[id] = struct{}{}
		}
	}
	for id := range a.entityRemovals {
		seen[id] = struct{}{}
	}
	out := make([]EntityID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Stage records v as the proposed value of T at id. A later Stage for the
// same pair silently replaces it.
func Stage[T any](a *Action, id EntityID, v T) {
	if ids, ok := a.removals[reflect.TypeFor[T]()]; ok {
		delete(ids, id)
	}
	SetComponent(a.insertions, id, v)
}

// Staged returns the value staged for T at id in this action, if any.
func Staged[T any](a *Action, id EntityID) (T, bool) {
	return GetComponent[T](a.insertions, id)
}

// RemoveComponent proposes removing T from id on commit.
func RemoveComponent[T any](a *Action, id EntityID) {
	t := reflect.TypeFor[T]()
	ClearComponent[T](a.insertions, id)
	ids, ok := a.removals[t]
	if !ok {
		ids = make(map[EntityID]struct{})
		a.removals[t] = ids
	}
	ids[id] = struct{}{}
}

// RemoveEntity proposes clearing every component of id on commit. Values
// staged for id before this call are dropped; values staged after it survive.
func (a *Action) RemoveEntity(id EntityID) {
	a.insertions.ClearEntity(id)
	for _, ids := range a.removals {
		delete(ids, id)
	}
	a.entityRemovals[id] = struct{}{}
}

// Removing reports whether the action will leave T absent at id.
func Removing[T any](a *Action, id EntityID) bool {
	if HasComponent[T](a.insertions, id) {
		return false
	}
	if _, ok := a.entityRemovals[id]; ok {
		return true
	}
	_, ok := a.removals[reflect.TypeFor[T]()][id]
	return ok
}

// GetFuture answers what T at id would be if a were committed to s. It
// prefers the staged value and never mutates either argument.
func GetFuture[T any](id EntityID, s *Store, a *Action) (T, bool) {
	if v, ok := Staged[T](a, id); ok {
		return v, true
	}
	if Removing[T](a, id) {
		var zero T
		return zero, false
	}
	return GetComponent[T](s, id)
}

// Commit merges a into s. Removals are applied first, then every staged
// write overwrites the matching entry. Containers that exist only in the
// action are adopted; containers only in s are left alone.
func (s *Store) Commit(a *Action) {
	for id := range a.entityRemovals {
		s.ClearEntity(id)
	}
	for t, ids := range a.removals {
		c, ok := s.containers[t]
		if !ok {
			continue
		}
		for id := range ids {
			c.tombstone(id)
		}
	}
	for _, t := range a.insertions.order {
		src := a.insertions.containers[t]
		if dst, ok := s.containers[t]; ok {
			dst.mergeFrom(src)
			continue
		}
		dst := src.empty()
		dst.mergeFrom(src)
		s.register(t, dst)
	}
}
