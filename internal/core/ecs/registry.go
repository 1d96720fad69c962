package ecs

import (
	"reflect"
	"sort"
)

// Store holds one Container per component type, registered on first write.
// Lookups resolve the container from the requested type, never by index.
type Store struct {
	containers map[reflect.Type]container
	order      []reflect.Type
}

func NewStore() *Store {
	return &Store{
		containers: make(map[reflect.Type]container, 16),
		order:      make([]reflect.Type, 0, 16),
	}
}

func (s *Store) register(t reflect.Type, c container) {
	s.containers[t] = c
	s.order = append(s.order, t)
}

// Types returns the registered component types in registration order.
func (s *Store) Types() []reflect.Type {
	out := make([]reflect.Type, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of registered component types.
func (s *Store) Len() int {
	return len(s.order)
}

// Map returns the container for T, or nil if T was never written.
func Map[T any](s *Store) *Container[T] {
	c, ok := s.containers[reflect.TypeFor[T]()]
	if !ok {
		return nil
	}
	return c.(*Container[T])
}

// MapMut returns the container for T, creating it empty if needed.
func MapMut[T any](s *Store) *Container[T] {
	t := reflect.TypeFor[T]()
	if c, ok := s.containers[t]; ok {
		return c.(*Container[T])
	}
	c := NewContainer[T]()
	s.register(t, c)
	return c
}

func SetComponent[T any](s *Store, id EntityID, v T) {
	MapMut[T](s).Set(id, v)
}

// ClearComponent tombstones T at id. A type that was never written has
// nothing to tombstone, so this is then a no-op.
func ClearComponent[T any](s *Store, id EntityID) {
	if c := Map[T](s); c != nil {
		c.Clear(id)
	}
}

func GetComponent[T any](s *Store, id EntityID) (T, bool) {
	if c := Map[T](s); c != nil {
		return c.Get(id)
	}
	var zero T
	return zero, false
}

func HasComponent[T any](s *Store, id EntityID) bool {
	_, ok := GetComponent[T](s, id)
	return ok
}

// ClearEntity tombstones id in every registered container.
func (s *Store) ClearEntity(id EntityID) {
	for _, t := range s.order {
		s.containers[t].tombstone(id)
	}
}

// Alive reports whether id holds at least one live component.
func (s *Store) Alive(id EntityID) bool {
	for _, t := range s.order {
		if s.containers[t].holds(id) {
			return true
		}
	}
	return false
}

// Entities returns every id holding at least one live component, ascending.
func (s *Store) Entities() []EntityID {
	seen := make(map[EntityID]struct{})
	for _, t := range s.order {
		c := s.containers[t]
		for _, id := range c.ids() {
			if c.holds(id) {
				seen[id] = struct{}{}
			}
		}
	}
	out := make([]EntityID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
