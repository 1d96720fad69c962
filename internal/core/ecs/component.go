package ecs

import (
	"reflect"
	"sort"
)

// container is the type-erased view of a Container[T] held by a Store.
type container interface {
	elemType() reflect.Type
	tombstone(id EntityID)
	holds(id EntityID) bool
	mergeFrom(src container)
	empty() container
	ids() []EntityID
}

type slot[T any] struct {
	value T
	ok    bool
}

// Container maps entity ids to an optional value of one component type.
// A cleared entry is kept as a tombstone so draining sees it, but readers
// cannot tell a tombstone from a key that was never set.
type Container[T any] struct {
	data map[EntityID]slot[T]
}

func NewContainer[T any]() *Container[T] {
	return &Container[T]{
		data: make(map[EntityID]slot[T], 64),
	}
}

func (c *Container[T]) Set(id EntityID, v T) {
	c.data[id] = slot[T]{value: v, ok: true}
}

// Clear tombstones id. Keys that were never set stay absent.
func (c *Container[T]) Clear(id EntityID) {
	if _, ok := c.data[id]; ok {
		c.data[id] = slot[T]{}
	}
}

func (c *Container[T]) Get(id EntityID) (T, bool) {
	s := c.data[id]
	return s.value, s.ok
}

func (c *Container[T]) Has(id EntityID) bool {
	return c.data[id].ok
}

// Len counts live entries; tombstones are not included.
func (c *Container[T]) Len() int {
	n := 0
	for _, s := range c.data {
		if s.ok {
			n++
		}
	}
	return n
}

// Each visits live entries in ascending id order.
func (c *Container[T]) Each(fn func(EntityID, T)) {
	for _, id := range c.sortedIDs() {
		if s := c.data[id]; s.ok {
			fn(id, s.value)
		}
	}
}

// Update rewrites every live entry in ascending id order. Returning false from
// fn leaves the entry untouched.
func (c *Container[T]) Update(fn func(EntityID, *T) bool) {
	for _, id := range c.sortedIDs() {
		s := c.data[id]
		if !s.ok {
			continue
		}
		v := s.value
		if fn(id, &v) {
			c.data[id] = slot[T]{value: v, ok: true}
		}
	}
}

// EachSlot visits every key including tombstones. live is false for a tombstone.
func (c *Container[T]) EachSlot(fn func(id EntityID, v T, live bool)) {
	for _, id := range c.sortedIDs() {
		s := c.data[id]
		fn(id, s.value, s.ok)
	}
}

// Drain hands every entry (tombstones included) to fn and empties the container.
func (c *Container[T]) Drain(fn func(id EntityID, v T, live bool)) {
	c.EachSlot(fn)
	clear(c.data)
}

func (c *Container[T]) sortedIDs() []EntityID {
	ids := make([]EntityID, 0, len(c.data))
	for id := range c.data {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (c *Container[T]) elemType() reflect.Type {
	return reflect.TypeFor[T]()
}

func (c *Container[T]) tombstone(id EntityID) {
	c.Clear(id)
}

func (c *Container[T]) holds(id EntityID) bool {
	return c.Has(id)
}

func (c *Container[T]) ids() []EntityID {
	return c.sortedIDs()
}

// mergeFrom copies every live entry of src over c. src must hold the same
// element type; the Store guarantees this by keying containers on reflect.Type.
func (c *Container[T]) mergeFrom(src container) {
	other := src.(*Container[T])
	for id, s := range other.data {
		if s.ok {
			c.data[id] = s
		}
	}
}

func (c *Container[T]) empty() container {
	return NewContainer[T]()
}
