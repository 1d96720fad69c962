package ecs

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pos struct{ X, Y float32 }

type health struct{ Current int }

type tag struct{}

func TestGetComponentNeverSet(t *testing.T) {
	s := NewStore()
	for id := EntityID(0); id < 50; id++ {
		for i := 0; i < 2; i++ {
			_, ok := GetComponent[pos](s, id)
			assert.False(t, ok)
		}
	}
	assert.Nil(t, Map[pos](s))
	assert.Equal(t, 0, s.Len())
}

func TestSetRegistersOneContainerPerType(t *testing.T) {
	s := NewStore()
	SetComponent(s, 0, pos{1, 2})
	SetComponent(s, 1, pos{3, 4})
	SetComponent(s, 0, health{10})

	require.Equal(t, 2, s.Len())
	assert.Equal(t, []reflect.Type{reflect.TypeFor[pos](), reflect.TypeFor[health]()}, s.Types())

	v, ok := GetComponent[pos](s, 1)
	require.True(t, ok)
	assert.Equal(t, pos{3, 4}, v)
}

func TestSetAcceptsLargeIDs(t *testing.T) {
	s := NewStore()
	SetComponent(s, 1<<40, health{1})
	v, ok := GetComponent[health](s, 1<<40)
	require.True(t, ok)
	assert.Equal(t, 1, v.Current)
}

func TestClearComponentTombstone(t *testing.T) {
	s := NewStore()
	SetComponent(s, 3, health{7})
	ClearComponent[health](s, 3)

	_, ok := GetComponent[health](s, 3)
	assert.False(t, ok)

	var tombstones []EntityID
	Map[health](s).EachSlot(func(id EntityID, _ health, live bool) {
		if !live {
			tombstones = append(tombstones, id)
		}
	})
	assert.Equal(t, []EntityID{3}, tombstones)

	SetComponent(s, 3, health{9})
	v, ok := GetComponent[health](s, 3)
	require.True(t, ok)
	assert.Equal(t, 9, v.Current)
}

func TestClearComponentUnknownTypeIsNoop(t *testing.T) {
	s := NewStore()
	ClearComponent[health](s, 1)
	assert.Equal(t, 0, s.Len())
}

func TestClearNeverSetKeyStaysAbsent(t *testing.T) {
	s := NewStore()
	SetComponent(s, 1, health{1})
	ClearComponent[health](s, 2)

	n := 0
	Map[health](s).EachSlot(func(EntityID, health, bool) { n++ })
	assert.Equal(t, 1, n)
}

func TestClearEntity(t *testing.T) {
	s := NewStore()
	SetComponent(s, 4, pos{1, 1})
	SetComponent(s, 4, health{2})
	SetComponent(s, 5, health{3})
	require.True(t, s.Alive(4))

	s.ClearEntity(4)

	assert.False(t, s.Alive(4))
	assert.False(t, HasComponent[pos](s, 4))
	assert.False(t, HasComponent[health](s, 4))
	assert.True(t, HasComponent[health](s, 5))
	assert.Equal(t, []EntityID{5}, s.Entities())
}

func TestContainerEachSkipsTombstones(t *testing.T) {
	c := NewContainer[health]()
	c.Set(2, health{2})
	c.Set(1, health{1})
	c.Set(3, health{3})
	c.Clear(2)

	var seen []EntityID
	c.Each(func(id EntityID, _ health) { seen = append(seen, id) })
	assert.Equal(t, []EntityID{1, 3}, seen)
	assert.Equal(t, 2, c.Len())
}

func TestContainerUpdate(t *testing.T) {
	c := NewContainer[health]()
	c.Set(1, health{1})
	c.Set(2, health{2})
	c.Update(func(id EntityID, h *health) bool {
		if id == 2 {
			return false
		}
		h.Current += 10
		return true
	})
	v, _ := c.Get(1)
	assert.Equal(t, 11, v.Current)
	v, _ = c.Get(2)
	assert.Equal(t, 2, v.Current)
}

func TestContainerDrain(t *testing.T) {
	c := NewContainer[health]()
	c.Set(1, health{1})
	c.Set(2, health{2})
	c.Clear(2)

	var live, dead int
	c.Drain(func(_ EntityID, _ health, ok bool) {
		if ok {
			live++
		} else {
			dead++
		}
	})
	assert.Equal(t, 1, live)
	assert.Equal(t, 1, dead)
	assert.Equal(t, 0, c.Len())
	assert.False(t, c.Has(1))
}

func TestEach2(t *testing.T) {
	s := NewStore()
	SetComponent(s, 1, pos{1, 1})
	SetComponent(s, 2, pos{2, 2})
	SetComponent(s, 2, health{2})
	SetComponent(s, 3, health{3})
	SetComponent(s, 4, pos{4, 4})
	SetComponent(s, 4, health{4})
	ClearComponent[health](s, 4)

	var ids []EntityID
	Each2(s, func(id EntityID, p pos, h health) {
		assert.Equal(t, float32(h.Current), p.X)
		ids = append(ids, id)
	})
	assert.Equal(t, []EntityID{2}, ids)

	ids = nil
	Each2(s, func(id EntityID, _ pos, _ tag) { ids = append(ids, id) })
	assert.Empty(t, ids)
}

func TestWorldFlushClearQueue(t *testing.T) {
	w := NewWorld()
	id := w.CreateEntity()
	SetComponent(w.Store(), id, health{5})
	w.MarkForClear(id)
	require.True(t, w.Alive(id))

	assert.Equal(t, 1, w.FlushClearQueue())
	assert.False(t, w.Alive(id))
	assert.Equal(t, 0, w.FlushClearQueue())
	assert.NotEqual(t, id, w.CreateEntity())
}

func TestEntityPoolReserve(t *testing.T) {
	p := NewEntityPool()
	assert.Equal(t, EntityID(0), p.Create())
	p.Reserve(10)
	assert.Equal(t, EntityID(11), p.Create())
	p.Reserve(3)
	assert.Equal(t, EntityID(12), p.Create())
	assert.Equal(t, 13, p.Allocated())
}
