package ecs

// EntityID is a densely assigned entity identifier. It carries no data of its
// own; an entity "exists" only while some container holds a live value for it.
type EntityID uint64

// EntityPool hands out entity ids in ascending order. Ids are never reclaimed:
// clearing every component of an entity leaves its id reserved.
type EntityPool struct {
	nextIndex EntityID
}

func NewEntityPool() *EntityPool {
	return &EntityPool{}
}

func (p *EntityPool) Create() EntityID {
	id := p.nextIndex
	p.nextIndex++
	return id
}

// Reserve advances the pool past id so ids referenced before allocation
// (content files, tests) are never handed out twice.
func (p *EntityPool) Reserve(id EntityID) {
	if id >= p.nextIndex {
		p.nextIndex = id + 1
	}
}

// Allocated reports how many ids have been handed out or reserved.
func (p *EntityPool) Allocated() int {
	return int(p.nextIndex)
}
