package ecs

// World is the live game state: the entity pool, the committed Store, and a
// deferred clear queue flushed by CleanupSystem at the end of each tick.
type World struct {
	pool       *EntityPool
	store      *Store
	clearQueue []EntityID
}

func NewWorld() *World {
	return &World{
		pool:       NewEntityPool(),
		store:      NewStore(),
		clearQueue: make([]EntityID, 0, 64),
	}
}

func (w *World) Pool() *EntityPool { return w.pool }
func (w *World) Store() *Store     { return w.store }

func (w *World) CreateEntity() EntityID {
	return w.pool.Create()
}

func (w *World) Alive(id EntityID) bool {
	return w.store.Alive(id)
}

// MarkForClear queues an entity to have every component tombstoned at
// end of tick. The id itself stays reserved.
func (w *World) MarkForClear(id EntityID) {
	w.clearQueue = append(w.clearQueue, id)
}

// FlushClearQueue tombstones all queued entities and returns how many were
// processed. Called by CleanupSystem at the end of each tick.
func (w *World) FlushClearQueue() int {
	n := len(w.clearQueue)
	for _, id := range w.clearQueue {
		w.store.ClearEntity(id)
	}
	w.clearQueue = w.clearQueue[:0]
	return n
}
