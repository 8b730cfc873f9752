package ecs

// World is the top-level ECS container. It owns the entity pool and the
// component registry. Destruction is immediate: systems that destroy while
// iterating collect IDs first.
type World struct {
	pool     *EntityPool
	registry *Registry
}

func NewWorld() *World {
	return &World{
		pool:     NewEntityPool(),
		registry: NewRegistry(),
	}
}

func (w *World) CreateEntity() EntityID {
	id := w.pool.Create()
	w.registry.track(id)
	return id
}

func (w *World) Alive(id EntityID) bool {
	return w.registry.tracked(id)
}

// DestroyEntity removes id from every store and from future queries.
// Destroying an already destroyed or unknown entity returns false.
func (w *World) DestroyEntity(id EntityID) bool {
	return w.registry.RemoveAll(id)
}

// Entities returns all alive entities in creation order.
func (w *World) Entities() []EntityID {
	return w.registry.Alive()
}
