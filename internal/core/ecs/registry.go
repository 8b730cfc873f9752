package ecs

import "github.com/elliotchance/orderedmap/v2"

// Registry tracks the alive entities in creation order and every component
// store, so destroy can bulk-remove an entity's data.
type Registry struct {
	alive  *orderedmap.OrderedMap[EntityID, struct{}]
	stores []Removable
}

func NewRegistry() *Registry {
	return &Registry{
		alive:  orderedmap.NewOrderedMap[EntityID, struct{}](),
		stores: make([]Removable, 0, 16),
	}
}

// Register adds a component store to the registry.
func (r *Registry) Register(store Removable) {
	r.stores = append(r.stores, store)
}

func (r *Registry) track(id EntityID) {
	r.alive.Set(id, struct{}{})
}

func (r *Registry) tracked(id EntityID) bool {
	_, ok := r.alive.Get(id)
	return ok
}

// RemoveAll clears the given entity from every registered component store
// and from the alive set. The order of the remaining entities is untouched.
func (r *Registry) RemoveAll(id EntityID) bool {
	if !r.alive.Delete(id) {
		return false
	}
	for _, s := range r.stores {
		s.Remove(id)
	}
	return true
}

// Alive returns the alive entities in creation order.
func (r *Registry) Alive() []EntityID {
	out := make([]EntityID, 0, r.alive.Len())
	for el := r.alive.Front(); el != nil; el = el.Next() {
		out = append(out, el.Key)
	}
	return out
}

func (r *Registry) Len() int {
	return r.alive.Len()
}
