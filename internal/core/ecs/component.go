package ecs

import (
	"sort"

	"github.com/l1jgo/bombarena/internal/core/assert"
)

// Removable is implemented by all component stores so the Registry can
// bulk-remove an entity's data from every store on destroy.
type Removable interface {
	Remove(id EntityID) bool
}

// Kind is a component store seen as a membership set. Query takes kinds.
type Kind interface {
	Has(id EntityID) bool
	Len() int
	IDs() []EntityID
}

// Store is a typed component container. The index slice is kept sorted by
// entity ID, which equals creation order, so iteration is deterministic and
// a re-added component goes back to its original slot instead of the end.
// No reflect, no interface{}: one Store per component type.
type Store[T any] struct {
	world *World
	index []EntityID
	data  map[EntityID]*T
}

// NewStore creates a store and registers it with the world so DestroyEntity
// can clear it.
func NewStore[T any](w *World) *Store[T] {
	s := &Store[T]{
		world: w,
		index: make([]EntityID, 0, 64),
		data:  make(map[EntityID]*T, 64),
	}
	w.registry.Register(s)
	return s
}

// Add attaches c to id. Adding a second component of the same kind is a
// contract violation.
func (s *Store[T]) Add(id EntityID, c T) *T {
	assert.True(s.world.Alive(id), "add component to dead entity %d", id)
	_, exists := s.data[id]
	assert.True(!exists, "entity %d already has component %T", id, c)
	return s.insert(id, c)
}

// Set upserts c for id.
func (s *Store[T]) Set(id EntityID, c T) *T {
	assert.True(s.world.Alive(id), "set component on dead entity %d", id)
	if p, ok := s.data[id]; ok {
		*p = c
		return p
	}
	return s.insert(id, c)
}

func (s *Store[T]) insert(id EntityID, c T) *T {
	i := sort.Search(len(s.index), func(i int) bool { return s.index[i] >= id })
	s.index = append(s.index, NilEntity)
	copy(s.index[i+1:], s.index[i:])
	s.index[i] = id
	p := new(T)
	*p = c
	s.data[id] = p
	return p
}

func (s *Store[T]) Get(id EntityID) (*T, bool) {
	c, ok := s.data[id]
	return c, ok
}

// Remove detaches the component and reports whether one was present.
// Remaining entries keep their relative order.
func (s *Store[T]) Remove(id EntityID) bool {
	if _, ok := s.data[id]; !ok {
		return false
	}
	delete(s.data, id)
	i := sort.Search(len(s.index), func(i int) bool { return s.index[i] >= id })
	s.index = append(s.index[:i], s.index[i+1:]...)
	return true
}

func (s *Store[T]) Has(id EntityID) bool {
	_, ok := s.data[id]
	return ok
}

func (s *Store[T]) Len() int {
	return len(s.index)
}

// IDs returns a copy of the member entities in creation order.
func (s *Store[T]) IDs() []EntityID {
	out := make([]EntityID, len(s.index))
	copy(out, s.index)
	return out
}
