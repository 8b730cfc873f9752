package ecs

// EntityID is an opaque entity handle. IDs are handed out in strictly
// increasing order starting at 1 and are never reused within one World,
// so ascending ID order is also creation order.
type EntityID uint64

// NilEntity is the zero value. No live entity has this ID.
const NilEntity EntityID = 0

// EntityPool allocates monotonic entity IDs.
type EntityPool struct {
	next EntityID
}

func NewEntityPool() *EntityPool {
	return &EntityPool{next: 1}
}

func (p *EntityPool) Create() EntityID {
	id := p.next
	p.next++
	return id
}
