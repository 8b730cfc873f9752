package ecs

// Query returns the alive entities that are members of every kind, in
// creation order. It scans the smallest kind and checks the rest, so the
// result order never depends on which kind is smallest.
func (w *World) Query(kinds ...Kind) []EntityID {
	if len(kinds) == 0 {
		return w.Entities()
	}
	smallest := kinds[0]
	for _, k := range kinds[1:] {
		if k.Len() < smallest.Len() {
			smallest = k
		}
	}
	var out []EntityID
	for _, id := range smallest.IDs() {
		if !w.Alive(id) {
			continue
		}
		match := true
		for _, k := range kinds {
			if k != smallest && !k.Has(id) {
				match = false
				break
			}
		}
		if match {
			out = append(out, id)
		}
	}
	return out
}

// Each2 iterates, in creation order, over entities that have both A and B.
func Each2[A, B any](sa *Store[A], sb *Store[B], fn func(EntityID, *A, *B)) {
	for _, id := range sa.world.Query(sa, sb) {
		a, _ := sa.Get(id)
		b, _ := sb.Get(id)
		fn(id, a, b)
	}
}
