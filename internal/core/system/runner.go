package system

import "sort"

// Runner executes systems in phase order each tick. Systems registered in
// the same phase keep their registration order.
type Runner[S any] struct {
	systems []System[S]
	sorted  bool
}

func NewRunner[S any]() *Runner[S] {
	return &Runner[S]{
		systems: make([]System[S], 0, 8),
	}
}

func (r *Runner[S]) Register(s System[S]) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

func (r *Runner[S]) Tick(state S) {
	r.ensureSorted()
	for _, s := range r.systems {
		s.Update(state)
	}
}

// Phases lists the registered phases in execution order.
func (r *Runner[S]) Phases() []Phase {
	r.ensureSorted()
	out := make([]Phase, 0, len(r.systems))
	for _, s := range r.systems {
		out = append(out, s.Phase())
	}
	return out
}

func (r *Runner[S]) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
