// Package input buffers per-player inputs until the tick they target.
package input

import "sort"

// Entry is one buffered input. Seq is assigned on enqueue and is strictly
// increasing for the life of the queue.
type Entry[T any] struct {
	Seq        uint64
	PlayerID   string
	TargetTick uint64
	Input      T
}

// Queue decouples arrival order from application order. Entries are
// released by target tick and, within a drain, in enqueue order.
// Not safe for concurrent use; the owning match serializes access.
type Queue[T any] struct {
	entries []Entry[T]
	nextSeq uint64
}

func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{
		entries: make([]Entry[T], 0, 32),
		nextSeq: 1,
	}
}

// Enqueue appends an input and returns its sequence number.
func (q *Queue[T]) Enqueue(playerID string, targetTick uint64, in T) uint64 {
	seq := q.nextSeq
	q.nextSeq++
	q.entries = append(q.entries, Entry[T]{
		Seq:        seq,
		PlayerID:   playerID,
		TargetTick: targetTick,
		Input:      in,
	})
	return seq
}

// DrainReady removes and returns every entry with TargetTick <= maxTick,
// sorted by sequence number. Later entries stay queued.
func (q *Queue[T]) DrainReady(maxTick uint64) []Entry[T] {
	var ready []Entry[T]
	kept := q.entries[:0]
	for _, e := range q.entries {
		if e.TargetTick <= maxTick {
			ready = append(ready, e)
		} else {
			kept = append(kept, e)
		}
	}
	// zero the tail so drained inputs are not retained by the backing array
	for i := len(kept); i < len(q.entries); i++ {
		q.entries[i] = Entry[T]{}
	}
	q.entries = kept
	sort.Slice(ready, func(i, j int) bool { return ready[i].Seq < ready[j].Seq })
	return ready
}

func (q *Queue[T]) Clear() {
	q.entries = q.entries[:0]
}

func (q *Queue[T]) Len() int {
	return len(q.entries)
}
