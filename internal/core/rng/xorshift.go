// Package rng is the per-match deterministic random source.
package rng

import "math"

// zeroSeed replaces seed 0, which is a fixed point of xorshift.
const zeroSeed uint32 = 2463534242

// Source is a 32-bit xorshift generator. The stream is a pure function of
// the seed; it must not be shared between matches.
type Source struct {
	state uint32
}

func New(seed uint32) *Source {
	if seed == 0 {
		seed = zeroSeed
	}
	return &Source{state: seed}
}

// NextUint32 advances the state and returns it.
func (s *Source) NextUint32() uint32 {
	x := s.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	s.state = x
	return x
}

// NextFloat returns the next draw scaled into [0, 1].
func (s *Source) NextFloat() float64 {
	return float64(s.NextUint32()) / math.MaxUint32
}

// State exposes the current state for snapshots and debugging.
func (s *Source) State() uint32 { return s.state }
