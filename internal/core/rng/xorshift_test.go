package rng

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKnownSequence(t *testing.T) {
	s := New(1)
	require.Equal(t, uint32(270369), s.NextUint32())
	require.Equal(t, uint32(67634689), s.NextUint32())
}

func TestZeroSeedIsRemapped(t *testing.T) {
	a := New(0)
	b := New(zeroSeed)
	for i := 0; i < 16; i++ {
		v := a.NextUint32()
		require.NotZero(t, v)
		require.Equal(t, b.NextUint32(), v)
	}
}

func TestSameSeedSameStream(t *testing.T) {
	a, b := New(12345), New(12345)
	for i := 0; i < 1000; i++ {
		require.Equal(t, a.NextFloat(), b.NextFloat())
	}
}

func TestNextFloatRange(t *testing.T) {
	s := New(99)
	for i := 0; i < 10000; i++ {
		f := s.NextFloat()
		require.GreaterOrEqual(t, f, 0.0)
		require.LessOrEqual(t, f, 1.0)
	}
}
