package event

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendAssignsIncreasingIDs(t *testing.T) {
	l := NewLog[string]()
	require.Equal(t, uint64(0), l.LastID())
	require.Equal(t, uint64(1), l.NextID())

	a := l.Append(1, "a")
	b := l.Append(1, "b")
	c := l.Append(2, "c")
	require.Equal(t, []uint64{1, 2, 3}, []uint64{a.ID, b.ID, c.ID})
	require.Equal(t, uint64(2), c.Tick)
	require.Equal(t, uint64(3), l.LastID())
}

func TestSinceIsRestartable(t *testing.T) {
	l := NewLog[int]()
	for i := 0; i < 5; i++ {
		l.Append(uint64(i), i)
	}

	all := l.Since(0)
	require.Len(t, all, 5)
	require.Equal(t, uint64(1), all[0].ID)

	tail := l.Since(3)
	require.Len(t, tail, 2)
	require.Equal(t, uint64(4), tail[0].ID)
	require.Equal(t, uint64(5), tail[1].ID)

	require.Nil(t, l.Since(5))
	require.Nil(t, l.Since(99))

	// a second read from the same cursor sees the same records
	require.Equal(t, tail, l.Since(3))

	tail[0].Payload = 100
	require.Equal(t, 3, l.Since(3)[0].Payload)
}
