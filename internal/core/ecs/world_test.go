package ecs

import (
	"testing"

	"github.com/l1jgo/bombarena/internal/core/assert"
	"github.com/stretchr/testify/require"
)

type position struct{ X, Y int }

type velocity struct{ DX, DY int }

func TestCreateEntityIsMonotonic(t *testing.T) {
	w := NewWorld()
	require.Equal(t, EntityID(1), w.CreateEntity())
	require.Equal(t, EntityID(2), w.CreateEntity())
	require.Equal(t, EntityID(3), w.CreateEntity())
}

func TestDestroyedIDsAreNotReused(t *testing.T) {
	w := NewWorld()
	a := w.CreateEntity()
	require.True(t, w.DestroyEntity(a))
	require.False(t, w.DestroyEntity(a))
	require.Equal(t, EntityID(2), w.CreateEntity())
	require.False(t, w.Alive(a))
}

func TestQueryOrderIsStable(t *testing.T) {
	w := NewWorld()
	pos := NewStore[position](w)
	e1, e2, e3 := w.CreateEntity(), w.CreateEntity(), w.CreateEntity()

	pos.Add(e2, position{})
	pos.Add(e1, position{})
	pos.Add(e3, position{})
	require.Equal(t, []EntityID{e1, e2, e3}, w.Query(pos))

	w.DestroyEntity(e2)
	require.Equal(t, []EntityID{e1, e3}, w.Query(pos))

	require.True(t, pos.Remove(e1))
	require.False(t, pos.Remove(e1))
	require.Equal(t, []EntityID{e3}, w.Query(pos))

	pos.Add(e1, position{})
	require.Equal(t, []EntityID{e1, e3}, w.Query(pos))
}

func TestQueryRequiresEveryKind(t *testing.T) {
	w := NewWorld()
	pos := NewStore[position](w)
	vel := NewStore[velocity](w)

	both := w.CreateEntity()
	onlyPos := w.CreateEntity()
	pos.Add(both, position{})
	vel.Add(both, velocity{})
	pos.Add(onlyPos, position{})

	require.Equal(t, []EntityID{both}, w.Query(pos, vel))
	require.Equal(t, []EntityID{both}, w.Query(vel, pos))
	require.Equal(t, []EntityID{both, onlyPos}, w.Query())
}

func TestAddTwicePanics(t *testing.T) {
	w := NewWorld()
	pos := NewStore[position](w)
	e := w.CreateEntity()
	pos.Add(e, position{X: 1})

	defer func() {
		r := recover()
		require.NotNil(t, r)
		_, ok := r.(*assert.ContractError)
		require.True(t, ok, "expected *assert.ContractError, got %T", r)
	}()
	pos.Add(e, position{X: 2})
}

func TestSetUpserts(t *testing.T) {
	w := NewWorld()
	pos := NewStore[position](w)
	e := w.CreateEntity()

	pos.Set(e, position{X: 1})
	pos.Set(e, position{X: 5, Y: 6})
	got, ok := pos.Get(e)
	require.True(t, ok)
	require.Equal(t, position{X: 5, Y: 6}, *got)
	require.Equal(t, 1, pos.Len())
}

func TestDestroyClearsEveryStore(t *testing.T) {
	w := NewWorld()
	pos := NewStore[position](w)
	vel := NewStore[velocity](w)
	e := w.CreateEntity()
	pos.Add(e, position{})
	vel.Add(e, velocity{})

	w.DestroyEntity(e)
	require.False(t, pos.Has(e))
	require.False(t, vel.Has(e))
	require.Empty(t, w.Entities())
}

func TestEach2VisitsInCreationOrder(t *testing.T) {
	w := NewWorld()
	pos := NewStore[position](w)
	vel := NewStore[velocity](w)
	var ids []EntityID
	for i := 0; i < 5; i++ {
		ids = append(ids, w.CreateEntity())
	}
	for i := len(ids) - 1; i >= 0; i-- {
		pos.Add(ids[i], position{X: i})
		vel.Add(ids[i], velocity{DX: 1})
	}

	var seen []EntityID
	Each2(pos, vel, func(id EntityID, p *position, v *velocity) {
		p.X += v.DX
		seen = append(seen, id)
	})
	require.Equal(t, ids, seen)
	got, _ := pos.Get(ids[0])
	require.Equal(t, 1, got.X)
}
