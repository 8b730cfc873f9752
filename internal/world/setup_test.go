package world

import (
	"testing"

	"github.com/l1jgo/bombarena/internal/component"
	"github.com/stretchr/testify/require"
)

func newTestState(t *testing.T, seed uint32, players ...string) *State {
	t.Helper()
	if len(players) == 0 {
		players = []string{"p1", "p2"}
	}
	s, err := New(Config{
		Players:  players,
		Movement: MovementGridSmooth,
		Rules:    DefaultRules(),
		Seed:     seed,
	})
	require.NoError(t, err)
	return s
}

func TestSeedSensitivity(t *testing.T) {
	a := newTestState(t, 111).BlockLayout()
	b := newTestState(t, 222).BlockLayout()
	require.NotEmpty(t, a)
	require.NotEqual(t, a, b)
}

func TestSameSeedSameLayout(t *testing.T) {
	require.Equal(t, newTestState(t, 12345).BlockLayout(), newTestState(t, 12345).BlockLayout())
}

func TestSpawnsAreClear(t *testing.T) {
	s := newTestState(t, 4242, "a", "b", "c", "d")
	for _, spawn := range s.Grid.Spawns() {
		_, ok := s.BlockAt(spawn)
		require.False(t, ok, "spawn %v has a block", spawn)
		for _, d := range component.Directions {
			_, ok := s.BlockAt(spawn.Step(d))
			require.False(t, ok, "spawn neighbour %v has a block", spawn.Step(d))
		}
	}
	for _, b := range s.BlockLayout() {
		require.False(t, s.Grid.IsWall(b))
	}
}

func TestPlayersSpawnInInputOrder(t *testing.T) {
	s := newTestState(t, 1, "red", "blue", "green")
	spawns := s.Grid.Spawns()
	for i, id := range s.PlayerEntities() {
		p, pos := s.Player(id)
		require.Equal(t, i, p.Order)
		require.Equal(t, spawns[i], *pos)
		require.True(t, p.Alive)
		require.Equal(t, 4, p.MoveTicks)
	}
	e, ok := s.PlayerEntity("blue")
	require.True(t, ok)
	require.Equal(t, s.PlayerEntities()[1], e)
	require.Equal(t, []component.Position{{X: 1, Y: 1}, {X: 13, Y: 11}, {X: 13, Y: 1}, {X: 1, Y: 11}}, spawns)
}

func TestPlayerCountBounds(t *testing.T) {
	_, err := New(Config{Players: []string{"solo"}, Movement: MovementGridSmooth, Rules: DefaultRules()})
	require.ErrorIs(t, err, ErrPlayerCount)

	_, err = New(Config{Players: []string{"a", "b", "c", "d", "e"}, Movement: MovementGridSmooth, Rules: DefaultRules()})
	require.ErrorIs(t, err, ErrPlayerCount)

	_, err = New(Config{Players: []string{"a", "a"}, Movement: MovementGridSmooth, Rules: DefaultRules()})
	require.ErrorIs(t, err, ErrDuplicatePlayer)
}

func TestUnknownMovementModel(t *testing.T) {
	_, err := New(Config{Players: []string{"a", "b"}, Movement: "teleport", Rules: DefaultRules()})
	require.ErrorIs(t, err, ErrMovementModel)
}

func TestRulesValidate(t *testing.T) {
	require.NoError(t, DefaultRules().Validate())

	r := DefaultRules()
	r.Width = 14
	require.ErrorIs(t, r.Validate(), ErrRules)

	r = DefaultRules()
	r.BlockDensity = 1.5
	require.ErrorIs(t, r.Validate(), ErrRules)

	r = DefaultRules()
	r.Powerups = nil
	require.ErrorIs(t, r.Validate(), ErrRules)

	r = DefaultRules()
	r.FlameTicks = 1
	require.ErrorIs(t, r.Validate(), ErrRules, "a one-tick flame could never eliminate")
	r.FlameTicks = 2
	require.NoError(t, r.Validate())
}

func TestMoveTicks(t *testing.T) {
	r := DefaultRules()
	require.Equal(t, 4, r.MoveTicks(0))
	require.Equal(t, 2, r.MoveTicks(2))
	require.Equal(t, 1, r.MoveTicks(10))
}

func TestWalkable(t *testing.T) {
	s := newTestState(t, 5)
	require.False(t, s.Walkable(component.Position{X: 0, Y: 0}, "p1"))
	require.False(t, s.Walkable(component.Position{X: 2, Y: 2}, "p1"))
	require.True(t, s.Walkable(component.Position{X: 2, Y: 1}, "p1"))

	e := s.World.CreateEntity()
	at := component.Position{X: 2, Y: 1}
	s.Positions.Add(e, at)
	s.Bombs.Add(e, component.Bomb{Owner: "p1", OwnerCanPass: true})
	require.True(t, s.Walkable(at, "p1"))
	require.False(t, s.Walkable(at, "p2"))
	require.True(t, s.BlockedForBomb(at))

	// an alive player blocks bombs but not other players
	require.True(t, s.BlockedForBomb(component.Position{X: 1, Y: 1}))
	require.True(t, s.Walkable(component.Position{X: 1, Y: 1}, "p2"))
}

func TestFinishOnce(t *testing.T) {
	s := newTestState(t, 5)
	s.Finish(ReasonTickLimit, "")
	require.True(t, s.Finished())
	require.Panics(t, func() { s.Finish(ReasonTickLimit, "") })
	require.Equal(t, 1, s.Events.Len())
}
