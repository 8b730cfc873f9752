package replay

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/bombarena/internal/arena"
	"github.com/l1jgo/bombarena/internal/game"
	"github.com/l1jgo/bombarena/internal/world"
)

func newRegistry(t *testing.T) *game.Registry {
	t.Helper()
	reg := game.NewRegistry()
	require.NoError(t, arena.Register(reg, world.DefaultRules()))
	return reg
}

func TestVerifyRecordedTimelines(t *testing.T) {
	reg := newRegistry(t)
	for _, name := range []string{"duel_grid.yaml", "duel_transit.yaml"} {
		t.Run(name, func(t *testing.T) {
			tl, err := LoadTimeline(filepath.Join("..", "..", "testdata", "timelines", name))
			require.NoError(t, err)
			require.Len(t, tl.Inputs, 5)

			out, err := Verify(reg, tl)
			require.NoError(t, err)
			assert.LessOrEqual(t, out.Ticks, uint64(80))
			assert.Equal(t, int(out.Ticks), out.Snapshots)
			assert.Positive(t, out.Events)
		})
	}
}

func TestModelsDiverge(t *testing.T) {
	reg := newRegistry(t)
	grid, err := LoadTimeline(filepath.Join("..", "..", "testdata", "timelines", "duel_grid.yaml"))
	require.NoError(t, err)
	transit, err := LoadTimeline(filepath.Join("..", "..", "testdata", "timelines", "duel_transit.yaml"))
	require.NoError(t, err)

	a, err := Run(reg, grid, nil)
	require.NoError(t, err)
	b, err := Run(reg, transit, nil)
	require.NoError(t, err)
	assert.NotEqual(t, a.Digest, b.Digest)
}

func TestRunObservesEvents(t *testing.T) {
	reg := newRegistry(t)
	tl, err := ParseTimeline([]byte(`
game: bomberman
seed: 3
players: [a, b]
ticks: 5
inputs:
  - {tick: 1, player: a, input: {type: place_bomb}}
`))
	require.NoError(t, err)

	var kinds []string
	out, err := Run(reg, tl, func(_ uint64, events []game.Event) {
		for _, e := range events {
			kinds = append(kinds, e.Payload.EventKind())
		}
	})
	require.NoError(t, err)
	assert.Equal(t, []string{world.KindBombPlaced}, kinds)
	assert.Equal(t, uint64(5), out.Ticks)
	assert.False(t, out.Finished)
	assert.Nil(t, out.Results)
}

func TestRunRejectsBadInput(t *testing.T) {
	reg := newRegistry(t)
	tl, err := ParseTimeline([]byte(`
game: bomberman
seed: 1
players: [a, b]
inputs:
  - {tick: 1, player: a, input: {type: teleport}}
`))
	require.NoError(t, err)
	_, err = Run(reg, tl, nil)
	require.ErrorIs(t, err, ErrRejected)
}

func TestRunErrors(t *testing.T) {
	reg := newRegistry(t)

	_, err := Run(reg, &Timeline{Game: "chess"}, nil)
	require.ErrorIs(t, err, game.ErrUnknownGame)

	_, err = Run(reg, &Timeline{Game: arena.GameID, Players: []string{"solo"}}, nil)
	require.ErrorIs(t, err, arena.ErrPlayerCount)

	_, err = Run(reg, &Timeline{
		Game:    arena.GameID,
		Players: []string{"a", "b"},
		Inputs:  []InputEntry{{Tick: 1, Player: "ghost", Input: map[string]any{"type": "stop"}}},
	}, nil)
	require.ErrorIs(t, err, game.ErrUnknownPlayer)
}

func TestParseTimelineErrors(t *testing.T) {
	_, err := ParseTimeline([]byte("seed: 1\n"))
	require.Error(t, err)
	_, err = ParseTimeline([]byte("game: bomberman\ninputs:\n  - {tick: 0, player: a, input: {type: stop}}\n"))
	require.Error(t, err)
	_, err = ParseTimeline([]byte("game: [\n"))
	require.Error(t, err)
}
