package replay

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/l1jgo/bombarena/internal/arena"
	"github.com/l1jgo/bombarena/internal/component"
	"github.com/l1jgo/bombarena/internal/game"
	"github.com/l1jgo/bombarena/internal/host"
	"github.com/l1jgo/bombarena/internal/world"
)

func TestRecordReplaysLiveMatch(t *testing.T) {
	reg := newRegistry(t)
	mod, err := reg.Get(arena.GameID)
	require.NoError(t, err)

	m, err := host.NewMatch(mod, game.MatchConfig{
		Players: []string{"p1", "p2"},
		Options: map[string]string{arena.OptionMaxTicks: "60"},
	}, 2024, host.Options{Interval: time.Millisecond, Log: zaptest.NewLogger(t)})
	require.NoError(t, err)

	require.NoError(t, m.SubmitNext("p1", []byte(`{"type":"place_bomb"}`)))
	require.NoError(t, m.Submit("p1", map[string]string{"type": "move", "direction": "down"}, 2))
	require.NoError(t, m.Submit("p2", `{"type":"move","direction":"left"}`, 5))
	require.NoError(t, m.Submit("p2", map[string]any{"type": "stop"}, 12))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	live, err := m.Run(ctx)
	require.NoError(t, err)

	tl, err := Record(m, "live")
	require.NoError(t, err)
	require.Len(t, tl.Inputs, 4)
	assert.Equal(t, uint64(1), tl.Inputs[0].Tick)
	assert.Equal(t, "place_bomb", tl.Inputs[0].Input["type"])

	path := filepath.Join(t.TempDir(), "live.yaml")
	require.NoError(t, SaveTimeline(path, tl))
	loaded, err := LoadTimeline(path)
	require.NoError(t, err)

	out, err := Verify(reg, loaded)
	require.NoError(t, err)
	require.True(t, out.Finished)
	assert.Equal(t, live, out.Results)
}

func TestRecordLateInputReplaysLikeLive(t *testing.T) {
	reg := newRegistry(t)
	mod, err := reg.Get(arena.GameID)
	require.NoError(t, err)

	var (
		live      []game.Event
		m         *host.Match
		late      sync.Once
		submitErr error
	)
	opts := host.Options{
		Interval: time.Millisecond,
		Log:      zaptest.NewLogger(t),
		// runs on the scheduler goroutine, after the tick released the lock
		OnEvents: func(_ *host.Match, events []game.Event) {
			live = append(live, events...)
			late.Do(func() {
				// tick 1 is over; the instance applies this on tick 2
				submitErr = m.Submit("p1", map[string]any{"type": "move", "direction": "right"}, 1)
			})
		},
	}
	m, err = host.NewMatch(mod, game.MatchConfig{
		Players: []string{"p1", "p2"},
		Options: map[string]string{arena.OptionMaxTicks: "40"},
	}, 77, opts)
	require.NoError(t, err)
	require.NoError(t, m.Submit("p2", map[string]any{"type": "move", "direction": "left"}, 1))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	res, err := m.Run(ctx)
	require.NoError(t, err)
	require.NoError(t, submitErr)

	tl, err := Record(m, "late")
	require.NoError(t, err)
	require.Len(t, tl.Inputs, 2)
	assert.Equal(t, uint64(2), tl.Inputs[1].Tick)

	var replayed []game.Event
	out, err := Run(reg, tl, func(_ uint64, events []game.Event) {
		replayed = append(replayed, events...)
	})
	require.NoError(t, err)
	assert.Equal(t, res, out.Results)
	assert.Equal(t, live, replayed)

	first := uint64(0)
	for _, e := range replayed {
		if mc, ok := e.Payload.(world.MovementCompleted); ok && mc.PlayerID == "p1" {
			first = e.Tick
			break
		}
	}
	assert.Equal(t, uint64(2), first, "p1 first moves on the tick its input was journaled at")
}

func TestInputMapShapes(t *testing.T) {
	got, err := inputMap(world.Input{Kind: world.InputMove, Direction: component.DirLeft})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"type": "move", "direction": "left"}, got)

	got, err = inputMap(json.RawMessage(`{"type":"stop"}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"type": "stop"}, got)
}

func TestInputMapRejectsGarbage(t *testing.T) {
	_, err := inputMap(42)
	require.Error(t, err)
	_, err = inputMap("{not json")
	require.Error(t, err)
}
