package host

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/l1jgo/bombarena/internal/arena"
	coreassert "github.com/l1jgo/bombarena/internal/core/assert"
	"github.com/l1jgo/bombarena/internal/game"
	"github.com/l1jgo/bombarena/internal/world"
)

func newArena(t *testing.T) game.Module {
	t.Helper()
	m, err := arena.NewModule(world.DefaultRules())
	require.NoError(t, err)
	return m
}

func fastOptions(t *testing.T) Options {
	return Options{Interval: time.Millisecond, Log: zaptest.NewLogger(t)}
}

func TestMatchRunsToTickLimit(t *testing.T) {
	var mu sync.Mutex
	var kinds []string
	opts := fastOptions(t)
	opts.OnEvents = func(_ *Match, events []game.Event) {
		mu.Lock()
		defer mu.Unlock()
		for _, e := range events {
			kinds = append(kinds, e.Payload.EventKind())
		}
	}

	m, err := NewMatch(newArena(t), game.MatchConfig{
		Players: []string{"p1", "p2"},
		Options: map[string]string{arena.OptionMaxTicks: "20"},
	}, 42, opts)
	require.NoError(t, err)
	require.NotEmpty(t, m.ID)
	require.NoError(t, m.Submit("p1", map[string]any{"type": "move", "direction": "right"}, 1))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	res, err := m.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, string(world.ReasonTickLimit), res.Reason)
	assert.Equal(t, uint64(20), res.Ticks)
	assert.Equal(t, uint64(20), m.Snapshot().TickNumber())

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, kinds, world.KindMovementCompleted)
	assert.Equal(t, world.KindRoundOver, kinds[len(kinds)-1])

	_, err = m.Run(ctx)
	require.ErrorIs(t, err, ErrRunning)
}

func TestSubmitRejects(t *testing.T) {
	m, err := NewMatch(newArena(t), game.MatchConfig{Players: []string{"p1", "p2"}}, 1, fastOptions(t))
	require.NoError(t, err)

	require.ErrorIs(t, m.Submit("p1", map[string]any{"type": "fly"}, 1), ErrRejected)
	require.ErrorIs(t, m.SubmitNext("nobody", map[string]any{"type": "stop"}), game.ErrUnknownPlayer)
	require.NoError(t, m.SubmitNext("p2", `{"type":"place_bomb"}`))
}

func TestNewMatchRejectsConfig(t *testing.T) {
	_, err := NewMatch(newArena(t), game.MatchConfig{Players: []string{"solo"}}, 1, fastOptions(t))
	require.ErrorIs(t, err, arena.ErrPlayerCount)
}

func TestRunCancelled(t *testing.T) {
	m, err := NewMatch(newArena(t), game.MatchConfig{Players: []string{"p1", "p2"}}, 1, Options{Interval: 5 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)
	_, err = m.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	<-m.Done()
}

type brokenModule struct{}

func (brokenModule) ID() string    { return "broken" }
func (brokenModule) Title() string { return "Broken" }
func (brokenModule) CreateGame(game.MatchConfig, uint32) (game.Instance, error) {
	return &brokenInstance{}, nil
}
func (brokenModule) ValidateInput(any) game.Validation { return game.Reject("no inputs") }

type brokenInstance struct{ tick uint64 }

func (b *brokenInstance) ApplyInput(string, game.Input, uint64) error { return nil }
func (b *brokenInstance) Tick() {
	b.tick++
	coreassert.True(b.tick < 3, "invariant broken at tick %d", b.tick)
}
func (b *brokenInstance) CurrentTick() uint64             { return b.tick }
func (b *brokenInstance) Snapshot() game.Snapshot         { return nil }
func (b *brokenInstance) EventsSince(uint64) []game.Event { return nil }
func (b *brokenInstance) IsGameOver() bool                { return false }
func (b *brokenInstance) Results() (*game.Results, error) { return nil, game.ErrNotFinished }

func TestContractPanicStopsMatch(t *testing.T) {
	m, err := NewMatch(brokenModule{}, game.MatchConfig{}, 1, fastOptions(t))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err = m.Run(ctx)
	require.ErrorIs(t, err, ErrMatchFailed)
	assert.Contains(t, err.Error(), "invariant broken at tick 3")
}

func TestRunAll(t *testing.T) {
	mod := newArena(t)
	var matches []*Match
	for seed := uint32(1); seed <= 3; seed++ {
		m, err := NewMatch(mod, game.MatchConfig{
			Players: []string{"a", "b"},
			Options: map[string]string{arena.OptionMaxTicks: "10"},
		}, seed, fastOptions(t))
		require.NoError(t, err)
		matches = append(matches, m)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	results, err := RunAll(ctx, matches)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, res := range results {
		assert.Equal(t, uint64(10), res.Ticks)
	}
}

func TestQueueJournal(t *testing.T) {
	m, err := NewMatch(newArena(t), game.MatchConfig{Players: []string{"p1", "p2"}}, 1, fastOptions(t))
	require.NoError(t, err)

	require.NoError(t, m.Submit("p1", map[string]any{"type": "move", "direction": "down"}, 3))
	tick, err := m.Queue("p2", `{"type":"place_bomb"}`)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), tick)
	_, err = m.Queue("p2", map[string]any{"type": "fly"})
	require.ErrorIs(t, err, ErrRejected)

	j := m.Journal()
	require.Len(t, j, 2)
	assert.Equal(t, Accepted{Tick: 3, Player: "p1", Raw: map[string]any{"type": "move", "direction": "down"}}, j[0])
	assert.Equal(t, Accepted{Tick: 1, Player: "p2", Raw: `{"type":"place_bomb"}`}, j[1])
}

func TestJournalMovesPastTicksForward(t *testing.T) {
	m, err := NewMatch(newArena(t), game.MatchConfig{Players: []string{"p1", "p2"}}, 1, fastOptions(t))
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		m.step()
	}

	require.NoError(t, m.Submit("p1", map[string]any{"type": "stop"}, 1))
	require.NoError(t, m.Submit("p2", map[string]any{"type": "stop"}, 9))
	j := m.Journal()
	require.Len(t, j, 2)
	assert.Equal(t, uint64(4), j[0].Tick, "tick 1 already ran; the input lands on tick 4")
	assert.Equal(t, uint64(9), j[1].Tick)
}
