package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/l1jgo/bombarena/internal/game"
)

func duel(reason string, loserAlive bool) *game.Results {
	return &game.Results{
		Reason: reason,
		Entries: []game.Result{
			{PlayerID: "p1", Rank: 1, Score: 1, Alive: true},
			{PlayerID: "p2", Rank: 2, Score: 0, Alive: loserAlive},
		},
	}
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "scoring"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scoring", "points.lua"), []byte(body), 0o644))
	return dir
}

func TestShippedPointsScript(t *testing.T) {
	e, err := NewEngine(filepath.Join("..", "..", "scripts"), zaptest.NewLogger(t))
	require.NoError(t, err)
	defer e.Close()

	assert.Equal(t, []int{15, 0}, e.MatchPoints(NewPointsContext(duel("last_player_standing", false))))
	assert.Equal(t, []int{12, 2}, e.MatchPoints(NewPointsContext(duel("tick_limit", true))))
}

func TestFallbackWithoutScript(t *testing.T) {
	e, err := NewEngine(t.TempDir(), zaptest.NewLogger(t))
	require.NoError(t, err)
	defer e.Close()

	assert.Equal(t, []int{10, 0}, e.MatchPoints(NewPointsContext(duel("tick_limit", false))))
}

func TestFallbackOnScriptError(t *testing.T) {
	cases := map[string]string{
		"raises":     `function calc_match_points(ctx) error("boom") end`,
		"wrong type": `function calc_match_points(ctx) return "lots" end`,
		"short":      `function calc_match_points(ctx) return {1} end`,
		"non-number": `function calc_match_points(ctx) return {1, "x"} end`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			e, err := NewEngine(writeScript(t, body), zaptest.NewLogger(t))
			require.NoError(t, err)
			defer e.Close()
			assert.Equal(t, []int{10, 0}, e.MatchPoints(NewPointsContext(duel("last_player_standing", false))))
		})
	}
}

func TestBrokenScriptFailsLoad(t *testing.T) {
	_, err := NewEngine(writeScript(t, `function calc_match_points(`), zaptest.NewLogger(t))
	require.Error(t, err)
}
