package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/l1jgo/bombarena/internal/game"
)

// Engine wraps a single gopher-lua VM. Matches finish on their own
// goroutines, so every call takes the VM lock.
type Engine struct {
	mu  sync.Mutex
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given
// directory. Missing subdirectories are skipped.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if err := e.loadDir(filepath.Join(scriptsDir, "scoring")); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scoring scripts: %w", err)
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vm.Close()
}

// PointsEntry is one player as seen by the points formula.
type PointsEntry struct {
	PlayerID string
	Rank     int
	Score    int
	Alive    bool
}

// PointsContext is the packed input of calc_match_points.
type PointsContext struct {
	Players int
	Reason  string
	Results []PointsEntry
}

func NewPointsContext(res *game.Results) PointsContext {
	ctx := PointsContext{
		Players: len(res.Entries),
		Reason:  res.Reason,
		Results: make([]PointsEntry, len(res.Entries)),
	}
	for i, r := range res.Entries {
		ctx.Results[i] = PointsEntry{PlayerID: r.PlayerID, Rank: r.Rank, Score: r.Score, Alive: r.Alive}
	}
	return ctx
}

// fallbackPoints is used when the script is missing or misbehaves.
func fallbackPoints(ctx PointsContext) []int {
	out := make([]int, len(ctx.Results))
	for i, r := range ctx.Results {
		out[i] = r.Score * 10
	}
	return out
}

// MatchPoints calls the Lua calc_match_points function. It returns one
// integer per result entry, in entry order.
func (e *Engine) MatchPoints(ctx PointsContext) []int {
	e.mu.Lock()
	defer e.mu.Unlock()

	fn := e.vm.GetGlobal("calc_match_points")
	if fn == lua.LNil {
		e.log.Warn("lua function calc_match_points not found")
		return fallbackPoints(ctx)
	}

	t := e.vm.NewTable()
	t.RawSetString("players", lua.LNumber(ctx.Players))
	t.RawSetString("reason", lua.LString(ctx.Reason))
	results := e.vm.NewTable()
	for _, r := range ctx.Results {
		row := e.vm.NewTable()
		row.RawSetString("player_id", lua.LString(r.PlayerID))
		row.RawSetString("rank", lua.LNumber(r.Rank))
		row.RawSetString("score", lua.LNumber(r.Score))
		row.RawSetString("alive", lua.LBool(r.Alive))
		results.Append(row)
	}
	t.RawSetString("results", results)

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua calc_match_points error", zap.Error(err))
		return fallbackPoints(ctx)
	}

	ret := e.vm.Get(-1)
	e.vm.Pop(1)

	tbl, ok := ret.(*lua.LTable)
	if !ok || tbl.Len() != len(ctx.Results) {
		e.log.Error("lua calc_match_points returned a malformed table", zap.String("type", ret.Type().String()))
		return fallbackPoints(ctx)
	}
	out := make([]int, len(ctx.Results))
	for i := range out {
		n, ok := tbl.RawGetInt(i + 1).(lua.LNumber)
		if !ok {
			e.log.Error("lua calc_match_points returned a non-number", zap.Int("index", i+1))
			return fallbackPoints(ctx)
		}
		out[i] = int(n)
	}
	return out
}
