package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"reflect"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/l1jgo/bombarena/internal/arena"
	"github.com/l1jgo/bombarena/internal/game"
	"github.com/l1jgo/bombarena/internal/host"
	"github.com/l1jgo/bombarena/internal/persist"
	"github.com/l1jgo/bombarena/internal/replay"
	"github.com/l1jgo/bombarena/internal/scripting"
)

var flagFast bool

var runCmd = &cobra.Command{
	Use:   "run <timeline.yaml>...",
	Short: "Play timelines as live matches and store the results",
	Long: `Each timeline runs as its own match on the configured tick rate. All
matches run concurrently. Finished matches are scored by the Lua points
formula and written to the configured store.

Examples:
  arenad run testdata/timelines/duel_grid.yaml
  arenad run --fast testdata/timelines/*.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&flagFast, "fast", false, "tick as fast as possible instead of at tick_rate")
}

type liveMatch struct {
	timeline *replay.Timeline
	match    *host.Match
}

func runRun(cmd *cobra.Command, args []string) error {
	a, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interval := a.cfg.Server.TickInterval()
	if flagFast {
		interval = time.Millisecond
	}

	var live []liveMatch
	for _, path := range args {
		tl, err := replay.LoadTimeline(path)
		if err != nil {
			return err
		}
		if tl.Ticks > 0 {
			tl = withTickCap(tl)
		}
		m, err := startMatch(a, tl, interval)
		if err != nil {
			return fmt.Errorf("%s: %w", tl.Name, err)
		}
		live = append(live, liveMatch{timeline: tl, match: m})
	}

	matches := make([]*host.Match, len(live))
	for i, l := range live {
		matches[i] = l.match
	}
	results, err := host.RunAll(ctx, matches)
	if err != nil {
		return err
	}

	sinkCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	sink, err := persist.Open(sinkCtx, a.cfg.Database, a.log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer sink.Close()

	scripts, err := scripting.NewEngine(a.cfg.Scripting.Dir, a.log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer scripts.Close()

	for i, l := range live {
		res := results[i]
		// the digest comes from an offline replay of the same timeline;
		// a live run that disagrees with it is not stored
		offline, err := replay.Run(a.registry, l.timeline, nil)
		if err != nil {
			return fmt.Errorf("%s: replay: %w", l.timeline.Name, err)
		}
		if !reflect.DeepEqual(offline.Results, res) {
			return fmt.Errorf("%s: live results differ from replay", l.timeline.Name)
		}

		points := scripts.MatchPoints(scripting.NewPointsContext(res))
		rec := persist.NewMatchRecord(l.match.ID, l.match.GameID, l.match.Seed, movementOf(l.timeline),
			offline.Digest, l.match.StartedAt, l.match.FinishedAt(), res, points)
		if err := sink.SaveMatch(sinkCtx, rec); err != nil {
			return fmt.Errorf("%s: save: %w", l.timeline.Name, err)
		}
		printResults(l.timeline.Name, l.match.ID, offline.Digest, res, points)
	}
	return nil
}

// startMatch creates the match and queues the whole timeline before the
// first tick, so live play applies inputs exactly as a replay does.
func startMatch(a *app, tl *replay.Timeline, interval time.Duration) (*host.Match, error) {
	mod, err := a.registry.Get(tl.Game)
	if err != nil {
		return nil, err
	}
	m, err := host.NewMatch(mod, game.MatchConfig{Players: tl.Players, Options: tl.Options}, tl.Seed, host.Options{
		Interval: interval,
		Log:      a.log,
	})
	if err != nil {
		return nil, err
	}
	for i, in := range tl.Inputs {
		if err := m.Submit(in.Player, in.Input, in.Tick); err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
	}
	a.log.Info("match queued", zap.String("timeline", tl.Name), zap.String("match", m.ID), zap.Int("inputs", len(tl.Inputs)))
	return m, nil
}

// withTickCap turns the timeline's tick cap into the round's max_ticks so
// a live match ends where its replay does.
func withTickCap(tl *replay.Timeline) *replay.Timeline {
	cp := *tl
	cp.Options = make(map[string]string, len(tl.Options)+1)
	for k, v := range tl.Options {
		cp.Options[k] = v
	}
	if n, err := strconv.ParseUint(cp.Options[arena.OptionMaxTicks], 10, 64); err != nil || n > tl.Ticks {
		cp.Options[arena.OptionMaxTicks] = strconv.FormatUint(tl.Ticks, 10)
	}
	return &cp
}

func movementOf(tl *replay.Timeline) string {
	if m := tl.Options[arena.OptionMovement]; m != "" {
		return m
	}
	return "grid_smooth"
}

func printResults(name, id string, digest uint64, res *game.Results, points []int) {
	winner := res.WinnerID
	if winner == "" {
		winner = "-"
	}
	fmt.Printf("%s  match=%s  digest=%016x\n", name, id, digest)
	fmt.Printf("  reason=%s  winner=%s  ticks=%d\n", res.Reason, winner, res.Ticks)
	for i, e := range res.Entries {
		fmt.Printf("  #%d  %-12s  score=%d  points=%d  alive=%v\n", e.Rank, e.PlayerID, e.Score, points[i], e.Alive)
	}
}
