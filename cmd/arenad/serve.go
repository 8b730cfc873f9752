package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"reflect"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/l1jgo/bombarena/internal/arena"
	"github.com/l1jgo/bombarena/internal/game"
	"github.com/l1jgo/bombarena/internal/host"
	gonet "github.com/l1jgo/bombarena/internal/net"
	"github.com/l1jgo/bombarena/internal/persist"
	"github.com/l1jgo/bombarena/internal/replay"
	"github.com/l1jgo/bombarena/internal/scripting"
)

var (
	flagPlayers  string
	flagSeed     uint32
	flagMovement string
	flagBind     string
	flagRecord   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Host one live match that clients join over TCP",
	Long: `Clients connect to bind_address and speak newline-delimited JSON. The
first line joins a seat, every later line is an input for the next tick:

  {"player":"p1"}
  {"type":"move","direction":"right"}
  {"type":"place_bomb"}

The server answers each line with {"type":"ack"} or {"type":"error"} and
streams every game event as {"type":"event",...}. When the round ends the
accepted inputs are replayed offline, scored and stored.

Examples:
  arenad serve --players alice,bob
  arenad serve --players a,b,c,d --movement true_transit --record last.yaml`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagPlayers, "players", "p1,p2", "comma-separated player ids, in seat order")
	serveCmd.Flags().Uint32Var(&flagSeed, "seed", 0, "match seed (default: derived from the clock)")
	serveCmd.Flags().StringVar(&flagMovement, "movement", "", "movement model (grid_smooth or true_transit)")
	serveCmd.Flags().StringVar(&flagBind, "bind", "", "listen address (default [server] bind_address)")
	serveCmd.Flags().StringVar(&flagRecord, "record", "", "write the accepted inputs as a timeline to this path")
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bind := flagBind
	if bind == "" {
		bind = a.cfg.Server.BindAddress
	}
	srv, err := gonet.NewServer(bind, a.cfg.Server.InQueueSize, a.cfg.Server.OutQueueSize, a.cfg.Server.MaxMsgPerSec, a.log)
	if err != nil {
		return fmt.Errorf("listen %s: %w", bind, err)
	}
	gw := gonet.NewGateway(srv, a.log)

	seed := flagSeed
	if seed == 0 {
		seed = uint32(time.Now().UnixNano())
	}
	opts := map[string]string{}
	if flagMovement != "" {
		opts[arena.OptionMovement] = flagMovement
	}
	mod, err := a.registry.Get(arena.GameID)
	if err != nil {
		return err
	}
	m, err := host.NewMatch(mod, game.MatchConfig{Players: splitPlayers(flagPlayers), Options: opts}, seed, host.Options{
		Interval: a.cfg.Server.TickInterval(),
		Log:      a.log,
		OnEvents: gw.Broadcast,
	})
	if err != nil {
		return err
	}
	gw.Bind(m)
	a.log.Info("serving match", zap.String("addr", srv.Addr().String()), zap.String("match", m.ID), zap.Uint32("seed", seed))

	var res *game.Results
	gctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(gctx)
	g.Go(func() error { return gw.Serve(gctx) })
	g.Go(func() error {
		// the gateway outlives the round only until the result is in
		defer cancel()
		var err error
		res, err = m.Run(gctx)
		return err
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if res == nil {
		a.log.Info("match abandoned", zap.String("match", m.ID))
		return nil
	}
	return settle(a, m, res)
}

// settle replays the accepted inputs, then scores and stores the match.
func settle(a *app, m *host.Match, res *game.Results) error {
	tl, err := replay.Record(m, m.ID)
	if err != nil {
		return err
	}
	if flagRecord != "" {
		if err := replay.SaveTimeline(flagRecord, tl); err != nil {
			return err
		}
	}
	offline, err := replay.Run(a.registry, tl, nil)
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	if !reflect.DeepEqual(offline.Results, res) {
		return fmt.Errorf("match %s: live results differ from replay", m.ID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	sink, err := persist.Open(ctx, a.cfg.Database, a.log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer sink.Close()
	scripts, err := scripting.NewEngine(a.cfg.Scripting.Dir, a.log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer scripts.Close()

	points := scripts.MatchPoints(scripting.NewPointsContext(res))
	rec := persist.NewMatchRecord(m.ID, m.GameID, m.Seed, movementOf(tl),
		offline.Digest, m.StartedAt, m.FinishedAt(), res, points)
	if err := sink.SaveMatch(ctx, rec); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	printResults("live", m.ID, offline.Digest, res, points)
	return nil
}

func splitPlayers(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
