package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/l1jgo/bombarena/internal/persist"
	"github.com/l1jgo/bombarena/internal/replay"
)

var flagAgainst string

var verifyCmd = &cobra.Command{
	Use:   "verify <timeline.yaml>...",
	Short: "Replay timelines twice and compare digests",
	Long: `Each timeline is replayed twice on fresh matches. The snapshot and
event digests, snapshot counts and results must match exactly. With
--against, the digest must also equal the one stored for that match.

Examples:
  arenad verify testdata/timelines/duel_grid.yaml testdata/timelines/duel_transit.yaml
  arenad verify --against 5b0e... testdata/timelines/duel_grid.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&flagAgainst, "against", "", "stored match id whose digest must match")
}

func runVerify(cmd *cobra.Command, args []string) error {
	a, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()

	var stored *persist.MatchRecord
	if flagAgainst != "" {
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		sink, err := persist.Open(ctx, a.cfg.Database, a.log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer sink.Close()
		if stored, err = sink.LoadMatch(ctx, flagAgainst); err != nil {
			return err
		}
	}

	failed := 0
	for _, path := range args {
		tl, err := replay.LoadTimeline(path)
		if err != nil {
			return err
		}
		if tl.Ticks > 0 {
			// same cap as run, so digests are comparable with stored ones
			tl = withTickCap(tl)
		}
		out, err := replay.Verify(a.registry, tl)
		if err != nil {
			failed++
			fmt.Printf("FAIL  %s: %v\n", tl.Name, err)
			continue
		}
		if stored != nil && stored.Digest != out.Digest {
			failed++
			fmt.Printf("FAIL  %s: digest %016x, stored %016x\n", tl.Name, out.Digest, stored.Digest)
			continue
		}
		fmt.Printf("ok    %s  digest=%016x  ticks=%d  events=%d\n", tl.Name, out.Digest, out.Ticks, out.Events)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d timelines failed", failed, len(args))
	}
	return nil
}
