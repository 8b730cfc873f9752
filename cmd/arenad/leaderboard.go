package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/l1jgo/bombarena/internal/persist"
)

var flagLimit int

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the top players by points",
	Args:  cobra.NoArgs,
	RunE:  runLeaderboard,
}

func init() {
	leaderboardCmd.Flags().IntVar(&flagLimit, "limit", 10, "number of players to show")
}

func runLeaderboard(cmd *cobra.Command, _ []string) error {
	a, cleanup, err := newApp()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()
	sink, err := persist.Open(ctx, a.cfg.Database, a.log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer sink.Close()

	rows, err := sink.TopPlayers(ctx, flagLimit)
	if err != nil {
		return fmt.Errorf("leaderboard: %w", err)
	}
	if len(rows) == 0 {
		fmt.Println("No matches recorded yet.")
		return nil
	}

	fmt.Printf("%-4s  %-16s  %6s  %7s  %4s\n", "RANK", "PLAYER", "POINTS", "MATCHES", "WINS")
	for i, r := range rows {
		fmt.Printf("%-4d  %-16s  %6d  %7d  %4d\n", i+1, r.PlayerID, r.Points, r.Matches, r.Wins)
	}
	return nil
}
