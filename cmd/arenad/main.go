// arenad runs and verifies deterministic bomberman matches.
//
// Usage:
//
//	arenad run <timeline.yaml>...      - play timelines in real time and store the results
//	arenad serve --players a,b              - host one live match over TCP
//	arenad verify <timeline.yaml>...   - replay each timeline twice and compare digests
//	arenad leaderboard                 - show the top players from the match store
//	arenad games                       - list registered games
//
// Global flags:
//
//	--config <path>  - config file (default: $ARENA_CONFIG or config/arena.toml)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var flagConfig string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "arenad",
	Short:         "Deterministic bomberman match runner",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default $ARENA_CONFIG or config/arena.toml)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(gamesCmd)
}
