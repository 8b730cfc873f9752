package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List registered games",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, cleanup, err := newApp()
		if err != nil {
			return err
		}
		defer cleanup()

		for _, info := range a.registry.List() {
			fmt.Printf("%-12s  %s\n", info.ID, info.Title)
		}
		return nil
	},
}
