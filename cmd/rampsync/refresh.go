package main

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Pull the latest data set from the remote store",
	Long: `Refresh re-reads the shared remote table and adopts its contents.
It fails when the remote store is unavailable; local data is unaffected.`,
	RunE: runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	if err := app.Lookup.ForceRefresh(context.Background()); err != nil {
		return err
	}

	color.Green("Refreshed, %d pairs on file", app.Lookup.DataCount())
	return nil
}
