package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Lorandel/Warehouse-Ramps/internal/models"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stay running and report data changes from other devices",
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	snap := app.Lookup.Snapshot()
	if snap.Status != models.StatusConnected {
		return fmt.Errorf("remote store unavailable, nothing to watch")
	}

	cancel := app.Lookup.Subscribe(func(n models.ChangeNotice) {
		fmt.Printf("%s data changed: %d pairs on file\n",
			color.CyanString(n.Timestamp.Local().Format("15:04:05")), n.DataCount)
	})
	defer cancel()

	fmt.Printf("Watching for changes (%d pairs on file), Ctrl-C to stop\n", snap.DataCount)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	<-interrupt

	fmt.Println("\nStopped")
	return nil
}
