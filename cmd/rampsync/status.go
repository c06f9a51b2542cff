package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Lorandel/Warehouse-Ramps/internal/models"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show data set size, sync status, and device identity",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	snap := app.Lookup.Snapshot()

	statusStr := string(snap.Status)
	switch snap.Status {
	case models.StatusConnected:
		statusStr = color.GreenString(statusStr)
	case models.StatusDisconnected:
		statusStr = color.YellowString(statusStr)
	}

	fmt.Printf("Pairs on file:  %d\n", snap.DataCount)
	fmt.Printf("Remote status:  %s\n", statusStr)
	if !snap.LastUpdated.IsZero() {
		fmt.Printf("Last updated:   %s\n", snap.LastUpdated.Local().Format("2006-01-02 15:04:05"))
	}
	if snap.DeviceID != "" {
		fmt.Printf("Device ID:      %s\n", snap.DeviceID)
	}
	if snap.LastError != "" {
		fmt.Printf("Warning:        %s\n", color.RedString(snap.LastError))
	}

	return nil
}
