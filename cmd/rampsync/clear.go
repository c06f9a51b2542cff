package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all truck/trailer pairs",
	RunE:  runClear,
}

var clearYes bool

func init() {
	rootCmd.AddCommand(clearCmd)

	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false,
		"Skip the confirmation prompt")
}

func runClear(cmd *cobra.Command, args []string) error {
	count := app.Lookup.DataCount()
	if count == 0 {
		fmt.Println("Nothing to clear")
		return nil
	}

	if !clearYes {
		fmt.Printf("Delete all %d pairs? [y/N] ", count)
		reply, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(reply)), "y") {
			fmt.Println("Aborted")
			return nil
		}
	}

	if err := app.Lookup.Clear(context.Background()); err != nil {
		return err
	}

	color.Green("Cleared %d pairs", count)
	return nil
}
