package main

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <truck> <trailer>",
	Short: "Add or update a single truck/trailer pair",
	Long: `Add applies one manual pairing. A truck already on file gets its
trailer replaced; a trailer already on file gets its truck replaced;
otherwise a new pair is appended.`,
	Example: `  rampsync add 80 T80
  rampsync add 200 o-154`,
	Args: cobra.ExactArgs(2),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	msg, err := app.Lookup.AddOrUpdatePair(context.Background(), args[0], args[1])
	if err != nil {
		return err
	}

	color.Green("%s", msg)
	warnIfOffline()
	return nil
}
