package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Lorandel/Warehouse-Ramps/internal/importer"
	"github.com/Lorandel/Warehouse-Ramps/internal/models"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a yard sheet (CSV or TSV)",
	Long: `Import parses a truck/trailer yard sheet and applies it to the data set.

By default the import replaces all existing pairs. With --merge, trucks in
the sheet replace their prior pairs while unrelated pairs are preserved.`,
	Example: `  rampsync import sheet.csv
  rampsync import dock-7.tsv --merge`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var importMerge bool

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().BoolVarP(&importMerge, "merge", "m", false,
		"Merge with existing pairs instead of replacing them")
}

func runImport(cmd *cobra.Command, args []string) error {
	records, err := importer.ParseFile(args[0])
	if err != nil {
		return err
	}

	if err := app.Lookup.UploadImport(context.Background(), records, importMerge); err != nil {
		return err
	}

	mode := "replace"
	if importMerge {
		mode = "merge"
	}

	color.Green("Imported %d pairs (%s mode), %d total", len(records), mode, app.Lookup.DataCount())
	warnIfOffline()
	return nil
}

func warnIfOffline() {
	if snap := app.Lookup.Snapshot(); snap.Status != models.StatusConnected {
		fmt.Println(color.YellowString("Note: remote store unavailable, change saved locally only"))
	}
}
