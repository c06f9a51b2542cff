package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Look up a trailer by truck or a truck by trailer",
	Example: `  rampsync lookup --truck 123
  rampsync lookup --trailer 154`,
	RunE: runLookup,
}

var (
	lookupTruck   string
	lookupTrailer string
)

func init() {
	rootCmd.AddCommand(lookupCmd)

	lookupCmd.Flags().StringVarP(&lookupTruck, "truck", "t", "",
		"Truck number to resolve")
	lookupCmd.Flags().StringVarP(&lookupTrailer, "trailer", "r", "",
		"Trailer number to resolve (the o- prefix is optional)")
	lookupCmd.MarkFlagsOneRequired("truck", "trailer")
	lookupCmd.MarkFlagsMutuallyExclusive("truck", "trailer")
}

func runLookup(cmd *cobra.Command, args []string) error {
	if lookupTruck != "" {
		trailer, ok := app.Lookup.LookupTrailerByTruck(lookupTruck)
		if !ok {
			return fmt.Errorf("no trailer on file for truck %s", lookupTruck)
		}
		fmt.Printf("truck %s -> trailer %s\n", lookupTruck, color.CyanString(trailer))
		return nil
	}

	truck, ok := app.Lookup.LookupTruckByTrailer(lookupTrailer)
	if !ok {
		return fmt.Errorf("no truck on file for trailer %s", lookupTrailer)
	}
	fmt.Printf("trailer %s -> truck %s\n", lookupTrailer, color.CyanString(truck))
	return nil
}
