package main

import (
	"context"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Lorandel/Warehouse-Ramps/internal/client"
	"github.com/Lorandel/Warehouse-Ramps/internal/config"
	"github.com/Lorandel/Warehouse-Ramps/internal/events"
)

var (
	cfgFile string
	verbose bool

	cfg    *config.Config
	logger *events.Logger
	app    *client.Client
)

var rootCmd = &cobra.Command{
	Use:   "rampsync",
	Short: "Truck/trailer lookup data for the loading-dock yard",
	Long: `Rampsync maintains the truck/trailer reference table behind the
warehouse ramp display: imports yard sheets, answers lookups in both
directions, and keeps every device's copy in sync through the shared store.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app != nil {
			_ = app.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"Config file (default searches ./rampsync.yaml and ~/.config/rampsync)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")
}

func setup(cmd *cobra.Command, args []string) error {
	var err error

	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	if verbose {
		cfg.Log.Level = "debug"
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) || !cfg.Log.Color {
		color.NoColor = true
	}

	logger, err = events.NewLogger(&cfg.Log)
	if err != nil {
		return err
	}

	app, err = client.New(cfg, logger)
	if err != nil {
		return err
	}

	return app.Start(context.Background())
}
