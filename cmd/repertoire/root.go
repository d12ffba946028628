package main

import (
	"github.com/spf13/cobra"

	"github.com/discochess/repertoire/internal/config"
)

var (
	// Global flags.
	configPath  string
	dataDir     string
	storeName   string
	verbose     bool
	metricsAddr string
)

var rootCmd = &cobra.Command{
	Use:   "repertoire",
	Short: "Opening statistics for your Lichess games",
	Long: `Repertoire syncs a player's rated Lichess games and groups them by
opening, scoring every game from the player's side of the board.

Games are synced incrementally: each sync fetches only games newer than
the last one stored.

Examples:
  # Fetch your blitz games
  repertoire sync alice --type blitz

  # Openings you score worst in, as black, over the last year
  repertoire report alice --sort weakest --color black --since last-year

  # Variations played within one opening
  repertoire variations alice "Sicilian Defense"`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath(), "configuration file")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "", "directory or database file for synced games (overrides config)")
	rootCmd.PersistentFlags().StringVar(&storeName, "store", "", "store backend: memory, disk, sqlite, s3, gcs (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
}
