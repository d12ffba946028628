package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/discochess/repertoire/internal/config"
	"github.com/discochess/repertoire/internal/lichess"
	"github.com/discochess/repertoire/internal/syncer"
)

var syncCmd = &cobra.Command{
	Use:   "sync PLAYER",
	Short: "Fetch new games from Lichess",
	Long: `Fetch a player's rated games newer than the last sync and store them.

The first sync of a player with a long history fetches a bounded preview
unless --max is given.

Examples:
  # Blitz only
  repertoire sync alice --type blitz

  # Every time control, at most 500 games each
  repertoire sync alice --type every --max 500`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

var (
	syncTypes []string
	syncMax   int
	syncFull  bool
)

func init() {
	syncCmd.Flags().StringSliceVarP(&syncTypes, "type", "t", []string{"blitz"}, "game types: bullet, blitz, rapid, all, every")
	syncCmd.Flags().IntVar(&syncMax, "max", 0, "fetch at most this many games per type")
	syncCmd.Flags().BoolVar(&syncFull, "full", false, "ignore the last sync and refetch everything")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	player := args[0]
	types, err := parseTypes(syncTypes)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	progressCtx, stopProgress := context.WithCancel(ctx)
	go lichess.WatchProgress(progressCtx, syncMax, func(f float64) {
		fmt.Fprintf(os.Stderr, "\rFetching... %3.0f%%", f*100)
	})

	results, err := a.client.SyncAll(ctx, player, types, syncer.SyncOptions{Max: syncMax, Full: syncFull})
	stopProgress()
	fmt.Fprintln(os.Stderr)

	for _, res := range results {
		if res == nil {
			continue
		}
		fmt.Printf("%-8s %-8s fetched %4d  new %4d  stored %5d", res.Key.GameType, res.Status, res.Fetched, res.Added, len(res.Games))
		if res.Dropped > 0 {
			fmt.Printf("  unreadable %d", res.Dropped)
		}
		if res.Preview {
			fmt.Print("  (preview)")
		}
		fmt.Println()
	}

	switch {
	case errors.Is(err, lichess.ErrNotFound):
		return fmt.Errorf("player %q not found on Lichess", player)
	case errors.Is(err, lichess.ErrUnauthorized):
		return fmt.Errorf("token rejected by Lichess; check %s", config.EnvToken)
	}
	return err
}
