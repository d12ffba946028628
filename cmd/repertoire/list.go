package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/discochess/repertoire/internal/store"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List players and game types with stored games",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	lister, ok := a.store.(store.Lister)
	if !ok {
		return fmt.Errorf("store backend %q cannot list its contents", a.cfg.Store.Backend)
	}
	keys, err := lister.Keys(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		fmt.Println("No games stored. Run 'repertoire sync PLAYER' first.")
		return nil
	}

	for _, key := range keys {
		games, err := a.store.Load(ctx, key)
		if err != nil {
			return err
		}
		line := fmt.Sprintf("%-20s %-8s %6d games", key.Player, key.GameType, len(games))
		if mark, err := a.store.Watermark(ctx, key); err == nil {
			line += "  last " + mark.Format("2006-01-02 15:04")
		}
		fmt.Println(line)
	}
	return nil
}
