package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear PLAYER",
	Short: "Delete a player's stored games",
	Long: `Delete the stored games and sync position for a player, so the next
sync starts over.

Examples:
  repertoire clear alice --type blitz`,
	Args: cobra.ExactArgs(1),
	RunE: runClear,
}

var clearTypes []string

func init() {
	clearCmd.Flags().StringSliceVarP(&clearTypes, "type", "t", []string{"blitz"}, "game types: bullet, blitz, rapid, all, every")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	types, err := parseTypes(clearTypes)
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

	for _, t := range types {
		if err := a.client.Clear(ctx, args[0], t); err != nil {
			return err
		}
		fmt.Printf("Cleared %s %s games\n", args[0], t)
	}
	return nil
}
