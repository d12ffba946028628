package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var variationsCmd = &cobra.Command{
	Use:   "variations PLAYER OPENING",
	Short: "Show the variations played within one opening",
	Long: `Break one opening family down into its catalog variations.

Variations missing from the catalog are grouped as "Unknown".

Examples:
  repertoire variations alice "Sicilian Defense"
  repertoire variations alice "French Defense" --sort weakest`,
	Args: cobra.ExactArgs(2),
	RunE: runVariations,
}

func init() {
	addViewFlags(variationsCmd)
	rootCmd.AddCommand(variationsCmd)
}

func runVariations(cmd *cobra.Command, args []string) error {
	sess, _, err := session(cmd, args[0])
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

	games, err := a.client.Games(ctx, sess.Subject, sess.GameType)
	if err != nil {
		return err
	}
	report := a.client.Analyze(games, sess)

	opening, ok := report.Opening(args[1])
	if !ok {
		msg := fmt.Sprintf("no games in %q", args[1])
		if names := a.client.Classifier().Suggest(args[1], 3); len(names) > 0 {
			msg += fmt.Sprintf("; did you mean %q?", names[0])
		}
		return errors.New(msg)
	}

	fmt.Printf("%s: %d games, %+d points\n\n", opening.Name(), opening.Count(), opening.Points)
	for _, v := range a.client.Variations(opening, sess.Sort) {
		fmt.Printf("%-50s %5d games  %+5d  %5.1f%% wins\n", truncate(v.DisplayName(), 50), v.Count(), v.Points, v.WinRate()*100)
		fmt.Printf("    played:  %s\n", truncate(v.MergedPrefix, 70))
		if v.Entry.Moves != "" {
			fmt.Printf("    book:    %s\n", truncate(v.Entry.Moves, 70))
		}
	}
	return nil
}
