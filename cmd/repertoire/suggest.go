package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/discochess/repertoire"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest PLAYER",
	Short: "Suggest what to play against a player",
	Long: `Find the openings a player plays most with each color and the ones they
score best and worst with, then suggest lines to prepare.

The --color flag is ignored; both colors are always shown.

Examples:
  repertoire suggest bob
  repertoire suggest bob --type rapid --since last-year`,
	Args: cobra.ExactArgs(1),
	RunE: runSuggest,
}

func init() {
	addViewFlags(suggestCmd)
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
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
	printSuggestions(os.Stdout, a.client.Suggest(games, sess))
	return nil
}

func printSuggestions(w io.Writer, s *repertoire.Suggestions) {
	player := s.Session.Subject
	for _, p := range []repertoire.Picks{s.White, s.Black} {
		fmt.Fprintf(w, "With %s (%d games):\n", p.Color, p.Games)
		if p.MostPlayed == nil {
			fmt.Fprintln(w, "  no named openings")
			continue
		}
		fmt.Fprintf(w, "  most played  %s (%d games)\n", p.MostPlayed.Name(), p.MostPlayed.Count())
		fmt.Fprintf(w, "  strongest    %s (%+d)\n", p.Strongest.Name(), p.Strongest.Points)
		fmt.Fprintf(w, "  weakest      %s (%+d)\n", p.Weakest.Name(), p.Weakest.Points)
	}

	// Advice for the opponent takes the other color.
	fmt.Fprintln(w)
	if p := s.Black; p.Contrasted() {
		fmt.Fprintf(w, "With white, steer toward %s and avoid %s.\n", p.Weakest.Name(), p.Strongest.Name())
	}
	if p := s.White; p.Contrasted() {
		fmt.Fprintf(w, "With black, steer toward %s and avoid %s.\n", p.Weakest.Name(), p.Strongest.Name())
	}
	if !s.White.Contrasted() && !s.Black.Contrasted() {
		fmt.Fprintf(w, "Not enough variety in %s's games to suggest a plan.\n", player)
	}
}
