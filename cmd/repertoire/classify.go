package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/discochess/repertoire/internal/catalog"
	"github.com/discochess/repertoire/internal/classify"
	"github.com/discochess/repertoire/internal/game"
)

var classifyCmd = &cobra.Command{
	Use:   "classify OPENING",
	Short: "Show how an opening name is grouped",
	Long: `Classify an opening name as Lichess reports it, without any stored games.

Examples:
  repertoire classify "Sicilian Defense: Najdorf Variation" --eco B90
  repertoire classify "najdorf" --suggest 5`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

var (
	classifyECO     string
	classifySuggest int
)

func init() {
	classifyCmd.Flags().StringVar(&classifyECO, "eco", "", "ECO code reported with the opening")
	classifyCmd.Flags().IntVar(&classifySuggest, "suggest", 3, "list this many similar catalog names")
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	cat, err := catalog.Default()
	if err != nil {
		return err
	}
	c := classify.New(cat)

	cls := c.Classify(game.Record{OpeningName: args[0], ECO: classifyECO})
	fmt.Printf("Broad:     %s\n", classify.DisplayName(cls.Broad))
	fmt.Printf("Variation: %s\n", classify.DisplayName(cls.Granular))
	if cls.Granular.Moves != "" {
		fmt.Printf("Moves:     %s\n", cls.Granular.Moves)
	} else if e, ok := c.Resolve(args[0], classifyECO); ok {
		fmt.Printf("Closest:   %s (%s)\n", e.Name, e.Moves)
	}

	if classifySuggest > 0 {
		if names := c.Suggest(args[0], classifySuggest); len(names) > 0 {
			fmt.Println("\nSimilar catalog names:")
			for _, n := range names {
				fmt.Printf("  %s\n", n)
			}
		}
	}
	return nil
}
