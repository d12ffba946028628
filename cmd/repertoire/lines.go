package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/discochess/repertoire/internal/aggregate"
)

var linesCmd = &cobra.Command{
	Use:   "lines PLAYER",
	Short: "Show the most common opening move sequences",
	Long: `Count the first moves of every stored game that passes the filters.

Examples:
  repertoire lines alice --plies 6 --color black`,
	Args: cobra.ExactArgs(1),
	RunE: runLines,
}

var (
	linesPlies int
	linesLimit int
)

func init() {
	addViewFlags(linesCmd)
	linesCmd.Flags().IntVar(&linesPlies, "plies", 6, "half-moves per line")
	linesCmd.Flags().IntVar(&linesLimit, "limit", 20, "show at most this many lines")
	rootCmd.AddCommand(linesCmd)
}

func runLines(cmd *cobra.Command, args []string) error {
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
	filtered := sess.Filter.Apply(games, sess.Subject, nowFunc())

	for i, line := range aggregate.CommonLines(filtered, linesPlies) {
		if linesLimit > 0 && i >= linesLimit {
			break
		}
		fmt.Printf("%5d  %s\n", line.Count, line.Signature)
	}
	return nil
}
