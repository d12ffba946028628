package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/discochess/repertoire"
	"github.com/discochess/repertoire/internal/aggregate"
	"github.com/discochess/repertoire/internal/config"
	"github.com/discochess/repertoire/internal/filter"
)

var reportCmd = &cobra.Command{
	Use:   "report PLAYER",
	Short: "Show results grouped by opening",
	Long: `Group a player's stored games by opening family and show how each went.

Sort and filter flags default to the saved preferences; --save stores the
flags given as the new defaults.

Examples:
  repertoire report alice
  repertoire report alice --sort strongest --color white --since last-20-days
  repertoire report alice --termination time --save`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

var (
	reportType        string
	reportSort        string
	reportColor       string
	reportTermination string
	reportSince       string
	reportSave        bool
	reportLimit       int
)

func init() {
	addViewFlags(reportCmd)
	reportCmd.Flags().BoolVar(&reportSave, "save", false, "save sort and filter flags as defaults")
	reportCmd.Flags().IntVar(&reportLimit, "limit", 0, "show at most this many openings")
	rootCmd.AddCommand(reportCmd)
}

func addViewFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&reportType, "type", "t", "blitz", "game type: bullet, blitz, rapid, all")
	cmd.Flags().StringVarP(&reportSort, "sort", "s", "", "most-played, strongest, weakest")
	cmd.Flags().StringVar(&reportColor, "color", "", "either, white, black")
	cmd.Flags().StringVar(&reportTermination, "termination", "", "all, time, normal")
	cmd.Flags().StringVar(&reportSince, "since", "", "account-creation, beginning-of-year, beginning-of-month, last-20-days, last-7-days, today, last-year")
}

// session builds the session for player from saved preferences and flags.
func session(cmd *cobra.Command, player string) (repertoire.Session, config.Preferences, error) {
	gameType, err := parseType(reportType)
	if err != nil {
		return repertoire.Session{}, config.Preferences{}, err
	}
	prefs, err := config.LoadPreferences(config.DefaultPreferencesPath())
	if err != nil {
		return repertoire.Session{}, config.Preferences{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("sort") {
		if prefs.Sort, err = aggregate.ParseSort(reportSort); err != nil {
			return repertoire.Session{}, prefs, err
		}
	}
	if flags.Changed("color") {
		if prefs.Filter.Color, err = filter.ParseColor(reportColor); err != nil {
			return repertoire.Session{}, prefs, err
		}
	}
	if flags.Changed("termination") {
		if prefs.Filter.Termination, err = filter.ParseTermination(reportTermination); err != nil {
			return repertoire.Session{}, prefs, err
		}
	}
	if flags.Changed("since") {
		if prefs.Filter.Since, err = filter.ParseTiming(reportSince); err != nil {
			return repertoire.Session{}, prefs, err
		}
	}

	s := repertoire.NewSession(player, gameType)
	s.Sort = prefs.Sort
	s.Filter = prefs.Filter
	return s, prefs, nil
}

func runReport(cmd *cobra.Command, args []string) error {
	sess, prefs, err := session(cmd, args[0])
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
	if errors.Is(err, repertoire.ErrEmpty) {
		return fmt.Errorf("no %s games stored for %s; run 'repertoire sync %s' first", sess.GameType, sess.Subject, sess.Subject)
	}
	if err != nil {
		return err
	}

	res := <-a.client.AnalyzeAsync(ctx, games, sess)
	if res.Err != nil {
		return res.Err
	}
	printReport(res.Report)

	if reportSave {
		if err := config.SavePreferences(config.DefaultPreferencesPath(), prefs); err != nil {
			return fmt.Errorf("saving preferences: %w", err)
		}
	}
	return nil
}

func printReport(r *repertoire.Report) {
	s := r.Summary
	fmt.Printf("%s, %s games (%s, %s)\n", r.Session.Subject, r.Session.GameType, r.Session.Filter, r.Session.Sort)
	fmt.Printf("Games:  %d of %d\n", s.Games, r.Total)
	fmt.Printf("Result: +%d =%d -%d  (%.1f%% wins)\n", s.Wins, s.Draws, s.Losses, s.WinRate*100)
	fmt.Printf("Points: %+d  (mean %+.2f, sd %.2f)\n\n", s.Points, s.MeanPoints, s.StdDevPoints)

	fmt.Printf("%-40s %-4s %6s %6s %6s %6s %7s\n", "OPENING", "ECO", "GAMES", "WON", "DRAWN", "LOST", "POINTS")
	for i, o := range r.Openings {
		if reportLimit > 0 && i >= reportLimit {
			break
		}
		fmt.Printf("%-40s %-4s %6d %6d %6d %6d %+7d\n", truncate(o.Name(), 40), o.ECO, o.Count(), o.Wins(), o.Draws(), o.Losses(), o.Points)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
