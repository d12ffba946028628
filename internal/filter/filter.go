// Package filter narrows a record set by the subject's color, how the game
// ended and when it was played.
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/discochess/repertoire/internal/game"
)

// Color selects games by the subject's pieces.
type Color int

const (
	Either Color = iota
	White
	Black
)

// Termination selects games by how they ended.
type Termination int

const (
	AllTerminations Termination = iota
	// TimeForfeit keeps games lost or won on time.
	TimeForfeit
	// Normal keeps games decided over the board.
	Normal
)

// Timing selects games by recency.
type Timing int

const (
	// AccountCreation keeps every game.
	AccountCreation Timing = iota
	BeginningOfYear
	BeginningOfMonth
	Last20Days
	Last7Days
	Today
	LastYear
)

var (
	colorNames = []string{"either", "white", "black"}

	terminationNames = []string{"all", "time", "normal"}

	timingNames = []string{
		"account-creation",
		"beginning-of-year",
		"beginning-of-month",
		"last-20-days",
		"last-7-days",
		"today",
		"last-year",
	}
)

// Filter is a conjunction of a color, termination and recency stage.
type Filter struct {
	Color       Color       `toml:"color"`
	Termination Termination `toml:"termination"`
	Since       Timing      `toml:"since"`
}

// Default returns the filter that keeps every game.
func Default() Filter {
	return Filter{Color: Either, Termination: AllTerminations, Since: AccountCreation}
}

// Apply returns the records passing every stage, in input order. The
// input slice is not modified.
func (f Filter) Apply(records []game.Record, subject string, now time.Time) []game.Record {
	cutoff := f.Since.Cutoff(now)
	out := make([]game.Record, 0, len(records))
	for _, r := range records {
		if f.Color.Match(r, subject) && f.Termination.Match(r) && f.Since.match(r, cutoff) {
			out = append(out, r)
		}
	}
	return out
}

func (f Filter) String() string {
	return fmt.Sprintf("color=%s termination=%s since=%s", f.Color, f.Termination, f.Since)
}

// Match reports whether subject played r with color c.
func (c Color) Match(r game.Record, subject string) bool {
	switch c {
	case White:
		return r.PlayedWhite(subject)
	case Black:
		return r.PlayedBlack(subject)
	}
	return true
}

// Match reports whether r ended the way t selects.
func (t Termination) Match(r game.Record) bool {
	term := strings.ToLower(r.Termination)
	switch t {
	case TimeForfeit:
		return strings.Contains(term, "time")
	case Normal:
		switch term {
		case "normal", "mate", "resign", "checkmate":
			return true
		}
		return false
	}
	return true
}

// Cutoff returns the start of the window relative to now. AccountCreation
// returns the zero time.
func (t Timing) Cutoff(now time.Time) time.Time {
	y, m, d := now.Date()
	loc := now.Location()
	switch t {
	case BeginningOfYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	case BeginningOfMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	case Last20Days:
		return now.AddDate(0, 0, -20)
	case Last7Days:
		return now.AddDate(0, 0, -7)
	case Today:
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	case LastYear:
		return now.AddDate(-1, 0, 0)
	}
	return time.Time{}
}

// match keeps undated records only when the window is unbounded.
func (t Timing) match(r game.Record, cutoff time.Time) bool {
	if t == AccountCreation {
		return true
	}
	date, ok := r.ValidDate()
	if !ok {
		return false
	}
	return !date.Before(cutoff)
}

func (c Color) String() string       { return name(colorNames, int(c)) }
func (t Termination) String() string { return name(terminationNames, int(t)) }
func (t Timing) String() string      { return name(timingNames, int(t)) }

// ParseColor parses a color name.
func ParseColor(s string) (Color, error) {
	i, err := parse("color", colorNames, s, map[string]string{"both": "either", "any": "either"})
	return Color(i), err
}

// ParseTermination parses a termination name.
func ParseTermination(s string) (Termination, error) {
	i, err := parse("termination", terminationNames, s, map[string]string{"timeforfeit": "time", "any": "all"})
	return Termination(i), err
}

// ParseTiming parses a timing name. Hyphens, underscores and case are
// ignored, so "last7Days" and "last-7-days" are equivalent.
func ParseTiming(s string) (Timing, error) {
	i, err := parse("timing", timingNames, s, map[string]string{"all": "account-creation", "year": "beginning-of-year", "month": "beginning-of-month"})
	return Timing(i), err
}

func (c Color) MarshalText() ([]byte, error)       { return []byte(c.String()), nil }
func (t Termination) MarshalText() ([]byte, error) { return []byte(t.String()), nil }
func (t Timing) MarshalText() ([]byte, error)      { return []byte(t.String()), nil }

func (c *Color) UnmarshalText(text []byte) (err error) {
	*c, err = ParseColor(string(text))
	return err
}

func (t *Termination) UnmarshalText(text []byte) (err error) {
	*t, err = ParseTermination(string(text))
	return err
}

func (t *Timing) UnmarshalText(text []byte) (err error) {
	*t, err = ParseTiming(string(text))
	return err
}

func name(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("invalid(%d)", i)
	}
	return names[i]
}

func normalize(s string) string {
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s)))
}

func parse(kind string, names []string, s string, aliases map[string]string) (int, error) {
	norm := normalize(s)
	if alias, ok := aliases[norm]; ok {
		norm = normalize(alias)
	}
	for i, n := range names {
		if normalize(n) == norm {
			return i, nil
		}
	}
	return 0, fmt.Errorf("filter: unknown %s %q", kind, s)
}
