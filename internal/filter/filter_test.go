package filter

import (
	"testing"
	"time"

	"github.com/discochess/repertoire/internal/game"
)

var now = time.Date(2021, time.March, 15, 18, 0, 0, 0, time.UTC)

func records() []game.Record {
	return []game.Record{
		{White: "me", Black: "a", Termination: "Normal", Date: "2021.03.15H09:00:00", PGN: "1. e4"},
		{White: "b", Black: "Me", Termination: "Time forfeit", Date: "2021.03.10H09:00:00", PGN: "1. d4"},
		{White: "ME", Black: "c", Termination: "Time", Date: "2021.02.01H09:00:00", PGN: "1. c4"},
		{White: "d", Black: "me", Termination: "Abandoned", Date: "2020.12.31H23:59:59", PGN: "1. Nf3"},
		{White: "me", Black: "e", Termination: "Normal", Date: "not a date", PGN: "1. f4"},
		{White: "me", Black: "f", Termination: "Normal", Date: "20-02-2020", PGN: "1. b3"},
	}
}

func pgns(rs []game.Record) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.PGN
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestApply(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"default", Default(), []string{"1. e4", "1. d4", "1. c4", "1. Nf3", "1. f4", "1. b3"}},
		{"white", Filter{Color: White}, []string{"1. e4", "1. c4", "1. f4", "1. b3"}},
		{"black", Filter{Color: Black}, []string{"1. d4", "1. Nf3"}},
		{"time", Filter{Termination: TimeForfeit}, []string{"1. d4", "1. c4"}},
		{"normal", Filter{Termination: Normal}, []string{"1. e4", "1. f4", "1. b3"}},
		{"today", Filter{Since: Today}, []string{"1. e4"}},
		{"last 7 days", Filter{Since: Last7Days}, []string{"1. e4", "1. d4"}},
		{"month", Filter{Since: BeginningOfMonth}, []string{"1. e4", "1. d4"}},
		{"year", Filter{Since: BeginningOfYear}, []string{"1. e4", "1. d4", "1. c4"}},
		{"last year", Filter{Since: LastYear}, []string{"1. e4", "1. d4", "1. c4", "1. Nf3"}},
		{"white normal this year", Filter{Color: White, Termination: Normal, Since: BeginningOfYear}, []string{"1. e4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pgns(tt.filter.Apply(records(), "me", now))
			if !equal(got, tt.want) {
				t.Errorf("Apply() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApply_SubsetAndIdempotent(t *testing.T) {
	in := records()
	before := pgns(in)

	for _, f := range []Filter{
		Default(),
		{Color: Black, Since: LastYear},
		{Termination: Normal, Since: Last20Days},
	} {
		once := f.Apply(in, "me", now)
		twice := f.Apply(once, "me", now)
		if !equal(pgns(once), pgns(twice)) {
			t.Errorf("%v: applying twice = %v, once = %v", f, pgns(twice), pgns(once))
		}
		if len(once) > len(in) {
			t.Errorf("%v: result larger than input", f)
		}
	}

	if !equal(pgns(in), before) {
		t.Error("Apply() modified its input")
	}
}

func TestCutoff(t *testing.T) {
	tests := []struct {
		timing Timing
		want   time.Time
	}{
		{AccountCreation, time.Time{}},
		{BeginningOfYear, time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{BeginningOfMonth, time.Date(2021, time.March, 1, 0, 0, 0, 0, time.UTC)},
		{Last20Days, time.Date(2021, time.February, 23, 18, 0, 0, 0, time.UTC)},
		{Last7Days, time.Date(2021, time.March, 8, 18, 0, 0, 0, time.UTC)},
		{Today, time.Date(2021, time.March, 15, 0, 0, 0, 0, time.UTC)},
		{LastYear, time.Date(2020, time.March, 15, 18, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		if got := tt.timing.Cutoff(now); !got.Equal(tt.want) {
			t.Errorf("%v.Cutoff() = %v, want %v", tt.timing, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	if c, err := ParseColor("Both"); err != nil || c != Either {
		t.Errorf("ParseColor(Both) = %v, %v", c, err)
	}
	if c, err := ParseColor("black"); err != nil || c != Black {
		t.Errorf("ParseColor(black) = %v, %v", c, err)
	}
	if tm, err := ParseTermination("time"); err != nil || tm != TimeForfeit {
		t.Errorf("ParseTermination(time) = %v, %v", tm, err)
	}
	if tm, err := ParseTiming("last7Days"); err != nil || tm != Last7Days {
		t.Errorf("ParseTiming(last7Days) = %v, %v", tm, err)
	}
	if tm, err := ParseTiming("beginning_of_month"); err != nil || tm != BeginningOfMonth {
		t.Errorf("ParseTiming(beginning_of_month) = %v, %v", tm, err)
	}
	if _, err := ParseTiming("tomorrow"); err == nil {
		t.Error("ParseTiming(tomorrow) should fail")
	}

	for _, tm := range []Timing{AccountCreation, BeginningOfYear, BeginningOfMonth, Last20Days, Last7Days, Today, LastYear} {
		got, err := ParseTiming(tm.String())
		if err != nil || got != tm {
			t.Errorf("ParseTiming(%q) = %v, %v", tm.String(), got, err)
		}
	}
}
