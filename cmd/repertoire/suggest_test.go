package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/discochess/repertoire"
	"github.com/discochess/repertoire/internal/aggregate"
	"github.com/discochess/repertoire/internal/catalog"
	"github.com/discochess/repertoire/internal/filter"
	"github.com/discochess/repertoire/internal/game"
)

func namedOpening(name string, points int) *aggregate.Opening {
	o := aggregate.Opening{Entry: catalog.Entry{ID: "A00", Name: name}}
	o.Results = []game.Result{game.Win}
	o.Points = points
	return &o
}

func TestPrintSuggestions(t *testing.T) {
	s := &repertoire.Suggestions{
		Session: repertoire.NewSession("bob", game.Blitz),
		White: repertoire.Picks{
			Color:      filter.White,
			Games:      3,
			MostPlayed: namedOpening("Italian Game", 6),
			Strongest:  namedOpening("Italian Game", 6),
			Weakest:    namedOpening("Vienna Game", -3),
		},
		Black: repertoire.Picks{Color: filter.Black},
	}

	var buf bytes.Buffer
	printSuggestions(&buf, s)
	out := buf.String()

	for _, want := range []string{
		"most played  Italian Game (1 games)",
		"weakest      Vienna Game (-3)",
		"no named openings",
		"With black, steer toward Vienna Game and avoid Italian Game.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("printSuggestions() missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "With white, steer") {
		t.Errorf("printSuggestions() advised white without black picks:\n%s", out)
	}
}

func TestPrintSuggestions_NoVariety(t *testing.T) {
	s := &repertoire.Suggestions{Session: repertoire.NewSession("bob", game.Blitz)}

	var buf bytes.Buffer
	printSuggestions(&buf, s)
	if !strings.Contains(buf.String(), "Not enough variety in bob's games") {
		t.Errorf("printSuggestions() = %q", buf.String())
	}
}
