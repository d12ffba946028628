package aggregate

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/discochess/repertoire/internal/game"
	"github.com/discochess/repertoire/internal/pgn"
)

// Summary holds running totals over a record set.
type Summary struct {
	Games   int
	Wins    int
	Losses  int
	Draws   int
	WinRate float64
	Points  int
	// MeanPoints and StdDevPoints describe the per-game score.
	MeanPoints   float64
	StdDevPoints float64
}

// Summarize totals records from subject's perspective.
func Summarize(records []game.Record, subject string, scheme game.Scheme) Summary {
	s := Summary{Games: len(records)}
	if len(records) == 0 {
		return s
	}

	points := make([]float64, len(records))
	for i, rec := range records {
		r := rec.ResultFor(subject)
		switch r {
		case game.Win:
			s.Wins++
		case game.Lose:
			s.Losses++
		default:
			s.Draws++
		}
		p := scheme.Points(r)
		s.Points += p
		points[i] = float64(p)
	}

	s.WinRate = float64(s.Wins) / float64(s.Games)
	s.MeanPoints = stat.Mean(points, nil)
	if len(points) > 1 {
		s.StdDevPoints = stat.StdDev(points, nil)
	}
	return s
}

// Line is a move sequence and how often it was played.
type Line struct {
	Signature string
	Count     int
}

// CommonLines counts the first plies moves of every record, most frequent
// first. Equal counts are ordered by signature.
func CommonLines(records []game.Record, plies int) []Line {
	counts := make(map[string]int)
	for _, rec := range records {
		sig := pgn.Signature(rec.PGN, plies)
		if sig == "" {
			continue
		}
		counts[sig]++
	}

	lines := make([]Line, 0, len(counts))
	for sig, n := range counts {
		lines = append(lines, Line{Signature: sig, Count: n})
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Count != lines[j].Count {
			return lines[i].Count > lines[j].Count
		}
		return lines[i].Signature < lines[j].Signature
	})
	return lines
}
