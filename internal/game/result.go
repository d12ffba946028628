package game

// Result is a game outcome relative to the subject.
type Result int

const (
	Win Result = iota
	Lose
	Draw
)

func (r Result) String() string {
	switch r {
	case Win:
		return "win"
	case Lose:
		return "lose"
	case Draw:
		return "draw"
	}
	return "unknown"
}

// Scheme assigns a point value to each result.
type Scheme struct {
	Win  int `toml:"win"`
	Draw int `toml:"draw"`
	Lose int `toml:"lose"`
}

var (
	// DefaultScheme scores +3 / 0 / -3.
	DefaultScheme = Scheme{Win: 3, Draw: 0, Lose: -3}

	// LegacyScheme scores +5 / +1 / -5.
	LegacyScheme = Scheme{Win: 5, Draw: 1, Lose: -5}
)

// Points returns the score for r.
func (s Scheme) Points(r Result) int {
	switch r {
	case Win:
		return s.Win
	case Lose:
		return s.Lose
	}
	return s.Draw
}

// Total sums the score of every result.
func (s Scheme) Total(results []Result) int {
	var total int
	for _, r := range results {
		total += s.Points(r)
	}
	return total
}

// Count returns how many results equal want.
func Count(results []Result, want Result) int {
	var n int
	for _, r := range results {
		if r == want {
			n++
		}
	}
	return n
}
