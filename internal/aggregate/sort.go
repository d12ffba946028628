package aggregate

import (
	"fmt"
	"sort"
	"strings"
)

// Sort orders opening and variation groups.
type Sort int

const (
	// MostPlayed orders by game count, descending.
	MostPlayed Sort = iota
	// Strongest orders by points, descending.
	Strongest
	// Weakest orders by points, ascending.
	Weakest
)

var sortNames = map[Sort]string{
	MostPlayed: "most-played",
	Strongest:  "strongest",
	Weakest:    "weakest",
}

func (s Sort) String() string {
	if name, ok := sortNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Sort(%d)", int(s))
}

// ParseSort parses a sort name. Case, underscores and hyphens are ignored,
// so "mostPlayed", "most_played" and "most-played" are equivalent.
func ParseSort(s string) (Sort, error) {
	norm := strings.NewReplacer("-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	for v, name := range sortNames {
		if norm == strings.ReplaceAll(name, "-", "") {
			return v, nil
		}
	}
	return 0, fmt.Errorf("aggregate: unknown sort %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (s Sort) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Sort) UnmarshalText(text []byte) error {
	parsed, err := ParseSort(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s Sort) less(countI, pointsI, countJ, pointsJ int) bool {
	switch s {
	case Strongest:
		return pointsI > pointsJ
	case Weakest:
		return pointsI < pointsJ
	}
	return countI > countJ
}

// SortOpenings returns a sorted copy of openings with each opening's
// variations sorted the same way. Ties keep their input order.
func SortOpenings(openings []Opening, s Sort) []Opening {
	out := make([]Opening, len(openings))
	for i, o := range openings {
		o.Variations = SortVariations(o.Variations, s)
		out[i] = o
	}
	sort.SliceStable(out, func(i, j int) bool {
		return s.less(out[i].Count(), out[i].Points, out[j].Count(), out[j].Points)
	})
	return out
}

// SortVariations returns a sorted copy of variations. Ties keep their
// input order.
func SortVariations(variations []Variation, s Sort) []Variation {
	out := append([]Variation(nil), variations...)
	sort.SliceStable(out, func(i, j int) bool {
		return s.less(out[i].Count(), out[i].Points, out[j].Count(), out[j].Points)
	})
	return out
}
