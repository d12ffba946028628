// Package aggregate groups classified games into openings and variations
// and scores them from one player's perspective.
package aggregate

import (
	"unicode/utf8"

	"github.com/discochess/repertoire/internal/catalog"
	"github.com/discochess/repertoire/internal/classify"
	"github.com/discochess/repertoire/internal/game"
)

// tally is the shared result bookkeeping of both grouping levels.
type tally struct {
	Results []game.Result
	Points  int
}

// Wins returns the number of won games.
func (t tally) Wins() int { return game.Count(t.Results, game.Win) }

// Losses returns the number of lost games.
func (t tally) Losses() int { return game.Count(t.Results, game.Lose) }

// Draws returns the number of drawn games.
func (t tally) Draws() int { return game.Count(t.Results, game.Draw) }

// Count returns the number of games.
func (t tally) Count() int { return len(t.Results) }

// WinRate returns wins over games, or 0 for an empty group.
func (t tally) WinRate() float64 {
	if len(t.Results) == 0 {
		return 0
	}
	return float64(t.Wins()) / float64(len(t.Results))
}

// Variation groups games that share a granular catalog entry.
type Variation struct {
	Entry catalog.Entry
	Name  string
	ECO   string
	// Unknown marks the group of games with no granular catalog entry.
	// Entry may still carry reference moves resolved from the first member.
	Unknown bool
	// MergedPrefix is the longest common prefix of the member movetexts,
	// compared rune by rune. It approximates the shared line and may end
	// in the middle of a move.
	MergedPrefix string
	tally
}

// DisplayName returns the name to show for the variation. Unknown groups
// are labeled with the code of their first member.
func (v Variation) DisplayName() string {
	if v.Unknown && v.ECO != "" {
		return v.Name + " (" + v.ECO + ")"
	}
	return v.Name
}

// Opening groups games that share a broad family.
type Opening struct {
	Entry      catalog.Entry
	ECO        string
	Variations []Variation
	tally
}

// Name returns the display name of the opening.
func (o Opening) Name() string {
	return classify.DisplayName(o.Entry)
}

// Aggregator builds opening groups. It is stateless apart from its
// collaborators and safe for concurrent use.
type Aggregator struct {
	classifier *classify.Classifier
	scheme     game.Scheme
}

// New creates an aggregator.
func New(classifier *classify.Classifier, scheme game.Scheme) *Aggregator {
	return &Aggregator{classifier: classifier, scheme: scheme}
}

type groupKey struct {
	id, name string
}

// keyOf returns the grouping key of e. Every broad fallback shares one
// group, whatever code it carries.
func keyOf(e catalog.Entry) groupKey {
	if classify.IsOther(e) {
		return groupKey{}
	}
	return groupKey{id: e.ID, name: e.Name}
}

// Aggregate partitions records by broad family, then by variation, in
// first-seen order. Every record lands in exactly one variation.
func (a *Aggregator) Aggregate(records []game.Record, subject string) []Opening {
	var (
		openings []Opening
		index    = make(map[groupKey]int)
		varIndex = make(map[groupKey]map[groupKey]int)
	)

	for _, rec := range records {
		cls := a.classifier.Classify(rec)
		result := rec.ResultFor(subject)
		points := a.scheme.Points(result)

		bk := keyOf(cls.Broad)
		oi, ok := index[bk]
		if !ok {
			oi = len(openings)
			index[bk] = oi
			varIndex[bk] = make(map[groupKey]int)
			openings = append(openings, newOpening(cls.Broad, rec))
		}
		o := &openings[oi]
		o.Results = append(o.Results, result)
		o.Points += points

		vk := keyOf(cls.Granular)
		vi, ok := varIndex[bk][vk]
		if !ok {
			vi = len(o.Variations)
			varIndex[bk][vk] = vi
			o.Variations = append(o.Variations, a.newVariation(cls.Granular, rec))
		}
		v := &o.Variations[vi]
		v.Results = append(v.Results, result)
		v.Points += points
		v.MergedPrefix = CommonPrefix(v.MergedPrefix, rec.PGN)
	}
	return openings
}

func newOpening(e catalog.Entry, rec game.Record) Opening {
	if classify.IsOther(e) {
		return Opening{}
	}
	return Opening{Entry: e, ECO: rec.ECO}
}

func (a *Aggregator) newVariation(e catalog.Entry, rec game.Record) Variation {
	v := Variation{Entry: e, Name: e.Name, ECO: e.ID, MergedPrefix: rec.PGN}
	if classify.IsUnknown(e) {
		// Unknown variations share one group; the first member supplies
		// the code and, when its name is close to a catalog entry, a
		// reference move prefix.
		v.Unknown = true
		v.ECO = rec.ECO
		if resolved, ok := a.classifier.Resolve(rec.OpeningName, rec.ECO); ok {
			v.Entry.Moves = resolved.Moves
		}
	}
	return v
}

// Best returns the first opening under s, skipping the broad fallback.
// It reports false when no named opening is left.
func Best(openings []Opening, s Sort) (Opening, bool) {
	for _, o := range SortOpenings(openings, s) {
		if !classify.IsOther(o.Entry) {
			return o, true
		}
	}
	return Opening{}, false
}

// CommonPrefix returns the longest common prefix of a and b, compared rune
// by rune.
func CommonPrefix(a, b string) string {
	i := 0
	for i < len(a) && i < len(b) {
		ra, na := utf8.DecodeRuneInString(a[i:])
		rb, nb := utf8.DecodeRuneInString(b[i:])
		if ra != rb || na != nb {
			break
		}
		i += na
	}
	return a[:i]
}
