package repertoire

import (
	"github.com/discochess/repertoire/internal/aggregate"
	"github.com/discochess/repertoire/internal/filter"
	"github.com/discochess/repertoire/internal/game"
)

// Session is the view a report is built for: whose games, which time
// control, and how to filter and order them.
type Session struct {
	// Subject is the player results are scored for.
	Subject  string
	GameType game.Type
	Filter   filter.Filter
	Sort     aggregate.Sort
}

// NewSession returns an unfiltered session sorted by most played.
func NewSession(subject string, gameType game.Type) Session {
	return Session{
		Subject:  subject,
		GameType: gameType,
		Filter:   filter.Default(),
		Sort:     aggregate.MostPlayed,
	}
}

// Report is the grouped view of a player's games.
type Report struct {
	Session  Session
	Openings []aggregate.Opening
	// Summary covers the games that passed the filter.
	Summary aggregate.Summary
	// Total is the number of games before filtering.
	Total int
}

// Opening returns the group whose display name is name.
func (r *Report) Opening(name string) (aggregate.Opening, bool) {
	for _, o := range r.Openings {
		if o.Name() == name {
			return o, true
		}
	}
	return aggregate.Opening{}, false
}

// AnalysisResult is delivered by AnalyzeAsync.
type AnalysisResult struct {
	Report *Report
	Err    error
}
