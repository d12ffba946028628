package repertoire

import (
	"github.com/discochess/repertoire/internal/aggregate"
	"github.com/discochess/repertoire/internal/filter"
	"github.com/discochess/repertoire/internal/game"
	"github.com/discochess/repertoire/internal/stats"
)

// Picks are the standout openings of a player with one color. Each is nil
// when no named opening was played with that color.
type Picks struct {
	Color filter.Color
	// Games counts the games with this color that passed the filter.
	Games      int
	MostPlayed *aggregate.Opening
	Strongest  *aggregate.Opening
	Weakest    *aggregate.Opening
}

// Contrasted reports whether the strongest and weakest openings differ.
// Advice built on a single opening says nothing.
func (p Picks) Contrasted() bool {
	return p.Strongest != nil && p.Weakest != nil && p.Strongest.Name() != p.Weakest.Name()
}

// Suggestions holds the picks of a session's subject for both colors.
type Suggestions struct {
	Session Session
	White   Picks
	Black   Picks
}

// Suggest finds, for each color, the opening the subject plays most and
// the ones they score best and worst with. The session's color stage is
// replaced per color; termination and recency still apply.
func (c *Client) Suggest(records []game.Record, session Session) *Suggestions {
	c.stats.IncCounter(stats.MetricAnalyses, 1)
	return &Suggestions{
		Session: session,
		White:   c.picks(records, session, filter.White),
		Black:   c.picks(records, session, filter.Black),
	}
}

func (c *Client) picks(records []game.Record, session Session, color filter.Color) Picks {
	f := session.Filter
	f.Color = color
	filtered := f.Apply(records, session.Subject, c.now())
	openings := c.aggregator.Aggregate(filtered, session.Subject)

	return Picks{
		Color:      color,
		Games:      len(filtered),
		MostPlayed: best(openings, aggregate.MostPlayed),
		Strongest:  best(openings, aggregate.Strongest),
		Weakest:    best(openings, aggregate.Weakest),
	}
}

func best(openings []aggregate.Opening, s aggregate.Sort) *aggregate.Opening {
	o, ok := aggregate.Best(openings, s)
	if !ok {
		return nil
	}
	return &o
}
