// Package classify assigns catalog openings to game records at two levels:
// a broad family chosen by ordered rules and a granular variation looked up
// by ECO code and exact name.
package classify

import (
	"strings"

	"go.uber.org/zap"

	"github.com/discochess/repertoire/internal/catalog"
	"github.com/discochess/repertoire/internal/game"
	"github.com/discochess/repertoire/internal/stats"
)

// OtherName is the display name of the broad fallback.
const OtherName = "Other"

// Unknown is returned when no granular entry matches a record.
var Unknown = catalog.Entry{Name: "Unknown"}

// IsOther reports whether e is the broad fallback, which carries the
// record's ECO code and an empty name.
func IsOther(e catalog.Entry) bool {
	return e.Name == ""
}

// IsUnknown reports whether e is the granular fallback.
func IsUnknown(e catalog.Entry) bool {
	return e == Unknown
}

// DisplayName returns the name to show for a broad entry.
func DisplayName(e catalog.Entry) string {
	if IsOther(e) {
		return OtherName
	}
	return e.Name
}

// Rule maps an opening name to a broad entry.
type Rule struct {
	Name  string
	Match func(openingName string) bool
	Entry catalog.Entry
}

// RuleSet is an ordered rule list. The first matching rule wins.
type RuleSet []Rule

// SubstringRules builds one rule per known entry, in order. A rule matches
// when the entry name occurs in the opening name.
func SubstringRules(known []catalog.Entry) RuleSet {
	rules := make(RuleSet, 0, len(known))
	for _, e := range known {
		name := e.Name
		rules = append(rules, Rule{
			Name:  name,
			Match: func(openingName string) bool { return strings.Contains(openingName, name) },
			Entry: e,
		})
	}
	return rules
}

// Match returns the entry of the first matching rule.
func (rs RuleSet) Match(openingName string) (catalog.Entry, bool) {
	for _, r := range rs {
		if r.Match(openingName) {
			return r.Entry, true
		}
	}
	return catalog.Entry{}, false
}

// Classification is the pair of entries assigned to one record.
type Classification struct {
	Broad    catalog.Entry
	Granular catalog.Entry
}

// Classifier classifies records against a catalog. It is safe for
// concurrent use.
type Classifier struct {
	catalog *catalog.Catalog
	rules   RuleSet
	logger  *zap.Logger
	stats   stats.Collector
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithRules replaces the broad rules derived from the catalog.
func WithRules(rules RuleSet) Option {
	return func(c *Classifier) { c.rules = rules }
}

// WithLogger sets the logger used to report granular misses.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Classifier) { c.logger = logger.Named("classify") }
}

// WithStats sets the collector counting granular misses.
func WithStats(collector stats.Collector) Option {
	return func(c *Classifier) { c.stats = collector }
}

// New creates a classifier over cat.
func New(cat *catalog.Catalog, opts ...Option) *Classifier {
	c := &Classifier{
		catalog: cat,
		rules:   SubstringRules(cat.Known),
		logger:  zap.NewNop(),
		stats:   stats.NewNoop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Catalog returns the catalog the classifier reads.
func (c *Classifier) Catalog() *catalog.Catalog {
	return c.catalog
}

// Broad returns the family of rec, or the fallback entry carrying rec's
// ECO code when no rule matches.
func (c *Classifier) Broad(rec game.Record) catalog.Entry {
	if e, ok := c.rules.Match(rec.OpeningName); ok {
		return e
	}
	return catalog.Entry{ID: rec.ECO}
}

// Granular returns the catalog variation whose code is rec.ECO and whose
// name equals rec.OpeningName ignoring case. Misses return Unknown.
func (c *Classifier) Granular(rec game.Record) catalog.Entry {
	for _, e := range c.catalog.ByECO[rec.ECO] {
		if strings.EqualFold(e.Name, rec.OpeningName) {
			return e
		}
	}
	c.logger.Warn("no catalog entry for opening",
		zap.String("eco", rec.ECO),
		zap.String("opening", rec.OpeningName),
	)
	c.stats.IncCounter(stats.MetricClassificationMisses, 1)
	return Unknown
}

// Classify returns both levels for rec.
func (c *Classifier) Classify(rec game.Record) Classification {
	return Classification{Broad: c.Broad(rec), Granular: c.Granular(rec)}
}
