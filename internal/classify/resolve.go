package classify

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/discochess/repertoire/internal/catalog"
)

// MaxResolveDistance bounds the edit distance accepted by Resolve.
const MaxResolveDistance = 10

// Resolve finds the entry under eco whose lowercase name equals or occurs
// in name, accepting it only within MaxResolveDistance edits. Among
// several candidates the closest wins.
func (c *Classifier) Resolve(name, eco string) (catalog.Entry, bool) {
	lower := strings.ToLower(name)

	var (
		best     catalog.Entry
		bestDist = MaxResolveDistance + 1
	)
	for _, e := range c.catalog.ByECO[eco] {
		candidate := strings.ToLower(e.Name)
		if !strings.Contains(lower, candidate) {
			continue
		}
		if d := fuzzy.LevenshteinDistance(lower, candidate); d < bestDist {
			best, bestDist = e, d
		}
	}
	return best, bestDist <= MaxResolveDistance
}

// Suggest returns up to limit catalog names that fuzzily contain query,
// closest first.
func (c *Classifier) Suggest(query string, limit int) []string {
	ranks := fuzzy.RankFindFold(query, c.catalog.Names())
	sort.Stable(ranks)

	seen := make(map[string]struct{}, len(ranks))
	out := make([]string, 0, limit)
	for _, r := range ranks {
		if _, dup := seen[r.Target]; dup {
			continue
		}
		seen[r.Target] = struct{}{}
		out = append(out, r.Target)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
