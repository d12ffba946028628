// Package catalog holds the reference opening tables used for
// classification: a curated list of broad opening families and a
// granular table of named variations keyed by ECO code.
package catalog

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

//go:embed data/*.json
var data embed.FS

var (
	// ErrDuplicateEntry is returned when an (id, name) pair repeats in
	// the granular table.
	ErrDuplicateEntry = errors.New("catalog: duplicate entry")

	// ErrEmpty is returned when a table holds no entries.
	ErrEmpty = errors.New("catalog: empty table")
)

// Entry is one catalog opening.
type Entry struct {
	// ID is an ECO-like code such as "B20".
	ID   string `json:"id"`
	Name string `json:"name"`
	// Moves is the canonical move prefix in PGN movetext form.
	Moves string `json:"pgn"`
}

// Catalog is an immutable pair of opening tables.
type Catalog struct {
	// Known lists the broad families. Order matters: the first entry whose
	// name matches wins, so specific names precede general ones.
	Known []Entry

	// ByECO maps an ECO code to its granular entries, shortest move
	// prefix first.
	ByECO map[string][]Entry

	total int
}

// New builds a catalog from the given tables.
func New(known, granular []Entry) (*Catalog, error) {
	if len(known) == 0 || len(granular) == 0 {
		return nil, ErrEmpty
	}

	seen := make(map[[2]string]struct{}, len(granular))
	byECO := make(map[string][]Entry)
	for _, e := range granular {
		k := [2]string{e.ID, e.Name}
		if _, dup := seen[k]; dup {
			return nil, fmt.Errorf("%w: %s %q", ErrDuplicateEntry, e.ID, e.Name)
		}
		seen[k] = struct{}{}
		byECO[e.ID] = append(byECO[e.ID], e)
	}
	for _, entries := range byECO {
		sort.SliceStable(entries, func(i, j int) bool {
			return len(entries[i].Moves) < len(entries[j].Moves)
		})
	}

	return &Catalog{
		Known: append([]Entry(nil), known...),
		ByECO: byECO,
		total: len(granular),
	}, nil
}

// Load decodes both tables from JSON.
func Load(knownJSON, granularJSON []byte) (*Catalog, error) {
	var known, granular []Entry
	if err := json.Unmarshal(knownJSON, &known); err != nil {
		return nil, fmt.Errorf("decoding known openings: %w", err)
	}
	if err := json.Unmarshal(granularJSON, &granular); err != nil {
		return nil, fmt.Errorf("decoding opening table: %w", err)
	}
	return New(known, granular)
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the embedded catalog. It is loaded once and shared.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		known, err := data.ReadFile("data/known.json")
		if err != nil {
			defaultErr = err
			return
		}
		granular, err := data.ReadFile("data/openings.json")
		if err != nil {
			defaultErr = err
			return
		}
		defaultCat, defaultErr = Load(known, granular)
	})
	return defaultCat, defaultErr
}

// Len returns the number of granular entries.
func (c *Catalog) Len() int {
	return c.total
}

// Lookup finds an entry by exact name, case-insensitively. The known list
// is searched first. A non-empty eco restricts the granular search to that
// code; an empty eco searches every code.
func (c *Catalog) Lookup(name, eco string) (Entry, bool) {
	for _, e := range c.Known {
		if strings.EqualFold(e.Name, name) {
			return e, true
		}
	}
	if eco != "" {
		return find(c.ByECO[eco], name)
	}
	for _, code := range c.Codes() {
		if e, ok := find(c.ByECO[code], name); ok {
			return e, true
		}
	}
	return Entry{}, false
}

// Names returns every granular entry name in code order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, c.total)
	for _, code := range c.Codes() {
		for _, e := range c.ByECO[code] {
			names = append(names, e.Name)
		}
	}
	return names
}

// Codes returns the ECO codes present in the granular table, sorted.
func (c *Catalog) Codes() []string {
	codes := make([]string, 0, len(c.ByECO))
	for code := range c.ByECO {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func find(entries []Entry, name string) (Entry, bool) {
	for _, e := range entries {
		if strings.EqualFold(e.Name, name) {
			return e, true
		}
	}
	return Entry{}, false
}
