package classify

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/discochess/repertoire/internal/catalog"
	"github.com/discochess/repertoire/internal/game"
)

type countingStats struct {
	counters map[string]int64
}

func (s *countingStats) IncCounter(name string, delta int64) {
	if s.counters == nil {
		s.counters = make(map[string]int64)
	}
	s.counters[name] += delta
}
func (s *countingStats) SetGauge(string, int64)           {}
func (s *countingStats) ObserveHistogram(string, float64) {}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	known := []catalog.Entry{
		{ID: "D43", Name: "Semi-Slav Defense", Moves: "1. d4 d5 2. c4 c6 3. Nf3 Nf6 4. Nc3 e6"},
		{ID: "D10", Name: "Slav Defense", Moves: "1. d4 d5 2. c4 c6"},
		{ID: "B20", Name: "Sicilian Defense", Moves: "1. e4 c5"},
		{ID: "C00", Name: "French Defense", Moves: "1. e4 e6"},
	}
	granular := []catalog.Entry{
		{ID: "B20", Name: "Sicilian Defense", Moves: "1. e4 c5"},
		{ID: "B90", Name: "Sicilian Defense: Dragon Variation", Moves: "1. e4 c5 2. Nf3 d6 3. d4 cxd4 4. Nxd4 Nf6 5. Nc3 g6"},
		{ID: "C00", Name: "French Defense", Moves: "1. e4 e6"},
		{ID: "C00", Name: "French Defense: Knight Variation", Moves: "1. e4 e6 2. Nf3"},
		{ID: "D43", Name: "Semi-Slav Defense", Moves: "1. d4 d5 2. c4 c6 3. Nf3 Nf6 4. Nc3 e6"},
	}
	c, err := catalog.New(known, granular)
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	return c
}

func TestClassify_BroadAndUnknownGranular(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	collector := &countingStats{}
	c := New(testCatalog(t), WithLogger(zap.New(core)), WithStats(collector))

	rec := game.Record{OpeningName: "Sicilian Defense: Najdorf Variation", ECO: "B90"}
	got := c.Classify(rec)

	if got.Broad.Name != "Sicilian Defense" {
		t.Errorf("Broad = %q, want %q", got.Broad.Name, "Sicilian Defense")
	}
	if !IsUnknown(got.Granular) {
		t.Errorf("Granular = %+v, want Unknown", got.Granular)
	}
	if logs.Len() != 1 {
		t.Errorf("logged %d warnings, want 1", logs.Len())
	}
	if n := collector.counters["repertoire_classification_misses_total"]; n != 1 {
		t.Errorf("miss counter = %d, want 1", n)
	}
}

func TestBroad(t *testing.T) {
	c := New(testCatalog(t))

	tests := []struct {
		opening string
		eco     string
		wantID  string
		want    string
	}{
		{"Semi-Slav Defense: Meran Variation", "D47", "D43", "Semi-Slav Defense"},
		{"Slav Defense: Exchange Variation", "D10", "D10", "Slav Defense"},
		{"French Defense: Advance Variation", "C02", "C00", "French Defense"},
		{"Ruy Lopez: Berlin Defense", "C65", "C65", OtherName},
	}

	for _, tt := range tests {
		got := c.Broad(game.Record{OpeningName: tt.opening, ECO: tt.eco})
		if DisplayName(got) != tt.want || got.ID != tt.wantID {
			t.Errorf("Broad(%q) = %s %q, want %s %q", tt.opening, got.ID, DisplayName(got), tt.wantID, tt.want)
		}
	}
}

func TestGranular_CaseInsensitive(t *testing.T) {
	c := New(testCatalog(t))

	got := c.Granular(game.Record{OpeningName: "french defense: knight variation", ECO: "C00"})
	if got.Name != "French Defense: Knight Variation" {
		t.Errorf("Granular() = %q, want French Defense: Knight Variation", got.Name)
	}

	got = c.Granular(game.Record{OpeningName: "French Defense", ECO: "Z99"})
	if !IsUnknown(got) {
		t.Errorf("Granular() with unknown code = %+v, want Unknown", got)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	c := New(testCatalog(t))
	rec := game.Record{OpeningName: "French Defense: Knight Variation", ECO: "C00"}

	first := c.Classify(rec)
	for i := 0; i < 10; i++ {
		if got := c.Classify(rec); got != first {
			t.Fatalf("Classify() = %+v, want %+v", got, first)
		}
	}
}

func TestRuleSet_Order(t *testing.T) {
	slav := catalog.Entry{ID: "D10", Name: "Slav Defense"}
	semi := catalog.Entry{ID: "D43", Name: "Semi-Slav Defense"}

	general := SubstringRules([]catalog.Entry{slav, semi})
	specific := SubstringRules([]catalog.Entry{semi, slav})

	if got, _ := general.Match("Semi-Slav Defense: Meran Variation"); got != slav {
		t.Errorf("general-first Match() = %q, want %q", got.Name, slav.Name)
	}
	if got, _ := specific.Match("Semi-Slav Defense: Meran Variation"); got != semi {
		t.Errorf("specific-first Match() = %q, want %q", got.Name, semi.Name)
	}
	if _, ok := specific.Match("Dutch Defense"); ok {
		t.Error("Match() should miss")
	}
}

func TestWithRules(t *testing.T) {
	gambits := catalog.Entry{ID: "G", Name: "Gambits"}
	rules := RuleSet{{
		Name:  "gambits",
		Match: func(name string) bool { return len(name) > 6 && name[len(name)-6:] == "Gambit" },
		Entry: gambits,
	}}
	c := New(testCatalog(t), WithRules(rules))

	if got := c.Broad(game.Record{OpeningName: "Danish Gambit"}); got != gambits {
		t.Errorf("Broad() = %+v, want %+v", got, gambits)
	}
	if got := c.Broad(game.Record{OpeningName: "French Defense", ECO: "C00"}); !IsOther(got) {
		t.Errorf("Broad() = %+v, want Other", got)
	}
}

func TestResolve(t *testing.T) {
	c := New(testCatalog(t))

	tests := []struct {
		name   string
		eco    string
		want   string
		wantOK bool
	}{
		{"French Defense: Knight Variation", "C00", "French Defense: Knight Variation", true},
		{"French Defense: Knight Var.", "C00", "French Defense", false},
		{"French Defense, Paris", "C00", "French Defense", true},
		{"French Defense: Knight Variation", "B20", "", false},
	}

	for _, tt := range tests {
		got, ok := c.Resolve(tt.name, tt.eco)
		if ok != tt.wantOK {
			t.Errorf("Resolve(%q, %q) ok = %v, want %v", tt.name, tt.eco, ok, tt.wantOK)
			continue
		}
		if ok && got.Name != tt.want {
			t.Errorf("Resolve(%q, %q) = %q, want %q", tt.name, tt.eco, got.Name, tt.want)
		}
	}
}

func TestSuggest(t *testing.T) {
	c := New(testCatalog(t))

	got := c.Suggest("french", 5)
	if len(got) != 2 {
		t.Fatalf("Suggest() = %v, want 2 names", got)
	}
	if got[0] != "French Defense" {
		t.Errorf("Suggest()[0] = %q, want French Defense", got[0])
	}

	if got := c.Suggest("sicilian", 1); len(got) != 1 {
		t.Errorf("Suggest() with limit 1 = %v", got)
	}
}
