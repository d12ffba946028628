package pgn

import (
	"errors"
	"strings"
	"testing"
)

const blitzGame = `[Event "Rated Blitz game"]
[Site "https://lichess.org/abcd1234"]
[Date "2021.01.10"]
[White "alice"]
[Black "bob"]
[Result "1-0"]
[UTCDate "2021.01.10"]
[UTCTime "12:00:00"]
[WhiteElo "1500"]
[BlackElo "1480"]
[ECO "B20"]
[Opening "Sicilian Defense"]
[Termination "Normal"]

1. e4 c5 2. Nf3 d6 1-0
`

const bulletGame = `[Event "Rated Bullet game"]
[White "bob"]
[Black "alice"]
[Result "1/2-1/2"]
[UTCDate "2021.01.11"]
[UTCTime "08:30:00"]
[ECO "C00"]
[Opening "French Defense: Knight Variation"]
[Termination "Time forfeit"]

1. e4 e6 2. Nf3 d5 1/2-1/2
`

func TestSplit(t *testing.T) {
	raw := "preamble\n" + blitzGame + "\n" + bulletGame
	blocks := Split(raw)
	if len(blocks) != 2 {
		t.Fatalf("Split() returned %d blocks, want 2", len(blocks))
	}
	for i, b := range blocks {
		if !strings.HasPrefix(b, "[Event ") {
			t.Errorf("block %d does not start with the Event tag: %q", i, b[:20])
		}
	}
	if got := Split("no games here"); got != nil {
		t.Errorf("Split() = %v, want nil", got)
	}
}

func TestParseBlock(t *testing.T) {
	rec, err := ParseBlock(blitzGame)
	if err != nil {
		t.Fatalf("ParseBlock() error = %v", err)
	}

	checks := []struct {
		field, got, want string
	}{
		{"Event", rec.Event, "Rated Blitz game"},
		{"Date", rec.Date, "2021.01.10H12:00:00"},
		{"White", rec.White, "alice"},
		{"Black", rec.Black, "bob"},
		{"Result", rec.Result, "1-0"},
		{"Termination", rec.Termination, "Normal"},
		{"OpeningName", rec.OpeningName, "Sicilian Defense"},
		{"ECO", rec.ECO, "B20"},
		{"PGN", rec.PGN, "1. e4 c5 2. Nf3 d6 1-0"},
		{"Site", rec.Site, "https://lichess.org/abcd1234"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("ParseBlock().%s = %q, want %q", c.field, c.got, c.want)
		}
	}
}

func TestParseBlock_Errors(t *testing.T) {
	tests := []struct {
		name  string
		block string
		want  error
	}{
		{"missing eco", strings.Replace(blitzGame, `[ECO "B20"]`, "", 1), ErrMissingTag},
		{"missing opening", strings.Replace(blitzGame, `[Opening "Sicilian Defense"]`, "", 1), ErrMissingTag},
		{"missing time", strings.Replace(blitzGame, `[UTCTime "12:00:00"]`, "", 1), ErrMissingTag},
		{"no moves", strings.Replace(blitzGame, "1. e4 c5 2. Nf3 d6 1-0", "1-0", 1), ErrNoMoves},
		{"bad date", strings.Replace(blitzGame, `[UTCDate "2021.01.10"]`, `[UTCDate "yesterday"]`, 1), ErrBadDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBlock(tt.block)
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseBlock() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseBlock_SiteOptional(t *testing.T) {
	rec, err := ParseBlock(bulletGame)
	if err != nil {
		t.Fatalf("ParseBlock() error = %v", err)
	}
	if rec.Site != "" {
		t.Errorf("Site = %q, want empty", rec.Site)
	}
}

func TestParse_DropsBadBlocks(t *testing.T) {
	broken := strings.Replace(bulletGame, `[ECO "C00"]`, "", 1)
	raw := blitzGame + "\n" + broken + "\n" + bulletGame

	b := Parse(raw)
	if len(b.Records) != 2 {
		t.Errorf("Parse() kept %d records, want 2", len(b.Records))
	}
	if b.Dropped != 1 {
		t.Errorf("Parse() dropped %d, want 1", b.Dropped)
	}
}

func TestTag(t *testing.T) {
	tests := []struct {
		tag    string
		want   string
		wantOK bool
	}{
		{"White", "alice", true},
		{"WhiteElo", "1500", true},
		{"Opening", "Sicilian Defense", true},
		{"Annotator", "", false},
	}
	for _, tt := range tests {
		got, ok := Tag(blitzGame, tt.tag)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Tag(%q) = %q, %v, want %q, %v", tt.tag, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestTokens(t *testing.T) {
	tests := []struct {
		movetext string
		want     string
	}{
		{"1. e4 c5 2. Nf3 d6 1-0", "e4 c5 Nf3 d6"},
		{"1. e4 { [%clk 0:03:00] } 1... e5 2. Nf3 0-1", "e4 e5 Nf3"},
		{"1.d4 d5 2.c4!? (2. Nf3 Nf6) dxc4 1/2-1/2", "d4 d5 c4 dxc4"},
		{"1. e4 e5 2. Qh5 Nc6 3. Bc4 Nf6 4. Qxf7# 1-0", "e4 e5 Qh5 Nc6 Bc4 Nf6 Qxf7#"},
	}
	for _, tt := range tests {
		if got := strings.Join(Tokens(tt.movetext), " "); got != tt.want {
			t.Errorf("Tokens(%q) = %q, want %q", tt.movetext, got, tt.want)
		}
	}
}

func TestSignature(t *testing.T) {
	tests := []struct {
		movetext string
		plies    int
		want     string
	}{
		{"1. e4 c5 2. Nf3 d6 3. d4 cxd4 1-0", 4, "e4 c5 Nf3 d6"},
		{"1. e4 c5 1-0", 6, "e4 c5"},
		{"1. d4 d5 2. c4 e6 0-1", 0, "d4 d5 c4 e6"},
	}
	for _, tt := range tests {
		if got := Signature(tt.movetext, tt.plies); got != tt.want {
			t.Errorf("Signature(%q, %d) = %q, want %q", tt.movetext, tt.plies, got, tt.want)
		}
	}
}

func TestMoves(t *testing.T) {
	moves, err := Moves("1. e4 e5 2. Nf3 Nc6 3. Bb5 a6 *")
	if err != nil {
		t.Fatalf("Moves() error = %v", err)
	}
	want := []string{"e4", "e5", "Nf3", "Nc6", "Bb5", "a6"}
	if len(moves) != len(want) {
		t.Fatalf("Moves() = %v, want %v", moves, want)
	}
	for i := range want {
		if moves[i] != want[i] {
			t.Errorf("Moves()[%d] = %q, want %q", i, moves[i], want[i])
		}
	}
}
