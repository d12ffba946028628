// Package game defines the played-game record and the result and scoring
// types every pipeline stage shares.
package game

import (
	"strings"
	"time"
)

// Type is a time-control bucket.
type Type string

// Known game types. All covers every time control.
const (
	Bullet Type = "bullet"
	Blitz  Type = "blitz"
	Rapid  Type = "rapid"
	All    Type = "all"
)

// Types lists every game type in display order.
var Types = []Type{Bullet, Blitz, Rapid, All}

// TypeFromEvent derives the game type from a raw Event tag.
// Blitz is checked first, then Bullet, then Rapid.
func TypeFromEvent(event string) Type {
	switch {
	case strings.Contains(event, "Blitz"):
		return Blitz
	case strings.Contains(event, "Bullet"):
		return Bullet
	case strings.Contains(event, "Rapid"):
		return Rapid
	}
	return All
}

// ParseType parses a game type name, case-insensitively.
func ParseType(s string) (Type, bool) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Types {
		if t == known {
			return t, true
		}
	}
	return "", false
}

// Date layouts accepted by Record.ValidDate.
const (
	// LayoutUTC is UTCDate and UTCTime joined by "H".
	LayoutUTC = "2006.01.02H15:04:05"
	// LayoutDay is the day-first short form.
	LayoutDay = "02-01-2006"
)

// ParseDate parses a record date in either accepted layout.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range []string{LayoutUTC, LayoutDay} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Key identifies a game for deduplication.
// Two records are the same game iff both fields match.
type Key struct {
	Date string
	PGN  string
}

// Record is one played game. Records are never mutated after parsing.
type Record struct {
	Event       string
	Date        string
	White       string
	Black       string
	Result      string
	Termination string
	// OpeningName is the free-text opening as given by the server.
	OpeningName string
	ECO         string
	PGN         string
	Site        string
}

// GameType returns the time-control bucket derived from Event.
func (r Record) GameType() Type {
	return TypeFromEvent(r.Event)
}

// ValidDate returns the parsed date. It reports false when Date matches
// neither accepted layout; no substitute date is ever returned.
func (r Record) ValidDate() (time.Time, bool) {
	return ParseDate(r.Date)
}

// Key returns the deduplication identity.
func (r Record) Key() Key {
	return Key{Date: r.Date, PGN: r.PGN}
}

// Winner returns the winning username, or "" for a draw.
func (r Record) Winner() string {
	switch r.Result {
	case "1-0":
		return r.White
	case "0-1":
		return r.Black
	}
	return ""
}

// ResultFor returns the outcome from subject's perspective.
func (r Record) ResultFor(subject string) Result {
	winner := r.Winner()
	if winner == "" {
		return Draw
	}
	if strings.EqualFold(winner, subject) {
		return Win
	}
	return Lose
}

// PlayedWhite reports whether subject had the white pieces.
func (r Record) PlayedWhite(subject string) bool {
	return strings.EqualFold(r.White, subject)
}

// PlayedBlack reports whether subject had the black pieces.
func (r Record) PlayedBlack(subject string) bool {
	return strings.EqualFold(r.Black, subject)
}
