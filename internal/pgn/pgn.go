// Package pgn turns a raw multi-game PGN export into game records.
//
// Parsing is deliberately lenient about layout and strict about content:
// a block missing any required tag, its movetext or a readable date is
// dropped and counted, never partially kept.
package pgn

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/discochess/repertoire/internal/game"
	"github.com/discochess/repertoire/internal/stats"
)

// Tag names read from every block.
const (
	TagEvent       = "Event"
	TagSite        = "Site"
	TagUTCDate     = "UTCDate"
	TagUTCTime     = "UTCTime"
	TagWhite       = "White"
	TagBlack       = "Black"
	TagResult      = "Result"
	TagTermination = "Termination"
	TagOpening     = "Opening"
	TagECO         = "ECO"
)

// eventToken separates games in an export.
const eventToken = "[" + TagEvent + " "

var (
	// ErrMissingTag is returned when a required tag is absent.
	ErrMissingTag = errors.New("pgn: missing tag")

	// ErrNoMoves is returned when a block has no movetext.
	ErrNoMoves = errors.New("pgn: no movetext")

	// ErrBadDate is returned when UTCDate and UTCTime do not form a date.
	ErrBadDate = errors.New("pgn: unparseable date")
)

// Batch is the outcome of parsing one export.
type Batch struct {
	Records []game.Record
	// Dropped counts blocks that failed to parse.
	Dropped int
}

// Parser parses exports and reports what it dropped.
type Parser struct {
	logger *zap.Logger
	stats  stats.Collector
}

// NewParser creates a parser. Nil arguments fall back to no-ops.
func NewParser(logger *zap.Logger, collector stats.Collector) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	if collector == nil {
		collector = stats.NewNoop()
	}
	return &Parser{logger: logger.Named("pgn"), stats: collector}
}

// Parse splits raw into blocks and parses each one.
func (p *Parser) Parse(raw string) Batch {
	var b Batch
	for i, block := range Split(raw) {
		rec, err := ParseBlock(block)
		if err != nil {
			b.Dropped++
			p.logger.Debug("dropping block", zap.Int("block", i), zap.Error(err))
			continue
		}
		b.Records = append(b.Records, rec)
	}
	p.stats.IncCounter(stats.MetricParsedRecords, int64(len(b.Records)))
	if b.Dropped > 0 {
		p.stats.IncCounter(stats.MetricParseDropped, int64(b.Dropped))
	}
	return b
}

// Parse parses raw without logging or metrics.
func Parse(raw string) Batch {
	return NewParser(nil, nil).Parse(raw)
}

// Split cuts an export into per-game blocks, each starting with the Event
// tag. Anything before the first Event tag is discarded.
func Split(raw string) []string {
	parts := strings.Split(raw, eventToken)
	if len(parts) < 2 {
		return nil
	}
	blocks := make([]string, 0, len(parts)-1)
	for _, part := range parts[1:] {
		if strings.TrimSpace(part) == "" {
			continue
		}
		blocks = append(blocks, eventToken+part)
	}
	return blocks
}

// ParseBlock parses one game block.
func ParseBlock(block string) (game.Record, error) {
	var (
		rec game.Record
		err error
	)

	required := []struct {
		tag string
		dst *string
	}{
		{TagEvent, &rec.Event},
		{TagWhite, &rec.White},
		{TagBlack, &rec.Black},
		{TagResult, &rec.Result},
		{TagTermination, &rec.Termination},
		{TagOpening, &rec.OpeningName},
		{TagECO, &rec.ECO},
	}
	for _, r := range required {
		if *r.dst, err = requireTag(block, r.tag); err != nil {
			return game.Record{}, err
		}
	}

	day, err := requireTag(block, TagUTCDate)
	if err != nil {
		return game.Record{}, err
	}
	clock, err := requireTag(block, TagUTCTime)
	if err != nil {
		return game.Record{}, err
	}
	rec.Date = day + "H" + clock
	if _, ok := game.ParseDate(rec.Date); !ok {
		return game.Record{}, fmt.Errorf("%w: %q", ErrBadDate, rec.Date)
	}

	rec.Site, _ = Tag(block, TagSite)

	if rec.PGN = Movetext(block); rec.PGN == "" {
		return game.Record{}, ErrNoMoves
	}
	return rec, nil
}

// Tag returns the value of tag in block with surrounding quotes removed.
func Tag(block, tag string) (string, bool) {
	open := "[" + tag + " "
	start := strings.Index(block, open)
	if start < 0 {
		return "", false
	}
	rest := block[start+len(open):]
	end := strings.Index(rest, "]")
	if end < 0 {
		return "", false
	}
	return strings.Trim(strings.TrimSpace(rest[:end]), `"`), true
}

func requireTag(block, tag string) (string, error) {
	v, ok := Tag(block, tag)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingTag, tag)
	}
	return v, nil
}

// Movetext returns everything from the first move number to the end of
// the block, trimmed. It returns "" when the block has no moves.
func Movetext(block string) string {
	body := block
	if i := strings.Index(block, "\n\n"); i >= 0 {
		body = block[i:]
	}
	start := strings.Index(body, "1. ")
	if start < 0 {
		return ""
	}
	return strings.TrimSpace(body[start:])
}
