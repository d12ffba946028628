package pgn

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/notnil/chess"
)

// Moves decodes movetext into SAN moves.
func Moves(movetext string) ([]string, error) {
	decode, err := chess.PGN(strings.NewReader(movetext))
	if err != nil {
		return nil, fmt.Errorf("decoding movetext: %w", err)
	}
	g := chess.NewGame(decode)

	moves := g.Moves()
	positions := g.Positions()
	san := make([]string, 0, len(moves))
	for i, m := range moves {
		san = append(san, chess.AlgebraicNotation{}.Encode(positions[i], m))
	}
	return san, nil
}

// Signature returns the first plies moves of movetext joined by spaces.
// Movetext the decoder rejects is tokenized lexically instead.
func Signature(movetext string, plies int) string {
	moves, err := Moves(movetext)
	if err != nil || len(moves) == 0 {
		moves = Tokens(movetext)
	}
	if plies > 0 && len(moves) > plies {
		moves = moves[:plies]
	}
	return strings.Join(moves, " ")
}

// Tokens splits movetext into moves without validating them. Move
// numbers, comments, variations, NAGs and the result are skipped.
func Tokens(movetext string) []string {
	var (
		moves []string
		depth int // nesting of {} and ()
	)
	for _, field := range strings.Fields(stripComments(movetext)) {
		switch {
		case field == "(":
			depth++
			continue
		case field == ")":
			if depth > 0 {
				depth--
			}
			continue
		case depth > 0:
			continue
		}

		if isResult(field) || strings.HasPrefix(field, "$") {
			continue
		}
		field = strings.TrimLeftFunc(field, func(r rune) bool { return unicode.IsDigit(r) || r == '.' })
		if field = strings.TrimRight(field, "!?"); field == "" {
			continue
		}
		moves = append(moves, field)
	}
	return moves
}

// stripComments removes brace comments and pads parentheses so variations
// become separate fields.
func stripComments(s string) string {
	var b strings.Builder
	inComment := false
	for _, r := range s {
		switch {
		case r == '{':
			inComment = true
		case r == '}':
			inComment = false
			b.WriteByte(' ')
		case inComment:
		case r == '(' || r == ')':
			b.WriteByte(' ')
			b.WriteRune(r)
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isResult(s string) bool {
	switch s {
	case "1-0", "0-1", "1/2-1/2", "*":
		return true
	}
	return false
}
