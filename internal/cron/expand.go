package cron

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Expand normalizes an expression of 4, 5, 6 or 7 tokens into the seven
// canonical tokens (seconds, minutes, hours, day-of-week, day-of-month,
// month, year), filling defaults for omitted fields.
//
// The input is NFKC-normalized first so full-width digits and non-breaking
// spaces tokenize like their ASCII counterparts.
func Expand(expression string) ([fieldCount]string, error) {
	var out [fieldCount]string
	tokens := strings.Fields(norm.NFKC.String(expression))

	switch len(tokens) {
	case 7:
		copy(out[:], tokens)
	case 6:
		out = [fieldCount]string{tokens[0], tokens[1], tokens[2], "*", tokens[3], tokens[4], tokens[5]}
	case 5:
		out = [fieldCount]string{"0", tokens[0], tokens[1], "*", tokens[2], tokens[3], tokens[4]}
	case 4:
		out = [fieldCount]string{"0", "0", tokens[0], "*", tokens[1], tokens[2], tokens[3]}
	default:
		return out, &GrammarError{Expression: expression, Tokens: len(tokens)}
	}
	return out, nil
}
