package core

import "strings"

// Tokenize flattens validated CSV text into policy-number tokens.
//
// All non-blank lines are joined with commas, so a row that wraps across
// physical lines reads as one logical row. Fields are trimmed and empty
// fields dropped. Tokens stay strings in source order; "000000000" keeps
// its leading zeros. The result is never nil.
func Tokenize(text string) []string {
	joined := strings.Join(nonBlankLines(text), ",")
	fields := strings.Split(joined, ",")

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
