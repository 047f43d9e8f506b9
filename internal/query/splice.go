package query

import (
	"strings"
	"unicode/utf8"
)

// ReplaceLastToken swaps the last word of the trimmed phrase for tag and
// appends a single space. This is the policy for plain, unquoted search
// boxes.
func ReplaceLastToken(phrase, tag string) string {
	trimmed := strings.TrimSpace(phrase)
	return trimmed[:lastSpaceEnd(trimmed)] + tag + " "
}

// InsertOperator replaces the trailing word of phrase with op followed by a
// space. Content before the trailing word is kept as typed.
func InsertOperator(phrase, op string) string {
	return TrimTrailingWord(phrase) + op + " "
}

// InsertLiteral completes the open quoted tag at the end of phrase with tag
// and closes it with the quote character that opened it. A phrase without
// an open quote falls back to ReplaceLastToken.
func InsertLiteral(phrase, tag string) string {
	idx, quote := LastQuote(phrase)
	if idx < 0 {
		return ReplaceLastToken(phrase, tag)
	}
	end := idx + utf8.RuneLen(quote)
	return phrase[:end] + tag + string(quote)
}
