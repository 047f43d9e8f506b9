// Package query tokenizes boolean tag queries typed into a single search
// field. Every function rescans the whole phrase; nothing is carried between
// calls.
package query

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Position says what the caret at the end of a phrase is completing.
type Position int

const (
	// PositionOperator means the caret sits outside any quoted tag, where
	// boolean keywords are valid completions.
	PositionOperator Position = iota
	// PositionLiteral means the caret sits inside an open quoted tag.
	PositionLiteral
)

func (p Position) String() string {
	switch p {
	case PositionOperator:
		return "operator"
	case PositionLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

const escapeChar = '\\'

// IsQuote reports whether r opens or closes a quoted tag.
func IsQuote(r rune) bool {
	return r == '"' || r == '\''
}

// scanQuotes calls visit for every quote character that is not escaped.
// A backslash escapes exactly the next character, including another
// backslash.
func scanQuotes(phrase string, visit func(idx int, quote rune)) {
	escaped := false
	for i, r := range phrase {
		if escaped {
			escaped = false
			continue
		}
		if r == escapeChar {
			escaped = true
			continue
		}
		if IsQuote(r) {
			visit(i, r)
		}
	}
}

// QuoteCount returns the number of unescaped quote characters in phrase.
// Double and single quotes share one counter.
func QuoteCount(phrase string) int {
	n := 0
	scanQuotes(phrase, func(int, rune) { n++ })
	return n
}

// Classify reports whether the end of phrase is inside a quoted tag.
// An odd quote count means a span is still open.
func Classify(phrase string) Position {
	if QuoteCount(phrase)%2 == 0 {
		return PositionOperator
	}
	return PositionLiteral
}

// LastQuote returns the byte index and character of the last unescaped
// quote in phrase, or -1 and 0 when there is none.
func LastQuote(phrase string) (int, rune) {
	idx, quote := -1, rune(0)
	scanQuotes(phrase, func(i int, r rune) {
		idx, quote = i, r
	})
	return idx, quote
}

// LiteralFragment returns the text typed after the last unescaped quote.
// Without any quote the whole phrase is returned.
func LiteralFragment(phrase string) string {
	idx, quote := LastQuote(phrase)
	if idx < 0 {
		return phrase
	}
	return phrase[idx+utf8.RuneLen(quote):]
}

// lastSpaceEnd returns the byte offset just past the last whitespace rune,
// or 0 when phrase has none.
func lastSpaceEnd(phrase string) int {
	i := strings.LastIndexFunc(phrase, unicode.IsSpace)
	if i < 0 {
		return 0
	}
	_, size := utf8.DecodeRuneInString(phrase[i:])
	return i + size
}

// TrailingWord returns the text after the last whitespace in phrase. A
// phrase ending in whitespace has an empty trailing word.
func TrailingWord(phrase string) string {
	return phrase[lastSpaceEnd(phrase):]
}

// TrimTrailingWord returns phrase without its trailing word.
func TrimTrailingWord(phrase string) string {
	return phrase[:lastSpaceEnd(phrase)]
}

// LastToken returns the trailing word of the trimmed phrase, so a phrase
// ending in whitespace still yields the last word typed.
func LastToken(phrase string) string {
	return TrailingWord(strings.TrimSpace(phrase))
}

// OperatorWord returns the partial keyword being typed in operator
// position: the trailing whitespace-delimited word.
func OperatorWord(phrase string) string {
	return TrailingWord(phrase)
}
