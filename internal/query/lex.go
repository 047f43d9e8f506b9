package query

import (
	"errors"
	"strings"
	"unicode"
)

// ErrUnterminatedLiteral is returned by Lex when the phrase ends inside a
// quoted tag.
var ErrUnterminatedLiteral = errors.New("unterminated quoted tag")

// TokenKind classifies a lexed token.
type TokenKind int

const (
	// TokenWord is a bare, unquoted word.
	TokenWord TokenKind = iota
	// TokenLiteral is the content of a quoted tag with escapes removed.
	TokenLiteral
	// TokenOperator is a keyword from the operator table.
	TokenOperator
)

func (k TokenKind) String() string {
	switch k {
	case TokenWord:
		return "word"
	case TokenLiteral:
		return "literal"
	case TokenOperator:
		return "operator"
	default:
		return "unknown"
	}
}

// Token is one lexed unit of a query. Start and End are byte offsets into
// the phrase; for literals they include the quotes.
type Token struct {
	Kind  TokenKind `json:"kind" yaml:"kind"`
	Value string    `json:"value" yaml:"value"`
	Start int       `json:"start" yaml:"start"`
	End   int       `json:"end" yaml:"end"`
}

type lexer struct {
	phrase  string
	tokens  []Token
	word    strings.Builder
	start   int
	inWord  bool
	literal bool
}

// Lex splits phrase into words, quoted literals and operators. Any unescaped
// quote character closes an open literal, matching Classify. When the
// phrase ends inside a literal, the tokens lexed so far are returned along
// with ErrUnterminatedLiteral.
func Lex(phrase string) ([]Token, error) {
	lx := &lexer{phrase: phrase}
	escaped := false
	for i, r := range phrase {
		switch {
		case escaped:
			escaped = false
			lx.add(i, r)
		case r == escapeChar:
			escaped = true
			lx.begin(i)
		case IsQuote(r):
			if lx.literal {
				lx.closeLiteral(i + 1)
			} else {
				lx.flushWord(i)
				lx.literal = true
				lx.inWord = true
				lx.start = i
			}
		case lx.literal:
			lx.add(i, r)
		case unicode.IsSpace(r):
			lx.flushWord(i)
		case r == '(' || r == ')':
			lx.flushWord(i)
			lx.tokens = append(lx.tokens, Token{Kind: TokenOperator, Value: string(r), Start: i, End: i + 1})
		case r == '-' && !lx.inWord:
			lx.tokens = append(lx.tokens, Token{Kind: TokenOperator, Value: "-", Start: i, End: i + 1})
		default:
			lx.add(i, r)
		}
	}
	if lx.literal {
		return lx.tokens, ErrUnterminatedLiteral
	}
	lx.flushWord(len(phrase))
	return lx.tokens, nil
}

func (lx *lexer) begin(i int) {
	if !lx.inWord {
		lx.inWord = true
		lx.start = i
	}
}

func (lx *lexer) add(i int, r rune) {
	lx.begin(i)
	lx.word.WriteRune(r)
}

func (lx *lexer) closeLiteral(end int) {
	lx.tokens = append(lx.tokens, Token{Kind: TokenLiteral, Value: lx.word.String(), Start: lx.start, End: end})
	lx.word.Reset()
	lx.literal = false
	lx.inWord = false
}

func (lx *lexer) flushWord(end int) {
	if !lx.inWord {
		return
	}
	val := lx.word.String()
	lx.word.Reset()
	lx.inWord = false
	if val == "" {
		return
	}
	if op, ok := LookupOperator(val); ok {
		lx.tokens = append(lx.tokens, Token{Kind: TokenOperator, Value: op.Literal, Start: lx.start, End: end})
		return
	}
	lx.tokens = append(lx.tokens, Token{Kind: TokenWord, Value: val, Start: lx.start, End: end})
}
