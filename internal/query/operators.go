package query

import (
	"sort"
	"strings"
)

// Operator is a boolean keyword of the query language.
type Operator struct {
	Literal     string `json:"literal" yaml:"literal"`
	Description string `json:"description" yaml:"description"`
}

// operatorTable is the closed set of keywords. Keys are matched against user
// input case-insensitively.
var operatorTable = []Operator{
	{Literal: "AND", Description: "And"},
	{Literal: "OR", Description: "Or"},
	{Literal: "-", Description: "Not"},
	{Literal: "XOR", Description: "Xor"},
	{Literal: "(", Description: "Open Parenthesis"},
	{Literal: ")", Description: "Close Parenthesis"},
	{Literal: "IFF", Description: "If and only if"},
	{Literal: "IMP", Description: "Implies"},
}

// Operators returns a copy of the operator table sorted by literal.
func Operators() []Operator {
	return MatchOperators("")
}

// LookupOperator finds the operator whose literal equals lit, ignoring case.
func LookupOperator(lit string) (Operator, bool) {
	for _, op := range operatorTable {
		if strings.EqualFold(op.Literal, lit) {
			return op, true
		}
	}
	return Operator{}, false
}

// MatchOperators returns the operators whose literal starts with word,
// ignoring case, sorted ascending by literal. An empty word matches all.
func MatchOperators(word string) []Operator {
	prefix := strings.ToLower(word)
	matches := make([]Operator, 0, len(operatorTable))
	for _, op := range operatorTable {
		if prefix == "" || strings.HasPrefix(strings.ToLower(op.Literal), prefix) {
			matches = append(matches, op)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Literal < matches[j].Literal
	})
	return matches
}
