package completion

import (
	"context"

	"github.com/oakwood-commons/tagq/internal/query"
)

// QuerySource completes boolean tag queries. Inside a quoted tag it defers
// to the tag index; outside it offers operators.
type QuerySource struct {
	tags *TagSource
}

// NewQuerySource layers query awareness over a TagSource.
func NewQuerySource(tags *TagSource) *QuerySource {
	return &QuerySource{tags: tags}
}

// Classify reports the caret position from quote parity.
func (s *QuerySource) Classify(phrase string) query.Position {
	return query.Classify(phrase)
}

// FetchSuggestions returns tag rows for the open literal, or operator rows.
func (s *QuerySource) FetchSuggestions(ctx context.Context, phrase string) ([]Suggestion, error) {
	if query.Classify(phrase) == query.PositionLiteral {
		return s.tags.FetchSuggestions(ctx, query.LiteralFragment(phrase))
	}
	return OperatorSuggestions(query.OperatorWord(phrase)), nil
}

// InsertSuggestion appends an operator and a space in operator position, or
// closes the open literal with the chosen tag.
func (s *QuerySource) InsertSuggestion(phrase string, sg Suggestion) string {
	if query.Classify(phrase) == query.PositionOperator {
		return query.InsertOperator(phrase, sg.Tag)
	}
	return query.InsertLiteral(phrase, sg.Tag)
}

// OperatorSuggestions renders the operators matching word as rows.
func OperatorSuggestions(word string) []Suggestion {
	ops := query.MatchOperators(word)
	rows := make([]Suggestion, 0, len(ops))
	for _, op := range ops {
		rows = append(rows, Suggestion{
			Tag:   op.Literal,
			Total: TextTotal(op.Description),
			Type:  "operator",
			Kind:  KindOperator,
		})
	}
	return rows
}
