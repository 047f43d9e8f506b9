package completion

import (
	"context"
	"strings"

	"github.com/oakwood-commons/tagq/internal/query"
	"github.com/oakwood-commons/tagq/pkg/logger"
)

// negationMarker prefixes an excluded tag in a plain search box.
const negationMarker = "-"

// TagSource completes the last whitespace-delimited word against a tag index.
type TagSource struct {
	index TagIndex
}

// NewTagSource returns a TagSource backed by idx.
func NewTagSource(idx TagIndex) *TagSource {
	return &TagSource{index: idx}
}

// Classify always reports operator position: a plain search box has no
// quoted tags.
func (s *TagSource) Classify(string) query.Position {
	return query.PositionOperator
}

// FetchSuggestions looks up the last word of the trimmed phrase with a
// leading negation marker removed. An empty word yields no rows and no
// lookup. Lookup errors are logged and reported as no rows.
func (s *TagSource) FetchSuggestions(ctx context.Context, phrase string) ([]Suggestion, error) {
	token := strings.TrimPrefix(query.LastToken(phrase), negationMarker)
	if token == "" || s.index == nil {
		return []Suggestion{}, nil
	}

	rows, err := s.index.Lookup(ctx, token)
	if err != nil {
		logger.ForComponent(ctx, "completion").V(1).Info("tag lookup suppressed",
			logger.TokenKey, token, "error", err.Error())
		return []Suggestion{}, nil
	}
	for i := range rows {
		rows[i].Kind = KindTag
	}
	return rows, nil
}

// InsertSuggestion replaces the last word with the tag and a trailing space.
func (s *TagSource) InsertSuggestion(phrase string, sg Suggestion) string {
	return query.ReplaceLastToken(phrase, sg.Tag)
}
