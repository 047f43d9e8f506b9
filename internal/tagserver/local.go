package tagserver

import (
	"context"

	"github.com/oakwood-commons/tagq/internal/completion"
)

// Local answers completion lookups from an in-process Index, with no HTTP
// round trip.
type Local struct {
	Index   *Index
	MaxTags int
}

// Lookup returns up to MaxTags tags starting with token.
func (l Local) Lookup(ctx context.Context, token string) ([]completion.Suggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit := l.MaxTags
	if limit <= 0 {
		limit = DefaultMaxTags
	}
	return l.Index.Search(token, limit), nil
}
