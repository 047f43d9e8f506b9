package completion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/tagq/internal/query"
)

func TestTagSourceStripsNegation(t *testing.T) {
	idx := newFakeIndex()
	src := NewTagSource(idx)

	rows, err := src.FetchSuggestions(context.Background(), "-fo")
	require.NoError(t, err)
	assert.Equal(t, []string{"fo"}, idx.Calls())
	require.Len(t, rows, 2)
	assert.Equal(t, "fox", rows[0].Tag)
	assert.Equal(t, KindTag, rows[0].Kind)
}

func TestTagSourceUsesLastTokenOfTrimmedPhrase(t *testing.T) {
	idx := newFakeIndex()
	src := NewTagSource(idx)

	_, err := src.FetchSuggestions(context.Background(), "red_hair blu  ")
	require.NoError(t, err)
	assert.Equal(t, []string{"blu"}, idx.Calls())
}

func TestTagSourceEmptyTokenSkipsLookup(t *testing.T) {
	for _, phrase := range []string{"", "   ", "-", "tag -"} {
		idx := newFakeIndex()
		rows, err := NewTagSource(idx).FetchSuggestions(context.Background(), phrase)
		require.NoError(t, err)
		assert.Empty(t, rows, phrase)
		assert.Empty(t, idx.Calls(), "no lookup expected for %q", phrase)
	}
}

func TestTagSourceSuppressesLookupErrors(t *testing.T) {
	idx := newFakeIndex()
	idx.failOn["fo"] = true

	rows, err := NewTagSource(idx).FetchSuggestions(context.Background(), "fo")
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestTagSourceNilIndex(t *testing.T) {
	rows, err := NewTagSource(nil).FetchSuggestions(context.Background(), "fo")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestTagSourceInsertAndClassify(t *testing.T) {
	src := NewTagSource(newFakeIndex())
	assert.Equal(t, "red_hair fox ", src.InsertSuggestion("red_hair fo", Suggestion{Tag: "fox"}))
	assert.Equal(t, query.PositionOperator, src.Classify(`"open`))
}
