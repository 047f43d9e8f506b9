// Package tagserver is a small tag autocomplete index for local
// development. It answers the same lookups as a booru's tag endpoint.
package tagserver

import (
	"sort"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"
	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/oakwood-commons/tagq/internal/completion"
	"github.com/oakwood-commons/tagq/pkg/loader"
)

// Index maps lower-cased tag names to their entries.
type Index struct {
	mu      sync.RWMutex
	trie    *patricia.Trie
	entries []loader.Tag
	fuzzy   bool
}

// NewIndex builds an index over tags. With fuzzy set, a search with no
// prefix hit falls back to fuzzy matching.
func NewIndex(tags []loader.Tag, fuzzy bool) *Index {
	ix := &Index{trie: patricia.NewTrie(), fuzzy: fuzzy}
	for _, t := range tags {
		ix.Add(t)
	}
	return ix
}

// Add inserts t, replacing an entry with the same name.
func (ix *Index) Add(t loader.Tag) {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return
	}
	t.Name = name
	key := patricia.Prefix(strings.ToLower(name))

	ix.mu.Lock()
	defer ix.mu.Unlock()
	if item := ix.trie.Get(key); item != nil {
		ix.entries[item.(int)] = t
		return
	}
	ix.entries = append(ix.entries, t)
	ix.trie.Insert(key, len(ix.entries)-1)
}

// Len returns the number of distinct tags.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

// Search returns up to limit tags starting with prefix, most used first.
// limit <= 0 returns every match.
func (ix *Index) Search(prefix string, limit int) []completion.Suggestion {
	lower := strings.ToLower(prefix)

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	var hits []loader.Tag
	_ = ix.trie.VisitSubtree(patricia.Prefix(lower), func(_ patricia.Prefix, item patricia.Item) error {
		hits = append(hits, ix.entries[item.(int)])
		return nil
	})
	if len(hits) > 0 {
		sort.Slice(hits, func(i, j int) bool {
			if hits[i].Total != hits[j].Total {
				return hits[i].Total > hits[j].Total
			}
			return hits[i].Name < hits[j].Name
		})
	} else if ix.fuzzy && lower != "" {
		for _, m := range fuzzy.FindFrom(lower, tagNames(ix.entries)) {
			hits = append(hits, ix.entries[m.Index])
		}
	}

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	rows := make([]completion.Suggestion, 0, len(hits))
	for _, t := range hits {
		rows = append(rows, completion.Suggestion{
			Tag:   t.Name,
			Total: completion.CountTotal(t.Total),
			Type:  t.Type,
		})
	}
	return rows
}

// tagNames adapts the entries to fuzzy.Source.
type tagNames []loader.Tag

func (n tagNames) String(i int) string { return strings.ToLower(n[i].Name) }

func (n tagNames) Len() int { return len(n) }
