package completion

import (
	"context"
	"errors"
	"sync"
)

type fakeIndex struct {
	mu     sync.Mutex
	calls  []string
	rows   map[string][]Suggestion
	failOn map[string]bool
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{
		rows: map[string][]Suggestion{
			"fo":  {{Tag: "fox", Total: CountTotal(12), Type: "general"}, {Tag: "forest", Total: CountTotal(4), Type: "general"}},
			"par": {{Tag: "partial_tag", Total: CountTotal(3), Type: "meta"}},
			"blu": {{Tag: "blue_sky", Total: CountTotal(40), Type: "general"}},
		},
		failOn: map[string]bool{},
	}
}

func (f *fakeIndex) Lookup(_ context.Context, token string) ([]Suggestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, token)
	if f.failOn[token] {
		return nil, errors.New("tag index unavailable")
	}
	rows := f.rows[token]
	out := make([]Suggestion, len(rows))
	copy(out, rows)
	return out, nil
}

func (f *fakeIndex) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}
