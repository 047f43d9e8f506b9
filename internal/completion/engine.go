// Package completion turns a partially typed search phrase into suggestion
// rows and splices a chosen row back into the phrase.
package completion

import (
	"context"
	"fmt"
	"strings"

	"github.com/oakwood-commons/tagq/internal/query"
)

// TagIndex looks up tags matching a single token.
type TagIndex interface {
	Lookup(ctx context.Context, token string) ([]Suggestion, error)
}

// Source is the capability set shared by the plain and the query-aware
// search boxes.
type Source interface {
	// Classify reports whether the end of phrase is inside a quoted tag.
	Classify(phrase string) query.Position

	// FetchSuggestions returns rows for the word being typed at the end of
	// phrase. Lookup failures produce an empty list, never an error.
	FetchSuggestions(ctx context.Context, phrase string) ([]Suggestion, error)

	// InsertSuggestion returns phrase with s spliced in place of the word
	// being typed.
	InsertSuggestion(phrase string, s Suggestion) string
}

// Mode selects which Source a search box uses.
type Mode string

const (
	// ModeSimple completes the last whitespace-delimited tag.
	ModeSimple Mode = "simple"
	// ModeAdvanced understands quoted tags and boolean operators.
	ModeAdvanced Mode = "advanced"
)

// ParseMode validates a mode name. The empty string selects ModeAdvanced.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeAdvanced:
		return ModeAdvanced, nil
	case ModeSimple:
		return ModeSimple, nil
	default:
		return "", fmt.Errorf("unknown completion mode %q (expected simple or advanced)", s)
	}
}

// Engine wraps a Source and caps the number of rows it returns.
type Engine struct {
	source Source
	mode   Mode
	limit  int
}

// NewEngine builds the Source for mode over idx. limit <= 0 means no cap.
func NewEngine(mode Mode, idx TagIndex, limit int) *Engine {
	var src Source
	base := NewTagSource(idx)
	if mode == ModeSimple {
		src = base
	} else {
		mode = ModeAdvanced
		src = NewQuerySource(base)
	}
	return &Engine{source: src, mode: mode, limit: limit}
}

// Mode returns the engine's completion mode.
func (e *Engine) Mode() Mode {
	return e.mode
}

// Classify delegates to the wrapped Source.
func (e *Engine) Classify(phrase string) query.Position {
	return e.source.Classify(phrase)
}

// FetchSuggestions delegates to the wrapped Source and truncates to the
// engine limit.
func (e *Engine) FetchSuggestions(ctx context.Context, phrase string) ([]Suggestion, error) {
	rows, err := e.source.FetchSuggestions(ctx, phrase)
	if err != nil {
		return nil, err
	}
	if e.limit > 0 && len(rows) > e.limit {
		rows = rows[:e.limit]
	}
	return rows, nil
}

// InsertSuggestion delegates to the wrapped Source.
func (e *Engine) InsertSuggestion(phrase string, s Suggestion) string {
	return e.source.InsertSuggestion(phrase, s)
}
