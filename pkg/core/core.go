// Package core is the embeddable tag-query autocomplete API: classify a
// phrase, fetch suggestions for it, and splice a chosen suggestion back.
package core

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/oakwood-commons/tagq/internal/completion"
	"github.com/oakwood-commons/tagq/internal/formatter"
	"github.com/oakwood-commons/tagq/internal/query"
	"github.com/oakwood-commons/tagq/internal/tagindex"
)

// Re-exported building blocks.
type (
	Suggestion = completion.Suggestion
	Total      = completion.Total
	Mode       = completion.Mode
	Position   = query.Position
	Operator   = query.Operator
	Token      = query.Token
	Format     = formatter.Format
)

const (
	ModeSimple   = completion.ModeSimple
	ModeAdvanced = completion.ModeAdvanced

	PositionOperator = query.PositionOperator
	PositionLiteral  = query.PositionLiteral
)

// TagIndex looks up the tags matching one token.
type TagIndex interface {
	Lookup(ctx context.Context, token string) ([]Suggestion, error)
}

// Engine is a configured suggestion source.
type Engine struct {
	Index TagIndex
	Mode  Mode
	Limit int

	source *completion.Engine
}

// Option configures an Engine.
type Option func(*Engine) error

// WithIndex sets the tag index.
func WithIndex(idx TagIndex) Option {
	return func(e *Engine) error {
		e.Index = idx
		return nil
	}
}

// WithEndpoint looks tags up over HTTP at endpoint.
func WithEndpoint(endpoint string, timeout time.Duration) Option {
	return func(e *Engine) error {
		c, err := tagindex.New(endpoint, timeout)
		if err != nil {
			return err
		}
		e.Index = c
		return nil
	}
}

// WithMode selects simple or advanced completion.
func WithMode(m Mode) Option {
	return func(e *Engine) error {
		e.Mode = m
		return nil
	}
}

// WithLimit caps the suggestions returned per phrase. 0 means no cap.
func WithLimit(n int) Option {
	return func(e *Engine) error {
		if n < 0 {
			return fmt.Errorf("limit must not be negative, got %d", n)
		}
		e.Limit = n
		return nil
	}
}

// New creates an Engine in advanced mode unless WithMode says otherwise.
// Without an index only operator suggestions are produced.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{Mode: ModeAdvanced}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	var idx completion.TagIndex
	if e.Index != nil {
		idx = e.Index
	}
	e.source = completion.NewEngine(e.Mode, idx, e.Limit)
	e.Mode = e.source.Mode()
	return e, nil
}

// Source exposes the engine to the search box.
func (e *Engine) Source() completion.Source {
	return e.source
}

// Classify reports whether the end of phrase is inside a quoted tag.
func (e *Engine) Classify(phrase string) Position {
	return e.source.Classify(phrase)
}

// Suggest returns the rows for the word being typed at the end of phrase.
// Index failures yield an empty list.
func (e *Engine) Suggest(ctx context.Context, phrase string) ([]Suggestion, error) {
	return e.source.FetchSuggestions(ctx, phrase)
}

// Insert splices s into phrase.
func (e *Engine) Insert(phrase string, s Suggestion) string {
	return e.source.InsertSuggestion(phrase, s)
}

// Render writes rows to w in format f.
func Render(w io.Writer, f Format, rows []Suggestion, noColor bool) error {
	return formatter.Render(w, f, rows, formatter.Options{NoColor: noColor})
}

// Lex splits a complete query into tokens.
func Lex(phrase string) ([]Token, error) {
	return query.Lex(phrase)
}

// Operators lists the query keywords in menu order.
func Operators() []Operator {
	return query.Operators()
}
