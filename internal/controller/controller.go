// Package controller owns the autocomplete state of one search box: the
// debounce gate, the request sequence and the dropdown contents.
package controller

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/oakwood-commons/tagq/internal/completion"
	"github.com/oakwood-commons/tagq/pkg/logger"
)

// DefaultDelay is the minimum time between two accepted keystrokes.
const DefaultDelay = 200 * time.Millisecond

// Options configures a Controller.
type Options struct {
	// Delay between accepted keystrokes. Zero disables the gate.
	Delay time.Duration
	// MaxRows caps the dropdown. Zero keeps every row.
	MaxRows int
	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
}

// Request is an accepted keystroke waiting for suggestions.
type Request struct {
	Seq    uint64
	Phrase string
}

// Result carries the suggestions fetched for a Request.
type Result struct {
	Seq    uint64
	Phrase string
	Items  []completion.Suggestion
	Err    error
}

// Dropdown is a snapshot of the rendered suggestion list.
type Dropdown struct {
	Items    []completion.Suggestion
	Visible  bool
	Selected int
}

// Controller is bound to a single input. All methods are safe for
// concurrent use.
type Controller struct {
	source completion.Source
	gate   *rate.Limiter
	clock  func() time.Time
	rows   int

	mu       sync.Mutex
	seq      uint64
	items    []completion.Suggestion
	visible  bool
	selected int
}

// New returns a controller fetching from source.
func New(source completion.Source, opts Options) *Controller {
	limit := rate.Inf
	if opts.Delay > 0 {
		limit = rate.Every(opts.Delay)
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Controller{
		source: source,
		gate:   rate.NewLimiter(limit, 1),
		clock:  clock,
		rows:   opts.MaxRows,
	}
}

// Source returns the suggestion source the controller was built with.
func (c *Controller) Source() completion.Source {
	return c.source
}

// Keystroke reacts to the input changing to value. An empty value clears
// the dropdown. A keystroke arriving inside the debounce window is dropped
// and does not extend the window. Otherwise a new Request is issued and
// supersedes any earlier one.
func (c *Controller) Keystroke(value string) (Request, bool) {
	if value == "" {
		c.Clear()
		return Request{}, false
	}
	if !c.gate.AllowN(c.clock(), 1) {
		return Request{}, false
	}

	c.mu.Lock()
	c.seq++
	req := Request{Seq: c.seq, Phrase: value}
	c.mu.Unlock()
	return req, true
}

// Latest returns the sequence number of the most recent Request.
func (c *Controller) Latest() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Fetch runs the source for req. It does not touch the dropdown.
func (c *Controller) Fetch(ctx context.Context, req Request) Result {
	items, err := c.source.FetchSuggestions(ctx, req.Phrase)
	if err != nil {
		logger.ForComponent(ctx, "controller").V(1).Info("suggestions failed",
			logger.SequenceKey, req.Seq, "error", err.Error())
		items = nil
	}
	return Result{Seq: req.Seq, Phrase: req.Phrase, Items: items, Err: err}
}

// Apply renders res if it answers the latest Request and reports whether
// it did. Results for superseded requests are ignored.
func (c *Controller) Apply(res Result) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if res.Seq != c.seq {
		return false
	}

	items := res.Items
	if c.rows > 0 && len(items) > c.rows {
		items = items[:c.rows]
	}
	c.items = append([]completion.Suggestion(nil), items...)
	c.visible = len(c.items) > 0
	c.selected = 0
	return true
}

// Select inserts the item at index into value and clears the dropdown. It
// reports false when index is out of range.
func (c *Controller) Select(index int, value string) (string, bool) {
	c.mu.Lock()
	if index < 0 || index >= len(c.items) {
		c.mu.Unlock()
		return value, false
	}
	item := c.items[index]
	c.mu.Unlock()

	out := c.source.InsertSuggestion(value, item)
	c.Clear()
	return out, true
}

// SelectCurrent inserts the highlighted item.
func (c *Controller) SelectCurrent(value string) (string, bool) {
	c.mu.Lock()
	idx := c.selected
	visible := c.visible
	c.mu.Unlock()
	if !visible {
		return value, false
	}
	return c.Select(idx, value)
}

// Clear empties and hides the dropdown. Requests still in flight are
// invalidated.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.items = nil
	c.visible = false
	c.selected = 0
}

// Move shifts the highlighted row by delta, wrapping at either end.
func (c *Controller) Move(delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.items)
	if n == 0 {
		return
	}
	c.selected = ((c.selected+delta)%n + n) % n
}

// Dropdown returns a copy of the current dropdown state.
func (c *Controller) Dropdown() Dropdown {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Dropdown{
		Items:    append([]completion.Suggestion(nil), c.items...),
		Visible:  c.visible,
		Selected: c.selected,
	}
}
