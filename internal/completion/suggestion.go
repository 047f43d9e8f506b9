package completion

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind tells tag suggestions from operator suggestions.
type Kind int

const (
	KindTag Kind = iota
	KindOperator
)

func (k Kind) String() string {
	if k == KindOperator {
		return "operator"
	}
	return "tag"
}

// Suggestion is one row of the dropdown: a tag with its usage count, or an
// operator whose Total carries a human-readable description.
type Suggestion struct {
	Tag   string `json:"tag" yaml:"tag" toml:"tag"`
	Total Total  `json:"total" yaml:"total" toml:"total"`
	Type  string `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Kind  Kind   `json:"-" yaml:"-" toml:"-"`
}

// Total is either a usage count or free text. The tag index sends numbers;
// operator rows reuse the field for their description.
type Total struct {
	Count int64
	Text  string
}

// CountTotal wraps a usage count.
func CountTotal(n int64) Total { return Total{Count: n} }

// TextTotal wraps a description.
func TextTotal(s string) Total { return Total{Text: s} }

// IsText reports whether t carries text rather than a count.
func (t Total) IsText() bool { return t.Text != "" }

func (t Total) String() string {
	if t.IsText() {
		return t.Text
	}
	return strconv.FormatInt(t.Count, 10)
}

// MarshalJSON writes a number for counts and a string for text.
func (t Total) MarshalJSON() ([]byte, error) {
	if t.IsText() {
		return json.Marshal(t.Text)
	}
	return []byte(strconv.FormatInt(t.Count, 10)), nil
}

// UnmarshalJSON accepts a JSON number, a string, or null.
func (t *Total) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = Total{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = TextTotal(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("total: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*t = CountTotal(i)
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("total: %w", err)
	}
	*t = CountTotal(int64(f))
	return nil
}

// MarshalYAML emits the count or the text as a plain scalar.
func (t Total) MarshalYAML() (interface{}, error) {
	if t.IsText() {
		return t.Text, nil
	}
	return t.Count, nil
}

// MarshalText is used by TOML output.
func (t Total) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}
