package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/tagq/internal/completion"
	"github.com/oakwood-commons/tagq/internal/controller"
)

type stubIndex map[string][]completion.Suggestion

func (s stubIndex) Lookup(_ context.Context, token string) ([]completion.Suggestion, error) {
	return append([]completion.Suggestion(nil), s[token]...), nil
}

var testIndex = stubIndex{
	"blu": {
		{Tag: "blue_sky", Total: completion.CountTotal(40), Type: "general"},
		{Tag: "blue_eyes", Total: completion.CountTotal(12), Type: "general"},
	},
	"re": {{Tag: "red_hair", Total: completion.CountTotal(9), Type: "general"}},
}

func newTestModel(t *testing.T, opts Options) *Model {
	t.Helper()
	engine := completion.NewEngine(completion.ModeAdvanced, testIndex, 0)
	ctrl := controller.New(engine, controller.Options{})
	opts.NoColor = true
	return NewModel(context.Background(), ctrl, opts)
}

// collect runs cmd and any batched commands, skipping slow ones such as
// cursor blink ticks.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, collect(c)...)
			}
			return out
		}
		return []tea.Msg{msg}
	case <-time.After(200 * time.Millisecond):
		return nil
	}
}

// send delivers msg and feeds back any suggestions it produced.
func send(m *Model, msg tea.Msg) tea.Cmd {
	_, cmd := m.Update(msg)
	for _, out := range collect(cmd) {
		if s, ok := out.(suggestionsMsg); ok {
			m.Update(s)
		}
	}
	return cmd
}

func typeText(m *Model, s string) {
	for _, r := range s {
		send(m, tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func key(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func isQuit(cmd tea.Cmd) bool {
	for _, msg := range collect(cmd) {
		if _, ok := msg.(tea.QuitMsg); ok {
			return true
		}
	}
	return false
}

func TestTypingQuotedTagShowsTagRows(t *testing.T) {
	m := newTestModel(t, Options{})
	typeText(m, `"blu`)

	dd := m.ctrl.Dropdown()
	require.True(t, dd.Visible)
	require.Len(t, dd.Items, 2)
	assert.Equal(t, "blue_sky", dd.Items[0].Tag)

	send(m, key(tea.KeyDown))
	send(m, key(tea.KeyTab))
	assert.Equal(t, `"blue_eyes"`, m.Value())
	assert.False(t, m.ctrl.Dropdown().Visible)
}

func TestSeededPhraseCompletesOperator(t *testing.T) {
	m := newTestModel(t, Options{Initial: "tag1 AN"})
	for _, msg := range collect(m.Init()) {
		if s, ok := msg.(suggestionsMsg); ok {
			m.Update(s)
		}
	}

	dd := m.ctrl.Dropdown()
	require.True(t, dd.Visible)
	assert.Equal(t, "AND", dd.Items[0].Tag)

	cmd := send(m, key(tea.KeyEnter))
	assert.False(t, isQuit(cmd))
	assert.Equal(t, "tag1 AND ", m.Value())
}

func TestEnterSubmitsValidQuery(t *testing.T) {
	m := newTestModel(t, Options{Initial: `"blue_sky" AND -red_hair `})
	_, cmd := m.Update(key(tea.KeyEnter))
	assert.True(t, isQuit(cmd))
	assert.Equal(t, `"blue_sky" AND -red_hair`, m.Submitted)
}

func TestEnterRejectsUnterminatedLiteral(t *testing.T) {
	m := newTestModel(t, Options{Initial: `tag1 "open`})
	_, cmd := m.Update(key(tea.KeyEnter))
	assert.False(t, isQuit(cmd))
	require.NotNil(t, m.Dialog())
	assert.Equal(t, DialogError, m.Dialog().Kind)
	assert.Empty(t, m.Submitted)

	m.Update(key(tea.KeyEscape))
	assert.Nil(t, m.Dialog())
}

func TestEscClosesDropdownThenConfirmsQuit(t *testing.T) {
	m := newTestModel(t, Options{})
	typeText(m, `"re`)
	require.True(t, m.ctrl.Dropdown().Visible)

	m.Update(key(tea.KeyEscape))
	assert.False(t, m.ctrl.Dropdown().Visible)
	assert.Nil(t, m.Dialog())

	m.Update(key(tea.KeyEscape))
	require.NotNil(t, m.Dialog())
	assert.Equal(t, DialogConfirm, m.Dialog().Kind)

	_, cmd := m.Update(key(tea.KeyEnter))
	assert.True(t, isQuit(cmd))
	assert.Empty(t, m.Submitted)
}

func TestConfirmQuitStay(t *testing.T) {
	m := newTestModel(t, Options{})
	m.Update(key(tea.KeyEscape))
	m.Update(key(tea.KeyTab))
	_, cmd := m.Update(key(tea.KeyEnter))
	assert.False(t, isQuit(cmd))
	assert.Nil(t, m.Dialog())
}

func TestStaleSuggestionsIgnored(t *testing.T) {
	m := newTestModel(t, Options{})
	first, ok := m.ctrl.Keystroke(`"re`)
	require.True(t, ok)
	second, ok := m.ctrl.Keystroke(`"blu`)
	require.True(t, ok)

	m.Update(suggestionsMsg{Result: m.ctrl.Fetch(context.Background(), second)})
	m.Update(suggestionsMsg{Result: m.ctrl.Fetch(context.Background(), first)})

	dd := m.ctrl.Dropdown()
	require.Len(t, dd.Items, 2)
	assert.Equal(t, "blue_sky", dd.Items[0].Tag)
}

func TestSaveSearchFlow(t *testing.T) {
	var gotName, gotQuery string
	m := newTestModel(t, Options{
		Initial: `"blue_sky"`,
		Save: func(name, query string) error {
			gotName, gotQuery = name, query
			return nil
		},
	})

	m.Update(tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl})
	require.NotNil(t, m.Dialog())
	assert.Equal(t, DialogInput, m.Dialog().Kind)

	for _, r := range "sky" {
		m.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	m.Update(key(tea.KeyEnter))

	assert.Equal(t, "sky", gotName)
	assert.Equal(t, `"blue_sky"`, gotQuery)
	require.NotNil(t, m.Dialog())
	assert.Equal(t, DialogSuccess, m.Dialog().Kind)
}

func TestSaveSearchError(t *testing.T) {
	m := newTestModel(t, Options{
		Initial: "fox",
		Save:    func(string, string) error { return errors.New("disk full") },
	})
	m.Update(tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl})
	m.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	m.Update(key(tea.KeyEnter))
	require.NotNil(t, m.Dialog())
	assert.Equal(t, DialogError, m.Dialog().Kind)
	assert.Contains(t, m.Dialog().Message, "disk full")
}

func TestHelpDialog(t *testing.T) {
	m := newTestModel(t, Options{})
	m.Update(key(tea.KeyF1))
	require.NotNil(t, m.Dialog())
	assert.Equal(t, DialogMessage, m.Dialog().Kind)
	assert.Contains(t, m.render(), "insert the highlighted suggestion")
}

func TestViewAlignsDropdownUnderInput(t *testing.T) {
	m := newTestModel(t, Options{Prompt: "q> "})
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	typeText(m, `"blu`)

	lines := strings.Split(m.render(), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.True(t, strings.HasPrefix(lines[0], "q> "))
	assert.Equal(t, "   >blue_sky   40 ", lines[1])
	assert.Equal(t, "    blue_eyes  12 ", lines[2])
}

func TestCtrlCQuits(t *testing.T) {
	m := newTestModel(t, Options{})
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	assert.True(t, isQuit(cmd))
}
