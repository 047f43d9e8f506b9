// Package ui is the interactive terminal search box: a text input with a
// suggestion dropdown driven by a controller.Controller.
package ui

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/tagq/internal/config"
	"github.com/oakwood-commons/tagq/internal/controller"
	"github.com/oakwood-commons/tagq/internal/query"
	"github.com/oakwood-commons/tagq/pkg/logger"
)

const (
	defaultPrompt = "search> "
	minInputWidth = 20

	purposeQuit = "quit"
	purposeSave = "save"
)

// suggestionsMsg delivers a finished fetch. Stale results are dropped by
// the controller.
type suggestionsMsg struct {
	Result controller.Result
}

// SaveFunc stores a named search.
type SaveFunc func(name, query string) error

// Model is the bubbletea model of the search box.
type Model struct {
	ctx     context.Context
	ctrl    *controller.Controller
	input   textinput.Model
	prompt  string
	theme   Theme
	noColor bool
	save    SaveFunc

	width  int
	height int

	dialog *Dialog

	// Submitted holds the validated query once the user runs the search.
	Submitted string
	quitting  bool
}

// NewModel builds a search box over ctrl seeded with initial.
func NewModel(ctx context.Context, ctrl *controller.Controller, opts Options) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	prompt := opts.Prompt
	if prompt == "" {
		prompt = defaultPrompt
	}
	theme := opts.Theme
	if theme.TagTypes == nil {
		theme = DefaultTheme()
	}

	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = `tag1 AND ("tag 2" OR -tag3)`
	ti.CharLimit = 1000
	ti.SetWidth(80)
	ti.Focus()
	if opts.Initial != "" {
		ti.SetValue(opts.Initial)
		ti.CursorEnd()
	}

	return &Model{
		ctx:     ctx,
		ctrl:    ctrl,
		input:   ti,
		prompt:  prompt,
		theme:   theme,
		noColor: opts.NoColor,
		save:    opts.Save,
		width:   opts.Width,
		height:  opts.Height,
	}
}

// Value returns the current text of the search box.
func (m *Model) Value() string {
	return m.input.Value()
}

// Dialog returns the open dialog, or nil.
func (m *Model) Dialog() *Dialog {
	return m.dialog
}

// Init starts the cursor blink and, for a seeded phrase, the first fetch.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if v := m.input.Value(); v != "" {
		cmds = append(cmds, m.keystroke(v))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.SetWidth(max(m.width-runewidth.StringWidth(m.prompt)-1, minInputWidth))
		return m, nil

	case suggestionsMsg:
		if !m.ctrl.Apply(msg.Result) {
			logger.ForComponent(m.ctx, "ui").V(1).Info("dropped stale suggestions",
				logger.SequenceKey, msg.Result.Seq, "latest", m.ctrl.Latest())
		}
		return m, nil

	case tea.KeyPressMsg:
		if m.dialog != nil {
			return m.updateDialog(msg)
		}
		return m.updateKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	dd := m.ctrl.Dropdown()
	switch ActionForKey(msg) {
	case ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case ActionUp:
		m.ctrl.Move(-1)
		return m, nil
	case ActionDown:
		m.ctrl.Move(1)
		return m, nil
	case ActionAccept:
		m.accept()
		return m, nil
	case ActionEnter:
		if dd.Visible {
			m.accept()
			return m, nil
		}
		return m.submit()
	case ActionCancel:
		if dd.Visible {
			m.ctrl.Clear()
			return m, nil
		}
		m.dialog = ShowDialog(DialogConfirm, "Quit without searching?", "Quit", "Quit", "Stay")
		m.dialog.Purpose = purposeQuit
		return m, nil
	case ActionSave:
		if m.save == nil {
			return m, nil
		}
		if err := validate(m.input.Value()); err != nil {
			m.dialog = ShowDialog(DialogError, err.Error(), "Cannot save search")
			return m, nil
		}
		m.dialog = ShowDialog(DialogInput, "Name this search:", "Save search", "Save", "Cancel")
		m.dialog.Purpose = purposeSave
		return m, nil
	case ActionHelp:
		m.dialog = ShowDialog(DialogMessage, helpText, "Keys")
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	after := m.input.Value()
	if after == before {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.keystroke(after))
}

// keystroke passes value through the debounce gate and returns the fetch
// for an accepted keystroke.
func (m *Model) keystroke(value string) tea.Cmd {
	req, ok := m.ctrl.Keystroke(value)
	if !ok {
		return nil
	}
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return suggestionsMsg{Result: ctrl.Fetch(ctx, req)}
	}
}

func (m *Model) accept() {
	out, ok := m.ctrl.SelectCurrent(m.input.Value())
	if !ok {
		return
	}
	m.input.SetValue(out)
	m.input.CursorEnd()
}

func validate(phrase string) error {
	if strings.TrimSpace(phrase) == "" {
		return config.ErrEmptySearch
	}
	if _, err := query.Lex(phrase); err != nil {
		return err
	}
	return nil
}

func (m *Model) submit() (tea.Model, tea.Cmd) {
	value := m.input.Value()
	if err := validate(value); err != nil {
		m.dialog = ShowDialog(DialogError, err.Error(), "Invalid search")
		return m, nil
	}
	m.Submitted = strings.TrimSpace(value)
	m.quitting = true
	return m, tea.Quit
}

func (m *Model) updateDialog(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}
	res, cmd := m.dialog.Update(msg)
	if res == nil {
		return m, cmd
	}
	m.dialog = nil

	switch res.Purpose {
	case purposeQuit:
		if res.Confirmed() {
			m.quitting = true
			return m, tea.Quit
		}
	case purposeSave:
		if !res.Confirmed() {
			return m, nil
		}
		name := strings.TrimSpace(res.Value)
		if err := m.save(name, m.input.Value()); err != nil {
			m.dialog = ShowDialog(DialogError, err.Error(), "Cannot save search")
			return m, nil
		}
		m.dialog = ShowDialog(DialogSuccess, fmt.Sprintf("Saved %q.", name), "")
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m *Model) style(s lipgloss.Style, text string) string {
	if m.noColor {
		return text
	}
	return s.Render(text)
}

func (m *Model) render() string {
	var b strings.Builder
	b.WriteString(m.style(lipgloss.NewStyle().Foreground(m.theme.Prompt).Bold(true), m.prompt))
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if dd := m.ctrl.Dropdown(); dd.Visible {
		b.WriteString(m.renderDropdown(dd))
	}

	if m.dialog != nil {
		b.WriteString("\n")
		b.WriteString(m.dialog.View(m.theme, m.noColor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.style(lipgloss.NewStyle().Foreground(m.theme.Count), "tab insert • enter search • f1 keys • esc quit"))
	return b.String()
}
