package ui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// DialogKind is the closed set of overlay dialogs.
type DialogKind int

const (
	DialogMessage DialogKind = iota
	DialogError
	DialogSuccess
	DialogConfirm
	DialogInput
)

func (k DialogKind) String() string {
	switch k {
	case DialogMessage:
		return "message"
	case DialogError:
		return "error"
	case DialogSuccess:
		return "success"
	case DialogConfirm:
		return "confirm"
	case DialogInput:
		return "input"
	default:
		return fmt.Sprintf("DialogKind(%d)", int(k))
	}
}

func (k DialogKind) defaultTitle() string {
	switch k {
	case DialogError:
		return "Error"
	case DialogSuccess:
		return "Success"
	case DialogConfirm:
		return "Confirm"
	case DialogInput:
		return "Input"
	default:
		return "Message"
	}
}

func (k DialogKind) defaultButtons() []string {
	switch k {
	case DialogConfirm, DialogInput:
		return []string{"OK", "Cancel"}
	default:
		return []string{"OK"}
	}
}

// Dialog is a modal overlay. Only DialogInput carries a text field.
type Dialog struct {
	Kind     DialogKind
	Title    string
	Message  string
	Buttons  []string
	Selected int

	// Purpose routes the result back to whoever opened the dialog.
	Purpose string

	input textinput.Model
}

// DialogResult reports how a dialog closed. Canceled is set when it was
// dismissed with esc; Button is -1 then.
type DialogResult struct {
	Kind     DialogKind
	Purpose  string
	Button   int
	Label    string
	Value    string
	Canceled bool
}

// Confirmed reports whether the first button closed the dialog.
func (r DialogResult) Confirmed() bool {
	return !r.Canceled && r.Button == 0
}

// ShowDialog builds a dialog of kind. An empty title or no buttons pick the
// kind's defaults.
func ShowDialog(kind DialogKind, message, title string, buttons ...string) *Dialog {
	if strings.TrimSpace(title) == "" {
		title = kind.defaultTitle()
	}
	if len(buttons) == 0 {
		buttons = kind.defaultButtons()
	}
	d := &Dialog{
		Kind:    kind,
		Title:   title,
		Message: message,
		Buttons: buttons,
	}
	if kind == DialogInput {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 200
		ti.SetWidth(40)
		ti.Focus()
		d.input = ti
	}
	return d
}

// Value returns the text typed into an input dialog.
func (d *Dialog) Value() string {
	if d.Kind != DialogInput {
		return ""
	}
	return d.input.Value()
}

// Update handles a key press. It returns a result once the dialog closes.
func (d *Dialog) Update(msg tea.KeyPressMsg) (*DialogResult, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return &DialogResult{Kind: d.Kind, Purpose: d.Purpose, Button: -1, Value: d.Value(), Canceled: true}, nil
	case "enter":
		return &DialogResult{
			Kind:    d.Kind,
			Purpose: d.Purpose,
			Button:  d.Selected,
			Label:   d.Buttons[d.Selected],
			Value:   d.Value(),
		}, nil
	case "tab", "right":
		if d.Kind != DialogInput || msg.String() == "tab" {
			d.Selected = (d.Selected + 1) % len(d.Buttons)
			return nil, nil
		}
	case "shift+tab", "left":
		if d.Kind != DialogInput || msg.String() == "shift+tab" {
			d.Selected = (d.Selected - 1 + len(d.Buttons)) % len(d.Buttons)
			return nil, nil
		}
	}
	if d.Kind == DialogInput {
		var cmd tea.Cmd
		d.input, cmd = d.input.Update(msg)
		return nil, cmd
	}
	return nil, nil
}

func (d *Dialog) accent(th Theme) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true)
	switch d.Kind {
	case DialogError:
		return s.Foreground(th.Error)
	case DialogSuccess:
		return s.Foreground(th.Success)
	default:
		return s.Foreground(th.Prompt)
	}
}

// View renders the dialog box.
func (d *Dialog) View(th Theme, noColor bool) string {
	var body strings.Builder
	title := d.Title
	if !noColor {
		title = d.accent(th).Render(title)
	}
	body.WriteString(title)
	body.WriteString("\n\n")
	body.WriteString(d.Message)
	if d.Kind == DialogInput {
		body.WriteString("\n> ")
		body.WriteString(d.input.View())
	}
	body.WriteString("\n\n")

	labels := make([]string, len(d.Buttons))
	for i, b := range d.Buttons {
		label := "[ " + b + " ]"
		if i == d.Selected {
			if noColor {
				label = "> " + b + " <"
			} else {
				label = lipgloss.NewStyle().Foreground(th.SelectedFG).Background(th.SelectedBG).Render(label)
			}
		}
		labels[i] = label
	}
	body.WriteString(strings.Join(labels, "  "))

	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	if !noColor {
		box = box.BorderForeground(th.Border)
	}
	return box.Render(body.String())
}
