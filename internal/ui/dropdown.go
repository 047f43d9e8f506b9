package ui

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/tagq/internal/controller"
)

// renderDropdown lays the rows out under the first column of the input,
// name on the left and count or description on the right.
func (m *Model) renderDropdown(dd controller.Dropdown) string {
	indent := strings.Repeat(" ", runewidth.StringWidth(m.prompt))

	nameW, countW := 0, 0
	for _, it := range dd.Items {
		nameW = max(nameW, runewidth.StringWidth(it.Tag))
		countW = max(countW, runewidth.StringWidth(it.Total.String()))
	}
	if m.width > 0 {
		avail := m.width - len(indent) - countW - 3
		if avail >= 4 && nameW > avail {
			nameW = avail
		}
	}

	var b strings.Builder
	for i, it := range dd.Items {
		name := runewidth.FillRight(runewidth.Truncate(it.Tag, nameW, "…"), nameW)
		count := runewidth.FillLeft(it.Total.String(), countW)
		line := " " + name + "  " + count + " "

		b.WriteString(indent)
		switch {
		case m.noColor && i == dd.Selected:
			b.WriteString(">" + line[1:])
		case m.noColor:
			b.WriteString(line)
		case i == dd.Selected:
			b.WriteString(lipgloss.NewStyle().
				Foreground(m.theme.SelectedFG).
				Background(m.theme.SelectedBG).
				Bold(true).
				Render(line))
		default:
			b.WriteString(lipgloss.NewStyle().Foreground(m.theme.rowColor(it)).Render(" " + name + "  "))
			b.WriteString(lipgloss.NewStyle().Foreground(m.theme.Count).Render(count + " "))
		}
		b.WriteString("\n")
	}
	return b.String()
}
