// Package formatter renders suggestion rows for the non-interactive CLI.
package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"image/color"
	"io"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/term"

	"github.com/oakwood-commons/tagq/internal/completion"
)

// Format is an output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTOML  Format = "toml"
	FormatHTML  Format = "html"
)

// Formats lists every supported output format.
var Formats = []Format{FormatTable, FormatJSON, FormatYAML, FormatTOML, FormatHTML}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatTable, nil
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (expected table, json, yaml, toml or html)", s)
}

var (
	defaultHeaderFG  = lipgloss.Color("12")
	defaultTagColor  = lipgloss.Color("252")
	defaultCountFG   = lipgloss.Color("244")
	defaultOperator  = lipgloss.Color("141")
	defaultSeparator = lipgloss.Color("240")

	headerStyle    lipgloss.Style
	tagStyle       lipgloss.Style
	countStyle     lipgloss.Style
	operatorStyle  lipgloss.Style
	separatorStyle lipgloss.Style
)

// TableColors controls the table palette. Nil fields keep the defaults.
type TableColors struct {
	HeaderFG       color.Color
	TagColor       color.Color
	CountColor     color.Color
	OperatorColor  color.Color
	SeparatorColor color.Color
}

func pick(c, fallback color.Color) color.Color {
	if c == nil {
		return fallback
	}
	return c
}

// SetTableTheme replaces the table styles.
func SetTableTheme(tc TableColors) {
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(pick(tc.HeaderFG, defaultHeaderFG))
	tagStyle = lipgloss.NewStyle().Foreground(pick(tc.TagColor, defaultTagColor))
	countStyle = lipgloss.NewStyle().Foreground(pick(tc.CountColor, defaultCountFG))
	operatorStyle = lipgloss.NewStyle().Foreground(pick(tc.OperatorColor, defaultOperator))
	separatorStyle = lipgloss.NewStyle().Foreground(pick(tc.SeparatorColor, defaultSeparator))
}

//nolint:gochecknoinits // default table theme for package consumers
func init() {
	SetTableTheme(TableColors{})
}

// Options tunes rendering.
type Options struct {
	// NoColor disables ANSI styling in table output.
	NoColor bool
	// Width caps the table width. Zero uses the terminal width.
	Width int
}

// Render writes rows to w in format f.
func Render(w io.Writer, f Format, rows []completion.Suggestion, opts Options) error {
	if rows == nil {
		rows = []completion.Suggestion{}
	}
	var (
		out string
		err error
	)
	switch f {
	case FormatTable, "":
		out = RenderTable(rows, opts)
	case FormatJSON:
		out, err = formatJSON(rows)
	case FormatYAML:
		out, err = EncodeYAML(rows, YAMLFormatOptions{})
	case FormatTOML:
		out, err = formatTOML(rows)
	case FormatHTML:
		out = RenderHTML(rows)
	default:
		return fmt.Errorf("unknown output format %q", f)
	}
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func formatJSON(rows []completion.Suggestion) (string, error) {
	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}

type tomlDocument struct {
	Suggestions []completion.Suggestion `toml:"suggestions"`
}

func formatTOML(rows []completion.Suggestion) (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(tomlDocument{Suggestions: rows}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderHTML renders rows as the dropdown list items a web client expects.
func RenderHTML(rows []completion.Suggestion) string {
	var b strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&b, "<li class=\"option tag-type-%s\"><span class=\"name\">%s</span><span class=\"count\">%s</span></li>\n",
			html.EscapeString(r.Type), html.EscapeString(r.Tag), html.EscapeString(r.Total.String()))
	}
	return b.String()
}

// RenderTable renders rows as an aligned TAG / TOTAL / TYPE table.
func RenderTable(rows []completion.Suggestion, opts Options) string {
	if len(rows) == 0 {
		return ""
	}
	width := opts.Width
	if width <= 0 {
		width = getTerminalWidth()
	}

	headers := [3]string{"TAG", "TOTAL", "TYPE"}
	cells := make([][3]string, len(rows))
	widths := [3]int{runewidth.StringWidth(headers[0]), runewidth.StringWidth(headers[1]), runewidth.StringWidth(headers[2])}
	for i, r := range rows {
		cells[i] = [3]string{escapeControl(r.Tag), escapeControl(r.Total.String()), r.Type}
		for c := range cells[i] {
			if w := runewidth.StringWidth(cells[i][c]); w > widths[c] {
				widths[c] = w
			}
		}
	}

	// The tag column gives way when the table is wider than the terminal.
	const gaps = 4
	if over := widths[0] + widths[1] + widths[2] + gaps - width; over > 0 {
		widths[0] = max(widths[0]-over, len(headers[0]))
	}

	style := func(s lipgloss.Style, v string) string {
		if opts.NoColor {
			return v
		}
		return s.Render(v)
	}

	var b strings.Builder
	sep := style(separatorStyle, "  ")
	writeRow := func(cols [3]string, styles [3]lipgloss.Style) {
		for c, v := range cols {
			v = runewidth.Truncate(v, widths[c], "...")
			var padded string
			switch c {
			case 0:
				padded = runewidth.FillRight(v, widths[c])
			case 1:
				padded = runewidth.FillLeft(v, widths[c])
			default:
				padded = v
			}
			b.WriteString(style(styles[c], padded))
			if c < len(cols)-1 {
				b.WriteString(sep)
			}
		}
		b.WriteString("\n")
	}

	writeRow(headers, [3]lipgloss.Style{headerStyle, headerStyle, headerStyle})
	for i, r := range rows {
		first := tagStyle
		if r.Kind == completion.KindOperator {
			first = operatorStyle
		}
		writeRow(cells[i], [3]lipgloss.Style{first, countStyle, countStyle})
	}
	return b.String()
}

// escapeControl keeps table rows on one line.
func escapeControl(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.ReplaceAll(s, "\n", "\\n")
}

// getTerminalWidth returns the terminal width, or a default if detection fails
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 120
	}
	return width
}
