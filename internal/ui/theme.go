package ui

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/tagq/internal/completion"
	"github.com/oakwood-commons/tagq/internal/config"
)

// Theme holds the search box palette.
type Theme struct {
	Prompt     color.Color
	Input      color.Color
	Text       color.Color // tag rows without a type colour
	Count      color.Color
	Operator   color.Color
	SelectedFG color.Color
	SelectedBG color.Color
	Border     color.Color
	Error      color.Color
	Success    color.Color
	TagTypes   map[string]color.Color
}

// DefaultTheme is the palette of the embedded default config.
func DefaultTheme() Theme {
	cfg, err := config.Default()
	if err != nil {
		return fallbackTheme()
	}
	return ThemeFromConfig(cfg.Theme)
}

func fallbackTheme() Theme {
	return Theme{
		Prompt:     lipgloss.Color("12"),
		Input:      lipgloss.Color("252"),
		Text:       lipgloss.Color("250"),
		Count:      lipgloss.Color("244"),
		Operator:   lipgloss.Color("141"),
		SelectedFG: lipgloss.Color("0"),
		SelectedBG: lipgloss.Color("12"),
		Border:     lipgloss.Color("240"),
		Error:      lipgloss.Color("9"),
		Success:    lipgloss.Color("10"),
		TagTypes:   map[string]color.Color{},
	}
}

// ThemeFromConfig converts configured colour strings. Empty entries keep
// the fallback palette.
func ThemeFromConfig(tc config.ThemeConfig) Theme {
	th := fallbackTheme()
	set := func(dst *color.Color, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	set(&th.Prompt, tc.Prompt)
	set(&th.Input, tc.Input)
	set(&th.Text, tc.Text)
	set(&th.Count, tc.Count)
	set(&th.Operator, tc.Operator)
	set(&th.SelectedFG, tc.SelectedFG)
	set(&th.SelectedBG, tc.SelectedBG)
	set(&th.Border, tc.Border)
	set(&th.Error, tc.Error)
	set(&th.Success, tc.Success)
	for name, v := range tc.TagTypes {
		if v = strings.TrimSpace(v); v != "" {
			th.TagTypes[strings.ToLower(name)] = lipgloss.Color(v)
		}
	}
	return th
}

// rowColor picks the foreground for a suggestion row: operators share one
// colour, tags are coloured by type.
func (th Theme) rowColor(s completion.Suggestion) color.Color {
	if s.Kind == completion.KindOperator {
		return th.Operator
	}
	if c, ok := th.TagTypes[strings.ToLower(s.Type)]; ok {
		return c
	}
	return th.Text
}
