package tui

import (
	"time"

	"github.com/oakwood-commons/tagq/internal/completion"
	"github.com/oakwood-commons/tagq/internal/config"
	"github.com/oakwood-commons/tagq/internal/ui"
)

// Config holds host-provided settings for the search box.
type Config struct {
	Prompt  string
	Initial string
	Width   int
	Height  int
	NoColor bool
	// Delay is the debounce window between lookups.
	Delay time.Duration
	// MaxRows caps the dropdown; 0 shows every row.
	MaxRows int
	Theme   ui.Theme
	// Save stores a named search on ctrl+s. Nil disables saving.
	Save func(name, query string) error
}

// DefaultConfig returns the settings the tagq CLI starts from.
func DefaultConfig() Config {
	cfg, err := config.Default()
	if err != nil {
		return Config{Delay: 200 * time.Millisecond, MaxRows: 15, Theme: ui.DefaultTheme()}
	}
	return FromConfig(cfg)
}

// FromConfig maps a loaded tagq configuration onto TUI settings.
func FromConfig(cfg config.Config) Config {
	return Config{
		Delay:   cfg.Autocomplete.Debounce.Std(),
		MaxRows: cfg.Autocomplete.MaxRows,
		Theme:   ui.ThemeFromConfig(cfg.Theme),
	}
}

func (c Config) options(src completion.Source) ui.Options {
	opts := ui.Options{
		Source:  src,
		Delay:   c.Delay,
		MaxRows: c.MaxRows,
		Initial: c.Initial,
		Prompt:  c.Prompt,
		Theme:   c.Theme,
		NoColor: c.NoColor,
		Width:   c.Width,
		Height:  c.Height,
	}
	if c.Save != nil {
		opts.Save = ui.SaveFunc(c.Save)
	}
	return opts
}
