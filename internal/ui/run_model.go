package ui

import (
	"context"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"

	"github.com/oakwood-commons/tagq/internal/completion"
	"github.com/oakwood-commons/tagq/internal/controller"
)

// Options configures the search box.
type Options struct {
	// Source produces the suggestions.
	Source completion.Source
	// Delay is the debounce window between fetches.
	Delay time.Duration
	// MaxRows caps the dropdown.
	MaxRows int

	Initial string
	Prompt  string
	Theme   Theme
	NoColor bool
	Save    SaveFunc

	// Width and Height of 0 detect the terminal size.
	Width  int
	Height int
}

// Run starts the search box and blocks until it exits. It returns the
// submitted query, or "" when the user quit.
func Run(ctx context.Context, opts Options, progOpts ...tea.ProgramOption) (string, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			if opts.Width <= 0 {
				opts.Width = w
			}
			if opts.Height <= 0 {
				opts.Height = h
			}
		}
	}
	if opts.Width <= 0 {
		opts.Width = 80
	}
	if opts.Height <= 0 {
		opts.Height = 24
	}
	progOpts = append(progOpts, tea.WithWindowSize(opts.Width, opts.Height), tea.WithContext(ctx))

	ctrl := controller.New(opts.Source, controller.Options{
		Delay:   opts.Delay,
		MaxRows: opts.MaxRows,
	})
	m := NewModel(ctx, ctrl, opts)

	final, err := tea.NewProgram(m, progOpts...).Run()
	if fm, ok := final.(*Model); ok && fm != nil {
		return fm.Submitted, err
	}
	return "", err
}
