package ui

import tea "charm.land/bubbletea/v2"

// Action is what a key does in the search box.
type Action string

const (
	ActionNone   Action = ""
	ActionUp     Action = "up"
	ActionDown   Action = "down"
	ActionAccept Action = "accept"
	ActionEnter  Action = "enter"
	ActionCancel Action = "cancel"
	ActionQuit   Action = "quit"
	ActionSave   Action = "save"
	ActionHelp   Action = "help"
)

var keyActions = map[string]Action{
	"up":     ActionUp,
	"ctrl+p": ActionUp,
	"down":   ActionDown,
	"ctrl+n": ActionDown,
	"tab":    ActionAccept,
	"enter":  ActionEnter,
	"esc":    ActionCancel,
	"ctrl+c": ActionQuit,
	"ctrl+s": ActionSave,
	"f1":     ActionHelp,
}

// ActionForKey maps a key press to an Action. Keys without an action are
// handed to the text input.
func ActionForKey(msg tea.KeyPressMsg) Action {
	return keyActions[msg.String()]
}

const helpText = `Type tags to search. Quote a tag to complete it: "blue_s
Outside quotes, keywords complete: AND OR XOR IFF IMP - ( )

up/down, ctrl+p/ctrl+n  move through suggestions
tab                     insert the highlighted suggestion
enter                   insert, or run the search
ctrl+s                  save the search
esc                     close suggestions, or quit
ctrl+c                  quit`
