package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/gridpulse/pkg/board"
)

// Widget is the interface every gridpulse card body implements. The board
// model owns layout, borders, and drag handling; widgets only render their
// interior and react to events addressed to them.
type Widget interface {
	// ID returns the instance identifier, unique across the board.
	ID() string

	// Kind returns the widget's catalog kind.
	Kind() board.Kind

	// Title returns the display title embedded in the card border.
	Title() string

	// MinSize returns the minimum interior width and height the widget
	// needs to render something useful.
	MinSize() (int, int)

	// Init returns the widget's startup command, typically its first
	// feed fetch. May return nil.
	Init() tea.Cmd

	// Update handles messages from the update loop. Widgets ignore
	// DataUpdateEvents addressed to other instances.
	Update(msg tea.Msg) tea.Cmd

	// HandleKey processes key events while the widget has focus and is
	// not being dragged. Returns nil when the key is not consumed.
	HandleKey(key tea.KeyMsg) tea.Cmd

	// View renders the widget interior into a width x height cell area.
	View(width, height int) string
}

// Editable is implemented by widgets whose config can be changed through
// the inline edit overlay.
type Editable interface {
	// EditValue returns the current editable value and a short prompt
	// label for the edit overlay.
	EditValue() (value, prompt string)

	// CommitEdit validates the entered value and returns the config
	// mutation to store, or an error to keep the overlay open.
	CommitEdit(value string) (func(*board.Config), error)
}
