// Package tui implements the gridpulse board model: a bubbletea program
// that lays widgets out on a fixed-column grid, lets the user drag them
// with the mouse or a keyboard move mode, and persists every layout
// change through the debounced save manager.
package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"gitlab.com/tinyland/lab/gridpulse/pkg/app"
	"gitlab.com/tinyland/lab/gridpulse/pkg/board"
	"gitlab.com/tinyland/lab/gridpulse/pkg/drag"
	"gitlab.com/tinyland/lab/gridpulse/pkg/feeds"
	"gitlab.com/tinyland/lab/gridpulse/pkg/grid"
	"gitlab.com/tinyland/lab/gridpulse/pkg/persist"
	"gitlab.com/tinyland/lab/gridpulse/pkg/registry"
	"gitlab.com/tinyland/lab/gridpulse/pkg/theme"
	"gitlab.com/tinyland/lab/gridpulse/pkg/widgets"
)

// clockInterval drives clock redraws and staleness checks.
const clockInterval = time.Second

// libraryPanelWidth is the width of the widget library side panel.
const libraryPanelWidth = 26

// mode is the board's input mode. Exactly one mode is active at a time.
type mode int

const (
	modeNormal mode = iota
	modeMove        // keyboard drag of the focused card
	modeLibrary     // library panel open
	modeEdit        // inline config edit overlay
	modeConfirm     // delete confirmation
	modeHelp        // help overlay
)

// Options wires the board model to its collaborators.
type Options struct {
	Store      *board.Store
	Controller *drag.Controller
	Saver      *persist.Manager
	Client     *feeds.Client
	Intervals  widgets.Intervals
	Columns    int
	CardHeight int
	Gap        int
	ThemeName  string
	Logger     *slog.Logger
}

// Model is the root bubbletea model for the gridpulse board.
type Model struct {
	store *board.Store
	ctrl  *drag.Controller
	saver *persist.Manager
	log   *slog.Logger

	client    *feeds.Client
	intervals widgets.Intervals

	columns    int
	cardHeight int
	gap        int

	width  int
	height int

	zones *zone.Manager
	rects []grid.Rect

	bodies    map[string]app.Widget
	focusedID string

	mode      mode
	libIndex  int
	confirmID string
	input     textinput.Model

	spin     spinner.Model
	fetching map[string]bool
	settling map[string]bool

	themeName string
	statusMsg string

	mouseDown bool
	quitting  bool
}

// New builds the board model. Widget bodies are created for every
// instance already in the store, and every subsequent store change is
// scheduled for persistence.
func New(opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Columns <= 0 {
		opts.Columns = grid.DefaultColumns
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	m := &Model{
		store:      opts.Store,
		ctrl:       opts.Controller,
		saver:      opts.Saver,
		log:        opts.Logger,
		client:     opts.Client,
		intervals:  opts.Intervals,
		columns:    opts.Columns,
		cardHeight: opts.CardHeight,
		gap:        opts.Gap,
		zones:      zone.New(),
		bodies:     make(map[string]app.Widget),
		spin:       sp,
		fetching:   make(map[string]bool),
		settling:   make(map[string]bool),
		themeName:  opts.ThemeName,
	}

	theme.SetCurrent(opts.ThemeName)
	m.syncBodies()
	if seq := opts.Store.Widgets(); len(seq) > 0 {
		m.focusedID = seq[0].ID
	}

	opts.Store.Subscribe(func(seq []board.Instance) {
		opts.Saver.Save(seq)
	})

	return m
}

// Init starts the clock tick, the spinner, and every widget's first
// fetch.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{app.TickCmd(clockInterval), m.spin.Tick}
	for _, inst := range m.store.Widgets() {
		if body := m.bodies[inst.ID]; body != nil {
			if cmd := body.Init(); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}
	return tea.Batch(cmds...)
}

// syncBodies reconciles widget bodies with the store sequence, creating
// bodies for new instances and dropping removed ones. Returns the Init
// commands of any newly created bodies.
func (m *Model) syncBodies() tea.Cmd {
	seq := m.store.Widgets()
	alive := make(map[string]bool, len(seq))

	var cmds []tea.Cmd
	for _, inst := range seq {
		alive[inst.ID] = true
		if _, ok := m.bodies[inst.ID]; ok {
			continue
		}
		body := widgets.New(inst, m.client, m.intervals)
		if body == nil {
			m.log.Warn("no widget body for kind", "kind", inst.Kind)
			continue
		}
		m.bodies[inst.ID] = body
		if cmd := body.Init(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	for id := range m.bodies {
		if !alive[id] {
			delete(m.bodies, id)
			delete(m.fetching, id)
			delete(m.settling, id)
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// focusedBody returns the widget body that currently has focus.
func (m *Model) focusedBody() app.Widget {
	if m.focusedID == "" {
		return nil
	}
	return m.bodies[m.focusedID]
}

// focusIndex returns the store index of the focused widget, or 0.
func (m *Model) focusIndex() int {
	if i := m.store.IndexOf(m.focusedID); i >= 0 {
		return i
	}
	return 0
}

// cycleFocus moves focus by delta through the store order, wrapping.
func (m *Model) cycleFocus(delta int) {
	n := m.store.Len()
	if n == 0 {
		m.focusedID = ""
		return
	}
	idx := (m.focusIndex() + delta + n) % n
	m.focusedID = m.store.Widgets()[idx].ID
}

// cardSize returns the outer size every card is laid out at.
func (m *Model) cardSize() drag.Size {
	if len(m.rects) > 0 {
		return drag.Size{Width: m.rects[0].Width, Height: m.rects[0].Height}
	}
	return drag.Size{Width: 0, Height: m.cardHeight}
}

// libraryEntries returns the catalog in stable order.
func (m *Model) libraryEntries() []registry.Entry {
	return registry.Entries()
}

// cycleTheme advances to the next built-in theme.
func (m *Model) cycleTheme() {
	names := theme.Names()
	if len(names) == 0 {
		return
	}
	next := 0
	for i, name := range names {
		if name == m.themeName {
			next = (i + 1) % len(names)
			break
		}
	}
	m.themeName = names[next]
	theme.SetCurrent(m.themeName)
	m.statusMsg = "theme: " + m.themeName
}
