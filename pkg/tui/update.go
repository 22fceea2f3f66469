package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/gridpulse/pkg/app"
	"gitlab.com/tinyland/lab/gridpulse/pkg/drag"
	"gitlab.com/tinyland/lab/gridpulse/pkg/grid"
)

// Update is the bubbletea update loop.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.relayout()
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.BlurMsg:
		// Terminal focus loss cancels any in-flight drag.
		if m.ctrl.Active() {
			m.ctrl.Cancel()
			m.mouseDown = false
			if m.mode == modeMove {
				m.mode = modeNormal
			}
			m.statusMsg = "drag cancelled"
			m.relayout()
		}
		return m, nil

	case app.TickEvent:
		cmds := m.broadcast(msg)
		cmds = append(cmds, app.TickCmd(clockInterval))
		return m, tea.Batch(cmds...)

	case app.DataUpdateEvent:
		if msg.Err != nil {
			m.log.Warn("feed fetch failed", "widget", msg.WidgetID, "error", msg.Err)
		}
		return m, tea.Batch(m.broadcast(msg)...)

	case app.FetchStateEvent:
		if msg.Fetching {
			m.fetching[msg.WidgetID] = true
		} else {
			delete(m.fetching, msg.WidgetID)
		}
		return m, nil

	case app.DragSettledEvent:
		delete(m.settling, msg.WidgetID)
		return m, nil

	case app.ConfigChangedEvent:
		if err := m.store.UpdateConfig(msg.WidgetID, msg.Apply); err != nil {
			m.log.Warn("config update failed", "widget", msg.WidgetID, "error", err)
		}
		return m, nil

	default:
		// Spinner frames and widget-internal refresh ticks.
		var cmds []tea.Cmd
		if len(m.fetching) > 0 {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		cmds = append(cmds, m.broadcast(msg)...)
		return m, tea.Batch(cmds...)
	}
}

// broadcast forwards a message to every widget body.
func (m *Model) broadcast(msg tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd
	for _, inst := range m.store.Widgets() {
		if body := m.bodies[inst.ID]; body != nil {
			if cmd := body.Update(msg); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}
	return cmds
}

// updateKey dispatches key events by input mode.
func (m *Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeMove:
		return m.updateKeyMove(msg)
	case modeLibrary:
		return m.updateKeyLibrary(msg)
	case modeEdit:
		return m.updateKeyEdit(msg)
	case modeConfirm:
		return m.updateKeyConfirm(msg)
	case modeHelp:
		switch msg.String() {
		case "?", "esc", "q":
			m.mode = modeNormal
		}
		return m, nil
	}
	return m.updateKeyNormal(msg)
}

func (m *Model) updateKeyNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.statusMsg = ""
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "tab", "right", "l":
		m.cycleFocus(1)
	case "shift+tab", "left", "h":
		m.cycleFocus(-1)
	case "down", "j":
		m.cycleFocus(m.columns)
	case "up", "k":
		m.cycleFocus(-m.columns)

	case "g", " ":
		// Grab the focused card for a keyboard move.
		if m.focusedID == "" {
			return m, nil
		}
		size := m.cardSize()
		if err := m.ctrl.BeginFromBoard(m.focusedID, &size); err != nil {
			if errors.Is(err, drag.ErrDragActive) {
				m.statusMsg = "another drag is active"
			}
			return m, nil
		}
		m.mode = modeMove
		m.statusMsg = "moving: arrows to reorder, enter to drop, esc to cancel"

	case "a":
		m.mode = modeLibrary
		m.libIndex = 0
		m.relayout()

	case "e":
		if ew, ok := m.focusedBody().(app.Editable); ok {
			value, prompt := ew.EditValue()
			ti := textinput.New()
			ti.Placeholder = prompt
			ti.SetValue(value)
			ti.CursorEnd()
			ti.Focus()
			m.input = ti
			m.mode = modeEdit
			return m, textinput.Blink
		}

	case "d", "backspace":
		if m.focusedID != "" {
			m.confirmID = m.focusedID
			m.mode = modeConfirm
		}

	case "t":
		m.cycleTheme()

	case "?":
		m.mode = modeHelp

	default:
		if body := m.focusedBody(); body != nil {
			return m, body.HandleKey(msg)
		}
	}
	return m, nil
}

// updateKeyMove handles the keyboard move mode: the grabbed card follows
// arrow keys one grid cell at a time, reordering live.
func (m *Model) updateKeyMove(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.ctrl.Cancel()
		m.mode = modeNormal
		m.statusMsg = "move cancelled"
		m.relayout()
		return m, nil

	case "enter", "g", " ":
		id := m.ctrl.ActiveID()
		res, err := m.ctrl.Drop(true)
		m.mode = modeNormal
		m.relayout()
		if err != nil {
			return m, nil
		}
		if res.Moved {
			m.settling[id] = true
			m.statusMsg = ""
			return m, app.SettleCmd(id, res.Settle)
		}
		m.statusMsg = ""
		return m, nil

	case "left", "h":
		m.moveActiveBy(0, -1)
	case "right", "l":
		m.moveActiveBy(0, 1)
	case "up", "k":
		m.moveActiveBy(-1, 0)
	case "down", "j":
		m.moveActiveBy(1, 0)
	}
	return m, nil
}

// moveActiveBy retargets the grabbed card one cell away in grid space.
func (m *Model) moveActiveBy(dRow, dCol int) {
	id := m.ctrl.ActiveID()
	cur := m.store.IndexOf(id)
	if cur < 0 {
		return
	}
	pos := grid.PositionOf(cur, m.columns)
	target := grid.IndexOf(pos.Row+dRow, pos.Col+dCol, m.columns)
	if target < 0 || target >= m.store.Len() || target == cur {
		return
	}
	m.ctrl.OverTarget(m.store.Widgets()[target].ID)
	m.focusedID = id
}

func (m *Model) updateKeyLibrary(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := m.libraryEntries()
	switch msg.String() {
	case "esc", "a", "q":
		if m.ctrl.Active() && m.ctrl.Origin() == drag.OriginLibrary {
			m.ctrl.Cancel()
		}
		m.mode = modeNormal
		m.relayout()

	case "down", "j", "tab":
		if len(entries) > 0 {
			m.libIndex = (m.libIndex + 1) % len(entries)
		}
	case "up", "k", "shift+tab":
		if len(entries) > 0 {
			m.libIndex = (m.libIndex - 1 + len(entries)) % len(entries)
		}

	case "enter":
		if m.libIndex >= len(entries) {
			return m, nil
		}
		kind := entries[m.libIndex].Kind
		size := m.cardSize()
		if err := m.ctrl.BeginFromLibrary(kind, &size); err != nil {
			return m, nil
		}
		res, err := m.ctrl.Drop(true)
		m.mode = modeNormal
		if err != nil || res.Added == nil {
			m.relayout()
			return m, nil
		}
		m.focusedID = res.Added.ID
		m.settling[res.Added.ID] = true
		m.relayout()
		return m, tea.Batch(m.syncBodies(), app.SettleCmd(res.Added.ID, res.Settle))
	}
	return m, nil
}

func (m *Model) updateKeyEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		return m, nil

	case "enter":
		ew, ok := m.focusedBody().(app.Editable)
		if !ok {
			m.mode = modeNormal
			return m, nil
		}
		apply, err := ew.CommitEdit(m.input.Value())
		if err != nil {
			m.statusMsg = err.Error()
			return m, nil
		}
		m.mode = modeNormal
		if err := m.store.UpdateConfig(m.focusedID, apply); err != nil {
			m.log.Warn("config update failed", "widget", m.focusedID, "error", err)
			return m, nil
		}
		// Refetch with the new config.
		if body := m.focusedBody(); body != nil {
			return m, body.Init()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateKeyConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		id := m.confirmID
		m.confirmID = ""
		m.mode = modeNormal
		if err := m.store.Remove(id); err != nil {
			m.log.Warn("remove failed", "widget", id, "error", err)
			return m, nil
		}
		if m.focusedID == id {
			m.focusedID = ""
			if seq := m.store.Widgets(); len(seq) > 0 {
				m.focusedID = seq[0].ID
			}
		}
		m.relayout()
		return m, m.syncBodies()

	case "n", "esc":
		m.confirmID = ""
		m.mode = modeNormal
	}
	return m, nil
}

// updateMouse implements the pointer drag sensor: press grabs a card or
// a library entry, motion retargets the drag, release drops it.
func (m *Model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		return m.mousePress(msg)

	case tea.MouseActionMotion:
		if m.mouseDown && m.ctrl.Active() {
			m.mouseRetarget(msg)
		}
		return m, nil

	case tea.MouseActionRelease:
		if !m.mouseDown {
			return m, nil
		}
		m.mouseDown = false
		return m.mouseRelease(msg)
	}
	return m, nil
}

func (m *Model) mousePress(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	// Library entries first: they sit on top of the board area.
	if m.mode == modeLibrary {
		for i, entry := range m.libraryEntries() {
			z := m.zones.Get(libZoneID(entry.Kind))
			if z != nil && z.InBounds(msg) {
				m.libIndex = i
				size := m.cardSize()
				if err := m.ctrl.BeginFromLibrary(entry.Kind, &size); err == nil {
					m.mouseDown = true
					m.relayout()
				}
				return m, nil
			}
		}
	}

	for _, inst := range m.store.Widgets() {
		z := m.zones.Get(cardZoneID(inst.ID))
		if z != nil && z.InBounds(msg) {
			m.focusedID = inst.ID
			size := m.cardSize()
			if err := m.ctrl.BeginFromBoard(inst.ID, &size); err == nil {
				m.mouseDown = true
			}
			return m, nil
		}
	}
	return m, nil
}

// mouseRetarget maps the pointer to a board cell and retargets the drag.
// Pointers between cards snap to the nearest cell center.
func (m *Model) mouseRetarget(msg tea.MouseMsg) {
	idx := grid.CellAt(m.rects, msg.X, msg.Y)
	if idx < 0 && m.onBoard(msg.X, msg.Y) {
		idx = grid.Nearest(m.rects, msg.X, msg.Y)
	}
	seq := m.store.Widgets()
	displayLen := len(seq)
	if m.ctrl.Origin() == drag.OriginLibrary {
		displayLen++
	}
	if idx < 0 || idx >= displayLen {
		return
	}
	if idx < len(seq) {
		m.ctrl.OverTarget(seq[idx].ID)
	}
}

func (m *Model) mouseRelease(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.ctrl.Active() {
		return m, nil
	}
	id := m.ctrl.ActiveID()
	res, err := m.ctrl.Drop(m.onBoard(msg.X, msg.Y))
	if err != nil {
		m.relayout()
		return m, nil
	}
	if res.Cancelled {
		m.statusMsg = "drag cancelled"
		m.relayout()
		return m, nil
	}
	if res.Added != nil {
		m.mode = modeNormal
		m.focusedID = res.Added.ID
		m.settling[res.Added.ID] = true
		m.relayout()
		return m, tea.Batch(m.syncBodies(), app.SettleCmd(res.Added.ID, res.Settle))
	}
	m.relayout()
	if res.Moved {
		m.settling[id] = true
		return m, app.SettleCmd(id, res.Settle)
	}
	return m, nil
}

// onBoard reports whether a point is inside the board area.
func (m *Model) onBoard(x, y int) bool {
	return m.boardArea().Contains(x, y)
}
