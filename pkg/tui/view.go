package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/gridpulse/pkg/board"
	"gitlab.com/tinyland/lab/gridpulse/pkg/components"
	"gitlab.com/tinyland/lab/gridpulse/pkg/drag"
	"gitlab.com/tinyland/lab/gridpulse/pkg/grid"
	"gitlab.com/tinyland/lab/gridpulse/pkg/theme"
)

// cardZoneID and libZoneID name the bubblezone marks for hit testing.
func cardZoneID(id string) string      { return "card:" + id }
func libZoneID(kind board.Kind) string { return "lib:" + string(kind) }

// boardArea returns the screen rectangle the grid occupies: everything
// above the status bar, minus the library panel when it is open.
func (m *Model) boardArea() grid.Rect {
	w := m.width
	if m.mode == modeLibrary && w > libraryPanelWidth*2 {
		w -= libraryPanelWidth
	}
	h := m.height - 1
	if h < 0 {
		h = 0
	}
	return grid.Rect{X: 0, Y: 0, Width: w, Height: h}
}

// displayCount is the number of grid cells to lay out: every stored
// widget, plus the placeholder slot during a library drag.
func (m *Model) displayCount() int {
	n := m.store.Len()
	if m.ctrl.Active() && m.ctrl.Origin() == drag.OriginLibrary {
		n++
	}
	return n
}

// relayout recomputes the cell rectangles after anything that changes
// geometry: resize, add, remove, panel toggle, drag start or end.
func (m *Model) relayout() {
	m.rects = grid.CellRects(m.boardArea(), m.displayCount(), m.columns, m.cardHeight, m.gap)
}

// View renders the full frame and registers the mouse zones.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	if len(m.rects) != m.displayCount() {
		m.relayout()
	}

	boardView := m.renderBoard()
	if m.mode == modeLibrary {
		boardView = lipgloss.JoinHorizontal(lipgloss.Top, boardView, m.renderLibrary())
	}

	area := m.boardArea()
	switch m.mode {
	case modeHelp:
		boardView = lipgloss.Place(m.width, area.Height, lipgloss.Center, lipgloss.Center, m.renderHelp())
	case modeEdit:
		boardView = lipgloss.Place(m.width, area.Height, lipgloss.Center, lipgloss.Center, m.renderEditOverlay())
	case modeConfirm:
		boardView = lipgloss.Place(m.width, area.Height, lipgloss.Center, lipgloss.Center, m.renderConfirmOverlay())
	}

	out := lipgloss.JoinVertical(lipgloss.Left, boardView, m.renderStatusBar())
	return m.zones.Scan(out)
}

// displayCell is one laid-out grid slot: either a stored widget or the
// library-drag placeholder.
type displayCell struct {
	inst        board.Instance
	placeholder bool
}

// displayCells interleaves the placeholder into the stored sequence.
func (m *Model) displayCells() []displayCell {
	seq := m.store.Widgets()
	cells := make([]displayCell, 0, len(seq)+1)
	for _, inst := range seq {
		cells = append(cells, displayCell{inst: inst})
	}
	if m.ctrl.Active() && m.ctrl.Origin() == drag.OriginLibrary {
		at := m.ctrl.PlaceholderIndex()
		if at < 0 || at > len(cells) {
			at = len(cells)
		}
		cells = append(cells[:at], append([]displayCell{{placeholder: true}}, cells[at:]...)...)
	}
	return cells
}

// renderBoard lays the cards out row by row following the cell rects.
func (m *Model) renderBoard() string {
	area := m.boardArea()
	cells := m.displayCells()
	if len(cells) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Current().Dim)).
			Render("board is empty · press a to add a widget")
		return lipgloss.Place(area.Width, area.Height, lipgloss.Center, lipgloss.Center, empty)
	}

	gapCol := strings.Repeat(" ", m.gap)
	var rows []string
	for start := 0; start < len(cells); start += m.columns {
		end := start + m.columns
		if end > len(cells) {
			end = len(cells)
		}
		parts := make([]string, 0, (end-start)*2)
		for i := start; i < end; i++ {
			if i > start {
				parts = append(parts, gapCol)
			}
			parts = append(parts, m.renderCell(cells[i], m.rects[i]))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, parts...))
		if end < len(cells) {
			for g := 0; g < m.gap; g++ {
				rows = append(rows, "")
			}
		}
	}
	return strings.Join(rows, "\n")
}

// renderCell renders one card (or the placeholder) at its rect size.
func (m *Model) renderCell(cell displayCell, r grid.Rect) string {
	t := theme.Current()

	if cell.placeholder {
		style := components.CardStyle{
			Title:  string(m.ctrl.ActiveKind()),
			Border: t.Placeholder,
			Dashed: true,
		}
		return components.RenderCard("", r.Width, r.Height, style)
	}

	inst := cell.inst
	borderColor := t.Border
	switch {
	case m.ctrl.Active() && m.ctrl.ActiveID() == inst.ID:
		borderColor = t.BorderDrag
	case m.settling[inst.ID]:
		borderColor = t.BorderDrag
	case inst.ID == m.focusedID:
		borderColor = t.BorderFocus
	}

	title := inst.Kind.String()
	var content string
	if body := m.bodies[inst.ID]; body != nil {
		title = body.Title()
		content = body.View(r.Width-2, r.Height-2)
	}
	if m.fetching[inst.ID] {
		title += " " + m.spin.View()
	}

	card := components.RenderCard(content, r.Width, r.Height, components.CardStyle{
		Title:  title,
		Border: borderColor,
	})
	return m.zones.Mark(cardZoneID(inst.ID), card)
}

// renderLibrary renders the add-widget side panel.
func (m *Model) renderLibrary() string {
	t := theme.Current()
	area := m.boardArea()

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(t.Title))
	nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Foreground))
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Dim))
	selStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)).Bold(true)

	lines := []string{titleStyle.Render(" Library"), ""}
	for i, entry := range m.libraryEntries() {
		marker := "  "
		style := nameStyle
		if i == m.libIndex {
			marker = "> "
			style = selStyle
		}
		row := components.FitLine(marker+entry.Icon+" "+entry.Name, libraryPanelWidth-2)
		item := style.Render(row) + "\n" +
			descStyle.Render(components.FitLine("    "+entry.Description, libraryPanelWidth-2))
		lines = append(lines, m.zones.Mark(libZoneID(entry.Kind), item))
	}
	lines = append(lines, "", descStyle.Render(" enter/drag to add"))

	panel := lipgloss.NewStyle().
		Width(libraryPanelWidth - 1).
		Height(area.Height - 2).
		Render(strings.Join(lines, "\n"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color(t.Border)).
		Render(panel)
}

// renderEditOverlay renders the inline config editor.
func (m *Model) renderEditOverlay() string {
	t := theme.Current()
	title := "edit"
	if body := m.focusedBody(); body != nil {
		title = "edit " + body.Title()
	}
	inner := m.input.View()
	if m.statusMsg != "" {
		inner += "\n" + lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.StatusError)).Render(m.statusMsg)
	}
	return m.overlayBox(title, inner)
}

// renderConfirmOverlay renders the delete confirmation prompt.
func (m *Model) renderConfirmOverlay() string {
	name := m.confirmID
	if inst, err := m.store.Get(m.confirmID); err == nil {
		if body := m.bodies[inst.ID]; body != nil {
			name = body.Title()
		} else {
			name = inst.Kind.String()
		}
	}
	return m.overlayBox("remove widget",
		fmt.Sprintf("remove %s from the board?\n\ny: remove   n: keep", name))
}

// renderHelp renders the keybinding reference overlay.
func (m *Model) renderHelp() string {
	t := theme.Current()
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.HelpKey)).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.HelpDesc))

	bindings := [][2]string{
		{"tab / arrows", "move focus"},
		{"g / space", "grab card, then arrows + enter to drop"},
		{"drag", "reorder with the mouse"},
		{"a", "open widget library"},
		{"e", "edit widget config"},
		{"d", "remove widget"},
		{"r", "refresh focused widget"},
		{"t", "cycle theme"},
		{"?", "toggle this help"},
		{"q", "quit"},
	}

	var b strings.Builder
	for _, kv := range bindings {
		b.WriteString(keyStyle.Render(components.PadRight(kv[0], 14)))
		b.WriteString(descStyle.Render(kv[1]))
		b.WriteByte('\n')
	}
	return m.overlayBox("keys", strings.TrimRight(b.String(), "\n"))
}

// overlayBox wraps overlay content in the standard bordered box.
func (m *Model) overlayBox(title, content string) string {
	t := theme.Current()
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.BorderFocus)).
		Padding(0, 1)
	titled := lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.Color(t.Title)).Render(title)
	return box.Render(titled + "\n\n" + content)
}

// renderStatusBar renders the bottom hint line.
func (m *Model) renderStatusBar() string {
	t := theme.Current()

	var hints string
	switch m.mode {
	case modeMove:
		hints = "arrows:reorder  enter:drop  esc:cancel"
	case modeLibrary:
		hints = "↑↓:select  enter:add  esc:close"
	case modeEdit:
		hints = "enter:save  esc:cancel"
	case modeConfirm:
		hints = "y:remove  n:keep"
	default:
		hints = "tab:focus  g:move  a:add  e:edit  d:remove  ?:help  q:quit"
	}

	left := ""
	if len(m.fetching) > 0 {
		left = m.spin.View() + " "
	}
	if m.statusMsg != "" && m.mode != modeEdit {
		left += m.statusMsg + "  |  "
	}

	bar := components.FitLine(" "+left+hints, m.width)
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Dim)).
		Render(bar)
}
