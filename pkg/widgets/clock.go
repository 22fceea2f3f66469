package widgets

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/gridpulse/pkg/app"
	"gitlab.com/tinyland/lab/gridpulse/pkg/board"
	"gitlab.com/tinyland/lab/gridpulse/pkg/components"
)

// ClockWidget shows the local time and date, redrawn by the board's
// shared tick.
type ClockWidget struct {
	id      string
	now     time.Time
	twelveH bool
}

// NewClock creates a clock widget from a board instance.
func NewClock(inst board.Instance) *ClockWidget {
	return &ClockWidget{id: inst.ID, now: time.Now()}
}

func (w *ClockWidget) ID() string          { return w.id }
func (w *ClockWidget) Kind() board.Kind    { return board.KindClock }
func (w *ClockWidget) Title() string       { return "Clock" }
func (w *ClockWidget) MinSize() (int, int) { return 10, 3 }
func (w *ClockWidget) Init() tea.Cmd       { return nil }

func (w *ClockWidget) Update(msg tea.Msg) tea.Cmd {
	if tick, ok := msg.(app.TickEvent); ok {
		w.now = tick.Time
	}
	return nil
}

// HandleKey toggles 12/24 hour display on 'h'.
func (w *ClockWidget) HandleKey(key tea.KeyMsg) tea.Cmd {
	if key.String() == "h" {
		w.twelveH = !w.twelveH
	}
	return nil
}

func (w *ClockWidget) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	layout := "15:04:05"
	if w.twelveH {
		layout = "3:04:05 PM"
	}
	lines := []string{
		components.PadCenter(components.Bold(w.now.Format(layout)), width),
	}
	if height >= 3 {
		lines = append(lines, components.PadCenter(
			components.Dim(w.now.Format("Mon Jan 2")), width))
	}
	return centerLines(lines, width, height)
}
