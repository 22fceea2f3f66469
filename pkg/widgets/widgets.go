// Package widgets provides the concrete widget implementations for the
// gridpulse board: stock, stock-table, weather, notes, clock, and github.
// Each widget implements the app.Widget interface and receives data via
// the Elm-architecture update loop.
package widgets

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/gridpulse/pkg/app"
	"gitlab.com/tinyland/lab/gridpulse/pkg/board"
	"gitlab.com/tinyland/lab/gridpulse/pkg/components"
	"gitlab.com/tinyland/lab/gridpulse/pkg/feeds"
)

// fetchTimeout bounds a single feed request issued by a widget.
const fetchTimeout = 10 * time.Second

// Intervals carries the per-feed refresh periods from the config file.
type Intervals struct {
	Stock   time.Duration
	Weather time.Duration
	GitHub  time.Duration
}

// refreshMsg asks a widget to re-fetch its feed. Widgets ignore refresh
// messages addressed to other instances.
type refreshMsg struct {
	id string
}

// scheduleRefresh returns a Cmd that fires a refreshMsg for the widget
// after its refresh interval.
func scheduleRefresh(id string, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return refreshMsg{id: id}
	})
}

// fetchingCmd announces an in-flight fetch so the board can show its
// refresh indicator.
func fetchingCmd(id string, fetching bool) tea.Cmd {
	return func() tea.Msg {
		return app.FetchStateEvent{WidgetID: id, Fetching: fetching}
	}
}

// New builds the widget for a board instance. Unknown kinds return nil;
// callers guard with board.Kind.Valid.
func New(inst board.Instance, client *feeds.Client, iv Intervals) app.Widget {
	switch inst.Kind {
	case board.KindStock:
		return NewStock(inst, client, iv.Stock)
	case board.KindStockTable:
		return NewStockTable(inst, client, iv.Stock)
	case board.KindWeather:
		return NewWeather(inst, client, iv.Weather)
	case board.KindNotes:
		return NewNotes(inst)
	case board.KindClock:
		return NewClock(inst)
	case board.KindGitHub:
		return NewGitHub(inst, client, iv.GitHub)
	}
	return nil
}

// centerLines vertically centers a few short lines in a widget interior.
func centerLines(lines []string, width, height int) string {
	topPad := (height - len(lines)) / 2
	if topPad < 0 {
		topPad = 0
	}
	out := make([]string, 0, height)
	for i := 0; i < topPad; i++ {
		out = append(out, "")
	}
	out = append(out, lines...)
	return components.FitLines(out, width, height)
}

// errorLines renders a fetch error as a compact two-line message.
func errorLines(err error, width, height int) string {
	msg := err.Error()
	if i := strings.IndexByte(msg, ':'); i > 0 && i < len(msg)-1 {
		msg = strings.TrimSpace(msg[i+1:])
	}
	return centerLines([]string{
		components.PadCenter("unavailable", width),
		components.PadCenter(components.Truncate(msg, width), width),
	}, width, height)
}

// loadingLines renders the pre-first-fetch state.
func loadingLines(width, height int) string {
	return centerLines([]string{components.PadCenter("loading…", width)}, width, height)
}

// ageString formats how long ago a timestamp was, for status footers.
func ageString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
}
