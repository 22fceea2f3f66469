package widgets

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/gridpulse/pkg/app"
	"gitlab.com/tinyland/lab/gridpulse/pkg/board"
	"gitlab.com/tinyland/lab/gridpulse/pkg/components"
	"gitlab.com/tinyland/lab/gridpulse/pkg/feeds"
	"gitlab.com/tinyland/lab/gridpulse/pkg/theme"
)

// StockTableWidget shows last price and intraday change for a list of
// tickers as an aligned table.
type StockTableWidget struct {
	id       string
	tickers  []string
	client   *feeds.Client
	interval time.Duration

	quotes     []feeds.Quote
	err        error
	lastUpdate time.Time
}

// NewStockTable creates a stock table widget. An empty ticker list falls
// back to a small default watchlist.
func NewStockTable(inst board.Instance, client *feeds.Client, interval time.Duration) *StockTableWidget {
	tickers := inst.Config.Tickers
	if len(tickers) == 0 {
		tickers = []string{"AAPL", "MSFT", "GOOG"}
	}
	upper := make([]string, len(tickers))
	for i, t := range tickers {
		upper[i] = strings.ToUpper(strings.TrimSpace(t))
	}
	return &StockTableWidget{
		id:       inst.ID,
		tickers:  upper,
		client:   client,
		interval: interval,
	}
}

func (w *StockTableWidget) ID() string       { return w.id }
func (w *StockTableWidget) Kind() board.Kind { return board.KindStockTable }
func (w *StockTableWidget) Title() string    { return "Stocks" }

// MinSize needs the header plus at least one data row.
func (w *StockTableWidget) MinSize() (int, int) { return 18, 3 }

func (w *StockTableWidget) Init() tea.Cmd {
	return tea.Batch(fetchingCmd(w.id, true), w.fetch())
}

func (w *StockTableWidget) fetch() tea.Cmd {
	tickers := w.tickers
	return app.DataFetchCmd(w.id, fetchTimeout, func(ctx context.Context) (any, error) {
		return w.client.FetchQuotes(ctx, tickers)
	})
}

func (w *StockTableWidget) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case app.DataUpdateEvent:
		if msg.WidgetID != w.id {
			return nil
		}
		if msg.Err != nil {
			w.err = msg.Err
		} else if quotes, ok := msg.Data.([]feeds.Quote); ok {
			w.quotes = quotes
			w.err = nil
			w.lastUpdate = msg.Timestamp
		}
		return tea.Batch(fetchingCmd(w.id, false), scheduleRefresh(w.id, w.interval))
	case refreshMsg:
		if msg.id != w.id {
			return nil
		}
		return tea.Batch(fetchingCmd(w.id, true), w.fetch())
	}
	return nil
}

func (w *StockTableWidget) HandleKey(key tea.KeyMsg) tea.Cmd {
	if key.String() == "r" {
		return tea.Batch(fetchingCmd(w.id, true), w.fetch())
	}
	return nil
}

func (w *StockTableWidget) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if w.err != nil && w.quotes == nil {
		return errorLines(w.err, width, height)
	}
	if w.quotes == nil {
		return loadingLines(width, height)
	}

	t := theme.Current()
	columns := []components.TableColumn{
		{Header: "SYM", Weight: 2},
		{Header: "LAST", Align: components.AlignRight, Weight: 2},
		{Header: "CHG%", Align: components.AlignRight, Weight: 2},
	}

	rows := make([][]string, 0, len(w.quotes))
	for _, q := range w.quotes {
		delta, pct := q.Change()
		trend := t.TrendUp
		if delta < 0 {
			trend = t.TrendDown
		}
		chg := components.Color(trend) + fmt.Sprintf("%+.2f", pct) + components.Reset()
		rows = append(rows, []string{q.Symbol, fmt.Sprintf("%.2f", q.Close), chg})
	}

	lines := components.RenderTable(columns, rows, width)
	return components.FitLines(lines, width, height)
}

// EditValue exposes the watchlist as a comma-separated line.
func (w *StockTableWidget) EditValue() (string, string) {
	return strings.Join(w.tickers, ","), "tickers (comma-separated)"
}

// CommitEdit parses and stores a new watchlist.
func (w *StockTableWidget) CommitEdit(value string) (func(*board.Config), error) {
	var tickers []string
	for _, part := range strings.Split(value, ",") {
		t := strings.ToUpper(strings.TrimSpace(part))
		if t != "" {
			tickers = append(tickers, t)
		}
	}
	if len(tickers) == 0 {
		return nil, fmt.Errorf("need at least one ticker")
	}
	w.tickers = tickers
	w.quotes = nil
	w.err = nil
	return func(c *board.Config) { c.Tickers = tickers }, nil
}
