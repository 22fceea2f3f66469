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

// stockHistoryDays is how many daily closes feed the sparkline.
const stockHistoryDays = 30

// stockData is the payload a stock fetch delivers.
type stockData struct {
	Quote   feeds.Quote
	History []float64
}

// StockWidget shows one ticker's latest quote with an intraday change
// readout and a closing-price sparkline.
type StockWidget struct {
	id       string
	ticker   string
	client   *feeds.Client
	interval time.Duration

	data       *stockData
	err        error
	lastUpdate time.Time
}

// NewStock creates a stock widget for a board instance. An empty ticker
// config falls back to AAPL.
func NewStock(inst board.Instance, client *feeds.Client, interval time.Duration) *StockWidget {
	ticker := inst.Config.Ticker
	if ticker == "" {
		ticker = "AAPL"
	}
	return &StockWidget{
		id:       inst.ID,
		ticker:   strings.ToUpper(ticker),
		client:   client,
		interval: interval,
	}
}

func (w *StockWidget) ID() string       { return w.id }
func (w *StockWidget) Kind() board.Kind { return board.KindStock }
func (w *StockWidget) Title() string    { return w.ticker }

// MinSize needs room for the price line and the sparkline.
func (w *StockWidget) MinSize() (int, int) { return 12, 4 }

func (w *StockWidget) Init() tea.Cmd {
	return tea.Batch(fetchingCmd(w.id, true), w.fetch())
}

func (w *StockWidget) fetch() tea.Cmd {
	ticker := w.ticker
	return app.DataFetchCmd(w.id, fetchTimeout, func(ctx context.Context) (any, error) {
		quote, err := w.client.FetchQuote(ctx, ticker)
		if err != nil {
			return nil, err
		}
		history, err := w.client.FetchDailyCloses(ctx, ticker, stockHistoryDays)
		if err != nil {
			// A quote without history is still worth showing.
			history = nil
		}
		return &stockData{Quote: quote, History: history}, nil
	})
}

func (w *StockWidget) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case app.DataUpdateEvent:
		if msg.WidgetID != w.id {
			return nil
		}
		if msg.Err != nil {
			w.err = msg.Err
		} else if data, ok := msg.Data.(*stockData); ok {
			w.data = data
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

// HandleKey refreshes on 'r'.
func (w *StockWidget) HandleKey(key tea.KeyMsg) tea.Cmd {
	if key.String() == "r" {
		return tea.Batch(fetchingCmd(w.id, true), w.fetch())
	}
	return nil
}

func (w *StockWidget) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if w.err != nil && w.data == nil {
		return errorLines(w.err, width, height)
	}
	if w.data == nil {
		return loadingLines(width, height)
	}

	t := theme.Current()
	q := w.data.Quote
	delta, pct := q.Change()

	trend := t.TrendUp
	arrow := "▲"
	if delta < 0 {
		trend = t.TrendDown
		arrow = "▼"
	}

	price := components.Bold(fmt.Sprintf("%.2f", q.Close))
	change := components.Color(trend) +
		fmt.Sprintf("%s %+.2f (%+.2f%%)", arrow, delta, pct) +
		components.Reset()

	lines := []string{
		components.PadCenter(price, width),
		components.PadCenter(change, width),
	}
	if len(w.data.History) > 1 && height >= 4 {
		spark := components.Sparkline(w.data.History, width-2)
		lines = append(lines, "", components.PadCenter(components.Dim(spark), width))
	}
	if age := ageString(w.lastUpdate); age != "" && height > len(lines)+1 {
		lines = append(lines, components.PadCenter(components.Dim(age), width))
	}
	return centerLines(lines, width, height)
}

// EditValue exposes the ticker for the inline edit overlay.
func (w *StockWidget) EditValue() (string, string) {
	return w.ticker, "ticker"
}

// CommitEdit validates and stores a new ticker, refetching immediately.
func (w *StockWidget) CommitEdit(value string) (func(*board.Config), error) {
	ticker := strings.ToUpper(strings.TrimSpace(value))
	if ticker == "" {
		return nil, fmt.Errorf("ticker must not be empty")
	}
	w.ticker = ticker
	w.data = nil
	w.err = nil
	return func(c *board.Config) { c.Ticker = ticker }, nil
}
