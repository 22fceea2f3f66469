package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickCmd returns a Cmd that sends a TickEvent after the given duration.
// This drives clock redraws and staleness checks.
func TickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickEvent{Time: t}
	})
}

// SettleCmd returns a Cmd that delivers a DragSettledEvent for the widget
// after the settle animation duration elapses.
func SettleCmd(widgetID string, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return DragSettledEvent{WidgetID: widgetID}
	})
}

// DataFetchCmd returns a Cmd that runs fetchFn with a deadline and
// delivers the result as a DataUpdateEvent addressed to widgetID. If
// fetchFn returns an error, the event's Err field is set and Data is nil.
//
// Usage:
//
//	cmd := DataFetchCmd(w.ID(), 10*time.Second, func(ctx context.Context) (any, error) {
//	    return feeds.FetchQuote(ctx, client, ticker)
//	})
func DataFetchCmd(widgetID string, timeout time.Duration, fetchFn func(context.Context) (any, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		data, err := fetchFn(ctx)
		if err != nil {
			data = nil
		}
		return DataUpdateEvent{
			WidgetID:  widgetID,
			Data:      data,
			Err:       err,
			Timestamp: time.Now(),
		}
	}
}
