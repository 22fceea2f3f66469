// Package app defines the Elm-architecture contract shared by the
// gridpulse board and its widgets: the event types that flow through the
// bubbletea update loop, the Widget interface, and the command helpers
// that schedule ticks, feed fetches, and drag-settle animations.
//
// This package is designed against bubbletea v1.3.x but architected so that
// migrating to v2 requires only import-path changes and minor API adjustments.
package app

import (
	"time"

	"gitlab.com/tinyland/lab/gridpulse/pkg/board"
)

// DataUpdateEvent carries the result of a feed fetch back into the
// bubbletea update loop. WidgetID addresses a single widget instance;
// receivers type-assert Data based on their own kind.
type DataUpdateEvent struct {
	WidgetID  string
	Data      any   // type-asserted by the receiving widget
	Err       error // non-nil if the fetch failed
	Timestamp time.Time
}

// TickEvent is sent periodically to refresh clocks and trigger stale-data
// checks.
type TickEvent struct {
	Time time.Time
}

// DragSettledEvent marks the end of a card's post-drop settle animation.
// The board clears the widget's highlight when it arrives.
type DragSettledEvent struct {
	WidgetID string
}

// FetchStateEvent reports that a widget started or finished an in-flight
// feed request, so the board can show a refresh indicator.
type FetchStateEvent struct {
	WidgetID string
	Fetching bool
}

// ConfigChangedEvent is emitted by a widget after an inline edit commits,
// carrying the mutation to apply to the widget's stored config.
type ConfigChangedEvent struct {
	WidgetID string
	Apply    func(*board.Config)
}
