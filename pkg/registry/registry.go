// Package registry is the static widget catalog: for each widget kind it
// holds the display name, a short description, a glyph for the library
// panel, and the factory producing that kind's default configuration.
//
// The board core reads this catalog for exactly two things: seeding a newly
// added instance's config, and rendering the library's draggable entries.
package registry

import (
	"sort"

	"gitlab.com/tinyland/lab/gridpulse/pkg/board"
)

// DefaultGitHubUsername seeds the github widget when no username is
// configured.
const DefaultGitHubUsername = "torvalds"

// Entry describes one widget kind in the library.
type Entry struct {
	Kind        board.Kind
	Name        string
	Description string
	Icon        string
	// DefaultConfig returns a fresh config for a newly placed instance.
	DefaultConfig func() board.Config
}

var catalog = map[board.Kind]Entry{
	board.KindStock: {
		Kind:        board.KindStock,
		Name:        "Stock",
		Description: "Single ticker quote with trend sparkline",
		Icon:        "$",
		DefaultConfig: func() board.Config {
			return board.Config{Ticker: "AAPL"}
		},
	},
	board.KindStockTable: {
		Kind:        board.KindStockTable,
		Name:        "Stock Table",
		Description: "Quotes for a list of tickers",
		Icon:        "≡",
		DefaultConfig: func() board.Config {
			return board.Config{Tickers: []string{"AAPL", "MSFT", "GOOG"}}
		},
	},
	board.KindWeather: {
		Kind:        board.KindWeather,
		Name:        "Weather",
		Description: "Current conditions for a location",
		Icon:        "☀",
		DefaultConfig: func() board.Config {
			return board.Config{UseAutoLocation: true, UnitType: "metric"}
		},
	},
	board.KindNotes: {
		Kind:        board.KindNotes,
		Name:        "Notes",
		Description: "Free-form scratch pad",
		Icon:        "✎",
		DefaultConfig: func() board.Config {
			return board.Config{}
		},
	},
	board.KindClock: {
		Kind:        board.KindClock,
		Name:        "Clock",
		Description: "Local time and date",
		Icon:        "◷",
		DefaultConfig: func() board.Config {
			return board.Config{}
		},
	},
	board.KindGitHub: {
		Kind:        board.KindGitHub,
		Name:        "GitHub",
		Description: "Recent public activity for a user",
		Icon:        "⎇",
		DefaultConfig: func() board.Config {
			return board.Config{Username: DefaultGitHubUsername}
		},
	},
}

// Get returns the catalog entry for a kind. The boolean is false for kinds
// not in the catalog (which, with a valid board.Kind, cannot happen).
func Get(kind board.Kind) (Entry, bool) {
	e, ok := catalog[kind]
	return e, ok
}

// Entries returns all catalog entries in library display order.
func Entries() []Entry {
	out := make([]Entry, 0, len(catalog))
	for _, k := range board.Kinds() {
		out = append(out, catalog[k])
	}
	return out
}

// Names returns the display names of all entries, sorted.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for _, e := range catalog {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names
}

// NewInstance creates a board instance of the given kind carrying the
// catalog's default config for that kind.
func NewInstance(kind board.Kind) board.Instance {
	e := catalog[kind]
	var cfg board.Config
	if e.DefaultConfig != nil {
		cfg = e.DefaultConfig()
	}
	return board.NewInstance(kind, cfg)
}

// DefaultSeed is the starter board used on first run and after discarding
// a corrupted layout: a stock watch, a weather card, and a notes card.
func DefaultSeed() []board.Instance {
	return []board.Instance{
		{ID: "stock-default", Kind: board.KindStock, Config: board.Config{Ticker: "AAPL"}},
		{ID: "weather-default", Kind: board.KindWeather, Config: board.Config{UseAutoLocation: true, UnitType: "metric"}},
		{ID: "notes-default", Kind: board.KindNotes},
	}
}
