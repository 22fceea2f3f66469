// Package theme defines the color palettes for the gridpulse board and
// widgets. Themes are selected by name via config or the GRIDPULSE_THEME
// environment variable; "auto" picks dark or light from the terminal
// background.
package theme

import (
	"sort"
	"strings"
	"sync"

	"github.com/muesli/termenv"
)

// Theme is a complete color palette. All values are hex colors.
type Theme struct {
	Name string

	Background string
	Foreground string
	Dim        string
	Accent     string

	// Card borders.
	Border      string // unfocused card
	BorderFocus string // focused card
	BorderDrag  string // card currently being dragged
	Placeholder string // candidate drop slot outline
	Title       string

	// Trend colors for stock widgets.
	TrendUp   string
	TrendDown string

	StatusError string

	// Status bar and help overlay.
	HelpKey  string
	HelpDesc string
}

var (
	mu       sync.RWMutex
	registry = map[string]Theme{}
	current  Theme
)

func init() {
	for _, t := range []Theme{defaultTheme(), lightTheme(), solarizedTheme(), nordTheme()} {
		register(t)
	}
	current = defaultTheme()
}

// Get returns a named theme. "auto" and unknown names fall back to a
// detected default.
func Get(name string) Theme {
	if strings.EqualFold(name, "auto") {
		return detect()
	}
	mu.RLock()
	defer mu.RUnlock()
	if t, ok := registry[strings.ToLower(name)]; ok {
		return t
	}
	return registry["default"]
}

// Names returns all available theme names sorted alphabetically.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetCurrent sets the active theme by name.
func SetCurrent(name string) {
	t := Get(name)
	mu.Lock()
	current = t
	mu.Unlock()
}

// Current returns the active theme.
func Current() Theme {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// detect picks dark or light based on the terminal background.
func detect() Theme {
	if termenv.HasDarkBackground() {
		return Get("default")
	}
	return Get("light")
}

func register(t Theme) {
	mu.Lock()
	defer mu.Unlock()
	registry[strings.ToLower(t.Name)] = t
}

func defaultTheme() Theme {
	return Theme{
		Name:       "default",
		Background: "#1e1e1e",
		Foreground: "#d4d4d4",
		Dim:        "#6b6b6b",
		Accent:     "#7C3AED",

		Border:      "#3e3e3e",
		BorderFocus: "#7C3AED",
		BorderDrag:  "#A78BFA",
		Placeholder: "#5b21b6",
		Title:       "#d4d4d4",

		TrendUp:   "#4ec970",
		TrendDown: "#e06c75",

		StatusError: "#e06c75",

		HelpKey:  "#7C3AED",
		HelpDesc: "#6b6b6b",
	}
}

func lightTheme() Theme {
	return Theme{
		Name:       "light",
		Background: "#fafafa",
		Foreground: "#2e2e2e",
		Dim:        "#8a8a8a",
		Accent:     "#6D28D9",

		Border:      "#d0d0d0",
		BorderFocus: "#6D28D9",
		BorderDrag:  "#8B5CF6",
		Placeholder: "#c4b5fd",
		Title:       "#2e2e2e",

		TrendUp:   "#15803d",
		TrendDown: "#b91c1c",

		StatusError: "#b91c1c",

		HelpKey:  "#6D28D9",
		HelpDesc: "#8a8a8a",
	}
}

func solarizedTheme() Theme {
	return Theme{
		Name:       "solarized",
		Background: "#002b36",
		Foreground: "#839496",
		Dim:        "#586e75",
		Accent:     "#268bd2",

		Border:      "#073642",
		BorderFocus: "#268bd2",
		BorderDrag:  "#2aa198",
		Placeholder: "#586e75",
		Title:       "#93a1a1",

		TrendUp:   "#859900",
		TrendDown: "#dc322f",

		StatusError: "#dc322f",

		HelpKey:  "#268bd2",
		HelpDesc: "#586e75",
	}
}

func nordTheme() Theme {
	return Theme{
		Name:       "nord",
		Background: "#2e3440",
		Foreground: "#d8dee9",
		Dim:        "#4c566a",
		Accent:     "#88c0d0",

		Border:      "#3b4252",
		BorderFocus: "#88c0d0",
		BorderDrag:  "#81a1c1",
		Placeholder: "#4c566a",
		Title:       "#eceff4",

		TrendUp:   "#a3be8c",
		TrendDown: "#bf616a",

		StatusError: "#bf616a",

		HelpKey:  "#88c0d0",
		HelpDesc: "#4c566a",
	}
}
