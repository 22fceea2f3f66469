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

// WeatherWidget shows current conditions for a configured location, or
// for the caller's IP-derived location when auto-location is on.
type WeatherWidget struct {
	id       string
	location string
	auto     bool
	unitType string
	client   *feeds.Client
	interval time.Duration

	weather    *feeds.Weather
	err        error
	lastUpdate time.Time
}

// NewWeather creates a weather widget from a board instance.
func NewWeather(inst board.Instance, client *feeds.Client, interval time.Duration) *WeatherWidget {
	unitType := inst.Config.UnitType
	if unitType == "" {
		unitType = "metric"
	}
	return &WeatherWidget{
		id:       inst.ID,
		location: inst.Config.Location,
		auto:     inst.Config.UseAutoLocation || inst.Config.Location == "",
		unitType: unitType,
		client:   client,
		interval: interval,
	}
}

func (w *WeatherWidget) ID() string       { return w.id }
func (w *WeatherWidget) Kind() board.Kind { return board.KindWeather }

func (w *WeatherWidget) Title() string {
	if w.weather != nil && w.weather.Location != "" {
		return w.weather.Location
	}
	if w.auto {
		return "Weather"
	}
	return w.location
}

func (w *WeatherWidget) MinSize() (int, int) { return 14, 4 }

func (w *WeatherWidget) Init() tea.Cmd {
	return tea.Batch(fetchingCmd(w.id, true), w.fetch())
}

func (w *WeatherWidget) fetch() tea.Cmd {
	location := w.location
	if w.auto {
		location = ""
	}
	return app.DataFetchCmd(w.id, fetchTimeout, func(ctx context.Context) (any, error) {
		weather, err := w.client.FetchWeather(ctx, location)
		if err != nil {
			return nil, err
		}
		return &weather, nil
	})
}

func (w *WeatherWidget) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case app.DataUpdateEvent:
		if msg.WidgetID != w.id {
			return nil
		}
		if msg.Err != nil {
			w.err = msg.Err
		} else if weather, ok := msg.Data.(*feeds.Weather); ok {
			w.weather = weather
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

// HandleKey toggles units on 'u' and refreshes on 'r'.
func (w *WeatherWidget) HandleKey(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "u":
		if w.unitType == "imperial" {
			w.unitType = "metric"
		} else {
			w.unitType = "imperial"
		}
		unitType := w.unitType
		id := w.id
		return func() tea.Msg {
			return app.ConfigChangedEvent{
				WidgetID: id,
				Apply:    func(c *board.Config) { c.UnitType = unitType },
			}
		}
	case "r":
		return tea.Batch(fetchingCmd(w.id, true), w.fetch())
	}
	return nil
}

func (w *WeatherWidget) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if w.err != nil && w.weather == nil {
		return errorLines(w.err, width, height)
	}
	if w.weather == nil {
		return loadingLines(width, height)
	}

	t := theme.Current()
	temp, unit := w.weather.Temp(w.unitType)
	feels := w.weather.FeelsLikeC
	if w.unitType == "imperial" {
		feels = w.weather.FeelsLikeF
	}

	lines := []string{
		components.PadCenter(components.Bold(fmt.Sprintf("%d%s", temp, unit)), width),
		components.PadCenter(components.Truncate(w.weather.Description, width), width),
	}
	if height >= 5 {
		detail := fmt.Sprintf("feels %d%s  %d%%  %dkm/h",
			feels, unit, w.weather.Humidity, w.weather.WindKmph)
		lines = append(lines, components.PadCenter(
			components.Color(t.Dim)+detail+components.Reset(), width))
	}
	if age := ageString(w.lastUpdate); age != "" && height > len(lines)+1 {
		lines = append(lines, components.PadCenter(components.Dim(age), width))
	}
	return centerLines(lines, width, height)
}

// EditValue exposes the location for the inline edit overlay.
func (w *WeatherWidget) EditValue() (string, string) {
	if w.auto {
		return "", "location (blank = auto)"
	}
	return w.location, "location (blank = auto)"
}

// CommitEdit stores a new location; a blank value switches to
// auto-location.
func (w *WeatherWidget) CommitEdit(value string) (func(*board.Config), error) {
	location := strings.TrimSpace(value)
	w.location = location
	w.auto = location == ""
	w.weather = nil
	w.err = nil
	auto := w.auto
	return func(c *board.Config) {
		c.Location = location
		c.UseAutoLocation = auto
	}, nil
}
