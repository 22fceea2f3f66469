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
	"gitlab.com/tinyland/lab/gridpulse/pkg/registry"
)

// GitHubWidget lists a user's recent public GitHub activity.
type GitHubWidget struct {
	id       string
	username string
	client   *feeds.Client
	interval time.Duration

	events     []feeds.GitHubEvent
	err        error
	lastUpdate time.Time
}

// NewGitHub creates a github widget from a board instance.
func NewGitHub(inst board.Instance, client *feeds.Client, interval time.Duration) *GitHubWidget {
	username := inst.Config.Username
	if username == "" {
		username = registry.DefaultGitHubUsername
	}
	return &GitHubWidget{
		id:       inst.ID,
		username: username,
		client:   client,
		interval: interval,
	}
}

func (w *GitHubWidget) ID() string          { return w.id }
func (w *GitHubWidget) Kind() board.Kind    { return board.KindGitHub }
func (w *GitHubWidget) Title() string       { return "@" + w.username }
func (w *GitHubWidget) MinSize() (int, int) { return 18, 3 }

func (w *GitHubWidget) Init() tea.Cmd {
	return tea.Batch(fetchingCmd(w.id, true), w.fetch())
}

func (w *GitHubWidget) fetch() tea.Cmd {
	username := w.username
	return app.DataFetchCmd(w.id, fetchTimeout, func(ctx context.Context) (any, error) {
		return w.client.FetchGitHubEvents(ctx, username)
	})
}

func (w *GitHubWidget) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case app.DataUpdateEvent:
		if msg.WidgetID != w.id {
			return nil
		}
		if msg.Err != nil {
			w.err = msg.Err
		} else if events, ok := msg.Data.([]feeds.GitHubEvent); ok {
			w.events = events
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

func (w *GitHubWidget) HandleKey(key tea.KeyMsg) tea.Cmd {
	if key.String() == "r" {
		return tea.Batch(fetchingCmd(w.id, true), w.fetch())
	}
	return nil
}

func (w *GitHubWidget) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if w.err != nil && w.events == nil {
		return errorLines(w.err, width, height)
	}
	if w.events == nil {
		return loadingLines(width, height)
	}
	if len(w.events) == 0 {
		return centerLines([]string{
			components.PadCenter(components.Dim("no recent activity"), width),
		}, width, height)
	}

	lines := make([]string, 0, len(w.events))
	for _, e := range w.events {
		line := components.TruncateWithTail(e.Summary(), width, "…")
		lines = append(lines, line)
	}
	return components.FitLines(lines, width, height)
}

// EditValue exposes the username for the inline edit overlay.
func (w *GitHubWidget) EditValue() (string, string) {
	return w.username, "github username"
}

// CommitEdit validates and stores a new username.
func (w *GitHubWidget) CommitEdit(value string) (func(*board.Config), error) {
	username := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(value), "@"))
	if username == "" {
		return nil, fmt.Errorf("username must not be empty")
	}
	w.username = username
	w.events = nil
	w.err = nil
	return func(c *board.Config) { c.Username = username }, nil
}
