package tui

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/gridpulse/pkg/app"
	"gitlab.com/tinyland/lab/gridpulse/pkg/board"
	"gitlab.com/tinyland/lab/gridpulse/pkg/drag"
	"gitlab.com/tinyland/lab/gridpulse/pkg/feeds"
	"gitlab.com/tinyland/lab/gridpulse/pkg/persist"
	"gitlab.com/tinyland/lab/gridpulse/pkg/registry"
	"gitlab.com/tinyland/lab/gridpulse/pkg/widgets"
)

// memStorage is an in-memory persist.Storage for model tests.
type memStorage struct {
	data []byte
}

func (s *memStorage) Read() ([]byte, error) {
	if s.data == nil {
		return nil, os.ErrNotExist
	}
	return s.data, nil
}

func (s *memStorage) Write(data []byte) error {
	s.data = append([]byte(nil), data...)
	return nil
}

func testSeed() []board.Instance {
	return []board.Instance{
		{ID: "notes-1", Kind: board.KindNotes, Config: board.Config{Text: "alpha"}},
		{ID: "clock-1", Kind: board.KindClock},
		{ID: "notes-2", Kind: board.KindNotes, Config: board.Config{Text: "beta"}},
	}
}

func newTestModel(t *testing.T) *Model {
	t.Helper()

	store := board.NewStore(testSeed())
	ctrl := drag.NewController(store, 3, registry.NewInstance)
	saver := persist.NewManager(persist.ManagerConfig{
		Storage:  &memStorage{},
		Seed:     testSeed,
		Debounce: time.Hour, // never fires during a test
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	t.Cleanup(func() { saver.Close() })

	m := New(Options{
		Store:      store,
		Controller: ctrl,
		Saver:      saver,
		Client:     feeds.NewClient(time.Second),
		Intervals:  widgets.Intervals{Stock: time.Hour, Weather: time.Hour, GitHub: time.Hour},
		Columns:    3,
		CardHeight: 7,
		Gap:        1,
		ThemeName:  "default",
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func ids(t *testing.T, m *Model) []string {
	t.Helper()
	seq := m.store.Widgets()
	out := make([]string, len(seq))
	for i, inst := range seq {
		out[i] = inst.ID
	}
	return out
}

func assertOrder(t *testing.T, m *Model, want ...string) {
	t.Helper()
	got := ids(t, m)
	if len(got) != len(want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestInitialFocusAndView(t *testing.T) {
	m := newTestModel(t)

	if m.focusedID != "notes-1" {
		t.Errorf("initial focus = %q, want notes-1", m.focusedID)
	}

	view := m.View()
	if view == "" {
		t.Fatal("View returned empty output")
	}
	if !strings.Contains(view, "alpha") {
		t.Error("view missing first note's text")
	}
	if !strings.Contains(view, "Notes") {
		t.Error("view missing notes card title")
	}
}

func TestViewBeforeResize(t *testing.T) {
	store := board.NewStore(nil)
	ctrl := drag.NewController(store, 3, registry.NewInstance)
	saver := persist.NewManager(persist.ManagerConfig{
		Storage: &memStorage{}, Debounce: time.Hour,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	defer saver.Close()

	m := New(Options{
		Store: store, Controller: ctrl, Saver: saver,
		Client: feeds.NewClient(time.Second),
	})
	if got := m.View(); got != "Initializing..." {
		t.Errorf("pre-resize view = %q", got)
	}
}

func TestFocusCycling(t *testing.T) {
	m := newTestModel(t)

	m.Update(key("tab"))
	if m.focusedID != "clock-1" {
		t.Errorf("after tab focus = %q, want clock-1", m.focusedID)
	}
	m.Update(key("tab"))
	m.Update(key("tab"))
	if m.focusedID != "notes-1" {
		t.Errorf("focus should wrap to notes-1, got %q", m.focusedID)
	}
	m.Update(key("shift+tab"))
	if m.focusedID != "notes-2" {
		t.Errorf("shift+tab should wrap backward to notes-2, got %q", m.focusedID)
	}
}

func TestKeyboardMoveReorders(t *testing.T) {
	m := newTestModel(t)

	m.Update(key("g"))
	if !m.ctrl.Active() {
		t.Fatal("grab did not start a drag")
	}
	if m.mode != modeMove {
		t.Fatal("expected move mode after grab")
	}

	m.Update(key("right"))
	assertOrder(t, m, "clock-1", "notes-1", "notes-2")

	_, cmd := m.Update(key("enter"))
	if m.ctrl.Active() {
		t.Error("drag still active after drop")
	}
	if m.mode != modeNormal {
		t.Error("expected normal mode after drop")
	}
	if !m.settling["notes-1"] {
		t.Error("moved card should be settling")
	}
	if cmd == nil {
		t.Error("expected a settle command after a moved drop")
	}

	// Settle event clears the highlight.
	m.Update(app.DragSettledEvent{WidgetID: "notes-1"})
	if m.settling["notes-1"] {
		t.Error("settle event did not clear highlight")
	}
}

func TestKeyboardMoveCancelRestoresOrder(t *testing.T) {
	m := newTestModel(t)

	m.Update(key("g"))
	m.Update(key("right"))
	m.Update(key("down"))
	m.Update(key("esc"))

	assertOrder(t, m, "notes-1", "clock-1", "notes-2")
	if m.ctrl.Active() {
		t.Error("drag still active after cancel")
	}
	if m.mode != modeNormal {
		t.Error("expected normal mode after cancel")
	}
}

func TestBlurCancelsDrag(t *testing.T) {
	m := newTestModel(t)

	m.Update(key("g"))
	m.Update(key("right"))
	m.Update(tea.BlurMsg{})

	assertOrder(t, m, "notes-1", "clock-1", "notes-2")
	if m.ctrl.Active() {
		t.Error("drag survived terminal blur")
	}
}

func TestSecondGrabRejected(t *testing.T) {
	m := newTestModel(t)

	m.Update(key("g"))
	first := m.ctrl.ActiveID()

	// Move mode consumes keys, so simulate a stray begin directly.
	size := m.cardSize()
	if err := m.ctrl.BeginFromBoard("notes-2", &size); err == nil {
		t.Fatal("second begin should fail while a drag is active")
	}
	if m.ctrl.ActiveID() != first {
		t.Errorf("active drag changed to %q", m.ctrl.ActiveID())
	}
}

func TestDeleteConfirmFlow(t *testing.T) {
	m := newTestModel(t)

	m.Update(key("d"))
	if m.mode != modeConfirm {
		t.Fatal("expected confirm mode after d")
	}

	// Declining keeps the widget.
	m.Update(key("n"))
	assertOrder(t, m, "notes-1", "clock-1", "notes-2")

	// Confirming removes it and moves focus.
	m.Update(key("d"))
	m.Update(key("y"))
	assertOrder(t, m, "clock-1", "notes-2")
	if m.focusedID != "clock-1" {
		t.Errorf("focus after delete = %q, want clock-1", m.focusedID)
	}
	if _, ok := m.bodies["notes-1"]; ok {
		t.Error("deleted widget body not dropped")
	}
}

func TestLibraryAddAppendsWithDefaults(t *testing.T) {
	m := newTestModel(t)

	m.Update(key("a"))
	if m.mode != modeLibrary {
		t.Fatal("expected library mode after a")
	}

	// First entry is the stock widget.
	_, cmd := m.Update(key("enter"))
	if cmd == nil {
		t.Error("expected init + settle commands after library add")
	}

	seq := m.store.Widgets()
	if len(seq) != 4 {
		t.Fatalf("store len = %d, want 4", len(seq))
	}
	added := seq[3]
	if added.Kind != board.KindStock {
		t.Errorf("added kind = %q, want stock", added.Kind)
	}
	if added.Config.Ticker != "AAPL" {
		t.Errorf("added ticker = %q, want catalog default AAPL", added.Config.Ticker)
	}
	if m.focusedID != added.ID {
		t.Errorf("focus should land on the new widget, got %q", m.focusedID)
	}
	if m.mode != modeNormal {
		t.Error("library should close after adding")
	}
	if _, ok := m.bodies[added.ID]; !ok {
		t.Error("no body created for the added widget")
	}
}

func TestEditOverlayCommits(t *testing.T) {
	m := newTestModel(t)

	m.Update(key("e"))
	if m.mode != modeEdit {
		t.Fatal("expected edit mode for an editable widget")
	}

	m.input.SetValue("remember the milk")
	m.Update(key("enter"))

	if m.mode != modeNormal {
		t.Fatal("expected normal mode after commit")
	}
	inst, err := m.store.Get("notes-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if inst.Config.Text != "remember the milk" {
		t.Errorf("stored text = %q", inst.Config.Text)
	}
}

func TestEditOverlayEscCancels(t *testing.T) {
	m := newTestModel(t)

	m.Update(key("e"))
	m.input.SetValue("discarded")
	m.Update(key("esc"))

	inst, _ := m.store.Get("notes-1")
	if inst.Config.Text != "alpha" {
		t.Errorf("esc should not commit, text = %q", inst.Config.Text)
	}
}

func TestConfigChangedEventPersistsToStore(t *testing.T) {
	m := newTestModel(t)

	m.Update(app.ConfigChangedEvent{
		WidgetID: "notes-2",
		Apply:    func(c *board.Config) { c.Text = "gamma" },
	})

	inst, _ := m.store.Get("notes-2")
	if inst.Config.Text != "gamma" {
		t.Errorf("config event not applied, text = %q", inst.Config.Text)
	}
}

func TestFetchStateDrivesSpinner(t *testing.T) {
	m := newTestModel(t)

	m.Update(app.FetchStateEvent{WidgetID: "notes-1", Fetching: true})
	if !m.fetching["notes-1"] {
		t.Error("fetch start not recorded")
	}
	m.Update(app.FetchStateEvent{WidgetID: "notes-1", Fetching: false})
	if m.fetching["notes-1"] {
		t.Error("fetch end not recorded")
	}
}

func TestTickReschedules(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(app.TickEvent{Time: time.Now()})
	if cmd == nil {
		t.Error("tick should reschedule itself")
	}
}

func TestHelpOverlayToggle(t *testing.T) {
	m := newTestModel(t)

	m.Update(key("?"))
	if m.mode != modeHelp {
		t.Fatal("expected help mode")
	}
	if !strings.Contains(m.View(), "cycle theme") {
		t.Error("help overlay missing binding descriptions")
	}
	m.Update(key("?"))
	if m.mode == modeHelp {
		t.Error("expected help to close on second ?")
	}
}

func TestThemeCycle(t *testing.T) {
	m := newTestModel(t)

	before := m.themeName
	m.Update(key("t"))
	if m.themeName == before {
		t.Error("theme did not change")
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if !m.quitting {
		t.Error("quitting flag not set")
	}
	if m.View() != "" {
		t.Error("expected empty view when quitting")
	}
}

func TestEmptyBoardView(t *testing.T) {
	store := board.NewStore(nil)
	ctrl := drag.NewController(store, 3, registry.NewInstance)
	saver := persist.NewManager(persist.ManagerConfig{
		Storage: &memStorage{}, Debounce: time.Hour,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	defer saver.Close()

	m := New(Options{
		Store: store, Controller: ctrl, Saver: saver,
		Client: feeds.NewClient(time.Second), Columns: 3, CardHeight: 7, Gap: 1,
	})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	if !strings.Contains(m.View(), "board is empty") {
		t.Error("empty board should show the add hint")
	}
}
