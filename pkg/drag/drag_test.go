package drag

import (
	"errors"
	"reflect"
	"testing"

	"gitlab.com/tinyland/lab/gridpulse/pkg/board"
)

func testStore() *board.Store {
	return board.NewStore([]board.Instance{
		{ID: "stock-1", Kind: board.KindStock, Config: board.Config{Ticker: "AAPL"}},
		{ID: "weather-1", Kind: board.KindWeather, Config: board.Config{Location: "San Francisco"}},
		{ID: "clock-1", Kind: board.KindClock},
	})
}

func newTestController(s *board.Store) *Controller {
	return NewController(s, 3, func(k board.Kind) board.Instance {
		return board.Instance{ID: string(k) + "-new", Kind: k}
	})
}

func ids(seq []board.Instance) []string {
	out := make([]string, len(seq))
	for i, in := range seq {
		out[i] = in.ID
	}
	return out
}

func TestBoardDragLiveReorderAndDrop(t *testing.T) {
	s := testStore()
	c := newTestController(s)

	if err := c.BeginFromBoard("stock-1", &Size{Width: 30, Height: 8}); err != nil {
		t.Fatalf("BeginFromBoard: %v", err)
	}
	if c.PlaceholderIndex() != 0 {
		t.Errorf("placeholder = %d, want 0", c.PlaceholderIndex())
	}

	// Dragging over the last card reflows the board immediately.
	c.OverTarget("clock-1")
	if got := ids(s.Widgets()); !reflect.DeepEqual(got, []string{"weather-1", "clock-1", "stock-1"}) {
		t.Fatalf("mid-drag order = %v", got)
	}
	if c.PlaceholderIndex() != 2 {
		t.Errorf("placeholder = %d, want 2", c.PlaceholderIndex())
	}

	res, err := c.Drop(true)
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if !res.Moved {
		t.Error("Moved = false after a real move")
	}
	if res.Direction != DirectionHorizontal || res.Settle != SettleSameRow {
		t.Errorf("same-row move hint = (%v, %v)", res.Direction, res.Settle)
	}
	if c.Active() {
		t.Error("controller still active after drop")
	}
}

func TestCrossRowMoveGetsLongerSettle(t *testing.T) {
	s := board.NewStore([]board.Instance{
		{ID: "a", Kind: board.KindClock},
		{ID: "b", Kind: board.KindClock},
		{ID: "c", Kind: board.KindClock},
		{ID: "d", Kind: board.KindClock},
	})
	c := newTestController(s)

	if err := c.BeginFromBoard("a", nil); err != nil {
		t.Fatalf("BeginFromBoard: %v", err)
	}
	c.OverTarget("d") // index 0 -> 3 crosses from row 0 to row 1
	res, err := c.Drop(true)
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if res.Direction != DirectionVertical || res.Settle != SettleCrossRow {
		t.Errorf("cross-row move hint = (%v, %v)", res.Direction, res.Settle)
	}
}

func TestCancelRestoresPreDragSnapshot(t *testing.T) {
	s := testStore()
	c := newTestController(s)
	before := s.Widgets()

	c.BeginFromBoard("stock-1", nil)
	// Several intermediate reorders, then cancel: full rollback.
	c.OverTarget("weather-1")
	c.OverTarget("clock-1")
	c.OverTarget("weather-1")
	c.Cancel()

	if !reflect.DeepEqual(s.Widgets(), before) {
		t.Errorf("after cancel order = %v, want %v", ids(s.Widgets()), ids(before))
	}
	if c.Active() {
		t.Error("controller still active after cancel")
	}
}

func TestSecondBeginIsRejected(t *testing.T) {
	s := testStore()
	c := newTestController(s)

	if err := c.BeginFromBoard("stock-1", nil); err != nil {
		t.Fatalf("first Begin: %v", err)
	}
	c.OverTarget("weather-1")
	placeholder := c.PlaceholderIndex()

	if err := c.BeginFromBoard("clock-1", nil); !errors.Is(err, ErrDragActive) {
		t.Fatalf("second board Begin err = %v, want ErrDragActive", err)
	}
	if err := c.BeginFromLibrary(board.KindNotes, nil); !errors.Is(err, ErrDragActive) {
		t.Fatalf("second library Begin err = %v, want ErrDragActive", err)
	}

	// The first drag's state is untouched by the refused attempts.
	if c.ActiveID() != "stock-1" || c.PlaceholderIndex() != placeholder {
		t.Errorf("first drag disturbed: id=%q placeholder=%d", c.ActiveID(), c.PlaceholderIndex())
	}
}

func TestLibraryDropAppendsWithDefaults(t *testing.T) {
	s := testStore()
	c := newTestController(s)

	if err := c.BeginFromLibrary(board.KindGitHub, nil); err != nil {
		t.Fatalf("BeginFromLibrary: %v", err)
	}
	if c.PlaceholderIndex() != 3 {
		t.Errorf("library placeholder = %d, want end of sequence", c.PlaceholderIndex())
	}

	res, err := c.Drop(true)
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if res.Added == nil || res.Added.Kind != board.KindGitHub {
		t.Fatalf("Added = %+v", res.Added)
	}
	if s.Len() != 4 {
		t.Errorf("Len = %d, want 4", s.Len())
	}
	if got := ids(s.Widgets())[3]; got != "github-new" {
		t.Errorf("appended id = %q", got)
	}
}

func TestLibraryDropOffBoardAddsNothing(t *testing.T) {
	s := testStore()
	c := newTestController(s)

	c.BeginFromLibrary(board.KindClock, nil)
	res, err := c.Drop(false)
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if !res.Cancelled {
		t.Error("off-board drop should report cancelled")
	}
	if s.Len() != 3 {
		t.Errorf("Len = %d, want 3", s.Len())
	}
}

func TestBoardDropOffBoardRollsBack(t *testing.T) {
	s := testStore()
	c := newTestController(s)
	before := s.Widgets()

	c.BeginFromBoard("stock-1", nil)
	c.OverTarget("clock-1")
	res, err := c.Drop(false)
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if !res.Cancelled {
		t.Error("invalid drop target should cancel")
	}
	if !reflect.DeepEqual(s.Widgets(), before) {
		t.Errorf("rollback missing: %v", ids(s.Widgets()))
	}
}

func TestOverSelfIsNoop(t *testing.T) {
	s := testStore()
	c := newTestController(s)
	before := s.Widgets()

	c.BeginFromBoard("weather-1", nil)
	c.OverTarget("weather-1")
	if !reflect.DeepEqual(s.Widgets(), before) {
		t.Error("hovering over self mutated the sequence")
	}
}

func TestDropWithoutDrag(t *testing.T) {
	c := newTestController(testStore())
	if _, err := c.Drop(true); !errors.Is(err, ErrNoDrag) {
		t.Errorf("Drop err = %v, want ErrNoDrag", err)
	}
}

func TestBeginFromBoardUnknownID(t *testing.T) {
	c := newTestController(testStore())
	if err := c.BeginFromBoard("gone-1", nil); !errors.Is(err, board.ErrNotFound) {
		t.Errorf("Begin unknown id err = %v, want board.ErrNotFound", err)
	}
	if c.Active() {
		t.Error("failed Begin left controller active")
	}
}
