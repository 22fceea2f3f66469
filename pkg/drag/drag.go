// Package drag implements the state machine behind an in-progress drag:
// where the drag began (library panel or board), which entity is being
// dragged, where it would land, and how to unwind it.
//
// The controller is the single arbitration point between input sensors.
// Mouse and keyboard can each attempt to start a drag; whoever arrives
// second while a drag is active is refused, never queued.
//
// Board-origin drags commit a live reorder on every drag-over event so the
// board reflows continuously during the drag. The sequence captured at
// Begin is restored verbatim on cancel, so however many intermediate
// reorders happened, cancelling is always a full rollback.
package drag

import (
	"errors"
	"time"

	"gitlab.com/tinyland/lab/gridpulse/pkg/board"
	"gitlab.com/tinyland/lab/gridpulse/pkg/grid"
)

// Drag errors.
var (
	// ErrDragActive is returned when a second drag is begun while one is
	// already in progress.
	ErrDragActive = errors.New("drag: a drag is already active")

	// ErrNoDrag is returned when Drop is called with no drag in progress.
	ErrNoDrag = errors.New("drag: no active drag")
)

// Settle durations give translation animations time to finish before the
// drop is reported as settled. Cross-row moves travel further, so they get
// a little longer.
const (
	SettleSameRow  = 350 * time.Millisecond
	SettleCrossRow = 450 * time.Millisecond
)

// Origin identifies where a drag began.
type Origin int

const (
	OriginNone Origin = iota
	OriginLibrary
	OriginBoard
)

func (o Origin) String() string {
	switch o {
	case OriginLibrary:
		return "library"
	case OriginBoard:
		return "board"
	}
	return "none"
}

// Direction is the animation hint derived from whether a move stayed
// within one grid row. It selects timing only; it carries no board logic.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionHorizontal
	DirectionVertical
)

// Size is the captured visual dimensions of the dragged element, used only
// to size the floating preview. Nil means the live element could not be
// measured and the preview falls back to a default width.
type Size struct {
	Width  int
	Height int
}

// Result reports the outcome of a completed drop.
type Result struct {
	// Added is the instance appended to the board, for library drops.
	Added *board.Instance

	// Moved is true when a board drag finished at a different index than
	// it started.
	Moved bool

	// Direction hints at the animation axis for the final move.
	Direction Direction

	// Settle is how long the caller should wait before treating the board
	// as visually settled.
	Settle time.Duration

	// Cancelled is true when the drop target was invalid and the drag was
	// rolled back instead of applied.
	Cancelled bool
}

// Controller tracks at most one active drag process-wide and drives the
// widget store through it.
type Controller struct {
	store   *board.Store
	columns int

	// newInstance builds the instance appended when a library template is
	// dropped on the board. Injected so the controller stays decoupled
	// from the catalog.
	newInstance func(board.Kind) board.Instance

	origin      Origin
	activeID    string
	activeKind  board.Kind
	placeholder int
	initialSize *Size
	snapshot    []board.Instance
	startIndex  int
}

// NewController creates a Controller bound to the given store and grid
// width. newInstance supplies fresh instances for library drops.
func NewController(store *board.Store, columns int, newInstance func(board.Kind) board.Instance) *Controller {
	return &Controller{
		store:       store,
		columns:     columns,
		newInstance: newInstance,
		placeholder: -1,
		startIndex:  -1,
	}
}

// Active reports whether a drag is in progress.
func (c *Controller) Active() bool {
	return c.origin != OriginNone
}

// Origin returns where the active drag began, or OriginNone.
func (c *Controller) Origin() Origin {
	return c.origin
}

// ActiveID returns the id of the dragged board instance. Empty for
// library-origin drags.
func (c *Controller) ActiveID() string {
	return c.activeID
}

// ActiveKind returns the kind of the dragged entity.
func (c *Controller) ActiveKind() board.Kind {
	return c.activeKind
}

// PlaceholderIndex returns the candidate drop index, or -1 when none.
func (c *Controller) PlaceholderIndex() int {
	return c.placeholder
}

// InitialSize returns the dimensions captured at Begin, or nil.
func (c *Controller) InitialSize() *Size {
	return c.initialSize
}

// BeginFromBoard starts dragging the placed instance with the given id.
// size may be nil when the live element could not be measured. Fails with
// ErrDragActive if any drag is already in progress, leaving that drag
// untouched.
func (c *Controller) BeginFromBoard(id string, size *Size) error {
	if c.Active() {
		return ErrDragActive
	}
	in, err := c.store.Get(id)
	if err != nil {
		return err
	}

	c.origin = OriginBoard
	c.activeID = id
	c.activeKind = in.Kind
	c.initialSize = size
	c.snapshot = c.store.Snapshot()
	c.startIndex = c.store.IndexOf(id)
	c.placeholder = c.startIndex
	return nil
}

// BeginFromLibrary starts dragging an unplaced library template of the
// given kind. Fails with ErrDragActive if any drag is already in progress.
func (c *Controller) BeginFromLibrary(kind board.Kind, size *Size) error {
	if c.Active() {
		return ErrDragActive
	}
	if !kind.Valid() {
		return board.ErrUnknownKind
	}

	c.origin = OriginLibrary
	c.activeKind = kind
	c.initialSize = size
	c.snapshot = c.store.Snapshot()
	c.placeholder = c.store.Len() // library drops append at the end
	return nil
}

// OverTarget processes a drag-over event against the board instance with
// the given id. Events are applied fully, one at a time, in arrival order.
//
// For board-origin drags the reorder is committed immediately so the board
// reflows mid-drag; the placeholder follows the dragged instance. For
// library-origin drags only the placeholder moves. Hovering over the
// dragged instance itself is a no-op.
func (c *Controller) OverTarget(overID string) {
	switch c.origin {
	case OriginBoard:
		if overID == c.activeID {
			return
		}
		if c.store.Reorder(c.activeID, overID) {
			c.placeholder = c.store.IndexOf(c.activeID)
		}
	case OriginLibrary:
		if i := c.store.IndexOf(overID); i >= 0 {
			c.placeholder = i
		}
	}
}

// Drop finishes the drag. onBoard reports whether the release happened
// over the board (any cell or the empty region); a release anywhere else
// is an implicit cancel with full rollback.
//
// Library drops append a fresh instance of the dragged kind with its
// default config. Board drops keep the live reorder already applied by
// OverTarget and only compute the settle hint.
func (c *Controller) Drop(onBoard bool) (Result, error) {
	if !c.Active() {
		return Result{}, ErrNoDrag
	}
	if !onBoard {
		c.Cancel()
		return Result{Cancelled: true}, nil
	}

	var res Result
	switch c.origin {
	case OriginLibrary:
		in := c.newInstance(c.activeKind)
		if err := c.store.Append(in); err != nil {
			c.reset()
			return Result{}, err
		}
		res.Added = &in
		res.Direction = DirectionVertical
		res.Settle = SettleCrossRow

	case OriginBoard:
		final := c.store.IndexOf(c.activeID)
		res.Moved = final != c.startIndex && final >= 0
		if grid.SameRow(c.startIndex, final, c.columns) {
			res.Direction = DirectionHorizontal
			res.Settle = SettleSameRow
		} else {
			res.Direction = DirectionVertical
			res.Settle = SettleCrossRow
		}
	}

	c.reset()
	return res, nil
}

// Cancel aborts the drag and restores the sequence captured at Begin,
// undoing every intermediate reorder. Safe to call with no active drag.
// Triggered by escape, an interrupting gesture, or focus loss.
func (c *Controller) Cancel() {
	if !c.Active() {
		return
	}
	if c.origin == OriginBoard {
		c.store.Replace(c.snapshot)
	}
	c.reset()
}

func (c *Controller) reset() {
	c.origin = OriginNone
	c.activeID = ""
	c.activeKind = ""
	c.placeholder = -1
	c.initialSize = nil
	c.snapshot = nil
	c.startIndex = -1
}
