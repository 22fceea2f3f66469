// Package grid provides the row/column addressing scheme for the fixed-column
// dashboard board. A widget's position carries no state of its own: it is
// always derived from the widget's index in the board sequence, filling
// left-to-right, top-to-bottom.
//
// The package also maps grid cells onto terminal rectangles so that pointer
// coordinates can be resolved back to a sequence index.
package grid

import "math"

// DefaultColumns is the column count used when configuration supplies none.
const DefaultColumns = 3

// Position is a derived (row, column) address on the board. It is never
// persisted; only the sequence index is durable.
type Position struct {
	Row int
	Col int
}

// PositionOf converts a linear sequence index to a grid position for the
// given column count. Columns of zero or below are treated as DefaultColumns.
func PositionOf(index, columns int) Position {
	if columns <= 0 {
		columns = DefaultColumns
	}
	if index < 0 {
		index = 0
	}
	return Position{Row: index / columns, Col: index % columns}
}

// IndexOf converts a grid position back to a linear sequence index. It is the
// exact inverse of PositionOf for all non-negative indices.
func IndexOf(row, col, columns int) int {
	if columns <= 0 {
		columns = DefaultColumns
	}
	return row*columns + col
}

// Distance returns the Euclidean distance between two grid positions in grid
// units. It is symmetric and zero iff a == b.
func Distance(a, b Position) float64 {
	dr := float64(a.Row - b.Row)
	dc := float64(a.Col - b.Col)
	return math.Sqrt(dr*dr + dc*dc)
}

// SameRow reports whether two sequence indices fall in the same grid row.
// Used to pick the animation settle timing for a reorder (horizontal moves
// settle faster than cross-row moves).
func SameRow(i, j, columns int) bool {
	return PositionOf(i, columns).Row == PositionOf(j, columns).Row
}

// Rect is a rectangular area in terminal cells.
type Rect struct {
	X, Y, Width, Height int
}

// Empty returns true if this rectangle has zero area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Right returns the X coordinate of the right edge (exclusive).
func (r Rect) Right() int {
	return r.X + r.Width
}

// Bottom returns the Y coordinate of the bottom edge (exclusive).
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// Contains reports whether the point (px, py) lies within this rectangle.
func (r Rect) Contains(px, py int) bool {
	return px >= r.X && px < r.Right() && py >= r.Y && py < r.Bottom()
}

// CellRects lays out count cells inside area, columns per row, each cell
// cellHeight tall, with gap cells of spacing between neighbors. Cell widths
// divide the row evenly; the last cell in a row absorbs rounding drift so
// rows always span the full area width.
func CellRects(area Rect, count, columns, cellHeight, gap int) []Rect {
	if count <= 0 || area.Empty() {
		return nil
	}
	if columns <= 0 {
		columns = DefaultColumns
	}
	if cellHeight <= 0 {
		cellHeight = 1
	}
	if gap < 0 {
		gap = 0
	}

	usable := area.Width - gap*(columns-1)
	if usable < columns {
		usable = columns
	}
	cellW := usable / columns

	rects := make([]Rect, count)
	for i := 0; i < count; i++ {
		pos := PositionOf(i, columns)
		x := area.X + pos.Col*(cellW+gap)
		w := cellW
		if pos.Col == columns-1 {
			w = area.Right() - x
		}
		rects[i] = Rect{
			X:      x,
			Y:      area.Y + pos.Row*(cellHeight+gap),
			Width:  w,
			Height: cellHeight,
		}
	}
	return rects
}

// CellAt returns the index of the cell in rects containing the point
// (px, py), or -1 if no cell contains it.
func CellAt(rects []Rect, px, py int) int {
	for i, r := range rects {
		if r.Contains(px, py) {
			return i
		}
	}
	return -1
}

// Nearest returns the index in rects whose center is closest to (px, py),
// breaking exact ties toward the lower index. Returns -1 for an empty slice.
func Nearest(rects []Rect, px, py int) int {
	if len(rects) == 0 {
		return -1
	}
	target := -1
	best := math.Inf(1)
	for i, r := range rects {
		cx := float64(r.X) + float64(r.Width)/2
		cy := float64(r.Y) + float64(r.Height)/2
		dx := float64(px) - cx
		dy := float64(py) - cy
		d := math.Sqrt(dx*dx + dy*dy)
		if d < best {
			best = d
			target = i
		}
	}
	return target
}
