package board

import "gitlab.com/tinyland/lab/gridpulse/pkg/grid"

// ReorderSequence computes the sequence that results from moving the
// instance with activeID to the index currently held by overID. The input
// is never mutated; when moved is true the returned slice is a fresh copy.
//
// Rules, in order:
//  1. activeID == overID is a no-op.
//  2. Either id missing from the sequence aborts the move (recoverable:
//     a delete can race an in-flight drag).
//  3. Otherwise the element at oldIndex is removed and reinserted at
//     newIndex, shifting everything between by one.
func ReorderSequence(seq []Instance, activeID, overID string) (result []Instance, moved bool) {
	if activeID == overID {
		return seq, false
	}

	oldIndex := indexOf(seq, activeID)
	newIndex := indexOf(seq, overID)
	if oldIndex < 0 || newIndex < 0 {
		return seq, false
	}

	next := CloneSequence(seq)
	item := next[oldIndex]
	next = append(next[:oldIndex], next[oldIndex+1:]...)

	// Reinsert at the target index.
	next = append(next, Instance{})
	copy(next[newIndex+1:], next[newIndex:])
	next[newIndex] = item

	return next, true
}

// NearestIndex ranks all count board indices by grid distance from the
// given position and returns the closest. Equidistant candidates resolve
// to the lower sequence index, so a pointer sitting exactly between two
// cells does not oscillate. Returns -1 when count is zero or below.
func NearestIndex(count, columns int, from grid.Position) int {
	if count <= 0 {
		return -1
	}
	best := -1
	bestDist := 0.0
	for i := 0; i < count; i++ {
		d := grid.Distance(from, grid.PositionOf(i, columns))
		if best < 0 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}
