// Package board holds the ordered sequence of widget instances that the
// dashboard renders — the single source of truth for board order — together
// with the reorder resolver that moves one instance at a time during a drag.
//
// Positions are never stored: a widget's place on the grid is derived from
// its index in the sequence (see pkg/grid). All mutations replace the whole
// sequence copy-on-write, so readers never observe a half-applied splice.
package board

import (
	"errors"
	"fmt"
)

// Board errors.
var (
	// ErrUnknownKind is returned when a widget kind string is not one of
	// the six supported kinds.
	ErrUnknownKind = errors.New("board: unknown widget kind")

	// ErrNotFound is returned when an instance id is not in the sequence.
	ErrNotFound = errors.New("board: widget not found")

	// ErrDuplicateID is returned when adding an instance whose id is
	// already present.
	ErrDuplicateID = errors.New("board: duplicate widget id")
)

// Kind is the closed enumeration of widget kinds. Values outside the six
// constants below are unrepresentable past ParseKind.
type Kind string

const (
	KindStock      Kind = "stock"
	KindStockTable Kind = "stock-table"
	KindWeather    Kind = "weather"
	KindNotes      Kind = "notes"
	KindClock      Kind = "clock"
	KindGitHub     Kind = "github"
)

// Kinds returns all widget kinds in library display order.
func Kinds() []Kind {
	return []Kind{
		KindStock,
		KindStockTable,
		KindWeather,
		KindNotes,
		KindClock,
		KindGitHub,
	}
}

// ParseKind validates a raw kind string from persisted state or user input.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// Valid reports whether k is one of the six supported kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindStock, KindStockTable, KindWeather, KindNotes, KindClock, KindGitHub:
		return true
	}
	return false
}

func (k Kind) String() string {
	return string(k)
}
