// Package components provides the ANSI-aware text and card-rendering
// primitives shared by the gridpulse widgets: width-safe truncation and
// padding, bordered cards with embedded titles, sparklines, and a small
// aligned table.
package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Align controls horizontal text alignment within a card or cell.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// VisibleLen returns the visible width of s in terminal cells, ignoring
// ANSI escape sequences and counting wide characters as 2.
func VisibleLen(s string) int {
	return ansi.StringWidth(s)
}

// Truncate truncates s to at most maxWidth visible cells, preserving ANSI
// escape sequences before the cut point.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return ansi.Truncate(s, maxWidth, "")
}

// TruncateWithTail truncates s to at most maxWidth visible cells, appending
// tail (e.g. "…") when truncation occurs. The tail counts toward maxWidth.
func TruncateWithTail(s string, maxWidth int, tail string) string {
	if maxWidth <= 0 {
		return ""
	}
	return ansi.Truncate(s, maxWidth, tail)
}

// PadRight pads s with trailing spaces to exactly width visible cells.
// Strings already wider than width are returned unchanged.
func PadRight(s string, width int) string {
	vis := VisibleLen(s)
	if vis >= width {
		return s
	}
	return s + strings.Repeat(" ", width-vis)
}

// PadLeft pads s with leading spaces to exactly width visible cells.
func PadLeft(s string, width int) string {
	vis := VisibleLen(s)
	if vis >= width {
		return s
	}
	return strings.Repeat(" ", width-vis) + s
}

// PadCenter centers s within width; an odd leftover space goes right.
func PadCenter(s string, width int) string {
	vis := VisibleLen(s)
	if vis >= width {
		return s
	}
	total := width - vis
	left := total / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", total-left)
}

// FitLine truncates or right-pads a single line to exactly width cells.
func FitLine(s string, width int) string {
	if width <= 0 {
		return ""
	}
	vis := VisibleLen(s)
	switch {
	case vis > width:
		return Truncate(s, width)
	case vis < width:
		return PadRight(s, width)
	}
	return s
}

// FitLines pads or truncates a block of lines to exactly height lines of
// exactly width cells each.
func FitLines(lines []string, width, height int) string {
	out := make([]string, height)
	for i := 0; i < height; i++ {
		if i < len(lines) {
			out[i] = FitLine(lines[i], width)
		} else {
			out[i] = strings.Repeat(" ", width)
		}
	}
	return strings.Join(out, "\n")
}

// Color produces a 24-bit ANSI foreground escape from a hex color like
// "#ff5500". Malformed input yields an empty string.
func Color(hex string) string {
	r, g, b, ok := parseHex(hex)
	if !ok {
		return ""
	}
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", r, g, b)
}

// Bold wraps s in ANSI bold escape sequences.
func Bold(s string) string {
	return "\x1b[1m" + s + "\x1b[22m"
}

// Dim wraps s in ANSI dim/faint escape sequences.
func Dim(s string) string {
	return "\x1b[2m" + s + "\x1b[22m"
}

// Reset returns the ANSI reset sequence.
func Reset() string {
	return "\x1b[0m"
}

// parseHex parses "#RRGGBB" or "RRGGBB" into components.
func parseHex(hex string) (r, g, b uint8, ok bool) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	rv, err1 := strconv.ParseUint(hex[0:2], 16, 8)
	gv, err2 := strconv.ParseUint(hex[2:4], 16, 8)
	bv, err3 := strconv.ParseUint(hex[4:6], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0, false
	}
	return uint8(rv), uint8(gv), uint8(bv), true
}
