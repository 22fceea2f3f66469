package components

import "strings"

// sparkBlocks are the eight vertical block levels of a sparkline cell.
var sparkBlocks = [8]rune{
	'▁', '▂', '▃', '▄',
	'▅', '▆', '▇', '█',
}

// Sparkline renders data as a row of Unicode block characters at most
// width cells wide, auto-scaled to the data range. Only the most recent
// width points are shown. A flat series renders at the lowest level.
func Sparkline(data []float64, width int) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}
	points := data
	if len(points) > width {
		points = points[len(points)-width:]
	}

	lo, hi := points[0], points[0]
	for _, v := range points[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	var buf strings.Builder
	span := hi - lo
	for _, v := range points {
		level := 0
		if span > 0 {
			level = int((v - lo) / span * 7)
			if level > 7 {
				level = 7
			}
			if level < 0 {
				level = 0
			}
		}
		buf.WriteRune(sparkBlocks[level])
	}
	return buf.String()
}
