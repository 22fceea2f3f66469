package components

// TableColumn describes one column of a small aligned table.
type TableColumn struct {
	Header string
	Align  Align
	// Weight distributes the available width between columns; zero is
	// treated as 1.
	Weight int
}

// RenderTable renders rows into lines of exactly width cells, with a
// dimmed header line. Cells are truncated to their column; short rows
// leave trailing columns blank. Returns one string per line.
func RenderTable(columns []TableColumn, rows [][]string, width int) []string {
	if len(columns) == 0 || width <= 0 {
		return nil
	}

	totalWeight := 0
	for _, c := range columns {
		w := c.Weight
		if w <= 0 {
			w = 1
		}
		totalWeight += w
	}

	// One space between columns.
	avail := width - (len(columns) - 1)
	if avail < len(columns) {
		avail = len(columns)
	}
	widths := make([]int, len(columns))
	used := 0
	for i, c := range columns {
		w := c.Weight
		if w <= 0 {
			w = 1
		}
		if i == len(columns)-1 {
			widths[i] = avail - used
		} else {
			widths[i] = avail * w / totalWeight
			used += widths[i]
		}
	}

	renderRow := func(cells []string, dim bool) string {
		line := ""
		for i := range columns {
			if i > 0 {
				line += " "
			}
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			cell = Truncate(cell, widths[i])
			switch columns[i].Align {
			case AlignRight:
				cell = PadLeft(cell, widths[i])
			case AlignCenter:
				cell = PadCenter(cell, widths[i])
			default:
				cell = PadRight(cell, widths[i])
			}
			line += cell
		}
		if dim {
			line = Dim(line)
		}
		return line
	}

	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = c.Header
	}

	out := make([]string, 0, len(rows)+1)
	out = append(out, renderRow(headers, true))
	for _, row := range rows {
		out = append(out, renderRow(row, false))
	}
	return out
}
