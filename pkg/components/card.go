package components

import "strings"

// CardStyle controls the visual appearance of a rendered widget card.
type CardStyle struct {
	Title      string
	TitleAlign Align
	Border     string // hex border color
	Dashed     bool   // dashed border marks a drop placeholder
}

// Rounded border characters; the dashed set marks placeholder slots.
var (
	cardCorners = [4]string{"╭", "╮", "╰", "╯"}
	cardSolid   = [2]string{"─", "│"}
	cardDashed  = [2]string{"┄", "┆"}
)

// RenderCard renders content inside a rounded-border card of exactly
// width x height outer cells, with the title embedded in the top border.
// Content lines are truncated or padded to the interior; anything below
// the interior height is dropped. Returns "" when the card cannot fit
// its own borders.
func RenderCard(content string, width, height int, style CardStyle) string {
	if width < 2 || height < 2 {
		return ""
	}

	hchar, vchar := cardSolid[0], cardSolid[1]
	if style.Dashed {
		hchar, vchar = cardDashed[0], cardDashed[1]
	}

	pre, suf := "", ""
	if style.Border != "" {
		pre, suf = Color(style.Border), Reset()
	}

	interiorW := width - 2
	interiorH := height - 2

	var contentLines []string
	if content != "" {
		contentLines = strings.Split(content, "\n")
	}

	var buf strings.Builder

	// Top border with embedded title.
	buf.WriteString(pre)
	buf.WriteString(cardCorners[0])
	buf.WriteString(suf)
	buf.WriteString(renderTitleBar(style.Title, style.TitleAlign, interiorW, hchar, pre, suf))
	buf.WriteString(pre)
	buf.WriteString(cardCorners[1])
	buf.WriteString(suf)
	buf.WriteByte('\n')

	for i := 0; i < interiorH; i++ {
		buf.WriteString(pre)
		buf.WriteString(vchar)
		buf.WriteString(suf)
		if i < len(contentLines) {
			buf.WriteString(FitLine(contentLines[i], interiorW))
		} else {
			buf.WriteString(strings.Repeat(" ", interiorW))
		}
		buf.WriteString(pre)
		buf.WriteString(vchar)
		buf.WriteString(suf)
		buf.WriteByte('\n')
	}

	// Bottom border.
	buf.WriteString(pre)
	buf.WriteString(cardCorners[2])
	buf.WriteString(strings.Repeat(hchar, interiorW))
	buf.WriteString(cardCorners[3])
	buf.WriteString(suf)

	return buf.String()
}

// renderTitleBar renders the top border bar with an optional title
// surrounded by single spaces.
func renderTitleBar(title string, align Align, barWidth int, hchar, pre, suf string) string {
	if barWidth <= 0 {
		return ""
	}
	if title == "" || barWidth < 4 {
		return pre + strings.Repeat(hchar, barWidth) + suf
	}

	maxTitle := barWidth - 4
	if VisibleLen(title) > maxTitle {
		title = TruncateWithTail(title, maxTitle, "…")
	}
	segment := " " + title + " "
	remaining := barWidth - VisibleLen(segment)

	var left, right int
	switch align {
	case AlignRight:
		right = 1
		left = remaining - 1
	case AlignCenter:
		left = remaining / 2
		right = remaining - left
	default:
		left = 1
		right = remaining - 1
	}
	if left < 0 {
		left = 0
	}
	if right < 0 {
		right = 0
	}

	var buf strings.Builder
	buf.WriteString(pre)
	buf.WriteString(strings.Repeat(hchar, left))
	buf.WriteString(suf)
	buf.WriteString(segment)
	buf.WriteString(pre)
	buf.WriteString(strings.Repeat(hchar, right))
	buf.WriteString(suf)
	return buf.String()
}
