package widgets

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/gridpulse/pkg/board"
	"gitlab.com/tinyland/lab/gridpulse/pkg/components"
)

// NotesWidget shows a free-form text note. Editing goes through the
// board's inline edit overlay.
type NotesWidget struct {
	id   string
	text string
}

// NewNotes creates a notes widget from a board instance.
func NewNotes(inst board.Instance) *NotesWidget {
	return &NotesWidget{id: inst.ID, text: inst.Config.Text}
}

func (w *NotesWidget) ID() string           { return w.id }
func (w *NotesWidget) Kind() board.Kind     { return board.KindNotes }
func (w *NotesWidget) Title() string        { return "Notes" }
func (w *NotesWidget) MinSize() (int, int)  { return 10, 3 }
func (w *NotesWidget) Init() tea.Cmd        { return nil }
func (w *NotesWidget) Update(tea.Msg) tea.Cmd { return nil }

func (w *NotesWidget) HandleKey(tea.KeyMsg) tea.Cmd { return nil }

func (w *NotesWidget) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if w.text == "" {
		return centerLines([]string{
			components.PadCenter(components.Dim("empty · press e to edit"), width),
		}, width, height)
	}

	var lines []string
	for _, para := range strings.Split(w.text, "\n") {
		lines = append(lines, wrapLine(para, width)...)
	}
	return components.FitLines(lines, width, height)
}

// EditValue exposes the note text; newlines are flattened for the
// single-line overlay.
func (w *NotesWidget) EditValue() (string, string) {
	return strings.ReplaceAll(w.text, "\n", " "), "note"
}

// CommitEdit stores the note text. Empty notes are allowed.
func (w *NotesWidget) CommitEdit(value string) (func(*board.Config), error) {
	w.text = value
	return func(c *board.Config) { c.Text = value }, nil
}

// wrapLine word-wraps a paragraph to the given width, falling back to a
// hard cut for words longer than a line.
func wrapLine(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	line := ""
	for _, word := range words {
		for components.VisibleLen(word) > width {
			if line != "" {
				lines = append(lines, line)
				line = ""
			}
			lines = append(lines, components.Truncate(word, width))
			word = word[len(components.Truncate(word, width)):]
		}
		switch {
		case line == "":
			line = word
		case components.VisibleLen(line)+1+components.VisibleLen(word) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}
