// Package render turns a task list into text, HTML, JSON or PDF output.
// Every renderer escapes task text for its target so user input is never
// interpreted as markup or terminal control sequences.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/x/ansi"

	"todolist/backend"
	"todolist/internal/utils"
)

// DefaultDateFormat matches the long en-US date shown above the list.
const DefaultDateFormat = "Monday, January 2, 2006"

// Page is everything a full-page renderer shows.
type Page struct {
	Title  string
	Date   time.Time
	Theme  backend.Theme
	Filter backend.Filter
	Tasks  backend.TaskList // already filtered
	Active int              // active tasks in the whole list
}

// ItemsLeft returns the status line text for p.
func (p Page) ItemsLeft() string {
	return utils.ItemsLeft(p.Active)
}

// FormatDate formats the informational date line. An empty layout uses DefaultDateFormat.
func FormatDate(t time.Time, layout string) string {
	if layout == "" {
		layout = DefaultDateFormat
	}
	return t.Format(layout)
}

// Sanitize makes task text safe to print on a terminal: escape sequences
// are removed, and remaining control characters and bidi controls are shown
// as \xNN.
func Sanitize(text string) string {
	stripped := ansi.Strip(text)

	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range stripped {
		if unicode.IsControl(r) || unicode.Is(unicode.Bidi_Control, r) {
			fmt.Fprintf(&b, "\\x%02x", r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Text writes one line per task: "[x] <id>  <text>".
func Text(w io.Writer, tasks backend.TaskList) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, "No tasks")
		return err
	}
	for _, t := range tasks {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		if _, err := fmt.Fprintf(w, "[%s] %-14d %s\n", mark, t.ID, Sanitize(t.Text)); err != nil {
			return err
		}
	}
	return nil
}

// JSON writes tasks in the persisted layout, indented.
func JSON(w io.Writer, tasks backend.TaskList) error {
	if tasks == nil {
		tasks = backend.TaskList{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tasks)
}
