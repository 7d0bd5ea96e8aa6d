// Package markdown reads and writes task lists as markdown checklists:
//
//	- [ ] walk dog
//	- [x] buy milk
package markdown

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"todolist/backend"
)

// Item is one checklist entry read from markdown
type Item struct {
	Text      string
	Completed bool
}

// itemPattern matches "- [ ] text", "* [x] text" and "+ [X] text", optionally indented.
var itemPattern = regexp.MustCompile(`^\s*[-*+]\s+\[([ xX])\]\s+(.*)$`)

// ParseStatusChar reports whether a checkbox character marks a completed item.
func ParseStatusChar(char string) bool {
	return strings.EqualFold(char, "x")
}

// FormatStatusChar converts a completion flag to a checkbox character.
func FormatStatusChar(completed bool) string {
	if completed {
		return "x"
	}
	return " "
}

// FormatTaskText flattens text onto one line so it stays a single list item.
func FormatTaskText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Format writes tasks as a checklist, under a "# title" heading when title is set.
func Format(w io.Writer, title string, tasks backend.TaskList) error {
	bw := bufio.NewWriter(w)
	if title != "" {
		_, _ = fmt.Fprintf(bw, "# %s\n\n", FormatTaskText(title))
	}
	for _, t := range tasks {
		_, _ = fmt.Fprintf(bw, "- [%s] %s\n", FormatStatusChar(t.Completed), FormatTaskText(t.Text))
	}
	return bw.Flush()
}

// Parse reads every checklist item from r. Other lines are ignored, as are
// items whose text is blank.
func Parse(r io.Reader) ([]Item, error) {
	var items []Item
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		matches := itemPattern.FindStringSubmatch(scanner.Text())
		if len(matches) != 3 {
			continue
		}
		text := strings.TrimSpace(matches[2])
		if text == "" {
			continue
		}
		items = append(items, Item{Text: text, Completed: ParseStatusChar(matches[1])})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read checklist: %w", err)
	}
	return items, nil
}
