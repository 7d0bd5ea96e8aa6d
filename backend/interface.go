package backend

import (
	"context"
	"fmt"
	"strings"
)

// Task represents a todo item
type Task struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// TaskList is an ordered sequence of tasks. Insertion order is display order.
type TaskList []Task

// Clone returns a copy of the list that shares no backing array with l.
func (l TaskList) Clone() TaskList {
	out := make(TaskList, len(l))
	copy(out, l)
	return out
}

// IndexOf returns the position of the task with the given id, or -1.
func (l TaskList) IndexOf(id int64) int {
	for i := range l {
		if l[i].ID == id {
			return i
		}
	}
	return -1
}

// Filter selects the subset of tasks that is displayed
type Filter int

const (
	FilterAll Filter = iota
	FilterActive
	FilterCompleted
)

// Filters lists every filter in display order.
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

// String returns the lowercase name of the filter
func (f Filter) String() string {
	switch f {
	case FilterActive:
		return "active"
	case FilterCompleted:
		return "completed"
	default:
		return "all"
	}
}

// Match reports whether task t belongs to the filtered set.
func (f Filter) Match(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Next returns the filter that follows f, wrapping around.
func (f Filter) Next() Filter {
	return Filters[(int(f)+1)%len(Filters)]
}

// ParseFilter parses a filter name (case-insensitive). The empty string is All.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "active":
		return FilterActive, nil
	case "completed", "done":
		return FilterCompleted, nil
	}
	return FilterAll, fmt.Errorf("invalid filter: %q", s)
}

// Theme is the persisted visual theme flag
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// DefaultTheme is used when no theme has been persisted.
const DefaultTheme = ThemeDark

// Toggle returns the opposite theme
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// ParseTheme parses "light" or "dark".
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	}
	return DefaultTheme, fmt.Errorf("invalid theme: %q", s)
}

// Storage keys, shared by every backend.
const (
	KeyTodos = "todos"
	KeyTheme = "theme"
)

// KeyValue defines the interface for durable local key-value storage.
// Values are opaque bytes; Set overwrites any previous value.
type KeyValue interface {
	// Get returns the value for key. found is false when the key was never set.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error

	// Connection management
	Close() error
}
