package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap holds every key binding of the interface
type keyMap struct {
	// new-task input
	Submit     key.Binding
	LeaveInput key.Binding

	// list
	Up             key.Binding
	Down           key.Binding
	Toggle         key.Binding
	Edit           key.Binding
	Delete         key.Binding
	ClearCompleted key.Binding
	FilterAll      key.Binding
	FilterActive   key.Binding
	FilterDone     key.Binding
	CycleFilter    key.Binding
	Theme          key.Binding
	FocusInput     key.Binding
	Help           key.Binding
	Quit           key.Binding

	// inline editor
	ConfirmEdit key.Binding
	CancelEdit  key.Binding
	BlurEdit    key.Binding

	ForceQuit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add task")),
		LeaveInput: key.NewBinding(key.WithKeys("tab", "esc", "down"), key.WithHelp("tab", "go to list")),

		Up:             key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:           key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:         key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		Edit:           key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		Delete:         key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		ClearCompleted: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear completed")),
		FilterAll:      key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all")),
		FilterActive:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "active")),
		FilterDone:     key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "completed")),
		CycleFilter:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "next filter")),
		Theme:          key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		FocusInput:     key.NewBinding(key.WithKeys("a", "i", "tab"), key.WithHelp("a", "new task")),
		Help:           key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:           key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),

		ConfirmEdit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		CancelEdit:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		BlurEdit:    key.NewBinding(key.WithKeys("tab", "up", "down"), key.WithHelp("tab", "save & leave")),

		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// contextHelp adapts keyMap to help.KeyMap for the current focus
type contextHelp struct {
	keys    keyMap
	focus   Focus
	editing bool
}

func (h contextHelp) ShortHelp() []key.Binding {
	switch {
	case h.editing:
		return []key.Binding{h.keys.ConfirmEdit, h.keys.CancelEdit, h.keys.BlurEdit}
	case h.focus == FocusInput:
		return []key.Binding{h.keys.Submit, h.keys.LeaveInput, h.keys.ForceQuit}
	default:
		return []key.Binding{h.keys.Toggle, h.keys.Edit, h.keys.Delete, h.keys.CycleFilter, h.keys.FocusInput, h.keys.Help, h.keys.Quit}
	}
}

func (h contextHelp) FullHelp() [][]key.Binding {
	if h.editing || h.focus == FocusInput {
		return [][]key.Binding{h.ShortHelp()}
	}
	return [][]key.Binding{
		{h.keys.Up, h.keys.Down, h.keys.FocusInput},
		{h.keys.Toggle, h.keys.Edit, h.keys.Delete, h.keys.ClearCompleted},
		{h.keys.FilterAll, h.keys.FilterActive, h.keys.FilterDone, h.keys.CycleFilter},
		{h.keys.Theme, h.keys.Help, h.keys.Quit},
	}
}
