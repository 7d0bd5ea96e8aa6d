// Package tui provides the interactive terminal view of the task list.
//
// The view owns no task data. Every intent (add, toggle, edit, delete, clear,
// filter, theme) is forwarded to the controller, and the next frame is built
// from the controller's state.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"todolist/backend"
	"todolist/internal/controller"
	"todolist/internal/render"
	"todolist/internal/utils"
)

// Focus indicates which part of the screen receives keys
type Focus int

const (
	FocusInput Focus = iota
	FocusList
)

// Options tunes the view. Zero durations disable the corresponding cue.
type Options struct {
	ExitAnimation time.Duration
	ShakeDuration time.Duration
	DateFormat    string
	Title         string
	// Now returns the date shown in the header. It is read once, in New.
	Now func() time.Time
}

// Message types
type exitDoneMsg struct {
	id int64
}

type shakeDoneMsg struct {
	seq int
}

// Model represents the TUI state
type Model struct {
	ctrl *controller.Controller
	ctx  context.Context
	opts Options

	// Derived from the controller after every change
	visible backend.TaskList
	filter  backend.Filter

	// Selection
	cursor int
	focus  Focus

	// Inputs
	input     textinput.Model
	editInput textinput.Model
	editing   *int64

	// Editor value right after loading the task; confirming it unchanged writes nothing.
	editLoaded string

	// Transient cues
	removing map[int64]bool
	shaking  bool
	shakeSeq int
	status   string

	date   string
	keys   keyMap
	help   help.Model
	styles styles

	width  int
	height int
}

// New creates a TUI model over the given controller
func New(c *controller.Controller, opts Options) *Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Title == "" {
		opts.Title = "Tasks"
	}

	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	ti.Prompt = "+ "
	ti.CharLimit = 512
	ti.Focus()

	ei := textinput.New()
	ei.Prompt = ""
	ei.CharLimit = 0

	m := &Model{
		ctrl:      c,
		ctx:       context.Background(),
		opts:      opts,
		filter:    backend.FilterAll,
		focus:     FocusInput,
		input:     ti,
		editInput: ei,
		removing:  make(map[int64]bool),
		date:      render.FormatDate(opts.Now(), opts.DateFormat),
		keys:      defaultKeyMap(),
		help:      help.New(),
		styles:    newStyles(c.Theme()),
	}
	m.refresh()
	return m
}

// Init initializes the TUI
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Focus returns the part of the screen receiving keys
func (m *Model) Focus() Focus {
	return m.focus
}

// Filter returns the active view filter
func (m *Model) Filter() backend.Filter {
	return m.filter
}

// Editing returns the id of the task being edited, if any
func (m *Model) Editing() (int64, bool) {
	if m.editing == nil {
		return 0, false
	}
	return *m.editing, true
}

// Removing reports whether a task is playing its exit animation
func (m *Model) Removing(id int64) bool {
	return m.removing[id]
}

// Shaking reports whether the empty-input cue is showing
func (m *Model) Shaking() bool {
	return m.shaking
}

// Status returns the last status line message
func (m *Model) Status() string {
	return m.status
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-8, 10)
		m.editInput.Width = max(msg.Width-12, 10)
		return m, nil

	case tea.BlurMsg:
		// Losing terminal focus while editing keeps the edit.
		if m.editing != nil {
			m.confirmEdit()
		}
		return m, nil

	case exitDoneMsg:
		if !m.removing[msg.id] {
			return m, nil
		}
		delete(m.removing, msg.id)
		m.remove(msg.id)
		return m, nil

	case shakeDoneMsg:
		if msg.seq == m.shakeSeq {
			m.shaking = false
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		switch {
		case m.editing != nil:
			return m.handleEditKeys(msg)
		case m.focus == FocusInput:
			return m.handleInputKeys(msg)
		default:
			return m.handleListKeys(msg)
		}
	}

	return m, nil
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Submit):
		return m, m.submit()

	case key.Matches(msg, m.keys.LeaveInput):
		m.focusList()
		return m, nil
	}

	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.keys.ConfirmEdit):
		m.confirmEdit()
		return m, nil

	case key.Matches(msg, m.keys.CancelEdit):
		m.endEdit()
		return m, nil

	case key.Matches(msg, m.keys.BlurEdit):
		m.confirmEdit()
		switch msg.String() {
		case "up":
			m.moveCursor(-1)
		case "down":
			m.moveCursor(1)
		}
		return m, nil
	}

	m.editInput, cmd = m.editInput.Update(msg)
	return m, cmd
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor == 0 {
			return m, m.focusInput()
		}
		m.moveCursor(-1)

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)

	case key.Matches(msg, m.keys.FocusInput):
		return m, m.focusInput()

	case key.Matches(msg, m.keys.Toggle):
		if t, ok := m.selected(); ok {
			m.toggle(t.ID)
		}

	case key.Matches(msg, m.keys.Edit):
		if t, ok := m.selected(); ok {
			return m, m.beginEdit(t.ID)
		}

	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.selected(); ok {
			return m, m.deleteTask(t.ID)
		}

	case key.Matches(msg, m.keys.ClearCompleted):
		n := m.ctrl.ClearCompleted(m.ctx)
		m.setStatus(fmt.Sprintf("Cleared %d completed", n))
		m.refresh()

	case key.Matches(msg, m.keys.FilterAll):
		m.setFilter(backend.FilterAll)
	case key.Matches(msg, m.keys.FilterActive):
		m.setFilter(backend.FilterActive)
	case key.Matches(msg, m.keys.FilterDone):
		m.setFilter(backend.FilterCompleted)
	case key.Matches(msg, m.keys.CycleFilter):
		m.setFilter(m.filter.Next())

	case key.Matches(msg, m.keys.Theme):
		theme := m.ctrl.ToggleTheme(m.ctx)
		m.styles = newStyles(theme)
		m.setStatus("Theme: " + string(theme))

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

// submit adds the input text as a task, or starts the shake cue when empty
func (m *Model) submit() tea.Cmd {
	_, err := m.ctrl.Add(m.ctx, m.input.Value())
	if errors.Is(err, controller.ErrEmptyInput) {
		return m.shake()
	}
	if err != nil {
		m.setStatus(err.Error())
		return nil
	}
	m.input.Reset()
	m.setStatus("")
	m.refresh()
	return nil
}

func (m *Model) shake() tea.Cmd {
	if m.opts.ShakeDuration <= 0 {
		return nil
	}
	m.shakeSeq++
	m.shaking = true
	seq := m.shakeSeq
	return tea.Tick(m.opts.ShakeDuration, func(time.Time) tea.Msg {
		return shakeDoneMsg{seq: seq}
	})
}

func (m *Model) toggle(id int64) {
	if _, err := m.ctrl.ToggleCompletion(m.ctx, id); err != nil {
		m.setStatus(err.Error())
	}
	m.refresh()
}

// beginEdit opens the inline editor on a task. Any other open edit is
// confirmed first so at most one task is ever in edit state.
func (m *Model) beginEdit(id int64) tea.Cmd {
	if m.editing != nil {
		if *m.editing == id {
			return nil
		}
		m.confirmEdit()
	}
	t, ok := m.ctrl.Get(id)
	if !ok {
		return nil
	}
	m.editing = &id
	m.editInput.SetValue(t.Text)
	m.editLoaded = m.editInput.Value()
	m.editInput.CursorEnd()
	m.input.Blur()
	return m.editInput.Focus()
}

// confirmEdit saves the editor text. Blank text leaves the task unchanged.
func (m *Model) confirmEdit() {
	if m.editing == nil {
		return
	}
	id := *m.editing
	value := m.editInput.Value()
	unchanged := value == m.editLoaded
	m.endEdit()
	if unchanged {
		return
	}

	_, err := m.ctrl.Edit(m.ctx, id, value)
	switch {
	case errors.Is(err, controller.ErrEmptyInput):
		utils.GetLogger().Debug("discarded blank edit", "id", id)
	case err != nil:
		m.setStatus(err.Error())
	}
	m.refresh()
}

func (m *Model) endEdit() {
	m.editing = nil
	m.editLoaded = ""
	m.editInput.Blur()
	m.editInput.Reset()
}

// deleteTask plays the exit animation for a visible row and removes the task
// when it finishes. Rows that are not on screen are removed at once.
func (m *Model) deleteTask(id int64) tea.Cmd {
	if m.removing[id] {
		return nil
	}
	if m.opts.ExitAnimation <= 0 || m.visible.IndexOf(id) < 0 {
		m.remove(id)
		return nil
	}
	m.removing[id] = true
	return tea.Tick(m.opts.ExitAnimation, func(time.Time) tea.Msg {
		return exitDoneMsg{id: id}
	})
}

func (m *Model) remove(id int64) {
	if m.editing != nil && *m.editing == id {
		m.endEdit()
	}
	if err := m.ctrl.Remove(m.ctx, id); err != nil {
		utils.GetLogger().Debug("remove skipped", "id", id, "err", err)
	}
	m.refresh()
}

func (m *Model) setFilter(f backend.Filter) {
	m.filter = f
	m.cursor = 0
	m.refresh()
}

func (m *Model) focusList() {
	m.focus = FocusList
	m.input.Blur()
}

func (m *Model) focusInput() tea.Cmd {
	m.focus = FocusInput
	return m.input.Focus()
}

func (m *Model) moveCursor(delta int) {
	m.cursor = min(max(m.cursor+delta, 0), max(len(m.visible)-1, 0))
}

func (m *Model) selected() (backend.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return backend.Task{}, false
	}
	return m.visible[m.cursor], true
}

func (m *Model) setStatus(s string) {
	m.status = s
}

// refresh rebuilds the visible rows from the controller
func (m *Model) refresh() {
	m.visible = m.visible[:0]
	for t := range m.ctrl.Filtered(m.filter) {
		m.visible = append(m.visible, t)
	}
	m.moveCursor(0)
	if err := m.ctrl.PersistErr(); err != nil {
		m.setStatus("Not saved: " + err.Error())
	}
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		m.width = 80
		m.height = 24
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	inputStyle := m.styles.input
	if m.shaking {
		inputStyle = m.styles.inputShake
	}
	b.WriteString(inputStyle.Width(max(m.width-6, 20)).Render(m.input.View()))
	b.WriteString("\n")

	b.WriteString(m.renderList())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	b.WriteString("\n")
	b.WriteString(m.styles.help.Render(m.help.View(contextHelp{
		keys:    m.keys,
		focus:   m.focus,
		editing: m.editing != nil,
	})))

	return b.String()
}

func (m *Model) renderHeader() string {
	title := m.styles.title.Render(m.opts.Title + " " + themeIcon(m.ctrl.Theme()))
	date := m.styles.date.Render(m.date)

	padding := m.width - lipgloss.Width(title) - lipgloss.Width(date) - 2
	if padding < 1 {
		padding = 1
	}
	return title + strings.Repeat(" ", padding) + date
}

func (m *Model) renderList() string {
	if len(m.visible) == 0 {
		return m.styles.empty.Render("  No tasks")
	}

	var b strings.Builder
	for i, t := range m.visible {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderTask(i, t))
	}
	return b.String()
}

func (m *Model) renderTask(i int, t backend.Task) string {
	cursor := "  "
	isSelected := m.focus == FocusList && i == m.cursor
	if isSelected {
		cursor = "> "
	}

	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}

	if m.editing != nil && *m.editing == t.ID {
		return cursor + check + " " + m.editInput.View()
	}

	line := check + " " + render.Sanitize(t.Text)
	switch {
	case m.removing[t.ID]:
		line = m.styles.removing.Render(line)
	case isSelected:
		line = m.styles.selected.Render(line)
	case t.Completed:
		line = m.styles.completed.Render(line)
	default:
		line = m.styles.row.Render(line)
	}
	return cursor + line
}

func (m *Model) renderFooter() string {
	left := m.ctrl.ItemsLeftLabel()

	var filters []string
	for _, f := range backend.Filters {
		label := strings.ToUpper(f.String()[:1]) + f.String()[1:]
		if f == m.filter {
			filters = append(filters, m.styles.filterOn.Render(label))
		} else {
			filters = append(filters, m.styles.filterOff.Render(label))
		}
	}
	middle := strings.Join(filters, " ")

	right := m.status
	if right == "" {
		right = "C: clear completed"
	}

	padding := m.width - lipgloss.Width(left) - lipgloss.Width(middle) - lipgloss.Width(right) - 2
	gap := max(padding/2, 1)
	return m.styles.statusBar.Width(m.width).Render(
		left + strings.Repeat(" ", gap) + middle + strings.Repeat(" ", gap) + right,
	)
}
