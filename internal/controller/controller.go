// Package controller is the only path through which the task list changes.
//
// Every mutating operation validates its input, applies the change to the
// in-memory list and persists the full list before returning. Persist
// failures are logged and remembered (see PersistErr) but never roll back
// the in-memory state.
package controller

import (
	"context"
	"errors"
	"iter"

	"todolist/backend"
	"todolist/internal/utils"
)

var (
	// ErrEmptyInput is returned when task text is empty after trimming.
	ErrEmptyInput = errors.New("task text is empty")
	// ErrNotFound is returned when no task has the requested id.
	ErrNotFound = errors.New("task not found")
)

// Storage is the persistence the controller needs (implemented by store.Store).
type Storage interface {
	Load(ctx context.Context) backend.TaskList
	Persist(ctx context.Context, list backend.TaskList) error
	LoadTheme(ctx context.Context) backend.Theme
	PersistTheme(ctx context.Context, theme backend.Theme) error
}

// Option configures a Controller
type Option func(*Controller)

// WithClock sets the clock used for id generation.
func WithClock(now Clock) Option {
	return func(c *Controller) {
		c.clock = now
	}
}

// Controller owns the task list and theme for one editing session.
type Controller struct {
	storage    Storage
	tasks      backend.TaskList
	theme      backend.Theme
	clock      Clock
	ids        *IDGenerator
	persistErr error
	themeErr   error
}

// New loads the task list and theme from storage and returns a controller for them.
func New(ctx context.Context, storage Storage, opts ...Option) *Controller {
	c := &Controller{storage: storage}
	for _, opt := range opts {
		opt(c)
	}

	c.tasks = storage.Load(ctx)
	if c.tasks == nil {
		c.tasks = backend.TaskList{}
	}
	c.theme = storage.LoadTheme(ctx)

	var maxID int64
	for _, t := range c.tasks {
		maxID = max(maxID, t.ID)
	}
	c.ids = NewIDGenerator(c.clock, maxID)
	return c
}

// Add appends a new active task with the trimmed text.
func (c *Controller) Add(ctx context.Context, rawText string) (backend.Task, error) {
	text := utils.NormalizeText(rawText)
	if text == "" {
		return backend.Task{}, utils.ErrEmptyText(ErrEmptyInput)
	}

	task := backend.Task{
		ID:   c.ids.Next(),
		Text: text,
	}
	c.tasks = append(c.tasks, task)
	c.persist(ctx, "add")

	utils.GetLogger().Debug("task added", "id", task.ID)
	return task, nil
}

// ToggleCompletion flips the completed flag of the task with the given id.
func (c *Controller) ToggleCompletion(ctx context.Context, id int64) (backend.Task, error) {
	i := c.tasks.IndexOf(id)
	if i < 0 {
		return backend.Task{}, utils.ErrTaskNotFound(ErrNotFound, id)
	}

	c.tasks[i].Completed = !c.tasks[i].Completed
	task := c.tasks[i]
	c.persist(ctx, "toggle")
	return task, nil
}

// Edit replaces the text of the task with the given id.
// Empty text is rejected before the id is looked up.
func (c *Controller) Edit(ctx context.Context, id int64, rawText string) (backend.Task, error) {
	text := utils.NormalizeText(rawText)
	if text == "" {
		return backend.Task{}, utils.ErrEmptyText(ErrEmptyInput)
	}

	i := c.tasks.IndexOf(id)
	if i < 0 {
		return backend.Task{}, utils.ErrTaskNotFound(ErrNotFound, id)
	}

	c.tasks[i].Text = text
	task := c.tasks[i]
	c.persist(ctx, "edit")
	return task, nil
}

// Remove deletes the task with the given id.
func (c *Controller) Remove(ctx context.Context, id int64) error {
	i := c.tasks.IndexOf(id)
	if i < 0 {
		return utils.ErrTaskNotFound(ErrNotFound, id)
	}

	next := make(backend.TaskList, 0, len(c.tasks)-1)
	next = append(next, c.tasks[:i]...)
	next = append(next, c.tasks[i+1:]...)
	c.tasks = next
	c.persist(ctx, "remove")
	return nil
}

// ClearCompleted removes every completed task and returns how many were removed.
func (c *Controller) ClearCompleted(ctx context.Context) int {
	next := make(backend.TaskList, 0, len(c.tasks))
	for _, t := range c.tasks {
		if !t.Completed {
			next = append(next, t)
		}
	}
	removed := len(c.tasks) - len(next)
	c.tasks = next
	c.persist(ctx, "clear-completed")
	return removed
}

// Filtered yields the tasks matching filter in stored order.
// The sequence reads the list each time it is ranged over.
func (c *Controller) Filtered(filter backend.Filter) iter.Seq[backend.Task] {
	return func(yield func(backend.Task) bool) {
		for _, t := range c.tasks {
			if filter.Match(t) && !yield(t) {
				return
			}
		}
	}
}

// CountActive returns the number of tasks not yet completed.
func (c *Controller) CountActive() int {
	n := 0
	for _, t := range c.tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}

// ItemsLeftLabel is the status line text for CountActive.
func (c *Controller) ItemsLeftLabel() string {
	return utils.ItemsLeft(c.CountActive())
}

// Tasks returns a copy of the full list.
func (c *Controller) Tasks() backend.TaskList {
	return c.tasks.Clone()
}

// Len returns the number of tasks.
func (c *Controller) Len() int {
	return len(c.tasks)
}

// Get returns the task with the given id.
func (c *Controller) Get(id int64) (backend.Task, bool) {
	i := c.tasks.IndexOf(id)
	if i < 0 {
		return backend.Task{}, false
	}
	return c.tasks[i], true
}

// Theme returns the current theme.
func (c *Controller) Theme() backend.Theme {
	return c.theme
}

// SetTheme changes and persists the theme.
func (c *Controller) SetTheme(ctx context.Context, theme backend.Theme) error {
	if _, err := backend.ParseTheme(string(theme)); err != nil {
		return err
	}
	c.theme = theme
	if err := c.storage.PersistTheme(ctx, theme); err != nil {
		utils.GetLogger().Warn("theme not persisted", "err", err)
		c.themeErr = err
		return nil
	}
	c.themeErr = nil
	return nil
}

// ToggleTheme flips between light and dark and returns the new theme.
func (c *Controller) ToggleTheme(ctx context.Context) backend.Theme {
	_ = c.SetTheme(ctx, c.theme.Toggle())
	return c.theme
}

// PersistErr reports the failures of the most recent task list write and the
// most recent theme write. It is nil once both have succeeded.
func (c *Controller) PersistErr() error {
	return errors.Join(c.persistErr, c.themeErr)
}

func (c *Controller) persist(ctx context.Context, op string) {
	if err := c.storage.Persist(ctx, c.tasks); err != nil {
		utils.GetLogger().Warn("tasks not persisted", "op", op, "err", err)
		c.persistErr = err
		return
	}
	c.persistErr = nil
}
