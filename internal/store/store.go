// Package store persists the task list and theme flag in a key-value backend.
package store

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"todolist/backend"
	"todolist/internal/utils"
)

//go:embed todos.schema.json
var todosSchemaJSON string

var todosSchema = jsonschema.MustCompileString("todos.schema.json", todosSchemaJSON)

// errKeyAbsent marks a key that was never persisted.
var errKeyAbsent = errors.New("no persisted value")

// PersistenceReadError describes persisted data that could not be used.
// Load and LoadTheme recover from it locally; it is only ever logged.
type PersistenceReadError struct {
	Key string
	Err error
}

func (e *PersistenceReadError) Error() string {
	return fmt.Sprintf("unreadable persisted %s: %v", e.Key, e.Err)
}

func (e *PersistenceReadError) Unwrap() error {
	return e.Err
}

// Store is the durable representation of the task list and theme.
type Store struct {
	kv backend.KeyValue
}

// New creates a store on top of kv. The store does not own kv.
func New(kv backend.KeyValue) *Store {
	return &Store{kv: kv}
}

// Load returns the persisted task list. It never fails: absent or malformed
// data yields an empty list.
func (s *Store) Load(ctx context.Context) backend.TaskList {
	list, err := s.loadTasks(ctx)
	if err != nil {
		var readErr *PersistenceReadError
		if errors.As(err, &readErr) && errors.Is(readErr.Err, errKeyAbsent) {
			utils.GetLogger().Debug("no persisted tasks, starting empty")
		} else {
			utils.GetLogger().Warn("discarding persisted tasks", "err", err)
		}
		return backend.TaskList{}
	}
	utils.GetLogger().Debug("loaded tasks", "count", len(list))
	return list
}

// loadTasks is Load without the fail-soft recovery.
func (s *Store) loadTasks(ctx context.Context) (backend.TaskList, error) {
	data, found, err := s.kv.Get(ctx, backend.KeyTodos)
	if err != nil {
		return nil, &PersistenceReadError{Key: backend.KeyTodos, Err: err}
	}
	if !found {
		return nil, &PersistenceReadError{Key: backend.KeyTodos, Err: errKeyAbsent}
	}

	list, err := DecodeTasks(data)
	if err != nil {
		return nil, &PersistenceReadError{Key: backend.KeyTodos, Err: err}
	}
	return list, nil
}

// DecodeTasks parses and validates a serialized task list.
// Entries that break the list invariants (blank text, repeated id) are dropped.
func DecodeTasks(data []byte) (backend.TaskList, error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	// "null" is what a nil slice used to serialize to.
	if doc == nil {
		return backend.TaskList{}, nil
	}
	if err := todosSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var raw backend.TaskList
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid task list: %w", err)
	}

	list := make(backend.TaskList, 0, len(raw))
	seen := make(map[int64]bool, len(raw))
	for _, t := range raw {
		t.Text = utils.NormalizeText(t.Text)
		if t.Text == "" || seen[t.ID] {
			utils.GetLogger().Warn("dropping invalid persisted task", "id", t.ID)
			continue
		}
		seen[t.ID] = true
		list = append(list, t)
	}
	return list, nil
}

// EncodeTasks serializes list in the persisted layout. An empty list encodes as [].
func EncodeTasks(list backend.TaskList) ([]byte, error) {
	if list == nil {
		list = backend.TaskList{}
	}
	return json.Marshal(list)
}

// Persist serializes the full list, overwriting prior persisted state.
func (s *Store) Persist(ctx context.Context, list backend.TaskList) error {
	data, err := EncodeTasks(list)
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}
	if err := s.kv.Set(ctx, backend.KeyTodos, data); err != nil {
		return fmt.Errorf("failed to persist tasks: %w", err)
	}
	return nil
}

// LoadTheme returns the persisted theme, or the default theme when absent or unknown.
func (s *Store) LoadTheme(ctx context.Context) backend.Theme {
	data, found, err := s.kv.Get(ctx, backend.KeyTheme)
	if err != nil {
		utils.GetLogger().Warn("using default theme", "err", &PersistenceReadError{Key: backend.KeyTheme, Err: err})
		return backend.DefaultTheme
	}
	if !found {
		return backend.DefaultTheme
	}

	// Tolerate a JSON-quoted value as well as the bare string.
	theme, err := backend.ParseTheme(strings.Trim(string(data), "\""))
	if err != nil {
		utils.GetLogger().Warn("using default theme", "err", &PersistenceReadError{Key: backend.KeyTheme, Err: err})
		return backend.DefaultTheme
	}
	return theme
}

// PersistTheme writes the theme flag.
func (s *Store) PersistTheme(ctx context.Context, theme backend.Theme) error {
	if _, err := backend.ParseTheme(string(theme)); err != nil {
		return err
	}
	if err := s.kv.Set(ctx, backend.KeyTheme, []byte(theme)); err != nil {
		return fmt.Errorf("failed to persist theme: %w", err)
	}
	return nil
}
