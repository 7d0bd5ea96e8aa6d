package utils

import (
	"fmt"
	"strings"
)

// ErrorWithSuggestion wraps an error with a user-friendly suggestion.
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

// Error implements the error interface.
func (e *ErrorWithSuggestion) Error() string {
	return fmt.Sprintf("%s\n\nSuggestion: %s", e.Err.Error(), e.Suggestion)
}

// GetSuggestion returns the suggestion text.
func (e *ErrorWithSuggestion) GetSuggestion() string {
	return e.Suggestion
}

// Unwrap returns the underlying error for error chain support.
func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// WrapWithSuggestion wraps an existing error with a suggestion.
func WrapWithSuggestion(err error, suggestion string) error {
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
	}
}

// ErrTaskNotFound wraps a not-found error for the given id with a suggestion.
func ErrTaskNotFound(err error, id int64) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("%w: %d", err, id),
		Suggestion: "Use 'todolist list' to see task ids",
	}
}

// ErrEmptyText wraps an empty-input error with a suggestion.
func ErrEmptyText(err error) error {
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: "Task text must contain at least one non-space character",
	}
}

// ErrInvalidID returns an error for an id argument that is not a number.
func ErrInvalidID(arg string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("invalid task id: %q", arg),
		Suggestion: "Task ids are the numbers shown by 'todolist list'",
	}
}

// ErrInvalidChoice returns an error for an invalid enumerated value with valid options.
func ErrInvalidChoice(kind, value string, valid []string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("invalid %s: %s", kind, value),
		Suggestion: fmt.Sprintf("Valid options: %s", strings.Join(valid, ", ")),
	}
}

// ErrBackendNotAvailable returns an error when a storage backend cannot be opened.
func ErrBackendNotAvailable(name string, cause error) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("storage backend %s unavailable: %w", name, cause),
		Suggestion: "Check the 'backend' and 'data_dir' settings, or run with --backend file",
	}
}
