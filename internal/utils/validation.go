package utils

import (
	"strconv"
	"strings"
)

// NormalizeText trims surrounding whitespace from user-entered task text.
// The result is empty when the input held nothing but whitespace.
func NormalizeText(raw string) string {
	return strings.TrimSpace(raw)
}

// ParseTaskID parses a task id argument as shown by the list output.
// A leading '#' is accepted. Ids are non-negative, as in stored data.
func ParseTaskID(arg string) (int64, error) {
	s := strings.TrimPrefix(strings.TrimSpace(arg), "#")
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 0 {
		return 0, ErrInvalidID(arg)
	}
	return id, nil
}

// ItemsLeft formats the active-task counter shown beneath the list.
func ItemsLeft(n int) string {
	if n == 1 {
		return "1 item left"
	}
	return strconv.Itoa(n) + " items left"
}
