package backend

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Constructor opens a KeyValue backend rooted at path.
// The meaning of path is backend specific (a directory, a database file).
type Constructor func(path string) (KeyValue, error)

// registration holds a constructor with its priority
type registration struct {
	constructor Constructor
	priority    int
}

// Global registry of storage backends
var (
	registryMu    sync.RWMutex
	registrations = make(map[string]registration)
)

// Register registers a backend constructor under name.
// Backends should call this in their init() function.
func Register(name string, constructor Constructor) {
	RegisterWithPriority(name, constructor, 100) // Default priority
}

// RegisterWithPriority registers a backend constructor with a priority.
// Lower priority numbers are listed first (file=10, sqlite=20).
func RegisterWithPriority(name string, constructor Constructor, priority int) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registrations[name] = registration{
		constructor: constructor,
		priority:    priority,
	}
}

// Names returns the registered backend names ordered by priority, then name.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registrations))
	for name := range registrations {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		pi, pj := registrations[names[i]].priority, registrations[names[j]].priority
		if pi != pj {
			return pi < pj
		}
		return names[i] < names[j]
	})
	return names
}

// Open constructs the backend registered under name.
func Open(name string, path string) (KeyValue, error) {
	registryMu.RLock()
	reg, ok := registrations[strings.ToLower(name)]
	registryMu.RUnlock()

	if !ok {
		return nil, &UnknownBackendError{Name: name, Available: Names()}
	}

	kv, err := reg.constructor(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s backend: %w", name, err)
	}
	return kv, nil
}

// UnknownBackendError is returned by Open for a name nobody registered.
type UnknownBackendError struct {
	Name      string
	Available []string
}

func (e *UnknownBackendError) Error() string {
	return fmt.Sprintf("unknown backend: %q (available: %s)", e.Name, strings.Join(e.Available, ", "))
}
