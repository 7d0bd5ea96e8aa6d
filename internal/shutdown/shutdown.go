// Package shutdown coordinates the end of a session: it cancels the session
// context on request or on a termination signal, then releases registered
// resources (storage handles, the log file) exactly once.
package shutdown

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"

	"todolist/internal/utils"
)

// CleanupFunc releases one resource. The context bounds how long it may take.
type CleanupFunc func(ctx context.Context) error

type cleanupEntry struct {
	name string
	fn   CleanupFunc
}

// Manager handles session shutdown.
type Manager struct {
	mu       sync.Mutex
	cleanups []cleanupEntry
	closed   bool
	err      error

	ctx    context.Context
	cancel context.CancelFunc
}

// NewManager creates a manager whose context derives from parent.
func NewManager(parent context.Context) *Manager {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Manager{ctx: ctx, cancel: cancel}
}

// RegisterCleanup adds a cleanup. Cleanups run in reverse registration order.
// Registering after Close runs fn immediately.
func (m *Manager) RegisterCleanup(name string, fn CleanupFunc) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		if err := fn(context.Background()); err != nil {
			utils.GetLogger().Warn("late cleanup failed", "name", name, "err", err)
		}
		return
	}
	m.cleanups = append(m.cleanups, cleanupEntry{name: name, fn: fn})
	m.mu.Unlock()
}

// Shutdown cancels the session context. Safe to call more than once.
func (m *Manager) Shutdown() {
	m.cancel()
}

// IsShutdown reports whether the session context has been cancelled.
func (m *Manager) IsShutdown() bool {
	return m.ctx.Err() != nil
}

// Context is cancelled when Shutdown is called or a watched signal arrives.
func (m *Manager) Context() context.Context {
	return m.ctx
}

// NotifyOnSignal calls Shutdown when one of sigs is received.
// The returned function stops watching.
func (m *Manager) NotifyOnSignal(sigs ...os.Signal) (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)
	done := make(chan struct{})

	go func() {
		select {
		case sig := <-ch:
			utils.GetLogger().Info("received signal, shutting down", "signal", sig.String())
			m.Shutdown()
		case <-done:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(ch)
			close(done)
		})
	}
}

// Close cancels the context and runs every cleanup once, even if some fail.
// Later calls return the first call's result.
func (m *Manager) Close(ctx context.Context) error {
	m.Shutdown()

	m.mu.Lock()
	if m.closed {
		err := m.err
		m.mu.Unlock()
		return err
	}
	m.closed = true
	cleanups := m.cleanups
	m.cleanups = nil
	m.mu.Unlock()

	var errs []error
	for i := len(cleanups) - 1; i >= 0; i-- {
		if ctx.Err() != nil {
			errs = append(errs, fmt.Errorf("cleanup %s skipped: %w", cleanups[i].name, ctx.Err()))
			continue
		}
		if err := cleanups[i].fn(ctx); err != nil {
			utils.GetLogger().Warn("cleanup failed", "name", cleanups[i].name, "err", err)
			errs = append(errs, fmt.Errorf("cleanup %s: %w", cleanups[i].name, err))
		}
	}

	err := errors.Join(errs...)
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
	return err
}
