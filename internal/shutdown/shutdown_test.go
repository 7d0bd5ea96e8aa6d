package shutdown_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"todolist/internal/shutdown"
)

// =============================================================================
// Session Shutdown Tests
// =============================================================================

// TestCleanupOrder verifies cleanups run last registered first
func TestCleanupOrder(t *testing.T) {
	mgr := shutdown.NewManager(context.Background())

	var order []string
	for _, name := range []string{"backend", "log"} {
		mgr.RegisterCleanup(name, func(ctx context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	if err := mgr.Close(context.Background()); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if strings.Join(order, ",") != "log,backend" {
		t.Errorf("expected LIFO order, got %v", order)
	}
}

// TestCloseRunsOnce verifies repeated Close calls do not repeat cleanups
func TestCloseRunsOnce(t *testing.T) {
	mgr := shutdown.NewManager(context.Background())

	var calls atomic.Int32
	mgr.RegisterCleanup("count", func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})

	_ = mgr.Close(context.Background())
	_ = mgr.Close(context.Background())

	if calls.Load() != 1 {
		t.Errorf("expected 1 cleanup call, got %d", calls.Load())
	}
}

// TestCloseContinuesAfterFailure verifies every cleanup runs and errors are joined
func TestCloseContinuesAfterFailure(t *testing.T) {
	mgr := shutdown.NewManager(context.Background())
	errBoom := errors.New("boom")

	var ran atomic.Bool
	mgr.RegisterCleanup("first", func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})
	mgr.RegisterCleanup("second", func(ctx context.Context) error {
		return errBoom
	})

	err := mgr.Close(context.Background())
	if !errors.Is(err, errBoom) {
		t.Errorf("expected joined error to contain boom, got %v", err)
	}
	if !ran.Load() {
		t.Error("a failing cleanup must not stop the others")
	}
	if again := mgr.Close(context.Background()); !errors.Is(again, errBoom) {
		t.Errorf("second Close should report the same error, got %v", again)
	}
}

// TestCloseCancelsContext verifies the session context ends on Close
func TestCloseCancelsContext(t *testing.T) {
	mgr := shutdown.NewManager(context.Background())
	if mgr.IsShutdown() {
		t.Fatal("new manager should not be shut down")
	}

	_ = mgr.Close(context.Background())

	if !mgr.IsShutdown() {
		t.Error("Close should cancel the context")
	}
	select {
	case <-mgr.Context().Done():
	default:
		t.Error("context should be done")
	}
}

// TestCloseTimeout verifies cleanups are skipped once the deadline passes
func TestCloseTimeout(t *testing.T) {
	mgr := shutdown.NewManager(context.Background())

	var skipped atomic.Bool
	skipped.Store(true)
	mgr.RegisterCleanup("never", func(ctx context.Context) error {
		skipped.Store(false)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := mgr.Close(ctx)

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if !skipped.Load() {
		t.Error("cleanup should not run after the deadline")
	}
}

// TestRegisterAfterClose verifies late registrations still release their resource
func TestRegisterAfterClose(t *testing.T) {
	mgr := shutdown.NewManager(context.Background())
	_ = mgr.Close(context.Background())

	var called atomic.Bool
	mgr.RegisterCleanup("late", func(ctx context.Context) error {
		called.Store(true)
		return nil
	})
	if !called.Load() {
		t.Error("late cleanup should run immediately")
	}
}

// TestParentCancellation verifies the session context follows its parent
func TestParentCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	mgr := shutdown.NewManager(parent)
	cancel()

	select {
	case <-mgr.Context().Done():
	case <-time.After(time.Second):
		t.Fatal("manager context should follow parent cancellation")
	}
}
