package tui_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"

	"todolist/backend"
	"todolist/backend/sqlite"
	"todolist/internal/controller"
	"todolist/internal/store"
	"todolist/internal/tui"
)

// sendKeyAndWait sends a key message and waits briefly for processing.
func sendKeyAndWait(tm *teatest.TestModel, key tea.KeyMsg) {
	tm.Send(key)
	time.Sleep(20 * time.Millisecond)
}

// sendRunesAndWait sends a rune key message and waits briefly for processing.
func sendRunesAndWait(tm *teatest.TestModel, runes []rune) {
	sendKeyAndWait(tm, tea.KeyMsg{Type: tea.KeyRunes, Runes: runes})
}

// newSessionStore returns a store over an in-memory SQLite database
func newSessionStore(t *testing.T) *store.Store {
	t.Helper()
	kv, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("sqlite.New error: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })
	return store.New(kv)
}

func newTUITestModel(t *testing.T, st *store.Store, opts tui.Options) (*teatest.TestModel, *controller.Controller) {
	t.Helper()
	ctrl := controller.New(context.Background(), st)
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC) }
	}
	model := tui.New(ctrl, opts)
	tm := teatest.NewTestModel(t, model, teatest.WithInitialTermSize(80, 24))
	return tm, ctrl
}

func waitForOutput(t *testing.T, tm *teatest.TestModel, want string) {
	t.Helper()
	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte(want))
	}, teatest.WithDuration(2*time.Second), teatest.WithCheckInterval(10*time.Millisecond))
}

// =============================================================================
// Interactive Session Tests
// =============================================================================

// TestTUIRendersHeader verifies the date and empty state are shown on start
func TestTUIRendersHeader(t *testing.T) {
	tm, _ := newTUITestModel(t, newSessionStore(t), tui.Options{})

	waitForOutput(t, tm, "Monday, October 19, 2026")

	sendKeyAndWait(tm, tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(time.Second))
}

// TestTUIAddToggleSession drives a full add, toggle and filter session
func TestTUIAddToggleSession(t *testing.T) {
	st := newSessionStore(t)
	tm, ctrl := newTUITestModel(t, st, tui.Options{})

	sendRunesAndWait(tm, []rune("buy milk"))
	sendKeyAndWait(tm, tea.KeyMsg{Type: tea.KeyEnter})
	sendRunesAndWait(tm, []rune("walk dog"))
	sendKeyAndWait(tm, tea.KeyMsg{Type: tea.KeyEnter})
	waitForOutput(t, tm, "2 items left")

	sendKeyAndWait(tm, tea.KeyMsg{Type: tea.KeyTab})
	sendRunesAndWait(tm, []rune("x"))
	waitForOutput(t, tm, "1 item left")

	sendRunesAndWait(tm, []rune("2"))
	sendRunesAndWait(tm, []rune("q"))
	tm.WaitFinished(t, teatest.WithFinalTimeout(time.Second))

	final, ok := tm.FinalModel(t).(*tui.Model)
	if !ok {
		t.Fatal("final model has unexpected type")
	}
	if final.Filter() != backend.FilterActive {
		t.Errorf("expected active filter, got %v", final.Filter())
	}

	tasks := ctrl.Tasks()
	if len(tasks) != 2 || !tasks[0].Completed || tasks[1].Completed {
		t.Fatalf("unexpected tasks %+v", tasks)
	}

	// The session was persisted through the store.
	reloaded := st.Load(context.Background())
	if len(reloaded) != 2 || reloaded[0].Text != "buy milk" || !reloaded[0].Completed {
		t.Errorf("unexpected persisted tasks %+v", reloaded)
	}
}

// TestTUIDeleteAnimation verifies a delete plays out and removes the task
func TestTUIDeleteAnimation(t *testing.T) {
	st := newSessionStore(t)
	if err := st.Persist(context.Background(), backend.TaskList{{ID: 1, Text: "old chore"}}); err != nil {
		t.Fatalf("seed error: %v", err)
	}
	tm, ctrl := newTUITestModel(t, st, tui.Options{ExitAnimation: 30 * time.Millisecond})

	waitForOutput(t, tm, "old chore")
	sendKeyAndWait(tm, tea.KeyMsg{Type: tea.KeyTab})
	sendRunesAndWait(tm, []rune("d"))
	waitForOutput(t, tm, "No tasks")

	sendRunesAndWait(tm, []rune("q"))
	tm.WaitFinished(t, teatest.WithFinalTimeout(time.Second))

	if ctrl.Len() != 0 {
		t.Errorf("expected task removed, got %d", ctrl.Len())
	}
	if len(st.Load(context.Background())) != 0 {
		t.Error("removal should be persisted")
	}
}

// TestTUIThemePersists verifies the theme toggle reaches storage
func TestTUIThemePersists(t *testing.T) {
	st := newSessionStore(t)
	tm, _ := newTUITestModel(t, st, tui.Options{})

	sendKeyAndWait(tm, tea.KeyMsg{Type: tea.KeyTab})
	sendRunesAndWait(tm, []rune("t"))
	sendRunesAndWait(tm, []rune("q"))
	tm.WaitFinished(t, teatest.WithFinalTimeout(time.Second))

	if got := st.LoadTheme(context.Background()); got != backend.ThemeLight {
		t.Errorf("expected light theme persisted, got %q", got)
	}
}
