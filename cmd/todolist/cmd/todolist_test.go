package cmd_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"todolist/backend"
	"todolist/cmd/todolist/cmd"
	"todolist/internal/testutil"
)

// =============================================================================
// Core CLI Tests
// These tests verify the command tree and the task commands.
// Backend-specific CLI tests are co-located with their backend:
// - File layout: backend/file/cli_test.go
// - SQLite: backend/sqlite/cli_test.go
// - Markdown import/export: internal/markdown/cli_test.go
// =============================================================================

// --- Help and Version Tests ---

// TestHelpFlag verifies that --help displays usage information
func TestHelpFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer

	exitCode := cmd.Execute([]string{"--help"}, &stdout, &stderr, nil)

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, stderr.String())
	}

	output := stdout.String()
	for _, want := range []string{"todolist", "Usage:", "add", "clear-completed", "export", "import"} {
		testutil.AssertContains(t, output, want)
	}
}

// TestVersionFlag verifies that --version displays version string
func TestVersionFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer

	exitCode := cmd.Execute([]string{"--version"}, &stdout, &stderr, nil)

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, stderr.String())
	}
	testutil.AssertContains(t, stdout.String(), cmd.Version)
}

// TestUnknownCommand verifies unknown subcommands fail
func TestUnknownCommand(t *testing.T) {
	c := testutil.NewCLITest(t)
	_, stderr := c.ExecuteAndFail("frobnicate")
	testutil.AssertContains(t, stderr, "Error:")
}

// --- Task Command Tests ---

// TestRootWithoutTerminalPrintsList verifies the non-interactive fallback
func TestRootWithoutTerminalPrintsList(t *testing.T) {
	c := testutil.NewCLITest(t)

	out := c.MustExecute()
	testutil.AssertContains(t, out, "No tasks")
	testutil.AssertContains(t, out, "0 items left")

	if _, err := os.Stat(c.ConfigPath()); err != nil {
		t.Errorf("config should be created on first run: %v", err)
	}
}

// TestAddAndList verifies tasks are added trimmed, in order, and counted
func TestAddAndList(t *testing.T) {
	c := testutil.NewCLITest(t)

	out := c.MustExecute("add", "buy", "milk")
	if !strings.HasPrefix(out, "Added task ") {
		t.Errorf("unexpected add output: %s", out)
	}
	testutil.AssertContains(t, out, "buy milk")
	c.MustExecute("add", "  walk dog  ")

	list := c.MustExecute("list")
	first := strings.Index(list, "buy milk")
	second := strings.Index(list, "walk dog")
	if first < 0 || second < 0 || first > second {
		t.Errorf("tasks should be listed in insertion order:\n%s", list)
	}
	testutil.AssertContains(t, list, "2 items left")

	tasks := c.Tasks()
	if len(tasks) != 2 || tasks[1].Text != "walk dog" {
		t.Fatalf("unexpected tasks %+v", tasks)
	}
	if tasks[0].ID == tasks[1].ID {
		t.Error("ids must be unique")
	}
}

// TestAddEmptyText verifies whitespace-only text is rejected without mutation
func TestAddEmptyText(t *testing.T) {
	c := testutil.NewCLITest(t)

	_, stderr, code := c.Execute("add", "   ")
	testutil.AssertExitCode(t, code, 1)
	testutil.AssertContains(t, stderr, "Error:")
	testutil.AssertContains(t, stderr, "empty")
	testutil.AssertContains(t, stderr, "Suggestion:")

	if len(c.Tasks()) != 0 {
		t.Error("nothing should be added")
	}
}

// TestToggleAndFilter verifies toggling and the list filters
func TestToggleAndFilter(t *testing.T) {
	c := testutil.NewCLITest(t)
	ids := c.AddTasks("buy milk", "walk dog")

	out := c.MustExecute("toggle", testutil.ID(ids[0]))
	if !strings.HasPrefix(out, "Completed task") {
		t.Errorf("unexpected toggle output: %s", out)
	}

	active := c.MustExecute("list", "--filter", "active")
	testutil.AssertNotContains(t, active, "buy milk")
	testutil.AssertContains(t, active, "walk dog")
	testutil.AssertContains(t, active, "1 item left")

	done := c.MustExecute("list", "-f", "completed")
	testutil.AssertContains(t, done, "[x]")
	testutil.AssertNotContains(t, done, "walk dog")

	out = c.MustExecute("toggle", "#"+testutil.ID(ids[0]))
	if !strings.HasPrefix(out, "Reopened task") {
		t.Errorf("second toggle should reopen, got: %s", out)
	}

	_, stderr := c.ExecuteAndFail("list", "--filter", "someday")
	testutil.AssertContains(t, stderr, "invalid filter")
}

// TestToggleErrors verifies invalid and unknown ids
func TestToggleErrors(t *testing.T) {
	c := testutil.NewCLITest(t)

	_, stderr := c.ExecuteAndFail("toggle", "abc")
	testutil.AssertContains(t, stderr, "invalid task id")

	_, stderr = c.ExecuteAndFail("toggle", "42")
	testutil.AssertContains(t, stderr, "task not found")
}

// TestStoredZeroIDIsAddressable verifies a persisted task with id 0 can be toggled and removed
func TestStoredZeroIDIsAddressable(t *testing.T) {
	c := testutil.NewCLITest(t)
	if err := os.MkdirAll(c.DataDir(), 0755); err != nil {
		t.Fatal(err)
	}
	data := `[{"id":0,"text":"legacy","completed":false}]`
	if err := os.WriteFile(filepath.Join(c.DataDir(), backend.KeyTodos), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	out := c.MustExecute("toggle", "0")
	testutil.AssertContains(t, out, "Completed task 0: legacy")

	c.MustExecute("rm", "#0")
	if tasks := c.Tasks(); len(tasks) != 0 {
		t.Errorf("expected task 0 to be removed, got %+v", tasks)
	}
}

// TestEdit verifies text replacement and the empty-text guard
func TestEdit(t *testing.T) {
	c := testutil.NewCLITest(t)
	ids := c.AddTasks("buy milk")

	out := c.MustExecute("edit", testutil.ID(ids[0]), "buy", "oat", "milk")
	testutil.AssertContains(t, out, "Updated task")
	testutil.AssertContains(t, out, "buy oat milk")

	_, stderr := c.ExecuteAndFail("edit", testutil.ID(ids[0]), "  ")
	testutil.AssertContains(t, stderr, "empty")
	if got := c.Tasks()[0].Text; got != "buy oat milk" {
		t.Errorf("failed edit must not change the text, got %q", got)
	}

	_, stderr = c.ExecuteAndFail("edit", "99", "x")
	testutil.AssertContains(t, stderr, "task not found")
}

// TestRemove verifies deletion and the not-found error
func TestRemove(t *testing.T) {
	c := testutil.NewCLITest(t)
	ids := c.AddTasks("buy milk", "walk dog")

	out := c.MustExecute("rm", testutil.ID(ids[0]))
	testutil.AssertContains(t, out, "Deleted task")

	tasks := c.Tasks()
	if len(tasks) != 1 || tasks[0].Text != "walk dog" {
		t.Errorf("unexpected tasks after rm %+v", tasks)
	}

	_, stderr := c.ExecuteAndFail("rm", testutil.ID(ids[0]))
	testutil.AssertContains(t, stderr, "task not found")
}

// TestClearCompleted verifies the prompt and --no-prompt paths
func TestClearCompleted(t *testing.T) {
	c := testutil.NewCLITest(t)
	ids := c.AddTasks("buy milk", "walk dog", "call mom")
	c.MustExecute("toggle", testutil.ID(ids[0]))
	c.MustExecute("toggle", testutil.ID(ids[2]))

	c.SetStdin("n\n")
	out := c.MustExecute("clear-completed")
	testutil.AssertContains(t, out, "Delete 2 completed task(s)?")
	testutil.AssertContains(t, out, "Cancelled")
	if len(c.Tasks()) != 3 {
		t.Error("declining must not delete")
	}

	c.SetStdin("yes\n")
	out = c.MustExecute("clear-completed")
	testutil.AssertContains(t, out, "Deleted 2 completed task(s)")

	remaining := c.Tasks()
	if len(remaining) != 1 || remaining[0].Text != "walk dog" {
		t.Errorf("unexpected remaining tasks %+v", remaining)
	}

	c.SetStdin("")
	c.MustExecute("toggle", testutil.ID(ids[1]))
	out = c.MustExecute("clear-completed", "-y")
	testutil.AssertNotContains(t, out, "(y/n)")
	testutil.AssertContains(t, out, "Deleted 1 completed task(s)")

	out = c.MustExecute("clear-completed")
	testutil.AssertContains(t, out, "No completed tasks")
}

// TestTheme verifies reading, setting and toggling the theme
func TestTheme(t *testing.T) {
	c := testutil.NewCLITest(t)

	if out := c.MustExecute("theme"); strings.TrimSpace(out) != "dark" {
		t.Errorf("default theme should be dark, got %q", out)
	}
	c.MustExecute("theme", "light")
	if out := c.MustExecute("theme"); strings.TrimSpace(out) != "light" {
		t.Errorf("expected light, got %q", out)
	}
	testutil.AssertContains(t, c.MustExecute("theme", "toggle"), "dark")

	_, stderr := c.ExecuteAndFail("theme", "blue")
	testutil.AssertContains(t, stderr, "invalid theme")
}

// --- Export Tests ---

// TestExportFormats verifies the json, text, html and pdf exports
func TestExportFormats(t *testing.T) {
	c := testutil.NewCLITest(t)
	c.AddTasks("<b>bold</b> plan", "walk dog")
	c.MustExecute("theme", "light")
	outDir := t.TempDir()

	jsonOut := c.MustExecute("export", "--format", "json")
	var exported backend.TaskList
	if err := json.Unmarshal([]byte(jsonOut), &exported); err != nil || len(exported) != 2 {
		t.Errorf("json export invalid: %v\n%s", err, jsonOut)
	}

	textOut := c.MustExecute("export", "--format", "text", "--filter", "active")
	testutil.AssertContains(t, textOut, "walk dog")
	testutil.AssertContains(t, textOut, "2 items left")

	htmlPath := filepath.Join(outDir, "tasks.html")
	out := c.MustExecute("export", "--format", "html", "-o", htmlPath, "--title", "Home")
	testutil.AssertContains(t, out, "Exported 2 task(s)")

	page, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatalf("html export not written: %v", err)
	}
	for _, want := range []string{"<title>Home</title>", "todo-item", "&lt;b&gt;bold", "light-mode", "Monday, October 19, 2026"} {
		testutil.AssertContains(t, string(page), want)
	}

	pdfPath := filepath.Join(outDir, "nested", "tasks.pdf")
	c.MustExecute("export", "--format", "pdf", "-o", pdfPath)
	pdf, err := os.ReadFile(pdfPath)
	if err != nil {
		t.Fatalf("pdf export not written: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Error("pdf export does not look like a PDF")
	}

	entries, _ := os.ReadDir(filepath.Dir(pdfPath))
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}

	_, stderr := c.ExecuteAndFail("export", "--format", "docx")
	testutil.AssertContains(t, stderr, "invalid format")
}

// --- Configuration Tests ---

// TestUnknownBackend verifies a helpful error for unsupported backends
func TestUnknownBackend(t *testing.T) {
	c := testutil.NewCLITestWithBackend(t, "mysql")

	_, stderr := c.ExecuteAndFail("list")
	testutil.AssertContains(t, stderr, "unknown backend")
	testutil.AssertContains(t, stderr, "Suggestion:")
}

// TestInvalidConfigFile verifies config parse errors are reported
func TestInvalidConfigFile(t *testing.T) {
	c := testutil.NewCLITest(t)
	c.SetFullConfig("backend: [unclosed")

	_, stderr := c.ExecuteAndFail("list")
	testutil.AssertContains(t, stderr, "invalid YAML")
}

// TestCorruptDataFailsSoft verifies unreadable stored data yields an empty list
func TestCorruptDataFailsSoft(t *testing.T) {
	c := testutil.NewCLITest(t)
	if err := os.MkdirAll(c.DataDir(), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(c.DataDir(), backend.KeyTodos), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	testutil.AssertContains(t, c.MustExecute("list"), "No tasks")

	c.MustExecute("add", "fresh start")
	if tasks := c.Tasks(); len(tasks) != 1 {
		t.Errorf("expected the corrupt list to be replaced, got %+v", tasks)
	}
}
