// Package testutil provides shared test utilities for CLI testing across packages.
// This enables co-located CLI tests while maintaining consistent test infrastructure.
package testutil

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"todolist/backend"
	"todolist/cmd/todolist/cmd"
)

// FixedNow is the clock every CLITest hands to the CLI.
var FixedNow = time.Date(2026, time.October, 19, 10, 0, 0, 0, time.UTC)

// CLITest provides a test helper for running CLI commands in isolation.
type CLITest struct {
	t          *testing.T
	tmpDir     string
	configPath string
	dataDir    string
	backend    string
	stdin      string
}

// NewCLITest creates a CLI test helper with its own config file, data
// directory and XDG directories, using the default file backend.
func NewCLITest(t *testing.T) *CLITest {
	t.Helper()

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg-config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmpDir, "xdg-data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(tmpDir, "xdg-cache"))

	return &CLITest{
		t:          t,
		tmpDir:     tmpDir,
		configPath: filepath.Join(tmpDir, "config.yaml"),
		dataDir:    filepath.Join(tmpDir, "data"),
	}
}

// NewCLITestWithBackend creates a CLI test helper that passes --backend name.
func NewCLITestWithBackend(t *testing.T, name string) *CLITest {
	t.Helper()
	c := NewCLITest(t)
	c.backend = name
	return c
}

// TmpDir returns the temporary directory for the test.
func (c *CLITest) TmpDir() string {
	return c.tmpDir
}

// DataDir returns the data directory passed with --data.
func (c *CLITest) DataDir() string {
	return c.dataDir
}

// ConfigPath returns the path to the config file.
func (c *CLITest) ConfigPath() string {
	return c.configPath
}

// SetBackend changes the backend passed with --backend. Empty uses the config.
func (c *CLITest) SetBackend(name string) {
	c.backend = name
}

// SetStdin sets what the next commands read from standard input.
func (c *CLITest) SetStdin(input string) {
	c.stdin = input
}

// SetFullConfig replaces the entire config file with the given YAML content.
func (c *CLITest) SetFullConfig(yamlContent string) {
	c.t.Helper()
	if err := os.WriteFile(c.configPath, []byte(yamlContent), 0644); err != nil {
		c.t.Fatalf("failed to write config file: %v", err)
	}
}

// Execute runs a CLI command with the given arguments and returns stdout, stderr, and exit code.
func (c *CLITest) Execute(args ...string) (stdout, stderr string, exitCode int) {
	c.t.Helper()

	full := append([]string{}, args...)
	full = append(full, "--config", c.configPath, "--data", c.dataDir)
	if c.backend != "" {
		full = append(full, "--backend", c.backend)
	}

	opts := &cmd.Options{
		Stdin: strings.NewReader(c.stdin),
		Now:   func() time.Time { return FixedNow },
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	exitCode = cmd.Execute(full, &stdoutBuf, &stderrBuf, opts)
	return stdoutBuf.String(), stderrBuf.String(), exitCode
}

// MustExecute runs a CLI command and fails the test if exit code is non-zero.
func (c *CLITest) MustExecute(args ...string) string {
	c.t.Helper()

	stdout, stderr, exitCode := c.Execute(args...)
	if exitCode != 0 {
		c.t.Fatalf("%v: expected exit code 0, got %d: stdout=%s stderr=%s", args, exitCode, stdout, stderr)
	}
	return stdout
}

// ExecuteAndFail runs a CLI command and fails the test if exit code is zero.
func (c *CLITest) ExecuteAndFail(args ...string) (stdout, stderr string) {
	c.t.Helper()

	stdout, stderr, exitCode := c.Execute(args...)
	if exitCode == 0 {
		c.t.Fatalf("%v: expected non-zero exit code, got 0: stdout=%s", args, stdout)
	}
	return stdout, stderr
}

// Tasks returns the stored list as reported by 'list --json'.
func (c *CLITest) Tasks() backend.TaskList {
	c.t.Helper()

	out := c.MustExecute("list", "--json")
	var tasks backend.TaskList
	if err := json.Unmarshal([]byte(out), &tasks); err != nil {
		c.t.Fatalf("list --json output is not JSON: %v\n%s", err, out)
	}
	return tasks
}

// AddTasks adds each text as a task and returns the ids in order.
func (c *CLITest) AddTasks(texts ...string) []int64 {
	c.t.Helper()

	before := len(c.Tasks())
	for _, text := range texts {
		c.MustExecute("add", text)
	}
	tasks := c.Tasks()
	ids := make([]int64, 0, len(texts))
	for _, t := range tasks[before:] {
		ids = append(ids, t.ID)
	}
	return ids
}

// ID formats a task id as a command argument.
func ID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// AssertContains fails the test if output doesn't contain expected string.
func AssertContains(t *testing.T, output, expected string) {
	t.Helper()
	if !strings.Contains(output, expected) {
		t.Errorf("expected output to contain %q, got:\n%s", expected, output)
	}
}

// AssertNotContains fails the test if output contains unexpected string.
func AssertNotContains(t *testing.T, output, unexpected string) {
	t.Helper()
	if strings.Contains(output, unexpected) {
		t.Errorf("expected output NOT to contain %q, got:\n%s", unexpected, output)
	}
}

// AssertExitCode fails the test if exit code doesn't match expected.
func AssertExitCode(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("expected exit code %d, got %d", want, got)
	}
}
