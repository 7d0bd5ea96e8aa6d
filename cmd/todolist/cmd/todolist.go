package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"todolist/backend"
	_ "todolist/backend/file"
	_ "todolist/backend/sqlite"
	"todolist/internal/config"
	"todolist/internal/controller"
	"todolist/internal/render"
	"todolist/internal/shutdown"
	"todolist/internal/store"
	"todolist/internal/tui"
	"todolist/internal/utils"
)

// Version is set at build time
var Version = "dev"

const closeTimeout = 5 * time.Second

// Options holds settings injected by main or by tests
type Options struct {
	Stdin io.Reader
	// Now is the clock used for the header date and export timestamps.
	Now func() time.Time
}

// Execute runs the CLI with the given arguments and IO writers
func Execute(args []string, stdout, stderr io.Writer, opts *Options) int {
	rootCmd := NewTodoList(stdout, stderr, opts)

	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

// NewTodoList creates the root command with injectable IO
func NewTodoList(stdout, stderr io.Writer, opts *Options) *cobra.Command {
	if opts == nil {
		opts = &Options{}
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	cmd := &cobra.Command{
		Use:     "todolist",
		Short:   "A personal task list",
		Long:    "todolist keeps a single list of tasks on this machine. Run it without arguments in a terminal for the interactive editor.",
		Version: Version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			if isTerminal(stdout) && isTerminal(opts.Stdin) {
				return runTUI(s, opts, stdout)
			}
			return doList(s, backend.FilterAll, false, stdout)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add global flags
	cmd.PersistentFlags().String("config", "", "Config file (default $XDG_CONFIG_HOME/todolist/config.yaml)")
	cmd.PersistentFlags().String("backend", "", fmt.Sprintf("Storage backend (%s)", strings.Join(config.ValidBackends, "|")))
	cmd.PersistentFlags().String("data", "", "Data directory")
	cmd.PersistentFlags().BoolP("verbose", "V", false, "Enable verbose/debug output")
	cmd.PersistentFlags().BoolP("no-prompt", "y", false, "Disable interactive prompts")

	cmd.AddCommand(newAddCmd(stdout))
	cmd.AddCommand(newListCmd(stdout))
	cmd.AddCommand(newToggleCmd(stdout))
	cmd.AddCommand(newEditCmd(stdout))
	cmd.AddCommand(newRemoveCmd(stdout))
	cmd.AddCommand(newClearCompletedCmd(stdout, opts))
	cmd.AddCommand(newThemeCmd(stdout))
	cmd.AddCommand(newExportCmd(stdout, opts))
	cmd.AddCommand(newImportCmd(stdout, opts))

	return cmd
}

// session is one opened backend with its controller
type session struct {
	cfg      *config.Config
	ctrl     *controller.Controller
	shutdown *shutdown.Manager
}

// openSession loads the configuration, applies flag overrides and opens the
// selected storage backend.
func openSession(cmd *cobra.Command) (*session, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, utils.WrapWithSuggestion(err, "Fix the config file or pass --config with another path")
	}

	backendName, _ := cmd.Flags().GetString("backend")
	dataDir, _ := cmd.Flags().GetString("data")
	verbose, _ := cmd.Flags().GetBool("verbose")
	cfg.ApplyFlags(backendName, dataDir, verbose)

	if err := cfg.Validate(); err != nil {
		return nil, utils.WrapWithSuggestion(err,
			fmt.Sprintf("Valid backends: %s; durations look like 300ms", strings.Join(config.ValidBackends, ", ")))
	}
	utils.SetVerboseMode(cfg.Logging.Verbose)

	kv, err := backend.Open(cfg.Backend, cfg.StoragePath())
	if err != nil {
		return nil, utils.ErrBackendNotAvailable(cfg.Backend, err)
	}
	utils.Debugf("opened %s backend at %s", cfg.Backend, cfg.StoragePath())

	mgr := shutdown.NewManager(cmd.Context())
	mgr.RegisterCleanup("backend", func(context.Context) error {
		return kv.Close()
	})
	stop := mgr.NotifyOnSignal(os.Interrupt, syscall.SIGTERM)
	mgr.RegisterCleanup("signals", func(context.Context) error {
		stop()
		return nil
	})

	return &session{
		cfg:      cfg,
		ctrl:     controller.New(mgr.Context(), store.New(kv)),
		shutdown: mgr,
	}, nil
}

// Close releases the backend
func (s *session) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	return s.shutdown.Close(ctx)
}

func (s *session) ctx() context.Context {
	return s.shutdown.Context()
}

// checkPersisted turns a logged persist failure into a command error
func (s *session) checkPersisted() error {
	if err := s.ctrl.PersistErr(); err != nil {
		return utils.WrapWithSuggestion(
			fmt.Errorf("could not save tasks: %w", err),
			"Check that the data directory is writable",
		)
	}
	return nil
}

// runTUI runs the interactive editor until the user quits or a signal arrives
func runTUI(s *session, opts *Options, stdout io.Writer) error {
	logger := utils.GetLogger()
	if err := logger.LogToFile(s.cfg.GetLogFile()); err != nil {
		// Keep going without a log file; discard so nothing draws over the UI.
		logger.SetOutput(io.Discard)
	}
	s.shutdown.RegisterCleanup("log", func(context.Context) error {
		logger.Close()
		logger.SetOutput(os.Stderr)
		return nil
	})

	model := tui.New(s.ctrl, tui.Options{
		ExitAnimation: s.cfg.GetExitAnimation(),
		ShakeDuration: s.cfg.GetShakeDuration(),
		DateFormat:    s.cfg.GetDateFormat(),
		Now:           opts.Now,
	})

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithContext(s.ctx()),
		tea.WithInput(opts.Stdin),
		tea.WithOutput(stdout),
	)
	_, err := p.Run()
	if s.shutdown.IsShutdown() {
		utils.Debugf("interactive session stopped by signal")
		return nil
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("interactive session failed: %w", err)
	}
	return nil
}

// isTerminal reports whether v is a file attached to a terminal
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// promptsDisabled reports whether --no-prompt was given or stdin is not interactive
func promptsDisabled(cmd *cobra.Command, stdin io.Reader) bool {
	noPrompt, _ := cmd.Flags().GetBool("no-prompt")
	if noPrompt {
		return true
	}
	_, isFile := stdin.(*os.File)
	return isFile && !isTerminal(stdin)
}

// printTaskLine writes "<verb> task <id>: <text>"
func printTaskLine(w io.Writer, verb string, t backend.Task) {
	_, _ = fmt.Fprintf(w, "%s task %d: %s\n", verb, t.ID, render.Sanitize(t.Text))
}
