package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"todolist/backend"
	"todolist/internal/render"
	"todolist/internal/utils"
)

// newAddCmd creates the 'add' subcommand
func newAddCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a task",
		Long:  "Add a new active task. All arguments are joined with spaces; surrounding whitespace is trimmed.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			task, err := s.ctrl.Add(s.ctx(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if err := s.checkPersisted(); err != nil {
				return err
			}
			printTaskLine(stdout, "Added", task)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// newListCmd creates the 'list' subcommand
func newListCmd(stdout io.Writer) *cobra.Command {
	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show tasks",
		Long:    "Show tasks in insertion order, optionally filtered, followed by the number of active tasks.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filterName, _ := cmd.Flags().GetString("filter")
			filter, err := backend.ParseFilter(filterName)
			if err != nil {
				return utils.ErrInvalidChoice("filter", filterName, filterNames())
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			jsonOutput, _ := cmd.Flags().GetBool("json")
			return doList(s, filter, jsonOutput, stdout)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	listCmd.Flags().StringP("filter", "f", "all", "Which tasks to show (all, active, completed)")
	listCmd.Flags().Bool("json", false, "Output in JSON format")

	return listCmd
}

// doList prints the filtered tasks and the items-left counter
func doList(s *session, filter backend.Filter, jsonOutput bool, stdout io.Writer) error {
	tasks := collect(s, filter)
	if jsonOutput {
		return render.JSON(stdout, tasks)
	}
	if err := render.Text(stdout, tasks); err != nil {
		return err
	}
	_, err := fmt.Fprintln(stdout, s.ctrl.ItemsLeftLabel())
	return err
}

// newToggleCmd creates the 'toggle' subcommand
func newToggleCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:     "toggle <id>",
		Aliases: []string{"done"},
		Short:   "Mark a task completed or active again",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := utils.ParseTaskID(args[0])
			if err != nil {
				return err
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			task, err := s.ctrl.ToggleCompletion(s.ctx(), id)
			if err != nil {
				return err
			}
			if err := s.checkPersisted(); err != nil {
				return err
			}
			verb := "Reopened"
			if task.Completed {
				verb = "Completed"
			}
			printTaskLine(stdout, verb, task)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// newEditCmd creates the 'edit' subcommand
func newEditCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <text...>",
		Short: "Replace the text of a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := utils.ParseTaskID(args[0])
			if err != nil {
				return err
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			task, err := s.ctrl.Edit(s.ctx(), id, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			if err := s.checkPersisted(); err != nil {
				return err
			}
			printTaskLine(stdout, "Updated", task)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// newRemoveCmd creates the 'rm' subcommand
func newRemoveCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := utils.ParseTaskID(args[0])
			if err != nil {
				return err
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			task, ok := s.ctrl.Get(id)
			if err := s.ctrl.Remove(s.ctx(), id); err != nil {
				return err
			}
			if err := s.checkPersisted(); err != nil {
				return err
			}
			if ok {
				printTaskLine(stdout, "Deleted", task)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// newClearCompletedCmd creates the 'clear-completed' subcommand
func newClearCompletedCmd(stdout io.Writer, opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Delete every completed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			completed := s.ctrl.Len() - s.ctrl.CountActive()
			if completed == 0 {
				_, _ = fmt.Fprintln(stdout, "No completed tasks")
				return nil
			}

			if !promptsDisabled(cmd, opts.Stdin) {
				prompt := fmt.Sprintf("Delete %d completed task(s)?", completed)
				if !utils.PromptYesNoWithReader(prompt, opts.Stdin, stdout) {
					_, _ = fmt.Fprintln(stdout, "Cancelled")
					return nil
				}
			}

			n := s.ctrl.ClearCompleted(s.ctx())
			if err := s.checkPersisted(); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(stdout, "Deleted %d completed task(s)\n", n)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// collect gathers the tasks matching filter in stored order
func collect(s *session, filter backend.Filter) backend.TaskList {
	tasks := backend.TaskList{}
	for t := range s.ctrl.Filtered(filter) {
		tasks = append(tasks, t)
	}
	return tasks
}

func filterNames() []string {
	names := make([]string, 0, len(backend.Filters))
	for _, f := range backend.Filters {
		names = append(names, f.String())
	}
	return names
}
