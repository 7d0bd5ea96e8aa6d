package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"todolist/backend"
	"todolist/internal/markdown"
	"todolist/internal/render"
	"todolist/internal/utils"
)

var exportFormats = []string{"json", "html", "pdf", "text", "markdown"}

// newThemeCmd creates the 'theme' subcommand
func newThemeCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "theme [light|dark|toggle]",
		Short: "Show or change the color theme",
		Long:  "Without an argument, print the current theme. With one, set it and save it.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			if len(args) == 0 {
				_, err := fmt.Fprintln(stdout, s.ctrl.Theme())
				return err
			}

			var theme backend.Theme
			if args[0] == "toggle" {
				theme = s.ctrl.ToggleTheme(s.ctx())
			} else {
				parsed, err := backend.ParseTheme(args[0])
				if err != nil {
					return utils.ErrInvalidChoice("theme", args[0], []string{"light", "dark", "toggle"})
				}
				if err := s.ctrl.SetTheme(s.ctx(), parsed); err != nil {
					return err
				}
				theme = parsed
			}
			if err := s.checkPersisted(); err != nil {
				return err
			}
			_, err = fmt.Fprintf(stdout, "Theme set to %s\n", theme)
			return err
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// newExportCmd creates the 'export' subcommand
func newExportCmd(stdout io.Writer, opts *Options) *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the task list in another format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			output, _ := cmd.Flags().GetString("output")
			title, _ := cmd.Flags().GetString("title")
			filterName, _ := cmd.Flags().GetString("filter")

			filter, err := backend.ParseFilter(filterName)
			if err != nil {
				return utils.ErrInvalidChoice("filter", filterName, filterNames())
			}
			if !validFormat(format) {
				return utils.ErrInvalidChoice("format", format, exportFormats)
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			page := render.Page{
				Title:  title,
				Date:   opts.Now(),
				Theme:  s.ctrl.Theme(),
				Filter: filter,
				Tasks:  collect(s, filter),
				Active: s.ctrl.CountActive(),
			}

			if output == "" || output == "-" {
				return writeExport(stdout, format, page)
			}
			return writeExportFile(output, format, page, stdout)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	exportCmd.Flags().String("format", "json", "Output format (json, html, pdf, text, markdown)")
	exportCmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
	exportCmd.Flags().String("title", "Tasks", "Heading for html, pdf and markdown output")
	exportCmd.Flags().StringP("filter", "f", "all", "Which tasks to export (all, active, completed)")

	return exportCmd
}

func validFormat(format string) bool {
	for _, f := range exportFormats {
		if f == format {
			return true
		}
	}
	return false
}

func writeExport(w io.Writer, format string, page render.Page) error {
	switch format {
	case "html":
		return render.HTML(w, page)
	case "pdf":
		return render.PDF(w, page)
	case "markdown":
		return markdown.Format(w, page.Title, page.Tasks)
	case "text":
		if err := render.Text(w, page.Tasks); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w, page.ItemsLeft())
		return err
	default:
		return render.JSON(w, page.Tasks)
	}
}

// writeExportFile renders to a temporary file next to path and renames it into place
func writeExportFile(path, format string, page render.Page, stdout io.Writer) error {
	path = filepath.Clean(path)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := writeExport(tmp, format, page); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to render %s: %w", format, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	_, _ = fmt.Fprintf(stdout, "Exported %d task(s) to %s\n", len(page.Tasks), path)
	return nil
}

// newImportCmd creates the 'import' subcommand
func newImportCmd(stdout io.Writer, opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.md|->",
		Short: "Append tasks from a markdown checklist",
		Long:  "Append every \"- [ ] text\" or \"- [x] text\" line of a markdown file as a task. Use - to read stdin.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = opts.Stdin
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open checklist: %w", err)
				}
				defer func() { _ = f.Close() }()
				r = f
			}

			items, err := markdown.Parse(r)
			if err != nil {
				return err
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			for _, item := range items {
				task, err := s.ctrl.Add(s.ctx(), item.Text)
				if err != nil {
					return err
				}
				if item.Completed {
					if _, err := s.ctrl.ToggleCompletion(s.ctx(), task.ID); err != nil {
						return err
					}
				}
			}
			if err := s.checkPersisted(); err != nil {
				return err
			}

			_, err = fmt.Fprintf(stdout, "Imported %d task(s)\n", len(items))
			return err
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}
