package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"footage/internal/archive"
	"footage/internal/manifest"
	"footage/internal/preflight"
	"footage/internal/project"
	"footage/internal/reconcile"
	"footage/internal/report"
	"footage/internal/services"
	"footage/internal/textutil"
)

const archivePrompt = "Are you sure you want to archive? (y/n): "

func newInitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "init <label>",
		Short: "Create a dated project with its layer folders and manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			l, err := ctx.mediaLayout()
			if err != nil {
				return err
			}
			res, err := project.Create(cfg.Paths.ProjectsDir, args[0], time.Now(), l, manifest.NewStore(logger))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if res.Existed {
				fmt.Fprintf(out, "Project %s already exists; missing folders were created\n", res.Project.DirName())
			} else {
				fmt.Fprintf(out, "Created project %s\n", res.Project.DirName())
			}
			if res.ManifestCreated {
				fmt.Fprintln(out, "Manifest created")
			}
			fmt.Fprintf(out, "Location: %s\n", res.Project.Path)
			return nil
		},
	}
}

func newUpdateCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "update <project>",
		Short: "Rename new files to the canonical scheme and refresh the manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			p, err := ctx.locate(args[0])
			if err != nil {
				return err
			}
			lock, err := project.AcquireLock(cfg.LockDir(), p.DirName())
			if err != nil {
				return err
			}
			defer lock.Release()

			engine, closeEngine, err := ctx.newEngine()
			if err != nil {
				return err
			}
			defer closeEngine()

			if !jsonOutput {
				warnMissingDeps(cmd.ErrOrStderr(), ctx)
			}
			result, err := engine.Run(cmd.Context(), p)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, result)
			}
			printUpdateResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the run result as JSON")
	return cmd
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var tableOutput bool

	cmd := &cobra.Command{
		Use:   "status <project>",
		Short: "Show the project dashboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ctx.locate(args[0])
			if err != nil {
				return err
			}
			m, err := loadManifest(ctx, p)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, m)
			}
			l, err := ctx.mediaLayout()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			dash := report.Build(m, l)
			if tableOutput {
				fmt.Fprintf(out, "%s [%s]\n", dash.Project, dash.State)
				fmt.Fprintln(out, dash.Table())
				return nil
			}
			fmt.Fprintln(out, dash.Render(colorEnabled(out)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the manifest as JSON")
	cmd.Flags().BoolVar(&tableOutput, "table", false, "Print per-layer totals as a table")
	return cmd
}

func newArchiveCommand(ctx *commandContext) *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "archive <project>",
		Short: "Lock a finished project to ARCHIVED and write its archive record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			l, err := ctx.mediaLayout()
			if err != nil {
				return err
			}
			p, err := ctx.locate(args[0])
			if err != nil {
				return err
			}
			lock, err := project.AcquireLock(cfg.LockDir(), p.DirName())
			if err != nil {
				return err
			}
			defer lock.Release()

			out := cmd.OutOrStdout()
			confirm := func() (bool, error) {
				fmt.Fprintln(out, "WARNING: No files found in 'export' folder.")
				if assumeYes {
					return true, nil
				}
				return promptYes(cmd.InOrStdin(), out, archivePrompt)
			}

			res, err := archive.New(manifest.NewStore(logger), l, logger).Finalize(p, confirm)
			if archive.Declined(err) {
				fmt.Fprintln(out, "Aborted.")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "Project locked to ARCHIVED.")
			fmt.Fprintf(out, "Generated: %s\n", filepath.Base(res.RecordPath))
			fmt.Fprintf(out, "Ready. You may now move '%s' to cold storage.\n", p.DirName())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Archive without asking when the export layer is empty")
	return cmd
}

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects under the projects root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			l, err := ctx.mediaLayout()
			if err != nil {
				return err
			}
			projects, err := project.List(cfg.Paths.ProjectsDir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(projects) == 0 {
				fmt.Fprintf(out, "No projects in %s\n", cfg.Paths.ProjectsDir)
				return nil
			}

			store := manifest.NewStore(logger)
			rows := make([]report.ProjectRow, 0, len(projects))
			for _, p := range projects {
				m, err := store.LoadExisting(p.Path, l)
				switch {
				case errors.Is(err, services.ErrNotFound):
					rows = append(rows, report.ProjectRow{Project: p.DirName(), Problem: "no manifest"})
				case err != nil:
					rows = append(rows, report.ProjectRow{Project: p.DirName(), Problem: "unreadable manifest"})
				default:
					rows = append(rows, report.NewProjectRow(m, l))
				}
			}
			fmt.Fprintln(out, report.ProjectsTable(rows, l))
			fmt.Fprintf(out, "%d %s\n", len(rows), textutil.Pluralize(len(rows), "project", "projects"))
			return nil
		},
	}
}

func loadManifest(ctx *commandContext, p project.Project) (*manifest.Manifest, error) {
	logger, err := ctx.ensureLogger()
	if err != nil {
		return nil, err
	}
	l, err := ctx.mediaLayout()
	if err != nil {
		return nil, err
	}
	return manifest.NewStore(logger).LoadExisting(p.Path, l)
}

// promptYes asks question on out and reads one answer line from in. Only
// "y" or "yes" accepts; end of input declines.
func promptYes(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprint(out, question)
	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	fmt.Fprintln(out)
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func warnMissingDeps(w io.Writer, ctx *commandContext) {
	cfg := ctx.configValue()
	for _, dep := range preflight.CheckSystemDeps(cfg) {
		if !dep.Available {
			fmt.Fprintf(w, "Warning: %s unavailable (%s); durations and resolutions will be missing\n", dep.Name, dep.Detail)
		}
	}
}

func printUpdateResult(out io.Writer, result reconcile.Result) {
	fmt.Fprintf(out, "Updating project: %s\n", result.Project)
	if result.ManifestRecovered {
		fmt.Fprintln(out, "Manifest was corrupt; rebuilt from disk")
	}
	for _, r := range result.Renames {
		fmt.Fprintf(out, "Renamed: %s -> %s\n", filepath.Base(r.From), filepath.Base(r.To))
	}
	for _, f := range result.Failures {
		fmt.Fprintf(out, "Error renaming %s: %s\n", filepath.Base(f.Path), f.Error)
	}
	for _, s := range result.Skipped {
		fmt.Fprintf(out, "Skipped unreadable path: %s\n", s)
	}
	if result.Regressed {
		fmt.Fprintf(out, "State moved back from %s to %s\n", result.PreviousState, result.State)
	}
	fmt.Fprintf(out, "Update complete. State: %s (%d %s)\n",
		result.State, result.FileCount(), textutil.Pluralize(result.FileCount(), "file", "files"))
}
