package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"footage/internal/deps"
	"footage/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check directories, the probe cache, and external tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			out := cmd.OutOrStdout()
			colorize := colorEnabled(out)

			dirs := directoryRows(preflight.RunAll(cmd.Context(), cfg))
			statuses := preflight.CheckSystemDeps(cfg)
			tools := dependencyRows(statuses)
			fmt.Fprintln(out, renderChecks("Directories", dirs, colorize))
			fmt.Fprintln(out, renderChecks("Dependencies", tools, colorize))

			var missing []string
			for _, row := range tools {
				if row.verdict != verdictOK {
					missing = append(missing, row.name)
				}
			}
			if len(missing) > 0 {
				fmt.Fprintf(out, "Missing dependencies: %s (metadata falls back to file modification times)\n", strings.Join(missing, ", "))
			}

			if failed := failedRows(dirs) + len(deps.Missing(statuses)); failed > 0 {
				return fmt.Errorf("%d check(s) failed", failed)
			}
			return nil
		},
	}
}
