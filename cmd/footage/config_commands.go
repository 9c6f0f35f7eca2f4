package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"footage/internal/config"
	"footage/internal/services"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or validate the configuration file",
	}
	cmd.AddCommand(newConfigInitCommand(), newConfigValidateCommand(ctx))
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var target string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a sample configuration file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			written, err := config.WriteSample(target, overwrite)
			if errors.Is(err, config.ErrSampleExists) {
				return services.Wrap(services.ErrValidation, "config", "init",
					"pass --overwrite to replace it", err)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\nSet paths.projects_dir (or FOOTAGE_PROJECTS_DIR) before running init.\n", written)
			return nil
		},
	}
	cmd.Flags().StringVarP(&target, "path", "p", "", "Destination (default ~/.config/footage/config.toml)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

// config validate loads the file itself so a broken config is reported
// here rather than by the root pre-run.
func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Load the configuration and create its directories",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, resolved, exists, err := config.Load(strings.TrimSpace(*ctx.configFlag))
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}
			source := resolved
			if !exists {
				source += " (not found, defaults used)"
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config:   %s\n", source)
			fmt.Fprintf(out, "Projects: %s\n", cfg.Paths.ProjectsDir)
			fmt.Fprintf(out, "State:    %s\n", cfg.Paths.StateDir)
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
